package algo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mountain-map/model"
)

const (
	areaBase   = "Chân núi"
	areaUpper  = "Chùa Bà"
	areaSummit = "Đỉnh núi"
)

// 测试用的小型景区:
// 山脚和 Chùa Bà 之间有 VS、CH 两条索道和一条滑道, Chùa Bà 到山顶只有 TA 线
func testPOIs() []model.POI {
	return []model.POI{
		{ID: "ga-vansong-base", Name: "Ga Vân Sơn", Lat: 11.3700, Lng: 106.1500, Category: model.CategoryTransport, Area: areaBase, CableRoute: "VS"},
		{ID: "ga-chuahang-base", Name: "Ga Chùa Hang", Lat: 11.3705, Lng: 106.1510, Category: model.CategoryTransport, Area: areaBase, CableRoute: "CH"},
		{ID: "coaster-base", Name: "Máng trượt chân núi", Lat: 11.3710, Lng: 106.1505, Category: model.CategoryTransport, Area: areaBase},
		{ID: "parking", Name: "Bãi đỗ xe", Lat: 11.3690, Lng: 106.1495, Category: model.CategoryParking, Area: areaBase},

		{ID: "ga-vansong-top", Name: "Ga Vân Sơn (trên)", Lat: 11.3800, Lng: 106.1650, Category: model.CategoryTransport, Area: areaUpper, CableRoute: "VS"},
		{ID: "ga-chuahang-top", Name: "Ga Chùa Hang (trên)", Lat: 11.3805, Lng: 106.1655, Category: model.CategoryTransport, Area: areaUpper, CableRoute: "CH"},
		{ID: "ga-tam-an-top", Name: "Ga Tâm An", Lat: 11.3810, Lng: 106.1645, Category: model.CategoryTransport, Area: areaUpper, CableRoute: "TA"},
		{ID: "coaster-top", Name: "Máng trượt Chùa Bà", Lat: 11.3808, Lng: 106.1660, Category: model.CategoryTransport, Area: areaUpper},
		{ID: "chua-ba", Name: "Chùa Bà", Lat: 11.3802, Lng: 106.1648, Category: model.CategoryReligious, Area: areaUpper},

		{ID: "ga-tam-an-summit", Name: "Ga đỉnh núi", Lat: 11.3850, Lng: 106.1700, Category: model.CategoryTransport, Area: areaSummit, CableRoute: "TA"},
		{ID: "dinh-nui-viewpoint", Name: "Đỉnh Bà Đen", Lat: 11.3855, Lng: 106.1705, Category: model.CategoryViewpoint, Area: areaSummit},

		{ID: "food-stall", Name: "Quán ăn", Lat: 11.3695, Lng: 106.1490, Category: model.CategoryFood},
		{ID: "hidden-cave", Name: "Hang ẩn", Lat: 11.4500, Lng: 106.2500, Category: model.CategoryAttraction},
	}
}

func testSchedules() []model.OperatingSchedule {
	cable := `{"default":"07:00-18:00"}`
	return []model.OperatingSchedule{
		{POIID: "ga-vansong-base", OperatingHours: cable},
		{POIID: "ga-vansong-top", OperatingHours: cable},
		{POIID: "ga-chuahang-base", OperatingHours: cable},
		{POIID: "ga-chuahang-top", OperatingHours: cable},
		{POIID: "ga-tam-an-top", OperatingHours: cable},
		{POIID: "ga-tam-an-summit", OperatingHours: cable},
		{POIID: "coaster-top", OperatingHours: `{"default":"08:00-17:00","sun":"closed"}`},
	}
}

func testSite() Site {
	site := DefaultSite()
	site.CoasterStartID = "coaster-top"
	site.CoasterEndID = "coaster-base"
	site.UpperArea = areaUpper
	site.BaseArea = areaBase
	return site
}

func testNetwork(t *testing.T) *Network {
	t.Helper()
	net, err := BuildNetwork(testPOIs(), testSite())
	require.NoError(t, err)
	return net
}

func testEvaluator(t *testing.T, schedules []model.OperatingSchedule) *Evaluator {
	t.Helper()
	records, err := ParseSchedules(schedules)
	require.NoError(t, err)
	return NewEvaluator(records)
}

func testFinder(t *testing.T) *Finder {
	t.Helper()
	return NewFinder(testNetwork(t), testEvaluator(t, testSchedules()), testSite())
}

// 2024-06-03 是星期一, 2024-06-02 是星期日
var (
	mondayMorning = Moment{Weekday: time.Monday, Hour: 10}
	mondayEvening = Moment{Weekday: time.Monday, Hour: 20}
	sundayMorning = Moment{Weekday: time.Sunday, Hour: 10}

	mondayMorningTime = time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	sundayMorningTime = time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)
	mondayEveningTime = time.Date(2024, 6, 3, 20, 0, 0, 0, time.UTC)
)
