package algo

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mountain-map/model"
)

func TestBuildNetwork(t *testing.T) {
	net := testNetwork(t)

	assert.Equal(t, len(testPOIs()), net.Len())
	assert.Equal(t, []string{"CH", "TA", "VS"}, net.RouteCodes())
	assert.Equal(t, []string{"ga-tam-an-summit", "ga-tam-an-top"}, net.RouteMembers("TA"))
	assert.Equal(t, []string{"coaster-base", "ga-chuahang-base", "ga-vansong-base", "parking"}, net.AreaMembers(areaBase))

	ids := net.IDs()
	assert.IsIncreasing(t, ids)
}

func TestBuildNetwork_ExcludesInvalidPOIs(t *testing.T) {
	pois := []model.POI{
		{ID: "ok", Lat: 11.37, Lng: 106.15},
		{ID: "", Name: "no id", Lat: 11.37, Lng: 106.15},
		{ID: "zero", Lat: 0, Lng: 0},
		{ID: "nan", Lat: math.NaN(), Lng: 106.15},
		{ID: "ok", Lat: 11.38, Lng: 106.16},
		{ID: CurrentLocationID, Lat: 11.37, Lng: 106.15},
	}

	net, err := BuildNetwork(pois, testSite())
	require.Error(t, err)
	require.NotNil(t, net)
	assert.Equal(t, 1, net.Len())

	var invalid *InvalidDataError
	assert.True(t, errors.As(err, &invalid))

	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok)
	assert.Len(t, joined.Unwrap(), 5)

	// 保留第一次出现的记录
	poi, ok := net.POI("ok")
	require.True(t, ok)
	assert.Equal(t, 11.37, poi.Lat)
}

func TestSharedRoutes(t *testing.T) {
	net, err := BuildNetwork([]model.POI{
		{ID: "x", Lat: 11.37, Lng: 106.15, Category: model.CategoryTransport, CableRoute: "A,B"},
		{ID: "y", Lat: 11.38, Lng: 106.16, Category: model.CategoryTransport, CableRoute: "B,C"},
		{ID: "z", Lat: 11.39, Lng: 106.17, Category: model.CategoryTransport, CableRoute: "C, A"},
		{ID: "w", Lat: 11.40, Lng: 106.18, Category: model.CategoryFood, CableRoute: "A"},
	}, testSite())
	require.NoError(t, err)

	assert.Equal(t, []string{"B"}, net.SharedRoutes("x", "y"))
	assert.Equal(t, []string{"A"}, net.SharedRoutes("x", "z"))
	assert.True(t, net.AreConnectedByRoute("x", "y"))
	assert.False(t, net.AreConnectedByRoute("x", "x"))
	// 非交通类 POI 的线路字段会被忽略
	assert.False(t, net.AreConnectedByRoute("x", "w"))
	assert.Empty(t, net.SharedRoutes("x", "missing"))

	label, ok := net.RouteLabel("y", "z")
	assert.True(t, ok)
	assert.Equal(t, "C", label)
}

func TestAreConnectedByArea(t *testing.T) {
	net := testNetwork(t)

	assert.True(t, net.AreConnectedByArea("parking", "ga-vansong-base"))
	assert.True(t, net.AreConnectedByArea("ga-vansong-base", "parking"))
	assert.False(t, net.AreConnectedByArea("parking", "chua-ba"))
	assert.False(t, net.AreConnectedByArea("parking", "parking"))
	// 没有区域的 POI 不和任何点同区域
	assert.False(t, net.AreConnectedByArea("food-stall", "parking"))
	assert.False(t, net.AreConnectedByArea("parking", "missing"))
}

func TestWithCurrentLocation(t *testing.T) {
	net := testNetwork(t)

	// 停车场旁边约 11 米
	live, err := net.WithCurrentLocation(model.Point{Lat: 11.3691, Lng: 106.1495})
	require.NoError(t, err)

	_, ok := net.POI(CurrentLocationID)
	assert.False(t, ok, "original network must stay untouched")
	_, ok = live.POI(CurrentLocationID)
	assert.True(t, ok)

	assert.True(t, live.AreConnectedByArea(CurrentLocationID, "parking"))
	assert.True(t, live.AreConnectedByArea("parking", CurrentLocationID))
	assert.False(t, live.AreConnectedByArea(CurrentLocationID, "chua-ba"))
	assert.False(t, live.AreConnectedByArea(CurrentLocationID, CurrentLocationID))
	assert.Equal(t, areaBase, live.EffectiveArea(CurrentLocationID))

	far, err := net.WithCurrentLocation(model.Point{Lat: 11.50, Lng: 106.30})
	require.NoError(t, err)
	assert.Equal(t, "", far.EffectiveArea(CurrentLocationID))

	_, err = net.WithCurrentLocation(model.Point{})
	assert.Error(t, err)
}

func TestNearest(t *testing.T) {
	net := testNetwork(t)

	poi, dist := net.Nearest(model.Point{Lat: 11.38021, Lng: 106.16481})
	require.NotNil(t, poi)
	assert.Equal(t, "chua-ba", poi.ID)
	assert.Less(t, dist, 5.0)

	empty, _ := BuildNetwork(nil, testSite())
	poi, dist = empty.Nearest(model.Point{Lat: 11.38, Lng: 106.16})
	assert.Nil(t, poi)
	assert.Equal(t, -1.0, dist)
}

func TestDistance(t *testing.T) {
	net := testNetwork(t)
	assert.Equal(t, -1.0, net.Distance("parking", "missing"))
	assert.InDelta(t, net.Distance("parking", "food-stall"), net.Distance("food-stall", "parking"), 1e-9)
	assert.Greater(t, net.Distance("parking", "chua-ba"), testSite().MaxWalkDistance)
}
