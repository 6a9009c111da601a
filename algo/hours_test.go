package algo

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mountain-map/model"
)

func record(t *testing.T, hours string) *ScheduleRecord {
	t.Helper()
	rec, err := ParseScheduleRecord(model.OperatingSchedule{POIID: "station", OperatingHours: hours})
	require.NoError(t, err)
	return rec
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		hours  string
		at     Moment
		state  State
		reason string
	}{
		{"before open", `{"mon":"08:00-17:00"}`, Moment{time.Monday, 7, 59}, BeforeOpen, "opens at 08:00"},
		{"at close", `{"mon":"08:00-17:00"}`, Moment{time.Monday, 17, 0}, AfterClose, "closed at 17:00"},
		{"at open", `{"mon":"08:00-17:00"}`, Moment{time.Monday, 8, 0}, Operational, "open until 17:00"},
		{"last minute", `{"mon":"08:00-17:00"}`, Moment{time.Monday, 16, 59}, Operational, "open until 17:00"},
		{"default closed", `{"default":"closed"}`, Moment{time.Wednesday, 12, 0}, Closed, "closed today"},
		{"default closed on sunday", `{"default":"closed"}`, Moment{time.Sunday, 9, 30}, Closed, "closed today"},
		{"day overrides default", `{"default":"07:00-18:00","sun":"closed"}`, Moment{time.Sunday, 10, 0}, Closed, "closed today"},
		{"falls back to default", `{"default":"07:00-18:00","sun":"closed"}`, Moment{time.Tuesday, 10, 0}, Operational, "open until 18:00"},
		{"no rule for the day", `{"mon":"08:00-17:00"}`, Moment{time.Tuesday, 10, 0}, NoSchedule, "no schedule"},
		{"keys are case insensitive", `{"MON":"08:00-17:00"}`, Moment{time.Monday, 9, 0}, Operational, "open until 17:00"},
		{"closed is case insensitive", `{"default":"Closed"}`, Moment{time.Monday, 9, 0}, Closed, "closed today"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(record(t, tt.hours), tt.at)
			assert.Equal(t, tt.state, got.State)
			assert.Equal(t, tt.reason, got.Reason)
			assert.NoError(t, got.Err)
		})
	}
}

func TestEvaluate_InvalidRange(t *testing.T) {
	values := []string{
		"8:00-17:00",
		"08:00 - 17:00",
		"17:00-08:00",
		"08:00-08:00",
		"24:00-25:00",
		"08:60-17:00",
		"always",
	}
	for _, v := range values {
		t.Run(v, func(t *testing.T) {
			rec := &ScheduleRecord{POIID: "station", Days: map[string]string{model.DayDefault: v}}
			got := Evaluate(rec, Moment{time.Monday, 10, 0})
			assert.Equal(t, NoSchedule, got.State)
			assert.Contains(t, got.Reason, "invalid operating hours")

			var ferr *ScheduleFormatError
			require.True(t, errors.As(got.Err, &ferr))
			assert.Equal(t, v, ferr.Value)
			assert.False(t, got.Operational())
		})
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	rec := record(t, `{"default":"07:00-18:00","sat":"09:00-12:00"}`)
	at := Moment{time.Saturday, 11, 30}
	first := Evaluate(rec, at)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Evaluate(rec, at))
	}
}

func TestParseScheduleRecord(t *testing.T) {
	t.Run("not json", func(t *testing.T) {
		rec, err := ParseScheduleRecord(model.OperatingSchedule{POIID: "s", OperatingHours: "08:00-17:00"})
		require.Error(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, NoSchedule, Evaluate(rec, mondayMorning).State)
	})

	t.Run("non-string day", func(t *testing.T) {
		rec, err := ParseScheduleRecord(model.OperatingSchedule{POIID: "s", OperatingHours: `{"default":"07:00-18:00","sun":42}`})
		require.Error(t, err)
		assert.True(t, Evaluate(rec, mondayMorning).Operational())
		assert.Equal(t, NoSchedule, Evaluate(rec, sundayMorning).State)
	})

	t.Run("empty", func(t *testing.T) {
		rec, err := ParseScheduleRecord(model.OperatingSchedule{POIID: "s"})
		require.NoError(t, err)
		assert.Equal(t, NoSchedule, Evaluate(rec, mondayMorning).State)
	})
}

func TestParseSchedules_KeepsGoodRecords(t *testing.T) {
	records, err := ParseSchedules([]model.OperatingSchedule{
		{POIID: "good", OperatingHours: `{"default":"07:00-18:00"}`},
		{POIID: "bad", OperatingHours: `[1,2,3]`},
	})
	require.Error(t, err)
	require.Len(t, records, 2)
	assert.True(t, Evaluate(records["good"], mondayMorning).Operational())
	assert.False(t, Evaluate(records["bad"], mondayMorning).Operational())
}

func TestEvaluator_StatusOf(t *testing.T) {
	hours := testEvaluator(t, []model.OperatingSchedule{
		{POIID: "station", OperatingHours: `{"default":"07:00-18:00"}`},
		{POIID: "temple", OperatingHours: `{"default":"closed"}`},
	})

	station := &model.POI{ID: "station", Category: model.CategoryTransport}
	bare := &model.POI{ID: "bare", Category: "Transport"}
	cafe := &model.POI{ID: "cafe", Category: model.CategoryFood}
	temple := &model.POI{ID: "temple", Category: model.CategoryReligious}

	assert.True(t, hours.StatusOf(station, mondayMorning).Operational())
	assert.Equal(t, AfterClose, hours.StatusOf(station, mondayEvening).State)

	// 交通类没有运营时间: 状态未知, 不可用
	assert.Equal(t, NoSchedule, hours.StatusOf(bare, mondayMorning).State)

	// 非交通类不受运营时间限制, 但有记录时照常评估
	assert.True(t, hours.StatusOf(cafe, mondayEvening).Operational())
	assert.Equal(t, Closed, hours.StatusOf(temple, mondayMorning).State)

	_, ok := hours.Record("station")
	assert.True(t, ok)
	_, ok = hours.Record("cafe")
	assert.False(t, ok)
}

func TestMomentOf(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	at := time.Date(2024, 6, 3, 2, 30, 0, 0, time.UTC).In(loc)
	assert.Equal(t, Moment{Weekday: time.Monday, Hour: 9, Minute: 30}, MomentOf(at))
}

func TestState_MarshalText(t *testing.T) {
	text, err := Operational.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "operational", string(text))
	assert.Equal(t, "before_open", BeforeOpen.String())
}
