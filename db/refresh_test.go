package db

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mountain-map/algo"
	"mountain-map/model"
)

type fakeSource struct {
	pois      []model.POI
	schedules []model.OperatingSchedule
	err       error
	calls     int
}

func (f *fakeSource) LoadSiteData(ctx context.Context) ([]model.POI, []model.OperatingSchedule, error) {
	f.calls++
	return f.pois, f.schedules, f.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRefresher_Refresh(t *testing.T) {
	source := &fakeSource{
		pois: []model.POI{
			{ID: "a", Lat: 11.37, Lng: 106.15, Category: model.CategoryTransport, CableRoute: "VS"},
			{ID: "b", Lat: 11.38, Lng: 106.16, Category: model.CategoryTransport, CableRoute: "VS"},
		},
		schedules: []model.OperatingSchedule{{POIID: "a", OperatingHours: `{"default":"07:00-18:00"}`}},
	}
	planner := algo.NewPlanner(algo.DefaultSite(), quietLogger())
	r := NewRefresher(source, planner, 0, quietLogger())

	stats, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.POIs)
	assert.Equal(t, 1, stats.Schedules)
	assert.Empty(t, stats.Warnings)
	assert.Equal(t, 2, planner.Snapshot().Network.Len())
}

func TestRefresher_KeepsSnapshotOnFailure(t *testing.T) {
	source := &fakeSource{pois: []model.POI{{ID: "a", Lat: 11.37, Lng: 106.15}}}
	planner := algo.NewPlanner(algo.DefaultSite(), quietLogger())
	r := NewRefresher(source, planner, 0, quietLogger())

	_, err := r.Refresh(context.Background())
	require.NoError(t, err)
	before := planner.Snapshot()

	source.err = errors.New("connection refused")
	_, err = r.Refresh(context.Background())
	require.Error(t, err)
	assert.Same(t, before, planner.Snapshot())
}

func TestRefresher_Warnings(t *testing.T) {
	source := &fakeSource{
		pois: []model.POI{
			{ID: "a", Lat: 11.37, Lng: 106.15},
			{ID: "no-position"},
		},
		schedules: []model.OperatingSchedule{{POIID: "a", OperatingHours: "08:00-17:00"}},
	}
	planner := algo.NewPlanner(algo.DefaultSite(), quietLogger())
	r := NewRefresher(source, planner, 0, quietLogger())

	stats, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, stats.Warnings, 2)
	assert.Equal(t, 1, planner.Snapshot().Network.Len())
}

func TestRefresher_StartStopsOnCancel(t *testing.T) {
	source := &fakeSource{}
	r := NewRefresher(source, algo.NewPlanner(algo.DefaultSite(), quietLogger()), time.Hour, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop")
	}
}

func TestDecodeSeed(t *testing.T) {
	data := []byte(`{
		"pois": [
			{"id": "ga-vansong", "name": "Ga Vân Sơn", "latitude": 11.37, "longitude": 106.15, "category": "transport", "area": "Chân núi", "cable_route": "VS"}
		],
		"schedules": [
			{"id": "ga-vansong", "operating_hours": {"default": "07:00-18:00", "sun": "closed"}},
			{"id": "coaster", "operating_hours": "{\"default\":\"08:00-17:00\"}"},
			{"id": "unknown", "operating_hours": null},
			{"operating_hours": {"default": "closed"}}
		]
	}`)

	pois, schedules, err := DecodeSeed(data)
	require.NoError(t, err)
	require.Len(t, pois, 1)
	assert.Equal(t, "VS", pois[0].CableRoute)
	assert.Equal(t, 11.37, pois[0].Lat)

	require.Len(t, schedules, 3)
	assert.JSONEq(t, `{"default":"07:00-18:00","sun":"closed"}`, schedules[0].OperatingHours)
	assert.Equal(t, `{"default":"08:00-17:00"}`, schedules[1].OperatingHours)
	assert.Equal(t, "", schedules[2].OperatingHours)

	_, _, err = DecodeSeed([]byte(`not json`))
	assert.Error(t, err)
}

func TestDecodeSeed_BundledData(t *testing.T) {
	data, err := os.ReadFile("../site_data.json")
	require.NoError(t, err)

	pois, schedules, err := DecodeSeed(data)
	require.NoError(t, err)

	site := algo.DefaultSite()
	planner := algo.NewPlanner(site, quietLogger())
	require.NoError(t, planner.Reload(pois, schedules))

	net := planner.Snapshot().Network
	_, ok := net.POI(site.CoasterStartID)
	assert.True(t, ok)
	_, ok = net.POI(site.CoasterEndID)
	assert.True(t, ok)
	assert.True(t, planner.IsDescentAmbiguous("chua_ba", "bai_do_xe"))
}
