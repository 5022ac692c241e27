package repositories

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maintenance-route-service/internal/domain"
)

const seedJSON = `[
  {
    "device_id": "aq_01",
    "device_name": "Kampala Central",
    "latitude": 0.3136,
    "longitude": 32.5811,
    "last_active": "2026-10-01T08:00:00Z",
    "avg_uptime": 4,
    "avg_error_margin": 40,
    "airqlouds": ["kampala"],
    "site": {"_id": "site_1", "name": "Nakasero", "district": "Kampala", "country": "Uganda", "latitude": 0.3136, "longitude": 32.5811}
  },
  {
    "device_id": "aq_02",
    "device_name": "Entebbe Road",
    "latitude": 0.2500,
    "longitude": 32.5500,
    "avg_uptime": 24,
    "avg_error_margin": 0,
    "airqlouds": ["kampala", "wakiso"]
  }
]`

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "devices.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDeviceSeeds(t *testing.T) {
	devices, err := LoadDeviceSeeds(writeSeed(t, seedJSON))
	require.NoError(t, err)
	require.Len(t, devices, 2)

	first := devices[0]
	assert.Equal(t, "aq_01", first.DeviceID)
	require.NotNil(t, first.LastActive)
	assert.True(t, first.LastActive.Equal(time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)))
	require.NotNil(t, first.Site)
	assert.Equal(t, "site_1", first.Site.ID)
	assert.Equal(t, []string{"kampala"}, first.AirQlouds)

	assert.Nil(t, devices[1].Site)
	assert.Nil(t, devices[1].LastActive)
}

func TestLoadDeviceSeedsRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"empty id":     `[{"device_id": "  ", "latitude": 0, "longitude": 0}]`,
		"duplicate id": `[{"device_id": "a", "latitude": 0, "longitude": 0}, {"device_id": "a", "latitude": 1, "longitude": 1}]`,
		"bad latitude": `[{"device_id": "a", "latitude": 91, "longitude": 0}]`,
		"not json":     `{`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadDeviceSeeds(writeSeed(t, body))
			require.Error(t, err)
		})
	}

	_, err := LoadDeviceSeeds(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestBuildListDevicesQuery(t *testing.T) {
	query, args := buildListDevicesQuery(domain.DeviceFilter{})
	assert.NotContains(t, query, "WHERE")
	assert.Empty(t, args)

	query, args = buildListDevicesQuery(domain.DeviceFilter{
		AirQloud:  "kampala",
		DeviceIDs: []string{"aq_01", "aq_02"},
	})
	assert.Contains(t, query, "airqlouds ? $1")
	assert.Contains(t, query, "device_id = ANY($2::text[])")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(query), "ORDER BY device_id;"))
	require.Len(t, args, 2)
	assert.Equal(t, "kampala", args[0])
	assert.Equal(t, []string{"aq_01", "aq_02"}, args[1])
}

func TestDeviceArgsEncodesNullsAndGroups(t *testing.T) {
	args, err := deviceArgs(domain.MaintenanceMapItem{DeviceID: "aq_03"})
	require.NoError(t, err)
	require.Len(t, args, 14)
	assert.Equal(t, "[]", args[7])

	var groups []string
	require.NoError(t, json.Unmarshal([]byte(args[7].(string)), &groups))
	assert.Empty(t, groups)
}

func TestMemoryDeviceRepositoryFilters(t *testing.T) {
	repo, err := NewMemoryDeviceRepositoryFromJSON(writeSeed(t, seedJSON))
	require.NoError(t, err)
	ctx := context.Background()

	all, err := repo.ListDevices(ctx, domain.DeviceFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	wakiso, err := repo.ListDevices(ctx, domain.DeviceFilter{AirQloud: "wakiso"})
	require.NoError(t, err)
	require.Len(t, wakiso, 1)
	assert.Equal(t, "aq_02", wakiso[0].DeviceID)

	// aq_01 scores about 81.7, aq_02 scores 0.
	critical, err := repo.ListDevices(ctx, domain.DeviceFilter{MinCriticality: 50})
	require.NoError(t, err)
	require.Len(t, critical, 1)
	assert.Equal(t, "aq_01", critical[0].DeviceID)
}

func samplePlan(id string, created time.Time) *domain.MaintenancePlan {
	a := domain.MaintenanceMapItem{DeviceID: "a", Latitude: 0, Longitude: 0, AirQlouds: []string{"x"}}
	b := domain.MaintenanceMapItem{DeviceID: "b", Latitude: 0, Longitude: 1}
	return &domain.MaintenancePlan{
		ID:        id,
		CreatedAt: created,
		Preferences: domain.RouteOptimizationPreferences{
			WeightDistance:    0.5,
			WeightCriticality: 0.5,
			StartDevice:       &a,
		},
		BufferKm:        10,
		Route:           []domain.MaintenanceMapItem{a, b},
		Legs:            []domain.RouteLeg{{FromDeviceID: "a", ToDeviceID: "b", DistanceKm: 111.19, BearingDeg: 90, CumulativeKm: 111.19}},
		TotalDistanceKm: 111.19,
	}
}

func TestPlanRecordPreservesPlan(t *testing.T) {
	plan := samplePlan("p1", time.Date(2026, 10, 2, 9, 0, 0, 0, time.UTC))

	body, err := json.Marshal(toPlanRecord(plan))
	require.NoError(t, err)

	got, err := decodePlan(body)
	require.NoError(t, err)

	assert.Equal(t, plan.ID, got.ID)
	assert.True(t, plan.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, plan.Legs, got.Legs)
	assert.Equal(t, []string{"a", "b"}, []string{got.Route[0].DeviceID, got.Route[1].DeviceID})
	require.NotNil(t, got.Preferences.StartDevice)
	assert.Equal(t, "a", got.Preferences.StartDevice.DeviceID)
	assert.Empty(t, got.Suggestions)
}

func TestMemoryPlanRepository(t *testing.T) {
	repo := NewMemoryPlanRepository()
	ctx := context.Background()
	base := time.Date(2026, 10, 2, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.SavePlan(ctx, samplePlan("p1", base)))
	require.NoError(t, repo.SavePlan(ctx, samplePlan("p2", base.Add(time.Minute))))
	require.NoError(t, repo.SavePlan(ctx, samplePlan("p3", base.Add(2*time.Minute))))
	require.Error(t, repo.SavePlan(ctx, &domain.MaintenancePlan{}))

	got, err := repo.GetPlan(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, "p2", got.ID)

	_, err = repo.GetPlan(ctx, "nope")
	require.ErrorIs(t, err, domain.ErrPlanNotFound)

	plans, err := repo.ListPlans(ctx, 2)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "p3", plans[0].ID)
	assert.Equal(t, "p2", plans[1].ID)
}
