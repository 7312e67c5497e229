package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationRate(t *testing.T) {
	assert.Equal(t, 0, VerificationRate(0, 0))
	assert.Equal(t, 100, VerificationRate(10, 10))
	assert.Equal(t, 50, VerificationRate(1, 2))
	assert.Equal(t, 33, VerificationRate(1, 3))
	assert.Equal(t, 67, VerificationRate(2, 3))
}

func TestMonthlyGrowthSkipsEmptyMonths(t *testing.T) {
	dates := []time.Time{
		time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
		// february and march empty
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
	}

	series := MonthlyGrowth(dates)
	require.Len(t, series, 3)
	assert.Equal(t, MonthCount{Month: "2025-01", Count: 2}, series[0])
	assert.Equal(t, MonthCount{Month: "2025-04", Count: 1}, series[1])
	assert.Equal(t, MonthCount{Month: "2025-06", Count: 1}, series[2])

	// summing entries plus assumed-zero gaps reconstructs the total
	sum := 0
	for _, m := range series {
		sum += m.Count
	}
	assert.Equal(t, len(dates), sum)
}

func TestMonthlyGrowthZeroPadded(t *testing.T) {
	series := MonthlyGrowth([]time.Time{time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)})
	require.Len(t, series, 1)
	assert.Equal(t, "2024-09", series[0].Month)
}

func TestMonthlyGrowthEmpty(t *testing.T) {
	assert.Empty(t, MonthlyGrowth(nil))
}

func TestTopCountries(t *testing.T) {
	countries := []string{"ID", "ID", "ID", "ID", "BR", "BR", "KE", "", "", "US", "IN", "NG", "BR"}

	top := TopCountries(countries, 5)
	require.Len(t, top, 5)
	assert.Equal(t, CountryCount{Country: "ID", Count: 4}, top[0])
	assert.Equal(t, CountryCount{Country: "BR", Count: 3}, top[1])
	for _, c := range top {
		assert.NotEmpty(t, c.Country)
	}
}

func TestRegionsRollup(t *testing.T) {
	date := func(day int) time.Time {
		return time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC)
	}
	rows := []RegionRow{
		{Region: "Indonesia", UserID: "u1", TreeType: "teak", PlantingDate: date(1), Lat: -6.0, Lng: 106.0},
		{Region: "Indonesia", UserID: "u1", TreeType: "mahogany", PlantingDate: date(5), Lat: -7.0, Lng: 108.0},
		{Region: "Indonesia", UserID: "u2", TreeType: "teak", PlantingDate: date(3), Lat: -6.5, Lng: 107.0},
		{Region: "Brazil", UserID: "u3", TreeType: "ipe", PlantingDate: date(2), Lat: -15.0, Lng: -47.0},
		{Region: "", UserID: "u4", TreeType: "oak", PlantingDate: date(9), Lat: 0, Lng: 0},
	}

	regions := Regions(rows)
	require.Len(t, regions, 2)

	id := regions[0]
	assert.Equal(t, "Indonesia", id.Region)
	assert.Equal(t, 3, id.TreeCount)
	assert.Equal(t, 2, id.PlanterCount)
	assert.Equal(t, 2, id.TypeCount)
	assert.Equal(t, date(5), id.RecentPlanting)
	assert.InDelta(t, -6.5, id.CenterLat, 1e-9)
	assert.InDelta(t, 107.0, id.CenterLng, 1e-9)

	assert.Equal(t, "Brazil", regions[1].Region)
}

func TestRegionsCap(t *testing.T) {
	var rows []RegionRow
	for i := 0; i < 60; i++ {
		rows = append(rows, RegionRow{
			Region:       "region-" + string(rune('A'+i%26)) + string(rune('a'+i/26)),
			UserID:       "u",
			TreeType:     "oak",
			PlantingDate: time.Now(),
		})
	}
	assert.LessOrEqual(t, len(Regions(rows)), 50)
}
