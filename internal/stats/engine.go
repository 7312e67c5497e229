package stats

import (
	"fmt"
	"math"
	"sort"
	"time"
)

const maxRegions = 50

// VerificationRate returns round(verified/total*100), or 0 for an empty set.
func VerificationRate(verified, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(verified) / float64(total) * 100))
}

// MonthlyGrowth tallies plantings per calendar month, keyed "YYYY-MM" and
// sorted ascending. Empty months produce no entry.
func MonthlyGrowth(dates []time.Time) []MonthCount {
	counts := map[string]int{}
	for _, d := range dates {
		key := fmt.Sprintf("%04d-%02d", d.Year(), int(d.Month()))
		counts[key]++
	}

	series := make([]MonthCount, 0, len(counts))
	for month, count := range counts {
		series = append(series, MonthCount{Month: month, Count: count})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Month < series[j].Month
	})
	return series
}

// TopCountries counts verified plantings per country, skipping records with no
// country, and returns the top n by count.
func TopCountries(countries []string, n int) []CountryCount {
	counts := map[string]int{}
	for _, c := range countries {
		if c == "" {
			continue
		}
		counts[c]++
	}

	top := make([]CountryCount, 0, len(counts))
	for country, count := range counts {
		top = append(top, CountryCount{Country: country, Count: count})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Country < top[j].Country
	})
	if len(top) > n {
		top = top[:n]
	}
	return top
}

// Regions rolls verified plantings up by their region key. Rows with a null
// key are dropped entirely. Centroids are the mean of member coordinates.
func Regions(rows []RegionRow) []Region {
	type agg struct {
		region          Region
		planters, types map[string]struct{}
		sumLat, sumLng  float64
	}

	groups := map[string]*agg{}
	for _, row := range rows {
		if row.Region == "" {
			continue
		}
		g, ok := groups[row.Region]
		if !ok {
			g = &agg{
				region:   Region{Region: row.Region},
				planters: map[string]struct{}{},
				types:    map[string]struct{}{},
			}
			groups[row.Region] = g
		}
		g.region.TreeCount++
		g.planters[row.UserID] = struct{}{}
		g.types[row.TreeType] = struct{}{}
		if row.PlantingDate.After(g.region.RecentPlanting) {
			g.region.RecentPlanting = row.PlantingDate
		}
		g.sumLat += row.Lat
		g.sumLng += row.Lng
	}

	regions := make([]Region, 0, len(groups))
	for _, g := range groups {
		g.region.PlanterCount = len(g.planters)
		g.region.TypeCount = len(g.types)
		g.region.CenterLat = g.sumLat / float64(g.region.TreeCount)
		g.region.CenterLng = g.sumLng / float64(g.region.TreeCount)
		regions = append(regions, g.region)
	}
	sort.Slice(regions, func(i, j int) bool {
		if regions[i].TreeCount != regions[j].TreeCount {
			return regions[i].TreeCount > regions[j].TreeCount
		}
		return regions[i].Region < regions[j].Region
	})
	if len(regions) > maxRegions {
		regions = regions[:maxRegions]
	}
	return regions
}
