package geomap

import (
	"sort"

	"github.com/shimrin23/GreenPulse/internal/shared/geo"
)

// Clustering kicks in below this zoom; closer views list individual points.
const clusterZoomThreshold = 12

const maxHeatmapCells = 10000

// CellSizeForZoom picks the grid granularity in degrees.
func CellSizeForZoom(zoom int) float64 {
	if zoom < 8 {
		return 0.1
	}
	return 0.05
}

type cellKey struct {
	lat, lng float64
}

// Cluster buckets points onto a fixed-origin grid when the zoom is far enough
// out. Centroids are the mean of member coordinates, not the cell center, so
// sparse cells render where their trees actually are. Clusters of five or
// fewer keep per-point detail; larger ones only summarize. Output is ordered
// by grid cell, so permuted input produces identical results.
func Cluster(points []Point, zoom, limit int) ([]MapEntry, bool) {
	if zoom >= clusterZoomThreshold {
		entries := make([]MapEntry, 0, len(points))
		for i := range points {
			if len(entries) >= limit {
				break
			}
			p := points[i]
			entries = append(entries, MapEntry{
				Count: 1,
				Lat:   p.Lat,
				Lng:   p.Lng,
				Point: &p,
			})
		}
		return entries, false
	}

	cellSize := CellSizeForZoom(zoom)
	buckets := map[cellKey][]Point{}
	for _, p := range points {
		key := cellKey{
			lat: geo.SnapToGrid(p.Lat, cellSize),
			lng: geo.SnapToGrid(p.Lng, cellSize),
		}
		buckets[key] = append(buckets[key], p)
	}

	keys := make([]cellKey, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].lat != keys[j].lat {
			return keys[i].lat < keys[j].lat
		}
		return keys[i].lng < keys[j].lng
	})

	entries := make([]MapEntry, 0, len(keys))
	for _, key := range keys {
		if len(entries) >= limit {
			break
		}
		members := buckets[key]

		entry := MapEntry{
			Cluster: true,
			Count:   len(members),
		}
		typeSet := map[string]struct{}{}
		var sumLat, sumLng float64
		for _, p := range members {
			sumLat += p.Lat
			sumLng += p.Lng
			typeSet[p.TreeType] = struct{}{}
			if p.PlantingDate.After(entry.RecentDate) {
				entry.RecentDate = p.PlantingDate
			}
		}
		entry.Lat = sumLat / float64(len(members))
		entry.Lng = sumLng / float64(len(members))
		for t := range typeSet {
			entry.Types = append(entry.Types, t)
		}
		sort.Strings(entry.Types)
		if len(members) <= 5 {
			entry.Trees = append(entry.Trees, members...)
		}
		entries = append(entries, entry)
	}
	return entries, true
}

var heatmapGrids = map[string]float64{
	"low":    0.01,
	"medium": 0.005,
	"high":   0.002,
}

// Heatmap aggregates points onto an intensity-selected grid, emitting only
// cell weights. No per-record detail is ever exposed here.
func Heatmap(points []Point, intensity string) []HeatCell {
	gridSize, ok := heatmapGrids[intensity]
	if !ok {
		gridSize = heatmapGrids["medium"]
	}

	weights := map[cellKey]int{}
	for _, p := range points {
		key := cellKey{
			lat: geo.SnapToGrid(p.Lat, gridSize),
			lng: geo.SnapToGrid(p.Lng, gridSize),
		}
		weights[key]++
	}

	cells := make([]HeatCell, 0, len(weights))
	for key, w := range weights {
		cells = append(cells, HeatCell{Lat: key.lat, Lng: key.lng, Weight: w})
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Lat != cells[j].Lat {
			return cells[i].Lat < cells[j].Lat
		}
		return cells[i].Lng < cells[j].Lng
	})
	if len(cells) > maxHeatmapCells {
		cells = cells[:maxHeatmapCells]
	}
	return cells
}
