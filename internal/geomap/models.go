package geomap

import "time"

// Point is one active planting's coordinates plus the details exposed when a
// cluster is small enough to enumerate.
type Point struct {
	ID           string    `json:"id"`
	TreeType     string    `json:"tree_type"`
	PlantingDate time.Time `json:"planting_date"`
	Lat          float64   `json:"lat"`
	Lng          float64   `json:"lng"`
	Image        string    `json:"image,omitempty"`
	PlantedBy    string    `json:"planted_by"`
	PlanterName  string    `json:"planter_name,omitempty"`
	IsVerified   bool      `json:"is_verified"`
}

// MapEntry is either a cluster summary or a single unclustered point.
type MapEntry struct {
	Cluster    bool      `json:"cluster"`
	Count      int       `json:"count"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	Types      []string  `json:"types,omitempty"`
	RecentDate time.Time `json:"recentDate,omitempty"`
	Trees      []Point   `json:"trees,omitempty"`
	Point      *Point    `json:"point,omitempty"`
}

type MapResult struct {
	Trees     []MapEntry `json:"trees"`
	Clustered bool       `json:"clustered"`
	Zoom      int        `json:"zoom"`
	Total     int        `json:"total"`
}

type HeatCell struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Weight int     `json:"weight"`
}

type HeatmapResult struct {
	Heatmap   []HeatCell `json:"heatmap"`
	Intensity string     `json:"intensity"`
	Total     int        `json:"total"`
}
