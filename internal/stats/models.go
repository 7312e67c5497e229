package stats

import "time"

type Totals struct {
	TotalUsers       int `json:"totalUsers"`
	TotalTrees       int `json:"totalTrees"`
	VerifiedTrees    int `json:"verifiedTrees"`
	RecentTrees      int `json:"recentTrees"`
	VerificationRate int `json:"verificationRate"`
}

type CountryCount struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
}

// MonthCount is one month's planting tally. Months with zero plantings are
// simply absent from the series; consumers treat gaps as zero.
type MonthCount struct {
	Month string `json:"month"` // "YYYY-MM"
	Count int    `json:"count"`
}

type PlatformResult struct {
	Stats         Totals         `json:"stats"`
	TopCountries  []CountryCount `json:"topCountries"`
	MonthlyGrowth []MonthCount   `json:"monthlyGrowth"`
}

// RegionRow is one verified, active planting reduced to its region key and the
// fields the rollup aggregates.
type RegionRow struct {
	Region       string
	UserID       string
	TreeType     string
	PlantingDate time.Time
	Lat          float64
	Lng          float64
}

type Region struct {
	Region         string    `json:"region"`
	TreeCount      int       `json:"treeCount"`
	PlanterCount   int       `json:"planterCount"`
	TypeCount      int       `json:"typeCount"`
	RecentPlanting time.Time `json:"recentPlanting"`
	CenterLat      float64   `json:"centerLat"`
	CenterLng      float64   `json:"centerLng"`
}

type RegionsResult struct {
	Regions []Region `json:"regions"`
	Level   string   `json:"level"`
}
