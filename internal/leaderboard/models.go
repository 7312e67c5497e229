package leaderboard

import "time"

// PlantingRow is one verified, active planting joined to its owner, the raw
// material the ranking engine aggregates.
type PlantingRow struct {
	UserID         string
	Name           string
	ProfilePicture string
	TotalTrees     int
	UserActive     bool
	CreatedAt      time.Time
	City           string
}

type Entry struct {
	Rank           int       `json:"rank"`
	UserID         string    `json:"userId"`
	Name           string    `json:"name"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	TreeCount      int       `json:"treeCount"`
	RecentTree     time.Time `json:"recentTree"`
	Locations      []string  `json:"locations"`
	TotalTrees     int       `json:"totalTrees"`
}

type UserRank struct {
	Rank      int `json:"rank"`
	TreeCount int `json:"treeCount"`
}

type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalUsers  int  `json:"totalUsers"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

type Filters struct {
	Timeframe string `json:"timeframe"`
	Location  string `json:"location,omitempty"`
}

type Result struct {
	Leaderboard     []Entry    `json:"leaderboard"`
	TopThree        []Entry    `json:"topThree"`
	CurrentUserRank *UserRank  `json:"currentUserRank"`
	Pagination      Pagination `json:"pagination"`
	Filters         Filters    `json:"filters"`
}
