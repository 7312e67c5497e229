package planting

import "time"

type Planting struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	PlanterName   string     `json:"planter_name,omitempty"`
	TreeType      string     `json:"tree_type"`
	Species       string     `json:"species,omitempty"`
	Description   string     `json:"description,omitempty"`
	Address       string     `json:"address"`
	Lat           float64    `json:"lat"`
	Lng           float64    `json:"lng"`
	City          string     `json:"city,omitempty"`
	State         string     `json:"state,omitempty"`
	Country       string     `json:"country,omitempty"`
	PlantingDate  time.Time  `json:"planting_date"`
	HeightCm      float64    `json:"height_cm,omitempty"`
	DiameterCm    float64    `json:"diameter_cm,omitempty"`
	HealthStatus  string     `json:"health_status"`
	IsVerified    bool       `json:"is_verified"`
	VerifiedBy    string     `json:"verified_by,omitempty"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`
	IsActive      bool       `json:"is_active"`
	Images        []Image    `json:"images,omitempty"`
	LikeCount     int        `json:"like_count"`
	CommentCount  int        `json:"comment_count"`
	IsLikedByUser bool       `json:"is_liked_by_user"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type Image struct {
	ID         string    `json:"id"`
	PlantingID string    `json:"planting_id"`
	URL        string    `json:"url"`
	PublicID   string    `json:"public_id,omitempty"`
	Caption    string    `json:"caption,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type Comment struct {
	ID         string    `json:"id"`
	PlantingID string    `json:"planting_id"`
	UserID     string    `json:"user_id"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalTrees  int  `json:"totalTrees"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// Summary is the compact shape broadcast on the live feed.
type Summary struct {
	ID         string    `json:"id"`
	Event      string    `json:"event"`
	TreeType   string    `json:"tree_type"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	City       string    `json:"city,omitempty"`
	Country    string    `json:"country,omitempty"`
	UserID     string    `json:"user_id"`
	IsVerified bool      `json:"is_verified"`
	At         time.Time `json:"at"`
}

var healthStatuses = map[string]struct{}{
	"excellent": {},
	"good":      {},
	"fair":      {},
	"poor":      {},
	"dead":      {},
}

func validHealthStatus(s string) bool {
	_, ok := healthStatuses[s]
	return ok
}
