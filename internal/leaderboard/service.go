package leaderboard

import (
	"context"
	"time"

	"github.com/shimrin23/GreenPulse/internal/db"
	"github.com/shimrin23/GreenPulse/internal/query"
	"github.com/shimrin23/GreenPulse/internal/shared/apperr"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// Leaderboard ranks users over the verified, active plantings matching the
// filter. The full sorted order is computed once and sliced for the page, the
// podium and the requesting user's own rank.
func (s *Service) Leaderboard(ctx context.Context, params query.Params, page, limit int, currentUserID string) (Result, error) {
	params.Verified = query.Bool(true)

	f, err := query.Build(params, time.Now())
	if err != nil {
		return Result{}, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT p.user_id, u.name, COALESCE(u.profile_picture,''), u.trees_planted, u.is_active,
		       p.created_at, COALESCE(p.city,'')
		FROM plantings p JOIN users u ON u.id = p.user_id
		`+f.Where(), f.Args()...)
	if err != nil {
		return Result{}, apperr.Store(err)
	}
	defer rows.Close()

	var plantings []PlantingRow
	for rows.Next() {
		var r PlantingRow
		if err := rows.Scan(&r.UserID, &r.Name, &r.ProfilePicture, &r.TotalTrees, &r.UserActive,
			&r.CreatedAt, &r.City); err != nil {
			return Result{}, apperr.Store(err)
		}
		plantings = append(plantings, r)
	}

	full := Rank(plantings)

	skip := (page - 1) * limit
	pageEntries := []Entry{}
	if skip < len(full) {
		end := skip + limit
		if end > len(full) {
			end = len(full)
		}
		pageEntries = full[skip:end]
	}

	topThree := full
	if len(topThree) > 3 {
		topThree = topThree[:3]
	}

	var currentUserRank *UserRank
	if currentUserID != "" {
		currentUserRank = Locate(full, currentUserID)
	}

	totalUsers := len(full)
	totalPages := 0
	if limit > 0 {
		totalPages = (totalUsers + limit - 1) / limit
	}

	return Result{
		Leaderboard:     pageEntries,
		TopThree:        topThree,
		CurrentUserRank: currentUserRank,
		Pagination: Pagination{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalUsers:  totalUsers,
			HasNextPage: page < totalPages,
			HasPrevPage: page > 1,
		},
		Filters: Filters{
			Timeframe: timeframeOrAll(params.Timeframe),
			Location:  params.Location,
		},
	}, nil
}

func timeframeOrAll(tf string) string {
	if tf == "" {
		return "all"
	}
	return tf
}
