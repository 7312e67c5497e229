package stats

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shimrin23/GreenPulse/internal/db"
	"github.com/shimrin23/GreenPulse/internal/shared/apperr"

	"github.com/redis/go-redis/v9"
)

const (
	platformCacheKey = "stats:platform"
	platformCacheTTL = time.Minute
)

type Service struct {
	db    db.Querier
	cache *redis.Client
}

func NewService(db db.Querier, cache *redis.Client) *Service {
	return &Service{db: db, cache: cache}
}

// Platform computes the platform-wide rollup. Results are cached briefly in
// redis when a client is configured; the stats page is the hottest read and
// tolerates a minute of staleness.
func (s *Service) Platform(ctx context.Context) (PlatformResult, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, platformCacheKey).Bytes(); err == nil {
			var cached PlatformResult
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}

	var result PlatformResult

	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE is_active = TRUE`).
		Scan(&result.Stats.TotalUsers); err != nil {
		return PlatformResult{}, apperr.Store(err)
	}

	if err := s.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_verified),
		       COUNT(*) FILTER (WHERE created_at >= now() - interval '30 days')
		FROM plantings WHERE is_active = TRUE
	`).Scan(&result.Stats.TotalTrees, &result.Stats.VerifiedTrees, &result.Stats.RecentTrees); err != nil {
		return PlatformResult{}, apperr.Store(err)
	}
	result.Stats.VerificationRate = VerificationRate(result.Stats.VerifiedTrees, result.Stats.TotalTrees)

	countries, err := s.verifiedCountries(ctx)
	if err != nil {
		return PlatformResult{}, err
	}
	result.TopCountries = TopCountries(countries, 5)

	dates, err := s.recentCreationDates(ctx, time.Now().Add(-6*30*24*time.Hour))
	if err != nil {
		return PlatformResult{}, err
	}
	result.MonthlyGrowth = MonthlyGrowth(dates)

	if s.cache != nil {
		if raw, err := json.Marshal(result); err == nil {
			_ = s.cache.Set(ctx, platformCacheKey, raw, platformCacheTTL).Err()
		}
	}
	return result, nil
}

func (s *Service) verifiedCountries(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `
		SELECT COALESCE(country,'') FROM plantings
		WHERE is_active = TRUE AND is_verified = TRUE
	`)
	if err != nil {
		return nil, apperr.Store(err)
	}
	defer rows.Close()

	var countries []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, apperr.Store(err)
		}
		countries = append(countries, c)
	}
	return countries, nil
}

func (s *Service) recentCreationDates(ctx context.Context, since time.Time) ([]time.Time, error) {
	rows, err := s.db.Query(ctx, `
		SELECT created_at FROM plantings
		WHERE is_active = TRUE AND created_at >= $1
	`, since)
	if err != nil {
		return nil, apperr.Store(err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, apperr.Store(err)
		}
		dates = append(dates, d)
	}
	return dates, nil
}

var regionColumns = map[string]string{
	"country": "p.country",
	"state":   "p.state",
	"city":    "p.city",
}

// RegionStats rolls verified plantings up by country, state or city.
func (s *Service) RegionStats(ctx context.Context, level string) (RegionsResult, error) {
	column, ok := regionColumns[level]
	if !ok {
		return RegionsResult{}, apperr.Validation("level", "must be country, state or city")
	}

	rows, err := s.db.Query(ctx, `
		SELECT COALESCE(`+column+`,''), p.user_id, p.tree_type, p.planting_date, p.latitude, p.longitude
		FROM plantings p
		WHERE p.is_active = TRUE AND p.is_verified = TRUE
	`)
	if err != nil {
		return RegionsResult{}, apperr.Store(err)
	}
	defer rows.Close()

	var regionRows []RegionRow
	for rows.Next() {
		var r RegionRow
		if err := rows.Scan(&r.Region, &r.UserID, &r.TreeType, &r.PlantingDate, &r.Lat, &r.Lng); err != nil {
			return RegionsResult{}, apperr.Store(err)
		}
		regionRows = append(regionRows, r)
	}

	return RegionsResult{
		Regions: Regions(regionRows),
		Level:   level,
	}, nil
}
