package geomap

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

func (s *Service) points(ctx context.Context, params query.Params) ([]Point, error) {
	f, err := query.Build(params, time.Now())
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT p.id, p.tree_type, p.planting_date, p.latitude, p.longitude,
		       COALESCE((SELECT url FROM planting_images i WHERE i.planting_id = p.id ORDER BY uploaded_at LIMIT 1),''),
		       p.user_id, u.name, p.is_verified
		FROM plantings p JOIN users u ON u.id = p.user_id
		`+f.Where(), f.Args()...)
	if err != nil {
		return nil, apperr.Store(err)
	}
	defer rows.Close()

	var points []Point
	for rows.Next() {
		var p Point
		if err := rows.Scan(&p.ID, &p.TreeType, &p.PlantingDate, &p.Lat, &p.Lng,
			&p.Image, &p.PlantedBy, &p.PlanterName, &p.IsVerified); err != nil {
			return nil, apperr.Store(err)
		}
		points = append(points, p)
	}
	return points, nil
}

// MapTrees returns clustered or per-point map data depending on zoom.
func (s *Service) MapTrees(ctx context.Context, params query.Params, zoom, limit int) (MapResult, error) {
	points, err := s.points(ctx, params)
	if err != nil {
		return MapResult{}, err
	}

	entries, clustered := Cluster(points, zoom, limit)
	return MapResult{
		Trees:     entries,
		Clustered: clustered,
		Zoom:      zoom,
		Total:     len(entries),
	}, nil
}

// HeatmapData returns density cells over verified plantings only.
func (s *Service) HeatmapData(ctx context.Context, params query.Params, intensity string) (HeatmapResult, error) {
	params.Verified = query.Bool(true)

	points, err := s.points(ctx, params)
	if err != nil {
		return HeatmapResult{}, err
	}

	if _, ok := heatmapGrids[intensity]; !ok {
		intensity = "medium"
	}
	cells := Heatmap(points, intensity)
	return HeatmapResult{
		Heatmap:   cells,
		Intensity: intensity,
		Total:     len(cells),
	}, nil
}
