package planting

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shimrin23/GreenPulse/internal/db"
	"github.com/shimrin23/GreenPulse/internal/feed"
	"github.com/shimrin23/GreenPulse/internal/query"
	"github.com/shimrin23/GreenPulse/internal/shared/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Service struct {
	db  db.Querier
	hub *feed.Hub
}

func NewService(db db.Querier, hub *feed.Hub) *Service {
	return &Service{db: db, hub: hub}
}

const selectColumns = `
	p.id, p.user_id, u.name, p.tree_type, COALESCE(p.species,''), COALESCE(p.description,''),
	p.address, p.latitude, p.longitude, COALESCE(p.city,''), COALESCE(p.state,''), COALESCE(p.country,''),
	p.planting_date, COALESCE(p.height_cm,0), COALESCE(p.diameter_cm,0), p.health_status,
	p.is_verified, COALESCE(p.verified_by,''), p.verified_at, p.is_active,
	(SELECT COUNT(*) FROM planting_likes l WHERE l.planting_id = p.id),
	(SELECT COUNT(*) FROM planting_comments cm WHERE cm.planting_id = p.id),
	EXISTS(SELECT 1 FROM planting_likes l WHERE l.planting_id = p.id AND l.user_id = `

// List returns plantings matching the filter with pagination metadata.
// viewerID marks IsLikedByUser; it may be empty for anonymous requests.
func (s *Service) List(ctx context.Context, params query.Params, page, limit int, viewerID string) ([]Planting, Pagination, error) {
	f, err := query.Build(params, time.Now())
	if err != nil {
		return nil, Pagination{}, err
	}

	viewer := f.Bind(viewerID)
	limitPh := f.Bind(limit)
	offsetPh := f.Bind((page - 1) * limit)

	sql := `SELECT ` + selectColumns + viewer + `), p.created_at, p.updated_at
		FROM plantings p JOIN users u ON u.id = p.user_id
		` + f.Where() + `
		ORDER BY p.created_at DESC
		LIMIT ` + limitPh + ` OFFSET ` + offsetPh

	rows, err := s.db.Query(ctx, sql, f.Args()...)
	if err != nil {
		return nil, Pagination{}, apperr.Store(err)
	}
	defer rows.Close()

	var plantings []Planting
	var ids []string
	for rows.Next() {
		p, err := scanPlanting(rows)
		if err != nil {
			return nil, Pagination{}, apperr.Store(err)
		}
		ids = append(ids, p.ID)
		plantings = append(plantings, p)
	}

	images, err := s.loadImages(ctx, ids)
	if err != nil {
		return nil, Pagination{}, err
	}
	for i := range plantings {
		plantings[i].Images = images[plantings[i].ID]
	}

	cf, _ := query.Build(params, time.Now())
	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM plantings p `+cf.Where(), cf.Args()...).Scan(&total); err != nil {
		return nil, Pagination{}, apperr.Store(err)
	}

	return plantings, paginate(page, limit, total), nil
}

func (s *Service) Get(ctx context.Context, id, viewerID string) (Planting, error) {
	f := &query.Filter{}
	viewer := f.Bind(viewerID)
	idPh := f.Bind(id)

	row := s.db.QueryRow(ctx, `SELECT `+selectColumns+viewer+`), p.created_at, p.updated_at
		FROM plantings p JOIN users u ON u.id = p.user_id
		WHERE p.id = `+idPh+` AND p.is_active = TRUE`, f.Args()...)

	p, err := scanPlanting(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Planting{}, apperr.NotFound("planting")
		}
		return Planting{}, apperr.Store(err)
	}

	images, err := s.loadImages(ctx, []string{p.ID})
	if err != nil {
		return Planting{}, err
	}
	p.Images = images[p.ID]
	return p, nil
}

func (s *Service) Create(ctx context.Context, input Planting) (Planting, error) {
	if err := validate(&input); err != nil {
		return Planting{}, err
	}
	if len(input.Images) == 0 {
		return Planting{}, apperr.Validation("images", "at least one image is required")
	}

	input.ID = uuid.NewString()
	input.IsActive = true
	row := s.db.QueryRow(ctx, `
		INSERT INTO plantings (id, user_id, tree_type, species, description, address,
			latitude, longitude, city, state, country, planting_date, height_cm, diameter_cm, health_status, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,TRUE)
		RETURNING created_at, updated_at
	`, input.ID, input.UserID, input.TreeType, input.Species, input.Description, input.Address,
		input.Lat, input.Lng, input.City, input.State, input.Country, input.PlantingDate,
		input.HeightCm, input.DiameterCm, input.HealthStatus)
	if err := row.Scan(&input.CreatedAt, &input.UpdatedAt); err != nil {
		return Planting{}, apperr.Store(err)
	}

	for i := range input.Images {
		img := &input.Images[i]
		img.ID = uuid.NewString()
		img.PlantingID = input.ID
		if err := s.db.QueryRow(ctx, `
			INSERT INTO planting_images (id, planting_id, url, public_id, caption)
			VALUES ($1,$2,$3,$4,$5)
			RETURNING uploaded_at
		`, img.ID, img.PlantingID, img.URL, img.PublicID, img.Caption).Scan(&img.UploadedAt); err != nil {
			return Planting{}, apperr.Store(err)
		}
	}

	s.broadcast("created", input)
	return input, nil
}

func (s *Service) Update(ctx context.Context, id, userID string, patch Planting) (Planting, error) {
	owner, _, err := s.ownerOf(ctx, id)
	if err != nil {
		return Planting{}, err
	}
	if owner != userID {
		return Planting{}, apperr.Ownership("only the owner may modify this planting")
	}

	current, err := s.Get(ctx, id, userID)
	if err != nil {
		return Planting{}, err
	}

	applyPatch(&current, patch)
	if err := validate(&current); err != nil {
		return Planting{}, err
	}

	_, err = s.db.Exec(ctx, `
		UPDATE plantings
		SET tree_type=$2, species=$3, description=$4, address=$5,
		    latitude=$6, longitude=$7, city=$8, state=$9, country=$10,
		    planting_date=$11, height_cm=$12, diameter_cm=$13, health_status=$14, updated_at=now()
		WHERE id=$1
	`, current.ID, current.TreeType, current.Species, current.Description, current.Address,
		current.Lat, current.Lng, current.City, current.State, current.Country,
		current.PlantingDate, current.HeightCm, current.DiameterCm, current.HealthStatus)
	if err != nil {
		return Planting{}, apperr.Store(err)
	}
	return current, nil
}

// Delete soft-deletes; the record stays but leaves every query result, and the
// owner's verified counter is recomputed from what remains.
func (s *Service) Delete(ctx context.Context, id, userID string) error {
	owner, _, err := s.ownerOf(ctx, id)
	if err != nil {
		return err
	}
	if owner != userID {
		return apperr.Ownership("only the owner may delete this planting")
	}

	if _, err := s.db.Exec(ctx, `UPDATE plantings SET is_active = FALSE, updated_at = now() WHERE id = $1`, id); err != nil {
		return apperr.Store(err)
	}
	return s.recountTrees(ctx, owner)
}

// Verify marks a planting as attested by a second party. Self-verification is
// rejected: the whole point of the flag is that someone else vouched.
func (s *Service) Verify(ctx context.Context, id, verifierID string) (Planting, error) {
	owner, verified, err := s.ownerOf(ctx, id)
	if err != nil {
		return Planting{}, err
	}
	if owner == verifierID {
		return Planting{}, apperr.Ownership("plantings cannot be verified by their owner")
	}
	if !verified {
		if _, err := s.db.Exec(ctx, `
			UPDATE plantings SET is_verified = TRUE, verified_by = $2, verified_at = now(), updated_at = now()
			WHERE id = $1
		`, id, verifierID); err != nil {
			return Planting{}, apperr.Store(err)
		}
		if err := s.recountTrees(ctx, owner); err != nil {
			return Planting{}, err
		}
	}

	p, err := s.Get(ctx, id, verifierID)
	if err != nil {
		return Planting{}, err
	}
	s.broadcast("verified", p)
	return p, nil
}

// ToggleLike flips the caller's like. At most one like per user is enforced by
// the (planting_id, user_id) primary key, so a racing double-toggle degrades
// to an idempotent insert or delete.
func (s *Service) ToggleLike(ctx context.Context, id, userID string) (bool, int, error) {
	if _, _, err := s.ownerOf(ctx, id); err != nil {
		return false, 0, err
	}

	var liked bool
	if err := s.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM planting_likes WHERE planting_id = $1 AND user_id = $2)
	`, id, userID).Scan(&liked); err != nil {
		return false, 0, apperr.Store(err)
	}

	if liked {
		if _, err := s.db.Exec(ctx, `DELETE FROM planting_likes WHERE planting_id = $1 AND user_id = $2`, id, userID); err != nil {
			return false, 0, apperr.Store(err)
		}
	} else {
		if _, err := s.db.Exec(ctx, `
			INSERT INTO planting_likes (planting_id, user_id) VALUES ($1,$2)
			ON CONFLICT DO NOTHING
		`, id, userID); err != nil {
			return false, 0, apperr.Store(err)
		}
	}

	var count int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM planting_likes WHERE planting_id = $1`, id).Scan(&count); err != nil {
		return false, 0, apperr.Store(err)
	}
	return !liked, count, nil
}

func (s *Service) AddComment(ctx context.Context, id, userID, body string) (Comment, error) {
	if body == "" || len(body) > 300 {
		return Comment{}, apperr.Validation("body", "must be between 1 and 300 characters")
	}
	if _, _, err := s.ownerOf(ctx, id); err != nil {
		return Comment{}, err
	}

	comment := Comment{
		ID:         uuid.NewString(),
		PlantingID: id,
		UserID:     userID,
		Body:       body,
	}
	if err := s.db.QueryRow(ctx, `
		INSERT INTO planting_comments (id, planting_id, user_id, body)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at
	`, comment.ID, comment.PlantingID, comment.UserID, comment.Body).Scan(&comment.CreatedAt); err != nil {
		return Comment{}, apperr.Store(err)
	}
	return comment, nil
}

func (s *Service) Comments(ctx context.Context, id string) ([]Comment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, planting_id, user_id, body, created_at
		FROM planting_comments WHERE planting_id = $1
		ORDER BY created_at
	`, id)
	if err != nil {
		return nil, apperr.Store(err)
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var cm Comment
		if err := rows.Scan(&cm.ID, &cm.PlantingID, &cm.UserID, &cm.Body, &cm.CreatedAt); err != nil {
			return nil, apperr.Store(err)
		}
		comments = append(comments, cm)
	}
	return comments, nil
}

func (s *Service) ownerOf(ctx context.Context, id string) (string, bool, error) {
	var owner string
	var verified bool
	err := s.db.QueryRow(ctx, `
		SELECT user_id, is_verified FROM plantings WHERE id = $1 AND is_active = TRUE
	`, id).Scan(&owner, &verified)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, apperr.NotFound("planting")
		}
		return "", false, apperr.Store(err)
	}
	return owner, verified, nil
}

// recountTrees re-derives the denormalized counter from source of truth rather
// than incrementing it, so a missed event can never leave it permanently off.
func (s *Service) recountTrees(ctx context.Context, userID string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE users
		SET trees_planted = (
			SELECT COUNT(*) FROM plantings
			WHERE user_id = $1 AND is_verified = TRUE AND is_active = TRUE
		)
		WHERE id = $1
	`, userID)
	if err != nil {
		return apperr.Store(err)
	}
	return nil
}

func (s *Service) loadImages(ctx context.Context, plantingIDs []string) (map[string][]Image, error) {
	if len(plantingIDs) == 0 {
		return map[string][]Image{}, nil
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, planting_id, url, COALESCE(public_id,''), COALESCE(caption,''), uploaded_at
		FROM planting_images WHERE planting_id = ANY($1)
		ORDER BY uploaded_at
	`, plantingIDs)
	if err != nil {
		return nil, apperr.Store(err)
	}
	defer rows.Close()

	images := map[string][]Image{}
	for rows.Next() {
		var img Image
		if err := rows.Scan(&img.ID, &img.PlantingID, &img.URL, &img.PublicID, &img.Caption, &img.UploadedAt); err != nil {
			return nil, apperr.Store(err)
		}
		images[img.PlantingID] = append(images[img.PlantingID], img)
	}
	return images, nil
}

func (s *Service) broadcast(event string, p Planting) {
	if s.hub == nil {
		return
	}
	payload, _ := json.Marshal(Summary{
		ID:         p.ID,
		Event:      event,
		TreeType:   p.TreeType,
		Lat:        p.Lat,
		Lng:        p.Lng,
		City:       p.City,
		Country:    p.Country,
		UserID:     p.UserID,
		IsVerified: p.IsVerified,
		At:         time.Now(),
	})
	s.hub.Broadcast(feed.TopicPlantings, payload)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlanting(row rowScanner) (Planting, error) {
	var p Planting
	err := row.Scan(&p.ID, &p.UserID, &p.PlanterName, &p.TreeType, &p.Species, &p.Description,
		&p.Address, &p.Lat, &p.Lng, &p.City, &p.State, &p.Country,
		&p.PlantingDate, &p.HeightCm, &p.DiameterCm, &p.HealthStatus,
		&p.IsVerified, &p.VerifiedBy, &p.VerifiedAt, &p.IsActive,
		&p.LikeCount, &p.CommentCount, &p.IsLikedByUser,
		&p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func validate(p *Planting) error {
	if len(p.TreeType) < 2 || len(p.TreeType) > 50 {
		return apperr.Validation("tree_type", "must be between 2 and 50 characters")
	}
	if len(p.Address) < 5 || len(p.Address) > 200 {
		return apperr.Validation("address", "must be between 5 and 200 characters")
	}
	if p.Lat < -90 || p.Lat > 90 {
		return apperr.Validation("lat", "must be between -90 and 90")
	}
	if p.Lng < -180 || p.Lng > 180 {
		return apperr.Validation("lng", "must be between -180 and 180")
	}
	if p.PlantingDate.IsZero() {
		return apperr.Validation("planting_date", "is required")
	}
	if p.PlantingDate.After(time.Now()) {
		return apperr.Validation("planting_date", "cannot be in the future")
	}
	if len(p.Description) > 500 {
		return apperr.Validation("description", "cannot exceed 500 characters")
	}
	if len(p.Species) > 100 {
		return apperr.Validation("species", "cannot exceed 100 characters")
	}
	if p.HeightCm < 0 {
		return apperr.Validation("height_cm", "cannot be negative")
	}
	if p.DiameterCm < 0 {
		return apperr.Validation("diameter_cm", "cannot be negative")
	}
	if p.HealthStatus == "" {
		p.HealthStatus = "good"
	}
	if !validHealthStatus(p.HealthStatus) {
		return apperr.Validation("health_status", "must be excellent, good, fair, poor or dead")
	}
	return nil
}

func applyPatch(dst *Planting, patch Planting) {
	if patch.TreeType != "" {
		dst.TreeType = patch.TreeType
	}
	if patch.Species != "" {
		dst.Species = patch.Species
	}
	if patch.Description != "" {
		dst.Description = patch.Description
	}
	if patch.Address != "" {
		dst.Address = patch.Address
	}
	if patch.Lat != 0 || patch.Lng != 0 {
		dst.Lat = patch.Lat
		dst.Lng = patch.Lng
	}
	if patch.City != "" {
		dst.City = patch.City
	}
	if patch.State != "" {
		dst.State = patch.State
	}
	if patch.Country != "" {
		dst.Country = patch.Country
	}
	if !patch.PlantingDate.IsZero() {
		dst.PlantingDate = patch.PlantingDate
	}
	if patch.HeightCm != 0 {
		dst.HeightCm = patch.HeightCm
	}
	if patch.DiameterCm != 0 {
		dst.DiameterCm = patch.DiameterCm
	}
	if patch.HealthStatus != "" {
		dst.HealthStatus = patch.HealthStatus
	}
}

func paginate(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalTrees:  total,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}
