package auth

import (
	"errors"
	"strings"
	"time"

	"context"

	"github.com/shimrin23/GreenPulse/internal/db"
	"github.com/shimrin23/GreenPulse/internal/shared/apperr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type Service struct {
	secret []byte
	db     db.Querier
}

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func NewService(secret string, db db.Querier) *Service {
	return &Service{
		secret: []byte(secret),
		db:     db,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (User, TokenResponse, error) {
	if len(req.Name) < 2 || len(req.Name) > 50 {
		return User{}, TokenResponse{}, apperr.Validation("name", "must be between 2 and 50 characters")
	}
	if !strings.Contains(req.Email, "@") {
		return User{}, TokenResponse{}, apperr.Validation("email", "must be a valid address")
	}
	if len(req.Password) < 6 {
		return User{}, TokenResponse{}, apperr.Validation("password", "must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, TokenResponse{}, err
	}

	user := User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		PasswordHash: string(hash),
		Bio:          req.Bio,
		Location:     req.Location,
		IsActive:     true,
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO users (id, name, email, password_hash, bio, location, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,TRUE)
		RETURNING join_date, created_at, updated_at
	`, user.ID, user.Name, user.Email, user.PasswordHash, user.Bio, user.Location)
	if err := row.Scan(&user.JoinDate, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return User{}, TokenResponse{}, apperr.Store(err)
	}

	tokens, err := s.GenerateTokens(ctx, user.ID)
	if err != nil {
		return User{}, TokenResponse{}, err
	}
	return user, tokens, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (User, TokenResponse, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, email, password_hash, COALESCE(profile_picture,''), bio, location,
		       trees_planted, join_date, is_active, created_at, updated_at
		FROM users WHERE email = $1 AND is_active = TRUE
	`, strings.ToLower(req.Email))

	var user User
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.ProfilePicture,
		&user.Bio, &user.Location, &user.TreesPlanted, &user.JoinDate, &user.IsActive,
		&user.CreatedAt, &user.UpdatedAt); err != nil {
		return User{}, TokenResponse{}, errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return User{}, TokenResponse{}, errors.New("invalid credentials")
	}

	_, _ = s.db.Exec(ctx, `UPDATE users SET last_login = now() WHERE id = $1`, user.ID)

	tokens, err := s.GenerateTokens(ctx, user.ID)
	if err != nil {
		return User{}, TokenResponse{}, err
	}
	return user, tokens, nil
}

// Profile returns a user with their all-time rank and planting stats. The rank
// here is the cheap denormalized one (users with a larger verified count + 1);
// the leaderboard computes the authoritative filtered rank.
func (s *Service) Profile(ctx context.Context, id string) (Profile, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, email, COALESCE(profile_picture,''), bio, location,
		       trees_planted, join_date, is_active, created_at, updated_at
		FROM users WHERE id = $1 AND is_active = TRUE
	`, id)

	var p Profile
	u := &p.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.ProfilePicture, &u.Bio, &u.Location,
		&u.TreesPlanted, &u.JoinDate, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return Profile{}, apperr.NotFound("user")
	}

	if err := s.db.QueryRow(ctx, `
		SELECT COUNT(*) + 1 FROM users WHERE trees_planted > $1 AND is_active = TRUE
	`, u.TreesPlanted).Scan(&p.Rank); err != nil {
		return Profile{}, apperr.Store(err)
	}

	if err := s.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_verified),
		       COUNT(*) FILTER (WHERE created_at >= now() - interval '30 days')
		FROM plantings WHERE user_id = $1 AND is_active = TRUE
	`, id).Scan(&p.Stats.TotalTrees, &p.Stats.VerifiedTrees, &p.Stats.RecentTrees); err != nil {
		return Profile{}, apperr.Store(err)
	}

	return p, nil
}

func (s *Service) GenerateTokens(ctx context.Context, userID string) (TokenResponse, error) {
	access, err := s.signToken(userID, accessTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	refresh, err := s.signToken(userID, refreshTokenTTL)
	if err != nil {
		return TokenResponse{}, err
	}

	if err := s.saveRefreshToken(ctx, refresh, userID, refreshTokenTTL); err != nil {
		return TokenResponse{}, err
	}

	return TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(accessTokenTTL.Seconds()),
	}, nil
}

func (s *Service) ValidateRefreshToken(ctx context.Context, token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", err
	}

	userID, expiresAt, err := s.lookupRefreshToken(ctx, token)
	if err != nil || userID != claims.UserID || time.Now().After(expiresAt) {
		return "", errors.New("refresh token invalid")
	}
	return claims.UserID, nil
}

func (s *Service) ValidateAccessToken(token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

func (s *Service) signToken(userID string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) parseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("token invalid")
	}
	return claims, nil
}

func (s *Service) saveRefreshToken(ctx context.Context, token, userID string, ttl time.Duration) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token, expires_at)
		VALUES ($1,$2,$3,$4)
	`, uuid.NewString(), userID, token, time.Now().Add(ttl))
	return err
}

func (s *Service) lookupRefreshToken(ctx context.Context, token string) (string, time.Time, error) {
	row := s.db.QueryRow(ctx, `
		SELECT user_id, expires_at
		FROM refresh_tokens
		WHERE token = $1 AND revoked_at IS NULL
	`, token)
	var userID string
	var expiresAt time.Time
	if err := row.Scan(&userID, &expiresAt); err != nil {
		return "", time.Time{}, err
	}
	return userID, expiresAt, nil
}
