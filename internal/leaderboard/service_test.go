package leaderboard

import (
	"context"
	"testing"
	"time"

	"github.com/shimrin23/GreenPulse/internal/query"

	"github.com/pashagolub/pgxmock/v2"
)

func leaderboardRows(t *testing.T) *pgxmock.Rows {
	t.Helper()
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows([]string{"user_id", "name", "profile_picture", "trees_planted", "is_active", "created_at", "city"})
	// A: 2 trees, B: 2 trees but more recent, C: 1 tree, ghost: inactive
	rows.AddRow("user-a", "Alice", "", 2, true, base, "Jakarta")
	rows.AddRow("user-a", "Alice", "", 2, true, base.Add(time.Hour), "Jakarta")
	rows.AddRow("user-b", "Bob", "", 2, true, base.Add(24*time.Hour), "Bandung")
	rows.AddRow("user-b", "Bob", "", 2, true, base.Add(25*time.Hour), "Bandung")
	rows.AddRow("user-c", "Cara", "", 1, true, base, "Surabaya")
	rows.AddRow("ghost", "Ghost", "", 9, false, base, "Atlantis")
	return rows
}

func TestLeaderboard(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT p.user_id, u.name`).WillReturnRows(leaderboardRows(t))

	svc := NewService(mock)
	result, err := svc.Leaderboard(context.Background(), query.Params{}, 1, 2, "user-c")
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}

	if len(result.Leaderboard) != 2 {
		t.Fatalf("expected 2 entries on page, got %d", len(result.Leaderboard))
	}
	if result.Leaderboard[0].UserID != "user-b" || result.Leaderboard[1].UserID != "user-a" {
		t.Fatalf("unexpected order: %s, %s", result.Leaderboard[0].UserID, result.Leaderboard[1].UserID)
	}
	if result.Leaderboard[0].Rank != 1 || result.Leaderboard[1].Rank != 2 {
		t.Fatalf("unexpected ranks")
	}

	if len(result.TopThree) != 3 {
		t.Fatalf("expected podium of 3")
	}

	// current user is off-page but still ranked against the full order
	if result.CurrentUserRank == nil || result.CurrentUserRank.Rank != 3 {
		t.Fatalf("expected user-c at rank 3, got %+v", result.CurrentUserRank)
	}

	p := result.Pagination
	if p.TotalUsers != 3 || p.TotalPages != 2 || !p.HasNextPage || p.HasPrevPage {
		t.Fatalf("unexpected pagination: %+v", p)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLeaderboardEmpty(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT p.user_id, u.name`).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "name", "profile_picture", "trees_planted", "is_active", "created_at", "city"}))

	svc := NewService(mock)
	result, err := svc.Leaderboard(context.Background(), query.Params{Timeframe: "week"}, 1, 50, "user-a")
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}

	if len(result.Leaderboard) != 0 {
		t.Fatalf("expected empty leaderboard")
	}
	if result.CurrentUserRank != nil {
		t.Fatalf("expected nil rank for user with no matching plantings")
	}
	if result.Pagination.TotalPages != 0 || result.Pagination.TotalUsers != 0 {
		t.Fatalf("unexpected pagination: %+v", result.Pagination)
	}
}

func TestLeaderboardInvalidTimeframe(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	svc := NewService(mock)
	if _, err := svc.Leaderboard(context.Background(), query.Params{Timeframe: "decade"}, 1, 50, ""); err == nil {
		t.Fatalf("expected validation error")
	}
}
