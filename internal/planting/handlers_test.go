package planting

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shimrin23/GreenPulse/internal/shared/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v2"
)

func newTestApp(svc *Service, userID string) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apperr.ErrorHandler})
	asUser := func(c *fiber.Ctx) error {
		if userID != "" {
			c.Locals("user_id", userID)
		}
		return c.Next()
	}
	RegisterRoutes(app.Group("/plantings"), svc, asUser, asUser)
	return app
}

func TestListHandler(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`FROM plantings p JOIN users`).
		WillReturnRows(pgxmock.NewRows(plantingColumns).AddRow(plantingRow("t1", "u1", true)...))
	mock.ExpectQuery(`FROM planting_images`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "planting_id", "url", "public_id", "caption", "uploaded_at"}))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM plantings p`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))

	app := newTestApp(NewService(mock, nil), "")
	req := httptest.NewRequest(http.MethodGet, "/plantings/?city=Jakarta", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("list status: %v %d", err, resp.StatusCode)
	}

	var body struct {
		Plantings  []Planting `json:"plantings"`
		Pagination Pagination `json:"pagination"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Plantings) != 1 || body.Pagination.TotalTrees != 1 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestCreateHandler(t *testing.T) {
	mock := newMock(t)

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO plantings`).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectQuery(`INSERT INTO planting_images`).
		WillReturnRows(pgxmock.NewRows([]string{"uploaded_at"}).AddRow(now))

	app := newTestApp(NewService(mock, nil), "u1")
	payload := `{
		"tree_type": "oak",
		"address": "Jl. Sudirman 1, Jakarta",
		"lat": -6.2,
		"lng": 106.8,
		"planting_date": "2025-05-01T00:00:00Z",
		"images": [{"url": "https://img.example/1.jpg"}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/plantings/", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status: %v %d", err, resp.StatusCode)
	}

	var body struct {
		Planting Planting `json:"planting"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Planting.UserID != "u1" || body.Planting.ID == "" {
		t.Fatalf("unexpected planting: %+v", body.Planting)
	}
}

func TestCreateHandlerValidation(t *testing.T) {
	app := newTestApp(NewService(nil, nil), "u1")

	payload := `{"tree_type": "x", "address": "Jl. Sudirman 1", "planting_date": "2025-05-01T00:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/plantings/", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request, got %d", resp.StatusCode)
	}

	var body struct {
		Field string `json:"field"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Field != "tree_type" {
		t.Fatalf("expected tree_type field, got %q", body.Field)
	}
}

func TestVerifyHandlerOwnPlanting(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT user_id, is_verified`).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "is_verified"}).AddRow("u1", false))

	app := newTestApp(NewService(mock, nil), "u1")
	req := httptest.NewRequest(http.MethodPost, "/plantings/t1/verify", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected forbidden, got %d", resp.StatusCode)
	}
}

func TestGetHandlerNotFound(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`FROM plantings p JOIN users`).
		WillReturnRows(pgxmock.NewRows(plantingColumns))

	app := newTestApp(NewService(mock, nil), "")
	req := httptest.NewRequest(http.MethodGet, "/plantings/missing", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected not found, got %d", resp.StatusCode)
	}
}

func TestDeleteHandler(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT user_id, is_verified`).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "is_verified"}).AddRow("u1", true))
	mock.ExpectExec(`UPDATE plantings SET is_active = FALSE`).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE users`).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	app := newTestApp(NewService(mock, nil), "u1")
	req := httptest.NewRequest(http.MethodDelete, "/plantings/t1", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected no content, got %d", resp.StatusCode)
	}
}
