package user

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

func newApp(svc *Service) *fiber.App {
	app := fiber.New()
	RegisterRoutes(app.Group("/api/users"), svc)
	return app
}

func jsonRequest(method, target string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRegisterRequest(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, email, username FROM users`).
		WithArgs("u1", "hiker@example.com", "hiker").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "username"}))
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("u1", "hiker", "hiker@example.com", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	app := newApp(NewService(mock))
	body := []byte(`{"_id":"u1","username":"hiker","email":"hiker@example.com"}`)
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/users", body))
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("register request: %v (%d)", err, resp.StatusCode)
	}

	var u User
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if u.ID != "u1" || u.TrailsCount != 0 {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestRegisterConflictRequest(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, email, username FROM users`).
		WithArgs("u1", "hiker@example.com", "hiker").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "username"}).
			AddRow("other", "hiker@example.com", "someone"))

	app := newApp(NewService(mock))
	body := []byte(`{"_id":"u1","username":"hiker","email":"hiker@example.com"}`)
	resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/users", body))
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		if payload.Error != "Email already in use" {
			t.Fatalf("expected email conflict message, got %q", payload.Error)
		}
	}
}

func TestRegisterMissingFieldsRequest(t *testing.T) {
	app := newApp(NewService(nil))
	resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/users", []byte(`{"username":"hiker"}`)))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestProfileRequest(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	createdAt := time.Now()
	mock.ExpectQuery(`SELECT id, username, email, avatar_url, trails_count, saved_trails, created_at`).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "email", "avatar_url", "trails_count", "saved_trails", "created_at"}).
			AddRow("u1", "hiker", "hiker@example.com", "https://avatar", 1, []string{}, createdAt))
	mock.ExpectQuery(`FROM trails WHERE user_id=\$1`).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "image_url", "difficulty", "length"}).
			AddRow("t1", "Ridge Loop", "https://img", "moderate", 5.2))

	app := newApp(NewService(mock))
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/users?id=u1", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("profile request: %v (%d)", err, resp.StatusCode)
	}

	var payload struct {
		Username      string      `json:"username"`
		CreatedTrails []TrailCard `json:"createdTrails"`
		SavedTrails   []TrailCard `json:"savedTrails"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if payload.Username != "hiker" || len(payload.CreatedTrails) != 1 || len(payload.SavedTrails) != 0 {
		t.Fatalf("unexpected profile: %+v", payload)
	}
}

func TestProfileNotFoundRequest(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, username, email, avatar_url, trails_count, saved_trails, created_at`).
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "email", "avatar_url", "trails_count", "saved_trails", "created_at"}))

	app := newApp(NewService(mock))
	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/users?id=ghost", nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestLeaderboardRequest(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	createdAt := time.Now()
	mock.ExpectQuery(`FROM users WHERE trails_count > 0`).
		WillReturnRows(pgxmock.NewRows([]string{"username", "avatar_url", "trails_count", "created_at"}).
			AddRow("alpha", "https://a", 5, createdAt))

	app := newApp(NewService(mock))
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/users?leaderboard=true", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("leaderboard request: %v (%d)", err, resp.StatusCode)
	}

	var entries []LeaderboardEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatalf("decode leaderboard: %v", err)
	}
	if len(entries) != 1 || entries[0].TrailsCount != 5 {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestUpdateProfileRequest(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`UPDATE users`).
		WithArgs("u1", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	app := newApp(NewService(mock))
	body := []byte(`{"id":"u1","username":"trailblazer"}`)
	resp, err := app.Test(jsonRequest(http.MethodPatch, "/api/users", body))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("update request: %v (%d)", err, resp.StatusCode)
	}

	var result UpdateResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !result.Updated || result.Message != "Profile updated" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestUpdateProfileMissingIDRequest(t *testing.T) {
	app := newApp(NewService(nil))
	resp, _ := app.Test(jsonRequest(http.MethodPatch, "/api/users", []byte(`{"username":"xyz"}`)))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestUsersGetWithoutQueryRequest(t *testing.T) {
	app := newApp(NewService(nil))
	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/users", nil))
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}

func TestUsersOptionsRequest(t *testing.T) {
	app := newApp(NewService(nil))
	resp, _ := app.Test(httptest.NewRequest(http.MethodOptions, "/api/users", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
