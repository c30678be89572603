package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/4u6kopek/trail-explorer-backend/internal/config"

	"github.com/gofiber/fiber/v2"
)

func TestHealthRoute(t *testing.T) {
	s := NewServer(config.Config{ServerPort: ":0"}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 status")
	}
}

func TestErrorHandlerKeepsClientErrors(t *testing.T) {
	s := NewServer(config.Config{ServerPort: ":0"}, nil, nil)
	s.App.Get("/boom-client", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusConflict, "Username already taken")
	})

	resp, err := s.App.Test(httptest.NewRequest(http.MethodGet, "/boom-client", nil))
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if payload.Error != "Username already taken" {
		t.Fatalf("expected message preserved, got %q", payload.Error)
	}
}

func TestErrorHandlerHidesInternals(t *testing.T) {
	s := NewServer(config.Config{ServerPort: ":0"}, nil, nil)
	s.App.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("connection refused: secret-db-host:5432")
	})

	resp, err := s.App.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if payload.Error != "Internal server error" {
		t.Fatalf("expected generic message, got %q", payload.Error)
	}
}

func TestCORSPreflight(t *testing.T) {
	s := NewServer(config.Config{ServerPort: ":0"}, nil, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/trails", nil)
	req.Header.Set("Origin", "https://trail-explorer.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		t.Fatalf("expected preflight success, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected any-origin header, got %q", got)
	}
}

func TestPatchTrailsWithoutActionIs405(t *testing.T) {
	s := NewServer(config.Config{ServerPort: ":0"}, nil, nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/trails", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}
