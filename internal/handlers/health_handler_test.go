package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mockmate/internal/config"
	"mockmate/internal/testhelpers"
)

func TestHealthzHandler(t *testing.T) {
	h := NewHealthHandler(nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.HealthzHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadyzHandlerAllChecksPass(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	h := NewHealthHandler(&fakeProvider{}, db, &config.Config{Provider: "gemini"})

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	h.ReadyzHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp ReadinessResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.Status != "ready" {
		t.Fatalf("expected ready, got %s", resp.Status)
	}
}

func TestReadyzHandlerReportsMissingDependencies(t *testing.T) {
	h := NewHealthHandler(nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	h.ReadyzHandler(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	var resp ReadinessResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.Status != "not_ready" {
		t.Fatalf("expected not_ready, got %s", resp.Status)
	}
	for _, check := range []string{"provider", "database", "configuration"} {
		if resp.Checks[check].Status != "failed" {
			t.Errorf("expected %s check to fail", check)
		}
	}
}
