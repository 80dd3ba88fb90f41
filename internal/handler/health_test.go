package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

var (
	healthy   HealthChecker = pingFunc(func(context.Context) error { return nil })
	unhealthy HealthChecker = pingFunc(func(context.Context) error { return errors.New("connection refused") })
)

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(unhealthy, unhealthy).Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("liveness must not depend on dependencies, got %d", rec.Code)
	}
}

func TestReadyz(t *testing.T) {
	tests := []struct {
		name       string
		db, cache  HealthChecker
		wantCode   int
		wantStatus string
		wantChecks map[string]string
	}{
		{
			name: "all_healthy", db: healthy, cache: healthy,
			wantCode: http.StatusOK, wantStatus: "ok",
			wantChecks: map[string]string{"postgres": "ok", "redis": "ok"},
		},
		{
			name: "postgres_down", db: unhealthy, cache: healthy,
			wantCode: http.StatusServiceUnavailable, wantStatus: "unhealthy",
			wantChecks: map[string]string{"postgres": "error: connection refused", "redis": "ok"},
		},
		{
			name: "redis_down", db: healthy, cache: unhealthy,
			wantCode: http.StatusServiceUnavailable, wantStatus: "unhealthy",
			wantChecks: map[string]string{"postgres": "ok", "redis": "error: connection refused"},
		},
		{
			name: "not_configured", db: nil, cache: nil,
			wantCode: http.StatusOK, wantStatus: "ok",
			wantChecks: map[string]string{"postgres": "not configured", "redis": "not configured"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewHealthHandler(test.db, test.cache).Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if rec.Code != test.wantCode {
				t.Fatalf("expected %d, got %d", test.wantCode, rec.Code)
			}

			var resp HealthResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != test.wantStatus {
				t.Fatalf("expected status %q, got %q", test.wantStatus, resp.Status)
			}
			for name, want := range test.wantChecks {
				if resp.Checks[name] != want {
					t.Errorf("check %s: expected %q, got %q", name, want, resp.Checks[name])
				}
			}
		})
	}
}
