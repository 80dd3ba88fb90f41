package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pricewatch/pricewatch/internal/auth"
	"github.com/pricewatch/pricewatch/internal/model"
)

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ac   *model.AuthContext
		want int
	}{
		{"unauthenticated", nil, http.StatusUnauthorized},
		{"user", &model.AuthContext{UserID: "u1", Role: model.RoleUser}, http.StatusForbidden},
		{"admin", &model.AuthContext{UserID: "u2", Role: model.RoleAdmin}, http.StatusOK},
	}

	handler := RequireAdmin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/api/use/time", nil)
			if test.ac != nil {
				req = req.WithContext(auth.ContextWithAuth(req.Context(), test.ac))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != test.want {
				t.Fatalf("expected %d, got %d", test.want, rec.Code)
			}
		})
	}
}

func TestRequireRole_AdminPassesUserRoutes(t *testing.T) {
	t.Parallel()

	handler := RequireRole(model.RoleUser)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req = req.WithContext(auth.ContextWithAuth(req.Context(), &model.AuthContext{UserID: "a", Role: model.RoleAdmin}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
