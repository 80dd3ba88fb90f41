package middleware

import (
	"context"
	"net/http"

	"github.com/pricewatch/pricewatch/internal/auth"
)

// Meter measures an operation on behalf of a user.
type Meter interface {
	Measure(ctx context.Context, userID string, fn func(ctx context.Context) error) error
}

// Metering charges the wall time of every wrapped request to the caller's
// usage counter, whatever the response status. Must be applied after Auth.
func Metering(meter Meter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := auth.UserIDFromContext(r.Context())
			if userID == "" {
				next.ServeHTTP(w, r)
				return
			}

			_ = meter.Measure(r.Context(), userID, func(ctx context.Context) error {
				next.ServeHTTP(w, r.WithContext(ctx))
				return nil
			})
		})
	}
}
