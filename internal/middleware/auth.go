package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pricewatch/pricewatch/internal/auth"
	"github.com/pricewatch/pricewatch/internal/cache"
	"github.com/pricewatch/pricewatch/internal/metrics"
	"github.com/pricewatch/pricewatch/internal/model"
	"github.com/pricewatch/pricewatch/internal/repository"
)

// KeyStore looks up API keys for authentication.
type KeyStore interface {
	FindActiveKeysByPrefix(ctx context.Context, prefix string) ([]repository.KeyCandidate, error)
	TouchAPIKey(ctx context.Context, id string) error
}

// AuthCache caches resolved keys by fingerprint.
type AuthCache interface {
	GetAuthContext(ctx context.Context, fingerprint string) (*model.AuthContext, error)
	SetAuthContext(ctx context.Context, fingerprint string, ac *model.AuthContext) error
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger  *slog.Logger
	Keys    KeyStore
	Cache   AuthCache
	Metrics metrics.Recorder
	// MinDuration pads every authentication attempt so failures and
	// successes take the same time. Zero disables padding.
	MinDuration time.Duration
}

// Auth resolves the caller's API key to a user and role and stores the
// result in the request context. Every failure yields the same 401.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ac, reason := authenticate(r.Context(), cfg, extractAPIKey(r))

			if cfg.MinDuration > 0 {
				if wait := cfg.MinDuration - time.Since(start); wait > 0 {
					time.Sleep(wait)
				}
			}

			if ac == nil {
				cfg.Logger.Warn("authentication_failed",
					slog.String("reason", reason),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing API key")
				return
			}

			cfg.Logger.Debug("authenticated",
				slog.String("key_prefix", ac.KeyPrefix),
				slog.String("user_id", ac.UserID),
				slog.String("role", string(ac.Role)),
				slog.String("request_id", GetRequestID(r.Context())),
			)

			next.ServeHTTP(w, r.WithContext(auth.ContextWithAuth(r.Context(), ac)))
		})
	}
}

// authenticate returns the resolved identity, or nil and a log reason.
func authenticate(ctx context.Context, cfg AuthConfig, key string) (*model.AuthContext, string) {
	if key == "" {
		return nil, "missing_key"
	}

	prefix, err := auth.KeyPrefix(key)
	if err != nil {
		return nil, "invalid_format"
	}

	fingerprint := auth.Fingerprint(key)
	if cfg.Cache != nil {
		ac, err := cfg.Cache.GetAuthContext(ctx, fingerprint)
		switch {
		case err == nil:
			cfg.Metrics.IncAuthCacheHit()
			return ac, ""
		case errors.Is(err, cache.ErrCacheMiss):
			cfg.Metrics.IncAuthCacheMiss()
		default:
			cfg.Logger.Warn("auth_cache_unavailable", slog.String("error", err.Error()))
		}
	}

	candidates, err := cfg.Keys.FindActiveKeysByPrefix(ctx, prefix)
	if err != nil {
		cfg.Logger.Error("auth_lookup_failed", slog.String("error", err.Error()))
		return nil, "lookup_error"
	}

	for _, c := range candidates {
		ok, err := auth.VerifyKey(key, c.Key.KeyHash)
		if err != nil || !ok {
			continue
		}

		ac := &model.AuthContext{
			KeyID:     c.Key.ID,
			KeyPrefix: c.Key.KeyPrefix,
			UserID:    c.Key.UserID,
			Role:      c.Role,
		}

		if cfg.Cache != nil {
			if err := cfg.Cache.SetAuthContext(ctx, fingerprint, ac); err != nil {
				cfg.Logger.Warn("auth_cache_write_failed", slog.String("error", err.Error()))
			}
		}

		go func(id string) {
			touchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			_ = cfg.Keys.TouchAPIKey(touchCtx, id)
		}(ac.KeyID)

		return ac, ""
	}

	return nil, "invalid_key"
}

// extractAPIKey reads "Authorization: Bearer <key>", falling back to X-API-Key.
func extractAPIKey(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return strings.TrimSpace(r.Header.Get("X-API-Key"))
}
