package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/pricewatch/pricewatch/internal/auth"
	"github.com/pricewatch/pricewatch/internal/cache"
	"github.com/pricewatch/pricewatch/internal/metrics"
	"github.com/pricewatch/pricewatch/internal/model"
	"github.com/pricewatch/pricewatch/internal/repository"
)

type fakeKeyStore struct {
	mu         sync.Mutex
	candidates map[string][]repository.KeyCandidate
	lookups    int
	err        error
}

func (f *fakeKeyStore) FindActiveKeysByPrefix(_ context.Context, prefix string) ([]repository.KeyCandidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates[prefix], nil
}

func (f *fakeKeyStore) TouchAPIKey(context.Context, string) error {
	return nil
}

type fakeAuthCache struct {
	mu      sync.Mutex
	entries map[string]*model.AuthContext
}

func (f *fakeAuthCache) GetAuthContext(_ context.Context, fp string) (*model.AuthContext, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ac, ok := f.entries[fp]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return ac, nil
}

func (f *fakeAuthCache) SetAuthContext(_ context.Context, fp string, ac *model.AuthContext) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[fp] = ac
	return nil
}

func issueTestKey(t *testing.T, userID string, role model.Role) (string, *fakeKeyStore) {
	t.Helper()

	issued, err := auth.IssueKey()
	if err != nil {
		t.Fatalf("issue key: %v", err)
	}

	store := &fakeKeyStore{candidates: map[string][]repository.KeyCandidate{
		issued.Prefix: {{
			Key: &model.APIKey{
				ID:        "key-" + userID,
				UserID:    userID,
				KeyHash:   issued.Hash,
				KeyPrefix: issued.Prefix,
			},
			Role: role,
		}},
	}}
	return issued.Plaintext, store
}

func principalEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := auth.PrincipalFromContext(r.Context())
		_, _ = io.WriteString(w, p.UserID+"/"+string(p.Role))
	})
}

func TestAuth_ValidKey(t *testing.T) {
	t.Parallel()

	key, store := issueTestKey(t, "user-1", model.RoleAdmin)
	authCache := &fakeAuthCache{entries: map[string]*model.AuthContext{}}
	recorder := metrics.NewInMemory()

	handler := Auth(AuthConfig{
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Keys:    store,
		Cache:   authCache,
		Metrics: recorder,
	})(principalEcho())

	for i, header := range []string{"Authorization", "X-API-Key"} {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		if header == "Authorization" {
			req.Header.Set(header, "Bearer "+key)
		} else {
			req.Header.Set(header, key)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
		if rec.Body.String() != "user-1/ADMIN" {
			t.Fatalf("request %d: unexpected principal %q", i, rec.Body.String())
		}
	}

	if store.lookups != 1 {
		t.Fatalf("expected second request to be served from cache, got %d lookups", store.lookups)
	}
	snap := recorder.Snapshot()
	if snap.AuthCacheMisses != 1 || snap.AuthCacheHits != 1 {
		t.Fatalf("expected 1 miss and 1 hit, got %+v", snap)
	}
}

func TestAuth_Rejections(t *testing.T) {
	t.Parallel()

	key, store := issueTestKey(t, "user-1", model.RoleUser)
	other, err := auth.IssueKey()
	if err != nil {
		t.Fatalf("issue key: %v", err)
	}
	// Same prefix as the stored key, different secret.
	forged := key[:len("pw_")+auth.KeyPrefixLen+1] + strings.Repeat("0", auth.KeySecretLen)

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"malformed", "Bearer not-a-key"},
		{"unknown_prefix", "Bearer " + other.Plaintext},
		{"wrong_secret", "Bearer " + forged},
		{"wrong_scheme", "Basic " + key},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			handler := Auth(AuthConfig{
				Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
				Keys:   store,
			})(principalEcho())

			req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
			if test.header != "" {
				req.Header.Set("Authorization", test.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), `"code":"UNAUTHORIZED"`) {
				t.Fatalf("unexpected body %s", rec.Body.String())
			}
		})
	}
}

func TestAuth_LookupError(t *testing.T) {
	t.Parallel()

	key, store := issueTestKey(t, "user-1", model.RoleUser)
	store.err = errors.New("connection refused")

	handler := Auth(AuthConfig{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Keys:   store,
	})(principalEcho())

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer "+key)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestExtractAPIKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		bearer string
		apiKey string
		want   string
	}{
		{"bearer", "Bearer abc", "", "abc"},
		{"x_api_key", "", "def", "def"},
		{"bearer_wins", "Bearer abc", "def", "abc"},
		{"none", "", "", ""},
	}

	for _, test := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if test.bearer != "" {
			req.Header.Set("Authorization", test.bearer)
		}
		if test.apiKey != "" {
			req.Header.Set("X-API-Key", test.apiKey)
		}
		if got := extractAPIKey(req); got != test.want {
			t.Errorf("%s: got %q, want %q", test.name, got, test.want)
		}
	}
}
