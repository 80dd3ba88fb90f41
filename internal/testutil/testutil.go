// Package testutil holds helpers shared by integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/pricewatch/pricewatch/internal/model"
	"github.com/pricewatch/pricewatch/migrations"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 770077

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema drops every table and recreates it from the embedded migrations.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	down, err := migrations.Statements("down")
	if err != nil {
		return fmt.Errorf("load down migrations: %w", err)
	}
	up, err := migrations.Statements("up")
	if err != nil {
		return fmt.Errorf("load up migrations: %w", err)
	}

	for _, stmt := range down {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply down migration: %w", err)
		}
	}
	// Left behind by golang-migrate when the schema was created with cmd/migrate.
	if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS schema_migrations"); err != nil {
		return fmt.Errorf("drop schema_migrations: %w", err)
	}
	for _, stmt := range up {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply up migration: %w", err)
		}
	}

	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates a user with a unique username.
func NewTestUser(t testing.TB, role model.Role) *model.User {
	t.Helper()
	id := ulid.Make().String()
	return &model.User{
		ID:        id,
		Username:  "user-" + id,
		Email:     id + "@example.com",
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
}

// NewTestProduct creates an unsaved product owned by userID.
func NewTestProduct(t testing.TB, userID, title string, lowPrice int) *model.Product {
	t.Helper()
	now := time.Now().UTC()
	return &model.Product{
		ID:         ulid.Make().String(),
		UserID:     userID,
		Title:      title,
		Image:      "https://img.example.com/" + title + ".jpg",
		Link:       "https://shop.example.com/" + title,
		LowPrice:   lowPrice,
		FolderIDs:  []string{},
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

// NewTestFolders creates unsaved folders owned by userID, one per name.
func NewTestFolders(t testing.TB, userID string, names ...string) []*model.Folder {
	t.Helper()
	folders := make([]*model.Folder, 0, len(names))
	for _, name := range names {
		folders = append(folders, &model.Folder{
			ID:        ulid.Make().String(),
			Name:      name,
			UserID:    userID,
			CreatedAt: time.Now().UTC(),
		})
	}
	return folders
}
