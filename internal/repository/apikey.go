package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pricewatch/pricewatch/internal/model"
)

// ErrAPIKeyNotFound is returned when no key matches.
var ErrAPIKeyNotFound = errors.New("API key not found")

// KeyCandidate is an active key joined with its owner's role,
// everything the auth middleware needs to build an AuthContext.
type KeyCandidate struct {
	Key  *model.APIKey
	Role model.Role
}

// CreateAPIKey inserts a new API key.
func (r *Repository) CreateAPIKey(ctx context.Context, key *model.APIKey) error {
	query := `
		INSERT INTO api_keys (id, user_id, key_hash, key_prefix, name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		key.ID,
		key.UserID,
		key.KeyHash,
		key.KeyPrefix,
		key.Name,
		key.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to create API key: %w", err)
	}

	return nil
}

// FindActiveKeysByPrefix returns unrevoked keys sharing a visible prefix.
// Several keys may collide on the prefix; the caller verifies the hash.
func (r *Repository) FindActiveKeysByPrefix(ctx context.Context, prefix string) ([]KeyCandidate, error) {
	query := `
		SELECT k.id, k.user_id, k.key_hash, k.key_prefix, k.name, k.created_at, u.role
		FROM api_keys k
		JOIN users u ON u.id = k.user_id
		WHERE k.key_prefix = $1 AND k.revoked_at IS NULL
	`

	rows, err := r.pool.Query(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to find API keys: %w", err)
	}
	defer rows.Close()

	var candidates []KeyCandidate
	for rows.Next() {
		var (
			key  model.APIKey
			role string
		)
		if err := rows.Scan(&key.ID, &key.UserID, &key.KeyHash, &key.KeyPrefix, &key.Name, &key.CreatedAt, &role); err != nil {
			return nil, fmt.Errorf("failed to scan API key: %w", err)
		}
		candidates = append(candidates, KeyCandidate{Key: &key, Role: model.Role(role)})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating API keys: %w", err)
	}

	return candidates, nil
}

// RevokeAPIKey marks a key as revoked.
func (r *Repository) RevokeAPIKey(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE api_keys SET revoked_at = $2 WHERE id = $1 AND revoked_at IS NULL`,
		id, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to revoke API key: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrAPIKeyNotFound
	}
	return nil
}

// TouchAPIKey records that a key was just used.
func (r *Repository) TouchAPIKey(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE api_keys SET last_used_at = $2 WHERE id = $1`, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update API key last used: %w", err)
	}
	return nil
}

// GetAPIKeyByID retrieves a key by ID, revoked or not.
func (r *Repository) GetAPIKeyByID(ctx context.Context, id string) (*model.APIKey, error) {
	query := `
		SELECT id, user_id, key_hash, key_prefix, name, revoked_at, last_used_at, created_at
		FROM api_keys
		WHERE id = $1
	`

	var key model.APIKey
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&key.ID,
		&key.UserID,
		&key.KeyHash,
		&key.KeyPrefix,
		&key.Name,
		&key.RevokedAt,
		&key.LastUsedAt,
		&key.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAPIKeyNotFound
		}
		return nil, fmt.Errorf("failed to get API key: %w", err)
	}
	return &key, nil
}
