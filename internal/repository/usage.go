package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/pricewatch/pricewatch/internal/model"
)

// AddUsage adds one metered call of elapsedMs to the user's counter.
// The row is created on first use; concurrent calls for the same user are
// serialized by the primary key and never lose an increment.
func (r *Repository) AddUsage(ctx context.Context, userID string, elapsedMs int64) (*model.APIUsage, error) {
	query := `
		INSERT INTO api_usage (user_id, total_time, total_count, updated_at)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET total_time  = api_usage.total_time + EXCLUDED.total_time,
		    total_count = api_usage.total_count + 1,
		    updated_at  = EXCLUDED.updated_at
		RETURNING user_id, total_time, total_count, updated_at
	`

	var usage model.APIUsage
	err := r.pool.QueryRow(ctx, query, userID, elapsedMs, time.Now().UTC()).Scan(
		&usage.UserID,
		&usage.TotalTime,
		&usage.TotalCount,
		&usage.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrOwnerNotFound
		}
		return nil, fmt.Errorf("failed to record usage: %w", err)
	}

	return &usage, nil
}

// ListUsage returns every usage counter, heaviest users first.
func (r *Repository) ListUsage(ctx context.Context) ([]*model.APIUsage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, total_time, total_count, updated_at
		FROM api_usage
		ORDER BY total_time DESC, user_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list usage: %w", err)
	}
	defer rows.Close()

	usages := []*model.APIUsage{}
	for rows.Next() {
		var u model.APIUsage
		if err := rows.Scan(&u.UserID, &u.TotalTime, &u.TotalCount, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan usage: %w", err)
		}
		usages = append(usages, &u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating usage: %w", err)
	}

	return usages, nil
}
