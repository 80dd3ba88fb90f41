package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/pricewatch/pricewatch/internal/model"
)

// ErrFolderNotFound is returned when a folder id does not exist.
var ErrFolderNotFound = errors.New("folder not found")

// FolderNameExistsError reports the first name in a batch that the user already owns.
type FolderNameExistsError struct {
	Name string
}

func (e *FolderNameExistsError) Error() string {
	return fmt.Sprintf("folder name %q already exists", e.Name)
}

// CreateFolders inserts a batch of folders for one user atomically.
// Names already owned by the user, or claimed concurrently by another
// transaction, abort the whole batch with *FolderNameExistsError.
func (r *Repository) CreateFolders(ctx context.Context, userID string, folders []*model.Folder) error {
	names := make([]string, len(folders))
	for i, f := range folders {
		names[i] = f.Name
	}

	return r.inTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT name FROM folders WHERE user_id = $1 AND name = ANY($2)`,
			userID, pq.Array(names),
		)
		if err != nil {
			return fmt.Errorf("failed to look up folder names: %w", err)
		}

		existing := make(map[string]struct{})
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan folder name: %w", err)
			}
			existing[name] = struct{}{}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("error iterating folder names: %w", err)
		}

		for _, f := range folders {
			if _, taken := existing[f.Name]; taken {
				return &FolderNameExistsError{Name: f.Name}
			}

			_, err := tx.Exec(ctx,
				`INSERT INTO folders (id, user_id, name, created_at) VALUES ($1, $2, $3, $4)`,
				f.ID, userID, f.Name, f.CreatedAt,
			)
			if err != nil {
				switch {
				case isUniqueViolation(err):
					return &FolderNameExistsError{Name: f.Name}
				case isForeignKeyViolation(err):
					return ErrOwnerNotFound
				}
				return fmt.Errorf("failed to create folder: %w", err)
			}
		}

		return nil
	})
}

// ListFoldersByUser returns a user's folders in creation order.
func (r *Repository) ListFoldersByUser(ctx context.Context, userID string) ([]*model.Folder, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, name, created_at FROM folders WHERE user_id = $1 ORDER BY created_at, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	defer rows.Close()

	folders := []*model.Folder{}
	for rows.Next() {
		var f model.Folder
		if err := rows.Scan(&f.ID, &f.UserID, &f.Name, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan folder: %w", err)
		}
		folders = append(folders, &f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating folders: %w", err)
	}

	return folders, nil
}

// GetFolderByID retrieves a folder by ID.
func (r *Repository) GetFolderByID(ctx context.Context, id string) (*model.Folder, error) {
	var f model.Folder
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, name, created_at FROM folders WHERE id = $1`, id,
	).Scan(&f.ID, &f.UserID, &f.Name, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFolderNotFound
		}
		return nil, fmt.Errorf("failed to get folder by ID: %w", err)
	}
	return &f, nil
}
