package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pricewatch/pricewatch/internal/model"
)

// Common errors for catalog repository operations.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrOwnerNotFound   = errors.New("owner does not exist")
	ErrInvalidSort     = errors.New("unsupported sort field")
)

// ProductFilter narrows a product listing. Empty fields do not filter.
type ProductFilter struct {
	UserID   string
	FolderID string
}

// PageQuery is a zero-indexed window over an ordered listing.
type PageQuery struct {
	Offset int
	Limit  int
	SortBy string
	Asc    bool
}

// productSortColumns maps API sort fields onto columns. Nothing outside this
// map is ever interpolated into SQL.
var productSortColumns = map[string]string{
	model.SortByID:         "p.id",
	model.SortByTitle:      "p.title",
	model.SortByLowPrice:   "p.lprice",
	model.SortByMyPrice:    "p.myprice",
	model.SortByCreatedAt:  "p.created_at",
	model.SortByModifiedAt: "p.modified_at",
}

const productColumns = `
	p.id, p.user_id, p.title, p.image, p.link, p.lprice, p.myprice, p.created_at, p.modified_at,
	ARRAY(
		SELECT pf.folder_id FROM product_folders pf
		WHERE pf.product_id = p.id
		ORDER BY pf.created_at, pf.folder_id
	) AS folder_ids
`

// CreateProduct inserts a new product.
func (r *Repository) CreateProduct(ctx context.Context, p *model.Product) error {
	query := `
		INSERT INTO products (id, user_id, title, image, link, lprice, myprice, created_at, modified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.UserID,
		p.Title,
		p.Image,
		p.Link,
		p.LowPrice,
		p.MyPrice,
		p.CreatedAt,
		p.ModifiedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrOwnerNotFound
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// GetProductByID retrieves a product with its folder ids.
func (r *Repository) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.id = $1`

	product, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID: %w", err)
	}

	return product, nil
}

// UpdateMyPrice sets the owner's target price. No other column changes.
func (r *Repository) UpdateMyPrice(ctx context.Context, id string, myPrice int, modifiedAt time.Time) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE products SET myprice = $2, modified_at = $3 WHERE id = $1`,
		id, myPrice, modifiedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update product price: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrProductNotFound
	}

	return nil
}

// LinkFolder associates a product with a folder. Linking twice is a no-op.
func (r *Repository) LinkFolder(ctx context.Context, productID, folderID string) error {
	query := `
		INSERT INTO product_folders (product_id, folder_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_id, folder_id) DO NOTHING
	`

	if _, err := r.pool.Exec(ctx, query, productID, folderID, time.Now().UTC()); err != nil {
		if isForeignKeyViolation(err) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to link folder: %w", err)
	}

	return nil
}

// ListProducts returns one page of products plus the total matching count.
func (r *Repository) ListProducts(ctx context.Context, filter ProductFilter, page PageQuery) ([]*model.Product, int64, error) {
	column, ok := productSortColumns[page.SortBy]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", ErrInvalidSort, page.SortBy)
	}

	where := " WHERE TRUE"
	var args []any
	argIndex := 1

	if filter.UserID != "" {
		where += fmt.Sprintf(" AND p.user_id = $%d", argIndex)
		args = append(args, filter.UserID)
		argIndex++
	}

	if filter.FolderID != "" {
		where += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM product_folders f WHERE f.product_id = p.id AND f.folder_id = $%d
		)`, argIndex)
		args = append(args, filter.FolderID)
		argIndex++
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products p`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	direction := "DESC"
	if page.Asc {
		direction = "ASC"
	}
	order := fmt.Sprintf(" ORDER BY %s %s", column, direction)
	if column != "p.id" {
		order += ", p.id " + direction
	}

	query := `SELECT ` + productColumns + ` FROM products p` + where + order +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, page.Limit, page.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]*model.Product, 0, page.Limit)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	return products, total, nil
}

// scanProduct scans one row selected with productColumns.
func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Title,
		&p.Image,
		&p.Link,
		&p.LowPrice,
		&p.MyPrice,
		&p.CreatedAt,
		&p.ModifiedAt,
		&p.FolderIDs,
	)
	if err != nil {
		return nil, err
	}
	if p.FolderIDs == nil {
		p.FolderIDs = []string{}
	}
	return &p, nil
}
