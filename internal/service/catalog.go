package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"github.com/pricewatch/pricewatch/internal/metrics"
	"github.com/pricewatch/pricewatch/internal/model"
	"github.com/pricewatch/pricewatch/internal/repository"
)

// ProductStore persists products and their folder links.
type ProductStore interface {
	CreateProduct(ctx context.Context, p *model.Product) error
	GetProductByID(ctx context.Context, id string) (*model.Product, error)
	UpdateMyPrice(ctx context.Context, id string, myPrice int, modifiedAt time.Time) error
	LinkFolder(ctx context.Context, productID, folderID string) error
	ListProducts(ctx context.Context, filter repository.ProductFilter, page repository.PageQuery) ([]*model.Product, int64, error)
}

// FolderStore persists folders.
type FolderStore interface {
	CreateFolders(ctx context.Context, userID string, folders []*model.Folder) error
	ListFoldersByUser(ctx context.Context, userID string) ([]*model.Folder, error)
	GetFolderByID(ctx context.Context, id string) (*model.Folder, error)
}

// CatalogService handles products, folders and the ownership rules between them.
type CatalogService struct {
	products ProductStore
	folders  FolderStore
	metrics  metrics.Recorder
	now      func() time.Time
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(products ProductStore, folders FolderStore, recorder metrics.Recorder) *CatalogService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &CatalogService{
		products: products,
		folders:  folders,
		metrics:  recorder,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateProductInput defines input for creating a product.
type CreateProductInput struct {
	Title    string
	Image    string
	Link     string
	LowPrice int
}

// CreateProduct registers a product for the principal with a zero target price.
func (s *CatalogService) CreateProduct(ctx context.Context, principal model.Principal, input CreateProductInput) (*model.Product, error) {
	if err := requireMember(principal); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidArgument)
	}
	if input.LowPrice < 0 || input.LowPrice > model.MaxPrice {
		return nil, fmt.Errorf("%w: lprice must be between 0 and %d", ErrInvalidArgument, model.MaxPrice)
	}

	now := s.now()
	product := &model.Product{
		ID:         ulid.Make().String(),
		UserID:     principal.UserID,
		Title:      input.Title,
		Image:      input.Image,
		Link:       input.Link,
		LowPrice:   input.LowPrice,
		MyPrice:    0,
		FolderIDs:  []string{},
		CreatedAt:  now,
		ModifiedAt: now,
	}

	if err := s.products.CreateProduct(ctx, product); err != nil {
		if errors.Is(err, repository.ErrOwnerNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidOwner, principal.UserID)
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.metrics.IncProductCreated()

	return product, nil
}

// UpdateProduct sets the target price of a product the principal owns.
func (s *CatalogService) UpdateProduct(ctx context.Context, principal model.Principal, productID string, myPrice int) (*model.Product, error) {
	if err := requireMember(principal); err != nil {
		return nil, err
	}
	if myPrice < 0 || myPrice > model.MaxPrice {
		return nil, fmt.Errorf("%w: myprice must be between 0 and %d", ErrInvalidArgument, model.MaxPrice)
	}

	product, err := s.ownedProduct(ctx, principal, productID)
	if err != nil {
		return nil, err
	}

	modifiedAt := s.now()
	if err := s.products.UpdateMyPrice(ctx, product.ID, myPrice, modifiedAt); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, productID)
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.metrics.IncProductUpdated()

	product.MyPrice = myPrice
	product.ModifiedAt = modifiedAt
	return product, nil
}

// AddFolder files a product into a folder. Both must belong to the principal.
// Filing a product into a folder it is already in changes nothing.
func (s *CatalogService) AddFolder(ctx context.Context, principal model.Principal, productID, folderID string) (*model.Product, error) {
	if err := requireMember(principal); err != nil {
		return nil, err
	}

	product, err := s.ownedProduct(ctx, principal, productID)
	if err != nil {
		return nil, err
	}
	folder, err := s.ownedFolder(ctx, principal, folderID)
	if err != nil {
		return nil, err
	}

	if product.InFolder(folder.ID) {
		return product, nil
	}

	if err := s.products.LinkFolder(ctx, product.ID, folder.ID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, productID)
		}
		return nil, fmt.Errorf("failed to add folder: %w", err)
	}

	s.metrics.IncFolderLinked()

	return s.getProduct(ctx, product.ID)
}

// GetProducts pages through the principal's own products.
func (s *CatalogService) GetProducts(ctx context.Context, principal model.Principal, req PageRequest) (*model.ProductPage, error) {
	if err := requireMember(principal); err != nil {
		return nil, err
	}
	return s.listProducts(ctx, repository.ProductFilter{UserID: principal.UserID}, req)
}

// GetAllProducts pages through every user's products. Callers gate it to admins.
func (s *CatalogService) GetAllProducts(ctx context.Context, req PageRequest) (*model.ProductPage, error) {
	return s.listProducts(ctx, repository.ProductFilter{}, req)
}

// GetProductsInFolder pages through the principal's products filed in folderID.
func (s *CatalogService) GetProductsInFolder(ctx context.Context, principal model.Principal, folderID string, req PageRequest) (*model.ProductPage, error) {
	if err := requireMember(principal); err != nil {
		return nil, err
	}
	if _, err := req.query(); err != nil {
		return nil, err
	}
	if _, err := s.ownedFolder(ctx, principal, folderID); err != nil {
		return nil, err
	}
	return s.listProducts(ctx, repository.ProductFilter{UserID: principal.UserID, FolderID: folderID}, req)
}

// AddFolders creates a batch of folders for the principal. Either every
// folder is created or none is.
func (s *CatalogService) AddFolders(ctx context.Context, principal model.Principal, names []string) ([]*model.Folder, error) {
	if err := requireMember(principal); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: at least one folder name is required", ErrInvalidArgument)
	}

	seen := make(map[string]struct{}, len(names))
	now := s.now()
	folders := make([]*model.Folder, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: folder name must not be blank", ErrInvalidArgument)
		}
		if utf8.RuneCountInString(name) > model.MaxFolderNameLength {
			return nil, fmt.Errorf("%w: folder name longer than %d characters", ErrInvalidArgument, model.MaxFolderNameLength)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateFolderName, name)
		}
		seen[name] = struct{}{}

		folders = append(folders, &model.Folder{
			ID:        ulid.Make().String(),
			Name:      name,
			UserID:    principal.UserID,
			CreatedAt: now,
		})
	}

	if err := s.folders.CreateFolders(ctx, principal.UserID, folders); err != nil {
		var exists *repository.FolderNameExistsError
		switch {
		case errors.As(err, &exists):
			return nil, fmt.Errorf("%w: %s", ErrDuplicateFolderName, exists.Name)
		case errors.Is(err, repository.ErrOwnerNotFound):
			return nil, fmt.Errorf("%w: %s", ErrInvalidOwner, principal.UserID)
		}
		return nil, fmt.Errorf("failed to create folders: %w", err)
	}

	s.metrics.IncFoldersCreated(len(folders))

	return folders, nil
}

// GetFolders returns the principal's folders in creation order.
func (s *CatalogService) GetFolders(ctx context.Context, principal model.Principal) ([]*model.Folder, error) {
	if err := requireMember(principal); err != nil {
		return nil, err
	}
	return s.folders.ListFoldersByUser(ctx, principal.UserID)
}

func (s *CatalogService) listProducts(ctx context.Context, filter repository.ProductFilter, req PageRequest) (*model.ProductPage, error) {
	query, err := req.query()
	if err != nil {
		return nil, err
	}

	products, total, err := s.products.ListProducts(ctx, filter, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return newProductPage(products, total, req), nil
}

func (s *CatalogService) getProduct(ctx context.Context, id string) (*model.Product, error) {
	product, err := s.products.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
		}
		return nil, err
	}
	return product, nil
}

// ownedProduct is the single ownership gate for product mutations.
func (s *CatalogService) ownedProduct(ctx context.Context, principal model.Principal, id string) (*model.Product, error) {
	product, err := s.getProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.OwnedBy(principal.UserID) {
		return nil, fmt.Errorf("%w: product %s", ErrOwnershipMismatch, id)
	}
	return product, nil
}

// ownedFolder is the single ownership gate for folder access.
func (s *CatalogService) ownedFolder(ctx context.Context, principal model.Principal, id string) (*model.Folder, error) {
	folder, err := s.folders.GetFolderByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrFolderNotFound) {
			return nil, fmt.Errorf("%w: folder %s", ErrNotFound, id)
		}
		return nil, err
	}
	if folder.UserID != principal.UserID {
		return nil, fmt.Errorf("%w: folder %s", ErrOwnershipMismatch, id)
	}
	return folder, nil
}

func requireMember(principal model.Principal) error {
	if principal.UserID == "" {
		return ErrInvalidOwner
	}
	return nil
}
