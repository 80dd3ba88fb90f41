// Package memory provides a mutex-guarded in-process implementation of the
// catalog and usage stores. It mirrors the PostgreSQL repository's semantics
// and error values and backs unit tests that do not need a database.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/pricewatch/pricewatch/internal/model"
	"github.com/pricewatch/pricewatch/internal/repository"
)

// Store holds users, products, folders and usage counters in maps.
type Store struct {
	mu       sync.Mutex
	users    map[string]struct{}
	products map[string]*model.Product
	folders  map[string]*model.Folder
	usage    map[string]*model.APIUsage
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		users:    make(map[string]struct{}),
		products: make(map[string]*model.Product),
		folders:  make(map[string]*model.Folder),
		usage:    make(map[string]*model.APIUsage),
	}
}

// AddUser registers a user id so owner checks succeed for it.
func (s *Store) AddUser(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID] = struct{}{}
}

func (s *Store) hasUser(userID string) bool {
	_, ok := s.users[userID]
	return ok
}

// CreateProduct stores a copy of p.
func (s *Store) CreateProduct(_ context.Context, p *model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasUser(p.UserID) {
		return repository.ErrOwnerNotFound
	}
	if _, exists := s.products[p.ID]; exists {
		return fmt.Errorf("duplicate product id %s", p.ID)
	}
	s.products[p.ID] = cloneProduct(p)
	return nil
}

// GetProductByID returns a copy of the product.
func (s *Store) GetProductByID(_ context.Context, id string) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return cloneProduct(p), nil
}

// UpdateMyPrice sets the product's target price.
func (s *Store) UpdateMyPrice(_ context.Context, id string, myPrice int, modifiedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	p.MyPrice = myPrice
	p.ModifiedAt = modifiedAt
	return nil
}

// LinkFolder adds folderID to the product's folder set once.
func (s *Store) LinkFolder(_ context.Context, productID, folderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return repository.ErrProductNotFound
	}
	if _, ok := s.folders[folderID]; !ok {
		return repository.ErrProductNotFound
	}
	if !p.InFolder(folderID) {
		p.FolderIDs = append(p.FolderIDs, folderID)
	}
	return nil
}

// ListProducts filters, sorts and slices products the way the SQL query does.
func (s *Store) ListProducts(_ context.Context, filter repository.ProductFilter, page repository.PageQuery) ([]*model.Product, int64, error) {
	compare, ok := productComparators[page.SortBy]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", repository.ErrInvalidSort, page.SortBy)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]*model.Product, 0, len(s.products))
	for _, p := range s.products {
		if filter.UserID != "" && p.UserID != filter.UserID {
			continue
		}
		if filter.FolderID != "" && !p.InFolder(filter.FolderID) {
			continue
		}
		matched = append(matched, p)
	}

	slices.SortFunc(matched, func(a, b *model.Product) int {
		c := compare(a, b)
		if c == 0 {
			c = strings.Compare(a.ID, b.ID)
		}
		if !page.Asc {
			c = -c
		}
		return c
	})

	total := int64(len(matched))
	start := min(page.Offset, len(matched))
	end := min(start+page.Limit, len(matched))

	out := make([]*model.Product, 0, end-start)
	for _, p := range matched[start:end] {
		out = append(out, cloneProduct(p))
	}
	return out, total, nil
}

var productComparators = map[string]func(a, b *model.Product) int{
	model.SortByID:         func(a, b *model.Product) int { return strings.Compare(a.ID, b.ID) },
	model.SortByTitle:      func(a, b *model.Product) int { return strings.Compare(a.Title, b.Title) },
	model.SortByLowPrice:   func(a, b *model.Product) int { return cmp.Compare(a.LowPrice, b.LowPrice) },
	model.SortByMyPrice:    func(a, b *model.Product) int { return cmp.Compare(a.MyPrice, b.MyPrice) },
	model.SortByCreatedAt:  func(a, b *model.Product) int { return a.CreatedAt.Compare(b.CreatedAt) },
	model.SortByModifiedAt: func(a, b *model.Product) int { return a.ModifiedAt.Compare(b.ModifiedAt) },
}

// CreateFolders stores the batch only if no name collides with the user's folders.
func (s *Store) CreateFolders(_ context.Context, userID string, folders []*model.Folder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasUser(userID) {
		return repository.ErrOwnerNotFound
	}

	taken := make(map[string]struct{})
	for _, f := range s.folders {
		if f.UserID == userID {
			taken[f.Name] = struct{}{}
		}
	}
	for _, f := range folders {
		if _, ok := taken[f.Name]; ok {
			return &repository.FolderNameExistsError{Name: f.Name}
		}
		taken[f.Name] = struct{}{}
	}

	for _, f := range folders {
		stored := *f
		stored.UserID = userID
		s.folders[f.ID] = &stored
	}
	return nil
}

// ListFoldersByUser returns the user's folders in creation order.
func (s *Store) ListFoldersByUser(_ context.Context, userID string) ([]*model.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	folders := []*model.Folder{}
	for _, f := range s.folders {
		if f.UserID == userID {
			copied := *f
			folders = append(folders, &copied)
		}
	}
	slices.SortFunc(folders, func(a, b *model.Folder) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return folders, nil
}

// GetFolderByID returns a copy of the folder.
func (s *Store) GetFolderByID(_ context.Context, id string) (*model.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.folders[id]
	if !ok {
		return nil, repository.ErrFolderNotFound
	}
	copied := *f
	return &copied, nil
}

// AddUsage increments the user's counter under the store lock.
func (s *Store) AddUsage(_ context.Context, userID string, elapsedMs int64) (*model.APIUsage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasUser(userID) {
		return nil, repository.ErrOwnerNotFound
	}

	u, ok := s.usage[userID]
	if !ok {
		u = &model.APIUsage{UserID: userID}
		s.usage[userID] = u
	}
	u.TotalTime += elapsedMs
	u.TotalCount++
	u.UpdatedAt = time.Now().UTC()

	copied := *u
	return &copied, nil
}

// ListUsage returns all counters ordered by total time, highest first.
func (s *Store) ListUsage(_ context.Context) ([]*model.APIUsage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	usages := make([]*model.APIUsage, 0, len(s.usage))
	for _, u := range s.usage {
		copied := *u
		usages = append(usages, &copied)
	}
	slices.SortFunc(usages, func(a, b *model.APIUsage) int {
		if c := cmp.Compare(b.TotalTime, a.TotalTime); c != 0 {
			return c
		}
		return strings.Compare(a.UserID, b.UserID)
	})
	return usages, nil
}

func cloneProduct(p *model.Product) *model.Product {
	copied := *p
	copied.FolderIDs = append([]string{}, p.FolderIDs...)
	return &copied
}
