package service

import (
	"fmt"
	"math"
	"slices"

	"github.com/pricewatch/pricewatch/internal/model"
	"github.com/pricewatch/pricewatch/internal/repository"
)

// Paging defaults applied by the HTTP layer when a parameter is absent.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultSortBy   = model.SortByID
)

// PageRequest asks for one page of products. Page is 1-indexed.
type PageRequest struct {
	Page   int
	Size   int
	SortBy string
	Asc    bool
}

// DefaultPageRequest returns the listing the front-end asks for by default.
func DefaultPageRequest() PageRequest {
	return PageRequest{
		Page:   DefaultPage,
		Size:   DefaultPageSize,
		SortBy: DefaultSortBy,
	}
}

// query validates the request and converts it to a zero-indexed window.
func (r PageRequest) query() (repository.PageQuery, error) {
	if r.Page < 1 {
		return repository.PageQuery{}, fmt.Errorf("%w: page must be at least 1", ErrInvalidArgument)
	}
	if r.Size < 1 || r.Size > MaxPageSize {
		return repository.PageQuery{}, fmt.Errorf("%w: size must be between 1 and %d", ErrInvalidArgument, MaxPageSize)
	}
	if r.Page-1 > math.MaxInt/r.Size {
		return repository.PageQuery{}, fmt.Errorf("%w: page %d is out of range", ErrInvalidArgument, r.Page)
	}
	if !slices.Contains(model.ProductSortFields, r.SortBy) {
		return repository.PageQuery{}, fmt.Errorf("%w: cannot sort by %q", ErrInvalidArgument, r.SortBy)
	}

	return repository.PageQuery{
		Offset: (r.Page - 1) * r.Size,
		Limit:  r.Size,
		SortBy: r.SortBy,
		Asc:    r.Asc,
	}, nil
}

func newProductPage(content []*model.Product, total int64, req PageRequest) *model.ProductPage {
	pages := int((total + int64(req.Size) - 1) / int64(req.Size))
	return &model.ProductPage{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}
