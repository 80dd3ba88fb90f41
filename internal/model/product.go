package model

import (
	"math"
	"slices"
	"time"
)

// Product is an item a user tracks at a personal target price.
// LowPrice comes from the shopping feed and never changes; MyPrice is the
// only field the owner may edit besides folder membership.
type Product struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Title      string    `json:"title"`
	Image      string    `json:"image"`
	Link       string    `json:"link"`
	LowPrice   int       `json:"lprice"`
	MyPrice    int       `json:"myprice"`
	FolderIDs  []string  `json:"folderIds"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// OwnedBy reports whether userID owns the product.
func (p *Product) OwnedBy(userID string) bool {
	return p.UserID == userID
}

// InFolder reports whether the product is linked to folderID.
func (p *Product) InFolder(folderID string) bool {
	return slices.Contains(p.FolderIDs, folderID)
}

// MaxPrice is the largest price the prices columns can store.
const MaxPrice = math.MaxInt32

// Sortable product fields as accepted by the listing endpoints.
const (
	SortByID         = "id"
	SortByTitle      = "title"
	SortByLowPrice   = "lprice"
	SortByMyPrice    = "myprice"
	SortByCreatedAt  = "createdAt"
	SortByModifiedAt = "modifiedAt"
)

// ProductSortFields lists every field a product page may be ordered by.
var ProductSortFields = []string{
	SortByID,
	SortByTitle,
	SortByLowPrice,
	SortByMyPrice,
	SortByCreatedAt,
	SortByModifiedAt,
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Content       []*Product `json:"content"`
	Page          int        `json:"page"`
	Size          int        `json:"size"`
	TotalElements int64      `json:"totalElements"`
	TotalPages    int        `json:"totalPages"`
}
