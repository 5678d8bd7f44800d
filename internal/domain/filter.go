package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SortOrder is the sort direction of a list query.
type SortOrder string

const (
	OrderAsc  SortOrder = "ASC"
	OrderDesc SortOrder = "DESC"
)

// Pagination is the standard list envelope. Length semantics differ per
// service and are documented on the repository method producing it.
type Pagination[T any] struct {
	Rows   []T   `json:"rows"`
	Length int64 `json:"length"`
}

// DefaultLimit bounds list responses when the caller does not specify one.
const DefaultLimit = 10

// MaxLimit is the hard ceiling on a single page.
const MaxLimit = 100

// ClampPage normalizes caller-supplied paging values: negative offsets become
// zero, missing limits take the default and oversized limits are capped.
func ClampPage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return offset, limit
}

// ProductFilter is the query specification for product list endpoints.
// Slice fields match against the related entity's url column.
type ProductFilter struct {
	Name       string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Available  *bool
	Colors     []string
	Categories []string
	Brands     []string
	Tags       []string
	SortBy     string
	OrderBy    SortOrder
	Offset     int
	Limit      int
}

// CategoryFilter is the query specification for category lists.
type CategoryFilter struct {
	Name     string
	URL      string
	ParentID string
	SortBy   string
	OrderBy  SortOrder
	Offset   int
	Limit    int
}

// TagFilter is the query specification for tag lists.
type TagFilter struct {
	Name     string
	URL      string
	Products []string
	SortBy   string
	OrderBy  SortOrder
	Offset   int
	Limit    int
}

// ParameterFilter is the query specification for parameter lists.
type ParameterFilter struct {
	Name       string
	Categories []string
	SortBy     string
	OrderBy    SortOrder
	Offset     int
	Limit      int
}

// ColorFilter is the query specification for color lists.
type ColorFilter struct {
	Name     string
	URL      string
	Code     string
	Products []string
	SortBy   string
	OrderBy  SortOrder
	Offset   int
	Limit    int
}

// BrandFilter is the query specification for brand lists.
type BrandFilter struct {
	Name       string
	ShowOnMain *bool
	SortBy     string
	OrderBy    SortOrder
	Offset     int
	Limit      int
}

// ReviewFilter is the query specification for review lists. Merge controls
// remote enrichment and defaults to true at the handler.
type ReviewFilter struct {
	ProductID  string
	UserID     string
	ShowOnMain *bool
	SortBy     string
	OrderBy    SortOrder
	Offset     int
	Limit      int
}

// BasketFilter is the query specification for basket lists.
type BasketFilter struct {
	UserID      string
	Status      BasketStatus
	MinTotal    *decimal.Decimal
	MaxTotal    *decimal.Decimal
	UpdatedFrom *time.Time
	UpdatedTo   *time.Time
	SortBy      string
	OrderBy     SortOrder
	Offset      int
	Limit       int
}

// AddressFilter is the query specification for address lists.
type AddressFilter struct {
	UserID        string
	ReceiverName  string
	ReceiverPhone string
	SortBy        string
	OrderBy       SortOrder
	Offset        int
	Limit         int
}

// CheckoutFilter is the query specification for checkout lists.
type CheckoutFilter struct {
	UserID    string
	AddressID string
	BasketID  string
	SortBy    string
	OrderBy   SortOrder
	Offset    int
	Limit     int
}
