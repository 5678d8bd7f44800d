package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is a node of the self-referential category tree.
type Category struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	URL        string      `json:"url"`
	ParentID   *string     `json:"parentId,omitempty"`
	Parent     *Category   `json:"parent,omitempty"`
	Children   []Category  `json:"children,omitempty"`
	Parameters []Parameter `json:"parameters,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// Parameter is a named product attribute attached to categories
// (e.g. "screen size") and valued per product.
type Parameter struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ParameterValue is the value a product carries for one of its category's
// parameters.
type ParameterValue struct {
	ParameterID string `json:"parameterId"`
	ProductID   string `json:"productId"`
	Value       string `json:"value"`
}

// Tag is a free-form label, many-to-many with products.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Color is a palette entry, many-to-many with products and referenced by
// purchasable variants.
type Color struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
	Code string `json:"code"`
}

// Brand groups products by manufacturer.
type Brand struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	ShowOnMain bool   `json:"showOnMain"`
}

// Product is the main catalog entity.
type Product struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Price      decimal.Decimal     `json:"price"`
	OldPrice   decimal.NullDecimal `json:"oldPrice,omitempty"`
	Desc       string              `json:"desc,omitempty"`
	Available  bool                `json:"available"`
	Images     string              `json:"images,omitempty"`
	URL        string              `json:"url"`
	CategoryID string              `json:"categoryId"`
	BrandID    string              `json:"brandId"`
	Category   *Category           `json:"category,omitempty"`
	Brand      *Brand              `json:"brand,omitempty"`
	Colors     []Color             `json:"colors,omitempty"`
	Tags       []Tag               `json:"tags,omitempty"`
	Variants   []ProductVariant    `json:"productVariants,omitempty"`
	Parameters []ParameterValue    `json:"parameterProducts,omitempty"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

// ProductVariant is a purchasable SKU of a product in a specific color.
// Variants cascade on product deletion.
type ProductVariant struct {
	ID        string              `json:"id"`
	ProductID string              `json:"productId"`
	ColorID   string              `json:"colorId"`
	Price     decimal.Decimal     `json:"price"`
	OldPrice  decimal.NullDecimal `json:"oldPrice,omitempty"`
	Available bool                `json:"available"`
	Images    string              `json:"images,omitempty"`
	Color     *Color              `json:"color,omitempty"`
}

// PriceRange is the min/max product price over a filtered set.
type PriceRange struct {
	MinPrice decimal.Decimal `json:"minPrice"`
	MaxPrice decimal.Decimal `json:"maxPrice"`
}
