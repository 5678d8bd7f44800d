package catalogrepo

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"goshop/internal/domain"
)

func TestBuildProductListQuery_NoFilters(t *testing.T) {
	query, args := buildProductListQuery(domain.ProductFilter{Offset: 0, Limit: 10})

	assert.NotContains(t, query, "WHERE")
	assert.Contains(t, query, "ORDER BY p.name DESC")
	assert.Contains(t, query, "OFFSET $1 LIMIT $2")
	assert.Equal(t, []interface{}{0, 10}, args)
}

func TestBuildProductListQuery_AllFilters(t *testing.T) {
	minPrice := decimal.NewFromInt(10)
	maxPrice := decimal.NewFromInt(100)
	available := true

	f := domain.ProductFilter{
		Name:       "phone",
		MinPrice:   &minPrice,
		MaxPrice:   &maxPrice,
		Available:  &available,
		Categories: []string{"electronics"},
		Brands:     []string{"acme"},
		Colors:     []string{"red"},
		Tags:       []string{"sale"},
		SortBy:     "price",
		OrderBy:    domain.OrderAsc,
		Offset:     20,
		Limit:      10,
	}

	query, args := buildProductListQuery(f)

	assert.Contains(t, query, "p.name ILIKE $1")
	assert.Contains(t, query, "p.price >= $2")
	assert.Contains(t, query, "p.price <= $3")
	assert.Contains(t, query, "p.available = $4")
	assert.Contains(t, query, "c.url = ANY($5)")
	assert.Contains(t, query, "b.url = ANY($6)")
	assert.Contains(t, query, "col.url = ANY($7)")
	assert.Contains(t, query, "t.url = ANY($8)")
	assert.Contains(t, query, "ORDER BY p.price ASC")
	assert.Contains(t, query, "OFFSET $9 LIMIT $10")
	assert.Len(t, args, 10)
	assert.Equal(t, "%phone%", args[0])
	assert.Equal(t, 20, args[8])
	assert.Equal(t, 10, args[9])
}

func TestBuildProductListQuery_UnknownSortKeyFallsBack(t *testing.T) {
	query, _ := buildProductListQuery(domain.ProductFilter{SortBy: "evil; --", Limit: 10})

	assert.Contains(t, query, "ORDER BY p.name DESC")
	assert.NotContains(t, query, "evil")
}

func TestBuildCategoryListQuery_ParentFilter(t *testing.T) {
	query, args := buildCategoryListQuery(domain.CategoryFilter{
		Name:     "shoes",
		ParentID: "cat-1",
		Limit:    10,
	})

	assert.Contains(t, query, "name ILIKE $1")
	assert.Contains(t, query, "parent_id = $2")
	assert.Equal(t, "%shoes%", args[0])
	assert.Equal(t, "cat-1", args[1])
}

func TestBuildTagListQuery_ByProductURL(t *testing.T) {
	query, args := buildTagListQuery(domain.TagFilter{
		Products: []string{"red-shirt"},
		Limit:    10,
	})

	assert.True(t, strings.Contains(query, "EXISTS"))
	assert.Len(t, args, 3) // products array + offset + limit
}

func TestBuildBrandListQuery_ShowOnMain(t *testing.T) {
	show := true
	query, args := buildBrandListQuery(domain.BrandFilter{ShowOnMain: &show, Limit: 5})

	assert.Contains(t, query, "show_on_main = $1")
	assert.Equal(t, true, args[0])
}
