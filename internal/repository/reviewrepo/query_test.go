package reviewrepo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"goshop/internal/domain"
)

func TestBuildReviewListQuery_NoFilters(t *testing.T) {
	query, args := buildReviewListQuery(domain.ReviewFilter{Offset: 0, Limit: 10})

	assert.NotContains(t, query, "WHERE")
	assert.Contains(t, query, "ORDER BY product_id DESC")
	assert.Contains(t, query, "OFFSET $1 LIMIT $2")
	assert.Equal(t, []interface{}{0, 10}, args)
}

func TestBuildReviewListQuery_AllFilters(t *testing.T) {
	show := true
	f := domain.ReviewFilter{
		ProductID:  "prod-1",
		UserID:     "user-1",
		ShowOnMain: &show,
		SortBy:     "rating",
		OrderBy:    domain.OrderAsc,
		Offset:     10,
		Limit:      5,
	}

	query, args := buildReviewListQuery(f)

	assert.Contains(t, query, "product_id = $1")
	assert.Contains(t, query, "user_id = $2")
	assert.Contains(t, query, "show_on_main = $3")
	assert.Contains(t, query, "ORDER BY rating ASC")
	assert.Contains(t, query, "OFFSET $4 LIMIT $5")
	assert.Equal(t, []interface{}{"prod-1", "user-1", true, 10, 5}, args)
}

// Pinning sortBy to the unique id column makes one-row pages deterministic:
// two reviews for one product, limit 1, offset 0 always yields the newest id.
func TestBuildReviewListQuery_SortByIDForStablePaging(t *testing.T) {
	query, args := buildReviewListQuery(domain.ReviewFilter{
		ProductID: "P1",
		SortBy:    "id",
		Offset:    0,
		Limit:     1,
	})

	assert.Contains(t, query, "product_id = $1")
	assert.Contains(t, query, "ORDER BY id DESC")
	assert.Contains(t, query, "OFFSET $2 LIMIT $3")
	assert.Equal(t, []interface{}{"P1", 0, 1}, args)
}

func TestBuildReviewListQuery_UnknownSortKeyFallsBack(t *testing.T) {
	query, _ := buildReviewListQuery(domain.ReviewFilter{SortBy: "text; DROP TABLE reviews", Limit: 10})

	assert.Contains(t, query, "ORDER BY product_id DESC")
	assert.NotContains(t, query, "DROP TABLE")
}
