package orderrepo

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"goshop/internal/domain"
)

func TestBuildBasketListQuery_NoFilters(t *testing.T) {
	query, args := buildBasketListQuery(domain.BasketFilter{Offset: 0, Limit: 10})

	assert.NotContains(t, query, "WHERE")
	assert.Contains(t, query, "ORDER BY updated_at DESC")
	assert.Contains(t, query, "OFFSET $1 LIMIT $2")
	assert.Equal(t, []interface{}{0, 10}, args)
}

func TestBuildBasketListQuery_AllFilters(t *testing.T) {
	minTotal := decimal.NewFromInt(100)
	maxTotal := decimal.NewFromInt(500)
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	f := domain.BasketFilter{
		UserID:      "user-1",
		Status:      domain.BasketNew,
		MinTotal:    &minTotal,
		MaxTotal:    &maxTotal,
		UpdatedFrom: &from,
		UpdatedTo:   &to,
		SortBy:      "totalAmount",
		OrderBy:     domain.OrderAsc,
		Offset:      20,
		Limit:       10,
	}

	query, args := buildBasketListQuery(f)

	assert.Contains(t, query, "user_id = $1")
	assert.Contains(t, query, "status = $2")
	assert.Contains(t, query, "total_amount >= $3")
	assert.Contains(t, query, "total_amount <= $4")
	assert.Contains(t, query, "updated_at >= $5")
	assert.Contains(t, query, "updated_at <= $6")
	assert.Contains(t, query, "ORDER BY total_amount ASC")
	assert.Contains(t, query, "OFFSET $7 LIMIT $8")
	assert.Len(t, args, 8)
}

func TestBuildAddressListQuery_ReceiverSearch(t *testing.T) {
	query, args := buildAddressListQuery(domain.AddressFilter{
		UserID:       "user-1",
		ReceiverName: "Ivan",
		Limit:        10,
	})

	assert.Contains(t, query, "user_id = $1")
	assert.Contains(t, query, "receiver_name ILIKE $2")
	assert.Equal(t, "user-1", args[0])
	assert.Equal(t, "%Ivan%", args[1])
}

func TestBuildCheckoutListQuery_ByBasket(t *testing.T) {
	query, args := buildCheckoutListQuery(domain.CheckoutFilter{
		BasketID: "basket-1",
		Limit:    10,
	})

	assert.Contains(t, query, "basket_id = $1")
	assert.Equal(t, "basket-1", args[0])
}
