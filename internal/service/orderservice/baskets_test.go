package orderservice_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"goshop/internal/domain"
	apperror "goshop/internal/errors"
	"goshop/internal/service/orderservice"
)

type mockBasketRepo struct {
	mock.Mock
}

func (m *mockBasketRepo) FindAll(ctx context.Context, f domain.BasketFilter) ([]domain.Basket, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Basket), args.Error(1)
}

func (m *mockBasketRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBasketRepo) FindByID(ctx context.Context, id string) (domain.Basket, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Basket), args.Error(1)
}

func (m *mockBasketRepo) Save(ctx context.Context, basket domain.Basket) (domain.Basket, error) {
	args := m.Called(ctx, basket)
	return args.Get(0).(domain.Basket), args.Error(1)
}

func (m *mockBasketRepo) Update(ctx context.Context, basket domain.Basket) (domain.Basket, error) {
	args := m.Called(ctx, basket)
	return args.Get(0).(domain.Basket), args.Error(1)
}

func (m *mockBasketRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

var (
	owner    = domain.UserAuth{ID: "u-1", Role: domain.RoleUser}
	stranger = domain.UserAuth{ID: "u-2", Role: domain.RoleUser}
	admin    = domain.UserAuth{ID: "admin-1", Role: domain.RoleAdmin}
)

// Non-admin callers only ever see their own baskets, whatever filter they send.
func TestBasketList_NonAdminPinnedToOwnBaskets(t *testing.T) {
	repo := new(mockBasketRepo)
	svc := orderservice.NewBasketService(repo)

	repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f domain.BasketFilter) bool {
		return f.UserID == "u-1"
	})).Return([]domain.Basket{}, nil)
	repo.On("Count", mock.Anything).Return(int64(0), nil)

	_, err := svc.List(context.Background(), domain.BasketFilter{UserID: "u-2"}, owner)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestBasketList_AdminFilterUntouched(t *testing.T) {
	repo := new(mockBasketRepo)
	svc := orderservice.NewBasketService(repo)

	repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f domain.BasketFilter) bool {
		return f.UserID == "u-2"
	})).Return([]domain.Basket{}, nil)
	repo.On("Count", mock.Anything).Return(int64(0), nil)

	_, err := svc.List(context.Background(), domain.BasketFilter{UserID: "u-2"}, admin)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestBasketCreate_ComputesTotalFromLines(t *testing.T) {
	repo := new(mockBasketRepo)
	svc := orderservice.NewBasketService(repo)

	repo.On("Save", mock.Anything, mock.MatchedBy(func(b domain.Basket) bool {
		// 2 * 10.50 + 1 * 5 = 26.00, never taken from the client.
		return b.UserID == "u-1" &&
			b.Status == domain.BasketNew &&
			b.TotalAmount.Equal(decimal.RequireFromString("26.00")) &&
			b.Items[0].BasketID == b.ID && b.Items[0].ID != ""
	})).Return(domain.Basket{ID: "b-1"}, nil)

	items := []domain.OrderProduct{
		{ProductID: "p-1", Qty: 2, ProductPrice: decimal.RequireFromString("10.50")},
		{ProductID: "p-2", Qty: 1, ProductPrice: decimal.NewFromInt(5)},
	}

	_, err := svc.Create(context.Background(), items, owner)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestBasketCreate_RejectsBadLines(t *testing.T) {
	repo := new(mockBasketRepo)
	svc := orderservice.NewBasketService(repo)

	price := decimal.NewFromInt(5)
	cases := map[string][]domain.OrderProduct{
		"no items":          {},
		"zero quantity":     {{ProductID: "p-1", Qty: 0, ProductPrice: price}},
		"missing product":   {{Qty: 1, ProductPrice: price}},
		"negative price":    {{ProductID: "p-1", Qty: 1, ProductPrice: decimal.NewFromInt(-5)}},
		"duplicate product": {{ProductID: "p-1", Qty: 1, ProductPrice: price}, {ProductID: "p-1", Qty: 2, ProductPrice: price}},
	}

	for name, items := range cases {
		_, err := svc.Create(context.Background(), items, owner)

		var ve *apperror.ValidationError
		assert.ErrorAs(t, err, &ve, name)
	}
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestBasketGet_StrangerForbidden(t *testing.T) {
	repo := new(mockBasketRepo)
	svc := orderservice.NewBasketService(repo)

	repo.On("FindByID", mock.Anything, "b-1").Return(domain.Basket{ID: "b-1", UserID: "u-1"}, nil)

	_, err := svc.GetByID(context.Background(), "b-1", stranger)

	var fe *apperror.ForbiddenError
	assert.ErrorAs(t, err, &fe)
}

func TestBasketUpdate_ItemsReplaceAndRecomputeTotal(t *testing.T) {
	repo := new(mockBasketRepo)
	svc := orderservice.NewBasketService(repo)

	stored := domain.Basket{
		ID:          "b-1",
		UserID:      "u-1",
		Status:      domain.BasketNew,
		TotalAmount: decimal.NewFromInt(100),
		Items:       []domain.OrderProduct{{ID: "line-1", ProductID: "p-1", Qty: 1, ProductPrice: decimal.NewFromInt(100)}},
	}
	repo.On("FindByID", mock.Anything, "b-1").Return(stored, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(b domain.Basket) bool {
		return len(b.Items) == 1 && b.Items[0].ProductID == "p-2" &&
			b.TotalAmount.Equal(decimal.NewFromInt(30))
	})).Return(domain.Basket{ID: "b-1"}, nil)

	_, err := svc.Update(context.Background(), "b-1", orderservice.BasketChanges{
		Items: []domain.OrderProduct{{ProductID: "p-2", Qty: 3, ProductPrice: decimal.NewFromInt(10)}},
	}, owner)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestBasketUpdate_UnknownStatusRejected(t *testing.T) {
	repo := new(mockBasketRepo)
	svc := orderservice.NewBasketService(repo)

	repo.On("FindByID", mock.Anything, "b-1").Return(domain.Basket{ID: "b-1", UserID: "u-1"}, nil)

	bogus := domain.BasketStatus("SHIPPED_TO_MARS")
	_, err := svc.Update(context.Background(), "b-1", orderservice.BasketChanges{Status: &bogus}, owner)

	var ve *apperror.ValidationError
	assert.ErrorAs(t, err, &ve)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestBasketDelete_AdminMayDeleteAnyBasket(t *testing.T) {
	repo := new(mockBasketRepo)
	svc := orderservice.NewBasketService(repo)

	repo.On("FindByID", mock.Anything, "b-1").Return(domain.Basket{ID: "b-1", UserID: "u-1"}, nil)
	repo.On("Delete", mock.Anything, "b-1").Return(nil)

	err := svc.Delete(context.Background(), "b-1", admin)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}
