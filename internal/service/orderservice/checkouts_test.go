package orderservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"goshop/internal/domain"
	apperror "goshop/internal/errors"
	"goshop/internal/service/orderservice"
)

type mockAddressRepo struct {
	mock.Mock
}

func (m *mockAddressRepo) FindAll(ctx context.Context, f domain.AddressFilter) ([]domain.Address, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Address), args.Error(1)
}

func (m *mockAddressRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAddressRepo) FindByID(ctx context.Context, id string) (domain.Address, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Address), args.Error(1)
}

func (m *mockAddressRepo) Save(ctx context.Context, address domain.Address) (domain.Address, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(domain.Address), args.Error(1)
}

func (m *mockAddressRepo) Update(ctx context.Context, address domain.Address) (domain.Address, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(domain.Address), args.Error(1)
}

func (m *mockAddressRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockCheckoutRepo struct {
	mock.Mock
}

func (m *mockCheckoutRepo) FindAll(ctx context.Context, f domain.CheckoutFilter) ([]domain.Checkout, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Checkout), args.Error(1)
}

func (m *mockCheckoutRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCheckoutRepo) FindByID(ctx context.Context, id string) (domain.Checkout, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Checkout), args.Error(1)
}

func (m *mockCheckoutRepo) Save(ctx context.Context, checkout domain.Checkout) (domain.Checkout, error) {
	args := m.Called(ctx, checkout)
	return args.Get(0).(domain.Checkout), args.Error(1)
}

func (m *mockCheckoutRepo) Update(ctx context.Context, checkout domain.Checkout) (domain.Checkout, error) {
	args := m.Called(ctx, checkout)
	return args.Get(0).(domain.Checkout), args.Error(1)
}

func (m *mockCheckoutRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func newCheckoutService() (*orderservice.CheckoutService, *mockCheckoutRepo, *mockBasketRepo, *mockAddressRepo) {
	repo := new(mockCheckoutRepo)
	baskets := new(mockBasketRepo)
	addresses := new(mockAddressRepo)
	return orderservice.NewCheckoutService(repo, baskets, addresses), repo, baskets, addresses
}

func TestCheckoutCreate_VerifiesBothReferents(t *testing.T) {
	svc, repo, baskets, addresses := newCheckoutService()

	baskets.On("FindByID", mock.Anything, "b-1").
		Return(domain.Basket{ID: "b-1", UserID: "u-1"}, nil)
	addresses.On("FindByID", mock.Anything, "a-1").
		Return(domain.Address{ID: "a-1", UserID: "u-1"}, nil)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(c domain.Checkout) bool {
		return c.ID != "" && c.UserID == "u-1" && c.BasketID == "b-1" && c.AddressID == "a-1"
	})).Return(domain.Checkout{ID: "ch-1"}, nil)

	created, err := svc.Create(context.Background(), domain.Checkout{BasketID: "b-1", AddressID: "a-1"}, owner)

	require.NoError(t, err)
	assert.Equal(t, "ch-1", created.ID)
}

// A checkout must never claim a basket owned by someone else.
func TestCheckoutCreate_ForeignBasketForbidden(t *testing.T) {
	svc, repo, baskets, _ := newCheckoutService()

	baskets.On("FindByID", mock.Anything, "b-1").
		Return(domain.Basket{ID: "b-1", UserID: "u-1"}, nil)

	_, err := svc.Create(context.Background(), domain.Checkout{BasketID: "b-1", AddressID: "a-1"}, stranger)

	var fe *apperror.ForbiddenError
	assert.ErrorAs(t, err, &fe)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCheckoutCreate_UnknownAddressRejected(t *testing.T) {
	svc, repo, baskets, addresses := newCheckoutService()

	baskets.On("FindByID", mock.Anything, "b-1").
		Return(domain.Basket{ID: "b-1", UserID: "u-1"}, nil)
	addresses.On("FindByID", mock.Anything, "ghost").
		Return(domain.Address{}, apperror.NewNotFoundError("address with id ghost not found"))

	_, err := svc.Create(context.Background(), domain.Checkout{BasketID: "b-1", AddressID: "ghost"}, owner)

	var nf *apperror.NotFoundError
	assert.ErrorAs(t, err, &nf)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCheckoutUpdate_NewAddressOwnershipRechecked(t *testing.T) {
	svc, repo, _, addresses := newCheckoutService()

	repo.On("FindByID", mock.Anything, "ch-1").
		Return(domain.Checkout{ID: "ch-1", UserID: "u-1", BasketID: "b-1", AddressID: "a-1"}, nil)
	addresses.On("FindByID", mock.Anything, "a-foreign").
		Return(domain.Address{ID: "a-foreign", UserID: "u-2"}, nil)

	foreign := "a-foreign"
	_, err := svc.Update(context.Background(), "ch-1", orderservice.CheckoutChanges{AddressID: &foreign}, owner)

	var fe *apperror.ForbiddenError
	assert.ErrorAs(t, err, &fe)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCheckoutUpdate_CommentOnly(t *testing.T) {
	svc, repo, _, _ := newCheckoutService()

	stored := domain.Checkout{ID: "ch-1", UserID: "u-1", BasketID: "b-1", AddressID: "a-1"}
	repo.On("FindByID", mock.Anything, "ch-1").Return(stored, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(c domain.Checkout) bool {
		// The basket reference is fixed at creation.
		return c.Comment == "leave at the door" && c.BasketID == "b-1" && c.AddressID == "a-1"
	})).Return(stored, nil)

	comment := "leave at the door"
	_, err := svc.Update(context.Background(), "ch-1", orderservice.CheckoutChanges{Comment: &comment}, owner)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}
