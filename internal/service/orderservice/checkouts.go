package orderservice

import (
	"context"
	"time"

	"github.com/google/uuid"

	"goshop/internal/domain"
)

type CheckoutRepository interface {
	FindAll(ctx context.Context, f domain.CheckoutFilter) ([]domain.Checkout, error)
	Count(ctx context.Context) (int64, error)
	FindByID(ctx context.Context, id string) (domain.Checkout, error)
	Save(ctx context.Context, checkout domain.Checkout) (domain.Checkout, error)
	Update(ctx context.Context, checkout domain.Checkout) (domain.Checkout, error)
	Delete(ctx context.Context, id string) error
}

// CheckoutService validates that a checkout only ever references a basket and
// an address the caller actually owns.
type CheckoutService struct {
	repo      CheckoutRepository
	baskets   BasketRepository
	addresses AddressRepository
}

func NewCheckoutService(repo CheckoutRepository, baskets BasketRepository, addresses AddressRepository) *CheckoutService {
	return &CheckoutService{repo: repo, baskets: baskets, addresses: addresses}
}

func (s *CheckoutService) List(ctx context.Context, f domain.CheckoutFilter, caller domain.UserAuth) (domain.Pagination[domain.Checkout], error) {
	if !caller.IsAdmin() {
		f.UserID = caller.ID
	}
	f.Offset, f.Limit = domain.ClampPage(f.Offset, f.Limit)

	rows, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return domain.Pagination[domain.Checkout]{}, err
	}
	length, err := s.repo.Count(ctx)
	if err != nil {
		return domain.Pagination[domain.Checkout]{}, err
	}
	if rows == nil {
		rows = []domain.Checkout{}
	}
	return domain.Pagination[domain.Checkout]{Rows: rows, Length: length}, nil
}

func (s *CheckoutService) GetByID(ctx context.Context, id string, caller domain.UserAuth) (domain.Checkout, error) {
	checkout, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Checkout{}, err
	}
	if err := domain.IsOwnerOrAdmin(checkout.UserID, caller); err != nil {
		return domain.Checkout{}, err
	}
	return checkout, nil
}

// Create ties a basket to a delivery address. Both referents must exist and
// belong to the caller; the ownership check runs before the write so a foreign
// basket id can never be claimed.
func (s *CheckoutService) Create(ctx context.Context, checkout domain.Checkout, caller domain.UserAuth) (domain.Checkout, error) {
	basket, err := s.baskets.FindByID(ctx, checkout.BasketID)
	if err != nil {
		return domain.Checkout{}, err
	}
	if err := domain.IsOwnerOrAdmin(basket.UserID, caller); err != nil {
		return domain.Checkout{}, err
	}

	address, err := s.addresses.FindByID(ctx, checkout.AddressID)
	if err != nil {
		return domain.Checkout{}, err
	}
	if err := domain.IsOwnerOrAdmin(address.UserID, caller); err != nil {
		return domain.Checkout{}, err
	}

	checkout.ID = uuid.New().String()
	checkout.UserID = caller.ID
	now := time.Now().UTC()
	checkout.CreatedAt = now
	checkout.UpdatedAt = now

	return s.repo.Save(ctx, checkout)
}

// CheckoutChanges carries a partial checkout update. The basket reference is
// fixed at creation; only the address and comment may change.
type CheckoutChanges struct {
	AddressID *string
	Comment   *string
}

func (s *CheckoutService) Update(ctx context.Context, id string, ch CheckoutChanges, caller domain.UserAuth) (domain.Checkout, error) {
	checkout, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Checkout{}, err
	}
	if err := domain.IsOwnerOrAdmin(checkout.UserID, caller); err != nil {
		return domain.Checkout{}, err
	}

	if ch.AddressID != nil {
		address, err := s.addresses.FindByID(ctx, *ch.AddressID)
		if err != nil {
			return domain.Checkout{}, err
		}
		if err := domain.IsOwnerOrAdmin(address.UserID, caller); err != nil {
			return domain.Checkout{}, err
		}
		checkout.AddressID = *ch.AddressID
	}
	if ch.Comment != nil {
		checkout.Comment = *ch.Comment
	}
	checkout.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, checkout)
}

func (s *CheckoutService) Delete(ctx context.Context, id string, caller domain.UserAuth) error {
	checkout, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := domain.IsOwnerOrAdmin(checkout.UserID, caller); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
