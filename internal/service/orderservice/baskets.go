// Package orderservice owns basket, address and checkout business rules:
// ownership enforcement, basket total calculation and the referential checks
// a checkout needs before it ties a basket to an address.
package orderservice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"goshop/internal/domain"
	apperror "goshop/internal/errors"
)

type BasketRepository interface {
	FindAll(ctx context.Context, f domain.BasketFilter) ([]domain.Basket, error)
	Count(ctx context.Context) (int64, error)
	FindByID(ctx context.Context, id string) (domain.Basket, error)
	Save(ctx context.Context, basket domain.Basket) (domain.Basket, error)
	Update(ctx context.Context, basket domain.Basket) (domain.Basket, error)
	Delete(ctx context.Context, id string) error
}

type BasketService struct {
	repo BasketRepository
}

func NewBasketService(repo BasketRepository) *BasketService {
	return &BasketService{repo: repo}
}

// List returns one basket page. Non-admin callers are pinned to their own
// baskets regardless of the requested filter.
func (s *BasketService) List(ctx context.Context, f domain.BasketFilter, caller domain.UserAuth) (domain.Pagination[domain.Basket], error) {
	if !caller.IsAdmin() {
		f.UserID = caller.ID
	}
	f.Offset, f.Limit = domain.ClampPage(f.Offset, f.Limit)

	rows, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return domain.Pagination[domain.Basket]{}, err
	}
	length, err := s.repo.Count(ctx)
	if err != nil {
		return domain.Pagination[domain.Basket]{}, err
	}
	if rows == nil {
		rows = []domain.Basket{}
	}
	return domain.Pagination[domain.Basket]{Rows: rows, Length: length}, nil
}

func (s *BasketService) GetByID(ctx context.Context, id string, caller domain.UserAuth) (domain.Basket, error) {
	basket, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Basket{}, err
	}
	if err := domain.IsOwnerOrAdmin(basket.UserID, caller); err != nil {
		return domain.Basket{}, err
	}
	return basket, nil
}

// Create opens a new basket for the caller. Every line needs a positive
// quantity; the total is computed here, never taken from the client.
func (s *BasketService) Create(ctx context.Context, items []domain.OrderProduct, caller domain.UserAuth) (domain.Basket, error) {
	if err := validateItems(items); err != nil {
		return domain.Basket{}, err
	}

	now := time.Now().UTC()
	basket := domain.Basket{
		ID:        uuid.New().String(),
		UserID:    caller.ID,
		Status:    domain.BasketNew,
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i := range basket.Items {
		basket.Items[i].ID = uuid.New().String()
		basket.Items[i].BasketID = basket.ID
	}
	basket.TotalAmount = basketTotal(basket.Items)

	return s.repo.Save(ctx, basket)
}

// BasketChanges carries a partial basket update. A present Items slice
// replaces the basket's lines wholesale and recomputes the total.
type BasketChanges struct {
	Status *domain.BasketStatus
	Items  []domain.OrderProduct
}

func (s *BasketService) Update(ctx context.Context, id string, ch BasketChanges, caller domain.UserAuth) (domain.Basket, error) {
	basket, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Basket{}, err
	}
	if err := domain.IsOwnerOrAdmin(basket.UserID, caller); err != nil {
		return domain.Basket{}, err
	}

	if ch.Status != nil {
		if !domain.ValidBasketStatus(*ch.Status) {
			return domain.Basket{}, apperror.NewValidationError("unknown basket status")
		}
		basket.Status = *ch.Status
	}
	if ch.Items != nil {
		if err := validateItems(ch.Items); err != nil {
			return domain.Basket{}, err
		}
		for i := range ch.Items {
			if ch.Items[i].ID == "" {
				ch.Items[i].ID = uuid.New().String()
			}
			ch.Items[i].BasketID = basket.ID
		}
		basket.Items = ch.Items
		basket.TotalAmount = basketTotal(basket.Items)
	}
	basket.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, basket)
}

func (s *BasketService) Delete(ctx context.Context, id string, caller domain.UserAuth) error {
	basket, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := domain.IsOwnerOrAdmin(basket.UserID, caller); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func validateItems(items []domain.OrderProduct) error {
	if len(items) == 0 {
		return apperror.NewValidationError("basket requires at least one item")
	}
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.Qty < 1 {
			return apperror.NewValidationError("item quantity must be at least 1")
		}
		if item.ProductID == "" {
			return apperror.NewValidationError("item productId is required")
		}
		if item.ProductPrice.IsNegative() {
			return apperror.NewValidationError("item price must not be negative")
		}
		if _, dup := seen[item.ProductID]; dup {
			return apperror.NewValidationError("basket already contains this product")
		}
		seen[item.ProductID] = struct{}{}
	}
	return nil
}

func basketTotal(items []domain.OrderProduct) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.ProductPrice.Mul(decimal.NewFromInt(int64(item.Qty))))
	}
	return total
}
