package orderservice

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"goshop/internal/domain"
	apperror "goshop/internal/errors"
)

type AddressRepository interface {
	FindAll(ctx context.Context, f domain.AddressFilter) ([]domain.Address, error)
	Count(ctx context.Context) (int64, error)
	FindByID(ctx context.Context, id string) (domain.Address, error)
	Save(ctx context.Context, address domain.Address) (domain.Address, error)
	Update(ctx context.Context, address domain.Address) (domain.Address, error)
	Delete(ctx context.Context, id string) error
}

type AddressService struct {
	repo AddressRepository
}

func NewAddressService(repo AddressRepository) *AddressService {
	return &AddressService{repo: repo}
}

func (s *AddressService) List(ctx context.Context, f domain.AddressFilter, caller domain.UserAuth) (domain.Pagination[domain.Address], error) {
	if !caller.IsAdmin() {
		f.UserID = caller.ID
	}
	f.Offset, f.Limit = domain.ClampPage(f.Offset, f.Limit)

	rows, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return domain.Pagination[domain.Address]{}, err
	}
	length, err := s.repo.Count(ctx)
	if err != nil {
		return domain.Pagination[domain.Address]{}, err
	}
	if rows == nil {
		rows = []domain.Address{}
	}
	return domain.Pagination[domain.Address]{Rows: rows, Length: length}, nil
}

func (s *AddressService) GetByID(ctx context.Context, id string, caller domain.UserAuth) (domain.Address, error) {
	address, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Address{}, err
	}
	if err := domain.IsOwnerOrAdmin(address.UserID, caller); err != nil {
		return domain.Address{}, err
	}
	return address, nil
}

func (s *AddressService) Create(ctx context.Context, address domain.Address, caller domain.UserAuth) (domain.Address, error) {
	if strings.TrimSpace(address.ReceiverName) == "" ||
		strings.TrimSpace(address.ReceiverPhone) == "" ||
		strings.TrimSpace(address.Address) == "" {
		return domain.Address{}, apperror.NewValidationError("receiverName, receiverPhone and address are required")
	}

	address.ID = uuid.New().String()
	address.UserID = caller.ID
	now := time.Now().UTC()
	address.CreatedAt = now
	address.UpdatedAt = now

	return s.repo.Save(ctx, address)
}

// AddressChanges carries a partial address update.
type AddressChanges struct {
	ReceiverName  *string
	ReceiverPhone *string
	Address       *string
	RoomOrOffice  *string
	Door          *string
	Floor         *string
	RingBell      *string
	ZipCode       *string
}

func (s *AddressService) Update(ctx context.Context, id string, ch AddressChanges, caller domain.UserAuth) (domain.Address, error) {
	address, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Address{}, err
	}
	if err := domain.IsOwnerOrAdmin(address.UserID, caller); err != nil {
		return domain.Address{}, err
	}

	if ch.ReceiverName != nil {
		address.ReceiverName = *ch.ReceiverName
	}
	if ch.ReceiverPhone != nil {
		address.ReceiverPhone = *ch.ReceiverPhone
	}
	if ch.Address != nil {
		address.Address = *ch.Address
	}
	if ch.RoomOrOffice != nil {
		address.RoomOrOffice = *ch.RoomOrOffice
	}
	if ch.Door != nil {
		address.Door = *ch.Door
	}
	if ch.Floor != nil {
		address.Floor = *ch.Floor
	}
	if ch.RingBell != nil {
		address.RingBell = *ch.RingBell
	}
	if ch.ZipCode != nil {
		address.ZipCode = *ch.ZipCode
	}
	address.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, address)
}

func (s *AddressService) Delete(ctx context.Context, id string, caller domain.UserAuth) error {
	address, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := domain.IsOwnerOrAdmin(address.UserID, caller); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
