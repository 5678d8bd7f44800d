package catalogservice

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"goshop/internal/domain"
	apperror "goshop/internal/errors"
)

type BrandRepository interface {
	FindAll(ctx context.Context, f domain.BrandFilter) ([]domain.Brand, error)
	Count(ctx context.Context) (int64, error)
	FindByID(ctx context.Context, id string) (domain.Brand, error)
	Save(ctx context.Context, brand domain.Brand) (domain.Brand, error)
	Update(ctx context.Context, brand domain.Brand) error
	Delete(ctx context.Context, id string) error
}

type BrandService struct {
	repo BrandRepository
}

func NewBrandService(repo BrandRepository) *BrandService {
	return &BrandService{repo: repo}
}

func (s *BrandService) List(ctx context.Context, f domain.BrandFilter) (domain.Pagination[domain.Brand], error) {
	f.Offset, f.Limit = domain.ClampPage(f.Offset, f.Limit)

	rows, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return domain.Pagination[domain.Brand]{}, err
	}
	length, err := s.repo.Count(ctx)
	if err != nil {
		return domain.Pagination[domain.Brand]{}, err
	}
	if rows == nil {
		rows = []domain.Brand{}
	}
	return domain.Pagination[domain.Brand]{Rows: rows, Length: length}, nil
}

func (s *BrandService) GetByID(ctx context.Context, id string) (domain.Brand, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *BrandService) Create(ctx context.Context, brand domain.Brand) (domain.Brand, error) {
	if strings.TrimSpace(brand.Name) == "" || strings.TrimSpace(brand.URL) == "" {
		return domain.Brand{}, apperror.NewValidationError("brand name and url are required")
	}
	brand.ID = uuid.New().String()
	return s.repo.Save(ctx, brand)
}

type BrandChanges struct {
	Name       *string
	URL        *string
	ShowOnMain *bool
}

func (s *BrandService) Update(ctx context.Context, id string, ch BrandChanges) (domain.Brand, error) {
	brand, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Brand{}, err
	}
	if ch.Name != nil {
		brand.Name = *ch.Name
	}
	if ch.URL != nil {
		brand.URL = *ch.URL
	}
	if ch.ShowOnMain != nil {
		brand.ShowOnMain = *ch.ShowOnMain
	}
	if err := s.repo.Update(ctx, brand); err != nil {
		return domain.Brand{}, err
	}
	return brand, nil
}

func (s *BrandService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
