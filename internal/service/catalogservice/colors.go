package catalogservice

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"goshop/internal/domain"
	apperror "goshop/internal/errors"
)

type ColorRepository interface {
	FindAll(ctx context.Context, f domain.ColorFilter) ([]domain.Color, error)
	Count(ctx context.Context) (int64, error)
	FindByID(ctx context.Context, id string) (domain.Color, error)
	Save(ctx context.Context, color domain.Color) (domain.Color, error)
	Update(ctx context.Context, color domain.Color) error
	Delete(ctx context.Context, id string) error
}

type ColorService struct {
	repo ColorRepository
}

func NewColorService(repo ColorRepository) *ColorService {
	return &ColorService{repo: repo}
}

func (s *ColorService) List(ctx context.Context, f domain.ColorFilter) (domain.Pagination[domain.Color], error) {
	f.Offset, f.Limit = domain.ClampPage(f.Offset, f.Limit)

	rows, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return domain.Pagination[domain.Color]{}, err
	}
	length, err := s.repo.Count(ctx)
	if err != nil {
		return domain.Pagination[domain.Color]{}, err
	}
	if rows == nil {
		rows = []domain.Color{}
	}
	return domain.Pagination[domain.Color]{Rows: rows, Length: length}, nil
}

func (s *ColorService) GetByID(ctx context.Context, id string) (domain.Color, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ColorService) Create(ctx context.Context, color domain.Color) (domain.Color, error) {
	if strings.TrimSpace(color.Name) == "" || strings.TrimSpace(color.URL) == "" {
		return domain.Color{}, apperror.NewValidationError("color name and url are required")
	}
	color.ID = uuid.New().String()
	return s.repo.Save(ctx, color)
}

type ColorChanges struct {
	Name *string
	URL  *string
	Code *string
}

func (s *ColorService) Update(ctx context.Context, id string, ch ColorChanges) (domain.Color, error) {
	color, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Color{}, err
	}
	if ch.Name != nil {
		color.Name = *ch.Name
	}
	if ch.URL != nil {
		color.URL = *ch.URL
	}
	if ch.Code != nil {
		color.Code = *ch.Code
	}
	if err := s.repo.Update(ctx, color); err != nil {
		return domain.Color{}, err
	}
	return color, nil
}

func (s *ColorService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
