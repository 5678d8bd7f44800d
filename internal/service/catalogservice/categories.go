package catalogservice

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"goshop/internal/domain"
	apperror "goshop/internal/errors"
)

type CategoryRepository interface {
	FindAll(ctx context.Context, f domain.CategoryFilter) ([]domain.Category, error)
	FindTree(ctx context.Context) ([]domain.Category, error)
	Count(ctx context.Context) (int64, error)
	FindByID(ctx context.Context, id string) (domain.Category, error)
	Save(ctx context.Context, category domain.Category) (domain.Category, error)
	Update(ctx context.Context, category domain.Category) error
	Delete(ctx context.Context, id string) error
}

type CategoryService struct {
	repo CategoryRepository
}

func NewCategoryService(repo CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) List(ctx context.Context, f domain.CategoryFilter) (domain.Pagination[domain.Category], error) {
	f.Offset, f.Limit = domain.ClampPage(f.Offset, f.Limit)

	rows, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return domain.Pagination[domain.Category]{}, err
	}
	length, err := s.repo.Count(ctx)
	if err != nil {
		return domain.Pagination[domain.Category]{}, err
	}
	if rows == nil {
		rows = []domain.Category{}
	}
	return domain.Pagination[domain.Category]{Rows: rows, Length: length}, nil
}

// Tree returns the root categories with children nested recursively.
func (s *CategoryService) Tree(ctx context.Context) ([]domain.Category, error) {
	return s.repo.FindTree(ctx)
}

func (s *CategoryService) GetByID(ctx context.Context, id string) (domain.Category, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, category domain.Category) (domain.Category, error) {
	if strings.TrimSpace(category.Name) == "" || strings.TrimSpace(category.URL) == "" {
		return domain.Category{}, apperror.NewValidationError("category name and url are required")
	}
	if category.ParentID != nil {
		if _, err := s.repo.FindByID(ctx, *category.ParentID); err != nil {
			return domain.Category{}, err
		}
	}

	category.ID = uuid.New().String()
	now := time.Now().UTC()
	category.CreatedAt = now
	category.UpdatedAt = now

	return s.repo.Save(ctx, category)
}

// CategoryChanges carries a partial category update. A nil ParentID keeps the
// current parent; an empty string detaches the category from its parent.
type CategoryChanges struct {
	Name       *string
	URL        *string
	ParentID   *string
	Parameters []domain.Parameter
}

func (s *CategoryService) Update(ctx context.Context, id string, ch CategoryChanges) (domain.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Category{}, err
	}

	if ch.Name != nil {
		category.Name = *ch.Name
	}
	if ch.URL != nil {
		category.URL = *ch.URL
	}
	if ch.ParentID != nil {
		switch parent := *ch.ParentID; parent {
		case "":
			category.ParentID = nil
		case id:
			return domain.Category{}, apperror.NewValidationError("category cannot be its own parent")
		default:
			if _, err := s.repo.FindByID(ctx, parent); err != nil {
				return domain.Category{}, err
			}
			category.ParentID = &parent
		}
	}
	if ch.Parameters != nil {
		category.Parameters = ch.Parameters
	}
	category.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, category); err != nil {
		return domain.Category{}, err
	}
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
