package catalogservice

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"goshop/internal/domain"
	apperror "goshop/internal/errors"
)

type TagRepository interface {
	FindAll(ctx context.Context, f domain.TagFilter) ([]domain.Tag, error)
	Count(ctx context.Context) (int64, error)
	FindByID(ctx context.Context, id string) (domain.Tag, error)
	Save(ctx context.Context, tag domain.Tag) (domain.Tag, error)
	Update(ctx context.Context, tag domain.Tag) error
	Delete(ctx context.Context, id string) error
}

type TagService struct {
	repo TagRepository
}

func NewTagService(repo TagRepository) *TagService {
	return &TagService{repo: repo}
}

func (s *TagService) List(ctx context.Context, f domain.TagFilter) (domain.Pagination[domain.Tag], error) {
	f.Offset, f.Limit = domain.ClampPage(f.Offset, f.Limit)

	rows, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return domain.Pagination[domain.Tag]{}, err
	}
	length, err := s.repo.Count(ctx)
	if err != nil {
		return domain.Pagination[domain.Tag]{}, err
	}
	if rows == nil {
		rows = []domain.Tag{}
	}
	return domain.Pagination[domain.Tag]{Rows: rows, Length: length}, nil
}

func (s *TagService) GetByID(ctx context.Context, id string) (domain.Tag, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *TagService) Create(ctx context.Context, tag domain.Tag) (domain.Tag, error) {
	if strings.TrimSpace(tag.Name) == "" || strings.TrimSpace(tag.URL) == "" {
		return domain.Tag{}, apperror.NewValidationError("tag name and url are required")
	}
	tag.ID = uuid.New().String()
	return s.repo.Save(ctx, tag)
}

type TagChanges struct {
	Name *string
	URL  *string
}

func (s *TagService) Update(ctx context.Context, id string, ch TagChanges) (domain.Tag, error) {
	tag, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Tag{}, err
	}
	if ch.Name != nil {
		tag.Name = *ch.Name
	}
	if ch.URL != nil {
		tag.URL = *ch.URL
	}
	if err := s.repo.Update(ctx, tag); err != nil {
		return domain.Tag{}, err
	}
	return tag, nil
}

func (s *TagService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
