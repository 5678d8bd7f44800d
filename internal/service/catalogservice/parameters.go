package catalogservice

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"goshop/internal/domain"
	apperror "goshop/internal/errors"
)

type ParameterRepository interface {
	FindAll(ctx context.Context, f domain.ParameterFilter) ([]domain.Parameter, error)
	Count(ctx context.Context) (int64, error)
	FindByID(ctx context.Context, id string) (domain.Parameter, error)
	Save(ctx context.Context, parameter domain.Parameter) (domain.Parameter, error)
	Update(ctx context.Context, parameter domain.Parameter) error
	Delete(ctx context.Context, id string) error
}

type ParameterService struct {
	repo ParameterRepository
}

func NewParameterService(repo ParameterRepository) *ParameterService {
	return &ParameterService{repo: repo}
}

func (s *ParameterService) List(ctx context.Context, f domain.ParameterFilter) (domain.Pagination[domain.Parameter], error) {
	f.Offset, f.Limit = domain.ClampPage(f.Offset, f.Limit)

	rows, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return domain.Pagination[domain.Parameter]{}, err
	}
	length, err := s.repo.Count(ctx)
	if err != nil {
		return domain.Pagination[domain.Parameter]{}, err
	}
	if rows == nil {
		rows = []domain.Parameter{}
	}
	return domain.Pagination[domain.Parameter]{Rows: rows, Length: length}, nil
}

func (s *ParameterService) GetByID(ctx context.Context, id string) (domain.Parameter, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ParameterService) Create(ctx context.Context, parameter domain.Parameter) (domain.Parameter, error) {
	if strings.TrimSpace(parameter.Name) == "" {
		return domain.Parameter{}, apperror.NewValidationError("parameter name is required")
	}
	parameter.ID = uuid.New().String()
	return s.repo.Save(ctx, parameter)
}

func (s *ParameterService) Update(ctx context.Context, id string, name string) (domain.Parameter, error) {
	parameter, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Parameter{}, err
	}
	if strings.TrimSpace(name) == "" {
		return domain.Parameter{}, apperror.NewValidationError("parameter name is required")
	}
	parameter.Name = name
	if err := s.repo.Update(ctx, parameter); err != nil {
		return domain.Parameter{}, err
	}
	return parameter, nil
}

func (s *ParameterService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
