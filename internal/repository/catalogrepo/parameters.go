package catalogrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"goshop/internal/domain"
	apperror "goshop/internal/errors"
	"goshop/internal/repository/sqlbuild"
)

// ParameterRepository persists category parameters.
type ParameterRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
}

func NewParameterRepository(db *sql.DB, dbTimeout time.Duration) *ParameterRepository {
	return &ParameterRepository{DB: db, DBTimeout: dbTimeout}
}

func buildParameterListQuery(f domain.ParameterFilter) (string, []interface{}) {
	b := &sqlbuild.Builder{}

	if f.Name != "" {
		b.Where("pa.name ILIKE $%d", sqlbuild.LikePattern(f.Name))
	}
	if len(f.Categories) > 0 {
		b.Where(`EXISTS (SELECT 1 FROM category_parameters cp JOIN categories c ON c.id = cp.category_id
			WHERE cp.parameter_id = pa.id AND c.url = ANY($%d))`, pq.Array(f.Categories))
	}

	allowed := map[string]string{"name": "pa.name", "id": "pa.id"}

	query := `SELECT pa.id, pa.name FROM parameters pa` + b.WhereClause() +
		sqlbuild.OrderClause(f.SortBy, f.OrderBy, allowed, "pa.name") +
		b.Pagination(f.Offset, f.Limit)

	return query, b.Args()
}

func (r *ParameterRepository) FindAll(ctx context.Context, f domain.ParameterFilter) ([]domain.Parameter, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query, args := buildParameterListQuery(f)

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		return nil, apperror.NewDBError("failed to list parameters", err)
	}
	defer rows.Close()

	var parameters []domain.Parameter
	for rows.Next() {
		var p domain.Parameter
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, apperror.NewDBError("failed to scan parameter row", err)
		}
		parameters = append(parameters, p)
	}
	return parameters, rows.Err()
}

func (r *ParameterRepository) Count(ctx context.Context) (int64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var count int64
	if err := r.DB.QueryRowContext(ctxTimeout, `SELECT COUNT(*) FROM parameters`).Scan(&count); err != nil {
		return 0, apperror.NewDBError("failed to count parameters", err)
	}
	return count, nil
}

func (r *ParameterRepository) FindByID(ctx context.Context, id string) (domain.Parameter, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var p domain.Parameter
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT id, name FROM parameters WHERE id = $1`, id).Scan(&p.ID, &p.Name)
	if err == sql.ErrNoRows {
		return domain.Parameter{}, apperror.NewNotFoundError(fmt.Sprintf("parameter with id %s does not exist", id))
	}
	if err != nil {
		return domain.Parameter{}, apperror.NewDBError("failed to fetch parameter", err)
	}
	return p, nil
}

func (r *ParameterRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Parameter, error) {
	parameters := make([]domain.Parameter, 0, len(ids))
	for _, id := range ids {
		p, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		parameters = append(parameters, p)
	}
	return parameters, nil
}

func (r *ParameterRepository) Save(ctx context.Context, parameter domain.Parameter) (domain.Parameter, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	_, err := r.DB.ExecContext(ctxTimeout,
		`INSERT INTO parameters (id, name) VALUES ($1,$2)`, parameter.ID, parameter.Name)
	if err != nil {
		return domain.Parameter{}, apperror.NewDBError("failed to insert parameter", err)
	}
	return parameter, nil
}

func (r *ParameterRepository) Update(ctx context.Context, parameter domain.Parameter) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout,
		`UPDATE parameters SET name = $1 WHERE id = $2`, parameter.Name, parameter.ID)
	if err != nil {
		return apperror.NewDBError("failed to update parameter", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("parameter with id %s does not exist", parameter.ID))
	}
	return nil
}

func (r *ParameterRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM parameters WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDBError("failed to delete parameter", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("parameter with id %s does not exist", id))
	}
	return nil
}
