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

// ColorRepository persists the color palette.
type ColorRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
}

func NewColorRepository(db *sql.DB, dbTimeout time.Duration) *ColorRepository {
	return &ColorRepository{DB: db, DBTimeout: dbTimeout}
}

func buildColorListQuery(f domain.ColorFilter) (string, []interface{}) {
	b := &sqlbuild.Builder{}

	if f.Name != "" {
		b.Where("c.name ILIKE $%d", sqlbuild.LikePattern(f.Name))
	}
	if f.URL != "" {
		b.Where("c.url ILIKE $%d", sqlbuild.LikePattern(f.URL))
	}
	if f.Code != "" {
		b.Where("c.code = $%d", f.Code)
	}
	if len(f.Products) > 0 {
		b.Where(`EXISTS (SELECT 1 FROM product_colors pc JOIN products p ON p.id = pc.product_id
			WHERE pc.color_id = c.id AND p.url = ANY($%d))`, pq.Array(f.Products))
	}

	allowed := map[string]string{"name": "c.name", "url": "c.url", "code": "c.code", "id": "c.id"}

	query := `SELECT c.id, c.name, c.url, c.code FROM colors c` + b.WhereClause() +
		sqlbuild.OrderClause(f.SortBy, f.OrderBy, allowed, "c.name") +
		b.Pagination(f.Offset, f.Limit)

	return query, b.Args()
}

func (r *ColorRepository) FindAll(ctx context.Context, f domain.ColorFilter) ([]domain.Color, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query, args := buildColorListQuery(f)

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		return nil, apperror.NewDBError("failed to list colors", err)
	}
	defer rows.Close()

	var colors []domain.Color
	for rows.Next() {
		var c domain.Color
		if err := rows.Scan(&c.ID, &c.Name, &c.URL, &c.Code); err != nil {
			return nil, apperror.NewDBError("failed to scan color row", err)
		}
		colors = append(colors, c)
	}
	return colors, rows.Err()
}

func (r *ColorRepository) Count(ctx context.Context) (int64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var count int64
	if err := r.DB.QueryRowContext(ctxTimeout, `SELECT COUNT(*) FROM colors`).Scan(&count); err != nil {
		return 0, apperror.NewDBError("failed to count colors", err)
	}
	return count, nil
}

func (r *ColorRepository) FindByID(ctx context.Context, id string) (domain.Color, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var c domain.Color
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT id, name, url, code FROM colors WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.URL, &c.Code)
	if err == sql.ErrNoRows {
		return domain.Color{}, apperror.NewNotFoundError(fmt.Sprintf("color with id %s does not exist", id))
	}
	if err != nil {
		return domain.Color{}, apperror.NewDBError("failed to fetch color", err)
	}
	return c, nil
}

func (r *ColorRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Color, error) {
	colors := make([]domain.Color, 0, len(ids))
	for _, id := range ids {
		c, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		colors = append(colors, c)
	}
	return colors, nil
}

func (r *ColorRepository) Save(ctx context.Context, color domain.Color) (domain.Color, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	_, err := r.DB.ExecContext(ctxTimeout,
		`INSERT INTO colors (id, name, url, code) VALUES ($1,$2,$3,$4)`,
		color.ID, color.Name, color.URL, color.Code)
	if err != nil {
		return domain.Color{}, apperror.NewDBError("failed to insert color", err)
	}
	return color, nil
}

func (r *ColorRepository) Update(ctx context.Context, color domain.Color) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout,
		`UPDATE colors SET name = $1, url = $2, code = $3 WHERE id = $4`,
		color.Name, color.URL, color.Code, color.ID)
	if err != nil {
		return apperror.NewDBError("failed to update color", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("color with id %s does not exist", color.ID))
	}
	return nil
}

func (r *ColorRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM colors WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDBError("failed to delete color", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("color with id %s does not exist", id))
	}
	return nil
}
