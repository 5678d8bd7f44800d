package catalogrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"goshop/internal/domain"
	apperror "goshop/internal/errors"
	"goshop/internal/repository/sqlbuild"
)

// BrandRepository persists brands.
type BrandRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
}

func NewBrandRepository(db *sql.DB, dbTimeout time.Duration) *BrandRepository {
	return &BrandRepository{DB: db, DBTimeout: dbTimeout}
}

func buildBrandListQuery(f domain.BrandFilter) (string, []interface{}) {
	b := &sqlbuild.Builder{}

	if f.Name != "" {
		b.Where("name ILIKE $%d", sqlbuild.LikePattern(f.Name))
	}
	if f.ShowOnMain != nil {
		b.Where("show_on_main = $%d", *f.ShowOnMain)
	}

	allowed := map[string]string{"name": "name", "url": "url", "id": "id"}

	query := `SELECT id, name, url, show_on_main FROM brands` + b.WhereClause() +
		sqlbuild.OrderClause(f.SortBy, f.OrderBy, allowed, "name") +
		b.Pagination(f.Offset, f.Limit)

	return query, b.Args()
}

func (r *BrandRepository) FindAll(ctx context.Context, f domain.BrandFilter) ([]domain.Brand, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query, args := buildBrandListQuery(f)

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		return nil, apperror.NewDBError("failed to list brands", err)
	}
	defer rows.Close()

	var brands []domain.Brand
	for rows.Next() {
		var b domain.Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.URL, &b.ShowOnMain); err != nil {
			return nil, apperror.NewDBError("failed to scan brand row", err)
		}
		brands = append(brands, b)
	}
	return brands, rows.Err()
}

func (r *BrandRepository) Count(ctx context.Context) (int64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var count int64
	if err := r.DB.QueryRowContext(ctxTimeout, `SELECT COUNT(*) FROM brands`).Scan(&count); err != nil {
		return 0, apperror.NewDBError("failed to count brands", err)
	}
	return count, nil
}

func (r *BrandRepository) FindByID(ctx context.Context, id string) (domain.Brand, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var b domain.Brand
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT id, name, url, show_on_main FROM brands WHERE id = $1`, id).
		Scan(&b.ID, &b.Name, &b.URL, &b.ShowOnMain)
	if err == sql.ErrNoRows {
		return domain.Brand{}, apperror.NewNotFoundError(fmt.Sprintf("brand with id %s does not exist", id))
	}
	if err != nil {
		return domain.Brand{}, apperror.NewDBError("failed to fetch brand", err)
	}
	return b, nil
}

func (r *BrandRepository) Save(ctx context.Context, brand domain.Brand) (domain.Brand, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	_, err := r.DB.ExecContext(ctxTimeout,
		`INSERT INTO brands (id, name, url, show_on_main) VALUES ($1,$2,$3,$4)`,
		brand.ID, brand.Name, brand.URL, brand.ShowOnMain)
	if err != nil {
		return domain.Brand{}, apperror.NewDBError("failed to insert brand", err)
	}
	return brand, nil
}

func (r *BrandRepository) Update(ctx context.Context, brand domain.Brand) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout,
		`UPDATE brands SET name = $1, url = $2, show_on_main = $3 WHERE id = $4`,
		brand.Name, brand.URL, brand.ShowOnMain, brand.ID)
	if err != nil {
		return apperror.NewDBError("failed to update brand", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("brand with id %s does not exist", brand.ID))
	}
	return nil
}

func (r *BrandRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDBError("failed to delete brand", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("brand with id %s does not exist", id))
	}
	return nil
}
