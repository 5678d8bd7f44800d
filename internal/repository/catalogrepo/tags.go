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

// TagRepository persists product tags.
type TagRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
}

func NewTagRepository(db *sql.DB, dbTimeout time.Duration) *TagRepository {
	return &TagRepository{DB: db, DBTimeout: dbTimeout}
}

func buildTagListQuery(f domain.TagFilter) (string, []interface{}) {
	b := &sqlbuild.Builder{}

	if f.Name != "" {
		b.Where("t.name ILIKE $%d", sqlbuild.LikePattern(f.Name))
	}
	if f.URL != "" {
		b.Where("t.url ILIKE $%d", sqlbuild.LikePattern(f.URL))
	}
	if len(f.Products) > 0 {
		b.Where(`EXISTS (SELECT 1 FROM product_tags pt JOIN products p ON p.id = pt.product_id
			WHERE pt.tag_id = t.id AND p.url = ANY($%d))`, pq.Array(f.Products))
	}

	allowed := map[string]string{"name": "t.name", "url": "t.url", "id": "t.id"}

	query := `SELECT t.id, t.name, t.url FROM tags t` + b.WhereClause() +
		sqlbuild.OrderClause(f.SortBy, f.OrderBy, allowed, "t.name") +
		b.Pagination(f.Offset, f.Limit)

	return query, b.Args()
}

func (r *TagRepository) FindAll(ctx context.Context, f domain.TagFilter) ([]domain.Tag, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query, args := buildTagListQuery(f)

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		return nil, apperror.NewDBError("failed to list tags", err)
	}
	defer rows.Close()

	var tags []domain.Tag
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.URL); err != nil {
			return nil, apperror.NewDBError("failed to scan tag row", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// Count reports the unfiltered tag total used as the list envelope length.
func (r *TagRepository) Count(ctx context.Context) (int64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var count int64
	if err := r.DB.QueryRowContext(ctxTimeout, `SELECT COUNT(*) FROM tags`).Scan(&count); err != nil {
		return 0, apperror.NewDBError("failed to count tags", err)
	}
	return count, nil
}

func (r *TagRepository) FindByID(ctx context.Context, id string) (domain.Tag, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var t domain.Tag
	err := r.DB.QueryRowContext(ctxTimeout,
		`SELECT id, name, url FROM tags WHERE id = $1`, id).Scan(&t.ID, &t.Name, &t.URL)
	if err == sql.ErrNoRows {
		return domain.Tag{}, apperror.NewNotFoundError(fmt.Sprintf("tag with id %s does not exist", id))
	}
	if err != nil {
		return domain.Tag{}, apperror.NewDBError("failed to fetch tag", err)
	}
	return t, nil
}

// FindByIDs resolves a set of tag ids, failing with NotFound on the first
// missing id. Used when products are created or updated with tag references.
func (r *TagRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Tag, error) {
	tags := make([]domain.Tag, 0, len(ids))
	for _, id := range ids {
		t, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, nil
}

func (r *TagRepository) Save(ctx context.Context, tag domain.Tag) (domain.Tag, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	_, err := r.DB.ExecContext(ctxTimeout,
		`INSERT INTO tags (id, name, url) VALUES ($1,$2,$3)`, tag.ID, tag.Name, tag.URL)
	if err != nil {
		return domain.Tag{}, apperror.NewDBError("failed to insert tag", err)
	}
	return tag, nil
}

func (r *TagRepository) Update(ctx context.Context, tag domain.Tag) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout,
		`UPDATE tags SET name = $1, url = $2 WHERE id = $3`, tag.Name, tag.URL, tag.ID)
	if err != nil {
		return apperror.NewDBError("failed to update tag", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("tag with id %s does not exist", tag.ID))
	}
	return nil
}

func (r *TagRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDBError("failed to delete tag", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("tag with id %s does not exist", id))
	}
	return nil
}
