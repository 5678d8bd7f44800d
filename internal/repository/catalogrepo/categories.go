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
	"goshop/internal/pkg/logger"
)

// CategoryRepository persists the category tree.
type CategoryRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

func NewCategoryRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *CategoryRepository {
	return &CategoryRepository{DB: db, DBTimeout: dbTimeout, logger: log}
}

const categoryColumns = `id, name, url, parent_id, created_at, updated_at`

func scanCategory(row rowScanner) (domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.ID, &c.Name, &c.URL, &c.ParentID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func buildCategoryListQuery(f domain.CategoryFilter) (string, []interface{}) {
	b := &sqlbuild.Builder{}

	if f.Name != "" {
		b.Where("name ILIKE $%d", sqlbuild.LikePattern(f.Name))
	}
	if f.URL != "" {
		b.Where("url ILIKE $%d", sqlbuild.LikePattern(f.URL))
	}
	if f.ParentID != "" {
		b.Where("parent_id = $%d", f.ParentID)
	}

	allowed := map[string]string{
		"name":      "name",
		"url":       "url",
		"createdAt": "created_at",
		"id":        "id",
	}

	query := `SELECT ` + categoryColumns + ` FROM categories` + b.WhereClause() +
		sqlbuild.OrderClause(f.SortBy, f.OrderBy, allowed, "name") +
		b.Pagination(f.Offset, f.Limit)

	return query, b.Args()
}

// FindAll returns the filtered category page with parent and children loaded.
func (r *CategoryRepository) FindAll(ctx context.Context, f domain.CategoryFilter) ([]domain.Category, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query, args := buildCategoryListQuery(f)

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		return nil, apperror.NewDBError("failed to list categories", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, apperror.NewDBError("failed to scan category row", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate category rows", err)
	}

	if err := r.loadFamily(ctxTimeout, categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// loadFamily attaches parent and direct children to each category.
func (r *CategoryRepository) loadFamily(ctx context.Context, categories []domain.Category) error {
	if len(categories) == 0 {
		return nil
	}

	ids := make([]string, len(categories))
	for i := range categories {
		ids[i] = categories[i].ID
	}

	parentSQL := `SELECT c.id, p.id, p.name, p.url, p.parent_id, p.created_at, p.updated_at
		FROM categories c JOIN categories p ON p.id = c.parent_id
		WHERE c.id = ANY($1)`
	rows, err := r.DB.QueryContext(ctx, parentSQL, pq.Array(ids))
	if err != nil {
		return apperror.NewDBError("failed to load category parents", err)
	}
	parents := map[string]domain.Category{}
	for rows.Next() {
		var childID string
		var p domain.Category
		if err := rows.Scan(&childID, &p.ID, &p.Name, &p.URL, &p.ParentID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			rows.Close()
			return apperror.NewDBError("failed to scan category parent", err)
		}
		parents[childID] = p
	}
	rows.Close()

	childSQL := `SELECT ` + categoryColumns + ` FROM categories WHERE parent_id = ANY($1)`
	rows, err = r.DB.QueryContext(ctx, childSQL, pq.Array(ids))
	if err != nil {
		return apperror.NewDBError("failed to load category children", err)
	}
	children := map[string][]domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			rows.Close()
			return apperror.NewDBError("failed to scan category child", err)
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}
	rows.Close()

	for i := range categories {
		if p, ok := parents[categories[i].ID]; ok {
			parent := p
			categories[i].Parent = &parent
		}
		categories[i].Children = children[categories[i].ID]
	}
	return nil
}

// FindByID fetches a category with parent, children and parameters.
func (r *CategoryRepository) FindByID(ctx context.Context, id string) (domain.Category, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	row := r.DB.QueryRowContext(ctxTimeout,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)

	category, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return domain.Category{}, apperror.NewNotFoundError(fmt.Sprintf("category with id %s does not exist", id))
	}
	if err != nil {
		return domain.Category{}, apperror.NewDBError("failed to fetch category", err)
	}

	categories := []domain.Category{category}
	if err := r.loadFamily(ctxTimeout, categories); err != nil {
		return domain.Category{}, err
	}
	category = categories[0]

	paramSQL := `SELECT p.id, p.name FROM parameters p
		JOIN category_parameters cp ON cp.parameter_id = p.id
		WHERE cp.category_id = $1`
	rows, err := r.DB.QueryContext(ctxTimeout, paramSQL, id)
	if err != nil {
		return domain.Category{}, apperror.NewDBError("failed to load category parameters", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p domain.Parameter
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return domain.Category{}, apperror.NewDBError("failed to scan category parameter", err)
		}
		category.Parameters = append(category.Parameters, p)
	}

	return category, rows.Err()
}

// FindTree loads all categories and assembles them into root-anchored trees.
func (r *CategoryRepository) FindTree(ctx context.Context) ([]domain.Category, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout,
		`SELECT `+categoryColumns+` FROM categories ORDER BY name`)
	if err != nil {
		return nil, apperror.NewDBError("failed to load category tree", err)
	}
	defer rows.Close()

	var all []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, apperror.NewDBError("failed to scan category row", err)
		}
		all = append(all, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate category rows", err)
	}

	return assembleTree(all), nil
}

// assembleTree nests children under parents, returning the roots.
func assembleTree(all []domain.Category) []domain.Category {
	byParent := map[string][]domain.Category{}
	var roots []domain.Category
	for _, c := range all {
		if c.ParentID == nil {
			roots = append(roots, c)
		} else {
			byParent[*c.ParentID] = append(byParent[*c.ParentID], c)
		}
	}

	var attach func(node *domain.Category)
	attach = func(node *domain.Category) {
		node.Children = byParent[node.ID]
		for i := range node.Children {
			attach(&node.Children[i])
		}
	}
	for i := range roots {
		attach(&roots[i])
	}
	return roots
}

// Count reports the unfiltered category total.
func (r *CategoryRepository) Count(ctx context.Context) (int64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var count int64
	if err := r.DB.QueryRowContext(ctxTimeout, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return 0, apperror.NewDBError("failed to count categories", err)
	}
	return count, nil
}

// Save inserts a new category and its parameter links.
func (r *CategoryRepository) Save(ctx context.Context, category domain.Category) (domain.Category, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.Category{}, apperror.NewDBError("failed to start tx", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctxTimeout,
		`INSERT INTO categories (id, name, url, parent_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		category.ID, category.Name, category.URL, category.ParentID,
		category.CreatedAt, category.UpdatedAt,
	)
	if err != nil {
		return domain.Category{}, apperror.NewDBError("failed to insert category", err)
	}

	if err = insertCategoryParameters(ctxTimeout, tx, category); err != nil {
		return domain.Category{}, err
	}

	if err = tx.Commit(); err != nil {
		return domain.Category{}, apperror.NewDBError("failed to commit tx", err)
	}
	return category, nil
}

func insertCategoryParameters(ctx context.Context, tx *sql.Tx, category domain.Category) error {
	for _, p := range category.Parameters {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO category_parameters (category_id, parameter_id) VALUES ($1,$2)`,
			category.ID, p.ID); err != nil {
			return apperror.NewDBError("failed to link category parameter", err)
		}
	}
	return nil
}

// Update rewrites the category row and replaces its parameter links.
func (r *CategoryRepository) Update(ctx context.Context, category domain.Category) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return apperror.NewDBError("failed to start tx", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	result, err := tx.ExecContext(ctxTimeout,
		`UPDATE categories SET name = $1, url = $2, parent_id = $3, updated_at = $4 WHERE id = $5`,
		category.Name, category.URL, category.ParentID, category.UpdatedAt, category.ID,
	)
	if err != nil {
		return apperror.NewDBError("failed to update category", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		err = apperror.NewNotFoundError(fmt.Sprintf("category with id %s does not exist", category.ID))
		return err
	}

	if _, err = tx.ExecContext(ctxTimeout,
		`DELETE FROM category_parameters WHERE category_id = $1`, category.ID); err != nil {
		return apperror.NewDBError("failed to clear category parameters", err)
	}
	if err = insertCategoryParameters(ctxTimeout, tx, category); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return apperror.NewDBError("failed to commit tx", err)
	}
	return nil
}

// Delete removes a category.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDBError("failed to delete category", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("category with id %s does not exist", id))
	}
	return nil
}
