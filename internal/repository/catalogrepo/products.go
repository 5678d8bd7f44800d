package catalogrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"goshop/internal/domain"
	apperror "goshop/internal/errors"
	"goshop/internal/repository/sqlbuild"
	"goshop/internal/pkg/cache"
	"goshop/internal/pkg/logger"
)

const productCacheKey = "product:%s"

// ProductRepository persists products and their relations in the catalog
// database, with a cache-aside read path for lookups by id.
type ProductRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

func NewProductRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, log logger.Logger) *ProductRepository {
	return &ProductRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    log,
	}
}

const productColumns = `p.id, p.name, p.price, p.old_price, p.description, p.available,
		p.images, p.url, p.category_id, p.brand_id, p.created_at, p.updated_at,
		c.id, c.name, c.url, b.id, b.name, b.url, b.show_on_main`

const productBase = `SELECT ` + productColumns + `
	FROM products p
	JOIN categories c ON c.id = p.category_id
	JOIN brands b ON b.id = p.brand_id`

// buildProductListQuery translates a ProductFilter into SQL. Exposed inside
// the package for direct testing.
func buildProductListQuery(f domain.ProductFilter) (string, []interface{}) {
	b := &sqlbuild.Builder{}

	if f.Name != "" {
		b.Where("p.name ILIKE $%d", sqlbuild.LikePattern(f.Name))
	}
	if f.MinPrice != nil {
		b.Where("p.price >= $%d", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		b.Where("p.price <= $%d", *f.MaxPrice)
	}
	if f.Available != nil {
		b.Where("p.available = $%d", *f.Available)
	}
	if len(f.Categories) > 0 {
		b.Where("c.url = ANY($%d)", pq.Array(f.Categories))
	}
	if len(f.Brands) > 0 {
		b.Where("b.url = ANY($%d)", pq.Array(f.Brands))
	}
	if len(f.Colors) > 0 {
		b.Where(`EXISTS (SELECT 1 FROM product_colors pc JOIN colors col ON col.id = pc.color_id
			WHERE pc.product_id = p.id AND col.url = ANY($%d))`, pq.Array(f.Colors))
	}
	if len(f.Tags) > 0 {
		b.Where(`EXISTS (SELECT 1 FROM product_tags pt JOIN tags t ON t.id = pt.tag_id
			WHERE pt.product_id = p.id AND t.url = ANY($%d))`, pq.Array(f.Tags))
	}

	allowed := map[string]string{
		"name":      "p.name",
		"price":     "p.price",
		"url":       "p.url",
		"available": "p.available",
		"createdAt": "p.created_at",
		"id":        "p.id",
	}

	query := productBase + b.WhereClause() +
		sqlbuild.OrderClause(f.SortBy, f.OrderBy, allowed, "p.name") +
		b.Pagination(f.Offset, f.Limit)

	return query, b.Args()
}

// FindAll returns the filtered, paginated product page with category, brand,
// colors, tags and variants attached.
func (r *ProductRepository) FindAll(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query, args := buildProductListQuery(f)

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		return nil, apperror.NewDBError("failed to list products", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, apperror.NewDBError("failed to scan product row", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate product rows", err)
	}

	if err := r.loadRelations(ctxTimeout, products); err != nil {
		return nil, err
	}

	return products, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		p        domain.Product
		category domain.Category
		brand    domain.Brand
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Price, &p.OldPrice, &p.Desc, &p.Available,
		&p.Images, &p.URL, &p.CategoryID, &p.BrandID, &p.CreatedAt, &p.UpdatedAt,
		&category.ID, &category.Name, &category.URL,
		&brand.ID, &brand.Name, &brand.URL, &brand.ShowOnMain,
	)
	if err != nil {
		return domain.Product{}, err
	}
	p.Category = &category
	p.Brand = &brand
	return p, nil
}

// loadRelations batch-loads colors, tags, variants and parameter values for
// the given products.
func (r *ProductRepository) loadRelations(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]string, len(products))
	index := make(map[string]*domain.Product, len(products))
	for i := range products {
		ids[i] = products[i].ID
		index[products[i].ID] = &products[i]
	}

	colorSQL := `SELECT pc.product_id, c.id, c.name, c.url, c.code
		FROM product_colors pc JOIN colors c ON c.id = pc.color_id
		WHERE pc.product_id = ANY($1)`
	rows, err := r.DB.QueryContext(ctx, colorSQL, pq.Array(ids))
	if err != nil {
		return apperror.NewDBError("failed to load product colors", err)
	}
	for rows.Next() {
		var (
			productID string
			color     domain.Color
		)
		if err := rows.Scan(&productID, &color.ID, &color.Name, &color.URL, &color.Code); err != nil {
			rows.Close()
			return apperror.NewDBError("failed to scan product color", err)
		}
		index[productID].Colors = append(index[productID].Colors, color)
	}
	rows.Close()

	tagSQL := `SELECT pt.product_id, t.id, t.name, t.url
		FROM product_tags pt JOIN tags t ON t.id = pt.tag_id
		WHERE pt.product_id = ANY($1)`
	rows, err = r.DB.QueryContext(ctx, tagSQL, pq.Array(ids))
	if err != nil {
		return apperror.NewDBError("failed to load product tags", err)
	}
	for rows.Next() {
		var (
			productID string
			tag       domain.Tag
		)
		if err := rows.Scan(&productID, &tag.ID, &tag.Name, &tag.URL); err != nil {
			rows.Close()
			return apperror.NewDBError("failed to scan product tag", err)
		}
		index[productID].Tags = append(index[productID].Tags, tag)
	}
	rows.Close()

	variantSQL := `SELECT v.id, v.product_id, v.color_id, v.price, v.old_price, v.available, v.images
		FROM product_variants v
		WHERE v.product_id = ANY($1)`
	rows, err = r.DB.QueryContext(ctx, variantSQL, pq.Array(ids))
	if err != nil {
		return apperror.NewDBError("failed to load product variants", err)
	}
	for rows.Next() {
		var v domain.ProductVariant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.ColorID, &v.Price, &v.OldPrice, &v.Available, &v.Images); err != nil {
			rows.Close()
			return apperror.NewDBError("failed to scan product variant", err)
		}
		index[v.ProductID].Variants = append(index[v.ProductID].Variants, v)
	}
	rows.Close()

	paramSQL := `SELECT parameter_id, product_id, value
		FROM parameter_products
		WHERE product_id = ANY($1)`
	rows, err = r.DB.QueryContext(ctx, paramSQL, pq.Array(ids))
	if err != nil {
		return apperror.NewDBError("failed to load parameter values", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pv domain.ParameterValue
		if err := rows.Scan(&pv.ParameterID, &pv.ProductID, &pv.Value); err != nil {
			return apperror.NewDBError("failed to scan parameter value", err)
		}
		index[pv.ProductID].Parameters = append(index[pv.ProductID].Parameters, pv)
	}
	return rows.Err()
}

// Count reports the total number of products. Deliberately unfiltered: the
// list envelope's length field has always been the service-wide count.
func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var count int64
	if err := r.DB.QueryRowContext(ctxTimeout, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, apperror.NewDBError("failed to count products", err)
	}
	return count, nil
}

// PriceRange returns the min and max price over the filtered product set.
func (r *ProductRepository) PriceRange(ctx context.Context, f domain.ProductFilter) (domain.PriceRange, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	b := &sqlbuild.Builder{}
	if f.Name != "" {
		b.Where("p.name ILIKE $%d", sqlbuild.LikePattern(f.Name))
	}
	if f.Available != nil {
		b.Where("p.available = $%d", *f.Available)
	}
	if len(f.Categories) > 0 {
		b.Where("c.url = ANY($%d)", pq.Array(f.Categories))
	}
	if len(f.Brands) > 0 {
		b.Where("b.url = ANY($%d)", pq.Array(f.Brands))
	}

	query := `SELECT COALESCE(MIN(p.price), 0), COALESCE(MAX(p.price), 0)
		FROM products p
		JOIN categories c ON c.id = p.category_id
		JOIN brands b ON b.id = p.brand_id` + b.WhereClause()

	var pr domain.PriceRange
	if err := r.DB.QueryRowContext(ctxTimeout, query, b.Args()...).Scan(&pr.MinPrice, &pr.MaxPrice); err != nil {
		return domain.PriceRange{}, apperror.NewDBError("failed to compute price range", err)
	}
	return pr, nil
}

// FindByID looks a product up by id using the cache-aside strategy: cache
// first, database on miss, cache repopulated after a hit in the database.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(productCacheKey, id)

	if r.Cache != nil {
		cachedData, err := r.Cache.Get(ctxTimeout, key)
		if err == nil {
			var product domain.Product
			if json.Unmarshal([]byte(cachedData), &product) == nil {
				return product, nil
			}
		} else if err != cache.ErrCacheMiss {
			r.logger.Warn("cache read failed, falling through to DB", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}

	product, err := r.findOne(ctxTimeout, productBase+` WHERE p.id = $1`, id,
		fmt.Sprintf("product with id %s does not exist", id))
	if err != nil {
		return domain.Product{}, err
	}

	if r.Cache != nil {
		if productJSON, marshalErr := json.Marshal(product); marshalErr == nil {
			r.Cache.Set(ctxTimeout, key, productJSON, r.CacheTTL)
		}
	}

	return product, nil
}

// FindByURL looks a product up by its url slug. Not cached.
func (r *ProductRepository) FindByURL(ctx context.Context, url string) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	return r.findOne(ctxTimeout, productBase+` WHERE p.url = $1`, url,
		fmt.Sprintf("product with url %q does not exist", url))
}

func (r *ProductRepository) findOne(ctx context.Context, query, arg, notFoundMsg string) (domain.Product, error) {
	row := r.DB.QueryRowContext(ctx, query, arg)

	product, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return domain.Product{}, apperror.NewNotFoundError(notFoundMsg)
	}
	if err != nil {
		return domain.Product{}, apperror.NewDBError("failed to fetch product", err)
	}

	products := []domain.Product{product}
	if err := r.loadRelations(ctx, products); err != nil {
		return domain.Product{}, err
	}
	return products[0], nil
}

// Save persists a new product with its color/tag links, variants and parameter
// values in a single transaction.
func (r *ProductRepository) Save(ctx context.Context, product domain.Product) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.Product{}, apperror.NewDBError("failed to start tx", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	const productSQL = `INSERT INTO products
		(id, name, price, old_price, description, available, images, url, category_id, brand_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`

	_, err = tx.ExecContext(ctxTimeout, productSQL,
		product.ID, product.Name, product.Price, product.OldPrice, product.Desc,
		product.Available, product.Images, product.URL, product.CategoryID,
		product.BrandID, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return domain.Product{}, apperror.NewDBError("failed to insert product", err)
	}

	if err = insertProductLinks(ctxTimeout, tx, product); err != nil {
		return domain.Product{}, err
	}

	if err = tx.Commit(); err != nil {
		return domain.Product{}, apperror.NewDBError("failed to commit tx", err)
	}

	return product, nil
}

func insertProductLinks(ctx context.Context, tx *sql.Tx, product domain.Product) error {
	for _, color := range product.Colors {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_colors (product_id, color_id) VALUES ($1,$2)`,
			product.ID, color.ID); err != nil {
			return apperror.NewDBError("failed to link product color", err)
		}
	}
	for _, tag := range product.Tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_tags (product_id, tag_id) VALUES ($1,$2)`,
			product.ID, tag.ID); err != nil {
			return apperror.NewDBError("failed to link product tag", err)
		}
	}
	for _, v := range product.Variants {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_variants (id, product_id, color_id, price, old_price, available, images)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			v.ID, product.ID, v.ColorID, v.Price, v.OldPrice, v.Available, v.Images); err != nil {
			return apperror.NewDBError("failed to insert product variant", err)
		}
	}
	for _, pv := range product.Parameters {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO parameter_products (parameter_id, product_id, value) VALUES ($1,$2,$3)`,
			pv.ParameterID, product.ID, pv.Value); err != nil {
			return apperror.NewDBError("failed to insert parameter value", err)
		}
	}
	return nil
}

// Update rewrites the product row and replaces its links and variants. The
// cached entry is invalidated.
func (r *ProductRepository) Update(ctx context.Context, product domain.Product) error {
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

	const updateSQL = `UPDATE products SET
		name = $1, price = $2, old_price = $3, description = $4, available = $5,
		images = $6, url = $7, category_id = $8, brand_id = $9, updated_at = $10
		WHERE id = $11`

	result, err := tx.ExecContext(ctxTimeout, updateSQL,
		product.Name, product.Price, product.OldPrice, product.Desc, product.Available,
		product.Images, product.URL, product.CategoryID, product.BrandID,
		product.UpdatedAt, product.ID,
	)
	if err != nil {
		return apperror.NewDBError("failed to update product", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		err = apperror.NewNotFoundError(fmt.Sprintf("product with id %s does not exist", product.ID))
		return err
	}

	for _, table := range []string{"product_colors", "product_tags", "product_variants", "parameter_products"} {
		if _, err = tx.ExecContext(ctxTimeout,
			fmt.Sprintf(`DELETE FROM %s WHERE product_id = $1`, table), product.ID); err != nil {
			return apperror.NewDBError("failed to clear product relations", err)
		}
	}
	if err = insertProductLinks(ctxTimeout, tx, product); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return apperror.NewDBError("failed to commit tx", err)
	}

	if r.Cache != nil {
		r.Cache.Delete(ctx, fmt.Sprintf(productCacheKey, product.ID))
	}
	return nil
}

// Delete removes a product; variants, links and parameter values cascade.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDBError("failed to delete product", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("product with id %s does not exist", id))
	}

	if r.Cache != nil {
		r.Cache.Delete(ctx, fmt.Sprintf(productCacheKey, id))
	}
	return nil
}
