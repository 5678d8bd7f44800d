package orderrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"goshop/internal/domain"
	apperror "goshop/internal/errors"
	"goshop/internal/pkg/logger"
	"goshop/internal/repository/sqlbuild"
)

// BasketRepository persists baskets and their order lines. A basket and its
// lines always change inside one transaction so the stored total never drifts
// from the line items.
type BasketRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

func NewBasketRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *BasketRepository {
	return &BasketRepository{DB: db, DBTimeout: dbTimeout, logger: log}
}

const basketColumns = `id, user_id, status, total_amount, created_at, updated_at`

func scanBasket(row interface{ Scan(...interface{}) error }) (domain.Basket, error) {
	var b domain.Basket
	err := row.Scan(&b.ID, &b.UserID, &b.Status, &b.TotalAmount, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func basketConditions(f domain.BasketFilter) *sqlbuild.Builder {
	b := &sqlbuild.Builder{}
	if f.UserID != "" {
		b.Where("user_id = $%d", f.UserID)
	}
	if f.Status != "" {
		b.Where("status = $%d", f.Status)
	}
	if f.MinTotal != nil {
		b.Where("total_amount >= $%d", *f.MinTotal)
	}
	if f.MaxTotal != nil {
		b.Where("total_amount <= $%d", *f.MaxTotal)
	}
	if f.UpdatedFrom != nil {
		b.Where("updated_at >= $%d", *f.UpdatedFrom)
	}
	if f.UpdatedTo != nil {
		b.Where("updated_at <= $%d", *f.UpdatedTo)
	}
	return b
}

func buildBasketListQuery(f domain.BasketFilter) (string, []interface{}) {
	b := basketConditions(f)

	allowed := map[string]string{
		"id":          "id",
		"status":      "status",
		"totalAmount": "total_amount",
		"createdAt":   "created_at",
		"updatedAt":   "updated_at",
	}

	query := `SELECT ` + basketColumns + ` FROM baskets` + b.WhereClause() +
		sqlbuild.OrderClause(f.SortBy, f.OrderBy, allowed, "updated_at") +
		b.Pagination(f.Offset, f.Limit)

	return query, b.Args()
}

// FindAll returns the basket page with order lines and checkouts attached.
func (r *BasketRepository) FindAll(ctx context.Context, f domain.BasketFilter) ([]domain.Basket, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query, args := buildBasketListQuery(f)

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		return nil, apperror.NewDBError("failed to list baskets", err)
	}
	defer rows.Close()

	var baskets []domain.Basket
	for rows.Next() {
		basket, err := scanBasket(rows)
		if err != nil {
			return nil, apperror.NewDBError("failed to scan basket row", err)
		}
		baskets = append(baskets, basket)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate basket rows", err)
	}

	if err := r.loadRelations(ctxTimeout, baskets); err != nil {
		return nil, err
	}
	return baskets, nil
}

func (r *BasketRepository) loadRelations(ctx context.Context, baskets []domain.Basket) error {
	if len(baskets) == 0 {
		return nil
	}

	ids := make([]string, len(baskets))
	index := make(map[string]*domain.Basket, len(baskets))
	for i := range baskets {
		ids[i] = baskets[i].ID
		index[baskets[i].ID] = &baskets[i]
		baskets[i].Items = []domain.OrderProduct{}
	}

	itemSQL := `SELECT id, basket_id, product_id, product_variant_id, qty, product_price
		FROM order_products WHERE basket_id = ANY($1) ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, itemSQL, pq.Array(ids))
	if err != nil {
		return apperror.NewDBError("failed to load basket items", err)
	}
	for rows.Next() {
		var op domain.OrderProduct
		if err := rows.Scan(&op.ID, &op.BasketID, &op.ProductID, &op.ProductVariantID, &op.Qty, &op.ProductPrice); err != nil {
			rows.Close()
			return apperror.NewDBError("failed to scan basket item", err)
		}
		index[op.BasketID].Items = append(index[op.BasketID].Items, op)
	}
	rows.Close()

	checkoutSQL := `SELECT id, user_id, address_id, basket_id, comment, created_at, updated_at
		FROM checkouts WHERE basket_id = ANY($1)`
	rows, err = r.DB.QueryContext(ctx, checkoutSQL, pq.Array(ids))
	if err != nil {
		return apperror.NewDBError("failed to load basket checkouts", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c domain.Checkout
		if err := rows.Scan(&c.ID, &c.UserID, &c.AddressID, &c.BasketID, &c.Comment, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return apperror.NewDBError("failed to scan basket checkout", err)
		}
		checkout := c
		index[c.BasketID].Checkout = &checkout
	}
	return rows.Err()
}

// Count reports the unfiltered basket total, matching the catalog list
// envelopes.
func (r *BasketRepository) Count(ctx context.Context) (int64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var count int64
	if err := r.DB.QueryRowContext(ctxTimeout, `SELECT COUNT(*) FROM baskets`).Scan(&count); err != nil {
		return 0, apperror.NewDBError("failed to count baskets", err)
	}
	return count, nil
}

func (r *BasketRepository) FindByID(ctx context.Context, id string) (domain.Basket, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	row := r.DB.QueryRowContext(ctxTimeout,
		`SELECT `+basketColumns+` FROM baskets WHERE id = $1`, id)

	basket, err := scanBasket(row)
	if err == sql.ErrNoRows {
		return domain.Basket{}, apperror.NewNotFoundError(fmt.Sprintf("basket with id %s does not exist", id))
	}
	if err != nil {
		return domain.Basket{}, apperror.NewDBError("failed to fetch basket", err)
	}

	baskets := []domain.Basket{basket}
	if err := r.loadRelations(ctxTimeout, baskets); err != nil {
		return domain.Basket{}, err
	}
	return baskets[0], nil
}

// Save inserts a basket with its order lines in one transaction.
func (r *BasketRepository) Save(ctx context.Context, basket domain.Basket) (domain.Basket, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.Basket{}, apperror.NewDBError("failed to start tx", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	const basketSQL = `INSERT INTO baskets (id, user_id, status, total_amount, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)`

	_, err = tx.ExecContext(ctxTimeout, basketSQL,
		basket.ID, basket.UserID, basket.Status, basket.TotalAmount,
		basket.CreatedAt, basket.UpdatedAt,
	)
	if err != nil {
		return domain.Basket{}, apperror.NewDBError("failed to insert basket", err)
	}

	if err = insertBasketItems(ctxTimeout, tx, basket); err != nil {
		return domain.Basket{}, err
	}

	if err = tx.Commit(); err != nil {
		return domain.Basket{}, apperror.NewDBError("failed to commit basket tx", err)
	}

	r.logger.Debug("basket saved", map[string]interface{}{"basket_id": basket.ID})
	return basket, nil
}

// Update rewrites the basket row and replaces its order lines in one
// transaction.
func (r *BasketRepository) Update(ctx context.Context, basket domain.Basket) (domain.Basket, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.Basket{}, apperror.NewDBError("failed to start tx", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	const updateSQL = `UPDATE baskets
		SET status = $1, total_amount = $2, updated_at = $3
		WHERE id = $4`

	result, err := tx.ExecContext(ctxTimeout, updateSQL,
		basket.Status, basket.TotalAmount, basket.UpdatedAt, basket.ID)
	if err != nil {
		return domain.Basket{}, apperror.NewDBError("failed to update basket", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		err = apperror.NewNotFoundError(fmt.Sprintf("basket with id %s does not exist", basket.ID))
		return domain.Basket{}, err
	}

	if _, err = tx.ExecContext(ctxTimeout,
		`DELETE FROM order_products WHERE basket_id = $1`, basket.ID); err != nil {
		return domain.Basket{}, apperror.NewDBError("failed to clear basket items", err)
	}
	if err = insertBasketItems(ctxTimeout, tx, basket); err != nil {
		return domain.Basket{}, err
	}

	if err = tx.Commit(); err != nil {
		return domain.Basket{}, apperror.NewDBError("failed to commit basket tx", err)
	}
	return basket, nil
}

func insertBasketItems(ctx context.Context, tx *sql.Tx, basket domain.Basket) error {
	const itemSQL = `INSERT INTO order_products
		(id, basket_id, product_id, product_variant_id, qty, product_price)
		VALUES ($1,$2,$3,$4,$5,$6)`

	for _, item := range basket.Items {
		if _, err := tx.ExecContext(ctx, itemSQL,
			item.ID, basket.ID, item.ProductID, item.ProductVariantID,
			item.Qty, item.ProductPrice,
		); err != nil {
			return apperror.NewDBError("failed to insert basket item", err)
		}
	}
	return nil
}

// Delete removes a basket; order lines cascade. A basket referenced by a
// checkout is protected by the foreign key and surfaces as a DB error.
func (r *BasketRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM baskets WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDBError("failed to delete basket", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("basket with id %s does not exist", id))
	}
	return nil
}
