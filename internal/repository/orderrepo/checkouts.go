package orderrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"goshop/internal/domain"
	apperror "goshop/internal/errors"
	"goshop/internal/pkg/logger"
	"goshop/internal/repository/sqlbuild"
)

type CheckoutRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

func NewCheckoutRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *CheckoutRepository {
	return &CheckoutRepository{DB: db, DBTimeout: dbTimeout, logger: log}
}

const checkoutColumns = `id, user_id, address_id, basket_id, comment, created_at, updated_at`

func scanCheckout(row interface{ Scan(...interface{}) error }) (domain.Checkout, error) {
	var c domain.Checkout
	err := row.Scan(&c.ID, &c.UserID, &c.AddressID, &c.BasketID, &c.Comment,
		&c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func buildCheckoutListQuery(f domain.CheckoutFilter) (string, []interface{}) {
	b := &sqlbuild.Builder{}
	if f.UserID != "" {
		b.Where("user_id = $%d", f.UserID)
	}
	if f.AddressID != "" {
		b.Where("address_id = $%d", f.AddressID)
	}
	if f.BasketID != "" {
		b.Where("basket_id = $%d", f.BasketID)
	}

	allowed := map[string]string{
		"id":        "id",
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	}

	query := `SELECT ` + checkoutColumns + ` FROM checkouts` + b.WhereClause() +
		sqlbuild.OrderClause(f.SortBy, f.OrderBy, allowed, "created_at") +
		b.Pagination(f.Offset, f.Limit)

	return query, b.Args()
}

func (r *CheckoutRepository) FindAll(ctx context.Context, f domain.CheckoutFilter) ([]domain.Checkout, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query, args := buildCheckoutListQuery(f)

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		return nil, apperror.NewDBError("failed to list checkouts", err)
	}
	defer rows.Close()

	var checkouts []domain.Checkout
	for rows.Next() {
		checkout, err := scanCheckout(rows)
		if err != nil {
			return nil, apperror.NewDBError("failed to scan checkout row", err)
		}
		checkouts = append(checkouts, checkout)
	}
	return checkouts, rows.Err()
}

func (r *CheckoutRepository) Count(ctx context.Context) (int64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var count int64
	if err := r.DB.QueryRowContext(ctxTimeout, `SELECT COUNT(*) FROM checkouts`).Scan(&count); err != nil {
		return 0, apperror.NewDBError("failed to count checkouts", err)
	}
	return count, nil
}

func (r *CheckoutRepository) FindByID(ctx context.Context, id string) (domain.Checkout, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	row := r.DB.QueryRowContext(ctxTimeout,
		`SELECT `+checkoutColumns+` FROM checkouts WHERE id = $1`, id)

	checkout, err := scanCheckout(row)
	if err == sql.ErrNoRows {
		return domain.Checkout{}, apperror.NewNotFoundError(fmt.Sprintf("checkout with id %s does not exist", id))
	}
	if err != nil {
		return domain.Checkout{}, apperror.NewDBError("failed to fetch checkout", err)
	}
	return checkout, nil
}

func (r *CheckoutRepository) Save(ctx context.Context, checkout domain.Checkout) (domain.Checkout, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const insertSQL = `INSERT INTO checkouts
		(id, user_id, address_id, basket_id, comment, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`

	_, err := r.DB.ExecContext(ctxTimeout, insertSQL,
		checkout.ID, checkout.UserID, checkout.AddressID, checkout.BasketID,
		checkout.Comment, checkout.CreatedAt, checkout.UpdatedAt,
	)
	if err != nil {
		return domain.Checkout{}, apperror.NewDBError("failed to insert checkout", err)
	}

	r.logger.Debug("checkout saved", map[string]interface{}{"checkout_id": checkout.ID})
	return checkout, nil
}

func (r *CheckoutRepository) Update(ctx context.Context, checkout domain.Checkout) (domain.Checkout, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const updateSQL = `UPDATE checkouts
		SET address_id = $1, comment = $2, updated_at = $3
		WHERE id = $4`

	result, err := r.DB.ExecContext(ctxTimeout, updateSQL,
		checkout.AddressID, checkout.Comment, checkout.UpdatedAt, checkout.ID)
	if err != nil {
		return domain.Checkout{}, apperror.NewDBError("failed to update checkout", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.Checkout{}, apperror.NewNotFoundError(fmt.Sprintf("checkout with id %s does not exist", checkout.ID))
	}
	return checkout, nil
}

func (r *CheckoutRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM checkouts WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDBError("failed to delete checkout", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("checkout with id %s does not exist", id))
	}
	return nil
}
