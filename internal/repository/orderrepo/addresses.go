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

type AddressRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

func NewAddressRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *AddressRepository {
	return &AddressRepository{DB: db, DBTimeout: dbTimeout, logger: log}
}

const addressColumns = `id, user_id, receiver_name, receiver_phone, address,
	room_or_office, door, floor, ring_bell, zip_code, created_at, updated_at`

func scanAddress(row interface{ Scan(...interface{}) error }) (domain.Address, error) {
	var a domain.Address
	err := row.Scan(&a.ID, &a.UserID, &a.ReceiverName, &a.ReceiverPhone, &a.Address,
		&a.RoomOrOffice, &a.Door, &a.Floor, &a.RingBell, &a.ZipCode,
		&a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func buildAddressListQuery(f domain.AddressFilter) (string, []interface{}) {
	b := &sqlbuild.Builder{}
	if f.UserID != "" {
		b.Where("user_id = $%d", f.UserID)
	}
	if f.ReceiverName != "" {
		b.Where("receiver_name ILIKE $%d", sqlbuild.LikePattern(f.ReceiverName))
	}
	if f.ReceiverPhone != "" {
		b.Where("receiver_phone ILIKE $%d", sqlbuild.LikePattern(f.ReceiverPhone))
	}

	allowed := map[string]string{
		"id":           "id",
		"receiverName": "receiver_name",
		"createdAt":    "created_at",
	}

	query := `SELECT ` + addressColumns + ` FROM addresses` + b.WhereClause() +
		sqlbuild.OrderClause(f.SortBy, f.OrderBy, allowed, "created_at") +
		b.Pagination(f.Offset, f.Limit)

	return query, b.Args()
}

func (r *AddressRepository) FindAll(ctx context.Context, f domain.AddressFilter) ([]domain.Address, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query, args := buildAddressListQuery(f)

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		return nil, apperror.NewDBError("failed to list addresses", err)
	}
	defer rows.Close()

	var addresses []domain.Address
	for rows.Next() {
		address, err := scanAddress(rows)
		if err != nil {
			return nil, apperror.NewDBError("failed to scan address row", err)
		}
		addresses = append(addresses, address)
	}
	return addresses, rows.Err()
}

func (r *AddressRepository) Count(ctx context.Context) (int64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var count int64
	if err := r.DB.QueryRowContext(ctxTimeout, `SELECT COUNT(*) FROM addresses`).Scan(&count); err != nil {
		return 0, apperror.NewDBError("failed to count addresses", err)
	}
	return count, nil
}

func (r *AddressRepository) FindByID(ctx context.Context, id string) (domain.Address, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	row := r.DB.QueryRowContext(ctxTimeout,
		`SELECT `+addressColumns+` FROM addresses WHERE id = $1`, id)

	address, err := scanAddress(row)
	if err == sql.ErrNoRows {
		return domain.Address{}, apperror.NewNotFoundError(fmt.Sprintf("address with id %s does not exist", id))
	}
	if err != nil {
		return domain.Address{}, apperror.NewDBError("failed to fetch address", err)
	}
	return address, nil
}

func (r *AddressRepository) Save(ctx context.Context, address domain.Address) (domain.Address, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const insertSQL = `INSERT INTO addresses
		(id, user_id, receiver_name, receiver_phone, address, room_or_office, door, floor, ring_bell, zip_code, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`

	_, err := r.DB.ExecContext(ctxTimeout, insertSQL,
		address.ID, address.UserID, address.ReceiverName, address.ReceiverPhone,
		address.Address, address.RoomOrOffice, address.Door, address.Floor,
		address.RingBell, address.ZipCode, address.CreatedAt, address.UpdatedAt,
	)
	if err != nil {
		return domain.Address{}, apperror.NewDBError("failed to insert address", err)
	}
	return address, nil
}

func (r *AddressRepository) Update(ctx context.Context, address domain.Address) (domain.Address, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const updateSQL = `UPDATE addresses
		SET receiver_name = $1, receiver_phone = $2, address = $3, room_or_office = $4,
			door = $5, floor = $6, ring_bell = $7, zip_code = $8, updated_at = $9
		WHERE id = $10`

	result, err := r.DB.ExecContext(ctxTimeout, updateSQL,
		address.ReceiverName, address.ReceiverPhone, address.Address,
		address.RoomOrOffice, address.Door, address.Floor, address.RingBell,
		address.ZipCode, address.UpdatedAt, address.ID,
	)
	if err != nil {
		return domain.Address{}, apperror.NewDBError("failed to update address", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.Address{}, apperror.NewNotFoundError(fmt.Sprintf("address with id %s does not exist", address.ID))
	}
	return address, nil
}

func (r *AddressRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM addresses WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDBError("failed to delete address", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("address with id %s does not exist", id))
	}
	return nil
}
