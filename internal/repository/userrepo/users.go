package userrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"goshop/internal/domain"
	apperror "goshop/internal/errors"
	"goshop/internal/pkg/logger"
)

// pq error code for unique constraint violations.
const uniqueViolation = "23505"

type UserRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

func NewUserRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *UserRepository {
	return &UserRepository{DB: db, DBTimeout: dbTimeout, logger: log}
}

const userColumns = `id, first_name, last_name, email, password_hash, is_verified, role, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.IsVerified, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	row := r.DB.QueryRowContext(ctxTimeout,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("user with id %s does not exist", id))
	}
	if err != nil {
		return domain.User{}, apperror.NewDBError("failed to fetch user", err)
	}
	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	row := r.DB.QueryRowContext(ctxTimeout,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)

	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("user with email %s does not exist", email))
	}
	if err != nil {
		return domain.User{}, apperror.NewDBError("failed to fetch user", err)
	}
	return user, nil
}

// Save inserts a new user. A duplicate email surfaces as a conflict error via
// the unique index, not a pre-check, so concurrent registrations stay safe.
func (r *UserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const insertSQL = `INSERT INTO users
		(id, first_name, last_name, email, password_hash, is_verified, role, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

	_, err := r.DB.ExecContext(ctxTimeout, insertSQL,
		user.ID, user.FirstName, user.LastName, user.Email, user.PasswordHash,
		user.IsVerified, user.Role, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
			return domain.User{}, apperror.NewConflictError(fmt.Sprintf("user with email %s already exists", user.Email))
		}
		return domain.User{}, apperror.NewDBError("failed to insert user", err)
	}

	r.logger.Debug("user saved", map[string]interface{}{"user_id": user.ID})
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, user domain.User) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const updateSQL = `UPDATE users
		SET first_name = $1, last_name = $2, is_verified = $3, updated_at = $4
		WHERE id = $5`

	result, err := r.DB.ExecContext(ctxTimeout, updateSQL,
		user.FirstName, user.LastName, user.IsVerified, user.UpdatedAt, user.ID)
	if err != nil {
		return domain.User{}, apperror.NewDBError("failed to update user", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("user with id %s does not exist", user.ID))
	}
	return user, nil
}
