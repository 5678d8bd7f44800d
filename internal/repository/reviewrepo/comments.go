package reviewrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"goshop/internal/domain"
	apperror "goshop/internal/errors"
	"goshop/internal/pkg/logger"
)

type CommentRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

func NewCommentRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *CommentRepository {
	return &CommentRepository{DB: db, DBTimeout: dbTimeout, logger: log}
}

const commentColumns = `id, review_id, user_id, text, created_at, updated_at`

func scanComment(row interface{ Scan(...interface{}) error }) (domain.Comment, error) {
	var c domain.Comment
	err := row.Scan(&c.ID, &c.ReviewID, &c.UserID, &c.Text, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *CommentRepository) FindByID(ctx context.Context, id int64) (domain.Comment, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	row := r.DB.QueryRowContext(ctxTimeout,
		`SELECT `+commentColumns+` FROM comments WHERE id = $1`, id)

	comment, err := scanComment(row)
	if err == sql.ErrNoRows {
		return domain.Comment{}, apperror.NewNotFoundError(fmt.Sprintf("comment with id %d does not exist", id))
	}
	if err != nil {
		return domain.Comment{}, apperror.NewDBError("failed to fetch comment", err)
	}
	return comment, nil
}

func (r *CommentRepository) Save(ctx context.Context, comment domain.Comment) (domain.Comment, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const insertSQL = `INSERT INTO comments (review_id, user_id, text)
		VALUES ($1,$2,$3)
		RETURNING id, created_at, updated_at`

	err := r.DB.QueryRowContext(ctxTimeout, insertSQL,
		comment.ReviewID, comment.UserID, comment.Text,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return domain.Comment{}, apperror.NewDBError("failed to insert comment", err)
	}
	return comment, nil
}

func (r *CommentRepository) Update(ctx context.Context, comment domain.Comment) (domain.Comment, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const updateSQL = `UPDATE comments SET text = $1, updated_at = now()
		WHERE id = $2
		RETURNING ` + commentColumns

	row := r.DB.QueryRowContext(ctxTimeout, updateSQL, comment.Text, comment.ID)

	updated, err := scanComment(row)
	if err == sql.ErrNoRows {
		return domain.Comment{}, apperror.NewNotFoundError(fmt.Sprintf("comment with id %d does not exist", comment.ID))
	}
	if err != nil {
		return domain.Comment{}, apperror.NewDBError("failed to update comment", err)
	}
	return updated, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDBError("failed to delete comment", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("comment with id %d does not exist", id))
	}
	return nil
}
