package reviewrepo

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

type ReactionRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

func NewReactionRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *ReactionRepository {
	return &ReactionRepository{DB: db, DBTimeout: dbTimeout, logger: log}
}

// pq error code for unique constraint violations.
const uniqueViolation = "23505"

const reactionColumns = `id, review_id, user_id, reaction`

func scanReaction(row interface{ Scan(...interface{}) error }) (domain.ReactionReview, error) {
	var rr domain.ReactionReview
	err := row.Scan(&rr.ID, &rr.ReviewID, &rr.UserID, &rr.Reaction)
	return rr, err
}

func (r *ReactionRepository) FindByID(ctx context.Context, id int64) (domain.ReactionReview, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	row := r.DB.QueryRowContext(ctxTimeout,
		`SELECT `+reactionColumns+` FROM review_reactions WHERE id = $1`, id)

	reaction, err := scanReaction(row)
	if err == sql.ErrNoRows {
		return domain.ReactionReview{}, apperror.NewNotFoundError(fmt.Sprintf("reaction with id %d does not exist", id))
	}
	if err != nil {
		return domain.ReactionReview{}, apperror.NewDBError("failed to fetch reaction", err)
	}
	return reaction, nil
}

// Save inserts a new reaction. One user gets one reaction per review; the
// unique index turns a second insert into a conflict.
func (r *ReactionRepository) Save(ctx context.Context, reaction domain.ReactionReview) (domain.ReactionReview, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const insertSQL = `INSERT INTO review_reactions (review_id, user_id, reaction)
		VALUES ($1,$2,$3)
		RETURNING id`

	err := r.DB.QueryRowContext(ctxTimeout, insertSQL,
		reaction.ReviewID, reaction.UserID, reaction.Reaction,
	).Scan(&reaction.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
			return domain.ReactionReview{}, apperror.NewConflictError(
				fmt.Sprintf("user %s already reacted to review %d", reaction.UserID, reaction.ReviewID))
		}
		return domain.ReactionReview{}, apperror.NewDBError("failed to insert reaction", err)
	}
	return reaction, nil
}

func (r *ReactionRepository) Delete(ctx context.Context, id int64) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM review_reactions WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDBError("failed to delete reaction", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("reaction with id %d does not exist", id))
	}
	return nil
}
