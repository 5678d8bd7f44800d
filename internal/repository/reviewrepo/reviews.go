package reviewrepo

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

// ReviewRepository persists reviews, comments and reactions. Review ids are
// database-assigned (BIGSERIAL); the repository never computes identifiers.
type ReviewRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

func NewReviewRepository(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *ReviewRepository {
	return &ReviewRepository{DB: db, DBTimeout: dbTimeout, logger: log}
}

const reviewColumns = `id, product_id, user_id, rating, text, images, show_on_main, created_at, updated_at`

func scanReview(row interface{ Scan(...interface{}) error }) (domain.Review, error) {
	var rv domain.Review
	err := row.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Rating, &rv.Text,
		&rv.Images, &rv.ShowOnMain, &rv.CreatedAt, &rv.UpdatedAt)
	return rv, err
}

func reviewConditions(f domain.ReviewFilter) *sqlbuild.Builder {
	b := &sqlbuild.Builder{}
	if f.ProductID != "" {
		b.Where("product_id = $%d", f.ProductID)
	}
	if f.UserID != "" {
		b.Where("user_id = $%d", f.UserID)
	}
	if f.ShowOnMain != nil {
		b.Where("show_on_main = $%d", *f.ShowOnMain)
	}
	return b
}

// buildReviewListQuery translates a ReviewFilter into SQL.
func buildReviewListQuery(f domain.ReviewFilter) (string, []interface{}) {
	b := reviewConditions(f)

	allowed := map[string]string{
		"id":        "id",
		"productId": "product_id",
		"userId":    "user_id",
		"rating":    "rating",
		"createdAt": "created_at",
	}

	query := `SELECT ` + reviewColumns + ` FROM reviews` + b.WhereClause() +
		sqlbuild.OrderClause(f.SortBy, f.OrderBy, allowed, "product_id") +
		b.Pagination(f.Offset, f.Limit)

	return query, b.Args()
}

// FindAll returns the filtered review page with comments and reactions
// attached, preserving the query's sort order.
func (r *ReviewRepository) FindAll(ctx context.Context, f domain.ReviewFilter) ([]domain.Review, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query, args := buildReviewListQuery(f)

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		return nil, apperror.NewDBError("failed to list reviews", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, apperror.NewDBError("failed to scan review row", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate review rows", err)
	}

	if err := r.loadRelations(ctxTimeout, reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *ReviewRepository) loadRelations(ctx context.Context, reviews []domain.Review) error {
	if len(reviews) == 0 {
		return nil
	}

	ids := make([]int64, len(reviews))
	index := make(map[int64]*domain.Review, len(reviews))
	for i := range reviews {
		ids[i] = reviews[i].ID
		index[reviews[i].ID] = &reviews[i]
		// Embedded slices stay non-nil so the JSON shape is stable.
		reviews[i].Comments = []domain.Comment{}
		reviews[i].Reactions = []domain.ReactionReview{}
	}

	commentSQL := `SELECT id, review_id, user_id, text, created_at, updated_at
		FROM comments WHERE review_id = ANY($1) ORDER BY id`
	rows, err := r.DB.QueryContext(ctx, commentSQL, pq.Array(ids))
	if err != nil {
		return apperror.NewDBError("failed to load review comments", err)
	}
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.ReviewID, &c.UserID, &c.Text, &c.CreatedAt, &c.UpdatedAt); err != nil {
			rows.Close()
			return apperror.NewDBError("failed to scan review comment", err)
		}
		index[c.ReviewID].Comments = append(index[c.ReviewID].Comments, c)
	}
	rows.Close()

	reactionSQL := `SELECT id, review_id, user_id, reaction
		FROM review_reactions WHERE review_id = ANY($1) ORDER BY id`
	rows, err = r.DB.QueryContext(ctx, reactionSQL, pq.Array(ids))
	if err != nil {
		return apperror.NewDBError("failed to load review reactions", err)
	}
	defer rows.Close()
	for rows.Next() {
		var rr domain.ReactionReview
		if err := rows.Scan(&rr.ID, &rr.ReviewID, &rr.UserID, &rr.Reaction); err != nil {
			return apperror.NewDBError("failed to scan review reaction", err)
		}
		index[rr.ReviewID].Reactions = append(index[rr.ReviewID].Reactions, rr)
	}
	return rows.Err()
}

// Count reports the filtered review count. Unlike the catalog lists, the
// review list envelope has always carried the filtered total.
func (r *ReviewRepository) Count(ctx context.Context, f domain.ReviewFilter) (int64, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	b := reviewConditions(f)
	query := `SELECT COUNT(*) FROM reviews` + b.WhereClause()

	var count int64
	if err := r.DB.QueryRowContext(ctxTimeout, query, b.Args()...).Scan(&count); err != nil {
		return 0, apperror.NewDBError("failed to count reviews", err)
	}
	return count, nil
}

// FindByID fetches a review with comments and reactions.
func (r *ReviewRepository) FindByID(ctx context.Context, id int64) (domain.Review, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	row := r.DB.QueryRowContext(ctxTimeout,
		`SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id)

	review, err := scanReview(row)
	if err == sql.ErrNoRows {
		return domain.Review{}, apperror.NewNotFoundError(fmt.Sprintf("review with id %d does not exist", id))
	}
	if err != nil {
		return domain.Review{}, apperror.NewDBError("failed to fetch review", err)
	}

	reviews := []domain.Review{review}
	if err := r.loadRelations(ctxTimeout, reviews); err != nil {
		return domain.Review{}, err
	}
	return reviews[0], nil
}

// Save inserts a new review and returns it with the database-assigned id and
// timestamps.
func (r *ReviewRepository) Save(ctx context.Context, review domain.Review) (domain.Review, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const insertSQL = `INSERT INTO reviews (product_id, user_id, rating, text, images, show_on_main)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at, updated_at`

	err := r.DB.QueryRowContext(ctxTimeout, insertSQL,
		review.ProductID, review.UserID, review.Rating, review.Text,
		review.Images, review.ShowOnMain,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		return domain.Review{}, apperror.NewDBError("failed to insert review", err)
	}

	r.logger.Debug("review saved", map[string]interface{}{"review_id": review.ID})
	return review, nil
}

// Update rewrites the mutable review columns in a single statement. The
// product association is immutable after creation, so product_id is never in
// the column list.
func (r *ReviewRepository) Update(ctx context.Context, review domain.Review) (domain.Review, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	const updateSQL = `UPDATE reviews
		SET rating = $1, text = $2, images = $3, show_on_main = $4, updated_at = now()
		WHERE id = $5
		RETURNING ` + reviewColumns

	row := r.DB.QueryRowContext(ctxTimeout, updateSQL,
		review.Rating, review.Text, review.Images, review.ShowOnMain, review.ID)

	updated, err := scanReview(row)
	if err == sql.ErrNoRows {
		return domain.Review{}, apperror.NewNotFoundError(fmt.Sprintf("review with id %d does not exist", review.ID))
	}
	if err != nil {
		return domain.Review{}, apperror.NewDBError("failed to update review", err)
	}
	return updated, nil
}

// Delete removes a review; comments and reactions cascade.
func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDBError("failed to delete review", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("review with id %d does not exist", id))
	}
	return nil
}
