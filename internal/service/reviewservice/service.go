// Package reviewservice owns review business rules: ownership checks, the
// product-existence gate on creation and the merge step that enriches stored
// reviews with data from the users and catalog services.
package reviewservice

import (
	"context"
	"errors"
	"strings"

	"goshop/internal/client/catalogclient"
	"goshop/internal/domain"
	apperror "goshop/internal/errors"
)

// ReviewRepository is the persistence contract for reviews.
type ReviewRepository interface {
	FindAll(ctx context.Context, f domain.ReviewFilter) ([]domain.Review, error)
	Count(ctx context.Context, f domain.ReviewFilter) (int64, error)
	FindByID(ctx context.Context, id int64) (domain.Review, error)
	Save(ctx context.Context, review domain.Review) (domain.Review, error)
	Update(ctx context.Context, review domain.Review) (domain.Review, error)
	Delete(ctx context.Context, id int64) error
}

type CommentRepository interface {
	FindByID(ctx context.Context, id int64) (domain.Comment, error)
	Save(ctx context.Context, comment domain.Comment) (domain.Comment, error)
	Update(ctx context.Context, comment domain.Comment) (domain.Comment, error)
	Delete(ctx context.Context, id int64) error
}

type ReactionRepository interface {
	FindByID(ctx context.Context, id int64) (domain.ReactionReview, error)
	Save(ctx context.Context, reaction domain.ReactionReview) (domain.ReactionReview, error)
	Delete(ctx context.Context, id int64) error
}

// UserClient resolves user profiles from the users service.
type UserClient interface {
	UserByID(ctx context.Context, id string, authToken string) (*domain.UserProfile, error)
}

// ProductClient resolves products from the catalog service.
type ProductClient interface {
	ProductByID(ctx context.Context, id string) (*domain.RemoteProduct, error)
}

type Service struct {
	reviews   ReviewRepository
	comments  CommentRepository
	reactions ReactionRepository
	users     UserClient
	products  ProductClient
}

func NewService(reviews ReviewRepository, comments CommentRepository, reactions ReactionRepository, users UserClient, products ProductClient) *Service {
	return &Service{
		reviews:   reviews,
		comments:  comments,
		reactions: reactions,
		users:     users,
		products:  products,
	}
}

// List returns one review page without remote enrichment. The envelope's
// length is the filtered count.
func (s *Service) List(ctx context.Context, f domain.ReviewFilter) (domain.Pagination[domain.Review], error) {
	f.Offset, f.Limit = domain.ClampPage(f.Offset, f.Limit)

	rows, err := s.reviews.FindAll(ctx, f)
	if err != nil {
		return domain.Pagination[domain.Review]{}, err
	}
	length, err := s.reviews.Count(ctx, f)
	if err != nil {
		return domain.Pagination[domain.Review]{}, err
	}
	if rows == nil {
		rows = []domain.Review{}
	}
	return domain.Pagination[domain.Review]{Rows: rows, Length: length}, nil
}

// ListMerged returns one review page enriched with remote user and product
// data. authToken is the caller's raw Authorization header, forwarded to the
// users service.
func (s *Service) ListMerged(ctx context.Context, f domain.ReviewFilter, authToken string) (domain.Pagination[domain.MergedReview], error) {
	page, err := s.List(ctx, f)
	if err != nil {
		return domain.Pagination[domain.MergedReview]{}, err
	}

	merged, err := s.merge(ctx, page.Rows, authToken)
	if err != nil {
		return domain.Pagination[domain.MergedReview]{}, err
	}
	return domain.Pagination[domain.MergedReview]{Rows: merged, Length: page.Length}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (domain.Review, error) {
	return s.reviews.FindByID(ctx, id)
}

func (s *Service) GetMerged(ctx context.Context, id int64, authToken string) (domain.MergedReview, error) {
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return domain.MergedReview{}, err
	}
	merged, err := s.merge(ctx, []domain.Review{review}, authToken)
	if err != nil {
		return domain.MergedReview{}, err
	}
	return merged[0], nil
}

// Create stores a new review for the authenticated caller and answers the
// re-read, enriched row. The product must exist in the catalog; when the
// catalog cannot answer at all the write is rejected rather than guessed, so
// a catalog outage never lets broken references through.
func (s *Service) Create(ctx context.Context, review domain.Review, caller domain.UserAuth, authToken string) (domain.MergedReview, error) {
	if err := validateReview(review); err != nil {
		return domain.MergedReview{}, err
	}

	if _, err := s.products.ProductByID(ctx, review.ProductID); err != nil {
		if errors.Is(err, catalogclient.ErrNotFound) {
			return domain.MergedReview{}, apperror.NewProductNotFoundError(review.ProductID)
		}
		return domain.MergedReview{}, apperror.NewInternalError("could not verify product existence", err)
	}

	review.UserID = caller.ID
	saved, err := s.reviews.Save(ctx, review)
	if err != nil {
		return domain.MergedReview{}, err
	}
	return s.GetMerged(ctx, saved.ID, authToken)
}

func validateReview(review domain.Review) error {
	if review.Rating < 1 || review.Rating > 5 {
		return apperror.NewValidationError("rating must be between 1 and 5")
	}
	if strings.TrimSpace(review.Text) == "" {
		return apperror.NewValidationError("review text is required")
	}
	if strings.TrimSpace(review.ProductID) == "" {
		return apperror.NewValidationError("productId is required")
	}
	return nil
}

// ReviewChanges carries a partial review update. The product association is
// immutable, so there is deliberately no product field here.
type ReviewChanges struct {
	Rating     *int
	Text       *string
	Images     *string
	ShowOnMain *bool
}

// Update applies a partial update after the ownership check. Only the caller
// that wrote the review, or an admin, may change it.
func (s *Service) Update(ctx context.Context, id int64, ch ReviewChanges, caller domain.UserAuth) (domain.Review, error) {
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return domain.Review{}, err
	}
	if err := domain.IsOwnerOrAdmin(review.UserID, caller); err != nil {
		return domain.Review{}, err
	}

	if ch.Rating != nil {
		if *ch.Rating < 1 || *ch.Rating > 5 {
			return domain.Review{}, apperror.NewValidationError("rating must be between 1 and 5")
		}
		review.Rating = *ch.Rating
	}
	if ch.Text != nil {
		review.Text = *ch.Text
	}
	if ch.Images != nil {
		review.Images = *ch.Images
	}
	if ch.ShowOnMain != nil {
		review.ShowOnMain = *ch.ShowOnMain
	}

	return s.reviews.Update(ctx, review)
}

func (s *Service) Delete(ctx context.Context, id int64, caller domain.UserAuth) error {
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := domain.IsOwnerOrAdmin(review.UserID, caller); err != nil {
		return err
	}
	return s.reviews.Delete(ctx, id)
}

// CreateComment attaches a comment to an existing review.
func (s *Service) CreateComment(ctx context.Context, reviewID int64, text string, caller domain.UserAuth) (domain.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Comment{}, apperror.NewValidationError("comment text is required")
	}
	if _, err := s.reviews.FindByID(ctx, reviewID); err != nil {
		return domain.Comment{}, err
	}
	return s.comments.Save(ctx, domain.Comment{
		ReviewID: reviewID,
		UserID:   caller.ID,
		Text:     text,
	})
}

func (s *Service) UpdateComment(ctx context.Context, id int64, text string, caller domain.UserAuth) (domain.Comment, error) {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return domain.Comment{}, err
	}
	if err := domain.IsOwnerOrAdmin(comment.UserID, caller); err != nil {
		return domain.Comment{}, err
	}
	if strings.TrimSpace(text) == "" {
		return domain.Comment{}, apperror.NewValidationError("comment text is required")
	}
	comment.Text = text
	return s.comments.Update(ctx, comment)
}

func (s *Service) DeleteComment(ctx context.Context, id int64, caller domain.UserAuth) error {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := domain.IsOwnerOrAdmin(comment.UserID, caller); err != nil {
		return err
	}
	return s.comments.Delete(ctx, id)
}

// CreateReaction stores the caller's reaction on an existing review. A second
// reaction by the same user on the same review conflicts at the database.
func (s *Service) CreateReaction(ctx context.Context, reviewID int64, reaction domain.Reaction, caller domain.UserAuth) (domain.ReactionReview, error) {
	if reaction != domain.ReactionLike && reaction != domain.ReactionDislike {
		return domain.ReactionReview{}, apperror.NewValidationError("reaction must be LIKE or DISLIKE")
	}
	if _, err := s.reviews.FindByID(ctx, reviewID); err != nil {
		return domain.ReactionReview{}, err
	}
	return s.reactions.Save(ctx, domain.ReactionReview{
		ReviewID: reviewID,
		UserID:   caller.ID,
		Reaction: reaction,
	})
}

// DeleteReaction removes a reaction after the ownership check.
func (s *Service) DeleteReaction(ctx context.Context, id int64, caller domain.UserAuth) error {
	reaction, err := s.reactions.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := domain.IsOwnerOrAdmin(reaction.UserID, caller); err != nil {
		return err
	}
	return s.reactions.Delete(ctx, id)
}
