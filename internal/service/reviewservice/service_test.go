package reviewservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"goshop/internal/client/catalogclient"
	"goshop/internal/domain"
	apperror "goshop/internal/errors"
	"goshop/internal/service/reviewservice"
)

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) FindAll(ctx context.Context, f domain.ReviewFilter) ([]domain.Review, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepo) Count(ctx context.Context, f domain.ReviewFilter) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockReviewRepo) FindByID(ctx context.Context, id int64) (domain.Review, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Review), args.Error(1)
}

func (m *mockReviewRepo) Save(ctx context.Context, review domain.Review) (domain.Review, error) {
	args := m.Called(ctx, review)
	return args.Get(0).(domain.Review), args.Error(1)
}

func (m *mockReviewRepo) Update(ctx context.Context, review domain.Review) (domain.Review, error) {
	args := m.Called(ctx, review)
	return args.Get(0).(domain.Review), args.Error(1)
}

func (m *mockReviewRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockCommentRepo struct {
	mock.Mock
}

func (m *mockCommentRepo) FindByID(ctx context.Context, id int64) (domain.Comment, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Comment), args.Error(1)
}

func (m *mockCommentRepo) Save(ctx context.Context, comment domain.Comment) (domain.Comment, error) {
	args := m.Called(ctx, comment)
	return args.Get(0).(domain.Comment), args.Error(1)
}

func (m *mockCommentRepo) Update(ctx context.Context, comment domain.Comment) (domain.Comment, error) {
	args := m.Called(ctx, comment)
	return args.Get(0).(domain.Comment), args.Error(1)
}

func (m *mockCommentRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockReactionRepo struct {
	mock.Mock
}

func (m *mockReactionRepo) FindByID(ctx context.Context, id int64) (domain.ReactionReview, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.ReactionReview), args.Error(1)
}

func (m *mockReactionRepo) Save(ctx context.Context, reaction domain.ReactionReview) (domain.ReactionReview, error) {
	args := m.Called(ctx, reaction)
	return args.Get(0).(domain.ReactionReview), args.Error(1)
}

func (m *mockReactionRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockUserClient struct {
	mock.Mock
}

func (m *mockUserClient) UserByID(ctx context.Context, id, authToken string) (*domain.UserProfile, error) {
	args := m.Called(ctx, id, authToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

type mockProductClient struct {
	mock.Mock
}

func (m *mockProductClient) ProductByID(ctx context.Context, id string) (*domain.RemoteProduct, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RemoteProduct), args.Error(1)
}

type serviceMocks struct {
	reviews   *mockReviewRepo
	comments  *mockCommentRepo
	reactions *mockReactionRepo
	users     *mockUserClient
	products  *mockProductClient
}

func newService() (*reviewservice.Service, serviceMocks) {
	m := serviceMocks{
		reviews:   new(mockReviewRepo),
		comments:  new(mockCommentRepo),
		reactions: new(mockReactionRepo),
		users:     new(mockUserClient),
		products:  new(mockProductClient),
	}
	svc := reviewservice.NewService(m.reviews, m.comments, m.reactions, m.users, m.products)
	return svc, m
}

var caller = domain.UserAuth{ID: "u-1", Role: domain.RoleUser}

func validReview() domain.Review {
	return domain.Review{ProductID: "prod-1", Rating: 4, Text: "good one"}
}

func TestList_LengthIsFilteredCount(t *testing.T) {
	svc, m := newService()

	f := domain.ReviewFilter{ProductID: "prod-1", Offset: 0, Limit: 10}
	m.reviews.On("FindAll", mock.Anything, f).Return([]domain.Review{{ID: 1}, {ID: 2}}, nil)
	m.reviews.On("Count", mock.Anything, f).Return(int64(7), nil)

	page, err := svc.List(context.Background(), domain.ReviewFilter{ProductID: "prod-1"})

	require.NoError(t, err)
	assert.Len(t, page.Rows, 2)
	assert.Equal(t, int64(7), page.Length)
}

func TestList_DefaultsPageAndNeverReturnsNilRows(t *testing.T) {
	svc, m := newService()

	m.reviews.On("FindAll", mock.Anything, mock.MatchedBy(func(f domain.ReviewFilter) bool {
		return f.Offset == 0 && f.Limit == domain.DefaultLimit
	})).Return(nil, nil)
	m.reviews.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil)

	page, err := svc.List(context.Background(), domain.ReviewFilter{Offset: -5, Limit: 0})

	require.NoError(t, err)
	assert.NotNil(t, page.Rows)
	assert.Empty(t, page.Rows)
}

func TestCreate_AssignsCallerAndReturnsEnrichedRow(t *testing.T) {
	svc, m := newService()

	m.products.On("ProductByID", mock.Anything, "prod-1").Return(&domain.RemoteProduct{ID: "prod-1"}, nil)
	m.reviews.On("Save", mock.Anything, mock.MatchedBy(func(r domain.Review) bool {
		return r.UserID == "u-1" && r.ProductID == "prod-1"
	})).Return(domain.Review{ID: 42, UserID: "u-1", ProductID: "prod-1"}, nil)
	m.reviews.On("FindByID", mock.Anything, int64(42)).
		Return(domain.Review{ID: 42, UserID: "u-1", ProductID: "prod-1", Rating: 4, Text: "good one"}, nil)
	m.users.On("UserByID", mock.Anything, "u-1", "Bearer tok").
		Return(&domain.UserProfile{ID: "u-1"}, nil)

	// The user field in the payload must not matter.
	review := validReview()
	review.UserID = "someone-else"

	created, err := svc.Create(context.Background(), review, caller, "Bearer tok")

	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)
	product, ok := created.Product.(*domain.RemoteProduct)
	require.True(t, ok)
	assert.Equal(t, "prod-1", product.ID)
	m.reviews.AssertExpectations(t)
}

func TestCreate_UnknownProductRejectedWithoutWrite(t *testing.T) {
	svc, m := newService()

	m.products.On("ProductByID", mock.Anything, "prod-1").Return(nil, catalogclient.ErrNotFound)

	_, err := svc.Create(context.Background(), validReview(), caller, "")

	var pnf *apperror.ProductNotFoundError
	assert.ErrorAs(t, err, &pnf)
	m.reviews.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// A catalog outage must reject the write rather than let broken refs through.
func TestCreate_CatalogOutageRejectedWithoutWrite(t *testing.T) {
	svc, m := newService()

	m.products.On("ProductByID", mock.Anything, "prod-1").Return(nil, catalogclient.ErrUnavailable)

	_, err := svc.Create(context.Background(), validReview(), caller, "")

	var ie *apperror.InternalError
	assert.ErrorAs(t, err, &ie)
	m.reviews.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCreate_ValidatesRating(t *testing.T) {
	svc, m := newService()

	for _, rating := range []int{0, 6, -1} {
		review := validReview()
		review.Rating = rating
		_, err := svc.Create(context.Background(), review, caller, "")

		var ve *apperror.ValidationError
		assert.ErrorAs(t, err, &ve, "rating %d", rating)
	}
	m.products.AssertNotCalled(t, "ProductByID", mock.Anything, mock.Anything)
}

func TestUpdate_OwnerChangesOwnReview(t *testing.T) {
	svc, m := newService()

	stored := domain.Review{ID: 1, ProductID: "prod-1", UserID: "u-1", Rating: 3, Text: "ok"}
	m.reviews.On("FindByID", mock.Anything, int64(1)).Return(stored, nil)
	m.reviews.On("Update", mock.Anything, mock.MatchedBy(func(r domain.Review) bool {
		// Untouched fields keep their stored values; the product never changes.
		return r.Rating == 5 && r.Text == "ok" && r.ProductID == "prod-1"
	})).Return(domain.Review{ID: 1, Rating: 5, Text: "ok"}, nil)

	rating := 5
	updated, err := svc.Update(context.Background(), 1, reviewservice.ReviewChanges{Rating: &rating}, caller)

	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
}

func TestUpdate_StrangerForbidden(t *testing.T) {
	svc, m := newService()

	m.reviews.On("FindByID", mock.Anything, int64(1)).
		Return(domain.Review{ID: 1, UserID: "someone-else"}, nil)

	text := "hijacked"
	_, err := svc.Update(context.Background(), 1, reviewservice.ReviewChanges{Text: &text}, caller)

	var fe *apperror.ForbiddenError
	assert.ErrorAs(t, err, &fe)
	m.reviews.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdate_AdminChangesAnyReview(t *testing.T) {
	svc, m := newService()

	m.reviews.On("FindByID", mock.Anything, int64(1)).
		Return(domain.Review{ID: 1, UserID: "someone-else", Rating: 2}, nil)
	m.reviews.On("Update", mock.Anything, mock.Anything).
		Return(domain.Review{ID: 1, UserID: "someone-else", Rating: 2, ShowOnMain: true}, nil)

	show := true
	_, err := svc.Update(context.Background(), 1, reviewservice.ReviewChanges{ShowOnMain: &show},
		domain.UserAuth{ID: "admin-1", Role: domain.RoleAdmin})

	require.NoError(t, err)
}

func TestDelete_StrangerForbidden(t *testing.T) {
	svc, m := newService()

	m.reviews.On("FindByID", mock.Anything, int64(1)).
		Return(domain.Review{ID: 1, UserID: "someone-else"}, nil)

	err := svc.Delete(context.Background(), 1, caller)

	var fe *apperror.ForbiddenError
	assert.ErrorAs(t, err, &fe)
	m.reviews.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCreateComment_RequiresExistingReview(t *testing.T) {
	svc, m := newService()

	m.reviews.On("FindByID", mock.Anything, int64(9)).
		Return(domain.Review{}, apperror.NewNotFoundError("review with id 9 not found"))

	_, err := svc.CreateComment(context.Background(), 9, "nice", caller)

	var nf *apperror.NotFoundError
	assert.ErrorAs(t, err, &nf)
	m.comments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCreateReaction_RequiresExistingReview(t *testing.T) {
	svc, m := newService()

	m.reviews.On("FindByID", mock.Anything, int64(9)).
		Return(domain.Review{}, apperror.NewNotFoundError("review with id 9 not found"))

	_, err := svc.CreateReaction(context.Background(), 9, domain.ReactionLike, caller)

	var nf *apperror.NotFoundError
	assert.ErrorAs(t, err, &nf)
	m.reactions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCreateReaction_StoresCallerReaction(t *testing.T) {
	svc, m := newService()

	m.reviews.On("FindByID", mock.Anything, int64(1)).Return(domain.Review{ID: 1}, nil)
	m.reactions.On("Save", mock.Anything, domain.ReactionReview{
		ReviewID: 1, UserID: "u-1", Reaction: domain.ReactionLike,
	}).Return(domain.ReactionReview{ID: 5, ReviewID: 1, UserID: "u-1", Reaction: domain.ReactionLike}, nil)

	created, err := svc.CreateReaction(context.Background(), 1, domain.ReactionLike, caller)

	require.NoError(t, err)
	assert.Equal(t, int64(5), created.ID)
}

func TestCreateReaction_RejectsUnknownReaction(t *testing.T) {
	svc, _ := newService()

	_, err := svc.CreateReaction(context.Background(), 1, domain.Reaction("MEH"), caller)

	var ve *apperror.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestDeleteReaction_StrangerForbidden(t *testing.T) {
	svc, m := newService()

	m.reactions.On("FindByID", mock.Anything, int64(5)).
		Return(domain.ReactionReview{ID: 5, ReviewID: 1, UserID: "someone-else"}, nil)

	err := svc.DeleteReaction(context.Background(), 5, caller)

	var fe *apperror.ForbiddenError
	assert.ErrorAs(t, err, &fe)
	m.reactions.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteReaction_Owner(t *testing.T) {
	svc, m := newService()

	m.reactions.On("FindByID", mock.Anything, int64(5)).
		Return(domain.ReactionReview{ID: 5, ReviewID: 1, UserID: "u-1"}, nil)
	m.reactions.On("Delete", mock.Anything, int64(5)).Return(nil)

	err := svc.DeleteReaction(context.Background(), 5, caller)

	require.NoError(t, err)
	m.reactions.AssertExpectations(t)
}
