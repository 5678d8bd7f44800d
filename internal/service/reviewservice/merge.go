package reviewservice

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"goshop/internal/client/usersclient"
	"goshop/internal/domain"
	apperror "goshop/internal/errors"
)

// mergeWorkers bounds concurrent remote lookups per merge call.
const mergeWorkers = 8

// merge enriches reviews with user and product data from the sibling
// services. Not-found and unavailable lookups degrade the field to the raw id
// string; a 403 from the users service means the caller's token was rejected
// and fails the whole request. Each distinct id is fetched at most once.
func (s *Service) merge(ctx context.Context, reviews []domain.Review, authToken string) ([]domain.MergedReview, error) {
	users := newLookupCache[*domain.UserProfile]()
	products := newLookupCache[*domain.RemoteProduct]()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(mergeWorkers)

	merged := make([]domain.MergedReview, len(reviews))
	for i := range reviews {
		review := reviews[i]
		g.Go(func() error {
			m, err := s.mergeOne(gctx, review, authToken, users, products)
			if err != nil {
				return err
			}
			merged[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return merged, nil
}

func (s *Service) mergeOne(ctx context.Context, review domain.Review, authToken string,
	users *lookupCache[*domain.UserProfile], products *lookupCache[*domain.RemoteProduct]) (domain.MergedReview, error) {

	m := domain.MergedReview{
		ID:         review.ID,
		Rating:     review.Rating,
		Text:       review.Text,
		Images:     review.Images,
		ShowOnMain: review.ShowOnMain,
		Reactions:  review.Reactions,
		CreatedAt:  review.CreatedAt,
		UpdatedAt:  review.UpdatedAt,
	}

	product, err := products.get(review.ProductID, func() (*domain.RemoteProduct, error) {
		return s.products.ProductByID(ctx, review.ProductID)
	})
	if err != nil {
		m.Product = review.ProductID
	} else {
		m.Product = product
	}

	if m.User, err = s.resolveUser(ctx, review.UserID, authToken, users); err != nil {
		return domain.MergedReview{}, err
	}

	m.Comments = make([]domain.MergedComment, len(review.Comments))
	for i, comment := range review.Comments {
		user, err := s.resolveUser(ctx, comment.UserID, authToken, users)
		if err != nil {
			return domain.MergedReview{}, err
		}
		m.Comments[i] = domain.MergedComment{Comment: comment, User: user}
	}
	return m, nil
}

// resolveUser returns the profile when the lookup succeeds and the raw id when
// the user is unknown or the users service is down. A 403 is an error: the
// users service rejected the caller's token.
func (s *Service) resolveUser(ctx context.Context, userID, authToken string, users *lookupCache[*domain.UserProfile]) (interface{}, error) {
	profile, err := users.get(userID, func() (*domain.UserProfile, error) {
		return s.users.UserByID(ctx, userID, authToken)
	})
	if errors.Is(err, usersclient.ErrForbidden) {
		return nil, apperror.NewForbiddenError("users service rejected the caller's token")
	}
	if err != nil {
		return userID, nil
	}
	return profile, nil
}

// lookupCache memoizes remote lookups within one merge call, including
// failures, so a dead sibling service costs one request per distinct id.
type lookupCache[T any] struct {
	mu      sync.Mutex
	entries map[string]lookupResult[T]
}

type lookupResult[T any] struct {
	val T
	err error
}

func newLookupCache[T any]() *lookupCache[T] {
	return &lookupCache[T]{entries: make(map[string]lookupResult[T])}
}

func (c *lookupCache[T]) get(key string, fetch func() (T, error)) (T, error) {
	c.mu.Lock()
	if res, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return res.val, res.err
	}
	c.mu.Unlock()

	val, err := fetch()

	c.mu.Lock()
	c.entries[key] = lookupResult[T]{val: val, err: err}
	c.mu.Unlock()
	return val, err
}
