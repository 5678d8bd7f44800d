// Package userservice owns account rules: registration with hashed
// credentials, login issuing a signed token and the profile read with its
// self-or-admin restriction.
package userservice

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"goshop/internal/domain"
	apperror "goshop/internal/errors"
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	Save(ctx context.Context, user domain.User) (domain.User, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
}

// TokenIssuer signs an access token for an authenticated user.
type TokenIssuer interface {
	GenerateToken(userID string, userRole string) (string, error)
}

type Service struct {
	repo   UserRepository
	tokens TokenIssuer
}

func NewService(repo UserRepository, tokens TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Register creates a new account with the USER role. Duplicate emails surface
// as a conflict from the repository's unique index.
func (s *Service) Register(ctx context.Context, firstName, lastName, email, password string) (domain.UserProfile, error) {
	if strings.TrimSpace(email) == "" {
		return domain.UserProfile{}, apperror.NewValidationError("email is required")
	}
	if len(password) < 8 {
		return domain.UserProfile{}, apperror.NewValidationError("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserProfile{}, apperror.NewInternalError("failed to hash password", err)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           uuid.New().String(),
		FirstName:    firstName,
		LastName:     lastName,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return domain.UserProfile{}, err
	}
	return saved.Profile(), nil
}

// Login verifies credentials and issues a signed token. Unknown email and
// wrong password produce the same unauthorized answer.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", apperror.NewUnauthorizedError("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", apperror.NewUnauthorizedError("invalid credentials")
	}
	return s.tokens.GenerateToken(user.ID, string(user.Role))
}

// ProfileChanges carries the mutable profile fields; nil keeps the stored
// value.
type ProfileChanges struct {
	FirstName  *string
	LastName   *string
	IsVerified *bool
}

// UpdateProfile edits a user's names; the verification flag is admin-only.
// Non-admin callers may only edit themselves.
func (s *Service) UpdateProfile(ctx context.Context, id string, caller domain.UserAuth, ch ProfileChanges) (domain.UserProfile, error) {
	if !caller.IsAdmin() && caller.ID != id {
		return domain.UserProfile{}, apperror.NewForbiddenError("users may only edit their own profile")
	}
	if ch.IsVerified != nil && !caller.IsAdmin() {
		return domain.UserProfile{}, apperror.NewForbiddenError("only admins may change the verification flag")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.UserProfile{}, err
	}

	if ch.FirstName != nil {
		if strings.TrimSpace(*ch.FirstName) == "" {
			return domain.UserProfile{}, apperror.NewValidationError("first name must not be empty")
		}
		user.FirstName = *ch.FirstName
	}
	if ch.LastName != nil {
		if strings.TrimSpace(*ch.LastName) == "" {
			return domain.UserProfile{}, apperror.NewValidationError("last name must not be empty")
		}
		user.LastName = *ch.LastName
	}
	if ch.IsVerified != nil {
		user.IsVerified = *ch.IsVerified
	}
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return domain.UserProfile{}, err
	}
	return updated.Profile(), nil
}

// GetProfile returns the public projection of a user. Non-admin callers may
// only fetch themselves; this refusal is what the reviews service sees as a
// 403 during enrichment with a bad token.
func (s *Service) GetProfile(ctx context.Context, id string, caller domain.UserAuth) (domain.UserProfile, error) {
	if !caller.IsAdmin() && caller.ID != id {
		return domain.UserProfile{}, apperror.NewForbiddenError("users may only read their own profile")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.UserProfile{}, err
	}
	return user.Profile(), nil
}
