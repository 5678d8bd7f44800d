package domain

import (
	"time"

	apperror "goshop/internal/errors"
)

// Role enumerates user roles.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is the account entity owned by the users service.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsVerified   bool      `json:"isVerified"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserProfile is the public projection of a User, served by GET /users/{id}
// and embedded into merged reviews.
type UserProfile struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Profile strips credentials and account state from a User.
func (u User) Profile() UserProfile {
	return UserProfile{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

// UserAuth is the authenticated caller identity extracted from a JWT.
type UserAuth struct {
	ID   string
	Role Role
}

// IsAdmin reports whether the caller holds the admin role.
func (u UserAuth) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsOwnerOrAdmin enforces the ownership rule: a resource may be mutated only by
// the user it belongs to, or by an admin. Pure, no side effects.
func IsOwnerOrAdmin(resourceUserID string, caller UserAuth) error {
	if resourceUserID == caller.ID || caller.Role == RoleAdmin {
		return nil
	}
	return apperror.NewForbiddenError("caller is neither the resource owner nor an admin")
}
