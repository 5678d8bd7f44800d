package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"goshop/internal/domain"
	apperror "goshop/internal/errors"
	"goshop/internal/pkg/token"
)

// ContextKey is a private key type so auth values cannot collide with other
// context entries.
type ContextKey int

const (
	userAuthKey ContextKey = iota
	bearerTokenKey
)

// TokenValidator is the contract the middleware needs from the token layer.
type TokenValidator interface {
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

func writeAuthError(w http.ResponseWriter, err apperror.AppError) {
	status, category, message := apperror.MapToHTTPStatus(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"code":     status,
		"category": category,
		"message":  message,
	})
}

// NewAuthMiddleware validates the bearer token and attaches the caller's
// identity and raw token to the request context.
func NewAuthMiddleware(tokenSvc TokenValidator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeAuthError(w, apperror.NewUnauthorizedError("missing or malformed Authorization header"))
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := tokenSvc.ValidateToken(tokenString)
			if err != nil {
				writeAuthError(w, apperror.NewUnauthorizedError("invalid or expired token"))
				return
			}

			auth := domain.UserAuth{
				ID:   claims.UserID,
				Role: domain.Role(claims.Role),
			}

			ctx := context.WithValue(r.Context(), userAuthKey, auth)
			ctx = context.WithValue(ctx, bearerTokenKey, authHeader)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route to callers holding one of the given roles. Must run
// after NewAuthMiddleware.
func RequireRole(roles ...domain.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth, ok := UserAuthFromContext(r.Context())
			if !ok {
				writeAuthError(w, apperror.NewUnauthorizedError("authorization required"))
				return
			}

			for _, role := range roles {
				if auth.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeAuthError(w, apperror.NewForbiddenError("caller role does not permit this operation"))
		})
	}
}

// UserAuthFromContext extracts the authenticated caller set by the auth
// middleware.
func UserAuthFromContext(ctx context.Context) (domain.UserAuth, bool) {
	auth, ok := ctx.Value(userAuthKey).(domain.UserAuth)
	return auth, ok
}

// BearerTokenFromContext returns the raw Authorization header value, forwarded
// to sibling services during review enrichment.
func BearerTokenFromContext(ctx context.Context) string {
	tok, _ := ctx.Value(bearerTokenKey).(string)
	return tok
}
