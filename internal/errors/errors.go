package errors

import (
	"fmt"
	"net/http"
)

// AppError is the central interface for all typed goshop errors. Handlers use it
// to translate service failures into HTTP responses without inspecting messages.
type AppError interface {
	Error() string
	Category() string
	HTTPStatus() int
	Unwrap() error
}

// ValidationError covers malformed or incomplete input payloads.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string    { return fmt.Sprintf("validation failed: %s", e.Msg) }
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) HTTPStatus() int  { return http.StatusBadRequest }
func (e *ValidationError) Unwrap() error    { return nil }

func NewValidationError(msg string) AppError {
	return &ValidationError{Msg: msg}
}

// NotFoundError covers a lookup miss on an entity id or url.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string    { return fmt.Sprintf("entity not found: %s", e.Msg) }
func (e *NotFoundError) Category() string { return "ENTITY_NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound }
func (e *NotFoundError) Unwrap() error    { return nil }

func NewNotFoundError(msg string) AppError {
	return &NotFoundError{Msg: msg}
}

// ProductNotFoundError is raised when a review references a product the catalog
// service does not know. Kept distinct from NotFoundError so clients can tell a
// missing review from a missing product.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found in catalog", e.ProductID)
}
func (e *ProductNotFoundError) Category() string { return "PRODUCT_NOT_FOUND" }
func (e *ProductNotFoundError) HTTPStatus() int  { return http.StatusNotFound }
func (e *ProductNotFoundError) Unwrap() error    { return nil }

func NewProductNotFoundError(productID string) AppError {
	return &ProductNotFoundError{ProductID: productID}
}

// UnauthorizedError covers missing or invalid credentials.
type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string    { return fmt.Sprintf("unauthorized: %s", e.Msg) }
func (e *UnauthorizedError) Category() string { return "UNAUTHORIZED" }
func (e *UnauthorizedError) HTTPStatus() int  { return http.StatusUnauthorized }
func (e *UnauthorizedError) Unwrap() error    { return nil }

func NewUnauthorizedError(msg string) AppError {
	return &UnauthorizedError{Msg: msg}
}

// ForbiddenError covers ownership failures and 403s propagated from the users service.
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string    { return fmt.Sprintf("forbidden: %s", e.Msg) }
func (e *ForbiddenError) Category() string { return "FORBIDDEN" }
func (e *ForbiddenError) HTTPStatus() int  { return http.StatusForbidden }
func (e *ForbiddenError) Unwrap() error    { return nil }

func NewForbiddenError(msg string) AppError {
	return &ForbiddenError{Msg: msg}
}

// ConflictError covers business-rule conflicts such as a duplicate email.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string    { return fmt.Sprintf("conflict: %s", e.Msg) }
func (e *ConflictError) Category() string { return "CONFLICT" }
func (e *ConflictError) HTTPStatus() int  { return http.StatusConflict }
func (e *ConflictError) Unwrap() error    { return nil }

func NewConflictError(msg string) AppError {
	return &ConflictError{Msg: msg}
}

// InternalError wraps unexpected failures from infrastructure (SQL driver, redis,
// sibling-service transport). The underlying error stays reachable via Unwrap.
type InternalError struct {
	Msg string
	Err error
}

func (e *InternalError) Error() string    { return fmt.Sprintf("internal error: %s", e.Msg) }
func (e *InternalError) Category() string { return "INTERNAL_ERROR" }
func (e *InternalError) HTTPStatus() int  { return http.StatusInternalServerError }
func (e *InternalError) Unwrap() error    { return e.Err }

func NewInternalError(msg string, err error) AppError {
	return &InternalError{Msg: msg, Err: err}
}

// NewDBError is a shortcut for InternalErrors originating in the database layer.
func NewDBError(msg string, err error) AppError {
	return &InternalError{Msg: msg + " (DB)", Err: err}
}

// MapToHTTPStatus translates any error into the status, category and message used
// by the standard JSON error body.
func MapToHTTPStatus(err error) (int, string, string) {
	if appErr, ok := err.(AppError); ok {
		return appErr.HTTPStatus(), appErr.Category(), appErr.Error()
	}
	return http.StatusInternalServerError, "UNKNOWN_ERROR", "an unexpected error occurred"
}
