// Package user exposes registration, login and profile reads for the users
// service.
package user

import (
	"context"
	"encoding/json"
	"net/http"

	"goshop/internal/api/respond"
	"goshop/internal/domain"
	apperror "goshop/internal/errors"
	"goshop/internal/pkg/logger"
	"goshop/internal/pkg/middleware"
	"goshop/internal/pkg/validate"
	"goshop/internal/service/userservice"
)

type UserService interface {
	Register(ctx context.Context, firstName, lastName, email, password string) (domain.UserProfile, error)
	Login(ctx context.Context, email, password string) (string, error)
	GetProfile(ctx context.Context, id string, caller domain.UserAuth) (domain.UserProfile, error)
	UpdateProfile(ctx context.Context, id string, caller domain.UserAuth, ch userservice.ProfileChanges) (domain.UserProfile, error)
}

type Handler struct {
	Service UserService
	Logger  logger.Logger
}

func NewHandler(svc UserService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

type registerRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperror.NewValidationError("invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		respond.Error(w, err)
		return
	}

	profile, err := h.Service.Register(r.Context(), req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		respond.Error(w, err)
		return
	}
	h.Logger.Info("user registered", map[string]interface{}{"user_id": profile.ID})
	respond.JSON(w, http.StatusCreated, profile)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperror.NewValidationError("invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		respond.Error(w, err)
		return
	}

	token, err := h.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, loginResponse{Token: token})
}

type updateProfileRequest struct {
	FirstName  *string `json:"firstName"`
	LastName   *string `json:"lastName"`
	IsVerified *bool   `json:"isVerified"`
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserAuthFromContext(r.Context())
	if !ok {
		respond.Error(w, apperror.NewUnauthorizedError("authentication required"))
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperror.NewValidationError("invalid request body"))
		return
	}

	profile, err := h.Service.UpdateProfile(r.Context(), r.PathValue("id"), caller, userservice.ProfileChanges{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		IsVerified: req.IsVerified,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}
	h.Logger.Info("profile updated", map[string]interface{}{"user_id": profile.ID})
	respond.JSON(w, http.StatusOK, profile)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserAuthFromContext(r.Context())
	if !ok {
		respond.Error(w, apperror.NewUnauthorizedError("authentication required"))
		return
	}

	profile, err := h.Service.GetProfile(r.Context(), r.PathValue("id"), caller)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, profile)
}
