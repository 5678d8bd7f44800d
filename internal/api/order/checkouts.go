package order

import (
	"context"
	"encoding/json"
	"net/http"

	"goshop/internal/api/query"
	"goshop/internal/api/respond"
	"goshop/internal/domain"
	apperror "goshop/internal/errors"
	"goshop/internal/pkg/logger"
	"goshop/internal/pkg/validate"
	"goshop/internal/service/orderservice"
)

type CheckoutService interface {
	List(ctx context.Context, f domain.CheckoutFilter, caller domain.UserAuth) (domain.Pagination[domain.Checkout], error)
	GetByID(ctx context.Context, id string, caller domain.UserAuth) (domain.Checkout, error)
	Create(ctx context.Context, checkout domain.Checkout, caller domain.UserAuth) (domain.Checkout, error)
	Update(ctx context.Context, id string, ch orderservice.CheckoutChanges, caller domain.UserAuth) (domain.Checkout, error)
	Delete(ctx context.Context, id string, caller domain.UserAuth) error
}

type CheckoutHandler struct {
	Service CheckoutService
	Logger  logger.Logger
}

func NewCheckoutHandler(svc CheckoutService, log logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{Service: svc, Logger: log}
}

func (h *CheckoutHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(w, r)
	if !ok {
		return
	}

	sortBy, orderBy := query.Sort(r)
	f := domain.CheckoutFilter{
		UserID:    r.URL.Query().Get("userId"),
		AddressID: r.URL.Query().Get("addressId"),
		BasketID:  r.URL.Query().Get("basketId"),
		SortBy:    sortBy,
		OrderBy:   orderBy,
		Offset:    query.Int(r, "offset", 0),
		Limit:     query.Int(r, "limit", 0),
	}

	page, err := h.Service.List(r.Context(), f, caller)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, page)
}

func (h *CheckoutHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(w, r)
	if !ok {
		return
	}

	checkout, err := h.Service.GetByID(r.Context(), r.PathValue("id"), caller)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, checkout)
}

type createCheckoutRequest struct {
	BasketID  string `json:"basketId" validate:"required"`
	AddressID string `json:"addressId" validate:"required"`
	Comment   string `json:"comment"`
}

func (h *CheckoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(w, r)
	if !ok {
		return
	}

	var req createCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperror.NewValidationError("invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		respond.Error(w, err)
		return
	}

	created, err := h.Service.Create(r.Context(), domain.Checkout{
		BasketID:  req.BasketID,
		AddressID: req.AddressID,
		Comment:   req.Comment,
	}, caller)
	if err != nil {
		respond.Error(w, err)
		return
	}
	h.Logger.Info("checkout created", map[string]interface{}{"checkout_id": created.ID})
	respond.JSON(w, http.StatusCreated, created)
}

type updateCheckoutRequest struct {
	AddressID *string `json:"addressId"`
	Comment   *string `json:"comment"`
}

func (h *CheckoutHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(w, r)
	if !ok {
		return
	}

	var req updateCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperror.NewValidationError("invalid request body"))
		return
	}

	updated, err := h.Service.Update(r.Context(), r.PathValue("id"),
		orderservice.CheckoutChanges{AddressID: req.AddressID, Comment: req.Comment}, caller)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

func (h *CheckoutHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(w, r)
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), r.PathValue("id"), caller); err != nil {
		respond.Error(w, err)
		return
	}
	respond.NoContent(w)
}
