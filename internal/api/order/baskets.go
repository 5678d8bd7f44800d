// Package order exposes baskets, addresses and checkouts over HTTP. All
// routes require an authenticated caller; ownership is enforced in the
// service layer.
package order

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"goshop/internal/api/query"
	"goshop/internal/api/respond"
	"goshop/internal/domain"
	apperror "goshop/internal/errors"
	"goshop/internal/pkg/logger"
	"goshop/internal/pkg/middleware"
	"goshop/internal/pkg/validate"
	"goshop/internal/service/orderservice"
)

type BasketService interface {
	List(ctx context.Context, f domain.BasketFilter, caller domain.UserAuth) (domain.Pagination[domain.Basket], error)
	GetByID(ctx context.Context, id string, caller domain.UserAuth) (domain.Basket, error)
	Create(ctx context.Context, items []domain.OrderProduct, caller domain.UserAuth) (domain.Basket, error)
	Update(ctx context.Context, id string, ch orderservice.BasketChanges, caller domain.UserAuth) (domain.Basket, error)
	Delete(ctx context.Context, id string, caller domain.UserAuth) error
}

type BasketHandler struct {
	Service BasketService
	Logger  logger.Logger
}

func NewBasketHandler(svc BasketService, log logger.Logger) *BasketHandler {
	return &BasketHandler{Service: svc, Logger: log}
}

func callerFromContext(w http.ResponseWriter, r *http.Request) (domain.UserAuth, bool) {
	caller, ok := middleware.UserAuthFromContext(r.Context())
	if !ok {
		respond.Error(w, apperror.NewUnauthorizedError("authentication required"))
	}
	return caller, ok
}

func (h *BasketHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(w, r)
	if !ok {
		return
	}

	sortBy, orderBy := query.Sort(r)
	f := domain.BasketFilter{
		UserID:      r.URL.Query().Get("userId"),
		Status:      domain.BasketStatus(r.URL.Query().Get("status")),
		MinTotal:    query.Decimal(r, "minTotal"),
		MaxTotal:    query.Decimal(r, "maxTotal"),
		UpdatedFrom: query.Time(r, "updatedFrom"),
		UpdatedTo:   query.Time(r, "updatedTo"),
		SortBy:      sortBy,
		OrderBy:     orderBy,
		Offset:      query.Int(r, "offset", 0),
		Limit:       query.Int(r, "limit", 0),
	}

	page, err := h.Service.List(r.Context(), f, caller)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, page)
}

func (h *BasketHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(w, r)
	if !ok {
		return
	}

	basket, err := h.Service.GetByID(r.Context(), r.PathValue("id"), caller)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, basket)
}

type basketItemRequest struct {
	ProductID        string          `json:"productId" validate:"required"`
	ProductVariantID string          `json:"productVariantId"`
	Qty              int             `json:"qty" validate:"required,min=1"`
	ProductPrice     decimal.Decimal `json:"productPrice" validate:"required"`
}

type createBasketRequest struct {
	Items []basketItemRequest `json:"orderProducts" validate:"required,min=1,dive"`
}

func (h *BasketHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(w, r)
	if !ok {
		return
	}

	var req createBasketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperror.NewValidationError("invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		respond.Error(w, err)
		return
	}

	created, err := h.Service.Create(r.Context(), itemsFromRequest(req.Items), caller)
	if err != nil {
		respond.Error(w, err)
		return
	}
	h.Logger.Info("basket created", map[string]interface{}{"basket_id": created.ID})
	respond.JSON(w, http.StatusCreated, created)
}

type updateBasketRequest struct {
	Status *domain.BasketStatus `json:"status"`
	Items  []basketItemRequest  `json:"orderProducts"`
}

func (h *BasketHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(w, r)
	if !ok {
		return
	}

	var req updateBasketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperror.NewValidationError("invalid request body"))
		return
	}

	ch := orderservice.BasketChanges{Status: req.Status}
	if req.Items != nil {
		ch.Items = itemsFromRequest(req.Items)
	}

	updated, err := h.Service.Update(r.Context(), r.PathValue("id"), ch, caller)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

func (h *BasketHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

func itemsFromRequest(reqs []basketItemRequest) []domain.OrderProduct {
	items := make([]domain.OrderProduct, len(reqs))
	for i, item := range reqs {
		items[i] = domain.OrderProduct{
			ProductID:        item.ProductID,
			ProductVariantID: item.ProductVariantID,
			Qty:              item.Qty,
			ProductPrice:     item.ProductPrice,
		}
	}
	return items
}
