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

type AddressService interface {
	List(ctx context.Context, f domain.AddressFilter, caller domain.UserAuth) (domain.Pagination[domain.Address], error)
	GetByID(ctx context.Context, id string, caller domain.UserAuth) (domain.Address, error)
	Create(ctx context.Context, address domain.Address, caller domain.UserAuth) (domain.Address, error)
	Update(ctx context.Context, id string, ch orderservice.AddressChanges, caller domain.UserAuth) (domain.Address, error)
	Delete(ctx context.Context, id string, caller domain.UserAuth) error
}

type AddressHandler struct {
	Service AddressService
	Logger  logger.Logger
}

func NewAddressHandler(svc AddressService, log logger.Logger) *AddressHandler {
	return &AddressHandler{Service: svc, Logger: log}
}

func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(w, r)
	if !ok {
		return
	}

	sortBy, orderBy := query.Sort(r)
	f := domain.AddressFilter{
		UserID:        r.URL.Query().Get("userId"),
		ReceiverName:  r.URL.Query().Get("receiverName"),
		ReceiverPhone: r.URL.Query().Get("receiverPhone"),
		SortBy:        sortBy,
		OrderBy:       orderBy,
		Offset:        query.Int(r, "offset", 0),
		Limit:         query.Int(r, "limit", 0),
	}

	page, err := h.Service.List(r.Context(), f, caller)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, page)
}

func (h *AddressHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(w, r)
	if !ok {
		return
	}

	address, err := h.Service.GetByID(r.Context(), r.PathValue("id"), caller)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, address)
}

type createAddressRequest struct {
	ReceiverName  string `json:"receiverName" validate:"required"`
	ReceiverPhone string `json:"receiverPhone" validate:"required"`
	Address       string `json:"address" validate:"required"`
	RoomOrOffice  string `json:"roomOrOffice"`
	Door          string `json:"door"`
	Floor         string `json:"floor"`
	RingBell      string `json:"ringBell"`
	ZipCode       string `json:"zipCode"`
}

func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(w, r)
	if !ok {
		return
	}

	var req createAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperror.NewValidationError("invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		respond.Error(w, err)
		return
	}

	created, err := h.Service.Create(r.Context(), domain.Address{
		ReceiverName:  req.ReceiverName,
		ReceiverPhone: req.ReceiverPhone,
		Address:       req.Address,
		RoomOrOffice:  req.RoomOrOffice,
		Door:          req.Door,
		Floor:         req.Floor,
		RingBell:      req.RingBell,
		ZipCode:       req.ZipCode,
	}, caller)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

type updateAddressRequest struct {
	ReceiverName  *string `json:"receiverName"`
	ReceiverPhone *string `json:"receiverPhone"`
	Address       *string `json:"address"`
	RoomOrOffice  *string `json:"roomOrOffice"`
	Door          *string `json:"door"`
	Floor         *string `json:"floor"`
	RingBell      *string `json:"ringBell"`
	ZipCode       *string `json:"zipCode"`
}

func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(w, r)
	if !ok {
		return
	}

	var req updateAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperror.NewValidationError("invalid request body"))
		return
	}

	updated, err := h.Service.Update(r.Context(), r.PathValue("id"), orderservice.AddressChanges{
		ReceiverName:  req.ReceiverName,
		ReceiverPhone: req.ReceiverPhone,
		Address:       req.Address,
		RoomOrOffice:  req.RoomOrOffice,
		Door:          req.Door,
		Floor:         req.Floor,
		RingBell:      req.RingBell,
		ZipCode:       req.ZipCode,
	}, caller)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
