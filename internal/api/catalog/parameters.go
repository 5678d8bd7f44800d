package catalog

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
)

type ParameterService interface {
	List(ctx context.Context, f domain.ParameterFilter) (domain.Pagination[domain.Parameter], error)
	GetByID(ctx context.Context, id string) (domain.Parameter, error)
	Create(ctx context.Context, parameter domain.Parameter) (domain.Parameter, error)
	Update(ctx context.Context, id string, name string) (domain.Parameter, error)
	Delete(ctx context.Context, id string) error
}

type ParameterHandler struct {
	Service ParameterService
	Logger  logger.Logger
}

func NewParameterHandler(svc ParameterService, log logger.Logger) *ParameterHandler {
	return &ParameterHandler{Service: svc, Logger: log}
}

func (h *ParameterHandler) List(w http.ResponseWriter, r *http.Request) {
	sortBy, orderBy := query.Sort(r)
	f := domain.ParameterFilter{
		Name:       r.URL.Query().Get("name"),
		Categories: query.CSV(r, "categories"),
		SortBy:     sortBy,
		OrderBy:    orderBy,
		Offset:     query.Int(r, "offset", 0),
		Limit:      query.Int(r, "limit", 0),
	}

	page, err := h.Service.List(r.Context(), f)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, page)
}

func (h *ParameterHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	parameter, err := h.Service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, parameter)
}

type parameterRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *ParameterHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req parameterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperror.NewValidationError("invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		respond.Error(w, err)
		return
	}

	created, err := h.Service.Create(r.Context(), domain.Parameter{Name: req.Name})
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

func (h *ParameterHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req parameterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperror.NewValidationError("invalid request body"))
		return
	}

	updated, err := h.Service.Update(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

func (h *ParameterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), r.PathValue("id")); err != nil {
		respond.Error(w, err)
		return
	}
	respond.NoContent(w)
}
