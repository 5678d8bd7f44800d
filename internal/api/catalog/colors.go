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
	"goshop/internal/service/catalogservice"
)

type ColorService interface {
	List(ctx context.Context, f domain.ColorFilter) (domain.Pagination[domain.Color], error)
	GetByID(ctx context.Context, id string) (domain.Color, error)
	Create(ctx context.Context, color domain.Color) (domain.Color, error)
	Update(ctx context.Context, id string, ch catalogservice.ColorChanges) (domain.Color, error)
	Delete(ctx context.Context, id string) error
}

type ColorHandler struct {
	Service ColorService
	Logger  logger.Logger
}

func NewColorHandler(svc ColorService, log logger.Logger) *ColorHandler {
	return &ColorHandler{Service: svc, Logger: log}
}

func (h *ColorHandler) List(w http.ResponseWriter, r *http.Request) {
	sortBy, orderBy := query.Sort(r)
	f := domain.ColorFilter{
		Name:     r.URL.Query().Get("name"),
		URL:      r.URL.Query().Get("url"),
		Code:     r.URL.Query().Get("code"),
		Products: query.CSV(r, "products"),
		SortBy:   sortBy,
		OrderBy:  orderBy,
		Offset:   query.Int(r, "offset", 0),
		Limit:    query.Int(r, "limit", 0),
	}

	page, err := h.Service.List(r.Context(), f)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, page)
}

func (h *ColorHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	color, err := h.Service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, color)
}

type createColorRequest struct {
	Name string `json:"name" validate:"required"`
	URL  string `json:"url" validate:"required"`
	Code string `json:"code"`
}

func (h *ColorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createColorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperror.NewValidationError("invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		respond.Error(w, err)
		return
	}

	created, err := h.Service.Create(r.Context(), domain.Color{Name: req.Name, URL: req.URL, Code: req.Code})
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

type updateColorRequest struct {
	Name *string `json:"name"`
	URL  *string `json:"url"`
	Code *string `json:"code"`
}

func (h *ColorHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateColorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperror.NewValidationError("invalid request body"))
		return
	}

	updated, err := h.Service.Update(r.Context(), r.PathValue("id"),
		catalogservice.ColorChanges{Name: req.Name, URL: req.URL, Code: req.Code})
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

func (h *ColorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), r.PathValue("id")); err != nil {
		respond.Error(w, err)
		return
	}
	respond.NoContent(w)
}
