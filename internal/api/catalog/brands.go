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

type BrandService interface {
	List(ctx context.Context, f domain.BrandFilter) (domain.Pagination[domain.Brand], error)
	GetByID(ctx context.Context, id string) (domain.Brand, error)
	Create(ctx context.Context, brand domain.Brand) (domain.Brand, error)
	Update(ctx context.Context, id string, ch catalogservice.BrandChanges) (domain.Brand, error)
	Delete(ctx context.Context, id string) error
}

type BrandHandler struct {
	Service BrandService
	Logger  logger.Logger
}

func NewBrandHandler(svc BrandService, log logger.Logger) *BrandHandler {
	return &BrandHandler{Service: svc, Logger: log}
}

func (h *BrandHandler) List(w http.ResponseWriter, r *http.Request) {
	sortBy, orderBy := query.Sort(r)
	f := domain.BrandFilter{
		Name:       r.URL.Query().Get("name"),
		ShowOnMain: query.Bool(r, "showOnMain"),
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

func (h *BrandHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	brand, err := h.Service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, brand)
}

type createBrandRequest struct {
	Name       string `json:"name" validate:"required"`
	URL        string `json:"url" validate:"required"`
	ShowOnMain bool   `json:"showOnMain"`
}

func (h *BrandHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBrandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperror.NewValidationError("invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		respond.Error(w, err)
		return
	}

	created, err := h.Service.Create(r.Context(), domain.Brand{
		Name:       req.Name,
		URL:        req.URL,
		ShowOnMain: req.ShowOnMain,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

type updateBrandRequest struct {
	Name       *string `json:"name"`
	URL        *string `json:"url"`
	ShowOnMain *bool   `json:"showOnMain"`
}

func (h *BrandHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateBrandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperror.NewValidationError("invalid request body"))
		return
	}

	updated, err := h.Service.Update(r.Context(), r.PathValue("id"),
		catalogservice.BrandChanges{Name: req.Name, URL: req.URL, ShowOnMain: req.ShowOnMain})
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

func (h *BrandHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), r.PathValue("id")); err != nil {
		respond.Error(w, err)
		return
	}
	respond.NoContent(w)
}
