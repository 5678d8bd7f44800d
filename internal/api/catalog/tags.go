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

type TagService interface {
	List(ctx context.Context, f domain.TagFilter) (domain.Pagination[domain.Tag], error)
	GetByID(ctx context.Context, id string) (domain.Tag, error)
	Create(ctx context.Context, tag domain.Tag) (domain.Tag, error)
	Update(ctx context.Context, id string, ch catalogservice.TagChanges) (domain.Tag, error)
	Delete(ctx context.Context, id string) error
}

type TagHandler struct {
	Service TagService
	Logger  logger.Logger
}

func NewTagHandler(svc TagService, log logger.Logger) *TagHandler {
	return &TagHandler{Service: svc, Logger: log}
}

func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	sortBy, orderBy := query.Sort(r)
	f := domain.TagFilter{
		Name:     r.URL.Query().Get("name"),
		URL:      r.URL.Query().Get("url"),
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

func (h *TagHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	tag, err := h.Service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, tag)
}

type createTagRequest struct {
	Name string `json:"name" validate:"required"`
	URL  string `json:"url" validate:"required"`
}

func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperror.NewValidationError("invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		respond.Error(w, err)
		return
	}

	created, err := h.Service.Create(r.Context(), domain.Tag{Name: req.Name, URL: req.URL})
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

type updateTagRequest struct {
	Name *string `json:"name"`
	URL  *string `json:"url"`
}

func (h *TagHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperror.NewValidationError("invalid request body"))
		return
	}

	updated, err := h.Service.Update(r.Context(), r.PathValue("id"),
		catalogservice.TagChanges{Name: req.Name, URL: req.URL})
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), r.PathValue("id")); err != nil {
		respond.Error(w, err)
		return
	}
	respond.NoContent(w)
}
