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

type CategoryService interface {
	List(ctx context.Context, f domain.CategoryFilter) (domain.Pagination[domain.Category], error)
	Tree(ctx context.Context) ([]domain.Category, error)
	GetByID(ctx context.Context, id string) (domain.Category, error)
	Create(ctx context.Context, category domain.Category) (domain.Category, error)
	Update(ctx context.Context, id string, ch catalogservice.CategoryChanges) (domain.Category, error)
	Delete(ctx context.Context, id string) error
}

type CategoryHandler struct {
	Service CategoryService
	Logger  logger.Logger
}

func NewCategoryHandler(svc CategoryService, log logger.Logger) *CategoryHandler {
	return &CategoryHandler{Service: svc, Logger: log}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	sortBy, orderBy := query.Sort(r)
	f := domain.CategoryFilter{
		Name:     r.URL.Query().Get("name"),
		URL:      r.URL.Query().Get("url"),
		ParentID: r.URL.Query().Get("parentId"),
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

func (h *CategoryHandler) Tree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.Service.Tree(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	if tree == nil {
		tree = []domain.Category{}
	}
	respond.JSON(w, http.StatusOK, tree)
}

func (h *CategoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	category, err := h.Service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, category)
}

type createCategoryRequest struct {
	Name       string   `json:"name" validate:"required"`
	URL        string   `json:"url" validate:"required"`
	ParentID   *string  `json:"parentId"`
	Parameters []string `json:"parameters"`
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperror.NewValidationError("invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		respond.Error(w, err)
		return
	}

	category := domain.Category{
		Name:       req.Name,
		URL:        req.URL,
		ParentID:   req.ParentID,
		Parameters: parametersByID(req.Parameters),
	}

	created, err := h.Service.Create(r.Context(), category)
	if err != nil {
		respond.Error(w, err)
		return
	}
	h.Logger.Info("category created", map[string]interface{}{"category_id": created.ID})
	respond.JSON(w, http.StatusCreated, created)
}

// updateCategoryRequest: a missing parentId keeps the current parent, an empty
// string detaches the category from it.
type updateCategoryRequest struct {
	Name       *string  `json:"name"`
	URL        *string  `json:"url"`
	ParentID   *string  `json:"parentId"`
	Parameters []string `json:"parameters"`
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperror.NewValidationError("invalid request body"))
		return
	}

	ch := catalogservice.CategoryChanges{
		Name:     req.Name,
		URL:      req.URL,
		ParentID: req.ParentID,
	}
	if req.Parameters != nil {
		ch.Parameters = parametersByID(req.Parameters)
	}

	updated, err := h.Service.Update(r.Context(), r.PathValue("id"), ch)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), r.PathValue("id")); err != nil {
		respond.Error(w, err)
		return
	}
	respond.NoContent(w)
}

func parametersByID(ids []string) []domain.Parameter {
	params := make([]domain.Parameter, len(ids))
	for i, id := range ids {
		params[i] = domain.Parameter{ID: id}
	}
	return params
}
