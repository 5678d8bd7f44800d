// Package review exposes the reviews service over HTTP, including the merged
// representation that folds in user and product data from the sibling
// services.
package review

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"goshop/internal/api/query"
	"goshop/internal/api/respond"
	"goshop/internal/domain"
	apperror "goshop/internal/errors"
	"goshop/internal/pkg/logger"
	"goshop/internal/pkg/middleware"
	"goshop/internal/pkg/validate"
	"goshop/internal/service/reviewservice"
)

// ReviewService is the contract the handler expects from the layer below.
type ReviewService interface {
	List(ctx context.Context, f domain.ReviewFilter) (domain.Pagination[domain.Review], error)
	ListMerged(ctx context.Context, f domain.ReviewFilter, authToken string) (domain.Pagination[domain.MergedReview], error)
	Get(ctx context.Context, id int64) (domain.Review, error)
	GetMerged(ctx context.Context, id int64, authToken string) (domain.MergedReview, error)
	Create(ctx context.Context, review domain.Review, caller domain.UserAuth, authToken string) (domain.MergedReview, error)
	Update(ctx context.Context, id int64, ch reviewservice.ReviewChanges, caller domain.UserAuth) (domain.Review, error)
	Delete(ctx context.Context, id int64, caller domain.UserAuth) error
	CreateComment(ctx context.Context, reviewID int64, text string, caller domain.UserAuth) (domain.Comment, error)
	UpdateComment(ctx context.Context, id int64, text string, caller domain.UserAuth) (domain.Comment, error)
	DeleteComment(ctx context.Context, id int64, caller domain.UserAuth) error
	CreateReaction(ctx context.Context, reviewID int64, reaction domain.Reaction, caller domain.UserAuth) (domain.ReactionReview, error)
	DeleteReaction(ctx context.Context, id int64, caller domain.UserAuth) error
}

type Handler struct {
	Service ReviewService
	Logger  logger.Logger
}

func NewHandler(svc ReviewService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

func reviewID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, apperror.NewValidationError("id must be an integer")
	}
	return id, nil
}

// mergeRequested reads the merge flag; enrichment is the default.
func mergeRequested(r *http.Request) bool {
	if b := query.Bool(r, "merge"); b != nil {
		return *b
	}
	return true
}

// authToken is the header forwarded to the sibling services. The auth
// middleware captures it on authenticated routes; public reads fall back to
// the raw header, which may be empty.
func authToken(r *http.Request) string {
	if tok := middleware.BearerTokenFromContext(r.Context()); tok != "" {
		return tok
	}
	return r.Header.Get("Authorization")
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sortBy, orderBy := query.Sort(r)
	f := domain.ReviewFilter{
		ProductID:  r.URL.Query().Get("productId"),
		UserID:     r.URL.Query().Get("userId"),
		ShowOnMain: query.Bool(r, "showOnMain"),
		SortBy:     sortBy,
		OrderBy:    orderBy,
		Offset:     query.Int(r, "offset", 0),
		Limit:      query.Int(r, "limit", 0),
	}

	if mergeRequested(r) {
		page, err := h.Service.ListMerged(r.Context(), f, authToken(r))
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, page)
		return
	}

	page, err := h.Service.List(r.Context(), f)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, page)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := reviewID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	if mergeRequested(r) {
		merged, err := h.Service.GetMerged(r.Context(), id, authToken(r))
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, merged)
		return
	}

	review, err := h.Service.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, review)
}

type createReviewRequest struct {
	ProductID  string `json:"productId" validate:"required"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Text       string `json:"text" validate:"required"`
	Images     string `json:"images"`
	ShowOnMain bool   `json:"showOnMain"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserAuthFromContext(r.Context())
	if !ok {
		respond.Error(w, apperror.NewUnauthorizedError("authentication required"))
		return
	}

	var req createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperror.NewValidationError("invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		respond.Error(w, err)
		return
	}

	created, err := h.Service.Create(r.Context(), domain.Review{
		ProductID:  req.ProductID,
		Rating:     req.Rating,
		Text:       req.Text,
		Images:     req.Images,
		ShowOnMain: req.ShowOnMain,
	}, caller, authToken(r))
	if err != nil {
		respond.Error(w, err)
		return
	}
	h.Logger.Info("review created", map[string]interface{}{
		"review_id":  created.ID,
		"product_id": req.ProductID,
	})
	respond.JSON(w, http.StatusCreated, created)
}

// updateReviewRequest has no product field: a review keeps its product for
// life, and a productId in the payload is simply ignored by decoding.
type updateReviewRequest struct {
	Rating     *int    `json:"rating"`
	Text       *string `json:"text"`
	Images     *string `json:"images"`
	ShowOnMain *bool   `json:"showOnMain"`
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserAuthFromContext(r.Context())
	if !ok {
		respond.Error(w, apperror.NewUnauthorizedError("authentication required"))
		return
	}
	id, err := reviewID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	var req updateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperror.NewValidationError("invalid request body"))
		return
	}

	updated, err := h.Service.Update(r.Context(), id, reviewservice.ReviewChanges{
		Rating:     req.Rating,
		Text:       req.Text,
		Images:     req.Images,
		ShowOnMain: req.ShowOnMain,
	}, caller)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserAuthFromContext(r.Context())
	if !ok {
		respond.Error(w, apperror.NewUnauthorizedError("authentication required"))
		return
	}
	id, err := reviewID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}
	if err := h.Service.Delete(r.Context(), id, caller); err != nil {
		respond.Error(w, err)
		return
	}
	respond.NoContent(w)
}

type commentRequest struct {
	Text string `json:"text" validate:"required"`
}

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserAuthFromContext(r.Context())
	if !ok {
		respond.Error(w, apperror.NewUnauthorizedError("authentication required"))
		return
	}
	id, err := reviewID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperror.NewValidationError("invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		respond.Error(w, err)
		return
	}

	created, err := h.Service.CreateComment(r.Context(), id, req.Text, caller)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserAuthFromContext(r.Context())
	if !ok {
		respond.Error(w, apperror.NewUnauthorizedError("authentication required"))
		return
	}
	id, err := reviewID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperror.NewValidationError("invalid request body"))
		return
	}

	updated, err := h.Service.UpdateComment(r.Context(), id, req.Text, caller)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserAuthFromContext(r.Context())
	if !ok {
		respond.Error(w, apperror.NewUnauthorizedError("authentication required"))
		return
	}
	id, err := reviewID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}
	if err := h.Service.DeleteComment(r.Context(), id, caller); err != nil {
		respond.Error(w, err)
		return
	}
	respond.NoContent(w)
}

type reactionRequest struct {
	Reaction domain.Reaction `json:"reaction" validate:"required"`
}

func (h *Handler) CreateReaction(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserAuthFromContext(r.Context())
	if !ok {
		respond.Error(w, apperror.NewUnauthorizedError("authentication required"))
		return
	}
	id, err := reviewID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	var req reactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperror.NewValidationError("invalid request body"))
		return
	}

	created, err := h.Service.CreateReaction(r.Context(), id, req.Reaction, caller)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

func (h *Handler) DeleteReaction(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserAuthFromContext(r.Context())
	if !ok {
		respond.Error(w, apperror.NewUnauthorizedError("authentication required"))
		return
	}
	id, err := reviewID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}
	if err := h.Service.DeleteReaction(r.Context(), id, caller); err != nil {
		respond.Error(w, err)
		return
	}
	respond.NoContent(w)
}
