// Package catalog exposes the catalog service over HTTP. Each entity gets its
// own handler over a narrow service interface so tests can mock the layer
// below.
package catalog

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
	"goshop/internal/pkg/validate"
	"goshop/internal/service/catalogservice"
)

// ProductService is the contract the product handler expects.
type ProductService interface {
	List(ctx context.Context, f domain.ProductFilter) (domain.Pagination[domain.Product], error)
	PriceRange(ctx context.Context, f domain.ProductFilter) (domain.PriceRange, error)
	GetByID(ctx context.Context, id string) (domain.Product, error)
	GetByURL(ctx context.Context, url string) (domain.Product, error)
	Create(ctx context.Context, product domain.Product, colorIDs, tagIDs []string) (domain.Product, error)
	Update(ctx context.Context, id string, ch catalogservice.ProductChanges) (domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type ProductHandler struct {
	Service ProductService
	Logger  logger.Logger
}

func NewProductHandler(svc ProductService, log logger.Logger) *ProductHandler {
	return &ProductHandler{Service: svc, Logger: log}
}

func productFilterFromQuery(r *http.Request) domain.ProductFilter {
	sortBy, orderBy := query.Sort(r)
	return domain.ProductFilter{
		Name:       r.URL.Query().Get("name"),
		MinPrice:   query.Decimal(r, "minPrice"),
		MaxPrice:   query.Decimal(r, "maxPrice"),
		Available:  query.Bool(r, "available"),
		Colors:     query.CSV(r, "colors"),
		Categories: query.CSV(r, "categories"),
		Brands:     query.CSV(r, "brands"),
		Tags:       query.CSV(r, "tags"),
		SortBy:     sortBy,
		OrderBy:    orderBy,
		Offset:     query.Int(r, "offset", 0),
		Limit:      query.Int(r, "limit", 0),
	}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.Service.List(r.Context(), productFilterFromQuery(r))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, page)
}

func (h *ProductHandler) PriceRange(w http.ResponseWriter, r *http.Request) {
	pr, err := h.Service.PriceRange(r.Context(), productFilterFromQuery(r))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, pr)
}

// UnderOneThousand lists the products carrying the storefront's
// UnderOneThousand tag, with the usual paging and sorting.
func (h *ProductHandler) UnderOneThousand(w http.ResponseWriter, r *http.Request) {
	f := productFilterFromQuery(r)
	f.Tags = []string{"UnderOneThousand"}

	page, err := h.Service.List(r.Context(), f)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, page)
}

func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	product, err := h.Service.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, product)
}

func (h *ProductHandler) GetByURL(w http.ResponseWriter, r *http.Request) {
	product, err := h.Service.GetByURL(r.Context(), r.PathValue("url"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, product)
}

type variantRequest struct {
	ColorID   string              `json:"colorId" validate:"required"`
	Price     decimal.Decimal     `json:"price" validate:"required"`
	OldPrice  decimal.NullDecimal `json:"oldPrice"`
	Available bool                `json:"available"`
	Images    string              `json:"images"`
}

type parameterValueRequest struct {
	ParameterID string `json:"parameterId" validate:"required"`
	Value       string `json:"value" validate:"required"`
}

type createProductRequest struct {
	Name       string                  `json:"name" validate:"required"`
	Price      decimal.Decimal         `json:"price" validate:"required"`
	OldPrice   decimal.NullDecimal     `json:"oldPrice"`
	Desc       string                  `json:"desc"`
	Available  bool                    `json:"available"`
	Images     string                  `json:"images"`
	URL        string                  `json:"url" validate:"required"`
	CategoryID string                  `json:"categoryId" validate:"required"`
	BrandID    string                  `json:"brandId" validate:"required"`
	Colors     []string                `json:"colors"`
	Tags       []string                `json:"tags"`
	Variants   []variantRequest        `json:"productVariants" validate:"omitempty,dive"`
	Parameters []parameterValueRequest `json:"parameterProducts" validate:"omitempty,dive"`
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperror.NewValidationError("invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		respond.Error(w, err)
		return
	}

	product := domain.Product{
		Name:       req.Name,
		Price:      req.Price,
		OldPrice:   req.OldPrice,
		Desc:       req.Desc,
		Available:  req.Available,
		Images:     req.Images,
		URL:        req.URL,
		CategoryID: req.CategoryID,
		BrandID:    req.BrandID,
		Variants:   variantsFromRequest(req.Variants),
		Parameters: parametersFromRequest(req.Parameters),
	}

	created, err := h.Service.Create(r.Context(), product, req.Colors, req.Tags)
	if err != nil {
		respond.Error(w, err)
		return
	}
	h.Logger.Info("product created", map[string]interface{}{"product_id": created.ID})
	respond.JSON(w, http.StatusCreated, created)
}

type updateProductRequest struct {
	Name       *string                 `json:"name"`
	Price      *decimal.Decimal        `json:"price"`
	OldPrice   *decimal.NullDecimal    `json:"oldPrice"`
	Desc       *string                 `json:"desc"`
	Available  *bool                   `json:"available"`
	Images     *string                 `json:"images"`
	URL        *string                 `json:"url"`
	CategoryID *string                 `json:"categoryId"`
	BrandID    *string                 `json:"brandId"`
	Colors     []string                `json:"colors"`
	Tags       []string                `json:"tags"`
	Variants   []variantRequest        `json:"productVariants" validate:"omitempty,dive"`
	Parameters []parameterValueRequest `json:"parameterProducts" validate:"omitempty,dive"`
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperror.NewValidationError("invalid request body"))
		return
	}
	if err := validate.Struct(req); err != nil {
		respond.Error(w, err)
		return
	}

	ch := catalogservice.ProductChanges{
		Name:       req.Name,
		Price:      req.Price,
		OldPrice:   req.OldPrice,
		Desc:       req.Desc,
		Available:  req.Available,
		Images:     req.Images,
		URL:        req.URL,
		CategoryID: req.CategoryID,
		BrandID:    req.BrandID,
		ColorIDs:   req.Colors,
		TagIDs:     req.Tags,
	}
	if req.Variants != nil {
		ch.Variants = variantsFromRequest(req.Variants)
	}
	if req.Parameters != nil {
		ch.Parameters = parametersFromRequest(req.Parameters)
	}

	updated, err := h.Service.Update(r.Context(), r.PathValue("id"), ch)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), r.PathValue("id")); err != nil {
		respond.Error(w, err)
		return
	}
	respond.NoContent(w)
}

func variantsFromRequest(reqs []variantRequest) []domain.ProductVariant {
	variants := make([]domain.ProductVariant, len(reqs))
	for i, v := range reqs {
		variants[i] = domain.ProductVariant{
			ColorID:   v.ColorID,
			Price:     v.Price,
			OldPrice:  v.OldPrice,
			Available: v.Available,
			Images:    v.Images,
		}
	}
	return variants
}

func parametersFromRequest(reqs []parameterValueRequest) []domain.ParameterValue {
	values := make([]domain.ParameterValue, len(reqs))
	for i, p := range reqs {
		values[i] = domain.ParameterValue{ParameterID: p.ParameterID, Value: p.Value}
	}
	return values
}
