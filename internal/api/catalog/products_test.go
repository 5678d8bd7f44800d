package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goshop/internal/domain"
	"goshop/internal/pkg/logger"
	"goshop/internal/pkg/validate"
	"goshop/internal/service/catalogservice"
)

func validCreateRequest() createProductRequest {
	return createProductRequest{
		Name:       "Phone",
		Price:      decimal.NewFromInt(100),
		URL:        "phone",
		CategoryID: "cat-1",
		BrandID:    "br-1",
	}
}

// The variant slice must be validated element by element: a payload smuggling
// a colorless or priceless variant has to fail before it reaches the service.
func TestCreateProductRequest_ValidatesVariantElements(t *testing.T) {
	req := validCreateRequest()
	req.Variants = []variantRequest{{ColorID: "col-1", Price: decimal.NewFromInt(50)}}
	assert.NoError(t, validate.Struct(req))

	req.Variants = []variantRequest{{Price: decimal.NewFromInt(50)}}
	assert.Error(t, validate.Struct(req), "variant without a color")

	req.Variants = []variantRequest{{ColorID: "col-1"}}
	assert.Error(t, validate.Struct(req), "variant without a price")
}

func TestUpdateProductRequest_ValidatesVariantElements(t *testing.T) {
	assert.NoError(t, validate.Struct(updateProductRequest{}))

	req := updateProductRequest{Variants: []variantRequest{{Price: decimal.NewFromInt(50)}}}
	assert.Error(t, validate.Struct(req))
}

type stubProductService struct {
	listFilter domain.ProductFilter
	page       domain.Pagination[domain.Product]
}

func (s *stubProductService) List(ctx context.Context, f domain.ProductFilter) (domain.Pagination[domain.Product], error) {
	s.listFilter = f
	return s.page, nil
}

func (s *stubProductService) PriceRange(ctx context.Context, f domain.ProductFilter) (domain.PriceRange, error) {
	return domain.PriceRange{}, nil
}

func (s *stubProductService) GetByID(ctx context.Context, id string) (domain.Product, error) {
	return domain.Product{}, nil
}

func (s *stubProductService) GetByURL(ctx context.Context, url string) (domain.Product, error) {
	return domain.Product{}, nil
}

func (s *stubProductService) Create(ctx context.Context, product domain.Product, colorIDs, tagIDs []string) (domain.Product, error) {
	return domain.Product{}, nil
}

func (s *stubProductService) Update(ctx context.Context, id string, ch catalogservice.ProductChanges) (domain.Product, error) {
	return domain.Product{}, nil
}

func (s *stubProductService) Delete(ctx context.Context, id string) error {
	return nil
}

func TestUnderOneThousand_PinsTagFilter(t *testing.T) {
	svc := &stubProductService{}
	h := NewProductHandler(svc, logger.NewLogger("error"))

	r := httptest.NewRequest(http.MethodGet, "/products/under-one-thousand?limit=5", nil)
	w := httptest.NewRecorder()

	h.UnderOneThousand(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"UnderOneThousand"}, svc.listFilter.Tags)
	assert.Equal(t, 5, svc.listFilter.Limit)
}
