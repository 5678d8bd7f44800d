package catalogservice_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"goshop/internal/domain"
	apperror "goshop/internal/errors"
	"goshop/internal/service/catalogservice"
)

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) FindAll(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockProductRepo) PriceRange(ctx context.Context, f domain.ProductFilter) (domain.PriceRange, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(domain.PriceRange), args.Error(1)
}

func (m *mockProductRepo) FindByID(ctx context.Context, id string) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *mockProductRepo) FindByURL(ctx context.Context, url string) (domain.Product, error) {
	args := m.Called(ctx, url)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *mockProductRepo) Save(ctx context.Context, product domain.Product) (domain.Product, error) {
	args := m.Called(ctx, product)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *mockProductRepo) Update(ctx context.Context, product domain.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockProductRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockCategoryFinder struct {
	mock.Mock
}

func (m *mockCategoryFinder) FindByID(ctx context.Context, id string) (domain.Category, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Category), args.Error(1)
}

type mockBrandFinder struct {
	mock.Mock
}

func (m *mockBrandFinder) FindByID(ctx context.Context, id string) (domain.Brand, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Brand), args.Error(1)
}

type mockColorFinder struct {
	mock.Mock
}

func (m *mockColorFinder) FindByIDs(ctx context.Context, ids []string) ([]domain.Color, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Color), args.Error(1)
}

type mockTagFinder struct {
	mock.Mock
}

func (m *mockTagFinder) FindByIDs(ctx context.Context, ids []string) ([]domain.Tag, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tag), args.Error(1)
}

type productMocks struct {
	repo       *mockProductRepo
	categories *mockCategoryFinder
	brands     *mockBrandFinder
	colors     *mockColorFinder
	tags       *mockTagFinder
}

func newProductService() (*catalogservice.ProductService, productMocks) {
	m := productMocks{
		repo:       new(mockProductRepo),
		categories: new(mockCategoryFinder),
		brands:     new(mockBrandFinder),
		colors:     new(mockColorFinder),
		tags:       new(mockTagFinder),
	}
	svc := catalogservice.NewProductService(m.repo, m.categories, m.brands, m.colors, m.tags)
	return svc, m
}

// The product envelope's length is the catalog-wide total, not the size of
// the filtered set.
func TestProductList_LengthIsUnfilteredTotal(t *testing.T) {
	svc, m := newProductService()

	m.repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f domain.ProductFilter) bool {
		return f.Name == "phone" && f.Offset == 0 && f.Limit == 10
	})).Return([]domain.Product{{ID: "p-1"}}, nil)
	m.repo.On("Count", mock.Anything).Return(int64(250), nil)

	page, err := svc.List(context.Background(), domain.ProductFilter{Name: "phone"})

	require.NoError(t, err)
	assert.Len(t, page.Rows, 1)
	assert.Equal(t, int64(250), page.Length)
}

func TestProductList_ClampsPaging(t *testing.T) {
	svc, m := newProductService()

	m.repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f domain.ProductFilter) bool {
		return f.Offset == 0 && f.Limit == domain.MaxLimit
	})).Return(nil, nil)
	m.repo.On("Count", mock.Anything).Return(int64(0), nil)

	page, err := svc.List(context.Background(), domain.ProductFilter{Offset: -10, Limit: 100000})

	require.NoError(t, err)
	assert.NotNil(t, page.Rows)
	m.repo.AssertExpectations(t)
}

func TestProductCreate_AssignsIDsAndResolvesLinks(t *testing.T) {
	svc, m := newProductService()

	m.categories.On("FindByID", mock.Anything, "cat-1").Return(domain.Category{ID: "cat-1"}, nil)
	m.brands.On("FindByID", mock.Anything, "br-1").Return(domain.Brand{ID: "br-1"}, nil)
	m.colors.On("FindByIDs", mock.Anything, []string{"c-1"}).
		Return([]domain.Color{{ID: "c-1", Name: "Red"}}, nil)
	m.tags.On("FindByIDs", mock.Anything, []string{"t-1"}).
		Return([]domain.Tag{{ID: "t-1", Name: "Sale"}}, nil)
	m.repo.On("Save", mock.Anything, mock.MatchedBy(func(p domain.Product) bool {
		return p.ID != "" &&
			len(p.Colors) == 1 && p.Colors[0].Name == "Red" &&
			len(p.Variants) == 1 && p.Variants[0].ID != "" && p.Variants[0].ProductID == p.ID &&
			!p.CreatedAt.IsZero() && p.CreatedAt.Equal(p.UpdatedAt)
	})).Return(domain.Product{ID: "saved"}, nil)

	product := domain.Product{
		Name:       "Phone",
		URL:        "phone",
		Price:      decimal.NewFromInt(100),
		CategoryID: "cat-1",
		BrandID:    "br-1",
		Variants:   []domain.ProductVariant{{ColorID: "c-1", Price: decimal.NewFromInt(100)}},
	}

	_, err := svc.Create(context.Background(), product, []string{"c-1"}, []string{"t-1"})

	require.NoError(t, err)
	m.repo.AssertExpectations(t)
}

func TestProductCreate_UnknownCategoryRejected(t *testing.T) {
	svc, m := newProductService()

	m.categories.On("FindByID", mock.Anything, "ghost").
		Return(domain.Category{}, apperror.NewNotFoundError("category with id ghost not found"))

	product := domain.Product{Name: "Phone", URL: "phone", Price: decimal.NewFromInt(100), CategoryID: "ghost", BrandID: "br-1"}
	_, err := svc.Create(context.Background(), product, nil, nil)

	var nf *apperror.NotFoundError
	assert.ErrorAs(t, err, &nf)
	m.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductCreate_UnknownColorFailsWrite(t *testing.T) {
	svc, m := newProductService()

	m.categories.On("FindByID", mock.Anything, "cat-1").Return(domain.Category{ID: "cat-1"}, nil)
	m.brands.On("FindByID", mock.Anything, "br-1").Return(domain.Brand{ID: "br-1"}, nil)
	m.colors.On("FindByIDs", mock.Anything, []string{"ghost"}).
		Return(nil, apperror.NewNotFoundError("color with id ghost not found"))

	product := domain.Product{Name: "Phone", URL: "phone", Price: decimal.NewFromInt(100), CategoryID: "cat-1", BrandID: "br-1"}
	_, err := svc.Create(context.Background(), product, []string{"ghost"}, nil)

	var nf *apperror.NotFoundError
	assert.ErrorAs(t, err, &nf)
	m.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductCreate_RejectsNegativePrice(t *testing.T) {
	svc, _ := newProductService()

	product := domain.Product{Name: "Phone", URL: "phone", Price: decimal.NewFromInt(-1)}
	_, err := svc.Create(context.Background(), product, nil, nil)

	var ve *apperror.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestProductCreate_NonPositiveVariantPriceRejected(t *testing.T) {
	svc, m := newProductService()

	for _, price := range []int64{-50, 0} {
		product := domain.Product{
			Name:       "Phone",
			URL:        "phone",
			Price:      decimal.NewFromInt(100),
			CategoryID: "cat-1",
			BrandID:    "br-1",
			Variants:   []domain.ProductVariant{{ColorID: "col-1", Price: decimal.NewFromInt(price)}},
		}
		_, err := svc.Create(context.Background(), product, nil, nil)

		var ve *apperror.ValidationError
		assert.ErrorAs(t, err, &ve, "variant price %d", price)
	}
	m.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductCreate_ColorlessVariantRejected(t *testing.T) {
	svc, m := newProductService()

	product := domain.Product{
		Name:       "Phone",
		URL:        "phone",
		Price:      decimal.NewFromInt(100),
		CategoryID: "cat-1",
		BrandID:    "br-1",
		Variants:   []domain.ProductVariant{{Price: decimal.NewFromInt(100)}},
	}
	_, err := svc.Create(context.Background(), product, nil, nil)

	var ve *apperror.ValidationError
	assert.ErrorAs(t, err, &ve)
	m.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductUpdate_NilFieldsKeepStoredValues(t *testing.T) {
	svc, m := newProductService()

	stored := domain.Product{
		ID:    "p-1",
		Name:  "Phone",
		URL:   "phone",
		Price: decimal.NewFromInt(100),
		Desc:  "keeps this",
	}
	m.repo.On("FindByID", mock.Anything, "p-1").Return(stored, nil)
	m.repo.On("Update", mock.Anything, mock.MatchedBy(func(p domain.Product) bool {
		return p.Name == "Phone X" && p.Desc == "keeps this" && p.Price.Equal(decimal.NewFromInt(100))
	})).Return(nil)

	name := "Phone X"
	updated, err := svc.Update(context.Background(), "p-1", catalogservice.ProductChanges{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, "Phone X", updated.Name)
	assert.Equal(t, "keeps this", updated.Desc)
}

func TestProductUpdate_LinkSlicesReplaceWholesale(t *testing.T) {
	svc, m := newProductService()

	stored := domain.Product{
		ID:   "p-1",
		Name: "Phone",
		Tags: []domain.Tag{{ID: "t-old"}},
	}
	m.repo.On("FindByID", mock.Anything, "p-1").Return(stored, nil)
	m.tags.On("FindByIDs", mock.Anything, []string{"t-new"}).
		Return([]domain.Tag{{ID: "t-new"}}, nil)
	m.repo.On("Update", mock.Anything, mock.MatchedBy(func(p domain.Product) bool {
		return len(p.Tags) == 1 && p.Tags[0].ID == "t-new"
	})).Return(nil)

	_, err := svc.Update(context.Background(), "p-1", catalogservice.ProductChanges{TagIDs: []string{"t-new"}})

	require.NoError(t, err)
	m.repo.AssertExpectations(t)
}

func TestProductUpdate_NonPositiveVariantPriceRejected(t *testing.T) {
	svc, m := newProductService()

	m.repo.On("FindByID", mock.Anything, "p-1").Return(domain.Product{ID: "p-1", Name: "Phone"}, nil)

	_, err := svc.Update(context.Background(), "p-1", catalogservice.ProductChanges{
		Variants: []domain.ProductVariant{{ColorID: "col-1", Price: decimal.NewFromInt(-50)}},
	})

	var ve *apperror.ValidationError
	assert.ErrorAs(t, err, &ve)
	m.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestProductUpdate_UnknownBrandRejected(t *testing.T) {
	svc, m := newProductService()

	m.repo.On("FindByID", mock.Anything, "p-1").Return(domain.Product{ID: "p-1", BrandID: "br-1"}, nil)
	m.brands.On("FindByID", mock.Anything, "ghost").
		Return(domain.Brand{}, apperror.NewNotFoundError("brand with id ghost not found"))

	ghost := "ghost"
	_, err := svc.Update(context.Background(), "p-1", catalogservice.ProductChanges{BrandID: &ghost})

	var nf *apperror.NotFoundError
	assert.ErrorAs(t, err, &nf)
	m.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestProductUpdate_UnknownProduct(t *testing.T) {
	svc, m := newProductService()

	m.repo.On("FindByID", mock.Anything, "ghost").
		Return(domain.Product{}, apperror.NewNotFoundError("product with id ghost not found"))

	_, err := svc.Update(context.Background(), "ghost", catalogservice.ProductChanges{})

	var nf *apperror.NotFoundError
	assert.ErrorAs(t, err, &nf)
}
