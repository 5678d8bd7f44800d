// Package catalogservice holds the business rules of the catalog: input
// validation, id and timestamp assignment, paging normalization and the
// merge semantics of partial updates. Each entity has its own service over a
// narrow repository contract so tests can mock persistence.
package catalogservice

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"goshop/internal/domain"
	apperror "goshop/internal/errors"
)

// ProductRepository is the persistence contract the product service needs.
type ProductRepository interface {
	FindAll(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error)
	Count(ctx context.Context) (int64, error)
	PriceRange(ctx context.Context, f domain.ProductFilter) (domain.PriceRange, error)
	FindByID(ctx context.Context, id string) (domain.Product, error)
	FindByURL(ctx context.Context, url string) (domain.Product, error)
	Save(ctx context.Context, product domain.Product) (domain.Product, error)
	Update(ctx context.Context, product domain.Product) error
	Delete(ctx context.Context, id string) error
}

// The finder interfaces resolve referenced ids into entities on product
// writes; an unknown id fails the whole write with a not-found error.
type CategoryFinder interface {
	FindByID(ctx context.Context, id string) (domain.Category, error)
}

type BrandFinder interface {
	FindByID(ctx context.Context, id string) (domain.Brand, error)
}

type ColorFinder interface {
	FindByIDs(ctx context.Context, ids []string) ([]domain.Color, error)
}

type TagFinder interface {
	FindByIDs(ctx context.Context, ids []string) ([]domain.Tag, error)
}

type ProductService struct {
	repo       ProductRepository
	categories CategoryFinder
	brands     BrandFinder
	colors     ColorFinder
	tags       TagFinder
}

func NewProductService(repo ProductRepository, categories CategoryFinder, brands BrandFinder, colors ColorFinder, tags TagFinder) *ProductService {
	return &ProductService{repo: repo, categories: categories, brands: brands, colors: colors, tags: tags}
}

// List returns one product page. The envelope's length is the total number of
// products in the catalog, not the filtered count; clients use it for the
// catalog-wide pager and re-derive filtered sizes themselves.
func (s *ProductService) List(ctx context.Context, f domain.ProductFilter) (domain.Pagination[domain.Product], error) {
	f.Offset, f.Limit = domain.ClampPage(f.Offset, f.Limit)

	rows, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return domain.Pagination[domain.Product]{}, err
	}
	length, err := s.repo.Count(ctx)
	if err != nil {
		return domain.Pagination[domain.Product]{}, err
	}
	if rows == nil {
		rows = []domain.Product{}
	}
	return domain.Pagination[domain.Product]{Rows: rows, Length: length}, nil
}

// PriceRange reports the min and max price over the filtered product set.
func (s *ProductService) PriceRange(ctx context.Context, f domain.ProductFilter) (domain.PriceRange, error) {
	return s.repo.PriceRange(ctx, f)
}

func (s *ProductService) GetByID(ctx context.Context, id string) (domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProductService) GetByURL(ctx context.Context, url string) (domain.Product, error) {
	return s.repo.FindByURL(ctx, url)
}

// Create inserts a new product. colorIDs and tagIDs are resolved against the
// catalog before the write so broken links never reach the database.
func (s *ProductService) Create(ctx context.Context, product domain.Product, colorIDs, tagIDs []string) (domain.Product, error) {
	if strings.TrimSpace(product.Name) == "" || strings.TrimSpace(product.URL) == "" {
		return domain.Product{}, apperror.NewValidationError("product name and url are required")
	}
	if product.Price.IsNegative() {
		return domain.Product{}, apperror.NewValidationError("product price must not be negative")
	}
	if err := validateVariants(product.Variants); err != nil {
		return domain.Product{}, err
	}

	if _, err := s.categories.FindByID(ctx, product.CategoryID); err != nil {
		return domain.Product{}, err
	}
	if _, err := s.brands.FindByID(ctx, product.BrandID); err != nil {
		return domain.Product{}, err
	}

	var err error
	if product.Colors, err = s.colors.FindByIDs(ctx, colorIDs); err != nil {
		return domain.Product{}, err
	}
	if product.Tags, err = s.tags.FindByIDs(ctx, tagIDs); err != nil {
		return domain.Product{}, err
	}

	product.ID = uuid.New().String()
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	for i := range product.Variants {
		product.Variants[i].ID = uuid.New().String()
		product.Variants[i].ProductID = product.ID
	}

	return s.repo.Save(ctx, product)
}

// validateVariants rejects variants without a color or with a non-positive
// price before anything reaches the database.
func validateVariants(variants []domain.ProductVariant) error {
	for _, v := range variants {
		if strings.TrimSpace(v.ColorID) == "" {
			return apperror.NewValidationError("variant color is required")
		}
		if !v.Price.IsPositive() {
			return apperror.NewValidationError("variant price must be positive")
		}
	}
	return nil
}

// ProductChanges carries a partial update; nil fields keep the stored value.
// Link slices replace the stored links wholesale when present.
type ProductChanges struct {
	Name       *string
	Price      *decimal.Decimal
	OldPrice   *decimal.NullDecimal
	Desc       *string
	Available  *bool
	Images     *string
	URL        *string
	CategoryID *string
	BrandID    *string
	ColorIDs   []string
	TagIDs     []string
	Variants   []domain.ProductVariant
	Parameters []domain.ParameterValue
}

func (s *ProductService) Update(ctx context.Context, id string, ch ProductChanges) (domain.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	if ch.Name != nil {
		product.Name = *ch.Name
	}
	if ch.Price != nil {
		if ch.Price.IsNegative() {
			return domain.Product{}, apperror.NewValidationError("product price must not be negative")
		}
		product.Price = *ch.Price
	}
	if ch.OldPrice != nil {
		product.OldPrice = *ch.OldPrice
	}
	if ch.Desc != nil {
		product.Desc = *ch.Desc
	}
	if ch.Available != nil {
		product.Available = *ch.Available
	}
	if ch.Images != nil {
		product.Images = *ch.Images
	}
	if ch.URL != nil {
		product.URL = *ch.URL
	}
	if ch.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *ch.CategoryID); err != nil {
			return domain.Product{}, err
		}
		product.CategoryID = *ch.CategoryID
	}
	if ch.BrandID != nil {
		if _, err := s.brands.FindByID(ctx, *ch.BrandID); err != nil {
			return domain.Product{}, err
		}
		product.BrandID = *ch.BrandID
	}
	if ch.ColorIDs != nil {
		if product.Colors, err = s.colors.FindByIDs(ctx, ch.ColorIDs); err != nil {
			return domain.Product{}, err
		}
	}
	if ch.TagIDs != nil {
		if product.Tags, err = s.tags.FindByIDs(ctx, ch.TagIDs); err != nil {
			return domain.Product{}, err
		}
	}
	if ch.Variants != nil {
		if err := validateVariants(ch.Variants); err != nil {
			return domain.Product{}, err
		}
		for i := range ch.Variants {
			if ch.Variants[i].ID == "" {
				ch.Variants[i].ID = uuid.New().String()
			}
			ch.Variants[i].ProductID = product.ID
		}
		product.Variants = ch.Variants
	}
	if ch.Parameters != nil {
		for i := range ch.Parameters {
			ch.Parameters[i].ProductID = product.ID
		}
		product.Parameters = ch.Parameters
	}
	product.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
