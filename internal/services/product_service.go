package services

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// AllCategories is the listing filter value that disables category filtering.
const AllCategories = "All"

var whitespaceRun = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)

// Slug derives a product identifier from its display name.
func Slug(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(name), "-")
}

// SeedProduct is one catalog entry of a seed/import run.
type SeedProduct struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	Image       string
	Features    []string
}

// ProductService handles business logic related to the catalog.
type ProductService struct {
	repo repositories.ProductRepository
	log  *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, log *zap.Logger) *ProductService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductService{
		repo: repo,
		log:  log,
	}
}

// ListProducts returns the catalog, optionally restricted to one category.
func (s *ProductService) ListProducts(ctx context.Context, category string) ([]models.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if category == "" || category == AllCategories {
		return products, nil
	}
	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// GetProduct retrieves a single product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "product %s", id)
		}
		return nil, err
	}
	return product, nil
}

// SeedCatalog upserts every item keyed by the slug of its name. Re-running it
// with the same input leaves exactly one product per name.
func (s *ProductService) SeedCatalog(ctx context.Context, items []SeedProduct) ([]models.Product, error) {
	seeded := make([]models.Product, 0, len(items))
	for _, item := range items {
		p := models.Product{
			ID:          Slug(item.Name),
			Name:        item.Name,
			Description: item.Description,
			Price:       item.Price,
			Category:    item.Category,
			Image:       item.Image,
			Features:    item.Features,
		}
		if err := s.repo.Upsert(ctx, &p); err != nil {
			return seeded, errors.Wrapf(err, "seed %q", item.Name)
		}
		s.log.Info("Seeded product", zap.String("id", p.ID), zap.String("name", p.Name))
		seeded = append(seeded, p)
	}
	return seeded, nil
}

// Listing is a product as shown in the catalog grid.
type Listing struct {
	models.Product
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Save          string           `json:"save,omitempty"`
}

var listingMarkup = decimal.RequireFromString("2.5")

// DecorateListing fills the display-only original price and saving for
// listings that do not carry them already.
func DecorateListing(items []Listing) []Listing {
	out := make([]Listing, len(items))
	for i, item := range items {
		if item.OriginalPrice == nil {
			original := item.Price.Mul(listingMarkup).Round(0)
			item.OriginalPrice = &original
		}
		if item.Save == "" && item.Price.IsPositive() {
			p := item.Price.InexactFloat64()
			item.Save = fmt.Sprintf("%d%%", int64(math.Round(100-(p/(p*2.5))*100)))
		}
		out[i] = item
	}
	return out
}

// ListingsFor wraps products so they can be decorated.
func ListingsFor(products []models.Product) []Listing {
	items := make([]Listing, len(products))
	for i, p := range products {
		items[i] = Listing{Product: p}
	}
	return items
}
