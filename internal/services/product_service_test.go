package services_test

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
)

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Netflix Premium":      "netflix-premium",
		"Adobe Creative Cloud": "adobe-creative-cloud",
		"Disney+":              "disney+",
		"PlayStation  Plus":    "playstation-plus",
		"YouTube\tPremium":     "youtube-premium",
		"YouTube\u00a0Premium": "youtube-premium",
		"Disney\u2003 Plus":    "disney-plus",
	}
	for name, want := range cases {
		assert.Equal(t, want, services.Slug(name), name)
	}
	for i := 0; i < 3; i++ {
		assert.Equal(t, "netflix-premium", services.Slug("Netflix Premium"))
	}
}

func TestProductService_SeedCatalogIsIdempotent(t *testing.T) {
	repo := repositories.NewMemoryProductRepository()
	service := services.NewProductService(repo, nil)
	ctx := context.Background()

	_, err := service.SeedCatalog(ctx, services.DefaultCatalog())
	require.NoError(t, err)

	again := services.DefaultCatalog()
	again[1].Price = decimal.RequireFromString("3.49")
	again[1].Features = []string{"Ad-free music listening"}
	_, err = service.SeedCatalog(ctx, again)
	require.NoError(t, err)

	products, err := service.ListProducts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, products, len(again))

	spotify, err := service.GetProduct(ctx, "spotify-premium")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("3.49").Equal(spotify.Price))
	assert.Equal(t, []string{"Ad-free music listening"}, spotify.Features)
}

func TestProductService_SeedCatalogStopsOnStoreError(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	mockRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
		return p.ID == "netflix-premium"
	})).Return(errors.New("database error")).Once()

	seeded, err := service.SeedCatalog(context.Background(), services.DefaultCatalog())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")
	assert.Empty(t, seeded)
	mockRepo.AssertExpectations(t)
}

func TestProductService_ListProductsByCategory(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	all := []models.Product{
		{ID: "netflix-premium", Category: "Streaming"},
		{ID: "spotify-premium", Category: "Music"},
		{ID: "disney+", Category: "Streaming"},
	}
	mockRepo.On("GetAll", mock.Anything).Return(all, nil)

	streaming, err := service.ListProducts(context.Background(), "Streaming")
	require.NoError(t, err)
	assert.Len(t, streaming, 2)

	everything, err := service.ListProducts(context.Background(), services.AllCategories)
	require.NoError(t, err)
	assert.Len(t, everything, 3)
}

func TestProductService_GetProductNotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	mockRepo.On("GetByID", mock.Anything, "99").
		Return(nil, errors.Wrap(repositories.ErrNotFound, "product 99")).Once()

	product, err := service.GetProduct(context.Background(), "99")
	assert.Nil(t, product)
	assert.ErrorIs(t, err, services.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestDecorateListing(t *testing.T) {
	products := []models.Product{
		{ID: "spotify-premium", Price: decimal.RequireFromString("2.99")},
		{ID: "adobe-creative-cloud", Price: decimal.RequireFromString("12.99")},
		{ID: "netflix-premium", Price: decimal.RequireFromString("4.99")},
	}
	listings := services.DecorateListing(services.ListingsFor(products))

	require.Len(t, listings, 3)
	assert.True(t, decimal.NewFromInt(7).Equal(*listings[0].OriginalPrice))
	assert.True(t, decimal.NewFromInt(32).Equal(*listings[1].OriginalPrice))
	assert.True(t, decimal.NewFromInt(12).Equal(*listings[2].OriginalPrice))
	for _, l := range listings {
		assert.Equal(t, "60%", l.Save, l.ID)
	}
}

func TestDecorateListing_KeepsExistingValues(t *testing.T) {
	original := decimal.NewFromInt(10)
	items := []services.Listing{{
		Product:       models.Product{Price: decimal.NewFromInt(5)},
		OriginalPrice: &original,
		Save:          "50%",
	}}

	out := services.DecorateListing(items)
	assert.True(t, original.Equal(*out[0].OriginalPrice))
	assert.Equal(t, "50%", out[0].Save)
}
