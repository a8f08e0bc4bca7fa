package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shop-ex/shopex-backend/internal/app/model"
	"github.com/shop-ex/shopex-backend/internal/app/repository"
	"github.com/shop-ex/shopex-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCatalogServiceTest(t *testing.T) (CatalogService, repository.ProductRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	productRepo := repository.NewProductRepository(testDB)
	return NewCatalogService(productRepo), productRepo
}

func seedListing(t *testing.T, repo repository.ProductRepository, status model.ProductStatus, category, subCategory string) *model.Product {
	t.Helper()
	product := &model.Product{
		ID:          uuid.NewString(),
		Name:        "Listing " + string(status),
		SellerPrice: 20,
		Price:       model.PublicPrice(20),
		Category:    category,
		SubCategory: subCategory,
		SellerName:  "Seller",
		SellerEmail: "seller@example.com",
		Status:      status,
	}
	require.NoError(t, repo.Create(product))
	return product
}

func TestCatalogService_ListApproved(t *testing.T) {
	svc, repo := setupCatalogServiceTest(t)

	seedListing(t, repo, model.StatusApproved, "clothing", "shirts")
	seedListing(t, repo, model.StatusApproved, "shoes", "sneakers")
	seedListing(t, repo, model.StatusPending, "clothing", "shirts")
	seedListing(t, repo, model.StatusChecked, "clothing", "shirts")
	seedListing(t, repo, model.StatusRejected, "clothing", "shirts")
	seedListing(t, repo, model.StatusAdminRejected, "clothing", "shirts")

	// Only approved listings are publicly visible.
	products, err := svc.ListApproved(repository.CatalogFilter{})
	require.NoError(t, err)
	assert.Len(t, products, 2)
	for _, p := range products {
		assert.Equal(t, model.StatusApproved, p.Status)
	}

	// Category filter narrows within approved.
	products, err = svc.ListApproved(repository.CatalogFilter{Category: "shoes"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "sneakers", products[0].SubCategory)
}

func TestCatalogService_GetApprovedByID(t *testing.T) {
	svc, repo := setupCatalogServiceTest(t)

	approved := seedListing(t, repo, model.StatusApproved, "clothing", "shirts")
	pending := seedListing(t, repo, model.StatusPending, "clothing", "shirts")

	product, err := svc.GetApprovedByID(approved.ID)
	require.NoError(t, err)
	assert.Equal(t, approved.ID, product.ID)

	// A listing still in moderation reads as missing, indistinguishable from
	// one that does not exist.
	_, err = svc.GetApprovedByID(pending.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = svc.GetApprovedByID(uuid.NewString())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogService_Sample(t *testing.T) {
	svc, repo := setupCatalogServiceTest(t)

	for i := 0; i < 10; i++ {
		seedListing(t, repo, model.StatusApproved, "clothing", "shirts")
	}
	seedListing(t, repo, model.StatusPending, "clothing", "shirts")

	products, err := svc.Sample(4)
	require.NoError(t, err)
	assert.Len(t, products, 4)
	for _, p := range products {
		assert.Equal(t, model.StatusApproved, p.Status)
	}

	// Zero falls back to the default size.
	products, err = svc.Sample(0)
	require.NoError(t, err)
	assert.Len(t, products, 6)

	// Oversized requests are clamped, then bounded by what exists.
	products, err = svc.Sample(1000)
	require.NoError(t, err)
	assert.Len(t, products, 10)
}

func TestCatalogService_Facets(t *testing.T) {
	svc, repo := setupCatalogServiceTest(t)

	seedListing(t, repo, model.StatusApproved, "clothing", "shirts")
	seedListing(t, repo, model.StatusPending, "shoes", "sneakers")
	seedListing(t, repo, model.StatusRejected, "accessories", "belts")

	// Facets aggregate across every moderation status.
	facets, err := svc.Facets()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"clothing", "shoes", "accessories"}, facets.Categories)
	assert.ElementsMatch(t, []string{"shirts", "sneakers", "belts"}, facets.SubCategories)
}

func TestCatalogService_SellerListings(t *testing.T) {
	svc, repo := setupCatalogServiceTest(t)

	mine := seedListing(t, repo, model.StatusRejected, "clothing", "shirts")
	other := &model.Product{
		ID:          uuid.NewString(),
		Name:        "Someone else's",
		SellerPrice: 15,
		Price:       model.PublicPrice(15),
		SellerName:  "Other",
		SellerEmail: "other@example.com",
		Status:      model.StatusApproved,
	}
	require.NoError(t, repo.Create(other))

	// The seller dashboard sees the seller's own listings at any status.
	products, err := svc.SellerListings("seller@example.com")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, mine.ID, products[0].ID)
	assert.Equal(t, model.StatusRejected, products[0].Status)
}

func TestCatalogService_ReviewQueue(t *testing.T) {
	svc, repo := setupCatalogServiceTest(t)

	seedListing(t, repo, model.StatusPending, "clothing", "shirts")
	seedListing(t, repo, model.StatusPending, "shoes", "sneakers")
	checked := seedListing(t, repo, model.StatusChecked, "clothing", "shirts")
	seedListing(t, repo, model.StatusApproved, "clothing", "shirts")

	// Staff queue serves pending, admin queue serves checked.
	pending, err := svc.ReviewQueue(model.StatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	forAdmin, err := svc.ReviewQueue(model.StatusChecked)
	require.NoError(t, err)
	require.Len(t, forAdmin, 1)
	assert.Equal(t, checked.ID, forAdmin[0].ID)
}

func TestCatalogService_AddComment(t *testing.T) {
	svc, repo := setupCatalogServiceTest(t)

	approved := seedListing(t, repo, model.StatusApproved, "clothing", "shirts")
	pending := seedListing(t, repo, model.StatusPending, "clothing", "shirts")

	comment, err := svc.AddComment(approved.ID, "buyer@example.com", "Buyer", "Great quality")
	require.NoError(t, err)
	assert.NotZero(t, comment.ID)

	stored, err := repo.FindByID(approved.ID)
	require.NoError(t, err)
	require.Len(t, stored.Comments, 1)
	assert.Equal(t, "Great quality", stored.Comments[0].Body)

	// Listings still in moderation do not take comments.
	_, err = svc.AddComment(pending.ID, "buyer@example.com", "Buyer", "Sneaky")
	assert.ErrorIs(t, err, ErrProductNotFound)
}
