package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shop-ex/shopex-backend/config"
	"github.com/shop-ex/shopex-backend/internal/app/controller"
	"github.com/shop-ex/shopex-backend/internal/app/model"
	"github.com/shop-ex/shopex-backend/internal/app/repository"
	"github.com/shop-ex/shopex-backend/internal/app/service"
	"github.com/shop-ex/shopex-backend/internal/db"
	"github.com/shop-ex/shopex-backend/internal/guard"
	"github.com/shop-ex/shopex-backend/internal/middleware"
	"github.com/shop-ex/shopex-backend/internal/router"
	"github.com/shop-ex/shopex-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const integrationSecret = "integration-test-secret"

type TestServer struct {
	Router   *gin.Engine
	DB       *gorm.DB
	UserRepo repository.UserRepository
}

// setupIntegrationTest assembles the full HTTP stack the way cmd/server
// does, on an in-memory database: real token validation, real guard chains,
// real handlers.
func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)

	authService := service.NewAuthService(userRepo, integrationSecret, 12*time.Hour)
	moderationService := service.NewModerationService(productRepo, userRepo)
	onboardingService := service.NewOnboardingService(userRepo)
	catalogService := service.NewCatalogService(productRepo)

	cfg := &config.Config{
		Server: config.ServerConfig{GinMode: gin.TestMode},
		JWT:    config.JWTConfig{Secret: integrationSecret, TokenExpiry: 12 * time.Hour},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}

	r := router.NewRouter(
		controller.NewAuthController(authService),
		controller.NewCatalogController(catalogService, authService),
		controller.NewModerationController(moderationService),
		controller.NewOnboardingController(onboardingService),
		controller.NewUploadController(storage.NewS3Storage("us-east-1", "test-bucket", "k", "s", "")),
		middleware.NewAuthMiddleware(integrationSecret),
		guard.NewDirectory(userRepo),
		productRepo,
		cfg,
	)

	return &TestServer{Router: r.Setup(), DB: testDB, UserRepo: userRepo}
}

func (ts *TestServer) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

// register creates the identity and returns a bearer token for it.
func (ts *TestServer) register(t *testing.T, email, name string) string {
	t.Helper()
	w := ts.request(t, "POST", "/api/v1/auth/store-user", "", gin.H{"email": email, "name": name})
	require.Contains(t, []int{http.StatusCreated, http.StatusOK}, w.Code)

	w = ts.request(t, "GET", "/api/v1/auth/jwt?email="+email, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

func (ts *TestServer) promote(t *testing.T, email string, role model.UserRole) {
	t.Helper()
	matched, err := ts.UserRepo.UpdateRole(email, role)
	require.NoError(t, err)
	require.Equal(t, int64(1), matched)
}

func TestIntegration_FullMarketplaceFlow(t *testing.T) {
	ts := setupIntegrationTest(t)

	sellerToken := ts.register(t, "seller@example.com", "Sally Seller")
	staffToken := ts.register(t, "staff@example.com", "Sam Staff")
	adminToken := ts.register(t, "admin@example.com", "Ada Admin")
	ts.promote(t, "staff@example.com", model.RoleStaff)
	ts.promote(t, "admin@example.com", model.RoleAdmin)

	// A fresh customer cannot list products yet.
	listing := gin.H{"name": "Silk Scarf", "category": "accessories", "seller_price": 24.00, "quantity": 5}
	w := ts.request(t, "POST", "/api/v1/products?email=seller@example.com", sellerToken, listing)
	require.Equal(t, http.StatusForbidden, w.Code)

	// Seller onboarding: apply, then admin approval.
	w = ts.request(t, "POST", "/api/v1/seller/request?email=seller@example.com", sellerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = ts.request(t, "PUT", "/api/v1/admin/sellers/seller@example.com/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Now the listing goes through and enters moderation at pending.
	w = ts.request(t, "POST", "/api/v1/products?email=seller@example.com", sellerToken, listing)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Product model.Product `json:"product"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := created.Product.ID
	assert.Equal(t, model.StatusPending, created.Product.Status)
	assert.Equal(t, 26.40, created.Product.Price)

	// Not publicly visible while in moderation.
	w = ts.request(t, "GET", "/api/v1/products/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The staff queue has it; staff clears it.
	w = ts.request(t, "GET", "/api/v1/staff/products", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), id)

	w = ts.request(t, "PUT", "/api/v1/staff/products/"+id+"/check", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Staff cannot take the admin decision.
	w = ts.request(t, "PUT", "/api/v1/admin/products/"+id+"/approve", staffToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Admin publishes.
	w = ts.request(t, "PUT", "/api/v1/admin/products/"+id+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Now it is publicly visible, token or not.
	w = ts.request(t, "GET", "/api/v1/products/"+id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Silk Scarf")

	// A signed-in customer can comment on the published listing.
	buyerToken := ts.register(t, "buyer@example.com", "Bea Buyer")
	w = ts.request(t, "POST", "/api/v1/products/"+id+"/comments", buyerToken, gin.H{"body": "Lovely color"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestIntegration_RejectionRoundTrips(t *testing.T) {
	ts := setupIntegrationTest(t)

	sellerToken := ts.register(t, "seller@example.com", "Sally Seller")
	staffToken := ts.register(t, "staff@example.com", "Sam Staff")
	adminToken := ts.register(t, "admin@example.com", "Ada Admin")
	ts.promote(t, "staff@example.com", model.RoleStaff)
	ts.promote(t, "admin@example.com", model.RoleAdmin)

	w := ts.request(t, "POST", "/api/v1/seller/request?email=seller@example.com", sellerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = ts.request(t, "PUT", "/api/v1/admin/sellers/seller@example.com/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.request(t, "POST", "/api/v1/products?email=seller@example.com", sellerToken, gin.H{
		"name": "Corduroy Pants", "category": "clothing", "seller_price": 40.00,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Product model.Product `json:"product"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := created.Product.ID

	// Staff rejects; the seller sees the reason on the dashboard and
	// resubmits back into the staff queue.
	w = ts.request(t, "PUT", "/api/v1/staff/products/"+id+"/reject", staffToken, gin.H{"reason": "photos too dark"})
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.request(t, "GET", "/api/v1/seller/products?email=seller@example.com", sellerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "photos too dark")

	w = ts.request(t, "PUT", "/api/v1/products/"+id+"/resubmit", sellerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Around again: staff clears, admin rejects, resubmit lands at checked
	// rather than pending.
	w = ts.request(t, "PUT", "/api/v1/staff/products/"+id+"/check", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = ts.request(t, "PUT", "/api/v1/admin/products/"+id+"/reject", adminToken, gin.H{"reason": "margin too thin"})
	require.Equal(t, http.StatusOK, w.Code)
	w = ts.request(t, "PUT", "/api/v1/products/"+id+"/resubmit", sellerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Straight to the admin decision, no second staff pass needed.
	w = ts.request(t, "PUT", "/api/v1/admin/products/"+id+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.request(t, "GET", "/api/v1/products/"+id, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIntegration_AuthRequired(t *testing.T) {
	ts := setupIntegrationTest(t)

	tests := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/products?email=x@example.com"},
		{"POST", "/api/v1/seller/request?email=x@example.com"},
		{"GET", "/api/v1/staff/products"},
		{"GET", "/api/v1/admin/products"},
		{"DELETE", "/api/v1/users/account?email=x@example.com"},
	}

	for _, tt := range tests {
		w := ts.request(t, tt.method, tt.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, tt.path)
	}

	// A presented-but-rejected credential is forbidden, not unauthorized.
	for _, tt := range tests {
		w := ts.request(t, tt.method, tt.path, "not-a-token", nil)
		assert.Equal(t, http.StatusForbidden, w.Code, tt.path)
	}
}

func TestIntegration_RoleReadBackedByStore(t *testing.T) {
	ts := setupIntegrationTest(t)

	token := ts.register(t, "user@example.com", "User")

	w := ts.request(t, "GET", "/api/v1/users/role?email=user@example.com", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"customer"`)

	// A promotion takes effect with the old token still in hand: roles live
	// in the store, not in the token.
	ts.promote(t, "user@example.com", model.RoleStaff)

	w = ts.request(t, "GET", "/api/v1/users/role?email=user@example.com", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"staff"`)

	w = ts.request(t, "GET", "/api/v1/staff/products", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIntegration_HealthCheck(t *testing.T) {
	ts := setupIntegrationTest(t)

	w := ts.request(t, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
