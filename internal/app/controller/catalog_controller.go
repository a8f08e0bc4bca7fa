package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shop-ex/shopex-backend/internal/app/model"
	"github.com/shop-ex/shopex-backend/internal/app/repository"
	"github.com/shop-ex/shopex-backend/internal/app/service"
	apperrors "github.com/shop-ex/shopex-backend/internal/errors"
	"github.com/shop-ex/shopex-backend/internal/middleware"
)

type CatalogController struct {
	catalogService service.CatalogService
	authService    service.AuthService
}

func NewCatalogController(catalogService service.CatalogService, authService service.AuthService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
		authService:    authService,
	}
}

type AddCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

// ListApproved serves the public catalog: approved listings only.
// GET /api/v1/products
func (ctrl *CatalogController) ListApproved(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.CatalogFilter{
		Category:    c.Query("category"),
		SubCategory: c.Query("sub_category"),
		Limit:       parseIntQuery(c, "limit"),
		Offset:      parseIntQuery(c, "offset"),
	}

	products, err := ctrl.catalogService.ListApproved(filter)
	if err != nil {
		log.Error("Failed to list catalog", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProduct serves the public detail view of an approved listing.
// GET /api/v1/products/:id
func (ctrl *CatalogController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	product, err := ctrl.catalogService.GetApprovedByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "listing not found")
			return
		}
		log.Error("Failed to fetch listing", err, map[string]interface{}{
			"product_id": c.Param("id"),
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// Sample returns a random selection of approved listings.
// GET /api/v1/products/sample?count=
func (ctrl *CatalogController) Sample(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	products, err := ctrl.catalogService.Sample(parseIntQuery(c, "count"))
	if err != nil {
		log.Error("Failed to sample catalog", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// Facets returns the distinct category values across all listings.
// GET /api/v1/products/facets
func (ctrl *CatalogController) Facets(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	facets, err := ctrl.catalogService.Facets()
	if err != nil {
		log.Error("Failed to aggregate facets", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, facets)
}

// SellerListings serves the seller dashboard: own listings at any status.
// GET /api/v1/seller/products?email=
func (ctrl *CatalogController) SellerListings(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	callerEmail, _ := middleware.GetUserEmail(c)
	products, err := ctrl.catalogService.SellerListings(callerEmail)
	if err != nil {
		log.Error("Failed to list seller products", err, map[string]interface{}{
			"seller_email": callerEmail,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// StaffQueue serves the staff triage queue (status pending).
// GET /api/v1/staff/products
func (ctrl *CatalogController) StaffQueue(c *gin.Context) {
	ctrl.reviewQueue(c, model.StatusPending)
}

// AdminQueue serves the admin decision queue (status checked).
// GET /api/v1/admin/products
func (ctrl *CatalogController) AdminQueue(c *gin.Context) {
	ctrl.reviewQueue(c, model.StatusChecked)
}

func (ctrl *CatalogController) reviewQueue(c *gin.Context, status model.ProductStatus) {
	log := middleware.GetLoggerFromContext(c)

	products, err := ctrl.catalogService.ReviewQueue(status)
	if err != nil {
		log.Error("Failed to list review queue", err, map[string]interface{}{
			"status": status,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// AddComment appends a comment to an approved listing.
// POST /api/v1/products/:id/comments
func (ctrl *CatalogController) AddComment(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "comment body is required")
		return
	}

	callerEmail, _ := middleware.GetUserEmail(c)
	authorName := ""
	if user, err := ctrl.authService.GetUserByEmail(callerEmail); err == nil {
		authorName = user.Name
	}

	comment, err := ctrl.catalogService.AddComment(c.Param("id"), callerEmail, authorName, req.Body)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "listing not found")
			return
		}
		log.Error("Failed to add comment", err, map[string]interface{}{
			"product_id": c.Param("id"),
		})
		info := apperrors.ParseError(err, "create comment")
		apperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"comment": comment,
	})
}

func parseIntQuery(c *gin.Context, key string) int {
	value := c.Query(key)
	if value == "" {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
