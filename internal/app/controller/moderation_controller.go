package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shop-ex/shopex-backend/internal/app/model"
	"github.com/shop-ex/shopex-backend/internal/app/service"
	apperrors "github.com/shop-ex/shopex-backend/internal/errors"
	"github.com/shop-ex/shopex-backend/internal/middleware"
)

// ModerationController exposes the listing lifecycle transitions. Route
// guards have already authenticated the caller and verified role,
// eligibility, ownership, and identifier shape before these handlers run.
type ModerationController struct {
	moderationService service.ModerationService
}

func NewModerationController(moderationService service.ModerationService) *ModerationController {
	return &ModerationController{
		moderationService: moderationService,
	}
}

type CreateListingRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Sizes       []string `json:"sizes"`
	Quantity    int      `json:"quantity" binding:"gte=0"`
	Category    string   `json:"category" binding:"required"`
	SubCategory string   `json:"sub_category"`
	SellerPrice float64  `json:"seller_price" binding:"required,gt=0"`
	Stock       string   `json:"stock"`
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CreateListing submits a new listing as the owning seller; it enters the
// moderation pipeline at pending.
// POST /api/v1/products?email=
func (ctrl *ModerationController) CreateListing(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid listing creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid listing data")
		return
	}

	callerEmail, _ := middleware.GetUserEmail(c)

	product, err := ctrl.moderationService.CreateListing(callerEmail, service.CreateListingInput{
		Name:        req.Name,
		Description: req.Description,
		Images:      req.Images,
		Sizes:       req.Sizes,
		Quantity:    req.Quantity,
		Category:    req.Category,
		SubCategory: req.SubCategory,
		SellerPrice: req.SellerPrice,
		Stock:       model.StockStatus(req.Stock),
	})
	if err != nil {
		log.Error("Failed to create listing", err, map[string]interface{}{
			"seller_email": callerEmail,
		})
		info := apperrors.ParseError(err, "create listing")
		apperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		return
	}

	log.Info("Listing created", map[string]interface{}{
		"product_id": product.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"product": product,
	})
}

// StaffApprove marks a pending listing as checked.
// PUT /api/v1/staff/products/:id/check
func (ctrl *ModerationController) StaffApprove(c *gin.Context) {
	callerEmail, _ := middleware.GetUserEmail(c)
	result, err := ctrl.moderationService.StaffApprove(callerEmail, c.Param("id"))
	ctrl.respondTransition(c, result, err)
}

// StaffReject rejects a pending listing with a reason.
// PUT /api/v1/staff/products/:id/reject
func (ctrl *ModerationController) StaffReject(c *gin.Context) {
	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "rejection reason is required")
		return
	}

	callerEmail, _ := middleware.GetUserEmail(c)
	result, err := ctrl.moderationService.StaffReject(callerEmail, c.Param("id"), req.Reason)
	ctrl.respondTransition(c, result, err)
}

// AdminApprove publishes a checked listing.
// PUT /api/v1/admin/products/:id/approve
func (ctrl *ModerationController) AdminApprove(c *gin.Context) {
	callerEmail, _ := middleware.GetUserEmail(c)
	result, err := ctrl.moderationService.AdminApprove(callerEmail, c.Param("id"))
	ctrl.respondTransition(c, result, err)
}

// AdminReject rejects a checked listing with a reason.
// PUT /api/v1/admin/products/:id/reject
func (ctrl *ModerationController) AdminReject(c *gin.Context) {
	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "rejection reason is required")
		return
	}

	callerEmail, _ := middleware.GetUserEmail(c)
	result, err := ctrl.moderationService.AdminReject(callerEmail, c.Param("id"), req.Reason)
	ctrl.respondTransition(c, result, err)
}

// Resubmit acknowledges a rejection and returns the listing to the tier it
// was rejected from.
// PUT /api/v1/products/:id/resubmit
func (ctrl *ModerationController) Resubmit(c *gin.Context) {
	result, err := ctrl.moderationService.Resubmit(c.Param("id"))
	if err != nil && errors.Is(err, service.ErrNothingToResubmit) {
		apperrors.Declined(c, "listing has no rejection to acknowledge")
		return
	}
	ctrl.respondTransition(c, result, err)
}

// DeleteListing removes a listing at any status, owner only.
// DELETE /api/v1/products/:id
func (ctrl *ModerationController) DeleteListing(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	deleted, err := ctrl.moderationService.DeleteListing(c.Param("id"))
	if err != nil {
		log.Error("Failed to delete listing", err, map[string]interface{}{
			"product_id": c.Param("id"),
		})
		info := apperrors.ParseError(err, "delete listing")
		apperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deleted": deleted,
	})
}

func (ctrl *ModerationController) respondTransition(c *gin.Context, result *service.MutationResult, err error) {
	log := middleware.GetLoggerFromContext(c)

	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "listing not found")
		case errors.Is(err, service.ErrStaleStatus):
			apperrors.Conflict(c, apperrors.ProductStaleStatus, "listing status changed, reload and retry")
		default:
			log.Error("Listing transition failed", err, map[string]interface{}{
				"product_id": c.Param("id"),
			})
			info := apperrors.ParseError(err, "review listing")
			apperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
