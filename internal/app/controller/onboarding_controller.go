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

type OnboardingController struct {
	onboardingService service.OnboardingService
}

func NewOnboardingController(onboardingService service.OnboardingService) *OnboardingController {
	return &OnboardingController{
		onboardingService: onboardingService,
	}
}

type DenySellerRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type AssignRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ApplySeller files (or re-files) the caller's seller application.
// POST /api/v1/seller/request?email=
func (ctrl *OnboardingController) ApplySeller(c *gin.Context) {
	callerEmail, _ := middleware.GetUserEmail(c)
	result, err := ctrl.onboardingService.ApplySeller(callerEmail)
	ctrl.respond(c, result, err)
}

// ApproveSeller approves a pending application and flips the applicant's
// role to seller.
// PUT /api/v1/admin/sellers/:email/approve
func (ctrl *OnboardingController) ApproveSeller(c *gin.Context) {
	callerEmail, _ := middleware.GetUserEmail(c)
	result, err := ctrl.onboardingService.ApproveSeller(callerEmail, c.Param("email"))
	if err != nil && errors.Is(err, service.ErrRequestNotPending) {
		apperrors.Declined(c, "user has no pending seller request")
		return
	}
	ctrl.respond(c, result, err)
}

// DenySeller denies a pending application, attaching the reason.
// PUT /api/v1/admin/sellers/:email/deny
func (ctrl *OnboardingController) DenySeller(c *gin.Context) {
	var req DenySellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "denial reason is required")
		return
	}

	callerEmail, _ := middleware.GetUserEmail(c)
	result, err := ctrl.onboardingService.DenySeller(callerEmail, c.Param("email"), req.Reason)
	ctrl.respond(c, result, err)
}

// MakeStaff promotes a customer to staff.
// PUT /api/v1/admin/staff/:email
func (ctrl *OnboardingController) MakeStaff(c *gin.Context) {
	callerEmail, _ := middleware.GetUserEmail(c)
	result, err := ctrl.onboardingService.MakeStaff(callerEmail, c.Param("email"))
	if err != nil && errors.Is(err, service.ErrTargetNotCustomer) {
		apperrors.Declined(c, "only customers can be promoted to staff")
		return
	}
	ctrl.respond(c, result, err)
}

// AssignRole sets an arbitrary role on a user.
// PUT /api/v1/admin/roles/:email
func (ctrl *OnboardingController) AssignRole(c *gin.Context) {
	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "role is required")
		return
	}

	callerEmail, _ := middleware.GetUserEmail(c)
	result, err := ctrl.onboardingService.AssignRole(callerEmail, c.Param("email"), model.UserRole(req.Role))
	if err != nil && errors.Is(err, service.ErrInvalidRole) {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid role")
		return
	}
	ctrl.respond(c, result, err)
}

func (ctrl *OnboardingController) respond(c *gin.Context, result *service.MutationResult, err error) {
	log := middleware.GetLoggerFromContext(c)

	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "user not found")
			return
		}
		log.Error("Onboarding action failed", err, map[string]interface{}{
			"path": c.Request.URL.Path,
		})
		info := apperrors.ParseError(err, "update user")
		apperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		return
	}

	c.JSON(http.StatusOK, result)
}
