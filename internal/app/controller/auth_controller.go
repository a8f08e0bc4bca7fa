package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shop-ex/shopex-backend/internal/app/service"
	apperrors "github.com/shop-ex/shopex-backend/internal/errors"
	"github.com/shop-ex/shopex-backend/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type StoreUserRequest struct {
	Email        string  `json:"email" binding:"required,email"`
	Name         string  `json:"name" binding:"required"`
	ProfileImage *string `json:"profile_image"`
}

type UpdateProfileRequest struct {
	Name         string  `json:"name"`
	ProfileImage *string `json:"profile_image"`
}

// StoreUser registers an identity record. Idempotent: replaying an existing
// email returns the stored record with a 200 instead of a conflict.
// POST /api/v1/auth/store-user
func (ctrl *AuthController) StoreUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req StoreUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid registration data")
		return
	}

	user, created, err := ctrl.authService.RegisterUser(req.Email, req.Name, req.ProfileImage)
	if err != nil {
		log.Error("Failed to register user", err, map[string]interface{}{
			"email": req.Email,
		})
		info := apperrors.ParseError(err, "create user")
		apperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"user":    user,
		"created": created,
	})
}

// IssueToken mints a 12h bearer token for the given email.
// GET /api/v1/auth/jwt?email=
func (ctrl *AuthController) IssueToken(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	email := c.Query("email")
	if email == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "email is required")
		return
	}

	token, err := ctrl.authService.IssueToken(email)
	if err != nil {
		log.Error("Failed to issue token", err, map[string]interface{}{
			"email": email,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
	})
}

// GetRole returns the caller's stored role.
// GET /api/v1/users/role?email=
func (ctrl *AuthController) GetRole(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	email := c.Query("email")
	user, err := ctrl.authService.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "user not found")
			return
		}
		log.Error("Failed to fetch user role", err, map[string]interface{}{
			"email": email,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"role":           user.Role,
		"seller_request": user.SellerRequest,
	})
}

// UpdateProfile updates the caller's own profile fields.
// PUT /api/v1/users/profile?email=
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid profile data")
		return
	}

	email := c.Query("email")
	result, err := ctrl.authService.UpdateProfile(email, req.Name, req.ProfileImage)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "user not found")
			return
		}
		log.Error("Failed to update profile", err, map[string]interface{}{
			"email": email,
		})
		info := apperrors.ParseError(err, "update profile")
		apperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteAccount deletes the caller's own account. Non-customers are
// declined with a 200 and an error flag naming their role, which is a
// business decline rather than an authorization failure.
// DELETE /api/v1/users/account?email=
func (ctrl *AuthController) DeleteAccount(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	email := c.Query("email")
	deleted, err := ctrl.authService.DeleteAccount(email)
	if err != nil {
		var roleErr *service.RoleNotDeletableError
		if errors.As(err, &roleErr) {
			apperrors.Declined(c, roleErr.Error())
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "user not found")
			return
		}
		log.Error("Failed to delete account", err, map[string]interface{}{
			"email": email,
		})
		info := apperrors.ParseError(err, "delete account")
		apperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deleted": deleted,
	})
}
