package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/shop-ex/shopex-backend/internal/errors"
	"github.com/shop-ex/shopex-backend/internal/middleware"
	"github.com/shop-ex/shopex-backend/internal/storage"
)

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(storage *storage.S3Storage) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

type PresignUploadRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// PresignUpload generates a presigned URL for uploading a listing image.
// POST /api/v1/upload/presigned-url
func (ctrl *UploadController) PresignUpload(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PresignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid upload request")
		return
	}

	allowedTypes := []string{
		"image/jpeg",
		"image/jpg",
		"image/png",
		"image/gif",
		"image/webp",
	}
	if err := ctrl.storage.ValidateContentType(req.ContentType, allowedTypes); err != nil {
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "only image uploads are allowed")
		return
	}

	response, err := ctrl.storage.PresignUpload(req.Filename, req.ContentType)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename": req.Filename,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "failed to prepare upload")
		return
	}

	c.JSON(http.StatusOK, response)
}
