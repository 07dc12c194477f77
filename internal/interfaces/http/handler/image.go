package handler

import (
	catalogapp "github.com/agromarket/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// ImageHandler issues presigned image upload URLs
type ImageHandler struct {
	BaseHandler
	imageService *catalogapp.ImageService
}

// NewImageHandler creates a new ImageHandler
func NewImageHandler(imageService *catalogapp.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

// PresignUpload handles POST /images/uploads/
func (h *ImageHandler) PresignUpload(c *gin.Context) {
	var req catalogapp.ImageUploadRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.imageService.PresignUpload(c.Request.Context(), actor(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, resp)
}
