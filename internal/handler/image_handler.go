package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ocrbench/internal/service"
)

// ImageHandler handles test image upload endpoints.
type ImageHandler struct {
	imageService service.ImageService
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(imageService service.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

// Upload handles POST /api/v1/images
// @Summary Upload a test image
// @Description Upload an image (JPG, PNG, WEBP or GIF) and receive a presigned URL usable as a test area image_url
// @Tags images
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image to upload"
// @Success 201 {object} Response{data=service.UploadedImage} "Image uploaded"
// @Failure 400 {object} ErrorResponseBody "Missing file or unsupported type"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 503 {object} ErrorResponseBody "Image storage not configured"
// @Router /images [post]
func (h *ImageHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	img, err := h.imageService.Upload(c.Request.Context(), service.ImageUploadInput{
		File:     file,
		Filename: header.Filename,
		Size:     header.Size,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, img)
}

// URL handles GET /api/v1/images/:name/url
// @Summary Refresh an image URL
// @Tags images
// @Produce json
// @Param name path string true "Image name returned by upload"
// @Success 200 {object} Response{data=service.UploadedImage} "Fresh presigned URL"
// @Failure 400 {object} ErrorResponseBody "Invalid name"
// @Failure 503 {object} ErrorResponseBody "Image storage not configured"
// @Router /images/{name}/url [get]
func (h *ImageHandler) URL(c *gin.Context) {
	img, err := h.imageService.URL(c.Request.Context(), c.Param("name"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, img)
}

// Delete handles DELETE /api/v1/images/:name
// @Summary Delete an image
// @Tags images
// @Produce json
// @Param name path string true "Image name returned by upload"
// @Success 200 {object} Response{data=MessageResponse} "Image deleted"
// @Failure 400 {object} ErrorResponseBody "Invalid name"
// @Failure 503 {object} ErrorResponseBody "Image storage not configured"
// @Router /images/{name} [delete]
func (h *ImageHandler) Delete(c *gin.Context) {
	if err := h.imageService.Delete(c.Request.Context(), c.Param("name")); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "image deleted"})
}
