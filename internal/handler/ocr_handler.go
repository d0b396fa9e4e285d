package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ocrbench/internal/provider"
	"ocrbench/internal/service"
)

// ModelInfo describes a model the server knows about.
type ModelInfo struct {
	Provider   string `json:"provider" example:"openai"`
	Model      string `json:"model" example:"gpt-4o"`
	Configured bool   `json:"configured" example:"true"`
}

// OCRHandler handles ad-hoc OCR runs and the model catalog.
type OCRHandler struct {
	ocrService service.OCRService
	catalog    *provider.Catalog
	configured map[string]bool
}

// NewOCRHandler creates a new OCRHandler. configured lists the provider names
// that have credentials.
func NewOCRHandler(ocrService service.OCRService, catalog *provider.Catalog, configured []string) *OCRHandler {
	set := make(map[string]bool, len(configured))
	for _, name := range configured {
		set[name] = true
	}
	return &OCRHandler{ocrService: ocrService, catalog: catalog, configured: set}
}

// Run handles POST /api/v1/ocr
// @Summary Run OCR across models
// @Description Sends one image to each requested model batch_size times and returns every extraction. Failed runs are returned as placeholders.
// @Tags ocr
// @Accept json
// @Produce json
// @Param request body service.RunInput true "Image, prompts and models"
// @Success 200 {object} Response{data=service.RunOutput} "Extraction results"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Router /ocr [post]
func (h *OCRHandler) Run(c *gin.Context) {
	var input service.RunInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	out, err := h.ocrService.Run(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, out)
}

// Models handles GET /api/v1/models
// @Summary List known models
// @Tags ocr
// @Produce json
// @Success 200 {object} Response{data=[]ModelInfo} "Model catalog"
// @Router /models [get]
func (h *OCRHandler) Models(c *gin.Context) {
	refs := h.catalog.Models()
	models := make([]ModelInfo, len(refs))
	for i, ref := range refs {
		models[i] = ModelInfo{Provider: ref.Provider, Model: ref.Model, Configured: h.configured[ref.Provider]}
	}
	RespondOK(c, models)
}
