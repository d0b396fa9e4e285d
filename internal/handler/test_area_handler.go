package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ocrbench/internal/csvio"
	"ocrbench/internal/domain"
	"ocrbench/internal/service"
)

// SetActiveVersionRequest is the body of PUT /test-areas/:id/active-version.
type SetActiveVersionRequest struct {
	VersionID uuid.UUID `json:"version_id" binding:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
}

// ImportResponse reports the test areas created from an import sheet.
type ImportResponse struct {
	Created   int               `json:"created" example:"2"`
	TestAreas []domain.TestArea `json:"test_areas"`
}

// TestAreaHandler handles test area endpoints.
type TestAreaHandler struct {
	testAreaService service.TestAreaService
}

// NewTestAreaHandler creates a new TestAreaHandler.
func NewTestAreaHandler(testAreaService service.TestAreaService) *TestAreaHandler {
	return &TestAreaHandler{testAreaService: testAreaService}
}

// Create handles POST /api/v1/test-areas
// @Summary Create a test area
// @Description Create a test area from an image URL and its ground-truth text
// @Tags test-areas
// @Accept json
// @Produce json
// @Param request body service.CreateTestAreaInput true "Test area details"
// @Success 201 {object} Response{data=domain.TestArea} "Test area created"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Router /test-areas [post]
func (h *TestAreaHandler) Create(c *gin.Context) {
	var input service.CreateTestAreaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	area, err := h.testAreaService.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, area)
}

// List handles GET /api/v1/test-areas
// @Summary List test areas
// @Description List test areas, newest first
// @Tags test-areas
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.TestArea,meta=PagMeta} "List of test areas"
// @Router /test-areas [get]
func (h *TestAreaHandler) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	areas, total, err := h.testAreaService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, areas, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/test-areas/:id
// @Summary Get test area by ID
// @Tags test-areas
// @Produce json
// @Param id path string true "Test area ID (UUID)"
// @Success 200 {object} Response{data=domain.TestArea} "Test area details"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Test area not found"
// @Router /test-areas/{id} [get]
func (h *TestAreaHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id", "test area")
	if !ok {
		return
	}

	area, err := h.testAreaService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, area)
}

// Update handles PUT /api/v1/test-areas/:id
// @Summary Update a test area
// @Description Update name, image, ground truth or model configs. Changing the ground truth rescores every stored result.
// @Tags test-areas
// @Accept json
// @Produce json
// @Param id path string true "Test area ID (UUID)"
// @Param request body service.UpdateTestAreaInput true "Fields to update"
// @Success 200 {object} Response{data=domain.TestArea} "Test area updated"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 404 {object} ErrorResponseBody "Test area not found"
// @Router /test-areas/{id} [put]
func (h *TestAreaHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id", "test area")
	if !ok {
		return
	}

	var input service.UpdateTestAreaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	area, err := h.testAreaService.Update(c.Request.Context(), id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, area)
}

// Delete handles DELETE /api/v1/test-areas/:id
// @Summary Delete a test area
// @Tags test-areas
// @Produce json
// @Param id path string true "Test area ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse} "Test area deleted"
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Test area not found"
// @Router /test-areas/{id} [delete]
func (h *TestAreaHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "test area")
	if !ok {
		return
	}

	if err := h.testAreaService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "test area deleted"})
}

// Duplicate handles POST /api/v1/test-areas/:id/duplicate
// @Summary Duplicate a test area
// @Description Copy a test area with its full version history under a new ID
// @Tags test-areas
// @Produce json
// @Param id path string true "Test area ID (UUID)"
// @Success 201 {object} Response{data=domain.TestArea} "Copy created"
// @Failure 404 {object} ErrorResponseBody "Test area not found"
// @Router /test-areas/{id}/duplicate [post]
func (h *TestAreaHandler) Duplicate(c *gin.Context) {
	id, ok := parseID(c, "id", "test area")
	if !ok {
		return
	}

	area, err := h.testAreaService.Duplicate(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, area)
}

// Run handles POST /api/v1/test-areas/:id/runs
// @Summary Run a test area
// @Description Runs the area's image through its enabled models (or the given ones), scores each result and files it under a prompt version
// @Tags test-areas
// @Accept json
// @Produce json
// @Param id path string true "Test area ID (UUID)"
// @Param request body service.RunTestInput true "Prompts and run options"
// @Success 200 {object} Response{data=service.RunTestOutput} "Run recorded"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 404 {object} ErrorResponseBody "Test area not found"
// @Router /test-areas/{id}/runs [post]
func (h *TestAreaHandler) Run(c *gin.Context) {
	id, ok := parseID(c, "id", "test area")
	if !ok {
		return
	}

	var input service.RunTestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	out, err := h.testAreaService.Run(c.Request.Context(), id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, out)
}

// SetActiveVersion handles PUT /api/v1/test-areas/:id/active-version
// @Summary Select the active version
// @Tags test-areas
// @Accept json
// @Produce json
// @Param id path string true "Test area ID (UUID)"
// @Param request body SetActiveVersionRequest true "Version to activate"
// @Success 200 {object} Response{data=domain.TestArea} "Active version updated"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 404 {object} ErrorResponseBody "Test area or version not found"
// @Router /test-areas/{id}/active-version [put]
func (h *TestAreaHandler) SetActiveVersion(c *gin.Context) {
	id, ok := parseID(c, "id", "test area")
	if !ok {
		return
	}

	var req SetActiveVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	area, err := h.testAreaService.SetActiveVersion(c.Request.Context(), id, req.VersionID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, area)
}

// Rescore handles POST /api/v1/test-areas/:id/rescore
// @Summary Rescore stored results
// @Description Recomputes the accuracy of every stored result against the current ground truth
// @Tags test-areas
// @Produce json
// @Param id path string true "Test area ID (UUID)"
// @Success 200 {object} Response{data=domain.TestArea} "Rescored test area"
// @Failure 404 {object} ErrorResponseBody "Test area not found"
// @Router /test-areas/{id}/rescore [post]
func (h *TestAreaHandler) Rescore(c *gin.Context) {
	id, ok := parseID(c, "id", "test area")
	if !ok {
		return
	}

	area, err := h.testAreaService.Rescore(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, area)
}

// Export handles GET /api/v1/test-areas/:id/export
// @Summary Export test area results
// @Description Download every result of a test area as CSV, XLSX or JSON
// @Tags test-areas
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce application/json
// @Param id path string true "Test area ID (UUID)"
// @Param format query string false "Export format" Enums(csv, xlsx, json) default(csv)
// @Success 200 {file} file "Export file"
// @Failure 400 {object} ErrorResponseBody "Unsupported format"
// @Failure 404 {object} ErrorResponseBody "Test area not found"
// @Router /test-areas/{id}/export [get]
func (h *TestAreaHandler) Export(c *gin.Context) {
	id, ok := parseID(c, "id", "test area")
	if !ok {
		return
	}
	format, err := csvio.ParseFormat(c.Query("format"))
	if err != nil {
		HandleError(c, err)
		return
	}

	area, err := h.testAreaService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Type", csvio.ContentType(format))
	c.Header("Content-Disposition", `attachment; filename="`+csvio.BuildFilename(area.Name, format)+`"`)
	c.Status(http.StatusOK)
	if err := csvio.Export(c.Writer, area, format); err != nil {
		slog.Error("testAreaHandler.Export: write failed", "test_area_id", id, "format", format, "error", err)
	}
}

// Import handles POST /api/v1/test-areas/import
// @Summary Import test areas
// @Description Create one test area per row of a CSV or XLSX sheet with image_url and text columns (name optional)
// @Tags test-areas
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV or XLSX sheet"
// @Success 201 {object} Response{data=ImportResponse} "Test areas created"
// @Failure 400 {object} ErrorResponseBody "Missing file or malformed sheet"
// @Router /test-areas/import [post]
func (h *TestAreaHandler) Import(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	rows, err := csvio.ReadRows(header.Filename, file)
	if err != nil {
		HandleError(c, err)
		return
	}

	inputs := make([]service.CreateTestAreaInput, len(rows))
	for i, row := range rows {
		inputs[i] = service.CreateTestAreaInput{Name: row.Name, ImageURL: row.ImageURL, GroundTruth: row.GroundTruth}
	}

	areas, err := h.testAreaService.Import(c.Request.Context(), inputs)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, ImportResponse{Created: len(areas), TestAreas: areas})
}
