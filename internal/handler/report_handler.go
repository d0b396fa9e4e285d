package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ocrbench/internal/service"
)

// ReportHandler handles accuracy report endpoints.
type ReportHandler struct {
	reportService      service.ReportService
	normalizeByDefault bool
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService, normalizeByDefault bool) *ReportHandler {
	return &ReportHandler{reportService: reportService, normalizeByDefault: normalizeByDefault}
}

// normalizeParam reads the optional "normalize" query flag.
func (h *ReportHandler) normalizeParam(c *gin.Context) (bool, bool) {
	raw := c.Query("normalize")
	if raw == "" {
		return h.normalizeByDefault, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_PARAMETER", "normalize must be true or false")
		return false, false
	}
	return v, true
}

// Leaderboard handles GET /api/v1/test-areas/:id/leaderboard
// @Summary Result leaderboard
// @Description Every result of the test area ranked by accuracy (percent), across all versions
// @Tags reports
// @Produce json
// @Param id path string true "Test area ID (UUID)"
// @Success 200 {object} Response{data=[]service.LeaderboardEntry} "Ranked results"
// @Failure 404 {object} ErrorResponseBody "Test area not found"
// @Router /test-areas/{id}/leaderboard [get]
func (h *ReportHandler) Leaderboard(c *gin.Context) {
	id, ok := parseID(c, "id", "test area")
	if !ok {
		return
	}

	entries, err := h.reportService.Leaderboard(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, entries)
}

// ModelStats handles GET /api/v1/test-areas/:id/versions/:versionId/stats
// @Summary Per-model statistics for a version
// @Description Count, average, population standard deviation and max accuracy (percent) per provider/model, recomputed against the current ground truth
// @Tags reports
// @Produce json
// @Param id path string true "Test area ID (UUID)"
// @Param versionId path string true "Version ID (UUID)"
// @Param normalize query bool false "Score on normalized text"
// @Success 200 {object} Response{data=[]service.ModelStat} "Model statistics"
// @Failure 404 {object} ErrorResponseBody "Test area or version not found"
// @Router /test-areas/{id}/versions/{versionId}/stats [get]
func (h *ReportHandler) ModelStats(c *gin.Context) {
	id, ok := parseID(c, "id", "test area")
	if !ok {
		return
	}
	versionID, ok := parseID(c, "versionId", "version")
	if !ok {
		return
	}
	normalize, ok := h.normalizeParam(c)
	if !ok {
		return
	}

	stats, err := h.reportService.ModelStats(c.Request.Context(), id, versionID, normalize)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, stats)
}

// Trend handles GET /api/v1/test-areas/:id/trend
// @Summary Accuracy trend across versions
// @Description Per-version, per-provider average, min and max accuracy (percent)
// @Tags reports
// @Produce json
// @Param id path string true "Test area ID (UUID)"
// @Success 200 {object} Response{data=[]service.TrendPoint} "Trend points"
// @Failure 404 {object} ErrorResponseBody "Test area not found"
// @Router /test-areas/{id}/trend [get]
func (h *ReportHandler) Trend(c *gin.Context) {
	id, ok := parseID(c, "id", "test area")
	if !ok {
		return
	}

	points, err := h.reportService.Trend(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, points)
}

// Compare handles GET /api/v1/test-areas/:id/compare
// @Summary Compare two versions
// @Description Average accuracy of both versions and a word diff of their first results
// @Tags reports
// @Produce json
// @Param id path string true "Test area ID (UUID)"
// @Param a query string true "Base version ID (UUID)"
// @Param b query string true "Target version ID (UUID)"
// @Param normalize query bool false "Diff normalized text"
// @Success 200 {object} Response{data=service.Comparison} "Comparison"
// @Failure 400 {object} ErrorResponseBody "Invalid version IDs"
// @Failure 404 {object} ErrorResponseBody "Test area or version not found"
// @Router /test-areas/{id}/compare [get]
func (h *ReportHandler) Compare(c *gin.Context) {
	id, ok := parseID(c, "id", "test area")
	if !ok {
		return
	}
	base, errA := uuid.Parse(c.Query("a"))
	target, errB := uuid.Parse(c.Query("b"))
	if errA != nil || errB != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "query parameters a and b must be version IDs")
		return
	}
	normalize, ok := h.normalizeParam(c)
	if !ok {
		return
	}

	cmp, err := h.reportService.Compare(c.Request.Context(), id, base, target, normalize)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, cmp)
}
