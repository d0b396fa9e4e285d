package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ocrbench/internal/accuracy"
)

// maxScoreBodyBytes caps the JSON bodies of /score and /normalize.
const maxScoreBodyBytes = 1 << 20

// ScoreRequest is the body of POST /score.
type ScoreRequest struct {
	Expected  string `json:"expected" example:"Total due: 42.00"`
	Actual    string `json:"actual" example:"Total due 42.00"`
	Normalize *bool  `json:"normalize" example:"true"`
}

// NormalizeRequest is the body of POST /normalize.
type NormalizeRequest struct {
	Text string `json:"text" example:"\\textbf{Total}: $42$"`
}

// NormalizeResponse is the result of POST /normalize.
type NormalizeResponse struct {
	Text string `json:"text" example:"Total: 42"`
}

// ScoreHandler exposes the accuracy engine directly.
type ScoreHandler struct {
	normalizeByDefault bool
}

// NewScoreHandler creates a new ScoreHandler.
func NewScoreHandler(normalizeByDefault bool) *ScoreHandler {
	return &ScoreHandler{normalizeByDefault: normalizeByDefault}
}

// Score handles POST /api/v1/score
// @Summary Score extracted text against ground truth
// @Tags scoring
// @Accept json
// @Produce json
// @Param request body ScoreRequest true "Expected and actual text"
// @Success 200 {object} Response{data=accuracy.Result} "Accuracy and word diff"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 413 {object} ErrorResponseBody "Body too large"
// @Router /score [post]
func (h *ScoreHandler) Score(c *gin.Context) {
	var req ScoreRequest
	if !bindLimitedJSON(c, &req) {
		return
	}

	normalize := h.normalizeByDefault
	if req.Normalize != nil {
		normalize = *req.Normalize
	}
	RespondOK(c, accuracy.Score(req.Expected, req.Actual, normalize))
}

// Normalize handles POST /api/v1/normalize
// @Summary Strip LaTeX-style markup
// @Tags scoring
// @Accept json
// @Produce json
// @Param request body NormalizeRequest true "Text to normalize"
// @Success 200 {object} Response{data=NormalizeResponse} "Normalized text"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 413 {object} ErrorResponseBody "Body too large"
// @Router /normalize [post]
func (h *ScoreHandler) Normalize(c *gin.Context) {
	var req NormalizeRequest
	if !bindLimitedJSON(c, &req) {
		return
	}
	RespondOK(c, NormalizeResponse{Text: accuracy.Normalize(req.Text)})
}

// bindLimitedJSON decodes the request body into obj, reading at most
// maxScoreBodyBytes. It writes the error response and returns false on failure.
func bindLimitedJSON(c *gin.Context, obj interface{}) bool {
	if c.Request.Body != nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxScoreBodyBytes)
	}
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		RespondError(c, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "request body exceeds 1 MiB")
		return false
	}
	RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	return false
}
