package handler

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"claimequity/internal/csvexport"
	"claimequity/internal/domain"
	"claimequity/internal/service"
)

// BiasHandler handles anonymized bias aggregation endpoints.
type BiasHandler struct {
	bias service.BiasService
}

// NewBiasHandler creates a new BiasHandler.
func NewBiasHandler(bias service.BiasService) *BiasHandler {
	return &BiasHandler{bias: bias}
}

// DetectBias handles POST /api/detect-bias
// @Summary Detect denial-rate disparity
// @Description Compare the caller's anonymized group against the baseline denial rate. Below the minimum sample size the verdict is insufficient_data.
// @Tags bias
// @Accept json
// @Produce json
// @Param request body DetectBiasRequest true "Group to analyze"
// @Success 200 {object} DetectBiasResponse
// @Failure 400 {object} ErrorResponse "Missing zip or demo"
// @Failure 500 {object} ErrorResponse "Aggregate state inconsistent"
// @Router /detect-bias [post]
func (h *BiasHandler) DetectBias(c *gin.Context) {
	var req DetectBiasRequest
	if !bindJSON(c, &req) {
		return
	}

	out, err := h.bias.Analyze(c.Request.Context(), string(req.Zip), req.Demo,
		domain.Credentials{domain.ProviderAmplitude: req.AmplitudeKey})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, DetectBiasResponse{Success: true, BiasAnalysisResult: *out})
}

// ShareAnonData handles POST /api/share-anon-data
// @Summary Contribute an anonymized outcome
// @Description Zip and demographic are hashed with a server-side key and discarded. Repeat submissions may be acknowledged without being counted.
// @Tags bias
// @Accept json
// @Produce json
// @Param request body ShareAnonDataRequest true "Outcome to contribute"
// @Success 200 {object} ShareAnonDataResponse
// @Failure 400 {object} ErrorResponse "Invalid outcome or missing group"
// @Router /share-anon-data [post]
func (h *BiasHandler) ShareAnonData(c *gin.Context) {
	var req ShareAnonDataRequest
	if !bindJSON(c, &req) {
		return
	}

	amount := decimal.Zero
	if req.Amount != nil {
		amount = *req.Amount
	}

	out, err := h.bias.RecordOutcome(c.Request.Context(), service.ShareInput{
		Zip:         string(req.Zip),
		Demographic: req.Demo,
		Reason:      req.Reason,
		Outcome:     req.Outcome,
		Amount:      amount,
		Credentials: domain.Credentials{domain.ProviderAmplitude: req.AmplitudeKey},
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	msg := "Anonymized data added successfully"
	if !out.Counted {
		msg = "Submission already recorded; acknowledged without counting again"
	}
	RespondOK(c, ShareAnonDataResponse{Success: true, Message: msg, Counted: out.Counted})
}

// Heatmap handles GET /api/bias-heatmap
// @Summary Bias heatmap
// @Description PNG chart of denial rate per anonymized group with sufficient samples.
// @Tags bias
// @Produce png
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse "Heatmap not available"
// @Router /bias-heatmap [get]
func (h *BiasHandler) Heatmap(c *gin.Context) {
	png, err := h.bias.Heatmap(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "image/png", png)
}

// Export handles GET /api/bias-export
// @Summary Export bias aggregates
// @Description CSV of hashed bucket ids and counters for buckets with at least bias.min_sample submissions. Smaller buckets are pooled into one row labeled suppressed.
// @Tags bias
// @Produce text/csv
// @Success 200 {file} binary
// @Router /bias-export [get]
func (h *BiasHandler) Export(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.bias.Export(c.Request.Context(), &buf); err != nil {
		HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+csvexport.BuildFilename(time.Now())+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
