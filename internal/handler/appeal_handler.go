package handler

import (
	"github.com/gin-gonic/gin"

	"claimequity/internal/domain"
	"claimequity/internal/service"
)

// AppealHandler handles appeal letter generation.
type AppealHandler struct {
	appeals service.AppealService
}

// NewAppealHandler creates a new AppealHandler.
func NewAppealHandler(appeals service.AppealService) *AppealHandler {
	return &AppealHandler{appeals: appeals}
}

// GenerateAppeal handles POST /api/generate-appeal
// @Summary Generate an appeal letter
// @Description Draft with an AI provider, add regulatory rationale for the claim category, then format. Fails if no provider can draft; there is no template-only fallback.
// @Tags appeal
// @Accept json
// @Produce json
// @Param request body GenerateAppealRequest true "Claim text, notes and provider keys"
// @Success 200 {object} GenerateAppealResponse
// @Failure 400 {object} ErrorResponse "Neither claim text nor notes supplied"
// @Failure 429 {object} ErrorResponse "Provider rate limited"
// @Failure 502 {object} ErrorResponse "Provider auth failure or unavailable"
// @Failure 504 {object} ErrorResponse "Provider timeout"
// @Router /generate-appeal [post]
func (h *AppealHandler) GenerateAppeal(c *gin.Context) {
	var req GenerateAppealRequest
	if !bindJSON(c, &req) {
		return
	}

	out, err := h.appeals.Generate(c.Request.Context(), domain.AppealLetterRequest{
		ClaimText:        req.ClaimText,
		AdditionalNotes:  req.AdditionalNotes,
		PatientName:      req.PatientName,
		InsuranceCompany: req.InsuranceCompany,
		PolicyNumber:     req.PolicyNumber,
	}, domain.Credentials{
		domain.ProviderDedalus:   req.DedalusKey,
		domain.ProviderOpenAI:    req.OpenAIKey,
		domain.ProviderAmplitude: req.AmplitudeKey,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, GenerateAppealResponse{Success: true, AppealLetterResult: *out})
}
