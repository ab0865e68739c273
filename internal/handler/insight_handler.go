package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"claimequity/internal/domain"
	"claimequity/internal/service"
)

var defaultAppealFee = decimal.NewFromInt(50)

// InsightHandler handles the pass-through analysis endpoints.
type InsightHandler struct {
	insights service.InsightService
}

// NewInsightHandler creates a new InsightHandler.
func NewInsightHandler(insights service.InsightService) *InsightHandler {
	return &InsightHandler{insights: insights}
}

// GrokAnalysis handles POST /api/grok-analysis
// @Summary Real-time trend analysis
// @Tags insights
// @Accept json
// @Produce json
// @Param request body GrokAnalysisRequest true "Query and xAI key"
// @Success 200 {object} GrokAnalysisResponse
// @Failure 400 {object} ErrorResponse "Missing query or xAI key"
// @Router /grok-analysis [post]
func (h *InsightHandler) GrokAnalysis(c *gin.Context) {
	var req GrokAnalysisRequest
	if !bindJSON(c, &req) {
		return
	}

	insights, err := h.insights.Analyze(c.Request.Context(), req.Query, domain.Credentials{domain.ProviderXAI: req.XAIKey})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, GrokAnalysisResponse{Success: true, Insights: insights})
}

// FinancialImpact handles POST /api/financial-impact
// @Summary Financial impact of a denial
// @Description Without a Capital One key only the out-of-pocket estimate is returned.
// @Tags insights
// @Accept json
// @Produce json
// @Param request body FinancialImpactRequest true "Claim amount and optional key"
// @Success 200 {object} FinancialImpactResponse
// @Failure 400 {object} ErrorResponse "Negative amount"
// @Router /financial-impact [post]
func (h *InsightHandler) FinancialImpact(c *gin.Context) {
	var req FinancialImpactRequest
	if !bindJSON(c, &req) {
		return
	}

	amount := decimal.Zero
	if req.ClaimAmount != nil {
		amount = *req.ClaimAmount
	}

	impact, err := h.insights.FinancialImpact(c.Request.Context(), amount, domain.Credentials{domain.ProviderCapitalOne: req.CapOneKey})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, FinancialImpactResponse{Success: true, Impact: impact})
}

// AppealFeeLink handles POST /api/appeal-fee-link
// @Summary Appeal fee payment link
// @Description Request a Knot payment link for the appeal filing fee. Without a Knot key the response is a sandbox placeholder with a null link.
// @Tags insights
// @Accept json
// @Produce json
// @Param request body AppealFeeLinkRequest true "Fee amount and optional key"
// @Success 200 {object} AppealFeeLinkResponse
// @Failure 400 {object} ErrorResponse "Negative amount"
// @Router /appeal-fee-link [post]
func (h *InsightHandler) AppealFeeLink(c *gin.Context) {
	var req AppealFeeLinkRequest
	if !bindJSON(c, &req) {
		return
	}

	amount := defaultAppealFee
	if req.Amount != nil {
		amount = *req.Amount
	}

	link, err := h.insights.AppealFeeLink(c.Request.Context(), service.FeeLinkInput{
		Amount:           amount,
		InsuranceCompany: req.InsuranceCompany,
	}, domain.Credentials{domain.ProviderKnot: req.KnotKey})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, AppealFeeLinkResponse{Success: true, Payment: link})
}
