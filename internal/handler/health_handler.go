package handler

import (
	"github.com/gin-gonic/gin"
)

const serviceName = "ClaimEquity AI API"

// HealthHandler handles health check endpoints.
type HealthHandler struct{}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// HealthResponse is the health check body.
type HealthResponse struct {
	Status  string `json:"status" example:"healthy"`
	Service string `json:"service" example:"ClaimEquity AI API"`
}

// Health handles GET /api/health
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	RespondOK(c, HealthResponse{Status: "healthy", Service: serviceName})
}
