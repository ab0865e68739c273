package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"claimequity/internal/domain"
	"claimequity/internal/service"
)

const (
	defaultAge = 50
	defaultZip = "10000"
)

var defaultAmount = decimal.NewFromInt(5000)

// PredictionHandler handles appeal prediction endpoints.
type PredictionHandler struct {
	predictions service.PredictionService
}

// NewPredictionHandler creates a new PredictionHandler.
func NewPredictionHandler(predictions service.PredictionService) *PredictionHandler {
	return &PredictionHandler{predictions: predictions}
}

// PredictAppeal handles POST /api/predict-appeal
// @Summary Predict appeal success
// @Description Deterministic success probability in [0,100]. has_prior_auth is true if either the flag or claim_features.has_prior_auth is set.
// @Tags prediction
// @Accept json
// @Produce json
// @Param request body PredictAppealRequest true "Claim features"
// @Success 200 {object} PredictAppealResponse
// @Failure 400 {object} ErrorResponse "Age out of range or negative amount"
// @Router /predict-appeal [post]
func (h *PredictionHandler) PredictAppeal(c *gin.Context) {
	var req PredictAppealRequest
	if !bindJSON(c, &req) {
		return
	}

	age := defaultAge
	if req.Age != nil {
		age = *req.Age
	}
	zip := string(req.Zip)
	if zip == "" {
		zip = defaultZip
	}
	amount := defaultAmount
	if req.Amount != nil {
		amount = *req.Amount
	}
	hasPriorAuth := req.HasPriorAuth || (req.ClaimFeatures != nil && req.ClaimFeatures.HasPriorAuth == 1)

	out, err := h.predictions.Predict(c.Request.Context(), domain.PredictionInput{
		Age:                   age,
		ZipCode:               zip,
		ClaimAmount:           amount,
		HasPriorAuthorization: hasPriorAuth,
	}, domain.Credentials{domain.ProviderAmplitude: req.AmplitudeKey})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, PredictAppealResponse{
		Success:     true,
		Probability: out.ProbabilityPercent,
		UserData: UserData{
			Age:    age,
			Zip:    zip,
			Amount: amount.InexactFloat64(),
			Demo:   fmt.Sprintf("age_%d", age/10*10),
		},
	})
}
