package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"claimequity/internal/domain"
	"claimequity/internal/handler"
	"claimequity/mocks"
)

func postJSON(t *testing.T, path, body string) (*httptest.ResponseRecorder, *gin.Context) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body)))
	c.Request.Header.Set("Content-Type", "application/json")
	return w, c
}

func TestPredictionHandler_Defaults(t *testing.T) {
	predictions := new(mocks.MockPredictionService)
	h := handler.NewPredictionHandler(predictions)

	predictions.On("Predict", mock.Anything, mock.MatchedBy(func(in domain.PredictionInput) bool {
		return in.Age == 50 && in.ZipCode == "10000" && in.ClaimAmount.IntPart() == 5000 && !in.HasPriorAuthorization
	}), mock.Anything).Return(&domain.PredictionResult{ProbabilityPercent: 45}, nil)

	w, c := postJSON(t, "/api/predict-appeal", `{}`)
	h.PredictAppeal(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp handler.PredictAppealResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 45, resp.Probability)
	assert.Equal(t, handler.UserData{Age: 50, Zip: "10000", Amount: 5000, Demo: "age_50"}, resp.UserData)
	predictions.AssertExpectations(t)
}

func TestPredictionHandler_EmptyBodyUsesDefaults(t *testing.T) {
	predictions := new(mocks.MockPredictionService)
	h := handler.NewPredictionHandler(predictions)
	predictions.On("Predict", mock.Anything, mock.Anything, mock.Anything).Return(&domain.PredictionResult{ProbabilityPercent: 45}, nil)

	w, c := postJSON(t, "/api/predict-appeal", ``)
	h.PredictAppeal(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPredictionHandler_NumericZipAndFeaturePriorAuth(t *testing.T) {
	predictions := new(mocks.MockPredictionService)
	h := handler.NewPredictionHandler(predictions)

	predictions.On("Predict", mock.Anything, mock.MatchedBy(func(in domain.PredictionInput) bool {
		return in.Age == 45 && in.ZipCode == "08540" && in.ClaimAmount.String() == "1250.5" && in.HasPriorAuthorization
	}), domain.Credentials{domain.ProviderAmplitude: "ak"}).Return(&domain.PredictionResult{ProbabilityPercent: 70}, nil)

	w, c := postJSON(t, "/api/predict-appeal", `{"age":45,"zip":8540,"amount":1250.5,"claim_features":{"has_prior_auth":1},"amplitude_key":"ak"}`)
	h.PredictAppeal(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp handler.PredictAppealResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "age_40", resp.UserData.Demo)
	assert.Equal(t, "08540", resp.UserData.Zip)
	predictions.AssertExpectations(t)
}

func TestPredictionHandler_ValidationError(t *testing.T) {
	predictions := new(mocks.MockPredictionService)
	h := handler.NewPredictionHandler(predictions)
	predictions.On("Predict", mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrAgeOutOfRange)

	w, c := postJSON(t, "/api/predict-appeal", `{"age":5}`)
	h.PredictAppeal(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "AGE_OUT_OF_RANGE", resp.Code)
	assert.Equal(t, "validation", resp.Kind)
}
