package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"claimequity/internal/domain"
	"claimequity/internal/handler"
	"claimequity/internal/service"
	"claimequity/mocks"
)

func TestBiasHandler_DetectBias(t *testing.T) {
	biasSvc := new(mocks.MockBiasService)
	h := handler.NewBiasHandler(biasSvc)

	biasSvc.On("Analyze", mock.Anything, "08540", "age_60-70", domain.Credentials{domain.ProviderAmplitude: "ak"}).Return(&domain.BiasAnalysisResult{
		Message:           "BIAS ALERT: High denial rate detected in your group",
		HasSufficientData: true,
		HeatmapAvailable:  true,
		Verdict:           domain.VerdictDisparity,
		BucketDenialRate:  0.83,
		BaselineRate:      0.4,
	}, nil)

	w, c := postJSON(t, "/api/detect-bias", `{"zip":"08540","demo":"age_60-70","amplitude_key":"ak"}`)
	h.DetectBias(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "disparity", resp["verdict"])
	assert.Equal(t, true, resp["has_figure"])
	assert.Contains(t, resp["bias_message"], "BIAS ALERT")
}

func TestBiasHandler_DetectBias_Inconsistent(t *testing.T) {
	biasSvc := new(mocks.MockBiasService)
	h := handler.NewBiasHandler(biasSvc)
	biasSvc.On("Analyze", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrAggregationInconsistent)

	w, c := postJSON(t, "/api/detect-bias", `{"zip":"08540","demo":"x"}`)
	h.DetectBias(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "aggregation", decodeError(t, w).Kind)
}

func TestBiasHandler_ShareAnonData(t *testing.T) {
	biasSvc := new(mocks.MockBiasService)
	h := handler.NewBiasHandler(biasSvc)

	biasSvc.On("RecordOutcome", mock.Anything, mock.MatchedBy(func(in service.ShareInput) bool {
		return in.Zip == "08540" && in.Demographic == "age_60-70" && in.Outcome == "Denied" && in.Amount.IntPart() == 5000 &&
			in.Credentials.For(domain.ProviderAmplitude) == "ak"
	})).Return(&service.ShareResult{Counted: true}, nil).Once()
	biasSvc.On("RecordOutcome", mock.Anything, mock.Anything).Return(&service.ShareResult{Counted: false}, nil).Once()

	w, c := postJSON(t, "/api/share-anon-data", `{"zip":8540,"demo":"age_60-70","outcome":"Denied","amount":5000,"reason":"n/a","amplitude_key":"ak"}`)
	h.ShareAnonData(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp handler.ShareAnonDataResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Counted)
	assert.Equal(t, "Anonymized data added successfully", resp.Message)

	w, c = postJSON(t, "/api/share-anon-data", `{"zip":"08540","demo":"age_60-70","outcome":"Denied","amount":5000}`)
	h.ShareAnonData(c)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Counted)
	assert.Contains(t, resp.Message, "without counting")
}

func TestBiasHandler_ShareAnonData_InvalidOutcome(t *testing.T) {
	biasSvc := new(mocks.MockBiasService)
	h := handler.NewBiasHandler(biasSvc)
	biasSvc.On("RecordOutcome", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidOutcome)

	w, c := postJSON(t, "/api/share-anon-data", `{"zip":"08540","demo":"x","outcome":"Maybe"}`)
	h.ShareAnonData(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_OUTCOME", decodeError(t, w).Code)
}

func TestBiasHandler_Heatmap(t *testing.T) {
	biasSvc := new(mocks.MockBiasService)
	h := handler.NewBiasHandler(biasSvc)
	biasSvc.On("Heatmap", mock.Anything).Return([]byte("\x89PNG\r\n\x1a\nrest"), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/bias-heatmap", nil)
	h.Heatmap(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "\x89PNG"))
}

func TestBiasHandler_Heatmap_Unavailable(t *testing.T) {
	biasSvc := new(mocks.MockBiasService)
	h := handler.NewBiasHandler(biasSvc)
	biasSvc.On("Heatmap", mock.Anything).Return(nil, domain.ErrHeatmapUnavailable)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/bias-heatmap", nil)
	h.Heatmap(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "HEATMAP_UNAVAILABLE", decodeError(t, w).Code)
}

func TestBiasHandler_Export(t *testing.T) {
	biasSvc := new(mocks.MockBiasService)
	h := handler.NewBiasHandler(biasSvc)
	biasSvc.On("Export", mock.Anything, mock.Anything).Return("Zip Bucket,Demographic Bucket\n", nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/bias-export", nil)
	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="bias_aggregates_`)
	assert.Equal(t, "Zip Bucket,Demographic Bucket\n", w.Body.String())
}
