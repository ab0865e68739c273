package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"claimequity/internal/domain"
	"claimequity/internal/middleware"
	"claimequity/internal/provider"
)

// ErrorResponse is the body of every failed request. Error is a short,
// caller-safe message; Kind and Code are machine-readable.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"no claim text provided"`
	Kind    string `json:"kind" example:"validation"`
	Code    string `json:"code" example:"EMPTY_CLAIM_TEXT"`
}

// APIError is a mapped error ready to be written.
type APIError struct {
	Status     int
	RetryAfter int
	Body       ErrorResponse
}

// RespondOK sends a 200 response. Success bodies are flat: every response
// type carries its own success field.
func RespondOK(c *gin.Context, body interface{}) {
	c.JSON(http.StatusOK, body)
}

var providerMessages = map[provider.Kind]struct {
	status int
	code   string
	msg    string
}{
	provider.KindAuth:        {http.StatusBadGateway, "PROVIDER_AUTH", "the AI provider rejected or did not receive an API key"},
	provider.KindRateLimit:   {http.StatusTooManyRequests, "PROVIDER_RATE_LIMITED", "the AI provider is rate limiting requests; try again later"},
	provider.KindTimeout:     {http.StatusGatewayTimeout, "PROVIDER_TIMEOUT", "the AI provider did not respond in time"},
	provider.KindUnavailable: {http.StatusBadGateway, "PROVIDER_UNAVAILABLE", "the AI provider is unavailable"},
}

// MapDomainError translates domain and provider errors to HTTP status codes
// and error bodies. Unknown errors become a generic internal error.
func MapDomainError(err error) APIError {
	var pe *provider.Error
	if errors.As(err, &pe) {
		m, ok := providerMessages[pe.Kind]
		if !ok {
			m = providerMessages[provider.KindUnavailable]
		}
		apiErr := APIError{
			Status: m.status,
			Body:   ErrorResponse{Error: m.msg, Kind: string(domain.KindProvider), Code: m.code},
		}
		if pe.Kind == provider.KindRateLimit && pe.RetryAfter > 0 {
			apiErr.RetryAfter = int(pe.RetryAfter.Seconds())
		}
		return apiErr
	}

	var de *domain.Error
	if errors.As(err, &de) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrFileTooLarge):
			status = http.StatusRequestEntityTooLarge
		case errors.Is(err, domain.ErrHeatmapUnavailable):
			status = http.StatusNotFound
		case de.Kind == domain.KindValidation:
			status = http.StatusBadRequest
		}
		return APIError{
			Status: status,
			Body:   ErrorResponse{Error: de.Message, Kind: string(de.Kind), Code: de.Code},
		}
	}

	return APIError{
		Status: http.StatusInternalServerError,
		Body:   ErrorResponse{Error: "an internal error occurred", Kind: string(domain.KindInternal), Code: "INTERNAL_ERROR"},
	}
}

// HandleError maps an error and sends the appropriate error response. The
// full error is logged server-side only.
func HandleError(c *gin.Context, err error) {
	apiErr := MapDomainError(err)

	entry := log.WithFields(log.Fields{
		"request_id": c.GetString(middleware.RequestIDKey),
		"status":     apiErr.Status,
		"code":       apiErr.Body.Code,
	})
	switch {
	case apiErr.Status >= 500:
		entry.Errorf("request failed: %v", err)
	case apiErr.Body.Kind == string(domain.KindProvider):
		entry.Warnf("provider failure: %v", err)
	}

	if apiErr.RetryAfter > 0 {
		c.Header("Retry-After", strconv.Itoa(apiErr.RetryAfter))
	}
	c.JSON(apiErr.Status, apiErr.Body)
}
