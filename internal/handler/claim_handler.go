package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"claimequity/internal/claimtext"
	"claimequity/internal/domain"
	"claimequity/internal/service"
)

// multipartOverhead is the slack allowed on top of the file size limit for
// multipart boundaries and headers.
const multipartOverhead = 1 << 20

// ClaimHandler handles claim parsing and summarization endpoints.
type ClaimHandler struct {
	claims     service.ClaimService
	summarizer service.SummarizeService
	maxBytes   int64
}

// NewClaimHandler creates a new ClaimHandler.
func NewClaimHandler(claims service.ClaimService, summarizer service.SummarizeService, maxBytes int64) *ClaimHandler {
	return &ClaimHandler{claims: claims, summarizer: summarizer, maxBytes: maxBytes}
}

// ParseClaim handles POST /api/parse-claim
// @Summary Parse a claim document
// @Description Extract text and keyword features from an uploaded PDF denial letter.
// @Tags claims
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF claim document"
// @Param amplitude_key formData string false "Optional Amplitude key for usage analytics"
// @Success 200 {object} ParseClaimResponse
// @Failure 400 {object} ErrorResponse "Missing, unsupported or unreadable file"
// @Failure 413 {object} ErrorResponse "File too large"
// @Router /parse-claim [post]
func (h *ClaimHandler) ParseClaim(c *gin.Context) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		if isBodyTooLarge(err) {
			HandleError(c, domain.ErrFileTooLarge)
			return
		}
		HandleError(c, domain.ErrMissingFile)
		return
	}
	if fh.Filename == "" {
		HandleError(c, domain.ErrMissingFile)
		return
	}
	if h.maxBytes > 0 && fh.Size > h.maxBytes {
		HandleError(c, domain.ErrFileTooLarge)
		return
	}

	f, err := fh.Open()
	if err != nil {
		HandleError(c, err)
		return
	}
	defer f.Close()

	limit := fh.Size + 1
	if h.maxBytes > 0 {
		limit = h.maxBytes + 1
	}
	data, err := io.ReadAll(io.LimitReader(f, limit))
	if err != nil {
		HandleError(c, err)
		return
	}

	out, err := h.claims.Parse(c.Request.Context(), claimtext.Document{
		Filename:  fh.Filename,
		MediaType: fh.Header.Get("Content-Type"),
		Data:      data,
	}, domain.Credentials{domain.ProviderAmplitude: c.PostForm("amplitude_key")})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, ParseClaimResponse{Success: true, ParsedClaim: *out})
}

// Summarize handles POST /api/summarize
// @Summary Summarize claim text
// @Description Summarize with the enabled AI providers in server order, falling back to local extraction. provider_used always names the path that produced the summary.
// @Tags claims
// @Accept json
// @Produce json
// @Param request body SummarizeRequest true "Claim text and provider keys"
// @Success 200 {object} SummarizeResponse
// @Failure 400 {object} ErrorResponse "Empty claim text"
// @Router /summarize [post]
func (h *ClaimHandler) Summarize(c *gin.Context) {
	var req SummarizeRequest
	if !bindJSON(c, &req) {
		return
	}

	out, err := h.summarizer.Summarize(c.Request.Context(), service.SummarizeInput{
		ClaimText: req.ClaimText,
		Preferred: req.PreferredProvider,
		Enabled: map[string]bool{
			domain.ProviderOpenAI: req.UseOpenAI,
			domain.ProviderXAI:    req.UseXAI,
		},
		Credentials: domain.Credentials{
			domain.ProviderOpenAI: req.OpenAIKey,
			domain.ProviderXAI:    req.XAIKey,
		},
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, SummarizeResponse{
		Success:      true,
		Summary:      out.SummaryText,
		UsedXAI:      out.ProviderUsed == domain.ProviderXAI,
		ProviderUsed: out.ProviderUsed,
	})
}

func isBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large")
}
