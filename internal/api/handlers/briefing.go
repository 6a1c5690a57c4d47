package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/landingforge/landingforge/internal/briefing"
	"github.com/landingforge/landingforge/internal/domain"
	"github.com/landingforge/landingforge/internal/templates"
	"github.com/landingforge/landingforge/pkg/httputil"
)

// BriefingHandler previews how a prompt is understood before generating
type BriefingHandler struct {
	normalizer *briefing.Normalizer
	maxLength  int
}

// NewBriefingHandler creates a new briefing handler
func NewBriefingHandler(maxPromptLength int, logger *zap.Logger) *BriefingHandler {
	if maxPromptLength <= 0 {
		maxPromptLength = DefaultMaxPromptLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BriefingHandler{
		normalizer: briefing.NewNormalizer(logger.Named("api.briefing")),
		maxLength:  maxPromptLength,
	}
}

// NormalizeRequest is the request body for briefing normalization
type NormalizeRequest struct {
	Prompt string `json:"prompt"`
}

// NormalizeResponse is the parsed briefing plus the template it selects
type NormalizeResponse struct {
	Briefing   domain.ProcessedBriefing `json:"briefing"`
	TemplateID domain.TemplateID        `json:"templateId"`
}

// Normalize handles POST /api/v1/briefings/normalize
func (h *BriefingHandler) Normalize(w http.ResponseWriter, r *http.Request) {
	var req NormalizeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		httputil.ErrorFromDomain(w, domain.ErrValidationField("prompt", "prompt is required"))
		return
	}
	if len([]rune(req.Prompt)) > h.maxLength {
		httputil.ErrorFromDomain(w, domain.ErrValidationField("prompt", "prompt is too long"))
		return
	}

	b := h.normalizer.Normalize(req.Prompt)
	httputil.JSON(w, http.StatusOK, NormalizeResponse{
		Briefing:   b,
		TemplateID: templates.Classify(b.BusinessType),
	})
}
