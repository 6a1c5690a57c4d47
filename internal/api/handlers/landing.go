package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/landingforge/landingforge/internal/api/middleware"
	"github.com/landingforge/landingforge/internal/domain"
	"github.com/landingforge/landingforge/internal/pipeline"
	"github.com/landingforge/landingforge/internal/repository"
	"github.com/landingforge/landingforge/internal/storage"
	"github.com/landingforge/landingforge/internal/workflows"
	"github.com/landingforge/landingforge/pkg/httputil"
)

// DefaultMaxPromptLength bounds the briefing text accepted by the API.
const DefaultMaxPromptLength = 8000

// Generator runs the generation pipeline. *pipeline.Orchestrator implements it.
type Generator interface {
	Generate(ctx context.Context, req pipeline.Request, progress pipeline.ProgressFunc) (*pipeline.Result, error)
}

// Renderer renders a stored profile again. *pipeline.Orchestrator implements it.
type Renderer interface {
	Rerender(ctx context.Context, profile *domain.BusinessProfile, pageID string, resolved map[domain.ImageSlot]string) (string, error)
}

// WorkflowStarter hands generations to Temporal. *temporal.Client implements it.
type WorkflowStarter interface {
	StartGeneration(ctx context.Context, input workflows.GenerationInput) (string, error)
	WorkflowStatus(ctx context.Context, workflowID string) (string, error)
}

// Inliner embeds a page's images as data URIs. *images.Inliner implements it.
type Inliner interface {
	InlineHTML(ctx context.Context, doc string) (string, error)
}

// LandingMetrics receives API-level generation events
type LandingMetrics interface {
	RecordSuperseded()
	RecordExport(status string)
	RecordWorkflowStart(workflowType string)
}

type nopLandingMetrics struct{}

func (nopLandingMetrics) RecordSuperseded()          {}
func (nopLandingMetrics) RecordExport(string)        {}
func (nopLandingMetrics) RecordWorkflowStart(string) {}

// LandingPageConfig tunes the landing-page endpoints
type LandingPageConfig struct {
	// AsyncByDefault sends every request through Temporal unless it asks otherwise.
	AsyncByDefault bool
	// InlineOnExport embeds images in exported pages unless ?inline=false is passed.
	InlineOnExport    bool
	GenerationTimeout time.Duration
	MaxPromptLength   int
}

// LandingPageDeps are the collaborators of LandingPageHandler. Renderer,
// Workflows, Exporter, Inliner and Metrics may be nil.
type LandingPageDeps struct {
	Generator Generator
	Renderer  Renderer
	Store     repository.GenerationStore
	Tracker   *pipeline.Tracker
	Workflows WorkflowStarter
	Exporter  storage.Exporter
	Inliner   Inliner
	Metrics   LandingMetrics
	Logger    *zap.Logger
}

// LandingPageHandler handles landing page related requests
type LandingPageHandler struct {
	cfg       LandingPageConfig
	generator Generator
	renderer  Renderer
	store     repository.GenerationStore
	tracker   *pipeline.Tracker
	workflows WorkflowStarter
	exporter  storage.Exporter
	inliner   Inliner
	metrics   LandingMetrics
	logger    *zap.Logger
}

// NewLandingPageHandler creates a new landing page handler
func NewLandingPageHandler(cfg LandingPageConfig, d LandingPageDeps) *LandingPageHandler {
	if cfg.MaxPromptLength <= 0 {
		cfg.MaxPromptLength = DefaultMaxPromptLength
	}
	if d.Tracker == nil {
		d.Tracker = pipeline.NewTracker()
	}
	if d.Metrics == nil {
		d.Metrics = nopLandingMetrics{}
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &LandingPageHandler{
		cfg:       cfg,
		generator: d.Generator,
		renderer:  d.Renderer,
		store:     d.Store,
		tracker:   d.Tracker,
		workflows: d.Workflows,
		exporter:  d.Exporter,
		inliner:   d.Inliner,
		metrics:   d.Metrics,
		logger:    d.Logger.Named("api.landing"),
	}
}

// CreateLandingPageRequest is the request body for creating a landing page
type CreateLandingPageRequest struct {
	Prompt       string            `json:"prompt"`
	CustomImages map[string]string `json:"customImages,omitempty"`
	// Async overrides the server default when set.
	Async *bool `json:"async,omitempty"`
}

// LandingPageResponse is the API representation of a generation
type LandingPageResponse struct {
	ID             string                  `json:"id"`
	Status         string                  `json:"status"`
	TemplateID     string                  `json:"templateId,omitempty"`
	Title          string                  `json:"title,omitempty"`
	FileName       string                  `json:"fileName,omitempty"`
	Profile        *domain.BusinessProfile `json:"profile,omitempty"`
	HTML           string                  `json:"html,omitempty"`
	HTMLURL        string                  `json:"htmlUrl,omitempty"`
	DownloadURL    string                  `json:"downloadUrl,omitempty"`
	ExportURL      string                  `json:"exportUrl,omitempty"`
	WorkflowID     string                  `json:"workflowId,omitempty"`
	WorkflowStatus string                  `json:"workflowStatus,omitempty"`
	Error          string                  `json:"error,omitempty"`
	DurationMS     int64                   `json:"durationMs,omitempty"`
	CreatedAt      string                  `json:"createdAt"`
	UpdatedAt      string                  `json:"updatedAt"`
}

func toLandingPageResponse(g *domain.Generation) LandingPageResponse {
	resp := LandingPageResponse{
		ID:         g.ID.String(),
		Status:     string(g.Status),
		TemplateID: string(g.TemplateID),
		Profile:    g.Profile,
		ExportURL:  g.ExportURL,
		WorkflowID: g.WorkflowID,
		Error:      g.Error,
		CreatedAt:  g.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  g.UpdatedAt.Format(time.RFC3339),
	}
	if g.Profile != nil {
		resp.Title = g.Profile.Title
	}
	if g.Status == domain.GenerationCompleted {
		base := "/api/v1/landing-pages/" + g.ID.String()
		resp.FileName = g.FileName()
		resp.HTMLURL = base + "/html"
		resp.DownloadURL = base + "/download"
	}
	return resp
}

// Create handles POST /api/v1/landing-pages
func (h *LandingPageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateLandingPageRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		httputil.ErrorFromDomain(w, domain.ErrValidationField("prompt", "prompt is required"))
		return
	}
	if len([]rune(req.Prompt)) > h.cfg.MaxPromptLength {
		httputil.ErrorFromDomain(w, domain.ErrValidationField("prompt",
			"prompt must be at most "+strconv.Itoa(h.cfg.MaxPromptLength)+" characters"))
		return
	}
	customImages, err := parseCustomImages(req.CustomImages)
	if err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	sessionID, _ := middleware.GetSessionID(r.Context())
	gen := domain.NewGeneration(req.Prompt, sessionID)

	async := h.cfg.AsyncByDefault
	if req.Async != nil {
		async = *req.Async
	}
	if async {
		h.createAsync(w, r, gen, customImages)
		return
	}
	h.createSync(w, r, gen, customImages)
}

func (h *LandingPageHandler) createAsync(w http.ResponseWriter, r *http.Request, gen *domain.Generation, customImages map[domain.ImageSlot]string) {
	if h.workflows == nil {
		httputil.ErrorFromDomain(w, domain.ErrServiceUnavailable("async generation"))
		return
	}
	if err := h.store.SaveGeneration(r.Context(), gen); err != nil {
		h.logger.Error("Failed to save generation", zap.Error(err))
		httputil.ErrorFromDomain(w, err)
		return
	}

	workflowID, err := h.workflows.StartGeneration(r.Context(), workflows.GenerationInput{
		GenerationID: gen.ID,
		Prompt:       gen.Prompt,
		SessionID:    gen.SessionID,
		CustomImages: customImages,
		Timeout:      h.cfg.GenerationTimeout,
	})
	if err != nil {
		h.logger.Error("Failed to start generation workflow", zap.String("generation_id", gen.ID.String()), zap.Error(err))
		gen.Fail("Não foi possível iniciar a geração.")
		_ = h.store.SaveGeneration(r.Context(), gen)
		httputil.ErrorFromDomain(w, domain.ErrServiceUnavailable("temporal"))
		return
	}
	h.metrics.RecordWorkflowStart("generation")

	gen.WorkflowID = workflowID
	gen.UpdatedAt = time.Now().UTC()
	if err := h.store.SaveGeneration(r.Context(), gen); err != nil {
		h.logger.Warn("Failed to record workflow id", zap.String("generation_id", gen.ID.String()), zap.Error(err))
	}

	w.Header().Set("Location", "/api/v1/landing-pages/"+gen.ID.String())
	httputil.JSON(w, http.StatusAccepted, toLandingPageResponse(gen))
}

func (h *LandingPageHandler) createSync(w http.ResponseWriter, r *http.Request, gen *domain.Generation, customImages map[domain.ImageSlot]string) {
	// Store writes outlive a canceled request so the final status is recorded.
	storeCtx := context.WithoutCancel(r.Context())

	ctx, ticket := h.tracker.Begin(r.Context(), gen.SessionID)
	defer h.tracker.End(ticket)

	gen.Status = domain.GenerationRunning
	if err := h.store.SaveGeneration(storeCtx, gen); err != nil {
		h.logger.Error("Failed to save generation", zap.Error(err))
		httputil.ErrorFromDomain(w, err)
		return
	}

	res, err := h.generator.Generate(ctx, pipeline.Request{
		Prompt:       gen.Prompt,
		CustomImages: customImages,
		PageID:       gen.ID.String(),
	}, nil)

	logger := h.logger.With(zap.String("generation_id", gen.ID.String()), zap.Uint64("request_id", ticket.ID))

	if !h.tracker.IsCurrent(ticket) {
		gen.Supersede()
		_ = h.store.SaveGeneration(storeCtx, gen)
		h.metrics.RecordSuperseded()
		logger.Info("Generation superseded", zap.String("session_id", gen.SessionID))
		httputil.ErrorFromDomain(w, domain.ErrSuperseded(ticket.ID))
		return
	}

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			err = domain.ErrTimeout("generation")
		}
		msg := "Não foi possível gerar a landing page. Tente novamente."
		if appErr, ok := domain.AsAppError(err); ok {
			msg = appErr.Message
		}
		gen.Fail(msg)
		if saveErr := h.store.SaveGeneration(storeCtx, gen); saveErr != nil {
			logger.Warn("Failed to record failure", zap.Error(saveErr))
		}
		logger.Warn("Generation failed", zap.Error(err))
		httputil.ErrorFromDomain(w, err)
		return
	}

	gen.Complete(res.Profile, res.HTML)
	if err := h.store.SaveGeneration(storeCtx, gen); err != nil {
		logger.Error("Failed to save generated page", zap.Error(err))
		httputil.ErrorFromDomain(w, err)
		return
	}

	resp := toLandingPageResponse(gen)
	resp.HTML = res.HTML
	resp.DurationMS = res.Duration.Milliseconds()

	w.Header().Set("Location", "/api/v1/landing-pages/"+gen.ID.String())
	httputil.JSON(w, http.StatusCreated, resp)
}

func parseCustomImages(in map[string]string) (map[domain.ImageSlot]string, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[domain.ImageSlot]string, len(in))
	for k, v := range in {
		slot := domain.ImageSlot(k)
		if !slot.IsValid() {
			return nil, domain.ErrValidationField("customImages", "unknown image slot: "+k)
		}
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if !strings.HasPrefix(v, "https://") && !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "data:image/") {
			return nil, domain.ErrValidationField("customImages", "image "+k+" must be an http(s) URL or an image data URI")
		}
		out[slot] = v
	}
	return out, nil
}

func (h *LandingPageHandler) loadGeneration(w http.ResponseWriter, r *http.Request) (*domain.Generation, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.ErrorFromDomain(w, domain.ErrInvalidID("landing page", chi.URLParam(r, "id")))
		return nil, false
	}
	gen, err := h.store.GetGeneration(r.Context(), id)
	if err != nil {
		httputil.ErrorFromDomain(w, err)
		return nil, false
	}
	return gen, true
}

// Get handles GET /api/v1/landing-pages/{id}
func (h *LandingPageHandler) Get(w http.ResponseWriter, r *http.Request) {
	gen, ok := h.loadGeneration(w, r)
	if !ok {
		return
	}

	resp := toLandingPageResponse(gen)
	if gen.WorkflowID != "" && !gen.Status.IsTerminal() && h.workflows != nil {
		if status, err := h.workflows.WorkflowStatus(r.Context(), gen.WorkflowID); err == nil {
			resp.WorkflowStatus = status
		} else {
			h.logger.Debug("Workflow status unavailable", zap.String("workflow_id", gen.WorkflowID), zap.Error(err))
		}
	}
	httputil.JSON(w, http.StatusOK, resp)
}

// HTML handles GET /api/v1/landing-pages/{id}/html
func (h *LandingPageHandler) HTML(w http.ResponseWriter, r *http.Request) {
	gen, ok := h.loadGeneration(w, r)
	if !ok {
		return
	}
	html, err := h.store.GetHTML(r.Context(), gen.ID)
	if err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}
	httputil.HTML(w, http.StatusOK, html)
}

// Download handles GET /api/v1/landing-pages/{id}/download
func (h *LandingPageHandler) Download(w http.ResponseWriter, r *http.Request) {
	gen, ok := h.loadGeneration(w, r)
	if !ok {
		return
	}
	html, err := h.store.GetHTML(r.Context(), gen.ID)
	if err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}
	w.Header().Set("Content-Disposition", storage.ContentDisposition(gen.FileName()))
	httputil.HTML(w, http.StatusOK, html)
}

// UpdateImagesRequest overrides image slots of a finished page. An empty value
// removes the override and restores the generated image.
type UpdateImagesRequest struct {
	CustomImages map[string]string `json:"customImages"`
}

// UpdateImages handles PUT /api/v1/landing-pages/{id}/images
func (h *LandingPageHandler) UpdateImages(w http.ResponseWriter, r *http.Request) {
	if h.renderer == nil {
		httputil.ErrorFromDomain(w, domain.ErrServiceUnavailable("render"))
		return
	}
	var req UpdateImagesRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}
	if len(req.CustomImages) == 0 {
		httputil.ErrorFromDomain(w, domain.ErrValidationField("customImages", "customImages is required"))
		return
	}
	set, err := parseCustomImages(req.CustomImages)
	if err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	gen, ok := h.loadGeneration(w, r)
	if !ok {
		return
	}
	if gen.Status != domain.GenerationCompleted || gen.Profile == nil {
		httputil.ErrorFromDomain(w, domain.ErrConflict("A landing page ainda não foi concluída").
			WithMetadata("status", string(gen.Status)))
		return
	}

	profile := *gen.Profile
	custom := make(map[domain.ImageSlot]string, len(profile.CustomImages)+len(set))
	for slot, u := range profile.CustomImages {
		custom[slot] = u
	}
	for k, v := range req.CustomImages {
		if strings.TrimSpace(v) == "" {
			delete(custom, domain.ImageSlot(k))
		}
	}
	for slot, u := range set {
		custom[slot] = u
	}
	profile.CustomImages = custom

	html, err := h.renderer.Rerender(r.Context(), &profile, gen.ID.String(), nil)
	if err != nil {
		if !domain.IsAppError(err) {
			err = domain.ErrGenerationFailed("html", err)
		}
		h.logger.Warn("Re-render failed", zap.String("generation_id", gen.ID.String()), zap.Error(err))
		httputil.ErrorFromDomain(w, err)
		return
	}

	gen.Complete(&profile, html)
	gen.ExportURL = ""
	if err := h.store.SaveGeneration(r.Context(), gen); err != nil {
		h.logger.Error("Failed to save re-rendered page", zap.String("generation_id", gen.ID.String()), zap.Error(err))
		httputil.ErrorFromDomain(w, err)
		return
	}

	resp := toLandingPageResponse(gen)
	resp.HTML = html
	httputil.JSON(w, http.StatusOK, resp)
}

// ExportResponse describes an uploaded page
type ExportResponse struct {
	ID        string `json:"id"`
	Key       string `json:"key"`
	URL       string `json:"url"`
	ExpiresAt string `json:"expiresAt"`
	Size      int64  `json:"size"`
	Inlined   bool   `json:"inlined"`
}

// Export handles POST /api/v1/landing-pages/{id}/export
func (h *LandingPageHandler) Export(w http.ResponseWriter, r *http.Request) {
	if h.exporter == nil {
		httputil.ErrorFromDomain(w, domain.ErrServiceUnavailable("storage"))
		return
	}
	gen, ok := h.loadGeneration(w, r)
	if !ok {
		return
	}
	html, err := h.store.GetHTML(r.Context(), gen.ID)
	if err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}

	inline := h.cfg.InlineOnExport
	if v := r.URL.Query().Get("inline"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			inline = parsed
		}
	}
	inline = inline && h.inliner != nil

	if inline {
		html, err = h.inliner.InlineHTML(r.Context(), html)
		if err != nil {
			h.metrics.RecordExport("failed")
			httputil.ErrorFromDomain(w, domain.ErrExportFailed(err))
			return
		}
	}

	exp, err := h.exporter.ExportHTML(r.Context(), gen.ID.String(), gen.FileName(), html)
	if err != nil {
		h.metrics.RecordExport("failed")
		h.logger.Error("Export failed", zap.String("generation_id", gen.ID.String()), zap.Error(err))
		httputil.ErrorFromDomain(w, domain.ErrExportFailed(err))
		return
	}
	h.metrics.RecordExport("success")

	gen.ExportURL = exp.URL
	gen.UpdatedAt = time.Now().UTC()
	if err := h.store.SaveGeneration(r.Context(), gen); err != nil {
		h.logger.Warn("Failed to record export url", zap.String("generation_id", gen.ID.String()), zap.Error(err))
	}

	httputil.JSON(w, http.StatusOK, ExportResponse{
		ID:        gen.ID.String(),
		Key:       exp.Key,
		URL:       exp.URL,
		ExpiresAt: exp.ExpiresAt.Format(time.RFC3339),
		Size:      exp.Size,
		Inlined:   inline,
	})
}
