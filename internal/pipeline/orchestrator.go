// Package pipeline runs the agents in order and turns a briefing into a rendered page.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/landingforge/landingforge/internal/agents"
	"github.com/landingforge/landingforge/internal/briefing"
	"github.com/landingforge/landingforge/internal/domain"
	"github.com/landingforge/landingforge/internal/htmlgen"
	"github.com/landingforge/landingforge/internal/images"
	"github.com/landingforge/landingforge/internal/templates"
)

// Stage names one step of a generation
type Stage string

const (
	StageBriefing       Stage = "briefing"
	StageContent        Stage = "content"
	StageDesign         Stage = "design"
	StageSellerbot      Stage = "sellerbot"
	StageSEO            Stage = "seo"
	StageImagePrompts   Stage = "image_prompts"
	StageCopy           Stage = "copy"
	StageTemplate       Stage = "template_select"
	StageDataStructures Stage = "data_structures"
	StageMerge          Stage = "merge"
	StageValidate       Stage = "validate"
	StageHTML           Stage = "html"
)

// Stages lists every stage in execution order.
var Stages = []Stage{
	StageBriefing,
	StageContent,
	StageDesign,
	StageSellerbot,
	StageSEO,
	StageImagePrompts,
	StageCopy,
	StageTemplate,
	StageDataStructures,
	StageMerge,
	StageValidate,
	StageHTML,
}

// ProgressFunc is called as each stage starts. n is 1-based.
type ProgressFunc func(stage Stage, n, total int)

// Metrics receives stage and generation measurements. observability.Metrics implements it.
type Metrics interface {
	RecordStage(stage, status string, duration time.Duration)
	RecordGeneration(template, status string, duration time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) RecordStage(string, string, time.Duration)      {}
func (nopMetrics) RecordGeneration(string, string, time.Duration) {}

// Agents bundles the agents a generation runs
type Agents struct {
	Content     *agents.ContentAgent
	Design      *agents.DesignAgent
	ImagePrompt *agents.ImagePromptAgent
	Copy        *agents.CopyAgent
	SEO         *agents.SEOAgent
	Sellerbot   *agents.SellerbotAgent
	Data        *agents.DataStructureAgent
}

// NewAgents builds every agent on the same dependencies. rng may be nil.
func NewAgents(d agents.Deps, seo agents.SEOConfig, rng *rand.Rand) Agents {
	return Agents{
		Content:     agents.NewContentAgent(d),
		Design:      agents.NewDesignAgent(d),
		ImagePrompt: agents.NewImagePromptAgent(d),
		Copy:        agents.NewCopyAgent(d),
		SEO:         agents.NewSEOAgent(d, seo),
		Sellerbot:   agents.NewSellerbotAgent(d),
		Data:        agents.NewDataStructureAgent(rng),
	}
}

// Config for the orchestrator
type Config struct {
	// Timeout bounds a whole generation. Zero means no limit beyond the caller's context.
	Timeout time.Duration
	// PublicBaseURL is used for canonical URLs of stored pages.
	PublicBaseURL string
}

// Request is one generation request
type Request struct {
	Prompt       string
	CustomImages map[domain.ImageSlot]string
	// PageID is the stored generation id, when known before rendering.
	PageID string
}

// Result is a finished generation
type Result struct {
	Briefing domain.ProcessedBriefing
	Profile  *domain.BusinessProfile
	HTML     string
	// Images are the final slot URLs the page was rendered with.
	Images   map[domain.ImageSlot]string
	Duration time.Duration
}

// Orchestrator runs the generation stages
type Orchestrator struct {
	cfg        Config
	agents     Agents
	normalizer *briefing.Normalizer
	html       *htmlgen.Generator
	builder    *images.Builder
	metrics    Metrics
	logger     *zap.Logger
}

// NewOrchestrator creates an Orchestrator. metrics and logger may be nil.
func NewOrchestrator(cfg Config, a Agents, html *htmlgen.Generator, builder *images.Builder, metrics Metrics, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if builder == nil {
		builder = images.NewBuilder(images.DefaultConfig())
	}
	if html == nil {
		html = htmlgen.NewGenerator(htmlgen.Config{}, builder, logger)
	}
	return &Orchestrator{
		cfg:        cfg,
		agents:     a,
		normalizer: briefing.NewNormalizer(logger),
		html:       html,
		builder:    builder,
		metrics:    metrics,
		logger:     logger.Named("pipeline"),
	}
}

// run tracks the current stage of one generation.
type run struct {
	o        *Orchestrator
	progress ProgressFunc
	logger   *zap.Logger
	n        int
}

func (r *run) stage(ctx context.Context, st Stage, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", st, err)
	}
	r.n++
	if r.progress != nil {
		r.progress(st, r.n, len(Stages))
	}

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	status := "success"
	if err != nil {
		status = "error"
	}
	r.o.metrics.RecordStage(string(st), status, elapsed)

	if err != nil {
		r.logger.Warn("stage failed", zap.String("stage", string(st)), zap.Duration("duration", elapsed), zap.Error(err))
		return stageError(st, err)
	}
	r.logger.Debug("stage completed", zap.String("stage", string(st)), zap.Duration("duration", elapsed))
	return nil
}

// stageError keeps cancellation and domain errors recognizable and hides the rest
// behind a generic generation failure.
func stageError(st Stage, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", st, err)
	}
	if domain.IsAppError(err) {
		return err
	}
	return domain.ErrGenerationFailed(string(st), err)
}

// Generate runs every stage for req. progress may be nil.
func (o *Orchestrator) Generate(ctx context.Context, req Request, progress ProgressFunc) (*Result, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, domain.ErrValidationField("prompt", "prompt is required")
	}
	if o.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	logger := o.logger.With(zap.String("page_id", req.PageID))
	r := &run{o: o, progress: progress, logger: logger}

	var (
		brief       domain.ProcessedBriefing
		content     *agents.ContentOutput
		design      *agents.DesignOutput
		bot         *domain.Sellerbot
		seo         *domain.SEOMetadata
		prompts     map[domain.ImageSlot]string
		cp          *agents.CopyOutput
		tpl         domain.Template
		collections agents.Collections
		profile     *domain.BusinessProfile
		resolved    map[domain.ImageSlot]string
		html        string
	)

	steps := []struct {
		stage Stage
		fn    func(context.Context) error
	}{
		{StageBriefing, func(context.Context) error {
			brief = o.normalizer.Normalize(req.Prompt)
			return nil
		}},
		{StageContent, func(ctx context.Context) (err error) {
			content, err = o.agents.Content.Generate(ctx, brief.Instructions(), brief.BusinessName)
			return err
		}},
		{StageDesign, func(ctx context.Context) (err error) {
			design, err = o.agents.Design.Generate(ctx, brief.Instructions(), brief.BusinessName)
			return err
		}},
		{StageSellerbot, func(ctx context.Context) (err error) {
			bot, err = o.agents.Sellerbot.GeneratePersona(ctx, brief.Instructions(), brief.BusinessName, brief.BusinessType)
			return err
		}},
		{StageSEO, func(ctx context.Context) (err error) {
			seo, err = o.agents.SEO.Generate(ctx, agents.SEOInput{
				BusinessName: brief.BusinessName,
				BusinessType: brief.BusinessType,
				Instructions: brief.Instructions(),
				Contact:      MergeContact(brief, content.Contact),
				CanonicalURL: o.canonicalURL(req.PageID),
			})
			return err
		}},
		{StageImagePrompts, func(ctx context.Context) (err error) {
			prompts, err = o.agents.ImagePrompt.Generate(ctx, brief.Instructions(), brief.BusinessName, design.Images)
			return err
		}},
		{StageCopy, func(ctx context.Context) (err error) {
			cp, err = o.agents.Copy.Generate(ctx, brief.Instructions(), brief.BusinessName, brief.BusinessType, content)
			return err
		}},
		{StageTemplate, func(context.Context) error {
			tpl = templates.SelectForBusiness(brief.BusinessType)
			return nil
		}},
		{StageDataStructures, func(context.Context) error {
			collections = o.agents.Data.ForTemplate(tpl, brief.BusinessName, brief.BusinessType)
			return nil
		}},
		{StageMerge, func(context.Context) error {
			profile = Merge(MergeInput{
				Briefing:     brief,
				Content:      content,
				Design:       design,
				ImagePrompts: prompts,
				Copy:         cp,
				Sellerbot:    bot,
				SEO:          seo,
				Template:     tpl,
				Collections:  collections,
				CustomImages: req.CustomImages,
			})
			return nil
		}},
		{StageValidate, func(context.Context) error {
			return profile.Validate()
		}},
		{StageHTML, func(ctx context.Context) (err error) {
			resolved = images.Resolve(profile, o.builder)
			var opts []htmlgen.RenderOption
			if req.PageID != "" {
				opts = append(opts, htmlgen.WithPageID(req.PageID))
			}
			html, err = o.html.Render(ctx, profile, resolved, opts...)
			return err
		}},
	}

	for _, s := range steps {
		if err := r.stage(ctx, s.stage, s.fn); err != nil {
			o.metrics.RecordGeneration(string(tpl.ID), "failed", time.Since(start))
			return nil, err
		}
	}

	elapsed := time.Since(start)
	o.metrics.RecordGeneration(string(tpl.ID), "success", elapsed)
	logger.Info("landing page generated",
		zap.String("business", brief.BusinessName),
		zap.String("template", string(tpl.ID)),
		zap.Bool("copy_fallback", cp.Fallback),
		zap.Int("html_bytes", len(html)),
		zap.Duration("duration", elapsed),
	)

	return &Result{
		Briefing: brief,
		Profile:  profile,
		HTML:     html,
		Images:   resolved,
		Duration: elapsed,
	}, nil
}

// Rerender renders a stored profile again, for example after custom images change.
// A nil resolved map resolves the profile's images; the CLI passes inlined data URIs.
func (o *Orchestrator) Rerender(ctx context.Context, profile *domain.BusinessProfile, pageID string, resolved map[domain.ImageSlot]string) (string, error) {
	var opts []htmlgen.RenderOption
	if pageID != "" {
		opts = append(opts, htmlgen.WithPageID(pageID))
	}

	start := time.Now()
	html, err := o.html.Render(ctx, profile, resolved, opts...)
	status := "success"
	if err != nil {
		status = "error"
	}
	o.metrics.RecordStage(string(StageHTML), status, time.Since(start))
	return html, err
}

func (o *Orchestrator) canonicalURL(pageID string) string {
	if pageID == "" || o.cfg.PublicBaseURL == "" {
		return ""
	}
	return strings.TrimRight(o.cfg.PublicBaseURL, "/") + "/api/v1/landing-pages/" + pageID + "/html"
}
