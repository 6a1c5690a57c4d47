// Package htmlgen renders a BusinessProfile into a standalone landing page.
//
// Pages come from one of two paths, chosen by the profile's template: templates
// with an embedded file under files/ are filled by placeholder substitution, the
// rest are built section by section. Both paths share the head, header, styles and
// chat widget.
package htmlgen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/landingforge/landingforge/internal/domain"
	"github.com/landingforge/landingforge/internal/images"
	"github.com/landingforge/landingforge/internal/templates"
)

// Config for the generator
type Config struct {
	// ChatEndpoint is the sellerbot proxy the widget posts to.
	ChatEndpoint string
}

// Generator renders landing pages
type Generator struct {
	cfg     Config
	builder *images.Builder
	logger  *zap.Logger
}

// NewGenerator creates a Generator. A nil builder uses the default image endpoint.
func NewGenerator(cfg Config, builder *images.Builder, logger *zap.Logger) *Generator {
	if cfg.ChatEndpoint == "" {
		cfg.ChatEndpoint = "/api/v1/sellerbot/chat"
	}
	if builder == nil {
		builder = images.NewBuilder(images.DefaultConfig())
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{cfg: cfg, builder: builder, logger: logger.Named("htmlgen")}
}

type renderOptions struct {
	pageID string
}

// RenderOption configures a single Render call
type RenderOption func(*renderOptions)

// WithPageID lets the chat widget identify the stored page to the proxy.
func WithPageID(id string) RenderOption {
	return func(o *renderOptions) { o.pageID = id }
}

// TemplateFor returns the template a profile renders with.
func TemplateFor(p *domain.BusinessProfile) domain.Template {
	if tpl, ok := templates.ByID(p.TemplateID); ok {
		return tpl
	}
	return templates.SelectForBusiness(p.BusinessType)
}

// Render produces the full HTML document. resolved maps slots to final image URLs;
// when nil it is computed with images.Resolve.
func (gen *Generator) Render(ctx context.Context, p *domain.BusinessProfile, resolved map[domain.ImageSlot]string, opts ...RenderOption) (string, error) {
	if p == nil {
		return "", domain.ErrIncompleteProfile("no profile")
	}
	if err := p.Validate(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var o renderOptions
	for _, opt := range opts {
		opt(&o)
	}

	tpl := TemplateFor(p)
	if resolved == nil {
		resolved = images.Resolve(p, gen.builder)
	}

	colors := p.Colors
	if !colors.IsValid() {
		colors = tpl.DefaultColors
	}
	style := newStyleData(colors, p.Fonts)
	css, err := renderStyle(style)
	if err != nil {
		return "", fmt.Errorf("render style: %w", err)
	}
	script, err := renderChatScript(newChatConfig(p, gen.cfg.ChatEndpoint, o.pageID))
	if err != nil {
		return "", fmt.Errorf("render chat script: %w", err)
	}

	pg := &page{profile: p, tpl: tpl, images: resolved, builder: gen.builder}
	head := headNodes(p, css, style.fontsURL(), resolved[domain.SlotHero])

	start := time.Now()
	var doc string
	if static, ok := staticTemplate(tpl.ID); ok {
		doc, err = gen.renderStatic(pg, static, head, script)
	} else {
		doc, err = renderNode(document(pg, head, script))
	}
	if err != nil {
		return "", fmt.Errorf("render %s: %w", tpl.ID, err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	doc = replaceStockImages(doc, resolved)

	gen.logger.Debug("page rendered",
		zap.String("template", string(tpl.ID)),
		zap.Int("bytes", len(doc)),
		zap.Duration("duration", time.Since(start)),
	)
	return doc, nil
}

func (gen *Generator) renderStatic(pg *page, static string, head []g.Node, script string) (string, error) {
	vals, err := placeholderValues(pg)
	if err != nil {
		return "", err
	}
	headHTML, err := renderNode(g.Group(head))
	if err != nil {
		return "", err
	}
	headerHTML, err := renderNode(header(pg))
	if err != nil {
		return "", err
	}
	chatHTML, err := renderNode(chatWidget(pg.profile, script))
	if err != nil {
		return "", err
	}
	return inject(fillPlaceholders(static, vals), headHTML, headerHTML, chatHTML), nil
}

func document(pg *page, head []g.Node, script string) g.Node {
	var body []g.Node
	for _, s := range pg.tpl.Sections {
		if r, ok := renderers[s.Kind]; ok {
			body = append(body, r(pg, s))
		}
	}

	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(Lang("pt-BR"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
				g.Group(head),
			),
			Body(
				header(pg),
				Main(g.Group(body)),
				footer(pg),
				chatWidget(pg.profile, script),
			),
		),
	})
}

func header(pg *page) g.Node {
	logo := pg.images[domain.SlotLogo]
	name := pg.profile.DisplayName()
	return Header(Class("lf-header"),
		Div(Class("container"),
			A(Class("lf-brand"), Href("#"+firstSectionID(pg.tpl)),
				g.If(logo != "", Img(Src(logo), Alt("Logo "+name))),
				Span(g.Text(name)),
			),
			Nav(Class("lf-nav"), g.Map(navSections(pg.tpl), func(s domain.TemplateSection) g.Node {
				return A(Href("#"+s.ID), g.Text(s.Name))
			})),
		),
	)
}

func navSections(tpl domain.Template) []domain.TemplateSection {
	var out []domain.TemplateSection
	for _, s := range tpl.Sections {
		if s.Kind == domain.KindHero {
			continue
		}
		out = append(out, s)
	}
	return out
}

func firstSectionID(tpl domain.Template) string {
	if len(tpl.Sections) == 0 {
		return ""
	}
	return tpl.Sections[0].ID
}

func footer(pg *page) g.Node {
	return Footer(Class("lf-footer"),
		Div(Class("container"),
			g.Textf("© %d %s. Todos os direitos reservados.", time.Now().Year(), pg.profile.DisplayName()),
		),
	)
}

func renderNode(n g.Node) (string, error) {
	var sb strings.Builder
	if err := n.Render(&sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}
