// Package images turns image prompts into generation URLs and inlines them for export.
package images

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/landingforge/landingforge/internal/domain"
)

// Size is the requested image size in pixels
type Size struct {
	Width  int
	Height int
}

// Config for the image-generation endpoint
type Config struct {
	BaseURL string
	Size    Size
	Enhance bool
	NoLogo  bool
}

// DefaultConfig returns the public endpoint settings
func DefaultConfig() Config {
	return Config{
		BaseURL: "https://image.pollinations.ai/prompt/",
		Size:    Size{Width: 1024, Height: 768},
		Enhance: true,
		NoLogo:  true,
	}
}

// LogoSize is used for the logo slot regardless of the configured size.
var LogoSize = Size{Width: 512, Height: 512}

// Builder builds image URLs
type Builder struct {
	cfg Config
}

// NewBuilder creates a Builder. Zero sizes fall back to DefaultConfig.
func NewBuilder(cfg Config) *Builder {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Size.Width <= 0 || cfg.Size.Height <= 0 {
		cfg.Size = def.Size
	}
	return &Builder{cfg: cfg}
}

// BuildURL is base URL + escaped prompt + size and rendering flags.
func (b *Builder) BuildURL(prompt string, size Size) string {
	base := b.cfg.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	q := fmt.Sprintf("?width=%d&height=%d", size.Width, size.Height)
	if b.cfg.Enhance {
		q += "&enhance=true"
	}
	if b.cfg.NoLogo {
		q += "&nologo=true"
	}
	return base + url.PathEscape(strings.TrimSpace(prompt)) + q
}

// URL builds a URL at the configured size.
func (b *Builder) URL(prompt string) string {
	return b.BuildURL(prompt, b.cfg.Size)
}

// SlotURL builds a URL sized for slot.
func (b *Builder) SlotURL(slot domain.ImageSlot, prompt string) string {
	if slot == domain.SlotLogo {
		return b.BuildURL(prompt, LogoSize)
	}
	return b.URL(prompt)
}

// Resolve returns a final URL for every slot. CustomImages always win; slots without
// a prompt get one derived from the business name and type.
func Resolve(p *domain.BusinessProfile, b *Builder) map[domain.ImageSlot]string {
	out := make(map[domain.ImageSlot]string, len(domain.ImageSlots))
	for _, slot := range domain.ImageSlots {
		if custom := strings.TrimSpace(p.CustomImages[slot]); custom != "" {
			out[slot] = custom
			continue
		}
		prompt := strings.TrimSpace(p.Images[slot])
		if prompt == "" {
			prompt = defaultPrompt(p, slot)
		}
		out[slot] = b.SlotURL(slot, prompt)
	}
	return out
}

func defaultPrompt(p *domain.BusinessProfile, slot domain.ImageSlot) string {
	kind := p.BusinessType
	if kind == "" {
		kind = "small business"
	}
	if slot == domain.SlotLogo {
		return fmt.Sprintf("minimal flat vector logo for %s, %s, plain background", p.DisplayName(), kind)
	}
	subject := string(slot)
	for _, sec := range p.Sections {
		if domain.SlotForSection(sec.Type) == slot && strings.TrimSpace(sec.Title) != "" {
			subject = strings.TrimSpace(sec.Title)
			break
		}
	}
	return fmt.Sprintf("%s, %s, %s, professional photography, natural light", p.DisplayName(), kind, subject)
}
