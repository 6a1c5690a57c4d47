package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/landingforge/landingforge/internal/domain"
	"github.com/landingforge/landingforge/internal/llm"
)

// SEOConfig controls the SEO agent.
type SEOConfig struct {
	// UseLLM enables the model call. When false no request is made.
	UseLLM            bool
	GoogleAnalyticsID string
	FacebookPixelID   string
}

// SEOInput describes the page being indexed.
type SEOInput struct {
	BusinessName string
	BusinessType string
	Instructions string
	Contact      domain.Contact
	CanonicalURL string
	OGImage      string
}

// SEOAgent derives head metadata. The deterministic record is always built; the
// model result, when enabled, is laid over it field by field.
type SEOAgent struct {
	base
	cfg SEOConfig
}

// NewSEOAgent creates an SEOAgent. d.LLM may be nil when cfg.UseLLM is false.
func NewSEOAgent(d Deps, cfg SEOConfig) *SEOAgent {
	return &SEOAgent{base: newBase(NameSEO, d), cfg: cfg}
}

type seoAnswer struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Keywords           []string `json:"keywords"`
	OGTitle            string   `json:"ogTitle"`
	OGDescription      string   `json:"ogDescription"`
	TwitterTitle       string   `json:"twitterTitle"`
	TwitterDescription string   `json:"twitterDescription"`
}

// Generate returns SEO metadata for the page.
func (a *SEOAgent) Generate(ctx context.Context, in SEOInput) (*domain.SEOMetadata, error) {
	meta := a.Deterministic(in)
	if !a.cfg.UseLLM {
		return meta, nil
	}
	if err := a.checkClient(); err != nil {
		return nil, err
	}

	var ans seoAnswer
	req := a.request(seoSystemPrompt, seoPrompt(in), 0.3, 800)
	if err := llm.CompleteJSON(ctx, a.llm, req, &ans); err != nil {
		if a.degrade(err) {
			return meta, nil
		}
		return nil, err
	}

	overlaySEO(meta, ans)
	a.logger.Debug("seo generated", zap.String("title", meta.Title))
	return meta, nil
}

func overlaySEO(meta *domain.SEOMetadata, ans seoAnswer) {
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&meta.Title, ans.Title)
	set(&meta.Description, ans.Description)
	set(&meta.OGTitle, ans.OGTitle)
	set(&meta.OGDescription, ans.OGDescription)
	set(&meta.TwitterTitle, ans.TwitterTitle)
	set(&meta.TwitterDescription, ans.TwitterDescription)

	var keywords []string
	for _, k := range ans.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	if len(keywords) > 0 {
		meta.Keywords = keywords
	}
}

// Deterministic builds the SEO record without the model. Equal inputs give equal output.
func (a *SEOAgent) Deterministic(in SEOInput) *domain.SEOMetadata {
	name := orDefault(in.BusinessName, "Empresa")
	kind := orDefault(in.BusinessType, "Negócio")
	lowerKind := strings.ToLower(kind)

	title := fmt.Sprintf("%s - %s Profissional | Qualidade Garantida", name, kind)
	description := fmt.Sprintf("%s: %s com atendimento personalizado, qualidade e confiança. Entre em contato e conheça nossos serviços.", name, lowerKind)

	return &domain.SEOMetadata{
		Title:       title,
		Description: description,
		Keywords: []string{
			name,
			lowerKind,
			lowerKind + " profissional",
			lowerKind + " de qualidade",
			"melhor " + lowerKind,
			lowerKind + " perto de mim",
		},
		OGTitle:            title,
		OGDescription:      description,
		OGImage:            in.OGImage,
		OGType:             "website",
		TwitterCard:        "summary_large_image",
		TwitterTitle:       title,
		TwitterDescription: description,
		TwitterImage:       in.OGImage,
		CanonicalURL:       in.CanonicalURL,
		GoogleAnalyticsID:  a.cfg.GoogleAnalyticsID,
		FacebookPixelID:    a.cfg.FacebookPixelID,
		CustomHeadTags:     customHeadTags(name),
		StructuredData:     localBusinessJSONLD(name, description, in),
	}
}

func customHeadTags(name string) string {
	return strings.Join([]string{
		`<meta name="robots" content="index, follow">`,
		fmt.Sprintf(`<meta name="author" content="%s">`, htmlAttrEscaper.Replace(name)),
		`<meta name="geo.region" content="BR">`,
		`<meta name="language" content="pt-BR">`,
		`<link rel="preconnect" href="https://fonts.googleapis.com">`,
		`<link rel="preconnect" href="https://fonts.gstatic.com" crossorigin>`,
	}, "\n")
}

var htmlAttrEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;")

type jsonLDAddress struct {
	Type          string `json:"@type"`
	StreetAddress string `json:"streetAddress"`
	Country       string `json:"addressCountry"`
}

type jsonLDBusiness struct {
	Context     string         `json:"@context"`
	Type        string         `json:"@type"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	URL         string         `json:"url,omitempty"`
	Image       string         `json:"image,omitempty"`
	Telephone   string         `json:"telephone,omitempty"`
	Email       string         `json:"email,omitempty"`
	Address     *jsonLDAddress `json:"address,omitempty"`
	SameAs      []string       `json:"sameAs,omitempty"`
}

func localBusinessJSONLD(name, description string, in SEOInput) string {
	doc := jsonLDBusiness{
		Context:     "https://schema.org",
		Type:        "LocalBusiness",
		Name:        name,
		Description: description,
		URL:         in.CanonicalURL,
		Image:       in.OGImage,
		Telephone:   in.Contact.Phone,
		Email:       in.Contact.Email,
	}
	if in.Contact.Address != "" {
		doc.Address = &jsonLDAddress{Type: "PostalAddress", StreetAddress: in.Contact.Address, Country: "BR"}
	}
	for _, link := range []string{in.Contact.SocialMedia.Instagram, in.Contact.SocialMedia.Facebook, in.Contact.SocialMedia.LinkedIn} {
		if strings.HasPrefix(link, "http") {
			doc.SameAs = append(doc.SameAs, link)
		}
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return ""
	}
	return string(b)
}
