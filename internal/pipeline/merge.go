package pipeline

import (
	"regexp"
	"strings"

	"github.com/landingforge/landingforge/internal/agents"
	"github.com/landingforge/landingforge/internal/domain"
)

// Placeholders used when no source provides a contact field.
const (
	PlaceholderPhone   = "(11) 99999-9999"
	PlaceholderAddress = "Atendemos em toda a região"
)

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`(?:\+?55\s?)?\(?\d{2}\)?\s?9?\d{4}[-\s]?\d{4}`)
	slugPattern  = regexp.MustCompile(`[^a-z0-9]+`)
)

// MergeInput is everything the agents produced for one request.
type MergeInput struct {
	Briefing     domain.ProcessedBriefing
	Content      *agents.ContentOutput
	Design       *agents.DesignOutput
	ImagePrompts map[domain.ImageSlot]string
	Copy         *agents.CopyOutput
	Sellerbot    *domain.Sellerbot
	SEO          *domain.SEOMetadata
	Template     domain.Template
	Collections  agents.Collections
	CustomImages map[domain.ImageSlot]string
}

// Merge folds agent outputs into one profile. Precedence:
// copy over content (by section id, and hero text); explicit briefing fields over
// agent output; image-prompt prompts over design descriptions. Custom images are
// carried through and win when images are resolved.
func Merge(in MergeInput) *domain.BusinessProfile {
	content := in.Content
	if content == nil {
		content = &agents.ContentOutput{}
	}
	b := in.Briefing

	p := &domain.BusinessProfile{
		Title:        strings.TrimSpace(content.Title),
		Subtitle:     content.Subtitle,
		HeroText:     content.HeroText,
		CTAText:      orElse(content.CTAText, "Fale Conosco"),
		Sections:     mergeSections(content.Sections, in.Copy),
		Contact:      MergeContact(b, content.Contact),
		SEO:          in.SEO,
		TemplateID:   in.Template.ID,
		BusinessName: b.BusinessName,
		BusinessType: b.BusinessType,

		Testimonials:  in.Collections.Testimonials,
		GalleryImages: in.Collections.GalleryImages,
		Products:      in.Collections.Products,
		TeamMembers:   in.Collections.TeamMembers,
	}
	if p.Title == "" {
		p.Title = b.BusinessName
	}
	if in.Copy != nil && strings.TrimSpace(in.Copy.HeroText) != "" {
		p.HeroText = in.Copy.HeroText
	}
	if in.Sellerbot != nil {
		p.Sellerbot = *in.Sellerbot
	}

	var design agents.DesignOutput
	if in.Design != nil {
		design = *in.Design
	}
	p.Colors = mergeColors(b, design.Colors, in.Template.DefaultColors)
	p.Fonts = design.Fonts
	p.Images = mergeImages(design.Images, in.ImagePrompts)
	p.CustomImages = customImages(in.CustomImages)
	return p
}

func mergeSections(content []domain.Section, cp *agents.CopyOutput) []domain.Section {
	out := make([]domain.Section, len(content))
	copy(out, content)
	if cp == nil {
		return out
	}

	byID := make(map[string]agents.CopySection, len(cp.Sections))
	for _, s := range cp.Sections {
		byID[s.ID] = s
	}
	for i, s := range out {
		c, ok := byID[s.ID]
		if !ok {
			continue
		}
		if strings.TrimSpace(c.Title) != "" {
			out[i].Title = c.Title
		}
		if strings.TrimSpace(c.Content) != "" {
			out[i].Content = c.Content
		}
	}
	return out
}

// mergeColors resolves each color independently: an explicit briefing palette wins
// outright, then the design agent, then the niche palette, then the template default.
func mergeColors(b domain.ProcessedBriefing, design, defaults domain.Colors) domain.Colors {
	if b.PaletteExplicit && b.Colors.IsValid() {
		return b.Colors
	}
	pick := func(vals ...string) string {
		for _, v := range vals {
			if domain.IsHexColor(v) {
				return v
			}
		}
		return ""
	}
	return domain.Colors{
		Primary:   pick(design.Primary, b.Colors.Primary, defaults.Primary),
		Secondary: pick(design.Secondary, b.Colors.Secondary, defaults.Secondary),
		Accent:    pick(design.Accent, b.Colors.Accent, defaults.Accent),
	}
}

func mergeImages(descriptions, prompts map[domain.ImageSlot]string) map[domain.ImageSlot]string {
	out := make(map[domain.ImageSlot]string, len(domain.ImageSlots))
	for slot, d := range descriptions {
		if strings.TrimSpace(d) != "" {
			out[slot] = d
		}
	}
	for slot, pr := range prompts {
		if strings.TrimSpace(pr) != "" {
			out[slot] = pr
		}
	}
	return out
}

func customImages(in map[domain.ImageSlot]string) map[domain.ImageSlot]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[domain.ImageSlot]string, len(in))
	for slot, v := range in {
		if slot.IsValid() && strings.TrimSpace(v) != "" {
			out[slot] = strings.TrimSpace(v)
		}
	}
	return out
}

// MergeContact resolves each contact field: explicit briefing label, then a value
// found in the free-form "other contact" text, then the content agent, then a placeholder.
func MergeContact(b domain.ProcessedBriefing, fromContent domain.Contact) domain.Contact {
	first := func(vals ...string) string {
		for _, v := range vals {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
		return ""
	}

	return domain.Contact{
		Email:   first(b.Email, emailPattern.FindString(b.OtherContact), fromContent.Email, placeholderEmail(b.BusinessName)),
		Phone:   first(b.Phone, phonePattern.FindString(b.OtherContact), fromContent.Phone, PlaceholderPhone),
		Address: first(b.Address, fromContent.Address, PlaceholderAddress),
		SocialMedia: domain.SocialMedia{
			WhatsApp:  first(b.WhatsApp, fromContent.SocialMedia.WhatsApp),
			Instagram: first(b.Instagram, fromContent.SocialMedia.Instagram),
			Facebook:  first(b.Facebook, fromContent.SocialMedia.Facebook),
			LinkedIn:  first(b.LinkedIn, fromContent.SocialMedia.LinkedIn),
		},
	}
}

func placeholderEmail(businessName string) string {
	slug := strings.Trim(slugPattern.ReplaceAllString(foldAccents(strings.ToLower(businessName)), ""), "-")
	if slug == "" {
		slug = "empresa"
	}
	return "contato@" + slug + ".com.br"
}

var accentFolder = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a", "ä", "a",
	"é", "e", "ê", "e", "è", "e",
	"í", "i", "î", "i",
	"ó", "o", "ô", "o", "õ", "o", "ö", "o",
	"ú", "u", "ü", "u",
	"ç", "c", "ñ", "n",
)

func foldAccents(s string) string {
	return accentFolder.Replace(s)
}

func orElse(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
