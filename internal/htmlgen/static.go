package htmlgen

import (
	"embed"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/landingforge/landingforge/internal/domain"
)

//go:embed files/*.html
var staticFiles embed.FS

// staticTemplate returns the hand-written page for id, if one is embedded.
func staticTemplate(id domain.TemplateID) (string, bool) {
	raw, err := staticFiles.ReadFile("files/" + string(id) + ".html")
	if err != nil {
		return "", false
	}
	return string(raw), true
}

// HasStaticTemplate reports whether id renders from an embedded file.
func HasStaticTemplate(id domain.TemplateID) bool {
	_, ok := staticTemplate(id)
	return ok
}

// placeholderValues maps every bracketed token to its escaped replacement.
// Tokens holding markup (TESTIMONIALS, FAQ) are rendered nodes and not escaped again.
func placeholderValues(pg *page) (map[string]string, error) {
	p := pg.profile
	ct := p.Contact

	vals := map[string]string{
		"BUSINESS_NAME": p.DisplayName(),
		"TITLE":         p.Title,
		"SUBTITLE":      p.Subtitle,
		"HERO_TEXT":     p.HeroText,
		"CTA_TEXT":      pg.ctaText(),
		"CTA_LINK":      pg.ctaHref(),
		"PHONE":         ct.Phone,
		"EMAIL":         ct.Email,
		"ADDRESS":       ct.Address,
		"WHATSAPP_LINK": orElse(whatsAppLink(ct.SocialMedia.WhatsApp), pg.ctaHref()),
		"MAPS_LINK":     mapsLink(ct.Address),
		"YEAR":          strconv.Itoa(time.Now().Year()),
	}
	for _, slot := range domain.ImageSlots {
		vals[strings.ToUpper(string(slot))+"_IMAGE"] = cssURL(pg.images[slot])
	}
	for _, t := range domain.CanonicalSectionTypes {
		s, _ := p.SectionByType(t)
		key := "SECTION_" + strings.ToUpper(string(t))
		vals[key+"_TITLE"] = s.Title
		vals[key+"_CONTENT"] = s.Content
	}
	for k, v := range vals {
		vals[k] = html.EscapeString(v)
	}

	testimonials, err := renderNode(testimonialGrid(p.Testimonials))
	if err != nil {
		return nil, err
	}
	faq, err := renderNode(faqItems(p))
	if err != nil {
		return nil, err
	}
	vals["TESTIMONIALS"] = testimonials
	vals["FAQ"] = faq
	return vals, nil
}

var placeholderPattern = regexp.MustCompile(`\[([A-Z_]+)\]`)

// fillPlaceholders substitutes known tokens and leaves unknown brackets untouched.
func fillPlaceholders(doc string, vals map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(doc, func(m string) string {
		if v, ok := vals[m[1:len(m)-1]]; ok {
			return v
		}
		return m
	})
}

var (
	headClose = regexp.MustCompile(`(?i)</head>`)
	bodyOpen  = regexp.MustCompile(`(?i)<body[^>]*>`)
	bodyClose = regexp.MustCompile(`(?i)</body>`)
)

// inject places head markup, the fixed header and the chat widget into a full document.
// Offsets come from matching doc itself, never a lowered copy.
func inject(doc, head, header, chat string) string {
	if loc := headClose.FindStringIndex(doc); loc != nil {
		doc = doc[:loc[0]] + head + doc[loc[0]:]
	}
	if loc := bodyOpen.FindStringIndex(doc); loc != nil {
		doc = doc[:loc[1]] + header + doc[loc[1]:]
	}
	if all := bodyClose.FindAllStringIndex(doc, -1); len(all) > 0 {
		i := all[len(all)-1][0]
		doc = doc[:i] + chat + doc[i:]
	} else {
		doc += chat
	}
	return doc
}
