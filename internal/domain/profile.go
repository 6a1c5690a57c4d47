package domain

import (
	"regexp"
	"strings"
)

// SectionType is the canonical role of a content section
type SectionType string

const (
	SectionIntro      SectionType = "intro"
	SectionMotivation SectionType = "motivation"
	SectionTarget     SectionType = "target"
	SectionMethod     SectionType = "method"
	SectionResults    SectionType = "results"
	SectionAccess     SectionType = "access"
	SectionInvestment SectionType = "investment"
)

// CanonicalSectionTypes lists the seven section types every profile must carry, in page order.
var CanonicalSectionTypes = []SectionType{
	SectionIntro,
	SectionMotivation,
	SectionTarget,
	SectionMethod,
	SectionResults,
	SectionAccess,
	SectionInvestment,
}

func (t SectionType) IsValid() bool {
	for _, c := range CanonicalSectionTypes {
		if t == c {
			return true
		}
	}
	return false
}

// ImageSlot names one of the fixed image positions of a page
type ImageSlot string

const (
	SlotLogo       ImageSlot = "logo"
	SlotHero       ImageSlot = "hero"
	SlotMotivation ImageSlot = "motivation"
	SlotTarget     ImageSlot = "target"
	SlotMethod     ImageSlot = "method"
	SlotResults    ImageSlot = "results"
	SlotAccess     ImageSlot = "access"
	SlotInvestment ImageSlot = "investment"
)

// ImageSlots lists every slot in render order.
var ImageSlots = []ImageSlot{
	SlotLogo,
	SlotHero,
	SlotMotivation,
	SlotTarget,
	SlotMethod,
	SlotResults,
	SlotAccess,
	SlotInvestment,
}

func (s ImageSlot) IsValid() bool {
	for _, c := range ImageSlots {
		if s == c {
			return true
		}
	}
	return false
}

// SlotForSection maps a section type to the image slot of the same name.
func SlotForSection(t SectionType) ImageSlot {
	return ImageSlot(t)
}

// Section is one block of page copy
type Section struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	Content string      `json:"content"`
	Type    SectionType `json:"type"`
}

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// IsHexColor reports whether s is a 6-digit hex color such as #1a2b3c.
func IsHexColor(s string) bool {
	return hexColorRe.MatchString(s)
}

// Colors is the page palette
type Colors struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

// IsValid reports whether all three colors are 6-digit hex values.
func (c Colors) IsValid() bool {
	return IsHexColor(c.Primary) && IsHexColor(c.Secondary) && IsHexColor(c.Accent)
}

// IsZero reports whether no color has been set.
func (c Colors) IsZero() bool {
	return c.Primary == "" && c.Secondary == "" && c.Accent == ""
}

// Fonts holds the typography chosen for the page
type Fonts struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// SocialMedia holds the business social links
type SocialMedia struct {
	WhatsApp  string `json:"whatsapp,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
}

// Contact holds how visitors reach the business
type Contact struct {
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	Address     string      `json:"address"`
	SocialMedia SocialMedia `json:"socialMedia"`
}

// SellerbotResponses are the canned replies of the chat assistant
type SellerbotResponses struct {
	Greeting    string `json:"greeting"`
	Services    string `json:"services"`
	Pricing     string `json:"pricing"`
	Appointment string `json:"appointment"`
}

// Sellerbot is the chat assistant persona embedded in a page
type Sellerbot struct {
	Name         string             `json:"name"`
	Personality  string             `json:"personality"`
	Knowledge    []string           `json:"knowledge"`
	Prohibitions string             `json:"prohibitions,omitempty"`
	Responses    SellerbotResponses `json:"responses"`
}

// SEOMetadata holds head tags for a page
type SEOMetadata struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Keywords           []string `json:"keywords"`
	OGTitle            string   `json:"ogTitle"`
	OGDescription      string   `json:"ogDescription"`
	OGImage            string   `json:"ogImage,omitempty"`
	OGType             string   `json:"ogType"`
	TwitterCard        string   `json:"twitterCard"`
	TwitterTitle       string   `json:"twitterTitle"`
	TwitterDescription string   `json:"twitterDescription"`
	TwitterImage       string   `json:"twitterImage,omitempty"`
	CanonicalURL       string   `json:"canonicalUrl,omitempty"`
	GoogleAnalyticsID  string   `json:"googleAnalyticsId,omitempty"`
	FacebookPixelID    string   `json:"facebookPixelId,omitempty"`
	CustomHeadTags     string   `json:"customHeadTags,omitempty"`
	StructuredData     string   `json:"structuredData,omitempty"`
}

// Testimonial is a customer quote
type Testimonial struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	Content string `json:"content"`
	Rating  int    `json:"rating"`
}

// GalleryItem is one picture of the gallery
type GalleryItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	ImagePrompt string `json:"imagePrompt"`
}

// Product is a catalog entry. Price is in whole reais.
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       int    `json:"price"`
	ImagePrompt string `json:"imagePrompt"`
}

// TeamMember is a staff card
type TeamMember struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Bio         string `json:"bio"`
	ImagePrompt string `json:"imagePrompt"`
}

// BusinessProfile is the aggregate rendered into a landing page.
type BusinessProfile struct {
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle"`
	HeroText string    `json:"heroText"`
	CTAText  string    `json:"ctaText"`
	Sections []Section `json:"sections"`

	Colors Colors `json:"colors"`
	Fonts  Fonts  `json:"fonts"`

	// Images maps slot to a text prompt, not a URL.
	Images map[ImageSlot]string `json:"images"`
	// CustomImages are user-supplied data URIs or URLs that win over generated images.
	CustomImages map[ImageSlot]string `json:"customImages,omitempty"`

	Contact   Contact      `json:"contact"`
	Sellerbot Sellerbot    `json:"sellerbot"`
	SEO       *SEOMetadata `json:"seo,omitempty"`

	Testimonials  []Testimonial `json:"testimonials,omitempty"`
	GalleryImages []GalleryItem `json:"galleryImages,omitempty"`
	Products      []Product     `json:"products,omitempty"`
	TeamMembers   []TeamMember  `json:"teamMembers,omitempty"`

	TemplateID TemplateID `json:"templateId"`

	BusinessName string `json:"businessName"`
	BusinessType string `json:"businessType"`
}

// SectionByType returns the first section of the given type.
func (p *BusinessProfile) SectionByType(t SectionType) (Section, bool) {
	for _, s := range p.Sections {
		if s.Type == t {
			return s, true
		}
	}
	return Section{}, false
}

// MissingSectionTypes lists canonical types with no section in the profile.
func (p *BusinessProfile) MissingSectionTypes() []SectionType {
	var missing []SectionType
	for _, t := range CanonicalSectionTypes {
		if _, ok := p.SectionByType(t); !ok {
			missing = append(missing, t)
		}
	}
	return missing
}

// Validate checks the profile can be rendered.
func (p *BusinessProfile) Validate() error {
	if missing := p.MissingSectionTypes(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, t := range missing {
			names[i] = string(t)
		}
		return ErrIncompleteProfile("missing sections: " + strings.Join(names, ", "))
	}
	if strings.TrimSpace(p.Title) == "" {
		return ErrIncompleteProfile("missing title")
	}
	return nil
}

// DisplayName is the name shown in headers and file names.
func (p *BusinessProfile) DisplayName() string {
	if p.BusinessName != "" {
		return p.BusinessName
	}
	return p.Title
}
