package domain

// TemplateID identifies one of the six page layouts
type TemplateID string

const (
	TemplateVisualGallery        TemplateID = "visual-gallery"
	TemplateCatalogEcommerce     TemplateID = "catalog-ecommerce"
	TemplateServicesTestimonials TemplateID = "services-testimonials"
	TemplateCorporateB2B         TemplateID = "corporate-b2b"
	TemplateLocalProximity       TemplateID = "local-proximity"
	TemplateProjectsConstruction TemplateID = "projects-construction"
)

// SectionKind selects the markup generator for a template section
type SectionKind string

const (
	KindHero         SectionKind = "hero"
	KindAbout        SectionKind = "about"
	KindBenefits     SectionKind = "benefits"
	KindServices     SectionKind = "services"
	KindGallery      SectionKind = "gallery"
	KindCatalog      SectionKind = "catalog"
	KindTestimonials SectionKind = "testimonials"
	KindTeam         SectionKind = "team"
	KindProcess      SectionKind = "process"
	KindResults      SectionKind = "results"
	KindBeforeAfter  SectionKind = "before-after"
	KindVideo        SectionKind = "video"
	KindPricing      SectionKind = "pricing"
	KindFAQ          SectionKind = "faq"
	KindLocation     SectionKind = "location"
	KindContact      SectionKind = "contact"
)

// TemplateSection is one ordered block of a page template.
type TemplateSection struct {
	ID   string      `json:"id"`
	Name string      `json:"name"`
	Kind SectionKind `json:"kind"`
	// ContentType is the profile section feeding this block, empty when the block only shows collections.
	ContentType    SectionType `json:"contentType,omitempty"`
	ImageSlots     []ImageSlot `json:"imageSlots,omitempty"`
	HasGallery     bool        `json:"hasGallery"`
	HasCatalog     bool        `json:"hasCatalog"`
	HasVideo       bool        `json:"hasVideo"`
	HasBeforeAfter bool        `json:"hasBeforeAfter"`
}

// Template is a fixed section ordering chosen by niche
type Template struct {
	ID       TemplateID        `json:"id"`
	Name     string            `json:"name"`
	Nichos   []string          `json:"nichos"`
	Sections []TemplateSection `json:"sections"`
	// Defaults used when the design palette is unusable.
	DefaultColors Colors `json:"defaultColors"`
}

// NeedsGallery reports whether any section renders gallery items.
func (t Template) NeedsGallery() bool {
	for _, s := range t.Sections {
		if s.HasGallery || s.HasBeforeAfter {
			return true
		}
	}
	return false
}

// NeedsCatalog reports whether any section renders products.
func (t Template) NeedsCatalog() bool {
	for _, s := range t.Sections {
		if s.HasCatalog {
			return true
		}
	}
	return false
}

// HasKind reports whether the template contains a section of kind k.
func (t Template) HasKind(k SectionKind) bool {
	for _, s := range t.Sections {
		if s.Kind == k {
			return true
		}
	}
	return false
}
