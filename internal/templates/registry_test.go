package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landingforge/landingforge/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		businessType string
		want         domain.TemplateID
	}{
		{"restaurante", domain.TemplateCatalogEcommerce},
		{"Pizzaria", domain.TemplateCatalogEcommerce},
		{"PET SHOP", domain.TemplateCatalogEcommerce},
		{"Salão de Beleza", domain.TemplateVisualGallery},
		{"Estúdio de Fotografia", domain.TemplateVisualGallery},
		{"Clínica", domain.TemplateServicesTestimonials},
		{"Escritório de Advocacia", domain.TemplateServicesTestimonials},
		{"Academia", domain.TemplateServicesTestimonials},
		{"Consultoria", domain.TemplateCorporateB2B},
		{"Oficina mecânica", domain.TemplateLocalProximity},
		{"Construtora", domain.TemplateProjectsConstruction},
		{"Imobiliária", domain.TemplateProjectsConstruction},
		{"xyz123", domain.TemplateCorporateB2B},
		{"Negócio", domain.TemplateCorporateB2B},
		{"", domain.TemplateCorporateB2B},
	}

	for _, tt := range tests {
		t.Run(tt.businessType, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.businessType))
			// Same input, same answer.
			assert.Equal(t, Classify(tt.businessType), Classify(tt.businessType))
		})
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	// "salão" (visual-gallery) is declared before "loja" (catalog-ecommerce).
	assert.Equal(t, domain.TemplateVisualGallery, Classify("loja e salão de beleza"))
}

func TestSelectForBusiness(t *testing.T) {
	tpl := SelectForBusiness("restaurante")
	assert.Equal(t, domain.TemplateCatalogEcommerce, tpl.ID)
	assert.True(t, tpl.NeedsCatalog())

	assert.Equal(t, domain.TemplateCorporateB2B, SelectForBusiness("xyz123").ID)
}

func TestRegistry_Invariants(t *testing.T) {
	all := All()
	require.Len(t, all, 6)

	wantOrder := []domain.TemplateID{
		domain.TemplateVisualGallery,
		domain.TemplateCatalogEcommerce,
		domain.TemplateServicesTestimonials,
		domain.TemplateCorporateB2B,
		domain.TemplateLocalProximity,
		domain.TemplateProjectsConstruction,
	}

	for i, tpl := range all {
		t.Run(string(tpl.ID), func(t *testing.T) {
			assert.Equal(t, wantOrder[i], tpl.ID)
			assert.NotEmpty(t, tpl.Nichos)
			assert.True(t, tpl.DefaultColors.IsValid())
			assert.True(t, tpl.HasKind(domain.KindHero))
			assert.True(t, tpl.HasKind(domain.KindContact))

			covered := map[domain.SectionType]bool{}
			ids := map[string]bool{}
			for _, s := range tpl.Sections {
				assert.False(t, ids[s.ID], "duplicate section id %s", s.ID)
				ids[s.ID] = true
				if s.ContentType != "" {
					assert.True(t, s.ContentType.IsValid())
					covered[s.ContentType] = true
				}
				for _, slot := range s.ImageSlots {
					assert.True(t, slot.IsValid())
				}
			}
			for _, st := range domain.CanonicalSectionTypes {
				assert.True(t, covered[st], "section type %s not rendered", st)
			}
		})
	}
}

func TestByID_ReturnsCopy(t *testing.T) {
	a, ok := ByID(domain.TemplateVisualGallery)
	require.True(t, ok)
	a.Sections[0].Name = "changed"
	a.Nichos[0] = "changed"

	b, _ := ByID(domain.TemplateVisualGallery)
	assert.NotEqual(t, "changed", b.Sections[0].Name)
	assert.NotEqual(t, "changed", b.Nichos[0])

	_, ok = ByID("nope")
	assert.False(t, ok)
}
