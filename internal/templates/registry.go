// Package templates holds the six page layouts and the niche classifier that picks one.
// Every component that branches on niche goes through SelectForBusiness.
package templates

import (
	"strings"

	"github.com/landingforge/landingforge/internal/domain"
)

// DefaultID is returned when no niche keyword matches.
const DefaultID = domain.TemplateCorporateB2B

func section(id, name string, kind domain.SectionKind, content domain.SectionType, slots ...domain.ImageSlot) domain.TemplateSection {
	return domain.TemplateSection{ID: id, Name: name, Kind: kind, ContentType: content, ImageSlots: slots}
}

func withGallery(s domain.TemplateSection) domain.TemplateSection {
	s.HasGallery = true
	return s
}

func withCatalog(s domain.TemplateSection) domain.TemplateSection {
	s.HasCatalog = true
	return s
}

func withVideo(s domain.TemplateSection) domain.TemplateSection {
	s.HasVideo = true
	return s
}

func withBeforeAfter(s domain.TemplateSection) domain.TemplateSection {
	s.HasBeforeAfter = true
	return s
}

// registry is in declaration order. Classification scans it top to bottom.
var registry = []domain.Template{
	{
		ID:   domain.TemplateVisualGallery,
		Name: "Galeria Visual",
		Nichos: []string{
			"fotograf", "fotógraf", "estúdio", "estudio", "tatuagem", "tattoo", "design",
			"decoração", "decoracao", "artesanato", "salão", "salao", "beleza", "estética",
			"estetica", "maquiagem", "barbearia", "casamento", "eventos",
		},
		Sections: []domain.TemplateSection{
			section("hero", "Início", domain.KindHero, domain.SectionIntro, domain.SlotHero),
			section("sobre", "Sobre", domain.KindAbout, domain.SectionMotivation, domain.SlotMotivation),
			withGallery(section("galeria", "Galeria", domain.KindGallery, domain.SectionTarget, domain.SlotTarget)),
			section("processo", "Como Funciona", domain.KindProcess, domain.SectionMethod, domain.SlotMethod),
			withBeforeAfter(section("antes-depois", "Antes e Depois", domain.KindBeforeAfter, domain.SectionResults, domain.SlotResults)),
			section("depoimentos", "Depoimentos", domain.KindTestimonials, ""),
			section("precos", "Investimento", domain.KindPricing, domain.SectionInvestment, domain.SlotInvestment),
			section("localizacao", "Onde Estamos", domain.KindLocation, domain.SectionAccess, domain.SlotAccess),
			section("contato", "Contato", domain.KindContact, ""),
		},
		DefaultColors: domain.Colors{Primary: "#ad1457", Secondary: "#212121", Accent: "#d4af37"},
	},
	{
		ID:   domain.TemplateCatalogEcommerce,
		Name: "Catálogo e Loja",
		Nichos: []string{
			"loja", "e-commerce", "ecommerce", "varejo", "pizzaria", "pizza", "restaurante",
			"lanchonete", "hamburgueria", "padaria", "confeitaria", "doceria", "delivery",
			"cafeteria", "açaí", "acai", "mercado", "pet shop", "petshop", "produtos",
		},
		Sections: []domain.TemplateSection{
			section("hero", "Início", domain.KindHero, domain.SectionIntro, domain.SlotHero),
			withCatalog(section("cardapio", "Produtos", domain.KindCatalog, domain.SectionTarget, domain.SlotTarget)),
			section("beneficios", "Por Que Escolher", domain.KindBenefits, domain.SectionMotivation, domain.SlotMotivation),
			section("como-pedir", "Como Pedir", domain.KindProcess, domain.SectionMethod, domain.SlotMethod),
			section("depoimentos", "Clientes Satisfeitos", domain.KindTestimonials, domain.SectionResults, domain.SlotResults),
			section("ofertas", "Ofertas", domain.KindPricing, domain.SectionInvestment, domain.SlotInvestment),
			section("localizacao", "Onde Estamos", domain.KindLocation, domain.SectionAccess, domain.SlotAccess),
			section("faq", "Dúvidas Frequentes", domain.KindFAQ, ""),
			section("contato", "Contato", domain.KindContact, ""),
		},
		DefaultColors: domain.Colors{Primary: "#c62828", Secondary: "#2e7d32", Accent: "#ffb300"},
	},
	{
		ID:   domain.TemplateServicesTestimonials,
		Name: "Serviços e Depoimentos",
		Nichos: []string{
			"clínica", "clinica", "consultório", "consultorio", "dentista", "odonto", "médic",
			"medic", "saúde", "saude", "fisioterapia", "psicólog", "psicolog", "terapia",
			"academia", "personal", "pilates", "advocacia", "advogad", "contabilidade",
			"escola", "curso", "educação", "educacao",
		},
		Sections: []domain.TemplateSection{
			section("hero", "Início", domain.KindHero, domain.SectionIntro, domain.SlotHero),
			section("sobre", "Sobre Nós", domain.KindAbout, domain.SectionMotivation, domain.SlotMotivation),
			section("servicos", "Serviços", domain.KindServices, domain.SectionTarget, domain.SlotTarget),
			section("como-funciona", "Como Funciona", domain.KindProcess, domain.SectionMethod, domain.SlotMethod),
			section("resultados", "Resultados", domain.KindResults, domain.SectionResults, domain.SlotResults),
			section("depoimentos", "Depoimentos", domain.KindTestimonials, ""),
			section("equipe", "Equipe", domain.KindTeam, ""),
			section("planos", "Planos", domain.KindPricing, domain.SectionInvestment, domain.SlotInvestment),
			section("localizacao", "Como Chegar", domain.KindLocation, domain.SectionAccess, domain.SlotAccess),
			section("faq", "Perguntas Frequentes", domain.KindFAQ, ""),
			section("contato", "Agende", domain.KindContact, ""),
		},
		DefaultColors: domain.Colors{Primary: "#00796b", Secondary: "#263238", Accent: "#0288d1"},
	},
	{
		ID:   domain.TemplateCorporateB2B,
		Name: "Corporativo B2B",
		Nichos: []string{
			"consultoria", "assessoria", "b2b", "tecnologia", "software", "agência", "agencia",
			"marketing", "corporativo", "indústria", "industria", "logística", "logistica",
			"distribuidora", "empresarial",
		},
		Sections: []domain.TemplateSection{
			section("hero", "Início", domain.KindHero, domain.SectionIntro, domain.SlotHero),
			section("sobre", "Quem Somos", domain.KindAbout, domain.SectionMotivation, domain.SlotMotivation),
			section("solucoes", "Soluções", domain.KindServices, domain.SectionTarget, domain.SlotTarget),
			section("metodologia", "Metodologia", domain.KindProcess, domain.SectionMethod, domain.SlotMethod),
			section("resultados", "Resultados", domain.KindResults, domain.SectionResults, domain.SlotResults),
			withVideo(section("video", "Conheça", domain.KindVideo, "")),
			section("clientes", "Clientes", domain.KindTestimonials, ""),
			section("investimento", "Investimento", domain.KindPricing, domain.SectionInvestment, domain.SlotInvestment),
			section("contato", "Fale Conosco", domain.KindContact, domain.SectionAccess, domain.SlotAccess),
		},
		DefaultColors: domain.Colors{Primary: "#0d47a1", Secondary: "#263238", Accent: "#00bfa5"},
	},
	{
		ID:   domain.TemplateLocalProximity,
		Name: "Negócio Local",
		Nichos: []string{
			"mecânica", "mecanica", "oficina", "lavanderia", "chaveiro", "encanador",
			"eletricista", "assistência técnica", "assistencia tecnica", "lava-jato", "lava jato",
			"borracharia", "pousada", "hotel", "hostel", "farmácia", "farmacia", "serviços locais",
		},
		Sections: []domain.TemplateSection{
			section("hero", "Início", domain.KindHero, domain.SectionIntro, domain.SlotHero),
			section("sobre", "Sobre", domain.KindAbout, domain.SectionMotivation, domain.SlotMotivation),
			section("servicos", "Serviços", domain.KindServices, domain.SectionTarget, domain.SlotTarget),
			section("atendimento", "Atendimento", domain.KindProcess, domain.SectionMethod, domain.SlotMethod),
			section("depoimentos", "Vizinhos Satisfeitos", domain.KindTestimonials, domain.SectionResults, domain.SlotResults),
			section("localizacao", "Estamos Perto de Você", domain.KindLocation, domain.SectionAccess, domain.SlotAccess),
			section("precos", "Preços", domain.KindPricing, domain.SectionInvestment, domain.SlotInvestment),
			section("faq", "Dúvidas", domain.KindFAQ, ""),
			section("contato", "Contato", domain.KindContact, ""),
		},
		DefaultColors: domain.Colors{Primary: "#ef6c00", Secondary: "#37474f", Accent: "#43a047"},
	},
	{
		ID:   domain.TemplateProjectsConstruction,
		Name: "Projetos e Construção",
		Nichos: []string{
			"construtora", "construção", "construcao", "reforma", "engenharia", "arquitet",
			"imobiliária", "imobiliaria", "imóveis", "imoveis", "marcenaria", "móveis planejados",
			"moveis planejados", "paisagismo", "energia solar", "obras", "incorporadora",
		},
		Sections: []domain.TemplateSection{
			section("hero", "Início", domain.KindHero, domain.SectionIntro, domain.SlotHero),
			section("sobre", "A Empresa", domain.KindAbout, domain.SectionMotivation, domain.SlotMotivation),
			withGallery(section("projetos", "Projetos", domain.KindGallery, domain.SectionTarget, domain.SlotTarget)),
			section("etapas", "Etapas", domain.KindProcess, domain.SectionMethod, domain.SlotMethod),
			withBeforeAfter(section("antes-depois", "Antes e Depois", domain.KindBeforeAfter, domain.SectionResults, domain.SlotResults)),
			section("equipe", "Equipe", domain.KindTeam, ""),
			section("depoimentos", "Depoimentos", domain.KindTestimonials, ""),
			section("orcamento", "Orçamento", domain.KindPricing, domain.SectionInvestment, domain.SlotInvestment),
			section("localizacao", "Escritório", domain.KindLocation, domain.SectionAccess, domain.SlotAccess),
			section("contato", "Contato", domain.KindContact, ""),
		},
		DefaultColors: domain.Colors{Primary: "#37474f", Secondary: "#212121", Accent: "#ffa000"},
	},
}

// Classify maps a business type to a template id: lowercase, first substring hit in
// declaration order, corporate-b2b otherwise.
func Classify(businessType string) domain.TemplateID {
	lower := strings.ToLower(strings.TrimSpace(businessType))
	if lower == "" {
		return DefaultID
	}
	for _, tpl := range registry {
		for _, kw := range tpl.Nichos {
			if strings.Contains(lower, kw) {
				return tpl.ID
			}
		}
	}
	return DefaultID
}

// SelectForBusiness returns the template for a business type.
func SelectForBusiness(businessType string) domain.Template {
	t, _ := ByID(Classify(businessType))
	return t
}

// ByID returns a copy of the template with the given id.
func ByID(id domain.TemplateID) (domain.Template, bool) {
	for _, tpl := range registry {
		if tpl.ID == id {
			return clone(tpl), true
		}
	}
	return domain.Template{}, false
}

// Default returns the fallback template.
func Default() domain.Template {
	t, _ := ByID(DefaultID)
	return t
}

// All returns copies of every template in declaration order.
func All() []domain.Template {
	out := make([]domain.Template, len(registry))
	for i, tpl := range registry {
		out[i] = clone(tpl)
	}
	return out
}

func clone(t domain.Template) domain.Template {
	t.Nichos = append([]string(nil), t.Nichos...)
	sections := make([]domain.TemplateSection, len(t.Sections))
	for i, s := range t.Sections {
		s.ImageSlots = append([]domain.ImageSlot(nil), s.ImageSlots...)
		sections[i] = s
	}
	t.Sections = sections
	return t
}
