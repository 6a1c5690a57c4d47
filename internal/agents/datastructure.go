package agents

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/landingforge/landingforge/internal/domain"
	"github.com/landingforge/landingforge/internal/templates"
)

// Default collection sizes used by ForTemplate.
const (
	DefaultTestimonials = 3
	DefaultGalleryItems = 6
	DefaultProducts     = 6
	DefaultTeamMembers  = 4
)

type category struct {
	name        string
	description string
	minPrice    int
	maxPrice    int
}

type catalogTable struct {
	keywords   []string
	categories []category
	roles      []string
}

// nicheTables refine a template for the niches with their own vocabulary. First substring hit wins.
var nicheTables = []catalogTable{
	{
		keywords: []string{"pizzaria", "pizza"},
		categories: []category{
			{"Pizzas Tradicionais", "pizza tradicional com molho de tomate e queijo derretido", 35, 55},
			{"Pizzas Especiais", "pizza gourmet com ingredientes selecionados", 50, 80},
			{"Pizzas Doces", "pizza doce com chocolate e frutas", 40, 60},
			{"Bebidas", "refrigerantes e sucos gelados", 6, 15},
		},
		roles: []string{"Pizzaiolo Chefe", "Gerente", "Atendente", "Entregador"},
	},
	{
		keywords: []string{"imóveis", "imoveis", "imobiliária", "imobiliaria"},
		categories: []category{
			{"Apartamentos", "apartamento moderno com sala ampla e varanda", 250000, 900000},
			{"Casas", "casa com quintal e área gourmet", 350000, 1500000},
			{"Salas Comerciais", "sala comercial bem localizada", 180000, 600000},
			{"Terrenos", "terreno plano em bairro residencial", 90000, 400000},
		},
		roles: []string{"Corretor", "Corretora", "Gerente de Vendas", "Consultor Jurídico"},
	},
	{
		keywords: []string{"restaurante", "lanchonete", "hamburgueria", "padaria", "confeitaria"},
		categories: []category{
			{"Entradas", "entrada servida em prato de cerâmica", 18, 40},
			{"Pratos Principais", "prato principal caprichado e bem servido", 35, 90},
			{"Sobremesas", "sobremesa artesanal da casa", 15, 35},
			{"Bebidas", "drinks e sucos naturais", 8, 25},
		},
		roles: []string{"Chef de Cozinha", "Sous Chef", "Maître", "Confeiteira"},
	},
	{
		keywords: []string{"salão", "salao", "beleza", "estética", "estetica", "barbearia"},
		categories: []category{
			{"Cabelo", "corte e escova em salão moderno", 50, 180},
			{"Unhas", "manicure e pedicure com esmaltação perfeita", 30, 80},
			{"Estética", "tratamento facial relaxante", 80, 250},
			{"Maquiagem", "maquiagem profissional para eventos", 100, 300},
		},
		roles: []string{"Cabeleireira", "Manicure", "Esteticista", "Maquiadora"},
	},
	{
		keywords: []string{"academia", "fitness", "crossfit", "pilates"},
		categories: []category{
			{"Musculação", "área de musculação com equipamentos modernos", 89, 149},
			{"Aulas Coletivas", "aula coletiva animada com professor", 69, 129},
			{"Funcional", "treino funcional ao ar livre", 79, 139},
			{"Personal", "treino individual com personal trainer", 200, 450},
		},
		roles: []string{"Personal Trainer", "Professora de Pilates", "Nutricionista", "Coordenador"},
	},
	{
		keywords: []string{"clínica", "clinica", "consultório", "consultorio", "odonto", "dentista", "médic", "saúde"},
		categories: []category{
			{"Consultas", "consultório clínico iluminado e acolhedor", 150, 400},
			{"Exames", "equipamento de exame moderno", 80, 600},
			{"Procedimentos", "procedimento realizado com segurança", 200, 1500},
			{"Check-up", "pacote de check-up completo", 300, 900},
		},
		roles: []string{"Médica", "Dentista", "Enfermeira", "Recepcionista"},
	},
}

// templateTables cover every business the niche tables miss, keyed by its template.
var templateTables = map[domain.TemplateID]catalogTable{
	domain.TemplateVisualGallery: {
		categories: []category{
			{"Ensaios", "ensaio fotográfico com luz natural", 300, 1200},
			{"Eventos", "cobertura de evento com decoração elegante", 800, 4000},
			{"Peças Autorais", "peça autoral feita à mão", 80, 600},
			{"Portfólio", "trabalho de destaque do portfólio", 150, 900},
		},
		roles: []string{"Fotógrafa", "Diretor de Arte", "Designer", "Produtora"},
	},
	domain.TemplateCatalogEcommerce: {
		categories: []category{
			{"Mais Vendidos", "produto mais vendido em vitrine iluminada", 20, 150},
			{"Lançamentos", "novidade da loja em embalagem caprichada", 30, 200},
			{"Kits e Combos", "kit presenteável com produtos selecionados", 60, 300},
			{"Acessórios", "acessório prático para o dia a dia", 15, 90},
		},
		roles: []string{"Gerente da Loja", "Vendedora", "Estoquista", "Atendente"},
	},
	domain.TemplateServicesTestimonials: {
		categories: []category{
			{"Atendimento Individual", "sessão individual em sala acolhedora", 120, 400},
			{"Pacotes", "pacote de sessões com acompanhamento", 400, 1500},
			{"Avaliação Inicial", "avaliação inicial detalhada", 80, 250},
			{"Acompanhamento", "acompanhamento mensal personalizado", 200, 800},
		},
		roles: []string{"Especialista", "Coordenadora", "Assistente", "Recepcionista"},
	},
	domain.TemplateCorporateB2B: {
		categories: []category{
			{"Serviços", "profissional atendendo cliente com atenção", 100, 500},
			{"Produtos", "produto de qualidade em destaque", 50, 300},
			{"Projetos", "projeto entregue com excelência", 500, 3000},
			{"Consultoria", "reunião de consultoria em escritório moderno", 200, 1000},
		},
		roles: []string{"Diretor", "Gerente", "Especialista", "Atendimento"},
	},
	domain.TemplateLocalProximity: {
		categories: []category{
			{"Serviços Rápidos", "atendimento rápido no balcão", 30, 150},
			{"Manutenção", "técnico fazendo manutenção com ferramentas", 80, 400},
			{"Visita Técnica", "visita técnica para avaliar o serviço no local", 50, 200},
			{"Atendimento Emergencial", "atendimento emergencial a domicílio", 120, 500},
		},
		roles: []string{"Proprietário", "Técnico", "Atendente", "Auxiliar"},
	},
	domain.TemplateProjectsConstruction: {
		categories: []category{
			{"Projetos", "planta de projeto sobre a mesa de trabalho", 2000, 15000},
			{"Obras", "canteiro de obras organizado", 20000, 300000},
			{"Reformas", "ambiente reformado com acabamento fino", 5000, 80000},
			{"Acabamentos", "detalhe de acabamento em madeira e pedra", 1500, 20000},
		},
		roles: []string{"Engenheira Civil", "Arquiteto", "Mestre de Obras", "Orçamentista"},
	},
}

var testimonialAuthors = []struct{ name, role string }{
	{"Maria Silva", "Cliente há 2 anos"},
	{"João Santos", "Empresário"},
	{"Ana Oliveira", "Cliente fiel"},
	{"Carlos Souza", "Cliente satisfeito"},
	{"Fernanda Lima", "Cliente desde o primeiro dia"},
	{"Ricardo Pereira", "Cliente recorrente"},
}

var teamNames = []string{"Ana Paula", "Bruno Costa", "Camila Rocha", "Diego Martins", "Eduarda Alves", "Felipe Ramos"}

const testimonialText = "Atendimento excelente e resultado acima das expectativas. Recomendo de olhos fechados!"

// Collections are the auxiliary lists attached to a profile.
type Collections struct {
	Testimonials  []domain.Testimonial
	GalleryImages []domain.GalleryItem
	Products      []domain.Product
	TeamMembers   []domain.TeamMember
}

// DataStructureAgent synthesizes display collections from static tables. It makes no network calls.
type DataStructureAgent struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewDataStructureAgent creates an agent. Pass a seeded rng for reproducible prices; nil seeds from the clock.
func NewDataStructureAgent(rng *rand.Rand) *DataStructureAgent {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &DataStructureAgent{rng: rng}
}

// tableFor returns the niche table for businessType, falling back to the table of the
// template templates.Classify picks for it.
func tableFor(businessType string) catalogTable {
	lower := strings.ToLower(businessType)
	for _, t := range nicheTables {
		for _, kw := range t.keywords {
			if strings.Contains(lower, kw) {
				return t
			}
		}
	}
	if t, ok := templateTables[templates.Classify(businessType)]; ok {
		return t
	}
	return templateTables[templates.DefaultID]
}

// Testimonials returns count five-star testimonials cycling through a fixed author list.
func (a *DataStructureAgent) Testimonials(count int) []domain.Testimonial {
	out := make([]domain.Testimonial, 0, max(count, 0))
	for i := 0; i < count; i++ {
		author := testimonialAuthors[i%len(testimonialAuthors)]
		out = append(out, domain.Testimonial{
			ID:      fmt.Sprintf("testimonial-%d", i+1),
			Name:    author.name,
			Role:    author.role,
			Content: testimonialText,
			Rating:  5,
		})
	}
	return out
}

// GalleryItems returns count pictures from the niche's categories.
func (a *DataStructureAgent) GalleryItems(businessName, businessType string, count int) []domain.GalleryItem {
	table := tableFor(businessType)
	out := make([]domain.GalleryItem, 0, max(count, 0))
	for i := 0; i < count; i++ {
		c := table.categories[i%len(table.categories)]
		out = append(out, domain.GalleryItem{
			ID:          fmt.Sprintf("gallery-%d", i+1),
			Title:       fmt.Sprintf("%s %d", c.name, i/len(table.categories)+1),
			Description: fmt.Sprintf("%s na %s", capitalize(c.description), businessName),
			Category:    c.name,
			ImagePrompt: fmt.Sprintf("%s, %s, professional photography, high quality", businessName, c.description),
		})
	}
	return out
}

// Products returns count catalog entries priced inside each category's range.
func (a *DataStructureAgent) Products(businessName, businessType string, count int) []domain.Product {
	table := tableFor(businessType)
	out := make([]domain.Product, 0, max(count, 0))

	a.mu.Lock()
	defer a.mu.Unlock()

	for i := 0; i < count; i++ {
		c := table.categories[i%len(table.categories)]
		out = append(out, domain.Product{
			ID:          fmt.Sprintf("product-%d", i+1),
			Name:        fmt.Sprintf("%s %d", c.name, i/len(table.categories)+1),
			Description: fmt.Sprintf("%s, preparado pela equipe da %s", capitalize(c.description), businessName),
			Category:    c.name,
			Price:       c.minPrice + a.rng.Intn(c.maxPrice-c.minPrice+1),
			ImagePrompt: fmt.Sprintf("%s, %s, product photography, white background", businessName, c.description),
		})
	}
	return out
}

// TeamMembers returns count staff cards with the niche's roles.
func (a *DataStructureAgent) TeamMembers(businessName, businessType string, count int) []domain.TeamMember {
	table := tableFor(businessType)
	out := make([]domain.TeamMember, 0, max(count, 0))
	for i := 0; i < count; i++ {
		role := table.roles[i%len(table.roles)]
		name := teamNames[i%len(teamNames)]
		out = append(out, domain.TeamMember{
			ID:          fmt.Sprintf("team-%d", i+1),
			Name:        name,
			Role:        role,
			Bio:         fmt.Sprintf("%s da %s, dedicado a oferecer o melhor atendimento.", role, businessName),
			ImagePrompt: fmt.Sprintf("professional portrait of a %s, friendly smile, studio lighting", strings.ToLower(role)),
		})
	}
	return out
}

// ForTemplate builds only the collections the template's sections render.
func (a *DataStructureAgent) ForTemplate(tpl domain.Template, businessName, businessType string) Collections {
	var c Collections
	if tpl.HasKind(domain.KindTestimonials) {
		c.Testimonials = a.Testimonials(DefaultTestimonials)
	}
	if tpl.NeedsGallery() {
		c.GalleryImages = a.GalleryItems(businessName, businessType, DefaultGalleryItems)
	}
	if tpl.NeedsCatalog() {
		c.Products = a.Products(businessName, businessType, DefaultProducts)
	}
	if tpl.HasKind(domain.KindTeam) {
		c.TeamMembers = a.TeamMembers(businessName, businessType, DefaultTeamMembers)
	}
	return c
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
