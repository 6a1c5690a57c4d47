package briefing

import "github.com/landingforge/landingforge/internal/domain"

// niche is a pre-built business default selected by keyword.
type niche struct {
	keywords       []string
	businessType   string
	services       string
	targetAudience string
	mainGoal       string
	differentials  string
	specialOffers  string
	colors         domain.Colors
}

// niches is scanned in order; the first keyword found in the text wins.
// Multi-word and more specific entries come before generic ones like "loja".
var niches = []niche{
	{
		keywords:       []string{"pet shop", "petshop", "pet-shop", "banho e tosa"},
		businessType:   "Pet Shop",
		services:       "Banho e tosa, consultas veterinárias, rações premium, acessórios e brinquedos",
		targetAudience: "Tutores de cães e gatos que tratam seus pets como parte da família",
		mainGoal:       "Aumentar os agendamentos de banho e tosa e as vendas da loja",
		differentials:  "Profissionais apaixonados por animais, produtos de qualidade e atendimento carinhoso",
		specialOffers:  "Primeiro banho com 20% de desconto e leva-e-traz grátis no bairro",
		colors:         domain.Colors{Primary: "#2e7d32", Secondary: "#ffb300", Accent: "#0288d1"},
	},
	{
		keywords:       []string{"pizzaria", "pizza"},
		businessType:   "Pizzaria",
		services:       "Pizzas tradicionais e especiais, bordas recheadas, delivery e retirada no balcão",
		targetAudience: "Famílias e amigos que querem uma pizza saborosa sem sair de casa",
		mainGoal:       "Aumentar os pedidos pelo WhatsApp e delivery",
		differentials:  "Massa artesanal de longa fermentação, ingredientes selecionados e entrega rápida",
		specialOffers:  "Na compra de duas pizzas grandes, ganhe um refrigerante de 2 litros",
		colors:         domain.Colors{Primary: "#c62828", Secondary: "#2e7d32", Accent: "#ffb300"},
	},
	{
		keywords:       []string{"hamburgueria", "hamburguer", "hambúrguer", "lanchonete"},
		businessType:   "Hamburgueria",
		services:       "Hambúrgueres artesanais, porções, milk-shakes e combos",
		targetAudience: "Jovens e adultos que amam um lanche caprichado",
		mainGoal:       "Aumentar os pedidos de delivery e o movimento da loja",
		differentials:  "Blend próprio, pão artesanal e molhos da casa",
		specialOffers:  "Combo do dia com batata e bebida por um preço especial",
		colors:         domain.Colors{Primary: "#e65100", Secondary: "#3e2723", Accent: "#ffca28"},
	},
	{
		keywords:       []string{"restaurante", "bistrô", "bistro", "culinária", "gastronomia"},
		businessType:   "Restaurante",
		services:       "Almoço executivo, pratos à la carte, eventos e delivery",
		targetAudience: "Profissionais e famílias que buscam comida de qualidade",
		mainGoal:       "Aumentar as reservas e os pedidos de delivery",
		differentials:  "Receitas autorais, ambiente acolhedor e ingredientes frescos",
		specialOffers:  "Sobremesa grátis para reservas feitas pelo site",
		colors:         domain.Colors{Primary: "#8d2f23", Secondary: "#f4e1c1", Accent: "#d4a017"},
	},
	{
		keywords:       []string{"padaria", "confeitaria", "doceria", "bolos"},
		businessType:   "Padaria e Confeitaria",
		services:       "Pães artesanais, bolos sob encomenda, doces e café da manhã",
		targetAudience: "Moradores do bairro e clientes que valorizam produtos fresquinhos",
		mainGoal:       "Aumentar as encomendas de bolos e doces",
		differentials:  "Fornadas ao longo do dia e receitas de família",
		specialOffers:  "10% de desconto na primeira encomenda de bolo",
		colors:         domain.Colors{Primary: "#8d6e63", Secondary: "#fff3e0", Accent: "#f06292"},
	},
	{
		keywords:       []string{"barbearia", "barber"},
		businessType:   "Barbearia",
		services:       "Corte masculino, barba, sobrancelha e tratamentos capilares",
		targetAudience: "Homens que valorizam estilo e cuidado pessoal",
		mainGoal:       "Aumentar os agendamentos online",
		differentials:  "Barbeiros experientes e ambiente descontraído",
		specialOffers:  "Corte + barba com preço especial de segunda a quarta",
		colors:         domain.Colors{Primary: "#212121", Secondary: "#b08d57", Accent: "#c62828"},
	},
	{
		keywords:       []string{"salão", "salao", "beleza", "estética", "estetica", "manicure", "cabeleireir"},
		businessType:   "Salão de Beleza",
		services:       "Cortes, coloração, escova, manicure, pedicure e tratamentos estéticos",
		targetAudience: "Mulheres que querem se sentir lindas e confiantes",
		mainGoal:       "Aumentar os agendamentos e fidelizar clientes",
		differentials:  "Profissionais qualificados, produtos de primeira linha e atendimento personalizado",
		specialOffers:  "Hidratação grátis na primeira visita",
		colors:         domain.Colors{Primary: "#ad1457", Secondary: "#f8bbd0", Accent: "#d4af37"},
	},
	{
		keywords:       []string{"academia", "crossfit", "fitness", "personal trainer", "pilates"},
		businessType:   "Academia",
		services:       "Musculação, aulas coletivas, treino funcional e acompanhamento personalizado",
		targetAudience: "Pessoas que querem melhorar a saúde, o condicionamento e a autoestima",
		mainGoal:       "Aumentar o número de matrículas",
		differentials:  "Equipamentos modernos, professores qualificados e horários flexíveis",
		specialOffers:  "Primeira semana grátis e matrícula isenta neste mês",
		colors:         domain.Colors{Primary: "#d84315", Secondary: "#212121", Accent: "#ffd600"},
	},
	{
		keywords:       []string{"clínica", "clinica", "consultório", "consultorio", "dentista", "odonto", "médic", "medic", "fisioterapia", "psicólog"},
		businessType:   "Clínica",
		services:       "Consultas, exames, procedimentos e acompanhamento especializado",
		targetAudience: "Pacientes que buscam atendimento humanizado e de confiança",
		mainGoal:       "Aumentar o agendamento de consultas",
		differentials:  "Equipe especializada, estrutura moderna e atendimento pontual",
		specialOffers:  "Avaliação inicial gratuita para novos pacientes",
		colors:         domain.Colors{Primary: "#00796b", Secondary: "#e0f2f1", Accent: "#0288d1"},
	},
	{
		keywords:       []string{"imobiliária", "imobiliaria", "imóveis", "imoveis", "corretor"},
		businessType:   "Imobiliária",
		services:       "Venda, locação e administração de imóveis residenciais e comerciais",
		targetAudience: "Famílias e investidores em busca do imóvel ideal",
		mainGoal:       "Gerar contatos qualificados de compradores e locatários",
		differentials:  "Corretores credenciados, assessoria jurídica e atendimento ágil",
		specialOffers:  "Avaliação gratuita do seu imóvel",
		colors:         domain.Colors{Primary: "#1a237e", Secondary: "#eceff1", Accent: "#ffab00"},
	},
	{
		keywords:       []string{"construtora", "construção", "construcao", "reforma", "engenharia", "arquitetura"},
		businessType:   "Construtora",
		services:       "Construção residencial e comercial, reformas e projetos de engenharia",
		targetAudience: "Proprietários e empresas que querem tirar o projeto do papel",
		mainGoal:       "Gerar pedidos de orçamento",
		differentials:  "Cumprimento de prazos, equipe própria e acompanhamento transparente da obra",
		specialOffers:  "Orçamento sem compromisso e visita técnica gratuita",
		colors:         domain.Colors{Primary: "#37474f", Secondary: "#ffa000", Accent: "#eceff1"},
	},
	{
		keywords:       []string{"fotografia", "fotógrafo", "fotografo", "ensaio"},
		businessType:   "Estúdio de Fotografia",
		services:       "Ensaios, eventos, casamentos e fotografia de produtos",
		targetAudience: "Pessoas e marcas que querem eternizar momentos com qualidade",
		mainGoal:       "Aumentar as reservas de ensaios e eventos",
		differentials:  "Olhar artístico, edição profissional e entrega rápida",
		specialOffers:  "Mini ensaio com 15% de desconto neste mês",
		colors:         domain.Colors{Primary: "#263238", Secondary: "#fafafa", Accent: "#ff7043"},
	},
	{
		keywords:       []string{"advocacia", "advogad", "jurídic", "juridic"},
		businessType:   "Escritório de Advocacia",
		services:       "Consultoria jurídica, direito civil, trabalhista, empresarial e de família",
		targetAudience: "Pessoas e empresas que precisam de orientação jurídica confiável",
		mainGoal:       "Gerar contatos para consultas",
		differentials:  "Atendimento personalizado, ética e experiência comprovada",
		specialOffers:  "Primeira consulta de orientação sem custo",
		colors:         domain.Colors{Primary: "#1b2a41", Secondary: "#f5f5f5", Accent: "#b8860b"},
	},
	{
		keywords:       []string{"consultoria", "assessoria", "contabilidade", "contador"},
		businessType:   "Consultoria",
		services:       "Diagnóstico, planejamento estratégico e acompanhamento de resultados",
		targetAudience: "Empresas que querem crescer com processos eficientes",
		mainGoal:       "Gerar reuniões com potenciais clientes",
		differentials:  "Metodologia própria e foco em resultados mensuráveis",
		specialOffers:  "Diagnóstico inicial gratuito",
		colors:         domain.Colors{Primary: "#0d47a1", Secondary: "#eceff1", Accent: "#00bfa5"},
	},
	{
		keywords:       []string{"escola", "curso", "aulas", "idiomas", "educação"},
		businessType:   "Escola",
		services:       "Cursos presenciais e online, aulas particulares e turmas reduzidas",
		targetAudience: "Estudantes e profissionais que querem aprender de verdade",
		mainGoal:       "Aumentar o número de matrículas",
		differentials:  "Professores experientes e material didático exclusivo",
		specialOffers:  "Aula experimental gratuita",
		colors:         domain.Colors{Primary: "#3949ab", Secondary: "#fff8e1", Accent: "#ff7043"},
	},
	{
		keywords:       []string{"loja", "boutique", "moda", "roupas", "e-commerce", "ecommerce"},
		businessType:   "Loja",
		services:       "Produtos selecionados, atendimento personalizado e entrega para toda a região",
		targetAudience: "Clientes que buscam qualidade e bom preço",
		mainGoal:       "Aumentar as vendas online e na loja física",
		differentials:  "Curadoria de produtos, trocas facilitadas e pagamento em até 10x",
		specialOffers:  "Frete grátis nas compras acima de R$ 199",
		colors:         domain.Colors{Primary: "#6a1b9a", Secondary: "#f3e5f5", Accent: "#ff6f00"},
	},
}

// generic is used when no keyword matches.
var generic = niche{
	businessType:   "Negócio",
	services:       "Produtos e serviços de qualidade com atendimento personalizado",
	targetAudience: "Clientes que valorizam qualidade e confiança",
	mainGoal:       "Atrair novos clientes e aumentar as vendas",
	differentials:  "Atendimento próximo, compromisso e qualidade",
	specialOffers:  "Condições especiais para novos clientes",
	colors:         domain.Colors{Primary: "#1565c0", Secondary: "#eceff1", Accent: "#ff8f00"},
}

// namedColors maps Portuguese color names found in briefings to hex values.
var namedColors = []struct {
	name string
	hex  string
}{
	{"vermelho", "#c62828"},
	{"azul marinho", "#1a237e"},
	{"azul", "#1565c0"},
	{"verde", "#2e7d32"},
	{"amarelo", "#fbc02d"},
	{"laranja", "#ef6c00"},
	{"roxo", "#6a1b9a"},
	{"lilás", "#9575cd"},
	{"rosa", "#d81b60"},
	{"preto", "#212121"},
	{"branco", "#fafafa"},
	{"cinza", "#757575"},
	{"dourado", "#d4af37"},
	{"marrom", "#6d4c41"},
	{"bege", "#d7ccc8"},
}
