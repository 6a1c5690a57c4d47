package agents

import (
	"fmt"
	"strings"

	"github.com/landingforge/landingforge/internal/domain"
)

const jsonOnly = "Responda APENAS com um objeto JSON válido, sem markdown, sem comentários e sem texto antes ou depois."

const contentSystemPrompt = `Você é um redator especialista em landing pages de alta conversão para pequenos negócios brasileiros.
Escreva em português do Brasil, com tom profissional e próximo. Nunca invente preços, prêmios ou números que não estejam no briefing.
` + jsonOnly

const designSystemPrompt = `Você é um diretor de arte que define identidades visuais para landing pages.
Escolha cores com bom contraste e acessibilidade, e descreva imagens realistas e coerentes com o negócio.
` + jsonOnly

const imagePromptSystemPrompt = `You are a prompt engineer for photorealistic image generation models.
Write detailed English prompts: subject, setting, lighting, camera angle and mood. Never include text, letters or watermarks in the scene.
` + jsonOnly

const copySystemPrompt = `Você é um copywriter de resposta direta especializado em pequenos negócios brasileiros.
Reescreva textos para gerar desejo e ação, usando gatilhos de benefício, prova social e urgência sem exageros.
` + jsonOnly

const seoSystemPrompt = `Você é um especialista em SEO local para o mercado brasileiro.
` + jsonOnly

const sellerbotSystemPrompt = `Você cria assistentes virtuais de vendas para sites de pequenos negócios brasileiros.
O assistente deve ser simpático, objetivo e sempre conduzir o cliente para o contato ou agendamento.
` + jsonOnly

func contentPrompt(instructions, businessName string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Crie o conteúdo de uma landing page para o negócio \"%s\".\n\n", businessName)
	sb.WriteString("BRIEFING:\n")
	sb.WriteString(instructions)
	sb.WriteString("\n\nUse exatamente este formato:\n")
	sb.WriteString(`{
  "title": "nome do negócio",
  "subtitle": "frase de posicionamento",
  "heroText": "texto principal do topo, até 2 frases",
  "ctaText": "texto do botão de ação",
  "sections": [
`)
	for i, t := range domain.CanonicalSectionTypes {
		sep := ","
		if i == len(domain.CanonicalSectionTypes)-1 {
			sep = ""
		}
		fmt.Fprintf(&sb, "    {\"id\": \"%s\", \"type\": \"%s\", \"title\": \"...\", \"content\": \"%s\"}%s\n", t, t, sectionGuide[t], sep)
	}
	sb.WriteString(`  ],
  "contact": {"email": "", "phone": "", "address": "", "socialMedia": {"whatsapp": "", "instagram": "", "facebook": "", "linkedin": ""}}
}
`)
	sb.WriteString("As sete seções são obrigatórias e devem manter os ids e types acima. Use os contatos do briefing quando existirem.")
	return sb.String()
}

var sectionGuide = map[domain.SectionType]string{
	domain.SectionIntro:      "apresentação do negócio",
	domain.SectionMotivation: "por que escolher o negócio",
	domain.SectionTarget:     "para quem é o produto ou serviço",
	domain.SectionMethod:     "como funciona o atendimento",
	domain.SectionResults:    "resultados e benefícios para o cliente",
	domain.SectionAccess:     "como encontrar ou contratar",
	domain.SectionInvestment: "investimento e condições",
}

func designPrompt(instructions, businessName string) string {
	slots := make([]string, 0, len(domain.ImageSlots))
	for _, s := range domain.ImageSlots {
		slots = append(slots, fmt.Sprintf("\"%s\": \"descrição da imagem\"", s))
	}
	return fmt.Sprintf(`Defina a identidade visual da landing page de "%s".

BRIEFING:
%s

Formato:
{
  "colors": {"primary": "#RRGGBB", "secondary": "#RRGGBB", "accent": "#RRGGBB"},
  "images": {%s},
  "fonts": {"heading": "fonte do Google Fonts", "body": "fonte do Google Fonts"}
}
Se o briefing informar cores, use-as.`, businessName, instructions, strings.Join(slots, ", "))
}

func imagePromptPrompt(instructions, businessName string, descriptions map[domain.ImageSlot]string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write one image generation prompt per slot for the landing page of \"%s\".\n\nBRIEFING:\n%s\n\n", businessName, instructions)
	if len(descriptions) > 0 {
		sb.WriteString("Art direction per slot:\n")
		for _, s := range domain.ImageSlots {
			if d := descriptions[s]; d != "" {
				fmt.Fprintf(&sb, "- %s: %s\n", s, d)
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("Format (all keys required):\n{")
	for i, s := range domain.ImageSlots {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "\"%s\": \"...\"", s)
	}
	sb.WriteString("}\nThe logo prompt must describe a minimal flat vector logo on a plain background.")
	return sb.String()
}

func copyPrompt(instructions string, content *ContentOutput) string {
	var sb strings.Builder
	sb.WriteString("Reescreva os textos abaixo com copy persuasiva, mantendo os ids.\n\nBRIEFING:\n")
	sb.WriteString(instructions)
	sb.WriteString("\n\nTEXTOS ATUAIS:\n")
	if content != nil {
		fmt.Fprintf(&sb, "heroText: %s\n", content.HeroText)
		for _, s := range content.Sections {
			fmt.Fprintf(&sb, "[%s] %s: %s\n", s.ID, s.Title, s.Content)
		}
	}
	sb.WriteString(`
Formato:
{"heroText": "...", "sections": [{"id": "id original", "title": "...", "content": "..."}]}`)
	return sb.String()
}

func seoPrompt(in SEOInput) string {
	return fmt.Sprintf(`Gere metadados de SEO para a landing page de "%s" (%s).

BRIEFING:
%s

Formato:
{"title": "até 60 caracteres", "description": "até 155 caracteres", "keywords": ["..."],
 "ogTitle": "...", "ogDescription": "...", "twitterTitle": "...", "twitterDescription": "..."}`,
		in.BusinessName, in.BusinessType, in.Instructions)
}

func sellerbotPrompt(instructions, businessName, businessType string) string {
	return fmt.Sprintf(`Crie o assistente virtual de vendas de "%s" (%s).

BRIEFING:
%s

Formato:
{
  "name": "nome do assistente",
  "personality": "descrição curta da personalidade",
  "knowledge": ["fato sobre o negócio", "..."],
  "prohibitions": "o que o assistente nunca deve fazer",
  "responses": {"greeting": "...", "services": "...", "pricing": "...", "appointment": "..."}
}`, businessName, businessType, instructions)
}

func chatSystemPrompt(in ReplyInput) string {
	var sb strings.Builder
	name := orDefault(in.Persona.Name, "Assistente")
	fmt.Fprintf(&sb, "Você é %s, assistente virtual de vendas de %s", name, orDefault(in.BusinessName, "nossa empresa"))
	if in.BusinessType != "" {
		fmt.Fprintf(&sb, " (%s)", in.BusinessType)
	}
	sb.WriteString(".\n")
	if in.Persona.Personality != "" {
		fmt.Fprintf(&sb, "Personalidade: %s\n", in.Persona.Personality)
	}
	if len(in.Persona.Knowledge) > 0 {
		sb.WriteString("O que você sabe sobre o negócio:\n")
		for _, k := range in.Persona.Knowledge {
			fmt.Fprintf(&sb, "- %s\n", k)
		}
	}
	if in.Facts != "" {
		fmt.Fprintf(&sb, "Informações adicionais:\n%s\n", in.Facts)
	}
	if in.Persona.Prohibitions != "" {
		fmt.Fprintf(&sb, "Nunca: %s\n", in.Persona.Prohibitions)
	}
	sb.WriteString("Responda em português do Brasil, em no máximo 3 frases, e convide o cliente a entrar em contato quando fizer sentido.")
	return sb.String()
}
