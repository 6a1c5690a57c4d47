package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/landingforge/landingforge/internal/domain"
	"github.com/landingforge/landingforge/internal/llm"
)

// CopySection is a rewritten section, matched to content sections by ID.
type CopySection struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// CopyOutput is the persuasive rewrite of the hero and sections.
type CopyOutput struct {
	HeroText string        `json:"heroText"`
	Sections []CopySection `json:"sections"`
	// Fallback is set when the output was built without the model.
	Fallback bool `json:"-"`
}

// CopyAgent rewrites the content agent's text. Network and schema failures
// yield FallbackCopy.
type CopyAgent struct {
	base
}

// NewCopyAgent creates a CopyAgent
func NewCopyAgent(d Deps) *CopyAgent {
	return &CopyAgent{base: newBase(NameCopy, d)}
}

// Generate rewrites content. An error is returned only for invalid requests and cancellation.
func (a *CopyAgent) Generate(ctx context.Context, instructions, businessName, businessType string, content *ContentOutput) (*CopyOutput, error) {
	if err := a.checkClient(); err != nil {
		return nil, err
	}

	out, err := a.generate(ctx, instructions, content)
	if err != nil {
		if a.degrade(err) {
			return FallbackCopy(businessName, businessType), nil
		}
		return nil, err
	}
	a.logger.Debug("copy generated", zap.Int("sections", len(out.Sections)))
	return out, nil
}

func (a *CopyAgent) generate(ctx context.Context, instructions string, content *ContentOutput) (*CopyOutput, error) {
	var out CopyOutput
	req := a.request(copySystemPrompt, copyPrompt(instructions, content), 0.8, 2500)
	if err := llm.CompleteJSON(ctx, a.llm, req, &out); err != nil {
		return nil, err
	}

	kept := out.Sections[:0]
	for _, s := range out.Sections {
		s.ID = strings.TrimSpace(s.ID)
		if s.ID != "" {
			kept = append(kept, s)
		}
	}
	out.Sections = kept

	if strings.TrimSpace(out.HeroText) == "" && len(out.Sections) == 0 {
		return nil, llm.NewSchemaError(a.name, errors.New("copy answer is empty"))
	}
	return &out, nil
}

// FallbackCopy is the deterministic rewrite used when the model is unavailable.
// It depends only on its arguments.
func FallbackCopy(businessName, businessType string) *CopyOutput {
	name := orDefault(businessName, "Nossa empresa")
	kind := strings.ToLower(orDefault(businessType, "negócio"))

	sections := []CopySection{
		{
			ID:      string(domain.SectionIntro),
			Title:   fmt.Sprintf("Bem-vindo à %s", name),
			Content: fmt.Sprintf("A %s é referência em %s, com atendimento de qualidade e foco total na sua satisfação.", name, kind),
		},
		{
			ID:      string(domain.SectionMotivation),
			Title:   fmt.Sprintf("Por que escolher a %s?", name),
			Content: fmt.Sprintf("Experiência, compromisso e cuidado em cada detalhe. Somos especialistas em %s e entregamos o que prometemos.", kind),
		},
		{
			ID:      string(domain.SectionTarget),
			Title:   "Feito para você",
			Content: fmt.Sprintf("Se você procura %s de confiança, com qualidade e preço justo, encontrou o lugar certo.", kind),
		},
		{
			ID:      string(domain.SectionMethod),
			Title:   "Como funciona",
			Content: "Você entra em contato, entendemos sua necessidade e apresentamos a melhor solução. Simples, rápido e sem complicação.",
		},
		{
			ID:      string(domain.SectionResults),
			Title:   "Resultados que falam por si",
			Content: fmt.Sprintf("Clientes satisfeitos e recomendações todos os dias. A %s transforma expectativas em resultados.", name),
		},
		{
			ID:      string(domain.SectionAccess),
			Title:   "Fale com a gente",
			Content: "Atendimento rápido pelo WhatsApp, telefone ou redes sociais. Estamos prontos para atender você.",
		},
		{
			ID:      string(domain.SectionInvestment),
			Title:   "Condições especiais",
			Content: "Consulte nossas condições e aproveite as ofertas da semana. Peça já o seu orçamento sem compromisso.",
		},
	}

	return &CopyOutput{
		HeroText: fmt.Sprintf("%s: %s com qualidade, confiança e o atendimento que você merece.", name, kind),
		Sections: sections,
		Fallback: true,
	}
}
