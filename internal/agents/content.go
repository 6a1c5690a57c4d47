package agents

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/landingforge/landingforge/internal/domain"
	"github.com/landingforge/landingforge/internal/llm"
)

// ContentOutput is the page skeleton returned by the content agent.
type ContentOutput struct {
	Title    string           `json:"title"`
	Subtitle string           `json:"subtitle"`
	HeroText string           `json:"heroText"`
	CTAText  string           `json:"ctaText"`
	Sections []domain.Section `json:"sections"`
	Contact  domain.Contact   `json:"contact"`
}

// ContentAgent writes the page skeleton. Its failures are fatal.
type ContentAgent struct {
	base
}

// NewContentAgent creates a ContentAgent
func NewContentAgent(d Deps) *ContentAgent {
	return &ContentAgent{base: newBase(NameContent, d)}
}

// Generate asks for title, hero copy, the seven sections and contact details.
func (a *ContentAgent) Generate(ctx context.Context, instructions, businessName string) (*ContentOutput, error) {
	if err := a.checkClient(); err != nil {
		return nil, err
	}

	var out ContentOutput
	req := a.request(contentSystemPrompt, contentPrompt(instructions, businessName), 0.7, 2500)
	if err := llm.CompleteJSON(ctx, a.llm, req, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.Title) == "" && len(out.Sections) == 0 {
		return nil, llm.NewSchemaError(a.name, errors.New("content answer has neither title nor sections"))
	}

	out.Sections = normalizeSections(out.Sections)
	a.logger.Debug("content generated", zap.String("title", out.Title), zap.Int("sections", len(out.Sections)))
	return &out, nil
}

// normalizeSections lowercases types and derives missing ids and types from each other.
func normalizeSections(in []domain.Section) []domain.Section {
	out := make([]domain.Section, 0, len(in))
	for _, s := range in {
		s.ID = strings.TrimSpace(s.ID)
		s.Type = domain.SectionType(strings.ToLower(strings.TrimSpace(string(s.Type))))
		if s.Type == "" && domain.SectionType(s.ID).IsValid() {
			s.Type = domain.SectionType(s.ID)
		}
		if s.ID == "" {
			s.ID = string(s.Type)
		}
		out = append(out, s)
	}
	return out
}
