package agents

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/landingforge/landingforge/internal/domain"
	"github.com/landingforge/landingforge/internal/llm"
)

// DesignOutput holds palette, per-slot art direction and typography.
type DesignOutput struct {
	Colors domain.Colors
	Images map[domain.ImageSlot]string
	Fonts  domain.Fonts
}

type designAnswer struct {
	Colors domain.Colors     `json:"colors"`
	Images map[string]string `json:"images"`
	Fonts  domain.Fonts      `json:"fonts"`
}

// DesignAgent picks colors, fonts and image descriptions. Its failures are fatal.
type DesignAgent struct {
	base
}

// NewDesignAgent creates a DesignAgent
func NewDesignAgent(d Deps) *DesignAgent {
	return &DesignAgent{base: newBase(NameDesign, d)}
}

// Generate returns the design tokens. Colors are passed through as returned; the
// orchestrator replaces invalid hex values with template defaults.
func (a *DesignAgent) Generate(ctx context.Context, instructions, businessName string) (*DesignOutput, error) {
	if err := a.checkClient(); err != nil {
		return nil, err
	}

	var ans designAnswer
	req := a.request(designSystemPrompt, designPrompt(instructions, businessName), 0.6, 1200)
	if err := llm.CompleteJSON(ctx, a.llm, req, &ans); err != nil {
		return nil, err
	}

	out := &DesignOutput{
		Colors: domain.Colors{
			Primary:   strings.ToLower(strings.TrimSpace(ans.Colors.Primary)),
			Secondary: strings.ToLower(strings.TrimSpace(ans.Colors.Secondary)),
			Accent:    strings.ToLower(strings.TrimSpace(ans.Colors.Accent)),
		},
		Images: slotMap(ans.Images),
		Fonts:  ans.Fonts,
	}
	a.logger.Debug("design generated",
		zap.String("primary", out.Colors.Primary),
		zap.Int("images", len(out.Images)),
	)
	return out, nil
}

// slotMap keeps known slots with non-empty values.
func slotMap(in map[string]string) map[domain.ImageSlot]string {
	out := make(map[domain.ImageSlot]string, len(in))
	for k, v := range in {
		slot := domain.ImageSlot(strings.ToLower(strings.TrimSpace(k)))
		v = strings.TrimSpace(v)
		if slot.IsValid() && v != "" {
			out[slot] = v
		}
	}
	return out
}
