package agents

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/landingforge/landingforge/internal/domain"
	"github.com/landingforge/landingforge/internal/llm"
)

// ImagePromptAgent writes one generation prompt per image slot. Its failures are fatal.
type ImagePromptAgent struct {
	base
}

// NewImagePromptAgent creates an ImagePromptAgent
func NewImagePromptAgent(d Deps) *ImagePromptAgent {
	return &ImagePromptAgent{base: newBase(NameImagePrompt, d)}
}

// Generate returns slot -> prompt. descriptions is the design agent's art direction and may be nil.
// Slots the model leaves out stay absent; the design description covers them at merge time.
func (a *ImagePromptAgent) Generate(ctx context.Context, instructions, businessName string, descriptions map[domain.ImageSlot]string) (map[domain.ImageSlot]string, error) {
	if err := a.checkClient(); err != nil {
		return nil, err
	}

	var ans map[string]string
	req := a.request(imagePromptSystemPrompt, imagePromptPrompt(instructions, businessName, descriptions), 0.8, 1500)
	if err := llm.CompleteJSON(ctx, a.llm, req, &ans); err != nil {
		return nil, err
	}

	prompts := slotMap(ans)
	if len(prompts) == 0 {
		return nil, llm.NewSchemaError(a.name, errors.New("no image slot in answer"))
	}
	a.logger.Debug("image prompts generated", zap.Int("slots", len(prompts)))
	return prompts, nil
}
