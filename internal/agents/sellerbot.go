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

// MaxChatHistory bounds how many prior turns are sent with a chat reply.
const MaxChatHistory = 10

// SellerbotAgent creates the chat persona and answers visitors.
// Persona failures are fatal; replies degrade to FallbackReply.
type SellerbotAgent struct {
	base
}

// NewSellerbotAgent creates a SellerbotAgent
func NewSellerbotAgent(d Deps) *SellerbotAgent {
	return &SellerbotAgent{base: newBase(NameSellerbot, d)}
}

// GeneratePersona asks for the assistant's name, personality, knowledge and canned replies.
func (a *SellerbotAgent) GeneratePersona(ctx context.Context, instructions, businessName, businessType string) (*domain.Sellerbot, error) {
	if err := a.checkClient(); err != nil {
		return nil, err
	}

	var bot domain.Sellerbot
	req := a.request(sellerbotSystemPrompt, sellerbotPrompt(instructions, businessName, businessType), 0.7, 1200)
	if err := llm.CompleteJSON(ctx, a.llm, req, &bot); err != nil {
		return nil, err
	}
	if strings.TrimSpace(bot.Name) == "" {
		return nil, llm.NewSchemaError(a.name, errors.New("persona has no name"))
	}

	bot.Responses.Greeting = orDefault(bot.Responses.Greeting, fmt.Sprintf("Olá! Eu sou %s, da %s. Como posso ajudar?", bot.Name, orDefault(businessName, "nossa empresa")))
	a.logger.Debug("sellerbot persona generated", zap.String("name", bot.Name), zap.Int("knowledge", len(bot.Knowledge)))
	return &bot, nil
}

// ReplyInput is one visitor message and its context.
type ReplyInput struct {
	Persona      domain.Sellerbot
	BusinessName string
	BusinessType string
	// Facts are extra business details such as contact and services.
	Facts   string
	History []llm.Message
	Message string
}

// Reply answers a visitor. Only an empty message, a bad history or cancellation return an error.
func (a *SellerbotAgent) Reply(ctx context.Context, in ReplyInput) (string, error) {
	if err := a.checkClient(); err != nil {
		return "", err
	}
	if strings.TrimSpace(in.Message) == "" {
		return "", llm.NewInvalidError(NameChat, errors.New("empty message"))
	}

	history := in.History
	if len(history) > MaxChatHistory {
		history = history[len(history)-MaxChatHistory:]
	}

	req := llm.Request{
		Agent:       NameChat,
		System:      chatSystemPrompt(in),
		History:     history,
		Prompt:      in.Message,
		Temperature: 0.7,
		MaxTokens:   400,
	}

	text, err := a.llm.Complete(ctx, req)
	if err == nil {
		if text = strings.TrimSpace(text); text == "" {
			err = llm.NewSchemaError(NameChat, errors.New("empty reply"))
		}
	}
	if err != nil {
		chat := a.base
		chat.name = NameChat
		if chat.degrade(err) {
			return FallbackReply(in.BusinessName, in.BusinessType), nil
		}
		return "", err
	}
	return text, nil
}

// FallbackReply is the canned answer used when the model is unavailable.
func FallbackReply(businessName, businessType string) string {
	name := orDefault(businessName, "nossa empresa")
	kind := strings.ToLower(orDefault(businessType, "negócio"))
	return fmt.Sprintf("Obrigado pela mensagem! Aqui na %s cuidamos de cada cliente com atenção. "+
		"Para saber mais sobre nossos serviços de %s, valores e horários, fale com a nossa equipe pelo WhatsApp ou telefone.", name, kind)
}

// FallbackPersona is a generic assistant for pages whose persona could not be stored.
func FallbackPersona(businessName, businessType string) domain.Sellerbot {
	name := orDefault(businessName, "nossa empresa")
	kind := strings.ToLower(orDefault(businessType, "negócio"))
	return domain.Sellerbot{
		Name:        "Assistente Virtual",
		Personality: "Simpático, prestativo e objetivo",
		Knowledge: []string{
			fmt.Sprintf("%s atua no ramo de %s", name, kind),
			"Atendimento pelo WhatsApp e telefone",
		},
		Prohibitions: "Não informar preços sem confirmação da equipe",
		Responses: domain.SellerbotResponses{
			Greeting:    fmt.Sprintf("Olá! Bem-vindo à %s. Como posso ajudar?", name),
			Services:    fmt.Sprintf("Oferecemos soluções completas de %s. Quer saber mais sobre algum serviço?", kind),
			Pricing:     "Nossos valores dependem da sua necessidade. Posso pedir para a equipe enviar um orçamento?",
			Appointment: "Podemos agendar agora mesmo pelo WhatsApp. Qual o melhor horário para você?",
		},
	}
}
