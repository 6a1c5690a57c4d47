package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/landingforge/landingforge/internal/agents"
	"github.com/landingforge/landingforge/internal/domain"
	"github.com/landingforge/landingforge/internal/llm"
	"github.com/landingforge/landingforge/internal/repository"
	"github.com/landingforge/landingforge/pkg/httputil"
)

const maxChatMessageLength = 1000

// Replier answers chat messages. *agents.SellerbotAgent implements it.
type Replier interface {
	Reply(ctx context.Context, in agents.ReplyInput) (string, error)
}

// SellerbotHandler serves the chat widget embedded in generated pages
type SellerbotHandler struct {
	replier Replier
	store   repository.GenerationStore
	logger  *zap.Logger
}

// NewSellerbotHandler creates a new sellerbot handler. store may be nil.
func NewSellerbotHandler(replier Replier, store repository.GenerationStore, logger *zap.Logger) *SellerbotHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SellerbotHandler{
		replier: replier,
		store:   store,
		logger:  logger.Named("api.sellerbot"),
	}
}

// ChatRequest is one visitor message from a page
type ChatRequest struct {
	PageID       string        `json:"pageId,omitempty"`
	BusinessName string        `json:"businessName,omitempty"`
	BusinessType string        `json:"businessType,omitempty"`
	Message      string        `json:"message"`
	History      []llm.Message `json:"history,omitempty"`
}

// ChatResponse is the assistant's answer
type ChatResponse struct {
	Reply    string `json:"reply"`
	Persona  string `json:"persona"`
	Fallback bool   `json:"fallback"`
}

// Chat handles POST /api/v1/sellerbot/chat
func (h *SellerbotHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorFromDomain(w, err)
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		httputil.ErrorFromDomain(w, domain.ErrValidationField("message", "message is required"))
		return
	}
	if len([]rune(req.Message)) > maxChatMessageLength {
		httputil.ErrorFromDomain(w, domain.ErrValidationField("message", fmt.Sprintf("message must be at most %d characters", maxChatMessageLength)))
		return
	}

	in := agents.ReplyInput{
		BusinessName: req.BusinessName,
		BusinessType: req.BusinessType,
		History:      req.History,
		Message:      req.Message,
	}
	if profile := h.lookupProfile(r.Context(), req.PageID); profile != nil {
		in.Persona = profile.Sellerbot
		in.BusinessName = firstNonEmpty(profile.BusinessName, in.BusinessName)
		in.BusinessType = firstNonEmpty(profile.BusinessType, in.BusinessType)
		in.Facts = profileFacts(profile)
	}
	if strings.TrimSpace(in.Persona.Name) == "" {
		in.Persona = agents.FallbackPersona(in.BusinessName, in.BusinessType)
	}

	if h.replier == nil {
		httputil.JSON(w, http.StatusOK, ChatResponse{
			Reply:    agents.FallbackReply(in.BusinessName, in.BusinessType),
			Persona:  in.Persona.Name,
			Fallback: true,
		})
		return
	}

	reply, err := h.replier.Reply(r.Context(), in)
	if err != nil {
		if llm.KindOf(err) == llm.KindInvalid {
			httputil.ErrorFromDomain(w, domain.ErrValidation("invalid chat request"))
			return
		}
		h.logger.Warn("Chat reply failed, using fallback", zap.String("page_id", req.PageID), zap.Error(err))
		reply = agents.FallbackReply(in.BusinessName, in.BusinessType)
	}

	httputil.JSON(w, http.StatusOK, ChatResponse{
		Reply:    reply,
		Persona:  in.Persona.Name,
		Fallback: reply == agents.FallbackReply(in.BusinessName, in.BusinessType),
	})
}

func (h *SellerbotHandler) lookupProfile(ctx context.Context, pageID string) *domain.BusinessProfile {
	if h.store == nil || pageID == "" {
		return nil
	}
	id, err := uuid.Parse(pageID)
	if err != nil {
		return nil
	}
	gen, err := h.store.GetGeneration(ctx, id)
	if err != nil {
		h.logger.Debug("Page not found for chat", zap.String("page_id", pageID), zap.Error(err))
		return nil
	}
	return gen.Profile
}

// profileFacts lists the details a visitor is likely to ask about.
func profileFacts(p *domain.BusinessProfile) string {
	var lines []string
	add := func(label, v string) {
		if v = strings.TrimSpace(v); v != "" {
			lines = append(lines, label+": "+v)
		}
	}

	add("Telefone", p.Contact.Phone)
	add("E-mail", p.Contact.Email)
	add("Endereço", p.Contact.Address)
	add("WhatsApp", p.Contact.SocialMedia.WhatsApp)
	add("Instagram", p.Contact.SocialMedia.Instagram)
	if s, ok := p.SectionByType(domain.SectionMethod); ok {
		add("Como trabalhamos", s.Content)
	}
	if s, ok := p.SectionByType(domain.SectionInvestment); ok {
		add("Investimento", s.Content)
	}
	for i, prod := range p.Products {
		if i == 5 {
			break
		}
		if prod.Price > 0 {
			add("Produto", fmt.Sprintf("%s (R$ %d)", prod.Name, prod.Price))
		} else {
			add("Produto", prod.Name)
		}
	}
	return strings.Join(lines, "\n")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
