package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landingforge/landingforge/internal/agents"
	"github.com/landingforge/landingforge/internal/domain"
	"github.com/landingforge/landingforge/internal/llm"
	"github.com/landingforge/landingforge/internal/repository/memory"
)

type fakeReplier struct {
	in    agents.ReplyInput
	reply string
	err   error
}

func (f *fakeReplier) Reply(_ context.Context, in agents.ReplyInput) (string, error) {
	f.in = in
	return f.reply, f.err
}

func postChat(h *SellerbotHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sellerbot/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Chat(rec, req)
	return rec
}

func TestSellerbotHandler_UsesStoredPersona(t *testing.T) {
	store := memory.New(0)
	gen := domain.NewGeneration("Nome: Oficina do Zé", "")
	gen.Complete(&domain.BusinessProfile{
		Title:        "Oficina do Zé",
		BusinessName: "Oficina do Zé",
		BusinessType: "Oficina mecânica",
		Sections: []domain.Section{
			{ID: "investimento", Type: domain.SectionInvestment, Content: "Revisão a partir de R$ 150"},
		},
		Contact:   domain.Contact{Phone: "(11) 3333-4444"},
		Sellerbot: domain.Sellerbot{Name: "Zé Bot"},
	}, "<html></html>")
	require.NoError(t, store.SaveGeneration(context.Background(), gen))

	replier := &fakeReplier{reply: "Abrimos às 8h!"}
	h := NewSellerbotHandler(replier, store, nil)

	rec := postChat(h, `{"pageId": "`+gen.ID.String()+`", "message": "Que horas abre?",
		"history": [{"role": "user", "content": "oi"}, {"role": "assistant", "content": "Olá!"}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	_, data := decodeResponse(t, rec)
	assert.Equal(t, "Abrimos às 8h!", data["reply"])
	assert.Equal(t, "Zé Bot", data["persona"])
	assert.Equal(t, false, data["fallback"])

	assert.Equal(t, "Zé Bot", replier.in.Persona.Name)
	assert.Equal(t, "Oficina do Zé", replier.in.BusinessName)
	assert.Contains(t, replier.in.Facts, "Telefone: (11) 3333-4444")
	assert.Contains(t, replier.in.Facts, "Investimento: Revisão a partir de R$ 150")
	assert.Len(t, replier.in.History, 2)
}

func TestSellerbotHandler_UnknownPageUsesFallbackPersona(t *testing.T) {
	replier := &fakeReplier{reply: "Claro!"}
	h := NewSellerbotHandler(replier, memory.New(0), nil)

	rec := postChat(h, `{"pageId": "static-page", "businessName": "Padaria Pão Quente", "businessType": "Padaria", "message": "Tem pão de queijo?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, agents.FallbackPersona("Padaria Pão Quente", "Padaria").Name, replier.in.Persona.Name)
	assert.Equal(t, "Padaria Pão Quente", replier.in.BusinessName)
	assert.Empty(t, replier.in.Facts)
}

func TestSellerbotHandler_Errors(t *testing.T) {
	t.Run("empty message", func(t *testing.T) {
		h := NewSellerbotHandler(&fakeReplier{}, nil, nil)
		assert.Equal(t, http.StatusBadRequest, postChat(h, `{"message": "  "}`).Code)
	})

	t.Run("invalid history", func(t *testing.T) {
		replier := &fakeReplier{err: llm.NewInvalidError("chat", errors.New("unsupported history role"))}
		h := NewSellerbotHandler(replier, nil, nil)
		rec := postChat(h, `{"message": "oi", "history": [{"role": "system", "content": "x"}]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("upstream rejection falls back", func(t *testing.T) {
		upstream := &llm.Error{Kind: llm.KindNetwork, Op: agents.NameChat, StatusCode: http.StatusUnauthorized, Err: errors.New("invalid api key")}
		h := NewSellerbotHandler(&fakeReplier{err: upstream}, nil, nil)
		rec := postChat(h, `{"businessName": "Loja X", "message": "oi"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		_, data := decodeResponse(t, rec)
		assert.Equal(t, agents.FallbackReply("Loja X", ""), data["reply"])
		assert.Equal(t, true, data["fallback"])
	})

	t.Run("other errors fall back", func(t *testing.T) {
		replier := &fakeReplier{err: context.Canceled}
		h := NewSellerbotHandler(replier, nil, nil)
		rec := postChat(h, `{"businessName": "Loja X", "message": "oi"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		_, data := decodeResponse(t, rec)
		assert.Equal(t, agents.FallbackReply("Loja X", ""), data["reply"])
		assert.Equal(t, true, data["fallback"])
	})

	t.Run("no model configured", func(t *testing.T) {
		h := NewSellerbotHandler(nil, nil, nil)
		rec := postChat(h, `{"businessName": "Loja X", "message": "oi"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		_, data := decodeResponse(t, rec)
		assert.Equal(t, true, data["fallback"])
	})
}
