package htmlgen

import (
	"encoding/json"
	"strings"
	"text/template"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/landingforge/landingforge/internal/domain"
)

// In-page messaging contract with an embedding frame.
const (
	ChatRequestMessage  = "SELLERBOT_CHAT"
	ChatResponseMessage = "SELLERBOT_RESPONSE"
	// AutoGenerateEvent is the DOM event the editor dispatches with {detail: {prompt}}.
	AutoGenerateEvent = "auto-generate-landing-page"
)

const chatFallbackText = "Desculpe, não consegui responder agora. Fale com a gente pelo WhatsApp ou telefone!"

// chatHistoryLimit matches the server-side bound on prior turns.
const chatHistoryLimit = 10

type chatConfig struct {
	Endpoint     string `json:"endpoint"`
	PageID       string `json:"pageId"`
	BusinessName string `json:"businessName"`
	BusinessType string `json:"businessType"`
	Greeting     string `json:"greeting"`
	Fallback     string `json:"fallback"`
	RequestType  string `json:"requestType"`
	ResponseType string `json:"responseType"`
	MaxHistory   int    `json:"maxHistory"`
}

// The config is injected as a JSON literal; json.Marshal escapes <, > and &.
var chatScript = template.Must(template.New("chat").Parse(`(function () {
  var cfg = {{.}};
  var history = [];
  var root = document.getElementById('lf-chat');
  if (!root) return;
  var toggle = root.querySelector('.lf-chat-toggle');
  var panel = root.querySelector('.lf-chat-panel');
  var log = root.querySelector('.lf-chat-log');
  var form = root.querySelector('form');
  var input = form.querySelector('input');

  function append(role, text) {
    var el = document.createElement('div');
    el.className = 'lf-msg lf-msg-' + role;
    el.textContent = text;
    log.appendChild(el);
    log.scrollTop = log.scrollHeight;
  }

  function ask(message) {
    var body = {
      pageId: cfg.pageId,
      businessName: cfg.businessName,
      businessType: cfg.businessType,
      message: message,
      history: history.slice(-cfg.maxHistory)
    };
    return fetch(cfg.endpoint, {
      method: 'POST',
      headers: {'Content-Type': 'application/json'},
      body: JSON.stringify(body)
    }).then(function (res) {
      if (!res.ok) throw new Error('status ' + res.status);
      return res.json();
    }).then(function (res) {
      var reply = (res && res.data && res.data.reply) || cfg.fallback;
      history.push({role: 'user', content: message}, {role: 'assistant', content: reply});
      return reply;
    }).catch(function () {
      return cfg.fallback;
    });
  }

  toggle.addEventListener('click', function () {
    panel.hidden = !panel.hidden;
    if (!panel.hidden && !log.childNodes.length) append('assistant', cfg.greeting);
    if (!panel.hidden) input.focus();
  });

  form.addEventListener('submit', function (e) {
    e.preventDefault();
    var message = input.value.trim();
    if (!message) return;
    input.value = '';
    append('user', message);
    ask(message).then(function (reply) { append('assistant', reply); });
  });

  window.addEventListener('message', function (e) {
    var data = e.data;
    if (!data || data.type !== cfg.requestType || !data.message) return;
    ask(String(data.message)).then(function (reply) {
      if (!e.source) return;
      var origin = e.origin && e.origin !== 'null' ? e.origin : '*';
      e.source.postMessage({type: cfg.responseType, requestId: data.requestId, message: reply}, origin);
    });
  });
})();`))

func newChatConfig(p *domain.BusinessProfile, endpoint, pageID string) chatConfig {
	greeting := p.Sellerbot.Responses.Greeting
	if strings.TrimSpace(greeting) == "" {
		greeting = "Olá! Como posso ajudar você hoje?"
	}
	return chatConfig{
		Endpoint:     endpoint,
		PageID:       pageID,
		BusinessName: p.DisplayName(),
		BusinessType: p.BusinessType,
		Greeting:     greeting,
		Fallback:     chatFallbackText,
		RequestType:  ChatRequestMessage,
		ResponseType: ChatResponseMessage,
		MaxHistory:   chatHistoryLimit,
	}
}

func renderChatScript(cfg chatConfig) (string, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := chatScript.Execute(&sb, string(raw)); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// chatWidget is the floating bubble. script is the output of renderChatScript.
func chatWidget(p *domain.BusinessProfile, script string) g.Node {
	name := p.Sellerbot.Name
	if strings.TrimSpace(name) == "" {
		name = "Atendimento"
	}
	return Div(ID("lf-chat"),
		Div(Class("lf-chat-panel"), g.Attr("hidden"),
			Div(Class("lf-chat-head"), g.Text(name)),
			Div(Class("lf-chat-log"), g.Attr("aria-live", "polite")),
			Form(
				Input(Type("text"), Name("message"), Placeholder("Digite sua mensagem..."), g.Attr("autocomplete", "off")),
				Button(Type("submit"), g.Text("Enviar")),
			),
		),
		Button(Class("lf-chat-toggle"), Type("button"), g.Attr("aria-label", "Abrir chat"), g.Text("💬")),
		Script(g.Raw(script)),
	)
}
