package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerationStatus represents the state of a landing-page generation
type GenerationStatus string

const (
	GenerationPending    GenerationStatus = "pending"
	GenerationRunning    GenerationStatus = "running"
	GenerationCompleted  GenerationStatus = "completed"
	GenerationFailed     GenerationStatus = "failed"
	GenerationSuperseded GenerationStatus = "superseded"
)

func (s GenerationStatus) IsTerminal() bool {
	return s == GenerationCompleted || s == GenerationFailed || s == GenerationSuperseded
}

func (s GenerationStatus) IsValid() bool {
	switch s {
	case GenerationPending, GenerationRunning, GenerationCompleted,
		GenerationFailed, GenerationSuperseded:
		return true
	}
	return false
}

// Generation is one landing-page request and its outcome.
// Records live in Redis with a TTL; there is no durable store.
type Generation struct {
	ID         uuid.UUID        `json:"id"`
	SessionID  string           `json:"session_id,omitempty"`
	Status     GenerationStatus `json:"status"`
	Prompt     string           `json:"prompt"`
	TemplateID TemplateID       `json:"template_id,omitempty"`
	Profile    *BusinessProfile `json:"profile,omitempty"`
	HTML       string           `json:"-"`
	Error      string           `json:"error,omitempty"`
	WorkflowID string           `json:"workflow_id,omitempty"`
	ExportURL  string           `json:"export_url,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// NewGeneration creates a pending generation for prompt.
func NewGeneration(prompt, sessionID string) *Generation {
	now := time.Now().UTC()
	return &Generation{
		ID:        uuid.New(),
		SessionID: sessionID,
		Status:    GenerationPending,
		Prompt:    prompt,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Complete records a successful render.
func (g *Generation) Complete(profile *BusinessProfile, html string) {
	g.Status = GenerationCompleted
	g.Profile = profile
	g.HTML = html
	if profile != nil {
		g.TemplateID = profile.TemplateID
	}
	g.Error = ""
	g.UpdatedAt = time.Now().UTC()
}

// Fail records a failed generation. msg is user facing.
func (g *Generation) Fail(msg string) {
	g.Status = GenerationFailed
	g.Error = msg
	g.UpdatedAt = time.Now().UTC()
}

// Supersede marks a generation replaced by a newer request of the same session.
func (g *Generation) Supersede() {
	g.Status = GenerationSuperseded
	g.UpdatedAt = time.Now().UTC()
}

// FileName is the download name for the rendered page.
func (g *Generation) FileName() string {
	if g.Profile == nil {
		return "index.html"
	}
	return SafeFileName(g.Profile.Title)
}

var unsafeFileChars = regexp.MustCompile(`[\\/:*?"<>|\x00-\x1f]+`)

// SafeFileName turns a page title into "{title}.html", or "index.html" when nothing usable remains.
func SafeFileName(title string) string {
	name := strings.TrimSpace(unsafeFileChars.ReplaceAllString(title, ""))
	name = strings.Trim(name, ".")
	if name == "" {
		return "index.html"
	}
	return name + ".html"
}
