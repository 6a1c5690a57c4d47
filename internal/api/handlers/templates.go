package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/landingforge/landingforge/internal/domain"
	"github.com/landingforge/landingforge/internal/templates"
	"github.com/landingforge/landingforge/pkg/httputil"
)

// TemplateHandler exposes the page template catalog
type TemplateHandler struct{}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler() *TemplateHandler {
	return &TemplateHandler{}
}

// List handles GET /api/v1/templates
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, templates.All())
}

// Get handles GET /api/v1/templates/{id}
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := domain.TemplateID(chi.URLParam(r, "id"))
	tpl, ok := templates.ByID(id)
	if !ok {
		httputil.ErrorFromDomain(w, domain.ErrNotFound("template", string(id)))
		return
	}
	httputil.JSON(w, http.StatusOK, tpl)
}

// SelectResponse is the template chosen for a business type
type SelectResponse struct {
	BusinessType string            `json:"businessType"`
	TemplateID   domain.TemplateID `json:"templateId"`
	Template     domain.Template   `json:"template"`
}

// Select handles GET /api/v1/templates/select?businessType=
func (h *TemplateHandler) Select(w http.ResponseWriter, r *http.Request) {
	businessType := strings.TrimSpace(r.URL.Query().Get("businessType"))
	if businessType == "" {
		httputil.ErrorFromDomain(w, domain.ErrValidationField("businessType", "businessType is required"))
		return
	}
	tpl := templates.SelectForBusiness(businessType)
	httputil.JSON(w, http.StatusOK, SelectResponse{
		BusinessType: businessType,
		TemplateID:   tpl.ID,
		Template:     tpl,
	})
}
