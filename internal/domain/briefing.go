package domain

import (
	"fmt"
	"strings"
)

// ProcessedBriefing is the canonical business description extracted from user text.
type ProcessedBriefing struct {
	BusinessName   string `json:"businessName"`
	BusinessType   string `json:"businessType"`
	TargetAudience string `json:"targetAudience"`
	MainGoal       string `json:"mainGoal"`
	Services       string `json:"services"`
	Differentials  string `json:"differentials"`
	SpecialOffers  string `json:"specialOffers"`
	Description    string `json:"description"`

	WhatsApp     string `json:"whatsapp,omitempty"`
	Instagram    string `json:"instagram,omitempty"`
	Facebook     string `json:"facebook,omitempty"`
	LinkedIn     string `json:"linkedin,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
	OtherContact string `json:"otherContact,omitempty"`

	HasLogo bool   `json:"hasLogo"`
	Colors  Colors `json:"colors"`

	// Inferred is set when the business was classified from keywords instead of labels.
	Inferred bool `json:"inferred"`
	// PaletteExplicit is set when the user supplied the colors.
	PaletteExplicit bool `json:"paletteExplicit"`
}

// Instructions renders the briefing as the business description sent to the agents.
func (b ProcessedBriefing) Instructions() string {
	var sb strings.Builder
	line := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			fmt.Fprintf(&sb, "%s: %s\n", label, value)
		}
	}

	line("Nome da Empresa", b.BusinessName)
	line("Tipo de Negócio", b.BusinessType)
	line("Descrição", b.Description)
	line("Público-alvo", b.TargetAudience)
	line("Objetivo", b.MainGoal)
	line("Serviços", b.Services)
	line("Diferenciais", b.Differentials)
	line("Ofertas Especiais", b.SpecialOffers)
	line("WhatsApp", b.WhatsApp)
	line("Instagram", b.Instagram)
	line("Facebook", b.Facebook)
	line("LinkedIn", b.LinkedIn)
	line("Email", b.Email)
	line("Telefone", b.Phone)
	line("Endereço", b.Address)
	line("Outras informações de contato", b.OtherContact)
	if b.HasLogo {
		line("Possui logo", "sim")
	}
	if b.PaletteExplicit {
		line("Cores", fmt.Sprintf("%s, %s, %s", b.Colors.Primary, b.Colors.Secondary, b.Colors.Accent))
	}

	return strings.TrimRight(sb.String(), "\n")
}
