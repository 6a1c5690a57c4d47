// Package briefing turns free-form or labeled business descriptions into a ProcessedBriefing.
package briefing

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/landingforge/landingforge/internal/domain"
)

// field identifies a labeled value in a briefing
type field int

const (
	fieldName field = iota
	fieldType
	fieldAudience
	fieldGoal
	fieldServices
	fieldDifferentials
	fieldOffers
	fieldDescription
	fieldWhatsApp
	fieldInstagram
	fieldFacebook
	fieldLinkedIn
	fieldEmail
	fieldPhone
	fieldAddress
	fieldOtherContact
	fieldLogo
	fieldColors
)

// labels lists accepted spellings per field. Longer aliases first so "Nome da Empresa" beats "Nome".
var labels = []struct {
	field   field
	aliases []string
}{
	{fieldName, []string{"nome da empresa", "nome do negócio", "nome do negocio", "nome da marca", "empresa", "nome"}},
	{fieldType, []string{"tipo de negócio", "tipo de negocio", "tipo de empresa", "ramo de atividade", "ramo", "segmento", "nicho"}},
	{fieldAudience, []string{"público-alvo", "publico-alvo", "público alvo", "publico alvo", "público", "publico"}},
	{fieldGoal, []string{"objetivo principal", "objetivo da página", "objetivo"}},
	{fieldServices, []string{"serviços", "servicos", "produtos", "produtos/serviços", "produtos e serviços"}},
	{fieldDifferentials, []string{"diferenciais", "diferencial"}},
	{fieldOffers, []string{"ofertas especiais", "ofertas", "promoções", "promocoes", "promoção"}},
	{fieldDescription, []string{"descrição", "descricao", "sobre"}},
	{fieldWhatsApp, []string{"whatsapp", "whats", "zap"}},
	{fieldInstagram, []string{"instagram", "insta"}},
	{fieldFacebook, []string{"facebook"}},
	{fieldLinkedIn, []string{"linkedin"}},
	{fieldEmail, []string{"e-mail", "email"}},
	{fieldPhone, []string{"telefone", "fone", "celular"}},
	{fieldAddress, []string{"endereço", "endereco", "localização", "localizacao"}},
	{fieldOtherContact, []string{"outras informações de contato", "outras informacoes de contato", "outros contatos", "contato"}},
	{fieldLogo, []string{"possui logo", "tem logo", "logo"}},
	{fieldColors, []string{"paleta de cores", "cores da marca", "cores"}},
}

var (
	labelLinePattern = regexp.MustCompile(`^\s*(?:[-*•]\s*)?([^:：]{2,40})\s*[:：]\s*(.*)$`)

	// Instructions aimed at the generator, e.g. "(USE EXATAMENTE ESTE NOME)".
	annotationPattern = regexp.MustCompile(`(?i)\s*[\(\[]\s*(?:use|usar|utilize|utilizar|mantenha|não altere|nao altere)\b[^\)\]]*[\)\]]`)

	hexPattern    = regexp.MustCompile(`#[0-9a-fA-F]{6}\b`)
	clauseBreaker = regexp.MustCompile(`[,.;:!?\n–—]| - `)
)

var emptyValues = map[string]bool{
	"":              true,
	"-":             true,
	"n/a":           true,
	"na":            true,
	"não":           true,
	"nao":           true,
	"não informado": true,
	"nao informado": true,
	"não tem":       true,
	"nenhum":        true,
	"nenhuma":       true,
}

// DefaultBusinessName is used when no name can be found.
const DefaultBusinessName = "Empresa"

// Normalizer parses briefings
type Normalizer struct {
	logger *zap.Logger
}

// NewNormalizer creates a Normalizer
func NewNormalizer(logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{logger: logger.Named("briefing")}
}

// Normalize never fails: unparseable input yields a generic briefing.
func Normalize(raw string) domain.ProcessedBriefing {
	return NewNormalizer(nil).Normalize(raw)
}

// Normalize extracts labeled fields and infers the rest from keywords.
func (n *Normalizer) Normalize(raw string) (out domain.ProcessedBriefing) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("briefing normalization panicked, using minimal default", zap.Any("panic", r))
			out = minimalDefault()
		}
	}()

	values := extractLabels(raw)
	b := domain.ProcessedBriefing{
		BusinessName:   values[fieldName],
		BusinessType:   values[fieldType],
		TargetAudience: values[fieldAudience],
		MainGoal:       values[fieldGoal],
		Services:       values[fieldServices],
		Differentials:  values[fieldDifferentials],
		SpecialOffers:  values[fieldOffers],
		Description:    values[fieldDescription],
		WhatsApp:       values[fieldWhatsApp],
		Instagram:      values[fieldInstagram],
		Facebook:       values[fieldFacebook],
		LinkedIn:       values[fieldLinkedIn],
		Email:          values[fieldEmail],
		Phone:          values[fieldPhone],
		Address:        values[fieldAddress],
		OtherContact:   values[fieldOtherContact],
		HasLogo:        isYes(values[fieldLogo]),
	}

	if colors, ok := parseColors(values[fieldColors]); ok {
		b.Colors = colors
		b.PaletteExplicit = true
	}

	if b.BusinessName == "" || b.BusinessType == "" {
		n.infer(&b, raw, len(values) > 0)
	}

	n.logger.Debug("briefing normalized",
		zap.String("business_name", b.BusinessName),
		zap.String("business_type", b.BusinessType),
		zap.Bool("inferred", b.Inferred),
		zap.Int("labels", len(values)),
	)
	return b
}

// infer fills identity and empty soft fields from the keyword table.
func (n *Normalizer) infer(b *domain.ProcessedBriefing, raw string, labeled bool) {
	b.Inferred = true

	source := raw
	if b.BusinessType != "" {
		source = b.BusinessType + " " + raw
	}
	profile, matched := matchNiche(source)

	if b.BusinessType == "" {
		b.BusinessType = profile.businessType
	}
	if b.BusinessName == "" {
		b.BusinessName = inferName(raw, labeled)
	}
	if b.BusinessName == "" {
		b.BusinessName = DefaultBusinessName
	}

	fill(&b.Services, profile.services)
	fill(&b.TargetAudience, profile.targetAudience)
	fill(&b.MainGoal, profile.mainGoal)
	fill(&b.Differentials, profile.differentials)
	fill(&b.SpecialOffers, profile.specialOffers)
	if !labeled {
		fill(&b.Description, cleanValue(collapseSpaces(raw), 500))
	}
	if !b.PaletteExplicit {
		b.Colors = profile.colors
	}

	if !matched {
		n.logger.Debug("no niche keyword matched, using generic profile")
	}
}

func extractLabels(raw string) map[field]string {
	values := make(map[field]string)
	for _, line := range strings.Split(raw, "\n") {
		m := labelLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		f, ok := lookupLabel(m[1])
		if !ok {
			continue
		}
		if _, seen := values[f]; seen {
			continue
		}
		v := cleanValue(m[2], 1000)
		if f == fieldLogo {
			// "Possui logo: não" is meaningful, keep it raw.
			values[f] = strings.ToLower(v)
			continue
		}
		if emptyValues[strings.ToLower(v)] {
			continue
		}
		values[f] = v
	}
	return values
}

func lookupLabel(label string) (field, bool) {
	label = strings.ToLower(strings.TrimSpace(label))
	label = strings.Trim(label, "*_ ")
	for _, l := range labels {
		for _, alias := range l.aliases {
			if label == alias {
				return l.field, true
			}
		}
	}
	return 0, false
}

// cleanValue strips generator annotations, markdown emphasis and surrounding quotes.
func cleanValue(v string, max int) string {
	v = annotationPattern.ReplaceAllString(v, "")
	v = strings.TrimSpace(v)
	v = strings.Trim(v, `*_"'“”`)
	v = strings.TrimSpace(v)
	if utf8.RuneCountInString(v) > max {
		v = string([]rune(v)[:max])
	}
	return v
}

// StripAnnotations removes "(USE EXACTLY …)" style instructions from a value.
func StripAnnotations(v string) string {
	return strings.TrimSpace(annotationPattern.ReplaceAllString(v, ""))
}

func matchNiche(text string) (niche, bool) {
	lower := strings.ToLower(text)
	for _, n := range niches {
		for _, kw := range n.keywords {
			if containsWordPrefix(lower, kw) {
				return n, true
			}
		}
	}
	return generic, false
}

// containsWordPrefix reports whether kw occurs in text starting at a word boundary.
// Stems like "advogad" still match "advogados"; "curso" does not match "recursos".
func containsWordPrefix(text, kw string) bool {
	for offset := 0; offset < len(text); {
		i := strings.Index(text[offset:], kw)
		if i < 0 {
			return false
		}
		pos := offset + i
		if pos == 0 {
			return true
		}
		prev, _ := utf8.DecodeLastRuneInString(text[:pos])
		if !unicode.IsLetter(prev) && !unicode.IsDigit(prev) {
			return true
		}
		offset = pos + len(kw)
	}
	return false
}

// inferName uses the opening clause of free text when it looks like a proper name.
func inferName(raw string, labeled bool) string {
	if labeled {
		return ""
	}
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	if loc := clauseBreaker.FindStringIndex(text); loc != nil {
		text = text[:loc[0]]
	}
	text = cleanValue(text, 80)

	words := strings.Fields(text)
	if len(words) == 0 || len(words) > 6 {
		return ""
	}
	first, _ := utf8.DecodeRuneInString(text)
	if !unicode.IsUpper(first) {
		return ""
	}
	return text
}

func parseColors(v string) (domain.Colors, bool) {
	if v == "" {
		return domain.Colors{}, false
	}

	found := hexPattern.FindAllString(v, 3)
	lower := strings.ToLower(v)
	if len(found) < 3 {
		for _, nc := range namedColors {
			if len(found) == 3 {
				break
			}
			if strings.Contains(lower, nc.name) {
				found = append(found, nc.hex)
				lower = strings.ReplaceAll(lower, nc.name, "")
			}
		}
	}
	if len(found) == 0 {
		return domain.Colors{}, false
	}

	c := domain.Colors{Primary: strings.ToLower(found[0])}
	c.Secondary = c.Primary
	c.Accent = c.Primary
	if len(found) > 1 {
		c.Secondary = strings.ToLower(found[1])
		c.Accent = c.Secondary
	}
	if len(found) > 2 {
		c.Accent = strings.ToLower(found[2])
	}
	return c, true
}

func isYes(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	switch {
	case v == "":
		return false
	case strings.HasPrefix(v, "sim"), strings.HasPrefix(v, "s "), v == "s",
		strings.HasPrefix(v, "yes"), strings.HasPrefix(v, "tenho"), strings.HasPrefix(v, "possuo"):
		return true
	}
	return false
}

func fill(dst *string, v string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = v
	}
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func minimalDefault() domain.ProcessedBriefing {
	return domain.ProcessedBriefing{
		BusinessName:   DefaultBusinessName,
		BusinessType:   generic.businessType,
		TargetAudience: generic.targetAudience,
		MainGoal:       generic.mainGoal,
		Services:       generic.services,
		Differentials:  generic.differentials,
		SpecialOffers:  generic.specialOffers,
		Colors:         generic.colors,
		Inferred:       true,
	}
}
