package htmlgen

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/landingforge/landingforge/internal/domain"
	"github.com/landingforge/landingforge/internal/images"
)

// page is what section renderers read from.
type page struct {
	profile *domain.BusinessProfile
	tpl     domain.Template
	images  map[domain.ImageSlot]string
	builder *images.Builder
}

type sectionRenderer func(pg *page, s domain.TemplateSection) g.Node

var renderers = map[domain.SectionKind]sectionRenderer{
	domain.KindHero:         heroSection,
	domain.KindAbout:        splitSection,
	domain.KindBenefits:     benefitsSection,
	domain.KindServices:     splitSection,
	domain.KindProcess:      processSection,
	domain.KindResults:      splitSection,
	domain.KindGallery:      gallerySection,
	domain.KindCatalog:      catalogSection,
	domain.KindTestimonials: testimonialsSection,
	domain.KindTeam:         teamSection,
	domain.KindBeforeAfter:  beforeAfterSection,
	domain.KindVideo:        videoSection,
	domain.KindPricing:      pricingSection,
	domain.KindFAQ:          faqSection,
	domain.KindLocation:     locationSection,
	domain.KindContact:      contactSection,
}

// content returns the profile section bound to s, if any.
func (pg *page) content(s domain.TemplateSection) (domain.Section, bool) {
	if s.ContentType == "" {
		return domain.Section{}, false
	}
	return pg.profile.SectionByType(s.ContentType)
}

func (pg *page) title(s domain.TemplateSection) string {
	if c, ok := pg.content(s); ok && strings.TrimSpace(c.Title) != "" {
		return c.Title
	}
	return s.Name
}

func (pg *page) slotImage(s domain.TemplateSection) string {
	for _, slot := range s.ImageSlots {
		if u := pg.images[slot]; u != "" {
			return u
		}
	}
	return ""
}

func (pg *page) ctaHref() string {
	if link := whatsAppLink(pg.profile.Contact.SocialMedia.WhatsApp); link != "" {
		return link
	}
	for _, s := range pg.tpl.Sections {
		if s.Kind == domain.KindContact {
			return "#" + s.ID
		}
	}
	return "#"
}

func (pg *page) ctaText() string {
	return orElse(strings.TrimSpace(pg.profile.CTAText), "Fale Conosco")
}

func paragraphs(text string) g.Node {
	var nodes []g.Node
	for _, para := range strings.Split(text, "\n") {
		if para = strings.TrimSpace(para); para != "" {
			nodes = append(nodes, P(g.Text(para)))
		}
	}
	return g.Group(nodes)
}

var sentenceEnd = regexp.MustCompile(`[.!?]\s+`)

func sentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var out []string
	last := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		out = append(out, strings.TrimSpace(text[last:loc[0]+1]))
		last = loc[1]
	}
	if rest := strings.TrimSpace(text[last:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

func heroSection(pg *page, s domain.TemplateSection) g.Node {
	p := pg.profile
	text := p.HeroText
	if text == "" {
		if c, ok := pg.content(s); ok {
			text = c.Content
		}
	}
	var style g.Node
	if img := pg.slotImage(s); img != "" {
		style = Style(fmt.Sprintf("background-image: url('%s')", cssURL(img)))
	}
	return Section(ID(s.ID), Class("lf-hero"), style,
		Div(Class("container"),
			H1(g.Text(p.Title)),
			g.If(p.Subtitle != "", P(Class("lf-subtitle"), g.Text(p.Subtitle))),
			g.If(text != "", P(g.Text(text))),
			A(Class("btn"), Href(pg.ctaHref()), g.Text(pg.ctaText())),
		),
	)
}

func splitSection(pg *page, s domain.TemplateSection) g.Node {
	c, _ := pg.content(s)
	img := pg.slotImage(s)
	return Section(ID(s.ID), Class("lf-"+string(s.Kind)),
		Div(Class("container lf-split"),
			Div(
				H2(g.Text(pg.title(s))),
				paragraphs(c.Content),
			),
			g.If(img != "", Img(Src(img), Alt(pg.title(s)), g.Attr("loading", "lazy"))),
		),
	)
}

func benefitsSection(pg *page, s domain.TemplateSection) g.Node {
	c, _ := pg.content(s)
	items := sentences(c.Content)
	img := pg.slotImage(s)
	return Section(ID(s.ID), Class("lf-benefits"),
		Div(Class("container lf-split"),
			Div(
				H2(g.Text(pg.title(s))),
				Ul(Class("lf-steps"), g.Map(items, func(item string) g.Node {
					return Li(g.Text(item))
				})),
			),
			g.If(img != "", Img(Src(img), Alt(pg.title(s)), g.Attr("loading", "lazy"))),
		),
	)
}

func processSection(pg *page, s domain.TemplateSection) g.Node {
	c, _ := pg.content(s)
	steps := sentences(c.Content)
	img := pg.slotImage(s)

	var body g.Node
	if len(steps) > 1 {
		body = Ol(Class("lf-steps"), g.Map(steps, func(step string) g.Node {
			return Li(g.Text(step))
		}))
	} else {
		body = paragraphs(c.Content)
	}

	return Section(ID(s.ID), Class("lf-process"),
		Div(Class("container lf-split"),
			Div(H2(g.Text(pg.title(s))), body),
			g.If(img != "", Img(Src(img), Alt(pg.title(s)), g.Attr("loading", "lazy"))),
		),
	)
}

func sectionIntro(pg *page, s domain.TemplateSection) g.Node {
	c, _ := pg.content(s)
	return g.Group([]g.Node{
		H2(g.Text(pg.title(s))),
		paragraphs(c.Content),
	})
}

func gallerySection(pg *page, s domain.TemplateSection) g.Node {
	items := pg.profile.GalleryImages
	return Section(ID(s.ID), Class("lf-gallery"),
		Div(Class("container"),
			sectionIntro(pg, s),
			Div(Class("lf-grid"), g.Map(items, func(it domain.GalleryItem) g.Node {
				return Article(Class("lf-card"), ID(it.ID),
					Img(Src(pg.builder.URL(it.ImagePrompt)), Alt(it.Title), g.Attr("loading", "lazy")),
					Div(Class("lf-card-body"),
						Span(Class("lf-tag"), g.Text(it.Category)),
						H3(g.Text(it.Title)),
						P(g.Text(it.Description)),
					),
				)
			})),
		),
	)
}

func catalogSection(pg *page, s domain.TemplateSection) g.Node {
	products := pg.profile.Products
	return Section(ID(s.ID), Class("lf-catalog"),
		Div(Class("container"),
			sectionIntro(pg, s),
			Div(Class("lf-grid"), g.Map(products, func(pr domain.Product) g.Node {
				return Article(Class("lf-card"), ID(pr.ID),
					Img(Src(pg.builder.URL(pr.ImagePrompt)), Alt(pr.Name), g.Attr("loading", "lazy")),
					Div(Class("lf-card-body"),
						Span(Class("lf-tag"), g.Text(pr.Category)),
						H3(g.Text(pr.Name)),
						P(g.Text(pr.Description)),
						Span(Class("lf-price"), g.Text(FormatPrice(pr.Price))),
					),
				)
			})),
			P(Style("text-align:center;margin-top:32px"), A(Class("btn"), Href(pg.ctaHref()), g.Text("Fazer Pedido"))),
		),
	)
}

func testimonialsSection(pg *page, s domain.TemplateSection) g.Node {
	return Section(ID(s.ID), Class("lf-testimonials"),
		Div(Class("container"),
			sectionIntro(pg, s),
			testimonialGrid(pg.profile.Testimonials),
		),
	)
}

func testimonialGrid(items []domain.Testimonial) g.Node {
	return Div(Class("lf-grid"), g.Map(items, func(t domain.Testimonial) g.Node {
		return Article(Class("lf-card"), ID(t.ID),
			Div(Class("lf-card-body"),
				Div(Class("lf-stars"), g.Attr("aria-label", fmt.Sprintf("%d de 5 estrelas", t.Rating)), g.Text(stars(t.Rating))),
				P(Class("lf-quote"), g.Text("“"+t.Content+"”")),
				H3(g.Text(t.Name)),
				Span(g.Text(t.Role)),
			),
		)
	}))
}

func teamSection(pg *page, s domain.TemplateSection) g.Node {
	members := pg.profile.TeamMembers
	return Section(ID(s.ID), Class("lf-team"),
		Div(Class("container"),
			sectionIntro(pg, s),
			Div(Class("lf-grid"), g.Map(members, func(m domain.TeamMember) g.Node {
				return Article(Class("lf-card lf-member"), ID(m.ID),
					Img(Src(pg.builder.URL(m.ImagePrompt)), Alt(m.Name), g.Attr("loading", "lazy")),
					Div(Class("lf-card-body"),
						H3(g.Text(m.Name)),
						Span(Class("lf-tag"), g.Text(m.Role)),
						P(g.Text(m.Bio)),
					),
				)
			})),
		),
	)
}

func beforeAfterSection(pg *page, s domain.TemplateSection) g.Node {
	after := pg.slotImage(s)
	before := pg.builder.URL(fmt.Sprintf("%s, before the service, plain and unfinished, documentary photo", pg.profile.BusinessType))
	return Section(ID(s.ID), Class("lf-before-after-section"),
		Div(Class("container"),
			sectionIntro(pg, s),
			Div(Class("lf-before-after"),
				Figure(Img(Src(before), Alt("Antes"), g.Attr("loading", "lazy")), FigCaption(g.Text("Antes"))),
				g.If(after != "", Figure(Img(Src(after), Alt("Depois"), g.Attr("loading", "lazy")), FigCaption(g.Text("Depois")))),
			),
		),
	)
}

func videoSection(pg *page, s domain.TemplateSection) g.Node {
	poster := pg.images[domain.SlotHero]
	return Section(ID(s.ID), Class("lf-video-section"),
		Div(Class("container"),
			H2(g.Text(s.Name)),
			P(g.Text(fmt.Sprintf("Veja como a %s trabalha no dia a dia.", pg.profile.DisplayName()))),
			Div(Class("lf-video"),
				g.If(poster != "", Img(Src(poster), Alt(pg.profile.DisplayName()), g.Attr("loading", "lazy"))),
				A(Href(pg.ctaHref()), g.Attr("aria-label", "Assistir"), g.Text("▶")),
			),
		),
	)
}

func pricingSection(pg *page, s domain.TemplateSection) g.Node {
	return Section(ID(s.ID), Class("lf-pricing"),
		Div(Class("container"),
			sectionIntro(pg, s),
			A(Class("btn"), Href(pg.ctaHref()), g.Text(pg.ctaText())),
		),
	)
}

func faqSection(pg *page, s domain.TemplateSection) g.Node {
	return Section(ID(s.ID), Class("lf-faq"),
		Div(Class("container"),
			H2(g.Text(s.Name)),
			faqItems(pg.profile),
		),
	)
}

// faqItems answers common questions from the sellerbot canned replies.
func faqItems(p *domain.BusinessProfile) g.Node {
	r := p.Sellerbot.Responses
	qa := [][2]string{
		{"Quais serviços vocês oferecem?", r.Services},
		{"Quanto custa?", r.Pricing},
		{"Como faço para agendar ou pedir?", r.Appointment},
	}
	if c, ok := p.SectionByType(domain.SectionAccess); ok {
		qa = append(qa, [2]string{"Onde vocês atendem?", c.Content})
	}

	var items []g.Node
	for _, item := range qa {
		if strings.TrimSpace(item[1]) == "" {
			continue
		}
		items = append(items, Details(Summary(g.Text(item[0])), P(g.Text(item[1]))))
	}
	return g.Group(items)
}

func locationSection(pg *page, s domain.TemplateSection) g.Node {
	address := pg.profile.Contact.Address
	img := pg.slotImage(s)
	c, _ := pg.content(s)
	return Section(ID(s.ID), Class("lf-location"),
		Div(Class("container lf-split"),
			Div(
				H2(g.Text(pg.title(s))),
				paragraphs(c.Content),
				g.If(address != "", P(Strong(g.Text("Endereço: ")), g.Text(address))),
				g.If(address != "", A(Class("btn"), Href(mapsLink(address)), Target("_blank"), Rel("noopener"), g.Text("Ver no mapa"))),
			),
			g.If(img != "", Img(Src(img), Alt(pg.title(s)), g.Attr("loading", "lazy"))),
		),
	)
}

func contactSection(pg *page, s domain.TemplateSection) g.Node {
	ct := pg.profile.Contact
	sm := ct.SocialMedia
	c, _ := pg.content(s)

	items := []g.Node{
		g.If(ct.Phone != "", Li(Strong(g.Text("Telefone: ")), A(Href("tel:"+digits(ct.Phone)), g.Text(ct.Phone)))),
		g.If(sm.WhatsApp != "", Li(Strong(g.Text("WhatsApp: ")), A(Href(whatsAppLink(sm.WhatsApp)), Target("_blank"), Rel("noopener"), g.Text(sm.WhatsApp)))),
		g.If(ct.Email != "", Li(Strong(g.Text("E-mail: ")), A(Href("mailto:"+ct.Email), g.Text(ct.Email)))),
		g.If(ct.Address != "", Li(Strong(g.Text("Endereço: ")), g.Text(ct.Address))),
		g.If(sm.Instagram != "", Li(Strong(g.Text("Instagram: ")), A(Href(instagramLink(sm.Instagram)), Target("_blank"), Rel("noopener"), g.Text(sm.Instagram)))),
		g.If(sm.Facebook != "", Li(Strong(g.Text("Facebook: ")), g.Text(sm.Facebook))),
		g.If(sm.LinkedIn != "", Li(Strong(g.Text("LinkedIn: ")), g.Text(sm.LinkedIn))),
	}

	return Section(ID(s.ID), Class("lf-contact"),
		Div(Class("container lf-split"),
			Div(
				H2(g.Text(pg.title(s))),
				paragraphs(c.Content),
				Ul(Class("lf-contact-list"), g.Group(items)),
				A(Class("btn"), Href(pg.ctaHref()), g.Text(pg.ctaText())),
			),
			g.If(pg.slotImage(s) != "", Img(Src(pg.slotImage(s)), Alt(pg.title(s)), g.Attr("loading", "lazy"))),
		),
	)
}

// FormatPrice renders whole reais as "R$ 1.234,00".
func FormatPrice(reais int) string {
	s := strconv.Itoa(reais)
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, c)
	}
	return "R$ " + string(out) + ",00"
}

func stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}

var nonDigit = regexp.MustCompile(`\D`)

func digits(s string) string {
	return nonDigit.ReplaceAllString(s, "")
}

// whatsAppLink builds a wa.me link, adding the Brazilian country code to local numbers.
func whatsAppLink(number string) string {
	if strings.HasPrefix(number, "http") {
		return number
	}
	d := digits(number)
	if len(d) < 8 {
		return ""
	}
	if len(d) <= 11 {
		d = "55" + d
	}
	return "https://wa.me/" + d
}

func instagramLink(handle string) string {
	if strings.HasPrefix(handle, "http") {
		return handle
	}
	return "https://instagram.com/" + strings.TrimPrefix(strings.TrimSpace(handle), "@")
}

func mapsLink(address string) string {
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(address)
}

func cssURL(u string) string {
	return strings.NewReplacer(`'`, `%27`, `\`, `%5C`, "\n", "", "\r", "").Replace(u)
}
