package htmlgen

import (
	"fmt"
	"regexp"
	"strings"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/landingforge/landingforge/internal/domain"
)

var (
	gaIDPattern    = regexp.MustCompile(`^(G-[A-Z0-9]{4,20}|UA-\d{4,12}-\d{1,4})$`)
	pixelIDPattern = regexp.MustCompile(`^\d{6,20}$`)
)

func property(name, value string) g.Node {
	return g.If(value != "", Meta(g.Attr("property", name), Content(value)))
}

func namedMeta(name, value string) g.Node {
	return g.If(value != "", Meta(Name(name), Content(value)))
}

// headNodes returns everything inside <head> except the charset and viewport.
func headNodes(p *domain.BusinessProfile, css, fontsURL, ogImage string) []g.Node {
	seo := p.SEO
	if seo == nil {
		seo = &domain.SEOMetadata{}
	}
	title := seo.Title
	if title == "" {
		title = p.Title
	}
	description := seo.Description
	if description == "" {
		description = p.Subtitle
	}
	if seo.OGImage != "" {
		ogImage = seo.OGImage
	}

	nodes := []g.Node{
		TitleEl(g.Text(title)),
		namedMeta("description", description),
		namedMeta("keywords", strings.Join(seo.Keywords, ", ")),
		property("og:title", orElse(seo.OGTitle, title)),
		property("og:description", orElse(seo.OGDescription, description)),
		property("og:type", orElse(seo.OGType, "website")),
		property("og:image", ogImage),
		property("og:locale", "pt_BR"),
		namedMeta("twitter:card", orElse(seo.TwitterCard, "summary_large_image")),
		namedMeta("twitter:title", orElse(seo.TwitterTitle, title)),
		namedMeta("twitter:description", orElse(seo.TwitterDescription, description)),
		namedMeta("twitter:image", orElse(seo.TwitterImage, ogImage)),
		g.If(seo.CanonicalURL != "", Link(Rel("canonical"), Href(seo.CanonicalURL))),
		g.If(seo.CustomHeadTags != "", g.Raw(seo.CustomHeadTags)),
		Link(Rel("stylesheet"), Href(fontsURL)),
		StyleEl(g.Raw(css)),
		g.If(seo.StructuredData != "", Script(Type("application/ld+json"), g.Raw(scriptSafe(seo.StructuredData)))),
	}
	nodes = append(nodes, trackingNodes(seo)...)
	return nodes
}

func trackingNodes(seo *domain.SEOMetadata) []g.Node {
	var nodes []g.Node
	if gaIDPattern.MatchString(seo.GoogleAnalyticsID) {
		id := seo.GoogleAnalyticsID
		nodes = append(nodes,
			Script(Async(), Src("https://www.googletagmanager.com/gtag/js?id="+id)),
			Script(g.Raw(fmt.Sprintf("window.dataLayer=window.dataLayer||[];function gtag(){dataLayer.push(arguments);}gtag('js',new Date());gtag('config','%s');", id))),
		)
	}
	if pixelIDPattern.MatchString(seo.FacebookPixelID) {
		nodes = append(nodes, Script(g.Raw(fmt.Sprintf(
			"!function(f,b,e,v,n,t,s){if(f.fbq)return;n=f.fbq=function(){n.callMethod?n.callMethod.apply(n,arguments):n.queue.push(arguments)};"+
				"if(!f._fbq)f._fbq=n;n.push=n;n.loaded=!0;n.version='2.0';n.queue=[];t=b.createElement(e);t.async=!0;"+
				"t.src=v;s=b.getElementsByTagName(e)[0];s.parentNode.insertBefore(t,s)}(window,document,'script',"+
				"'https://connect.facebook.net/en_US/fbevents.js');fbq('init','%s');fbq('track','PageView');", seo.FacebookPixelID))))
	}
	return nodes
}

// scriptSafe prevents a JSON payload from closing its script element.
func scriptSafe(s string) string {
	return strings.ReplaceAll(s, "</", `<\/`)
}

func orElse(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
