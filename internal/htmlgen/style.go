package htmlgen

import (
	"regexp"
	"strings"
	"text/template"

	"github.com/landingforge/landingforge/internal/domain"
)

const (
	defaultHeadingFont = "Poppins"
	defaultBodyFont    = "Inter"
)

var fontNamePattern = regexp.MustCompile(`^[A-Za-z0-9 ]{2,40}$`)

// safeFont keeps font names that can go into CSS and a Google Fonts URL unescaped.
func safeFont(name, def string) string {
	name = strings.TrimSpace(name)
	if !fontNamePattern.MatchString(name) {
		return def
	}
	return name
}

type styleData struct {
	Primary     string
	Secondary   string
	Accent      string
	HeadingFont string
	BodyFont    string
}

func newStyleData(c domain.Colors, f domain.Fonts) styleData {
	return styleData{
		Primary:     c.Primary,
		Secondary:   c.Secondary,
		Accent:      c.Accent,
		HeadingFont: safeFont(f.Heading, defaultHeadingFont),
		BodyFont:    safeFont(f.Body, defaultBodyFont),
	}
}

func (s styleData) fontsURL() string {
	families := []string{s.HeadingFont}
	if s.BodyFont != s.HeadingFont {
		families = append(families, s.BodyFont)
	}
	parts := make([]string, len(families))
	for i, f := range families {
		parts[i] = "family=" + strings.ReplaceAll(f, " ", "+") + ":wght@400;600;700"
	}
	return "https://fonts.googleapis.com/css2?" + strings.Join(parts, "&") + "&display=swap"
}

// Colors are validated hex values and fonts match fontNamePattern, so plain text/template is enough.
var styleTemplate = template.Must(template.New("style").Parse(`
:root {
  --color-primary: {{.Primary}};
  --color-secondary: {{.Secondary}};
  --color-accent: {{.Accent}};
  --color-text: #1f2933;
  --color-muted: #52606d;
  --color-bg: #ffffff;
  --color-surface: #f5f7fa;
  --font-heading: '{{.HeadingFont}}', system-ui, sans-serif;
  --font-body: '{{.BodyFont}}', system-ui, sans-serif;
  --radius: 14px;
  --header-height: 72px;
}
* { box-sizing: border-box; margin: 0; padding: 0; }
html { scroll-behavior: smooth; scroll-padding-top: var(--header-height); }
body { font-family: var(--font-body); color: var(--color-text); background: var(--color-bg); line-height: 1.65; }
h1, h2, h3 { font-family: var(--font-heading); line-height: 1.2; }
img { max-width: 100%; display: block; }
a { color: var(--color-primary); }
.container { width: min(1120px, 92%); margin: 0 auto; }
.lf-header { position: fixed; top: 0; left: 0; right: 0; height: var(--header-height); background: rgba(255,255,255,.96); box-shadow: 0 2px 12px rgba(0,0,0,.08); z-index: 900; }
.lf-header .container { display: flex; align-items: center; justify-content: space-between; height: 100%; gap: 24px; }
.lf-brand { display: flex; align-items: center; gap: 12px; font-family: var(--font-heading); font-weight: 700; font-size: 1.15rem; color: var(--color-secondary); text-decoration: none; }
.lf-brand img { width: 44px; height: 44px; border-radius: 50%; object-fit: cover; }
.lf-nav { display: flex; gap: 20px; flex-wrap: wrap; }
.lf-nav a { color: var(--color-text); text-decoration: none; font-size: .95rem; font-weight: 600; }
.lf-nav a:hover { color: var(--color-primary); }
.btn { display: inline-block; padding: 14px 32px; border-radius: 999px; background: var(--color-accent); color: #fff; font-weight: 700; text-decoration: none; border: 0; cursor: pointer; transition: transform .2s ease, box-shadow .2s ease; }
.btn:hover { transform: translateY(-2px); box-shadow: 0 10px 24px rgba(0,0,0,.18); }
.btn-outline { background: transparent; border: 2px solid #fff; }
section { padding: 88px 0; }
section:nth-of-type(even) { background: var(--color-surface); }
section h2 { font-size: clamp(1.7rem, 3vw, 2.4rem); margin-bottom: 20px; color: var(--color-secondary); }
.lf-hero { min-height: 92vh; display: flex; align-items: center; padding-top: calc(var(--header-height) + 48px); color: #fff; background-size: cover; background-position: center; position: relative; }
.lf-hero::before { content: ''; position: absolute; inset: 0; background: linear-gradient(120deg, var(--color-primary) 0%, rgba(0,0,0,.55) 100%); opacity: .88; }
.lf-hero .container { position: relative; }
.lf-hero h1 { font-size: clamp(2.2rem, 5vw, 3.8rem); margin-bottom: 16px; }
.lf-hero .lf-subtitle { font-size: 1.3rem; font-weight: 600; margin-bottom: 12px; }
.lf-hero p { max-width: 640px; margin-bottom: 32px; font-size: 1.1rem; }
.lf-split { display: grid; grid-template-columns: 1fr 1fr; gap: 48px; align-items: center; }
.lf-split img { border-radius: var(--radius); box-shadow: 0 18px 40px rgba(0,0,0,.12); width: 100%; aspect-ratio: 4 / 3; object-fit: cover; }
.lf-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(240px, 1fr)); gap: 28px; margin-top: 32px; }
.lf-card { background: #fff; border-radius: var(--radius); overflow: hidden; box-shadow: 0 8px 24px rgba(0,0,0,.07); }
.lf-card img { width: 100%; aspect-ratio: 4 / 3; object-fit: cover; }
.lf-card .lf-card-body { padding: 20px; }
.lf-card h3 { font-size: 1.1rem; margin-bottom: 8px; color: var(--color-secondary); }
.lf-price { display: block; margin-top: 12px; font-size: 1.25rem; font-weight: 700; color: var(--color-primary); }
.lf-tag { display: inline-block; font-size: .75rem; text-transform: uppercase; letter-spacing: .06em; color: var(--color-accent); font-weight: 700; margin-bottom: 6px; }
.lf-steps { list-style: none; counter-reset: step; display: grid; gap: 18px; margin-top: 24px; }
.lf-steps li { counter-increment: step; padding-left: 56px; position: relative; }
.lf-steps li::before { content: counter(step); position: absolute; left: 0; top: -4px; width: 40px; height: 40px; border-radius: 50%; background: var(--color-primary); color: #fff; display: grid; place-items: center; font-weight: 700; }
.lf-stars { color: #f5b301; letter-spacing: 2px; margin-bottom: 10px; }
.lf-quote { font-style: italic; color: var(--color-muted); }
.lf-member img { border-radius: 50%; width: 140px; height: 140px; margin: 24px auto 0; object-fit: cover; }
.lf-member { text-align: center; }
.lf-before-after { display: grid; grid-template-columns: 1fr 1fr; gap: 20px; margin-top: 28px; }
.lf-before-after figure { position: relative; }
.lf-before-after figcaption { position: absolute; top: 12px; left: 12px; background: var(--color-secondary); color: #fff; padding: 4px 12px; border-radius: 999px; font-size: .8rem; font-weight: 700; }
.lf-video { position: relative; border-radius: var(--radius); overflow: hidden; margin-top: 28px; }
.lf-video a { position: absolute; inset: 0; display: grid; place-items: center; font-size: 4rem; color: #fff; text-decoration: none; background: rgba(0,0,0,.35); }
.lf-pricing { text-align: center; }
.lf-pricing p { max-width: 680px; margin: 0 auto 28px; }
.lf-faq details { background: #fff; border-radius: var(--radius); padding: 18px 22px; margin-top: 14px; box-shadow: 0 4px 14px rgba(0,0,0,.05); }
.lf-faq summary { font-weight: 700; cursor: pointer; }
.lf-contact-list { list-style: none; display: grid; gap: 12px; margin: 24px 0 32px; }
.lf-footer { background: var(--color-secondary); color: #fff; padding: 32px 0; text-align: center; font-size: .9rem; }
.lf-footer a { color: #fff; }
#lf-chat { position: fixed; right: 24px; bottom: 24px; z-index: 1000; font-family: var(--font-body); }
.lf-chat-toggle { width: 62px; height: 62px; border-radius: 50%; border: 0; background: var(--color-primary); color: #fff; font-size: 1.7rem; cursor: pointer; box-shadow: 0 10px 28px rgba(0,0,0,.25); }
.lf-chat-panel { position: absolute; right: 0; bottom: 76px; width: 340px; max-height: 480px; background: #fff; border-radius: var(--radius); box-shadow: 0 18px 48px rgba(0,0,0,.25); display: flex; flex-direction: column; overflow: hidden; }
.lf-chat-panel[hidden] { display: none; }
.lf-chat-head { background: var(--color-primary); color: #fff; padding: 14px 18px; font-weight: 700; }
.lf-chat-log { flex: 1; overflow-y: auto; padding: 14px; display: flex; flex-direction: column; gap: 8px; min-height: 220px; }
.lf-msg { padding: 10px 14px; border-radius: 14px; max-width: 85%; font-size: .92rem; }
.lf-msg-user { align-self: flex-end; background: var(--color-primary); color: #fff; }
.lf-msg-assistant { align-self: flex-start; background: var(--color-surface); }
.lf-chat-panel form { display: flex; border-top: 1px solid #e4e7eb; }
.lf-chat-panel input { flex: 1; border: 0; padding: 14px; font: inherit; outline: none; }
.lf-chat-panel button[type=submit] { border: 0; background: var(--color-accent); color: #fff; padding: 0 18px; cursor: pointer; font-weight: 700; }
@media (max-width: 860px) {
  .lf-nav { display: none; }
  .lf-split, .lf-before-after { grid-template-columns: 1fr; }
  section { padding: 64px 0; }
  .lf-chat-panel { width: calc(100vw - 48px); }
}
`))

func renderStyle(s styleData) (string, error) {
	var sb strings.Builder
	if err := styleTemplate.Execute(&sb, s); err != nil {
		return "", err
	}
	return sb.String(), nil
}
