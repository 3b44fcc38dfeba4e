// Package render turns a finalized organization record into the HTML and
// CSS of a standalone page with a font-selection control.
package render

import (
	"embed"
	htmltemplate "html/template"
	"net/url"
	"path"
	"strings"
	texttemplate "text/template"

	"github.com/jmylchreest/orgpage/pkg/org"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

// DefaultHeadline is the page title and heading.
const DefaultHeadline = "Информация об организации"

// DefaultStylesheet is the stylesheet file name the page links to.
const DefaultStylesheet = "styles.css"

// DefaultFonts are the alternative font families offered on the page.
var DefaultFonts = []string{"Roboto", "Inter", "PT Sans", "Montserrat", "Open Sans"}

var (
	pageTemplate = htmltemplate.Must(htmltemplate.ParseFS(templateFiles, "templates/page.html.tmpl"))
	cssTemplate  = texttemplate.Must(texttemplate.New("styles.css.tmpl").Funcs(texttemplate.FuncMap{
		"cssString": EscapeCSSString,
	}).ParseFS(templateFiles, "templates/styles.css.tmpl"))
)

// Page is everything the renderer needs. Paths are relative to the output
// directory and use forward slashes.
type Page struct {
	Record     org.Record
	SourceURL  string
	LogoFile   string   // local logo path; "" omits the logo
	FontFile   string   // local file of Record.DetectedFont; "" uses no @font-face
	Fonts      []string // alternative families; DefaultFonts when empty
	Headline   string   // DefaultHeadline when empty
	Stylesheet string   // DefaultStylesheet when empty
}

type htmlData struct {
	Headline     string
	Stylesheet   string
	Name         string
	SourceURL    string
	Description  string
	Address      string
	Phones       []string
	Emails       []string
	Logo         string
	FontOptions  []string
	Alternatives []string
}

type localFace struct {
	Family string
	Src    string
}

type cssData struct {
	Imports []string
	Face    *localFace
	Stack   string
}

// Render produces the page HTML and its stylesheet. Every record value is
// escaped for the context it appears in.
func Render(p Page) (html, css string, err error) {
	fonts := p.Fonts
	if len(fonts) == 0 {
		fonts = DefaultFonts
	}

	css, err = renderCSS(p, fonts)
	if err != nil {
		return "", "", err
	}
	html, err = renderHTML(p, fonts)
	if err != nil {
		return "", "", err
	}
	return html, css, nil
}

func renderHTML(p Page, fonts []string) (string, error) {
	name := p.Record.Name
	if name == "" {
		name = "—"
	}

	data := htmlData{
		Headline:     coalesce(p.Headline, DefaultHeadline),
		Stylesheet:   coalesce(p.Stylesheet, DefaultStylesheet),
		Name:         name,
		SourceURL:    p.SourceURL,
		Description:  p.Record.Description,
		Address:      p.Record.Address,
		Phones:       p.Record.Phones,
		Emails:       p.Record.Emails,
		Logo:         p.LogoFile,
		FontOptions:  FontOptions(p.Record.DetectedFont, fonts),
		Alternatives: fonts,
	}

	var b strings.Builder
	if err := pageTemplate.Execute(&b, data); err != nil {
		return "", &TemplateError{Template: "page.html", Cause: err}
	}
	return b.String(), nil
}

func renderCSS(p Page, fonts []string) (string, error) {
	data := cssData{
		Imports: make([]string, 0, len(fonts)),
	}
	for _, f := range fonts {
		data.Imports = append(data.Imports, url.QueryEscape(f))
	}

	detected := strings.TrimSpace(p.Record.DetectedFont)
	if detected != "" {
		data.Stack = fontStack(append([]string{detected}, fonts...)...)
		if p.FontFile != "" {
			data.Face = &localFace{Family: detected, Src: path.Clean(p.FontFile)}
		}
	} else {
		data.Stack = fontStack(fonts...)
	}

	var b strings.Builder
	if err := cssTemplate.Execute(&b, data); err != nil {
		return "", &TemplateError{Template: "styles.css", Cause: err}
	}
	return b.String(), nil
}

// FontOptions lists the selectable fonts: the detected font first, then the
// alternatives, without duplicates.
func FontOptions(detected string, alternatives []string) []string {
	options := make([]string, 0, len(alternatives)+1)
	seen := make(map[string]bool, len(alternatives)+1)
	for _, f := range append([]string{detected}, alternatives...) {
		f = strings.TrimSpace(f)
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		options = append(options, f)
	}
	return options
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
