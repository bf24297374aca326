// Package site renders the whitepaper into HTML pages, either served live
// or exported as a static site.
package site

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/ziadkadry99/pqpriv-whitepaper/internal/content"
	"github.com/ziadkadry99/pqpriv-whitepaper/internal/outline"
)

// Renderer turns a content catalog into full HTML pages. Section bodies are
// converted once at construction.
type Renderer struct {
	catalog *content.Catalog
	tmpl    *template.Template
	bodies  map[string]map[string]template.HTML
}

// PageOptions control what a rendered page links to.
type PageOptions struct {
	// Theme is "light", "dark", or empty to follow the system preference.
	Theme string
	// BasePath prefixes asset and locale links, e.g. "/" or "../".
	BasePath string
	// AssetsPath is where style.css and app.js live, relative to BasePath.
	AssetsPath string
	// LiveURL is the WebSocket path of the live session. Empty for static pages.
	LiveURL string
}

type languageLink struct {
	Code       string
	NativeName string
	Flag       string
	Href       string
	Current    bool
}

type sectionView struct {
	ID    string
	Title string
	Level int
	Open  bool
	HTML  template.HTML
}

// pageData holds the data passed to the HTML template for each page.
type pageData struct {
	Lang      string
	Theme     string
	Title     string
	Tagline   string
	Badges    []string
	Footer    string
	Labels    content.Labels
	Languages []languageLink
	Sections  []sectionView
	Outline   outline.View
	BasePath  string
	Assets    string
	LiveURL   string
}

// NewMarkdown returns the goldmark converter used for section bodies.
func NewMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
}

// NewRenderer parses the page template and converts every section body of
// every locale in cat.
func NewRenderer(cat *content.Catalog) (*Renderer, error) {
	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	md := NewMarkdown()
	bodies := make(map[string]map[string]template.HTML)
	for _, locale := range cat.Locales() {
		doc := cat.Document(locale)
		rendered := make(map[string]template.HTML, len(doc.Sections))
		for _, sec := range doc.Sections {
			var buf bytes.Buffer
			ctx := parser.NewContext(parser.WithIDs(newHeadingIDs(sec.ID)))
			if err := md.Convert([]byte(sec.Body), &buf, parser.WithContext(ctx)); err != nil {
				return nil, fmt.Errorf("converting %s/%s: %w", locale, sec.ID, err)
			}
			rendered[sec.ID] = template.HTML(buf.String())
		}
		bodies[locale] = rendered
	}

	return &Renderer{catalog: cat, tmpl: tmpl, bodies: bodies}, nil
}

// Catalog returns the catalog the renderer was built from.
func (r *Renderer) Catalog() *content.Catalog { return r.catalog }

// SectionHTML returns the rendered body of one section.
func (r *Renderer) SectionHTML(locale, sectionID string) (template.HTML, bool) {
	h, ok := r.bodies[locale][sectionID]
	return h, ok
}

// Page writes the full page for locale to w.
func (r *Renderer) Page(w io.Writer, locale string, opts PageOptions) error {
	doc, err := r.catalog.Lookup(locale)
	if err != nil {
		return err
	}
	locale = doc.Locale()

	var langs []languageLink
	for _, l := range r.catalog.Languages() {
		langs = append(langs, languageLink{
			Code:       l.Code,
			NativeName: l.NativeName,
			Flag:       l.Flag,
			Href:       opts.BasePath + l.Code + "/",
			Current:    l.Code == locale,
		})
	}

	sections := make([]sectionView, len(doc.Sections))
	for i, sec := range doc.Sections {
		sections[i] = sectionView{
			ID:    sec.ID,
			Title: sec.Title,
			Level: sec.Level,
			Open:  sec.DefaultOpen,
			HTML:  r.bodies[locale][sec.ID],
		}
	}

	var first outline.FixedActive
	if ids := doc.IDs(); len(ids) > 0 {
		first = outline.FixedActive(ids[0])
	}
	view := outline.NewShell(outline.Desktop, doc.Outline(), first, nil).View()

	data := pageData{
		Lang:      locale,
		Theme:     opts.Theme,
		Title:     doc.Title,
		Tagline:   doc.Tagline,
		Badges:    doc.Badges,
		Footer:    doc.Footer,
		Labels:    doc.Labels,
		Languages: langs,
		Sections:  sections,
		Outline:   view,
		BasePath:  opts.BasePath,
		Assets:    opts.BasePath + opts.AssetsPath,
		LiveURL:   opts.LiveURL,
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("executing page template: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}

// headingIDs generates heading anchors scoped to one section so that a
// heading never reuses a section id.
type headingIDs struct {
	prefix string
	seen   map[string]bool
}

func newHeadingIDs(sectionID string) *headingIDs {
	return &headingIDs{prefix: sectionID, seen: map[string]bool{sectionID: true}}
}

func (h *headingIDs) Generate(value []byte, _ ast.NodeKind) []byte {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(string(value)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		slug = "heading"
	}

	id := h.prefix + "-" + slug
	for i := 1; h.seen[id]; i++ {
		id = h.prefix + "-" + slug + "-" + strconv.Itoa(i)
	}
	h.seen[id] = true
	return []byte(id)
}

func (h *headingIDs) Put(value []byte) {
	h.seen[string(value)] = true
}
