// Package content loads the translated whitepaper copy: one directory per
// locale holding a locale.yaml and one markdown file per section.
package content

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/ziadkadry99/pqpriv-whitepaper/internal/outline"
)

//go:embed whitepaper
var embedded embed.FS

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "en"

// ErrUnknownLocale is returned by Lookup for a locale the catalog does not carry.
var ErrUnknownLocale = errors.New("content: unknown locale")

// Language describes a selectable locale.
type Language struct {
	Code       string `json:"code" yaml:"code"`
	Name       string `json:"name" yaml:"name"`
	NativeName string `json:"native_name" yaml:"native_name"`
	Flag       string `json:"flag" yaml:"flag"`
	Order      int    `json:"-" yaml:"order"`
}

// Labels holds the UI strings of the outline and header controls.
type Labels struct {
	PanelTitle        string `json:"panel_title" yaml:"panel_title"`
	PanelSubtitle     string `json:"panel_subtitle" yaml:"panel_subtitle"`
	SearchPlaceholder string `json:"search_placeholder" yaml:"search_placeholder"`
	Progress          string `json:"progress" yaml:"progress"`
	Now               string `json:"now" yaml:"now"`
	NoMatches         string `json:"no_matches" yaml:"no_matches"`
	OpenOutline       string `json:"open_outline" yaml:"open_outline"`
	ScrollToTop       string `json:"scroll_to_top" yaml:"scroll_to_top"`
	LanguageLabel     string `json:"language_label" yaml:"language_label"`
	ThemeToLight      string `json:"theme_to_light" yaml:"theme_to_light"`
	ThemeToDark       string `json:"theme_to_dark" yaml:"theme_to_dark"`
}

// DefaultLabels returns the English labels used for any string a locale omits.
func DefaultLabels() Labels {
	return Labels{
		PanelTitle:        "Navigate",
		PanelSubtitle:     "Quick jump to any section or keep typing to filter.",
		SearchPlaceholder: "Search sections…",
		Progress:          "Reading progress",
		Now:               "Now",
		NoMatches:         "No matches found.",
		OpenOutline:       "Open table of contents",
		ScrollToTop:       "Scroll back to top",
		LanguageLabel:     "Language",
		ThemeToLight:      "Switch to light theme",
		ThemeToDark:       "Switch to dark theme",
	}
}

func (l Labels) withDefaults() Labels {
	d := DefaultLabels()
	fill := func(v *string, def string) {
		if strings.TrimSpace(*v) == "" {
			*v = def
		}
	}
	fill(&l.PanelTitle, d.PanelTitle)
	fill(&l.PanelSubtitle, d.PanelSubtitle)
	fill(&l.SearchPlaceholder, d.SearchPlaceholder)
	fill(&l.Progress, d.Progress)
	fill(&l.Now, d.Now)
	fill(&l.NoMatches, d.NoMatches)
	fill(&l.OpenOutline, d.OpenOutline)
	fill(&l.ScrollToTop, d.ScrollToTop)
	fill(&l.LanguageLabel, d.LanguageLabel)
	fill(&l.ThemeToLight, d.ThemeToLight)
	fill(&l.ThemeToDark, d.ThemeToDark)
	return l
}

// Section is one section of a localized document.
type Section struct {
	outline.Section
	DefaultOpen bool   `json:"default_open"`
	Body        string `json:"-"`
}

// Document is the whitepaper in one locale.
type Document struct {
	Language Language  `json:"language"`
	Title    string    `json:"title"`
	Tagline  string    `json:"tagline"`
	Badges   []string  `json:"badges"`
	Footer   string    `json:"footer,omitempty"`
	Labels   Labels    `json:"labels"`
	Sections []Section `json:"sections"`
}

// Locale returns the document's locale code.
func (d *Document) Locale() string { return d.Language.Code }

// Outline returns the section descriptors in document order.
func (d *Document) Outline() []outline.Section {
	out := make([]outline.Section, len(d.Sections))
	for i, s := range d.Sections {
		out[i] = s.Section
	}
	return out
}

// IDs returns the section ids in document order.
func (d *Document) IDs() []string {
	return outline.IDs(d.Outline())
}

// Section looks up a section by id.
func (d *Document) Section(id string) (Section, bool) {
	for _, s := range d.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// Catalog holds every loaded locale.
type Catalog struct {
	defaultLocale string
	docs          map[string]*Document
	order         []string
}

// Embedded returns the whitepaper tree compiled into the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "whitepaper")
	if err != nil {
		panic(err)
	}
	return sub
}

// Open loads the catalog from dir, or from the embedded tree when dir is empty.
func Open(dir, defaultLocale string) (*Catalog, error) {
	if dir == "" {
		return Load(Embedded(), defaultLocale)
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("content dir: %w", err)
	}
	return Load(os.DirFS(dir), defaultLocale)
}

type localeFile struct {
	Language `yaml:",inline"`
	Title    string   `yaml:"title"`
	Tagline  string   `yaml:"tagline"`
	Badges   []string `yaml:"badges"`
	Footer   string   `yaml:"footer"`
	Labels   Labels   `yaml:"labels"`
}

type frontMatter struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Level       int    `yaml:"level"`
	DefaultOpen bool   `yaml:"default_open"`
}

// Load reads every <locale>/locale.yaml in fsys along with the markdown
// sections next to it. Every locale must carry exactly the default locale's
// section ids in the same order.
func Load(fsys fs.FS, defaultLocale string) (*Catalog, error) {
	if defaultLocale == "" {
		defaultLocale = DefaultLocale
	}

	manifests, err := doublestar.Glob(fsys, "*/locale.yaml")
	if err != nil {
		return nil, fmt.Errorf("discovering locales: %w", err)
	}
	if len(manifests) == 0 {
		return nil, errors.New("content: no locales found")
	}

	cat := &Catalog{defaultLocale: defaultLocale, docs: make(map[string]*Document)}
	for _, m := range manifests {
		doc, err := loadLocale(fsys, path.Dir(m))
		if err != nil {
			return nil, err
		}
		if _, dup := cat.docs[doc.Locale()]; dup {
			return nil, fmt.Errorf("content: duplicate locale %q", doc.Locale())
		}
		cat.docs[doc.Locale()] = doc
		cat.order = append(cat.order, doc.Locale())
	}

	def, ok := cat.docs[defaultLocale]
	if !ok {
		return nil, fmt.Errorf("default locale %q: %w", defaultLocale, ErrUnknownLocale)
	}
	want := def.IDs()
	for _, code := range cat.order {
		got := cat.docs[code].IDs()
		if !equalIDs(want, got) {
			return nil, fmt.Errorf("content: locale %q sections %v do not match %q sections %v", code, got, defaultLocale, want)
		}
	}

	sort.SliceStable(cat.order, func(i, j int) bool {
		a, b := cat.docs[cat.order[i]].Language, cat.docs[cat.order[j]].Language
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.Code < b.Code
	})
	return cat, nil
}

func loadLocale(fsys fs.FS, dir string) (*Document, error) {
	raw, err := fs.ReadFile(fsys, path.Join(dir, "locale.yaml"))
	if err != nil {
		return nil, fmt.Errorf("reading %s/locale.yaml: %w", dir, err)
	}
	var lf localeFile
	if err := yaml.Unmarshal(raw, &lf); err != nil {
		return nil, fmt.Errorf("parsing %s/locale.yaml: %w", dir, err)
	}
	if lf.Code == "" {
		lf.Code = dir
	}

	doc := &Document{
		Language: lf.Language,
		Title:    lf.Title,
		Tagline:  lf.Tagline,
		Badges:   lf.Badges,
		Footer:   lf.Footer,
		Labels:   lf.Labels.withDefaults(),
	}

	files, err := doublestar.Glob(fsys, dir+"/*.md")
	if err != nil {
		return nil, fmt.Errorf("discovering %s sections: %w", dir, err)
	}
	sort.Strings(files)

	seen := make(map[string]string)
	for _, f := range files {
		data, err := fs.ReadFile(fsys, f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		sec, err := parseSection(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", f, err)
		}
		if prev, dup := seen[sec.ID]; dup {
			return nil, fmt.Errorf("content: section id %q in %s already used by %s", sec.ID, f, prev)
		}
		seen[sec.ID] = f
		doc.Sections = append(doc.Sections, sec)
	}
	return doc, nil
}

// parseSection splits a markdown file into its YAML front matter and body.
func parseSection(data []byte) (Section, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(data, []byte("---\n")) {
		return Section{}, errors.New("missing front matter")
	}
	rest := data[len("---\n"):]
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return Section{}, errors.New("unterminated front matter")
	}
	head := rest[:end]
	body := rest[end+len("\n---"):]
	body = bytes.TrimPrefix(body, []byte("\n"))

	var fm frontMatter
	if err := yaml.Unmarshal(head, &fm); err != nil {
		return Section{}, fmt.Errorf("front matter: %w", err)
	}
	if fm.ID == "" {
		return Section{}, errors.New("front matter: id is required")
	}
	if fm.Title == "" {
		return Section{}, fmt.Errorf("front matter: section %q has no title", fm.ID)
	}
	if fm.Level < 1 {
		fm.Level = 1
	}
	return Section{
		Section:     outline.Section{ID: fm.ID, Title: fm.Title, Level: fm.Level},
		DefaultOpen: fm.DefaultOpen,
		Body:        strings.TrimSpace(string(body)),
	}, nil
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// DefaultLocale returns the catalog's fallback locale.
func (c *Catalog) DefaultLocale() string { return c.defaultLocale }

// Languages lists the available locales in display order.
func (c *Catalog) Languages() []Language {
	out := make([]Language, len(c.order))
	for i, code := range c.order {
		out[i] = c.docs[code].Language
	}
	return out
}

// Locales lists the available locale codes in display order.
func (c *Catalog) Locales() []string {
	return append([]string(nil), c.order...)
}

// Lookup returns the document for locale or ErrUnknownLocale.
func (c *Catalog) Lookup(locale string) (*Document, error) {
	doc, ok := c.docs[strings.ToLower(locale)]
	if !ok {
		return nil, fmt.Errorf("%q: %w", locale, ErrUnknownLocale)
	}
	return doc, nil
}

// Document returns the document for locale, falling back to the default locale.
func (c *Catalog) Document(locale string) *Document {
	if doc, err := c.Lookup(locale); err == nil {
		return doc
	}
	return c.docs[c.defaultLocale]
}

// Match picks the best locale for an Accept-Language header value, or the
// default locale when nothing matches.
func (c *Catalog) Match(acceptLanguage string) string {
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag := strings.TrimSpace(part)
		if i := strings.IndexByte(tag, ';'); i >= 0 {
			tag = strings.TrimSpace(tag[:i])
		}
		if i := strings.IndexByte(tag, '-'); i >= 0 {
			tag = tag[:i]
		}
		tag = strings.ToLower(tag)
		if _, ok := c.docs[tag]; ok {
			return tag
		}
	}
	return c.defaultLocale
}
