package site

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ziadkadry99/pqpriv-whitepaper/internal/content"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	cat, err := content.Load(content.Embedded(), "en")
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}
	r, err := NewRenderer(cat)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

func TestPageContainsSectionsAndOutline(t *testing.T) {
	r := newTestRenderer(t)

	var buf bytes.Buffer
	if err := r.Page(&buf, "en", PageOptions{BasePath: "/", AssetsPath: "assets/", LiveURL: "/ws/en"}); err != nil {
		t.Fatalf("Page: %v", err)
	}
	page := buf.String()

	checks := []string{
		`<html lang="en">`,
		`data-live="/ws/en"`,
		`href="/assets/style.css"`,
		`src="/assets/app.js"`,
		`id="overview"`,
		`id="conclusion"`,
		`class="wp-section open" id="motivation"`,
		`class="wp-section" id="threat-model"`,
		`Reading progress`,
		`Search sections…`,
		`data-section="spend-flow"`,
	}
	for _, want := range checks {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}

	// First section is active before the host reports any layout: 1 of 10.
	if !strings.Contains(page, `10%`) {
		t.Error("page should show initial progress of 10%")
	}
}

func TestPageThemeAndLocale(t *testing.T) {
	r := newTestRenderer(t)

	var buf bytes.Buffer
	if err := r.Page(&buf, "cs", PageOptions{Theme: "dark", BasePath: "/"}); err != nil {
		t.Fatalf("Page: %v", err)
	}
	page := buf.String()
	if !strings.Contains(page, `<html lang="cs" data-theme="dark">`) {
		t.Error("expected cs locale with dark theme")
	}
	if !strings.Contains(page, "Průběh čtení") {
		t.Error("expected Czech progress label")
	}
	if !strings.Contains(page, `value="de" data-href="/de/"`) {
		t.Error("expected language link to de")
	}
}

func TestPageUnknownLocale(t *testing.T) {
	r := newTestRenderer(t)
	var buf bytes.Buffer
	if err := r.Page(&buf, "xx", PageOptions{}); err == nil {
		t.Error("expected error for unknown locale")
	}
}

func TestSectionHTMLHighlightsCode(t *testing.T) {
	r := newTestRenderer(t)
	h, ok := r.SectionHTML("en", "transaction-model")
	if !ok {
		t.Fatal("transaction-model not rendered")
	}
	s := string(h)
	if !strings.Contains(s, "<pre") {
		t.Error("code block should render as <pre>")
	}
	if !strings.Contains(s, "locktime") {
		t.Error("code block content missing")
	}
	// The "Overview" heading inside this section must not collide with the
	// overview section itself.
	if strings.Contains(s, `id="overview"`) {
		t.Error("heading id collides with a section id")
	}
	if !strings.Contains(s, `id="transaction-model-overview"`) {
		t.Error("expected section-scoped heading id")
	}
}

func TestHeadingIDs(t *testing.T) {
	ids := newHeadingIDs("roadmap")
	tests := []struct {
		in   string
		want string
	}{
		{"Post-Launch Goals", "roadmap-post-launch-goals"},
		{"Post-Launch Goals", "roadmap-post-launch-goals-1"},
		{"Roadmap & MVP", "roadmap-roadmap-mvp"},
		{"!!!", "roadmap-heading"},
	}
	for _, tt := range tests {
		if got := string(ids.Generate([]byte(tt.in), 0)); got != tt.want {
			t.Errorf("Generate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExport(t *testing.T) {
	r := newTestRenderer(t)
	outDir := t.TempDir()

	n, err := r.Export(outDir, nil)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if n != 3 {
		t.Errorf("pages = %d, want 3", n)
	}

	for _, f := range []string{"index.html", "style.css", "app.js", "outline.json", "en/index.html", "cs/index.html", "de/index.html"} {
		if _, err := os.Stat(filepath.Join(outDir, f)); err != nil {
			t.Errorf("missing %s: %v", f, err)
		}
	}

	page, err := os.ReadFile(filepath.Join(outDir, "de", "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(page), `href="../style.css"`) {
		t.Error("exported page should link assets relatively")
	}
	if !strings.Contains(string(page), `data-live=""`) {
		t.Error("exported page should not open a live session")
	}

	data, err := os.ReadFile(filepath.Join(outDir, "outline.json"))
	if err != nil {
		t.Fatal(err)
	}
	var idx OutlineIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		t.Fatalf("outline.json: %v", err)
	}
	if idx.DefaultLocale != "en" {
		t.Errorf("default locale = %q", idx.DefaultLocale)
	}
	if got := len(idx.Outlines["cs"]); got != 10 {
		t.Errorf("cs outline has %d sections, want 10", got)
	}
	if got := idx.Outlines["de"][9].Title; got != "Fazit" {
		t.Errorf("de last title = %q, want Fazit", got)
	}
}

func TestAssetHandler(t *testing.T) {
	h := http.StripPrefix("/assets/", AssetHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/app.js", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/javascript") {
		t.Errorf("content type = %q", ct)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/missing.css", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
