package content

import (
	"errors"
	"testing"
	"testing/fstest"
)

func TestEmbeddedCatalog(t *testing.T) {
	cat, err := Load(Embedded(), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	locales := cat.Locales()
	want := []string{"en", "cs", "de"}
	if len(locales) != len(want) {
		t.Fatalf("got locales %v, want %v", locales, want)
	}
	for i := range want {
		if locales[i] != want[i] {
			t.Errorf("locale %d: got %q, want %q", i, locales[i], want[i])
		}
	}

	en := cat.Document("en")
	ids := en.IDs()
	if len(ids) != 10 {
		t.Fatalf("got %d sections, want 10", len(ids))
	}
	if ids[0] != "overview" || ids[len(ids)-1] != "conclusion" {
		t.Errorf("unexpected order: %v", ids)
	}

	mot, ok := en.Section("motivation")
	if !ok {
		t.Fatal("motivation section missing")
	}
	if !mot.DefaultOpen {
		t.Error("motivation should default open")
	}
	if tm, _ := en.Section("threat-model"); tm.DefaultOpen {
		t.Error("threat-model should default closed")
	}

	cs := cat.Document("cs")
	if cs.Labels.PanelTitle != "Navigace" {
		t.Errorf("got cs panel title %q", cs.Labels.PanelTitle)
	}
	if got := cs.Sections[0].Title; got != "Přehled" {
		t.Errorf("got cs overview title %q", got)
	}
}

func TestLookupUnknownLocale(t *testing.T) {
	cat, err := Load(Embedded(), "en")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := cat.Lookup("fr"); !errors.Is(err, ErrUnknownLocale) {
		t.Errorf("got %v, want ErrUnknownLocale", err)
	}
	if doc := cat.Document("fr"); doc.Locale() != "en" {
		t.Errorf("fallback locale = %q, want en", doc.Locale())
	}
}

func TestMatchAcceptLanguage(t *testing.T) {
	cat, err := Load(Embedded(), "en")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	tests := []struct {
		header string
		want   string
	}{
		{"", "en"},
		{"de-DE,de;q=0.9,en;q=0.8", "de"},
		{"fr-FR, cs;q=0.7", "cs"},
		{"ja", "en"},
	}
	for _, tt := range tests {
		if got := cat.Match(tt.header); got != tt.want {
			t.Errorf("Match(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func section(id, title string) string {
	return "---\nid: " + id + "\ntitle: " + title + "\nlevel: 1\n---\nbody of " + id + "\n"
}

func TestLoadRejectsMismatchedSections(t *testing.T) {
	fsys := fstest.MapFS{
		"en/locale.yaml": {Data: []byte("code: en\norder: 1\n")},
		"en/01-a.md":     {Data: []byte(section("a", "Alpha"))},
		"en/02-b.md":     {Data: []byte(section("b", "Beta"))},
		"de/locale.yaml": {Data: []byte("code: de\norder: 2\n")},
		"de/01-a.md":     {Data: []byte(section("a", "Alpha"))},
	}
	if _, err := Load(fsys, "en"); err == nil {
		t.Fatal("expected error for mismatched section ids")
	}
}

func TestLoadMissingDefaultLocale(t *testing.T) {
	fsys := fstest.MapFS{
		"de/locale.yaml": {Data: []byte("code: de\n")},
		"de/01-a.md":     {Data: []byte(section("a", "Alpha"))},
	}
	if _, err := Load(fsys, "en"); !errors.Is(err, ErrUnknownLocale) {
		t.Errorf("got %v, want ErrUnknownLocale", err)
	}
}

func TestLabelsFallBackToEnglish(t *testing.T) {
	fsys := fstest.MapFS{
		"en/locale.yaml": {Data: []byte("code: en\nlabels:\n  now: Right now\n")},
		"en/01-a.md":     {Data: []byte(section("a", "Alpha"))},
	}
	cat, err := Load(fsys, "en")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	labels := cat.Document("en").Labels
	if labels.Now != "Right now" {
		t.Errorf("got %q, want %q", labels.Now, "Right now")
	}
	if labels.NoMatches != "No matches found." {
		t.Errorf("got %q, want English fallback", labels.NoMatches)
	}
}

func TestParseSection(t *testing.T) {
	sec, err := parseSection([]byte("---\nid: x\ntitle: X marks\ndefault_open: true\n---\n\n# Heading\n\ntext\n"))
	if err != nil {
		t.Fatalf("parseSection: %v", err)
	}
	if sec.ID != "x" || sec.Title != "X marks" || sec.Level != 1 || !sec.DefaultOpen {
		t.Errorf("unexpected section %+v", sec)
	}
	if sec.Body != "# Heading\n\ntext" {
		t.Errorf("got body %q", sec.Body)
	}

	bad := []string{
		"no front matter",
		"---\nid: x\ntitle: y\n",
		"---\ntitle: y\n---\n",
	}
	for _, b := range bad {
		if _, err := parseSection([]byte(b)); err == nil {
			t.Errorf("parseSection(%q): expected error", b)
		}
	}
}
