package site

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/ziadkadry99/pqpriv-whitepaper/internal/progress"
)

// redirectTemplate is the root index of an exported site. It forwards to the
// default locale.
var redirectTemplate = template.Must(template.New("redirect").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta http-equiv="refresh" content="0; url={{.}}/">
  <title>Redirecting</title>
</head>
<body><a href="{{.}}/">{{.}}</a></body>
</html>`))

// Export writes a static copy of the whitepaper to outDir: one page per locale
// under <locale>/index.html, the shared assets, outline.json, and a root
// index.html forwarding to the default locale. Returns the number of pages
// written.
func (r *Renderer) Export(outDir string, reporter progress.Reporter) (int, error) {
	if reporter == nil {
		reporter = progress.Nop{}
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, err
	}

	locales := r.catalog.Locales()
	reporter.Start(len(locales) + 1)

	for _, name := range AssetNames() {
		if err := os.WriteFile(filepath.Join(outDir, name), []byte(assets[name].body), 0o644); err != nil {
			return 0, fmt.Errorf("writing %s: %w", name, err)
		}
	}
	if err := WriteOutlineIndex(BuildOutlineIndex(r.catalog), filepath.Join(outDir, "outline.json")); err != nil {
		return 0, fmt.Errorf("writing outline index: %w", err)
	}
	reporter.Update(1, "assets")

	pages := 0
	for i, locale := range locales {
		if err := r.exportLocale(outDir, locale); err != nil {
			return pages, fmt.Errorf("rendering %s: %w", locale, err)
		}
		pages++
		reporter.Update(i+2, locale)
	}

	f, err := os.Create(filepath.Join(outDir, "index.html"))
	if err != nil {
		return pages, err
	}
	defer f.Close()
	if err := redirectTemplate.Execute(f, r.catalog.DefaultLocale()); err != nil {
		return pages, fmt.Errorf("writing root index: %w", err)
	}

	reporter.Finish()
	return pages, nil
}

func (r *Renderer) exportLocale(outDir, locale string) error {
	dir := filepath.Join(outDir, locale)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(dir, "index.html"))
	if err != nil {
		return err
	}
	defer f.Close()
	return r.Page(f, locale, PageOptions{BasePath: "../"})
}
