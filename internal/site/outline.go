package site

import (
	"encoding/json"
	"os"

	"github.com/ziadkadry99/pqpriv-whitepaper/internal/content"
	"github.com/ziadkadry99/pqpriv-whitepaper/internal/outline"
)

// OutlineIndex is the exported outline of every locale, keyed by locale code.
type OutlineIndex struct {
	DefaultLocale string                       `json:"default_locale"`
	Locales       []content.Language           `json:"locales"`
	Outlines      map[string][]outline.Section `json:"outlines"`
}

// BuildOutlineIndex collects the section outline of every locale in cat.
func BuildOutlineIndex(cat *content.Catalog) OutlineIndex {
	idx := OutlineIndex{
		DefaultLocale: cat.DefaultLocale(),
		Locales:       cat.Languages(),
		Outlines:      make(map[string][]outline.Section),
	}
	for _, locale := range cat.Locales() {
		idx.Outlines[locale] = cat.Document(locale).Outline()
	}
	return idx
}

// WriteOutlineIndex writes the index as JSON to the given path.
func WriteOutlineIndex(idx OutlineIndex, outputPath string) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}
