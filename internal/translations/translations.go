// Package translations provides the localized phrase catalog. Catalogs are
// YAML files embedded per language; a phrase is either a single string or a
// list of variants, one of which is picked at random on lookup.
package translations

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"math/rand/v2"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed strings/*.yaml
var stringsFS embed.FS

// DefaultLanguage is used when the requested language has no catalog.
const DefaultLanguage = "ru"

// Catalog holds the loaded phrase tables for all languages.
type Catalog struct {
	phrases map[string]map[string][]string
	log     *slog.Logger
}

// Load parses all embedded language files. The language code is the file
// base name (strings/ru.yaml -> "ru").
func Load(log *slog.Logger) (*Catalog, error) {
	if log == nil {
		log = slog.Default()
	}

	entries, err := fs.Glob(stringsFS, "strings/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to list translation files: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no translation files embedded")
	}

	catalog := &Catalog{
		phrases: make(map[string]map[string][]string, len(entries)),
		log:     log.With("component", "translations"),
	}

	for _, file := range entries {
		language := strings.TrimSuffix(path.Base(file), ".yaml")

		data, err := stringsFS.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}

		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}

		table := make(map[string][]string, len(raw))
		for tag, value := range raw {
			switch v := value.(type) {
			case string:
				table[tag] = []string{v}
			case []any:
				variants := make([]string, 0, len(v))
				for _, item := range v {
					s, ok := item.(string)
					if !ok {
						return nil, fmt.Errorf("%s: phrase %q has a non-string variant", file, tag)
					}
					variants = append(variants, s)
				}
				if len(variants) == 0 {
					return nil, fmt.Errorf("%s: phrase %q has no variants", file, tag)
				}
				table[tag] = variants
			default:
				return nil, fmt.Errorf("%s: phrase %q is neither string nor list", file, tag)
			}
		}

		catalog.phrases[language] = table
	}

	if _, ok := catalog.phrases[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("default language %q has no catalog", DefaultLanguage)
	}

	return catalog, nil
}

// Phrase returns the phrase for tag in the given language, picking a random
// variant when the phrase has several. An unknown language falls back to the
// default language; an unknown tag falls back to the tag itself.
func (c *Catalog) Phrase(tag, language string) string {
	return c.PhraseAt(tag, language, -1)
}

// PhraseAt returns a specific variant of a phrase. A negative or
// out-of-range index falls back to a random variant.
func (c *Catalog) PhraseAt(tag, language string, index int) string {
	table, ok := c.phrases[language]
	if !ok {
		table = c.phrases[DefaultLanguage]
	}

	variants, ok := table[tag]
	if !ok {
		c.log.Warn("Phrase tag not found", "tag", tag, "language", language)
		return tag
	}
	if index < 0 || index >= len(variants) {
		return variants[rand.IntN(len(variants))]
	}
	return variants[index]
}
