package views

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localesFS embed.FS

type localeFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// loadCatalog builds a message catalog from every locales/*.yaml file. The
// English file must define every key used by the templates; other locales
// may omit keys and fall back to English.
func loadCatalog(fsys fs.FS) (catalog.Catalog, map[language.Tag]map[string]string, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, nil, fmt.Errorf("glob locales: %w", err)
	}
	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("no locale files found")
	}
	sort.Strings(paths)

	b := catalog.NewBuilder(catalog.Fallback(language.English))
	all := make(map[language.Tag]map[string]string, len(paths))
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", path, err)
		}
		var file localeFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, nil, fmt.Errorf("parse %s: %w", path, err)
		}
		tag, err := language.Parse(file.Locale)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: locale %q: %w", path, file.Locale, err)
		}
		if len(file.Messages) == 0 {
			return nil, nil, fmt.Errorf("%s: no messages", path)
		}
		for key, value := range file.Messages {
			if err := b.SetString(tag, key, value); err != nil {
				return nil, nil, fmt.Errorf("%s: key %q: %w", path, key, err)
			}
		}
		all[tag] = file.Messages
	}
	if _, ok := all[language.English]; !ok {
		return nil, nil, fmt.Errorf("base locale en is not defined")
	}
	return b, all, nil
}

func newPrinter(cat catalog.Catalog, tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(cat))
}
