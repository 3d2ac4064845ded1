// Package views renders the HTML pages of the web UI.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"crowdfund/internal/theme"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Page names.
const (
	PageHome     = "home"
	PageProfile  = "profile"
	PageDetail   = "detail"
	PageCreate   = "create"
	PagePayment  = "payment"
	PageWithdraw = "withdraw"
	PageError    = "error"
)

var pages = []string{PageHome, PageProfile, PageDetail, PageCreate, PagePayment, PageWithdraw, PageError}

// Base carries the values every page needs. Theme and locale are explicit
// render inputs.
type Base struct {
	Theme     theme.Mode
	Locale    language.Tag
	Wallet    string
	Network   string
	Path      string
	RefreshIn int

	printer *message.Printer
}

// T returns the localised string for key.
func (b Base) T(key string, args ...any) string {
	if b.printer == nil {
		return fmt.Sprintf(key, args...)
	}
	return b.printer.Sprintf(key, args...)
}

// Connected reports whether a wallet address is known.
func (b Base) Connected() bool {
	return b.Wallet != ""
}

// Lang returns the html lang attribute.
func (b Base) Lang() string {
	return b.Locale.String()
}

// Renderer executes the embedded page templates.
type Renderer struct {
	pages   map[string]*template.Template
	catalog catalog.Catalog
}

// NewRenderer parses every page against the shared layout and loads the
// locale catalogs.
func NewRenderer() (*Renderer, error) {
	cat, _, err := loadCatalog(localesFS)
	if err != nil {
		return nil, err
	}
	parsed, err := parsePages(templatesFS)
	if err != nil {
		return nil, err
	}
	return &Renderer{pages: parsed, catalog: cat}, nil
}

func parsePages(fsys fs.FS) (map[string]*template.Template, error) {
	layout, err := template.New("layout.html").Funcs(funcs).ParseFS(fsys, "templates/layout.html", "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	out := make(map[string]*template.Template, len(pages))
	for _, name := range pages {
		t, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", name, err)
		}
		if _, err := t.ParseFS(fsys, path.Join("templates", name+".html")); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		out[name] = t
	}
	return out, nil
}

// Base returns a Base bound to the printer for locale.
func (r *Renderer) Base(mode theme.Mode, locale language.Tag) Base {
	return Base{Theme: mode, Locale: locale, printer: newPrinter(r.catalog, locale)}
}

// Render writes page with data. data must embed the Base returned by
// Renderer.Base. Output is buffered so a template error never leaves a
// half-written page.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("views: unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("views: render %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

var funcs = template.FuncMap{
	"lower": strings.ToLower,
}
