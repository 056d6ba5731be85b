package view

import (
	"fmt"
	"html/template"
	"math"
	"net/http"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/brightsteps/brightsteps/internal/shared"
	"github.com/brightsteps/brightsteps/internal/theme"
	"github.com/brightsteps/brightsteps/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	CSRFToken   string
	Flash       *shared.FlashMessage
	CurrentPath string
	Theme       theme.Preference
	Data        any
}

// NextTheme is the preference the toggle button switches to.
func (d TemplateData) NextTheme() theme.Preference {
	return d.Theme.Toggle()
}

var (
	titleCaser = cases.Title(language.English)
	printer    = message.NewPrinter(language.English)
)

// Funcs returns the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02 Jan 2006")
		},
		"title": func(v any) string {
			return titleCaser.String(fmt.Sprint(v))
		},
		"number": func(v float64) string {
			return printer.Sprintf("%d", int64(math.Round(v)))
		},
		"oneDecimal": func(v float64) string {
			return fmt.Sprintf("%.1f", v)
		},
	}
}

// NewEngine parses templates at build-time.
func NewEngine() (*Engine, error) {
	tpl, err := template.New("root").Funcs(Funcs()).ParseFS(web.Templates, "templates/layouts/*.html", "templates/partials/*.html", "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template with TemplateData.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	return e.templates.ExecuteTemplate(w, name, data)
}
