// Package web holds the HTML templates rendered by the page handlers.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"
)

// Template names.
const (
	HomeTemplate       = "home"
	MealDetailTemplate = "meal-detail"
	NotFoundTemplate   = "404"
	ErrorTemplate      = "error"
)

//go:embed templates/*.html
var templateFS embed.FS

// LoadTemplates parses the embedded templates, or every *.html file in dir
// when dir is set.
func LoadTemplates(dir string) (*template.Template, error) {
	var (
		tmpl *template.Template
		err  error
	)
	if dir = strings.TrimSpace(dir); dir != "" {
		tmpl, err = template.ParseGlob(filepath.Join(dir, "*.html"))
	} else {
		tmpl, err = template.ParseFS(templateFS, "templates/*.html")
	}
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	for _, name := range []string{HomeTemplate, MealDetailTemplate, NotFoundTemplate, ErrorTemplate} {
		if tmpl.Lookup(name) == nil {
			return nil, fmt.Errorf("template %q is not defined", name)
		}
	}
	return tmpl, nil
}
