package server

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/inmo24x7/backoffice/internal/auth"
	"github.com/inmo24x7/backoffice/internal/knowledge"
	"github.com/inmo24x7/backoffice/internal/leads"
	"github.com/inmo24x7/backoffice/internal/notify"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template data types for the web UI.

// LoginPageData is passed to login.html.
type LoginPageData struct {
	Error string
	Email string
}

// DashboardPageData is passed to dashboard.html.
type DashboardPageData struct {
	User    *auth.User
	Leads   leads.Page
	Files   []knowledge.File
	Routing notify.Routing
}

type pageTemplates struct {
	templates map[string]*template.Template
}

func loadTemplates() (*pageTemplates, error) {
	pt := &pageTemplates{templates: make(map[string]*template.Template)}
	for _, page := range []string{"login", "dashboard"} {
		tmpl, err := template.ParseFS(templateFS, "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		pt.templates[page] = tmpl
	}
	return pt, nil
}

func (pt *pageTemplates) Render(w io.Writer, page string, data interface{}) error {
	if pt == nil {
		return fmt.Errorf("templates not initialized")
	}
	tmpl, ok := pt.templates[page]
	if !ok {
		return fmt.Errorf("template %q not found", page)
	}
	return tmpl.Execute(w, data)
}
