// Package web holds the embedded dashboard templates.
package web

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var TemplateFiles embed.FS

// DashboardTemplate is the name of the dashboard page template.
const DashboardTemplate = "dashboard.html"

// ParseTemplates parses every embedded template.
func ParseTemplates() (*template.Template, error) {
	tmpl, err := template.ParseFS(TemplateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// DashboardData is rendered into the dashboard page.
type DashboardData struct {
	Title   string
	DataURL string
}
