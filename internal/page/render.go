package page

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"pharmacy-dashboard/internal/dashboard"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Static returns the embedded stylesheet and scripts rooted at static/
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Renderer draws page snapshots as HTML
type Renderer struct {
	tmpl    *template.Template
	logoURL string
}

// NewRenderer parses the embedded templates
func NewRenderer(logoURL string) (*Renderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"isLogin":   func(view string) bool { return view == "login" },
		"tableArgs": func(id string, data dashboard.TableData) tableArgs { return tableArgs{ID: id, Data: data} },
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, logoURL: logoURL}, nil
}

type tableArgs struct {
	ID   string
	Data dashboard.TableData
}

type viewModel struct {
	State
	LogoURL       string
	SeriesConfig  string
	TopMedsConfig string
}

// Render writes the full page for st
func (r *Renderer) Render(w io.Writer, st State) error {
	series, err := NewChartConfig(st.Charts.Series).JSON()
	if err != nil {
		return fmt.Errorf("failed to encode series chart: %w", err)
	}
	topMeds, err := NewChartConfig(st.Charts.TopMeds).JSON()
	if err != nil {
		return fmt.Errorf("failed to encode top medications chart: %w", err)
	}

	vm := viewModel{
		State:         st,
		LogoURL:       r.logoURL,
		SeriesConfig:  series,
		TopMedsConfig: topMeds,
	}
	if err := r.tmpl.ExecuteTemplate(w, "index.html", vm); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}
