package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"fpl-go-dashboard/internal/layout"
	"fpl-go-dashboard/internal/models"
	"fpl-go-dashboard/internal/pages"
)

//go:embed views/*.html views/static/*
var viewsFS embed.FS

// StaticFS serves the stylesheet under /static
func StaticFS() fs.FS {
	sub, err := fs.Sub(viewsFS, "views/static")
	if err != nil {
		panic(err)
	}
	return sub
}

var sortLabels = map[pages.SortKey]string{
	pages.SortPredicted: "Predicted points",
	pages.SortPrice:     "Price",
	pages.SortForm:      "Form (last 3)",
	pages.SortXGI:       "xGI (last 3)",
}

func templateFunctions() template.FuncMap {
	return template.FuncMap{
		"price":     func(v float64) string { return fmt.Sprintf("£%.1fm", v) },
		"pts":       func(v float64) string { return fmt.Sprintf("%.1f", v) },
		"pct":       func(v float64) string { return fmt.Sprintf("%.0f%%", v) },
		"signed":    func(v float64) string { return fmt.Sprintf("%+.1f", v) },
		"title":     cases.Title(language.English).String,
		"positions": func() []models.Position { return models.Positions },
		"sortKeys":  func() []pages.SortKey { return pages.SortKeys },
		"sortLabel": func(k pages.SortKey) string { return sortLabels[k] },
	}
}

// Renderer executes the embedded page templates
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("").Funcs(templateFunctions()).ParseFS(viewsFS, "views/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse views: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

// layoutData is what the layout template renders around a page
type layoutData struct {
	Frame   layout.Frame
	Page    layout.Page
	Variant pages.Variant
	Notice  string
	Body    template.HTML
}

// Page renders view inside the layout frame. A non-empty notice is shown
// above the page body.
func (r *Renderer) Page(page layout.Page, variant pages.Variant, frame layout.Frame, view any, notice string) ([]byte, error) {
	var body bytes.Buffer
	if err := r.templates.ExecuteTemplate(&body, string(page), view); err != nil {
		return nil, fmt.Errorf("render %s: %w", page, err)
	}

	var out bytes.Buffer
	err := r.templates.ExecuteTemplate(&out, "layout", layoutData{
		Frame:   frame,
		Page:    page,
		Variant: variant,
		Notice:  notice,
		Body:    template.HTML(body.String()),
	})
	if err != nil {
		return nil, fmt.Errorf("render layout: %w", err)
	}
	return out.Bytes(), nil
}
