// ABOUTME: HTML page rendering for the download form
// ABOUTME: Templates are embedded in the binary and parsed once at startup

package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page is the data rendered into the download form
type Page struct {
	// Title is the service name shown in the header and <title>
	Title string

	// Flashes are one-shot messages carried across a redirect
	Flashes []Message

	// Error is shown inline, used by the 404 and 500 pages
	Error string
}

// Renderer renders the download form
type Renderer struct {
	title string
	tmpl  *template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer(title string) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{title: title, tmpl: tmpl}, nil
}

// Render writes the form with the given status code. The page is buffered so a
// template failure never leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, page Page) error {
	if page.Title == "" {
		page.Title = r.title
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "index.html", page); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
