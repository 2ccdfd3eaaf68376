// internal/app/features/shared/views/views.go
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"

	"github.com/dalemusser/starterkit/internal/app/system/overlay"
	"go.uber.org/zap"
)

// Embed the shared template files.
//
//go:embed templates/*.gohtml
var FS embed.FS

// Renderer executes the embedded page templates.
type Renderer struct {
	tmpl *template.Template
	log  *zap.Logger
}

// New parses every embedded template. A parse failure is a build problem
// and is returned to the caller to abort startup.
func New(logger *zap.Logger) (*Renderer, error) {
	t, err := template.New("views").ParseFS(FS, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("parse view templates: %w", err)
	}
	return &Renderer{tmpl: t, log: logger}, nil
}

// Snippet executes the named template and returns its markup.
func (v *Renderer) Snippet(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := v.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// Component adapts a named template to an overlay child.
func (v *Renderer) Component(name string, data any) overlay.Component {
	return component{v: v, name: name, data: data}
}

type component struct {
	v    *Renderer
	name string
	data any
}

func (c component) Render(w io.Writer) error {
	return c.v.tmpl.ExecuteTemplate(w, c.name, c.data)
}

// RenderSnippet writes the named template as an HTML fragment response.
func (v *Renderer) RenderSnippet(w http.ResponseWriter, status int, name string, data any) {
	html, err := v.Snippet(name, data)
	if err != nil {
		v.fail(w, err)
		return
	}
	writeHTML(w, status, html)
}

// RenderLayout writes a full document built around page.
func (v *Renderer) RenderLayout(w http.ResponseWriter, status int, page Layout) {
	html, err := v.Snippet("layout", page)
	if err != nil {
		v.fail(w, err)
		return
	}
	writeHTML(w, status, html)
}

func (v *Renderer) fail(w http.ResponseWriter, err error) {
	v.log.Error("template render failed", zap.Error(err))
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func writeHTML(w http.ResponseWriter, status int, html template.HTML) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(html)))
	w.WriteHeader(status)
	_, _ = io.WriteString(w, string(html))
}
