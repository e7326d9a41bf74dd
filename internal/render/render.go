// Package render executes the host app's embedded HTML templates.
package render

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	// preview lets decoded data URLs through the src sanitizer. Anything else renders empty.
	"preview": func(s string) template.URL {
		if !strings.HasPrefix(s, "data:") {
			return ""
		}
		return template.URL(s)
	},
	"slot": func(field string, state any) map[string]any {
		return map[string]any{"Field": field, "State": state}
	},
}

type Renderer struct {
	t *template.Template
}

func NewRenderer() (*Renderer, error) {
	t, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{t: t}, nil
}

// Render writes the named template with status. Nothing is written when execution fails.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
