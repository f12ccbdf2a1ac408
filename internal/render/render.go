package render

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"strings"

	"github.com/rotisserie/eris"
)

//go:embed templates/*.html
var templatesFS embed.FS

const layoutFile = "templates/layout.html"

// Renderer holds the parsed template set, keyed by logical template name.
type Renderer struct {
	templates map[string]*template.Template
}

// IndexData carries the values rendered on the wiki index.
type IndexData struct {
	Title string
	Pages []string
}

// PageData carries the values rendered on the page view/editor.
type PageData struct {
	Title      string
	ID         int64
	NewPage    bool
	RawContent string
	Content    template.HTML
	Timestamp  string
}

// ErrorData carries the values rendered on the error page.
type ErrorData struct {
	Title       string
	StatusLabel string
	Message     string
}

// New parses every page template together with the shared layout.
func New() (*Renderer, error) {
	entries, err := fs.ReadDir(templatesFS, "templates")
	if err != nil {
		return nil, eris.Wrap(err, "reading embedded templates")
	}

	templates := make(map[string]*template.Template)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}

		path := "templates/" + entry.Name()
		if path == layoutFile {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".html")

		tmpl, parseErr := template.New("").ParseFS(templatesFS, layoutFile, path)
		if parseErr != nil {
			return nil, eris.Wrapf(parseErr, "parsing template %s", name)
		}

		templates[name] = tmpl
	}

	if len(templates) == 0 {
		return nil, eris.New("no page templates found")
	}

	return &Renderer{templates: templates}, nil
}

// Render executes the named template into a buffer so that a failure never
// leaves partial output on the wire.
func (r *Renderer) Render(name string, data any) ([]byte, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return nil, eris.Errorf("unknown template: %s", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, eris.Wrapf(err, "executing template %s", name)
	}

	return buf.Bytes(), nil
}

// Names returns the logical names of the parsed templates.
func (r *Renderer) Names() []string {
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	return names
}
