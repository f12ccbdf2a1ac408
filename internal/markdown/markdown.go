package markdown

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rotisserie/eris"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Renderer converts raw Markdown into sanitized HTML fragments. The renderer
// is stateless after construction, so a single instance can be shared across
// requests without locking.
type Renderer struct {
	engine    goldmark.Markdown
	sanitizer *bluemonday.Policy
}

// NewRenderer constructs a renderer with GFM extensions and auto heading IDs.
// Output is run through bluemonday's UGC policy: pages are editable by anyone,
// so embedded script and event handlers are stripped.
func NewRenderer() *Renderer {
	engine := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)

	return &Renderer{
		engine:    engine,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// Render converts the Markdown source to an HTML fragment. Malformed syntax is
// not rejected; whatever goldmark makes of the input is returned.
func (r *Renderer) Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert([]byte(source), &buf); err != nil {
		return "", eris.Wrap(err, "converting markdown")
	}

	return r.sanitizer.Sanitize(buf.String()), nil
}
