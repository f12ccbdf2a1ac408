package markdown

import (
	"strings"
	"testing"
)

func TestRenderHeading(t *testing.T) {
	t.Parallel()

	renderer := NewRenderer()

	html, err := renderer.Render("# Hello")
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	if !strings.Contains(html, "<h1") || !strings.Contains(html, "Hello") {
		t.Fatalf("expected rendered h1 containing Hello, got %q", html)
	}
}

func TestRenderEmphasisListsAndLinks(t *testing.T) {
	t.Parallel()

	renderer := NewRenderer()

	source := "Some *emphasis*.\n\n- first\n- second\n\n[home](/wiki/home)\n"
	html, err := renderer.Render(source)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	for _, fragment := range []string{"<em>emphasis</em>", "<li>first</li>", `href="/wiki/home"`} {
		if !strings.Contains(html, fragment) {
			t.Errorf("expected rendered output to contain %q, got %q", fragment, html)
		}
	}
}

func TestRenderStripsScriptTags(t *testing.T) {
	t.Parallel()

	renderer := NewRenderer()

	html, err := renderer.Render("hello <script>alert('x')</script> world")
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	if strings.Contains(html, "<script") {
		t.Fatalf("expected script tags to be stripped, got %q", html)
	}

	if !strings.Contains(html, "hello") {
		t.Fatalf("expected surrounding text to survive, got %q", html)
	}
}

func TestRenderMalformedInputIsBestEffort(t *testing.T) {
	t.Parallel()

	renderer := NewRenderer()

	html, err := renderer.Render("**unclosed [link( \n\n ## ###")
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	if strings.TrimSpace(html) == "" {
		t.Fatalf("expected best-effort output for malformed input")
	}
}
