package render

import (
	"sort"
	"strings"
	"testing"
)

func TestNewParsesAllPageTemplates(t *testing.T) {
	t.Parallel()

	renderer, err := New()
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	names := renderer.Names()
	sort.Strings(names)

	expected := []string{"error", "index", "page"}
	if len(names) != len(expected) {
		t.Fatalf("expected templates %v, got %v", expected, names)
	}
	for i, name := range expected {
		if names[i] != name {
			t.Fatalf("expected templates %v, got %v", expected, names)
		}
	}
}

func TestRenderIndexListsPages(t *testing.T) {
	t.Parallel()

	renderer := newTestRenderer(t)

	body, err := renderer.Render("index", IndexData{
		Title: "Wiki home",
		Pages: []string{"alpha", "beta"},
	})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	html := string(body)
	for _, fragment := range []string{"Wiki home", `href="/wiki/alpha"`, `href="/wiki/beta"`, `action="/create"`} {
		if !strings.Contains(html, fragment) {
			t.Errorf("expected index to contain %q, got %q", fragment, html)
		}
	}
}

func TestRenderPageEmbedsContentUnescaped(t *testing.T) {
	t.Parallel()

	renderer := newTestRenderer(t)

	body, err := renderer.Render("page", PageData{
		Title:      "alpha",
		ID:         7,
		RawContent: "# Alpha",
		Content:    "<h1>Alpha</h1>",
		Timestamp:  "now",
	})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	html := string(body)
	if !strings.Contains(html, "<h1>Alpha</h1>") {
		t.Fatalf("expected rendered markdown to be embedded unescaped, got %q", html)
	}
	if !strings.Contains(html, `name="newPage" value="no"`) {
		t.Fatalf("expected newPage flag no for saved page, got %q", html)
	}
	if !strings.Contains(html, `action="/delete"`) {
		t.Fatalf("expected delete form on saved page, got %q", html)
	}
}

func TestRenderDraftPageCarriesNewPageFlag(t *testing.T) {
	t.Parallel()

	renderer := newTestRenderer(t)

	body, err := renderer.Render("page", PageData{
		Title:      "draft",
		NewPage:    true,
		RawContent: "# A new page",
		Content:    "<h1>A new page</h1>",
		Timestamp:  "now",
	})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	html := string(body)
	if !strings.Contains(html, `name="newPage" value="yes"`) {
		t.Fatalf("expected newPage flag yes for draft, got %q", html)
	}
	if strings.Contains(html, `action="/delete"`) {
		t.Fatalf("expected no delete form for draft, got %q", html)
	}
}

func TestRenderUnknownTemplateFails(t *testing.T) {
	t.Parallel()

	renderer := newTestRenderer(t)

	if _, err := renderer.Render("missing", nil); err == nil {
		t.Fatalf("expected error for unknown template")
	}
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()

	renderer, err := New()
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return renderer
}
