package wiki

import (
	"context"
	"sort"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

// Service defines higher-level wiki operations built on top of the repository
// and the markdown renderer.
type Service interface {
	Index(ctx context.Context) ([]string, error)
	View(ctx context.Context, name string) (*PageView, error)
	Save(ctx context.Context, req SaveRequest) error
	Delete(ctx context.Context, id int64) error
}

// Renderer converts raw Markdown into an HTML fragment.
type Renderer interface {
	Render(source string) (string, error)
}

// DefaultPageMarkdown seeds the editor when a page does not exist yet.
const DefaultPageMarkdown = "# A new page\n\nFeel free to write in Markdown!\n"

// PageView bundles everything the page template needs: the raw source for the
// editor textarea and the rendered HTML for the view pane. IsNew marks an
// unsaved draft synthesized for a lookup miss.
type PageView struct {
	ID         int64
	Name       string
	RawContent string
	HTML       string
	IsNew      bool
}

// SaveRequest describes a save submission. NewPage selects between insert
// (Title + Markdown) and update (ID + Markdown); the name of an existing page
// never changes.
type SaveRequest struct {
	NewPage  bool
	ID       int64
	Title    string
	Markdown string
}

type service struct {
	repo      Repository
	renderer  Renderer
	logger    *logrus.Logger
	sentryHub *sentry.Hub
}

var _ Service = (*service)(nil)

// NewService wires the wiki service with its dependencies.
func NewService(repo Repository, renderer Renderer, logger *logrus.Logger, hub *sentry.Hub) (Service, error) {
	if repo == nil {
		return nil, eris.New("wiki repository is required")
	}
	if renderer == nil {
		return nil, eris.New("markdown renderer is required")
	}

	return &service{
		repo:      repo,
		renderer:  renderer,
		logger:    logger,
		sentryHub: hub,
	}, nil
}

// Index returns all page names in lexicographic order. Sorting is a
// presentation concern, not a store guarantee.
func (s *service) Index(ctx context.Context) ([]string, error) {
	names, err := s.repo.ListNames(ctx)
	if err != nil {
		s.recordError(nil, err, "listing pages for index")
		return nil, eris.Wrap(err, "listing pages")
	}

	sort.Strings(names)
	return names, nil
}

// View loads the named page, or synthesizes an unsaved draft when no row
// exists. The draft is not persisted until the client submits a save.
func (s *service) View(ctx context.Context, name string) (*PageView, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, eris.New("page name is required")
	}

	page, err := s.repo.GetByName(ctx, trimmed)
	if err != nil {
		s.recordError(logrus.Fields{"name": trimmed}, err, "retrieving page from repository")
		return nil, eris.Wrapf(err, "retrieving page: %s", trimmed)
	}

	view := &PageView{Name: trimmed}
	if page == nil {
		view.IsNew = true
		view.RawContent = DefaultPageMarkdown
	} else {
		view.ID = page.ID
		view.RawContent = page.Content
	}

	html, err := s.renderer.Render(view.RawContent)
	if err != nil {
		s.recordError(logrus.Fields{"name": trimmed}, err, "rendering page markdown")
		return nil, eris.Wrapf(err, "rendering page: %s", trimmed)
	}
	view.HTML = html

	return view, nil
}

// Save inserts a new page or rewrites the content of an existing one.
func (s *service) Save(ctx context.Context, req SaveRequest) error {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return eris.New("page title is required")
	}

	if req.NewPage {
		page := &Page{Name: title, Content: req.Markdown}
		if err := s.repo.Create(ctx, page); err != nil {
			s.recordError(logrus.Fields{"name": title}, err, "creating page")
			return eris.Wrapf(err, "creating page: %s", title)
		}
		return nil
	}

	if err := s.repo.UpdateContent(ctx, req.ID, req.Markdown); err != nil {
		s.recordError(logrus.Fields{"id": req.ID}, err, "updating page")
		return eris.Wrapf(err, "updating page: %d", req.ID)
	}

	return nil
}

// Delete removes the page with the given id.
func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.recordError(logrus.Fields{"id": id}, err, "deleting page")
		return eris.Wrapf(err, "deleting page: %d", id)
	}

	return nil
}

func (s *service) recordError(fields logrus.Fields, err error, message string) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if len(fields) > 0 {
			entry = entry.WithFields(fields)
		}
		entry.Error(message)
	}

	if s.sentryHub != nil {
		s.sentryHub.CaptureException(err)
	}
}
