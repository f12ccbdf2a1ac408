package http

import (
	stdhttp "net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"mdwiki/app/internal/render"
	"mdwiki/app/internal/wiki"
)

// Options configures the HTTP server wiring.
type Options struct {
	WikiService wiki.Service
	Renderer    *render.Renderer
	Database    *gorm.DB
	Logger      *logrus.Logger
	SentryHub   *sentry.Hub
}

// Server wires the HTTP transport layer via Huma and the template renderer.
type Server struct {
	api      huma.API
	mux      *stdhttp.ServeMux
	wiki     wiki.Service
	renderer *render.Renderer
	logger   *logrus.Logger
	sentry   *sentry.Hub
	db       *gorm.DB
}

// NewServer constructs the HTTP server.
func NewServer(opts Options) (*Server, error) {
	if opts.WikiService == nil {
		return nil, eris.New("wiki service is required")
	}
	if opts.Renderer == nil {
		return nil, eris.New("template renderer is required")
	}
	if opts.Database == nil {
		return nil, eris.New("database is required")
	}

	mux := stdhttp.NewServeMux()
	config := huma.DefaultConfig("mdwiki", "1.0.0")

	api := humago.New(mux, config)

	srv := &Server{
		api:      api,
		mux:      mux,
		wiki:     opts.WikiService,
		renderer: opts.Renderer,
		logger:   opts.Logger,
		sentry:   opts.SentryHub,
		db:       opts.Database,
	}

	srv.registerMiddlewares()
	srv.registerRoutes()

	return srv, nil
}

// Handler exposes the underlying HTTP handler for wiring into the application.
func (s *Server) Handler() stdhttp.Handler {
	return s.mux
}

// API exposes the underlying Huma API instance.
func (s *Server) API() huma.API {
	return s.api
}

func (s *Server) registerMiddlewares() {
	s.api.UseMiddleware(
		s.sentryMiddleware(),
		s.recoveryMiddleware(),
		s.requestIDMiddleware(),
		s.loggingMiddleware(),
	)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /favicon.ico", faviconHandler)
	s.mux.HandleFunc("HEAD /favicon.ico", faviconHandler)

	s.registerIndexRoute()
	s.registerWikiRoute()
	s.registerCreateRoute()
	s.registerSaveRoute()
	s.registerDeleteRoute()
	s.registerHealthRoute()
}

func (s *Server) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	s.mux.ServeHTTP(w, r)
}
