package http

import (
	"context"
	"fmt"
	"html/template"
	stdhttp "net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"

	"mdwiki/app/internal/db"
	"mdwiki/app/internal/render"
	"mdwiki/app/internal/wiki"
)

const (
	htmlContentType      = "text/html; charset=utf-8"
	errorFallbackMessage = "We couldn't process your request right now."
)

type htmlResponse struct {
	Status      int
	ContentType string `header:"Content-Type"`
	Location    string `header:"Location"`
	Body        []byte
}

type wikiInput struct {
	Name string `path:"name"`
}

// formInput captures an urlencoded POST body. Huma binds JSON bodies natively;
// form submissions arrive as raw bytes and are decoded with url.ParseQuery.
type formInput struct {
	RawBody []byte
}

type healthResponse struct {
	Status int
	Body   struct {
		Status   string `json:"status"`
		Database string `json:"database"`
	}
}

func (s *Server) registerIndexRoute() {
	huma.Get(s.api, "/", s.indexHandler, htmlOperation("Wiki index", stdhttp.StatusInternalServerError))
}

func (s *Server) registerWikiRoute() {
	huma.Get(s.api, "/wiki/{name}", s.pageHandler, htmlOperation(
		"View or draft a wiki page",
		stdhttp.StatusInternalServerError,
	))
}

func (s *Server) registerCreateRoute() {
	huma.Post(s.api, "/create", s.createHandler, htmlOperation(
		"Redirect to the editor for a page name",
		stdhttp.StatusSeeOther,
	))
}

func (s *Server) registerSaveRoute() {
	huma.Post(s.api, "/save", s.saveHandler, htmlOperation(
		"Insert or update a wiki page",
		stdhttp.StatusSeeOther,
		stdhttp.StatusInternalServerError,
	))
}

func (s *Server) registerDeleteRoute() {
	huma.Post(s.api, "/delete", s.deleteHandler, htmlOperation(
		"Delete a wiki page",
		stdhttp.StatusSeeOther,
		stdhttp.StatusInternalServerError,
	))
}

func (s *Server) registerHealthRoute() {
	huma.Get(s.api, "/healthz", s.healthHandler, func(op *huma.Operation) {
		op.Summary = "Health check"
	})
}

func (s *Server) indexHandler(ctx context.Context, _ *struct{}) (*htmlResponse, error) {
	names, err := s.wiki.Index(ctx)
	if err != nil {
		s.recordError(ctx, err, "listing pages for index", nil)
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, errorFallbackMessage)
	}

	body, err := s.renderer.Render("index", render.IndexData{
		Title: "Wiki home",
		Pages: names,
	})
	if err != nil {
		s.recordError(ctx, err, "rendering index page", nil)
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, errorFallbackMessage)
	}

	return newHTMLResponse(stdhttp.StatusOK, body), nil
}

func (s *Server) pageHandler(ctx context.Context, input *wikiInput) (*htmlResponse, error) {
	view, err := s.wiki.View(ctx, input.Name)
	if err != nil {
		s.recordError(ctx, err, "loading wiki page", logrus.Fields{"name": input.Name})
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, errorFallbackMessage)
	}

	body, err := s.renderer.Render("page", render.PageData{
		Title:      view.Name,
		ID:         view.ID,
		NewPage:    view.IsNew,
		RawContent: view.RawContent,
		Content:    template.HTML(view.HTML),
		Timestamp:  time.Now().Format(time.RFC1123),
	})
	if err != nil {
		s.recordError(ctx, err, "rendering wiki page", logrus.Fields{"name": view.Name})
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, errorFallbackMessage)
	}

	return newHTMLResponse(stdhttp.StatusOK, body), nil
}

// createHandler never touches the store; it only points the client at the
// editor for a possibly-new page.
func (s *Server) createHandler(ctx context.Context, input *formInput) (*htmlResponse, error) {
	form, err := url.ParseQuery(string(input.RawBody))
	if err != nil {
		s.recordError(ctx, err, "decoding create form", nil)
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, errorFallbackMessage)
	}

	location := "/"
	if name := form.Get("name"); name != "" {
		location = "/wiki/" + url.PathEscape(name)
	}

	return newRedirectResponse(location), nil
}

func (s *Server) saveHandler(ctx context.Context, input *formInput) (*htmlResponse, error) {
	form, err := url.ParseQuery(string(input.RawBody))
	if err != nil {
		s.recordError(ctx, err, "decoding save form", nil)
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, errorFallbackMessage)
	}

	title := form.Get("title")
	newPage := form.Get("newPage") == "yes"

	req := wiki.SaveRequest{
		NewPage:  newPage,
		Title:    title,
		Markdown: form.Get("markdown"),
	}

	if !newPage {
		id, parseErr := strconv.ParseInt(form.Get("id"), 10, 64)
		if parseErr != nil {
			s.recordError(ctx, parseErr, "parsing page id from save form", logrus.Fields{"id": form.Get("id")})
			return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, errorFallbackMessage)
		}
		req.ID = id
	}

	if err := s.wiki.Save(ctx, req); err != nil {
		s.recordError(ctx, err, "saving wiki page", logrus.Fields{"title": title})
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, errorFallbackMessage)
	}

	return newRedirectResponse("/wiki/" + url.PathEscape(title)), nil
}

func (s *Server) deleteHandler(ctx context.Context, input *formInput) (*htmlResponse, error) {
	form, err := url.ParseQuery(string(input.RawBody))
	if err != nil {
		s.recordError(ctx, err, "decoding delete form", nil)
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, errorFallbackMessage)
	}

	id, err := strconv.ParseInt(form.Get("id"), 10, 64)
	if err != nil {
		s.recordError(ctx, err, "parsing page id from delete form", logrus.Fields{"id": form.Get("id")})
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, errorFallbackMessage)
	}

	if err := s.wiki.Delete(ctx, id); err != nil {
		s.recordError(ctx, err, "deleting wiki page", logrus.Fields{"id": id})
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, errorFallbackMessage)
	}

	return newRedirectResponse("/"), nil
}

func (s *Server) healthHandler(ctx context.Context, _ *struct{}) (*healthResponse, error) {
	resp := &healthResponse{}
	resp.Body.Status = "ok"
	resp.Body.Database = "ok"

	sqlDB, err := db.SQLDB(s.db)
	if err != nil {
		s.recordError(ctx, err, "obtaining sql db", nil)
		resp.Body.Status = "degraded"
		resp.Body.Database = "error"
		resp.Status = stdhttp.StatusServiceUnavailable
	} else if pingErr := sqlDB.PingContext(ctx); pingErr != nil {
		s.recordError(ctx, pingErr, "pinging database", nil)
		resp.Body.Status = "degraded"
		resp.Body.Database = "error"
		resp.Status = stdhttp.StatusServiceUnavailable
	}

	if resp.Status == 0 {
		resp.Status = stdhttp.StatusOK
	}

	return resp, nil
}

func newHTMLResponse(status int, body []byte) *htmlResponse {
	return &htmlResponse{
		Status:      status,
		ContentType: htmlContentType,
		Body:        body,
	}
}

// newRedirectResponse answers 303 with no body, the redirect-after-post
// pattern that keeps a refresh from resubmitting the form.
func newRedirectResponse(location string) *htmlResponse {
	return &htmlResponse{
		Status:   stdhttp.StatusSeeOther,
		Location: location,
	}
}

func htmlOperation(summary string, statuses ...int) func(op *huma.Operation) {
	return func(op *huma.Operation) {
		if summary != "" {
			op.Summary = summary
		}
		if op.Responses == nil {
			op.Responses = map[string]*huma.Response{}
		}

		statusCodes := append([]int{stdhttp.StatusOK}, statuses...)
		for _, status := range statusCodes {
			code := strconv.Itoa(status)
			op.Responses[code] = &huma.Response{
				Description: stdhttp.StatusText(status),
				Content: map[string]*huma.MediaType{
					htmlContentType: {
						Schema: &huma.Schema{Type: "string"},
					},
				},
			}
		}
	}
}

func (s *Server) renderErrorResponse(ctx context.Context, status int, message string) (*htmlResponse, error) {
	label := fmt.Sprintf("%d %s", status, stdhttp.StatusText(status))
	body, err := s.renderer.Render("error", render.ErrorData{
		Title:       label,
		StatusLabel: label,
		Message:     message,
	})
	if err != nil {
		s.recordError(ctx, err, "rendering error page", logrus.Fields{"status": status})
		fallback := []byte(fmt.Sprintf("<html><body><h1>%s</h1><p>%s</p></body></html>", label, message))
		return newHTMLResponse(status, fallback), nil
	}

	return newHTMLResponse(status, body), nil
}

func (s *Server) recordError(ctx context.Context, err error, message string, fields logrus.Fields) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if fields != nil {
			entry = entry.WithFields(fields)
		}
		if requestID := RequestIDFromContext(ctx); requestID != "" {
			entry = entry.WithField("request_id", requestID)
		}
		entry.Error(message)
	}

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.CaptureException(err)
		return
	}
	if s.sentry != nil {
		s.sentry.CaptureException(err)
	}
}
