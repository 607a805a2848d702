// Package server exposes a workspace over HTTP for interactive curation.
//
// The API mirrors the CLI glyph commands: list fonts and glyphs, select and
// deselect, rename, renumber, remove, upload new sources, save the config
// and rebuild the fonts. Every request that touches the collection is
// serialized behind one mutex, because the collection is not safe for
// concurrent use.
//
// Errors are answered as JSON with a status derived from the error code:
//
//	{"error": "GLYPH_NOT_FOUND", "message": "no glyph with uid ..."}
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/fontsmith/pkg/errors"
	"github.com/matzehuels/fontsmith/pkg/observability"
	"github.com/matzehuels/fontsmith/pkg/pipeline"
)

// DefaultAddr is the listen address of the curation server.
const DefaultAddr = "127.0.0.1:7878"

// maxUploadSize bounds uploaded SVG sources.
const maxUploadSize = 4 << 20

const shutdownTimeout = 5 * time.Second

// Server serves one workspace.
type Server struct {
	mu     sync.Mutex
	ws     *pipeline.Workspace
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New returns a server for ws. The runner saves and exports the workspace.
func New(runner *pipeline.Runner, ws *pipeline.Workspace, logger *log.Logger) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	s := &Server{
		ws:     ws,
		runner: runner,
		logger: logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/config", s.handleConfig)
		r.Post("/save", s.handleSave)
		r.Post("/build", s.handleBuild)

		r.Get("/fonts", s.handleFonts)
		r.Get("/fonts/{id}/{format}", s.handleFontFile)

		r.Get("/glyphs", s.handleGlyphs)
		r.Post("/glyphs", s.handleUpload)
		r.Route("/glyphs/{uid}", func(r chi.Router) {
			r.Get("/", s.handleGlyph)
			r.Delete("/", s.handleRemove)
			r.Post("/select", s.handleSelect(true))
			r.Delete("/select", s.handleSelect(false))
			r.Put("/name", s.handleRename)
			r.Put("/code", s.handleCode)
		})
	})
	return r
}

// observe logs requests and reports them to the server hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, d)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", d,
			"id", middleware.GetReqID(r.Context()))
	})
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving", "addr", addr, "font", s.ws.Settings.Font.Name)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

type errorResponse struct {
	Error   errors.Code `json:"error"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Error: code, Message: errors.UserMessage(err)})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
