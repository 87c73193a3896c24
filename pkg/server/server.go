package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/issuegraph/pkg/buildinfo"
	"github.com/matzehuels/issuegraph/pkg/cache"
	"github.com/matzehuels/issuegraph/pkg/errors"
	"github.com/matzehuels/issuegraph/pkg/graphview"
	"github.com/matzehuels/issuegraph/pkg/interaction"
	"github.com/matzehuels/issuegraph/pkg/positions"
	"github.com/matzehuels/issuegraph/pkg/render/nodelink"
	"github.com/matzehuels/issuegraph/pkg/snapshot"
)

// DefaultMaxBodyBytes caps request bodies.
const DefaultMaxBodyBytes = 8 << 20

// Options configures a [Server].
type Options struct {
	// Metrics is mounted at /metrics when non-nil.
	Metrics http.Handler
	// SVGCache holds rendered SVGs. Nil uses a [cache.Memory].
	SVGCache     cache.Cache
	MaxBodyBytes int64
	Logger       *log.Logger
}

// Server routes HTTP requests to the views of a registry.
type Server struct {
	views   *graphview.Registry
	opts    Options
	logger  *log.Logger
	handler http.Handler
}

// New creates a server over views.
func New(views *graphview.Registry, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.SVGCache == nil {
		opts.SVGCache = cache.NewMemory(0)
	}
	s := &Server{views: views, opts: opts, logger: opts.Logger}
	s.handler = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.health)
	if s.opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.opts.Metrics)
	}

	r.Route("/api/projects/{project}", func(r chi.Router) {
		r.Put("/snapshot", s.putSnapshot)
		r.Get("/diagram", s.getDiagram)
		r.Post("/events", s.postEvent)
		r.Post("/reload", s.postReload)
		r.Get("/positions", s.getPositions)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) putSnapshot(w http.ResponseWriter, r *http.Request) {
	view, ok := s.view(w, r)
	if !ok {
		return
	}
	snap, err := snapshot.Read(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes), snapshot.FormatJSON)
	if err != nil {
		s.writeError(w, err)
		return
	}
	frame, err := view.Update(r.Context(), snap)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, frame)
}

func (s *Server) getDiagram(w http.ResponseWriter, r *http.Request) {
	view, ok := s.view(w, r)
	if !ok {
		return
	}
	frame := view.Frame()

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		writeJSON(w, http.StatusOK, frame)
	case "cytoscape":
		writeJSON(w, http.StatusOK, nodelink.ToElements(frame.Nodes, frame.Edges))
	case "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
		_, _ = w.Write([]byte(nodelink.ToDOT(frame.Nodes, frame.Edges, nodelink.Options{})))
	case "svg":
		svg, err := nodelink.CachedSVG(r.Context(), s.opts.SVGCache, nodelink.ToDOT(frame.Nodes, frame.Edges, nodelink.Options{}))
		if err != nil {
			s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render svg"))
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
	default:
		s.writeError(w, errors.New(errors.ErrCodeInvalidFormat, "unsupported diagram format %q (want json, cytoscape, dot, svg)", format))
	}
}

// EventResponse is the body answered to a posted event.
type EventResponse struct {
	RequestID string               `json:"requestId"`
	Outcome   interaction.Outcome  `json:"outcome"`
	Intents   []interaction.Intent `json:"intents"`
}

func (s *Server) postEvent(w http.ResponseWriter, r *http.Request) {
	view, ok := s.view(w, r)
	if !ok {
		return
	}
	var raw json.RawMessage
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)).Decode(&raw); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidEvent, err, "decode event"))
		return
	}
	ev, err := interaction.DecodeEvent(raw)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out, intents := view.Handle(r.Context(), ev)
	if intents == nil {
		intents = []interaction.Intent{}
	}
	writeJSON(w, http.StatusOK, EventResponse{
		RequestID: requestID(r),
		Outcome:   out,
		Intents:   intents,
	})
}

func (s *Server) postReload(w http.ResponseWriter, r *http.Request) {
	view, ok := s.view(w, r)
	if !ok {
		return
	}
	view.RequestReload()
	writeJSON(w, http.StatusOK, map[string]string{"state": view.Frame().State.String()})
}

func (s *Server) getPositions(w http.ResponseWriter, r *http.Request) {
	view, ok := s.view(w, r)
	if !ok {
		return
	}
	data, err := positions.Encode(view.Record())
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "encode positions"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) view(w http.ResponseWriter, r *http.Request) (*graphview.View, bool) {
	v, err := s.views.Get(r.Context(), chi.URLParam(r, "project"))
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return v, true
}

// requestID returns the chi request ID, or a fresh UUID outside the
// middleware chain.
func requestID(r *http.Request) string {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return id
	}
	return uuid.NewString()
}

type errorBody struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	var body errorBody
	body.Error.Code = errors.GetCode(err)
	if body.Error.Code == "" {
		body.Error.Code = errors.ErrCodeInternal
	}
	body.Error.Message = errors.UserMessage(err)
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"id", middleware.GetReqID(r.Context()),
		)
	})
}
