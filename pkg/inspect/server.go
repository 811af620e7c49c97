// Package inspect serves resolved route definitions over HTTP.
//
// Endpoints:
//
//	GET /routes          all enabled kinds
//	GET /routes/{kind}   one kind, by name or slug
//	                     ?page=/api/users returns a single definition
//	GET /healthz         200 once every kind resolves, 503 otherwise
//	GET /metrics         Prometheus exposition
//	GET /_routes/ws      WebSocket stream of route changes
//
// A kind that fails to resolve is answered with 503 and the coded error;
// partial sets are never served.
package inspect

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/routedefs/internal/errors"
	"github.com/vango-dev/routedefs/pkg/routedef"
	"github.com/vango-dev/routedefs/pkg/routekind"
	"github.com/vango-dev/routedefs/pkg/routepath"
)

// Config configures the inspection server.
type Config struct {
	// Logger for request and lifecycle logging. If nil, slog.Default() is used.
	Logger *slog.Logger

	// Gatherer backs /metrics. If nil, prometheus.DefaultGatherer is used.
	Gatherer prometheus.Gatherer

	// ShutdownTimeout bounds graceful shutdown. Defaults to 5s.
	ShutdownTimeout time.Duration
}

// Server exposes a registry over HTTP.
type Server struct {
	registry *routedef.Registry
	config   Config
	logger   *slog.Logger
	hub      *Hub
	router   *chi.Mux
}

// New creates a server for registry.
func New(registry *routedef.Registry, config Config) *Server {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Gatherer == nil {
		config.Gatherer = prometheus.DefaultGatherer
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 5 * time.Second
	}

	s := &Server{
		registry: registry,
		config:   config,
		logger:   config.Logger,
		hub:      NewHub(),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/routes", s.handleAll)
	r.Get("/routes/{kind}", s.handleKind)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	r.Get("/_routes/ws", s.hub.HandleWebSocket)
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the WebSocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// NotifyChanged re-resolves kinds and broadcasts the outcome of each.
func (s *Server) NotifyChanged(ctx context.Context, manifestKey string, kinds []routekind.Kind) {
	for _, kind := range kinds {
		msg := Message{Type: MessageRoutes, Kind: kind, Manifest: manifestKey}
		set, err := s.registry.Resolve(ctx, kind)
		if err != nil {
			msg.Type = MessageError
			msg.Error = err.Error()
		} else {
			msg.Version = string(set.Version())
		}
		s.hub.Broadcast(msg)
	}
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("inspection server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	s.hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("inspection server stopped")
	return nil
}

func (s *Server) handleAll(w http.ResponseWriter, r *http.Request) {
	sets, err := s.registry.ResolveAll(r.Context())
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, sets)
}

func (s *Server) handleKind(w http.ResponseWriter, r *http.Request) {
	kind, err := routekind.Parse(chi.URLParam(r, "kind"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	if _, ok := s.registry.Provider(kind); !ok {
		s.writeError(w, http.StatusNotFound,
			errors.New("R006").WithDetailf("%s is not enabled", kind))
		return
	}

	var page string
	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err = routepath.CanonicalizePath(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest,
				errors.Newf(errors.CategoryValidation, "invalid page %q", raw).Wrap(err))
			return
		}
	}

	set, err := s.registry.Resolve(r.Context(), kind)
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, err)
		return
	}

	if page == "" {
		writeJSON(w, http.StatusOK, set)
		return
	}
	def, ok := set.Get(page)
	if !ok {
		s.writeError(w, http.StatusNotFound,
			errors.Newf(errors.CategoryResolve, "no %s route for page %q", kind, page))
		return
	}
	writeJSON(w, http.StatusOK, def)
}

type healthResponse struct {
	Status string            `json:"status"`
	Kinds  map[string]string `json:"kinds"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Kinds: make(map[string]string)}
	status := http.StatusOK

	for _, kind := range s.registry.Kinds() {
		if _, err := s.registry.Resolve(r.Context(), kind); err != nil {
			resp.Kinds[kind.String()] = errors.Code(err)
			if resp.Kinds[kind.String()] == "" {
				resp.Kinds[kind.String()] = "error"
			}
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Kinds[kind.String()] = "ok"
	}

	writeJSON(w, status, resp)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	re := errors.FromError(err, "")
	s.logger.Warn("route request failed", "status", status, "code", re.Code, "error", err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(re.FormatJSON()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
