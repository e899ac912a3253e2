// Package handler exposes the importer's operational HTTP endpoints.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"phonebook/internal/directory/scheduler"
	"phonebook/pkg/platform/httputil"
)

const healthTimeout = 2 * time.Second

// Trigger starts an import in the background.
type Trigger interface {
	Start(ctx context.Context) error
}

// Handler wires health, metrics and manual run endpoints.
type Handler struct {
	trigger  Trigger
	gatherer prometheus.Gatherer
	runCtx   context.Context
	checks   map[string]HealthCheck
	logger   *slog.Logger
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Option func(*Handler)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithRunContext sets the context that bounds runs started over HTTP. It
// should be cancelled on shutdown.
func WithRunContext(ctx context.Context) Option {
	return func(h *Handler) {
		h.runCtx = ctx
	}
}

// WithHealthCheck adds a dependency probed by GET /healthz.
func WithHealthCheck(name string, check HealthCheck) Option {
	return func(h *Handler) {
		h.checks[name] = check
	}
}

func New(trigger Trigger, gatherer prometheus.Gatherer, opts ...Option) *Handler {
	h := &Handler{
		trigger:  trigger,
		gatherer: gatherer,
		runCtx:   context.Background(),
		checks:   map[string]HealthCheck{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/healthz", h.HandleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	r.Post("/runs", h.HandleStartRun)
}

// Router builds a chi router with every endpoint mounted.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	h.Register(r)
	return r
}

// HandleHealth handles GET /healthz. Any failing dependency makes the whole
// probe unavailable.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	failing := map[string]string{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.WarnContext(ctx, "health check failed", "dependency", name, "error", err)
			failing[name] = "unavailable"
		}
	}
	if len(failing) > 0 {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":       "unavailable",
			"dependencies": failing,
		})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleStartRun handles POST /runs.
func (h *Handler) HandleStartRun(w http.ResponseWriter, r *http.Request) {
	err := h.trigger.Start(h.runCtx)
	switch {
	case err == nil:
		h.logger.InfoContext(r.Context(), "import run triggered over HTTP")
		httputil.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
	case errors.Is(err, scheduler.ErrRunInProgress):
		httputil.WriteError(w, http.StatusConflict, "run_in_progress", err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "failed to trigger import run", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
