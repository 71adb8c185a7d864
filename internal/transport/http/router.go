package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"kennitala/pkg/platform/middleware/request"
	"kennitala/pkg/platform/middleware/requesttime"
)

// Registrar mounts a group of routes.
type Registrar interface {
	Register(r chi.Router)
}

// RouterConfig holds the transport limits applied to every request.
type RouterConfig struct {
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

// Routes groups what the router serves.
type Routes struct {
	Kennitala Registrar
	Health    Registrar
	Metrics   http.Handler // served at /metrics when non-nil
	Latency   *request.Metrics
}

// NewRouter wires all public endpoints with middleware.
func NewRouter(cfg RouterConfig, routes Routes, logger *slog.Logger) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()

	r.Use(request.Recovery(logger))
	r.Use(request.RequestID)
	r.Use(request.Logger(logger))
	r.Use(request.LatencyMiddleware(routes.Latency))
	r.Use(request.Timeout(cfg.RequestTimeout))
	r.Use(request.ContentTypeJSON)
	r.Use(request.BodyLimit(cfg.MaxBodyBytes))
	r.Use(requesttime.Middleware)

	if routes.Health != nil {
		routes.Health.Register(r)
	}
	if routes.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", routes.Metrics)
	}
	if routes.Kennitala != nil {
		routes.Kennitala.Register(r)
	}

	return r
}
