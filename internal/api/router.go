// Package api serves the dashboard page, the chart API and rendered chart images.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/ruslano69/launchdash/internal/cache"
	"github.com/ruslano69/launchdash/internal/infra"
	"github.com/ruslano69/launchdash/pkg/charts"
	"github.com/ruslano69/launchdash/pkg/launch"
	"github.com/ruslano69/launchdash/pkg/render"
)

// NewRouter wires all dependencies and returns the chi router.
// ds is read-only from here on and shared by every request.
func NewRouter(cfg *infra.Config, inf *infra.Infra, ds *launch.Dataset) http.Handler {
	r := chi.NewRouter()

	timeout := cfg.Server.WriteTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r.Use(zerologMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(gzipMiddleware)

	h := &chartsHandler{
		ds:       ds,
		registry: charts.DefaultRegistry(),
		controls: charts.BuildControls(ds, cfg.SiteLabels),
		cache:    inf.Cache,
		cacheTTL: cfg.Cache.TTL,
		size:     render.DefaultSize,
		title:    cfg.Server.Title,
	}
	registerOutputs(h.registry.Outputs())

	r.Get("/", h.Index)
	r.Get("/healthz", handleHealthz)
	r.Get("/readyz", handleReadyz(inf))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/controls", h.Controls)
		r.Get("/charts", h.AllCharts)
		r.Get("/charts/{output}", h.ChartSpec)
		r.Post("/events", h.Event)
	})

	r.Get("/charts/{file}", h.ChartImage)
	r.Get("/export/scatter.xlsx", h.ExportScatter)

	return r
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReadyz pings the render cache to confirm the service is ready and
// reports the cache breaker state when there is one.
func handleReadyz(inf *infra.Infra) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{"cache": "ok"}
		status := http.StatusOK

		if err := inf.Cache.Ping(r.Context()); err != nil {
			checks["cache"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		if g, ok := inf.Cache.(*cache.Guarded); ok {
			checks["cache_breaker"] = g.State().String()
		}
		writeJSON(w, status, checks)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v before touching the response, so an unencodable value
// becomes a 500 instead of a 200 with an empty body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Int("status", status).Msg("json encode failed")
		body, _ = json.Marshal(errorResponse{Error: "internal error: response encoding failed"})
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
