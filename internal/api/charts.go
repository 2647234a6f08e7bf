package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/ruslano69/launchdash/internal/cache"
	"github.com/ruslano69/launchdash/pkg/charts"
	"github.com/ruslano69/launchdash/pkg/launch"
	"github.com/ruslano69/launchdash/pkg/render"
	"github.com/ruslano69/launchdash/pkg/xlsx"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type chartsHandler struct {
	ds       *launch.Dataset
	registry *charts.Registry
	controls charts.Controls
	cache    cache.Cache
	cacheTTL time.Duration
	size     render.Size
	title    string
}

// eventRequest is a control change posted by the page.
// Missing lo/hi fall back to the dataset bounds.
type eventRequest struct {
	Input string   `json:"input"`
	Site  string   `json:"site"`
	Lo    *float64 `json:"lo"`
	Hi    *float64 `json:"hi"`
}

type eventResponse struct {
	Outputs []charts.ChartSpec `json:"outputs"`
}

// Controls handles GET /api/controls.
func (h *chartsHandler) Controls(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.controls)
}

// AllCharts handles GET /api/charts?site=&lo=&hi=: every registered output
// for one selection, in registration order.
func (h *chartsHandler) AllCharts(w http.ResponseWriter, r *http.Request) {
	sel, err := h.selectionFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	specs := h.registry.Initial(h.ds, sel)
	for _, spec := range specs {
		observeSpec(spec)
	}
	writeJSON(w, http.StatusOK, eventResponse{Outputs: specs})
}

// ChartSpec handles GET /api/charts/{output}?site=&lo=&hi=.
func (h *chartsHandler) ChartSpec(w http.ResponseWriter, r *http.Request) {
	sel, err := h.selectionFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	spec, err := h.build(chi.URLParam(r, "output"), sel)
	if errors.Is(err, charts.ErrUnknownOutput) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, spec)
}

// Event handles POST /api/events: rebuilds every output depending on the
// changed input. An input nothing depends on yields an empty list.
func (h *chartsHandler) Event(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	sel := charts.DefaultSelection(h.ds)
	if site := strings.TrimSpace(req.Site); site != "" {
		sel.Site = site
	}
	if req.Lo != nil {
		sel.Payload.Lo = *req.Lo
	}
	if req.Hi != nil {
		sel.Payload.Hi = *req.Hi
	}

	specs := h.registry.Dispatch(h.ds, charts.Event{Input: req.Input, Selection: sel})
	for _, spec := range specs {
		observeSpec(spec)
	}
	if specs == nil {
		specs = []charts.ChartSpec{}
	}
	writeJSON(w, http.StatusOK, eventResponse{Outputs: specs})
}

// ChartImage handles GET /charts/{output}.{svg|png}?site=&lo=&hi=.
func (h *chartsHandler) ChartImage(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	ext := path.Ext(file)
	output := strings.TrimSuffix(file, ext)

	format, err := render.ParseFormat(ext)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !h.registry.Has(output) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("%v: %q", charts.ErrUnknownOutput, output))
		return
	}
	sel, err := h.selectionFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, hit, err := h.renderCached(r.Context(), output, format, sel)
	if err != nil {
		log.Error().Err(err).Str("output", output).Str("selection", sel.Canonical()).Msg("chart render failed")
		writeError(w, http.StatusInternalServerError, "render failed")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-cache")
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	_, _ = w.Write(data)
}

// ExportScatter handles GET /export/scatter.xlsx: the records behind the
// scatter chart for the given selection.
func (h *chartsHandler) ExportScatter(w http.ResponseWriter, r *http.Request) {
	sel, err := h.selectionFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records := charts.FilterRecords(h.ds, sel.Site, sel.Payload)

	var buf bytes.Buffer
	if err := xlsx.WriteRecords(&buf, records, ""); err != nil {
		log.Error().Err(err).Msg("xlsx export failed")
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="launches.xlsx"`)
	_, _ = w.Write(buf.Bytes())
}

func (h *chartsHandler) build(output string, sel charts.Selection) (charts.ChartSpec, error) {
	spec, err := h.registry.Build(h.ds, output, sel)
	if err != nil {
		return spec, err
	}
	observeSpec(spec)
	return spec, nil
}

// renderCached returns the rendered image, from the cache when possible.
// Cache failures are logged and otherwise ignored.
func (h *chartsHandler) renderCached(ctx context.Context, output string, format render.Format, sel charts.Selection) ([]byte, bool, error) {
	key := cache.Key(h.ds.Fingerprint(), output, string(format), sel.Canonical())

	data, err := h.cache.Get(ctx, key)
	switch {
	case err == nil:
		renderCacheTotal.WithLabelValues("hit").Inc()
		return data, true, nil
	case errors.Is(err, cache.ErrMiss):
		renderCacheTotal.WithLabelValues("miss").Inc()
	default:
		renderCacheTotal.WithLabelValues("error").Inc()
		log.Warn().Err(err).Str("key", key).Msg("render cache read failed")
	}

	spec, err := h.build(output, sel)
	if err != nil {
		return nil, false, err
	}

	start := time.Now()
	var buf bytes.Buffer
	if err := render.Render(spec, format, &buf, h.size); err != nil {
		return nil, false, err
	}
	renderDuration.WithLabelValues(string(format)).Observe(time.Since(start).Seconds())

	if err := h.cache.Set(ctx, key, buf.Bytes(), h.cacheTTL); err != nil {
		renderCacheTotal.WithLabelValues("error").Inc()
		log.Warn().Err(err).Str("key", key).Msg("render cache write failed")
	}
	return buf.Bytes(), false, nil
}

// selectionFromQuery reads site, lo and hi. Absent values take the defaults:
// all sites over the full payload span.
func (h *chartsHandler) selectionFromQuery(q url.Values) (charts.Selection, error) {
	sel := charts.DefaultSelection(h.ds)
	if site := strings.TrimSpace(q.Get("site")); site != "" {
		sel.Site = site
	}

	var err error
	if sel.Payload.Lo, err = floatParam(q, "lo", sel.Payload.Lo); err != nil {
		return sel, err
	}
	if sel.Payload.Hi, err = floatParam(q, "hi", sel.Payload.Hi); err != nil {
		return sel, err
	}
	return sel, nil
}

func floatParam(q url.Values, name string, def float64) (float64, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("parameter %s: not a number: %q", name, raw)
	}
	return v, nil
}
