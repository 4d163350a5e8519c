package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-forecast/internal/server/middlewares"
	"github.com/vzahanych/weather-forecast/internal/service"
)

// HTTPMetricsProvider supplies the request counters kept by the HTTP middleware.
type HTTPMetricsProvider interface {
	Snapshot() middlewares.HTTPMetricsSnapshot
}

// AppMetrics counts forecast calls per data source.
type AppMetrics struct {
	mutex            sync.RWMutex
	sourceCalls      map[string]int64
	sourceErrors     map[string]int64
	validationErrors map[string]int64
}

type MetricsHandler struct {
	httpMetrics HTTPMetricsProvider
	appMetrics  *AppMetrics
}

func NewMetricsHandler(httpMetrics HTTPMetricsProvider) *MetricsHandler {
	return &MetricsHandler{
		httpMetrics: httpMetrics,
		appMetrics: &AppMetrics{
			sourceCalls:      make(map[string]int64),
			sourceErrors:     make(map[string]int64),
			validationErrors: make(map[string]int64),
		},
	}
}

// RecordSourceCall implements forecaster.MetricsRecorder.
func (h *MetricsHandler) RecordSourceCall(ctx context.Context, source string, err error) {
	h.appMetrics.mutex.Lock()
	defer h.appMetrics.mutex.Unlock()

	h.appMetrics.sourceCalls[source]++
	if err == nil {
		return
	}
	h.appMetrics.sourceErrors[source]++
	if errors.Is(err, service.ErrValidation) {
		h.appMetrics.validationErrors[source]++
	}
}

// ServeMetrics writes the counters in the Prometheus text format.
func (h *MetricsHandler) ServeMetrics(c *gin.Context) {
	var b strings.Builder

	if h.httpMetrics != nil {
		snapshot := h.httpMetrics.Snapshot()

		b.WriteString("# HELP http_requests_total Total number of HTTP requests\n")
		b.WriteString("# TYPE http_requests_total counter\n")
		for _, key := range sortedKeys(snapshot.RequestsTotal) {
			fmt.Fprintf(&b, "http_requests_total{route_status=%q} %d\n", key, snapshot.RequestsTotal[key])
		}

		b.WriteString("\n# HELP http_request_duration_seconds_avg Average duration of HTTP requests\n")
		b.WriteString("# TYPE http_request_duration_seconds_avg gauge\n")
		fmt.Fprintf(&b, "http_request_duration_seconds_avg %.6f\n", snapshot.AvgDurationSeconds)

		b.WriteString("\n# HELP http_active_requests Number of active HTTP requests\n")
		b.WriteString("# TYPE http_active_requests gauge\n")
		fmt.Fprintf(&b, "http_active_requests %d\n\n", snapshot.ActiveRequests)
	}

	h.appMetrics.mutex.RLock()
	writeCounter(&b, "forecast_source_calls_total", "Total forecast calls per data source", h.appMetrics.sourceCalls)
	writeCounter(&b, "forecast_source_errors_total", "Total failed forecast calls per data source", h.appMetrics.sourceErrors)
	writeCounter(&b, "forecast_validation_errors_total", "Total forecasts rejected by validation", h.appMetrics.validationErrors)
	h.appMetrics.mutex.RUnlock()

	c.Data(http.StatusOK, "text/plain; version=0.0.4; charset=utf-8", []byte(b.String()))
}

func writeCounter(b *strings.Builder, name, help string, values map[string]int64) {
	fmt.Fprintf(b, "# HELP %s %s\n", name, help)
	fmt.Fprintf(b, "# TYPE %s counter\n", name)
	for _, source := range sortedKeys(values) {
		fmt.Fprintf(b, "%s{source=%q} %d\n", name, source, values[source])
	}
	b.WriteString("\n")
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
