package handlers

import (
	"context"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agromitra/agromitra/internal/server/middlewares"
)

// AppMetrics holds application-level metrics: per-source call outcomes
// and how often the chain bottomed out on simulation.
type AppMetrics struct {
	mutex          sync.RWMutex
	sourceCalls    map[string]int64
	sourceErrors   map[string]int64
	simulatedTotal int64
}

type MetricsHandler struct {
	logger     *zap.Logger
	appMetrics *AppMetrics
}

func NewMetricsHandler(logger *zap.Logger) *MetricsHandler {
	return &MetricsHandler{
		logger: logger,
		appMetrics: &AppMetrics{
			sourceCalls:  make(map[string]int64),
			sourceErrors: make(map[string]int64),
		},
	}
}

// RecordSourceCall implements weather.MetricsRecorder.
func (h *MetricsHandler) RecordSourceCall(ctx context.Context, source string, success bool) {
	h.appMetrics.mutex.Lock()
	h.appMetrics.sourceCalls[source]++
	if !success {
		h.appMetrics.sourceErrors[source]++
	}
	h.appMetrics.mutex.Unlock()
}

// RecordSimulatedServe implements weather.MetricsRecorder.
func (h *MetricsHandler) RecordSimulatedServe(ctx context.Context) {
	h.appMetrics.mutex.Lock()
	h.appMetrics.simulatedTotal++
	h.appMetrics.mutex.Unlock()
}

// ServeMetrics exposes the in-memory counters in Prometheus text
// format. HTTP metrics are injected via Gin context by the server.
func (h *MetricsHandler) ServeMetrics(c *gin.Context) {
	h.appMetrics.mutex.RLock()
	defer h.appMetrics.mutex.RUnlock()

	httpMetrics := h.getHTTPMetricsFromContext(c)

	response := ""

	if httpMetrics != nil {
		httpMetrics.Mutex.RLock()

		var avgDuration float64
		if len(httpMetrics.RequestDurations) > 0 {
			sum := 0.0
			for _, d := range httpMetrics.RequestDurations {
				sum += d
			}
			avgDuration = sum / float64(len(httpMetrics.RequestDurations))
		}

		response += "# HELP http_requests_total Total number of HTTP requests\n"
		response += "# TYPE http_requests_total counter\n"
		for key, count := range httpMetrics.RequestsTotal {
			response += "http_requests_total{route_status=\"" + key + "\"} " + strconv.FormatInt(count, 10) + "\n"
		}

		response += "\n# HELP http_request_duration_seconds_avg Average duration of HTTP requests\n"
		response += "# TYPE http_request_duration_seconds_avg gauge\n"
		response += "http_request_duration_seconds_avg " + strconv.FormatFloat(avgDuration, 'f', 6, 64) + "\n"

		response += "\n# HELP http_active_requests Number of active HTTP requests\n"
		response += "# TYPE http_active_requests gauge\n"
		response += "http_active_requests " + strconv.FormatInt(httpMetrics.ActiveRequests, 10) + "\n"

		httpMetrics.Mutex.RUnlock()
	}

	response += "\n# HELP weather_source_calls_total Total weather source calls\n"
	response += "# TYPE weather_source_calls_total counter\n"
	for source, count := range h.appMetrics.sourceCalls {
		response += "weather_source_calls_total{source=\"" + source + "\"} " + strconv.FormatInt(count, 10) + "\n"
	}

	response += "\n# HELP weather_source_errors_total Total weather source errors\n"
	response += "# TYPE weather_source_errors_total counter\n"
	for source, count := range h.appMetrics.sourceErrors {
		response += "weather_source_errors_total{source=\"" + source + "\"} " + strconv.FormatInt(count, 10) + "\n"
	}

	response += "\n# HELP weather_simulated_serves_total Forecasts served from the simulation tier\n"
	response += "# TYPE weather_simulated_serves_total counter\n"
	response += "weather_simulated_serves_total " + strconv.FormatInt(h.appMetrics.simulatedTotal, 10) + "\n"

	c.Header("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	c.String(200, response)
}

func (h *MetricsHandler) getHTTPMetricsFromContext(c *gin.Context) *middlewares.HTTPMetrics {
	if value, exists := c.Get("http_metrics"); exists {
		if metrics, ok := value.(*middlewares.HTTPMetrics); ok {
			return metrics
		}
	}
	return nil
}
