package middlewares

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HTTPMetrics holds only HTTP request metrics
type HTTPMetrics struct {
	Mutex            sync.RWMutex
	RequestsTotal    map[string]int64
	RequestDurations []float64
	ActiveRequests   int64
}

type MetricsMiddleware struct {
	logger  *zap.Logger
	metrics *HTTPMetrics
}

func NewMetricsMiddleware(logger *zap.Logger) *MetricsMiddleware {
	return &MetricsMiddleware{
		logger: logger,
		metrics: &HTTPMetrics{
			RequestsTotal:    make(map[string]int64),
			RequestDurations: make([]float64, 0),
		},
	}
}

func (m *MetricsMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		m.metrics.Mutex.Lock()
		m.metrics.ActiveRequests++
		m.metrics.Mutex.Unlock()

		c.Next()

		duration := time.Since(start).Seconds()

		statusCode := strconv.Itoa(c.Writer.Status())
		route := c.FullPath()
		method := c.Request.Method
		key := method + " " + route + "_" + statusCode

		m.metrics.Mutex.Lock()
		m.metrics.RequestsTotal[key]++
		m.metrics.RequestDurations = append(m.metrics.RequestDurations, duration)
		m.metrics.ActiveRequests--

		// Keep only last 1000 durations to prevent memory leak
		if len(m.metrics.RequestDurations) > 1000 {
			m.metrics.RequestDurations = m.metrics.RequestDurations[len(m.metrics.RequestDurations)-1000:]
		}
		m.metrics.Mutex.Unlock()
	}
}

// GetHTTPMetrics returns the HTTP metrics for the metrics handler to expose
func (m *MetricsMiddleware) GetHTTPMetrics() *HTTPMetrics {
	return m.metrics
}
