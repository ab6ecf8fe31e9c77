package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/ytcast/internal/log"
)

const headerRequestID = "X-Request-ID"

var httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "ytcast_http_request_duration_seconds",
	Help:    "HTTP request latencies in seconds",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "route", "status"})

// requestID adds a unique ID to every request.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(headerRequestID)
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Header(headerRequestID, reqID)
		c.Request = c.Request.WithContext(log.ContextWithRequestID(c.Request.Context(), reqID))
		c.Next()
	}
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		l := log.WithContext(c.Request.Context(), logger)
		l.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Int64(log.FieldDuration, time.Since(start).Milliseconds()).
			Msg("request")
	}
}

func metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
