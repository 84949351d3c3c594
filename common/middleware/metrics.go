package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	awspkg "github.com/vinitha-rv/library-backend/pkg/aws"
)

// RequestMetrics is the subset of the CloudWatch client the HTTP layer needs.
type RequestMetrics interface {
	IsEnabled() bool
	RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error
	RecordLatency(ctx context.Context, metricName string, duration time.Duration, dimensions map[string]string) error
}

// MetricsMiddleware publishes per-route request counts, latency and error
// classes. Paths are reported by route template so book IDs never become
// dimension values.
func MetricsMiddleware(metrics RequestMetrics, serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics == nil || !metrics.IsEnabled() {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()
		dims := requestDimensions(c, serviceName, status)

		// never block the response on CloudWatch
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			_ = metrics.RecordLatency(ctx, awspkg.MetricHTTPLatency, duration, dims)
			for _, name := range requestCounters(status) {
				_ = metrics.RecordCount(ctx, name, dims)
			}
		}()
	}
}

func requestDimensions(c *gin.Context, serviceName string, status int) map[string]string {
	route := c.FullPath()
	if route == "" {
		// 404s and other unrouted requests share one bucket
		route = "unmatched"
	}
	return map[string]string{
		"Service": serviceName,
		"Method":  c.Request.Method,
		"Path":    route,
		"Status":  statusCodeToRange(status),
	}
}

// requestCounters lists the counters one response increments.
func requestCounters(status int) []string {
	names := []string{awspkg.MetricHTTPRequests}
	switch {
	case status >= 500:
		names = append(names, awspkg.MetricHTTPErrors, awspkg.MetricHTTP5xx)
	case status >= 400:
		names = append(names, awspkg.MetricHTTPErrors, awspkg.MetricHTTP4xx)
	}
	return names
}

func statusCodeToRange(statusCode int) string {
	if statusCode < 200 || statusCode > 599 {
		return "unknown"
	}
	return string('0'+byte(statusCode/100)) + "xx"
}
