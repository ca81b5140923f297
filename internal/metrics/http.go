package metrics

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// unmatchedRoute labels requests no route matched, keeping 404 scans from creating one
// series per probed path.
const unmatchedRoute = "unmatched"

type httpMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
	inFlight metric.Int64UpDownCounter
}

func newHTTPMetrics(meter metric.Meter, namespace string) (*httpMetrics, error) {
	requests, errRequests := meter.Int64Counter(
		fmt.Sprintf("%s_http_requests_total", namespace),
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	duration, errDuration := meter.Float64Histogram(
		fmt.Sprintf("%s_http_request_duration_seconds", namespace),
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		// Quiz generation waits on two collaborators, so the upper buckets reach minutes.
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120),
	)
	inFlight, errInFlight := meter.Int64UpDownCounter(
		fmt.Sprintf("%s_http_requests_in_flight", namespace),
		metric.WithDescription("Number of HTTP requests being served"),
		metric.WithUnit("{request}"),
	)
	if err := errors.Join(errRequests, errDuration, errInFlight); err != nil {
		return nil, err
	}

	return &httpMetrics{requests: requests, duration: duration, inFlight: inFlight}, nil
}

// HTTPMetricsMiddleware records request count, latency and in-flight requests labelled
// by method, route template (such as /quizzes/:id), status code and status class.
// If the instruments cannot be created the middleware is a pass-through.
func HTTPMetricsMiddleware(meterProvider metric.MeterProvider, namespace string) gin.HandlerFunc {
	m, err := newHTTPMetrics(meterProvider.Meter(namespace), namespace)
	if err != nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		start := time.Now()
		// The request context may be cancelled by the time the handler returns.
		ctx := context.WithoutCancel(c.Request.Context())
		method := attribute.String("method", c.Request.Method)

		m.inFlight.Add(ctx, 1, metric.WithAttributes(method))
		defer m.inFlight.Add(ctx, -1, metric.WithAttributes(method))

		c.Next()

		status := c.Writer.Status()
		attrs := metric.WithAttributes(
			method,
			attribute.String("path", routeLabel(c.FullPath())),
			attribute.String("status_code", strconv.Itoa(status)),
			attribute.String("status_class", statusClass(status)),
		)

		m.requests.Add(ctx, 1, attrs)
		m.duration.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}

// routeLabel returns the matched route template, or unmatchedRoute.
func routeLabel(fullPath string) string {
	if fullPath == "" {
		return unmatchedRoute
	}
	return fullPath
}

// statusClass maps 404 to "4xx" and so on.
func statusClass(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return strconv.Itoa(status/100) + "xx"
}
