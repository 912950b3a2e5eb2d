package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// otherRoute labels requests outside the served routes, unmatched paths included.
const otherRoute = "other"

type opsHTTPMetrics struct {
	routes   map[string]struct{}
	requests metric.Int64Counter
	duration metric.Float64Histogram
	inFlight metric.Int64UpDownCounter
}

// HTTPMetricsMiddleware records request count, duration and in-flight requests for the
// ops server. Only the given route patterns appear as path labels; anything else,
// such as scanner traffic, is folded into "other".
func HTTPMetricsMiddleware(meterProvider metric.MeterProvider, namespace string, routes ...string) gin.HandlerFunc {
	m, err := newOpsHTTPMetrics(meterProvider, namespace, routes)
	if err != nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()

		route := m.routeLabel(c.FullPath())
		m.inFlight.Add(ctx, 1, metric.WithAttributes(attribute.String("path", route)))
		defer m.inFlight.Add(ctx, -1, metric.WithAttributes(attribute.String("path", route)))

		c.Next()

		attrs := metric.WithAttributes(
			attribute.String("method", methodLabel(c.Request.Method)),
			attribute.String("path", route),
			attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
		)
		m.requests.Add(ctx, 1, attrs)
		m.duration.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}

func newOpsHTTPMetrics(meterProvider metric.MeterProvider, namespace string, routes []string) (*opsHTTPMetrics, error) {
	meter := meterProvider.Meter(namespace)

	requests, err := meter.Int64Counter(
		fmt.Sprintf("%s_http_requests_total", namespace),
		metric.WithDescription("Total number of ops HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		fmt.Sprintf("%s_http_request_duration_seconds", namespace),
		metric.WithDescription("Ops HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	inFlight, err := meter.Int64UpDownCounter(
		fmt.Sprintf("%s_http_requests_in_flight", namespace),
		metric.WithDescription("Ops HTTP requests currently being served"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(routes))
	for _, route := range routes {
		known[route] = struct{}{}
	}

	return &opsHTTPMetrics{
		routes:   known,
		requests: requests,
		duration: duration,
		inFlight: inFlight,
	}, nil
}

func (m *opsHTTPMetrics) routeLabel(fullPath string) string {
	if _, ok := m.routes[fullPath]; ok {
		return fullPath
	}
	return otherRoute
}

// methodLabel keeps the methods the ops server answers and folds the rest.
func methodLabel(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return method
	default:
		return "OTHER"
	}
}
