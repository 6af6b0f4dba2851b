package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// HTTPObserver receives one observation per served request
type HTTPObserver interface {
	ObserveHTTP(method, route string, code int, elapsed time.Duration)
}

type otelHTTPMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
	inflight metric.Int64UpDownCounter
}

func newOTelHTTPMetrics(meter metric.Meter) (*otelHTTPMetrics, error) {
	requests, err := meter.Int64Counter("http.server.request.count",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10))
	if err != nil {
		return nil, err
	}
	inflight, err := meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("In-flight HTTP requests"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}
	return &otelHTTPMetrics{requests: requests, duration: duration, inflight: inflight}, nil
}

// HTTPMetrics records request count and latency to the Prometheus observer
// and to the global OTel meter. With OTLP metrics disabled the global meter
// is a no-op. Routes are labelled by their pattern, not the raw path.
func HTTPMetrics(observer HTTPObserver, serviceName string, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	om, err := newOTelHTTPMetrics(otel.Meter(serviceName))
	if err != nil {
		log.Warn("OTel HTTP instruments unavailable", zap.Error(err))
	}

	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()
		method := attribute.String("http.request.method", c.Request.Method)

		if om != nil {
			om.inflight.Add(ctx, 1, metric.WithAttributes(method))
		}

		c.Next()

		elapsed := time.Since(start)
		route := c.FullPath()
		status := c.Writer.Status()

		if observer != nil {
			observer.ObserveHTTP(c.Request.Method, route, status, elapsed)
		}
		if om != nil {
			attrs := metric.WithAttributes(
				method,
				attribute.String("http.route", route),
				attribute.String("http.response.status_code", strconv.Itoa(status)),
			)
			om.requests.Add(ctx, 1, attrs)
			om.duration.Record(ctx, elapsed.Seconds(), attrs)
			om.inflight.Add(ctx, -1, metric.WithAttributes(method))
		}
	}
}
