package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orbitrack",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "orbitrack",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "orbitrack",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Tracker metrics
	PositionPolls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orbitrack",
		Subsystem: "tracker",
		Name:      "position_polls_total",
		Help:      "Total position polls by result",
	}, []string{"result"})

	PollDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "orbitrack",
		Subsystem: "tracker",
		Name:      "poll_duration_seconds",
		Help:      "Duration of position service requests",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	LateResultsDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "orbitrack",
		Subsystem: "tracker",
		Name:      "late_results_discarded_total",
		Help:      "Fetch results that arrived after the session was torn down",
	})

	TrajectoryPoints = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "orbitrack",
		Subsystem: "tracker",
		Name:      "trajectory_points",
		Help:      "Current number of points in the tracked trajectory",
	})

	BackfillSamples = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orbitrack",
		Subsystem: "tracker",
		Name:      "backfill_samples_total",
		Help:      "Samples received from the history service, by outcome",
	}, []string{"outcome"})

	CameraFlights = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "orbitrack",
		Subsystem: "viewer",
		Name:      "camera_flights_total",
		Help:      "Total fly-to commands issued to viewers",
	})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "orbitrack",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	BroadcastErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orbitrack",
		Subsystem: "broadcast",
		Name:      "errors_total",
		Help:      "Snapshot fan-out failures by sink",
	}, []string{"sink"})
)

// knownRoutes are the route patterns recorded as-is; anything else is
// collapsed into "other" to bound label cardinality.
var knownRoutes = map[string]bool{
	"/v1/health":           true,
	"/v1/ready":            true,
	"/v1/position":         true,
	"/v1/trajectory":       true,
	"/v1/segments":         true,
	"/v1/segments.geojson": true,
	"/v1/themes/:name":     true,
	"/graphql":             true,
	"/ws":                  true,
	"/ws/feed":             true,
	"/metrics":             true,
}

func normalizePath(route string) string {
	if knownRoutes[route] {
		return route
	}
	return "other"
}

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := normalizePath(c.Route().Path)
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
