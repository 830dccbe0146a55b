package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// Metrics holds the application collectors on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	arSessions     prometheus.Gauge
	arFrames       *prometheus.CounterVec
	arPlacements   prometheus.Counter
	paymentCharges *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"method", "path"}),
		arSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ar",
			Name:      "active_sessions",
			Help:      "Immersive sessions currently streaming.",
		}),
		arFrames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ar",
			Name:      "frames_total",
			Help:      "Frames processed by the hit-test loop, by reticle visibility.",
		}, []string{"reticle"}),
		arPlacements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ar",
			Name:      "placements_total",
			Help:      "Placements committed.",
		}),
		paymentCharges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payment",
			Name:      "charges_total",
			Help:      "Charge attempts by gateway and outcome.",
		}, []string{"gateway", "outcome"}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.arSessions,
		m.arFrames,
		m.arPlacements,
		m.paymentCharges,
	)
	return m
}

// Middleware records every request under its route pattern, not the raw path.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		m.httpRequests.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}

func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}

func (m *Metrics) SessionStarted() {
	m.arSessions.Inc()
}

func (m *Metrics) SessionEnded() {
	m.arSessions.Dec()
}

func (m *Metrics) Frame(reticleVisible bool) {
	label := "hidden"
	if reticleVisible {
		label = "visible"
	}
	m.arFrames.WithLabelValues(label).Inc()
}

func (m *Metrics) Placement() {
	m.arPlacements.Inc()
}

func (m *Metrics) Charge(gateway string, ok bool) {
	outcome := "failed"
	if ok {
		outcome = "succeeded"
	}
	m.paymentCharges.WithLabelValues(gateway, outcome).Inc()
}
