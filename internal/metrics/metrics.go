// Package metrics exposes Prometheus counters for map clicks, return zones,
// declination lookups and HTTP traffic.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	gatherer prometheus.Gatherer

	Outcomes           *prometheus.CounterVec
	Zones              *prometheus.CounterVec
	DeclinationLookups *prometheus.CounterVec
	Requests           *prometheus.CounterVec
	RequestDurations   *prometheus.HistogramVec
}

// New registers the collectors on reg, or on the default registry when reg is nil.
// Registering twice on the same registry returns the existing collectors.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	outcomes, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "map_click_outcomes_total",
		Help: "Resolved map clicks, labeled by outcome.",
	}, []string{"outcome"}), "map_click_outcomes_total")
	if err != nil {
		return nil, err
	}
	zones, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "return_zones_total",
		Help: "Computed return zones, labeled by whether the reach was estimated from a duration.",
	}, []string{"estimated"}), "return_zones_total")
	if err != nil {
		return nil, err
	}
	lookups, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "declination_lookups_total",
		Help: "Geomagnetic model lookups, labeled by result (ok, error).",
	}, []string{"result"}), "declination_lookups_total")
	if err != nil {
		return nil, err
	}
	requests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Handled HTTP requests, labeled by route, method and status code.",
	}, []string{"route", "method", "code"}), "http_requests_total")
	if err != nil {
		return nil, err
	}
	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"route", "method"}), "http_request_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:           gatherer,
		Outcomes:           outcomes,
		Zones:              zones,
		DeclinationLookups: lookups,
		Requests:           requests,
		RequestDurations:   durations,
	}, nil
}

// Nil receivers are allowed so services can run without metrics.

func (c *Collector) ObserveOutcome(kind string) {
	if c == nil {
		return
	}
	c.Outcomes.WithLabelValues(kind).Inc()
}

func (c *Collector) ObserveZone(estimated bool) {
	if c == nil {
		return
	}
	c.Zones.WithLabelValues(strconv.FormatBool(estimated)).Inc()
}

func (c *Collector) ObserveDeclination(err error) {
	if c == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.DeclinationLookups.WithLabelValues(result).Inc()
}

// Middleware records request counts and latency per matched route.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		if c == nil {
			return
		}
		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := ctx.Request.Method
		c.Requests.WithLabelValues(route, method, strconv.Itoa(ctx.Writer.Status())).Inc()
		c.RequestDurations.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
