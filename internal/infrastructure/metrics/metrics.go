package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Catalog load outcomes
const (
	LoadCacheHit = "cache_hit"
	LoadFetched  = "fetched"
	LoadFailed   = "failed"
)

// Recorder owns a private registry with the service's metrics.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry        *prometheus.Registry
	catalogLoads    *prometheus.CounterVec
	catalogSize     prometheus.Gauge
	recommendations *prometheus.CounterVec
	noMatches       prometheus.Counter
	comparisons     *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewRecorder creates and registers the service metrics
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		catalogLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "techchoose_catalog_loads_total",
			Help: "Catalog loads by outcome",
		}, []string{"result"}),
		catalogSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "techchoose_catalog_devices",
			Help: "Devices in the most recently normalized catalog",
		}),
		recommendations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "techchoose_recommendations_total",
			Help: "Ranking passes by persona",
		}, []string{"persona"}),
		noMatches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "techchoose_recommendations_no_matches_total",
			Help: "Ranking passes where no device survived the filters",
		}),
		comparisons: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "techchoose_comparisons_total",
			Help: "Head-to-head comparisons by judge criterion",
		}, []string{"judge"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "techchoose_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	r.registry.MustRegister(
		r.catalogLoads,
		r.catalogSize,
		r.recommendations,
		r.noMatches,
		r.comparisons,
		r.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// CatalogLoad counts a catalog load with one of the Load* outcomes
func (r *Recorder) CatalogLoad(result string) {
	if r == nil {
		return
	}
	r.catalogLoads.WithLabelValues(result).Inc()
}

// CatalogSize records the size of a freshly normalized catalog
func (r *Recorder) CatalogSize(n int) {
	if r == nil {
		return
	}
	r.catalogSize.Set(float64(n))
}

// Recommendation counts a ranking pass
func (r *Recorder) Recommendation(persona string, matched bool) {
	if r == nil {
		return
	}
	r.recommendations.WithLabelValues(persona).Inc()
	if !matched {
		r.noMatches.Inc()
	}
}

// Comparison counts a head-to-head
func (r *Recorder) Comparison(judge string) {
	if r == nil {
		return
	}
	r.comparisons.WithLabelValues(judge).Inc()
}

// ObserveRequest records the latency of one HTTP request
func (r *Recorder) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
