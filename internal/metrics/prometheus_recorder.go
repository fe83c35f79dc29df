package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docsnap"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once              sync.Once
	registry          *prom.Registry
	operationDuration *prom.HistogramVec
	operationOutcomes *prom.CounterVec
	pagesCopied       prom.Counter
	bytesCopied       prom.Counter
	versions          prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
// A nil registry gets a fresh one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.once.Do(func() {
		pr.operationDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of snapshot operations",
			Buckets:   prom.DefBuckets,
		}, []string{"operation"})
		pr.operationOutcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "operation_outcomes_total",
			Help:      "Snapshot operation outcomes",
		}, []string{"operation", "outcome"})
		pr.pagesCopied = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_copied_total",
			Help:      "Files copied into snapshots",
		})
		pr.bytesCopied = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_copied_total",
			Help:      "Bytes copied into snapshots",
		})
		pr.versions = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "versions",
			Help:      "Labels registered in the version manifest",
		})
		reg.MustRegister(pr.operationDuration, pr.operationOutcomes, pr.pagesCopied, pr.bytesCopied, pr.versions)
	})
	return pr
}

// Registry exposes the underlying registry.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.registry }

func (p *PrometheusRecorder) ObserveOperationDuration(operation string, d time.Duration) {
	if p == nil || p.operationDuration == nil {
		return
	}
	p.operationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncOperationOutcome(operation string, outcome OutcomeLabel) {
	if p == nil || p.operationOutcomes == nil {
		return
	}
	p.operationOutcomes.WithLabelValues(operation, string(outcome)).Inc()
}

func (p *PrometheusRecorder) AddPagesCopied(n int) {
	if p == nil || p.pagesCopied == nil || n <= 0 {
		return
	}
	p.pagesCopied.Add(float64(n))
}

func (p *PrometheusRecorder) AddBytesCopied(n int64) {
	if p == nil || p.bytesCopied == nil || n <= 0 {
		return
	}
	p.bytesCopied.Add(float64(n))
}

func (p *PrometheusRecorder) SetVersions(n int) {
	if p == nil || p.versions == nil {
		return
	}
	p.versions.Set(float64(n))
}
