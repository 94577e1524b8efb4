// Package metrics exposes Prometheus collectors for issued quotes.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Simplici0/cotiza3d/internal/pricing"
)

// Metrics groups the quote collectors registered on one registry.
type Metrics struct {
	quotes   *prometheus.CounterVec
	price    prometheus.Histogram
	gatherer prometheus.Gatherer
}

// New registers the quote collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		quotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cotiza3d",
			Name:      "quotes_total",
			Help:      "Quotes computed, by material, setup tier and complexity.",
		}, []string{"material", "tier", "complex"}),
		price: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cotiza3d",
			Name:      "quote_price",
			Help:      "Suggested retail price of computed quotes.",
			Buckets:   []float64{5, 10, 20, 35, 50, 75, 100, 150, 250, 500},
		}),
		gatherer: reg,
	}

	reg.MustRegister(m.quotes, m.price)
	return m
}

// Observe records a computed quote. Unknown material codes are grouped to keep label cardinality bounded.
func (m *Metrics) Observe(job pricing.Job, catalog pricing.Catalog, b pricing.Breakdown) {
	material := "other"
	if mat, ok := catalog.Lookup(job.Material); ok {
		material = mat.Code
	}

	m.quotes.WithLabelValues(material, string(b.SetupTier), strconv.FormatBool(b.Complex)).Inc()
	m.price.Observe(b.Price)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
