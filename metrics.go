package dberrors

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Passthrough reasons reported to logs and metrics.
const (
	reasonAlreadyNormalized = "already_normalized"
	reasonNotInspectable    = "not_inspectable"
	reasonUnknownDialect    = "unknown_dialect"
	reasonUnclassified      = "unclassified"
	reasonPanic             = "panic"
)

// Metrics counts normalization outcomes. A nil *Metrics records nothing.
type Metrics struct {
	normalized  *prometheus.CounterVec
	passthrough *prometheus.CounterVec
}

// NewMetrics registers the counters on reg. A nil reg registers on the
// default registry.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	return &Metrics{
		normalized: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "normalized_total",
			Help:      "Database errors normalized into the kind taxonomy.",
		}, []string{"dialect", "kind"}),
		passthrough: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "passthrough_total",
			Help:      "Errors returned unchanged by the normalizer.",
		}, []string{"reason"}),
	}
}

func (m *Metrics) recordNormalized(dialect Dialect, kind Kind) {
	if m == nil {
		return
	}

	m.normalized.WithLabelValues(dialect.String(), kindLabel(kind)).Inc()
}

func (m *Metrics) recordPassthrough(reason string) {
	if m == nil {
		return
	}

	m.passthrough.WithLabelValues(reason).Inc()
}

func kindLabel(kind Kind) string {
	return strings.ReplaceAll(kind.String(), " ", "_")
}
