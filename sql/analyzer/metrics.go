package analyzer

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultOK    = "ok"
	resultError = "error"
)

// Metrics counts the statements analyzed, by statement kind and result.
type Metrics struct {
	statements *prometheus.CounterVec
}

// NewMetrics creates the analyzer metrics and registers them in the given
// registerer.
func NewMetrics(r prometheus.Registerer) (*Metrics, error) {
	statements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nql",
		Subsystem: "analyzer",
		Name:      "statements_total",
		Help:      "Number of statements analyzed, by kind and result.",
	}, []string{"kind", "result"})

	if err := r.Register(statements); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			statements = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}

	return &Metrics{statements: statements}, nil
}

func (m *Metrics) observe(kind, result string) {
	if m == nil {
		return
	}
	m.statements.WithLabelValues(kind, result).Inc()
}
