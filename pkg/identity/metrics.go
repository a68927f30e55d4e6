package identity

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultOK              = "ok"
	resultInvalidInput    = "invalid_input"
	resultInvalidMnemonic = "invalid_mnemonic"
	resultCanceled        = "canceled"
	resultError           = "error"
)

// Metrics records factory outcomes. A nil *Metrics records nothing.
type Metrics struct {
	creations *prometheus.CounterVec
	duration  prometheus.Histogram
}

// NewMetrics registers the factory collectors on reg. A nil reg leaves the
// collectors unregistered, which is useful in tests.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		creations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tinyara",
			Subsystem: "identity",
			Name:      "creations_total",
			Help:      "Identity creations by result.",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tinyara",
			Subsystem: "identity",
			Name:      "derivation_seconds",
			Help:      "Wall time of successful identity and wallet derivations.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.creations, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	result := resultLabel(err)
	m.creations.WithLabelValues(result).Inc()
	if result == resultOK {
		m.duration.Observe(elapsed.Seconds())
	}
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return resultOK
	case errors.Is(err, ErrInvalidMnemonic):
		return resultInvalidMnemonic
	case errors.Is(err, ErrInvalidInput):
		return resultInvalidInput
	case errors.Is(err, errCanceled):
		return resultCanceled
	default:
		return resultError
	}
}
