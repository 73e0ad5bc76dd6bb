package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/renjie/prism-units/pkg/core/domain"
	"github.com/renjie/prism-units/pkg/core/ports"
)

// Recorder counts service operations by outcome on its own registry.
// Outcome is "ok" or the error kind ("unknown_unit", "syntax", ...).
type Recorder struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
}

var _ ports.Observer = (*Recorder)(nil)

// NewRecorder creates a Recorder with a private registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "prism_units",
			Name:      "operations_total",
			Help:      "Unit service operations by operation and outcome.",
		}, []string{"op", "outcome"}),
	}
	r.registry.MustRegister(r.operations)
	return r
}

// Observe implements ports.Observer.
func (r *Recorder) Observe(op string, err error) {
	r.operations.WithLabelValues(op, outcome(err)).Inc()
}

// Counter returns the collector for one op/outcome pair.
func (r *Recorder) Counter(op, outcome string) prometheus.Counter {
	return r.operations.WithLabelValues(op, outcome)
}

// WriteText dumps all metrics in the Prometheus text exposition format.
func (r *Recorder) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if kind := domain.KindOf(err); kind != "" {
		return string(kind)
	}
	return "error"
}
