package components

import (
	"context"

	"github.com/google/uuid"
	"github.com/payments-engine/internal/transaction_processor/service"
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsDiagnostics counts diagnostics in Prometheus
type MetricsDiagnostics struct {
	rejected    *prometheus.CounterVec
	malformed   prometheus.Counter
	emptyInputs prometheus.Counter
}

// NewMetricsDiagnostics creates the counters and registers them with reg
func NewMetricsDiagnostics(reg prometheus.Registerer) (*MetricsDiagnostics, error) {
	m := &MetricsDiagnostics{
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payments_events_rejected_total",
			Help: "Total number of events rejected by the engine, by rejection code",
		}, []string{"code"}),
		malformed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "payments_rows_malformed_total",
			Help: "Total number of input rows that could not be parsed",
		}),
		emptyInputs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "payments_empty_inputs_total",
			Help: "Total number of runs that contained no well-formed event",
		}),
	}

	for _, c := range []prometheus.Collector{m.rejected, m.malformed, m.emptyInputs} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *MetricsDiagnostics) Rejected(_ context.Context, r service.RowRejection) {
	m.rejected.WithLabelValues(string(r.Code)).Inc()
}

func (m *MetricsDiagnostics) Malformed(context.Context, uuid.UUID, int, error) {
	m.malformed.Inc()
}

func (m *MetricsDiagnostics) Empty(context.Context, uuid.UUID) {
	m.emptyInputs.Inc()
}
