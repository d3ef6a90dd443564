package metrics

import "github.com/prometheus/client_golang/prometheus"

// ClinicMetrics exposes counters for booking and reconciliation flows.
type ClinicMetrics struct {
	bookingsTotal   *prometheus.CounterVec
	inboundTotal    *prometheus.CounterVec
	cyclesTotal     prometheus.Counter
	passMutations   *prometheus.CounterVec
	persistFailures prometheus.Counter
}

func NewClinicMetrics(reg prometheus.Registerer) *ClinicMetrics {
	m := &ClinicMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "booking",
			Name:      "created_total",
			Help:      "Total appointments created",
		}, []string{"source"}),
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "whatsapp",
			Name:      "inbound_webhook_total",
			Help:      "Total inbound WhatsApp webhooks",
		}, []string{"status"}),
		cyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "reconcile",
			Name:      "cycles_total",
			Help:      "Total reconciliation cycles executed",
		}),
		passMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "reconcile",
			Name:      "pass_mutations_total",
			Help:      "Appointments mutated per reconciliation pass",
		}, []string{"pass"}),
		persistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "reconcile",
			Name:      "persist_failures_total",
			Help:      "Failed whole-document persist attempts",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.inboundTotal, m.cyclesTotal, m.passMutations, m.persistFailures)
	return m
}

func (m *ClinicMetrics) ObserveBooking(source string) {
	if m == nil {
		return
	}
	if source == "" {
		source = "web"
	}
	m.bookingsTotal.WithLabelValues(source).Inc()
}

func (m *ClinicMetrics) ObserveInbound(status string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(status).Inc()
}

func (m *ClinicMetrics) ObserveCycle() {
	if m == nil {
		return
	}
	m.cyclesTotal.Inc()
}

func (m *ClinicMetrics) ObservePassMutations(pass string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.passMutations.WithLabelValues(pass).Add(float64(n))
}

func (m *ClinicMetrics) ObservePersistFailure() {
	if m == nil {
		return
	}
	m.persistFailures.Inc()
}
