package metrics

import "github.com/prometheus/client_golang/prometheus"

// Customer lifecycle events.
const (
	EventRegistered      = "registered"
	EventAdminCreated    = "admin_created"
	EventUpdated         = "updated"
	EventPasswordChanged = "password_changed"
	EventDeleted         = "deleted"
	EventNotifyFailed    = "notification_failed"
)

// Customers counts account events.
type Customers struct {
	events *prometheus.CounterVec
}

func NewCustomers(namespace string, reg prometheus.Registerer) *Customers {
	m := &Customers{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "customer_events_total",
			Help:      "Customer account events by kind.",
		}, []string{"event"}),
	}
	reg.MustRegister(m.events)
	return m
}

// Inc is safe on a nil receiver so handlers can run without metrics.
func (m *Customers) Inc(event string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(event).Inc()
}
