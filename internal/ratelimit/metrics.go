package ratelimit

import "github.com/prometheus/client_golang/prometheus"

// Metrics records limiter decisions.
type Metrics struct {
	admitted  prometheus.Counter
	denied    prometheus.Counter
	remaining prometheus.Gauge
}

// NewMetrics creates limiter metrics labelled with name and registers them on reg.
// A nil reg leaves the collectors unregistered.
func NewMetrics(reg prometheus.Registerer, name string) *Metrics {
	labels := prometheus.Labels{"limiter": name}
	m := &Metrics{
		admitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "cinegrid",
			Subsystem:   "ratelimit",
			Name:        "admitted_total",
			Help:        "Requests admitted by the limiter.",
			ConstLabels: labels,
		}),
		denied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "cinegrid",
			Subsystem:   "ratelimit",
			Name:        "denied_total",
			Help:        "Requests denied by the limiter.",
			ConstLabels: labels,
		}),
		remaining: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "cinegrid",
			Subsystem:   "ratelimit",
			Name:        "remaining",
			Help:        "Admissions left in the current window.",
			ConstLabels: labels,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.admitted, m.denied, m.remaining)
	}
	return m
}

func (m *Metrics) observe(admitted bool, remaining int) {
	if m == nil {
		return
	}
	if admitted {
		m.admitted.Inc()
	} else {
		m.denied.Inc()
	}
	m.remaining.Set(float64(remaining))
}
