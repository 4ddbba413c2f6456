package canvas

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics счётчики движка делегирования
type Metrics struct {
	forwards *prometheus.CounterVec
	wraps    prometheus.Counter
	paints   *prometheus.CounterVec
}

// NewMetrics создаёт и регистрирует метрики в reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		forwards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "canvas",
			Name:      "forward_total",
			Help:      "Запросы к холстам по исходу делегирования",
		}, []string{"query", "outcome"}),
		wraps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "canvas",
			Name:      "wrap_total",
			Help:      "Блоки, обёрнутые в холст",
		}),
		paints: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "canvas",
			Name:      "paint_total",
			Help:      "Попытки окраски граней",
		}, []string{"result"}),
	}
	reg.MustRegister(m.forwards, m.wraps, m.paints)
	return m
}

func (m *Metrics) observe(query string, o Outcome) {
	m.forwards.WithLabelValues(query, o.String()).Inc()
}

func (m *Metrics) wrapped() {
	m.wraps.Inc()
}

func (m *Metrics) painted(ok bool) {
	if ok {
		m.paints.WithLabelValues("ok").Inc()
		return
	}
	m.paints.WithLabelValues("rejected").Inc()
}
