// Package metrics counts container events for prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fattybrewing"
)

type Metrics struct {
	reg *prometheus.Registry

	Events   *prometheus.CounterVec
	Amount   *prometheus.CounterVec
	Overflow *prometheus.CounterVec
	Errors   *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brewery",
			Name:      "container_events_total",
			Help:      "Container ledger events by kind and container type.",
		}, []string{"event", "container_type"}),
		Amount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brewery",
			Name:      "content_amount_total",
			Help:      "Amount moved by ledger events, in the unit the event reports.",
		}, []string{"event", "unit"}),
		Overflow: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brewery",
			Name:      "overflow_total",
			Help:      "Additions clipped because the container was full.",
		}, []string{"container_type"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "brewery",
			Name:      "operation_errors_total",
			Help:      "Failed brewhouse operations by operation name.",
		}, []string{"op"}),
	}
	m.reg.MustRegister(m.Events, m.Amount, m.Overflow, m.Errors)
	return m
}

// Hook returns a container hook that records every event.
func (m *Metrics) Hook() fattybrewing.HookFunc {
	return func(ev fattybrewing.Event) error {
		m.Events.WithLabelValues(string(ev.Kind), string(ev.ContainerKind)).Inc()
		if ev.Kind == fattybrewing.EventOverflow {
			m.Overflow.WithLabelValues(string(ev.ContainerKind)).Inc()
		}
		if !ev.Quantity.Unit.IsZero() {
			amount, _ := ev.Quantity.Amount.Float64()
			if amount > 0 {
				m.Amount.WithLabelValues(string(ev.Kind), ev.Quantity.Unit.Symbol).Add(amount)
			}
		}
		return nil
	}
}

func (m *Metrics) OpFailed(op string) {
	m.Errors.WithLabelValues(op).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// WriteTextfile dumps the current counters in the node exporter textfile
// format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
