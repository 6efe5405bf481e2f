// Package metrics counts command, menu and configuration activity for diagnostics.
package metrics

import (
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the application's Prometheus collectors.
type Metrics struct {
	CommandsTotal    *prometheus.CounterVec
	MenuActionsTotal *prometheus.CounterVec
	EnvLayersTotal   *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates a new Metrics instance with all metrics registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.CommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hc3qa_commands_total",
			Help: "Commands invoked by the UI",
		},
		[]string{"command", "result"},
	)

	m.MenuActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hc3qa_menu_actions_total",
			Help: "Native menu actions dispatched",
		},
		[]string{"action", "outcome"},
	)

	m.EnvLayersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hc3qa_env_layers_total",
			Help: "Layered .env sources processed at startup",
		},
		[]string{"source", "status"},
	)

	m.registry.MustRegister(m.CommandsTotal, m.MenuActionsTotal, m.EnvLayersTotal)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordCommand counts one command invocation.
func (m *Metrics) RecordCommand(command string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.CommandsTotal.WithLabelValues(command, result).Inc()
}

// RecordMenuAction counts one dispatched menu action.
func (m *Metrics) RecordMenuAction(action, outcome string) {
	if m == nil {
		return
	}
	m.MenuActionsTotal.WithLabelValues(action, outcome).Inc()
}

// RecordEnvLayer counts one processed configuration layer.
func (m *Metrics) RecordEnvLayer(source, status string) {
	if m == nil {
		return
	}
	m.EnvLayersTotal.WithLabelValues(source, status).Inc()
}

// Snapshot flattens every counter into "name{label=value,...}" keys.
func (m *Metrics) Snapshot() (map[string]float64, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64)
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			labels := make([]string, 0, len(metric.GetLabel()))
			for _, lp := range metric.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			sort.Strings(labels)

			key := mf.GetName()
			if len(labels) > 0 {
				key += "{" + strings.Join(labels, ",") + "}"
			}
			if c := metric.GetCounter(); c != nil {
				out[key] = c.GetValue()
			} else if g := metric.GetGauge(); g != nil {
				out[key] = g.GetValue()
			}
		}
	}
	return out, nil
}

// Reporter is bound to the UI so the debug panel can show counters.
type Reporter struct {
	metrics *Metrics
}

// NewReporter wraps m for binding.
func NewReporter(m *Metrics) *Reporter {
	return &Reporter{metrics: m}
}

// Snapshot returns the current counter values.
func (r *Reporter) Snapshot() (map[string]float64, error) {
	return r.metrics.Snapshot()
}
