package observability

import (
	"time"

	"github.com/aretw0/hoist/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

var states = []string{"starting", "running", "clean-shutdown", "crash-shutdown", "local-error"}

// Metrics holds the fleet collectors.
type Metrics struct {
	state       *prometheus.GaugeVec
	inactivity  prometheus.Gauge
	workerExits *prometheus.CounterVec
	outcomes    *prometheus.CounterVec
	transitions prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hoist_supervisor_state",
			Help: "1 for the current supervisor lifecycle state, 0 otherwise",
		}, []string{"state"}),
		inactivity: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hoist_fleet_inactivity_seconds",
			Help: "Time accumulated without any fresh liveness artifact",
		}),
		workerExits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hoist_worker_exits_total",
			Help: "Unexpected worker exits by role and failure tier",
		}, []string{"role", "tier"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hoist_fleet_outcomes_total",
			Help: "Terminal fleet outcomes by reason",
		}, []string{"outcome", "reason"}),
		transitions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hoist_supervisor_transitions_total",
			Help: "Supervisor lifecycle transitions",
		}),
	}
	reg.MustRegister(m.state, m.inactivity, m.workerExits, m.outcomes, m.transitions)
	m.setState("starting")
	return m
}

func (m *Metrics) setState(current string) {
	for _, s := range states {
		v := 0.0
		if s == current {
			v = 1
		}
		m.state.WithLabelValues(s).Set(v)
	}
}

// StateChanged implements supervisor.Observer.
func (m *Metrics) StateChanged(state string) {
	m.transitions.Inc()
	m.setState(state)
}

// Inactivity implements supervisor.Observer.
func (m *Metrics) Inactivity(d time.Duration) {
	m.inactivity.Set(d.Seconds())
}

// WorkerExited implements supervisor.Observer.
func (m *Metrics) WorkerExited(role domain.Role, status domain.ExitStatus) {
	m.workerExits.WithLabelValues(string(role), string(status.Tier)).Inc()
}

// Finished implements supervisor.Observer.
func (m *Metrics) Finished(report domain.Report) {
	m.outcomes.WithLabelValues(string(report.Outcome), report.Reason).Inc()
}
