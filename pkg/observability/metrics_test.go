package observability_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aretw0/hoist/pkg/domain"
	"github.com/aretw0/hoist/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	m.StateChanged("running")
	m.Inactivity(6 * time.Second)
	m.WorkerExited(domain.RoleAxisX, domain.ClassifyExit(1, false))
	m.StateChanged("crash-shutdown")
	m.Finished(domain.Report{Outcome: domain.OutcomeCrashShutdown, Reason: "child terminated unexpectedly"})

	expected := `
# HELP hoist_fleet_inactivity_seconds Time accumulated without any fresh liveness artifact
# TYPE hoist_fleet_inactivity_seconds gauge
hoist_fleet_inactivity_seconds 6
# HELP hoist_worker_exits_total Unexpected worker exits by role and failure tier
# TYPE hoist_worker_exits_total counter
hoist_worker_exits_total{role="axis-x",tier="system-call"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"hoist_fleet_inactivity_seconds", "hoist_worker_exits_total"))

	count, err := testutil.GatherAndCount(reg, "hoist_supervisor_state")
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != "hoist_supervisor_state" {
			continue
		}
		for _, metric := range f.GetMetric() {
			want := 0.0
			if metric.GetLabel()[0].GetValue() == "crash-shutdown" {
				want = 1
			}
			assert.Equal(t, want, metric.GetGauge().GetValue())
		}
	}
}
