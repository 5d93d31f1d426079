package supervisor_test

import (
	"testing"
	"time"

	"github.com/aretw0/hoist/pkg/supervisor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func TestTracker_AnyPolicy(t *testing.T) {
	tr := supervisor.NewTracker(supervisor.PolicyAny, 2*time.Second, 2*time.Second, 60*time.Second)
	stale := epoch.Add(-time.Hour)

	now := epoch
	for i := 1; i <= 30; i++ {
		now = now.Add(2 * time.Second)
		assert.Equal(t, time.Duration(i)*2*time.Second, tr.Observe(now, []time.Time{stale, stale}))
		assert.False(t, tr.Expired(), "60s exactly is not past the limit")
	}

	// a single fresh artifact resets the counter
	now = now.Add(2 * time.Second)
	assert.Zero(t, tr.Observe(now, []time.Time{now.Add(-time.Second), stale}))

	for range 31 {
		now = now.Add(2 * time.Second)
		tr.Observe(now, []time.Time{stale, stale})
	}
	assert.True(t, tr.Expired())
	assert.Equal(t, 62*time.Second, tr.Inactive())
}

func TestTracker_FreshnessWindowIsInclusive(t *testing.T) {
	tr := supervisor.NewTracker(supervisor.PolicyAny, 2*time.Second, 2*time.Second, 60*time.Second)
	assert.True(t, tr.Fresh(epoch, epoch.Add(-2*time.Second)))
	assert.False(t, tr.Fresh(epoch, epoch.Add(-2*time.Second-time.Millisecond)))
}

func TestTracker_LastArtifactPolicy(t *testing.T) {
	tests := []struct {
		name   string
		fresh  []bool
		before time.Duration
		want   time.Duration
	}{
		{name: "all stale accrues", fresh: []bool{false, false, false}, before: 4 * time.Second, want: 6 * time.Second},
		{name: "last fresh resets", fresh: []bool{false, false, true}, before: 4 * time.Second, want: 0},
		{name: "fresh then stale last accrues from zero", fresh: []bool{true, false}, before: 10 * time.Second, want: 2 * time.Second},
		{name: "all fresh resets", fresh: []bool{true, true}, before: 10 * time.Second, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := supervisor.NewTracker(supervisor.PolicyLastArtifact, 2*time.Second, 2*time.Second, 60*time.Second)
			stale := epoch.Add(-time.Hour)
			for tr.Inactive() < tt.before {
				tr.Observe(epoch, []time.Time{stale})
			}
			require.Equal(t, tt.before, tr.Inactive())

			writes := make([]time.Time, len(tt.fresh))
			for i, f := range tt.fresh {
				writes[i] = stale
				if f {
					writes[i] = epoch
				}
			}
			assert.Equal(t, tt.want, tr.Observe(epoch, writes))
		})
	}
}

func TestParsePolicy(t *testing.T) {
	p, err := supervisor.ParsePolicy("last-artifact")
	require.NoError(t, err)
	assert.Equal(t, supervisor.PolicyLastArtifact, p)

	_, err = supervisor.ParsePolicy("newest")
	assert.Error(t, err)
}
