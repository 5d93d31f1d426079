package supervisor

import (
	"fmt"
	"time"
)

// FreshnessPolicy decides how artifact freshness feeds the inactivity counter.
type FreshnessPolicy string

const (
	// PolicyAny resets inactivity whenever at least one artifact is fresh and
	// accrues only when every artifact is stale.
	PolicyAny FreshnessPolicy = "any"
	// PolicyLastArtifact reproduces the legacy watchdog: a fresh artifact resets
	// the counter, but the counter still accrues when the last artifact in the
	// check order is stale.
	PolicyLastArtifact FreshnessPolicy = "last-artifact"
)

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (FreshnessPolicy, error) {
	switch p := FreshnessPolicy(s); p {
	case PolicyAny, PolicyLastArtifact:
		return p, nil
	}
	return "", fmt.Errorf("unknown freshness policy %q", s)
}

// Tracker accumulates fleet inactivity from periodic freshness samples.
type Tracker struct {
	policy FreshnessPolicy
	window time.Duration
	period time.Duration
	limit  time.Duration

	inactive time.Duration
}

// NewTracker returns a tracker. window is the freshness window, period the
// amount accrued per stale sample and limit the inactivity that ends the fleet.
func NewTracker(policy FreshnessPolicy, window, period, limit time.Duration) *Tracker {
	return &Tracker{policy: policy, window: window, period: period, limit: limit}
}

// Fresh reports whether a write at mtime is within the freshness window at now.
func (t *Tracker) Fresh(now, mtime time.Time) bool {
	return now.Sub(mtime) <= t.window
}

// Observe folds one sample of last-write times, in check order, into the counter
// and returns the updated inactivity.
func (t *Tracker) Observe(now time.Time, writes []time.Time) time.Duration {
	anyFresh, lastFresh := false, false
	for _, w := range writes {
		lastFresh = t.Fresh(now, w)
		if lastFresh {
			anyFresh = true
		}
	}

	switch t.policy {
	case PolicyLastArtifact:
		if anyFresh {
			t.inactive = 0
		}
		if !lastFresh {
			t.inactive += t.period
		}
	default:
		if anyFresh {
			t.inactive = 0
		} else {
			t.inactive += t.period
		}
	}
	return t.inactive
}

// Inactive returns the accumulated inactivity.
func (t *Tracker) Inactive() time.Duration {
	return t.inactive
}

// Expired reports whether inactivity went past the limit.
func (t *Tracker) Expired() bool {
	return t.inactive > t.limit
}
