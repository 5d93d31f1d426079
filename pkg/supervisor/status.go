package supervisor

import (
	"time"

	"github.com/aretw0/hoist/pkg/domain"
)

// WorkerStatus is the last known state of one worker.
type WorkerStatus struct {
	domain.ProcessHandle
	LastWrite time.Time `json:"last_write,omitzero"`
}

// Status is a point-in-time view of the fleet.
type Status struct {
	RunID      string          `json:"run_id"`
	State      string          `json:"state"`
	Policy     FreshnessPolicy `json:"policy"`
	StartedAt  time.Time       `json:"started_at,omitzero"`
	Inactivity string          `json:"inactivity"`
	Workers    []WorkerStatus  `json:"workers"`
	Report     *domain.Report  `json:"report,omitempty"`
}

// Status returns the current fleet status. It is safe to call from any goroutine.
func (s *Supervisor) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		RunID:      s.runID,
		State:      s.machine.Current(),
		Policy:     s.cfg.Policy,
		StartedAt:  s.startedAt,
		Inactivity: s.inactive.String(),
		Workers:    make([]WorkerStatus, 0, len(s.children)),
		Report:     s.report,
	}
	for _, c := range s.children {
		st.Workers = append(st.Workers, WorkerStatus{
			ProcessHandle: domain.ProcessHandle{Role: c.role, Pid: c.proc.Pid()},
			LastWrite:     s.lastWrites[c.role],
		})
	}
	return st
}

// Handles returns the spawned workers.
func (s *Supervisor) Handles() []domain.ProcessHandle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ProcessHandle, 0, len(s.children))
	for _, c := range s.children {
		out = append(out, domain.ProcessHandle{Role: c.role, Pid: c.proc.Pid()})
	}
	return out
}
