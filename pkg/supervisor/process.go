package supervisor

import (
	"context"
	"time"

	"github.com/aretw0/hoist/pkg/domain"
)

// Spawner starts worker processes.
type Spawner interface {
	Spawn(ctx context.Context, role domain.Role, args ...string) (Process, error)
}

// Process is a running worker.
type Process interface {
	Pid() int
	// Exited reports the exit status once the process has ended. It never blocks.
	Exited() (domain.ExitStatus, bool)
	// Kill terminates the process together with anything it started.
	Kill() error
	// Reap waits up to timeout for the process to be collected.
	Reap(timeout time.Duration) bool
}

// Observer receives fleet events, typically to export metrics.
type Observer interface {
	StateChanged(state string)
	Inactivity(d time.Duration)
	WorkerExited(role domain.Role, status domain.ExitStatus)
	Finished(report domain.Report)
}

type nopObserver struct{}

func (nopObserver) StateChanged(string) {}
func (nopObserver) Inactivity(time.Duration) {}
func (nopObserver) WorkerExited(domain.Role, domain.ExitStatus) {}
func (nopObserver) Finished(domain.Report) {}
