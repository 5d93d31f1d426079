package domain

import "fmt"

// Role identifies a worker process in the fleet.
type Role string

const (
	RoleCommand    Role = "command"
	RoleAxisX      Role = "axis-x"
	RoleAxisZ      Role = "axis-z"
	RoleWorld      Role = "world"
	RoleInspection Role = "inspection"
	RoleSupervisor Role = "supervisor"
)

// Workers lists the supervised roles in spawn order.
var Workers = []Role{RoleCommand, RoleAxisX, RoleAxisZ, RoleWorld, RoleInspection}

// Tag returns the process tag stamped on every artifact line.
func (r Role) Tag() string {
	return fmt.Sprintf("<%s>", r)
}

// ProcessHandle is a spawned worker owned by the supervisor.
type ProcessHandle struct {
	Role Role `json:"role"`
	Pid  int  `json:"pid"`
}

// Outcome is a terminal state of the fleet.
type Outcome string

const (
	OutcomeCleanShutdown Outcome = "clean-shutdown"
	OutcomeCrashShutdown Outcome = "crash-shutdown"
	OutcomeLocalError    Outcome = "local-error"
)

// ExitCode is the supervisor's own process exit code for the outcome.
func (o Outcome) ExitCode() int {
	switch o {
	case OutcomeCleanShutdown:
		return ExitClean
	case OutcomeCrashShutdown:
		return ExitCrash
	default:
		return ExitSystemCall
	}
}

// Report describes how the fleet ended.
type Report struct {
	Outcome Outcome `json:"outcome"`
	Reason  string  `json:"reason"`
	// Role and Exit are set when a worker caused the outcome.
	Role Role        `json:"role,omitempty"`
	Exit *ExitStatus `json:"exit,omitempty"`
	Err  error       `json:"-"`
}

func (r Report) String() string {
	switch {
	case r.Exit != nil:
		return fmt.Sprintf("%s: %s (%s, %s)", r.Outcome, r.Reason, r.Role, r.Exit)
	case r.Err != nil:
		return fmt.Sprintf("%s: %s: %v", r.Outcome, r.Reason, r.Err)
	default:
		return fmt.Sprintf("%s: %s", r.Outcome, r.Reason)
	}
}
