package domain

import (
	"errors"
	"fmt"
	"syscall"
)

// Process exit codes shared by every worker.
const (
	ExitClean      = 0
	ExitSystemCall = 1
	// ExitLogWriteFallback is used when the failed journal write carries no errno
	// or an errno that would collide with the codes above.
	ExitLogWriteFallback = 2
	// ExitCrash is the supervisor's code for a crash shutdown.
	ExitCrash = 2
)

// FailureTier classifies why a worker exited.
type FailureTier string

const (
	TierNone       FailureTier = "none"
	TierSystemCall FailureTier = "system-call"
	TierLogWrite   FailureTier = "log-write"
	TierSignaled   FailureTier = "signaled"
)

// ExitStatus is what the supervisor observed when a worker ended.
type ExitStatus struct {
	Code     int         `json:"code"`
	Signaled bool        `json:"signaled,omitempty"`
	Tier     FailureTier `json:"tier"`
}

func (s ExitStatus) String() string {
	switch s.Tier {
	case TierSignaled:
		return "terminated by signal"
	case TierLogWrite:
		return fmt.Sprintf("log-write failure: %v", syscall.Errno(s.Code))
	case TierSystemCall:
		return "system-call failure"
	default:
		return fmt.Sprintf("exit status %d", s.Code)
	}
}

// ClassifyExit maps a raw child exit status to a failure tier.
func ClassifyExit(code int, signaled bool) ExitStatus {
	st := ExitStatus{Code: code, Signaled: signaled}
	switch {
	case signaled:
		st.Tier = TierSignaled
	case code == ExitClean:
		st.Tier = TierNone
	case code == ExitSystemCall:
		st.Tier = TierSystemCall
	default:
		st.Tier = TierLogWrite
	}
	return st
}

// ExitCode maps the error a worker's run ended with to its process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitClean
	}
	var lw *LogWriteError
	if errors.As(err, &lw) {
		var errno syscall.Errno
		if errors.As(lw.Err, &errno) && int(errno) > ExitLogWriteFallback {
			return int(errno)
		}
		return ExitLogWriteFallback
	}
	return ExitSystemCall
}
