package domain

import (
	"errors"
	"fmt"
)

// ErrSystemCall marks failures of channel setup, reads, writes, waits or signal installation.
var ErrSystemCall = errors.New("system call failed")

// ErrMalformedCommand is returned when a delta-command payload is not a known code.
var ErrMalformedCommand = errors.New("malformed velocity command")

// ErrMalformedTelemetry is returned when a position or telegram payload cannot be parsed.
var ErrMalformedTelemetry = errors.New("malformed telemetry")

// ErrArtifactUnavailable is returned when a liveness artifact cannot be read.
var ErrArtifactUnavailable = errors.New("liveness artifact unavailable")

// SystemCallError wraps an OS-level failure with the operation that caused it.
type SystemCallError struct {
	Op  string
	Err error
}

func (e *SystemCallError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *SystemCallError) Unwrap() []error {
	return []error{ErrSystemCall, e.Err}
}

// SysErr builds a SystemCallError, returning nil for a nil error.
func SysErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &SystemCallError{Op: op, Err: err}
}

// LogWriteError is returned when a worker cannot append to its log artifact.
type LogWriteError struct {
	Err error
}

func (e *LogWriteError) Error() string {
	return fmt.Sprintf("log write failed: %v", e.Err)
}

func (e *LogWriteError) Unwrap() error {
	return e.Err
}
