package domain

import (
	"fmt"
	"math"
)

// Mode describes what an axis controller is currently doing.
type Mode string

const (
	ModeRunning    Mode = "running"    // Normal tick processing
	ModeStopping   Mode = "stopping"   // A STOP was serviced during the in-flight tick
	ModeRecovering Mode = "recovering" // The RESET maneuver is in progress
)

// Bounds is the closed physical range of an axis.
type Bounds struct {
	Min float64 `yaml:"min" mapstructure:"min" env:"MIN"`
	Max float64 `yaml:"max" mapstructure:"max" env:"MAX"`
}

// Clamp returns v limited to the bounds and whether it had to be limited.
func (b Bounds) Clamp(v float64) (float64, bool) {
	switch {
	case math.IsNaN(v), v < b.Min:
		return b.Min, true
	case v > b.Max:
		return b.Max, true
	}
	return v, false
}

// Contains reports whether v lies within the bounds.
func (b Bounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// Validate rejects empty or inverted ranges.
func (b Bounds) Validate() error {
	if b.Min >= b.Max {
		return fmt.Errorf("invalid bounds [%g, %g]: min must be lower than max", b.Min, b.Max)
	}
	return nil
}

// AxisState is the velocity/position snapshot of one axis.
type AxisState struct {
	Position float64
	Velocity int
	Mode     Mode
}
