package world

import (
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/hoist/pkg/domain"
)

// FusionPolicy decides what a tick reads when both axes have telemetry pending.
type FusionPolicy string

const (
	// FusionPickOne services a single, pseudo-randomly chosen axis per tick.
	FusionPickOne FusionPolicy = "pick-one"
	// FusionDrainBoth services every ready axis in the same tick.
	FusionDrainBoth FusionPolicy = "drain-both"
)

// Config parameterises the simulator.
type Config struct {
	XBounds domain.Bounds
	ZBounds domain.Bounds

	Wait          time.Duration
	NoiseRatio    float64
	SnapshotEvery int
	Policy        FusionPolicy

	// Seed fixes the noise source. Zero seeds from the runtime.
	Seed uint64
}

// DefaultConfig matches the rig's axes.
var DefaultConfig = Config{
	XBounds:       domain.Bounds{Min: 0, Max: 40},
	ZBounds:       domain.Bounds{Min: 0, Max: 10},
	Wait:          250 * time.Millisecond,
	NoiseRatio:    0.005,
	SnapshotEvery: 10,
	Policy:        FusionPickOne,
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	if err := c.XBounds.Validate(); err != nil {
		return fmt.Errorf("x: %w", err)
	}
	if err := c.ZBounds.Validate(); err != nil {
		return fmt.Errorf("z: %w", err)
	}
	if c.Wait <= 0 {
		return errors.New("wait must be positive")
	}
	if c.NoiseRatio < 0 || c.NoiseRatio >= 1 {
		return fmt.Errorf("noise ratio %g out of range [0,1)", c.NoiseRatio)
	}
	if c.SnapshotEvery <= 0 {
		return errors.New("snapshot interval must be positive")
	}
	return ParsePolicy(string(c.Policy))
}

// ParsePolicy rejects unknown fusion policies.
func ParsePolicy(s string) error {
	switch FusionPolicy(s) {
	case FusionPickOne, FusionDrainBoth:
		return nil
	}
	return fmt.Errorf("unknown fusion policy %q", s)
}
