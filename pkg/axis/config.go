package axis

import (
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/hoist/pkg/domain"
)

// Config parameterises one axis controller.
type Config struct {
	Role   domain.Role
	Bounds domain.Bounds

	// Tick is the control period.
	Tick time.Duration
	// PollInterval bounds how long a wait runs before control signals are checked again.
	PollInterval time.Duration
	// Step is the position change per unit of velocity per tick.
	Step float64

	// RecoveryVelocity is the velocity applied by the RESET maneuver; each
	// recovery iteration moves the position by exactly this amount.
	RecoveryVelocity int
	// RecoverySteps is the maximum number of recovery iterations.
	RecoverySteps int
}

// X is the horizontal axis.
var X = Config{
	Role:             domain.RoleAxisX,
	Bounds:           domain.Bounds{Min: 0, Max: 40},
	Tick:             500 * time.Millisecond,
	PollInterval:     50 * time.Millisecond,
	Step:             0.5,
	RecoveryVelocity: -4,
	RecoverySteps:    10,
}

// Z is the vertical axis.
var Z = Config{
	Role:             domain.RoleAxisZ,
	Bounds:           domain.Bounds{Min: 0, Max: 10},
	Tick:             500 * time.Millisecond,
	PollInterval:     50 * time.Millisecond,
	Step:             0.5,
	RecoveryVelocity: -4,
	RecoverySteps:    10,
}

// ForRole returns the preset for an axis role.
func ForRole(role domain.Role) (Config, error) {
	switch role {
	case domain.RoleAxisX:
		return X, nil
	case domain.RoleAxisZ:
		return Z, nil
	}
	return Config{}, fmt.Errorf("%q is not an axis role", role)
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	if err := c.Bounds.Validate(); err != nil {
		return err
	}
	if c.Tick <= 0 || c.PollInterval <= 0 {
		return errors.New("tick and poll interval must be positive")
	}
	if c.Step <= 0 {
		return errors.New("step must be positive")
	}
	if c.RecoveryVelocity >= 0 {
		return errors.New("recovery velocity must move towards the origin")
	}
	if c.RecoverySteps <= 0 {
		return errors.New("recovery steps must be positive")
	}
	return nil
}
