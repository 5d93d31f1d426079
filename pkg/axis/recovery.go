package axis

import (
	"context"
	"time"

	"github.com/aretw0/hoist/pkg/domain"
)

// recoverAxis runs the RESET maneuver: the axis is driven towards the origin at
// RecoveryVelocity for up to RecoverySteps iterations, each one a full tick
// long. Commands arriving meanwhile are discarded, further RESETs are dropped
// and a STOP aborts the maneuver after the current wait.
func (c *Controller) recoverAxis(ctx context.Context) error {
	c.suppress = true
	if err := c.journal.Event(CategorySignal, domain.SignalReset.String()); err != nil {
		return err
	}

	c.signals.Disarm(domain.SignalReset)
	c.signals.Arm(domain.SignalStop)
	c.state.Mode = domain.ModeRecovering
	c.state.Velocity = c.cfg.RecoveryVelocity
	c.logger.Info("recovery started", "position", c.state.Position, "velocity", c.state.Velocity)

	for i := 1; i <= c.cfg.RecoverySteps; i++ {
		stopped, err := c.hold(ctx)
		if err != nil {
			c.finishRecovery()
			return err
		}
		if stopped {
			c.logger.Info("recovery aborted", "iteration", i, "position", c.state.Position)
			return nil
		}

		c.state.Position, _ = c.cfg.Bounds.Clamp(c.state.Position + float64(c.state.Velocity))
		if err := c.emit(); err != nil {
			c.finishRecovery()
			return err
		}
	}

	c.finishRecovery()
	c.logger.Info("recovery finished", "position", c.state.Position)
	return nil
}

func (c *Controller) finishRecovery() {
	c.state.Velocity = 0
	c.state.Mode = domain.ModeRunning
	c.signals.Arm(domain.SignalStop, domain.SignalReset)
}

// hold waits one full tick while discarding commands. It reports whether a
// STOP was serviced.
func (c *Controller) hold(ctx context.Context) (bool, error) {
	deadline := time.Now().Add(c.cfg.Tick)
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		if sig, ok := c.signals.Poll(); ok && sig == domain.SignalStop {
			return true, c.stop()
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false, nil
		}
		ready, err := c.commands.Await(min(remaining, c.cfg.PollInterval))
		if err != nil {
			return false, err
		}
		if ready {
			n, err := c.commands.Discard()
			if err != nil {
				return false, err
			}
			c.logger.Debug("commands discarded during recovery", "count", n)
		}
	}
}
