package axis

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/aretw0/hoist/internal/logging"
	"github.com/aretw0/hoist/pkg/domain"
)

// Journal categories written by the controller.
const (
	CategorySpeed  = "new speed"
	CategorySignal = "signal received"
)

// CommandSource is the delta-command channel of the axis.
type CommandSource interface {
	Await(timeout time.Duration) (bool, error)
	Next() ([]byte, bool)
	Discard() (int, error)
}

// TelemetrySink is the position-telemetry channel of the axis.
type TelemetrySink interface {
	Send(msg []byte) error
}

// SignalSource queues STOP/RESET deliveries for the control loop.
type SignalSource interface {
	Poll() (domain.ControlSignal, bool)
	Arm(sigs ...domain.ControlSignal)
	Disarm(sigs ...domain.ControlSignal)
}

// Journal is the axis log artifact.
type Journal interface {
	Event(category, message string) error
}

// Controller owns the velocity/position state of one axis.
//
// Every field is owned by the goroutine calling Run (or Tick). Control signals
// are not handled where they are delivered: they queue in the SignalSource and
// are serviced at checkpoints, namely between the slices of every wait and right
// before a telemetry emission.
type Controller struct {
	cfg       Config
	commands  CommandSource
	telemetry TelemetrySink
	signals   SignalSource
	journal   Journal
	logger    *slog.Logger

	state domain.AxisState
	// suppress is set when a STOP or RESET was serviced during the in-flight tick.
	suppress bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithInitialState starts the controller from a given position and velocity.
func WithInitialState(state domain.AxisState) Option {
	return func(c *Controller) {
		c.state = state
	}
}

// New creates a controller.
func New(cfg Config, commands CommandSource, telemetry TelemetrySink, signals SignalSource, journal Journal, opts ...Option) *Controller {
	c := &Controller{
		cfg:       cfg,
		commands:  commands,
		telemetry: telemetry,
		signals:   signals,
		journal:   journal,
		logger:    logging.NewNop(),
		state:     domain.AxisState{Position: cfg.Bounds.Min},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.state.Mode == "" {
		c.state.Mode = domain.ModeRunning
	}
	return c
}

// State returns a copy of the current axis state.
func (c *Controller) State() domain.AxisState {
	return c.state
}

// Run ticks until ctx is cancelled or a fatal error occurs.
// Cancellation is a clean stop and returns nil.
func (c *Controller) Run(ctx context.Context) error {
	c.logger.Info("axis controller started", "role", c.cfg.Role, "min", c.cfg.Bounds.Min, "max", c.cfg.Bounds.Max)
	for {
		if err := c.Tick(ctx); err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				return nil
			}
			return err
		}
	}
}

// Tick runs one control period: wait for a command, apply it, integrate position.
func (c *Controller) Tick(ctx context.Context) error {
	c.suppress = false
	c.state.Mode = domain.ModeRunning

	cmd, ok, err := c.awaitCommand(ctx)
	if err != nil {
		return err
	}
	if ok {
		if err := c.apply(cmd); err != nil {
			return err
		}
	}
	return c.advance(ctx)
}

// awaitCommand waits up to one tick for a command. A serviced signal ends the
// wait early, the way an interrupted wait would.
func (c *Controller) awaitCommand(ctx context.Context) (domain.VelocityCommand, bool, error) {
	deadline := time.Now().Add(c.cfg.Tick)
	for {
		if err := ctx.Err(); err != nil {
			return 0, false, err
		}
		serviced, err := c.checkpoint(ctx)
		if err != nil {
			return 0, false, err
		}
		if serviced {
			return 0, false, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return 0, false, nil
		}
		ready, err := c.commands.Await(min(remaining, c.cfg.PollInterval))
		if err != nil {
			return 0, false, err
		}
		if !ready {
			continue
		}

		payload, _ := c.commands.Next()
		cmd, err := domain.ParseCommand(payload)
		if err != nil {
			c.logger.Warn("ignoring command", "error", err)
			continue
		}
		return cmd, true, nil
	}
}

// apply adjusts velocity for a delta command, honouring the position limits.
func (c *Controller) apply(cmd domain.VelocityCommand) error {
	switch cmd {
	case domain.CommandStop:
		if c.state.Velocity == 0 {
			return nil
		}
		c.state.Velocity = 0
	case domain.CommandIncrement:
		if c.state.Position >= c.cfg.Bounds.Max {
			return nil
		}
		c.state.Velocity += cmd.Delta()
	case domain.CommandDecrement:
		if c.state.Position <= c.cfg.Bounds.Min {
			return nil
		}
		c.state.Velocity += cmd.Delta()
	default:
		return nil
	}
	c.logger.Debug("velocity changed", "command", cmd, "velocity", c.state.Velocity)
	return c.journal.Event(CategorySpeed, strconv.Itoa(c.state.Velocity))
}

// advance integrates the position and emits it when it changed.
func (c *Controller) advance(ctx context.Context) error {
	next, clamped := c.cfg.Bounds.Clamp(c.state.Position + float64(c.state.Velocity)*c.cfg.Step)
	if clamped && c.state.Velocity != 0 {
		c.state.Velocity = 0
		if err := c.journal.Event(CategorySpeed, "0"); err != nil {
			return err
		}
	}
	if next == c.state.Position {
		return nil
	}
	c.state.Position = next

	if _, err := c.checkpoint(ctx); err != nil {
		return err
	}
	if c.suppress {
		c.logger.Debug("emission suppressed", "position", c.state.Position)
		return nil
	}
	return c.emit()
}

// checkpoint services every queued control signal.
func (c *Controller) checkpoint(ctx context.Context) (bool, error) {
	serviced := false
	for {
		sig, ok := c.signals.Poll()
		if !ok {
			return serviced, nil
		}
		serviced = true

		var err error
		switch sig {
		case domain.SignalStop:
			err = c.stop()
		case domain.SignalReset:
			err = c.recoverAxis(ctx)
		}
		if err != nil {
			return serviced, err
		}
	}
}

// stop halts the axis and marks the in-flight tick's emission as suppressed.
func (c *Controller) stop() error {
	c.state.Velocity = 0
	c.state.Mode = domain.ModeStopping
	c.suppress = true
	c.signals.Arm(domain.SignalStop, domain.SignalReset)
	return c.journal.Event(CategorySignal, domain.SignalStop.String())
}

func (c *Controller) emit() error {
	return c.telemetry.Send(domain.FormatPosition(c.state.Position))
}
