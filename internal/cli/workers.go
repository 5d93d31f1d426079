package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/hoist/internal/config"
	"github.com/aretw0/hoist/internal/logging"
	"github.com/aretw0/hoist/pkg/axis"
	"github.com/aretw0/hoist/pkg/channel"
	"github.com/aretw0/hoist/pkg/control"
	"github.com/aretw0/hoist/pkg/domain"
	"github.com/aretw0/hoist/pkg/world"
)

// RunAxis runs one axis controller until ctx is done or a fatal error occurs.
func RunAxis(ctx context.Context, cfg config.Config, role domain.Role, logger *slog.Logger) error {
	axisCfg, err := cfg.AxisFor(role)
	if err != nil {
		return err
	}

	// Handlers go in first: the default action of SIGUSR1/2 terminates the process.
	signals := control.NewSignalManager()
	signals.OnDrop = func(sig domain.ControlSignal) {
		logger.Debug("control signal ignored while disarmed", "signal", sig)
	}
	signals.Listen()
	defer signals.Stop()

	journal, closeJournal, err := openJournal(cfg, role, logger)
	if err != nil {
		return err
	}
	defer closeJournal()

	return recordFailure(journal, runController(ctx, cfg, role, axisCfg, signals, journal, logger))
}

func runController(ctx context.Context, cfg config.Config, role domain.Role, axisCfg axis.Config, signals *control.SignalManager, journal *logging.Journal, logger *slog.Logger) error {
	commands, err := channel.OpenReader(cfg.CommandFIFO(role))
	if err != nil {
		return err
	}
	defer commands.Close()

	logger.Debug("waiting for telemetry reader", "fifo", cfg.TelemetryFIFO(role))
	telemetry, err := channel.OpenWriter(cfg.TelemetryFIFO(role))
	if err != nil {
		return err
	}
	defer telemetry.Close()

	ctrl := axis.New(axisCfg, commands, telemetry, signals, journal, axis.WithLogger(logger))
	logger.Info("axis controller running", "bounds", axisCfg.Bounds, "tick", axisCfg.Tick)
	return ctrl.Run(ctx)
}

// RunWorld runs the world simulator until ctx is done or a fatal error occurs.
func RunWorld(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	journal, closeJournal, err := openJournal(cfg, domain.RoleWorld, logger)
	if err != nil {
		return err
	}
	defer closeJournal()

	return recordFailure(journal, runSimulator(ctx, cfg, journal, logger))
}

func runSimulator(ctx context.Context, cfg config.Config, journal *logging.Journal, logger *slog.Logger) error {
	x, err := channel.OpenReader(cfg.TelemetryFIFO(domain.RoleAxisX))
	if err != nil {
		return err
	}
	defer x.Close()
	z, err := channel.OpenReader(cfg.TelemetryFIFO(domain.RoleAxisZ))
	if err != nil {
		return err
	}
	defer z.Close()

	logger.Debug("waiting for telegram reader", "fifo", cfg.TelegramFIFO())
	out, err := channel.OpenWriter(cfg.TelegramFIFO())
	if err != nil {
		return err
	}
	defer out.Close()

	sim := world.New(cfg.WorldSettings(), world.Channels(x, z), out, journal, world.WithLogger(logger))
	logger.Info("world simulator running", "policy", cfg.World.Policy)
	return sim.Run(ctx)
}

// recordFailure appends a fatal worker error to the artifact. If that append
// fails too, the log-write error is returned so the exit code carries its errno.
func recordFailure(journal *logging.Journal, err error) error {
	if err == nil || errors.Is(err, context.Canceled) {
		return err
	}
	var lw *domain.LogWriteError
	if errors.As(err, &lw) {
		return err
	}
	if werr := journal.Event(logging.CategoryError, err.Error()); werr != nil {
		return werr
	}
	return err
}
