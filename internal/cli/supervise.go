package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/aretw0/hoist"
	"github.com/aretw0/hoist/internal/config"
	"github.com/aretw0/hoist/internal/logging"
	"github.com/aretw0/hoist/internal/presentation/tui"
	httpAdapter "github.com/aretw0/hoist/pkg/adapters/http"
	"github.com/aretw0/hoist/pkg/adapters/process"
	"github.com/aretw0/hoist/pkg/adapters/redis"
	"github.com/aretw0/hoist/pkg/channel"
	"github.com/aretw0/hoist/pkg/domain"
	"github.com/aretw0/hoist/pkg/observability"
	"github.com/aretw0/hoist/pkg/supervisor"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

// SuperviseOptions controls how the supervisor launches its workers.
type SuperviseOptions struct {
	// Executable is re-executed once per worker role.
	Executable string
	// ConfigPath is forwarded to every worker.
	ConfigPath string
	Debug      bool
	Quiet      bool
}

// service runs alongside the watchdog for the lifetime of the fleet.
type service func(ctx context.Context) error

// RunSupervisor starts the fleet and supervises it until a terminal outcome.
// Cancelling ctx is an operator interrupt.
func RunSupervisor(ctx context.Context, cfg config.Config, opts SuperviseOptions, logger *slog.Logger) domain.Report {
	localError := func(reason string, err error) domain.Report {
		logger.Error("supervisor failed before start", "reason", reason, "error", err)
		return domain.Report{Outcome: domain.OutcomeLocalError, Reason: reason, Err: err}
	}

	if !opts.Quiet {
		tui.PrintBanner(hoist.Version)
	}

	runID := cfg.Redis.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	journal, closeJournal, err := openJournal(cfg, domain.RoleSupervisor, logger)
	if err != nil {
		return localError("open journal", err)
	}
	defer closeJournal()

	for _, path := range cfg.FIFOs() {
		if err := channel.Create(path); err != nil {
			return localError("create channels", err)
		}
	}

	probe, services, cleanup, err := buildProbe(ctx, cfg, runID, logger)
	if err != nil {
		return localError("liveness probe", err)
	}
	defer cleanup()

	launches := process.ForFleet(opts.Executable, cfg.Supervisor.Terminal, forwardedFlags(opts)...)
	env := workerEnv(cfg, runID)
	for role, l := range launches {
		l.Env = env
		launches[role] = l
	}
	spawner := process.NewSpawner(
		process.WithRegistry(launches),
		process.WithOutput(os.Stdout, os.Stderr),
		process.WithLogger(logger),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	sup := supervisor.New(cfg.SupervisorSettings(), spawner, probe, journal,
		supervisor.WithLogger(logger),
		supervisor.WithObserver(metrics),
		supervisor.WithRunID(runID),
	)
	logger.Info("fleet configured", "run_id", runID, "policy", cfg.Supervisor.Policy, "liveness", cfg.Supervisor.Liveness)
	if !opts.Quiet {
		printSystemMessage("Run %s: supervising %d workers (freshness policy %s).", runID, len(domain.Workers), cfg.Supervisor.Policy)
	}

	if cfg.Supervisor.MetricsAddr != "" {
		handler := httpAdapter.NewHandler(sup, reg)
		services = append(services, func(ctx context.Context) error {
			return httpAdapter.Serve(ctx, cfg.Supervisor.MetricsAddr, handler, logger)
		})
	}

	report := superviseWith(ctx, sup, services)
	if !opts.Quiet {
		printSystemMessage("%s", report)
	}
	return report
}

// superviseWith runs the watchdog and its services together. A failing service
// stops the fleet and turns the outcome into a local error.
func superviseWith(ctx context.Context, sup *supervisor.Supervisor, services []service) domain.Report {
	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	g, gctx := errgroup.WithContext(runCtx)

	var report domain.Report
	g.Go(func() error {
		defer stop()
		report = sup.Run(gctx)
		return nil
	})
	for _, svc := range services {
		g.Go(func() error {
			return svc(gctx)
		})
	}

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return domain.Report{Outcome: domain.OutcomeLocalError, Reason: "supervisor service failed", Err: err}
	}
	return report
}

// buildProbe selects the liveness source. Services it returns must run for the
// lifetime of the fleet.
func buildProbe(ctx context.Context, cfg config.Config, runID string, logger *slog.Logger) (supervisor.Probe, []service, func(), error) {
	switch cfg.Supervisor.Liveness {
	case config.LivenessWatch:
		p, err := supervisor.NewWatchProbe(cfg.Artifacts(), logger)
		if err != nil {
			return nil, nil, nil, err
		}
		return p, []service{p.Run}, func() { _ = p.Close() }, nil

	case config.LivenessRedis:
		client := redis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		prefix := redis.WithPrefix(cfg.Redis.Prefix)
		lease := redis.NewLease(client, runID, cfg.Redis.HeartbeatTTL, prefix)
		if err := lease.Acquire(ctx); err != nil {
			_ = client.Close()
			return nil, nil, nil, err
		}
		cleanup := func() {
			if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("lease not released", "error", err)
			}
			_ = client.Close()
		}
		return redis.NewProbe(client, runID, prefix), []service{lease.Keep}, cleanup, nil

	case config.LivenessArtifact, "":
		return supervisor.NewArtifactProbe(cfg.Artifacts()), nil, func() {}, nil
	}
	return nil, nil, nil, fmt.Errorf("unknown liveness source %q", cfg.Supervisor.Liveness)
}

// workerEnv carries the settings workers must share with the supervisor, so
// command line overrides reach them too.
func workerEnv(cfg config.Config, runID string) map[string]string {
	env := map[string]string{
		"hoist_log_dir":             cfg.LogDir,
		"hoist_fifo_dir":            cfg.FIFODir,
		"hoist_supervisor_liveness": cfg.Supervisor.Liveness,
		"hoist_redis_run_id":        runID,
	}
	if cfg.Supervisor.Liveness == config.LivenessRedis {
		env["hoist_redis_addr"] = cfg.Redis.Addr
		env["hoist_redis_db"] = strconv.Itoa(cfg.Redis.DB)
		env["hoist_redis_prefix"] = cfg.Redis.Prefix
		if cfg.Redis.Password != "" {
			env["hoist_redis_password"] = cfg.Redis.Password
		}
	}
	return env
}

func forwardedFlags(opts SuperviseOptions) []string {
	var flags []string
	if opts.ConfigPath != "" {
		flags = append(flags, "--config", opts.ConfigPath)
	}
	if opts.Debug {
		flags = append(flags, "--debug")
	}
	return flags
}

// ExitCode maps a worker's run error to its process exit code and logs it.
func ExitCode(logger *slog.Logger, role domain.Role, err error) int {
	code := domain.ExitCode(err)
	if err != nil {
		logger.Error("worker failed", "role", role, "exit_code", code, "error", err)
	}
	return code
}

// NewLogger returns the diagnostic logger of a fleet process.
func NewLogger(debug bool, role domain.Role) *slog.Logger {
	return logging.ForDebug(debug, "role", string(role))
}
