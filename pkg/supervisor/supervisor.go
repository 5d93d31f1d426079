package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/aretw0/hoist/internal/logging"
	"github.com/aretw0/hoist/pkg/domain"
	"github.com/google/uuid"
	"github.com/looplab/fsm"
)

// Lifecycle states.
const (
	StateStarting      = "starting"
	StateRunning       = "running"
	StateCleanShutdown = string(domain.OutcomeCleanShutdown)
	StateCrashShutdown = string(domain.OutcomeCrashShutdown)
	StateLocalError    = string(domain.OutcomeLocalError)
)

// Lifecycle events.
const (
	EventStarted   = "started"
	EventInactive  = "inactive"
	EventInterrupt = "interrupt"
	EventCrashed   = "crashed"
	EventFail      = "fail"
)

// Journal categories of the supervisor artifact.
const (
	CategoryLifecycle = "lifecycle"
	CategoryShutdown  = "shutdown"
)

// Journal is the supervisor's own log artifact.
type Journal interface {
	Event(category, message string) error
}

// Config holds the watchdog thresholds.
type Config struct {
	// Artifacts maps every worker role to its log artifact path.
	Artifacts map[domain.Role]string

	Period          time.Duration
	Freshness       time.Duration
	InactivityLimit time.Duration
	Policy          FreshnessPolicy
	// ReapGrace bounds the wait for each killed child to be collected.
	ReapGrace time.Duration
}

// Defaults are the rig's watchdog settings.
var Defaults = Config{
	Period:          2 * time.Second,
	Freshness:       2 * time.Second,
	InactivityLimit: 60 * time.Second,
	Policy:          PolicyAny,
	ReapGrace:       time.Second,
}

type child struct {
	role domain.Role
	proc Process
}

// Supervisor owns the worker fleet.
type Supervisor struct {
	cfg      Config
	spawner  Spawner
	probe    Probe
	journal  Journal
	logger   *slog.Logger
	observer Observer
	now      func() time.Time
	runID    string

	machine *fsm.FSM
	tracker *Tracker

	mu         sync.RWMutex
	children   []child
	lastWrites map[domain.Role]time.Time
	inactive   time.Duration
	startedAt  time.Time
	report     *domain.Report
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Supervisor) {
		s.logger = logger
	}
}

// WithObserver registers a fleet event observer.
func WithObserver(o Observer) Option {
	return func(s *Supervisor) {
		s.observer = o
	}
}

// WithClock replaces the wall clock used for freshness checks.
func WithClock(now func() time.Time) Option {
	return func(s *Supervisor) {
		s.now = now
	}
}

// WithRunID fixes the fleet run identifier.
func WithRunID(id string) Option {
	return func(s *Supervisor) {
		s.runID = id
	}
}

// New creates a supervisor in the starting state.
func New(cfg Config, spawner Spawner, probe Probe, journal Journal, opts ...Option) *Supervisor {
	s := &Supervisor{
		cfg:        cfg,
		spawner:    spawner,
		probe:      probe,
		journal:    journal,
		logger:     logging.NewNop(),
		observer:   nopObserver{},
		now:        time.Now,
		lastWrites: make(map[domain.Role]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.runID == "" {
		s.runID = uuid.NewString()
	}
	s.tracker = NewTracker(cfg.Policy, cfg.Freshness, cfg.Period, cfg.InactivityLimit)
	s.machine = fsm.NewFSM(
		StateStarting,
		fsm.Events{
			{Name: EventStarted, Src: []string{StateStarting}, Dst: StateRunning},
			{Name: EventInactive, Src: []string{StateRunning}, Dst: StateCleanShutdown},
			{Name: EventInterrupt, Src: []string{StateStarting, StateRunning}, Dst: StateCleanShutdown},
			{Name: EventCrashed, Src: []string{StateRunning}, Dst: StateCrashShutdown},
			{Name: EventFail, Src: []string{StateStarting, StateRunning}, Dst: StateLocalError},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				s.logger.Info("supervisor state changed", "from", e.Src, "to", e.Dst, "event", e.Event)
				s.observer.StateChanged(e.Dst)
			},
		},
	)
	return s
}

// RunID returns the fleet run identifier.
func (s *Supervisor) RunID() string {
	return s.runID
}

// State returns the current lifecycle state.
func (s *Supervisor) State() string {
	return s.machine.Current()
}

// Run starts the fleet and supervises it until a terminal condition. Cancelling
// ctx is an operator interrupt. Every spawned worker is killed before Run returns.
func (s *Supervisor) Run(ctx context.Context) domain.Report {
	s.mu.Lock()
	s.startedAt = s.now()
	s.mu.Unlock()

	s.logger.Info("supervisor starting", "run_id", s.runID, "policy", s.cfg.Policy,
		"period", s.cfg.Period, "inactivity_limit", s.cfg.InactivityLimit)
	if err := s.journal.Event(CategoryLifecycle, fmt.Sprintf("supervisor started (run %s)", s.runID)); err != nil {
		return s.finish(ctx, EventFail, domain.Report{Outcome: domain.OutcomeLocalError, Reason: "writing supervisor log", Err: err})
	}

	if err := s.prepareArtifacts(); err != nil {
		return s.finish(ctx, EventFail, domain.Report{Outcome: domain.OutcomeLocalError, Reason: "creating log artifacts", Err: err})
	}
	if err := s.spawnAll(ctx); err != nil {
		if ctx.Err() != nil {
			return s.finish(ctx, EventInterrupt, domain.Report{Outcome: domain.OutcomeCleanShutdown, Reason: "interrupted"})
		}
		return s.finish(ctx, EventFail, domain.Report{Outcome: domain.OutcomeLocalError, Reason: "spawning workers", Err: err})
	}

	s.fire(ctx, EventStarted)
	if err := s.journal.Event(CategoryLifecycle, "all processes started"); err != nil {
		return s.finish(ctx, EventFail, domain.Report{Outcome: domain.OutcomeLocalError, Reason: "writing supervisor log", Err: err})
	}

	ticker := time.NewTicker(s.cfg.Period)
	defer ticker.Stop()
	for {
		if report, event, done := s.check(ctx); done {
			return s.finish(ctx, event, report)
		}
		select {
		case <-ctx.Done():
			return s.finish(ctx, EventInterrupt, domain.Report{Outcome: domain.OutcomeCleanShutdown, Reason: "interrupted"})
		case <-ticker.C:
		}
	}
}

// prepareArtifacts creates every worker artifact so liveness can be probed
// from the first check on.
func (s *Supervisor) prepareArtifacts() error {
	for _, role := range domain.Workers {
		path, ok := s.cfg.Artifacts[role]
		if !ok {
			return fmt.Errorf("no artifact configured for %s", role)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o666)
		if err != nil {
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Supervisor) spawnAll(ctx context.Context) error {
	pids := map[domain.Role]int{}
	for _, role := range domain.Workers {
		if err := ctx.Err(); err != nil {
			return err
		}
		var args []string
		if role == domain.RoleInspection {
			args = []string{strconv.Itoa(pids[domain.RoleAxisX]), strconv.Itoa(pids[domain.RoleAxisZ])}
		}
		proc, err := s.spawner.Spawn(ctx, role, args...)
		if err != nil {
			return fmt.Errorf("spawn %s: %w", role, err)
		}
		pids[role] = proc.Pid()

		s.mu.Lock()
		s.children = append(s.children, child{role: role, proc: proc})
		s.mu.Unlock()
		s.logger.Info("worker spawned", "role", role, "pid", proc.Pid())
	}
	return nil
}

// check runs one watchdog pass.
func (s *Supervisor) check(ctx context.Context) (domain.Report, string, bool) {
	now := s.now()
	writes := make([]time.Time, 0, len(domain.Workers))
	for _, role := range domain.Workers {
		t, err := s.probe.LastWrite(ctx, role)
		if err != nil {
			return domain.Report{Outcome: domain.OutcomeCrashShutdown, Reason: "artifact unavailable", Role: role, Err: err}, EventCrashed, true
		}
		writes = append(writes, t)
		s.mu.Lock()
		s.lastWrites[role] = t
		s.mu.Unlock()
	}

	inactive := s.tracker.Observe(now, writes)
	s.mu.Lock()
	s.inactive = inactive
	s.mu.Unlock()
	s.observer.Inactivity(inactive)
	s.logger.Debug("watchdog pass", "inactivity", inactive)

	for _, c := range s.snapshot() {
		if st, ok := c.proc.Exited(); ok {
			s.observer.WorkerExited(c.role, st)
			return domain.Report{
				Outcome: domain.OutcomeCrashShutdown,
				Reason:  "child terminated unexpectedly",
				Role:    c.role,
				Exit:    &st,
			}, EventCrashed, true
		}
	}

	if s.tracker.Expired() {
		return domain.Report{Outcome: domain.OutcomeCleanShutdown, Reason: "inactivity"}, EventInactive, true
	}
	return domain.Report{}, "", false
}

// finish kills the fleet, then records the outcome.
func (s *Supervisor) finish(ctx context.Context, event string, report domain.Report) domain.Report {
	s.terminateAll()
	s.fire(ctx, event)

	s.mu.Lock()
	s.report = &report
	s.mu.Unlock()

	level := slog.LevelInfo
	if report.Outcome != domain.OutcomeCleanShutdown {
		level = slog.LevelError
	}
	s.logger.Log(ctx, level, "fleet terminated", "outcome", report.Outcome, "reason", report.Reason, "role", report.Role, "error", report.Err)

	if err := s.journal.Event(CategoryShutdown, report.String()); err != nil {
		s.logger.Warn("writing supervisor log", "error", err)
	} else if err := s.journal.Event(CategoryLifecycle, "supervisor terminated"); err != nil {
		s.logger.Warn("writing supervisor log", "error", err)
	}
	s.observer.Finished(report)
	return report
}

func (s *Supervisor) terminateAll() {
	children := s.snapshot()
	for _, c := range children {
		if err := c.proc.Kill(); err != nil {
			s.logger.Warn("kill failed", "role", c.role, "pid", c.proc.Pid(), "error", err)
		}
	}
	for _, c := range children {
		if !c.proc.Reap(s.cfg.ReapGrace) {
			s.logger.Warn("worker not reaped", "role", c.role, "pid", c.proc.Pid())
		}
	}
}

func (s *Supervisor) fire(ctx context.Context, event string) {
	if err := s.machine.Event(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Warn("lifecycle transition rejected", "event", event, "state", s.machine.Current(), "error", err)
	}
}

func (s *Supervisor) snapshot() []child {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.children)
}
