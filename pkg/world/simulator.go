package world

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/aretw0/hoist/internal/logging"
	"github.com/aretw0/hoist/pkg/domain"
)

// CategoryPosition is the journal category of telegram snapshots.
const CategoryPosition = "position"

// Sink receives combined telegrams.
type Sink interface {
	Send(msg []byte) error
}

// Journal is the simulator's log artifact.
type Journal interface {
	Event(category, message string) error
}

// Simulator reads raw axis positions and republishes them as noisy telegrams.
type Simulator struct {
	cfg     Config
	in      Inputs
	out     Sink
	journal Journal
	logger  *slog.Logger
	rng     *rand.Rand

	telegram domain.Telegram
	emitted  int
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulator) {
		s.logger = logger
	}
}

// New creates a simulator. The initial telegram holds both axes at their minimum.
func New(cfg Config, in Inputs, out Sink, journal Journal, opts ...Option) *Simulator {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	s := &Simulator{
		cfg:      cfg,
		in:       in,
		out:      out,
		journal:  journal,
		logger:   logging.NewNop(),
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		telegram: domain.Telegram{X: cfg.XBounds.Min, Z: cfg.ZBounds.Min},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Telegram returns the last combined reading.
func (s *Simulator) Telegram() domain.Telegram {
	return s.telegram
}

// Emitted returns how many telegrams were published.
func (s *Simulator) Emitted() int {
	return s.emitted
}

// Run steps until ctx is cancelled or a fatal error occurs.
func (s *Simulator) Run(ctx context.Context) error {
	s.logger.Info("world simulator started", "policy", s.cfg.Policy, "noise", s.cfg.NoiseRatio)
	for {
		if ctx.Err() != nil {
			return nil
		}
		if err := s.Step(); err != nil {
			return err
		}
	}
}

// Step performs one multiplexed wait and publishes a telegram if any axis was read.
func (s *Simulator) Step() error {
	ready, err := s.in.Wait(s.cfg.Wait)
	if err != nil {
		return err
	}
	axes := s.choose(ready)
	if len(axes) == 0 {
		return nil
	}

	for _, a := range axes {
		payload, ok := s.in.Next(a)
		if !ok {
			continue
		}
		raw, err := domain.ParsePosition(payload)
		if err != nil {
			s.logger.Warn("skipping telemetry", "axis", a, "error", err)
			continue
		}
		s.set(a, s.perturb(a, raw))
	}
	return s.publish()
}

func (s *Simulator) choose(ready [2]bool) []Axis {
	switch {
	case ready[AxisX] && ready[AxisZ]:
		if s.cfg.Policy == FusionDrainBoth {
			return []Axis{AxisX, AxisZ}
		}
		return []Axis{Axis(s.rng.IntN(2))}
	case ready[AxisX]:
		return []Axis{AxisX}
	case ready[AxisZ]:
		return []Axis{AxisZ}
	}
	return nil
}

// perturb applies uniform noise of ±NoiseRatio of the raw value and clamps.
func (s *Simulator) perturb(a Axis, raw float64) float64 {
	noise := raw * s.cfg.NoiseRatio * (2*s.rng.Float64() - 1)
	v, _ := s.bounds(a).Clamp(raw + noise)
	return v
}

func (s *Simulator) bounds(a Axis) domain.Bounds {
	if a == AxisX {
		return s.cfg.XBounds
	}
	return s.cfg.ZBounds
}

func (s *Simulator) set(a Axis, v float64) {
	if a == AxisX {
		s.telegram.X = v
	} else {
		s.telegram.Z = v
	}
}

func (s *Simulator) publish() error {
	if err := s.out.Send(s.telegram.Encode()); err != nil {
		return err
	}
	s.emitted++
	if s.emitted%s.cfg.SnapshotEvery == 0 {
		return s.journal.Event(CategoryPosition, s.telegram.String())
	}
	return nil
}
