// Package config loads the rig configuration from built-in defaults, an
// optional YAML file and HOIST_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/hoist/pkg/axis"
	"github.com/aretw0/hoist/pkg/domain"
	"github.com/aretw0/hoist/pkg/supervisor"
	"github.com/aretw0/hoist/pkg/world"
	"github.com/caarlos0/env/v11"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "HOIST_"

// Liveness sources for the supervisor watchdog.
const (
	LivenessArtifact = "artifact"
	LivenessWatch    = "watch"
	LivenessRedis    = "redis"
)

// Config is the whole rig configuration.
type Config struct {
	LogDir  string `mapstructure:"log_dir" env:"LOG_DIR"`
	FIFODir string `mapstructure:"fifo_dir" env:"FIFO_DIR"`
	Debug   bool   `mapstructure:"debug" env:"DEBUG"`

	Axis       AxisConfig       `mapstructure:"axis" envPrefix:"AXIS_"`
	World      WorldConfig      `mapstructure:"world" envPrefix:"WORLD_"`
	Supervisor SupervisorConfig `mapstructure:"supervisor" envPrefix:"SUPERVISOR_"`
	Redis      RedisConfig      `mapstructure:"redis" envPrefix:"REDIS_"`
}

// AxisConfig is shared by both controllers; only the bounds differ.
type AxisConfig struct {
	Tick             time.Duration `mapstructure:"tick" env:"TICK"`
	PollInterval     time.Duration `mapstructure:"poll_interval" env:"POLL_INTERVAL"`
	Step             float64       `mapstructure:"step" env:"STEP"`
	RecoveryVelocity int           `mapstructure:"recovery_velocity" env:"RECOVERY_VELOCITY"`
	RecoverySteps    int           `mapstructure:"recovery_steps" env:"RECOVERY_STEPS"`
	X                domain.Bounds `mapstructure:"x" envPrefix:"X_"`
	Z                domain.Bounds `mapstructure:"z" envPrefix:"Z_"`
}

type WorldConfig struct {
	Wait          time.Duration `mapstructure:"wait" env:"WAIT"`
	NoiseRatio    float64       `mapstructure:"noise_ratio" env:"NOISE_RATIO"`
	SnapshotEvery int           `mapstructure:"snapshot_every" env:"SNAPSHOT_EVERY"`
	Policy        string        `mapstructure:"policy" env:"POLICY"`
	Seed          uint64        `mapstructure:"seed" env:"SEED"`
}

type SupervisorConfig struct {
	Period          time.Duration `mapstructure:"period" env:"PERIOD"`
	Freshness       time.Duration `mapstructure:"freshness" env:"FRESHNESS"`
	InactivityLimit time.Duration `mapstructure:"inactivity_limit" env:"INACTIVITY_LIMIT"`
	Policy          string        `mapstructure:"policy" env:"POLICY"`
	ReapGrace       time.Duration `mapstructure:"reap_grace" env:"REAP_GRACE"`
	// Liveness selects the probe: artifact, watch or redis.
	Liveness    string `mapstructure:"liveness" env:"LIVENESS"`
	MetricsAddr string `mapstructure:"metrics_addr" env:"METRICS_ADDR"`
	// Terminal wraps the console processes, e.g. "konsole,-e".
	Terminal []string `mapstructure:"terminal" env:"TERMINAL" envSeparator:","`
}

type RedisConfig struct {
	Addr         string        `mapstructure:"addr" env:"ADDR"`
	Password     string        `mapstructure:"password" env:"PASSWORD"`
	DB           int           `mapstructure:"db" env:"DB"`
	Prefix       string        `mapstructure:"prefix" env:"PREFIX"`
	HeartbeatTTL time.Duration `mapstructure:"heartbeat_ttl" env:"HEARTBEAT_TTL"`
	// RunID scopes worker heartbeats; the supervisor passes it to its workers.
	RunID string `mapstructure:"run_id" env:"RUN_ID"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogDir:  "log",
		FIFODir: filepath.Join(os.TempDir(), "hoist"),
		Axis: AxisConfig{
			Tick:             axis.X.Tick,
			PollInterval:     axis.X.PollInterval,
			Step:             axis.X.Step,
			RecoveryVelocity: axis.X.RecoveryVelocity,
			RecoverySteps:    axis.X.RecoverySteps,
			X:                axis.X.Bounds,
			Z:                axis.Z.Bounds,
		},
		World: WorldConfig{
			Wait:          world.DefaultConfig.Wait,
			NoiseRatio:    world.DefaultConfig.NoiseRatio,
			SnapshotEvery: world.DefaultConfig.SnapshotEvery,
			Policy:        string(world.DefaultConfig.Policy),
		},
		Supervisor: SupervisorConfig{
			Period:          supervisor.Defaults.Period,
			Freshness:       supervisor.Defaults.Freshness,
			InactivityLimit: supervisor.Defaults.InactivityLimit,
			Policy:          string(supervisor.Defaults.Policy),
			ReapGrace:       supervisor.Defaults.ReapGrace,
			Liveness:        LivenessArtifact,
		},
		Redis: RedisConfig{
			Addr:         "localhost:6379",
			Prefix:       "hoist:",
			HeartbeatTTL: 10 * time.Minute,
		},
	}
}

// Load layers the YAML file at path (optional) and the environment over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}
	return nil
}

// Validate rejects inconsistent settings.
func (c Config) Validate() error {
	var errs []error
	if c.LogDir == "" || c.FIFODir == "" {
		errs = append(errs, errors.New("log_dir and fifo_dir are required"))
	}
	for _, role := range []domain.Role{domain.RoleAxisX, domain.RoleAxisZ} {
		cfg, err := c.AxisFor(role)
		if err == nil {
			err = cfg.Validate()
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", role, err))
		}
	}
	if err := c.WorldSettings().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("world: %w", err))
	}

	s := c.Supervisor
	if s.Period <= 0 || s.Freshness <= 0 || s.InactivityLimit <= 0 {
		errs = append(errs, errors.New("supervisor periods must be positive"))
	}
	if _, err := supervisor.ParsePolicy(s.Policy); err != nil {
		errs = append(errs, err)
	}
	switch s.Liveness {
	case LivenessArtifact, LivenessWatch:
	case LivenessRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("redis liveness needs redis.addr"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown liveness source %q", s.Liveness))
	}
	return errors.Join(errs...)
}

// AxisFor returns the controller settings for an axis role.
func (c Config) AxisFor(role domain.Role) (axis.Config, error) {
	cfg, err := axis.ForRole(role)
	if err != nil {
		return axis.Config{}, err
	}
	cfg.Tick = c.Axis.Tick
	cfg.PollInterval = c.Axis.PollInterval
	cfg.Step = c.Axis.Step
	cfg.RecoveryVelocity = c.Axis.RecoveryVelocity
	cfg.RecoverySteps = c.Axis.RecoverySteps
	cfg.Bounds = c.Axis.X
	if role == domain.RoleAxisZ {
		cfg.Bounds = c.Axis.Z
	}
	return cfg, nil
}

// WorldSettings returns the simulator settings.
func (c Config) WorldSettings() world.Config {
	return world.Config{
		XBounds:       c.Axis.X,
		ZBounds:       c.Axis.Z,
		Wait:          c.World.Wait,
		NoiseRatio:    c.World.NoiseRatio,
		SnapshotEvery: c.World.SnapshotEvery,
		Policy:        world.FusionPolicy(c.World.Policy),
		Seed:          c.World.Seed,
	}
}

// SupervisorSettings returns the watchdog settings.
func (c Config) SupervisorSettings() supervisor.Config {
	return supervisor.Config{
		Artifacts:       c.Artifacts(),
		Period:          c.Supervisor.Period,
		Freshness:       c.Supervisor.Freshness,
		InactivityLimit: c.Supervisor.InactivityLimit,
		Policy:          supervisor.FreshnessPolicy(c.Supervisor.Policy),
		ReapGrace:       c.Supervisor.ReapGrace,
	}
}
