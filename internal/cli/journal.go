package cli

import (
	"log/slog"
	"os"

	"github.com/aretw0/hoist/internal/config"
	"github.com/aretw0/hoist/internal/logging"
	"github.com/aretw0/hoist/pkg/adapters/redis"
	"github.com/aretw0/hoist/pkg/domain"
)

// openJournal opens the role's log artifact. Under Redis liveness every write
// also publishes a heartbeat token for the supervisor's run.
func openJournal(cfg config.Config, role domain.Role, logger *slog.Logger) (*logging.Journal, func(), error) {
	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return nil, nil, &domain.LogWriteError{Err: err}
	}

	var opts []logging.JournalOption
	closeClient := func() {}
	if cfg.Supervisor.Liveness == config.LivenessRedis && cfg.Redis.RunID != "" && role != domain.RoleSupervisor {
		client := redis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		beacon := redis.NewBeacon(client, cfg.Redis.RunID, role, cfg.Redis.HeartbeatTTL, logger, redis.WithPrefix(cfg.Redis.Prefix))
		opts = append(opts, logging.WithWriteHook(beacon.Beat))
		closeClient = func() { _ = client.Close() }
	}

	journal, err := logging.OpenJournal(cfg.Artifact(role), role.Tag(), opts...)
	if err != nil {
		closeClient()
		return nil, nil, err
	}
	return journal, func() {
		_ = journal.Close()
		closeClient()
	}, nil
}
