package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aretw0/hoist/internal/logging"
	"github.com/aretw0/hoist/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Beacon publishes a worker's last journal write as a heartbeat token.
type Beacon struct {
	client  *backend.Client
	key     string
	ttl     time.Duration
	timeout time.Duration
	logger  *slog.Logger
}

// NewBeacon creates a beacon for one worker of a fleet run. Tokens expire after
// ttl so a vanished worker eventually reads as unavailable.
func NewBeacon(client *backend.Client, runID string, role domain.Role, ttl time.Duration, logger *slog.Logger, opts ...Option) *Beacon {
	o := buildOptions(opts)
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Beacon{
		client:  client,
		key:     heartbeatKey(o.prefix, runID, string(role)),
		ttl:     ttl,
		timeout: 250 * time.Millisecond,
		logger:  logger,
	}
}

// Beat records a write at the given time. It matches the journal write hook
// signature; failures are logged and never block the worker for long.
func (b *Beacon) Beat(at time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()
	if err := b.client.Set(ctx, b.key, at.UnixNano(), b.ttl).Err(); err != nil {
		b.logger.Warn("heartbeat not published", "key", b.key, "error", err)
	}
}

// Probe reads heartbeat tokens for the supervisor.
type Probe struct {
	client *backend.Client
	prefix string
	runID  string
}

// NewProbe creates a probe for a fleet run.
func NewProbe(client *backend.Client, runID string, opts ...Option) *Probe {
	o := buildOptions(opts)
	return &Probe{client: client, prefix: o.prefix, runID: runID}
}

// LastWrite returns the time carried by the role's latest token. A worker that
// has not beaten yet reads as the zero time, which is never fresh.
func (p *Probe) LastWrite(ctx context.Context, role domain.Role) (time.Time, error) {
	val, err := p.client.Get(ctx, heartbeatKey(p.prefix, p.runID, string(role))).Result()
	if errors.Is(err, backend.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", domain.ErrArtifactUnavailable, err)
	}
	ns, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad heartbeat token %q", domain.ErrArtifactUnavailable, val)
	}
	return time.Unix(0, ns), nil
}
