package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"
)

// ErrLeaseHeld is returned when another fleet owns the namespace.
var ErrLeaseHeld = errors.New("fleet lease held by another supervisor")

var (
	renewScript = backend.NewScript(`
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("pexpire", KEYS[1], ARGV[2])
		else
			return 0
		end
	`)
	releaseScript = backend.NewScript(`
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("del", KEYS[1])
		else
			return 0
		end
	`)
)

// Lease makes a supervisor the single owner of a fleet namespace.
type Lease struct {
	client *backend.Client
	key    string
	owner  string
	ttl    time.Duration
}

// NewLease creates a lease owned by runID.
func NewLease(client *backend.Client, runID string, ttl time.Duration, opts ...Option) *Lease {
	o := buildOptions(opts)
	return &Lease{
		client: client,
		key:    o.prefix + "lease",
		owner:  runID,
		ttl:    ttl,
	}
}

// Acquire takes the lease or fails with ErrLeaseHeld.
func (l *Lease) Acquire(ctx context.Context) error {
	ok, err := l.client.SetNX(ctx, l.key, l.owner, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("redis error acquiring lease: %w", err)
	}
	if !ok {
		holder, _ := l.client.Get(ctx, l.key).Result()
		return fmt.Errorf("%w (run %s)", ErrLeaseHeld, holder)
	}
	return nil
}

// Keep renews the lease every ttl/3 until ctx is done. Losing the lease ends it
// with ErrLeaseHeld.
func (l *Lease) Keep(ctx context.Context) error {
	ticker := time.NewTicker(l.ttl / 3)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := renewScript.Run(ctx, l.client, []string{l.key}, l.owner, l.ttl.Milliseconds()).Int()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("redis error renewing lease: %w", err)
			}
			if n == 0 {
				return ErrLeaseHeld
			}
		}
	}
}

// Release gives the lease up if this run still owns it.
func (l *Lease) Release(ctx context.Context) error {
	return releaseScript.Run(ctx, l.client, []string{l.key}, l.owner).Err()
}
