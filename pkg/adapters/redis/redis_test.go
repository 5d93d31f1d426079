package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/hoist/pkg/adapters/redis"
	"github.com/aretw0/hoist/pkg/domain"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestBeaconAndProbe(t *testing.T) {
	mr, client := newClient(t)
	ctx := context.Background()

	beacon := redis.NewBeacon(client, "run-7", domain.RoleAxisX, time.Minute, nil)
	probe := redis.NewProbe(client, "run-7")

	got, err := probe.LastWrite(ctx, domain.RoleAxisX)
	require.NoError(t, err)
	assert.True(t, got.IsZero(), "no heartbeat yet")

	at := time.Date(2026, 4, 2, 9, 30, 0, 123, time.UTC)
	beacon.Beat(at)

	assert.True(t, mr.Exists("hoist:run-7:heartbeat:axis-x"))
	got, err = probe.LastWrite(ctx, domain.RoleAxisX)
	require.NoError(t, err)
	assert.True(t, got.Equal(at))

	// other runs do not see the token
	other, err := redis.NewProbe(client, "run-8").LastWrite(ctx, domain.RoleAxisX)
	require.NoError(t, err)
	assert.True(t, other.IsZero())

	mr.FastForward(2 * time.Minute)
	got, err = probe.LastWrite(ctx, domain.RoleAxisX)
	require.NoError(t, err)
	assert.True(t, got.IsZero(), "expired token reads as never written")
}

func TestProbe_Failures(t *testing.T) {
	mr, client := newClient(t)
	ctx := context.Background()
	probe := redis.NewProbe(client, "run", redis.WithPrefix("rig:"))

	require.NoError(t, mr.Set("rig:run:heartbeat:world", "not-a-number"))
	_, err := probe.LastWrite(ctx, domain.RoleWorld)
	assert.ErrorIs(t, err, domain.ErrArtifactUnavailable)

	mr.Close()
	_, err = probe.LastWrite(ctx, domain.RoleWorld)
	assert.ErrorIs(t, err, domain.ErrArtifactUnavailable)
}

func TestLease(t *testing.T) {
	mr, client := newClient(t)
	ctx := context.Background()

	first := redis.NewLease(client, "run-a", 30*time.Second)
	second := redis.NewLease(client, "run-b", 30*time.Second)

	require.NoError(t, first.Acquire(ctx))
	err := second.Acquire(ctx)
	assert.ErrorIs(t, err, redis.ErrLeaseHeld)
	assert.ErrorContains(t, err, "run-a")

	// releasing someone else's lease is a no-op
	require.NoError(t, second.Release(ctx))
	assert.True(t, mr.Exists("hoist:lease"))

	require.NoError(t, first.Release(ctx))
	assert.False(t, mr.Exists("hoist:lease"))
	require.NoError(t, second.Acquire(ctx))
}

func TestLease_KeepDetectsLoss(t *testing.T) {
	mr, client := newClient(t)
	lease := redis.NewLease(client, "run-a", 30*time.Millisecond)
	require.NoError(t, lease.Acquire(context.Background()))

	mr.Del("hoist:lease")
	require.NoError(t, mr.Set("hoist:lease", "run-z"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.ErrorIs(t, lease.Keep(ctx), redis.ErrLeaseHeld)
}

func TestLease_KeepRenews(t *testing.T) {
	mr, client := newClient(t)
	lease := redis.NewLease(client, "run-a", 60*time.Millisecond)
	require.NoError(t, lease.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.NoError(t, lease.Keep(ctx))

	assert.Equal(t, "run-a", mustGet(t, mr, "hoist:lease"))
	assert.Positive(t, mr.TTL("hoist:lease"))
}

func mustGet(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()
	v, err := mr.Get(key)
	require.NoError(t, err)
	return v
}
