package world_test

import (
	"bytes"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/aretw0/hoist/internal/logging"
	"github.com/aretw0/hoist/pkg/channel"
	"github.com/aretw0/hoist/pkg/domain"
	"github.com/aretw0/hoist/pkg/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInputs struct {
	queues [2][][]byte
}

func (f *fakeInputs) push(a world.Axis, positions ...float64) {
	for _, p := range positions {
		f.queues[a] = append(f.queues[a], domain.FormatPosition(p))
	}
}

func (f *fakeInputs) Wait(time.Duration) ([2]bool, error) {
	return [2]bool{len(f.queues[0]) > 0, len(f.queues[1]) > 0}, nil
}

func (f *fakeInputs) Next(a world.Axis) ([]byte, bool) {
	if len(f.queues[a]) == 0 {
		return nil, false
	}
	msg := f.queues[a][0]
	f.queues[a] = f.queues[a][1:]
	return msg, true
}

type collectingSink struct {
	telegrams []domain.Telegram
	err       error
}

func (c *collectingSink) Send(msg []byte) error {
	if c.err != nil {
		return c.err
	}
	t, err := domain.ParseTelegram(msg)
	if err != nil {
		return err
	}
	c.telegrams = append(c.telegrams, t)
	return nil
}

func testConfig(policy world.FusionPolicy) world.Config {
	cfg := world.DefaultConfig
	cfg.Wait = 10 * time.Millisecond
	cfg.Policy = policy
	cfg.Seed = 42
	return cfg
}

func newSimulator(t *testing.T, cfg world.Config, in world.Inputs, out world.Sink, log *bytes.Buffer) *world.Simulator {
	t.Helper()
	require.NoError(t, cfg.Validate())
	j := logging.NewJournal(log, domain.RoleWorld.Tag())
	return world.New(cfg, in, out, j)
}

func TestSimulator_NoiseStaysInBand(t *testing.T) {
	in := &fakeInputs{}
	out := &collectingSink{}
	sim := newSimulator(t, testConfig(world.FusionPickOne), in, out, &bytes.Buffer{})

	for range 500 {
		in.push(world.AxisX, 20)
		require.NoError(t, sim.Step())
		x := sim.Telegram().X
		assert.InDelta(t, 20, x, 20*0.005+1e-9)
	}
	assert.Len(t, out.telegrams, 500)
}

func TestSimulator_ClampsToBounds(t *testing.T) {
	in := &fakeInputs{}
	out := &collectingSink{}
	cfg := testConfig(world.FusionDrainBoth)
	sim := newSimulator(t, cfg, in, out, &bytes.Buffer{})

	for range 200 {
		in.push(world.AxisX, 40)
		in.push(world.AxisZ, 10)
		require.NoError(t, sim.Step())
	}
	for _, tg := range out.telegrams {
		assert.True(t, cfg.XBounds.Contains(tg.X), "x=%v", tg.X)
		assert.True(t, cfg.ZBounds.Contains(tg.Z), "z=%v", tg.Z)
	}
}

func TestSimulator_PickOneServicesSingleAxis(t *testing.T) {
	in := &fakeInputs{}
	out := &collectingSink{}
	sim := newSimulator(t, testConfig(world.FusionPickOne), in, out, &bytes.Buffer{})

	in.push(world.AxisX, 10)
	in.push(world.AxisZ, 5)
	require.NoError(t, sim.Step())
	pending := len(in.queues[world.AxisX]) + len(in.queues[world.AxisZ])
	assert.Equal(t, 1, pending, "exactly one axis is read per tick")

	require.NoError(t, sim.Step())
	assert.Len(t, out.telegrams, 2)
	assert.InDelta(t, 10, sim.Telegram().X, 0.05)
	assert.InDelta(t, 5, sim.Telegram().Z, 0.025)
}

func TestSimulator_PickOneVisitsBothAxes(t *testing.T) {
	in := &fakeInputs{}
	sim := newSimulator(t, testConfig(world.FusionPickOne), in, &collectingSink{}, &bytes.Buffer{})

	served := map[world.Axis]int{}
	for range 100 {
		in.queues = [2][][]byte{{domain.FormatPosition(1)}, {domain.FormatPosition(1)}}
		require.NoError(t, sim.Step())
		for _, a := range []world.Axis{world.AxisX, world.AxisZ} {
			if len(in.queues[a]) == 0 {
				served[a]++
			}
		}
	}
	assert.Equal(t, 100, served[world.AxisX]+served[world.AxisZ])
	assert.Positive(t, served[world.AxisX])
	assert.Positive(t, served[world.AxisZ])
}

func TestSimulator_DrainBothReadsEveryReadyAxis(t *testing.T) {
	in := &fakeInputs{}
	out := &collectingSink{}
	sim := newSimulator(t, testConfig(world.FusionDrainBoth), in, out, &bytes.Buffer{})

	in.push(world.AxisX, 10)
	in.push(world.AxisZ, 5)
	require.NoError(t, sim.Step())

	assert.Empty(t, in.queues[world.AxisX])
	assert.Empty(t, in.queues[world.AxisZ])
	require.Len(t, out.telegrams, 1)
	assert.InDelta(t, 10, out.telegrams[0].X, 0.05)
	assert.InDelta(t, 5, out.telegrams[0].Z, 0.025)
}

func TestSimulator_IdleTickEmitsNothing(t *testing.T) {
	out := &collectingSink{}
	sim := newSimulator(t, testConfig(world.FusionPickOne), &fakeInputs{}, out, &bytes.Buffer{})

	require.NoError(t, sim.Step())
	assert.Empty(t, out.telegrams)
	assert.Zero(t, sim.Emitted())
}

func TestSimulator_SnapshotsEveryTenthTelegram(t *testing.T) {
	in := &fakeInputs{}
	var log bytes.Buffer
	sim := newSimulator(t, testConfig(world.FusionPickOne), in, &collectingSink{}, &log)

	for range 25 {
		in.push(world.AxisZ, 0)
		require.NoError(t, sim.Step())
	}
	lines := strings.Split(strings.TrimSpace(log.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "<world> position: 0.000000;0.000000")
}

func TestSimulator_MalformedTelemetryKeepsLastValue(t *testing.T) {
	for _, payload := range []string{"garbage", "NaN", "+Inf", "-inf"} {
		t.Run(payload, func(t *testing.T) {
			in := &fakeInputs{}
			in.queues[world.AxisX] = [][]byte{[]byte(payload)}
			out := &collectingSink{}
			sim := newSimulator(t, testConfig(world.FusionPickOne), in, out, &bytes.Buffer{})

			require.NoError(t, sim.Step())
			assert.Equal(t, 0.0, sim.Telegram().X)
			require.Len(t, out.telegrams, 1)
			assert.Equal(t, "0.000000;0.000000", out.telegrams[0].String())
		})
	}
}

func TestSimulator_SinkFailure(t *testing.T) {
	in := &fakeInputs{}
	in.push(world.AxisX, 1)
	sim := newSimulator(t, testConfig(world.FusionPickOne), in,
		&collectingSink{err: domain.SysErr("write", syscall.EPIPE)}, &bytes.Buffer{})

	err := sim.Step()
	assert.ErrorIs(t, err, domain.ErrSystemCall)
	assert.ErrorIs(t, err, syscall.EPIPE)
}

func TestSimulator_OverPipes(t *testing.T) {
	xr, xw, err := channel.Pipe("x-world")
	require.NoError(t, err)
	zr, zw, err := channel.Pipe("z-world")
	require.NoError(t, err)
	outR, outW, err := channel.Pipe("world-inspection")
	require.NoError(t, err)
	t.Cleanup(func() {
		for _, c := range []interface{ Close() error }{xr, xw, zr, zw, outR, outW} {
			c.Close()
		}
	})

	sim := newSimulator(t, testConfig(world.FusionPickOne), world.Channels(xr, zr), outW, &bytes.Buffer{})

	require.NoError(t, zw.Send(domain.FormatPosition(4)))
	require.NoError(t, sim.Step())

	ready, err := outR.Await(time.Second)
	require.NoError(t, err)
	require.True(t, ready)
	msg, _ := outR.Next()
	tg, err := domain.ParseTelegram(msg)
	require.NoError(t, err)
	assert.Equal(t, 0.0, tg.X)
	assert.InDelta(t, 4, tg.Z, 0.02)
}

func TestConfig_Validate(t *testing.T) {
	cfg := world.DefaultConfig
	require.NoError(t, cfg.Validate())

	cfg.Policy = "round-robin"
	assert.Error(t, cfg.Validate())

	cfg = world.DefaultConfig
	cfg.SnapshotEvery = 0
	assert.Error(t, cfg.Validate())
}
