package control_test

import (
	"os"
	"testing"
	"time"

	"github.com/aretw0/hoist/pkg/control"
	"github.com/aretw0/hoist/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalManager_DeliverAndPoll(t *testing.T) {
	sm := control.NewSignalManager()
	defer sm.Stop()

	_, ok := sm.Poll()
	assert.False(t, ok, "empty queue")

	sm.Deliver(domain.SignalStop)
	sig, ok := sm.Poll()
	require.True(t, ok)
	assert.Equal(t, domain.SignalStop, sig)
}

func TestSignalManager_DisarmDropsSignals(t *testing.T) {
	sm := control.NewSignalManager()
	defer sm.Stop()

	var dropped []domain.ControlSignal
	sm.OnDrop = func(s domain.ControlSignal) { dropped = append(dropped, s) }

	sm.Disarm(domain.SignalReset)
	assert.False(t, sm.Armed(domain.SignalReset))
	assert.True(t, sm.Armed(domain.SignalStop))

	sm.Deliver(domain.SignalReset)
	sm.Deliver(domain.SignalStop)

	sig, ok := sm.Poll()
	require.True(t, ok)
	assert.Equal(t, domain.SignalStop, sig)
	assert.Equal(t, []domain.ControlSignal{domain.SignalReset}, dropped)

	sm.Arm(domain.SignalReset)
	sm.Deliver(domain.SignalReset)
	sig, ok = sm.Poll()
	require.True(t, ok)
	assert.Equal(t, domain.SignalReset, sig)
}

func TestSignalManager_OSDelivery(t *testing.T) {
	sm := control.NewSignalManager()
	sm.Listen()
	defer sm.Stop()

	require.NoError(t, control.Send(os.Getpid(), domain.SignalReset))

	assert.Eventually(t, func() bool {
		sig, ok := sm.Poll()
		return ok && sig == domain.SignalReset
	}, time.Second, 5*time.Millisecond)
}

func TestSignalMapping(t *testing.T) {
	for _, sig := range []domain.ControlSignal{domain.SignalStop, domain.SignalReset} {
		osSig, ok := control.ToOS(sig)
		require.True(t, ok)
		back, ok := control.FromOS(osSig)
		require.True(t, ok)
		assert.Equal(t, sig, back)
	}
}
