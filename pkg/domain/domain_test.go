package domain_test

import (
	"errors"
	"fmt"
	"math"
	"syscall"
	"testing"

	"github.com/aretw0/hoist/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		payload string
		want    domain.VelocityCommand
		wantErr bool
	}{
		{"0", domain.CommandStop, false},
		{"1", domain.CommandIncrement, false},
		{"2\n", domain.CommandDecrement, false},
		{"3", 0, true},
		{"", 0, true},
		{"+1", 0, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.payload), func(t *testing.T) {
			got, err := domain.ParseCommand([]byte(tt.payload))
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrMalformedCommand)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, []byte(tt.payload[:1]), got.Encode())
		})
	}

	assert.Equal(t, 1, domain.CommandIncrement.Delta())
	assert.Equal(t, -1, domain.CommandDecrement.Delta())
	assert.Equal(t, 0, domain.CommandStop.Delta())
}

func TestTelegram(t *testing.T) {
	tg := domain.Telegram{X: 12.5, Z: 3}
	assert.Equal(t, "12.500000;3.000000", tg.String())

	got, err := domain.ParseTelegram([]byte("12.500000;3.000000\n"))
	require.NoError(t, err)
	assert.Equal(t, tg, got)

	for _, bad := range []string{"12.5", "a;b", ";", "1;2;3", "NaN;0", "1;+Inf"} {
		_, err := domain.ParseTelegram([]byte(bad))
		assert.ErrorIs(t, err, domain.ErrMalformedTelemetry, bad)
	}

	pos, err := domain.ParsePosition(domain.FormatPosition(39.6))
	require.NoError(t, err)
	assert.InDelta(t, 39.6, pos, 1e-9)
	assert.Equal(t, "0.500000", string(domain.FormatPosition(0.5)))

	for _, bad := range []string{"NaN", "nan", "Inf", "-Inf", "+infinity", "1e999"} {
		_, err := domain.ParsePosition([]byte(bad))
		assert.ErrorIs(t, err, domain.ErrMalformedTelemetry, bad)
	}
}

func TestBounds_Clamp(t *testing.T) {
	b := domain.Bounds{Min: 0, Max: 40}

	v, clamped := b.Clamp(40.1)
	assert.Equal(t, 40.0, v)
	assert.True(t, clamped)

	v, clamped = b.Clamp(-4)
	assert.Equal(t, 0.0, v)
	assert.True(t, clamped)

	v, clamped = b.Clamp(12)
	assert.Equal(t, 12.0, v)
	assert.False(t, clamped)

	v, clamped = b.Clamp(math.NaN())
	assert.Equal(t, 0.0, v)
	assert.True(t, clamped)

	assert.Error(t, domain.Bounds{Min: 5, Max: 5}.Validate())
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"clean", nil, domain.ExitClean},
		{"system call", domain.SysErr("poll", syscall.EBADF), domain.ExitSystemCall},
		{"plain error", errors.New("boom"), domain.ExitSystemCall},
		{"log write errno", &domain.LogWriteError{Err: syscall.ENOSPC}, int(syscall.ENOSPC)},
		{"log write wrapped errno", fmt.Errorf("journal: %w", &domain.LogWriteError{Err: syscall.EIO}), int(syscall.EIO)},
		{"log write errno 1", &domain.LogWriteError{Err: syscall.EPERM}, domain.ExitLogWriteFallback},
		{"log write without errno", &domain.LogWriteError{Err: errors.New("short write")}, domain.ExitLogWriteFallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ExitCode(tt.err))
		})
	}
}

func TestClassifyExit(t *testing.T) {
	assert.Equal(t, domain.TierNone, domain.ClassifyExit(0, false).Tier)
	assert.Equal(t, domain.TierSystemCall, domain.ClassifyExit(1, false).Tier)
	assert.Equal(t, domain.TierLogWrite, domain.ClassifyExit(28, false).Tier)
	assert.Equal(t, domain.TierSignaled, domain.ClassifyExit(9, true).Tier)
	assert.Equal(t, "log-write failure: no space left on device", domain.ClassifyExit(28, false).String())
}

func TestReport(t *testing.T) {
	exit := domain.ClassifyExit(1, false)
	r := domain.Report{Outcome: domain.OutcomeCrashShutdown, Reason: "child terminated unexpectedly", Role: domain.RoleAxisZ, Exit: &exit}
	assert.Equal(t, "crash-shutdown: child terminated unexpectedly (axis-z, system-call failure)", r.String())
	assert.Equal(t, 2, r.Outcome.ExitCode())
	assert.Equal(t, 0, domain.OutcomeCleanShutdown.ExitCode())
	assert.Equal(t, 1, domain.OutcomeLocalError.ExitCode())
	assert.Equal(t, "<axis-x>", domain.RoleAxisX.Tag())
}
