package logging_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/aretw0/hoist/internal/logging"
	"github.com/aretw0/hoist/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixed = time.Date(2026, 3, 4, 5, 6, 7, 0, time.Local)

func clock() time.Time { return fixed }

func TestJournal_EventFormat(t *testing.T) {
	var buf bytes.Buffer
	j := logging.NewJournal(&buf, domain.RoleAxisX.Tag(), logging.WithClock(clock))

	require.NoError(t, j.Event("new speed", "1"))
	require.NoError(t, j.Event("signal received", domain.SignalStop.String()))

	assert.Equal(t,
		"2026-03-04 05:06:07: <axis-x> new speed: 1\n"+
			"2026-03-04 05:06:07: <axis-x> signal received: STOP\n",
		buf.String())
}

func TestJournal_WriteHook(t *testing.T) {
	var seen []time.Time
	j := logging.NewJournal(&bytes.Buffer{}, "<command>",
		logging.WithClock(clock),
		logging.WithWriteHook(func(ts time.Time) { seen = append(seen, ts) }))

	require.NoError(t, j.Event("button pressed", "Vx++"))
	assert.Equal(t, []time.Time{fixed}, seen)
}

type failingWriter struct{ err error }

func (f failingWriter) Write([]byte) (int, error) { return 0, f.err }

func TestJournal_WriteFailureIsLogWriteError(t *testing.T) {
	j := logging.NewJournal(failingWriter{err: &os.PathError{Op: "write", Path: "x", Err: syscall.ENOSPC}}, "<axis-z>")

	err := j.Event("new speed", "1")
	require.Error(t, err)

	var lw *domain.LogWriteError
	require.True(t, errors.As(err, &lw))
	assert.ErrorIs(t, lw.Err, syscall.ENOSPC)
	assert.Equal(t, int(syscall.ENOSPC), domain.ExitCode(err))
}

func TestOpenJournal_AppendsToArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "axis-x.log")
	require.NoError(t, os.WriteFile(path, []byte("previous\n"), 0o644))

	j, err := logging.OpenJournal(path, "<axis-x>", logging.WithClock(clock))
	require.NoError(t, err)
	require.NoError(t, j.Event("new speed", "-1"))
	require.NoError(t, j.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous\n2026-03-04 05:06:07: <axis-x> new speed: -1\n", string(data))
}

func TestOpenJournal_MissingDirectory(t *testing.T) {
	_, err := logging.OpenJournal(filepath.Join(t.TempDir(), "nope", "x.log"), "<x>")

	var lw *domain.LogWriteError
	require.ErrorAs(t, err, &lw)
	assert.Equal(t, int(syscall.ENOENT), domain.ExitCode(err))
}
