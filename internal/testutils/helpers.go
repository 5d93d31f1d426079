package testutils

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/hoist/internal/logging"
	"github.com/aretw0/hoist/pkg/channel"
	"github.com/aretw0/hoist/pkg/domain"
	"github.com/stretchr/testify/require"
)

// FixedTime is the timestamp every test journal line carries.
var FixedTime = time.Date(2026, 3, 1, 10, 0, 0, 0, time.Local)

// Journal returns a journal for role writing to w with a frozen clock, so
// lines read "2026-03-01 10:00:00: <role> ...".
func Journal(w io.Writer, role domain.Role) *logging.Journal {
	return logging.NewJournal(w, role.Tag(), logging.WithClock(func() time.Time { return FixedTime }))
}

// Pipe opens a framed anonymous pipe closed at the end of the test.
func Pipe(t *testing.T, name string) (*channel.Reader, *channel.Writer) {
	t.Helper()
	r, w, err := channel.Pipe(name)
	require.NoError(t, err, "Failed to open pipe")
	t.Cleanup(func() {
		_ = w.Close()
		_ = r.Close()
	})
	return r, w
}

// Artifacts maps every worker to a log artifact inside a temp dir.
func Artifacts(t *testing.T) map[domain.Role]string {
	t.Helper()
	dir := t.TempDir()
	out := make(map[domain.Role]string, len(domain.Workers))
	for _, r := range domain.Workers {
		out[r] = filepath.Join(dir, string(r)+".log")
	}
	return out
}
