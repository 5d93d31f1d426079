package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/hoist/internal/logging"
	"github.com/aretw0/hoist/pkg/domain"
	"github.com/fsnotify/fsnotify"
)

// Probe reports when a worker last wrote its liveness artifact.
type Probe interface {
	LastWrite(ctx context.Context, role domain.Role) (time.Time, error)
}

// ArtifactProbe reads the artifacts' modification times.
type ArtifactProbe struct {
	paths map[domain.Role]string
}

// NewArtifactProbe probes the given per-role artifact paths.
func NewArtifactProbe(paths map[domain.Role]string) *ArtifactProbe {
	return &ArtifactProbe{paths: paths}
}

// LastWrite stats the role's artifact.
func (p *ArtifactProbe) LastWrite(_ context.Context, role domain.Role) (time.Time, error) {
	path, ok := p.paths[role]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: no artifact for %s", domain.ErrArtifactUnavailable, role)
	}
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", domain.ErrArtifactUnavailable, err)
	}
	return info.ModTime(), nil
}

// WatchProbe tracks artifact writes from filesystem notifications instead of
// polling metadata. Run must be active for it to observe anything past the
// initial modification times.
type WatchProbe struct {
	watcher *fsnotify.Watcher
	roles   map[string]domain.Role
	logger  *slog.Logger
	now     func() time.Time

	mu   sync.RWMutex
	last map[domain.Role]time.Time
}

// NewWatchProbe watches the directories holding the given artifacts.
func NewWatchProbe(paths map[domain.Role]string, logger *slog.Logger) (*WatchProbe, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	p := &WatchProbe{
		watcher: w,
		roles:   make(map[string]domain.Role, len(paths)),
		logger:  logger,
		now:     time.Now,
		last:    make(map[domain.Role]time.Time, len(paths)),
	}

	dirs := map[string]bool{}
	for role, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			w.Close()
			return nil, err
		}
		p.roles[abs] = role
		if info, err := os.Stat(abs); err == nil {
			p.last[role] = info.ModTime()
		}
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	return p, nil
}

// Run consumes notifications until ctx is done.
func (p *WatchProbe) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-p.watcher.Events:
			if !ok {
				return nil
			}
			p.handle(event)
		case err, ok := <-p.watcher.Errors:
			if !ok {
				return nil
			}
			p.logger.Warn("artifact watcher error", "error", err)
		}
	}
}

func (p *WatchProbe) handle(event fsnotify.Event) {
	role, ok := p.roles[filepath.Clean(event.Name)]
	if !ok {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	switch {
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		p.last[role] = p.now()
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		delete(p.last, role)
	}
}

// LastWrite returns the last observed write of the role's artifact.
func (p *WatchProbe) LastWrite(_ context.Context, role domain.Role) (time.Time, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	t, ok := p.last[role]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s artifact missing", domain.ErrArtifactUnavailable, role)
	}
	return t, nil
}

// Close stops the underlying watcher.
func (p *WatchProbe) Close() error {
	return p.watcher.Close()
}
