package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/aretw0/hoist/pkg/domain"
)

// TimeLayout is the timestamp layout of every artifact line.
const TimeLayout = "2006-01-02 15:04:05"

// CategoryError is the category of fatal worker errors.
const CategoryError = "error"

// Journal appends "<timestamp>: <tag> <category>: <message>" lines to a log
// artifact. Its modification time is the liveness heartbeat the supervisor
// watches, so every line is written with a single write call.
type Journal struct {
	mu      *sync.Mutex
	w       io.Writer
	closer  io.Closer
	tag     string
	now     func() time.Time
	onWrite []func(time.Time)
}

// JournalOption configures a Journal.
type JournalOption func(*Journal)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) JournalOption {
	return func(j *Journal) {
		j.now = now
	}
}

// WithWriteHook registers a callback run after every successful write.
func WithWriteHook(hook func(time.Time)) JournalOption {
	return func(j *Journal) {
		j.onWrite = append(j.onWrite, hook)
	}
}

// NewJournal creates a journal writing to w.
func NewJournal(w io.Writer, tag string, opts ...JournalOption) *Journal {
	j := &Journal{
		mu:    &sync.Mutex{},
		w:     w,
		tag:   tag,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// OpenJournal opens (creating if needed) the artifact at path in append mode.
func OpenJournal(path, tag string, opts ...JournalOption) (*Journal, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o666)
	if err != nil {
		return nil, &domain.LogWriteError{Err: err}
	}
	j := NewJournal(f, tag, opts...)
	j.closer = f
	return j, nil
}

// Event appends one line. Failures are reported as *domain.LogWriteError.
func (j *Journal) Event(category, message string) error {
	return j.write(category, message)
}

// Close closes the underlying artifact if the journal opened it.
func (j *Journal) Close() error {
	if j.closer == nil {
		return nil
	}
	return j.closer.Close()
}

func (j *Journal) write(category, message string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	ts := j.now()
	line := fmt.Sprintf("%s: %s %s: %s\n", ts.Format(TimeLayout), j.tag, category, message)
	n, err := io.WriteString(j.w, line)
	if err == nil && n != len(line) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return &domain.LogWriteError{Err: unwrapPathError(err)}
	}
	for _, hook := range j.onWrite {
		hook(ts)
	}
	return nil
}

func unwrapPathError(err error) error {
	var pe *os.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}
