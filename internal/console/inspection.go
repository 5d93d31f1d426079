package console

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/hoist/internal/logging"
	"github.com/aretw0/hoist/pkg/domain"
	"github.com/muesli/termenv"
)

// Telegrams is the receiving end of the combined-telegram channel.
type Telegrams interface {
	Await(timeout time.Duration) (bool, error)
	Next() ([]byte, bool)
}

// Signaller delivers a control signal to a process.
type Signaller func(pid int, sig domain.ControlSignal) error

// InspectionOption configures an Inspection console.
type InspectionOption func(*Inspection)

// WithRefresh sets how long each wait for telegrams lasts.
func WithRefresh(d time.Duration) InspectionOption {
	return func(i *Inspection) {
		i.refresh = d
	}
}

// WithBounds sets the workspace; telegrams outside it are treated as misreads.
func WithBounds(x, z domain.Bounds) InspectionOption {
	return func(i *Inspection) {
		i.xBounds, i.zBounds = x, z
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) InspectionOption {
	return func(i *Inspection) {
		i.logger = logger
	}
}

// WithProfile overrides the terminal color profile.
func WithProfile(p termenv.Profile) InspectionOption {
	return func(i *Inspection) {
		i.profile = p
	}
}

// Inspection renders the end-effector position and sends STOP and RESET to
// both axis controllers.
type Inspection struct {
	telegrams Telegrams
	pids      [2]int
	signal    Signaller
	journal   Journal
	out       io.Writer
	logger    *slog.Logger
	profile   termenv.Profile
	refresh   time.Duration
	xBounds   domain.Bounds
	zBounds   domain.Bounds

	position domain.Telegram
}

// NewInspection creates the console for the controllers at xPid and zPid.
func NewInspection(telegrams Telegrams, xPid, zPid int, signal Signaller, journal Journal, out io.Writer, opts ...InspectionOption) *Inspection {
	i := &Inspection{
		telegrams: telegrams,
		pids:      [2]int{xPid, zPid},
		signal:    signal,
		journal:   journal,
		out:       out,
		logger:    logging.NewNop(),
		profile:   termenv.Ascii,
		refresh:   200 * time.Millisecond,
		xBounds:   domain.Bounds{Min: 0, Max: 40},
		zBounds:   domain.Bounds{Min: 0, Max: 10},
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Position returns the last rendered telegram.
func (i *Inspection) Position() domain.Telegram {
	return i.position
}

// Run alternates between servicing keys and waiting for telegrams until ctx
// is done, 'q' or Ctrl-C is pressed, or a failure occurs.
func (i *Inspection) Run(ctx context.Context, keys <-chan byte) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		quit, err := i.drainKeys(&keys)
		if err != nil || quit {
			return err
		}
		if err := i.Refresh(); err != nil {
			_ = i.journal.Event(CategoryError, err.Error())
			return err
		}
	}
}

func (i *Inspection) drainKeys(keys *<-chan byte) (bool, error) {
	for *keys != nil {
		select {
		case k, ok := <-*keys:
			if !ok {
				*keys = nil
				return false, nil
			}
			switch k {
			case 'q', keyInterrupt:
				return true, nil
			}
			if err := i.Press(k); err != nil {
				return false, err
			}
		default:
			return false, nil
		}
	}
	return false, nil
}

// Press handles one key: 's' is STOP and 'r' is RESET. Other keys are ignored.
func (i *Inspection) Press(key byte) error {
	var sig domain.ControlSignal
	switch key {
	case 's':
		sig = domain.SignalStop
	case 'r':
		sig = domain.SignalReset
	default:
		return nil
	}
	for _, pid := range i.pids {
		if err := i.signal(pid, sig); err != nil {
			_ = i.journal.Event(CategoryError, err.Error())
			return err
		}
	}
	return i.journal.Event(CategoryButton, sig.String())
}

// Refresh waits up to the refresh interval for telegrams, keeps the latest
// valid one and redraws the position line.
func (i *Inspection) Refresh() error {
	ready, err := i.telegrams.Await(i.refresh)
	if err != nil {
		return err
	}
	if ready {
		for {
			msg, ok := i.telegrams.Next()
			if !ok {
				break
			}
			t, err := domain.ParseTelegram(msg)
			if err != nil {
				i.logger.Warn("telegram ignored", "payload", string(msg), "error", err)
				continue
			}
			if !i.xBounds.Contains(t.X) || !i.zBounds.Contains(t.Z) {
				i.logger.Debug("telegram out of workspace", "telegram", t.String())
				continue
			}
			i.position = t
		}
	}
	i.render()
	return nil
}

func (i *Inspection) render() {
	x := termenv.String(fmt.Sprintf("%6.3f", i.position.X)).Foreground(i.profile.Color("#818cf8")).Bold()
	z := termenv.String(fmt.Sprintf("%6.3f", i.position.Z)).Foreground(i.profile.Color("#f472b6")).Bold()
	fmt.Fprintf(i.out, "\r\x1b[2Kee_x %s  ee_z %s", x, z)
}
