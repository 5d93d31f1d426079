package control

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/hoist/pkg/domain"
	"golang.org/x/sys/unix"
)

// queueDepth bounds how many undelivered control signals are kept. Further
// signals are coalesced away, like pending POSIX signals.
const queueDepth = 8

// SignalManager turns STOP/RESET deliveries into events drained by the control
// loop at its checkpoints. Only the goroutine that owns the axis state calls
// Poll, Arm and Disarm; OS delivery only ever enqueues.
type SignalManager struct {
	events chan domain.ControlSignal
	armed  map[domain.ControlSignal]bool

	// OnDrop, if set, is called for signals that arrive while disarmed.
	OnDrop func(domain.ControlSignal)

	osCh chan os.Signal
	done chan struct{}
	stop sync.Once
}

// NewSignalManager creates a manager with both handlers armed.
func NewSignalManager() *SignalManager {
	return &SignalManager{
		events: make(chan domain.ControlSignal, queueDepth),
		armed: map[domain.ControlSignal]bool{
			domain.SignalStop:  true,
			domain.SignalReset: true,
		},
		done: make(chan struct{}),
	}
}

// Listen installs the OS handlers: SIGUSR1 is STOP, SIGUSR2 is RESET.
func (sm *SignalManager) Listen() {
	sm.osCh = make(chan os.Signal, queueDepth)
	signal.Notify(sm.osCh, syscall.SIGUSR1, syscall.SIGUSR2)
	go func() {
		for {
			select {
			case s := <-sm.osCh:
				if sig, ok := FromOS(s); ok {
					sm.Deliver(sig)
				}
			case <-sm.done:
				return
			}
		}
	}()
}

// Deliver enqueues a signal without blocking.
func (sm *SignalManager) Deliver(sig domain.ControlSignal) {
	select {
	case sm.events <- sig:
	default:
	}
}

// Poll returns the next armed signal, if any. Signals of a disarmed kind are dropped.
func (sm *SignalManager) Poll() (domain.ControlSignal, bool) {
	for {
		select {
		case sig := <-sm.events:
			if sm.armed[sig] {
				return sig, true
			}
			if sm.OnDrop != nil {
				sm.OnDrop(sig)
			}
		default:
			return 0, false
		}
	}
}

// Arm re-enables delivery of the given signals.
func (sm *SignalManager) Arm(sigs ...domain.ControlSignal) {
	for _, s := range sigs {
		sm.armed[s] = true
	}
}

// Disarm suppresses the given signals until they are re-armed.
func (sm *SignalManager) Disarm(sigs ...domain.ControlSignal) {
	for _, s := range sigs {
		sm.armed[s] = false
	}
}

// Armed reports whether sig is currently deliverable.
func (sm *SignalManager) Armed(sig domain.ControlSignal) bool {
	return sm.armed[sig]
}

// Stop uninstalls the OS handlers.
func (sm *SignalManager) Stop() {
	sm.stop.Do(func() {
		if sm.osCh != nil {
			signal.Stop(sm.osCh)
		}
		close(sm.done)
	})
}

// FromOS maps an OS signal to a control signal.
func FromOS(s os.Signal) (domain.ControlSignal, bool) {
	switch s {
	case syscall.SIGUSR1:
		return domain.SignalStop, true
	case syscall.SIGUSR2:
		return domain.SignalReset, true
	}
	return 0, false
}

// ToOS maps a control signal to the OS signal carrying it.
func ToOS(sig domain.ControlSignal) (syscall.Signal, bool) {
	switch sig {
	case domain.SignalStop:
		return syscall.SIGUSR1, true
	case domain.SignalReset:
		return syscall.SIGUSR2, true
	}
	return 0, false
}

// Send delivers sig to the process identified by pid.
func Send(pid int, sig domain.ControlSignal) error {
	s, ok := ToOS(sig)
	if !ok {
		return domain.SysErr("kill", unix.EINVAL)
	}
	return domain.SysErr("kill", unix.Kill(pid, s))
}
