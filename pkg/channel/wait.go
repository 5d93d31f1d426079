package channel

import (
	"errors"
	"time"

	"github.com/aretw0/hoist/pkg/domain"
	"golang.org/x/sys/unix"
)

// Wait blocks until at least one reader holds a complete message or the timeout
// elapses. The returned slice flags, per reader, whether a message is ready.
// A zero timeout polls once.
func Wait(timeout time.Duration, readers ...*Reader) ([]bool, error) {
	ready := make([]bool, len(readers))
	deadline := time.Now().Add(timeout)
	fds := make([]unix.PollFd, len(readers))

	for {
		if buffered(readers, ready) {
			return ready, nil
		}

		remaining := time.Until(deadline)
		if remaining < 0 {
			remaining = 0
		}
		for i, r := range readers {
			fds[i] = unix.PollFd{Fd: int32(r.fd), Events: unix.POLLIN}
		}

		n, err := unix.Poll(fds, pollMillis(remaining))
		if errors.Is(err, unix.EINTR) {
			if remaining == 0 {
				return ready, nil
			}
			continue
		}
		if err != nil {
			return nil, domain.SysErr("poll", err)
		}
		if n == 0 {
			return ready, nil
		}

		for i, fd := range fds {
			if fd.Revents&unix.POLLNVAL != 0 {
				return nil, domain.SysErr("poll "+readers[i].name, unix.EBADF)
			}
			if fd.Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0 {
				if err := readers[i].fill(); err != nil {
					return nil, err
				}
			}
		}

		// Only partial frames arrived and the deadline passed.
		if remaining == 0 {
			buffered(readers, ready)
			return ready, nil
		}
	}
}

func buffered(readers []*Reader, ready []bool) bool {
	found := false
	for i, r := range readers {
		ready[i] = r.Ready()
		found = found || ready[i]
	}
	return found
}

func pollMillis(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	ms := d / time.Millisecond
	if d%time.Millisecond != 0 {
		ms++
	}
	return int(ms)
}
