package channel

import (
	"errors"
	"sync"

	"github.com/aretw0/hoist/pkg/domain"
	"golang.org/x/sys/unix"
)

// Writer is the sending end of a channel.
type Writer struct {
	mu   sync.Mutex
	fd   int
	name string
}

// Name returns the channel path (or pipe name).
func (w *Writer) Name() string {
	return w.name
}

// Send writes msg followed by the frame terminator.
// Messages up to PIPE_BUF bytes are written atomically.
func (w *Writer) Send(msg []byte) error {
	frame := make([]byte, 0, len(msg)+1)
	frame = append(frame, msg...)
	frame = append(frame, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	for len(frame) > 0 {
		n, err := unix.Write(w.fd, frame)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return domain.SysErr("write "+w.name, err)
		}
		frame = frame[n:]
	}
	return nil
}

// Close releases the descriptor.
func (w *Writer) Close() error {
	return domain.SysErr("close "+w.name, unix.Close(w.fd))
}
