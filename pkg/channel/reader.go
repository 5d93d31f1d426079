package channel

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/hoist/pkg/domain"
	"golang.org/x/sys/unix"
)

// maxPending bounds the bytes buffered without a frame terminator.
const maxPending = 64 * 1024

// ErrClosed is returned when every writer of an anonymous pipe went away.
var ErrClosed = errors.New("channel closed")

// ErrFrameTooLong is returned when a peer sends more than maxPending bytes without a terminator.
var ErrFrameTooLong = errors.New("frame too long")

// Reader is the receiving end of a channel.
type Reader struct {
	fd   int
	name string
	buf  []byte
}

func newReader(fd int, name string) *Reader {
	return &Reader{fd: fd, name: name}
}

// Name returns the channel path (or pipe name).
func (r *Reader) Name() string {
	return r.name
}

// Ready reports whether a complete message is buffered.
func (r *Reader) Ready() bool {
	return bytes.IndexByte(r.buf, '\n') >= 0
}

// Await waits up to timeout for a complete message on this channel alone.
func (r *Reader) Await(timeout time.Duration) (bool, error) {
	ready, err := Wait(timeout, r)
	if err != nil {
		return false, err
	}
	return ready[0], nil
}

// Next pops the oldest complete message, without its terminator.
func (r *Reader) Next() ([]byte, bool) {
	i := bytes.IndexByte(r.buf, '\n')
	if i < 0 {
		return nil, false
	}
	msg := make([]byte, i)
	copy(msg, r.buf[:i])
	r.buf = r.buf[i+1:]
	return msg, true
}

// Discard drops every buffered and pending byte and returns how many complete
// messages were thrown away.
func (r *Reader) Discard() (int, error) {
	err := r.fill()
	dropped := bytes.Count(r.buf, []byte{'\n'})
	r.buf = r.buf[:0]
	return dropped, err
}

// Close releases the descriptor.
func (r *Reader) Close() error {
	return domain.SysErr("close "+r.name, unix.Close(r.fd))
}

// fill moves everything the kernel has for us into the buffer without blocking.
func (r *Reader) fill() error {
	var chunk [512]byte
	for {
		n, err := unix.Read(r.fd, chunk[:])
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.EAGAIN):
			return nil
		case err != nil:
			return domain.SysErr("read "+r.name, err)
		case n == 0:
			return domain.SysErr("read "+r.name, ErrClosed)
		}
		r.buf = append(r.buf, chunk[:n]...)
		if len(r.buf) > maxPending && !r.Ready() {
			r.buf = r.buf[:0]
			return fmt.Errorf("%s: %w", r.name, ErrFrameTooLong)
		}
		if n < len(chunk) {
			return nil
		}
	}
}
