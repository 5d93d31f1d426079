package console

import (
	"context"
	"io"
	"os"

	"golang.org/x/term"
)

// CategoryButton is the journal category of every operator action.
const CategoryButton = "button pressed"

// CategoryError is the journal category of console failures.
const CategoryError = "error"

// keyInterrupt is Ctrl-C as delivered in raw mode.
const keyInterrupt = 0x03

// Journal is a console's log artifact.
type Journal interface {
	Event(category, message string) error
}

// Keys streams key presses read from r until EOF or a read error, then closes
// the channel. Line terminators and spaces are skipped so line-buffered input
// works as well as a raw terminal.
func Keys(ctx context.Context, r io.Reader) <-chan byte {
	out := make(chan byte)
	go func() {
		defer close(out)
		buf := make([]byte, 64)
		for {
			n, err := r.Read(buf)
			for _, b := range buf[:n] {
				if b == '\n' || b == '\r' || b == ' ' {
					continue
				}
				select {
				case out <- b:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()
	return out
}

// RawTerminal switches f to raw mode when it is a terminal. The returned
// function restores the previous mode.
func RawTerminal(f *os.File) (restore func(), raw bool) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return func() {}, false
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return func() {}, false
	}
	return func() { _ = term.Restore(fd, state) }, true
}
