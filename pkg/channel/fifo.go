package channel

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/aretw0/hoist/pkg/domain"
	"golang.org/x/sys/unix"
)

// Create makes a FIFO at path. An existing FIFO is reused.
func Create(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return domain.SysErr("mkdir "+filepath.Dir(path), err)
	}
	err := unix.Mkfifo(path, 0o666)
	if err == nil {
		return nil
	}
	if !errors.Is(err, unix.EEXIST) {
		return domain.SysErr("mkfifo "+path, err)
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		return domain.SysErr("stat "+path, statErr)
	}
	if info.Mode()&os.ModeNamedPipe == 0 {
		return domain.SysErr("mkfifo "+path, unix.EEXIST)
	}
	return nil
}

// OpenReader opens the receiving end of a FIFO.
// The FIFO is opened read-write so the reader never observes end-of-file when
// the last writer goes away and the open never blocks.
func OpenReader(path string) (*Reader, error) {
	if err := Create(path); err != nil {
		return nil, err
	}
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, domain.SysErr("open "+path, err)
	}
	return newReader(fd, path), nil
}

// OpenWriter opens the sending end of a FIFO.
// Like open(2) on a FIFO it blocks until some process opens the reading end.
func OpenWriter(path string) (*Writer, error) {
	if err := Create(path); err != nil {
		return nil, err
	}
	fd, err := unix.Open(path, unix.O_WRONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, domain.SysErr("open "+path, err)
	}
	return &Writer{fd: fd, name: path}, nil
}

// Pipe returns both ends of an anonymous pipe framed like a FIFO.
func Pipe(name string) (*Reader, *Writer, error) {
	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_CLOEXEC); err != nil {
		return nil, nil, domain.SysErr("pipe", err)
	}
	if err := unix.SetNonblock(p[0], true); err != nil {
		unix.Close(p[0])
		unix.Close(p[1])
		return nil, nil, domain.SysErr("pipe", err)
	}
	return newReader(p[0], name), &Writer{fd: p[1], name: name}, nil
}
