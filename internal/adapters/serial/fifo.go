package serial

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/bft-labs/ser2syslog/internal/domain"
	"github.com/bft-labs/ser2syslog/internal/ports"
)

// FIFOMode is the permission the named pipe is created with.
const FIFOMode = 0o600

const unblockInterval = 10 * time.Millisecond

// FIFO is a named pipe that stands in for a serial line. Each writer session
// is one Open; end of file means the writer went away.
type FIFO struct {
	path   string
	logger ports.Logger

	teardown sync.Once
	rmErr    error
}

var _ ports.ByteSource = (*FIFO)(nil)

// NewFIFO creates a source for the named pipe at path.
func NewFIFO(path string, logger ports.Logger) *FIFO {
	return &FIFO{path: path, logger: logger}
}

func (f *FIFO) Name() string            { return f.path }
func (f *FIFO) Mode() domain.SourceMode { return domain.ModeEphemeral }

// Setup creates the pipe. An existing pipe is reused; any other file at the
// path is refused.
func (f *FIFO) Setup() error {
	if err := unix.Mkfifo(f.path, FIFOMode); err != nil && !errors.Is(err, unix.EEXIST) {
		return fmt.Errorf("%w: create fifo %s: %v", domain.ErrSourceOpen, f.path, err)
	}

	info, err := os.Lstat(f.path)
	if err != nil {
		return fmt.Errorf("%w: stat fifo %s: %v", domain.ErrSourceOpen, f.path, err)
	}
	if info.Mode()&fs.ModeNamedPipe == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFIFO, f.path)
	}
	return nil
}

// Open blocks until a writer attaches or ctx is cancelled. A pipe that was
// removed behind our back is recreated.
func (f *FIFO) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Lstat(f.path); errors.Is(err, fs.ErrNotExist) {
		f.logger.Warn("fifo disappeared, recreating", ports.String("fifo", f.path))
		if err := f.Setup(); err != nil {
			return nil, err
		}
	}

	opened := make(chan struct{})
	stop := context.AfterFunc(ctx, func() { f.unblockOpen(opened) })
	file, err := os.OpenFile(f.path, os.O_RDONLY, 0)
	close(opened)
	stop()

	if err != nil {
		if errors.Is(err, unix.ENOENT) || errors.Is(err, unix.EINTR) {
			return nil, fmt.Errorf("%w: open fifo %s: %v", domain.ErrSourceTransient, f.path, err)
		}
		return nil, fmt.Errorf("%w: open fifo %s: %v", domain.ErrSourceOpen, f.path, err)
	}
	if err := ctx.Err(); err != nil {
		file.Close()
		return nil, err
	}
	return file, nil
}

// unblockOpen attaches and immediately detaches a writer so that a reader
// blocked in open returns. The non-blocking open fails with ENXIO until the
// reader is in place, hence the retry.
func (f *FIFO) unblockOpen(opened <-chan struct{}) {
	ticker := time.NewTicker(unblockInterval)
	defer ticker.Stop()
	for {
		fd, err := unix.Open(f.path, unix.O_WRONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
		if err == nil {
			unix.Close(fd)
			return
		}
		select {
		case <-opened:
			return
		case <-ticker.C:
		}
	}
}

// Teardown unlinks the pipe. Only the first call has an effect.
func (f *FIFO) Teardown() error {
	f.teardown.Do(func() {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			f.rmErr = fmt.Errorf("remove fifo %s: %w", f.path, err)
			return
		}
		f.logger.Debug("fifo removed", ports.String("fifo", f.path))
	})
	return f.rmErr
}
