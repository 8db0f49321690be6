package ports

import (
	"context"
	"io"

	"github.com/bft-labs/ser2syslog/internal/domain"
)

// ByteSource supplies raw bytes from a device or named pipe.
//
// The run loop calls Setup once before the first Open and always pairs it with
// a deferred Teardown, so resources such as a created FIFO are released on
// every exit path.
type ByteSource interface {
	// Name identifies the source in logs, typically the device path.
	Name() string

	// Mode reports whether the source is persistent or ephemeral.
	Mode() domain.SourceMode

	// Setup prepares the source (for example, creates the named pipe).
	Setup() error

	// Open returns a handle ready for reading. For ephemeral sources Open
	// blocks until a peer attaches. Cancelling ctx unblocks a pending Open.
	// Errors wrapping domain.ErrSourceTransient may be retried.
	Open(ctx context.Context) (io.ReadCloser, error)

	// Teardown releases what Setup acquired. It is safe to call more than once.
	Teardown() error
}
