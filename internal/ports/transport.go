package ports

import "github.com/bft-labs/ser2syslog/internal/domain"

// Transport writes one message to the log system.
// The facility and identifying tag are fixed when the transport is created.
type Transport interface {
	// Send writes msg as a single log record at the given severity.
	Send(sev domain.Severity, msg string) error

	// MaxMessageLen is the largest message the transport accepts as one record.
	// Zero means unlimited.
	MaxMessageLen() int

	// Close releases the connection to the log system.
	Close() error
}
