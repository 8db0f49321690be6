package domain

import "errors"

// Domain errors represent error conditions in the ser2syslog domain.
// They are wrapped with context by the layers that return them and can be
// checked with errors.Is.
var (
	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("ser2syslog: invalid configuration")

	// ErrInvalidBaudRate is returned for a baud rate outside the supported set.
	ErrInvalidBaudRate = errors.New("ser2syslog: invalid baud rate")

	// ErrInvalidMarker is returned when the end-of-line marker is empty or malformed.
	ErrInvalidMarker = errors.New("ser2syslog: invalid end-of-line marker")

	// ErrSourceOpen is returned when a byte source cannot be opened.
	ErrSourceOpen = errors.New("ser2syslog: source open failed")

	// ErrSourceTransient marks an open failure that may succeed on retry.
	ErrSourceTransient = errors.New("ser2syslog: transient source error")

	// ErrSourceClosed is returned when a persistent source reaches end of stream.
	ErrSourceClosed = errors.New("ser2syslog: source closed")

	// ErrNotFIFO is returned when the ephemeral path exists but is not a named pipe.
	ErrNotFIFO = errors.New("ser2syslog: path exists and is not a fifo")

	// ErrInvalidTransition is returned when the run loop is asked to move
	// between states that are not connected.
	ErrInvalidTransition = errors.New("ser2syslog: invalid state transition")
)
