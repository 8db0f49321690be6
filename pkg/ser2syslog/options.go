package ser2syslog

import (
	"github.com/bft-labs/ser2syslog/internal/adapters/log"
	"github.com/bft-labs/ser2syslog/internal/app"
	"github.com/bft-labs/ser2syslog/internal/ports"
)

// Logger is the interface for structured logging.
type Logger = ports.Logger

// LogField represents a structured log field.
type LogField = ports.Field

// Transport writes finished log messages.
type Transport = ports.Transport

// ByteSource supplies the raw byte stream.
type ByteSource = ports.ByteSource

// State is a run loop state.
type State = app.State

// Run loop states.
const (
	StateIdle      = app.StateIdle
	StateOpening   = app.StateOpening
	StateReading   = app.StateReading
	StateReopening = app.StateReopening
	StateClosed    = app.StateClosed
)

// StateObserver is notified of run loop state changes.
type StateObserver = app.StateObserver

// Option configures optional behavior of a Forwarder.
type Option func(*options)

// options holds the optional configuration for a Forwarder instance.
type options struct {
	logger    ports.Logger
	transport ports.Transport
	source    ports.ByteSource
	observer  app.StateObserver
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() options {
	return options{
		logger: log.NewNoopLogger(),
	}
}

// WithLogger sets a custom logger for diagnostics.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTransport replaces the transport selected by Config.Sink. The
// Forwarder does not close a transport it did not open.
func WithTransport(t Transport) Option {
	return func(o *options) {
		o.transport = t
	}
}

// WithSource replaces the device or FIFO named by Config.Device.
func WithSource(s ByteSource) Option {
	return func(o *options) {
		o.source = s
	}
}

// WithStateObserver sets a handler for run loop state changes.
// It is called synchronously from the forwarding goroutine.
func WithStateObserver(observer StateObserver) Option {
	return func(o *options) {
		o.observer = observer
	}
}
