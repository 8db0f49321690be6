// Package journald implements ports.Transport for the systemd journal.
//
// Records are sent as native journal entries carrying the same identity a
// syslog message would have (SYSLOG_IDENTIFIER, SYSLOG_FACILITY) plus the
// source device, so `journalctl -t <tag>` and field matches both work.
package journald

import (
	"bytes"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/ssgreg/journald"

	"github.com/bft-labs/ser2syslog/internal/domain"
	"github.com/bft-labs/ser2syslog/internal/ports"
)

// Journal field names.
const (
	FieldIdentifier = "SYSLOG_IDENTIFIER"
	FieldFacility   = "SYSLOG_FACILITY"
	FieldDevice     = "SERIAL_DEVICE"
)

type sendFunc func(msg string, p journald.Priority, fields map[string]interface{}) error

// Config describes the journal identity of forwarded records.
type Config struct {
	Tag      string
	Facility domain.Facility
	Device   string

	// MaxMessageLen of zero leaves messages unsplit.
	MaxMessageLen int
}

// Transport writes entries to the journal socket.
type Transport struct {
	send   sendFunc
	fields map[string]interface{}
	maxLen int
}

var _ ports.Transport = (*Transport)(nil)

// New creates a journal transport.
func New(cfg Config) *Transport {
	fields := map[string]interface{}{
		FieldIdentifier: cfg.Tag,
		FieldFacility:   strconv.Itoa(cfg.Facility.Code()),
	}
	if cfg.Device != "" {
		fields[FieldDevice] = cfg.Device
	}
	return &Transport{
		send:   journald.Send,
		fields: fields,
		maxLen: cfg.MaxMessageLen,
	}
}

// Send writes msg with the journal priority matching sev.
func (t *Transport) Send(sev domain.Severity, msg string) error {
	return t.send(msg, journald.Priority(sev), t.fields)
}

// MaxMessageLen returns the configured limit.
func (t *Transport) MaxMessageLen() int {
	return t.maxLen
}

// Close is a no-op; the journal socket is shared by the process.
func (t *Transport) Close() error {
	return nil
}

// LevelWriter adapts the transport to zerolog so diagnostics land in the
// journal with a priority derived from the event level.
func (t *Transport) LevelWriter() zerolog.LevelWriter {
	return levelWriter{t: t}
}

type levelWriter struct {
	t *Transport
}

func (w levelWriter) Write(p []byte) (int, error) {
	return w.WriteLevel(zerolog.InfoLevel, p)
}

func (w levelWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	msg := string(bytes.TrimRight(p, "\n"))
	if err := w.t.Send(severityFor(level), msg); err != nil {
		return 0, err
	}
	return len(p), nil
}

func severityFor(level zerolog.Level) domain.Severity {
	switch level {
	case zerolog.TraceLevel, zerolog.DebugLevel:
		return domain.SeverityDebug
	case zerolog.InfoLevel, zerolog.NoLevel:
		return domain.SeverityInfo
	case zerolog.WarnLevel:
		return domain.SeverityWarning
	case zerolog.ErrorLevel:
		return domain.SeverityErr
	case zerolog.FatalLevel:
		return domain.SeverityCrit
	case zerolog.PanicLevel:
		return domain.SeverityEmerg
	default:
		return domain.SeverityInfo
	}
}
