// Package sink delivers framed line records to a log transport.
//
// Each record becomes one log message at the configured severity. Messages
// longer than the transport's single-record limit are split into consecutive
// pieces; every piece except the last ends with ContinuationMark so the split
// is visible to readers of the log. Records forced out by a framer overflow
// carry TruncatedMark.
package sink

import (
	"unicode/utf8"

	"github.com/bft-labs/ser2syslog/internal/domain"
	"github.com/bft-labs/ser2syslog/internal/framer"
	"github.com/bft-labs/ser2syslog/internal/ports"
)

const (
	// ContinuationMark ends every piece of a split message except the last.
	ContinuationMark = ` \`

	// TruncatedMark is appended to records that exceeded the framer capacity.
	TruncatedMark = " [truncated]"

	// MinMessageLen is the smallest split limit that still leaves room for
	// one rune besides ContinuationMark.
	MinMessageLen = len(ContinuationMark) + utf8.UTFMax + 1
)

// Options configures a Sink.
type Options struct {
	Severity domain.Severity

	// MaxMessageLen overrides the transport limit when positive.
	MaxMessageLen int

	// Device is reported in diagnostics.
	Device string
}

// Stats counts sink activity.
type Stats struct {
	Records  int64
	Messages int64
	Splits   int64
	Failures int64
}

// Sink forwards records to a Transport.
type Sink struct {
	transport ports.Transport
	logger    ports.Logger
	severity  domain.Severity
	maxLen    int
	device    string
	stats     Stats
}

// New creates a sink writing to transport.
func New(transport ports.Transport, logger ports.Logger, opts Options) *Sink {
	maxLen := transport.MaxMessageLen()
	if opts.MaxMessageLen > 0 {
		maxLen = opts.MaxMessageLen
	}
	// A limit too small to carry the continuation mark cannot make progress.
	// Configured limits are validated against MinMessageLen before this.
	if maxLen > 0 && maxLen < MinMessageLen {
		maxLen = MinMessageLen
	}
	return &Sink{
		transport: transport,
		logger:    logger,
		severity:  opts.Severity,
		maxLen:    maxLen,
		device:    opts.Device,
	}
}

// Deliver sends one record. Transport failures are logged and returned; the
// remaining pieces of a split message are still attempted.
func (s *Sink) Deliver(rec framer.Record) error {
	s.stats.Records++

	msg := string(rec.Data)
	if rec.Overflow {
		s.logger.Warn("line exceeded buffer capacity, forwarding truncated record",
			ports.String("device", s.device),
			ports.Int("bytes", len(rec.Data)),
		)
		msg += TruncatedMark
	}

	pieces := Split(msg, s.maxLen)
	if len(pieces) > 1 {
		s.stats.Splits++
		s.logger.Debug("message split for transport limit",
			ports.Int("bytes", len(msg)),
			ports.Int("pieces", len(pieces)),
			ports.Int("limit", s.maxLen),
		)
	}

	var firstErr error
	for _, p := range pieces {
		if err := s.transport.Send(s.severity, p); err != nil {
			s.stats.Failures++
			s.logger.Error("log transport write failed",
				ports.String("device", s.device),
				ports.Err(err),
			)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		s.stats.Messages++
	}
	return firstErr
}

// Stats returns activity counters.
func (s *Sink) Stats() Stats {
	return s.stats
}

// Split cuts msg into pieces no longer than limit bytes. Every piece but the
// last carries ContinuationMark, and cuts are moved back so they never fall
// inside a UTF-8 encoded rune. A limit of zero or less disables splitting.
func Split(msg string, limit int) []string {
	if limit <= 0 || len(msg) <= limit {
		return []string{msg}
	}

	payload := max(limit-len(ContinuationMark), 1)
	var pieces []string
	for len(msg) > limit {
		cut := payload
		for back := 0; back < utf8.UTFMax-1 && cut > 1 && !utf8.RuneStart(msg[cut]); back++ {
			cut--
		}
		pieces = append(pieces, msg[:cut]+ContinuationMark)
		msg = msg[cut:]
	}
	return append(pieces, msg)
}
