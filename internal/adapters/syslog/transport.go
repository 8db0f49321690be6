// Package syslog implements ports.Transport on top of a syslog client.
//
// By default it writes to the local syslog socket the way openlog(3) does;
// a network and address can be given to reach a remote collector over UDP,
// TCP or a datagram socket. The same writer also serves as the destination
// for the daemon's own diagnostics through zerolog's syslog level writer.
package syslog

import (
	"fmt"

	srslog "github.com/RackSec/srslog"

	"github.com/bft-labs/ser2syslog/internal/domain"
	"github.com/bft-labs/ser2syslog/internal/ports"
)

// DefaultMaxMessageLen is the traditional BSD syslog record limit.
const DefaultMaxMessageLen = 1024

// Config addresses the syslog daemon.
type Config struct {
	// Network is "" for the local socket, or "udp", "tcp", "unix", "unixgram".
	Network string
	Addr    string

	Facility domain.Facility
	Tag      string

	// MaxMessageLen defaults to DefaultMaxMessageLen.
	MaxMessageLen int
}

// Transport writes log records through srslog.
type Transport struct {
	w        *srslog.Writer
	facility domain.Facility
	maxLen   int
}

var _ ports.Transport = (*Transport)(nil)

// Dial connects to the syslog daemon described by cfg.
func Dial(cfg Config) (*Transport, error) {
	if cfg.MaxMessageLen == 0 {
		cfg.MaxMessageLen = DefaultMaxMessageLen
	}

	w, err := srslog.Dial(cfg.Network, cfg.Addr, priority(cfg.Facility, domain.SeverityInfo), cfg.Tag)
	if err != nil {
		if cfg.Network == "" {
			return nil, fmt.Errorf("connect to local syslog: %w", err)
		}
		return nil, fmt.Errorf("connect to syslog %s://%s: %w", cfg.Network, cfg.Addr, err)
	}
	if cfg.Network != "" {
		w.SetFormatter(srslog.RFC3164Formatter)
	}

	return &Transport{
		w:        w,
		facility: cfg.Facility,
		maxLen:   cfg.MaxMessageLen,
	}, nil
}

// Send writes msg at severity sev under the configured facility.
func (t *Transport) Send(sev domain.Severity, msg string) error {
	_, err := t.w.WriteWithPriority(priority(t.facility, sev), []byte(msg))
	return err
}

// MaxMessageLen returns the single-record limit.
func (t *Transport) MaxMessageLen() int {
	return t.maxLen
}

// Writer exposes the underlying client for zerolog.SyslogLevelWriter.
func (t *Transport) Writer() *srslog.Writer {
	return t.w
}

// Close closes the connection.
func (t *Transport) Close() error {
	return t.w.Close()
}

func priority(f domain.Facility, s domain.Severity) srslog.Priority {
	return srslog.Priority(int(f) | int(s))
}
