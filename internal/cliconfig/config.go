package cliconfig

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/bft-labs/ser2syslog/internal/domain"
	"github.com/bft-labs/ser2syslog/internal/framer"
	"github.com/bft-labs/ser2syslog/internal/sink"
)

// Log sinks.
const (
	SinkSyslog   = "syslog"
	SinkJournald = "journald"
)

// Config holds CLI configuration for ser2syslog.
type Config struct {
	Device string

	BaudRate int
	FIFO     bool

	// WaitDevice waits for a missing device node instead of failing.
	WaitDevice bool

	PIDFile  string
	NoDetach bool
	Debug    bool

	EOL        string
	BufferSize int
	SkipEmpty  bool

	Facility string
	Severity string
	Tag      string

	Sink          string
	SyslogNetwork string
	SyslogAddr    string
	MaxMessage    int

	// Derived by Validate.
	Marker        []byte
	FacilityValue domain.Facility
	SeverityValue domain.Severity
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		BaudRate:   domain.DefaultBaudRate,
		EOL:        domain.FormatMarker(domain.DefaultMarker),
		BufferSize: framer.DefaultCapacity,
		Facility:   domain.DefaultFacility.String(),
		Severity:   domain.DefaultSeverity.String(),
		Sink:       SinkSyslog,
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.Device == "" {
		return fmt.Errorf("%w: device is required", domain.ErrInvalidConfig)
	}
	// Paths must survive the working directory change when detaching.
	if err := absPath(&c.Device); err != nil {
		return err
	}
	if err := absPath(&c.PIDFile); err != nil {
		return err
	}

	if !c.FIFO {
		if err := domain.ValidateBaudRate(c.BaudRate); err != nil {
			return err
		}
	}
	if c.FIFO && c.WaitDevice {
		return fmt.Errorf("%w: wait-device cannot be combined with fifo", domain.ErrInvalidConfig)
	}

	marker, err := domain.ParseMarker(c.EOL)
	if err != nil {
		return err
	}
	if c.BufferSize <= len(marker) {
		return fmt.Errorf("%w: buffer-size %d must exceed the end-of-line marker length %d",
			domain.ErrInvalidConfig, c.BufferSize, len(marker))
	}
	c.Marker = marker

	if c.FacilityValue, err = domain.ParseFacility(c.Facility); err != nil {
		return err
	}
	if c.SeverityValue, err = domain.ParseSeverity(c.Severity); err != nil {
		return err
	}

	switch c.Sink {
	case SinkSyslog:
	case SinkJournald:
		if c.SyslogNetwork != "" || c.SyslogAddr != "" {
			return fmt.Errorf("%w: syslog-network and syslog-addr require sink %q", domain.ErrInvalidConfig, SinkSyslog)
		}
	default:
		return fmt.Errorf("%w: unknown sink %q", domain.ErrInvalidConfig, c.Sink)
	}

	switch c.SyslogNetwork {
	case "":
		if c.SyslogAddr != "" {
			return fmt.Errorf("%w: syslog-addr requires syslog-network", domain.ErrInvalidConfig)
		}
	case "udp", "tcp", "unix", "unixgram":
		if c.SyslogAddr == "" {
			return fmt.Errorf("%w: syslog-network %s requires syslog-addr", domain.ErrInvalidConfig, c.SyslogNetwork)
		}
	default:
		return fmt.Errorf("%w: unknown syslog-network %q", domain.ErrInvalidConfig, c.SyslogNetwork)
	}

	if c.MaxMessage < 0 {
		return fmt.Errorf("%w: max-message must not be negative", domain.ErrInvalidConfig)
	}
	if c.MaxMessage > 0 && c.MaxMessage < sink.MinMessageLen {
		return fmt.Errorf("%w: max-message %d is below the minimum of %d",
			domain.ErrInvalidConfig, c.MaxMessage, sink.MinMessageLen)
	}

	if c.Tag == "" {
		c.Tag = DeviceTag(c.Device)
	}

	// Debug output goes to the terminal, so stay in the foreground.
	if c.Debug {
		c.NoDetach = true
	}

	return nil
}

// SerialParams returns the line settings for a persistent device.
func (c *Config) SerialParams() domain.SerialParams {
	p := domain.DefaultSerialParams()
	p.BaudRate = c.BaudRate
	return p
}

// DeviceTag derives the log identity from a device path: /dev/ttyUSB0 → ttyUSB0.
func DeviceTag(device string) string {
	return filepath.Base(device)
}

func absPath(p *string) error {
	if *p == "" {
		return nil
	}
	abs, err := filepath.Abs(*p)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidConfig, *p, err)
	}
	*p = abs
	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
