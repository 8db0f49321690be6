package cliconfig

import (
	"fmt"
	"os"

	"github.com/bft-labs/ser2syslog/internal/domain"
)

// EnvPrefix starts every environment variable read by ApplyEnvConfig.
const EnvPrefix = "SER2SYSLOG_"

// ApplyEnvConfig applies configuration from environment variables (SER2SYSLOG_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)
	env := func(name string) string { return os.Getenv(EnvPrefix + name) }

	if v := env("BAUD"); v != "" && !changed["baud"] {
		rate, err := domain.ParseBaudRate(v)
		if err != nil {
			return fmt.Errorf("parse baud: %w", err)
		}
		cfg.BaudRate = rate
	}
	s.setBoolFromString("fifo", env("FIFO"), &cfg.FIFO)
	s.setBoolFromString("wait-device", env("WAIT_DEVICE"), &cfg.WaitDevice)

	s.setString("pid-file", env("PID_FILE"), &cfg.PIDFile)
	s.setBoolFromString("no-detach", env("NO_DETACH"), &cfg.NoDetach)
	s.setBoolFromString("debug", env("DEBUG"), &cfg.Debug)

	s.setString("eol", env("EOL"), &cfg.EOL)
	if err := s.setIntFromString("buffer-size", env("BUFFER_SIZE"), &cfg.BufferSize); err != nil {
		return err
	}
	s.setBoolFromString("skip-empty", env("SKIP_EMPTY"), &cfg.SkipEmpty)

	s.setString("facility", env("FACILITY"), &cfg.Facility)
	s.setString("severity", env("SEVERITY"), &cfg.Severity)
	s.setString("tag", env("TAG"), &cfg.Tag)

	s.setString("sink", env("SINK"), &cfg.Sink)
	s.setString("syslog-network", env("SYSLOG_NETWORK"), &cfg.SyslogNetwork)
	s.setString("syslog-addr", env("SYSLOG_ADDR"), &cfg.SyslogAddr)
	if err := s.setIntFromString("max-message", env("MAX_MESSAGE"), &cfg.MaxMessage); err != nil {
		return err
	}

	return nil
}
