package cliconfig

import (
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// DefaultConfigPath is read when --config is not given and the file exists.
const DefaultConfigPath = "/etc/ser2syslog/config.toml"

// FileConfig mirrors Config in TOML form. Pointer fields distinguish an
// explicit false from an absent key.
type FileConfig struct {
	Device        string `toml:"device"`
	BaudRate      int    `toml:"baud"`
	FIFO          *bool  `toml:"fifo"`
	WaitDevice    *bool  `toml:"wait_device"`
	PIDFile       string `toml:"pid_file"`
	NoDetach      *bool  `toml:"no_detach"`
	Debug         *bool  `toml:"debug"`
	EOL           string `toml:"eol"`
	BufferSize    int    `toml:"buffer_size"`
	SkipEmpty     *bool  `toml:"skip_empty"`
	Facility      string `toml:"facility"`
	Severity      string `toml:"severity"`
	Tag           string `toml:"tag"`
	Sink          string `toml:"sink"`
	SyslogNetwork string `toml:"syslog_network"`
	SyslogAddr    string `toml:"syslog_addr"`
	MaxMessage    int    `toml:"max_message"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
// Unknown keys are rejected so typos do not pass silently.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	f, err := os.Open(path)
	if err != nil {
		return fc, err
	}
	defer f.Close()

	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map). The device
// is only taken from the file when none was given on the command line.
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	if cfg.Device == "" {
		cfg.Device = fc.Device
	}

	s.setInt("baud", fc.BaudRate, &cfg.BaudRate)
	s.setBool("fifo", fc.FIFO, &cfg.FIFO)
	s.setBool("wait-device", fc.WaitDevice, &cfg.WaitDevice)

	s.setString("pid-file", fc.PIDFile, &cfg.PIDFile)
	s.setBool("no-detach", fc.NoDetach, &cfg.NoDetach)
	s.setBool("debug", fc.Debug, &cfg.Debug)

	s.setString("eol", fc.EOL, &cfg.EOL)
	s.setInt("buffer-size", fc.BufferSize, &cfg.BufferSize)
	s.setBool("skip-empty", fc.SkipEmpty, &cfg.SkipEmpty)

	s.setString("facility", fc.Facility, &cfg.Facility)
	s.setString("severity", fc.Severity, &cfg.Severity)
	s.setString("tag", fc.Tag, &cfg.Tag)

	s.setString("sink", fc.Sink, &cfg.Sink)
	s.setString("syslog-network", fc.SyslogNetwork, &cfg.SyslogNetwork)
	s.setString("syslog-addr", fc.SyslogAddr, &cfg.SyslogAddr)
	s.setInt("max-message", fc.MaxMessage, &cfg.MaxMessage)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
