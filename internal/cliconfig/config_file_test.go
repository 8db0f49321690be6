package cliconfig

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestApplyFileConfig(t *testing.T) {
	trueVal := true
	falseVal := false

	tests := []struct {
		name       string
		fileConfig FileConfig
		changed    map[string]bool
		initial    Config
		expected   Config
	}{
		{
			name: "applies all config values",
			fileConfig: FileConfig{
				Device:        "/dev/ttyS1",
				BaudRate:      115200,
				WaitDevice:    &trueVal,
				PIDFile:       "/run/ser2syslog.pid",
				NoDetach:      &trueVal,
				Debug:         &falseVal,
				EOL:           "crlf",
				BufferSize:    4096,
				SkipEmpty:     &trueVal,
				Facility:      "local3",
				Severity:      "info",
				Tag:           "modem",
				Sink:          "syslog",
				SyslogNetwork: "udp",
				SyslogAddr:    "loghost:514",
				MaxMessage:    2048,
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				Device:        "/dev/ttyS1",
				BaudRate:      115200,
				WaitDevice:    true,
				PIDFile:       "/run/ser2syslog.pid",
				NoDetach:      true,
				EOL:           "crlf",
				BufferSize:    4096,
				SkipEmpty:     true,
				Facility:      "local3",
				Severity:      "info",
				Tag:           "modem",
				Sink:          "syslog",
				SyslogNetwork: "udp",
				SyslogAddr:    "loghost:514",
				MaxMessage:    2048,
			},
		},
		{
			name: "respects changed flags",
			fileConfig: FileConfig{
				BaudRate: 115200,
				Tag:      "file-tag",
				FIFO:     &trueVal,
			},
			changed: map[string]bool{"baud": true, "fifo": true},
			initial: Config{
				BaudRate: 4800,
			},
			expected: Config{
				BaudRate: 4800, // unchanged because flag was set
				Tag:      "file-tag",
			},
		},
		{
			name:       "device from command line wins",
			fileConfig: FileConfig{Device: "/dev/ttyS1"},
			changed:    map[string]bool{},
			initial:    Config{Device: "/dev/ttyACM0"},
			expected:   Config{Device: "/dev/ttyACM0"},
		},
		{
			name:       "explicit false overrides default",
			fileConfig: FileConfig{SkipEmpty: &falseVal},
			changed:    map[string]bool{},
			initial:    Config{SkipEmpty: true},
			expected:   Config{},
		},
		{
			name:       "empty file config keeps defaults",
			fileConfig: FileConfig{},
			changed:    map[string]bool{},
			initial:    DefaultConfig(),
			expected:   DefaultConfig(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			if err := ApplyFileConfig(&cfg, tt.fileConfig, tt.changed); err != nil {
				t.Fatalf("ApplyFileConfig() error = %v", err)
			}
			if !reflect.DeepEqual(cfg, tt.expected) {
				t.Errorf("ApplyFileConfig() = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	tomlContent := `
device = "/dev/ttyUSB1"
baud = 57600
eol = '\r\n'
skip_empty = true
facility = "daemon"
sink = "journald"
max_message = 0
`

	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	fc, err := LoadFileConfig(configPath)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}

	if fc.Device != "/dev/ttyUSB1" {
		t.Errorf("Device = %v, want /dev/ttyUSB1", fc.Device)
	}
	if fc.BaudRate != 57600 {
		t.Errorf("BaudRate = %v, want 57600", fc.BaudRate)
	}
	if fc.EOL != `\r\n` {
		t.Errorf("EOL = %q, want \\r\\n escaped", fc.EOL)
	}
	if fc.SkipEmpty == nil || !*fc.SkipEmpty {
		t.Errorf("SkipEmpty = %v, want true", fc.SkipEmpty)
	}
	if fc.Facility != "daemon" || fc.Sink != "journald" {
		t.Errorf("Facility/Sink = %v/%v, want daemon/journald", fc.Facility, fc.Sink)
	}
	if fc.FIFO != nil {
		t.Errorf("FIFO = %v, want nil when absent", fc.FIFO)
	}
}

func TestLoadFileConfig_InvalidFile(t *testing.T) {
	_, err := LoadFileConfig("/nonexistent/path/config.toml")
	if err == nil {
		t.Error("LoadFileConfig() expected error for nonexistent file")
	}
}

func TestLoadFileConfig_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.toml")

	invalidContent := `
device = "/dev/ttyS0"
this is not valid toml
`

	if err := os.WriteFile(configPath, []byte(invalidContent), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	_, err := LoadFileConfig(configPath)
	if err == nil {
		t.Error("LoadFileConfig() expected error for invalid TOML")
	}
}

func TestLoadFileConfig_UnknownKey(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "typo.toml")
	if err := os.WriteFile(configPath, []byte("baudrate = 9600\n"), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}

	if _, err := LoadFileConfig(configPath); err == nil {
		t.Error("LoadFileConfig() expected error for unknown key")
	}
}

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	existingFile := filepath.Join(tmpDir, "exists.txt")

	if err := os.WriteFile(existingFile, []byte("test"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if !FileExists(existingFile) {
		t.Error("FileExists() = false, want true for existing file")
	}

	if FileExists(filepath.Join(tmpDir, "nonexistent.txt")) {
		t.Error("FileExists() = true, want false for nonexistent file")
	}
}
