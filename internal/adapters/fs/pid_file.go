// Package fs holds the small pieces of on-disk state the daemon keeps.
package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// PIDFile records the daemon's process id.
type PIDFile struct {
	path string
}

// NewPIDFile creates a PIDFile at path.
func NewPIDFile(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Write stores pid followed by a newline.
// Uses atomic write (write to temp file, then rename) so readers never see a
// partial file.
func (p *PIDFile) Write(pid int) error {
	tmp, err := os.CreateTemp(filepath.Dir(p.path), "."+filepath.Base(p.path)+".tmp*")
	if err != nil {
		return fmt.Errorf("write pid file %s: %w", p.path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := fmt.Fprintf(tmp, "%d\n", pid); err != nil {
		tmp.Close()
		return fmt.Errorf("write pid file %s: %w", p.path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("write pid file %s: %w", p.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write pid file %s: %w", p.path, err)
	}

	// Atomic rename
	if err := os.Rename(tmp.Name(), p.path); err != nil {
		return fmt.Errorf("write pid file %s: %w", p.path, err)
	}
	return nil
}

// Read returns the pid stored in the file.
func (p *PIDFile) Read() (int, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parse pid file %s: %w", p.path, err)
	}
	return pid, nil
}

// Path returns the full path to the pid file.
func (p *PIDFile) Path() string {
	return p.path
}
