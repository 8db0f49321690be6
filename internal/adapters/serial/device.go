package serial

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.bug.st/serial"

	"github.com/bft-labs/ser2syslog/internal/domain"
	"github.com/bft-labs/ser2syslog/internal/ports"
)

// DeviceOptions configures a Device.
type DeviceOptions struct {
	Params domain.SerialParams

	// WaitForDevice makes Open wait for a missing device node to appear
	// instead of failing.
	WaitForDevice bool
}

// Device is a persistent serial line.
type Device struct {
	path   string
	opts   DeviceOptions
	logger ports.Logger
}

var _ ports.ByteSource = (*Device)(nil)

// NewDevice creates a source for the character device at path.
func NewDevice(path string, opts DeviceOptions, logger ports.Logger) *Device {
	if opts.Params == (domain.SerialParams{}) {
		opts.Params = domain.DefaultSerialParams()
	}
	return &Device{path: path, opts: opts, logger: logger}
}

func (d *Device) Name() string            { return d.path }
func (d *Device) Mode() domain.SourceMode { return domain.ModePersistent }
func (d *Device) Setup() error            { return nil }
func (d *Device) Teardown() error         { return nil }

// Params returns the line settings applied on Open.
func (d *Device) Params() domain.SerialParams { return d.opts.Params }

// Open configures the line and returns a reader over it.
func (d *Device) Open(ctx context.Context) (io.ReadCloser, error) {
	if d.opts.WaitForDevice {
		if _, err := os.Stat(d.path); errors.Is(err, os.ErrNotExist) {
			d.logger.Info("waiting for device to appear", ports.String("device", d.path))
			if err := WaitForPath(ctx, d.path); err != nil {
				return nil, err
			}
		}
	}

	port, err := serial.Open(d.path, toMode(d.opts.Params))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrSourceOpen, d.path, err)
	}

	d.logger.Debug("serial line configured",
		ports.String("device", d.path),
		ports.String("params", d.opts.Params.String()),
	)
	return &portReader{port: port}, nil
}

func toMode(p domain.SerialParams) *serial.Mode {
	mode := &serial.Mode{
		BaudRate: p.BaudRate,
		DataBits: p.DataBits,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	switch p.Parity {
	case 'E':
		mode.Parity = serial.EvenParity
	case 'O':
		mode.Parity = serial.OddParity
	}
	if p.StopBits == 2 {
		mode.StopBits = serial.TwoStopBits
	}
	return mode
}

// portReader reports a closed or hung-up port as io.EOF.
type portReader struct {
	port serial.Port
}

func (r *portReader) Read(p []byte) (int, error) {
	n, err := r.port.Read(p)
	var perr *serial.PortError
	if errors.As(err, &perr) && perr.Code() == serial.PortClosed {
		return n, io.EOF
	}
	return n, err
}

func (r *portReader) Close() error {
	return r.port.Close()
}
