package ser2syslog

import (
	"context"

	"github.com/rs/zerolog"

	journaldAdapter "github.com/bft-labs/ser2syslog/internal/adapters/journald"
	serialAdapter "github.com/bft-labs/ser2syslog/internal/adapters/serial"
	syslogAdapter "github.com/bft-labs/ser2syslog/internal/adapters/syslog"
	"github.com/bft-labs/ser2syslog/internal/app"
	"github.com/bft-labs/ser2syslog/internal/cliconfig"
	"github.com/bft-labs/ser2syslog/internal/framer"
	"github.com/bft-labs/ser2syslog/internal/ports"
	"github.com/bft-labs/ser2syslog/internal/sink"
)

// Config holds the forwarder configuration.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = cliconfig.Config

// DefaultConfig returns a Config with default values. Device must be set.
func DefaultConfig() Config {
	return cliconfig.DefaultConfig()
}

// Stats summarises forwarding activity.
type Stats struct {
	BytesIn   int64
	Records   int64
	Overflows int64
	Skipped   int64
	Messages  int64
	Splits    int64
	Failures  int64
	Sessions  int64
	Discarded int64
}

// Forwarder forwards one device to the log.
type Forwarder struct {
	cfg       Config
	opts      options
	transport ports.Transport
	ownsTr    bool
	framer    *framer.Framer
	sink      *sink.Sink
	runner    *app.Forwarder
}

// New validates cfg and assembles a Forwarder. Unless WithTransport is
// given, the log transport is connected here.
func New(cfg Config, opts ...Option) (*Forwarder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	f := &Forwarder{cfg: cfg, opts: o, transport: o.transport}
	if f.transport == nil {
		tr, _, err := OpenTransport(cfg)
		if err != nil {
			return nil, err
		}
		f.transport = tr
		f.ownsTr = true
	}

	fr, err := framer.New(framer.Options{
		Capacity:  cfg.BufferSize,
		Marker:    cfg.Marker,
		SkipEmpty: cfg.SkipEmpty,
	})
	if err != nil {
		f.Close()
		return nil, err
	}
	f.framer = fr

	f.sink = sink.New(f.transport, o.logger, sink.Options{
		Severity:      cfg.SeverityValue,
		MaxMessageLen: cfg.MaxMessage,
		Device:        cfg.Device,
	})

	source := o.source
	if source == nil {
		source = newSource(cfg, o.logger)
	}
	f.runner = app.NewForwarder(app.Config{}, source, fr, f.sink, o.logger, o.observer)
	return f, nil
}

// Run forwards until the source ends for good, a fatal error occurs, or ctx
// is cancelled, in which case ctx.Err() is returned. A Forwarder runs once.
func (f *Forwarder) Run(ctx context.Context) error {
	return f.runner.Run(ctx)
}

// State returns the current run loop state.
func (f *Forwarder) State() State {
	return f.runner.State()
}

// Stats returns activity counters. Call it after Run has returned.
func (f *Forwarder) Stats() Stats {
	fst, sst, rst := f.framer.Stats(), f.sink.Stats(), f.runner.Stats()
	return Stats{
		BytesIn:   fst.BytesIn,
		Records:   fst.Records,
		Overflows: fst.Overflows,
		Skipped:   fst.Skipped,
		Messages:  sst.Messages,
		Splits:    sst.Splits,
		Failures:  sst.Failures,
		Sessions:  rst.Sessions,
		Discarded: rst.Discarded,
	}
}

// Close closes the transport if the Forwarder opened it.
func (f *Forwarder) Close() error {
	if f.ownsTr && f.transport != nil {
		return f.transport.Close()
	}
	return nil
}

// OpenTransport connects the transport selected by cfg.Sink and returns the
// writer the daemon's own diagnostics should go to. cfg must be validated.
func OpenTransport(cfg Config) (Transport, zerolog.LevelWriter, error) {
	switch cfg.Sink {
	case cliconfig.SinkJournald:
		tr := journaldAdapter.New(journaldAdapter.Config{
			Tag:           cfg.Tag,
			Facility:      cfg.FacilityValue,
			Device:        cfg.Device,
			MaxMessageLen: cfg.MaxMessage,
		})
		return tr, tr.LevelWriter(), nil
	default:
		tr, err := syslogAdapter.Dial(syslogAdapter.Config{
			Network:       cfg.SyslogNetwork,
			Addr:          cfg.SyslogAddr,
			Facility:      cfg.FacilityValue,
			Tag:           cfg.Tag,
			MaxMessageLen: cfg.MaxMessage,
		})
		if err != nil {
			return nil, nil, err
		}
		return tr, zerolog.SyslogLevelWriter(tr.Writer()), nil
	}
}

func newSource(cfg Config, logger ports.Logger) ports.ByteSource {
	if cfg.FIFO {
		return serialAdapter.NewFIFO(cfg.Device, logger)
	}
	dev := serialAdapter.NewDevice(cfg.Device, serialAdapter.DeviceOptions{
		Params:        cfg.SerialParams(),
		WaitForDevice: cfg.WaitDevice,
	}, logger)
	logger.Debug("serial parameters",
		ports.String("device", cfg.Device),
		ports.String("params", dev.Params().String()),
		ports.Bool("wait_device", cfg.WaitDevice),
	)
	return dev
}
