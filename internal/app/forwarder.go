// Package app drives a byte source through the line framer into the sink.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bft-labs/ser2syslog/internal/domain"
	"github.com/bft-labs/ser2syslog/internal/framer"
	"github.com/bft-labs/ser2syslog/internal/ports"
)

// RecordSink receives complete line records.
type RecordSink interface {
	Deliver(rec framer.Record) error
}

// Config contains configuration for the run loop.
type Config struct {
	// ReadSize is the largest chunk read from the source at once.
	// Defaults to the framer capacity.
	ReadSize int

	BackoffInitial time.Duration
	BackoffMax     time.Duration
}

// Stats counts run loop activity.
type Stats struct {
	Sessions  int64
	Retries   int64
	Discarded int64
}

// Forwarder orchestrates source → framer → sink for the lifetime of the
// device.
type Forwarder struct {
	config Config
	source ports.ByteSource
	framer *framer.Framer
	sink   RecordSink
	logger ports.Logger
	life   *Lifecycle
	stats  Stats
}

// NewForwarder creates a run loop. observer may be nil.
func NewForwarder(
	config Config,
	source ports.ByteSource,
	fr *framer.Framer,
	sink RecordSink,
	logger ports.Logger,
	observer StateObserver,
) *Forwarder {
	if config.ReadSize <= 0 {
		config.ReadSize = fr.Capacity()
	}
	if config.BackoffInitial <= 0 {
		config.BackoffInitial = DefaultBackoffInitial
	}
	if config.BackoffMax <= 0 {
		config.BackoffMax = DefaultBackoffMax
	}
	return &Forwarder{
		config: config,
		source: source,
		framer: fr,
		sink:   sink,
		logger: logger,
		life:   NewLifecycle(logger, observer),
	}
}

// Run forwards records until the source ends for good, a fatal error occurs
// or ctx is cancelled, in which case ctx.Err() is returned. Whatever Setup
// acquired is released before Run returns. A Forwarder runs once.
func (f *Forwarder) Run(ctx context.Context) error {
	if err := f.life.TransitionTo(StateOpening, "start"); err != nil {
		return err
	}

	if err := f.source.Setup(); err != nil {
		return f.finish(fmt.Errorf("setup %s: %w", f.source.Name(), err), "setup failed")
	}
	defer func() {
		if err := f.source.Teardown(); err != nil {
			f.logger.Warn("source teardown failed", ports.String("device", f.source.Name()), ports.Err(err))
		}
	}()

	ephemeral := f.source.Mode() == domain.ModeEphemeral
	bo := newBackoff(f.config.BackoffInitial, f.config.BackoffMax)

	for {
		h, err := f.source.Open(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return f.finish(ctx.Err(), "cancelled")
			}
			if ephemeral && errors.Is(err, domain.ErrSourceTransient) {
				f.stats.Retries++
				f.logger.Warn("source open failed, retrying",
					ports.String("device", f.source.Name()),
					ports.Duration("backoff", bo.Current()),
					ports.Int64("retries", f.stats.Retries),
					ports.Err(err),
				)
				if err := f.life.TransitionTo(StateOpening, "retry"); err != nil {
					return f.finish(err, "invalid transition")
				}
				if err := bo.Sleep(ctx); err != nil {
					return f.finish(err, "cancelled")
				}
				continue
			}
			return f.finish(err, "open failed")
		}

		bo.Reset()
		f.stats.Sessions++
		if err := f.life.TransitionTo(StateReading, "source open"); err != nil {
			h.Close()
			return f.finish(err, "invalid transition")
		}

		err = f.pump(ctx, h)
		if ctx.Err() != nil {
			return f.finish(ctx.Err(), "cancelled")
		}

		if !errors.Is(err, io.EOF) {
			return f.finish(fmt.Errorf("read %s: %w", f.source.Name(), err), "read failed")
		}
		if !ephemeral {
			return f.finish(fmt.Errorf("%w: %s", domain.ErrSourceClosed, f.source.Name()), "end of stream")
		}

		if err := f.life.TransitionTo(StateReopening, "peer closed"); err != nil {
			return f.finish(err, "invalid transition")
		}
		if n := f.framer.Reset(); n > 0 {
			f.stats.Discarded += int64(n)
			f.logger.Warn("discarding unterminated bytes from previous writer",
				ports.String("device", f.source.Name()),
				ports.Int("bytes", n),
				ports.Int64("discarded_total", f.stats.Discarded),
			)
		}
		if err := f.life.TransitionTo(StateOpening, "reopen"); err != nil {
			return f.finish(err, "invalid transition")
		}
	}
}

// pump reads h until it fails. The handle is always closed on return;
// cancelling ctx closes it early to release a blocked Read.
func (f *Forwarder) pump(ctx context.Context, h io.ReadCloser) error {
	stop := context.AfterFunc(ctx, func() { h.Close() })
	defer func() {
		if stop() {
			h.Close()
		}
	}()

	buf := make([]byte, f.config.ReadSize)
	for {
		n, err := h.Read(buf)
		if n > 0 {
			f.framer.Ingest(buf[:n], f.deliver)
		}
		if err != nil {
			return err
		}
	}
}

// deliver hands one record to the sink. Sink failures are logged by the sink
// and do not stop forwarding.
func (f *Forwarder) deliver(rec framer.Record) {
	_ = f.sink.Deliver(rec)
}

func (f *Forwarder) finish(cause error, reason string) error {
	if err := f.life.TransitionTo(StateClosed, reason); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

// State returns the current run loop state.
func (f *Forwarder) State() State {
	return f.life.State()
}

// Stats returns activity counters. It must not be called while Run is active.
func (f *Forwarder) Stats() Stats {
	return f.stats
}
