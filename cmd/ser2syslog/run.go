package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	fsAdapter "github.com/bft-labs/ser2syslog/internal/adapters/fs"
	logAdapter "github.com/bft-labs/ser2syslog/internal/adapters/log"
	"github.com/bft-labs/ser2syslog/internal/cliconfig"
	"github.com/bft-labs/ser2syslog/internal/daemon"
	"github.com/bft-labs/ser2syslog/internal/ports"
	"github.com/bft-labs/ser2syslog/pkg/ser2syslog"
)

// run forwards the configured device until it ends or a signal arrives.
func run(cfg cliconfig.Config, console zerolog.Logger) error {
	if !cfg.NoDetach && !daemon.IsDetached() {
		pid, err := daemon.Detach(os.Args[1:])
		if err != nil {
			return err
		}
		console.Debug().Int("pid", pid).Msg("detached")
		return nil
	}

	if daemon.IsDetached() {
		if err := daemon.Settle(); err != nil {
			return err
		}
	}
	daemon.IgnoreSIGPIPE()

	transport, diagWriter, err := ser2syslog.OpenTransport(cfg)
	if err != nil {
		return err
	}
	defer transport.Close()

	diag := cliconfig.DiagnosticLogger(diagWriter, cfg.Debug)
	logger := logAdapter.NewZerologAdapterWithLogger(diag)

	if cfg.PIDFile != "" {
		if err := fsAdapter.NewPIDFile(cfg.PIDFile).Write(os.Getpid()); err != nil {
			logger.Error("pid file not created", ports.Err(err))
		}
	}

	fwd, err := ser2syslog.New(cfg,
		ser2syslog.WithLogger(logger),
		ser2syslog.WithTransport(transport),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	diag.Info().
		Str("device", cfg.Device).
		Bool("fifo", cfg.FIFO).
		Str("facility", cfg.FacilityValue.String()).
		Str("severity", cfg.SeverityValue.String()).
		Str("tag", cfg.Tag).
		Msg("forwarding started")
	diag.Debug().
		Str("eol", cfg.EOL).
		Int("buffer_size", cfg.BufferSize).
		Str("sink", cfg.Sink).
		Int("max_message", cfg.MaxMessage).
		Msg("configuration")

	err = fwd.Run(ctx)

	st := fwd.Stats()
	diag.Info().
		Int64("bytes", st.BytesIn).
		Int64("records", st.Records).
		Int64("overflows", st.Overflows).
		Int64("messages", st.Messages).
		Int64("failures", st.Failures).
		Int64("sessions", st.Sessions).
		Int64("discarded", st.Discarded).
		Msg("forwarding stopped")

	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}
	logger.Error("forwarding failed", ports.String("device", cfg.Device), ports.Err(err))
	return reportedError{err}
}

// reportedError marks an error already written to the diagnostic log.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }

func (e reportedError) Unwrap() error { return e.err }
