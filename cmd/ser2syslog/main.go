package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/ser2syslog/internal/cliconfig"
	"github.com/bft-labs/ser2syslog/internal/domain"
)

const longHelp = `Forward a serial line (or a named pipe standing in for one) to the system log.

The byte stream is split into records at the end-of-line marker; every record
becomes one log message under the configured facility and severity, tagged
with the device name. Lines longer than the buffer are forwarded in pieces
marked [truncated]; nothing is dropped silently.

Configuration is read from defaults, then the TOML config file, then
SER2SYSLOG_* environment variables, then command-line flags.`

var exampleUsage = strings.TrimSpace(`
  ser2syslog --baud 115200 /dev/ttyUSB0
  ser2syslog -d --eol crlf --facility daemon /dev/ttyS1
  ser2syslog --fifo -n --sink journald /run/console.fifo
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:           "ser2syslog [flags] <device>",
		Short:         "Forward a serial line to syslog, one message per line",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Build set of changed flags
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if len(args) == 1 {
				cfg.Device = args[0]
			}

			// An explicit --config must exist; the default one is optional.
			cfgFile := cfgPath
			if cfgFile == "" && cliconfig.FileExists(cliconfig.DefaultConfigPath) {
				cfgFile = cliconfig.DefaultConfigPath
			}
			if cfgFile != "" {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// Apply environment variables (SER2SYSLOG_*)
			// These override file config but are overridden by flags (checked via changed map)
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return fmt.Errorf("environment: %w", err)
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			return run(cfg, log)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", fmt.Sprintf("path to config file (default: %s if present)", cliconfig.DefaultConfigPath))

	root.Flags().IntVar(&cfg.BaudRate, "baud", cfg.BaudRate, fmt.Sprintf("line speed, one of %s", baudList()))
	root.Flags().BoolVar(&cfg.FIFO, "fifo", cfg.FIFO, "treat the device path as a named pipe, created on start and removed on exit")
	root.Flags().BoolVar(&cfg.WaitDevice, "wait-device", cfg.WaitDevice, "wait for a missing device node to appear instead of failing")

	root.Flags().StringVarP(&cfg.PIDFile, "pid-file", "P", cfg.PIDFile, "write the daemon pid to this file")
	root.Flags().BoolVarP(&cfg.NoDetach, "no-detach", "n", cfg.NoDetach, "stay in the foreground")
	root.Flags().BoolVarP(&cfg.Debug, "debug", "d", cfg.Debug, "debug output on stderr (implies --no-detach)")

	root.Flags().StringVar(&cfg.EOL, "eol", cfg.EOL, `end-of-line marker: lf, crlf, cr, nul or an escaped string such as '\r\n'`)
	root.Flags().IntVar(&cfg.BufferSize, "buffer-size", cfg.BufferSize, "line buffer size in bytes; longer lines are forwarded in pieces")
	root.Flags().BoolVar(&cfg.SkipEmpty, "skip-empty", cfg.SkipEmpty, "do not forward empty lines")

	root.Flags().StringVar(&cfg.Facility, "facility", cfg.Facility, "syslog facility")
	root.Flags().StringVar(&cfg.Severity, "severity", cfg.Severity, "syslog severity of forwarded lines")
	root.Flags().StringVar(&cfg.Tag, "tag", cfg.Tag, "syslog tag (default: device file name)")

	root.Flags().StringVar(&cfg.Sink, "sink", cfg.Sink, "log destination: syslog or journald")
	root.Flags().StringVar(&cfg.SyslogNetwork, "syslog-network", cfg.SyslogNetwork, "udp, tcp, unix or unixgram to reach a syslog server (default: local socket)")
	root.Flags().StringVar(&cfg.SyslogAddr, "syslog-addr", cfg.SyslogAddr, "syslog server address for --syslog-network")
	root.Flags().IntVar(&cfg.MaxMessage, "max-message", cfg.MaxMessage, "split messages longer than this many bytes (default: transport limit)")

	if err := root.Execute(); err != nil {
		reportFailure(log, err)
		os.Exit(1)
	}
}

// reportFailure prints err unless run already logged it.
func reportFailure(log zerolog.Logger, err error) {
	var reported reportedError
	if errors.As(err, &reported) {
		return
	}
	log.Error().Err(err).Msg("ser2syslog")
}

func baudList() string {
	rates := make([]string, 0, len(domain.SupportedBaudRates))
	for _, r := range domain.SupportedBaudRates {
		rates = append(rates, fmt.Sprint(r))
	}
	return strings.Join(rates, ",")
}
