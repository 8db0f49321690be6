// Package ser2syslog provides an embeddable serial-to-syslog forwarder.
//
// It reads a serial device (or a named pipe standing in for one), splits the
// byte stream into lines and writes each line to the system log. The
// ser2syslog command is a thin wrapper around this package.
//
// # Basic Usage
//
//	cfg := ser2syslog.DefaultConfig()
//	cfg.Device = "/dev/ttyUSB0"
//	cfg.BaudRate = 115200
//
//	fwd, err := ser2syslog.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer fwd.Close()
//
//	if err := fwd.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
//	    log.Fatal(err)
//	}
//
// # Transports
//
// By default records go to the local syslog socket, or to the systemd
// journal when Config.Sink is "journald". [WithTransport] substitutes any
// [Transport] implementation.
//
// # Observing the run loop
//
// [WithStateObserver] receives every state change of the run loop
// (Opening, Reading, Reopening, Closed) synchronously.
package ser2syslog
