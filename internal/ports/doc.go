// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// The run loop in internal/app depends only on these interfaces; the adapters
// under internal/adapters implement them with devices, named pipes, syslog and
// the systemd journal.
//
// # Port Interfaces
//
//   - [ByteSource]: Supplies raw bytes from a device or named pipe
//   - [Transport]: Writes one message to the log system
//   - [Logger]: Structured logging abstraction
//
// This separation lets the framing and reconnect logic be tested with
// in-memory fakes.
package ports
