// Package serial provides the byte sources read by the forwarder.
//
// Device is a persistent source: a character device opened once in raw mode
// through go.bug.st/serial. FIFO is an ephemeral source: a named pipe created
// on Setup, opened again for every writer session and unlinked on Teardown.
package serial
