// Package domain contains the core value types and sentinel errors for ser2syslog.
//
// This package is the innermost layer. It has no dependencies on
// infrastructure concerns (devices, syslog sockets, logging) and contains only
// the vocabulary the other layers share.
//
// # Types
//
//   - [SourceMode]: whether a byte source is opened once or reopened per peer
//   - [Facility] and [Severity]: the fixed syslog addressing of forwarded lines
//   - [SerialParams]: the line settings applied to a persistent device
//   - [ParseMarker]: decoding of the configured end-of-line marker
package domain
