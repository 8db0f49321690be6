package domain

// SourceMode tags how a byte source behaves across peer disconnects.
type SourceMode int

const (
	// ModePersistent is a character device opened once for the process lifetime.
	// End of stream is terminal.
	ModePersistent SourceMode = iota

	// ModeEphemeral is a named pipe reopened after each writer disconnects.
	ModeEphemeral
)

// String returns a human-readable representation of the mode.
func (m SourceMode) String() string {
	switch m {
	case ModePersistent:
		return "persistent"
	case ModeEphemeral:
		return "ephemeral"
	default:
		return "unknown"
	}
}
