package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultMarker is a single line feed.
var DefaultMarker = []byte{'\n'}

var markerNames = map[string][]byte{
	"lf":   {'\n'},
	"crlf": {'\r', '\n'},
	"cr":   {'\r'},
	"nul":  {0},
}

// ParseMarker decodes the configured end-of-line marker. It accepts the names
// lf, crlf, cr and nul, or a Go-escaped byte string such as `\r\n` or `\x03`.
func ParseMarker(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidMarker)
	}
	if m, ok := markerNames[strings.ToLower(s)]; ok {
		return append([]byte(nil), m...), nil
	}
	unq, err := strconv.Unquote(`"` + strings.ReplaceAll(s, `"`, `\"`) + `"`)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidMarker, s, err)
	}
	if unq == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidMarker)
	}
	return []byte(unq), nil
}

// FormatMarker renders a marker in the escaped form ParseMarker accepts.
func FormatMarker(m []byte) string {
	q := strconv.Quote(string(m))
	return q[1 : len(q)-1]
}
