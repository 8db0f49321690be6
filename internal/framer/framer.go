// Package framer turns an arbitrarily chunked byte stream into complete,
// bounded line records.
//
// A Framer owns one fixed-capacity Buffer. Bytes are appended as they arrive,
// the buffer is scanned for the end-of-line marker starting where the
// previous scan stopped, and every complete line is handed to a callback. The
// unterminated tail is compacted to the front of the buffer and carried into
// the next Ingest call, so the sequence of records does not depend on how the
// stream was split into chunks.
//
// When the buffer fills without a marker, its contents are emitted as a
// single record with Overflow set and framing resumes on the following bytes.
// Nothing is dropped silently.
package framer

import (
	"bytes"
	"fmt"

	"github.com/bft-labs/ser2syslog/internal/domain"
)

// DefaultCapacity is the accumulation buffer size used when none is configured.
const DefaultCapacity = 2048

// Record is one line produced by the framer, without its marker.
// Data aliases the framer's buffer and is only valid during the emit callback.
type Record struct {
	Data []byte

	// Overflow is set when the record was forced out because the buffer
	// filled before a marker arrived. The rest of the line follows in the
	// next record.
	Overflow bool
}

// Options configures a Framer.
type Options struct {
	// Capacity is the accumulation buffer size. It must exceed len(Marker).
	Capacity int

	// Marker is the end-of-line byte sequence. Defaults to "\n".
	Marker []byte

	// SkipEmpty suppresses zero-length records.
	SkipEmpty bool
}

// Stats counts framer activity since construction.
type Stats struct {
	BytesIn   int64
	Records   int64
	Overflows int64
	Skipped   int64
}

// Framer splits a byte stream into line records.
// It is not safe for concurrent use.
type Framer struct {
	buf       *Buffer
	marker    []byte
	stripCR   bool
	skipEmpty bool

	// scan is the offset where the next marker search starts. Everything in
	// [0, scan) is known not to begin a complete marker.
	scan int

	stats Stats
}

// New creates a Framer with the given options.
func New(opts Options) (*Framer, error) {
	if opts.Capacity == 0 {
		opts.Capacity = DefaultCapacity
	}
	if len(opts.Marker) == 0 {
		opts.Marker = domain.DefaultMarker
	}
	if opts.Capacity <= len(opts.Marker) {
		return nil, fmt.Errorf("%w: buffer capacity %d must exceed marker length %d",
			domain.ErrInvalidConfig, opts.Capacity, len(opts.Marker))
	}

	marker := append([]byte(nil), opts.Marker...)
	return &Framer{
		buf:       NewBuffer(opts.Capacity),
		marker:    marker,
		stripCR:   len(marker) == 1 && marker[0] == '\n',
		skipEmpty: opts.SkipEmpty,
	}, nil
}

// Ingest appends chunk to the stream and calls emit for every record that
// becomes complete, in stream order. Chunks larger than the free space are
// consumed in pieces; capacity is always checked before bytes are appended.
func (f *Framer) Ingest(chunk []byte, emit func(Record)) {
	f.stats.BytesIn += int64(len(chunk))
	for len(chunk) > 0 {
		if f.buf.Full() {
			f.overflow(emit)
		}
		n := f.buf.Fill(chunk)
		chunk = chunk[n:]
		f.scanLines(emit)
	}
}

// scanLines emits every complete line in the buffer and compacts the rest.
func (f *Framer) scanLines(emit func(Record)) {
	start := 0
	for {
		i := f.buf.Index(f.scan, f.marker)
		if i < 0 {
			break
		}
		line := f.buf.Slice(start, i)
		if f.stripCR && len(line) > 0 && line[len(line)-1] == '\r' {
			line = line[:len(line)-1]
		}
		f.emit(Record{Data: line}, emit)
		start = i + len(f.marker)
		f.scan = start
	}

	f.buf.Discard(start)
	// The remainder holds no complete marker; only its last len(marker)-1
	// bytes can start one.
	f.scan = max(0, f.buf.Len()-(len(f.marker)-1))
}

// overflow flushes a full buffer that contains no marker. A suffix that could
// be the start of a multi-byte marker stays buffered so the marker is still
// recognised when the rest of it arrives. With CR stripping a trailing CR is
// held back the same way, so it is dropped if a line feed follows.
func (f *Framer) overflow(emit func(Record)) {
	keep := f.partialMarkerSuffix()
	if keep == 0 && f.stripCR && f.buf.Slice(f.buf.Len()-1, f.buf.Len())[0] == '\r' {
		keep = 1
	}
	n := f.buf.Len() - keep
	f.stats.Overflows++
	f.emit(Record{Data: f.buf.Slice(0, n), Overflow: true}, emit)
	f.buf.Discard(n)
	f.scan = 0
}

// partialMarkerSuffix returns the length of the longest buffer suffix that
// is a proper prefix of the marker.
func (f *Framer) partialMarkerSuffix() int {
	data := f.buf.Slice(0, f.buf.Len())
	for k := min(len(f.marker)-1, len(data)); k > 0; k-- {
		if bytes.Equal(data[len(data)-k:], f.marker[:k]) {
			return k
		}
	}
	return 0
}

func (f *Framer) emit(rec Record, emit func(Record)) {
	if len(rec.Data) == 0 && f.skipEmpty {
		f.stats.Skipped++
		return
	}
	f.stats.Records++
	emit(rec)
}

// Reset discards any buffered partial line and returns how many bytes were
// dropped. It is used between unrelated sessions of an ephemeral source.
func (f *Framer) Reset() int {
	n := f.buf.Len()
	f.buf.Reset()
	f.scan = 0
	return n
}

// Buffered returns the number of bytes waiting for a marker.
func (f *Framer) Buffered() int {
	return f.buf.Len()
}

// Capacity returns the accumulation buffer size.
func (f *Framer) Capacity() int {
	return f.buf.Cap()
}

// Marker returns a copy of the end-of-line marker.
func (f *Framer) Marker() []byte {
	return append([]byte(nil), f.marker...)
}

// Stats returns activity counters.
func (f *Framer) Stats() Stats {
	return f.stats
}
