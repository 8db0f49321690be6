package framer

import (
	"bytes"
	"fmt"
)

// Buffer is a fixed-capacity byte accumulator with an integer write cursor.
// Bytes in [0, Len()) are valid. Every accessor checks its bounds and panics
// on a cursor outside the valid region, which indicates a framing bug rather
// than bad input.
type Buffer struct {
	data []byte
	w    int
}

// NewBuffer allocates a buffer holding at most capacity bytes.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		panic(fmt.Sprintf("framer: buffer capacity must be positive, got %d", capacity))
	}
	return &Buffer{data: make([]byte, capacity)}
}

// Cap returns the fixed capacity.
func (b *Buffer) Cap() int { return len(b.data) }

// Len returns the number of valid bytes.
func (b *Buffer) Len() int { return b.w }

// Free returns the remaining space.
func (b *Buffer) Free() int { return len(b.data) - b.w }

// Full reports whether no space remains.
func (b *Buffer) Full() bool { return b.w == len(b.data) }

// Fill appends as much of p as fits and returns the number of bytes copied.
func (b *Buffer) Fill(p []byte) int {
	n := copy(b.data[b.w:], p)
	b.w += n
	return n
}

// Slice returns the valid bytes in [start, end). The result aliases the
// buffer and is only valid until the next mutating call.
func (b *Buffer) Slice(start, end int) []byte {
	b.check(start, end)
	return b.data[start:end:end]
}

// Index returns the absolute offset of the first occurrence of sep at or
// after from, or -1.
func (b *Buffer) Index(from int, sep []byte) int {
	b.check(from, b.w)
	i := bytes.Index(b.data[from:b.w], sep)
	if i < 0 {
		return -1
	}
	return from + i
}

// Discard drops the first n valid bytes and moves the remainder to offset 0.
func (b *Buffer) Discard(n int) {
	b.check(0, n)
	if n == 0 {
		return
	}
	b.w = copy(b.data, b.data[n:b.w])
}

// Reset empties the buffer.
func (b *Buffer) Reset() {
	b.w = 0
}

func (b *Buffer) check(start, end int) {
	if start < 0 || end < start || end > b.w {
		panic(fmt.Sprintf("framer: range [%d,%d) outside valid region [0,%d)", start, end, b.w))
	}
}
