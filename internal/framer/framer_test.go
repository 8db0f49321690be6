package framer

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bft-labs/ser2syslog/internal/domain"
)

type rec struct {
	data     string
	overflow bool
}

// collector copies records out of the framer's buffer.
type collector struct {
	recs []rec
}

func (c *collector) emit(r Record) {
	c.recs = append(c.recs, rec{data: string(r.Data), overflow: r.Overflow})
}

func (c *collector) lines() []string {
	out := make([]string, 0, len(c.recs))
	for _, r := range c.recs {
		out = append(out, r.data)
	}
	return out
}

func newFramer(t *testing.T, opts Options) *Framer {
	t.Helper()
	f, err := New(opts)
	require.NoError(t, err)
	return f
}

func feed(f *Framer, chunks ...string) *collector {
	c := &collector{}
	for _, ch := range chunks {
		f.Ingest([]byte(ch), c.emit)
	}
	return c
}

func TestNew_Defaults(t *testing.T) {
	f := newFramer(t, Options{})
	require.Equal(t, DefaultCapacity, f.Capacity())
	require.Equal(t, []byte("\n"), f.Marker())
	require.Zero(t, f.Buffered())
}

func TestNew_CapacityMustExceedMarker(t *testing.T) {
	_, err := New(Options{Capacity: 2, Marker: []byte("\r\n")})
	require.Error(t, err)
	require.True(t, errors.Is(err, domain.ErrInvalidConfig))
}

func TestIngest_TwoLines(t *testing.T) {
	f := newFramer(t, Options{})
	c := feed(f, "A\nB\n")

	require.Equal(t, []string{"A", "B"}, c.lines())
	require.Zero(t, f.Buffered())
}

func TestIngest_EmptyLineAndPending(t *testing.T) {
	f := newFramer(t, Options{})
	c := feed(f, "A\n\nB")

	require.Equal(t, []string{"A", ""}, c.lines())
	require.Equal(t, 1, f.Buffered())

	f.Ingest([]byte("\n"), c.emit)
	require.Equal(t, []string{"A", "", "B"}, c.lines())
}

func TestIngest_EmptyLineAtStreamStart(t *testing.T) {
	f := newFramer(t, Options{})
	c := feed(f, "\nX\n")
	require.Equal(t, []string{"", "X"}, c.lines())
}

func TestIngest_SkipEmpty(t *testing.T) {
	f := newFramer(t, Options{SkipEmpty: true})
	c := feed(f, "\nA\n\n\nB\n")

	require.Equal(t, []string{"A", "B"}, c.lines())
	require.Equal(t, int64(3), f.Stats().Skipped)
	require.Equal(t, int64(2), f.Stats().Records)
}

func TestIngest_CRLFMarkerSplitAcrossChunks(t *testing.T) {
	f := newFramer(t, Options{Marker: []byte("\r\n")})
	c := feed(f, "hello\r", "\nworld\r\n")

	require.Equal(t, []string{"hello", "world"}, c.lines())
	require.Zero(t, f.Buffered())
}

func TestIngest_LFMarkerStripsCarriageReturn(t *testing.T) {
	f := newFramer(t, Options{})
	c := feed(f, "abc\r", "\n", "def\r\r\n", "ghi\n")

	require.Equal(t, []string{"abc", "def\r", "ghi"}, c.lines())
}

func TestIngest_CROnlyKeptForOtherMarkers(t *testing.T) {
	f := newFramer(t, Options{Marker: []byte(";")})
	c := feed(f, "a\r;b;")
	require.Equal(t, []string{"a\r", "b"}, c.lines())
}

func TestIngest_MultiByteMarkerAcrossManyChunks(t *testing.T) {
	f := newFramer(t, Options{Marker: []byte("END")})
	c := feed(f, "one", "E", "N", "Dtwo", "EN", "DEN")

	require.Equal(t, []string{"one", "two"}, c.lines())
	require.Equal(t, 2, f.Buffered())
}

func TestIngest_OverflowCapacityPlusOne(t *testing.T) {
	const capacity = 16
	f := newFramer(t, Options{Capacity: capacity})

	line := strings.Repeat("x", capacity+1)
	c := feed(f, line)

	require.Len(t, c.recs, 1)
	require.True(t, c.recs[0].overflow)
	require.Equal(t, line[:capacity], c.recs[0].data)
	require.Equal(t, int64(1), f.Stats().Overflows)
	require.Equal(t, 1, f.Buffered())

	f.Ingest([]byte("\nnext\n"), c.emit)
	require.Equal(t, []rec{
		{data: line[:capacity], overflow: true},
		{data: "x"},
		{data: "next"},
	}, c.recs)
}

func TestIngest_FullBufferWaitsForMoreBytes(t *testing.T) {
	const capacity = 8
	f := newFramer(t, Options{Capacity: capacity})

	c := feed(f, strings.Repeat("y", capacity))
	require.Empty(t, c.recs)
	require.Equal(t, capacity, f.Buffered())

	f.Ingest([]byte("z"), c.emit)
	require.Len(t, c.recs, 1)
	require.True(t, c.recs[0].overflow)
	require.Equal(t, strings.Repeat("y", capacity), c.recs[0].data)
	require.Equal(t, 1, f.Buffered())
}

func TestIngest_OverflowKeepsPartialMarker(t *testing.T) {
	const capacity = 8
	f := newFramer(t, Options{Capacity: capacity, Marker: []byte("\r\n")})

	c := feed(f, "abcdefg\r", "\nok\r\n")

	require.Equal(t, []rec{
		{data: "abcdefg", overflow: true},
		{data: ""},
		{data: "ok"},
	}, c.recs)
}

func TestIngest_OverflowHoldsBackCarriageReturn(t *testing.T) {
	f := newFramer(t, Options{Capacity: 4})
	c := feed(f, "abc\r", "\n")

	require.Equal(t, []rec{
		{data: "abc", overflow: true},
		{data: ""},
	}, c.recs)
	require.Zero(t, f.Buffered())
}

func TestIngest_OverflowCarriageReturnWithoutLineFeed(t *testing.T) {
	f := newFramer(t, Options{Capacity: 4})
	c := feed(f, "abc\r", "x\n")

	require.Equal(t, []rec{
		{data: "abc", overflow: true},
		{data: "\rx"},
	}, c.recs)
}

func TestIngest_LongLinesAcrossHugeChunk(t *testing.T) {
	const capacity = 10
	f := newFramer(t, Options{Capacity: capacity})

	stream := strings.Repeat("a", 25) + "\nshort\n" + strings.Repeat("b", 10) + "\n"
	c := feed(f, stream)

	require.Equal(t, []rec{
		{data: strings.Repeat("a", 10), overflow: true},
		{data: strings.Repeat("a", 10), overflow: true},
		{data: "aaaaa"},
		{data: "short"},
		{data: strings.Repeat("b", 10), overflow: true},
		{data: ""},
	}, c.recs)
	require.Zero(t, f.Buffered())
}

func TestReset_DropsPartialLine(t *testing.T) {
	f := newFramer(t, Options{})
	c := feed(f, "stale partial")

	require.Equal(t, 13, f.Reset())
	require.Zero(t, f.Buffered())

	f.Ingest([]byte("X\n"), c.emit)
	require.Equal(t, []string{"X"}, c.lines())
}

func TestStats(t *testing.T) {
	f := newFramer(t, Options{Capacity: 4})
	feed(f, "ab\ncdefgh\n")

	st := f.Stats()
	require.Equal(t, int64(10), st.BytesIn)
	require.Equal(t, int64(1), st.Overflows)
	require.Equal(t, int64(3), st.Records)
}

// split cuts s at the given sorted offsets.
func split(s string, cuts []int) []string {
	var out []string
	prev := 0
	for _, c := range cuts {
		out = append(out, s[prev:c])
		prev = c
	}
	return append(out, s[prev:])
}

func randomStream(r *rand.Rand, n int, alphabet string) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(alphabet[r.Intn(len(alphabet))])
	}
	return b.String()
}

func TestIngest_ChunkBoundaryIndependence(t *testing.T) {
	tests := []struct {
		name     string
		marker   string
		capacity int
		alphabet string
	}{
		{"lf", "\n", 8, "ab\r\n\n"},
		{"crlf", "\r\n", 8, "ab\r\n"},
		{"word", "END", 9, "xEND"},
		{"large buffer", "\n", 64, "abcdef\n"},
	}

	r := rand.New(rand.NewSource(42))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for iter := 0; iter < 50; iter++ {
				stream := randomStream(r, 20+r.Intn(80), tt.alphabet)
				opts := Options{Capacity: tt.capacity, Marker: []byte(tt.marker)}

				whole := feed(newFramer(t, opts), stream)

				// Every single cut point.
				for cut := 1; cut < len(stream); cut++ {
					got := feed(newFramer(t, opts), split(stream, []int{cut})...)
					require.Equal(t, whole.recs, got.recs, "stream %q cut at %d", stream, cut)
				}

				// Random multi-way splits, including byte-at-a-time.
				for k := 0; k < 10; k++ {
					var cuts []int
					for i := 1; i < len(stream); i++ {
						if k == 0 || r.Intn(4) == 0 {
							cuts = append(cuts, i)
						}
					}
					got := feed(newFramer(t, opts), split(stream, cuts)...)
					require.Equal(t, whole.recs, got.recs, "stream %q cuts %v", stream, cuts)
				}
			}
		})
	}
}

func TestIngest_RecordInvariants(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for _, marker := range []string{"\n", "\r\n", "|||"} {
		const capacity = 12
		f := newFramer(t, Options{Capacity: capacity, Marker: []byte(marker)})
		stream := randomStream(r, 2000, "abc\r\n|")

		var recs []rec
		for len(stream) > 0 {
			n := 1 + r.Intn(30)
			if n > len(stream) {
				n = len(stream)
			}
			f.Ingest([]byte(stream[:n]), func(rc Record) {
				recs = append(recs, rec{data: string(rc.Data), overflow: rc.Overflow})
			})
			stream = stream[n:]
		}

		require.NotEmpty(t, recs)
		for _, rc := range recs {
			if rc.overflow {
				require.LessOrEqual(t, len(rc.data), capacity)
				continue
			}
			require.Less(t, len(rc.data), capacity, "marker %q", marker)
			require.False(t, bytes.Contains([]byte(rc.data), []byte(marker)), "record %q contains marker %q", rc.data, marker)
		}
	}
}
