package memory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentReaderRead(t *testing.T) {
	r, err := NewSegmentReader([]Segment{
		{Addr: 0x1000, Data: []byte{1, 2, 3, 4}},
		{Addr: 0x2000, Data: []byte{5, 6, 7, 8}},
	})
	require.NoError(t, err)

	buf := make([]byte, 2)
	n, err := r.ReadMemory(buf, 0x1001)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{2, 3}, buf)

	buf = make([]byte, 4)
	n, err = r.ReadMemory(buf, 0x2000)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte{5, 6, 7, 8}, buf)
}

func TestSegmentReaderAdjacentSegments(t *testing.T) {
	// A read crossing the boundary of two exactly adjacent segments
	// should be served as if they were one mapping.
	r, err := NewSegmentReader([]Segment{
		{Addr: 0x1000, Data: []byte{1, 2}},
		{Addr: 0x1002, Data: []byte{3, 4}},
	})
	require.NoError(t, err)

	buf := make([]byte, 4)
	n, err := r.ReadMemory(buf, 0x1000)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte{1, 2, 3, 4}, buf)
}

func TestSegmentReaderUnmapped(t *testing.T) {
	r, err := NewSegmentReader([]Segment{{Addr: 0x1000, Data: []byte{1, 2, 3, 4}}})
	require.NoError(t, err)

	for _, addr := range []uint64{0x0, 0xfff, 0x1004, 0x9000} {
		_, err := r.ReadMemory(make([]byte, 1), addr)
		assert.True(t, errors.Is(err, ErrUnmappedAddress), "read at %#x: %v", addr, err)
	}

	// A read starting inside a segment but running off its end fails
	// when no adjacent segment continues it.
	n, err := r.ReadMemory(make([]byte, 8), 0x1002)
	assert.True(t, errors.Is(err, ErrUnmappedAddress))
	assert.Equal(t, 2, n)
}

func TestSegmentReaderEmptyRead(t *testing.T) {
	r, err := NewSegmentReader([]Segment{{Addr: 0x1000, Data: []byte{1}}})
	require.NoError(t, err)
	n, err := r.ReadMemory(nil, 0xdead)
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSegmentReaderRejectsOverlap(t *testing.T) {
	_, err := NewSegmentReader([]Segment{
		{Addr: 0x1000, Data: make([]byte, 16)},
		{Addr: 0x100f, Data: make([]byte, 16)},
	})
	assert.Error(t, err)
}

// countingReader counts the reads that reach the underlying reader.
type countingReader struct {
	mem   Reader
	reads int
}

func (r *countingReader) ReadMemory(buf []byte, addr uint64) (int, error) {
	r.reads++
	return r.mem.ReadMemory(buf, addr)
}

func TestCachedReaderCachesPages(t *testing.T) {
	data := make([]byte, 2*cachePageSize)
	for i := range data {
		data[i] = byte(i)
	}
	seg, err := NewSegmentReader([]Segment{{Addr: 0x10000, Data: data}})
	require.NoError(t, err)
	counting := &countingReader{mem: seg}
	cached, err := NewCachedReader(counting, 4)
	require.NoError(t, err)

	buf := make([]byte, 8)
	for i := 0; i < 10; i++ {
		_, err := cached.ReadMemory(buf, 0x10010)
		require.NoError(t, err)
	}
	assert.Equal(t, []byte(data[0x10:0x18]), buf)
	assert.Equal(t, 1, counting.reads)
}

func TestCachedReaderCrossesPages(t *testing.T) {
	data := make([]byte, 2*cachePageSize)
	for i := range data {
		data[i] = byte(i)
	}
	seg, err := NewSegmentReader([]Segment{{Addr: 0x10000, Data: data}})
	require.NoError(t, err)
	cached, err := NewCachedReader(seg, 4)
	require.NoError(t, err)

	// Read straddling the first page boundary.
	buf := make([]byte, 16)
	n, err := cached.ReadMemory(buf, 0x10000+uint64(cachePageSize)-8)
	require.NoError(t, err)
	assert.Equal(t, 16, n)
	assert.Equal(t, data[cachePageSize-8:cachePageSize+8], buf)
}

func TestCachedReaderShortSegment(t *testing.T) {
	// The segment is smaller than a cache page; reads inside it must
	// still succeed even though the page itself cannot be filled.
	seg, err := NewSegmentReader([]Segment{{Addr: 0x10000, Data: []byte{1, 2, 3, 4}}})
	require.NoError(t, err)
	cached, err := NewCachedReader(seg, 4)
	require.NoError(t, err)

	buf := make([]byte, 4)
	n, err := cached.ReadMemory(buf, 0x10000)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte{1, 2, 3, 4}, buf)

	_, err = cached.ReadMemory(make([]byte, 1), 0x20000)
	assert.True(t, errors.Is(err, ErrUnmappedAddress))
}
