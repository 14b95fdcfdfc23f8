// Package memory provides read-only access to a debuggee's memory
// image. The host debugger (or a snapshot exported by it) supplies the
// bytes; everything above this package sees only the Reader interface.
package memory

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnmappedAddress is returned when a read touches an address for
// which no memory is available.
var ErrUnmappedAddress = errors.New("unmapped memory address")

// Reader reads debuggee memory.
type Reader interface {
	// ReadMemory reads len(buf) bytes at addr. Short reads return an
	// error alongside the number of bytes actually read.
	ReadMemory(buf []byte, addr uint64) (int, error)
}

// Segment is a contiguous range of debuggee memory.
type Segment struct {
	Addr uint64
	Data []byte
}

func (s *Segment) contains(addr uint64) bool {
	return addr >= s.Addr && addr < s.Addr+uint64(len(s.Data))
}

// SegmentReader serves reads from a sparse set of memory segments,
// typically the interesting regions a host debugger exported.
type SegmentReader struct {
	segments []Segment
}

// NewSegmentReader returns a SegmentReader over the given segments.
// Overlapping segments are rejected.
func NewSegmentReader(segments []Segment) (*SegmentReader, error) {
	segs := make([]Segment, len(segments))
	copy(segs, segments)
	sort.Slice(segs, func(i, j int) bool { return segs[i].Addr < segs[j].Addr })
	for i := 1; i < len(segs); i++ {
		prev := &segs[i-1]
		if segs[i].Addr < prev.Addr+uint64(len(prev.Data)) {
			return nil, fmt.Errorf("segment at %#x overlaps segment at %#x", segs[i].Addr, prev.Addr)
		}
	}
	return &SegmentReader{segments: segs}, nil
}

// ReadMemory implements Reader.
func (r *SegmentReader) ReadMemory(buf []byte, addr uint64) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	i := sort.Search(len(r.segments), func(i int) bool {
		s := &r.segments[i]
		return addr < s.Addr+uint64(len(s.Data))
	})
	if i >= len(r.segments) || !r.segments[i].contains(addr) {
		return 0, fmt.Errorf("read %d bytes at %#x: %w", len(buf), addr, ErrUnmappedAddress)
	}
	s := &r.segments[i]
	off := addr - s.Addr
	n := copy(buf, s.Data[off:])
	if n < len(buf) {
		// The rest of the read may continue in the next segment if it
		// is exactly adjacent.
		m, err := r.ReadMemory(buf[n:], addr+uint64(n))
		return n + m, err
	}
	return n, nil
}
