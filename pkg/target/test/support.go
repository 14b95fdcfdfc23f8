// Package test provides helpers for building small debuggee memory
// images used throughout the test suite.
package test

import (
	"encoding/binary"

	"github.com/XtremeXSPC/dsviz/pkg/memory"
	"github.com/XtremeXSPC/dsviz/pkg/target"
	"github.com/XtremeXSPC/dsviz/pkg/typeinfo"
)

// ImageBase is the address at which built images are mapped.
const ImageBase = 0x1000

// ImageBuilder assembles a fake debuggee: a single memory segment plus
// a type layout table. Tests allocate objects, poke field values and
// then materialize a target.Target.
type ImageBuilder struct {
	order   binary.ByteOrder
	ptrSize int
	buf     []byte
	types   []typeinfo.Type
}

// NewImageBuilder returns a little-endian, 64-bit image builder.
func NewImageBuilder() *ImageBuilder {
	return &ImageBuilder{order: binary.LittleEndian, ptrSize: 8}
}

// PointerSize returns the image pointer size.
func (b *ImageBuilder) PointerSize() int { return b.ptrSize }

// AddType registers a type layout.
func (b *ImageBuilder) AddType(typ typeinfo.Type) *ImageBuilder {
	b.types = append(b.types, typ)
	return b
}

// Alloc reserves size bytes and returns their address.
func (b *ImageBuilder) Alloc(size int) uint64 {
	addr := ImageBase + uint64(len(b.buf))
	b.buf = append(b.buf, make([]byte, size)...)
	return addr
}

func (b *ImageBuilder) slot(addr uint64, size int) []byte {
	off := addr - ImageBase
	return b.buf[off : off+uint64(size)]
}

// PutUint writes an unsigned integer of the given byte size at addr.
func (b *ImageBuilder) PutUint(addr uint64, size int, val uint64) {
	s := b.slot(addr, size)
	switch size {
	case 1:
		s[0] = byte(val)
	case 2:
		b.order.PutUint16(s, uint16(val))
	case 4:
		b.order.PutUint32(s, uint32(val))
	case 8:
		b.order.PutUint64(s, val)
	default:
		panic("unsupported scalar size")
	}
}

// PutPointer writes a pointer-sized value at addr.
func (b *ImageBuilder) PutPointer(addr uint64, val uint64) {
	b.PutUint(addr, b.ptrSize, val)
}

// PutBytes copies raw bytes at addr.
func (b *ImageBuilder) PutBytes(addr uint64, data []byte) {
	copy(b.slot(addr, len(data)), data)
}

// CString allocates a NUL-terminated string and returns its address.
func (b *ImageBuilder) CString(s string) uint64 {
	addr := b.Alloc(len(s) + 1)
	b.PutBytes(addr, []byte(s))
	return addr
}

// Target materializes the image into a target with the accumulated
// type table.
func (b *ImageBuilder) Target() (*target.Target, error) {
	mem, err := memory.NewSegmentReader([]memory.Segment{{Addr: ImageBase, Data: b.buf}})
	if err != nil {
		return nil, err
	}
	tbl, err := typeinfo.NewTable(b.types)
	if err != nil {
		return nil, err
	}
	return target.New(mem, tbl, b.ptrSize, b.order)
}

// ScalarTypes registers the basic scalar layouts most fixtures need
// (int, long, double, bool, char*).
func (b *ImageBuilder) ScalarTypes() *ImageBuilder {
	return b.
		AddType(typeinfo.Type{Name: "int", Size: 4, Kind: typeinfo.Int}).
		AddType(typeinfo.Type{Name: "long", Size: 8, Kind: typeinfo.Int}).
		AddType(typeinfo.Type{Name: "unsigned long", Size: 8, Kind: typeinfo.Uint}).
		AddType(typeinfo.Type{Name: "double", Size: 8, Kind: typeinfo.Float}).
		AddType(typeinfo.Type{Name: "bool", Size: 1, Kind: typeinfo.Bool}).
		AddType(typeinfo.Type{Name: "char *", Size: b.ptrSize, Kind: typeinfo.CharPtr})
}
