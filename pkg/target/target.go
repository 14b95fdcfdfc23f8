// Package target binds a debuggee memory image to a type layout table
// and exposes read-only variable views over it. It is the introspection
// surface every formatter is written against; nothing above this
// package touches raw memory.
package target

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"

	"github.com/XtremeXSPC/dsviz/pkg/memory"
	"github.com/XtremeXSPC/dsviz/pkg/typeinfo"
)

var (
	// ErrUnknownType is returned when a variable references a type the
	// layout table does not describe.
	ErrUnknownType = errors.New("unknown type")
	// ErrNoSuchField is returned by field lookups on a type that does
	// not have the member.
	ErrNoSuchField = errors.New("no such member")
	// ErrNotScalar is returned by scalar reads of non-scalar values.
	ErrNotScalar = errors.New("not a scalar value")
	// ErrNotPointer is returned by pointer operations on non-pointers.
	ErrNotPointer = errors.New("not a pointer value")
)

// Target is a read-only view of a suspended debuggee.
type Target struct {
	mem       memory.Reader
	types     *typeinfo.Table
	ptrSize   int
	byteOrder binary.ByteOrder

	roots map[string]*Variable
}

// New returns a Target over the given memory image and type table.
// ptrSize must be 4 or 8.
func New(mem memory.Reader, types *typeinfo.Table, ptrSize int, byteOrder binary.ByteOrder) (*Target, error) {
	if ptrSize != 4 && ptrSize != 8 {
		return nil, fmt.Errorf("unsupported pointer size %d", ptrSize)
	}
	if mem == nil || types == nil {
		return nil, errors.New("target needs a memory reader and a type table")
	}
	return &Target{
		mem:       mem,
		types:     types,
		ptrSize:   ptrSize,
		byteOrder: byteOrder,
		roots:     make(map[string]*Variable),
	}, nil
}

// PointerSize returns the debuggee pointer size in bytes.
func (t *Target) PointerSize() int { return t.ptrSize }

// ByteOrder returns the debuggee byte order.
func (t *Target) ByteOrder() binary.ByteOrder { return t.byteOrder }

// Types returns the type layout table.
func (t *Target) Types() *typeinfo.Table { return t.types }

// NewVariable synthesizes a variable view at addr with the named type.
func (t *Target) NewVariable(name string, addr uint64, typeName string) (*Variable, error) {
	typ, ok := t.types.Lookup(typeName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, typeName)
	}
	return &Variable{Name: name, Addr: addr, Type: typ, tgt: t}, nil
}

// RegisterRoot makes a named variable available to root lookups.
func (t *Target) RegisterRoot(v *Variable) {
	t.roots[v.Name] = v
}

// Root returns the named root variable.
func (t *Target) Root(name string) (*Variable, bool) {
	v, ok := t.roots[name]
	return v, ok
}

// Roots returns all root variables sorted by name.
func (t *Target) Roots() []*Variable {
	names := make([]string, 0, len(t.roots))
	for name := range t.roots {
		names = append(names, name)
	}
	sort.Strings(names)
	vars := make([]*Variable, len(names))
	for i, name := range names {
		vars[i] = t.roots[name]
	}
	return vars
}

func (t *Target) readUint(addr uint64, size int) (uint64, error) {
	buf := make([]byte, size)
	if _, err := t.mem.ReadMemory(buf, addr); err != nil {
		return 0, err
	}
	switch size {
	case 1:
		return uint64(buf[0]), nil
	case 2:
		return uint64(t.byteOrder.Uint16(buf)), nil
	case 4:
		return uint64(t.byteOrder.Uint32(buf)), nil
	case 8:
		return t.byteOrder.Uint64(buf), nil
	}
	return 0, fmt.Errorf("unsupported scalar size %d", size)
}

func (t *Target) readPointer(addr uint64) (uint64, error) {
	return t.readUint(addr, t.ptrSize)
}

// cstringScanCap bounds how far a C string length scan will go past
// the display cap when computing the full length.
const cstringScanCap = 4096

// readCString reads a NUL-terminated string at addr, returning at most
// max characters and the total string length (capped at
// cstringScanCap).
func (t *Target) readCString(addr uint64, max int) (string, int, error) {
	if max <= 0 {
		max = 1
	}
	buf := make([]byte, 0, max)
	total := 0
	chunk := make([]byte, 64)
	for total < cstringScanCap {
		n, err := t.mem.ReadMemory(chunk, addr+uint64(total))
		if n == 0 && err != nil {
			return "", 0, err
		}
		for i := 0; i < n; i++ {
			if chunk[i] == 0 {
				total += i
				if len(buf) < max && i > 0 {
					room := max - len(buf)
					if room > i {
						room = i
					}
					buf = append(buf, chunk[:room]...)
				}
				return string(buf), total, nil
			}
		}
		if len(buf) < max {
			room := max - len(buf)
			if room > n {
				room = n
			}
			buf = append(buf, chunk[:room]...)
		}
		total += n
		if err != nil {
			// String runs off the end of mapped memory.
			return string(buf), total, nil
		}
	}
	return string(buf), total, nil
}
