// Package snapshot loads debug-session snapshots: the memory segments,
// type layouts and root variables a host debugger exported for
// offline rendering.
package snapshot

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"

	"github.com/XtremeXSPC/dsviz/pkg/memory"
	"github.com/XtremeXSPC/dsviz/pkg/target"
	"github.com/XtremeXSPC/dsviz/pkg/typeinfo"
)

// cachePages is the size of the page cache put in front of the
// segment reader.
const cachePages = 128

type rawSegment struct {
	Addr uint64 `json:"addr"`
	Data string `json:"data"`
}

type rawField struct {
	Name   string `json:"name"`
	Offset uint64 `json:"offset"`
	Type   string `json:"type"`
}

type rawType struct {
	Name   string     `json:"name"`
	Size   int        `json:"size"`
	Kind   string     `json:"kind"`
	Elem   string     `json:"elem,omitempty"`
	Fields []rawField `json:"fields,omitempty"`
}

type rawRoot struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Addr uint64 `json:"addr"`
}

type rawSnapshot struct {
	Endianness  string       `json:"endianness"`
	PointerSize int          `json:"pointer_size"`
	Segments    []rawSegment `json:"segments"`
	Types       []rawType    `json:"types"`
	Roots       []rawRoot    `json:"roots"`
}

// Load reads a snapshot file and materializes a target with its root
// variables registered.
func Load(path string) (*target.Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse materializes a target from raw snapshot JSON.
func Parse(data []byte) (*target.Target, error) {
	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("malformed snapshot: %w", err)
	}

	var byteOrder binary.ByteOrder
	switch raw.Endianness {
	case "", "little":
		byteOrder = binary.LittleEndian
	case "big":
		byteOrder = binary.BigEndian
	default:
		return nil, fmt.Errorf("unknown endianness %q", raw.Endianness)
	}
	ptrSize := raw.PointerSize
	if ptrSize == 0 {
		ptrSize = 8
	}

	segments := make([]memory.Segment, 0, len(raw.Segments))
	for i, seg := range raw.Segments {
		blob, err := base64.StdEncoding.DecodeString(seg.Data)
		if err != nil {
			return nil, fmt.Errorf("segment #%d: %w", i, err)
		}
		segments = append(segments, memory.Segment{Addr: seg.Addr, Data: blob})
	}
	segReader, err := memory.NewSegmentReader(segments)
	if err != nil {
		return nil, err
	}
	mem, err := memory.NewCachedReader(segReader, cachePages)
	if err != nil {
		return nil, err
	}

	types := make([]typeinfo.Type, 0, len(raw.Types))
	for _, rt := range raw.Types {
		kind, err := typeinfo.ParseKind(rt.Kind)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", rt.Name, err)
		}
		typ := typeinfo.Type{Name: rt.Name, Size: rt.Size, Kind: kind, Elem: rt.Elem}
		for _, f := range rt.Fields {
			typ.Fields = append(typ.Fields, typeinfo.Field{Name: f.Name, Offset: f.Offset, Type: f.Type})
		}
		types = append(types, typ)
	}
	table, err := typeinfo.NewTable(types)
	if err != nil {
		return nil, err
	}

	tgt, err := target.New(mem, table, ptrSize, byteOrder)
	if err != nil {
		return nil, err
	}
	for _, root := range raw.Roots {
		v, err := tgt.NewVariable(root.Name, root.Addr, root.Type)
		if err != nil {
			return nil, fmt.Errorf("root %s: %w", root.Name, err)
		}
		tgt.RegisterRoot(v)
	}
	return tgt, nil
}
