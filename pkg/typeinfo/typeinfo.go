// Package typeinfo describes the memory layout of debuggee C++ types.
// The host debugger resolves symbols and computes these layouts (from
// DWARF or its own type system); dsviz only consumes them.
package typeinfo

import (
	"fmt"
	"strings"
)

// Kind classifies a type layout.
type Kind int

const (
	Invalid Kind = iota
	Struct
	Ptr
	Int
	Uint
	Float
	Bool
	CharPtr
)

var kindNames = map[string]Kind{
	"struct": Struct,
	"ptr":    Ptr,
	"int":    Int,
	"uint":   Uint,
	"float":  Float,
	"bool":   Bool,
	"cstr":   CharPtr,
}

// ParseKind converts the external kind name used in snapshot files.
func ParseKind(s string) (Kind, error) {
	k, ok := kindNames[strings.ToLower(s)]
	if !ok {
		return Invalid, fmt.Errorf("unknown type kind %q", s)
	}
	return k, nil
}

func (k Kind) String() string {
	for name, kind := range kindNames {
		if kind == k {
			return name
		}
	}
	return "invalid"
}

// Field is a named member of a struct type at a fixed byte offset.
type Field struct {
	Name   string
	Offset uint64
	Type   string
}

// Type is the layout of a single debuggee type.
type Type struct {
	Name string
	Size int
	Kind Kind
	// Fields of a Struct, in declaration order.
	Fields []Field
	// Elem is the pointee type name of a Ptr.
	Elem string
}

// FieldByName returns the field with the given name.
func (t *Type) FieldByName(name string) (*Field, bool) {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i], true
		}
	}
	return nil, false
}

// TemplateArg returns the first template argument of an instantiated
// template type name, e.g. "int" for "Stack<int>". Nested template
// arguments are returned whole.
func TemplateArg(name string) string {
	open := strings.Index(name, "<")
	end := strings.LastIndex(name, ">")
	if open < 0 || end < open {
		return ""
	}
	inner := name[open+1 : end]
	depth := 0
	for i, ch := range inner {
		switch ch {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				return strings.TrimSpace(inner[:i])
			}
		}
	}
	return strings.TrimSpace(inner)
}

// Table maps type names to layouts.
type Table struct {
	types map[string]*Type
}

// NewTable builds a lookup table, validating field and pointee type
// references.
func NewTable(types []Type) (*Table, error) {
	tbl := &Table{types: make(map[string]*Type, len(types))}
	for i := range types {
		typ := types[i]
		if typ.Name == "" {
			return nil, fmt.Errorf("type #%d has no name", i)
		}
		if _, ok := tbl.types[typ.Name]; ok {
			return nil, fmt.Errorf("duplicate type %q", typ.Name)
		}
		if typ.Kind == Struct {
			for _, f := range typ.Fields {
				if uint64(typ.Size) > 0 && f.Offset >= uint64(typ.Size) {
					return nil, fmt.Errorf("field %s.%s at offset %d outside type of size %d", typ.Name, f.Name, f.Offset, typ.Size)
				}
			}
		}
		tbl.types[typ.Name] = &typ
	}
	return tbl, nil
}

// Lookup returns the layout of the named type.
func (tbl *Table) Lookup(name string) (*Type, bool) {
	t, ok := tbl.types[name]
	return t, ok
}

// Names returns all type names in the table, unsorted.
func (tbl *Table) Names() []string {
	names := make([]string, 0, len(tbl.types))
	for name := range tbl.types {
		names = append(names, name)
	}
	return names
}
