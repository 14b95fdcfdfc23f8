package target

import (
	"fmt"
	"math"

	"github.com/XtremeXSPC/dsviz/pkg/typeinfo"
)

// Variable is a read-only view of a single debuggee value. Child
// lookups auto-dereference through pointers, like the host debugger's
// own object model does.
type Variable struct {
	Name string
	Addr uint64
	Type *typeinfo.Type

	tgt *Target
}

// Target returns the target this variable belongs to.
func (v *Variable) Target() *Target { return v.tgt }

// TypeName returns the name of the variable's type.
func (v *Variable) TypeName() string { return v.Type.Name }

// Kind returns the layout kind of the variable's type.
func (v *Variable) Kind() typeinfo.Kind { return v.Type.Kind }

// structView resolves the struct this variable gives member access to,
// following a single pointer indirection when needed.
func (v *Variable) structView() (*Variable, error) {
	switch v.Type.Kind {
	case typeinfo.Struct:
		return v, nil
	case typeinfo.Ptr:
		return v.Deref()
	}
	return nil, fmt.Errorf("%s (%s) has no members", v.Name, v.Type.Name)
}

// ChildByName returns the first member matching one of names, probing
// through a pointer if the variable is one. It returns nil when no
// candidate member exists, so callers can chain layout heuristics
// without error plumbing.
func (v *Variable) ChildByName(names ...string) *Variable {
	sv, err := v.structView()
	if err != nil {
		return nil
	}
	for _, name := range names {
		f, ok := sv.Type.FieldByName(name)
		if !ok {
			continue
		}
		child, err := sv.field(f)
		if err != nil {
			return nil
		}
		return child
	}
	return nil
}

// NumChildren returns the number of struct members, 0 for non-structs.
func (v *Variable) NumChildren() int {
	sv, err := v.structView()
	if err != nil {
		return 0
	}
	return len(sv.Type.Fields)
}

// Child returns the i-th struct member.
func (v *Variable) Child(i int) (*Variable, error) {
	sv, err := v.structView()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(sv.Type.Fields) {
		return nil, fmt.Errorf("member index %d out of range for %s", i, sv.Type.Name)
	}
	return sv.field(&sv.Type.Fields[i])
}

func (v *Variable) field(f *typeinfo.Field) (*Variable, error) {
	typ, ok := v.tgt.types.Lookup(f.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %s (member %s of %s)", ErrUnknownType, f.Type, f.Name, v.Type.Name)
	}
	return &Variable{
		Name: f.Name,
		Addr: v.Addr + f.Offset,
		Type: typ,
		tgt:  v.tgt,
	}, nil
}

// Pointer returns the raw pointer value of a pointer variable.
func (v *Variable) Pointer() (uint64, error) {
	if v.Type.Kind != typeinfo.Ptr && v.Type.Kind != typeinfo.CharPtr {
		return 0, fmt.Errorf("%w: %s is %s", ErrNotPointer, v.Name, v.Type.Name)
	}
	return v.tgt.readPointer(v.Addr)
}

// Deref returns the pointee of a pointer variable.
func (v *Variable) Deref() (*Variable, error) {
	if v.Type.Kind != typeinfo.Ptr {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotPointer, v.Name, v.Type.Name)
	}
	ptr, err := v.tgt.readPointer(v.Addr)
	if err != nil {
		return nil, err
	}
	if ptr == 0 {
		return nil, fmt.Errorf("%s is null", v.Name)
	}
	typ, ok := v.tgt.types.Lookup(v.Type.Elem)
	if !ok {
		return nil, fmt.Errorf("%w: %s (pointee of %s)", ErrUnknownType, v.Type.Elem, v.Type.Name)
	}
	return &Variable{Name: v.Name, Addr: ptr, Type: typ, tgt: v.tgt}, nil
}

// Uint reads the variable as an unsigned integer.
func (v *Variable) Uint() (uint64, error) {
	switch v.Type.Kind {
	case typeinfo.Uint, typeinfo.Int, typeinfo.Bool:
		return v.tgt.readUint(v.Addr, v.Type.Size)
	}
	return 0, fmt.Errorf("%w: %s is %s", ErrNotScalar, v.Name, v.Type.Name)
}

// Int reads the variable as a signed integer.
func (v *Variable) Int() (int64, error) {
	if v.Type.Kind != typeinfo.Int && v.Type.Kind != typeinfo.Uint {
		return 0, fmt.Errorf("%w: %s is %s", ErrNotScalar, v.Name, v.Type.Name)
	}
	u, err := v.tgt.readUint(v.Addr, v.Type.Size)
	if err != nil {
		return 0, err
	}
	if v.Type.Kind == typeinfo.Uint {
		return int64(u), nil
	}
	// Sign-extend from the value's actual width.
	shift := 64 - uint(v.Type.Size)*8
	return int64(u<<shift) >> shift, nil
}

// Float reads the variable as a floating point number.
func (v *Variable) Float() (float64, error) {
	if v.Type.Kind != typeinfo.Float {
		return 0, fmt.Errorf("%w: %s is %s", ErrNotScalar, v.Name, v.Type.Name)
	}
	u, err := v.tgt.readUint(v.Addr, v.Type.Size)
	if err != nil {
		return 0, err
	}
	switch v.Type.Size {
	case 4:
		return float64(math.Float32frombits(uint32(u))), nil
	case 8:
		return math.Float64frombits(u), nil
	}
	return 0, fmt.Errorf("unsupported float size %d", v.Type.Size)
}

// Bool reads the variable as a boolean.
func (v *Variable) Bool() (bool, error) {
	if v.Type.Kind != typeinfo.Bool {
		return false, fmt.Errorf("%w: %s is %s", ErrNotScalar, v.Name, v.Type.Name)
	}
	u, err := v.tgt.readUint(v.Addr, v.Type.Size)
	return u != 0, err
}

// CString reads the NUL-terminated string a char* variable points to.
// At most max characters are returned; fullLen is the total string
// length found.
func (v *Variable) CString(max int) (s string, fullLen int, err error) {
	if v.Type.Kind != typeinfo.CharPtr {
		return "", 0, fmt.Errorf("%w: %s is %s", ErrNotPointer, v.Name, v.Type.Name)
	}
	ptr, err := v.tgt.readPointer(v.Addr)
	if err != nil {
		return "", 0, err
	}
	if ptr == 0 {
		return "", 0, nil
	}
	return v.tgt.readCString(ptr, max)
}

// ElemType returns the layout of the pointee/element type.
func (v *Variable) ElemType() (*typeinfo.Type, error) {
	if v.Type.Elem == "" {
		return nil, fmt.Errorf("%s (%s) has no element type", v.Name, v.Type.Name)
	}
	typ, ok := v.tgt.types.Lookup(v.Type.Elem)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, v.Type.Elem)
	}
	return typ, nil
}
