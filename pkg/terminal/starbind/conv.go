package starbind

import (
	"fmt"
	"sort"

	"go.starlark.net/starlark"

	"github.com/XtremeXSPC/dsviz/pkg/target"
)

// variableValue wraps a target variable as a starlark value so summary
// functions written in starlark can walk the debuggee the same way the
// built-in formatters do.
type variableValue struct {
	v   *target.Variable
	env *Env
}

func (env *Env) variableValue(v *target.Variable) variableValue {
	return variableValue{v: v, env: env}
}

func (vv variableValue) String() string {
	return fmt.Sprintf("<variable %s %s>", vv.v.Name, vv.v.TypeName())
}

func (vv variableValue) Type() string          { return "variable" }
func (vv variableValue) Freeze()               {}
func (vv variableValue) Truth() starlark.Bool  { return starlark.True }
func (vv variableValue) Hash() (uint32, error) { return uint32(vv.v.Addr), nil }

var variableAttrNames = []string{
	"addr",
	"child",
	"children",
	"cstr",
	"deref",
	"float",
	"int",
	"name",
	"num_children",
	"summary",
	"type_name",
	"uint",
}

func (vv variableValue) AttrNames() []string {
	names := make([]string, len(variableAttrNames))
	copy(names, variableAttrNames)
	sort.Strings(names)
	return names
}

func (vv variableValue) Attr(name string) (starlark.Value, error) {
	switch name {
	case "name":
		return starlark.String(vv.v.Name), nil
	case "type_name":
		return starlark.String(vv.v.TypeName()), nil
	case "addr":
		return starlark.MakeUint64(vv.v.Addr), nil
	case "num_children":
		return starlark.MakeInt(vv.v.NumChildren()), nil
	case "summary":
		return starlark.String(vv.env.ctx.Registry().Summary(vv.v, vv.env.ctx.Options())), nil
	case "children":
		n := vv.v.NumChildren()
		elems := make([]starlark.Value, 0, n)
		for i := 0; i < n; i++ {
			child, err := vv.v.Child(i)
			if err != nil {
				return nil, err
			}
			elems = append(elems, vv.env.variableValue(child))
		}
		return starlark.NewList(elems), nil
	case "child":
		return starlark.NewBuiltin("child", vv.childBuiltin), nil
	case "deref":
		return starlark.NewBuiltin("deref", vv.derefBuiltin), nil
	case "uint":
		return starlark.NewBuiltin("uint", vv.uintBuiltin), nil
	case "int":
		return starlark.NewBuiltin("int", vv.intBuiltin), nil
	case "float":
		return starlark.NewBuiltin("float", vv.floatBuiltin), nil
	case "cstr":
		return starlark.NewBuiltin("cstr", vv.cstrBuiltin), nil
	}
	return nil, nil
}

func (vv variableValue) childBuiltin(thread *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackArgs("child", args, kwargs, "name", &name); err != nil {
		return nil, err
	}
	child := vv.v.ChildByName(name)
	if child == nil {
		return starlark.None, nil
	}
	return vv.env.variableValue(child), nil
}

func (vv variableValue) derefBuiltin(thread *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs("deref", args, kwargs); err != nil {
		return nil, err
	}
	pointee, err := vv.v.Deref()
	if err != nil {
		return nil, err
	}
	return vv.env.variableValue(pointee), nil
}

func (vv variableValue) uintBuiltin(thread *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs("uint", args, kwargs); err != nil {
		return nil, err
	}
	n, err := vv.v.Uint()
	if err != nil {
		return nil, err
	}
	return starlark.MakeUint64(n), nil
}

func (vv variableValue) intBuiltin(thread *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs("int", args, kwargs); err != nil {
		return nil, err
	}
	n, err := vv.v.Int()
	if err != nil {
		return nil, err
	}
	return starlark.MakeInt64(n), nil
}

func (vv variableValue) floatBuiltin(thread *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs("float", args, kwargs); err != nil {
		return nil, err
	}
	f, err := vv.v.Float()
	if err != nil {
		return nil, err
	}
	return starlark.Float(f), nil
}

func (vv variableValue) cstrBuiltin(thread *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var max = 4096
	if err := starlark.UnpackArgs("cstr", args, kwargs, "max?", &max); err != nil {
		return nil, err
	}
	s, _, err := vv.v.CString(max)
	if err != nil {
		return nil, err
	}
	return starlark.String(s), nil
}
