package starbind_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XtremeXSPC/dsviz/pkg/pretty"
	"github.com/XtremeXSPC/dsviz/pkg/target"
	"github.com/XtremeXSPC/dsviz/pkg/target/test"
	"github.com/XtremeXSPC/dsviz/pkg/terminal/starbind"
	"github.com/XtremeXSPC/dsviz/pkg/typeinfo"
)

type fakeContext struct {
	tgt      *target.Target
	registry *pretty.Registry
	commands []string
}

func (ctx *fakeContext) Registry() *pretty.Registry { return ctx.registry }
func (ctx *fakeContext) Options() *pretty.Options   { return pretty.DefaultOptions() }

func (ctx *fakeContext) LookupVar(name string) (*target.Variable, bool) {
	return ctx.tgt.Root(name)
}

func (ctx *fakeContext) CallCommand(cmdstr string) error {
	ctx.commands = append(ctx.commands, cmdstr)
	return nil
}

func stackTarget(t *testing.T) *target.Target {
	t.Helper()
	b := test.NewImageBuilder().ScalarTypes().
		AddType(typeinfo.Type{Name: "Node<int>", Size: 16, Kind: typeinfo.Struct, Fields: []typeinfo.Field{
			{Name: "value", Offset: 0, Type: "int"},
			{Name: "next", Offset: 8, Type: "Node<int> *"},
		}}).
		AddType(typeinfo.Type{Name: "Node<int> *", Size: 8, Kind: typeinfo.Ptr, Elem: "Node<int>"}).
		AddType(typeinfo.Type{Name: "Stack<int>", Size: 16, Kind: typeinfo.Struct, Fields: []typeinfo.Field{
			{Name: "top", Offset: 0, Type: "Node<int> *"},
			{Name: "count", Offset: 8, Type: "int"},
		}})

	container := b.Alloc(16)
	n1 := b.Alloc(16)
	n2 := b.Alloc(16)
	b.PutPointer(container, n1)
	b.PutUint(container+8, 4, 2)
	b.PutUint(n1, 4, 1)
	b.PutPointer(n1+8, n2)
	b.PutUint(n2, 4, 2)

	tgt, err := b.Target()
	require.NoError(t, err)
	s, err := tgt.NewVariable("stack", container, "Stack<int>")
	require.NoError(t, err)
	tgt.RegisterRoot(s)
	return tgt
}

func newEnv(t *testing.T) (*starbind.Env, *fakeContext, *bytes.Buffer) {
	t.Helper()
	ctx := &fakeContext{tgt: stackTarget(t), registry: pretty.NewDefaultRegistry()}
	out := new(bytes.Buffer)
	return starbind.New(ctx, out), ctx, out
}

func execScript(t *testing.T, env *starbind.Env, script string) error {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.star")
	require.NoError(t, os.WriteFile(path, []byte(script), 0644))
	return env.Execute(path)
}

func TestVariableAccess(t *testing.T) {
	env, _, out := newEnv(t)
	err := execScript(t, env, `
v = var("stack")
print(v.name)
print(v.type_name)
print(v.num_children)
top = v.child("top")
print(top.type_name)
node = top.deref()
print(node.child("value").int())
print(summary("stack"))
`)
	require.NoError(t, err)
	assert.Equal(t, `stack
Stack<int>
2
Node<int> *
1
size = 2, [1 -> 2]
`, out.String())
}

func TestVarMissing(t *testing.T) {
	env, _, out := newEnv(t)
	err := execScript(t, env, `print(var("missing"))`)
	require.NoError(t, err)
	assert.Equal(t, "None\n", out.String())
}

func TestRegisterSummary(t *testing.T) {
	env, ctx, _ := newEnv(t)
	err := execScript(t, env, `
def fmt(v):
    return "custom " + v.type_name

register_summary("^Stack<.*>$", fmt)
`)
	require.NoError(t, err)

	v, ok := ctx.tgt.Root("stack")
	require.True(t, ok)
	assert.Equal(t, "custom Stack<int>", ctx.registry.Summary(v, pretty.DefaultOptions()))
}

func TestRegisterSummaryCallbackError(t *testing.T) {
	env, ctx, _ := newEnv(t)
	err := execScript(t, env, `
def bad(v):
    fail("boom")

register_summary("^Stack<.*>$", bad)
`)
	require.NoError(t, err)

	v, ok := ctx.tgt.Root("stack")
	require.True(t, ok)
	out := ctx.registry.Summary(v, pretty.DefaultOptions())
	assert.Contains(t, out, "Error: script formatter failed:")
}

func TestCommandBuiltin(t *testing.T) {
	env, ctx, _ := newEnv(t)
	err := execScript(t, env, `dsviz_command("tree stack")`)
	require.NoError(t, err)
	assert.Equal(t, []string{"tree stack"}, ctx.commands)
}

func TestFileBuiltins(t *testing.T) {
	env, _, out := newEnv(t)
	path := filepath.Join(t.TempDir(), "note.txt")
	err := execScript(t, env, fmt.Sprintf(`
write_file(%q, "hello from starlark")
print(read_file(%q))
`, path, path))
	require.NoError(t, err)
	assert.Equal(t, "hello from starlark\n", out.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello from starlark", string(data))
}

func TestExecuteReportsBacktrace(t *testing.T) {
	env, _, _ := newEnv(t)
	err := execScript(t, env, `
def boom():
    fail("kaput")

boom()
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaput")
}

func TestExecuteBadSyntax(t *testing.T) {
	env, _, _ := newEnv(t)
	assert.Error(t, execScript(t, env, `def (`))
}
