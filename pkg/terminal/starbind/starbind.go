// Package starbind exposes the formatter registry and variable
// inspection to starlark scripts, the way users of the original
// debugger plugin would extend it with their own formatters.
package starbind

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"go.starlark.net/resolve"
	"go.starlark.net/starlark"

	"github.com/XtremeXSPC/dsviz/pkg/logflags"
	"github.com/XtremeXSPC/dsviz/pkg/pretty"
	"github.com/XtremeXSPC/dsviz/pkg/target"
)

const (
	registerSummaryBuiltinName = "register_summary"
	varBuiltinName             = "var"
	summaryBuiltinName         = "summary"
	commandBuiltinName         = "dsviz_command"
	readFileBuiltinName        = "read_file"
	writeFileBuiltinName       = "write_file"
)

func init() {
	resolve.AllowSet = true
	resolve.AllowGlobalReassign = true
	resolve.AllowRecursion = true
}

// Context is the console surface scripts operate on.
type Context interface {
	Registry() *pretty.Registry
	Options() *pretty.Options
	LookupVar(name string) (*target.Variable, bool)
	CallCommand(cmdstr string) error
}

// Env is the environment used to evaluate starlark scripts.
type Env struct {
	ctx Context
	out io.Writer

	env starlark.StringDict

	// Serializes script execution; formatter callbacks run on fresh
	// threads against the frozen module globals instead.
	execMu sync.Mutex
}

// New creates a new starlark binding environment.
func New(ctx Context, out io.Writer) *Env {
	env := &Env{ctx: ctx, out: out}
	env.env = starlark.StringDict{
		registerSummaryBuiltinName: starlark.NewBuiltin(registerSummaryBuiltinName, env.registerSummaryBuiltin),
		varBuiltinName:             starlark.NewBuiltin(varBuiltinName, env.varBuiltin),
		summaryBuiltinName:         starlark.NewBuiltin(summaryBuiltinName, env.summaryBuiltin),
		commandBuiltinName:         starlark.NewBuiltin(commandBuiltinName, env.commandBuiltin),
		readFileBuiltinName:        starlark.NewBuiltin(readFileBuiltinName, readFileBuiltin),
		writeFileBuiltinName:       starlark.NewBuiltin(writeFileBuiltinName, writeFileBuiltin),
	}
	return env
}

func (env *Env) newThread() *starlark.Thread {
	return &starlark.Thread{
		Print: func(_ *starlark.Thread, msg string) {
			fmt.Fprintln(env.out, msg)
		},
	}
}

// Execute runs the script at path. Module globals are frozen when the
// script finishes, which is what makes script-registered formatters
// safe to call later from the web visualizer's handlers.
func (env *Env) Execute(path string) error {
	env.execMu.Lock()
	defer env.execMu.Unlock()
	logflags.ScriptLogger().Debugf("executing %s", path)
	_, err := starlark.ExecFile(env.newThread(), path, nil, env.env)
	if err != nil {
		var evalErr *starlark.EvalError
		if errors.As(err, &evalErr) {
			return errors.New(evalErr.Backtrace())
		}
		return err
	}
	return nil
}

func (env *Env) registerSummaryBuiltin(thread *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var pattern string
	var fn starlark.Callable
	if err := starlark.UnpackArgs(registerSummaryBuiltinName, args, kwargs, "pattern", &pattern, "fn", &fn); err != nil {
		return nil, err
	}
	err := env.ctx.Registry().RegisterSummary(pattern, func(v *target.Variable, opts *pretty.Options) string {
		res, err := starlark.Call(env.newThread(), fn, starlark.Tuple{env.variableValue(v)}, nil)
		if err != nil {
			logflags.ScriptLogger().Errorf("summary function for %q: %v", pattern, err)
			return fmt.Sprintf("Error: script formatter failed: %v", err)
		}
		if s, ok := starlark.AsString(res); ok {
			return s
		}
		return res.String()
	})
	if err != nil {
		return nil, err
	}
	return starlark.None, nil
}

func (env *Env) varBuiltin(thread *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackArgs(varBuiltinName, args, kwargs, "name", &name); err != nil {
		return nil, err
	}
	v, ok := env.ctx.LookupVar(name)
	if !ok {
		return starlark.None, nil
	}
	return env.variableValue(v), nil
}

func (env *Env) summaryBuiltin(thread *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackArgs(summaryBuiltinName, args, kwargs, "name", &name); err != nil {
		return nil, err
	}
	v, ok := env.ctx.LookupVar(name)
	if !ok {
		return nil, fmt.Errorf("no variable named %q", name)
	}
	return starlark.String(env.ctx.Registry().Summary(v, env.ctx.Options())), nil
}

func (env *Env) commandBuiltin(thread *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var cmd string
	if err := starlark.UnpackArgs(commandBuiltinName, args, kwargs, "cmd", &cmd); err != nil {
		return nil, err
	}
	if err := env.ctx.CallCommand(cmd); err != nil {
		return nil, err
	}
	return starlark.None, nil
}

func readFileBuiltin(thread *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var path string
	if err := starlark.UnpackArgs(readFileBuiltinName, args, kwargs, "path", &path); err != nil {
		return nil, err
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return starlark.String(buf), nil
}

func writeFileBuiltin(thread *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var path string
	var data string
	if err := starlark.UnpackArgs(writeFileBuiltinName, args, kwargs, "path", &path, "data", &data); err != nil {
		return nil, err
	}
	return starlark.None, os.WriteFile(path, []byte(data), 0640)
}
