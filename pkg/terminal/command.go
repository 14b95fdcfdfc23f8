// Package terminal implements the interactive console: it reads user
// commands and dispatches them to the formatting and export layers.
package terminal

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/cosiner/argv"

	"github.com/XtremeXSPC/dsviz/pkg/config"
	"github.com/XtremeXSPC/dsviz/pkg/dotexport"
	"github.com/XtremeXSPC/dsviz/pkg/pretty"
	"github.com/XtremeXSPC/dsviz/pkg/target"
	"github.com/XtremeXSPC/dsviz/pkg/vizserver"
)

type cmdfunc func(t *Term, args string) error

type command struct {
	aliases []string
	group   commandGroup
	helpMsg string
	cmdFn   cmdfunc
}

// Returns true if the command string matches one of the aliases for this command
func (c command) match(cmdstr string) bool {
	for _, v := range c.aliases {
		if v == cmdstr {
			return true
		}
	}
	return false
}

// Commands represents the commands for the dsviz console.
type Commands struct {
	cmds []command
}

var errNoCmd = errors.New("command not available")

// errExit is returned by the exit command to terminate the REPL.
var errExit = errors.New("exit")

// ConsoleCommands returns a Commands struct with default commands defined.
func ConsoleCommands() *Commands {
	c := &Commands{}

	c.cmds = []command{
		{aliases: []string{"help", "h"}, cmdFn: c.help, helpMsg: `Prints the help message.

	help [command]

Type "help" followed by the name of a command for more information about it.`},
		{aliases: []string{"vars"}, group: dataCmds, cmdFn: vars, helpMsg: `Print all root variables of the session with their summaries.

	vars [<regex>]

If regex is specified only root variables with a matching name are printed.`},
		{aliases: []string{"summary", "print", "p"}, group: dataCmds, cmdFn: summary, helpMsg: `Print the one-line summary of a variable.

	summary <variable>

The variable's type is matched against the registered formatter patterns;
unrecognized layouts fall back to a generic rendering.`},
		{aliases: []string{"children"}, group: dataCmds, cmdFn: children, helpMsg: `Print the synthetic children of a container variable.

	children <variable>

For recognized containers the children are the ordered elements; for plain
structs they are the struct members.`},
		{aliases: []string{"tree"}, group: dataCmds, cmdFn: tree, helpMsg: `Render a structure as an indented console tree.

	tree <variable>`},
		{aliases: []string{"types"}, group: dataCmds, cmdFn: types, helpMsg: `Print the registered formatter patterns and the known type layouts.

	types [-v]

With -v the full type layout table of the snapshot is printed as well.`},
		{aliases: []string{"dot"}, group: exportCmds, cmdFn: dotCmd, helpMsg: `Export a structure as a Graphviz DOT graph.

	dot <variable> [-o <file>]

Without -o the graph is written to standard output. Render it with e.g.:

	dot -Tsvg out.dot > out.svg`},
		{aliases: []string{"serve"}, group: exportCmds, cmdFn: serve, helpMsg: `Start or stop the web visualizer.

	serve [-listen <addr>]
	serve stop

Starts a web server (default address from the listen-addr configuration)
that lists the session variables and draws the selected structure.`},
		{aliases: []string{"source"}, group: configCmds, cmdFn: source, helpMsg: `Executes a starlark script.

	source <path>

Scripts can register additional summary patterns with register_summary;
see the scripting documentation for the available builtins.`},
		{aliases: []string{"config"}, group: configCmds, cmdFn: configureCmd, helpMsg: `Changes configuration parameters.

	config -list

Show all configuration parameters.

	config -save

Saves the configuration file to disk, overwriting the current configuration file.

	config <parameter> <value>

Changes the value of a configuration parameter.

	config summary-max-items 16
	config colors off
	config aliases alias-name command-name`},
		{aliases: []string{"exit", "quit", "q"}, cmdFn: exitCommand, helpMsg: `Exit the console.`},
	}

	sort.Sort(byFirstAlias(c.cmds))
	return c
}

// byFirstAlias will sort by the first
// alias of a command.
type byFirstAlias []command

func (a byFirstAlias) Len() int           { return len(a) }
func (a byFirstAlias) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byFirstAlias) Less(i, j int) bool { return a[i].aliases[0] < a[j].aliases[0] }

// Register custom commands. Expects cf to be a func of type cmdfunc,
// returning only an error.
func (c *Commands) Register(cmdstr string, cf cmdfunc, helpMsg string) {
	for _, v := range c.cmds {
		if v.match(cmdstr) {
			v.cmdFn = cf
			return
		}
	}
	c.cmds = append(c.cmds, command{aliases: []string{cmdstr}, cmdFn: cf, helpMsg: helpMsg})
}

// Find will look up the command function for the given command input.
// If it cannot find the command it will default to noCmdAvailable().
func (c *Commands) Find(cmdstr string) cmdfunc {
	// If <enter> use last command, if there was one.
	if cmdstr == "" {
		return nullCommand
	}

	for _, v := range c.cmds {
		if v.match(cmdstr) {
			return v.cmdFn
		}
	}

	return noCmdAvailable
}

// Call takes a command to execute.
func (c *Commands) Call(cmdstr string, t *Term) error {
	vals := strings.SplitN(strings.TrimSpace(cmdstr), " ", 2)
	cmdname := vals[0]
	var args string
	if len(vals) > 1 {
		args = strings.TrimSpace(vals[1])
	}
	return c.Find(cmdname)(t, args)
}

// Merge takes aliases defined in the config struct and merges them with the default aliases.
func (c *Commands) Merge(allAliases map[string][]string) {
	for i := range c.cmds {
		if aliases, ok := allAliases[c.cmds[i].aliases[0]]; ok {
			c.cmds[i].aliases = append(c.cmds[i].aliases, aliases...)
		}
	}
}

func noCmdAvailable(t *Term, args string) error {
	return errNoCmd
}

func nullCommand(t *Term, args string) error {
	return nil
}

func (c *Commands) help(t *Term, args string) error {
	if args != "" {
		for _, cmd := range c.cmds {
			for _, alias := range cmd.aliases {
				if alias == args {
					fmt.Fprintln(t.stdout, cmd.helpMsg)
					return nil
				}
			}
		}
		return errNoCmd
	}

	fmt.Fprintln(t.stdout, "The following commands are available:")

	for _, cgd := range commandGroupDescriptions {
		fmt.Fprintf(t.stdout, "\n%s:\n", cgd.description)
		w := new(tabwriter.Writer)
		w.Init(t.stdout, 0, 8, 0, '-', 0)
		for _, cmd := range c.cmds {
			if cmd.group != cgd.group {
				continue
			}
			h := cmd.helpMsg
			if idx := strings.Index(h, "\n"); idx >= 0 {
				h = h[:idx]
			}
			if len(cmd.aliases) > 1 {
				fmt.Fprintf(w, "    %s (alias: %s) \t %s\n", cmd.aliases[0], strings.Join(cmd.aliases[1:], " | "), h)
			} else {
				fmt.Fprintf(w, "    %s \t %s\n", cmd.aliases[0], h)
			}
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintln(t.stdout)
	fmt.Fprintln(t.stdout, "Type help followed by a command for full documentation.")
	return nil
}

func vars(t *Term, args string) error {
	filter := strings.TrimSpace(args)
	roots := t.tgt.Roots()
	w := new(tabwriter.Writer)
	w.Init(t.stdout, 0, 8, 1, ' ', 0)
	opts := t.prettyOptions()
	for _, v := range roots {
		if filter != "" && !strings.Contains(v.Name, filter) {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", v.Name, v.TypeName(), t.registry.Summary(v, opts))
	}
	return w.Flush()
}

func summary(t *Term, args string) error {
	v, err := t.lookupVar(args)
	if err != nil {
		return err
	}
	fmt.Fprintln(t.stdout, t.registry.Summary(v, t.prettyOptions()))
	return nil
}

func children(t *Term, args string) error {
	v, err := t.lookupVar(args)
	if err != nil {
		return err
	}
	opts := t.prettyOptions()
	kids, err := t.registry.Children(v, opts)
	if err != nil {
		return err
	}
	w := new(tabwriter.Writer)
	w.Init(t.stdout, 0, 8, 1, ' ', 0)
	for _, child := range kids {
		fmt.Fprintf(w, "%s\t%s\t%s\n", child.Name, child.TypeName(), t.registry.Summary(child, opts))
	}
	return w.Flush()
}

func tree(t *Term, args string) error {
	v, err := t.lookupVar(args)
	if err != nil {
		return err
	}
	out, err := pretty.RenderConsoleTree(t.registry, v, t.prettyOptions())
	if err != nil {
		return err
	}
	fmt.Fprint(t.stdout, out)
	return nil
}

func types(t *Term, args string) error {
	fmt.Fprintln(t.stdout, "Registered formatter patterns (in priority order):")
	for _, pattern := range t.registry.Patterns() {
		fmt.Fprintf(t.stdout, "\t%s\n", pattern)
	}
	if strings.TrimSpace(args) != "-v" {
		return nil
	}
	names := t.tgt.Types().Names()
	sort.Strings(names)
	fmt.Fprintln(t.stdout, "\nKnown type layouts:")
	w := new(tabwriter.Writer)
	w.Init(t.stdout, 0, 8, 1, ' ', 0)
	for _, name := range names {
		typ, _ := t.tgt.Types().Lookup(name)
		fmt.Fprintf(w, "\t%s\t%s\t%d bytes\n", name, typ.Kind, typ.Size)
	}
	return w.Flush()
}

func dotCmd(t *Term, args string) error {
	v, err := argv.Argv(args,
		func(s string) (string, error) {
			return "", fmt.Errorf("backtick not supported in '%s'", s)
		},
		nil)
	if err != nil {
		return err
	}
	if len(v) != 1 || len(v[0]) == 0 {
		return errors.New("wrong number of arguments to \"dot\"")
	}
	w := v[0]

	var varName, outPath string
	for i := 0; i < len(w); i++ {
		switch {
		case w[i] == "-o":
			if i+1 >= len(w) {
				return errors.New("-o needs an argument")
			}
			i++
			outPath = w[i]
		case varName == "":
			varName = w[i]
		default:
			return fmt.Errorf("unexpected argument %q", w[i])
		}
	}

	variable, err := t.lookupVar(varName)
	if err != nil {
		return err
	}
	outline, err := pretty.BuildOutline(t.registry, variable, t.prettyOptions())
	if err != nil {
		return err
	}

	rankdir := t.conf.DotRankDirOrDefault()
	if outPath == "" {
		return dotexport.Write(t.stdout, outline, rankdir)
	}
	fh, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer fh.Close()
	if err := dotexport.Write(fh, outline, rankdir); err != nil {
		return err
	}
	fmt.Fprintf(t.stdout, "Wrote %s\n", outPath)
	return nil
}

func serve(t *Term, args string) error {
	fields := strings.Fields(args)
	if len(fields) == 1 && fields[0] == "stop" {
		if t.vizServer == nil {
			return errors.New("the web visualizer is not running")
		}
		err := t.vizServer.Stop()
		t.vizServer = nil
		fmt.Fprintln(t.stdout, "Web visualizer stopped.")
		return err
	}

	if t.vizServer != nil {
		fmt.Fprintf(t.stdout, "Web visualizer already running on http://%s/\n", t.vizServer.Addr())
		return nil
	}

	addr := t.conf.ListenAddrOrDefault()
	for i := 0; i < len(fields); i++ {
		switch fields[i] {
		case "-listen":
			if i+1 >= len(fields) {
				return errors.New("-listen needs an argument")
			}
			i++
			addr = fields[i]
		default:
			return fmt.Errorf("unexpected argument %q", fields[i])
		}
	}

	plain := *t.prettyOptions()
	plain.Style = pretty.Plain
	srv, err := vizserver.New(&vizserver.Config{
		Target:   t.tgt,
		Registry: t.registry,
		Options:  &plain,
	}, addr)
	if err != nil {
		return err
	}
	t.vizServer = srv
	go func() {
		if err := srv.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "web visualizer: %v\n", err)
		}
	}()
	fmt.Fprintf(t.stdout, "Web visualizer running on http://%s/\n", srv.Addr())
	return nil
}

func source(t *Term, args string) error {
	fields := config.SplitQuotedFields(args, '\'')
	if len(fields) != 1 {
		return errors.New("wrong number of arguments to \"source\"")
	}
	path := fields[0]
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			path = strings.Replace(path, "~", home, 1)
		}
	}
	return t.starlarkEnv.Execute(path)
}

func exitCommand(t *Term, args string) error {
	return errExit
}

func (t *Term) lookupVar(args string) (*target.Variable, error) {
	name := strings.TrimSpace(args)
	if name == "" {
		return nil, errors.New("expected a variable name")
	}
	v, ok := t.tgt.Root(name)
	if !ok {
		return nil, fmt.Errorf("no variable named %q (use \"vars\" to list them)", name)
	}
	return v, nil
}
