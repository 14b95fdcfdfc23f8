package terminal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/derekparker/trie"
	"github.com/go-delve/liner"

	"github.com/XtremeXSPC/dsviz/pkg/config"
	"github.com/XtremeXSPC/dsviz/pkg/pretty"
	"github.com/XtremeXSPC/dsviz/pkg/target"
	"github.com/XtremeXSPC/dsviz/pkg/terminal/starbind"
	"github.com/XtremeXSPC/dsviz/pkg/vizserver"
)

const historyFile string = ".dsviz_history"

// Term represents the terminal running the dsviz console.
type Term struct {
	tgt      *target.Target
	registry *pretty.Registry
	conf     *config.Config
	prompt   string
	line     *liner.State
	cmds     *Commands
	dumb     bool
	stdout   io.Writer
	InitFile string

	starlarkEnv *starbind.Env
	vizServer   *vizserver.Server
}

// New returns a new Term.
func New(tgt *target.Target, conf *config.Config) *Term {
	cmds := ConsoleCommands()
	if conf != nil && conf.Aliases != nil {
		cmds.Merge(conf.Aliases)
	}
	if conf == nil {
		conf = &config.Config{}
	}

	var w io.Writer

	dumb := strings.ToLower(os.Getenv("TERM")) == "dumb"
	if dumb {
		w = os.Stdout
	} else {
		w = getColorableWriter()
	}

	t := &Term{
		tgt:      tgt,
		registry: pretty.NewDefaultRegistry(),
		conf:     conf,
		prompt:   "(dsviz) ",
		line:     liner.NewLiner(),
		cmds:     cmds,
		dumb:     dumb,
		stdout:   w,
	}
	t.starlarkEnv = starbind.New(starlarkContext{t}, w)
	return t
}

// Close returns the terminal to its previous mode.
func (t *Term) Close() {
	if t.vizServer != nil {
		_ = t.vizServer.Stop()
		t.vizServer = nil
	}
	t.line.Close()
}

// Registry returns the formatter registry of this session.
func (t *Term) Registry() *pretty.Registry {
	return t.registry
}

// useColors resolves the colors configuration option against the
// output device.
func (t *Term) useColors() bool {
	switch t.conf.Colors {
	case config.ColorsOn:
		return true
	case config.ColorsOff:
		return false
	}
	return !t.dumb && isTerminal()
}

// prettyOptions resolves the session configuration into formatter
// options for one formatting call.
func (t *Term) prettyOptions() *pretty.Options {
	sty := pretty.Plain
	if t.useColors() {
		sty = pretty.Colored
	}
	return &pretty.Options{
		MaxItems:      t.conf.SummaryMaxItemsOrDefault(),
		MaxStringLen:  t.conf.MaxStringLenOrDefault(),
		MaxDepth:      t.conf.MaxTraversalDepthOrDefault(),
		MaxGraphNodes: t.conf.MaxGraphNodesOrDefault(),
		Style:         sty,
	}
}

// completer offers command name completions for the first word and
// root variable names afterwards.
func (t *Term) completer() func(line string) []string {
	cmdTrie := trie.New()
	for _, cmd := range t.cmds.cmds {
		for _, alias := range cmd.aliases {
			cmdTrie.Add(alias, nil)
		}
	}
	varTrie := trie.New()
	for _, v := range t.tgt.Roots() {
		varTrie.Add(v.Name, nil)
	}

	return func(line string) []string {
		if space := strings.LastIndex(line, " "); space >= 0 {
			head, word := line[:space+1], line[space+1:]
			matches := varTrie.PrefixSearch(word)
			out := make([]string, len(matches))
			for i, m := range matches {
				out[i] = head + m
			}
			return out
		}
		return cmdTrie.PrefixSearch(line)
	}
}

// Run begins the interactive command loop.
func (t *Term) Run() (int, error) {
	defer t.Close()

	t.line.SetCompleter(t.completer())

	fullHistoryFile, err := config.GetConfigFilePath(historyFile)
	if err != nil {
		fmt.Printf("Unable to load history file: %v.\n", err)
	}
	f, err := os.Open(fullHistoryFile)
	if err == nil {
		_, _ = t.line.ReadHistory(f)
		f.Close()
	}

	if t.InitFile != "" {
		err := t.cmds.executeFile(t, t.InitFile)
		if err != nil {
			if _, ok := err.(ExitRequestError); ok {
				return 0, nil
			}
			fmt.Fprintf(os.Stderr, "Error executing init file: %v\n", err)
		}
	}

	for {
		cmdstr, err := t.promptForInput()
		if err != nil {
			if err == io.EOF {
				fmt.Fprintln(t.stdout, "exit")
				break
			}
			return 1, fmt.Errorf("prompt for input failed: %w", err)
		}

		if err := t.cmds.Call(cmdstr, t); err != nil {
			if err == errExit {
				break
			}
			if _, ok := err.(ExitRequestError); ok {
				break
			}
			fmt.Fprintf(os.Stderr, "Command failed: %v\n", err)
		}
	}
	return 0, nil
}

// Substitutes directory to the history file.
func (t *Term) promptForInput() (string, error) {
	l, err := t.line.Prompt(t.prompt)
	if err != nil {
		return "", err
	}
	l = strings.TrimSuffix(l, "\n")
	if l != "" {
		t.line.AppendHistory(l)
		t.saveHistory()
	}
	return l, nil
}

func (t *Term) saveHistory() {
	fullHistoryFile, err := config.GetConfigFilePath(historyFile)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(fullHistoryFile), 0700); err != nil {
		return
	}
	f, err := os.Create(fullHistoryFile)
	if err != nil {
		return
	}
	_, _ = t.line.WriteHistory(f)
	f.Close()
}

// ExitRequestError is returned when the user exits the console through
// an init file or script.
type ExitRequestError struct{}

func (ere ExitRequestError) Error() string {
	return ""
}

// executeFile runs the commands in path, one per line. Empty lines and
// lines beginning with # are skipped.
func (c *Commands) executeFile(t *Term, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	for lineno, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line[0] == '#' {
			continue
		}
		if err := c.Call(line, t); err != nil {
			if err == errExit {
				return ExitRequestError{}
			}
			fmt.Fprintf(os.Stderr, "%s:%d: %v\n", path, lineno+1, err)
		}
	}
	return nil
}

// starlarkContext adapts Term to the scripting environment contract.
type starlarkContext struct {
	t *Term
}

func (ctx starlarkContext) Registry() *pretty.Registry {
	return ctx.t.registry
}

func (ctx starlarkContext) Options() *pretty.Options {
	opts := *ctx.t.prettyOptions()
	opts.Style = pretty.Plain
	return &opts
}

func (ctx starlarkContext) LookupVar(name string) (*target.Variable, bool) {
	return ctx.t.tgt.Root(name)
}

func (ctx starlarkContext) CallCommand(cmdstr string) error {
	return ctx.t.cmds.Call(cmdstr, ctx.t)
}
