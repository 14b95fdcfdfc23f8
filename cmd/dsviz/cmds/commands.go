// Package cmds implements the dsviz command line interface.
package cmds

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/XtremeXSPC/dsviz/pkg/config"
	"github.com/XtremeXSPC/dsviz/pkg/dotexport"
	"github.com/XtremeXSPC/dsviz/pkg/logflags"
	"github.com/XtremeXSPC/dsviz/pkg/pretty"
	"github.com/XtremeXSPC/dsviz/pkg/snapshot"
	"github.com/XtremeXSPC/dsviz/pkg/target"
	"github.com/XtremeXSPC/dsviz/pkg/terminal"
	"github.com/XtremeXSPC/dsviz/pkg/version"
	"github.com/XtremeXSPC/dsviz/pkg/vizserver"
)

var (
	// log is whether to log debug statements.
	log bool
	// logOutput is a comma separated list of components that should produce debug output.
	logOutput string
	// initFile is the path to initialization file.
	initFile string
	// outFile is the output path of the dot command.
	outFile string
	// listenAddr overrides the configured web visualizer address.
	listenAddr string

	conf *config.Config
)

const dsvizCommandLongDesc = `dsviz renders the C++ data structures of a debuggee as summaries,
console trees, Graphviz graphs and web visualizations.

It consumes debug-session snapshots exported by the host debugger: the
memory segments, type layouts and root variables of a suspended process.
Pass the snapshot file to one of the subcommands, or use "dsviz open"
for the interactive console.`

// New returns an initialized command tree.
func New() *cobra.Command {
	// Config setup and load.
	var err error
	conf, err = config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}

	// Main dsviz root command.
	rootCommand := &cobra.Command{
		Use:           "dsviz",
		Short:         "dsviz is a data structure visualizer for native debuggers.",
		Long:          dsvizCommandLongDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	registerLogFlags(rootCommand.PersistentFlags())

	// 'version' subcommand.
	versionCommand := &cobra.Command{
		Use:   "version",
		Short: "Prints version.",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dsviz - Data Structure Visualizer\n%s\n", version.DsvizVersion)
			fmt.Println(version.BuildInfo())
		},
	}
	rootCommand.AddCommand(versionCommand)

	// 'open' subcommand.
	openCommand := &cobra.Command{
		Use:   "open <snapshot>",
		Short: "Opens a debug-session snapshot in the interactive console.",
		Long: `Opens a debug-session snapshot in the interactive console.

The console offers summaries, console trees, Graphviz exports, the web
visualizer and starlark scripting; type help for the command list.`,
		Args: cobra.ExactArgs(1),
		RunE: openCmd,
	}
	openCommand.Flags().StringVar(&initFile, "init", "", "Init file, executed by the terminal client.")
	rootCommand.AddCommand(openCommand)

	// 'summary' subcommand.
	summaryCommand := &cobra.Command{
		Use:   "summary <snapshot> <variable>",
		Short: "Prints the one-line summary of a variable.",
		Args:  cobra.ExactArgs(2),
		RunE:  summaryCmd,
	}
	rootCommand.AddCommand(summaryCommand)

	// 'tree' subcommand.
	treeCommand := &cobra.Command{
		Use:   "tree <snapshot> <variable>",
		Short: "Renders a structure as an indented console tree.",
		Args:  cobra.ExactArgs(2),
		RunE:  treeCmd,
	}
	rootCommand.AddCommand(treeCommand)

	// 'dot' subcommand.
	dotCommand := &cobra.Command{
		Use:   "dot <snapshot> <variable>",
		Short: "Exports a structure as a Graphviz DOT graph.",
		Args:  cobra.ExactArgs(2),
		RunE:  dotCmd,
	}
	dotCommand.Flags().StringVarP(&outFile, "output", "o", "", "Write the graph to file instead of standard output.")
	rootCommand.AddCommand(dotCommand)

	// 'serve' subcommand.
	serveCommand := &cobra.Command{
		Use:   "serve <snapshot>",
		Short: "Serves the web visualization of a snapshot.",
		Long: `Serves the web visualization of a snapshot.

The server lists the snapshot's root variables and draws the selected
structure. It runs until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: serveCmd,
	}
	serveCommand.Flags().StringVar(&listenAddr, "listen", "", "Listen address (overrides the listen-addr configuration).")
	rootCommand.AddCommand(serveCommand)

	return rootCommand
}

func registerLogFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&log, "log", false, "Enable debugging server logging.")
	fs.StringVar(&logOutput, "log-output", "", `Comma separated list of components that should produce debug output (eg. --log-output=registry,walk)
Defined log output components:
	registry	Log formatter registration and type matching
	walk	Log structure traversal
	memory	Log debuggee memory access
	script	Log starlark execution
	viz	Log the web visualizer`)
}

func loadSnapshot(path string) (*target.Target, error) {
	if err := logflags.Setup(log, logOutput); err != nil {
		return nil, err
	}
	tgt, err := snapshot.Load(path)
	if err != nil {
		return nil, fmt.Errorf("could not load snapshot %s: %w", path, err)
	}
	return tgt, nil
}

// batchOptions resolves formatter options for the one-shot
// subcommands, which render without colors so their output can be
// piped.
func batchOptions() *pretty.Options {
	return &pretty.Options{
		MaxItems:      conf.SummaryMaxItemsOrDefault(),
		MaxStringLen:  conf.MaxStringLenOrDefault(),
		MaxDepth:      conf.MaxTraversalDepthOrDefault(),
		MaxGraphNodes: conf.MaxGraphNodesOrDefault(),
		Style:         pretty.Plain,
	}
}

func lookupRoot(tgt *target.Target, name string) (*target.Variable, error) {
	v, ok := tgt.Root(name)
	if !ok {
		return nil, fmt.Errorf("no variable named %q in snapshot", name)
	}
	return v, nil
}

func openCmd(cmd *cobra.Command, args []string) error {
	tgt, err := loadSnapshot(args[0])
	if err != nil {
		return err
	}
	term := terminal.New(tgt, conf)
	term.InitFile = initFile
	status, err := term.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(status)
	return nil
}

func summaryCmd(cmd *cobra.Command, args []string) error {
	tgt, err := loadSnapshot(args[0])
	if err != nil {
		return err
	}
	v, err := lookupRoot(tgt, args[1])
	if err != nil {
		return err
	}
	fmt.Println(pretty.NewDefaultRegistry().Summary(v, batchOptions()))
	return nil
}

func treeCmd(cmd *cobra.Command, args []string) error {
	tgt, err := loadSnapshot(args[0])
	if err != nil {
		return err
	}
	v, err := lookupRoot(tgt, args[1])
	if err != nil {
		return err
	}
	out, err := pretty.RenderConsoleTree(pretty.NewDefaultRegistry(), v, batchOptions())
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func dotCmd(cmd *cobra.Command, args []string) error {
	tgt, err := loadSnapshot(args[0])
	if err != nil {
		return err
	}
	v, err := lookupRoot(tgt, args[1])
	if err != nil {
		return err
	}
	outline, err := pretty.BuildOutline(pretty.NewDefaultRegistry(), v, batchOptions())
	if err != nil {
		return err
	}
	rankdir := conf.DotRankDirOrDefault()
	if outFile == "" {
		return dotexport.Write(os.Stdout, outline, rankdir)
	}
	fh, err := os.Create(outFile)
	if err != nil {
		return err
	}
	defer fh.Close()
	return dotexport.Write(fh, outline, rankdir)
}

func serveCmd(cmd *cobra.Command, args []string) error {
	tgt, err := loadSnapshot(args[0])
	if err != nil {
		return err
	}
	addr := listenAddr
	if addr == "" {
		addr = conf.ListenAddrOrDefault()
	}
	srv, err := vizserver.New(&vizserver.Config{
		Target:   tgt,
		Registry: pretty.NewDefaultRegistry(),
		Options:  batchOptions(),
	}, addr)
	if err != nil {
		return err
	}
	fmt.Printf("Web visualizer running on http://%s/\n", srv.Addr())

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	go func() {
		<-ch
		_ = srv.Stop()
	}()
	return srv.Run()
}
