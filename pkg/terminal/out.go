package terminal

import (
	"io"
	"os"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

func isTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// getColorableWriter returns a writer that translates ANSI escapes
// into console API calls where the platform needs it.
func getColorableWriter() io.Writer {
	if isTerminal() {
		return colorable.NewColorableStdout()
	}
	return os.Stdout
}
