package pretty

import "fmt"

const (
	terminalHighlightEscapeCode = "\033[%sm"
	terminalResetEscapeCode     = "\033[0m"
)

const (
	ansiRed      = "31"
	ansiGreen    = "32"
	ansiYellow   = "33"
	ansiBoldCyan = "1;36"
)

// Style applies the summary color conventions: sizes green, element
// values yellow, separators bold cyan, error markers red.
type Style struct {
	enabled bool
}

var (
	// Plain renders without ANSI escapes.
	Plain = &Style{}
	// Colored renders with ANSI escapes.
	Colored = &Style{enabled: true}
)

func (s *Style) colorize(color, text string) string {
	if s == nil || !s.enabled {
		return text
	}
	return fmt.Sprintf(terminalHighlightEscapeCode, color) + text + terminalResetEscapeCode
}

// Size colors size/capacity annotations.
func (s *Style) Size(text string) string { return s.colorize(ansiGreen, text) }

// Value colors element values.
func (s *Style) Value(text string) string { return s.colorize(ansiYellow, text) }

// Sep colors structure separators.
func (s *Style) Sep(text string) string { return s.colorize(ansiBoldCyan, text) }

// Err colors error and cycle markers.
func (s *Style) Err(text string) string { return s.colorize(ansiRed, text) }
