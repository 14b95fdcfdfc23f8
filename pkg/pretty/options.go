package pretty

// Options are the display tuning knobs read by every formatting call.
// They are resolved once per call from the session configuration.
type Options struct {
	// MaxItems is the maximum number of container elements shown in a
	// one-line summary.
	MaxItems int
	// MaxStringLen caps characters read from char* strings.
	MaxStringLen int
	// MaxDepth bounds tree traversal depth.
	MaxDepth int
	// MaxGraphNodes bounds the number of vertices visited in a graph.
	MaxGraphNodes int
	// Style selects colored or plain rendering.
	Style *Style
}

// DefaultOptions returns uncolored options with the default limits.
func DefaultOptions() *Options {
	return &Options{
		MaxItems:      8,
		MaxStringLen:  64,
		MaxDepth:      32,
		MaxGraphNodes: 256,
		Style:         Plain,
	}
}

func (opts *Options) style() *Style {
	if opts == nil || opts.Style == nil {
		return Plain
	}
	return opts.Style
}
