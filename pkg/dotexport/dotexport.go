// Package dotexport renders structure outlines as Graphviz DOT graphs.
package dotexport

import (
	"fmt"
	"io"

	"github.com/emicklei/dot"

	"github.com/XtremeXSPC/dsviz/pkg/pretty"
)

// Export converts an outline into a directed DOT graph. rankdir is the
// Graphviz rank direction attribute (LR or TB).
func Export(out *pretty.Outline, rankdir string) *dot.Graph {
	g := dot.NewGraph(dot.Directed)
	g.Attr("rankdir", rankdir)
	g.Attr("label", fmt.Sprintf("%s: %s", out.Name, out.Summary))
	g.Attr("labelloc", "t")

	nodes := make(map[string]dot.Node, len(out.Nodes))
	for _, n := range out.Nodes {
		dn := g.Node(n.ID)
		dn.Attr("label", n.Label)
		dn.Attr("shape", nodeShape(out.Kind))
		nodes[n.ID] = dn
	}
	for _, e := range out.Edges {
		from, okFrom := nodes[e.From]
		to, okTo := nodes[e.To]
		if !okFrom || !okTo {
			continue
		}
		de := g.Edge(from, to)
		if e.Label != "" {
			de.Attr("label", e.Label)
		}
		if e.Bidir {
			de.Attr("dir", "both")
		}
	}
	return g
}

func nodeShape(kind string) string {
	switch kind {
	case "linear", "vector":
		return "box"
	case "graph":
		return "circle"
	}
	return "ellipse"
}

// Write renders the outline as DOT text.
func Write(w io.Writer, out *pretty.Outline, rankdir string) error {
	_, err := io.WriteString(w, Export(out, rankdir).String())
	return err
}
