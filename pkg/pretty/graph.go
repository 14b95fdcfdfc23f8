package pretty

import (
	"fmt"

	"github.com/XtremeXSPC/dsviz/pkg/target"
)

// graphSummary renders adjacency-list graphs as
// `vertices = N, edges = M`.
func graphSummary(v *target.Variable, opts *Options) string {
	sty := opts.style()

	res, ok := traverseGraph(v, opts)
	if !ok {
		return "Error: could not find vertex list member."
	}
	vertices := fmt.Sprintf("vertices = %d", len(res.Vertices))
	edges := fmt.Sprintf("edges = %d", len(res.Edges))
	if res.Truncated {
		vertices = fmt.Sprintf("vertices >= %d", len(res.Vertices))
		edges = fmt.Sprintf("edges >= %d", len(res.Edges))
	}
	return fmt.Sprintf("%s, %s", sty.Size(vertices), sty.Size(edges))
}

// graphChildren exposes the visited vertices as `[i]` children.
func graphChildren(v *target.Variable, opts *Options) ([]*target.Variable, error) {
	vlist := v.ChildByName(vertexListNames...)
	if vlist == nil {
		return nil, fmt.Errorf("%s has no vertex list member", v.TypeName())
	}
	res, _ := traverseGraph(v, opts)
	children := make([]*target.Variable, 0, len(res.Vertices))
	for i, vx := range res.Vertices {
		if vx.Addr == 0 {
			continue
		}
		vertex, err := v.Target().NewVariable(fmt.Sprintf("[%d]", i), vx.Addr, vlist.Type.Elem)
		if err != nil {
			return nil, err
		}
		children = append(children, vertex)
	}
	return children, nil
}
