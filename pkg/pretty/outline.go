package pretty

import (
	"fmt"

	"github.com/XtremeXSPC/dsviz/pkg/target"
)

// OutlineNode is a rendered node of a visualized structure.
type OutlineNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// OutlineEdge connects two outline nodes.
type OutlineEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
	Bidir bool   `json:"bidir,omitempty"`
}

// Outline is the structure-shaped view of a variable that the DOT
// export and the web visualizer both render.
type Outline struct {
	Name      string        `json:"name"`
	TypeName  string        `json:"type"`
	Kind      string        `json:"kind"`
	Summary   string        `json:"summary"`
	Nodes     []OutlineNode `json:"nodes"`
	Edges     []OutlineEdge `json:"edges"`
	Truncated bool          `json:"truncated"`
}

func nodeID(addr uint64, fallback int) string {
	if addr != 0 {
		return fmt.Sprintf("n%#x", addr)
	}
	return fmt.Sprintf("m%d", fallback)
}

// BuildOutline walks v and produces its node/edge outline. Summaries
// inside the outline are always plain; color is a console concern.
func BuildOutline(r *Registry, v *target.Variable, opts *Options) (*Outline, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	plain := *opts
	plain.Style = Plain

	out := &Outline{Name: v.Name, TypeName: v.TypeName()}
	out.Summary = r.Summary(v, &plain)

	switch detectShape(v) {
	case shapeLinear:
		out.Kind = "linear"
		head := v.ChildByName(headNames...)
		res := traverseLinear(head, &plain)
		out.Truncated = res.Truncated
		var prev string
		for i, it := range res.Items {
			id := nodeID(it.Addr, i)
			out.Nodes = append(out.Nodes, OutlineNode{ID: id, Label: it.Label})
			if prev != "" {
				out.Edges = append(out.Edges, OutlineEdge{From: prev, To: id, Label: "next", Bidir: res.Doubly})
			}
			prev = id
		}
	case shapeVector:
		out.Kind = "vector"
		lay, err := readVectorLayout(v)
		if err != nil {
			return nil, err
		}
		n := lay.size
		if n > opts.MaxItems {
			n = opts.MaxItems
			out.Truncated = true
		}
		var prev string
		for i := 0; i < n; i++ {
			elemAddr := lay.beginAddr + uint64(i)*uint64(lay.elemType.Size)
			elem, err := v.Target().NewVariable(fmt.Sprintf("[%d]", i), elemAddr, lay.elemType.Name)
			label := unreadableMarker
			if err == nil {
				label = valueSummary(elem, &plain)
			}
			id := nodeID(elemAddr, i)
			out.Nodes = append(out.Nodes, OutlineNode{ID: id, Label: label})
			if prev != "" {
				out.Edges = append(out.Edges, OutlineEdge{From: prev, To: id})
			}
			prev = id
		}
	case shapeTree:
		out.Kind = "tree"
		rootPtr := v.ChildByName(rootNames...)
		root, stats := traverseTree(rootPtr, &plain)
		out.Truncated = stats.Truncated
		outlineTreeNode(out, root, 0)
	case shapeGraph:
		out.Kind = "graph"
		res, _ := traverseGraph(v, &plain)
		out.Truncated = res.Truncated
		known := make(map[uint64]bool, len(res.Vertices))
		for i, vx := range res.Vertices {
			known[vx.Addr] = true
			out.Nodes = append(out.Nodes, OutlineNode{ID: nodeID(vx.Addr, i), Label: vx.Label})
		}
		for _, e := range res.Edges {
			if !known[e.To] {
				// Edge into a vertex beyond the visit cap.
				continue
			}
			out.Edges = append(out.Edges, OutlineEdge{From: nodeID(e.From, 0), To: nodeID(e.To, 0)})
		}
	default:
		return nil, fmt.Errorf("%s is not a recognized visualizable structure", v.TypeName())
	}
	return out, nil
}

// outlineTreeNode flattens a traversed tree into outline nodes and
// L/R labeled edges. Marker nodes receive synthetic IDs keyed on the
// running node count.
func outlineTreeNode(out *Outline, node *treeNode, seq int) (string, int) {
	if node == nil {
		return "", seq
	}
	id := nodeID(node.Addr, seq)
	if node.Addr == 0 {
		id = nodeID(0, len(out.Nodes))
	}
	// A cycle marker reuses the address of the node it revisits; keep
	// the original node and let the edge point back at it.
	duplicate := false
	for i := range out.Nodes {
		if out.Nodes[i].ID == id {
			duplicate = true
			break
		}
	}
	if !duplicate {
		out.Nodes = append(out.Nodes, OutlineNode{ID: id, Label: node.Label})
	}
	seq++
	if node.Left != nil {
		var lid string
		lid, seq = outlineTreeNode(out, node.Left, seq)
		out.Edges = append(out.Edges, OutlineEdge{From: id, To: lid, Label: "L"})
	}
	if node.Right != nil {
		var rid string
		rid, seq = outlineTreeNode(out, node.Right, seq)
		out.Edges = append(out.Edges, OutlineEdge{From: id, To: rid, Label: "R"})
	}
	return id, seq
}
