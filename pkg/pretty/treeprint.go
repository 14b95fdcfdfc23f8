package pretty

import (
	"fmt"
	"strings"

	"github.com/XtremeXSPC/dsviz/pkg/target"
)

// RenderConsoleTree renders a recognized structure as an indented
// box-drawing tree: trees with their left/right children, linear
// containers and vectors as element lists, graphs as per-vertex
// adjacency lines. The first line is the one-line summary.
func RenderConsoleTree(r *Registry, v *target.Variable, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	sty := opts.style()

	var buf strings.Builder
	fmt.Fprintf(&buf, "%s: %s\n", v.Name, r.Summary(v, opts))

	switch detectShape(v) {
	case shapeTree:
		rootPtr := v.ChildByName(rootNames...)
		root, _ := traverseTree(rootPtr, opts)
		if root != nil {
			writeTreeNode(&buf, root, "", "", true, sty)
		}
	case shapeLinear:
		head := v.ChildByName(headNames...)
		res := traverseLinear(head, opts)
		for i, it := range res.Items {
			last := i == len(res.Items)-1 && !res.Truncated
			writeLeaf(&buf, it.Label, last, sty)
		}
		if res.Truncated {
			writeLeaf(&buf, "...", true, sty)
		}
	case shapeVector:
		children, err := vectorChildren(v, opts)
		if err != nil {
			return "", err
		}
		lay, _ := readVectorLayout(v)
		for i, child := range children {
			last := i == len(children)-1 && lay.size <= len(children)
			writeLeaf(&buf, valueSummary(child, opts), last, sty)
		}
		if lay.size > len(children) {
			writeLeaf(&buf, "...", true, sty)
		}
	case shapeGraph:
		res, ok := traverseGraph(v, opts)
		if !ok {
			return "", fmt.Errorf("%s has no vertex list member", v.TypeName())
		}
		labels := make(map[uint64]string, len(res.Vertices))
		for _, vx := range res.Vertices {
			labels[vx.Addr] = vx.Label
		}
		for i, vx := range res.Vertices {
			var adj []string
			for _, e := range res.Edges {
				if e.From == vx.Addr {
					label, ok := labels[e.To]
					if !ok {
						label = "?"
					}
					adj = append(adj, label)
				}
			}
			line := vx.Label
			if len(adj) > 0 {
				line += " " + sty.Sep("->") + " " + strings.Join(adj, ", ")
			}
			writeLeaf(&buf, line, i == len(res.Vertices)-1 && !res.Truncated, sty)
		}
		if res.Truncated {
			writeLeaf(&buf, "...", true, sty)
		}
	default:
		return "", fmt.Errorf("%s is not a recognized visualizable structure", v.TypeName())
	}
	return buf.String(), nil
}

func writeLeaf(buf *strings.Builder, label string, last bool, sty *Style) {
	connector := "├── "
	if last {
		connector = "└── "
	}
	fmt.Fprintf(buf, "%s%s\n", sty.Sep(connector), renderLabel(label, sty))
}

func renderLabel(label string, sty *Style) string {
	if strings.HasPrefix(label, "[") || label == "..." {
		return sty.Err(label)
	}
	return sty.Value(label)
}

// writeTreeNode prints node and its subtree. branch annotates which
// child pointer led here (L/R).
func writeTreeNode(buf *strings.Builder, node *treeNode, prefix, branch string, last bool, sty *Style) {
	connector := "├── "
	childPrefix := prefix + "│   "
	if last {
		connector = "└── "
		childPrefix = prefix + "    "
	}
	label := renderLabel(node.Label, sty)
	if branch != "" {
		label = sty.Sep(branch+":") + " " + label
	}
	fmt.Fprintf(buf, "%s%s%s\n", prefix, sty.Sep(connector), label)

	children := make([]*treeNode, 0, 2)
	branches := make([]string, 0, 2)
	if node.Left != nil {
		children = append(children, node.Left)
		branches = append(branches, "L")
	}
	if node.Right != nil {
		children = append(children, node.Right)
		branches = append(branches, "R")
	}
	for i, child := range children {
		writeTreeNode(buf, child, childPrefix, branches[i], i == len(children)-1, sty)
	}
}
