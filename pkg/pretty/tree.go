package pretty

import (
	"fmt"

	"github.com/XtremeXSPC/dsviz/pkg/target"
)

// treeSummary renders node-based trees as
// `size = N, root = <val>, height = H`. The traversal is depth-limited
// and cycle-safe; a capped walk reports the height as a lower bound.
func treeSummary(v *target.Variable, opts *Options) string {
	sty := opts.style()

	rootPtr := v.ChildByName(rootNames...)
	if rootPtr == nil {
		return "Error: could not find root pointer member."
	}
	if ptr, err := rootPtr.Pointer(); err == nil && ptr == 0 {
		return "size = 0, []"
	}

	root, stats := traverseTree(rootPtr, opts)
	if root == nil {
		return "size = 0, []"
	}

	rootLabel := root.Label
	if root.Marker {
		rootLabel = sty.Err(rootLabel)
	} else {
		rootLabel = sty.Value(rootLabel)
	}

	sizeStr := v.ChildByName(sizeNames...)
	var size string
	if sizeStr != nil {
		if n, err := sizeStr.Uint(); err == nil {
			size = fmt.Sprintf("size = %d", n)
		}
	}
	if size == "" {
		size = fmt.Sprintf("size = %d", stats.Count)
		if stats.Truncated {
			size = fmt.Sprintf("size >= %d", stats.Count)
		}
	}

	height := fmt.Sprintf("height = %d", stats.Height)
	if stats.Truncated {
		height = fmt.Sprintf("height >= %d", stats.Height)
	}
	return fmt.Sprintf("%s, root = %s, %s", sty.Size(size), rootLabel, sty.Size(height))
}

// treeChildren exposes the root node as the container's only synthetic
// child; the node's own members (value, left, right) take over from
// there.
func treeChildren(v *target.Variable, opts *Options) ([]*target.Variable, error) {
	rootPtr := v.ChildByName(rootNames...)
	if rootPtr == nil {
		return nil, fmt.Errorf("%s has no root pointer member", v.TypeName())
	}
	ptr, err := rootPtr.Pointer()
	if err != nil {
		return nil, err
	}
	if ptr == 0 {
		return nil, nil
	}
	root, err := rootPtr.Deref()
	if err != nil {
		return nil, err
	}
	root.Name = "root"
	return []*target.Variable{root}, nil
}
