package pretty

import (
	"fmt"
	"strings"

	"github.com/XtremeXSPC/dsviz/pkg/target"
)

// linearSummary renders pointer-chained containers (linked lists,
// stacks, queues) as `size = N, [a -> b -> c]`. Doubly linked nodes
// use the `<->` separator, truncation appends `-> ...` and cycles or
// unreadable nodes show up as bracketed markers.
func linearSummary(v *target.Variable, opts *Options) string {
	sty := opts.style()

	head := v.ChildByName(headNames...)
	if head == nil {
		return "Error: could not find head pointer member."
	}
	if ptr, err := head.Pointer(); err == nil && ptr == 0 {
		return "size = 0, []"
	}

	res := traverseLinear(head, opts)

	colored := make([]string, len(res.Items))
	for i, it := range res.Items {
		if strings.HasPrefix(it.Label, "[") {
			colored[i] = sty.Err(it.Label)
		} else {
			colored[i] = sty.Value(it.Label)
		}
	}

	separator := " " + sty.Sep("->") + " "
	if res.Doubly {
		separator = " " + sty.Sep("<->") + " "
	}
	summary := strings.Join(colored, separator)
	if res.Truncated {
		summary += separator + "..."
	}

	sizeStr := sizeSummary(v, len(res.Items), res.Truncated)
	return fmt.Sprintf("%s, [%s]", sty.Size(sizeStr), summary)
}

// linearChildren exposes the container elements as `[i]` children, the
// payload of each visited node.
func linearChildren(v *target.Variable, opts *Options) ([]*target.Variable, error) {
	head := v.ChildByName(headNames...)
	if head == nil {
		return nil, fmt.Errorf("%s has no head pointer member", v.TypeName())
	}
	res := traverseLinear(head, opts)
	children := make([]*target.Variable, 0, len(res.Items))
	for i, it := range res.Items {
		if it.Addr == 0 || strings.HasPrefix(it.Label, "[") {
			continue
		}
		node, err := v.Target().NewVariable(fmt.Sprintf("[%d]", i), it.Addr, nodeTypeName(head))
		if err != nil {
			return nil, err
		}
		if val := node.ChildByName(valueNames...); val != nil {
			val.Name = fmt.Sprintf("[%d]", i)
			children = append(children, val)
		} else {
			children = append(children, node)
		}
	}
	return children, nil
}

// nodeTypeName returns the pointee type name of a node pointer member.
func nodeTypeName(ptrVar *target.Variable) string {
	return ptrVar.Type.Elem
}
