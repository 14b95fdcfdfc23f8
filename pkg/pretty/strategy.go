package pretty

import (
	"github.com/XtremeXSPC/dsviz/pkg/logflags"
	"github.com/XtremeXSPC/dsviz/pkg/target"
)

// linearItem is one visited node of a pointer-chained container.
type linearItem struct {
	Addr  uint64
	Label string
}

// linearResult is what a linear traversal saw: one label per visited
// node (plus bracketed marker labels for cycles and unreadable
// memory), and metadata about the walk.
type linearResult struct {
	Items     []linearItem
	Doubly    bool
	Truncated bool
}

// traverseLinear follows next pointers from head, a pointer-typed
// variable, visiting at most opts.MaxItems nodes. Already-seen nodes
// stop the walk with a cycle marker; unreadable nodes with an
// unreadable marker.
func traverseLinear(head *target.Variable, opts *Options) linearResult {
	var res linearResult
	visited := make(map[uint64]bool)
	cur := head
	for len(res.Items) < opts.MaxItems {
		ptr, err := cur.Pointer()
		if err != nil {
			res.Items = append(res.Items, linearItem{Label: unreadableMarker})
			return res
		}
		if ptr == 0 {
			return res
		}
		if visited[ptr] {
			res.Items = append(res.Items, linearItem{Addr: ptr, Label: cycleMarker})
			return res
		}
		visited[ptr] = true

		node, err := cur.Deref()
		if err != nil {
			res.Items = append(res.Items, linearItem{Addr: ptr, Label: unreadableMarker})
			return res
		}
		if node.ChildByName(prevNames...) != nil {
			res.Doubly = true
		}
		res.Items = append(res.Items, linearItem{Addr: ptr, Label: nodeValueSummary(node, opts)})

		next := node.ChildByName(nextNames...)
		if next == nil {
			logflags.WalkLogger().Debugf("node type %s has no next member, stopping", node.TypeName())
			return res
		}
		cur = next
	}
	// Hit the item cap; anything left marks the walk truncated.
	if ptr, err := cur.Pointer(); err == nil && ptr != 0 {
		res.Truncated = true
	}
	return res
}

// treeNode is one visited node of a node-based tree.
type treeNode struct {
	Addr  uint64
	Label string
	// Marker nodes (cycle, unreadable, depth cap) carry no children.
	Marker bool
	Left   *treeNode
	Right  *treeNode
}

type treeStats struct {
	Count     int
	Height    int
	Truncated bool
}

// traverseTree walks left/right child pointers from rootPtr, a
// pointer-typed variable, depth-limited by opts.MaxDepth.
func traverseTree(rootPtr *target.Variable, opts *Options) (*treeNode, treeStats) {
	var stats treeStats
	visited := make(map[uint64]bool)
	root := walkTree(rootPtr, 1, visited, opts, &stats)
	return root, stats
}

func walkTree(ptrVar *target.Variable, depth int, visited map[uint64]bool, opts *Options, stats *treeStats) *treeNode {
	if ptrVar == nil {
		return nil
	}
	ptr, err := ptrVar.Pointer()
	if err != nil {
		return &treeNode{Label: unreadableMarker, Marker: true}
	}
	if ptr == 0 {
		return nil
	}
	if visited[ptr] {
		return &treeNode{Addr: ptr, Label: cycleMarker, Marker: true}
	}
	if depth > opts.MaxDepth {
		stats.Truncated = true
		return &treeNode{Addr: ptr, Label: "...", Marker: true}
	}
	visited[ptr] = true

	node, err := ptrVar.Deref()
	if err != nil {
		return &treeNode{Addr: ptr, Label: unreadableMarker, Marker: true}
	}
	stats.Count++
	if depth > stats.Height {
		stats.Height = depth
	}
	tn := &treeNode{Addr: ptr, Label: nodeValueSummary(node, opts)}
	tn.Left = walkTree(node.ChildByName(leftNames...), depth+1, visited, opts, stats)
	tn.Right = walkTree(node.ChildByName(rightNames...), depth+1, visited, opts, stats)
	return tn
}

// graphVertex is one visited vertex of an adjacency-list graph.
type graphVertex struct {
	Addr  uint64
	Label string
}

type graphEdge struct {
	From uint64
	To   uint64
}

type graphResult struct {
	Vertices  []graphVertex
	Edges     []graphEdge
	Truncated bool
}

// traverseGraph walks an adjacency-list graph: the container's vertex
// member chains vertices through next pointers, and each vertex owns a
// chain of edge records pointing at target vertices. At most
// opts.MaxGraphNodes vertices are visited.
func traverseGraph(v *target.Variable, opts *Options) (graphResult, bool) {
	var res graphResult
	vlist := v.ChildByName(vertexListNames...)
	if vlist == nil {
		return res, false
	}

	seen := make(map[uint64]bool)
	cur := vlist
	for len(res.Vertices) < opts.MaxGraphNodes {
		ptr, err := cur.Pointer()
		if err != nil || ptr == 0 {
			break
		}
		if seen[ptr] {
			break
		}
		seen[ptr] = true
		vertex, err := cur.Deref()
		if err != nil {
			res.Vertices = append(res.Vertices, graphVertex{Addr: ptr, Label: unreadableMarker})
			break
		}
		res.Vertices = append(res.Vertices, graphVertex{Addr: ptr, Label: nodeValueSummary(vertex, opts)})
		res.Edges = append(res.Edges, vertexEdges(ptr, vertex, opts)...)

		next := vertex.ChildByName(nextNames...)
		if next == nil {
			break
		}
		cur = next
	}
	if ptr, err := cur.Pointer(); err == nil && ptr != 0 && !seen[ptr] {
		res.Truncated = true
	}
	return res, true
}

func vertexEdges(from uint64, vertex *target.Variable, opts *Options) []graphEdge {
	var edges []graphEdge
	elist := vertex.ChildByName(edgeListNames...)
	if elist == nil {
		return nil
	}
	seen := make(map[uint64]bool)
	cur := elist
	for len(edges) < opts.MaxGraphNodes {
		ptr, err := cur.Pointer()
		if err != nil || ptr == 0 || seen[ptr] {
			break
		}
		seen[ptr] = true
		edgeRec, err := cur.Deref()
		if err != nil {
			break
		}
		if to := edgeRec.ChildByName(edgeTargetNames...); to != nil {
			if toPtr, err := to.Pointer(); err == nil && toPtr != 0 {
				edges = append(edges, graphEdge{From: from, To: toPtr})
			}
		}
		next := edgeRec.ChildByName(nextNames...)
		if next == nil {
			break
		}
		cur = next
	}
	return edges
}
