package pretty

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/XtremeXSPC/dsviz/pkg/target"
	"github.com/XtremeXSPC/dsviz/pkg/target/test"
	"github.com/XtremeXSPC/dsviz/pkg/typeinfo"
)

// listBuilder assembles a Stack<int> image: a top pointer chaining
// value/next nodes, plus a count member.
func listBuilder(typeName string, values []int64) (*test.ImageBuilder, uint64) {
	b := test.NewImageBuilder().ScalarTypes().
		AddType(typeinfo.Type{Name: "Node<int>", Size: 16, Kind: typeinfo.Struct, Fields: []typeinfo.Field{
			{Name: "value", Offset: 0, Type: "int"},
			{Name: "next", Offset: 8, Type: "Node<int> *"},
		}}).
		AddType(typeinfo.Type{Name: "Node<int> *", Size: 8, Kind: typeinfo.Ptr, Elem: "Node<int>"}).
		AddType(typeinfo.Type{Name: typeName, Size: 16, Kind: typeinfo.Struct, Fields: []typeinfo.Field{
			{Name: "top", Offset: 0, Type: "Node<int> *"},
			{Name: "count", Offset: 8, Type: "int"},
		}})

	container := b.Alloc(16)
	b.PutUint(container+8, 4, uint64(len(values)))

	var nodes []uint64
	for _, val := range values {
		addr := b.Alloc(16)
		b.PutUint(addr, 4, uint64(val))
		nodes = append(nodes, addr)
	}
	for i := 0; i < len(nodes)-1; i++ {
		b.PutPointer(nodes[i]+8, nodes[i+1])
	}
	if len(nodes) > 0 {
		b.PutPointer(container, nodes[0])
	}
	return b, container
}

func listFixture(t *testing.T, typeName string, values []int64) *target.Variable {
	t.Helper()
	b, container := listBuilder(typeName, values)
	return fixtureVar(t, b, "s", container, typeName)
}

// cyclicListFixture links the last node back to the first.
func cyclicListFixture(t *testing.T, values []int64) *target.Variable {
	t.Helper()
	b, container := listBuilder("Stack<int>", values)
	first := container + 16
	last := container + uint64(16*len(values))
	b.PutPointer(last+8, first)
	return fixtureVar(t, b, "s", container, "Stack<int>")
}

// doublyFixture builds a DoublyLinkedList<int> whose nodes carry a prev
// member.
func doublyFixture(t *testing.T, values []int64) *target.Variable {
	t.Helper()
	b := test.NewImageBuilder().ScalarTypes().
		AddType(typeinfo.Type{Name: "DNode<int>", Size: 24, Kind: typeinfo.Struct, Fields: []typeinfo.Field{
			{Name: "value", Offset: 0, Type: "int"},
			{Name: "next", Offset: 8, Type: "DNode<int> *"},
			{Name: "prev", Offset: 16, Type: "DNode<int> *"},
		}}).
		AddType(typeinfo.Type{Name: "DNode<int> *", Size: 8, Kind: typeinfo.Ptr, Elem: "DNode<int>"}).
		AddType(typeinfo.Type{Name: "DoublyLinkedList<int>", Size: 16, Kind: typeinfo.Struct, Fields: []typeinfo.Field{
			{Name: "head", Offset: 0, Type: "DNode<int> *"},
			{Name: "size", Offset: 8, Type: "int"},
		}})

	container := b.Alloc(16)
	b.PutUint(container+8, 4, uint64(len(values)))
	var nodes []uint64
	for _, val := range values {
		addr := b.Alloc(24)
		b.PutUint(addr, 4, uint64(val))
		nodes = append(nodes, addr)
	}
	for i := range nodes {
		if i+1 < len(nodes) {
			b.PutPointer(nodes[i]+8, nodes[i+1])
		}
		if i > 0 {
			b.PutPointer(nodes[i]+16, nodes[i-1])
		}
	}
	if len(nodes) > 0 {
		b.PutPointer(container, nodes[0])
	}
	return fixtureVar(t, b, "dl", container, "DoublyLinkedList<int>")
}

// vectorFixture builds a libc++-style std::vector<int> with the given
// elements and capacity. withEndCap controls whether the layout carries
// the __end_cap_ compressed pair.
func vectorFixture(t *testing.T, values []int64, capacity int, withEndCap bool) (*target.Variable, uint64) {
	t.Helper()
	typeName := "std::__1::vector<int>"
	fields := []typeinfo.Field{
		{Name: "__begin_", Offset: 0, Type: "int *"},
		{Name: "__end_", Offset: 8, Type: "int *"},
	}
	if withEndCap {
		fields = append(fields, typeinfo.Field{Name: "__end_cap_", Offset: 16, Type: "std::__1::__compressed_pair<int *, std::__1::allocator<int> >"})
	}
	b := test.NewImageBuilder().ScalarTypes().
		AddType(typeinfo.Type{Name: "int *", Size: 8, Kind: typeinfo.Ptr, Elem: "int"}).
		AddType(typeinfo.Type{Name: "std::__1::__compressed_pair<int *, std::__1::allocator<int> >", Size: 8, Kind: typeinfo.Struct, Fields: []typeinfo.Field{
			{Name: "__value_", Offset: 0, Type: "int *"},
		}}).
		AddType(typeinfo.Type{Name: typeName, Size: 24, Kind: typeinfo.Struct, Fields: fields})

	container := b.Alloc(24)
	var begin uint64
	if capacity > 0 {
		begin = b.Alloc(4 * capacity)
		for i, val := range values {
			b.PutUint(begin+uint64(4*i), 4, uint64(val))
		}
		b.PutPointer(container, begin)
		b.PutPointer(container+8, begin+uint64(4*len(values)))
		if withEndCap {
			b.PutPointer(container+16, begin+uint64(4*capacity))
		}
	}
	return fixtureVar(t, b, "vec", container, typeName), begin
}

// treeFixture builds a BinaryTree<int> from a level-order description:
// vals[0] is the root, vals[2i+1]/vals[2i+2] its children, nil for
// absent nodes.
func treeFixture(t *testing.T, vals []interface{}) *target.Variable {
	t.Helper()
	b := test.NewImageBuilder().ScalarTypes().
		AddType(typeinfo.Type{Name: "TreeNode<int>", Size: 24, Kind: typeinfo.Struct, Fields: []typeinfo.Field{
			{Name: "value", Offset: 0, Type: "int"},
			{Name: "left", Offset: 8, Type: "TreeNode<int> *"},
			{Name: "right", Offset: 16, Type: "TreeNode<int> *"},
		}}).
		AddType(typeinfo.Type{Name: "TreeNode<int> *", Size: 8, Kind: typeinfo.Ptr, Elem: "TreeNode<int>"}).
		AddType(typeinfo.Type{Name: "BinaryTree<int>", Size: 16, Kind: typeinfo.Struct, Fields: []typeinfo.Field{
			{Name: "root", Offset: 0, Type: "TreeNode<int> *"},
			{Name: "size", Offset: 8, Type: "int"},
		}})

	container := b.Alloc(16)
	addrs := make([]uint64, len(vals))
	count := 0
	for i, v := range vals {
		if v == nil {
			continue
		}
		addrs[i] = b.Alloc(24)
		b.PutUint(addrs[i], 4, uint64(v.(int)))
		count++
	}
	b.PutUint(container+8, 4, uint64(count))
	for i := range vals {
		if addrs[i] == 0 {
			continue
		}
		if l := 2*i + 1; l < len(vals) && addrs[l] != 0 {
			b.PutPointer(addrs[i]+8, addrs[l])
		}
		if r := 2*i + 2; r < len(vals) && addrs[r] != 0 {
			b.PutPointer(addrs[i]+16, addrs[r])
		}
	}
	if len(addrs) > 0 && addrs[0] != 0 {
		b.PutPointer(container, addrs[0])
	}
	return fixtureVar(t, b, "t", container, "BinaryTree<int>")
}

// selfLoopTreeFixture builds a one-node tree whose left pointer loops
// back to the node itself.
func selfLoopTreeFixture(t *testing.T) *target.Variable {
	t.Helper()
	b := test.NewImageBuilder().ScalarTypes().
		AddType(typeinfo.Type{Name: "TreeNode<int>", Size: 24, Kind: typeinfo.Struct, Fields: []typeinfo.Field{
			{Name: "value", Offset: 0, Type: "int"},
			{Name: "left", Offset: 8, Type: "TreeNode<int> *"},
			{Name: "right", Offset: 16, Type: "TreeNode<int> *"},
		}}).
		AddType(typeinfo.Type{Name: "TreeNode<int> *", Size: 8, Kind: typeinfo.Ptr, Elem: "TreeNode<int>"}).
		AddType(typeinfo.Type{Name: "BinaryTree<int>", Size: 8, Kind: typeinfo.Struct, Fields: []typeinfo.Field{
			{Name: "root", Offset: 0, Type: "TreeNode<int> *"},
		}})
	container := b.Alloc(8)
	node := b.Alloc(24)
	b.PutUint(node, 4, 1)
	b.PutPointer(node+8, node)
	b.PutPointer(container, node)
	return fixtureVar(t, b, "t", container, "BinaryTree<int>")
}

// graphFixture builds a Graph<int>: a chain of vertices, each owning a
// chain of edge records. edges maps a vertex index to the indices it
// points at.
func graphFixture(t *testing.T, values []int64, edges map[int][]int) *target.Variable {
	t.Helper()
	b := test.NewImageBuilder().ScalarTypes().
		AddType(typeinfo.Type{Name: "Vertex<int>", Size: 24, Kind: typeinfo.Struct, Fields: []typeinfo.Field{
			{Name: "value", Offset: 0, Type: "int"},
			{Name: "edges", Offset: 8, Type: "Edge<int> *"},
			{Name: "next", Offset: 16, Type: "Vertex<int> *"},
		}}).
		AddType(typeinfo.Type{Name: "Vertex<int> *", Size: 8, Kind: typeinfo.Ptr, Elem: "Vertex<int>"}).
		AddType(typeinfo.Type{Name: "Edge<int>", Size: 16, Kind: typeinfo.Struct, Fields: []typeinfo.Field{
			{Name: "to", Offset: 0, Type: "Vertex<int> *"},
			{Name: "next", Offset: 8, Type: "Edge<int> *"},
		}}).
		AddType(typeinfo.Type{Name: "Edge<int> *", Size: 8, Kind: typeinfo.Ptr, Elem: "Edge<int>"}).
		AddType(typeinfo.Type{Name: "Graph<int>", Size: 8, Kind: typeinfo.Struct, Fields: []typeinfo.Field{
			{Name: "vertices", Offset: 0, Type: "Vertex<int> *"},
		}})

	container := b.Alloc(8)
	verts := make([]uint64, len(values))
	for i, val := range values {
		verts[i] = b.Alloc(24)
		b.PutUint(verts[i], 4, uint64(val))
	}
	for i := 0; i < len(verts)-1; i++ {
		b.PutPointer(verts[i]+16, verts[i+1])
	}
	if len(verts) > 0 {
		b.PutPointer(container, verts[0])
	}
	for from, targets := range edges {
		var prevEdge uint64
		for _, to := range targets {
			e := b.Alloc(16)
			b.PutPointer(e, verts[to])
			if prevEdge == 0 {
				b.PutPointer(verts[from]+8, e)
			} else {
				b.PutPointer(prevEdge+8, e)
			}
			prevEdge = e
		}
	}
	return fixtureVar(t, b, "g", container, "Graph<int>")
}

func fixtureVar(t *testing.T, b *test.ImageBuilder, name string, addr uint64, typeName string) *target.Variable {
	t.Helper()
	tgt, err := b.Target()
	require.NoError(t, err)
	v, err := tgt.NewVariable(name, addr, typeName)
	require.NoError(t, err)
	return v
}
