package pretty

import (
	"github.com/XtremeXSPC/dsviz/pkg/target"
	"github.com/XtremeXSPC/dsviz/pkg/typeinfo"
)

type shape int

const (
	shapeNone shape = iota
	shapeLinear
	shapeVector
	shapeTree
	shapeGraph
)

func typeHasField(t *typeinfo.Type, names ...string) bool {
	for _, name := range names {
		if _, ok := t.FieldByName(name); ok {
			return true
		}
	}
	return false
}

// pointeeHasField reports whether ptrVar is a pointer whose pointee
// type carries one of the named members.
func pointeeHasField(ptrVar *target.Variable, names ...string) bool {
	if ptrVar == nil || ptrVar.Kind() != typeinfo.Ptr {
		return false
	}
	elem, err := ptrVar.ElemType()
	if err != nil {
		return false
	}
	return typeHasField(elem, names...)
}

// detectShape classifies a struct by its member names when no
// registered pattern claimed its type: a head pointer to a next-linked
// node makes a linear container, a root pointer to a left/right node a
// tree, a vertex chain with adjacency records a graph, and the
// libc++-style begin/end pointer pair a vector.
func detectShape(v *target.Variable) shape {
	if v.Kind() != typeinfo.Struct {
		return shapeNone
	}
	if v.ChildByName("__begin_", "__begin") != nil && v.ChildByName("__end_", "__end") != nil {
		return shapeVector
	}
	if root := v.ChildByName(rootNames...); pointeeHasField(root, leftNames...) || pointeeHasField(root, rightNames...) {
		return shapeTree
	}
	if vlist := v.ChildByName(vertexListNames...); pointeeHasField(vlist, edgeListNames...) {
		return shapeGraph
	}
	if head := v.ChildByName(headNames...); pointeeHasField(head, nextNames...) {
		return shapeLinear
	}
	return shapeNone
}
