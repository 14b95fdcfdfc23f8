package pretty

import (
	"fmt"
	"strconv"

	"github.com/XtremeXSPC/dsviz/pkg/target"
	"github.com/XtremeXSPC/dsviz/pkg/typeinfo"
)

// Shared member name heuristics. The order matters: the first name
// present on the type wins.
var (
	headNames       = []string{"head", "m_head", "_head", "top"}
	sizeNames       = []string{"count", "size", "m_size", "_size"}
	nextNames       = []string{"next", "m_next", "_next"}
	prevNames       = []string{"prev", "m_prev", "_prev"}
	valueNames      = []string{"value", "data", "val", "m_value", "m_data", "item"}
	rootNames       = []string{"root", "m_root", "_root"}
	leftNames       = []string{"left", "m_left", "_left"}
	rightNames      = []string{"right", "m_right", "_right"}
	vertexListNames = []string{"vertices", "nodes", "verts"}
	edgeListNames   = []string{"edges", "neighbors", "adjacent", "adj"}
	edgeTargetNames = []string{"to", "target", "dest", "dst"}
)

const (
	unreadableMarker = "[unreadable]"
	cycleMarker      = "[cycle detected]"
)

// valueSummary renders a single value on one line: the scalar kinds
// directly, char* quoted with "...+N more" truncation, pointers as
// addresses and structs as a brief field rendering.
// Unreadable memory yields a bracketed marker instead of an error.
func valueSummary(v *target.Variable, opts *Options) string {
	if v == nil {
		return unreadableMarker
	}
	switch v.Kind() {
	case typeinfo.Int:
		n, err := v.Int()
		if err != nil {
			return unreadableMarker
		}
		return strconv.FormatInt(n, 10)
	case typeinfo.Uint:
		n, err := v.Uint()
		if err != nil {
			return unreadableMarker
		}
		return strconv.FormatUint(n, 10)
	case typeinfo.Float:
		f, err := v.Float()
		if err != nil {
			return unreadableMarker
		}
		return strconv.FormatFloat(f, 'g', -1, 64)
	case typeinfo.Bool:
		b, err := v.Bool()
		if err != nil {
			return unreadableMarker
		}
		return strconv.FormatBool(b)
	case typeinfo.CharPtr:
		s, fullLen, err := v.CString(opts.MaxStringLen)
		if err != nil {
			return unreadableMarker
		}
		if fullLen > len(s) {
			return fmt.Sprintf("%q...+%d more", s, fullLen-len(s))
		}
		return strconv.Quote(s)
	case typeinfo.Ptr:
		ptr, err := v.Pointer()
		if err != nil {
			return unreadableMarker
		}
		if ptr == 0 {
			return "null"
		}
		return fmt.Sprintf("0x%x", ptr)
	case typeinfo.Struct:
		return briefStructSummary(v, opts)
	}
	return unreadableMarker
}

// briefStructSummary renders a struct as {f1: v1, f2: v2, ...+N more}
// without recursing into nested structs.
func briefStructSummary(v *target.Variable, opts *Options) string {
	const maxFields = 3
	n := v.NumChildren()
	out := "{"
	shown := n
	if shown > maxFields {
		shown = maxFields
	}
	for i := 0; i < shown; i++ {
		child, err := v.Child(i)
		if err != nil {
			return unreadableMarker
		}
		if i > 0 {
			out += ", "
		}
		if child.Kind() == typeinfo.Struct {
			out += fmt.Sprintf("%s: (%s)", child.Name, child.TypeName())
			continue
		}
		out += fmt.Sprintf("%s: %s", child.Name, valueSummary(child, opts))
	}
	if n > shown {
		out += fmt.Sprintf(",...+%d more", n-shown)
	}
	return out + "}"
}

// nodeValueSummary renders the payload of a container node, probing
// the usual value member names and falling back to the node itself.
func nodeValueSummary(node *target.Variable, opts *Options) string {
	if val := node.ChildByName(valueNames...); val != nil {
		return valueSummary(val, opts)
	}
	return valueSummary(node, opts)
}

// sizeSummary renders "size = N" from the container's size member, or
// from the traversal count when the type carries no size member.
func sizeSummary(v *target.Variable, counted int, truncated bool) string {
	if sizeMember := v.ChildByName(sizeNames...); sizeMember != nil {
		if n, err := sizeMember.Uint(); err == nil {
			return fmt.Sprintf("size = %d", n)
		}
	}
	if truncated {
		return fmt.Sprintf("size >= %d", counted)
	}
	return fmt.Sprintf("size = %d", counted)
}
