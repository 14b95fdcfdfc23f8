package pretty

import (
	"fmt"
	"strings"

	"github.com/XtremeXSPC/dsviz/pkg/target"
	"github.com/XtremeXSPC/dsviz/pkg/typeinfo"
)

// unwrapEndCap digs the capacity pointer out of the libc++
// __end_cap_ member, which is a __compressed_pair wrapping the raw
// pointer in one or two levels of __value_/__first_ members.
func unwrapEndCap(endCap *target.Variable) *target.Variable {
	if endCap == nil {
		return nil
	}
	if endCap.Kind() == typeinfo.Ptr {
		return endCap
	}
	wrapperNames := []string{"__value_", "__first_", "first", "__value", "__first"}
	for _, name := range wrapperNames {
		child := endCap.ChildByName(name)
		if child == nil {
			continue
		}
		if child.Kind() == typeinfo.Ptr {
			return child
		}
		if nested := child.ChildByName(wrapperNames...); nested != nil && nested.Kind() == typeinfo.Ptr {
			return nested
		}
	}
	for i := 0; i < endCap.NumChildren(); i++ {
		child, err := endCap.Child(i)
		if err == nil && child.Kind() == typeinfo.Ptr {
			return child
		}
	}
	return nil
}

type vectorLayout struct {
	beginAddr uint64
	size      int
	capacity  int // -1 when unknown
	elemType  *typeinfo.Type
}

func readVectorLayout(v *target.Variable) (vectorLayout, error) {
	lay := vectorLayout{capacity: -1}

	begin := v.ChildByName("__begin_", "__begin")
	end := v.ChildByName("__end_", "__end")
	if begin == nil || end == nil {
		return lay, fmt.Errorf("could not locate vector storage pointers")
	}
	beginAddr, err := begin.Pointer()
	if err != nil {
		return lay, err
	}
	endAddr, err := end.Pointer()
	if err != nil {
		return lay, err
	}

	elemType, err := begin.ElemType()
	if err != nil {
		return lay, err
	}
	lay.beginAddr = beginAddr
	lay.elemType = elemType
	if elemType.Size <= 0 {
		return lay, fmt.Errorf("element type %s has no size", elemType.Name)
	}
	if beginAddr != 0 && endAddr >= beginAddr {
		lay.size = int((endAddr - beginAddr) / uint64(elemType.Size))
	}
	if endCap := unwrapEndCap(v.ChildByName("__end_cap_", "__end_cap")); endCap != nil {
		if capAddr, err := endCap.Pointer(); err == nil && capAddr >= beginAddr {
			lay.capacity = int((capAddr - beginAddr) / uint64(elemType.Size))
		}
	}
	return lay, nil
}

// vectorSummary renders a std::vector as
// `size = N, capacity = M, data = 0x…, [e0, e1, …]`.
func vectorSummary(v *target.Variable, opts *Options) string {
	sty := opts.style()

	lay, err := readVectorLayout(v)
	if err != nil {
		return fmt.Sprintf("Error: %v.", err)
	}

	var values []string
	show := lay.size
	if show > opts.MaxItems {
		show = opts.MaxItems
	}
	for i := 0; i < show; i++ {
		elemAddr := lay.beginAddr + uint64(i)*uint64(lay.elemType.Size)
		elem, err := v.Target().NewVariable(fmt.Sprintf("[%d]", i), elemAddr, lay.elemType.Name)
		if err != nil {
			values = append(values, sty.Err(unreadableMarker))
			continue
		}
		val := valueSummary(elem, opts)
		if strings.HasPrefix(val, "[") {
			values = append(values, sty.Err(val))
		} else {
			values = append(values, sty.Value(val))
		}
	}

	elements := strings.Join(values, ", ")
	if lay.size > show {
		if elements != "" {
			elements += ", ..."
		} else {
			elements = "..."
		}
	}

	capacityStr := "capacity = ?"
	if lay.capacity >= 0 {
		capacityStr = fmt.Sprintf("capacity = %d", lay.capacity)
	}
	dataStr := "data = null"
	if lay.beginAddr != 0 {
		dataStr = fmt.Sprintf("data = 0x%x", lay.beginAddr)
	}

	return fmt.Sprintf("%s, %s, %s, [%s]",
		sty.Size(fmt.Sprintf("size = %d", lay.size)),
		sty.Size(capacityStr),
		sty.Size(dataStr),
		elements)
}

// vectorChildren exposes the vector elements as `[i]` children.
func vectorChildren(v *target.Variable, opts *Options) ([]*target.Variable, error) {
	lay, err := readVectorLayout(v)
	if err != nil {
		return nil, err
	}
	n := lay.size
	if n > opts.MaxItems {
		n = opts.MaxItems
	}
	children := make([]*target.Variable, 0, n)
	for i := 0; i < n; i++ {
		elemAddr := lay.beginAddr + uint64(i)*uint64(lay.elemType.Size)
		elem, err := v.Target().NewVariable(fmt.Sprintf("[%d]", i), elemAddr, lay.elemType.Name)
		if err != nil {
			return nil, err
		}
		children = append(children, elem)
	}
	return children, nil
}
