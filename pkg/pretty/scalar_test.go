package pretty

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/XtremeXSPC/dsviz/pkg/target"
	"github.com/XtremeXSPC/dsviz/pkg/target/test"
	"github.com/XtremeXSPC/dsviz/pkg/typeinfo"
)

func scalarFixture(t *testing.T, build func(b *test.ImageBuilder) (uint64, string)) *target.Variable {
	t.Helper()
	b := test.NewImageBuilder().ScalarTypes()
	addr, typeName := build(b)
	return fixtureVar(t, b, "v", addr, typeName)
}

func TestValueSummaryScalars(t *testing.T) {
	intVar := scalarFixture(t, func(b *test.ImageBuilder) (uint64, string) {
		addr := b.Alloc(4)
		b.PutUint(addr, 4, 0xffffffd6) // -42
		return addr, "int"
	})
	assert.Equal(t, "-42", valueSummary(intVar, DefaultOptions()))

	uintVar := scalarFixture(t, func(b *test.ImageBuilder) (uint64, string) {
		addr := b.Alloc(8)
		b.PutUint(addr, 8, 99)
		return addr, "unsigned long"
	})
	assert.Equal(t, "99", valueSummary(uintVar, DefaultOptions()))

	boolVar := scalarFixture(t, func(b *test.ImageBuilder) (uint64, string) {
		addr := b.Alloc(1)
		b.PutUint(addr, 1, 1)
		return addr, "bool"
	})
	assert.Equal(t, "true", valueSummary(boolVar, DefaultOptions()))

	floatVar := scalarFixture(t, func(b *test.ImageBuilder) (uint64, string) {
		addr := b.Alloc(8)
		b.PutUint(addr, 8, 0x3ff8000000000000) // 1.5
		return addr, "double"
	})
	assert.Equal(t, "1.5", valueSummary(floatVar, DefaultOptions()))
}

func TestValueSummaryCString(t *testing.T) {
	strVar := scalarFixture(t, func(b *test.ImageBuilder) (uint64, string) {
		strAddr := b.CString("hello world")
		addr := b.Alloc(8)
		b.PutPointer(addr, strAddr)
		return addr, "char *"
	})
	assert.Equal(t, `"hello world"`, valueSummary(strVar, DefaultOptions()))

	opts := DefaultOptions()
	opts.MaxStringLen = 5
	assert.Equal(t, `"hello"...+6 more`, valueSummary(strVar, opts))
}

func TestValueSummaryPointers(t *testing.T) {
	b := test.NewImageBuilder().ScalarTypes().
		AddType(typeinfo.Type{Name: "int *", Size: 8, Kind: typeinfo.Ptr, Elem: "int"})
	pointee := b.Alloc(4)
	ptrAddr := b.Alloc(8)
	b.PutPointer(ptrAddr, pointee)
	nullAddr := b.Alloc(8)

	ptrVar := fixtureVar(t, b, "p", ptrAddr, "int *")
	assert.Equal(t, fmt.Sprintf("0x%x", pointee), valueSummary(ptrVar, DefaultOptions()))

	nullVar, err := ptrVar.Target().NewVariable("q", nullAddr, "int *")
	assert.NoError(t, err)
	assert.Equal(t, "null", valueSummary(nullVar, DefaultOptions()))
}

func TestValueSummaryUnreadable(t *testing.T) {
	v := scalarFixture(t, func(b *test.ImageBuilder) (uint64, string) {
		b.Alloc(4)
		return 0xdead0000, "int"
	})
	assert.Equal(t, "[unreadable]", valueSummary(v, DefaultOptions()))
	assert.Equal(t, "[unreadable]", valueSummary(nil, DefaultOptions()))
}

func TestBriefStructSummaryTruncatesFields(t *testing.T) {
	b := test.NewImageBuilder().ScalarTypes().
		AddType(typeinfo.Type{Name: "Wide", Size: 20, Kind: typeinfo.Struct, Fields: []typeinfo.Field{
			{Name: "a", Offset: 0, Type: "int"},
			{Name: "b", Offset: 4, Type: "int"},
			{Name: "c", Offset: 8, Type: "int"},
			{Name: "d", Offset: 12, Type: "int"},
			{Name: "e", Offset: 16, Type: "int"},
		}})
	addr := b.Alloc(20)
	for i := 0; i < 5; i++ {
		b.PutUint(addr+uint64(4*i), 4, uint64(i+1))
	}
	v := fixtureVar(t, b, "w", addr, "Wide")
	assert.Equal(t, "{a: 1, b: 2, c: 3,...+2 more}", briefStructSummary(v, DefaultOptions()))
}

func TestSizeSummaryFallsBackToCount(t *testing.T) {
	// A container with no size member reports what the walk counted.
	v := pointFixture(t)
	assert.Equal(t, "size = 4", sizeSummary(v, 4, false))
	assert.Equal(t, "size >= 4", sizeSummary(v, 4, true))
}
