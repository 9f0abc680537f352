package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-lang/kestrel/obj"
)

func testType(size uintptr) *obj.Type {
	return obj.NewType("arena_test.Scalar", &obj.SizeCap{Size: func(*obj.Type) uintptr { return size }})
}

func TestAllocProducesValidZeroedRef(t *testing.T) {
	a := NewArena(DefaultConfig)
	typ := testType(16)

	ref, err := a.Alloc(typ)
	require.NoError(t, err)
	assert.True(t, obj.Valid(ref))
	assert.Equal(t, obj.Heap, obj.KindOf(ref))
	for _, b := range obj.Payload(ref) {
		assert.Zero(t, b)
	}
}

func TestFreeReturnsCellForReuse(t *testing.T) {
	a := NewArena(DefaultConfig)
	typ := testType(16)

	ref, err := a.Alloc(typ)
	require.NoError(t, err)
	statsBefore := a.Stats()

	require.NoError(t, a.Free(ref))
	statsAfter := a.Stats()

	assert.Equal(t, statsBefore.LiveCells-1, statsAfter.LiveCells)
	assert.Less(t, statsAfter.BytesAllocated, statsBefore.BytesAllocated)
}

func TestFreeRejectsForeignRef(t *testing.T) {
	a := NewArena(DefaultConfig)
	typ := testType(16)
	buf := make([]byte, int(obj.HeaderSize)+16)
	foreign := obj.HeaderInit(buf, typ, obj.Heap)

	err := a.Free(foreign)
	assert.ErrorIs(t, err, ErrBadRef)
}

func TestAllocGrowsAcrossMultipleSlabsUnderPressure(t *testing.T) {
	cfg := SizeClassConfig{
		Name: "tiny", SmallMin: 8, SmallMax: 64, SmallIncrement: 8,
		MediumMax: 256, GrowthFactor: 1.5,
	}
	a := NewArena(cfg)
	a.slabSize = 128 // force frequent growth
	typ := testType(32)

	var refs []obj.Ref
	for i := 0; i < 50; i++ {
		ref, err := a.Alloc(typ)
		require.NoError(t, err)
		refs = append(refs, ref)
	}

	stats := a.Stats()
	assert.Greater(t, stats.Slabs, 1)
	assert.Equal(t, 50, stats.LiveCells)

	for i, ref := range refs {
		assert.True(t, obj.Valid(ref), "ref %d should stay valid across growth", i)
	}
}

func TestAllocReusesFreedCellOfSameClass(t *testing.T) {
	a := NewArena(DefaultConfig)
	typ := testType(16)

	first, err := a.Alloc(typ)
	require.NoError(t, err)
	require.NoError(t, a.Free(first))

	statsBefore := a.Stats()
	_, err = a.Alloc(typ)
	require.NoError(t, err)
	statsAfter := a.Stats()

	assert.Equal(t, statsBefore.Slabs, statsAfter.Slabs, "reuse should not require a new slab")
}
