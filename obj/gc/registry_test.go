package gc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-lang/kestrel/obj"
)

func fakeRefs(n int) []obj.Ref {
	backing := make([][8]byte, n)
	refs := make([]obj.Ref, n)
	for i := range backing {
		refs[i] = obj.Ref(unsafe.Pointer(&backing[i]))
	}
	return refs
}

func TestAddLookupRemove(t *testing.T) {
	r := NewRegistry(8)
	refs := fakeRefs(4)

	r.Add(refs[0], true)
	r.Add(refs[1], false)

	_, _, ok := r.Lookup(refs[2])
	assert.False(t, ok)

	isRoot, marked, ok := r.Lookup(refs[0])
	require.True(t, ok)
	assert.True(t, isRoot)
	assert.False(t, marked)

	assert.True(t, r.Remove(refs[0]))
	_, _, ok = r.Lookup(refs[0])
	assert.False(t, ok)
	assert.False(t, r.Remove(refs[0]), "double remove reports false")
}

func TestAddUpdatesRootFlagOnExisting(t *testing.T) {
	r := NewRegistry(8)
	refs := fakeRefs(1)
	r.Add(refs[0], false)
	r.Add(refs[0], true)

	isRoot, _, ok := r.Lookup(refs[0])
	require.True(t, ok)
	assert.True(t, isRoot)
	assert.Equal(t, 1, r.Len())
}

func TestMarkIsIdempotentPerCycle(t *testing.T) {
	r := NewRegistry(8)
	refs := fakeRefs(1)
	r.Add(refs[0], false)

	assert.True(t, r.Mark(refs[0]))
	assert.False(t, r.Mark(refs[0]), "already marked")
}

func TestSweepReclaimsUnmarkedNonRoots(t *testing.T) {
	r := NewRegistry(8)
	refs := fakeRefs(3)
	r.Add(refs[0], true)  // root, survives
	r.Add(refs[1], false) // marked, survives
	r.Add(refs[2], false) // unmarked, swept

	r.Mark(refs[1])
	freed := r.Sweep()

	require.Len(t, freed, 1)
	assert.Equal(t, refs[2], freed[0])
	assert.Equal(t, 2, r.Len())

	// survivors have their marked bit cleared for the next cycle
	_, marked, ok := r.Lookup(refs[1])
	require.True(t, ok)
	assert.False(t, marked)
}

func TestInEnvelopeRejectsOutsideRange(t *testing.T) {
	r := NewRegistry(8)
	refs := fakeRefs(2)
	r.Add(refs[0], false)
	r.Add(refs[1], false)

	assert.False(t, (&Registry{}).InEnvelope(0), "empty registry has no envelope")
	lo, hi := r.minPtr, r.maxPtr
	if lo > hi {
		lo, hi = hi, lo
	}
	assert.True(t, r.InEnvelope(lo))
	assert.True(t, r.InEnvelope(hi))
	assert.False(t, r.InEnvelope(0))
}

func TestResizeOnHighLoadFactorPreservesEntries(t *testing.T) {
	r := NewRegistry(4)
	refs := fakeRefs(50)
	for _, ref := range refs {
		r.Add(ref, false)
	}
	assert.Equal(t, 50, r.Len())
	for _, ref := range refs {
		_, _, ok := r.Lookup(ref)
		assert.True(t, ok)
	}
	assert.LessOrEqual(t, r.LoadFactor(), 0.9)
}

func TestEachVisitsEveryEntryExactlyOnce(t *testing.T) {
	r := NewRegistry(8)
	refs := fakeRefs(5)
	for i, ref := range refs {
		r.Add(ref, i%2 == 0)
	}
	seen := map[obj.Ref]bool{}
	r.Each(func(ref obj.Ref, isRoot bool) { seen[ref] = true })
	assert.Len(t, seen, 5)
}
