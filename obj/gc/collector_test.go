package gc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-lang/kestrel/obj"
)

// fakeArena is a minimal Deallocator recording Free calls, so collector
// tests don't need a real obj/alloc.Arena.
type fakeArena struct {
	freed []obj.Ref
}

func (a *fakeArena) Free(ref obj.Ref) error {
	a.freed = append(a.freed, ref)
	return nil
}

func leafScalarType() *obj.Type {
	return obj.NewType("collector_test.Leaf"+uniqueName(), &obj.SizeCap{Size: func(*obj.Type) uintptr { return 8 }})
}

var nameCounter int

func uniqueName() string {
	nameCounter++
	return string(rune('a' + nameCounter%26))
}

func allocScalar(t *testing.T, typ *obj.Type) obj.Ref {
	t.Helper()
	buf := make([]byte, int(obj.HeaderSize)+8)
	return obj.HeaderInit(buf, typ, obj.Heap)
}

func TestCollectorReclaimsUnreachableGarbage(t *testing.T) {
	arena := &fakeArena{}
	c := New(arena, nil)
	typ := leafScalarType()
	c.RegisterLeaf(typ)

	root := allocScalar(t, typ)
	garbage := allocScalar(t, typ)
	c.AddRoot(root)
	c.Add(garbage)

	c.Run()

	assert.Equal(t, 1, c.Len())
	require.Len(t, arena.freed, 1)
	assert.Equal(t, garbage, arena.freed[0])
}

func TestCollectorKeepsRootAcrossMultipleCycles(t *testing.T) {
	arena := &fakeArena{}
	c := New(arena, nil)
	typ := leafScalarType()
	c.RegisterLeaf(typ)

	root := allocScalar(t, typ)
	c.AddRoot(root)

	c.Run()
	c.Run()

	assert.Equal(t, 1, c.Len())
	assert.Empty(t, arena.freed)
}

func TestRemoveRootAllowsReclamation(t *testing.T) {
	arena := &fakeArena{}
	c := New(arena, nil)
	typ := leafScalarType()
	c.RegisterLeaf(typ)

	ref := allocScalar(t, typ)
	c.AddRoot(ref)
	c.Run()
	assert.Equal(t, 1, c.Len())

	c.RemoveRoot(ref)
	c.Run()
	assert.Equal(t, 0, c.Len())
	assert.Len(t, arena.freed, 1)
}

func TestDelRemovesRegardlessOfRootStatus(t *testing.T) {
	arena := &fakeArena{}
	c := New(arena, nil)
	typ := leafScalarType()
	c.RegisterLeaf(typ)

	ref := allocScalar(t, typ)
	c.AddRoot(ref)

	require.NoError(t, c.Del(ref))
	assert.Equal(t, 0, c.Len())
	assert.Len(t, arena.freed, 1)
}

func TestDelOnUnregisteredRefErrors(t *testing.T) {
	arena := &fakeArena{}
	c := New(arena, nil)
	typ := leafScalarType()
	ref := allocScalar(t, typ)

	err := c.Del(ref)
	assert.Error(t, err)
}

func TestFinishSweepsEverythingUnconditionally(t *testing.T) {
	arena := &fakeArena{}
	c := New(arena, nil)
	typ := leafScalarType()
	c.RegisterLeaf(typ)

	root := allocScalar(t, typ)
	nonRoot := allocScalar(t, typ)
	c.AddRoot(root)
	c.Add(nonRoot)

	c.Finish()
	assert.Equal(t, 0, c.Len())
	assert.Len(t, arena.freed, 2)
}

func TestStartStopIsIdempotentAndJoins(t *testing.T) {
	arena := &fakeArena{}
	c := New(arena, nil)
	c.Start(0)
	c.Start(0) // no-op, already running
	c.Stop()
	c.Stop() // no-op, already stopped
}

func TestStartWithIntervalRunsAutomaticCollection(t *testing.T) {
	arena := &fakeArena{}
	c := New(arena, nil)
	typ := leafScalarType()
	c.RegisterLeaf(typ)

	garbage := allocScalar(t, typ)
	c.Add(garbage)

	c.Start(5 * time.Millisecond)
	require.Eventually(t, func() bool {
		return c.Len() == 0
	}, time.Second, 5*time.Millisecond, "ticking collector should reclaim garbage on its own")
	c.Stop()
}

func TestDestructIsCalledBeforeFree(t *testing.T) {
	arena := &fakeArena{}
	c := New(arena, nil)

	var destructed bool
	freedAtDestruct := -1
	typ := obj.NewType("collector_test.Destructible",
		&obj.SizeCap{Size: func(*obj.Type) uintptr { return 8 }},
		&obj.NewCap{Destruct: func(ref obj.Ref) error {
			destructed = true
			freedAtDestruct = len(arena.freed)
			return nil
		}},
	)
	c.RegisterLeaf(typ)
	ref := allocScalar(t, typ)
	c.Add(ref)

	c.Run()
	assert.True(t, destructed)
	assert.Equal(t, 0, freedAtDestruct, "destructor must run before the ref's storage is freed")
	assert.Len(t, arena.freed, 1)
}
