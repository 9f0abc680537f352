package runtime

import (
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-lang/kestrel/builtin"
	"github.com/kestrel-lang/kestrel/obj"
)

func newTestRuntime() *Runtime {
	rt := New(DefaultConfig())
	builtin.RegisterLeaves(rt.Collector())
	return rt
}

func TestNewConstructsAndRegistersNonRoot(t *testing.T) {
	rt := newTestRuntime()
	ref, err := rt.New(builtin.Int, mustInt(t, rt, 42))
	require.NoError(t, err)
	assert.Equal(t, int64(42), builtin.IntValue(ref))

	rt.Run()
	assert.Equal(t, 0, rt.Collector().Len(), "non-root with no other reference is collectible")
}

func TestNewRootSurvivesCollection(t *testing.T) {
	rt := newTestRuntime()
	ref, err := rt.NewRoot(builtin.Int, mustInt(t, rt, 7))
	require.NoError(t, err)

	rt.Run()
	assert.Equal(t, int64(7), builtin.IntValue(ref))
	assert.Equal(t, 1, rt.Collector().Len())
}

func TestDelRemovesRegardlessOfRootStatus(t *testing.T) {
	rt := newTestRuntime()
	ref, err := rt.NewRoot(builtin.Int, mustInt(t, rt, 1))
	require.NoError(t, err)

	require.NoError(t, rt.Del(ref))
	assert.Equal(t, 0, rt.Collector().Len())
}

func TestRemoveRootAllowsReclamation(t *testing.T) {
	rt := newTestRuntime()
	ref, err := rt.NewRoot(builtin.Int, mustInt(t, rt, 1))
	require.NoError(t, err)

	rt.RemoveRoot(ref)
	rt.Run()
	assert.Equal(t, 0, rt.Collector().Len())
}

func TestCopyProducesIndependentInstance(t *testing.T) {
	rt := newTestRuntime()
	orig, err := rt.NewRoot(builtin.Int, mustInt(t, rt, 9))
	require.NoError(t, err)

	dup, err := rt.Copy(orig)
	require.NoError(t, err)
	assert.Equal(t, int64(9), builtin.IntValue(dup))

	builtin.SetInt(dup, 100)
	assert.Equal(t, int64(9), builtin.IntValue(orig), "copy must not alias the original's storage")
}

func TestFinishReleasesEverything(t *testing.T) {
	rt := newTestRuntime()
	_, err := rt.NewRoot(builtin.Int, mustInt(t, rt, 1))
	require.NoError(t, err)
	_, err = rt.New(builtin.Int, mustInt(t, rt, 2))
	require.NoError(t, err)

	rt.Finish()
	assert.Equal(t, 0, rt.Collector().Len())
}

func TestDeallocRejectsNonHeapRef(t *testing.T) {
	rt := newTestRuntime()
	buf := make([]byte, int(obj.HeaderSize)+int(obj.Size(builtin.Int)))
	ref := obj.HeaderInit(buf, builtin.Int, obj.Stack)

	err := rt.Dealloc(ref)
	assert.Error(t, err)
}

func TestDeallocRejectsNil(t *testing.T) {
	rt := newTestRuntime()
	assert.Error(t, rt.Dealloc(nil))
}

func TestConstructWithFallsBackToAssignForSingleArg(t *testing.T) {
	rt := newTestRuntime()
	// A type with Assign but no New capability, so ConstructWith must
	// take the single-argument Assign fallback.
	typ := obj.NewType("runtime_test.AssignOnly",
		&obj.SizeCap{Size: func(*obj.Type) uintptr { return 8 }},
		&obj.AssignCap{Assign: func(dst, src obj.Ref) error {
			*(*int64)(unsafe.Pointer(dst)) = *(*int64)(unsafe.Pointer(src))
			return nil
		}},
	)
	ref, err := rt.Alloc(typ)
	require.NoError(t, err)

	src, err := rt.Alloc(typ)
	require.NoError(t, err)
	*(*int64)(unsafe.Pointer(src)) = 55

	require.NoError(t, ConstructWith(ref, []obj.Ref{src}))
	assert.Equal(t, int64(55), *(*int64)(unsafe.Pointer(ref)))
}

// badAllocType's Alloc capability hands back storage with no header at
// all, simulating a misbehaving custom allocator (AllocCap.Alloc must
// itself install a valid header; this one doesn't).
func badAllocType() *obj.Type {
	return obj.NewType("runtime_test.BadAlloc",
		&obj.SizeCap{Size: func(*obj.Type) uintptr { return 8 }},
		&obj.AllocCap{
			Alloc: func(t *obj.Type) (obj.Ref, error) {
				buf := make([]byte, int(obj.HeaderSize)+8)
				return obj.Ref(&buf[obj.HeaderSize]), nil
			},
		},
	)
}

func TestAllocWithMagicCheckCatchesUninitializedHeader(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MagicCheck = true
	rt := New(cfg)
	typ := badAllocType()

	_, err := rt.Alloc(typ)
	assert.Error(t, err, "a custom allocator that skips HeaderInit must be caught, not silently handed out")
}

func TestAllocWithMagicCheckDisabledLetsBadHeaderThrough(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MagicCheck = false
	rt := New(cfg)
	typ := badAllocType()

	ref, err := rt.Alloc(typ)
	require.NoError(t, err)
	assert.False(t, obj.Valid(ref))
}

func TestGCIntervalRunsAutomaticCollectionInBackground(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GCInterval = 5 * time.Millisecond
	rt := New(cfg)
	defer rt.Finish()
	builtin.RegisterLeaves(rt.Collector())

	_, err := rt.New(builtin.Int, mustInt(t, rt, 1))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return rt.Collector().Len() == 0
	}, time.Second, 5*time.Millisecond, "a positive GCInterval should reclaim unreachable garbage without an explicit Run")
}

func mustInt(t *testing.T, rt *Runtime, v int64) obj.Ref {
	t.Helper()
	ref, err := rt.Alloc(builtin.Int)
	require.NoError(t, err)
	builtin.SetInt(ref, v)
	return ref
}
