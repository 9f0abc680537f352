package obj

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTypeInfersCapIDs(t *testing.T) {
	var calledEq bool
	typ := NewType("type_test.Pair",
		&SizeCap{Size: func(*Type) uintptr { return 4 }},
		&EqCap{Eq: func(a, b Ref) bool { calledEq = true; return true }},
	)

	sizeCap, ok := TypeInstance(typ, CapSize).(*SizeCap)
	require.True(t, ok)
	assert.Equal(t, uintptr(4), sizeCap.Size(typ))

	eqCap, ok := TypeInstance(typ, CapCmp).(*CmpCap)
	assert.False(t, ok, "Cmp was never registered")
	assert.Nil(t, eqCap)

	_, ok = TypeInstance(typ, CapEq).(*EqCap)
	require.True(t, ok)
	_ = calledEq
}

func TestNewTypePanicsOnUnknownCapability(t *testing.T) {
	assert.Panics(t, func() {
		NewType("type_test.Bad", "not a capability record")
	})
}

func TestRegisterAndLookup(t *testing.T) {
	typ := NewType("type_test.Registered", &SizeCap{Size: func(*Type) uintptr { return 1 }})
	Register(typ)
	assert.Same(t, typ, Lookup("type_test.Registered"))
	assert.Nil(t, Lookup("type_test.DoesNotExist"))
}

func TestRegisterPanicsOnDuplicateName(t *testing.T) {
	typ := NewType("type_test.Dup", &SizeCap{Size: func(*Type) uintptr { return 1 }})
	Register(typ)
	assert.Panics(t, func() {
		Register(NewType("type_test.Dup", &SizeCap{Size: func(*Type) uintptr { return 1 }}))
	})
}

func TestInstanceProbesLiveRef(t *testing.T) {
	typ := newTestType("type_test.Instance", 8)
	buf := make([]byte, int(HeaderSize)+8)
	ref := HeaderInit(buf, typ, Heap)

	_, ok := Instance(ref, CapSize).(*SizeCap)
	assert.True(t, ok)
	assert.Nil(t, Instance(ref, CapTraverse))
}
