package obj

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestType(name string, size uintptr) *Type {
	return NewType(name, &SizeCap{Size: func(*Type) uintptr { return size }})
}

func TestHeaderInitAndAccessors(t *testing.T) {
	typ := newTestType("header_test.Scalar", unsafe.Sizeof(int64(0)))
	buf := make([]byte, int(HeaderSize)+int(Size(typ)))

	ref := HeaderInit(buf, typ, Heap)

	require.True(t, Valid(ref))
	assert.Equal(t, typ, TypeOf(ref))
	assert.Equal(t, Heap, KindOf(ref))
	assert.Len(t, Payload(ref), int(Size(typ)))
}

func TestValidRejectsNilAndCorruptMagic(t *testing.T) {
	assert.False(t, Valid(nil))

	typ := newTestType("header_test.Corruptible", 8)
	buf := make([]byte, int(HeaderSize)+8)
	ref := HeaderInit(buf, typ, Heap)
	require.True(t, Valid(ref))

	HeaderOf(ref).Magic = 0
	assert.False(t, Valid(ref))
}

func TestHeaderInitPanicsOnUndersizedBuffer(t *testing.T) {
	typ := newTestType("header_test.TooSmall", 8)
	assert.Panics(t, func() {
		HeaderInit(make([]byte, 1), typ, Heap)
	})
}

func TestAllocKindString(t *testing.T) {
	cases := map[AllocKind]string{
		Static: "Static", Stack: "Stack", Heap: "Heap", Data: "Data",
		AllocKind(99): "Unknown",
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.String())
	}
}
