package obj

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-lang/kestrel/kerr"
)

func TestCastIdentity(t *testing.T) {
	typ := newTestType("cast_test.Identity", 8)
	ref := newScalar(t, typ, 9)
	out, err := Cast(ref, typ)
	require.NoError(t, err)
	assert.Equal(t, ref, out)
}

func TestCastUsesRegisteredConversion(t *testing.T) {
	from := NewType("cast_test.From", &SizeCap{Size: func(*Type) uintptr { return 8 }})
	to := NewType("cast_test.To", &SizeCap{Size: func(*Type) uintptr { return 8 }})
	RegisterConversion(from, to, func(ref Ref) (Ref, error) {
		return newScalar(t, to, scalarVal(ref)*2), nil
	})

	ref := newScalar(t, from, 21)
	out, err := Cast(ref, to)
	require.NoError(t, err)
	assert.Equal(t, int64(42), scalarVal(out))
}

func TestCastWithoutConversionIsTypeError(t *testing.T) {
	from := NewType("cast_test.Unconverted", &SizeCap{Size: func(*Type) uintptr { return 8 }})
	to := NewType("cast_test.Unreachable", &SizeCap{Size: func(*Type) uintptr { return 8 }})
	ref := newScalar(t, from, 1)

	_, err := Cast(ref, to)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kerr.ErrTypeError))
}
