package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-lang/kestrel/obj"
)

func mustF(t *testing.T, v float64) obj.Ref {
	t.Helper()
	ref, err := F(allocFn(t), v)
	require.NoError(t, err)
	return ref
}

func TestFloatConstructRejectsWrongArgCount(t *testing.T) {
	ref := rawAlloc(t, Float)
	assert.Error(t, constructFloat(ref, nil))
}

func TestFloatEqAndCmp(t *testing.T) {
	a, b, c := mustF(t, 1.5), mustF(t, 1.5), mustF(t, 2.5)
	assert.True(t, eqFloat(a, b))
	assert.Equal(t, 0, cmpFloat(a, b))
	assert.Equal(t, -1, cmpFloat(a, c))
}

func TestFloatCopyIsIndependent(t *testing.T) {
	orig := mustF(t, 1.0)
	dup, err := copyFloat(orig)
	require.NoError(t, err)
	SetFloat(dup, 2.0)
	assert.Equal(t, 1.0, FloatValue(orig))
}

func TestFloatAssignCoercesFromInt(t *testing.T) {
	dst := rawAlloc(t, Float)
	src := mustI(t, 4)
	require.NoError(t, assignFloat(dst, src))
	assert.Equal(t, 4.0, FloatValue(dst))
}

func TestFloatShowFormatsShortest(t *testing.T) {
	assert.Equal(t, "3.5", obj.Sprintf("%$", mustF(t, 3.5)))
}
