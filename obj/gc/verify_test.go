package gc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-lang/kestrel/obj"
)

func TestVerifyPassesOnConsistentRegistry(t *testing.T) {
	arena := &fakeArena{}
	c := New(arena, nil)
	typ := leafScalarType()
	c.RegisterLeaf(typ)

	c.AddRoot(allocScalar(t, typ))
	c.Add(allocScalar(t, typ))

	assert.NoError(t, c.Verify())
}

func TestVerifyCatchesCorruptedMagic(t *testing.T) {
	arena := &fakeArena{}
	c := New(arena, nil)
	typ := leafScalarType()
	c.RegisterLeaf(typ)

	ref := allocScalar(t, typ)
	c.AddRoot(ref)

	obj.HeaderOf(ref).Magic = 0

	err := c.Verify()
	require.Error(t, err)
	var ierr *InvariantError
	assert.ErrorAs(t, err, &ierr)
}
