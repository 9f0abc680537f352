package kerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelMatching(t *testing.T) {
	cases := []struct {
		err    error
		target error
	}{
		{OutOfMemory("Int"), ErrOutOfMemory},
		{ResourceError("Int", "not heap"), ErrResourceError},
		{TypeError("Int", "Traverse"), ErrTypeError},
		{KeyError("missing"), ErrKeyError},
		{FormatError("Map", "odd pairs"), ErrFormatError},
		{IndexError("Vec", "out of range"), ErrIndexError},
	}
	for _, c := range cases {
		assert.True(t, errors.Is(c.err, c.target), "expected %v to match %v", c.err, c.target)
	}
}

func TestRuntimeErrorMessage(t *testing.T) {
	err := TypeError("Int", "Traverse")
	var rt *RuntimeError
	require.True(t, errors.As(err, &rt))
	assert.Equal(t, KindTypeError, rt.Kind)
	assert.Contains(t, rt.Error(), "Int")
	assert.Contains(t, rt.Error(), "Traverse")
}

func TestRuntimeErrorNoSubject(t *testing.T) {
	err := &RuntimeError{Kind: KindOutOfMemory, Reason: "arena exhausted"}
	assert.Equal(t, "OutOfMemory: arena exhausted", err.Error())
}

func TestKindStringUnknown(t *testing.T) {
	assert.Equal(t, "UnknownError", Kind(255).String())
}
