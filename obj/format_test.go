package obj

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newShowableInt(t *testing.T, v int64) Ref {
	t.Helper()
	typ := NewType("format_test.Showable"+uniqueSuffix(), &SizeCap{Size: func(*Type) uintptr { return 8 }},
		&ShowCap{Show: func(w io.Writer, ref Ref, verb string) error {
			_, err := io.WriteString(w, "<int>")
			return err
		}})
	return newScalar(t, typ, v)
}

var suffixCounter int

func uniqueSuffix() string {
	suffixCounter++
	return string(rune('A' + suffixCounter))
}

func TestSprintfSubstitutesShowVerb(t *testing.T) {
	a := newShowableInt(t, 1)
	b := newShowableInt(t, 2)
	out := Sprintf("pair: %$, %$!", a, b)
	assert.Equal(t, "pair: <int>, <int>!", out)
}

func TestFprintfLiteralPercent(t *testing.T) {
	a := newShowableInt(t, 1)
	out := Sprintf("100%% done: %$", a)
	assert.Equal(t, "100% done: <int>", out)
}

func TestFprintfErrorsOnTooFewArgs(t *testing.T) {
	err := Fprintf(io.Discard, "%$ %$", newShowableInt(t, 1))
	require.Error(t, err)
}
