package builtin

import (
	"io"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"

	"github.com/kestrel-lang/kestrel/kerr"
	"github.com/kestrel-lang/kestrel/obj"
)

// strValues is Str's side-table, the same pattern package omap uses for
// its tree state: Size is reported per-type, not per-instance, so a
// variable-length string can't be sized into the fixed payload Alloc
// hands back. The actual Go string lives here, keyed by the Str's Ref,
// rather than inside the arena buffer where it would be invisible to
// Go's own collector.
var strValues sync.Map // obj.Ref -> string

// Str is the string leaf type.
var Str = obj.Register(obj.NewType("Str",
	&obj.SizeCap{Size: func(*obj.Type) uintptr { return 0 }},
	&obj.NewCap{Construct: constructStr, Destruct: destructStr},
	&obj.AssignCap{Assign: assignStr},
	&obj.CopyCap{Copy: copyStr},
	&obj.EqCap{Eq: eqStr},
	&obj.CmpCap{Cmp: cmpStr},
	&obj.ShowCap{Show: showStr},
))

// StrValue reads ref's string value. ref must be a Str.
func StrValue(ref obj.Ref) string {
	v, _ := strValues.Load(ref)
	s, _ := v.(string)
	return s
}

// SetStr writes v as ref's string value.
func SetStr(ref obj.Ref, v string) {
	strValues.Store(ref, v)
}

func constructStr(ref obj.Ref, args []obj.Ref) error {
	if len(args) != 1 {
		return kerr.FormatError("Str", "expected exactly one initial value")
	}
	v, err := coerceStr(args[0])
	if err != nil {
		return err
	}
	SetStr(ref, v)
	return nil
}

func destructStr(ref obj.Ref) error {
	strValues.Delete(ref)
	return nil
}

func coerceStr(ref obj.Ref) (string, error) {
	if obj.TypeOf(ref) == Str {
		return StrValue(ref), nil
	}
	cast, err := obj.Cast(ref, Str)
	if err != nil {
		return "", err
	}
	return StrValue(cast), nil
}

func assignStr(dst, src obj.Ref) error {
	v, err := coerceStr(src)
	if err != nil {
		return err
	}
	SetStr(dst, v)
	return nil
}

func copyStr(ref obj.Ref) (obj.Ref, error) {
	buf := make([]byte, int(obj.HeaderSize))
	out := obj.HeaderInit(buf, Str, obj.Heap)
	SetStr(out, StrValue(ref))
	return out, nil
}

// eqStr and cmpStr compare under NFC normalization so Str keys that
// differ only in how a character's accent was composed (e.g. combining
// vs. precomposed diacritics) are treated as equal, rather than as
// distinct ordered-map keys with no visible difference.
func eqStr(a, b obj.Ref) bool { return norm.NFC.String(StrValue(a)) == norm.NFC.String(StrValue(b)) }

func cmpStr(a, b obj.Ref) int {
	return strings.Compare(norm.NFC.String(StrValue(a)), norm.NFC.String(StrValue(b)))
}

func showStr(w io.Writer, ref obj.Ref, _ string) error {
	_, err := io.WriteString(w, StrValue(ref))
	return err
}

// S is the $S(v) literal convenience, the Str analog of I/F.
func S(alloc func(*obj.Type) (obj.Ref, error), v string) (obj.Ref, error) {
	ref, err := alloc(Str)
	if err != nil {
		return nil, err
	}
	SetStr(ref, v)
	return ref, nil
}
