package builtin

import (
	"io"
	"strconv"
	"unsafe"

	"github.com/kestrel-lang/kestrel/kerr"
	"github.com/kestrel-lang/kestrel/obj"
)

// Float is the floating-point leaf type: a single float64 payload.
var Float = obj.Register(obj.NewType("Float",
	&obj.SizeCap{Size: func(*obj.Type) uintptr { return unsafe.Sizeof(float64(0)) }},
	&obj.NewCap{Construct: constructFloat},
	&obj.AssignCap{Assign: assignFloat},
	&obj.CopyCap{Copy: copyFloat},
	&obj.EqCap{Eq: eqFloat},
	&obj.CmpCap{Cmp: cmpFloat},
	&obj.ShowCap{Show: showFloat},
))

func floatAt(ref obj.Ref) *float64 {
	return (*float64)(unsafe.Pointer(ref))
}

// FloatValue reads ref's payload as a float64. ref must be a Float.
func FloatValue(ref obj.Ref) float64 {
	return *floatAt(ref)
}

// SetFloat writes v into ref's payload. ref must be a Float.
func SetFloat(ref obj.Ref, v float64) {
	*floatAt(ref) = v
}

func constructFloat(ref obj.Ref, args []obj.Ref) error {
	if len(args) != 1 {
		return kerr.FormatError("Float", "expected exactly one initial value")
	}
	v, err := coerceFloat(args[0])
	if err != nil {
		return err
	}
	SetFloat(ref, v)
	return nil
}

func coerceFloat(ref obj.Ref) (float64, error) {
	if obj.TypeOf(ref) == Float {
		return FloatValue(ref), nil
	}
	cast, err := obj.Cast(ref, Float)
	if err != nil {
		return 0, err
	}
	return FloatValue(cast), nil
}

func assignFloat(dst, src obj.Ref) error {
	v, err := coerceFloat(src)
	if err != nil {
		return err
	}
	SetFloat(dst, v)
	return nil
}

func copyFloat(ref obj.Ref) (obj.Ref, error) {
	buf := make([]byte, int(obj.HeaderSize)+int(obj.Size(Float)))
	out := obj.HeaderInit(buf, Float, obj.Heap)
	SetFloat(out, FloatValue(ref))
	return out, nil
}

func eqFloat(a, b obj.Ref) bool { return FloatValue(a) == FloatValue(b) }

func cmpFloat(a, b obj.Ref) int {
	x, y := FloatValue(a), FloatValue(b)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func showFloat(w io.Writer, ref obj.Ref, _ string) error {
	_, err := io.WriteString(w, strconv.FormatFloat(FloatValue(ref), 'g', -1, 64))
	return err
}

// F is the $F(v) literal convenience, the Float analog of I.
func F(alloc func(*obj.Type) (obj.Ref, error), v float64) (obj.Ref, error) {
	ref, err := alloc(Float)
	if err != nil {
		return nil, err
	}
	SetFloat(ref, v)
	return ref, nil
}
