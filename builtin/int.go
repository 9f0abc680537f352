package builtin

import (
	"io"
	"strconv"
	"unsafe"

	"github.com/kestrel-lang/kestrel/kerr"
	"github.com/kestrel-lang/kestrel/obj"
)

// Int is the integer leaf type: a single int64 payload, no Traverse
// capability, registered as a GC leaf by RegisterLeaves.
var Int = obj.Register(obj.NewType("Int",
	&obj.SizeCap{Size: func(*obj.Type) uintptr { return unsafe.Sizeof(int64(0)) }},
	&obj.NewCap{Construct: constructInt},
	&obj.AssignCap{Assign: assignInt},
	&obj.CopyCap{Copy: copyInt},
	&obj.EqCap{Eq: eqInt},
	&obj.CmpCap{Cmp: cmpInt},
	&obj.ShowCap{Show: showInt},
))

func intAt(ref obj.Ref) *int64 {
	return (*int64)(unsafe.Pointer(ref))
}

// IntValue reads ref's payload as an int64. ref must be an Int.
func IntValue(ref obj.Ref) int64 {
	return *intAt(ref)
}

// SetInt writes v into ref's payload. ref must be an Int.
func SetInt(ref obj.Ref, v int64) {
	*intAt(ref) = v
}

// constructInt reads a single Int arg and stores it, matching any
// numeric literal argument via Construct's "args has length 1"
// single-value path.
func constructInt(ref obj.Ref, args []obj.Ref) error {
	if len(args) != 1 {
		return kerr.FormatError("Int", "expected exactly one initial value")
	}
	v, err := coerceInt(args[0])
	if err != nil {
		return err
	}
	SetInt(ref, v)
	return nil
}

func coerceInt(ref obj.Ref) (int64, error) {
	if obj.TypeOf(ref) == Int {
		return IntValue(ref), nil
	}
	cast, err := obj.Cast(ref, Int)
	if err != nil {
		return 0, err
	}
	return IntValue(cast), nil
}

func assignInt(dst, src obj.Ref) error {
	v, err := coerceInt(src)
	if err != nil {
		return err
	}
	SetInt(dst, v)
	return nil
}

func copyInt(ref obj.Ref) (obj.Ref, error) {
	buf := make([]byte, int(obj.HeaderSize)+int(obj.Size(Int)))
	out := obj.HeaderInit(buf, Int, obj.Heap)
	SetInt(out, IntValue(ref))
	return out, nil
}

func eqInt(a, b obj.Ref) bool { return IntValue(a) == IntValue(b) }

func cmpInt(a, b obj.Ref) int {
	x, y := IntValue(a), IntValue(b)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func showInt(w io.Writer, ref obj.Ref, _ string) error {
	_, err := io.WriteString(w, strconv.FormatInt(IntValue(ref), 10))
	return err
}

// I is the $I(k) literal convenience: it allocates ref via the supplied
// allocator-shaped func (typically Runtime.Alloc), constructs it with
// v, and returns the resulting Ref. Kept as a free function rather than
// a Runtime method so builtin has no dependency on package runtime.
func I(alloc func(*obj.Type) (obj.Ref, error), v int64) (obj.Ref, error) {
	ref, err := alloc(Int)
	if err != nil {
		return nil, err
	}
	SetInt(ref, v)
	return ref, nil
}
