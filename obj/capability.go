package obj

import "io"

// CapID names one of the capability slots a type's table may fill. The
// set is small and fixed (< 20 per the design notes), which is why lookup
// is a linear scan rather than a map.
type CapID uint8

const (
	CapSize CapID = iota
	CapNew
	CapAssign
	CapCopy
	CapEq
	CapCmp
	CapLen
	CapGet
	CapIter
	CapTraverse
	CapShow
	CapSubtype
	CapAlloc
	numCaps
)

func (c CapID) String() string {
	names := [numCaps]string{
		"Size", "New", "Assign", "Copy", "Eq", "Cmp", "Len",
		"Get", "Iter", "Traverse", "Show", "Subtype", "Alloc",
	}
	if int(c) < len(names) {
		return names[c]
	}
	return "Unknown"
}

// SizeCap reports the byte size of one instance's payload (header
// excluded). Every type that can be allocated must implement it.
type SizeCap struct {
	Size func(t *Type) uintptr
}

// NewCap constructs and destructs instances in already-headered, zeroed
// storage. Construct sees zeroed memory and may assume nothing else.
type NewCap struct {
	Construct func(ref Ref, args []Ref) error
	Destruct  func(ref Ref) error
}

// AssignCap deep-copies src's state into dst, which already has a valid
// header of the same type. It is the canonical "set dst from src" used by
// the default Copy implementation and by map update-in-place.
type AssignCap struct {
	Assign func(dst, src Ref) error
}

// CopyCap allocates and returns a fresh, independent instance equal to
// ref. Types without Copy fall back to alloc + Assign.
type CopyCap struct {
	Copy func(ref Ref) (Ref, error)
}

// EqCap reports value equality. Eq falls back to Cmp == 0 when absent and
// Cmp is implemented (see Eq helper in dispatch.go).
type EqCap struct {
	Eq func(a, b Ref) bool
}

// CmpCap returns a tri-valued ordering: negative, zero, or positive as a
// orders before, equal to, or after b.
type CmpCap struct {
	Cmp func(a, b Ref) int
}

// LenCap reports a container's element count.
type LenCap struct {
	Len func(ref Ref) int
}

// GetCap is the keyed-access capability: get/set/contains/remove.
type GetCap struct {
	Get func(ref, key Ref) (Ref, error)
	Set func(ref, key, val Ref) error
	Mem func(ref, key Ref) bool
	Rem func(ref, key Ref) error
}

// IterCap produces and advances an iterator. Iterator is a plain value the
// caller stack-allocates and passes by pointer, mirroring Cello's
// stack-allocated iterator idiom rather than allocating per call.
type IterCap struct {
	Init func(ref Ref) Iterator
	Next func(it *Iterator) (Ref, bool)
}

// Iterator holds enough state to resume a container's traversal. Fields
// are container-specific; containers stash their cursor in Opaque.
type Iterator struct {
	Container Ref
	Opaque    any
}

// TraverseCap visits every managed Ref directly reachable from ref,
// calling fn once per child. This is what lets the collector trace a
// composite object precisely instead of conservatively scanning its body.
type TraverseCap struct {
	Traverse func(ref Ref, fn func(Ref))
}

// ShowCap formats ref to w. verb carries the format specifier that
// triggered the call (e.g. "%$", "%v") so a type can special-case it.
type ShowCap struct {
	Show func(w io.Writer, ref Ref, verb string) error
}

// SubtypeCap exposes the element/key/value types of a parametric
// container, e.g. for an ordered map, KeyType and ValType.
type SubtypeCap struct {
	KeyType *Type
	ValType *Type
}

// AllocCap lets a type override where its Heap instances come from,
// bypassing the shared arena. Alloc must itself install a valid header.
type AllocCap struct {
	Alloc   func(t *Type) (Ref, error)
	Dealloc func(ref Ref) error
}
