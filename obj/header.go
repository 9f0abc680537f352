package obj

import "unsafe"

// Magic is the sentinel every live header carries. Valid(ref) checks
// against it; a mismatch means either memory corruption or a dangling Ref
// reused after its allocation's backing storage was repurposed.
const Magic uint32 = 0xC0DEFEED

// AllocKind classifies an object's provenance. It is fixed for the life of
// the object and determines which lifecycle operations are legal:
// only Heap objects may reach Dealloc/Del.
type AllocKind uint8

const (
	// Static objects live for the process's lifetime (package-level values
	// a host declares once). Never registered, never freed.
	Static AllocKind = iota
	// Stack objects are backed by caller-supplied scratch storage whose
	// lifetime is the caller's scope. Never registered, never freed by gc.
	Stack
	// Heap objects are arena-backed and tracked by the collector.
	Heap
	// Data objects are embedded inside another object's body (e.g. a map
	// node's key and value slots) and share that object's lifetime.
	Data
)

func (k AllocKind) String() string {
	switch k {
	case Static:
		return "Static"
	case Stack:
		return "Stack"
	case Heap:
		return "Heap"
	case Data:
		return "Data"
	default:
		return "Unknown"
	}
}

// Header is the fixed prefix written immediately before every managed
// value's payload. Its layout is identical regardless of provenance.
type Header struct {
	Type      *Type
	AllocKind AllocKind
	Magic     uint32
}

// HeaderSize is sizeof(Header), rounded so that a Ref placed immediately
// after it satisfies any type's alignment requirements we hand out.
var HeaderSize = alignUp(unsafe.Sizeof(Header{}), unsafe.Alignof(Header{}))

// Ref is the address immediately past an object's Header. It is the only
// handle user code, capability records, and the collector pass around.
type Ref unsafe.Pointer

// HeaderInit writes Type, kind, and Magic into the first HeaderSize bytes
// of buf and returns the Ref that follows — the address composite
// containers (and the arena allocator) use to install a fresh object in
// caller-owned or arena-owned storage alike.
//
// buf must be at least HeaderSize + Size(t) bytes and must already
// be zeroed; HeaderInit does not touch payload bytes.
func HeaderInit(buf []byte, t *Type, kind AllocKind) Ref {
	if uintptr(len(buf)) < HeaderSize {
		panic("obj: HeaderInit buffer smaller than HeaderSize")
	}
	hdr := (*Header)(unsafe.Pointer(&buf[0]))
	hdr.Type = t
	hdr.AllocKind = kind
	hdr.Magic = Magic
	return Ref(unsafe.Add(unsafe.Pointer(&buf[0]), HeaderSize))
}

// HeaderOf returns the Header immediately preceding ref. It does not
// check Magic, and neither do TypeOf and KindOf; callers that need to
// detect a corrupted header call Valid.
func HeaderOf(ref Ref) *Header {
	return (*Header)(unsafe.Add(unsafe.Pointer(ref), -int(HeaderSize)))
}

// Valid reports whether ref's header carries the live sentinel.
func Valid(ref Ref) bool {
	if ref == nil {
		return false
	}
	return HeaderOf(ref).Magic == Magic
}

// TypeOf reads ref's header Type field.
func TypeOf(ref Ref) *Type {
	return HeaderOf(ref).Type
}

// KindOf reads ref's header AllocKind field.
func KindOf(ref Ref) AllocKind {
	return HeaderOf(ref).AllocKind
}

// Payload returns a byte view over ref's instance storage, sized to the
// type's reported Size(). It is the conservative GC fallback's scanning
// window and the substrate leaf types (Int, Float, ...) encode into.
func Payload(ref Ref) []byte {
	t := TypeOf(ref)
	n := Size(t)
	return unsafe.Slice((*byte)(unsafe.Pointer(ref)), n)
}

func alignUp(n, align uintptr) uintptr {
	return (n + align - 1) &^ (align - 1)
}
