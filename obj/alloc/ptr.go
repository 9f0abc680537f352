package alloc

import (
	"unsafe"

	"github.com/kestrel-lang/kestrel/obj"
)

// uintptrOf converts ref to a uintptr for address arithmetic only. The
// result is never stored past the calling function and never converted
// back into a Pointer, so it carries none of the usual uintptr hazards:
// the real Go pointer keeping the backing array alive (a slab held in
// Arena.slabs, or whatever the caller passed in) stays live independent
// of this value.
func uintptrOf(ref obj.Ref) uintptr {
	return uintptr(unsafe.Pointer(ref))
}
