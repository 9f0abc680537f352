package gc

import (
	"fmt"
	"unsafe"

	"github.com/kestrel-lang/kestrel/obj"
)

// InvariantError reports one broken registry invariant found by Verify.
type InvariantError struct {
	Ref     obj.Ref
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("gc: invariant violated at %p: %s", e.Ref, e.Message)
}

// Verify walks every registered entry and checks the invariants the
// collector depends on: a live header with a valid magic, a registered
// Heap-kind ref (never Static/Stack/Data — those never belong in the
// registry), and a ref whose address actually falls inside the
// registry's own [minPtr, maxPtr] envelope. It returns the first
// violation found, or nil if the registry is internally consistent.
func (c *Collector) Verify() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var violation error
	c.reg.Each(func(ref obj.Ref, isRoot bool) {
		if violation != nil {
			return
		}
		if !obj.Valid(ref) {
			violation = &InvariantError{Ref: ref, Message: "header magic invalid or corrupted"}
			return
		}
		if obj.KindOf(ref) != obj.Heap {
			violation = &InvariantError{Ref: ref, Message: "non-Heap ref present in registry"}
			return
		}
		if !c.reg.InEnvelope(uintptr(unsafe.Pointer(ref))) {
			violation = &InvariantError{Ref: ref, Message: "ref address outside registry envelope"}
			return
		}
	})
	return violation
}
