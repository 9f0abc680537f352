package gc

import (
	"unsafe"

	"github.com/kestrel-lang/kestrel/internal/buf"
	"github.com/kestrel-lang/kestrel/obj"
)

// initialMarkStackCapacity pre-sizes the DFS stack: most object graphs
// nest a handful of levels deep, so this avoids reallocating the mark
// stack on the common case.
const initialMarkStackCapacity = 256

// mark runs the iterative reachability pass: every currently-registered
// root seeds the stack, and each popped ref is traced via its type's
// Traverse capability, or — lacking that — by scanning its body at
// pointer-sized stride and testing each word against the registry's
// envelope and table, exactly as the conservative fallback requires.
//
// Reachability dedup is tracked two ways at once, because not every ref
// the walk visits is a registry entry: a map node's key and value are
// Data-kind, sharing the node's lifetime rather than being tracked
// individually, but the walk must still recurse into them (they may
// themselves hold further Heap refs) exactly once. seen dedups every
// ref the walk visits regardless of kind; the registry's own marked bit
// is set alongside it for Heap entries, since that bit (not seen) is
// what Sweep consults.
func (c *Collector) mark() {
	stack := make([]obj.Ref, 0, initialMarkStackCapacity)
	seen := make(map[obj.Ref]struct{}, c.reg.Len())

	c.reg.Each(func(ref obj.Ref, isRoot bool) {
		if isRoot {
			stack = append(stack, ref)
		}
	})
	for _, ref := range c.extraRootsFromFrames() {
		stack = append(stack, ref)
	}

	for len(stack) > 0 {
		n := len(stack) - 1
		ref := stack[n]
		stack = stack[:n]

		if ref == nil {
			continue
		}
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}

		if obj.KindOf(ref) == obj.Heap {
			c.reg.Mark(ref)
		}

		if c.leaves[obj.TypeOf(ref)] {
			continue
		}

		if _, ok := obj.Instance(ref, obj.CapTraverse).(*obj.TraverseCap); ok {
			_ = obj.Traverse(ref, func(child obj.Ref) {
				if child != nil {
					stack = append(stack, child)
				}
			})
			continue
		}

		stack = c.scanConservatively(ref, stack)
	}
}

// scanConservatively treats ref's body as an array of pointer-sized
// words and appends every word that could plausibly be a managed Ref:
// word-aligned, inside the registry's [minPtr, maxPtr] envelope, and
// present in the registry itself. This is what lets ordinary composite
// types (and any leaf the host forgot to give a Traverse capability) be
// traced without explicit cooperation, at the cost of occasionally
// retaining an unboxed integer that happens to look like a pointer.
func (c *Collector) scanConservatively(ref obj.Ref, stack []obj.Ref) []obj.Ref {
	body := obj.Payload(ref)
	wordSize := int(unsafe.Sizeof(uintptr(0)))
	for off := 0; buf.Has(body, off, wordSize); off += wordSize {
		word := *(*uintptr)(unsafe.Pointer(&body[off]))
		if word == 0 || word%uintptr(wordSize) != 0 {
			continue
		}
		if !c.reg.InEnvelope(word) {
			continue
		}
		candidate := obj.Ref(unsafe.Pointer(word))
		if !obj.Valid(candidate) {
			continue
		}
		if _, _, ok := c.reg.Lookup(candidate); ok {
			stack = append(stack, candidate)
		}
	}
	return stack
}
