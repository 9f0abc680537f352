package gc

import (
	"unsafe"

	"github.com/kestrel-lang/kestrel/obj"
)

// entry is one live slot. An empty slot is the zero value (ptr == nil),
// which is never a valid Ref, so it doubles as the tombstone-free "empty"
// marker Robin Hood back-shift deletion depends on.
type entry struct {
	ptr    obj.Ref
	hash   uintptr
	isRoot bool
	marked bool
}

func (e *entry) empty() bool { return e.ptr == nil }

// refAlign is the alignment Refs are handed out at; every allocator in
// package alloc aligns the payload it returns to this boundary, so the
// low bits of a pointer's address never vary and are worth discarding
// before hashing.
const refAlign = unsafe.Alignof(uintptr(0))

var log2RefAlign = log2(uintptr(refAlign))

func log2(n uintptr) uintptr {
	var r uintptr
	for n > 1 {
		n >>= 1
		r++
	}
	return r
}

// hashPtr is the registry's hash function: the address shifted right by
// log2(alignof(ref)), as required by the collector's registry contract.
func hashPtr(ref obj.Ref) uintptr {
	return uintptr(unsafe.Pointer(ref)) >> log2RefAlign
}

// Registry is the open-addressed, Robin-Hood-probed table of live Heap
// refs a Collector owns. It also maintains a [minPtr, maxPtr] envelope
// so the mark phase can cheaply reject candidate words that fall
// outside any allocation this registry could have handed out.
type Registry struct {
	slots  []entry
	nitems int

	minPtr uintptr
	maxPtr uintptr
}

// NewRegistry creates an empty registry sized for an initial expected
// population of n items.
func NewRegistry(n int) *Registry {
	size := nextPrime(n*2 + 1)
	return &Registry{slots: make([]entry, size)}
}

// Len reports the number of live entries.
func (r *Registry) Len() int { return r.nitems }

// LoadFactor is nitems / len(slots).
func (r *Registry) LoadFactor() float64 {
	if len(r.slots) == 0 {
		return 1
	}
	return float64(r.nitems) / float64(len(r.slots))
}

// Add registers ref, optionally as a root. Adding an already-present ref
// updates its root flag and otherwise has no effect.
func (r *Registry) Add(ref obj.Ref, isRoot bool) {
	if r.LoadFactor() > 0.9 {
		r.resize(nextPrime(len(r.slots) * 2))
	}
	if idx, ok := r.find(ref); ok {
		r.slots[idx].isRoot = isRoot
		return
	}
	r.insert(entry{ptr: ref, hash: hashPtr(ref), isRoot: isRoot})
	r.touchEnvelope(ref)
}

// Lookup reports whether ref is registered and, if so, its entry's
// current root/marked flags.
func (r *Registry) Lookup(ref obj.Ref) (isRoot, marked, ok bool) {
	idx, found := r.find(ref)
	if !found {
		return false, false, false
	}
	return r.slots[idx].isRoot, r.slots[idx].marked, true
}

// Mark sets ref's marked flag, returning false if ref was not registered
// or was already marked (so callers can skip re-traversing it).
func (r *Registry) Mark(ref obj.Ref) bool {
	idx, ok := r.find(ref)
	if !ok || r.slots[idx].marked {
		return false
	}
	r.slots[idx].marked = true
	return true
}

// InEnvelope reports whether addr falls within [minPtr, maxPtr] — the
// cheap rejection test the conservative word scan runs before paying for
// a full probe sequence.
func (r *Registry) InEnvelope(addr uintptr) bool {
	if r.nitems == 0 {
		return false
	}
	return addr >= r.minPtr && addr <= r.maxPtr
}

// Remove deletes ref via Robin Hood back-shift, preserving the probe
// invariant for every entry that follows it in probe order.
func (r *Registry) Remove(ref obj.Ref) bool {
	idx, ok := r.find(ref)
	if !ok {
		return false
	}
	n := len(r.slots)
	cur := idx
	for {
		next := (cur + 1) % n
		if r.slots[next].empty() || r.probeDistance(next) == 0 {
			r.slots[cur] = entry{}
			break
		}
		r.slots[cur] = r.slots[next]
		cur = next
	}
	r.nitems--
	return true
}

// Sweep collects every unmarked, non-root entry, removing it from the
// registry (via back-shift) and clearing the marked bit on every
// survivor. It returns the refs that were removed, in registry slot
// order, for the caller to destruct and free.
func (r *Registry) Sweep() []obj.Ref {
	var freed []obj.Ref
	for i := range r.slots {
		e := &r.slots[i]
		if e.empty() {
			continue
		}
		if !e.marked && !e.isRoot {
			freed = append(freed, e.ptr)
		}
	}
	for _, ref := range freed {
		r.Remove(ref)
	}
	for i := range r.slots {
		if !r.slots[i].empty() {
			r.slots[i].marked = false
		}
	}
	r.maybeShrink()
	return freed
}

// Each calls fn for every registered ref, in slot order. Used by tests
// and by Collector.Finish to walk every remaining entry at teardown.
func (r *Registry) Each(fn func(ref obj.Ref, isRoot bool)) {
	for i := range r.slots {
		if !r.slots[i].empty() {
			fn(r.slots[i].ptr, r.slots[i].isRoot)
		}
	}
}

func (r *Registry) find(ref obj.Ref) (int, bool) {
	if len(r.slots) == 0 {
		return 0, false
	}
	h := hashPtr(ref)
	n := len(r.slots)
	idx := int(h % uintptr(n))
	dist := 0
	for {
		e := &r.slots[idx]
		if e.empty() {
			return 0, false
		}
		if e.ptr == ref {
			return idx, true
		}
		if dist > r.probeDistance(idx) {
			return 0, false
		}
		idx = (idx + 1) % n
		dist++
	}
}

func (r *Registry) probeDistance(idx int) int {
	e := &r.slots[idx]
	n := len(r.slots)
	home := int(e.hash % uintptr(n))
	if idx >= home {
		return idx - home
	}
	return n - home + idx
}

// insert runs the Robin Hood displacement loop: the incoming entry
// steals a slot from any occupant whose own probe distance is smaller,
// carrying the displaced occupant forward to find its own new home.
func (r *Registry) insert(e entry) {
	n := len(r.slots)
	idx := int(e.hash % uintptr(n))
	dist := 0
	for {
		cur := &r.slots[idx]
		if cur.empty() {
			*cur = e
			r.nitems++
			return
		}
		curDist := r.probeDistance(idx)
		if dist > curDist {
			r.slots[idx], e = e, *cur
			dist = curDist
		}
		idx = (idx + 1) % n
		dist++
	}
}

func (r *Registry) touchEnvelope(ref obj.Ref) {
	addr := uintptr(unsafe.Pointer(ref))
	if r.nitems == 1 {
		r.minPtr, r.maxPtr = addr, addr
		return
	}
	if addr < r.minPtr {
		r.minPtr = addr
	}
	if addr > r.maxPtr {
		r.maxPtr = addr
	}
}

func (r *Registry) resize(newSize int) {
	old := r.slots
	r.slots = make([]entry, newSize)
	r.nitems = 0
	r.minPtr, r.maxPtr = 0, 0
	for _, e := range old {
		if e.empty() {
			continue
		}
		r.insert(e)
		r.touchEnvelope(e.ptr)
	}
}

// maybeShrink rehashes to a smaller prime table when nitems has fallen
// well below what the current table size is suited for, per the
// registry's "rehash down when load drops below the ideal" rule.
func (r *Registry) maybeShrink() {
	ideal := nextPrime(r.nitems*2 + 1)
	if ideal < len(r.slots) && r.LoadFactor() < 0.35 {
		r.resize(ideal)
	}
}
