package alloc

import (
	"container/heap"
	"sync"
	"unsafe"

	"github.com/kestrel-lang/kestrel/internal/buf"
	"github.com/kestrel-lang/kestrel/obj"
)

// defaultSlabSize is sixteen host pages; pageSize is defined per-GOOS in
// page_*.go, so a default slab is always a whole number of pages.
var defaultSlabSize = pageSize() * 16

// freeCell is one reusable byte range within a slab, ordered by
// (slab, offset) so the free-list heap yields address-ordered reuse.
type freeCell struct {
	slab, off, size int
}

type freeCellHeap []freeCell

func (h freeCellHeap) Len() int { return len(h) }
func (h freeCellHeap) Less(i, j int) bool {
	if h[i].slab != h[j].slab {
		return h[i].slab < h[j].slab
	}
	return h[i].off < h[j].off
}
func (h freeCellHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *freeCellHeap) Push(x any)   { *h = append(*h, x.(freeCell)) }
func (h *freeCellHeap) Pop() any {
	old := *h
	n := len(old)
	last := old[n-1]
	*h = old[:n-1]
	return last
}

// Stats summarizes arena occupancy for diagnostics.
type Stats struct {
	Slabs          int
	BytesReserved  int
	BytesAllocated int
	LiveCells      int
}

// Arena is the slab-backed Heap allocator. One Arena typically backs one
// Runtime; it knows nothing about the garbage collector — the collector
// calls Free through the Deallocator interface it satisfies.
type Arena struct {
	mu        sync.Mutex
	cfg       SizeClassConfig
	table     *classTable
	slabSize  int
	slabs     [][]byte
	freeLists []freeCellHeap // len == table.numClasses()+1, last is "large"
	allocated int
	live      int
}

// NewArena creates an Arena using cfg for its size-class boundaries.
func NewArena(cfg SizeClassConfig) *Arena {
	table := newClassTable(cfg)
	return &Arena{
		cfg:       cfg,
		table:     table,
		slabSize:  defaultSlabSize,
		freeLists: make([]freeCellHeap, table.numClasses()+1),
	}
}

// Alloc reserves storage for one instance of t, installs a Heap header,
// and returns the resulting Ref. It grows the arena by one slab when no
// free cell of a sufficient size class is available.
func (a *Arena) Alloc(t *obj.Type) (obj.Ref, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	need := int(obj.HeaderSize) + int(obj.Size(t))
	cls := a.table.classOf(need)

	cell, ok := a.takeFreeCell(cls, need)
	if !ok {
		if err := a.grow(need); err != nil {
			return nil, err
		}
		cell, ok = a.takeFreeCell(cls, need)
		if !ok {
			return nil, ErrNoSpace
		}
	}

	cellBytes, ok2 := buf.Slice(a.slabs[cell.slab], cell.off, need)
	if !ok2 {
		return nil, ErrBadRef
	}
	for i := range cellBytes {
		cellBytes[i] = 0
	}
	// Leftover space in an over-sized cell (from the large list, or a
	// bucket boundary) is returned to the free list rather than wasted.
	if cell.size > need {
		a.putFreeCell(freeCell{cell.slab, cell.off + need, cell.size - need})
	}
	a.allocated += need
	a.live++
	return obj.HeaderInit(cellBytes, t, obj.Heap), nil
}

// Free returns ref's storage to the free list. ref must have come from
// this Arena's Alloc and must not already be free.
func (a *Arena) Free(ref obj.Ref) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	slab, off, size, ok := a.locate(ref)
	if !ok {
		return ErrBadRef
	}
	a.putFreeCell(freeCell{slab, off, size})
	a.allocated -= size
	a.live--
	return nil
}

// Stats reports current occupancy.
func (a *Arena) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	reserved := 0
	for _, s := range a.slabs {
		reserved += len(s)
	}
	return Stats{
		Slabs:          len(a.slabs),
		BytesReserved:  reserved,
		BytesAllocated: a.allocated,
		LiveCells:      a.live,
	}
}

func (a *Arena) takeFreeCell(cls, need int) (freeCell, bool) {
	h := &a.freeLists[cls]
	for i := 0; i < h.Len(); i++ {
		if (*h)[i].size >= need {
			cell := (*h)[i]
			heap.Remove(h, i)
			return cell, true
		}
	}
	// Fall through to the large list for anything the requested class
	// couldn't satisfy (e.g. immediately after a fresh slab's single
	// giant free cell was classified as large).
	large := &a.freeLists[len(a.freeLists)-1]
	for i := 0; i < large.Len(); i++ {
		if (*large)[i].size >= need {
			cell := (*large)[i]
			heap.Remove(large, i)
			return cell, true
		}
	}
	return freeCell{}, false
}

func (a *Arena) putFreeCell(c freeCell) {
	cls := a.table.classOf(c.size)
	if cls >= len(a.freeLists)-1 {
		cls = len(a.freeLists) - 1
	}
	heap.Push(&a.freeLists[cls], c)
}

func (a *Arena) grow(need int) error {
	size := a.slabSize
	for size < need {
		doubled, ok := buf.AddOverflowSafe(size, size)
		if !ok {
			return ErrGrowFail
		}
		size = doubled
	}
	slab := make([]byte, size)
	a.slabs = append(a.slabs, slab)
	heap.Push(&a.freeLists[len(a.freeLists)-1], freeCell{slab: len(a.slabs) - 1, off: 0, size: size})
	return nil
}

// locate finds the (slab, offset) a live ref's header starts at, and the
// size of its allocation as reported by its own type — used by Free to
// recover bookkeeping the caller no longer carries. The uintptr math
// stays local to this call (never stored, never converted back to a
// Pointer), which keeps it safe under the unsafe.Pointer rules: a.slabs
// holds the only live Go pointers involved.
func (a *Arena) locate(ref obj.Ref) (slab, off, size int, ok bool) {
	size = int(obj.HeaderSize) + int(obj.Size(obj.TypeOf(ref)))
	base := uintptrOf(ref) - uintptr(obj.HeaderSize)
	for i, s := range a.slabs {
		if len(s) == 0 {
			continue
		}
		start := uintptrOf(obj.Ref(unsafe.Pointer(&s[0])))
		end := start + uintptr(len(s))
		if base >= start && base < end {
			return i, int(base - start), size, true
		}
	}
	return 0, 0, 0, false
}
