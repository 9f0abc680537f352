// Package alloc implements the Heap-kind backing store for package obj:
// a slab arena with size-classed free lists, grown in page-aligned
// slabs, with cells tracked in a container/heap min-heap ordered by
// offset for deterministic reuse.
//
// Slab addresses are stable for the arena's lifetime: growth only ever
// appends a new slab, never reallocates an existing one, so a Ref handed
// out by Alloc remains valid (its Go backing array is never moved) until
// the matching Free.
package alloc
