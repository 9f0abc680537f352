// Package omap implements the ordered key→value map: a red-black tree
// whose nodes embed the key and value as Data-kind managed objects so
// the collector's generic Traverse-based marking reaches them exactly
// like any other composite object's fields.
//
// A distinct *obj.Type is created and cached per (key, value) type pair
// the first time NewMap sees that pair (it is not added to obj's by-name
// registry, so obj.Lookup does not find it) — the same per-instantiation
// approach Cello's C macros use for generic containers, adapted to a
// cache of Go type descriptors instead of token-pasted C identifiers.
//
// Node structure (left/right/parent, the red/black color bit, and the
// tree root) is ordinary Go-GC-managed memory, not arena storage: only
// the key and value slots embedded in each node cross into the header
// contract package obj defines, via obj.HeaderInit with AllocKind Data.
// A map's rich state (root, size, key/value types) lives in a
// side-table keyed by the map's own Ref rather than inside the arena
// buffer obj.Alloc hands back for it, because a Go pointer stashed
// inside an arena []byte is invisible to Go's own garbage collector —
// exactly the hazard package gc's registry exists to manage for
// GC-the-simulated-one, not GC-the-real-one. See DESIGN.md.
package omap
