// Package obj implements the runtime's object header, type descriptors, and
// capability dispatch — the contract every managed value (heap, stack,
// static, or embedded) satisfies.
//
// A managed value is addressed by a Ref: the address immediately past a
// fixed Header. Every capability a type supports (Size, New, Assign, Copy,
// Eq, Cmp, Len, Get, Iter, Traverse, Show, Subtype, Alloc) is looked up by
// linear scan of a small per-type table and invoked through a typed record
// of function fields — there is no reflection on the hot path.
//
// This package has no opinion on where Heap storage comes from (see
// package alloc) or how it is tracked for collection (see package gc); it
// only defines what a reference IS and how a type answers capability
// queries about it.
package obj
