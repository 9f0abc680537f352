// Package runtime composes the header/dispatch layer (package obj), the
// slab arena (package alloc), and the collector (package gc) into the
// lifecycle surface a host actually calls: New/NewRoot/Del/Copy/Alloc/
// Dealloc/ConstructWith/Destruct. It is a thin composition root, not a
// new layer of logic: build one Runtime from a Config and call through it.
package runtime
