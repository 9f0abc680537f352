package alloc

import "errors"

var (
	// ErrNoSpace indicates that no free cell large enough was found and
	// growth failed.
	ErrNoSpace = errors.New("alloc: no free cell large enough")

	// ErrBadRef indicates a ref does not belong to this arena.
	ErrBadRef = errors.New("alloc: bad reference")

	// ErrGrowFail indicates a new slab could not be allocated.
	ErrGrowFail = errors.New("alloc: grow failed")

	// ErrDoubleFree indicates a cell was freed twice.
	ErrDoubleFree = errors.New("alloc: double free")
)
