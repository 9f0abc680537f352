package obj

import "sync"

// capEntry is one (capability_id, record) pair in a type's table. Kept as
// a slice of pairs — not indexed by CapID directly — so the lookup is a
// genuine linear scan over "whatever this type implements", matching the
// design notes' "capability table is the central abstraction and must be
// expressible as data".
type capEntry struct {
	id  CapID
	rec any
}

// Type is a type descriptor: a name and the capability table instances
// dispatch through; the byte size of one instance is reported by its Size
// capability (see Size in dispatch.go). Types are created once
// at registration time (AllocKind Static in spirit) and live for the
// process's lifetime; they are not themselves arena/GC-managed objects —
// see DESIGN.md for why the metacircular type-of-type case is out of
// scope here.
type Type struct {
	Name    string
	entries []capEntry
}

// NewType builds a type descriptor with the given capability records.
// Each argument is one of the *XxxCap struct pointers from capability.go;
// NewType infers the CapID from its concrete type. It does not register
// the type by name; see Register.
func NewType(name string, caps ...any) *Type {
	t := &Type{Name: name}
	for _, c := range caps {
		id, ok := capIDOf(c)
		if !ok {
			panic("obj: NewType: unrecognized capability record type")
		}
		t.entries = append(t.entries, capEntry{id: id, rec: c})
	}
	return t
}

func capIDOf(c any) (CapID, bool) {
	switch c.(type) {
	case *SizeCap:
		return CapSize, true
	case *NewCap:
		return CapNew, true
	case *AssignCap:
		return CapAssign, true
	case *CopyCap:
		return CapCopy, true
	case *EqCap:
		return CapEq, true
	case *CmpCap:
		return CapCmp, true
	case *LenCap:
		return CapLen, true
	case *GetCap:
		return CapGet, true
	case *IterCap:
		return CapIter, true
	case *TraverseCap:
		return CapTraverse, true
	case *ShowCap:
		return CapShow, true
	case *SubtypeCap:
		return CapSubtype, true
	case *AllocCap:
		return CapAlloc, true
	default:
		return 0, false
	}
}

// capability locates the capability record for id, or nil if t does not
// implement it. Linear over t.entries — capability counts per type are
// small (< 20), so this never shows up in a profile.
func (t *Type) capability(id CapID) any {
	for _, e := range t.entries {
		if e.id == id {
			return e.rec
		}
	}
	return nil
}

// TypeInstance is the exported form of Type.capability, used by callers
// that want to probe for a capability without going through a dispatch
// helper (e.g. the collector checking for Traverse).
func TypeInstance(t *Type, id CapID) any {
	return t.capability(id)
}

// Instance is TypeInstance(TypeOf(ref), id) — the common case of probing
// a live reference rather than a type directly.
func Instance(ref Ref, id CapID) any {
	return TypeInstance(TypeOf(ref), id)
}

var registry = struct {
	mu    sync.RWMutex
	types map[string]*Type
}{types: make(map[string]*Type)}

// Register makes t discoverable by name via Lookup. Names are unique:
// registering the same name twice panics, since it
// almost always indicates two packages independently defining a type that
// should have been shared.
func Register(t *Type) *Type {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, exists := registry.types[t.Name]; exists {
		panic("obj: type " + t.Name + " already registered")
	}
	registry.types[t.Name] = t
	return t
}

// Lookup returns the registered type named name, or nil.
func Lookup(name string) *Type {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return registry.types[name]
}
