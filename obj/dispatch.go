package obj

import "github.com/kestrel-lang/kestrel/kerr"

// Size returns t's instance payload size. Every allocatable type must
// implement Size; an allocator calling this on one that doesn't is a
// programming error worth a panic rather than a typed runtime error.
func Size(t *Type) uintptr {
	c, ok := t.capability(CapSize).(*SizeCap)
	if !ok {
		panic("obj: type " + t.Name + " has no Size capability")
	}
	return c.Size(t)
}

// Cmp returns a tri-valued ordering between a and b. If Cmp is absent but
// Eq is present, Cmp degenerates to 0-or-nonzero (ordering beyond equality
// is then undefined, but equality-based callers still work).
func Cmp(a, b Ref) (int, error) {
	t := TypeOf(a)
	if c, ok := t.capability(CapCmp).(*CmpCap); ok {
		return c.Cmp(a, b), nil
	}
	if e, ok := t.capability(CapEq).(*EqCap); ok {
		if e.Eq(a, b) {
			return 0, nil
		}
		return 1, nil
	}
	return 0, kerr.TypeError(t.Name, "Cmp")
}

// Eq reports whether a equals b, preferring Eq and falling back to
// Cmp == 0.
func Eq(a, b Ref) (bool, error) {
	t := TypeOf(a)
	if e, ok := t.capability(CapEq).(*EqCap); ok {
		return e.Eq(a, b), nil
	}
	if c, ok := t.capability(CapCmp).(*CmpCap); ok {
		return c.Cmp(a, b) == 0, nil
	}
	return false, kerr.TypeError(t.Name, "Eq")
}

// Neq is the negation of Eq.
func Neq(a, b Ref) (bool, error) {
	eq, err := Eq(a, b)
	if err != nil {
		return false, err
	}
	return !eq, nil
}

// Len returns x's element count via its Len capability.
func Len(x Ref) (int, error) {
	t := TypeOf(x)
	c, ok := t.capability(CapLen).(*LenCap)
	if !ok {
		return 0, kerr.TypeError(t.Name, "Len")
	}
	return c.Len(x), nil
}

// Get retrieves the value stored under key in x.
func Get(x, key Ref) (Ref, error) {
	t := TypeOf(x)
	c, ok := t.capability(CapGet).(*GetCap)
	if !ok {
		return nil, kerr.TypeError(t.Name, "Get")
	}
	return c.Get(x, key)
}

// Set stores val under key in x, replacing any existing entry.
func Set(x, key, val Ref) error {
	t := TypeOf(x)
	c, ok := t.capability(CapGet).(*GetCap)
	if !ok {
		return kerr.TypeError(t.Name, "Get")
	}
	return c.Set(x, key, val)
}

// Mem reports whether key is present in x.
func Mem(x, key Ref) (bool, error) {
	t := TypeOf(x)
	c, ok := t.capability(CapGet).(*GetCap)
	if !ok {
		return false, kerr.TypeError(t.Name, "Get")
	}
	return c.Mem(x, key), nil
}

// Rem removes key from x.
func Rem(x, key Ref) error {
	t := TypeOf(x)
	c, ok := t.capability(CapGet).(*GetCap)
	if !ok {
		return kerr.TypeError(t.Name, "Get")
	}
	return c.Rem(x, key)
}

// IterInit begins iteration over x.
func IterInit(x Ref) (Iterator, error) {
	t := TypeOf(x)
	c, ok := t.capability(CapIter).(*IterCap)
	if !ok {
		return Iterator{}, kerr.TypeError(t.Name, "Iter")
	}
	return c.Init(x), nil
}

// IterNext advances it, returning the next element and false when
// exhausted. it's container type must implement Iter.
func IterNext(it *Iterator) (Ref, bool, error) {
	t := TypeOf(it.Container)
	c, ok := t.capability(CapIter).(*IterCap)
	if !ok {
		return nil, false, kerr.TypeError(t.Name, "Iter")
	}
	ref, ok := c.Next(it)
	return ref, ok, nil
}

// Traverse visits every Ref directly reachable from x. Callers that need
// a default when Traverse is absent (the collector's conservative
// fallback) must check for the capability themselves via Instance; this
// helper raises TypeError so ordinary user code gets a clear signal.
func Traverse(x Ref, fn func(Ref)) error {
	t := TypeOf(x)
	c, ok := t.capability(CapTraverse).(*TraverseCap)
	if !ok {
		return kerr.TypeError(t.Name, "Traverse")
	}
	c.Traverse(x, fn)
	return nil
}

// Assign deep-copies src into dst. dst must already hold a valid header
// of the same type as src.
func Assign(dst, src Ref) error {
	t := TypeOf(src)
	c, ok := t.capability(CapAssign).(*AssignCap)
	if !ok {
		return kerr.TypeError(t.Name, "Assign")
	}
	return c.Assign(dst, src)
}

// Subtype returns t's registered key/value element types, for parametric
// containers that implement Subtype.
func Subtype(t *Type) (key, val *Type, err error) {
	c, ok := t.capability(CapSubtype).(*SubtypeCap)
	if !ok {
		return nil, nil, kerr.TypeError(t.Name, "Subtype")
	}
	return c.KeyType, c.ValType, nil
}
