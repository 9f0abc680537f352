package omap

import (
	"fmt"
	"io"
	"sync"

	"github.com/kestrel-lang/kestrel/kerr"
	"github.com/kestrel-lang/kestrel/obj"
	"github.com/kestrel-lang/kestrel/runtime"
)

// states is the side-table from a Map container's Ref to its rich
// internal tree — see doc.go for why this lives outside the arena
// buffer the container's own Ref points into.
var states sync.Map // obj.Ref -> *tree

func stateOf(ref obj.Ref) *tree {
	v, ok := states.Load(ref)
	if !ok {
		return nil
	}
	return v.(*tree)
}

// typeFor returns (creating on first use) the distinct *obj.Type
// cached in typeCache for maps over the (keyType, valType) pair, mirroring how
// a C-macro generic instantiates one concrete type per type argument
// combination.
var typeCache sync.Map // typeCacheKey -> *obj.Type

type typeCacheKey struct{ key, val *obj.Type }

func typeFor(keyType, valType *obj.Type) *obj.Type {
	k := typeCacheKey{keyType, valType}
	if v, ok := typeCache.Load(k); ok {
		return v.(*obj.Type)
	}
	name := fmt.Sprintf("Map<%s,%s>", keyType.Name, valType.Name)
	t := obj.NewType(name,
		&obj.SizeCap{Size: func(*obj.Type) uintptr { return 0 }},
		&obj.NewCap{Construct: constructMap, Destruct: destructMap},
		&obj.AssignCap{Assign: assignMap},
		&obj.CopyCap{Copy: copyMap},
		&obj.EqCap{Eq: eqMap},
		&obj.LenCap{Len: lenMap},
		&obj.GetCap{Get: getMap, Set: setMap, Mem: memMap, Rem: remMap},
		&obj.IterCap{Init: initIter, Next: nextIter},
		&obj.TraverseCap{Traverse: traverseMap},
		&obj.ShowCap{Show: showMap},
		&obj.SubtypeCap{KeyType: keyType, ValType: valType},
	)
	actual, loaded := typeCache.LoadOrStore(k, t)
	if loaded {
		return actual.(*obj.Type)
	}
	return t
}

// NewMap creates an ordered map whose keys and values are of keyType
// and valType, pre-populated with pairs (k1, v1, k2, v2, ...). An odd
// number of pairs raises FormatError.
func NewMap(rt *runtime.Runtime, keyType, valType *obj.Type, pairs ...obj.Ref) (obj.Ref, error) {
	if len(pairs)%2 != 0 {
		return nil, kerr.FormatError("Map", "odd number of key/value arguments")
	}
	t := typeFor(keyType, valType)
	ref, err := rt.New(t)
	if err != nil {
		return nil, err
	}
	tr := &tree{keyType: keyType, valType: valType, rt: rt}
	states.Store(ref, tr)
	for i := 0; i+1 < len(pairs); i += 2 {
		k, err := obj.Cast(pairs[i], keyType)
		if err != nil {
			return nil, err
		}
		if err := tr.insert(k, pairs[i+1]); err != nil {
			return nil, err
		}
	}
	return ref, nil
}

// constructMap/destructMap back the type's New capability for the path
// through runtime.ConstructWith/Destruct (e.g. a collection nested
// inside another container's own construct). pairs arrive as the
// already-subtyped key/value Refs, interleaved.
func constructMap(ref obj.Ref, args []obj.Ref) error {
	if len(args)%2 != 0 {
		return kerr.FormatError("Map", "odd number of key/value arguments")
	}
	keyType, valType, err := obj.Subtype(obj.TypeOf(ref))
	if err != nil {
		return err
	}
	tr := &tree{keyType: keyType, valType: valType}
	states.Store(ref, tr)
	for i := 0; i+1 < len(args); i += 2 {
		k, err := obj.Cast(args[i], keyType)
		if err != nil {
			return err
		}
		if err := tr.insert(k, args[i+1]); err != nil {
			return err
		}
	}
	return nil
}

// destructMap is Clear followed by dropping the side-table entry — "del
// on the map calls clear".
func destructMap(ref obj.Ref) error {
	if err := Clear(ref); err != nil {
		return err
	}
	states.Delete(ref)
	return nil
}

// Clear recursively destructs and frees every node's key and value,
// then empties the tree.
func Clear(ref obj.Ref) error {
	tr := stateOf(ref)
	if tr == nil {
		return kerr.ResourceError("Map", "not a map")
	}
	var destructErr error
	inorder(tr.root, func(n *node) {
		if destructErr != nil {
			return
		}
		if err := runtime.Destruct(n.key); err != nil {
			destructErr = err
			return
		}
		if err := runtime.Destruct(n.val); err != nil {
			destructErr = err
		}
	})
	tr.root = nil
	tr.size = 0
	return destructErr
}

func getMap(ref, key obj.Ref) (obj.Ref, error) {
	tr := stateOf(ref)
	k, err := obj.Cast(key, tr.keyType)
	if err != nil {
		return nil, err
	}
	n, err := tr.find(k)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, kerr.KeyError(obj.Sprintf("%$", key))
	}
	return n.val, nil
}

func setMap(ref, key, val obj.Ref) error {
	tr := stateOf(ref)
	k, err := obj.Cast(key, tr.keyType)
	if err != nil {
		return err
	}
	return tr.insert(k, val)
}

func memMap(ref, key obj.Ref) bool {
	tr := stateOf(ref)
	k, err := obj.Cast(key, tr.keyType)
	if err != nil {
		return false
	}
	n, err := tr.find(k)
	return err == nil && n != nil
}

func remMap(ref, key obj.Ref) error {
	tr := stateOf(ref)
	k, err := obj.Cast(key, tr.keyType)
	if err != nil {
		return err
	}
	n, err := tr.find(k)
	if err != nil {
		return err
	}
	if n == nil {
		return kerr.KeyError(obj.Sprintf("%$", key))
	}
	if err := runtime.Destruct(n.key); err != nil {
		return err
	}
	if err := runtime.Destruct(n.val); err != nil {
		return err
	}
	return tr.removeNode(n)
}

func lenMap(ref obj.Ref) int {
	tr := stateOf(ref)
	if tr == nil {
		return 0
	}
	return tr.size
}

func traverseMap(ref obj.Ref, fn func(obj.Ref)) {
	tr := stateOf(ref)
	if tr == nil {
		return
	}
	inorder(tr.root, func(n *node) {
		fn(n.key)
		fn(n.val)
	})
}

func assignMap(dst, src obj.Ref) error {
	if err := Clear(dst); err != nil {
		return err
	}
	srcTr := stateOf(src)
	dstTr := stateOf(dst)
	dstTr.keyType, dstTr.valType = srcTr.keyType, srcTr.valType
	var insertErr error
	inorder(srcTr.root, func(n *node) {
		if insertErr != nil {
			return
		}
		insertErr = dstTr.insert(n.key, n.val)
	})
	return insertErr
}

func copyMap(ref obj.Ref) (obj.Ref, error) {
	tr := stateOf(ref)
	if tr.rt == nil {
		return nil, kerr.ResourceError("Map", "copy requires a map built through NewMap")
	}
	t := typeFor(tr.keyType, tr.valType)
	out, err := tr.rt.Alloc(t)
	if err != nil {
		return nil, err
	}
	newTr := &tree{keyType: tr.keyType, valType: tr.valType, rt: tr.rt}
	states.Store(out, newTr)
	var insertErr error
	inorder(tr.root, func(n *node) {
		if insertErr != nil {
			return
		}
		insertErr = newTr.insert(n.key, n.val)
	})
	if insertErr != nil {
		return nil, insertErr
	}
	return out, nil
}

func eqMap(a, b obj.Ref) bool {
	trA, trB := stateOf(a), stateOf(b)
	if trA == nil || trB == nil || trA.size != trB.size {
		return false
	}
	equal := true
	inorder(trA.root, func(n *node) {
		if !equal {
			return
		}
		other, err := trB.find(n.key)
		if err != nil || other == nil {
			equal = false
			return
		}
		eq, err := obj.Eq(n.val, other.val)
		if err != nil || !eq {
			equal = false
		}
	})
	return equal
}

func showMap(w io.Writer, ref obj.Ref, verb string) error {
	tr := stateOf(ref)
	if _, err := io.WriteString(w, "{"); err != nil {
		return err
	}
	first := true
	var showErr error
	inorder(tr.root, func(n *node) {
		if showErr != nil {
			return
		}
		if !first {
			if _, err := io.WriteString(w, ", "); err != nil {
				showErr = err
				return
			}
		}
		first = false
		if err := obj.Show(w, n.key, verb); err != nil {
			showErr = err
			return
		}
		if _, err := io.WriteString(w, ": "); err != nil {
			showErr = err
			return
		}
		showErr = obj.Show(w, n.val, verb)
	})
	if showErr != nil {
		return showErr
	}
	_, err := io.WriteString(w, "}")
	return err
}
