package omap

import (
	"github.com/kestrel-lang/kestrel/obj"
	"github.com/kestrel-lang/kestrel/runtime"
)

// tree holds one map's root and the key/value types every node in it
// shares. Comparisons go through obj.Cmp on the (already cast) key.
//
// rt is the Runtime the map's container Ref was allocated from, kept
// so Copy can allocate its result from the same arena without the
// obj.CopyCap signature needing a Runtime parameter of its own. It is
// only set when the map was built through NewMap; a map assembled via
// the generic New/ConstructWith path has no Runtime to remember and
// cannot be Copy'd (see copyMap).
type tree struct {
	root    *node
	keyType *obj.Type
	valType *obj.Type
	size    int
	rt      *runtime.Runtime
}

// find returns the node whose key compares equal to key, or nil.
func (t *tree) find(key obj.Ref) (*node, error) {
	n := t.root
	for n != nil {
		c, err := obj.Cmp(key, n.key)
		if err != nil {
			return nil, err
		}
		switch {
		case c == 0:
			return n, nil
		case c < 0:
			n = n.left
		default:
			n = n.right
		}
	}
	return nil, nil
}

// insert performs the BST descent and, on an equal key, assigns over
// the existing node's key and value (idempotent update) rather than
// inserting a duplicate. Otherwise it links a fresh red node and
// rebalances via the five-case insertion fix-up.
func (t *tree) insert(key, val obj.Ref) error {
	if t.root == nil {
		n := newNode(t.keyType, t.valType)
		if err := obj.Assign(n.key, key); err != nil {
			return err
		}
		if err := obj.Assign(n.val, val); err != nil {
			return err
		}
		n.col = black
		t.root = n
		t.size++
		return nil
	}

	cur := t.root
	for {
		c, err := obj.Cmp(key, cur.key)
		if err != nil {
			return err
		}
		switch {
		case c == 0:
			if err := obj.Assign(cur.key, key); err != nil {
				return err
			}
			return obj.Assign(cur.val, val)
		case c < 0:
			if cur.left == nil {
				n := newNode(t.keyType, t.valType)
				if err := obj.Assign(n.key, key); err != nil {
					return err
				}
				if err := obj.Assign(n.val, val); err != nil {
					return err
				}
				n.parent = cur
				cur.left = n
				t.size++
				t.fixupInsert(n)
				return nil
			}
			cur = cur.left
		default:
			if cur.right == nil {
				n := newNode(t.keyType, t.valType)
				if err := obj.Assign(n.key, key); err != nil {
					return err
				}
				if err := obj.Assign(n.val, val); err != nil {
					return err
				}
				n.parent = cur
				cur.right = n
				t.size++
				t.fixupInsert(n)
				return nil
			}
			cur = cur.right
		}
	}
}

func (t *tree) rotateLeft(x *node) {
	y := x.right
	x.right = y.left
	if y.left != nil {
		y.left.parent = x
	}
	y.parent = x.parent
	if x.parent == nil {
		t.root = y
	} else if x == x.parent.left {
		x.parent.left = y
	} else {
		x.parent.right = y
	}
	y.left = x
	x.parent = y
}

func (t *tree) rotateRight(x *node) {
	y := x.left
	x.left = y.right
	if y.right != nil {
		y.right.parent = x
	}
	y.parent = x.parent
	if x.parent == nil {
		t.root = y
	} else if x == x.parent.right {
		x.parent.right = y
	} else {
		x.parent.left = y
	}
	y.right = x
	x.parent = y
}

// fixupInsert is the standard five-case red-black rebalance after
// linking a new red leaf.
func (t *tree) fixupInsert(n *node) {
	for n.parent.isRed() {
		parent := n.parent
		grandparent := parent.parent
		if grandparent == nil {
			break
		}
		uncle := n.uncle()
		if uncle.isRed() {
			parent.col = black
			uncle.col = black
			grandparent.col = red
			n = grandparent
			continue
		}
		if parent == grandparent.left {
			if n == parent.right {
				n = parent
				t.rotateLeft(n)
				parent = n.parent
			}
			parent.col = black
			grandparent.col = red
			t.rotateRight(grandparent)
		} else {
			if n == parent.left {
				n = parent
				t.rotateRight(n)
				parent = n.parent
			}
			parent.col = black
			grandparent.col = red
			t.rotateLeft(grandparent)
		}
		break
	}
	t.root.col = black
}

// minimum returns the left-most (smallest-keyed) node in n's subtree.
func minimum(n *node) *node {
	for n.left != nil {
		n = n.left
	}
	return n
}

// removeNode unlinks target, which the caller has already located (by
// find, or otherwise). It never re-derives target's position by
// comparing keys: a caller that destructs target's key/value before
// removing it (as remMap does) would otherwise have the second lookup
// compare against now-invalid destructed state and silently fail to
// find the node. If target has two children, the in-order
// predecessor's key+value are copied into it and the predecessor is
// deleted instead (rather than the more common successor-based
// variant), so an instrumented element type observes a consistent
// destructor-call order on a two-child removal.
func (t *tree) removeNode(target *node) error {
	victim := target
	if target.left != nil && target.right != nil {
		pred := maximum(target.left)
		if err := obj.Assign(target.key, pred.key); err != nil {
			return err
		}
		if err := obj.Assign(target.val, pred.val); err != nil {
			return err
		}
		victim = pred
	}

	var child *node
	if victim.left != nil {
		child = victim.left
	} else {
		child = victim.right
	}

	t.replaceSubtree(victim, child)
	if victim.col == black {
		if child.isRed() {
			child.col = black
		} else {
			t.fixupRemove(child, victim.parent)
		}
	}
	t.size--
	return nil
}

// maximum returns the right-most (largest-keyed) node in n's subtree.
func maximum(n *node) *node {
	for n.right != nil {
		n = n.right
	}
	return n
}

// replaceSubtree splices child into victim's slot in its parent,
// leaving child's own left/right untouched — the caller has already
// ensured victim has at most one non-nil child.
func (t *tree) replaceSubtree(victim, child *node) {
	if victim.parent == nil {
		t.root = child
	} else if victim == victim.parent.left {
		victim.parent.left = child
	} else {
		victim.parent.right = child
	}
	if child != nil {
		child.parent = victim.parent
	}
}

// fixupRemove is the standard four-case double-black rebalance. n may
// be nil (a removed black leaf leaves a "phantom" double-black child);
// parent carries n's parent explicitly for that case, since a nil
// node has no parent pointer of its own.
func (t *tree) fixupRemove(n, parent *node) {
	for n != t.root && n.isBlack() {
		if parent == nil {
			break
		}
		if n == parent.left {
			sib := parent.right
			if sib.isRed() {
				sib.col = black
				parent.col = red
				t.rotateLeft(parent)
				sib = parent.right
			}
			if sib.isBlack() && sib.left.isBlack() && sib.right.isBlack() {
				if sib != nil {
					sib.col = red
				}
				n = parent
				parent = n.parent
				continue
			}
			if sib.right.isBlack() {
				if sib.left != nil {
					sib.left.col = black
				}
				sib.col = red
				t.rotateRight(sib)
				sib = parent.right
			}
			sib.col = parent.col
			parent.col = black
			if sib.right != nil {
				sib.right.col = black
			}
			t.rotateLeft(parent)
			n = t.root
			parent = nil
		} else {
			sib := parent.left
			if sib.isRed() {
				sib.col = black
				parent.col = red
				t.rotateRight(parent)
				sib = parent.left
			}
			if sib.isBlack() && sib.left.isBlack() && sib.right.isBlack() {
				if sib != nil {
					sib.col = red
				}
				n = parent
				parent = n.parent
				continue
			}
			if sib.left.isBlack() {
				if sib.right != nil {
					sib.right.col = black
				}
				sib.col = red
				t.rotateLeft(sib)
				sib = parent.left
			}
			sib.col = parent.col
			parent.col = black
			if sib.left != nil {
				sib.left.col = black
			}
			t.rotateRight(parent)
			n = t.root
			parent = nil
		}
	}
	if n != nil {
		n.col = black
	}
}

// inorder calls fn(n) for every node in ascending key order.
func inorder(n *node, fn func(*node)) {
	if n == nil {
		return
	}
	inorder(n.left, fn)
	fn(n)
	inorder(n.right, fn)
}
