package omap

import "github.com/kestrel-lang/kestrel/obj"

// cursor is the Iterator.Opaque payload: the next node to yield, found
// by an in-order successor walk. Holding the node directly here is the
// Go-native substitute for deriving a node's address from its key ref
// by subtracting a fixed offset — see node.go's doc comment.
type cursor struct {
	next *node
}

func initIter(ref obj.Ref) obj.Iterator {
	tr := stateOf(ref)
	var first *node
	if tr != nil {
		first = tr.root
		for first != nil && first.left != nil {
			first = first.left
		}
	}
	return obj.Iterator{Container: ref, Opaque: &cursor{next: first}}
}

func nextIter(it *obj.Iterator) (obj.Ref, bool) {
	cur, ok := it.Opaque.(*cursor)
	if !ok || cur.next == nil {
		return nil, false
	}
	n := cur.next
	cur.next = successor(n)
	return n.keyRef(), true
}

// successor returns n's in-order successor: the left-most node of its
// right subtree, or the nearest ancestor for which n lies in the left
// subtree.
func successor(n *node) *node {
	if n.right != nil {
		m := n.right
		for m.left != nil {
			m = m.left
		}
		return m
	}
	cur := n
	parent := n.parent
	for parent != nil && cur == parent.right {
		cur = parent
		parent = parent.parent
	}
	return parent
}
