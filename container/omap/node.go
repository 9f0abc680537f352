package omap

import "github.com/kestrel-lang/kestrel/obj"

// color is packed as an explicit field rather than tagging the low bit
// of the parent pointer: node.parent is a real, GC-visible *node field
// in Go, and tagging its low bit would hand the runtime's precise
// collector a corrupted pointer value.
type color bool

const (
	red   color = true
	black color = false
)

// node is one red-black tree entry. left/right/parent are ordinary
// Go-managed pointers (kept alive transitively through state.root, held
// in the map-wide side-table — see doc.go). key and val each point at
// one obj.HeaderSize-prefixed, Data-kind object embedded in the node,
// rather than the single-flat-buffer packing a C implementation would
// use: Iterator.Opaque carries the node pointer directly, so there's no
// need to recover a node's address from its key ref by subtracting a
// fixed offset.
type node struct {
	left, right, parent *node
	col                 color

	// key and val are each a Ref into this node's own header-prefixed,
	// Data-kind storage. A Ref is an unsafe.Pointer, which Go's real
	// collector scans and treats as keeping its whole backing buffer
	// (the make([]byte,...) HeaderInit wrote into) alive — no separate
	// []byte field is needed once the Ref itself is stored here.
	key obj.Ref
	val obj.Ref
}

func newNode(keyType, valType *obj.Type) *node {
	n := &node{col: red}
	keyBuf := make([]byte, int(obj.HeaderSize)+int(obj.Size(keyType)))
	valBuf := make([]byte, int(obj.HeaderSize)+int(obj.Size(valType)))
	n.key = obj.HeaderInit(keyBuf, keyType, obj.Data)
	n.val = obj.HeaderInit(valBuf, valType, obj.Data)
	return n
}

func (n *node) keyRef() obj.Ref { return n.key }
func (n *node) valRef() obj.Ref { return n.val }

func (n *node) isRed() bool   { return n != nil && n.col == red }
func (n *node) isBlack() bool { return n == nil || n.col == black }

func (n *node) grandparent() *node {
	if n == nil || n.parent == nil {
		return nil
	}
	return n.parent.parent
}

func (n *node) sibling() *node {
	if n == nil || n.parent == nil {
		return nil
	}
	if n == n.parent.left {
		return n.parent.right
	}
	return n.parent.left
}

func (n *node) uncle() *node {
	if n == nil || n.parent == nil {
		return nil
	}
	return n.parent.sibling()
}
