package gc

import "github.com/kestrel-lang/kestrel/obj"

// Frame is a caller-owned slot of extra mark roots, pushed and popped
// around a scope to cover that scope's local variables the way a
// native-stack walk would cover them automatically. Go gives no
// portable way to read a goroutine's register-flushed stack, so this is
// the documented substitute: any Ref a function wants the collector to
// see while it's running must be registered in a Frame for the
// duration.
//
// A typical call site:
//
//	fr := c.PushFrame()
//	defer c.PopFrame(fr)
//	fr.Add(localRef)
//	... work that may trigger gc_run ...
type Frame struct {
	refs []obj.Ref
}

// Add registers ref as a root for as long as this frame is on the
// collector's frame stack.
func (f *Frame) Add(ref obj.Ref) {
	f.refs = append(f.refs, ref)
}

// PushFrame opens a new root-registration scope and returns it.
func (c *Collector) PushFrame() *Frame {
	fr := &Frame{}
	c.frames = append(c.frames, fr)
	return fr
}

// PopFrame closes fr. It must be the most recently pushed, still-open
// frame; popping out of order panics, since it means a caller kept a
// Frame alive past a sibling's scope.
func (c *Collector) PopFrame(fr *Frame) {
	n := len(c.frames)
	if n == 0 || c.frames[n-1] != fr {
		panic("gc: PopFrame called out of order")
	}
	c.frames = c.frames[:n-1]
}

// extraRootsFromFrames flattens every currently open frame's refs into
// one slice for the mark phase to seed from, alongside registry roots.
func (c *Collector) extraRootsFromFrames() []obj.Ref {
	var out []obj.Ref
	for _, fr := range c.frames {
		out = append(out, fr.refs...)
	}
	return out
}
