package builtin

import "github.com/kestrel-lang/kestrel/obj/gc"

// RegisterLeaves marks Int, Float and Str as leaf types on c: none of
// them hold managed references, so the mark phase can stop at them
// immediately rather than conservatively scanning their (side-tabled or
// fixed-width) payloads. Call this once per Collector after construction.
func RegisterLeaves(c *gc.Collector) {
	c.RegisterLeaf(Int)
	c.RegisterLeaf(Float)
	c.RegisterLeaf(Str)
}
