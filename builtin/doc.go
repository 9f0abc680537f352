// Package builtin registers the core leaf types: Int, Float, and Str.
// Each implements Size/New/Assign/Copy/Eq/Cmp/Show and omits Traverse.
// None of them holds managed references; RegisterLeaves marks all three
// as leaves on a Collector so its mark phase stops at them immediately
// (without that call, a type lacking Traverse is scanned conservatively).
package builtin
