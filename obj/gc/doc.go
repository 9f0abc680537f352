// Package gc implements the conservative mark-sweep collector: an
// open-addressed Robin Hood registry of live Heap refs, keyed by
// pointer with fixed prime sizing and rehash at a load-factor
// threshold, plus an iterative mark from an explicit root set and a
// two-pass sweep.
package gc
