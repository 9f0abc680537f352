//go:build linux || freebsd || darwin

package alloc

import "golang.org/x/sys/unix"

// pageSize reports the host's native page size, so a fresh slab's
// default size is always a whole multiple of it.
func pageSize() int {
	return unix.Getpagesize()
}
