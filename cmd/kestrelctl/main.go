// Command kestrelctl is a small inspection and demo tool for the object
// runtime: it allocates values, forces collections, and builds ordered
// maps, printing what it did so the runtime's behavior can be watched
// from the command line.
package main

func main() {
	execute()
}
