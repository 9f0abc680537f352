package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestrel-lang/kestrel/builtin"
	"github.com/kestrel-lang/kestrel/runtime"
)

var gcCount int

func init() {
	cmd := newGCCmd()
	cmd.Flags().IntVar(&gcCount, "garbage", 10, "number of unreachable Ints to allocate before collecting")
	rootCmd.AddCommand(cmd)
}

func newGCCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gc-run",
		Short: "Allocate some garbage, force a collection, and report before/after counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGC()
		},
	}
}

func runGC() error {
	rt := runtime.New(runtime.DefaultConfig())
	coll := rt.Collector()
	builtin.RegisterLeaves(coll)

	root, err := builtin.I(rt.Alloc, 1)
	if err != nil {
		return err
	}
	coll.AddRoot(root)

	for i := 0; i < gcCount; i++ {
		garbage, err := builtin.I(rt.Alloc, int64(i))
		if err != nil {
			return err
		}
		coll.Add(garbage)
	}

	before := coll.Len()
	coll.Run()
	after := coll.Len()

	fmt.Printf("live before collection: %d\n", before)
	fmt.Printf("live after collection:  %d\n", after)
	fmt.Printf("reclaimed:              %d\n", before-after)

	coll.Finish()
	return nil
}
