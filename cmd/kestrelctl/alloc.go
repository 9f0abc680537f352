package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kestrel-lang/kestrel/builtin"
	"github.com/kestrel-lang/kestrel/internal/display"
	"github.com/kestrel-lang/kestrel/obj"
	"github.com/kestrel-lang/kestrel/runtime"
)

func init() {
	rootCmd.AddCommand(newAllocCmd())
}

func newAllocCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alloc <int|float|str> <value>",
		Short: "Allocate a leaf value and print it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlloc(args[0], args[1])
		},
	}
	return cmd
}

func runAlloc(kind, raw string) error {
	rt := runtime.New(runtime.DefaultConfig())
	builtin.RegisterLeaves(rt.Collector())

	var ref obj.Ref
	switch kind {
	case "int":
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		ref, err = builtin.I(rt.Alloc, v)
		if err != nil {
			return err
		}
	case "float":
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		ref, err = builtin.F(rt.Alloc, v)
		if err != nil {
			return err
		}
	case "str":
		var err error
		ref, err = builtin.S(rt.Alloc, raw)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown kind %q: expected int, float, or str", kind)
	}

	rt.Collector().AddRoot(ref)
	printVerbose("allocated %s\n", obj.TypeOf(ref).Name)

	format := display.FormatText
	if jsonOut {
		format = display.FormatJSON
	}
	p := display.New(os.Stdout, display.Options{Format: format})
	if err := p.PrintValue(ref); err != nil {
		return err
	}

	rt.Collector().Finish()
	return nil
}
