package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kestrel-lang/kestrel/builtin"
	"github.com/kestrel-lang/kestrel/container/omap"
	"github.com/kestrel-lang/kestrel/internal/display"
	"github.com/kestrel-lang/kestrel/obj"
	"github.com/kestrel-lang/kestrel/runtime"
)

func init() {
	rootCmd.AddCommand(newMapCmd())
}

func newMapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "map <k=v> [k=v...]",
		Short: "Build a Str-keyed, Int-valued ordered map and print it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMap(args)
		},
	}
}

func runMap(pairs []string) error {
	rt := runtime.New(runtime.DefaultConfig())
	builtin.RegisterLeaves(rt.Collector())

	var refs []obj.Ref
	for _, p := range pairs {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			return fmt.Errorf("expected key=value, got %q", p)
		}
		k, err := builtin.S(rt.Alloc, kv[0])
		if err != nil {
			return err
		}
		var v int64
		if _, err := fmt.Sscanf(kv[1], "%d", &v); err != nil {
			return fmt.Errorf("value for %q must be an integer: %w", kv[0], err)
		}
		val, err := builtin.I(rt.Alloc, v)
		if err != nil {
			return err
		}
		refs = append(refs, k, val)
	}

	m, err := omap.NewMap(rt, builtin.Str, builtin.Int, refs...)
	if err != nil {
		return err
	}
	rt.Collector().AddRoot(m)

	format := display.FormatText
	if jsonOut {
		format = display.FormatJSON
	}
	p := display.New(os.Stdout, display.Options{Format: format})
	if err := p.PrintValue(m); err != nil {
		return err
	}

	rt.Collector().Finish()
	return nil
}
