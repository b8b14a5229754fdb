package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tdbtool/tdb"
	"github.com/tdbtool/tdb/internal/fsutil"
)

// demoRules declares the sample target graph the tdb binary ships with. It
// exists to exercise the library end to end; real consumers are expected to
// declare their own rules in Go and/or a tdb.yaml overlay loaded via
// internal/adapters/yamlconfig.
func demoRules() []tdb.NamedRule {
	return []tdb.NamedRule{
		{
			Name: "greeting.txt",
			Rule: tdb.Rule{
				Description: "writes a greeting file",
				Type:        tdb.TypeFile,
				Invoke: func(_ context.Context, bc *tdb.BuildContext) error {
					if err := fsutil.EnsureParentDir(bc.Target.String()); err != nil {
						return err
					}
					return os.WriteFile(bc.Target.String(), []byte("hello from tdb\n"), 0o644)
				},
			},
		},
		{
			Name: "greeting.stamp",
			Rule: tdb.Rule{
				Description: "stamps that the greeting has been built",
				Prereqs:     tdb.StaticPrereqs("greeting.txt"),
				Type:        tdb.TypeFile,
				Command:     []string{"touch", "tdb:target"},
			},
		},
		{
			Name: "all",
			Rule: tdb.Rule{
				Description: "builds every demo target",
				Prereqs:     tdb.StaticPrereqs("greeting.stamp"),
				Type:        tdb.TypePhony,
				Invoke: func(_ context.Context, _ *tdb.BuildContext) error {
					fmt.Println("all demo targets are up to date")
					return nil
				},
			},
		},
		{
			Name: "clean",
			Rule: tdb.Rule{
				Description: "removes demo build artifacts",
				Type:        tdb.TypePhony,
				Invoke: func(_ context.Context, _ *tdb.BuildContext) error {
					_ = os.Remove("greeting.txt")
					_ = os.Remove("greeting.stamp")
					return nil
				},
			},
		},
	}
}
