// Package main is the entry point for the tdb demo build tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"

	"github.com/tdbtool/tdb"
	"github.com/tdbtool/tdb/cmd/tdb/commands"
	"github.com/tdbtool/tdb/internal/adapters/telemetry"
	"github.com/tdbtool/tdb/internal/adapters/yamlconfig"
	"github.com/tdbtool/tdb/internal/app"
	_ "github.com/tdbtool/tdb/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}
	defer func() {
		_ = components.Provider.Shutdown(ctx)
	}()

	transform := compose(telemetry.Transformer("github.com/tdbtool/tdb"), components.Ledger.Transformer())
	rules := demoRules()
	for i := range rules {
		if rules[i].Rule.Transform == nil {
			rules[i].Rule.Transform = transform
		}
	}

	coordinator := tdb.New(tdb.Config{
		Rules:          rules,
		GeneratedRules: yamlconfig.Hook("tdb.yaml"),
		Logger:         components.Logger,
		DefaultTargets: []string{"all"},
		ScriptName:     "tdb",
	})

	cli := commands.New(coordinator)
	if err := cli.Execute(ctx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%+v\n", err)
		return 1
	}
	return 0
}

// compose chains two transformers so both wrap the underlying build
// callable, outer-to-inner.
func compose(outer, inner tdb.Transformer) tdb.Transformer {
	return func(next tdb.BuildFunc) tdb.BuildFunc {
		return outer(inner(next))
	}
}
