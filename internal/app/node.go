package app

import (
	"context"

	"github.com/grindlemire/graft"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/tdbtool/tdb"
	"github.com/tdbtool/tdb/internal/adapters/cas"
	"github.com/tdbtool/tdb/internal/adapters/logger"
	"github.com/tdbtool/tdb/internal/adapters/telemetry"
)

// ComponentsNodeID identifies this package's graft node.
const ComponentsNodeID graft.ID = "app.components"

func init() {
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			logger.NodeID,
			telemetry.ProviderNodeID,
			cas.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	log, err := graft.Dep[tdb.Logger](ctx)
	if err != nil {
		return nil, err
	}

	provider, err := graft.Dep[*sdktrace.TracerProvider](ctx)
	if err != nil {
		return nil, err
	}

	ledger, err := graft.Dep[*cas.Store](ctx)
	if err != nil {
		return nil, err
	}

	return New(log, provider, ledger), nil
}
