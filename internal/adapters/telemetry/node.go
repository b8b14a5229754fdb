package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ProviderNodeID identifies this adapter's graft node.
const ProviderNodeID graft.ID = "adapter.telemetry.provider"

func init() {
	graft.Register(graft.Node[*sdktrace.TracerProvider]{
		ID:        ProviderNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (*sdktrace.TracerProvider, error) {
			return NewProvider(), nil
		},
	})
}
