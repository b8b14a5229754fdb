package logger

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/tdbtool/tdb"
)

// NodeID identifies this adapter's graft node.
const NodeID graft.ID = "adapter.logger"

func init() {
	graft.Register(graft.Node[tdb.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (tdb.Logger, error) {
			return New(), nil
		},
	})
}
