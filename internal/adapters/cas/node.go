package cas

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID identifies this adapter's graft node.
const NodeID graft.ID = "adapter.mtime_ledger"

func init() {
	graft.Register(graft.Node[*Store]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (*Store, error) {
			return NewStore("tdb_ledger.json")
		},
	})
}
