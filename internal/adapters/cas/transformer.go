package cas

import (
	"context"
	"time"

	"github.com/tdbtool/tdb"
)

// Transformer returns a tdb.Transformer that records the wall-clock time
// of a successful build into the ledger, keyed by target name. Wiring it
// is opt-in per rule (Rule.Transform), so it never becomes an implicit
// built-in cache — it is available for rule authors who want a durable
// record of "last build" independent of the filesystem.
func (s *Store) Transformer() tdb.Transformer {
	return func(next tdb.BuildFunc) tdb.BuildFunc {
		return func(ctx context.Context, bc *tdb.BuildContext) error {
			if err := next(ctx, bc); err != nil {
				return err
			}
			return s.Put(bc.Target.String(), float64(time.Now().UnixMilli()))
		}
	}
}
