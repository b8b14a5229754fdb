package oracle

import (
	"io"
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// ContentHash is an alternate mtime source that tracks "has this file's
// content changed" rather than filesystem timestamps. It assigns each
// regular file a logical, monotonically increasing mtime that only
// advances when the file's xxhash digest changes since the last
// observation, the same content-hashing approach used for cache-key
// computation but applied to freshness instead of cache lookup.
//
// ContentHash has no opinion about directories or missing paths; the
// Freshness Oracle falls back to the filesystem for those.
type ContentHash struct {
	mu      sync.Mutex
	lastSum map[string]uint64
	logical map[string]float64
	clock   float64
}

// NewContentHash returns a ContentHash source.
func NewContentHash() *ContentHash {
	return &ContentHash{
		lastSum: make(map[string]uint64),
		logical: make(map[string]float64),
	}
}

// Mtime implements tdb.MtimeFunc.
func (c *ContentHash) Mtime(path string) (float64, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, false, nil
	}
	if info.IsDir() {
		return 0, false, nil
	}

	sum, err := hashFile(path)
	if err != nil {
		return 0, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	prev, known := c.lastSum[path]
	if !known || prev != sum {
		c.clock++
		c.logical[path] = c.clock
		c.lastSum[path] = sum
	}
	return c.logical[path], true, nil
}

func hashFile(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}
	return h.Sum64(), nil
}
