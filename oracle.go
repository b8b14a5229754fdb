package tdb

import (
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
)

// NotFoundPolicy controls what the Freshness Oracle does when asked for
// the mtime of a path that does not exist: either return a sentinel value
// or propagate a failure.
type NotFoundPolicy struct {
	sentinel float64
	isError  bool
}

// NotFoundValue returns a NotFoundPolicy that yields v for a missing path.
func NotFoundValue(v float64) NotFoundPolicy {
	return NotFoundPolicy{sentinel: v}
}

// NotFoundError is a NotFoundPolicy that raises ErrMissingTarget for a
// missing path.
var NotFoundError = NotFoundPolicy{isError: true}

// MtimeFunc is a pluggable alternate mtime source, e.g. one backed by a
// sidecar timestamp file or a content hash rather than the filesystem.
// ok is false when the alternate source has no opinion about path, in
// which case the Oracle falls back to the filesystem.
type MtimeFunc func(path string) (mtime float64, ok bool, err error)

// Oracle computes the "effective mtime" of a path: the filesystem value,
// or an alternate source's value when one is configured and has an
// opinion.
type Oracle struct {
	Alt MtimeFunc
}

// Mtime returns the maximum mtime of path, recursively for directories.
// shortCircuit is an optimization hint: once the running max exceeds it,
// Mtime may return PosInf without visiting the remaining entries.
func (o *Oracle) Mtime(path string, notFound NotFoundPolicy, shortCircuit float64) (float64, error) {
	if o != nil && o.Alt != nil {
		v, ok, err := o.Alt(path)
		if err != nil {
			return 0, err
		}
		if ok {
			return v, nil
		}
	}
	return fsMtime(path, notFound, shortCircuit)
}

// fsMtime is the default Freshness Oracle: a recursive filesystem stat.
func fsMtime(path string, notFound NotFoundPolicy, shortCircuit float64) (float64, error) {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			if notFound.isError {
				return 0, zerr.With(zerr.Wrap(ErrMissingTarget, "path does not exist"), "path", path)
			}
			return notFound.sentinel, nil
		}
		return 0, zerr.Wrap(err, "failed to stat path")
	}

	own := float64(info.ModTime().UnixMilli())
	if !info.IsDir() {
		return own, nil
	}

	max := own
	entries, err := os.ReadDir(path)
	if err != nil {
		return 0, zerr.Wrap(err, "failed to read directory")
	}
	for _, entry := range entries {
		name := entry.Name()
		if name == "." || name == ".." {
			continue
		}
		child := filepath.Join(path, name)
		childMtime, err := fsMtime(child, NotFoundValue(NegInf), shortCircuit)
		if err != nil {
			return 0, err
		}
		if childMtime > max {
			max = childMtime
		}
		if max > shortCircuit {
			return PosInf, nil
		}
	}
	return max, nil
}
