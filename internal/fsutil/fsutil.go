// Package fsutil provides the small filesystem conveniences spec.md calls
// peripheral plumbing for rule authors: recursive copy and
// parent-directory creation. Grounded on the walking/globbing style of
// internal/adapters/fs/walker.go and resolver.go, generalized from
// cache-input resolution to general-purpose rule bodies.
package fsutil

import (
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
)

// EnsureParentDir creates path's parent directory (and any missing
// ancestors) if it does not already exist.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create parent directory"), "path", dir)
	}
	return nil
}

// CopyFile copies src to dst, creating dst's parent directory as needed
// and preserving src's file mode.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stat source file"), "path", src)
	}
	if info.IsDir() {
		return zerr.With(zerr.New("source is a directory"), "path", src)
	}

	if err := EnsureParentDir(dst); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open source file"), "path", src)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create destination file"), "path", dst)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to copy file contents"), "path", dst)
	}
	return out.Close()
}

// CopyTree recursively copies the contents of src into dst, creating dst
// and any nested directories as needed.
func CopyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return zerr.Wrap(err, "failed to compute relative path")
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return CopyFile(path, target)
	})
}
