// Package oracle provides pluggable alternate mtime sources for
// tdb.Coordinator's Freshness Oracle: a sidecar-timestamp-file source and
// a content-hash source.
package oracle

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// Sidecar reads a target's effective mtime from a sibling file named
// ".<basename>.mtime" containing a plain decimal Unix-millisecond
// timestamp, falling back to the filesystem when no sidecar exists. This
// is the "pretend a file is older/newer than it is" plug-in point the
// engine's Freshness Oracle is built to accept.
type Sidecar struct{}

// NewSidecar returns a Sidecar source.
func NewSidecar() *Sidecar {
	return &Sidecar{}
}

// Mtime implements tdb.MtimeFunc.
func (s *Sidecar) Mtime(path string) (float64, bool, error) {
	sidecar := sidecarPath(path)
	raw, err := os.ReadFile(sidecar)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, false, nil
		}
		return 0, false, zerr.With(zerr.Wrap(err, "failed to read sidecar mtime file"), "path", sidecar)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
	if err != nil {
		return 0, false, zerr.With(zerr.Wrap(err, "malformed sidecar mtime value"), "path", sidecar)
	}
	return v, true, nil
}

func sidecarPath(path string) string {
	dir, base := filepath.Split(path)
	return filepath.Join(dir, "."+base+".mtime")
}
