package tdb

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOracle_Mtime_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widget.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	o := &Oracle{}
	m, err := o.Mtime(path, NotFoundError, PosInf)
	require.NoError(t, err)
	assert.Greater(t, m, 0.0)
}

func TestOracle_Mtime_MissingWithSentinel(t *testing.T) {
	o := &Oracle{}
	m, err := o.Mtime(filepath.Join(t.TempDir(), "nope"), NotFoundValue(NegInf), PosInf)
	require.NoError(t, err)
	assert.Equal(t, NegInf, m)
}

func TestOracle_Mtime_MissingWithError(t *testing.T) {
	o := &Oracle{}
	_, err := o.Mtime(filepath.Join(t.TempDir(), "nope"), NotFoundError, PosInf)
	assert.ErrorIs(t, err, ErrMissingTarget)
}

func TestOracle_Mtime_DirectoryIsMaxOfChildren(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "old.txt")
	newer := filepath.Join(dir, "newer.txt")
	require.NoError(t, os.WriteFile(old, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(newer, []byte("x"), 0o644))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	o := &Oracle{}
	dirMtime, err := o.Mtime(dir, NotFoundError, PosInf)
	require.NoError(t, err)

	newerMtime, err := o.Mtime(newer, NotFoundError, PosInf)
	require.NoError(t, err)

	assert.Equal(t, newerMtime, dirMtime)
}

func TestOracle_Mtime_AltOverridesFilesystem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widget.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	o := &Oracle{Alt: func(p string) (float64, bool, error) {
		return 123, true, nil
	}}
	m, err := o.Mtime(path, NotFoundError, PosInf)
	require.NoError(t, err)
	assert.Equal(t, float64(123), m)
}

func TestOracle_Mtime_AltFallsThroughWhenNoOpinion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widget.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	o := &Oracle{Alt: func(p string) (float64, bool, error) {
		return 0, false, nil
	}}
	m, err := o.Mtime(path, NotFoundError, PosInf)
	require.NoError(t, err)
	assert.Greater(t, m, 0.0)
}
