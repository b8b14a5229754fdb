package tdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposePrereqs_ExplicitAndGlobalDeduped(t *testing.T) {
	rule := Rule{Prereqs: StaticPrereqs("a", "b")}
	names, err := composePrereqs(rule, []string{"b", "c"})
	require.NoError(t, err)

	got := make([]string, len(names))
	for i, n := range names {
		got[i] = n.String()
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestVerifyArtifact_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widget.txt")

	assert.Error(t, verifyArtifact(TypeFile, path), "missing file should fail verification")

	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	assert.NoError(t, verifyArtifact(TypeFile, path))
}

func TestVerifyArtifact_Directory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widget.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	assert.Error(t, verifyArtifact(TypeDirectory, path), "a regular file is not a directory")
}

func TestVerifyArtifact_AutoNeverFails(t *testing.T) {
	assert.NoError(t, verifyArtifact(TypeAuto, filepath.Join(t.TempDir(), "nope")))
}

func TestApplyFailurePolicy_FileDefaultDeletes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widget.txt")
	require.NoError(t, os.WriteFile(path, []byte("partial"), 0o644))

	applyFailurePolicy(TypeFile, nil, path)

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestApplyFailurePolicy_AutoDefaultKeeps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widget.txt")
	require.NoError(t, os.WriteFile(path, []byte("partial"), 0o644))

	applyFailurePolicy(TypeAuto, nil, path)

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestApplyFailurePolicy_ExplicitOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "widget.txt")
	require.NoError(t, os.WriteFile(path, []byte("partial"), 0o644))

	keep := true
	applyFailurePolicy(TypeFile, &keep, path)

	_, err := os.Stat(path)
	assert.NoError(t, err, "explicit KeepOnFailure overrides the file-type default")
}

func TestApplyFailurePolicy_PhonyNeverTouchesDisk(t *testing.T) {
	// Phony targets have no filesystem artifact; this must not panic or
	// attempt to remove an unrelated path.
	applyFailurePolicy(TypePhony, nil, filepath.Join(t.TempDir(), "widget.txt"))
}

func TestResolveTarget_BuildsFreshFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.txt")

	c := New(Config{
		Rules: []NamedRule{{
			Name: target,
			Rule: Rule{
				Type: TypeFile,
				Invoke: func(_ context.Context, bc *BuildContext) error {
					return os.WriteFile(bc.Target.String(), []byte("built"), 0o644)
				},
			},
		}},
	})

	res, err := c.Build(context.Background(), target, nil)
	require.NoError(t, err)
	assert.Greater(t, res.Mtime, NegInf)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "built", string(data))
}

func TestResolveTarget_SkipsUpToDateTarget(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(target, []byte("already built"), 0o644))

	invoked := false
	c := New(Config{
		Rules: []NamedRule{{
			Name: target,
			Rule: Rule{
				Type: TypeFile,
				Invoke: func(_ context.Context, _ *BuildContext) error {
					invoked = true
					return nil
				},
			},
		}},
	})

	_, err := c.Build(context.Background(), target, nil)
	require.NoError(t, err)
	assert.False(t, invoked, "a target with no prereqs and an existing mtime is never stale")
}

func TestResolveTarget_PhonyAlwaysRuns(t *testing.T) {
	calls := 0
	c := New(Config{
		Rules: []NamedRule{{
			Name: "clean",
			Rule: Rule{
				Type: TypePhony,
				Invoke: func(_ context.Context, _ *BuildContext) error {
					calls++
					return nil
				},
			},
		}},
	})

	_, err := c.Build(context.Background(), "clean", nil)
	require.NoError(t, err)
	res, err := c.Build(context.Background(), "clean", nil)
	require.NoError(t, err)
	assert.Equal(t, PosInf, res.Mtime)
	assert.Equal(t, 1, calls, "build callable still invoked at most once per Coordinator lifetime")
}

func TestResolveTarget_RebuildsWhenPrereqNewer(t *testing.T) {
	dir := t.TempDir()
	prereq := filepath.Join(dir, "in.txt")
	target := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(target, []byte("stale"), 0o644))
	require.NoError(t, os.WriteFile(prereq, []byte("fresh"), 0o644))

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(target, past, past))
	require.NoError(t, os.Chtimes(prereq, future, future))

	invoked := false
	c := New(Config{
		Rules: []NamedRule{
			{Name: prereq, Rule: Rule{Type: TypeFile}},
			{
				Name: target,
				Rule: Rule{
					Type:    TypeFile,
					Prereqs: StaticPrereqs(prereq),
					Invoke: func(_ context.Context, bc *BuildContext) error {
						invoked = true
						return os.WriteFile(bc.Target.String(), []byte("rebuilt"), 0o644)
					},
				},
			},
		},
	})

	_, err := c.Build(context.Background(), target, nil)
	require.NoError(t, err)
	assert.True(t, invoked)
}
