package tdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticPrereqs(t *testing.T) {
	seq := StaticPrereqs("a", "b")
	names, err := seq()
	require.NoError(t, err)
	assert.Equal(t, []Name{NewName("a"), NewName("b")}, names)
}

func TestLazyPrereqs(t *testing.T) {
	seq := LazyPrereqs(func() ([]string, error) {
		return []string{"x", "y"}, nil
	})
	names, err := seq()
	require.NoError(t, err)
	assert.Equal(t, []Name{NewName("x"), NewName("y")}, names)
}
