package app_test

import (
	"context"
	"os"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdbtool/tdb"
	_ "github.com/tdbtool/tdb/internal/adapters/logger"
	_ "github.com/tdbtool/tdb/internal/adapters/telemetry"
	"github.com/tdbtool/tdb/internal/app"
)

func TestNew(t *testing.T) {
	c := app.New(tdb.NullLogger{}, nil, nil)
	assert.NotNil(t, c)
	assert.Equal(t, tdb.NullLogger{}, c.Logger)
	assert.Nil(t, c.Provider)
	assert.Nil(t, c.Ledger)
}

func TestComponentsNode_ResolvesThroughGraft(t *testing.T) {
	originalWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer func() { _ = os.Chdir(originalWd) }()

	ctx := context.Background()

	c, _, err := graft.ExecuteFor[*app.Components](ctx)
	require.NoError(t, err)
	require.NotNil(t, c)

	assert.NotNil(t, c.Logger)
	assert.NotNil(t, c.Provider)
	assert.NotNil(t, c.Ledger)
}
