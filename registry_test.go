package tdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_StaticOnly_PreservesOrder(t *testing.T) {
	r := NewRegistry([]NamedRule{
		{Name: "b", Rule: Rule{Description: "second"}},
		{Name: "a", Rule: Rule{Description: "first"}},
	}, nil)

	merged, order, err := r.Materialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, order)
	assert.Equal(t, "second", merged["b"].Description)
	assert.Equal(t, "first", merged["a"].Description)
}

func TestRegistry_GeneratedOverwritesStaticOnCollision(t *testing.T) {
	r := NewRegistry(
		[]NamedRule{{Name: "widget", Rule: Rule{Description: "static"}}},
		func(context.Context) ([]NamedRule, error) {
			return []NamedRule{{Name: "widget", Rule: Rule{Description: "generated"}}}, nil
		},
	)

	merged, order, err := r.Materialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"widget"}, order)
	assert.Equal(t, "generated", merged["widget"].Description)
}

func TestRegistry_GeneratedAppendsNewNamesAfterStatic(t *testing.T) {
	r := NewRegistry(
		[]NamedRule{{Name: "a", Rule: Rule{}}},
		func(context.Context) ([]NamedRule, error) {
			return []NamedRule{{Name: "b", Rule: Rule{}}}, nil
		},
	)

	_, order, err := r.Materialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestRegistry_HookRunsAtMostOnce(t *testing.T) {
	calls := 0
	r := NewRegistry(nil, func(context.Context) ([]NamedRule, error) {
		calls++
		return []NamedRule{{Name: "a", Rule: Rule{}}}, nil
	})

	_, _, err := r.Materialize(context.Background())
	require.NoError(t, err)
	_, _, err = r.Materialize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRegistry_HookErrorIsCachedForever(t *testing.T) {
	boom := assertError("boom")
	calls := 0
	r := NewRegistry(nil, func(context.Context) ([]NamedRule, error) {
		calls++
		return nil, boom
	})

	_, _, err := r.Materialize(context.Background())
	assert.ErrorIs(t, err, boom)
	_, _, err = r.Materialize(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry([]NamedRule{{Name: "a", Rule: Rule{Description: "present"}}}, nil)

	rule, ok, err := r.Lookup(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "present", rule.Description)

	_, ok, err = r.Lookup(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

type assertError string

func (e assertError) Error() string { return string(e) }
