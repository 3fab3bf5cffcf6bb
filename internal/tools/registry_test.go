package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTool struct {
	name        string
	description string
	result      Result
	err         error
}

func (t staticTool) Name() string        { return t.name }
func (t staticTool) Description() string { return t.description }

func (t staticTool) Execute(context.Context, string) (Result, error) {
	return t.result, t.err
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	require.NoError(t, registry.Register(staticTool{name: "alpha", description: "first tool"}))
	require.NoError(t, registry.Register(staticTool{name: "beta", description: "second tool"}))

	tool, err := registry.Lookup("alpha")
	require.NoError(t, err)
	assert.Equal(t, "alpha", tool.Name())

	assert.Equal(t, 2, registry.Count())
}

func TestRegistry_DuplicateName(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	require.NoError(t, registry.Register(staticTool{name: "alpha"}))

	err := registry.Register(staticTool{name: "alpha"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateTool)
	assert.Equal(t, 1, registry.Count())
}

func TestRegistry_LookupUnknown(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()

	_, err := registry.Lookup("missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestRegistry_DescribePreservesOrder(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	require.NoError(t, registry.Register(staticTool{name: "zeta", description: "last alphabetically, first registered"}))
	require.NoError(t, registry.Register(staticTool{name: "alpha", description: "first alphabetically"}))

	assert.Equal(t,
		"zeta: last alphabetically, first registered\nalpha: first alphabetically",
		registry.Describe())
	assert.Equal(t, []string{"zeta", "alpha"}, registry.Names())
}
