package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/stocklist/pkg/types"
)

// setupBackend creates an attached Backend over a temp data dir and
// registers a cleanup-deferred detach.
func setupBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}
	require.NoError(t, b.Attach(config))
	t.Cleanup(func() { b.Detach() })
	return b
}

func TestBackendLifecycle(t *testing.T) {
	b := NewBackend()
	dataDir := t.TempDir()
	config := types.Config{Backend: types.BackendSQLite, DataDir: dataDir}

	require.NoError(t, b.Attach(config))

	// Double attach is rejected.
	assert.ErrorIs(t, b.Attach(config), types.ErrAlreadyAttached)

	// All standard tables resolve.
	for _, name := range types.StandardTableNames {
		table, err := b.GetTable(name)
		require.NoError(t, err, name)
		assert.NotNil(t, table)
	}

	_, err := b.GetTable("shelves")
	assert.ErrorIs(t, err, types.ErrTableNotFound)

	// Detach is idempotent.
	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach())

	_, err = b.GetTable(types.ItemsTable)
	assert.ErrorIs(t, err, types.ErrPantryDetached)
}

func TestBackendRejectsInvalidConfig(t *testing.T) {
	b := NewBackend()
	err := b.Attach(types.Config{Backend: "postgres"})
	assert.ErrorIs(t, err, types.ErrBackendUnknown)

	err = b.Attach(types.Config{})
	assert.ErrorIs(t, err, types.ErrBackendEmpty)
}

func TestBackendPersistsAcrossAttach(t *testing.T) {
	dataDir := t.TempDir()
	config := types.Config{Backend: types.BackendSQLite, DataDir: dataDir}

	b := NewBackend()
	require.NoError(t, b.Attach(config))

	table, err := b.GetTable(types.ItemsTable)
	require.NoError(t, err)
	id, err := table.Set("", &types.Item{Name: "Flour", Quantity: 1, TotalVolume: 2, Unit: "kg"})
	require.NoError(t, err)
	require.NoError(t, b.Detach())

	// A fresh backend over the same data dir sees the row.
	b2 := NewBackend()
	require.NoError(t, b2.Attach(config))
	t.Cleanup(func() { b2.Detach() })

	table, err = b2.GetTable(types.ItemsTable)
	require.NoError(t, err)
	entity, err := table.Get(id)
	require.NoError(t, err)

	item := entity.(*types.Item)
	assert.Equal(t, "Flour", item.Name)
	assert.Equal(t, float64(2), item.TotalVolume)
}

func TestTableOpsAfterDetach(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(types.ItemsTable)
	require.NoError(t, err)

	require.NoError(t, b.Detach())

	_, err = table.Get("some-id")
	assert.ErrorIs(t, err, types.ErrPantryDetached)
	_, err = table.Set("", &types.Item{Name: "Milk"})
	assert.ErrorIs(t, err, types.ErrPantryDetached)
	_, err = table.Fetch(nil)
	assert.ErrorIs(t, err, types.ErrPantryDetached)
}
