package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/stocklist/pkg/types"
)

func TestExportImportRoundTrip(t *testing.T) {
	b := setupBackend(t)

	items, err := b.GetTable(types.ItemsTable)
	require.NoError(t, err)
	itemID, err := items.Set("", &types.Item{
		Name: "Rice", Quantity: 1, TotalVolume: 5, Unit: "kg", Location: "pantry",
	})
	require.NoError(t, err)

	entries, err := b.GetTable(types.EntriesTable)
	require.NoError(t, err)
	entryID, err := entries.Set("", &types.Entry{
		ItemName: "Soy sauce",
		Note:     "the dark one\n\n[[SKMETA:{\"pkgSize\":0.5}]]",
	})
	require.NoError(t, err)

	exportDir := filepath.Join(t.TempDir(), "snapshot")
	require.NoError(t, b.ExportJSONL(exportDir))

	for _, name := range types.StandardTableNames {
		_, err := os.Stat(filepath.Join(exportDir, name+".jsonl"))
		assert.NoError(t, err, name)
	}

	// Import into a fresh pantry.
	b2 := NewBackend()
	require.NoError(t, b2.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}))
	t.Cleanup(func() { b2.Detach() })

	require.NoError(t, b2.ImportJSONL(exportDir))

	items2, err := b2.GetTable(types.ItemsTable)
	require.NoError(t, err)
	entity, err := items2.Get(itemID)
	require.NoError(t, err)
	assert.Equal(t, "Rice", entity.(*types.Item).Name)

	entries2, err := b2.GetTable(types.EntriesTable)
	require.NoError(t, err)
	entity, err = entries2.Get(entryID)
	require.NoError(t, err)
	assert.Equal(t, "the dark one\n\n[[SKMETA:{\"pkgSize\":0.5}]]", entity.(*types.Entry).Note)
}

func TestImportSkipsMissingAndMalformed(t *testing.T) {
	b := setupBackend(t)

	dir := t.TempDir()
	// Only an items file, with one good and two bad lines.
	content := `{"item_id":"01890000-0000-7000-8000-000000000001","name":"Salt","quantity":1}
{not json at all
{"name":""}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "items.jsonl"), []byte(content), 0o644))

	require.NoError(t, b.ImportJSONL(dir))

	items, err := b.GetTable(types.ItemsTable)
	require.NoError(t, err)
	all, err := items.Fetch(nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Salt", all[0].(*types.Item).Name)
}

func TestWriteJSONLAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.jsonl")

	require.NoError(t, writeJSONL(path, nil))
	records, err := readJSONL(path)
	require.NoError(t, err)
	assert.Empty(t, records)

	// No temp files left behind.
	matches, err := filepath.Glob(filepath.Join(dir, ".jsonl-*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}
