package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/stocklist/pkg/types"
)

func TestItemsCRUD(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(types.ItemsTable)
	require.NoError(t, err)

	item := &types.Item{
		Name:        "Oat milk",
		Brand:       "Oatly",
		Quantity:    3,
		TotalVolume: 1,
		Unit:        "l",
		Category:    "dairy alternatives",
		ExpiryDate:  "2026-10-01",
		Location:    "cellar",
	}

	id, err := table.Set("", item)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, id, item.ItemID)
	assert.False(t, item.CreatedAt.IsZero())

	entity, err := table.Get(id)
	require.NoError(t, err)
	got := entity.(*types.Item)
	assert.Equal(t, "Oat milk", got.Name)
	assert.Equal(t, "Oatly", got.Brand)
	assert.Equal(t, float64(3), got.Quantity)
	assert.Equal(t, "2026-10-01", got.ExpiryDate)
	assert.False(t, got.IsOpen)

	// Update.
	got.Quantity = 2
	got.MarkOpen()
	_, err = table.Set(id, got)
	require.NoError(t, err)

	entity, err = table.Get(id)
	require.NoError(t, err)
	got = entity.(*types.Item)
	assert.Equal(t, float64(2), got.Quantity)
	assert.True(t, got.IsOpen)

	// Delete.
	require.NoError(t, table.Delete(id))
	_, err = table.Get(id)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.ErrorIs(t, table.Delete(id), types.ErrNotFound)
}

func TestItemsValidation(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(types.ItemsTable)
	require.NoError(t, err)

	_, err = table.Set("", &types.Item{Quantity: 1})
	assert.ErrorIs(t, err, types.ErrInvalidName)

	_, err = table.Set("", &types.Item{Name: "Milk", Quantity: -2})
	assert.ErrorIs(t, err, types.ErrInvalidQuantity)

	_, err = table.Set("", "not an item")
	assert.ErrorIs(t, err, types.ErrInvalidData)

	_, err = table.Get("")
	assert.ErrorIs(t, err, types.ErrInvalidID)
}

func TestItemsFetchFilter(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(types.ItemsTable)
	require.NoError(t, err)

	seed := []*types.Item{
		{Name: "Milk", Brand: "Arla", Quantity: 2, Location: "fridge"},
		{Name: "Milk", Brand: "Oatly", Quantity: 1, Location: "cellar"},
		{Name: "Bread", Quantity: 1, Location: "counter"},
	}
	for _, item := range seed {
		_, err := table.Set("", item)
		require.NoError(t, err)
	}

	all, err := table.Fetch(nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	milk, err := table.Fetch(map[string]any{"name": "Milk"})
	require.NoError(t, err)
	assert.Len(t, milk, 2)

	arla, err := table.Fetch(map[string]any{"name": "Milk", "brand": "Arla"})
	require.NoError(t, err)
	require.Len(t, arla, 1)
	assert.Equal(t, "fridge", arla[0].(*types.Item).Location)

	open, err := table.Fetch(map[string]any{"is_open": true})
	require.NoError(t, err)
	assert.Empty(t, open)

	_, err = table.Fetch(map[string]any{"note": "x"})
	assert.ErrorIs(t, err, types.ErrInvalidFilter)
}

func TestEntriesCRUD(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(types.EntriesTable)
	require.NoError(t, err)

	entry := &types.Entry{
		ItemName: "Eggs",
		Note:     "free range\n\n[[SKMETA:{\"count\":12}]]",
	}
	id, err := table.Set("", entry)
	require.NoError(t, err)

	entity, err := table.Get(id)
	require.NoError(t, err)
	got := entity.(*types.Entry)
	// The backend stores the note verbatim, segment included.
	assert.Equal(t, entry.Note, got.Note)
	assert.False(t, got.Done)

	got.MarkDone()
	_, err = table.Set(id, got)
	require.NoError(t, err)

	pending, err := table.Fetch(map[string]any{"done": false})
	require.NoError(t, err)
	assert.Empty(t, pending)

	done, err := table.Fetch(map[string]any{"done": true})
	require.NoError(t, err)
	assert.Len(t, done, 1)

	require.NoError(t, table.Delete(id))
	assert.ErrorIs(t, table.Delete(id), types.ErrNotFound)
}

func TestActivitiesTable(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(types.ActivitiesTable)
	require.NoError(t, err)

	_, err = table.Set("", &types.Activity{Intent: "restock"})
	assert.ErrorIs(t, err, types.ErrInvalidIntent)

	first, err := table.Set("", &types.Activity{
		Intent:   types.IntentInbound,
		RawInput: "bought 2 milk",
		Detail:   map[string]any{"item_name": "Milk", "quantity": float64(2)},
	})
	require.NoError(t, err)

	_, err = table.Set("", &types.Activity{Intent: types.IntentConsume})
	require.NoError(t, err)

	entity, err := table.Get(first)
	require.NoError(t, err)
	got := entity.(*types.Activity)
	assert.Equal(t, "bought 2 milk", got.RawInput)
	assert.Equal(t, float64(2), got.Detail["quantity"])

	// Newest first.
	all, err := table.Fetch(nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, types.IntentConsume, all[0].(*types.Activity).Intent)

	inbound, err := table.Fetch(map[string]any{"intent": types.IntentInbound})
	require.NoError(t, err)
	assert.Len(t, inbound, 1)
}
