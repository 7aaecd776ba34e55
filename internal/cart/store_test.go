package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItem(price string, qty int) Item {
	return Item{
		ProductID: uuid.New(),
		Title:     "Vanilla Cream Soda",
		Slug:      "vanilla-cream-soda",
		UnitPrice: decimal.RequireFromString(price),
		Quantity:  qty,
	}
}

func TestStoreAddMergesByProduct(t *testing.T) {
	store := NewStore()
	item := testItem("4.50", 2)

	snap := store.Add(item)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 2, snap.ItemCount)

	snap = store.Add(Item{ProductID: item.ProductID, Title: item.Title, Slug: item.Slug, UnitPrice: item.UnitPrice, Quantity: 3})
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 5, snap.Items[0].Quantity)
	assert.Equal(t, "22.50", snap.TotalPriceString())
}

func TestStoreAddClampsQuantity(t *testing.T) {
	store := NewStore()
	item := testItem("1.00", 98)

	store.Add(item)
	snap := store.Add(Item{ProductID: item.ProductID, UnitPrice: item.UnitPrice, Quantity: 10})
	require.Len(t, snap.Items, 1)
	assert.Equal(t, MaxQuantityPerProduct, snap.Items[0].Quantity)

	snap = store.Increment(item.ProductID)
	assert.Equal(t, MaxQuantityPerProduct, snap.Items[0].Quantity)
}

func TestStoreDecrementRemovesAtZero(t *testing.T) {
	store := NewStore()
	item := testItem("2.00", 1)
	store.Add(item)

	snap := store.Decrement(item.ProductID)
	assert.Empty(t, snap.Items)
	assert.Equal(t, 0, snap.ItemCount)
	assert.Equal(t, "0.00", snap.TotalPriceString())
}

func TestStoreDecrementUnknownProductIsNoop(t *testing.T) {
	store := NewStore()
	store.Add(testItem("2.00", 1))

	snap := store.Decrement(uuid.New())
	assert.Equal(t, 1, snap.ItemCount)
}

func TestStoreRemove(t *testing.T) {
	store := NewStore()
	keep := testItem("3.25", 2)
	drop := testItem("1.75", 4)
	store.Add(keep)
	store.Add(drop)

	snap := store.Remove(drop.ProductID)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, keep.ProductID, snap.Items[0].ProductID)
	assert.Equal(t, "6.50", snap.TotalPriceString())
}

func TestStoreReset(t *testing.T) {
	store := NewStore()
	store.Add(testItem("3.25", 2))

	snap := store.Reset()
	assert.Empty(t, snap.Items)
	assert.True(t, snap.TotalPrice.IsZero())
}

func TestSnapshotExpandedPerUnitRows(t *testing.T) {
	store := NewStore()
	a := testItem("5.00", 3)
	b := testItem("2.00", 1)
	store.Add(a)
	store.Add(b)

	expanded := store.Snapshot().Expanded()
	require.Len(t, expanded, 4)
	for i := 0; i < 3; i++ {
		assert.Equal(t, a.ProductID, expanded[i].ProductID)
	}
	assert.Equal(t, b.ProductID, expanded[3].ProductID)
}

func TestStoreReplaceDropsInvalidLines(t *testing.T) {
	store := NewStore()
	valid := testItem("1.00", 2)
	overflow := testItem("1.00", 500)
	empty := testItem("1.00", 0)

	snap := store.Replace([]Item{valid, overflow, empty})
	require.Len(t, snap.Items, 2)
	assert.Equal(t, 2, snap.Items[0].Quantity)
	assert.Equal(t, MaxQuantityPerProduct, snap.Items[1].Quantity)
}

func TestStoreTotalPriceTwoDecimals(t *testing.T) {
	store := NewStore()
	store.Add(testItem("0.10", 3))

	assert.Equal(t, "0.30", store.Snapshot().TotalPriceString())
}
