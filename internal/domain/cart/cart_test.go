package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(productID string, price string, qty int) Item {
	return Item{
		ProductID: productID,
		Name:      productID,
		Price:     decimal.RequireFromString(price),
		Quantity:  qty,
	}
}

func assertTotal(t *testing.T, c *Cart, want string) {
	t.Helper()
	expected := decimal.RequireFromString(want)
	assert.True(t, expected.Equal(c.Total), "total: want %s, got %s", expected, c.Total)
}

func TestStore_CreateAndGet(t *testing.T) {
	s := NewStore()

	c := s.Create()
	require.NotEmpty(t, c.ID)
	assert.Empty(t, c.Items)
	assertTotal(t, c, "0")

	got, err := s.Get(c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	_, err = s.Get("missing")
	require.ErrorIs(t, err, ErrNotFound)

	_, ok := s.Lookup("missing")
	assert.False(t, ok)
}

func TestStore_AddItem(t *testing.T) {
	s := NewStore()
	c := s.Create()

	got, err := s.AddItem(c.ID, item("p1", "10.50", 2))
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.NotEmpty(t, got.Items[0].ID)
	assertTotal(t, got, "21")

	got, err = s.AddItem(c.ID, item("p2", "3.25", 1))
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assertTotal(t, got, "24.25")
}

func TestStore_AddItem_MergesDuplicateProduct(t *testing.T) {
	s := NewStore()
	c := s.Create()

	_, err := s.AddItem(c.ID, item("p1", "10", 2))
	require.NoError(t, err)

	got, err := s.AddItem(c.ID, item("p1", "10", 3))
	require.NoError(t, err)

	// One line, merged quantity, recomputed total.
	require.Len(t, got.Items, 1)
	assert.Equal(t, 5, got.Items[0].Quantity)
	assertTotal(t, got, "50")
}

func TestStore_AddItem_Validation(t *testing.T) {
	s := NewStore()
	c := s.Create()

	tests := []struct {
		name string
		item Item
	}{
		{"missing product id", item("", "10", 1)},
		{"negative price", item("p1", "-1", 1)},
		{"zero quantity", item("p1", "10", 0)},
		{"negative quantity", item("p1", "10", -2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AddItem(c.ID, tt.item)
			require.ErrorIs(t, err, ErrInvalidItem)
		})
	}

	_, err := s.AddItem("missing", item("p1", "10", 1))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_RemoveItem(t *testing.T) {
	s := NewStore()
	c := s.Create()

	added, err := s.AddItem(c.ID, item("p1", "10", 1))
	require.NoError(t, err)
	_, err = s.AddItem(c.ID, item("p2", "5", 2))
	require.NoError(t, err)

	got, err := s.RemoveItem(c.ID, added.Items[0].ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "p2", got.Items[0].ProductID)
	assertTotal(t, got, "10")
}

func TestStore_RemoveItem_UnknownID(t *testing.T) {
	s := NewStore()
	c := s.Create()

	_, err := s.AddItem(c.ID, item("p1", "10", 1))
	require.NoError(t, err)

	_, err = s.RemoveItem(c.ID, "missing-item")
	require.ErrorIs(t, err, ErrItemNotFound)

	// Failed removal leaves the cart unchanged.
	got, err := s.Get(c.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assertTotal(t, got, "10")
}

func TestStore_Clear(t *testing.T) {
	s := NewStore()
	c := s.Create()

	_, err := s.AddItem(c.ID, item("p1", "10", 3))
	require.NoError(t, err)

	require.NoError(t, s.Clear(c.ID))

	got, err := s.Get(c.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
	assertTotal(t, got, "0")

	require.ErrorIs(t, s.Clear("missing"), ErrNotFound)
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := NewStore()
	c := s.Create()

	got, err := s.AddItem(c.ID, item("p1", "10", 1))
	require.NoError(t, err)

	// Mutating the returned cart must not leak into the store.
	got.Items[0].Quantity = 99

	fresh, err := s.Get(c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.Items[0].Quantity)
}
