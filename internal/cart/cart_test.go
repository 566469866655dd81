package cart

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/sweetshop-golang/internal/localstore"
	"github.com/01moynul/sweetshop-golang/internal/models"
)

var (
	katli = models.Sweet{ID: 1, Name: "Kaju Katli", Category: "Barfi", Price: 850, Quantity: 5}
	jamun = models.Sweet{ID: 2, Name: "Gulab Jamun", Category: "Syrup", Price: 320.5, Quantity: 10}
)

func TestAdd_MergesLines(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(katli, 2))
	require.NoError(t, c.Add(jamun, 1))
	require.NoError(t, c.Add(katli, 3))

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, int64(1), lines[0].SweetID)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, 6, c.TotalItems())
}

func TestAdd_RejectsBadQuantity(t *testing.T) {
	c := New()
	assert.ErrorIs(t, c.Add(katli, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, c.Add(katli, -1), ErrInvalidQuantity)
	assert.True(t, c.Empty())
}

func TestAdd_StockLimit(t *testing.T) {
	c := New()

	err := c.Add(katli, 6)
	var stockErr *StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "Cannot add 6 kg. Only 5 kg of Kaju Katli is available.", err.Error())
	assert.True(t, c.Empty())

	require.NoError(t, c.Add(katli, 4))
	err = c.Add(katli, 2)
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "Cannot add 2 kg. Only 1 kg of Kaju Katli left in stock!", err.Error())
	assert.Equal(t, 4, c.Lines()[0].Quantity)
}

func TestRemoveAndClear(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(katli, 1))
	require.NoError(t, c.Add(jamun, 1))

	assert.True(t, c.Remove(1))
	assert.False(t, c.Remove(1))
	require.Len(t, c.Lines(), 1)

	c.Clear()
	assert.True(t, c.Empty())
	assert.Equal(t, 0, c.TotalItems())
}

func TestTotal(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(katli, 2))
	require.NoError(t, c.Add(jamun, 3))

	assert.Equal(t, "2661.5", c.Total().String())
	assert.True(t, New().Total().IsZero())
}

func TestSaveLoad(t *testing.T) {
	ls := localstore.Open(filepath.Join(t.TempDir(), "state.json"))

	empty, err := Load(ls)
	require.NoError(t, err)
	assert.True(t, empty.Empty())

	c := New()
	require.NoError(t, c.Add(jamun, 2))
	require.NoError(t, c.Add(katli, 1))
	require.NoError(t, c.Save(ls))

	loaded, err := Load(ls)
	require.NoError(t, err)
	assert.Equal(t, c.Lines(), loaded.Lines())

	loaded.Clear()
	require.NoError(t, loaded.Save(ls))
	again, err := Load(ls)
	require.NoError(t, err)
	assert.True(t, again.Empty())
}

type fakeCheckouter struct {
	got    []models.CheckoutLine
	result []models.Sweet
	err    error
}

func (f *fakeCheckouter) Checkout(_ context.Context, lines []models.CheckoutLine) ([]models.Sweet, error) {
	f.got = lines
	return f.result, f.err
}

func TestCheckout(t *testing.T) {
	c := New()
	require.NoError(t, c.Add(katli, 2))
	require.NoError(t, c.Add(jamun, 1))

	failing := &fakeCheckouter{err: errors.New("Insufficient stock for Kaju Katli")}
	_, err := c.Checkout(context.Background(), failing)
	require.Error(t, err)
	assert.Equal(t, 3, c.TotalItems(), "a failed checkout leaves the cart alone")

	ok := &fakeCheckouter{result: []models.Sweet{{ID: 1, Quantity: 3}, {ID: 2, Quantity: 9}}}
	sweets, err := c.Checkout(context.Background(), ok)
	require.NoError(t, err)
	assert.Equal(t, []models.CheckoutLine{{SweetID: 1, Quantity: 2}, {SweetID: 2, Quantity: 1}}, ok.got)
	assert.Len(t, sweets, 2)
	assert.True(t, c.Empty())

	_, err = c.Checkout(context.Background(), ok)
	assert.ErrorIs(t, err, ErrEmpty)
}
