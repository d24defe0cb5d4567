package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockpilot/internal/domain"
	"github.com/mamadbah2/stockpilot/internal/domain/models"
)

type mapCatalog map[int]models.Product

func (m mapCatalog) FindByID(id int) (models.Product, bool) {
	p, ok := m[id]
	return p, ok
}

func catalog() mapCatalog {
	return mapCatalog{
		1: {ID: 1, SKU: "A", Name: "Producto A", SalePrice: decimal.NewFromInt(100), CurrentStock: 5},
		2: {ID: 2, SKU: "B", Name: "Producto B", SalePrice: decimal.NewFromInt(50), CurrentStock: 1},
		3: {ID: 3, SKU: "C", Name: "Producto C", SalePrice: decimal.RequireFromString("19.99"), CurrentStock: 0},
	}
}

func TestAddZeroStockLeavesCartUnchanged(t *testing.T) {
	c := New(catalog())

	_, err := c.Add(3)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSoldOut)
	assert.Equal(t, "Producto agotado", domain.Notice(err))
	assert.True(t, c.IsEmpty())
}

func TestAddUnknownProduct(t *testing.T) {
	c := New(catalog())

	_, err := c.Add(99)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.True(t, c.IsEmpty())
}

func TestRepeatedAddNeverExceedsCachedStock(t *testing.T) {
	c := New(catalog())

	for i := 0; i < 5; i++ {
		_, err := c.Add(1)
		require.NoError(t, err)
	}
	for i := 0; i < 3; i++ {
		line, err := c.Add(1)
		assert.ErrorIs(t, err, domain.ErrOutOfStock)
		assert.Equal(t, 5, line.Quantity)
	}

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestScenarioTotalAndOutOfStock(t *testing.T) {
	c := New(catalog())

	_, err := c.Add(1)
	require.NoError(t, err)
	_, err = c.Add(1)
	require.NoError(t, err)
	_, err = c.Add(2)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(250).Equal(c.Total()), "got %s", c.Total())

	_, err = c.Add(2)
	assert.ErrorIs(t, err, domain.ErrOutOfStock)
	assert.Equal(t, "¡No tienes más stock de este producto!", domain.Notice(err))

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 1, lines[1].Quantity)
	assert.True(t, decimal.NewFromInt(250).Equal(c.Total()))
}

func TestRemoveKeepsOrderAndTotal(t *testing.T) {
	cat := catalog()
	cat[4] = models.Product{ID: 4, SKU: "D", SalePrice: decimal.RequireFromString("0.10"), CurrentStock: 10}
	c := New(cat)

	for _, id := range []int{1, 2, 4, 4, 4} {
		_, err := c.Add(id)
		require.NoError(t, err)
	}
	assert.True(t, decimal.RequireFromString("150.30").Equal(c.Total()))

	require.NoError(t, c.Remove(1))
	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "A", lines[0].SKU)
	assert.Equal(t, "D", lines[1].SKU)
	assert.True(t, decimal.RequireFromString("100.30").Equal(c.Total()))
}

func TestRemoveOutOfBounds(t *testing.T) {
	c := New(catalog())
	_, err := c.Add(1)
	require.NoError(t, err)

	for _, idx := range []int{-1, 1, 7} {
		assert.ErrorIs(t, c.Remove(idx), domain.ErrLineNotFound)
	}
	assert.Equal(t, 1, c.Len())
}

func TestClear(t *testing.T) {
	c := New(catalog())
	_, err := c.Add(1)
	require.NoError(t, err)

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.True(t, decimal.Zero.Equal(c.Total()))
}

func TestLinesIsACopy(t *testing.T) {
	c := New(catalog())
	_, err := c.Add(1)
	require.NoError(t, err)

	lines := c.Lines()
	lines[0].Quantity = 42
	assert.Equal(t, 1, c.Lines()[0].Quantity)
}
