package reporting

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockpilot/internal/domain/models"
)

func product(id int, sku string, cost, sale int64, stock, reorder int) models.Product {
	return models.Product{
		ID:            id,
		SKU:           sku,
		Name:          "Producto " + sku,
		PurchasePrice: decimal.NewFromInt(cost),
		SalePrice:     decimal.NewFromInt(sale),
		CurrentStock:  stock,
		ReorderPoint:  reorder,
	}
}

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return d
}

func TestBuildDashboard(t *testing.T) {
	view := BuildDashboard([]models.Product{
		product(1, "A", 10, 20, 5, 2),
		product(2, "B", 80, 100, 2, 2),
		product(3, "C", 5, 8, 0, 1),
	})

	assert.Equal(t, 7, view.TotalUnits)
	assert.True(t, view.TotalSaleValue.Equal(decimal.NewFromInt(300)))
	assert.Equal(t, 2, view.LowStock)
	require.Len(t, view.Rows, 3)
	assert.Equal(t, StockOK, view.Rows[0].Status)
	assert.Equal(t, StockLow, view.Rows[1].Status)
	assert.Equal(t, StockLow, view.Rows[2].Status)
}

func TestBuildFinance(t *testing.T) {
	view := BuildFinance([]models.Product{
		product(1, "A", 10, 20, 5, 0),
		product(2, "B", 80, 100, 10, 0),
		product(3, "C", 0, 0, 3, 0),
	})

	assert.True(t, view.CapitalAtSale.Equal(decimal.NewFromInt(1100)))
	assert.True(t, view.CapitalAtCost.Equal(decimal.NewFromInt(850)))
	assert.Equal(t, 18, view.TotalUnits)
	assert.True(t, view.MarginPercent.Equal(dec(t, "22.7")), view.MarginPercent.String())
	assert.False(t, view.Healthy)

	require.Len(t, view.Rows, 3)
	assert.Equal(t, []string{"B", "A", "C"}, []string{view.Rows[0].SKU, view.Rows[1].SKU, view.Rows[2].SKU})

	top := view.Rows[0]
	assert.True(t, top.UnitProfit.Equal(decimal.NewFromInt(20)))
	assert.True(t, top.TotalProfit.Equal(decimal.NewFromInt(200)))
	assert.True(t, top.MarginPercent.Equal(decimal.NewFromInt(20)))
	assert.False(t, top.Healthy)

	assert.True(t, view.Rows[1].MarginPercent.Equal(decimal.NewFromInt(50)))
	assert.True(t, view.Rows[1].Healthy)
	assert.True(t, view.Rows[2].MarginPercent.IsZero())
}

func TestBuildFinanceHealthyThreshold(t *testing.T) {
	tests := []struct {
		name    string
		cost    int64
		sale    int64
		healthy bool
	}{
		{name: "exactly thirty", cost: 70, sale: 100, healthy: true},
		{name: "just below", cost: 71, sale: 100, healthy: false},
		{name: "no revenue", cost: 0, sale: 0, healthy: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := BuildFinance([]models.Product{product(1, "A", tt.cost, tt.sale, 1, 0)})
			assert.Equal(t, tt.healthy, view.Healthy)
		})
	}
}

func TestBuildFinanceEmptyCatalog(t *testing.T) {
	view := BuildFinance(nil)
	assert.True(t, view.MarginPercent.IsZero())
	assert.Empty(t, view.Rows)
}

func TestBuildChartsLimit(t *testing.T) {
	products := make([]models.Product, 0, 12)
	for i := 1; i <= 12; i++ {
		products = append(products, product(i, fmt.Sprintf("P%02d", i), 10, 15, i, 0))
	}

	charts := BuildCharts(products, 0)
	require.Len(t, charts.Labels, DefaultChartLimit)
	assert.Equal(t, "Producto P01", charts.Labels[0])
	assert.Equal(t, 10, charts.Stock[9])
	assert.True(t, charts.ValueAtCost[9].Equal(decimal.NewFromInt(100)))
	assert.True(t, charts.UnitProfit[0].Equal(decimal.NewFromInt(5)))

	assert.Len(t, BuildCharts(products, 3).Labels, 3)
	assert.Len(t, BuildCharts(products[:2], 10).SalePrices, 2)
}

func TestBuildHistory(t *testing.T) {
	at := time.Date(2026, 1, 5, 19, 3, 0, 0, time.UTC)
	rows := BuildHistory([]models.Movement{
		{
			ProductID:       1,
			Type:            models.MovementIn,
			Quantity:        4,
			Timestamp:       models.Timestamp{Time: at},
			ResponsibleUser: "admin",
			Product:         &models.MovementProduct{Name: "Arroz", SKU: "A-1"},
		},
		{ProductID: 7, Type: models.MovementOut, Quantity: 1},
	}, time.UTC)

	require.Len(t, rows, 2)
	assert.Equal(t, "05/01/2026, 07:03 PM", rows[0].Date)
	assert.Equal(t, "Arroz", rows[0].Product)
	assert.Equal(t, "A-1", rows[0].SKU)
	assert.False(t, rows[0].Deleted)

	assert.Equal(t, "Sin fecha", rows[1].Date)
	assert.Equal(t, "Producto Eliminado (ID 7)", rows[1].Product)
	assert.True(t, rows[1].Deleted)
}

func TestBuildHistoryConvertsZone(t *testing.T) {
	loc := time.FixedZone("CST", -6*60*60)
	at := time.Date(2026, 1, 6, 1, 3, 0, 0, time.UTC)

	rows := BuildHistory([]models.Movement{{ProductID: 1, Timestamp: models.Timestamp{Time: at}}}, loc)
	assert.Equal(t, "05/01/2026, 07:03 PM", rows[0].Date)
}
