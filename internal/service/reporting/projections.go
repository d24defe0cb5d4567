package reporting

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/stockpilot/internal/domain/models"
)

const (
	// DefaultChartLimit is how many products the charts show.
	DefaultChartLimit = 10

	historyDateLayout = "02/01/2006, 03:04 PM"
	healthyMargin     = 30
)

var hundred = decimal.NewFromInt(100)

// StockStatus flags products at or below their reorder point.
type StockStatus string

const (
	StockOK  StockStatus = "ok"
	StockLow StockStatus = "low"
)

// DashboardRow is one product line of the inventory table.
type DashboardRow struct {
	Product models.Product `json:"product"`
	Status  StockStatus    `json:"status"`
}

// Dashboard is the inventory overview.
type Dashboard struct {
	TotalUnits     int             `json:"total_units"`
	TotalSaleValue decimal.Decimal `json:"total_sale_value"`
	LowStock       int             `json:"low_stock"`
	Rows           []DashboardRow  `json:"rows"`
}

// BuildDashboard summarizes the catalog in its given order.
func BuildDashboard(products []models.Product) Dashboard {
	view := Dashboard{TotalSaleValue: decimal.Zero, Rows: make([]DashboardRow, 0, len(products))}
	for _, p := range products {
		status := StockOK
		if p.IsLowStock() {
			status = StockLow
			view.LowStock++
		}
		view.TotalUnits += p.CurrentStock
		view.TotalSaleValue = view.TotalSaleValue.Add(p.StockValueAtSale())
		view.Rows = append(view.Rows, DashboardRow{Product: p, Status: status})
	}
	return view
}

// FinanceRow is the profit analysis of one product.
type FinanceRow struct {
	ProductID     int             `json:"product_id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Stock         int             `json:"stock"`
	UnitProfit    decimal.Decimal `json:"unit_profit"`
	TotalProfit   decimal.Decimal `json:"total_profit"`
	MarginPercent decimal.Decimal `json:"margin_percent"`
	Healthy       bool            `json:"healthy"`
}

// Finance is the capital and margin analysis of the stock on hand.
type Finance struct {
	CapitalAtSale decimal.Decimal `json:"capital_at_sale"`
	CapitalAtCost decimal.Decimal `json:"capital_at_cost"`
	TotalUnits    int             `json:"total_units"`
	MarginPercent decimal.Decimal `json:"margin_percent"`
	Healthy       bool            `json:"healthy"`
	Rows          []FinanceRow    `json:"rows"`
}

// BuildFinance computes capital, global margin and per-product profit, rows
// sorted by total estimated profit, highest first.
func BuildFinance(products []models.Product) Finance {
	view := Finance{CapitalAtSale: decimal.Zero, CapitalAtCost: decimal.Zero, Rows: make([]FinanceRow, 0, len(products))}
	for _, p := range products {
		view.CapitalAtSale = view.CapitalAtSale.Add(p.StockValueAtSale())
		view.CapitalAtCost = view.CapitalAtCost.Add(p.StockValueAtCost())
		view.TotalUnits += p.CurrentStock

		unit := p.SalePrice.Sub(p.PurchasePrice)
		margin := marginPercent(unit, p.SalePrice)
		view.Rows = append(view.Rows, FinanceRow{
			ProductID:     p.ID,
			SKU:           p.SKU,
			Name:          p.Name,
			Stock:         p.CurrentStock,
			UnitProfit:    unit,
			TotalProfit:   unit.Mul(decimal.NewFromInt(int64(p.CurrentStock))),
			MarginPercent: margin,
			Healthy:       isHealthy(margin),
		})
	}

	view.MarginPercent = marginPercent(view.CapitalAtSale.Sub(view.CapitalAtCost), view.CapitalAtSale)
	view.Healthy = isHealthy(view.MarginPercent)

	sort.SliceStable(view.Rows, func(i, j int) bool {
		return view.Rows[i].TotalProfit.GreaterThan(view.Rows[j].TotalProfit)
	})
	return view
}

// marginPercent is profit over revenue as a percentage rounded to one
// decimal; zero revenue yields zero.
func marginPercent(profit, revenue decimal.Decimal) decimal.Decimal {
	if !revenue.IsPositive() {
		return decimal.Zero
	}
	return profit.Div(revenue).Mul(hundred).Round(1)
}

func isHealthy(margin decimal.Decimal) bool {
	return margin.GreaterThanOrEqual(decimal.NewFromInt(healthyMargin))
}

// Charts holds the parallel series plotted by the dashboard.
type Charts struct {
	Labels         []string          `json:"labels"`
	Stock          []int             `json:"stock"`
	ValueAtCost    []decimal.Decimal `json:"value_at_cost"`
	PurchasePrices []decimal.Decimal `json:"purchase_prices"`
	SalePrices     []decimal.Decimal `json:"sale_prices"`
	UnitProfit     []decimal.Decimal `json:"unit_profit"`
}

// BuildCharts takes the first limit products in catalog order. A limit of
// zero or less uses DefaultChartLimit.
func BuildCharts(products []models.Product, limit int) Charts {
	if limit <= 0 {
		limit = DefaultChartLimit
	}
	if len(products) > limit {
		products = products[:limit]
	}

	charts := Charts{
		Labels:         make([]string, 0, len(products)),
		Stock:          make([]int, 0, len(products)),
		ValueAtCost:    make([]decimal.Decimal, 0, len(products)),
		PurchasePrices: make([]decimal.Decimal, 0, len(products)),
		SalePrices:     make([]decimal.Decimal, 0, len(products)),
		UnitProfit:     make([]decimal.Decimal, 0, len(products)),
	}
	for _, p := range products {
		charts.Labels = append(charts.Labels, p.Name)
		charts.Stock = append(charts.Stock, p.CurrentStock)
		charts.ValueAtCost = append(charts.ValueAtCost, p.StockValueAtCost())
		charts.PurchasePrices = append(charts.PurchasePrices, p.PurchasePrice)
		charts.SalePrices = append(charts.SalePrices, p.SalePrice)
		charts.UnitProfit = append(charts.UnitProfit, p.SalePrice.Sub(p.PurchasePrice))
	}
	return charts
}

// HistoryRow is one movement as listed in the history table.
type HistoryRow struct {
	Date            string              `json:"date"`
	Product         string              `json:"product"`
	SKU             string              `json:"sku,omitempty"`
	Deleted         bool                `json:"deleted"`
	Type            models.MovementType `json:"type"`
	Quantity        int                 `json:"quantity"`
	ResponsibleUser string              `json:"responsible_user"`
}

// BuildHistory formats movements in the order given. Times are shown in loc
// when it is not nil.
func BuildHistory(movements []models.Movement, loc *time.Location) []HistoryRow {
	rows := make([]HistoryRow, 0, len(movements))
	for _, m := range movements {
		row := HistoryRow{
			Date:            formatHistoryDate(m.Timestamp.Time, loc),
			Type:            m.Type,
			Quantity:        m.Quantity,
			ResponsibleUser: m.ResponsibleUser,
		}
		if m.Product != nil {
			row.Product = m.Product.Name
			row.SKU = m.Product.SKU
		} else {
			row.Product = fmt.Sprintf("Producto Eliminado (ID %d)", m.ProductID)
			row.Deleted = true
		}
		rows = append(rows, row)
	}
	return rows
}

func formatHistoryDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "Sin fecha"
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(historyDateLayout)
}
