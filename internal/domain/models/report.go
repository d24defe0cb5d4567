package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryValue mirrors GET /reportes/valor-inventario.
type InventoryValue struct {
	TotalValue decimal.Decimal `json:"valor_total_almacen"`
	ItemCount  int             `json:"items_contabilizados"`
}

// DailyCut mirrors GET /reportes/corte_dia, the daily cash-register reconciliation.
type DailyCut struct {
	Date         string          `json:"fecha"`
	TotalSold    decimal.Decimal `json:"total_vendido"`
	ItemsSold    int             `json:"items_vendidos"`
	Transactions int             `json:"transacciones"`
}

// DailyCutRecord is the archived form of a cash cut.
type DailyCutRecord struct {
	Date         string    `bson:"date" json:"date"`
	StoreName    string    `bson:"store_name" json:"store_name"`
	TotalSold    string    `bson:"total_sold" json:"total_sold"`
	ItemsSold    int       `bson:"items_sold" json:"items_sold"`
	Transactions int       `bson:"transactions" json:"transactions"`
	LowStockSKUs []string  `bson:"low_stock_skus" json:"low_stock_skus"`
	ClosedBy     string    `bson:"closed_by" json:"closed_by"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}
