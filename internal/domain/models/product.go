package models

import "github.com/shopspring/decimal"

func init() {
	// The StockPilot API parses prices as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product mirrors a catalog entry as served by GET /productos/.
type Product struct {
	ID                int             `json:"id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"nombre"`
	Description       string          `json:"descripcion,omitempty"`
	PurchasePrice     decimal.Decimal `json:"precio_compra"`
	SalePrice         decimal.Decimal `json:"precio_venta"`
	CurrentStock      int             `json:"stock_actual"`
	ReorderPoint      int             `json:"punto_reorden"`
	DefaultSupplierID *int            `json:"proveedor_default_id,omitempty"`
}

// IsLowStock reports whether the product reached its reorder point.
func (p Product) IsLowStock() bool {
	return p.CurrentStock <= p.ReorderPoint
}

// StockValueAtCost is the purchase value of the units on hand.
func (p Product) StockValueAtCost() decimal.Decimal {
	return p.PurchasePrice.Mul(decimal.NewFromInt(int64(p.CurrentStock)))
}

// StockValueAtSale is the revenue if every unit on hand were sold.
func (p Product) StockValueAtSale() decimal.Decimal {
	return p.SalePrice.Mul(decimal.NewFromInt(int64(p.CurrentStock)))
}

// ProductInput is the payload accepted by POST /productos/ and PUT /productos/{id}.
type ProductInput struct {
	SKU               string          `json:"sku" validate:"required,max=64"`
	Name              string          `json:"nombre" validate:"required,max=200"`
	Description       string          `json:"descripcion,omitempty"`
	PurchasePrice     decimal.Decimal `json:"precio_compra" validate:"gte=0"`
	SalePrice         decimal.Decimal `json:"precio_venta" validate:"gte=0"`
	CurrentStock      int             `json:"stock_actual" validate:"gte=0"`
	ReorderPoint      int             `json:"punto_reorden" validate:"gte=0"`
	DefaultSupplierID *int            `json:"proveedor_default_id,omitempty"`
}

// ImportResult summarizes a spreadsheet import.
type ImportResult struct {
	Created int `json:"nuevos"`
	Updated int `json:"actualizados"`
}
