package cart

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/stockpilot/internal/domain"
	"github.com/mamadbah2/stockpilot/internal/domain/models"
)

// Catalog resolves products from the inventory snapshot.
type Catalog interface {
	FindByID(id int) (models.Product, bool)
}

// Cart is the ordered set of lines of the sale being rung up. Insertion order
// is display order. It lives in memory only.
type Cart struct {
	catalog Catalog

	mu    sync.Mutex
	lines []models.CartLine
}

// New builds an empty cart backed by catalog.
func New(catalog Catalog) *Cart {
	return &Cart{catalog: catalog}
}

// Add puts one unit of productID in the cart. A repeated add increments the
// existing line as long as it stays within the cached stock; otherwise the cart
// is left unchanged and ErrOutOfStock (or ErrSoldOut for a product with no stock)
// is returned.
func (c *Cart) Add(productID int) (models.CartLine, error) {
	product, ok := c.catalog.FindByID(productID)
	if !ok {
		return models.CartLine{}, fmt.Errorf("add product %d: %w", productID, domain.ErrProductNotFound)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ProductID != productID {
			continue
		}
		if c.lines[i].Quantity+1 > product.CurrentStock {
			return c.lines[i], fmt.Errorf("add %s: %w", product.SKU, domain.ErrOutOfStock)
		}
		c.lines[i].Quantity++
		return c.lines[i], nil
	}

	if product.CurrentStock <= 0 {
		return models.CartLine{}, fmt.Errorf("add %s: %w", product.SKU, domain.ErrSoldOut)
	}

	line := models.CartLine{
		ProductID: product.ID,
		SKU:       product.SKU,
		Name:      product.Name,
		UnitPrice: product.SalePrice,
		Quantity:  1,
	}
	c.lines = append(c.lines, line)
	return line, nil
}

// Remove drops the line at index.
func (c *Cart) Remove(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.lines) {
		return fmt.Errorf("remove line %d of %d: %w", index, len(c.lines), domain.ErrLineNotFound)
	}
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	return nil
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Lines returns a copy of the lines in display order.
func (c *Cart) Lines() []models.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len is the number of lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// IsEmpty reports whether there is nothing to charge.
func (c *Cart) IsEmpty() bool {
	return c.Len() == 0
}

// Total recomputes the sum of unit price times quantity over every line.
func (c *Cart) Total() decimal.Decimal {
	return Total(c.Lines())
}

// Total sums the subtotals of lines.
func Total(lines []models.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
	}
	return total
}
