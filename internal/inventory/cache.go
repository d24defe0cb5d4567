package inventory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockpilot/internal/domain/models"
)

// Source fetches the full product catalog.
type Source interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
}

// Cache is a full-replace snapshot of the catalog. It is never updated
// incrementally: callers refresh it after every mutation they perform.
type Cache struct {
	source Source
	logger *zap.Logger

	mu          sync.RWMutex
	products    []models.Product
	byID        map[int]int
	bySKU       map[string]int
	refreshedAt time.Time
}

// NewCache builds an empty cache over source.
func NewCache(source Source, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		source: source,
		logger: logger,
		byID:   map[int]int{},
		bySKU:  map[string]int{},
	}
}

// Refresh replaces the snapshot with a fresh fetch. On error the previous
// snapshot is kept.
func (c *Cache) Refresh(ctx context.Context) ([]models.Product, error) {
	products, err := c.source.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh inventory: %w", err)
	}

	byID := make(map[int]int, len(products))
	bySKU := make(map[string]int, len(products))
	for i, p := range products {
		byID[p.ID] = i
		if _, dup := bySKU[p.SKU]; dup {
			c.logger.Warn("duplicate sku in catalog, keeping first", zap.String("sku", p.SKU), zap.Int("product_id", p.ID))
			continue
		}
		bySKU[p.SKU] = i
	}

	c.mu.Lock()
	c.products = products
	c.byID = byID
	c.bySKU = bySKU
	c.refreshedAt = time.Now()
	c.mu.Unlock()

	c.logger.Debug("inventory refreshed", zap.Int("products", len(products)))
	return clone(products), nil
}

// FindByID looks a product up in the snapshot.
func (c *Cache) FindByID(id int) (models.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[id]
	if !ok {
		return models.Product{}, false
	}
	return c.products[i], true
}

// FindBySKU looks a product up by its exact SKU.
func (c *Cache) FindBySKU(sku string) (models.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.bySKU[sku]
	if !ok {
		return models.Product{}, false
	}
	return c.products[i], true
}

// Products returns a copy of the snapshot in catalog order.
func (c *Cache) Products() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clone(c.products)
}

// RefreshedAt is the time of the last successful refresh; zero if never.
func (c *Cache) RefreshedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshedAt
}

func clone(products []models.Product) []models.Product {
	out := make([]models.Product, len(products))
	copy(out, products)
	return out
}
