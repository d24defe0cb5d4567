package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockpilot/internal/cart"
	"github.com/mamadbah2/stockpilot/internal/domain"
	"github.com/mamadbah2/stockpilot/internal/domain/models"
)

// SalesAPI settles sales and renders their tickets.
type SalesAPI interface {
	Checkout(ctx context.Context, sale models.SaleRequest) (*models.SaleResult, error)
	TicketPDF(ctx context.Context, sale models.SaleRequest) ([]byte, error)
}

// Refresher reloads the inventory snapshot.
type Refresher interface {
	Refresh(ctx context.Context) ([]models.Product, error)
}

// Saver stores a downloaded artifact and returns where it went.
type Saver interface {
	Save(name string, data []byte) (string, error)
}

// Flow runs a checkout: settle, fetch ticket, clear, refresh. Steps run
// strictly in that order.
type Flow struct {
	cart      *cart.Cart
	sales     SalesAPI
	inventory Refresher
	saver     Saver
	logger    *zap.Logger
	now       func() time.Time

	inFlight sync.Mutex
}

// NewFlow wires a checkout flow.
func NewFlow(c *cart.Cart, sales SalesAPI, inventory Refresher, saver Saver, logger *zap.Logger) *Flow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Flow{
		cart:      c,
		sales:     sales,
		inventory: inventory,
		saver:     saver,
		logger:    logger,
		now:       time.Now,
	}
}

// Checkout settles the cart on behalf of responsibleUser.
//
// An empty cart fails with ErrEmptyCart before any network call. A rejected
// sale returns a *domain.CheckoutError and leaves the cart as it was. Once the
// sale is accepted nothing else can fail the checkout: ticket, download and
// refresh problems are logged and reported on the Receipt.
//
// The sale carries no idempotency key, so retrying after a timeout may
// register it twice.
func (f *Flow) Checkout(ctx context.Context, responsibleUser string) (models.Receipt, error) {
	if !f.inFlight.TryLock() {
		return models.Receipt{}, domain.ErrCheckoutInProgress
	}
	defer f.inFlight.Unlock()

	lines := f.cart.Lines()
	if len(lines) == 0 {
		return models.Receipt{}, domain.ErrEmptyCart
	}

	sale := models.NewSaleRequest(lines, responsibleUser)
	result, err := f.sales.Checkout(ctx, sale)
	if err != nil {
		f.logger.Warn("sale rejected", zap.Int("lines", len(lines)), zap.Error(err))
		return models.Receipt{}, &domain.CheckoutError{Err: err}
	}

	receipt := models.Receipt{
		Sale:  *result,
		Lines: lines,
		Total: cart.Total(lines),
	}
	f.logger.Info("sale completed",
		zap.String("responsible", responsibleUser),
		zap.Int("lines", len(lines)),
		zap.String("total", receipt.Total.StringFixed(2)))

	if path, err := f.fetchTicket(ctx, sale); err != nil {
		f.logger.Error("ticket not issued, sale stands", zap.Error(err))
		receipt.TicketErr = err.Error()
	} else {
		receipt.TicketPath = path
	}

	f.cart.Clear()
	if _, err := f.inventory.Refresh(ctx); err != nil {
		f.logger.Warn("inventory refresh after checkout failed", zap.Error(err))
	}

	return receipt, nil
}

func (f *Flow) fetchTicket(ctx context.Context, sale models.SaleRequest) (string, error) {
	pdf, err := f.sales.TicketPDF(ctx, sale)
	if err != nil {
		return "", fmt.Errorf("request ticket: %w", err)
	}
	name := fmt.Sprintf("ticket_%d.pdf", f.now().UnixMilli())
	path, err := f.saver.Save(name, pdf)
	if err != nil {
		return "", fmt.Errorf("save ticket: %w", err)
	}
	return path, nil
}
