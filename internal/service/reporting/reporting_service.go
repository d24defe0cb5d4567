package reporting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockpilot/internal/domain"
	"github.com/mamadbah2/stockpilot/internal/domain/models"
	"github.com/mamadbah2/stockpilot/internal/repository/mongodb"
	repo "github.com/mamadbah2/stockpilot/internal/repository/sheets"
)

const (
	dateLayout      = "2006-01-02"
	cutsLedgerRange = "Cortes!A:G"
)

// CutSource fetches the backend figures a cash cut is built from.
type CutSource interface {
	DailyCut(ctx context.Context) (*models.DailyCut, error)
	Settings(ctx context.Context) (*models.StoreSettings, error)
}

// Catalog reloads the product snapshot.
type Catalog interface {
	Refresh(ctx context.Context) ([]models.Product, error)
}

// Renderer turns a cash cut into a printable document.
type Renderer interface {
	DailyCut(record models.DailyCutRecord) ([]byte, error)
}

// Service closes the business day: it fetches the cash cut, archives it and
// appends it to the ledger. Archive and ledger are optional.
type Service struct {
	source   CutSource
	catalog  Catalog
	archive  mongodb.Repository
	ledger   repo.Repository
	renderer Renderer
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a new reporting service instance. archive and ledger may be nil.
func NewService(source CutSource, catalog Catalog, archive mongodb.Repository, ledger repo.Repository, renderer Renderer, location *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.Local
	}
	return &Service{
		source:   source,
		catalog:  catalog,
		archive:  archive,
		ledger:   ledger,
		renderer: renderer,
		location: location,
		logger:   logger,
		now:      time.Now,
	}
}

// Location is the time zone reports are rendered in.
func (s *Service) Location() *time.Location {
	return s.location
}

// BuildDailyCut assembles today's cash cut with the store name and the SKUs
// that reached their reorder point. Missing settings or catalog only degrade
// the record.
func (s *Service) BuildDailyCut(ctx context.Context, closedBy string) (models.DailyCutRecord, error) {
	cut, err := s.source.DailyCut(ctx)
	if err != nil {
		return models.DailyCutRecord{}, fmt.Errorf("load daily cut: %w", err)
	}

	now := s.now().In(s.location)
	record := models.DailyCutRecord{
		Date:         cut.Date,
		TotalSold:    cut.TotalSold.StringFixed(2),
		ItemsSold:    cut.ItemsSold,
		Transactions: cut.Transactions,
		LowStockSKUs: []string{},
		ClosedBy:     closedBy,
		CreatedAt:    now,
	}
	if record.Date == "" {
		record.Date = now.Format(dateLayout)
	}

	if settings, err := s.source.Settings(ctx); err != nil {
		s.logger.Debug("store settings unavailable for cash cut", zap.Error(err))
	} else {
		record.StoreName = settings.StoreName
	}

	products, err := s.catalog.Refresh(ctx)
	if err != nil {
		s.logger.Warn("catalog unavailable for cash cut", zap.Error(err))
	}
	for _, p := range products {
		if p.IsLowStock() {
			record.LowStockSKUs = append(record.LowStockSKUs, p.SKU)
		}
	}

	return record, nil
}

// CloseDay builds the cash cut, archives it and appends it to the ledger. It
// returns the record and a plain-text summary. Storage failures are reported
// together after both stores were attempted.
func (s *Service) CloseDay(ctx context.Context, closedBy string) (models.DailyCutRecord, string, error) {
	record, err := s.BuildDailyCut(ctx, closedBy)
	if err != nil {
		return models.DailyCutRecord{}, "", err
	}

	var errs []error
	if s.archive != nil {
		if err := s.archive.SaveDailyCut(ctx, record); err != nil {
			errs = append(errs, fmt.Errorf("archive cash cut: %w", err))
		}
	}
	if s.ledger != nil {
		if err := s.appendToLedger(ctx, record); err != nil {
			errs = append(errs, err)
		}
	}

	summary := Summary(record)
	if err := errors.Join(errs...); err != nil {
		s.logger.Error("cash cut not fully stored", zap.String("date", record.Date), zap.Error(err))
		return record, summary, err
	}

	s.logger.Info("day closed",
		zap.String("date", record.Date),
		zap.String("total_sold", record.TotalSold),
		zap.Int("transactions", record.Transactions))
	return record, summary, nil
}

// appendToLedger writes one row per day; a day already in the ledger is left alone.
func (s *Service) appendToLedger(ctx context.Context, record models.DailyCutRecord) error {
	exists, err := s.ledger.HasKey(ctx, cutsLedgerRange, record.Date)
	if err != nil {
		return fmt.Errorf("read cash cut ledger: %w", err)
	}
	if exists {
		s.logger.Info("cash cut already in ledger", zap.String("date", record.Date))
		return nil
	}
	if err := s.ledger.WriteRow(ctx, cutsLedgerRange, ledgerRow(record)); err != nil {
		return fmt.Errorf("append cash cut to ledger: %w", err)
	}
	return nil
}

// DailyCutPDF renders today's cash cut as a PDF.
func (s *Service) DailyCutPDF(ctx context.Context, closedBy string) ([]byte, error) {
	if s.renderer == nil {
		return nil, &domain.APIError{Op: "daily cut pdf", Detail: "pdf renderer not configured", Kind: domain.ErrServer}
	}
	record, err := s.BuildDailyCut(ctx, closedBy)
	if err != nil {
		return nil, err
	}
	doc, err := s.renderer.DailyCut(record)
	if err != nil {
		return nil, fmt.Errorf("render daily cut: %w", err)
	}
	return doc, nil
}

// Summary is the plain-text form of a cash cut, fit for a chat message.
func Summary(record models.DailyCutRecord) string {
	var b strings.Builder
	b.WriteString("Corte del día " + record.Date)
	if record.StoreName != "" {
		b.WriteString(" - " + record.StoreName)
	}
	fmt.Fprintf(&b, "\nTotal vendido: $%s", record.TotalSold)
	fmt.Fprintf(&b, "\nArtículos vendidos: %d en %d ventas", record.ItemsSold, record.Transactions)
	if len(record.LowStockSKUs) > 0 {
		b.WriteString("\nStock bajo: " + strings.Join(record.LowStockSKUs, ", "))
	}
	if record.ClosedBy != "" {
		b.WriteString("\nCerrado por: " + record.ClosedBy)
	}
	return b.String()
}

func ledgerRow(record models.DailyCutRecord) []interface{} {
	return []interface{}{
		record.Date,
		record.StoreName,
		record.TotalSold,
		record.ItemsSold,
		record.Transactions,
		strings.Join(record.LowStockSKUs, " "),
		record.ClosedBy,
	}
}
