package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockpilot/internal/config"
	"github.com/mamadbah2/stockpilot/internal/domain/models"
	client "github.com/mamadbah2/stockpilot/pkg/clients/whatsapp"
)

const sendTimeout = 10 * time.Second

// ErrNoRecipient is returned when a notice has nowhere to go.
var ErrNoRecipient = errors.New("no whatsapp recipient configured")

// MessagingService pushes store notices to the owner's phone.
type MessagingService interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
	SendDailyCut(ctx context.Context, summary string, date string, pdf []byte) error
}

// MetaWhatsAppService is the production implementation backed by WhatsApp Cloud API.
type MetaWhatsAppService struct {
	cfg    config.WhatsAppConfig
	client client.Client
	logger *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance.
func NewMetaWhatsAppService(cfg config.WhatsAppConfig, client client.Client, logger *zap.Logger) *MetaWhatsAppService {
	svc := &MetaWhatsAppService{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// SendOutbound sends a plain-text notice. An empty recipient falls back to
// the configured report number.
func (s *MetaWhatsAppService) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	to := strings.TrimSpace(req.To)
	if to == "" {
		to = s.cfg.ReportTo
	}
	if to == "" {
		return ErrNoRecipient
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	resp, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         to,
		Body:       req.Message,
		PreviewURL: req.PreviewURL,
	})
	if err != nil {
		return err
	}
	s.logger.Info("notice sent", zap.String("to", to), zap.Int("messages", len(resp.Messages)))
	return nil
}

// SendDailyCut sends the cash-cut summary to the report number and, when a
// PDF is given, the document after it. A failed document does not undo the text.
func (s *MetaWhatsAppService) SendDailyCut(ctx context.Context, summary string, date string, pdf []byte) error {
	if err := s.SendOutbound(ctx, models.OutboundMessageRequest{Message: summary}); err != nil {
		return fmt.Errorf("send cash cut summary: %w", err)
	}
	if len(pdf) == 0 {
		return nil
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	_, err := s.client.SendDocument(ctxWithTimeout, client.SendDocumentRequest{
		To:       s.cfg.ReportTo,
		Filename: fmt.Sprintf("corte_%s.pdf", date),
		MimeType: "application/pdf",
		Caption:  "Corte del día " + date,
		Content:  pdf,
	})
	if err != nil {
		return fmt.Errorf("send cash cut pdf: %w", err)
	}
	return nil
}
