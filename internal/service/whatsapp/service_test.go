package whatsapp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockpilot/internal/config"
	"github.com/mamadbah2/stockpilot/internal/domain/models"
	client "github.com/mamadbah2/stockpilot/pkg/clients/whatsapp"
)

type fakeClient struct {
	texts     []client.SendTextMessageRequest
	documents []client.SendDocumentRequest
	docErr    error
}

func (f *fakeClient) SendTextMessage(_ context.Context, req client.SendTextMessageRequest) (*client.SendMessageResponse, error) {
	f.texts = append(f.texts, req)
	return &client.SendMessageResponse{}, nil
}

func (f *fakeClient) SendDocument(_ context.Context, req client.SendDocumentRequest) (*client.SendMessageResponse, error) {
	f.documents = append(f.documents, req)
	if f.docErr != nil {
		return nil, f.docErr
	}
	return &client.SendMessageResponse{}, nil
}

func TestSendOutboundDefaultsToReportNumber(t *testing.T) {
	fake := &fakeClient{}
	svc := NewMetaWhatsAppService(config.WhatsAppConfig{ReportTo: "5215550000"}, fake, nil)

	require.NoError(t, svc.SendOutbound(context.Background(), models.OutboundMessageRequest{Message: "hola"}))
	require.NoError(t, svc.SendOutbound(context.Background(), models.OutboundMessageRequest{To: "5215551111", Message: "hola"}))

	require.Len(t, fake.texts, 2)
	assert.Equal(t, "5215550000", fake.texts[0].To)
	assert.Equal(t, "5215551111", fake.texts[1].To)
}

func TestSendOutboundWithoutRecipient(t *testing.T) {
	fake := &fakeClient{}
	svc := NewMetaWhatsAppService(config.WhatsAppConfig{}, fake, nil)

	err := svc.SendOutbound(context.Background(), models.OutboundMessageRequest{Message: "hola"})
	assert.ErrorIs(t, err, ErrNoRecipient)
	assert.Empty(t, fake.texts)
}

func TestSendDailyCut(t *testing.T) {
	fake := &fakeClient{}
	svc := NewMetaWhatsAppService(config.WhatsAppConfig{ReportTo: "5215550000"}, fake, nil)

	require.NoError(t, svc.SendDailyCut(context.Background(), "Corte del día 2026-10-19", "2026-10-19", []byte("%PDF")))

	require.Len(t, fake.texts, 1)
	require.Len(t, fake.documents, 1)
	assert.Equal(t, "corte_2026-10-19.pdf", fake.documents[0].Filename)
	assert.Equal(t, "application/pdf", fake.documents[0].MimeType)
}

func TestSendDailyCutDocumentFailure(t *testing.T) {
	fake := &fakeClient{docErr: errors.New("media rejected")}
	svc := NewMetaWhatsAppService(config.WhatsAppConfig{ReportTo: "5215550000"}, fake, nil)

	err := svc.SendDailyCut(context.Background(), "resumen", "2026-10-19", []byte("%PDF"))
	require.Error(t, err)
	assert.Len(t, fake.texts, 1, "summary is still sent")
}

func TestSendDailyCutTextOnly(t *testing.T) {
	fake := &fakeClient{}
	svc := NewMetaWhatsAppService(config.WhatsAppConfig{ReportTo: "5215550000"}, fake, nil)

	require.NoError(t, svc.SendDailyCut(context.Background(), "resumen", "2026-10-19", nil))
	assert.Empty(t, fake.documents)
}
