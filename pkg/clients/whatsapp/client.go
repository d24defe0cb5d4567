package whatsapp

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/stockpilot/internal/config"
)

// maxTextLength is the Cloud API limit for a text message body.
const maxTextLength = 4096

// Client exposes the WhatsApp Cloud API operations used for store notices.
type Client interface {
	SendTextMessage(ctx context.Context, req SendTextMessageRequest) (*SendMessageResponse, error)
	SendDocument(ctx context.Context, req SendDocumentRequest) (*SendMessageResponse, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient    *resty.Client
	phoneNumberID string
}

// NewClient builds a WhatsApp API client using the provided configuration values.
func NewClient(cfg config.WhatsAppConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(fmt.Sprintf("%s/%s", base, cfg.APIVersion)).
		SetAuthToken(cfg.AccessToken).
		SetTimeout(15 * time.Second)

	return &APIClient{
		httpClient:    restyClient,
		phoneNumberID: cfg.PhoneNumberID,
	}
}

// SendTextMessageRequest is a plain text message. Bodies over the API limit are cut.
type SendTextMessageRequest struct {
	To         string
	Body       string
	PreviewURL bool
}

// SendDocumentRequest uploads a file and sends it as a document message.
type SendDocumentRequest struct {
	To       string
	Filename string
	MimeType string
	Caption  string
	Content  []byte
}

// SendMessageResponse mirrors the successful response from Meta.
type SendMessageResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type mediaResponse struct {
	ID string `json:"id"`
}

// apiError represents a WhatsApp Cloud API error payload.
type apiError struct {
	Error struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		FBTraceID string `json:"fbtrace_id"`
	} `json:"error"`
}

func (c *APIClient) SendTextMessage(ctx context.Context, req SendTextMessageRequest) (*SendMessageResponse, error) {
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                req.To,
		"type":              "text",
		"text": map[string]any{
			"body":        truncate(req.Body, maxTextLength),
			"preview_url": req.PreviewURL,
		},
	}
	return c.postMessage(ctx, payload)
}

// SendDocument uploads the file to the media endpoint, then sends it by id.
func (c *APIClient) SendDocument(ctx context.Context, req SendDocumentRequest) (*SendMessageResponse, error) {
	if len(req.Content) == 0 {
		return nil, fmt.Errorf("send whatsapp document %s: empty content", req.Filename)
	}

	media := new(mediaResponse)
	apiErr := new(apiError)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"messaging_product": "whatsapp",
			"type":              req.MimeType,
		}).
		SetMultipartField("file", req.Filename, req.MimeType, bytes.NewReader(req.Content)).
		SetResult(media).
		SetError(apiErr).
		Post(fmt.Sprintf("%s/media", c.phoneNumberID))
	if err != nil {
		return nil, fmt.Errorf("upload whatsapp media: %w", err)
	}
	if err := statusError(resp, apiErr); err != nil {
		return nil, fmt.Errorf("upload whatsapp media: %w", err)
	}

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                req.To,
		"type":              "document",
		"document": map[string]any{
			"id":       media.ID,
			"filename": req.Filename,
			"caption":  truncate(req.Caption, 1024),
		},
	}
	return c.postMessage(ctx, payload)
}

func (c *APIClient) postMessage(ctx context.Context, payload map[string]any) (*SendMessageResponse, error) {
	result := new(SendMessageResponse)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(result).
		SetError(apiErr).
		Post(fmt.Sprintf("%s/messages", c.phoneNumberID))
	if err != nil {
		return nil, fmt.Errorf("send whatsapp message: %w", err)
	}
	if err := statusError(resp, apiErr); err != nil {
		return nil, err
	}
	return result, nil
}

func statusError(resp *resty.Response, apiErr *apiError) error {
	if resp.StatusCode() < http.StatusBadRequest {
		return nil
	}
	code := resp.StatusCode()
	if apiErr.Error.Code != 0 {
		code = apiErr.Error.Code
	}
	return fmt.Errorf("whatsapp api error: code=%d, message=%s", code, apiErr.Error.Message)
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}
