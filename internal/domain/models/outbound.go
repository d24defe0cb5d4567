package models

// OutboundMessageRequest is a plain-text notice pushed to a WhatsApp recipient.
type OutboundMessageRequest struct {
	To         string `json:"to"`
	Message    string `json:"message"`
	PreviewURL bool   `json:"preview_url"`
}
