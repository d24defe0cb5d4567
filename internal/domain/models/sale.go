package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// SaleItem is one product/quantity pair of a sale submission.
type SaleItem struct {
	ProductID int `json:"producto_id"`
	Quantity  int `json:"cantidad"`
}

// SaleRequest is the body shared by /ventas/checkout and /ventas/ticket_pdf.
type SaleRequest struct {
	Items           []SaleItem `json:"items"`
	ResponsibleUser string     `json:"usuario_responsable"`
}

// NewSaleRequest builds a sale submission from cart lines.
func NewSaleRequest(lines []CartLine, responsibleUser string) SaleRequest {
	items := make([]SaleItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, SaleItem{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return SaleRequest{Items: items, ResponsibleUser: responsibleUser}
}

// SaleResult is the acknowledgement returned by /ventas/checkout. The backend
// does not pin a schema beyond the message, so the raw body is kept too.
type SaleResult struct {
	Message string          `json:"mensaje,omitempty"`
	Raw     json.RawMessage `json:"-"`
}

// UnmarshalJSON keeps the raw payload next to the decoded message.
func (r *SaleResult) UnmarshalJSON(data []byte) error {
	var body struct {
		Message string `json:"mensaje"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}
	r.Message = body.Message
	r.Raw = append(r.Raw[:0], data...)
	return nil
}

// Receipt describes a completed checkout.
type Receipt struct {
	Sale       SaleResult      `json:"sale"`
	Lines      []CartLine      `json:"lines"`
	Total      decimal.Decimal `json:"total"`
	TicketPath string          `json:"ticket_path,omitempty"`
	TicketErr  string          `json:"ticket_error,omitempty"`
}

// HasTicket reports whether the PDF ticket was obtained and saved.
func (r Receipt) HasTicket() bool {
	return r.TicketPath != ""
}
