package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MovementType is the direction of a stock change.
type MovementType string

const (
	MovementIn  MovementType = "ENTRADA"
	MovementOut MovementType = "SALIDA"
)

// ParseMovementType accepts the backend values and the IN/OUT aliases, in
// any case. Unknown values come back uppercased for validation to reject.
func ParseMovementType(raw string) MovementType {
	switch value := strings.ToUpper(strings.TrimSpace(raw)); value {
	case "IN":
		return MovementIn
	case "OUT":
		return MovementOut
	default:
		return MovementType(value)
	}
}

// MovementProduct is the product summary embedded in movement history.
type MovementProduct struct {
	Name string `json:"nombre"`
	SKU  string `json:"sku"`
}

// Movement is a backend-owned stock change record.
type Movement struct {
	ID              int              `json:"id"`
	ProductID       int              `json:"producto_id"`
	Type            MovementType     `json:"tipo_movimiento"`
	Quantity        int              `json:"cantidad"`
	Timestamp       Timestamp        `json:"fecha_movimiento"`
	ResponsibleUser string           `json:"usuario_responsable"`
	Notes           string           `json:"notas,omitempty"`
	Product         *MovementProduct `json:"producto,omitempty"`
}

// MovementInput is the payload accepted by POST /movimientos/.
type MovementInput struct {
	ProductID       int          `json:"producto_id" validate:"required,gt=0"`
	Type            MovementType `json:"tipo_movimiento" validate:"required,oneof=ENTRADA SALIDA"`
	Quantity        int          `json:"cantidad" validate:"required,gt=0"`
	ResponsibleUser string       `json:"usuario_responsable" validate:"required"`
}

// MovementResult is the acknowledgement of a registered movement.
type MovementResult struct {
	Message  string `json:"mensaje"`
	NewStock int    `json:"nuevo_stock"`
}

// MovementFilter narrows the movement history to a date range (YYYY-MM-DD).
type MovementFilter struct {
	From string `form:"fecha_inicio" validate:"omitempty,datetime=2006-01-02"`
	To   string `form:"fecha_fin" validate:"omitempty,datetime=2006-01-02"`
}

// PurgeResult is the acknowledgement of DELETE /movimientos/limpiar.
type PurgeResult struct {
	Message string `json:"mensaje"`
}

// Timestamp accepts the backend's datetimes, which may come without a zone.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// UnmarshalJSON parses RFC 3339 or naive ISO datetimes; null leaves the zero value.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	raw, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if raw == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unsupported format %q", raw)
}

// MarshalJSON writes RFC 3339, or null for the zero value.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}
