// Package leads fetches, normalizes, paginates, and deletes the captured
// lead records shown in the dashboard. Records are created by the chat agent
// server-side; this package only reads and removes them.
package leads

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Operation values captured by the chat agent.
const (
	OperationSale   = "venta"
	OperationRental = "alquiler"
)

// Lead is a captured prospective-client record. Every descriptive field is
// optional; display helpers supply the fallbacks.
type Lead struct {
	ID        string     `json:"id"`
	Operation string     `json:"operacion"`
	Zone      string     `json:"zona,omitempty"`
	MaxBudget *float64   `json:"presupuestoMax,omitempty"`
	Name      string     `json:"nombre,omitempty"`
	Contact   string     `json:"contacto,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// OperationLabel renders the operation for display. Anything outside the
// known set falls through to "Alquiler" rather than erroring.
func (l Lead) OperationLabel() string {
	if strings.EqualFold(strings.TrimSpace(l.Operation), OperationSale) {
		return "Venta"
	}
	return "Alquiler"
}

// CreatedAtLabel renders the capture timestamp, "N/A" when absent.
func (l Lead) CreatedAtLabel() string {
	if l.CreatedAt == nil {
		return "N/A"
	}
	return l.CreatedAt.Format("02/01/2006 15:04")
}

// leadPayload is the backend wire shape. The persistence layer uses
// snake_case while newer endpoints use camelCase; both are accepted.
type leadPayload struct {
	ID             flexibleID `json:"id"`
	Operation      string     `json:"operacion"`
	Zone           string     `json:"zona"`
	MaxBudget      *float64   `json:"presupuestoMax"`
	MaxBudgetSnake *float64   `json:"presupuesto_max"`
	Name           string     `json:"nombre"`
	Contact        string     `json:"contacto"`
	CreatedAt      string     `json:"createdAt"`
	CreatedAtSnake string     `json:"created_at"`
}

func (p leadPayload) toLead() Lead {
	lead := Lead{
		ID:        string(p.ID),
		Operation: p.Operation,
		Zone:      p.Zone,
		MaxBudget: p.MaxBudget,
		Name:      p.Name,
		Contact:   p.Contact,
	}
	if lead.MaxBudget == nil {
		lead.MaxBudget = p.MaxBudgetSnake
	}

	raw := p.CreatedAt
	if raw == "" {
		raw = p.CreatedAtSnake
	}
	lead.CreatedAt = parseTimestamp(raw)

	return lead
}

// flexibleID accepts string or numeric identifiers.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	if n, err := strconv.ParseFloat(string(data), 64); err == nil {
		*f = flexibleID(strconv.FormatFloat(n, 'f', -1, 64))
		return nil
	}
	*f = flexibleID(string(data))
	return nil
}

func parseTimestamp(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	// Unparseable timestamps display as absent.
	return nil
}
