package entity

import (
	"encoding/json"
	"fmt"
	"time"
)

// InvoiceLine is a snapshotted (name, unit price, quantity) triple. Lines
// copy the cart's values at checkout so later catalog edits never change a
// historical invoice.
type InvoiceLine struct {
	Name      string `json:"name"`
	UnitPrice int64  `json:"-"` // Stored in minor currency units
	Quantity  int    `json:"quantity"`
}

// Total returns the line amount in minor currency units.
func (l InvoiceLine) Total() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// MarshalJSON converts an invoice line to JSON with decimal amounts
func (l InvoiceLine) MarshalJSON() ([]byte, error) {
	type Alias InvoiceLine
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(l),
		UnitPrice: float64(l.UnitPrice) / 100,
		Total:     float64(l.Total()) / 100,
	})
}

// Invoice is the immutable record of a completed sale. It is a value object
// composed at checkout, not a database entity; the session history and the
// rendered text artifact are its only homes.
type Invoice struct {
	Number        string        `json:"number"`
	IssuedAt      time.Time     `json:"issued_at"`
	BusinessName  string        `json:"business_name"`
	TaxID         string        `json:"tax_id"`
	Table         string        `json:"table"`
	Server        string        `json:"server"`
	Lines         []InvoiceLine `json:"lines"`
	Subtotal      int64         `json:"-"`
	TaxRate       float64       `json:"tax_rate"`
	TaxAmount     int64         `json:"-"`
	Discount      int64         `json:"-"`
	Total         int64         `json:"-"`
	PaymentMethod string        `json:"payment_method"`
}

// MarshalJSON converts an invoice to JSON with decimal amounts
func (inv Invoice) MarshalJSON() ([]byte, error) {
	type Alias Invoice
	return json.Marshal(&struct {
		Alias
		Subtotal  float64 `json:"subtotal"`
		TaxAmount float64 `json:"tax_amount"`
		Discount  float64 `json:"discount"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(inv),
		Subtotal:  float64(inv.Subtotal) / 100,
		TaxAmount: float64(inv.TaxAmount) / 100,
		Discount:  float64(inv.Discount) / 100,
		Total:     float64(inv.Total) / 100,
	})
}

// NewInvoiceNumber builds the sale identifier from the issue timestamp,
// e.g. FACT-20250131143015.
func NewInvoiceNumber(issuedAt time.Time) string {
	return fmt.Sprintf("FACT-%s", issuedAt.Format("20060102150405"))
}

// NewInvoiceFromCart snapshots a cart plus its computed totals into an
// immutable invoice. The cart must already be priced; the caller closes it.
func NewInvoiceFromCart(cart *Cart, totals Totals, issuedAt time.Time) *Invoice {
	lines := make([]InvoiceLine, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		lines = append(lines, InvoiceLine{Name: l.Name, UnitPrice: l.UnitPrice, Quantity: l.Quantity})
	}
	return &Invoice{
		Number:    NewInvoiceNumber(issuedAt),
		IssuedAt:  issuedAt,
		Lines:     lines,
		Subtotal:  totals.Subtotal,
		TaxAmount: totals.Tax,
		Discount:  totals.Discount,
		Total:     totals.Total,
	}
}
