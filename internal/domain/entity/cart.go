package entity

import (
	"encoding/json"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"restopos/internal/domain/enum"
	"restopos/pkg/apperror"
)

// Cart mutation errors
var (
	ErrInvalidQuantity = apperror.NewAppError(http.StatusUnprocessableEntity, "Quantity must be at least 1")
	ErrIndexOutOfRange = apperror.NewAppError(http.StatusUnprocessableEntity, "Cart line index out of range")
)

// CartLine is one (item, quantity) pair in a cart. Unit prices are fixed at
// the moment the item is added; later catalog edits do not reach the cart.
type CartLine struct {
	Name      string `json:"name"`
	UnitPrice int64  `json:"-"` // Stored in minor currency units
	Quantity  int    `json:"quantity"`
}

// Total returns the line amount in minor currency units.
func (l CartLine) Total() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// MarshalJSON converts a cart line to JSON with decimal amounts
func (l CartLine) MarshalJSON() ([]byte, error) {
	type Alias CartLine
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

// Totals is the computed money breakdown of a cart at checkout time.
type Totals struct {
	Subtotal        int64 `json:"-"`
	Tax             int64 `json:"-"`
	Discount        int64 `json:"-"`
	Total           int64 `json:"-"`
	DiscountClamped bool  `json:"discount_clamped"`
}

// MarshalJSON converts totals to JSON with decimal amounts
func (t Totals) MarshalJSON() ([]byte, error) {
	type Alias Totals
	return json.Marshal(&struct {
		Alias
		Subtotal float64 `json:"subtotal"`
		Tax      float64 `json:"tax"`
		Discount float64 `json:"discount"`
		Total    float64 `json:"total"`
	}{
		Alias:    Alias(t),
		Subtotal: float64(t.Subtotal) / 100,
		Tax:      float64(t.Tax) / 100,
		Discount: float64(t.Discount) / 100,
		Total:    float64(t.Total) / 100,
	})
}

// Cart accumulates line items for one in-progress sale. It lives purely in
// memory for the duration of a checkout session; a closed cart accepts no
// further mutation and a new cart must be created for the next sale.
type Cart struct {
	ID        string          `json:"id"`
	Status    enum.CartStatus `json:"status"`
	Lines     []CartLine      `json:"lines"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewCart creates an empty open cart with a short random identifier.
func NewCart() *Cart {
	return &Cart{
		ID:        uuid.New().String()[:8],
		Status:    enum.CartStatusOpen,
		Lines:     []CartLine{},
		CreatedAt: time.Now(),
	}
}

// AddItem appends a line, or merges into the existing line with the same
// item name by incrementing its quantity. Names match case-insensitively,
// the same rule FindLine and RemoveItem use.
func (c *Cart) AddItem(name string, unitPrice int64, quantity int) error {
	if c.Status == enum.CartStatusClosed {
		return apperror.ErrCartClosed
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	for i := range c.Lines {
		if strings.EqualFold(c.Lines[i].Name, name) {
			c.Lines[i].Quantity += quantity
			return nil
		}
	}
	c.Lines = append(c.Lines, CartLine{Name: name, UnitPrice: unitPrice, Quantity: quantity})
	return nil
}

// SetQuantity replaces a line's quantity; zero or negative removes the line.
func (c *Cart) SetQuantity(index, quantity int) error {
	if c.Status == enum.CartStatusClosed {
		return apperror.ErrCartClosed
	}
	if index < 0 || index >= len(c.Lines) {
		return ErrIndexOutOfRange
	}
	if quantity <= 0 {
		c.Lines = append(c.Lines[:index], c.Lines[index+1:]...)
		return nil
	}
	c.Lines[index].Quantity = quantity
	return nil
}

// RemoveItem drops the matching line. Removing an absent item is not an
// error.
func (c *Cart) RemoveItem(name string) error {
	if c.Status == enum.CartStatusClosed {
		return apperror.ErrCartClosed
	}
	for i := range c.Lines {
		if strings.EqualFold(c.Lines[i].Name, name) {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return nil
		}
	}
	return nil
}

// FindLine returns the index of the line with the given name, or -1.
func (c *Cart) FindLine(name string) int {
	for i := range c.Lines {
		if strings.EqualFold(c.Lines[i].Name, name) {
			return i
		}
	}
	return -1
}

// Subtotal returns the sum of line amounts in minor currency units.
func (c *Cart) Subtotal() int64 {
	var sum int64
	for _, l := range c.Lines {
		sum += l.Total()
	}
	return sum
}

// Tax returns the tax amount for the given rate, rounded to the nearest
// minor unit.
func (c *Cart) Tax(rate float64) int64 {
	return int64(math.Round(float64(c.Subtotal()) * rate))
}

// ComputeTotals applies the tax rate and a flat discount. The grand total
// never goes negative: an oversized discount is clamped to the
// subtotal + tax and the clamp is flagged for the caller to surface.
func (c *Cart) ComputeTotals(rate float64, discount int64) Totals {
	sub := c.Subtotal()
	tax := c.Tax(rate)
	t := Totals{Subtotal: sub, Tax: tax, Discount: discount}
	t.Total = sub + tax - discount
	if t.Total < 0 {
		t.Total = 0
		t.Discount = sub + tax
		t.DiscountClamped = true
	}
	return t
}

// Close transitions the cart to its terminal state. Closing twice is an
// error; checkout performs this exactly once.
func (c *Cart) Close() error {
	if c.Status == enum.CartStatusClosed {
		return apperror.ErrCartClosed
	}
	c.Status = enum.CartStatusClosed
	return nil
}

// Clear empties all lines and assigns a fresh identifier, used when the
// user cancels an in-progress sale.
func (c *Cart) Clear() error {
	if c.Status == enum.CartStatusClosed {
		return apperror.ErrCartClosed
	}
	c.Lines = []CartLine{}
	c.ID = uuid.New().String()[:8]
	return nil
}
