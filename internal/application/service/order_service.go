package service

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"restopos/internal/config"
	"restopos/internal/domain/entity"
	"restopos/pkg/apperror"
)

// OrderService owns the in-progress carts and the session sales history.
// Carts live purely in memory: the terminal keeps one cart per table until
// checkout closes it. All access goes through the service mutex; the cart
// aggregate itself is not safe for concurrent use.
type OrderService struct {
	mu      sync.RWMutex
	carts   map[string]*entity.Cart
	history []*entity.Invoice

	pricing *PricingService
	printer *PrinterService
	cfg     *config.Config
	now     func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(pricing *PricingService, printer *PrinterService, cfg *config.Config) *OrderService {
	return &OrderService{
		carts:   make(map[string]*entity.Cart),
		pricing: pricing,
		printer: printer,
		cfg:     cfg,
		now:     time.Now,
	}
}

// OpenCart starts a fresh cart and registers it for the session.
func (s *OrderService) OpenCart() *entity.Cart {
	cart := entity.NewCart()

	s.mu.Lock()
	s.carts[cart.ID] = cart
	s.mu.Unlock()

	return cart
}

// GetCart retrieves a cart by its session identifier.
func (s *OrderService) GetCart(id string) (*entity.Cart, error) {
	s.mu.RLock()
	cart, ok := s.carts[id]
	s.mu.RUnlock()

	if !ok {
		return nil, apperror.NewNotFoundError("Cart")
	}
	return cart, nil
}

// AddItem resolves the product's effective price for today and adds it to
// the cart, merging with an existing line of the same product. The price is
// frozen at add time; later promotion or catalog changes do not reach the
// cart.
func (s *OrderService) AddItem(ctx context.Context, cartID string, productID uuid.UUID, quantity int) (*entity.Cart, error) {
	resolved, err := s.pricing.ResolvePrice(ctx, productID, s.now())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[cartID]
	if !ok {
		return nil, apperror.NewNotFoundError("Cart")
	}
	if err := cart.AddItem(resolved.ProductName, resolved.EffectivePrice, quantity); err != nil {
		return nil, err
	}
	return cart, nil
}

// SetQuantity replaces a cart line's quantity; zero removes the line.
func (s *OrderService) SetQuantity(cartID string, index, quantity int) (*entity.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[cartID]
	if !ok {
		return nil, apperror.NewNotFoundError("Cart")
	}
	if err := cart.SetQuantity(index, quantity); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem drops a line by product name. Removing an absent item is a
// no-op, not an error.
func (s *OrderService) RemoveItem(cartID, name string) (*entity.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[cartID]
	if !ok {
		return nil, apperror.NewNotFoundError("Cart")
	}
	if err := cart.RemoveItem(name); err != nil {
		return nil, err
	}
	return cart, nil
}

// ClearCart empties the cart when the sale is cancelled. The cart gets a
// fresh identifier, so the old one stops resolving.
func (s *OrderService) ClearCart(cartID string) (*entity.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[cartID]
	if !ok {
		return nil, apperror.NewNotFoundError("Cart")
	}
	if err := cart.Clear(); err != nil {
		return nil, err
	}
	delete(s.carts, cartID)
	s.carts[cart.ID] = cart
	return cart, nil
}

// GetTotals computes the cart's money breakdown at the configured tax rate
// without closing it.
func (s *OrderService) GetTotals(cartID string) (*entity.Totals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[cartID]
	if !ok {
		return nil, apperror.NewNotFoundError("Cart")
	}
	totals := cart.ComputeTotals(s.cfg.Business.TaxRate, 0)
	return &totals, nil
}

// CheckoutInput represents the checkout input
type CheckoutInput struct {
	Table         string
	Server        string
	PaymentMethod string
	Discount      float64
	Copies        int
	Print         bool
}

// Checkout closes the cart exactly once, snapshots it into an invoice,
// records the sale in the session history and optionally dispatches the
// invoice to the printer. An empty cart cannot be checked out.
func (s *OrderService) Checkout(ctx context.Context, cartID string, input *CheckoutInput) (*entity.Invoice, *PrintOutcome, error) {
	if input.Discount < 0 {
		return nil, nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "discount", Message: "Discount must not be negative"},
		})
	}

	s.mu.Lock()
	cart, ok := s.carts[cartID]
	if !ok {
		s.mu.Unlock()
		return nil, nil, apperror.NewNotFoundError("Cart")
	}
	if len(cart.Lines) == 0 {
		s.mu.Unlock()
		return nil, nil, apperror.NewBadRequestError("Cart is empty")
	}
	if err := cart.Close(); err != nil {
		s.mu.Unlock()
		return nil, nil, err
	}

	discount := int64(math.Round(input.Discount * 100))
	totals := cart.ComputeTotals(s.cfg.Business.TaxRate, discount)

	inv := entity.NewInvoiceFromCart(cart, totals, s.now())
	inv.BusinessName = s.cfg.Business.Name
	inv.TaxID = s.cfg.Business.TaxID
	inv.TaxRate = s.cfg.Business.TaxRate
	inv.Table = input.Table
	inv.Server = input.Server
	inv.PaymentMethod = input.PaymentMethod

	delete(s.carts, cartID)
	s.history = append(s.history, inv)
	s.mu.Unlock()

	if _, err := s.printer.SaveText(inv); err != nil {
		logrus.WithError(err).WithField("invoice", inv.Number).
			Warn("failed to save invoice text artifact")
	}

	var outcome *PrintOutcome
	if input.Print {
		var err error
		outcome, err = s.printer.Dispatch(ctx, inv, input.Copies)
		if err != nil {
			// the sale is already recorded; report the delivery failure
			return inv, nil, err
		}
	}
	return inv, outcome, nil
}

// History returns the invoices issued during this session, oldest first.
func (s *OrderService) History() []*entity.Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entity.Invoice, len(s.history))
	copy(out, s.history)
	return out
}

// SessionTotal returns the grand total of all sales in the session, in
// minor currency units.
func (s *OrderService) SessionTotal() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum int64
	for _, inv := range s.history {
		sum += inv.Total
	}
	return sum
}
