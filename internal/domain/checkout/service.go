package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/shoply/internal/domain/cart"
	"github.com/xenking/shoply/internal/domain/discount"
)

// Service orchestrates checkout. It owns the order store and the sequential
// order counter; carts and discount codes live in their own components and
// are reached through them.
type Service struct {
	carts  *cart.Store
	ledger *discount.Ledger

	mu       sync.Mutex
	orders   map[string]*Order
	sequence []string // insertion order of order ids
	counter  int64
	now      func() time.Time
}

// NewService creates a checkout service backed by the given cart store and
// discount ledger.
func NewService(carts *cart.Store, ledger *discount.Ledger) *Service {
	return &Service{
		carts:  carts,
		ledger: ledger,
		orders: make(map[string]*Order),
		now:    time.Now,
	}
}

// ProcessCheckout converts the cart into an order.
//
// A manually supplied discount code must validate or the whole checkout
// fails; a blank or whitespace-only code is treated as absent, in which case
// the most recent unused code (if any) is auto-applied. Manual validation
// happens before the order counter is consumed, so a rejected code leaves no
// gap in the order number sequence. Applied codes are marked used within this
// call; there is no reservation step that could leak a code.
//
// After the order is stored, the ledger is asked to generate a code for this
// order number. A code minted here benefits a subsequent order, never the one
// that triggered it. Finally the originating cart is cleared.
func (s *Service) ProcessCheckout(ctx context.Context, cartID, discountCode string) (*Order, error) {
	cartID = strings.TrimSpace(cartID)
	if cartID == "" {
		return nil, ErrCartIDRequired
	}

	c, ok := s.carts.Lookup(cartID)
	if !ok {
		return nil, errors.Wrapf(cart.ErrNotFound, "cart %q", cartID)
	}
	if len(c.Items) == 0 {
		return nil, ErrEmptyCart
	}

	subtotal := c.Total

	// Validate a manual code before touching any state. Failing here must
	// not consume an order number or mutate the cart.
	manual := strings.TrimSpace(discountCode)
	var manualPercent int
	if manual != "" {
		v := s.ledger.Validate(manual)
		if !v.Valid {
			return nil, &InvalidCouponError{Code: manual, Message: v.Message}
		}
		manualPercent = v.Percent
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The order number is assigned before discount application: the nth-order
	// generation check below uses the number of the order being created, and
	// an auto-applied code must reflect ledger state as of this order.
	s.counter++
	orderNumber := s.counter

	appliedCode := ""
	percent := 0
	switch {
	case manual != "":
		appliedCode = strings.ToUpper(manual)
		percent = manualPercent
	default:
		if auto := s.ledger.MostRecentUnused(); auto != nil {
			appliedCode = auto.Code
			percent = auto.Percent
		}
	}

	discountAmount := decimal.Zero
	if appliedCode != "" {
		if percent <= 0 {
			percent = discount.DefaultPercent
		}
		discountAmount = discount.DiscountAmount(subtotal, percent)
		if err := s.ledger.MarkUsed(appliedCode); err != nil {
			return nil, errors.Wrap(err, "consume discount code")
		}
	}

	total := subtotal.Sub(discountAmount).Round(2)

	o := &Order{
		ID:             fmt.Sprintf("order-%d", orderNumber),
		CartID:         c.ID,
		Items:          c.Items, // Lookup already returned a deep copy
		Subtotal:       subtotal,
		DiscountCode:   appliedCode,
		DiscountAmount: discountAmount,
		Total:          total,
		OrderNumber:    orderNumber,
		CreatedAt:      s.now(),
	}
	s.orders[o.ID] = o
	s.sequence = append(s.sequence, o.ID)

	// Mint a code for future auto-application when this order qualifies.
	// The result is intentionally not attached to this order.
	if _, err := s.ledger.Generate(orderNumber); err != nil {
		return nil, errors.Wrap(err, "generate discount code")
	}

	if err := s.carts.Clear(cartID); err != nil {
		return nil, errors.Wrap(err, "clear cart")
	}

	return o.clone(), nil
}

// Order returns a stored order by id.
func (s *Service) Order(id string) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, errors.Wrapf(ErrOrderNotFound, "order %q", id)
	}
	return o.clone(), nil
}

// Orders returns all stored orders in creation order.
func (s *Service) Orders() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Order, 0, len(s.sequence))
	for _, id := range s.sequence {
		out = append(out, *s.orders[id].clone())
	}
	return out
}

// OrderCount returns the number of stored orders.
func (s *Service) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}
