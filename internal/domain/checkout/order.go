// Package checkout implements the checkout orchestrator: it turns a cart and
// an optional discount code into a stored order, drives discount application
// and nth-order code generation, and clears the cart.
package checkout

import (
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/shoply/internal/domain/cart"
)

var (
	// ErrCartIDRequired is returned when checkout is invoked without a cart id.
	ErrCartIDRequired = errors.New("cart id is required")
	// ErrEmptyCart is returned when the cart exists but holds no items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrOrderNotFound is returned when the referenced order does not exist.
	ErrOrderNotFound = errors.New("order not found")
)

// InvalidCouponError carries the ledger's validation message for a manually
// supplied code that was rejected. Checkout never silently drops a bad manual
// code; the whole operation fails with this error instead.
type InvalidCouponError struct {
	Code    string
	Message string
}

func (e *InvalidCouponError) Error() string {
	return fmt.Sprintf("invalid coupon %q: %s", e.Code, e.Message)
}

// Order is an immutable snapshot of a completed checkout. Items are copied
// from the cart at checkout time so later cart mutations cannot rewrite
// order history.
type Order struct {
	ID             string
	CartID         string
	Items          []cart.Item
	Subtotal       decimal.Decimal
	DiscountCode   string // empty when no discount applied
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
	OrderNumber    int64
	CreatedAt      time.Time
}

func (o *Order) clone() *Order {
	out := *o
	out.Items = make([]cart.Item, len(o.Items))
	copy(out.Items, o.Items)
	return &out
}
