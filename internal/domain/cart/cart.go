// Package cart implements the in-memory shopping cart store. A cart's total
// is a derived value: it is recomputed from its items on every mutation and
// never stored independently of that invariant.
package cart

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when the referenced cart does not exist.
	ErrNotFound = errors.New("cart not found")
	// ErrItemNotFound is returned when removing an item id absent from the cart.
	ErrItemNotFound = errors.New("cart item not found")
	// ErrInvalidItem is returned for items with a missing product id,
	// negative price, or non-positive quantity.
	ErrInvalidItem = errors.New("invalid cart item")
)

// Item is a single line in a cart. Price is the unit price.
type Item struct {
	ID        string
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int
}

// Cart holds an ordered list of line items and their derived total.
type Cart struct {
	ID    string
	Items []Item
	Total decimal.Decimal
}

// clone returns a deep copy so callers never alias store-owned state.
func (c *Cart) clone() *Cart {
	out := &Cart{
		ID:    c.ID,
		Items: make([]Item, len(c.Items)),
		Total: c.Total,
	}
	copy(out.Items, c.Items)
	return out
}

// recomputeTotal re-derives the cart total as sum(price * quantity).
func (c *Cart) recomputeTotal() {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	c.Total = total
}

// validateItem checks the add-item input constraints.
func validateItem(it Item) error {
	switch {
	case it.ProductID == "":
		return errors.Wrap(ErrInvalidItem, "product id is required")
	case it.Price.IsNegative():
		return errors.Wrap(ErrInvalidItem, "price must not be negative")
	case it.Quantity <= 0:
		return errors.Wrap(ErrInvalidItem, "quantity must be greater than 0")
	}
	return nil
}
