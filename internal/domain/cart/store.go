package cart

import (
	"sync"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store is the in-memory cart repository. Carts are created on first access,
// mutated by add/remove, emptied after checkout, and never deleted.
// All methods are safe for concurrent use and return deep copies.
type Store struct {
	mu    sync.RWMutex
	carts map[string]*Cart
}

// NewStore creates an empty cart store.
func NewStore() *Store {
	return &Store{carts: make(map[string]*Cart)}
}

// Create mints a new empty cart with a fresh unique id.
func (s *Store) Create() *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := &Cart{
		ID:    uuid.New().String(),
		Items: []Item{},
		Total: decimal.Zero,
	}
	s.carts[c.ID] = c
	return c.clone()
}

// Get returns the cart with the given id or ErrNotFound.
func (s *Store) Get(id string) (*Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[id]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "cart %q", id)
	}
	return c.clone(), nil
}

// Lookup is the non-erroring variant of Get used internally by checkout.
func (s *Store) Lookup(id string) (*Cart, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[id]
	if !ok {
		return nil, false
	}
	return c.clone(), true
}

// AddItem appends an item to the cart, merging with an existing line when the
// product id matches (quantity is incremented rather than adding a second
// line). The cart total is recomputed. Returns the updated cart.
func (s *Store) AddItem(cartID string, item Item) (*Cart, error) {
	if err := validateItem(item); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[cartID]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "cart %q", cartID)
	}

	merged := false
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		c.Items = append(c.Items, item)
	}

	c.recomputeTotal()
	return c.clone(), nil
}

// RemoveItem deletes the line with the given item id. The cart is left
// unchanged when the id is unknown.
func (s *Store) RemoveItem(cartID, itemID string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[cartID]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "cart %q", cartID)
	}

	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.recomputeTotal()
			return c.clone(), nil
		}
	}
	return nil, errors.Wrapf(ErrItemNotFound, "item %q", itemID)
}

// Clear empties the cart and zeroes its total. Carts survive clearing so the
// same id can be reused for the next purchase.
func (s *Store) Clear(cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[cartID]
	if !ok {
		return errors.Wrapf(ErrNotFound, "cart %q", cartID)
	}
	c.Items = c.Items[:0]
	c.Total = decimal.Zero
	return nil
}
