// Package discount implements the discount code ledger: the authoritative
// in-memory store of issued codes, their usage state, and the generation rule
// that mints a new code for every nth order.
package discount

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

const (
	// DefaultInterval mints a code on every 5th order.
	DefaultInterval = 5
	// DefaultPercent is the discount applied when a code carries no explicit percent.
	DefaultPercent = 10

	codePrefix      = "DISCOUNT-"
	maxMintAttempts = 100
)

var (
	// ErrInvalidOrderNumber is returned when Generate is called with a
	// non-positive order number.
	ErrInvalidOrderNumber = errors.New("order number must be positive")
	// ErrCodeNotFound is returned by MarkUsed for an unknown code.
	ErrCodeNotFound = errors.New("discount code not found")
	// ErrCodeUsed is returned by MarkUsed when the code was already consumed.
	ErrCodeUsed = errors.New("discount code has already been used")
	// ErrCodeSpaceExhausted indicates the mint loop ran out of attempts.
	// With 9000 possible suffixes this only happens when the code space is
	// nearly full, so callers should treat it as fatal.
	ErrCodeSpaceExhausted = errors.New("exhausted attempts to mint a unique discount code")
)

var hundred = decimal.NewFromInt(100)

// Code is a single-use discount code minted for a qualifying order.
type Code struct {
	Code        string
	Percent     int
	Used        bool
	OrderNumber int64
	CreatedAt   time.Time
	UsedAt      *time.Time
}

// Validation is the soft-fail result of checking a code. Invalid, unknown,
// and already-used codes produce Valid=false with a client-facing message
// rather than an error.
type Validation struct {
	Valid   bool
	Percent int
	Message string
}

// Config controls code generation.
type Config struct {
	// Interval is the order interval N: every order whose number is a
	// multiple of N mints a code. Zero means DefaultInterval.
	Interval int
	// Percent is the discount percent carried by minted codes.
	// Zero means DefaultPercent.
	Percent int
}

// Ledger stores discount codes keyed by their uppercase form and preserves
// insertion order for reporting. All methods are safe for concurrent use.
type Ledger struct {
	interval int
	percent  int

	mu       sync.Mutex
	codes    map[string]*Code
	sequence []string        // insertion order of code keys
	byOrder  map[int64]string // triggering order number -> code key
	now      func() time.Time
	randInt  func(n int) int
}

// NewLedger creates an empty ledger with the given generation config.
func NewLedger(cfg Config) *Ledger {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Percent <= 0 {
		cfg.Percent = DefaultPercent
	}
	return &Ledger{
		interval: cfg.Interval,
		percent:  cfg.Percent,
		codes:    make(map[string]*Code),
		byOrder:  make(map[int64]string),
		now:      time.Now,
		randInt:  rand.IntN,
	}
}

// Interval returns the configured order interval N.
func (l *Ledger) Interval() int {
	return l.interval
}

// Validate checks whether a code can be applied. It never returns an error:
// missing, unknown, and consumed codes are expected outcomes and are reported
// through the Validation result. Lookup is case-insensitive.
func (l *Ledger) Validate(code string) Validation {
	code = strings.TrimSpace(code)
	if code == "" {
		return Validation{Message: "discount code is required"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.codes[strings.ToUpper(code)]
	if !ok {
		return Validation{Message: "invalid discount code"}
	}
	if c.Used {
		return Validation{Message: "discount code has already been used"}
	}
	return Validation{
		Valid:   true,
		Percent: c.Percent,
		Message: "discount code is valid",
	}
}

// Generate mints a code when orderNumber is a multiple of the configured
// interval. Non-qualifying order numbers return (nil, nil). Generation is
// idempotent per order number: a second call for the same qualifying order
// returns the previously minted code instead of creating another.
func (l *Ledger) Generate(orderNumber int64) (*Code, error) {
	if orderNumber <= 0 {
		return nil, ErrInvalidOrderNumber
	}
	if orderNumber%int64(l.interval) != 0 {
		return nil, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if key, ok := l.byOrder[orderNumber]; ok {
		c := *l.codes[key]
		return &c, nil
	}

	key, err := l.mintLocked()
	if err != nil {
		return nil, err
	}

	c := &Code{
		Code:        key,
		Percent:     l.percent,
		OrderNumber: orderNumber,
		CreatedAt:   l.now(),
	}
	l.codes[key] = c
	l.sequence = append(l.sequence, key)
	l.byOrder[orderNumber] = key

	out := *c
	return &out, nil
}

// mintLocked produces a candidate code not present in the ledger, retrying
// up to maxMintAttempts times. Caller must hold l.mu.
func (l *Ledger) mintLocked() (string, error) {
	for range maxMintAttempts {
		suffix := 1000 + l.randInt(9000)
		candidate := fmt.Sprintf("%s%d", codePrefix, suffix)
		if _, exists := l.codes[candidate]; !exists {
			return candidate, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}

// MarkUsed consumes a code. It is deliberately not idempotent: marking an
// already-used code returns ErrCodeUsed so double-application bugs surface
// instead of passing silently.
func (l *Ledger) MarkUsed(code string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.codes[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return errors.Wrapf(ErrCodeNotFound, "code %q", code)
	}
	if c.Used {
		return errors.Wrapf(ErrCodeUsed, "code %q", code)
	}

	usedAt := l.now()
	c.Used = true
	c.UsedAt = &usedAt
	return nil
}

// MostRecentUnused returns the unused code with the highest triggering order
// number, or nil when every code is consumed or none exist. Checkout uses it
// to auto-apply a freshly minted code to the next order.
func (l *Ledger) MostRecentUnused() *Code {
	l.mu.Lock()
	defer l.mu.Unlock()

	var best *Code
	for _, key := range l.sequence {
		c := l.codes[key]
		if c.Used {
			continue
		}
		if best == nil || c.OrderNumber > best.OrderNumber {
			best = c
		}
	}
	if best == nil {
		return nil
	}
	out := *best
	return &out
}

// All returns every code, used and unused, in insertion order.
func (l *Ledger) All() []Code {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Code, 0, len(l.sequence))
	for _, key := range l.sequence {
		out = append(out, *l.codes[key])
	}
	return out
}

// DiscountAmount computes percent of subtotal rounded to 2 decimal places.
// Rounding is half away from zero, so DiscountAmount(99.99, 10) is 10.00.
func DiscountAmount(subtotal decimal.Decimal, percent int) decimal.Decimal {
	return subtotal.Mul(decimal.NewFromInt(int64(percent))).Div(hundred).Round(2)
}
