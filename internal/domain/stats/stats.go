// Package stats derives read-only store aggregates by scanning stored orders
// and the discount ledger. It holds no state of its own.
package stats

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/shoply/internal/domain/checkout"
	"github.com/xenking/shoply/internal/domain/discount"
)

// OrderSource exposes stored orders for aggregation.
// Satisfied by *checkout.Service.
type OrderSource interface {
	Orders() []checkout.Order
}

// CodeSource exposes the full discount code list in insertion order.
// Satisfied by *discount.Ledger.
type CodeSource interface {
	All() []discount.Code
}

// Stats is the aggregate snapshot served to admins.
type Stats struct {
	ItemsPurchasedCount int
	TotalPurchaseAmount decimal.Decimal
	DiscountCodes       []discount.Code
	TotalDiscountAmount decimal.Decimal
	TotalOrders         int
}

// Aggregator computes store statistics on demand.
type Aggregator struct {
	orders OrderSource
	codes  CodeSource
}

// NewAggregator creates an aggregator over the given sources.
func NewAggregator(orders OrderSource, codes CodeSource) *Aggregator {
	return &Aggregator{orders: orders, codes: codes}
}

// OrderCount returns the number of stored orders.
func (a *Aggregator) OrderCount() int {
	return len(a.orders.Orders())
}

// TotalItemsPurchased sums item quantities across all orders.
func (a *Aggregator) TotalItemsPurchased() int {
	total := 0
	for _, o := range a.orders.Orders() {
		for _, it := range o.Items {
			total += it.Quantity
		}
	}
	return total
}

// TotalPurchaseAmount sums order subtotals (revenue before discounts),
// rounded to 2 decimal places.
func (a *Aggregator) TotalPurchaseAmount() decimal.Decimal {
	total := decimal.Zero
	for _, o := range a.orders.Orders() {
		total = total.Add(o.Subtotal)
	}
	return total.Round(2)
}

// TotalDiscountAmount sums applied discounts across all orders, rounded to
// 2 decimal places.
func (a *Aggregator) TotalDiscountAmount() decimal.Decimal {
	total := decimal.Zero
	for _, o := range a.orders.Orders() {
		total = total.Add(o.DiscountAmount)
	}
	return total.Round(2)
}

// AllDiscountCodes returns every code, used and unused, in ledger insertion
// order.
func (a *Aggregator) AllDiscountCodes() []discount.Code {
	return a.codes.All()
}

// Snapshot computes the full statistics set in one pass over the sources.
func (a *Aggregator) Snapshot() Stats {
	orders := a.orders.Orders()

	items := 0
	purchase := decimal.Zero
	discounts := decimal.Zero
	for _, o := range orders {
		for _, it := range o.Items {
			items += it.Quantity
		}
		purchase = purchase.Add(o.Subtotal)
		discounts = discounts.Add(o.DiscountAmount)
	}

	return Stats{
		ItemsPurchasedCount: items,
		TotalPurchaseAmount: purchase.Round(2),
		DiscountCodes:       a.codes.All(),
		TotalDiscountAmount: discounts.Round(2),
		TotalOrders:         len(orders),
	}
}
