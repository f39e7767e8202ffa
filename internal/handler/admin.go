package handler

import (
	"fmt"
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/shoply/internal/domain/discount"
)

func (h *Handler) getStats(w http.ResponseWriter, _ *http.Request) {
	s := h.stats.Snapshot()

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("itemsPurchasedCount", func(e *jx.Encoder) { e.Int(s.ItemsPurchasedCount) })
			e.Field("totalPurchaseAmount", func(e *jx.Encoder) { e.Float64(s.TotalPurchaseAmount.InexactFloat64()) })
			e.Field("discountCodes", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for _, c := range s.DiscountCodes {
						encodeDiscountCode(e, c)
					}
				})
			})
			e.Field("totalDiscountAmount", func(e *jx.Encoder) { e.Float64(s.TotalDiscountAmount.InexactFloat64()) })
			e.Field("totalOrders", func(e *jx.Encoder) { e.Int(s.TotalOrders) })
		})
	})
}

// generateDiscount is the manual trigger for nth-order code generation. It
// reports whether a code was minted, an existing one returned, or generation
// skipped because the order number does not qualify.
func (h *Handler) generateDiscount(w http.ResponseWriter, r *http.Request) {
	var orderNumber int64
	err := decodeObject(r, func(d *jx.Decoder, key string) error {
		switch key {
		case "orderNumber":
			v, err := d.Int64()
			orderNumber = v
			return err
		default:
			return d.Skip()
		}
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if orderNumber <= 0 {
		writeDomainError(w, discount.ErrInvalidOrderNumber)
		return
	}

	// Distinguish "already minted" from "freshly minted": Generate is
	// idempotent, so check for a pre-existing code first.
	existed := false
	for _, c := range h.ledger.All() {
		if c.OrderNumber == orderNumber {
			existed = true
			break
		}
	}

	code, err := h.ledger.Generate(orderNumber)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var (
		success bool
		message string
	)
	switch {
	case code == nil:
		n := h.ledger.Interval()
		message = fmt.Sprintf(
			"order number %d is not a multiple of %d; discount codes are only minted for every %dth order",
			orderNumber, n, n,
		)
	case existed:
		success = true
		message = fmt.Sprintf("discount code already exists for order %d", orderNumber)
	default:
		success = true
		message = fmt.Sprintf("discount code generated for order %d", orderNumber)
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("success", func(e *jx.Encoder) { e.Bool(success) })
			e.Field("message", func(e *jx.Encoder) { e.Str(message) })
			if code != nil {
				e.Field("discountCode", func(e *jx.Encoder) { encodeDiscountCode(e, *code) })
			}
		})
	})
}
