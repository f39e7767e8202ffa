package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/jx"
)

// processCheckout converts a cart into an order, applying a manual or
// auto-selected discount code. See checkout.Service.ProcessCheckout for the
// full contract.
func (h *Handler) processCheckout(w http.ResponseWriter, r *http.Request) {
	var (
		cartID       string
		discountCode string
	)
	err := decodeObject(r, func(d *jx.Decoder, key string) error {
		switch key {
		case "cartId":
			v, err := d.Str()
			cartID = v
			return err
		case "discountCode":
			v, err := d.Str()
			discountCode = v
			return err
		default:
			return d.Skip()
		}
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	o, err := h.checkout.ProcessCheckout(r.Context(), cartID, discountCode)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeOrder(e, o) })
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.checkout.Order(chi.URLParam(r, "orderID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeOrder(e, o) })
}
