package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/shoply/internal/domain/cart"
)

// getOrCreateCart returns the cart for the given id, or mints a fresh cart
// when the request carries no id. An id that references a missing cart is an
// error rather than an implicit create.
func (h *Handler) getOrCreateCart(w http.ResponseWriter, r *http.Request) {
	var id string
	err := decodeObject(r, func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			v, err := d.Str()
			id = v
			return err
		default:
			return d.Skip()
		}
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	var c *cart.Cart
	if id == "" {
		c = h.carts.Create()
	} else {
		c, err = h.carts.Get(id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeCart(e, c) })
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Get(chi.URLParam(r, "cartID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeCart(e, c) })
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var item cart.Item
	err := decodeObject(r, func(d *jx.Decoder, key string) error {
		switch key {
		case "productId":
			v, err := d.Str()
			item.ProductID = v
			return err
		case "name":
			v, err := d.Str()
			item.Name = v
			return err
		case "price":
			v, err := d.Float64()
			item.Price = decimal.NewFromFloat(v)
			return err
		case "quantity":
			v, err := d.Int()
			item.Quantity = v
			return err
		default:
			return d.Skip()
		}
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	c, err := h.carts.AddItem(chi.URLParam(r, "cartID"), item)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeCart(e, c) })
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.RemoveItem(chi.URLParam(r, "cartID"), chi.URLParam(r, "itemID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeCart(e, c) })
}
