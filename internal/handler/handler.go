// Package handler exposes the cart, checkout, discount, and admin operations
// over HTTP. Handlers delegate to the domain packages and only translate
// between JSON and domain types.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"

	"github.com/xenking/shoply/internal/domain/cart"
	"github.com/xenking/shoply/internal/domain/checkout"
	"github.com/xenking/shoply/internal/domain/discount"
	"github.com/xenking/shoply/internal/domain/stats"
)

// Handler wires the domain components to HTTP routes.
type Handler struct {
	carts    *cart.Store
	checkout *checkout.Service
	ledger   *discount.Ledger
	stats    *stats.Aggregator
}

// New constructs a Handler with the required domain dependencies.
func New(
	carts *cart.Store,
	checkoutSvc *checkout.Service,
	ledger *discount.Ledger,
	aggregator *stats.Aggregator,
) *Handler {
	return &Handler{
		carts:    carts,
		checkout: checkoutSvc,
		ledger:   ledger,
		stats:    aggregator,
	}
}

// Routes builds the API router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/cart", h.getOrCreateCart)
		r.Get("/cart/{cartID}", h.getCart)
		r.Post("/cart/{cartID}/items", h.addItem)
		r.Delete("/cart/{cartID}/items/{itemID}", h.removeItem)

		r.Post("/checkout", h.processCheckout)
		r.Get("/order/{orderID}", h.getOrder)

		r.Get("/discount/{code}", h.validateCode)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/stats", h.getStats)
			r.Post("/discount", h.generateDiscount)
		})
	})
	return r
}

// writeDomainError maps domain errors onto the API error taxonomy:
// 400 for malformed input and state conflicts recoverable by the client,
// 404 for missing references, 500 for everything unexpected.
func writeDomainError(w http.ResponseWriter, err error) {
	var couponErr *checkout.InvalidCouponError
	switch {
	case errors.As(err, &couponErr):
		writeError(w, http.StatusBadRequest, couponErr.Message)
	case errors.Is(err, checkout.ErrCartIDRequired),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, cart.ErrInvalidItem),
		errors.Is(err, discount.ErrInvalidOrderNumber):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, cart.ErrNotFound),
		errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, checkout.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
