package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/shoply/internal/domain/cart"
	"github.com/xenking/shoply/internal/domain/checkout"
	"github.com/xenking/shoply/internal/domain/discount"
)

// maxBodyBytes caps request bodies; every payload in this API is tiny.
const maxBodyBytes = 1 << 20

// writeJSON encodes a response with jx and writes it with the given status.
func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	e := &jx.Encoder{}
	encode(e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// writeError writes the standard {code, message} error body.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("code", func(e *jx.Encoder) { e.Int(status) })
			e.Field("message", func(e *jx.Encoder) { e.Str(message) })
		})
	})
}

// decodeObject reads the request body and decodes a single JSON object,
// dispatching each key to the provided callback. An empty body decodes to
// an empty object.
func decodeObject(r *http.Request, f func(d *jx.Decoder, key string) error) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return errors.Wrap(err, "read body")
	}
	if len(data) == 0 {
		return nil
	}

	d := jx.DecodeBytes(data)
	return d.Obj(f)
}

func encodeCartItem(e *jx.Encoder, it cart.Item) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(it.ID) })
		e.Field("productId", func(e *jx.Encoder) { e.Str(it.ProductID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(it.Name) })
		e.Field("price", func(e *jx.Encoder) { e.Float64(it.Price.InexactFloat64()) })
		e.Field("quantity", func(e *jx.Encoder) { e.Int(it.Quantity) })
	})
}

func encodeCart(e *jx.Encoder, c *cart.Cart) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(c.ID) })
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, it := range c.Items {
					encodeCartItem(e, it)
				}
			})
		})
		e.Field("total", func(e *jx.Encoder) { e.Float64(c.Total.InexactFloat64()) })
	})
}

func encodeOrder(e *jx.Encoder, o *checkout.Order) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(o.ID) })
		e.Field("cartId", func(e *jx.Encoder) { e.Str(o.CartID) })
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, it := range o.Items {
					encodeCartItem(e, it)
				}
			})
		})
		e.Field("subtotal", func(e *jx.Encoder) { e.Float64(o.Subtotal.InexactFloat64()) })
		if o.DiscountCode != "" {
			e.Field("discountCode", func(e *jx.Encoder) { e.Str(o.DiscountCode) })
		}
		e.Field("discountAmount", func(e *jx.Encoder) { e.Float64(o.DiscountAmount.InexactFloat64()) })
		e.Field("total", func(e *jx.Encoder) { e.Float64(o.Total.InexactFloat64()) })
		e.Field("orderNumber", func(e *jx.Encoder) { e.Int64(o.OrderNumber) })
		e.Field("createdAt", func(e *jx.Encoder) { e.Str(o.CreatedAt.Format(time.RFC3339Nano)) })
	})
}

func encodeDiscountCode(e *jx.Encoder, c discount.Code) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("code", func(e *jx.Encoder) { e.Str(c.Code) })
		e.Field("discountPercent", func(e *jx.Encoder) { e.Int(c.Percent) })
		e.Field("isUsed", func(e *jx.Encoder) { e.Bool(c.Used) })
		e.Field("orderNumber", func(e *jx.Encoder) { e.Int64(c.OrderNumber) })
		e.Field("createdAt", func(e *jx.Encoder) { e.Str(c.CreatedAt.Format(time.RFC3339Nano)) })
		if c.UsedAt != nil {
			e.Field("usedAt", func(e *jx.Encoder) { e.Str(c.UsedAt.Format(time.RFC3339Nano)) })
		}
	})
}
