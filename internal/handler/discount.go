package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/jx"
)

// validateCode reports whether a code can currently be applied. Validation is
// soft-fail: unknown and consumed codes answer 200 with valid=false, keeping
// "expected validation outcome" distinct from caller misuse.
func (h *Handler) validateCode(w http.ResponseWriter, r *http.Request) {
	v := h.ledger.Validate(chi.URLParam(r, "code"))

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("valid", func(e *jx.Encoder) { e.Bool(v.Valid) })
			if v.Valid {
				e.Field("discountPercent", func(e *jx.Encoder) { e.Int(v.Percent) })
			}
			e.Field("message", func(e *jx.Encoder) { e.Str(v.Message) })
		})
	})
}
