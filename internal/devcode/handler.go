// Package devcode exposes the current verification code for a phone over
// GET /dev/code, for environments without SMS credentials. Registered only
// when dev code mode is enabled, which config refuses in production.
package devcode

import (
	"context"
	"net/http"

	"aido/backend/internal/httpx"
)

// Store is the read side of the code store.
type Store interface {
	Get(ctx context.Context, phone string) (code string, ok bool, err error)
}

// Handler serves the dev-only code retrieval endpoint.
type Handler struct {
	store Store
}

// NewHandler returns a dev code handler reading from store.
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// GetCode returns the unexpired code for the phone query parameter.
// 404 when no code is stored or it has expired.
func (h *Handler) GetCode(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if phone == "" {
		httpx.Error(w, http.StatusBadRequest, "phone is required")
		return
	}
	code, ok, err := h.store.Get(r.Context(), phone)
	if err != nil {
		httpx.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !ok {
		httpx.Error(w, http.StatusNotFound, "no code for phone")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"phone": phone, "code": code})
}
