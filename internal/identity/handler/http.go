// Package handler exposes the auth service over HTTP JSON: POST /send_code,
// POST /login, POST /logout.
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"aido/backend/internal/httpx"
	"aido/backend/internal/identity/service"
	"aido/backend/internal/server/middleware"
)

// AuthHandler holds the auth endpoints.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler returns the HTTP handler set for the auth service.
func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{auth: auth, logger: logger}
}

type sendCodeRequest struct {
	Phone string `json:"phone"`
}

type sendCodeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type loginRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

type loginResponse struct {
	UserID    string `json:"user_id"`
	Token     string `json:"token"`
	Signature string `json:"signature"`
	Phone     string `json:"phone,omitempty"`
	Nickname  string `json:"nickname,omitempty"`
	Message   string `json:"message"`
}

type logoutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SendCode issues a verification code and attempts SMS delivery.
// success mirrors the delivery outcome only; a code-store failure is a 500.
func (h *AuthHandler) SendCode(w http.ResponseWriter, r *http.Request) {
	var in sendCodeRequest
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid json")
		return
	}
	delivered, err := h.auth.SendCode(r.Context(), in.Phone)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	msg := "verification code sent"
	if !delivered {
		msg = "verification code delivery failed"
	}
	httpx.WriteJSON(w, http.StatusOK, sendCodeResponse{Success: delivered, Message: msg})
}

// Login authenticates phone+code and returns the shared session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid json")
		return
	}
	res, err := h.auth.Login(r.Context(), in.Phone, in.Code)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		UserID:    res.UserID,
		Token:     res.Token,
		Signature: res.Signature,
		Phone:     res.Phone,
		Nickname:  res.Nickname,
		Message:   "login successful",
	})
}

// Logout revokes the authenticated user's shared token, logging out every
// device. Runs behind the auth middleware, so the identity is already proven.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, service.ErrMissingCredential.Error())
		return
	}
	if err := h.auth.Logout(r.Context(), userID); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, logoutResponse{Success: true, Message: "logged out"})
}

// writeError maps service errors to HTTP statuses. Downstream failures are
// logged with full detail and answered with a fixed message: provider and
// database internals never reach the client.
func (h *AuthHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrPhoneRequired),
		errors.Is(err, service.ErrCodeRequired),
		errors.Is(err, service.ErrBadCode):
		httpx.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrMissingCredential),
		errors.Is(err, service.ErrInvalidCredential):
		httpx.Error(w, http.StatusUnauthorized, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "auth request failed", "path", r.URL.Path, "err", err)
		httpx.Error(w, http.StatusInternalServerError, "internal error")
	}
}
