package authapi

import (
	"net/http"
	"strings"
	"time"

	"chirp/cmd/identity"
)

// TokenHeader is the dedicated header slot session tokens travel in.
// The original chirp clients send the bare "token" header, not
// Authorization/Bearer.
const TokenHeader = "token"

// RequireAuth is the session gate applied to every protected operation.
//
// Contract (three distinct, non-overlapping rejections):
//  1. no token header          -> 401 "No token provided" (store untouched)
//  2. invalid/expired/forged   -> 401 "Invalid or expired token"
//  3. subject no longer exists -> 404 "User not found"
//
// On success the resolved account (password hash excluded) is attached to
// the request context. Nothing is cached: every request re-verifies and
// re-resolves.
func (h *Handler) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(TokenHeader))
		if raw == "" {
			writeFailure(w, http.StatusUnauthorized, "No token provided")
			return
		}

		accountID, err := h.tokens.Verify(raw, time.Now().UTC())
		if err != nil {
			// All verification failure reasons collapse into one message.
			writeFailure(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		acc, err := h.store.FindByID(r.Context(), accountID, identity.FindByIDOpts{ExcludePasswordHash: true})
		if err != nil {
			if identity.IsNotFound(err) {
				writeFailure(w, http.StatusNotFound, "User not found")
				return
			}
			h.log.Error("auth.gate.resolve.fail", "err", err)
			writeFailure(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		next(w, r.WithContext(WithAccount(r.Context(), acc)))
	}
}
