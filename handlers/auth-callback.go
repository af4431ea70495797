package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"clearedforcloud/auth"
	"clearedforcloud/middleware"
)

// HandleAuthCallback finishes the OAuth sign-in: the signed-in email must be
// the authorized one, and the session token is handed over as a cookie.
func (h *HTTPHandler) HandleAuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		respondError(w, http.StatusBadRequest, "No code")
		return
	}

	email, err := h.Exchanger.ExchangeEmail(r.Context(), code)
	if err != nil {
		if errors.Is(err, auth.ErrNoIDToken) {
			respondError(w, http.StatusBadRequest, "No id_token")
			return
		}
		if errors.Is(err, auth.ErrUnauthorized) {
			respondError(w, http.StatusUnauthorized, UNAUTHORIZED_MESSAGE)
			return
		}
		log.Printf("Failed to exchange authorization code: %s", err.Error())
		respondError(w, http.StatusInternalServerError, INTERNAL_ERROR_MESSAGE)
		return
	}
	if h.Email == nil || !h.Email.Check(email) {
		respondError(w, http.StatusUnauthorized, UNAUTHORIZED_MESSAGE)
		return
	}

	token, expiresAt, err := h.Issuer.IssueEmail(email)
	if err != nil {
		log.Printf("Failed to issue email token: %s", err.Error())
		respondError(w, http.StatusInternalServerError, INTERNAL_ERROR_MESSAGE)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(h.Issuer.TTL() / time.Second),
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}
