package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"clearedforcloud/auth"
	"clearedforcloud/service"
)

const (
	INTERNAL_ERROR_MESSAGE = "Internal server error"
	UNAUTHORIZED_MESSAGE   = "Unauthorized"
	INVALID_REQUEST        = "Invalid request"
)

type EmailExchanger interface {
	ExchangeEmail(ctx context.Context, code string) (string, error)
}

// HTTPHandler holds the dependencies of every endpoint. Only one of
// Password or (Email, Exchanger) is set, matching the process auth mode.
type HTTPHandler struct {
	Posts         *service.PostService
	Issuer        *auth.TokenIssuer
	Password      auth.CredentialCheck
	Email         auth.CredentialCheck
	Exchanger     EmailExchanger
	SecureCookies bool
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to dump response to json: %s", err.Error())
		status = http.StatusInternalServerError
		raw = []byte(`{"error":"` + INTERNAL_ERROR_MESSAGE + `"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(raw)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
