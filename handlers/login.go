package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

type LoginRequestData struct {
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

func (h *HTTPHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var data LoginRequestData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		respondError(w, http.StatusBadRequest, INVALID_REQUEST)
		return
	}
	if h.Password == nil || !h.Password.Check(data.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	token, _, err := h.Issuer.IssueAdmin()
	if err != nil {
		log.Printf("Failed to issue admin token: %s", err.Error())
		respondError(w, http.StatusInternalServerError, INTERNAL_ERROR_MESSAGE)
		return
	}
	respondJSON(w, http.StatusOK, LoginResponse{Token: token})
}
