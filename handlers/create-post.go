package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"clearedforcloud/storage"
	"clearedforcloud/storage/models"
)

type CreatePostResponse struct {
	Success bool        `json:"success"`
	Post    models.Post `json:"post"`
}

// HandleCreatePost expects RequireToken in front of it.
func (h *HTTPHandler) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	var data models.PostDraft
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		log.Printf("Failed to decode post data while creating post: %s", err.Error())
		respondError(w, http.StatusBadRequest, INVALID_REQUEST)
		return
	}

	post, err := h.Posts.Create(r.Context(), data)
	if err != nil {
		if errors.Is(err, storage.ValidationError) {
			respondError(w, http.StatusBadRequest, "Missing required fields")
			return
		}
		log.Printf("Internal error while creating post: %s", err.Error())
		respondError(w, http.StatusInternalServerError, INTERNAL_ERROR_MESSAGE)
		return
	}

	respondJSON(w, http.StatusOK, CreatePostResponse{Success: true, Post: post})
}
