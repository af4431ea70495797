package handlers

import (
	"net/http"

	"clearedforcloud/storage/models"
)

type PostsResponse struct {
	Posts []models.Post `json:"posts"`
}

// HandleGetPosts always answers 200; the service substitutes seed posts
// when the store fails.
func (h *HTTPHandler) HandleGetPosts(w http.ResponseWriter, r *http.Request) {
	var posts []models.Post
	if query := r.URL.Query().Get("q"); query != "" {
		posts = h.Posts.Search(r.Context(), query)
	} else {
		posts = h.Posts.List(r.Context())
	}
	if posts == nil {
		posts = []models.Post{}
	}
	respondJSON(w, http.StatusOK, PostsResponse{Posts: posts})
}
