package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"clearedforcloud/storage"
	"clearedforcloud/storage/models"
)

// PostService sits between the HTTP handlers and whichever storage backend
// the process was started with.
type PostService struct {
	storage storage.Storage
	seeds   func() []models.Post
}

func NewPostService(s storage.Storage, seeds func() []models.Post) *PostService {
	return &PostService{storage: s, seeds: seeds}
}

// List never fails: an unreachable or empty store yields the seed posts.
func (s *PostService) List(ctx context.Context) []models.Post {
	posts, err := s.storage.ListPosts(ctx)
	if err != nil {
		log.Printf("Failed to list posts, serving seed posts: %s", err.Error())
		return s.seeds()
	}
	if len(posts) == 0 {
		return s.seeds()
	}
	return posts
}

// Search filters List by a case-insensitive match on title or body.
func (s *PostService) Search(ctx context.Context, query string) []models.Post {
	posts := s.List(ctx)
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return posts
	}
	matches := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if strings.Contains(strings.ToLower(p.Title), query) || strings.Contains(strings.ToLower(p.Body), query) {
			matches = append(matches, p)
		}
	}
	return matches
}

func (s *PostService) Create(ctx context.Context, draft models.PostDraft) (models.Post, error) {
	if missing := missingFields(draft); len(missing) > 0 {
		return models.Post{}, fmt.Errorf("missing %s: %w", strings.Join(missing, ", "), storage.ValidationError)
	}
	post, err := s.storage.AddPost(ctx, draft)
	if err != nil {
		return models.Post{}, fmt.Errorf("failed to add post: %w", err)
	}
	return post, nil
}

func missingFields(draft models.PostDraft) []string {
	var missing []string
	if strings.TrimSpace(draft.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(draft.Category) == "" {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(draft.Body) == "" {
		missing = append(missing, "body")
	}
	return missing
}
