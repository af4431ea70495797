package in_memory

import (
	"context"
	"fmt"

	"clearedforcloud/storage"
	"clearedforcloud/storage/models"
)

// InMemoryStorage serves the compiled-in posts and refuses writes.
type InMemoryStorage struct {
	posts []models.Post
}

func (s *InMemoryStorage) ListPosts(ctx context.Context) ([]models.Post, error) {
	posts := make([]models.Post, len(s.posts))
	copy(posts, s.posts)
	return posts, nil
}

func (s *InMemoryStorage) AddPost(ctx context.Context, draft models.PostDraft) (models.Post, error) {
	return models.Post{}, fmt.Errorf("static post list cannot add %q: %w", draft.Title, storage.ReadOnlyError)
}

func (s *InMemoryStorage) Close(ctx context.Context) error {
	return nil
}

func CreateInMemoryStorage() storage.Storage {
	return &InMemoryStorage{
		posts: SeedPosts(),
	}
}
