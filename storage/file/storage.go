package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"clearedforcloud/storage"
	"clearedforcloud/storage/models"
)

// FileStorage keeps every post in one JSON array document. Each operation
// reads the whole document; writes replace it. The mutex orders goroutines
// in this process and the flock orders other processes sharing the file.
type FileStorage struct {
	path string
	mut  sync.Mutex
	lock *flock.Flock
	now  func() time.Time
}

func (s *FileStorage) ListPosts(ctx context.Context) ([]models.Post, error) {
	s.mut.Lock()
	defer s.mut.Unlock()

	if _, err := os.Stat(filepath.Dir(s.path)); errors.Is(err, fs.ErrNotExist) {
		return []models.Post{}, nil
	}
	if err := s.lock.RLock(); err != nil {
		return nil, fmt.Errorf("failed to lock %s: %s %w", s.path, err.Error(), storage.InternalError)
	}
	defer s.unlock()

	posts, err := s.read()
	if err != nil {
		return nil, err
	}
	models.SortNewestFirst(posts)
	return posts, nil
}

func (s *FileStorage) AddPost(ctx context.Context, draft models.PostDraft) (models.Post, error) {
	s.mut.Lock()
	defer s.mut.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return models.Post{}, fmt.Errorf("failed to create data directory: %s %w", err.Error(), storage.InternalError)
	}
	if err := s.lock.Lock(); err != nil {
		return models.Post{}, fmt.Errorf("failed to lock %s: %s %w", s.path, err.Error(), storage.InternalError)
	}
	defer s.unlock()

	posts, err := s.read()
	if err != nil {
		return models.Post{}, err
	}

	post := models.NewPost(draft, s.now())
	post.Id = uniqueId(post.Id, posts)

	posts = append([]models.Post{post}, posts...)
	if err := s.write(posts); err != nil {
		return models.Post{}, err
	}
	return post, nil
}

func (s *FileStorage) Close(ctx context.Context) error {
	return s.lock.Close()
}

func (s *FileStorage) read() ([]models.Post, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.Post{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %s %w", s.path, err.Error(), storage.InternalError)
	}
	posts := make([]models.Post, 0)
	if len(raw) == 0 {
		return posts, nil
	}
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %s %w", s.path, err.Error(), storage.InternalError)
	}
	return posts, nil
}

func (s *FileStorage) write(posts []models.Post) error {
	raw, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode posts: %s %w", err.Error(), storage.InternalError)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %s %w", err.Error(), storage.InternalError)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write posts: %s %w", err.Error(), storage.InternalError)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write posts: %s %w", err.Error(), storage.InternalError)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %s %w", s.path, err.Error(), storage.InternalError)
	}
	return nil
}

func (s *FileStorage) unlock() {
	_ = s.lock.Unlock()
}

// uniqueId bumps a millisecond id until no stored post uses it.
func uniqueId(id string, posts []models.Post) string {
	taken := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		taken[p.Id] = struct{}{}
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return id
	}
	for {
		candidate := strconv.FormatInt(n, 10)
		if _, found := taken[candidate]; !found {
			return candidate
		}
		n++
	}
}

func CreateFileStorage(path string) storage.Storage {
	return &FileStorage{
		path: path,
		lock: flock.New(path + ".lock"),
		now:  time.Now,
	}
}
