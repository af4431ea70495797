package persistent_cached

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"

	"clearedforcloud/storage"
	"clearedforcloud/storage/models"
)

const (
	postsCacheKey      = "posts:all"
	postsGenerationKey = "posts:gen"
)

func getFromCache(ctx context.Context, client *redis.Client) ([]models.Post, bool) {
	val, err := client.Get(ctx, postsCacheKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("Failed to get posts from redis: %s", err.Error())
		return nil, false
	}
	var posts []models.Post
	if err := json.Unmarshal(val, &posts); err != nil {
		log.Printf("Failed to decode cached posts: %s", err.Error())
		return nil, false
	}
	return posts, true
}

func newRedisClient(redisUrl string) (*redis.Client, error) {
	if strings.Contains(redisUrl, "://") {
		opts, err := redis.ParseURL(redisUrl)
		if err != nil {
			return nil, err
		}
		return redis.NewClient(opts), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisUrl}), nil
}

// CreatePersistentStorageCachedWithRedis wraps persistentStorage with a
// read-through cache of the full post list. redisUrl is either host:port
// or a redis:// URL.
func CreatePersistentStorageCachedWithRedis(persistentStorage storage.Storage, redisUrl string, ttl time.Duration) (storage.Storage, error) {
	redisClient, err := newRedisClient(redisUrl)
	if err != nil {
		return nil, err
	}
	return NewPersistentStorageWithCache(persistentStorage, redisClient, ttl), nil
}

func NewPersistentStorageWithCache(persistentStorage storage.Storage, client *redis.Client, ttl time.Duration) *PersistentStorageWithCache {
	return &PersistentStorageWithCache{
		client:            client,
		persistentStorage: persistentStorage,
		ttl:               ttl,
	}
}

// PersistentStorageWithCache caches the full list under postsCacheKey.
// Every create bumps postsGenerationKey and drops the list; a fill is
// committed only if the generation did not move while the inner store
// was read.
type PersistentStorageWithCache struct {
	client            *redis.Client
	persistentStorage storage.Storage
	ttl               time.Duration

	// bypass is set while the last invalidation failed and the cached list
	// may miss a created post.
	bypass atomic.Bool
}

func (s *PersistentStorageWithCache) ListPosts(ctx context.Context) ([]models.Post, error) {
	if s.bypass.Load() {
		return s.persistentStorage.ListPosts(ctx)
	}
	if posts, found := getFromCache(ctx, s.client); found {
		return posts, nil
	}

	var (
		posts   []models.Post
		listErr error
		listed  bool
	)
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		posts, listErr = s.persistentStorage.ListPosts(ctx)
		listed = true
		if listErr != nil || s.bypass.Load() {
			return nil
		}
		j, err := json.Marshal(posts)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, postsCacheKey, j, s.ttl)
			return nil
		})
		return err
	}, postsGenerationKey)

	if err == redis.TxFailedErr {
		log.Printf("Posts changed while filling cache, not caching")
	} else if err != nil {
		log.Printf("Failed to save posts to redis: %s", err.Error())
	}
	if !listed {
		return s.persistentStorage.ListPosts(ctx)
	}
	return posts, listErr
}

func (s *PersistentStorageWithCache) AddPost(ctx context.Context, draft models.PostDraft) (models.Post, error) {
	post, err := s.persistentStorage.AddPost(ctx, draft)
	if err != nil {
		return post, err
	}
	s.invalidate(ctx)
	return post, nil
}

func (s *PersistentStorageWithCache) invalidate(ctx context.Context) {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, postsGenerationKey)
		pipe.Del(ctx, postsCacheKey)
		return nil
	})
	if err != nil {
		log.Printf("Failed to invalidate cached posts, bypassing cache: %s", err.Error())
		s.bypass.Store(true)
		return
	}
	s.bypass.Store(false)
}

func (s *PersistentStorageWithCache) Close(ctx context.Context) error {
	err := s.persistentStorage.Close(ctx)
	if cerr := s.client.Close(); err == nil {
		err = cerr
	}
	return err
}
