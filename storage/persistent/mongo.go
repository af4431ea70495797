package persistent

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"clearedforcloud/storage"
	"clearedforcloud/storage/models"
)

type Post struct {
	Id       string `bson:"_id"`
	Title    string `bson:"title"`
	Date     string `bson:"date"`
	Category string `bson:"category"`
	Image    string `bson:"image,omitempty"`
	Body     string `bson:"body"`
}

func fromModel(p models.Post) Post {
	return Post{
		Id:       p.Id,
		Title:    p.Title,
		Date:     p.Date,
		Category: p.Category,
		Image:    p.Image,
		Body:     p.Body,
	}
}

func (p *Post) toModel() models.Post {
	return models.Post{
		Id:       p.Id,
		Title:    p.Title,
		Date:     p.Date,
		Category: p.Category,
		Image:    p.Image,
		Body:     p.Body,
	}
}

// MongoStorage treats a collection as a flat key-value table: listing is an
// unfiltered scan and adding is a single unconditioned put.
type MongoStorage struct {
	client *mongo.Client
	posts  *mongo.Collection
	now    func() time.Time
}

func (s *MongoStorage) ListPosts(ctx context.Context) ([]models.Post, error) {
	cursor, err := s.posts.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to scan posts: %s %w", err.Error(), storage.InternalError)
	}
	defer func(cursor *mongo.Cursor, ctx context.Context) {
		err := cursor.Close(ctx)
		if err != nil {
			log.Printf("Cursor closing failed: %s", err.Error())
		}
	}(cursor, ctx)

	posts := make([]models.Post, 0)
	for cursor.Next(ctx) {
		var next Post
		if err = cursor.Decode(&next); err != nil {
			return nil, fmt.Errorf("decode error: %s %w", err.Error(), storage.InternalError)
		}
		posts = append(posts, next.toModel())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan posts: %s %w", err.Error(), storage.InternalError)
	}
	models.SortNewestFirst(posts)
	return posts, nil
}

func (s *MongoStorage) AddPost(ctx context.Context, draft models.PostDraft) (models.Post, error) {
	post := models.NewPost(draft, s.now())
	doc := fromModel(post)

	opts := options.Replace().SetUpsert(true)
	if _, err := s.posts.ReplaceOne(ctx, bson.M{"_id": doc.Id}, doc, opts); err != nil {
		return models.Post{}, fmt.Errorf("failed to put post %s: %s %w", doc.Id, err.Error(), storage.InternalError)
	}
	return post, nil
}

func (s *MongoStorage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func CreateMongoStorage(ctx context.Context, dbUrl, dbName, collection string) (*MongoStorage, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(dbUrl))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	posts := client.Database(dbName).Collection(collection)
	if err := ensurePostsIndexes(ctx, posts); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &MongoStorage{
		client: client,
		posts:  posts,
		now:    time.Now,
	}, nil
}
