package persistent

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"clearedforcloud/storage/models"
)

func TestMongoStorage(t *testing.T) {
	if os.Getenv("MONGO_URL") == "" {
		t.Skip("MONGO_URL not set")
	}
	suite.Run(t, &MongoSuite{})
}

type MongoSuite struct {
	suite.Suite

	ctx   context.Context
	store *MongoStorage
}

func (s *MongoSuite) SetupTest() {
	s.ctx = context.Background()
	collection := fmt.Sprintf("BlogPostsTest%d", time.Now().UnixNano())
	store, err := CreateMongoStorage(s.ctx, os.Getenv("MONGO_URL"), "blog_test", collection)
	s.Require().NoError(err)
	s.store = store
}

func (s *MongoSuite) TearDownTest() {
	s.Require().NoError(s.store.posts.Drop(s.ctx))
	s.Require().NoError(s.store.Close(s.ctx))
}

func (s *MongoSuite) TestScanEmpty() {
	posts, err := s.store.ListPosts(s.ctx)
	s.Require().NoError(err)
	s.Require().Empty(posts)
}

func (s *MongoSuite) TestPutThenScan() {
	post, err := s.store.AddPost(s.ctx, models.PostDraft{Title: "T", Category: "General", Body: "B", Image: "/x.png"})
	s.Require().NoError(err)

	posts, err := s.store.ListPosts(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(posts, 1)
	s.Require().Equal(post, posts[0])
}

func (s *MongoSuite) TestDuplicateIdLastWriterWins() {
	frozen := time.Date(2025, 6, 19, 12, 0, 0, 0, time.UTC)
	s.store.now = func() time.Time { return frozen }

	_, err := s.store.AddPost(s.ctx, models.PostDraft{Title: "first", Category: "General", Body: "B"})
	s.Require().NoError(err)
	_, err = s.store.AddPost(s.ctx, models.PostDraft{Title: "second", Category: "General", Body: "B"})
	s.Require().NoError(err)

	posts, err := s.store.ListPosts(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(posts, 1)
	s.Require().Equal("second", posts[0].Title)
}
