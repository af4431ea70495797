package models

import (
	"encoding/json"
	"sort"
	"strconv"
	"time"
)

const DateLayout = "2006-01-02"

type Post struct {
	Id       string `json:"id"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Category string `json:"category"`
	Image    string `json:"image,omitempty"`
	Body     string `json:"body"`
}

// PostDraft is what a client may supply; id and date are always server-side.
type PostDraft struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Body     string `json:"body"`
	Image    string `json:"image,omitempty"`
}

func (p *Post) ToJson() ([]byte, error) {
	return json.Marshal(p)
}

// NewPost stamps a draft with a millisecond id and the UTC date of createdAt.
func NewPost(draft PostDraft, createdAt time.Time) Post {
	return Post{
		Id:       strconv.FormatInt(createdAt.UnixMilli(), 10),
		Title:    draft.Title,
		Date:     createdAt.UTC().Format(DateLayout),
		Category: draft.Category,
		Image:    draft.Image,
		Body:     draft.Body,
	}
}

// SortNewestFirst orders by date, then id, both descending.
func SortNewestFirst(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].Date != posts[j].Date {
			return posts[i].Date > posts[j].Date
		}
		return idAfter(posts[i].Id, posts[j].Id)
	})
}

func idAfter(a, b string) bool {
	ai, errA := strconv.ParseInt(a, 10, 64)
	bi, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		return ai > bi
	}
	return a > b
}
