package storage

import (
	"context"
	"errors"
	"fmt"

	"clearedforcloud/storage/models"
)

var (
	InternalError   = errors.New("storage internal error")
	ClientError     = errors.New("storage client error")
	ValidationError = fmt.Errorf("%w.validation", ClientError)
	ReadOnlyError   = fmt.Errorf("%w.read_only", InternalError)
)

type Storage interface {
	// ListPosts returns every stored post, newest first.
	ListPosts(ctx context.Context) ([]models.Post, error)
	// AddPost assigns id and date to the draft and persists it.
	AddPost(ctx context.Context, draft models.PostDraft) (models.Post, error)
	Close(ctx context.Context) error
}
