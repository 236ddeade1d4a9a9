// Package store persists posts in a backing record store.
package store

import (
	"context"
	"errors"
	"time"

	"postboard/models"
)

// ErrNotFound is returned when no post matches the given id. Ids that are not
// well-formed for a backend are reported the same way.
var ErrNotFound = errors.New("post not found")

// PostStore is the persistence contract used by the post service.
type PostStore interface {
	// Create stores a new post and returns it with its assigned id. A nil
	// CreatedAt defaults to the time of the write.
	Create(ctx context.Context, post models.PostBase) (models.Post, error)
	// ListAll returns every post, newest first. Never nil.
	ListAll(ctx context.Context) ([]models.Post, error)
	// UpdateByID replaces name and message of the post with the given id, and
	// its creation time only when post.CreatedAt is set.
	UpdateByID(ctx context.Context, id string, post models.PostBase) (models.Post, error)
	// DeleteByID removes the post with the given id.
	DeleteByID(ctx context.Context, id string) error
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	// Close releases backend resources.
	Close(ctx context.Context) error
}

// creationTime resolves the stored createdAt for a write. Stored times are UTC
// with millisecond precision, which is what BSON dates hold.
func creationTime(t *time.Time, now func() time.Time) time.Time {
	if t != nil {
		return t.UTC().Truncate(time.Millisecond)
	}
	return now().UTC().Truncate(time.Millisecond)
}
