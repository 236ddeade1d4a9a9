package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"postboard/models"
	"postboard/sanitize"
	"postboard/store"
	"postboard/validation"
)

// PersistenceError wraps a backend failure for a post operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s post: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// PostServiceOptions configures PostService.
type PostServiceOptions struct {
	Logger *log.Logger
}

// PostService runs validate, sanitize and persist for each post operation.
// It holds no mutable state; concurrent calls only meet at the store.
type PostService struct {
	store  store.PostStore
	logger *log.Logger
}

// NewPostService builds a PostService over the given store.
func NewPostService(s store.PostStore, opts PostServiceOptions) *PostService {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stdout, "posts ", log.LstdFlags)
	}
	return &PostService{store: s, logger: logger}
}

// Create validates and sanitizes input, then stores it. Errors are
// validation.FieldErrors or *PersistenceError.
func (s *PostService) Create(ctx context.Context, input any) (models.Post, error) {
	base, errs := validation.ValidatePost(input)
	if errs != nil {
		return models.Post{}, errs
	}

	post, err := s.store.Create(ctx, sanitize.Post(base))
	if err != nil {
		return models.Post{}, s.persistenceError("create", err)
	}
	return post, nil
}

// List returns all posts, newest first.
func (s *PostService) List(ctx context.Context) ([]models.Post, error) {
	posts, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, s.persistenceError("list", err)
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

// Update validates and sanitizes input, then replaces the post with id.
// Unknown ids yield store.ErrNotFound.
func (s *PostService) Update(ctx context.Context, id string, input any) (models.Post, error) {
	base, errs := validation.ValidatePost(input)
	if errs != nil {
		return models.Post{}, errs
	}

	post, err := s.store.UpdateByID(ctx, id, sanitize.Post(base))
	if errors.Is(err, store.ErrNotFound) {
		return models.Post{}, store.ErrNotFound
	}
	if err != nil {
		return models.Post{}, s.persistenceError("update", err)
	}
	return post, nil
}

// Delete removes the post with id. Unknown ids yield store.ErrNotFound.
func (s *PostService) Delete(ctx context.Context, id string) error {
	err := s.store.DeleteByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return store.ErrNotFound
	}
	if err != nil {
		return s.persistenceError("delete", err)
	}
	return nil
}

// Ping reports store health.
func (s *PostService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *PostService) persistenceError(op string, err error) error {
	s.logger.Printf("%s post failed: %v", op, err)
	return &PersistenceError{Op: op, Err: err}
}
