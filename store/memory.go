package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"postboard/models"
)

var _ PostStore = (*MemoryStore)(nil)

type memoryRecord struct {
	post models.Post
	seq  uint64
}

// MemoryStore keeps posts in process memory. Used for local runs and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
	seq     uint64
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]memoryRecord),
		now:     time.Now,
	}
}

// Create stores a new post.
func (s *MemoryStore) Create(ctx context.Context, base models.PostBase) (models.Post, error) {
	if err := ctx.Err(); err != nil {
		return models.Post{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	post := models.Post{
		ID:        uuid.NewString(),
		Name:      base.Name,
		Message:   base.Message,
		CreatedAt: creationTime(base.CreatedAt, s.now),
	}
	s.records[post.ID] = memoryRecord{post: post, seq: s.seq}
	return post, nil
}

// ListAll returns all posts ordered by createdAt descending, latest insert first on ties.
func (s *MemoryStore) ListAll(ctx context.Context) ([]models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	records := make([]memoryRecord, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, rec)
	}
	s.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.post.CreatedAt.Equal(b.post.CreatedAt) {
			return a.post.CreatedAt.After(b.post.CreatedAt)
		}
		return a.seq > b.seq
	})

	posts := make([]models.Post, len(records))
	for i, rec := range records {
		posts[i] = rec.post
	}
	return posts, nil
}

// UpdateByID replaces the post with the given id.
func (s *MemoryStore) UpdateByID(ctx context.Context, id string, base models.PostBase) (models.Post, error) {
	if err := ctx.Err(); err != nil {
		return models.Post{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return models.Post{}, ErrNotFound
	}
	rec.post.Name = base.Name
	rec.post.Message = base.Message
	if base.CreatedAt != nil {
		rec.post.CreatedAt = creationTime(base.CreatedAt, s.now)
	}
	s.records[id] = rec
	return rec.post, nil
}

// DeleteByID removes the post with the given id.
func (s *MemoryStore) DeleteByID(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	return nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *MemoryStore) Close(context.Context) error { return nil }
