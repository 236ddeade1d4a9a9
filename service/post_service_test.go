package service

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"postboard/models"
	"postboard/store"
	"postboard/validation"
)

var errBackend = errors.New("connection refused")

// failingStore rejects every call with errBackend.
type failingStore struct{}

func (failingStore) Create(context.Context, models.PostBase) (models.Post, error) {
	return models.Post{}, errBackend
}
func (failingStore) ListAll(context.Context) ([]models.Post, error) { return nil, errBackend }
func (failingStore) UpdateByID(context.Context, string, models.PostBase) (models.Post, error) {
	return models.Post{}, errBackend
}
func (failingStore) DeleteByID(context.Context, string) error { return errBackend }
func (failingStore) Ping(context.Context) error               { return errBackend }
func (failingStore) Close(context.Context) error              { return nil }

func newTestService(s store.PostStore) *PostService {
	return NewPostService(s, PostServiceOptions{Logger: log.New(io.Discard, "", 0)})
}

func TestCreateSanitizes(t *testing.T) {
	svc := newTestService(store.NewMemoryStore())

	post, err := svc.Create(context.Background(), map[string]any{
		"name":    "<script>x</script>",
		"message": "hi <b>there</b>",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if strings.Contains(post.Name, "<") || post.Name == "" {
		t.Fatalf("unexpected name %q", post.Name)
	}
	if post.Message != "hi &lt;b&gt;there&lt;/b&gt;" {
		t.Fatalf("unexpected message %q", post.Message)
	}
}

func TestCreateValidationNeverReachesStore(t *testing.T) {
	svc := newTestService(failingStore{})

	_, err := svc.Create(context.Background(), map[string]any{})
	var fieldErrs validation.FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	if len(fieldErrs) != 2 {
		t.Fatalf("expected 2 field errors, got %v", fieldErrs)
	}
}

func TestPersistenceErrors(t *testing.T) {
	svc := newTestService(failingStore{})
	ctx := context.Background()
	valid := map[string]any{"name": "Jon", "message": "Hello"}

	calls := map[string]func() error{
		"create": func() error { _, err := svc.Create(ctx, valid); return err },
		"list":   func() error { _, err := svc.List(ctx); return err },
		"update": func() error { _, err := svc.Update(ctx, "abc", valid); return err },
		"delete": func() error { return svc.Delete(ctx, "abc") },
	}

	for op, call := range calls {
		t.Run(op, func(t *testing.T) {
			err := call()
			var perr *PersistenceError
			if !errors.As(err, &perr) {
				t.Fatalf("expected PersistenceError, got %v", err)
			}
			if perr.Op != op || !errors.Is(err, errBackend) {
				t.Fatalf("unexpected error %v", err)
			}
		})
	}
}

func TestUpdateAndDeleteNotFound(t *testing.T) {
	mem := store.NewMemoryStore()
	svc := newTestService(mem)
	ctx := context.Background()

	if _, err := svc.Update(ctx, "000", map[string]any{"name": "Jon", "message": "Hello"}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("update: expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, "000"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("delete: expected ErrNotFound, got %v", err)
	}

	posts, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("expected empty store, got %v", posts)
	}
}

func TestUpdateValidatesBeforeLookup(t *testing.T) {
	svc := newTestService(store.NewMemoryStore())

	_, err := svc.Update(context.Background(), "000", map[string]any{"name": "Jon"})
	var fieldErrs validation.FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	if fieldErrs[0].Path[0] != "message" {
		t.Fatalf("unexpected field errors %v", fieldErrs)
	}
}

func TestListCount(t *testing.T) {
	svc := newTestService(store.NewMemoryStore())
	ctx := context.Background()

	const n = 5
	for i := 0; i < n; i++ {
		if _, err := svc.Create(ctx, map[string]any{"name": "Jon", "message": "Hello"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	posts, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(posts) != n {
		t.Fatalf("expected %d posts, got %d", n, len(posts))
	}
	for i := 1; i < len(posts); i++ {
		if posts[i].CreatedAt.After(posts[i-1].CreatedAt) {
			t.Fatalf("posts not newest first at %d", i)
		}
	}
}
