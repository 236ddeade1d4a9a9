package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"postboard/models"
	"postboard/service"
	"postboard/store"
	"postboard/validation"
)

// stubPosts returns err from every operation.
type stubPosts struct {
	err error
}

func (s stubPosts) Create(context.Context, any) (models.Post, error) { return models.Post{}, s.err }
func (s stubPosts) List(context.Context) ([]models.Post, error)      { return nil, s.err }
func (s stubPosts) Update(context.Context, string, any) (models.Post, error) {
	return models.Post{}, s.err
}
func (s stubPosts) Delete(context.Context, string) error { return s.err }

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func newRouter(posts PostOperations) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPostHandler(posts)
	r := gin.New()
	r.POST("/posts", h.CreatePost)
	r.GET("/posts", h.GetPosts)
	r.PUT("/posts/:id", h.UpdatePost)
	r.DELETE("/posts/:id", h.DeletePost)
	return r
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPersistenceErrorStatus(t *testing.T) {
	perr := &service.PersistenceError{Op: "x", Err: errors.New("E11000 duplicate key")}
	r := newRouter(stubPosts{err: perr})
	body := `{"name":"Jon","message":"Hello"}`

	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodPost, "/posts", http.StatusBadRequest},
		{http.MethodGet, "/posts", http.StatusInternalServerError},
		{http.MethodPut, "/posts/abc", http.StatusBadRequest},
		{http.MethodDelete, "/posts/abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			w := serve(r, tt.method, tt.path, body)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, w.Code)
			}
			var resp map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp["error"] != "E11000 duplicate key" {
				t.Fatalf("expected backend detail, got %v", resp)
			}
		})
	}
}

func TestNotFoundStatus(t *testing.T) {
	r := newRouter(stubPosts{err: store.ErrNotFound})

	for _, method := range []string{http.MethodPut, http.MethodDelete} {
		w := serve(r, method, "/posts/000", `{"name":"Jon","message":"Hello"}`)
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", method, w.Code)
		}
		if !strings.Contains(w.Body.String(), `"message":"Post not found"`) {
			t.Fatalf("%s: unexpected body %s", method, w.Body.String())
		}
	}
}

func TestUnexpectedErrorStatus(t *testing.T) {
	r := newRouter(stubPosts{err: errors.New("boom")})

	if w := serve(r, http.MethodPost, "/posts", `{"name":"Jon","message":"Hello"}`); w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestInvalidBody(t *testing.T) {
	r := newRouter(stubPosts{})

	for _, body := range []string{"{", "not json", "[1,"} {
		w := serve(r, http.MethodPost, "/posts", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, w.Code)
		}
		if !strings.Contains(w.Body.String(), `"code":"invalid_json"`) {
			t.Fatalf("body %q: unexpected response %s", body, w.Body.String())
		}
	}
}

func TestEmptyBodyReportsMissingFields(t *testing.T) {
	svc := service.NewPostService(store.NewMemoryStore(), service.PostServiceOptions{
		Logger: log.New(io.Discard, "", 0),
	})
	r := newRouter(svc)
	created, err := svc.Create(context.Background(), map[string]any{"name": "Jon", "message": "Hello"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	tests := []struct {
		method, path string
	}{
		{http.MethodPost, "/posts"},
		{http.MethodPut, "/posts/" + created.ID},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			w := serve(r, tt.method, tt.path, "")
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			var errs validation.FieldErrors
			if err := json.Unmarshal(w.Body.Bytes(), &errs); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(errs) != 2 {
				t.Fatalf("expected 2 field errors, got %+v", errs)
			}
			for i, field := range []string{"message", "name"} {
				if len(errs[i].Path) != 1 || errs[i].Path[0] != field {
					t.Fatalf("errors[%d] = %+v, want field %q", i, errs[i], field)
				}
				if errs[i].Code == validation.CodeInvalidJSON {
					t.Fatalf("errors[%d] reported as malformed JSON", i)
				}
			}
		})
	}

	posts, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(posts) != 1 || posts[0].Message != "Hello" {
		t.Fatalf("store changed: %+v", posts)
	}
}

func TestReady(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"up", nil, http.StatusOK},
		{"down", errors.New("no reachable servers"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/ready", NewHealthHandler(stubPinger{err: tt.err}, "mongo").Ready)
			w := serve(r, http.MethodGet, "/ready", "")
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, w.Code)
			}
			if !strings.Contains(w.Body.String(), `"store":"mongo"`) {
				t.Fatalf("unexpected body %s", w.Body.String())
			}
		})
	}
}
