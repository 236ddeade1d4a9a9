package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"postboard/models"
)

// PostOperations is the pipeline behind the post endpoints.
type PostOperations interface {
	Create(ctx context.Context, input any) (models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	Update(ctx context.Context, id string, input any) (models.Post, error)
	Delete(ctx context.Context, id string) error
}

// PostHandler serves the /posts endpoints.
type PostHandler struct {
	posts PostOperations
}

// NewPostHandler creates a PostHandler.
func NewPostHandler(posts PostOperations) *PostHandler {
	return &PostHandler{posts: posts}
}

// CreatePost handles POST /posts.
func (h *PostHandler) CreatePost(c *gin.Context) {
	input, ok := bindInput(c)
	if !ok {
		return
	}

	post, err := h.posts.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// GetPosts handles GET /posts.
func (h *PostHandler) GetPosts(c *gin.Context) {
	posts, err := h.posts.List(c.Request.Context())
	if err != nil {
		respondError(c, err, http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, posts)
}

// UpdatePost handles PUT /posts/:id.
func (h *PostHandler) UpdatePost(c *gin.Context) {
	input, ok := bindInput(c)
	if !ok {
		return
	}

	post, err := h.posts.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost handles DELETE /posts/:id.
func (h *PostHandler) DeletePost(c *gin.Context) {
	if err := h.posts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}
