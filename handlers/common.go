package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"postboard/service"
	"postboard/store"
	"postboard/validation"
)

const notFoundMessage = "Post not found"

// respondError maps a post operation error to a JSON response. Persistence
// failures use persistenceStatus, which differs between read and write paths.
func respondError(c *gin.Context, err error, persistenceStatus int) {
	var fieldErrs validation.FieldErrors
	var perr *service.PersistenceError

	switch {
	case errors.As(err, &fieldErrs):
		c.JSON(http.StatusBadRequest, fieldErrs)
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": notFoundMessage})
	case errors.As(err, &perr):
		c.JSON(persistenceStatus, gin.H{"error": perr.Err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// bindInput decodes the JSON body into a generic value for schema validation.
// An empty body is validated as an empty object so every missing field is
// reported.
func bindInput(c *gin.Context) (any, bool) {
	var input any
	err := c.ShouldBindJSON(&input)
	if errors.Is(err, io.EOF) {
		return map[string]any{}, true
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, validation.InvalidBody(err))
		return nil, false
	}
	return input, true
}
