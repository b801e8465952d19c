package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"quiz-submission-service/internal/domain"
)

// respondError maps service errors onto status codes. Store failures are logged
// and answered with the generic failure message only.
func respondError(c *gin.Context, err error, notFound, failure string) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message, "details": gin.H{"field": ve.Field}})
	case errors.Is(err, domain.ErrInvalidVariant):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrQuizNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
	default:
		log.Printf("%s: %v", failure, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": failure})
	}
}

// bindJSON decodes the request body, answering 400 itself on failure.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && strings.HasPrefix(typeErr.Field, "answers") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Answers are required and must be an array"})
		return false
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
	return false
}
