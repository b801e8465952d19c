package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"quiz-submission-service/internal/app"
	"quiz-submission-service/internal/domain"
)

const attemptNotFound = "Quiz submission not found"

// QuizHandler serves the server-scored quiz flow under /api/quiz.
type QuizHandler struct {
	service *app.QuizService
}

func NewQuizHandler(service *app.QuizService) *QuizHandler {
	return &QuizHandler{service: service}
}

func (h *QuizHandler) Register(r gin.IRouter) {
	g := r.Group("/quiz")
	g.POST("/submit", h.Submit)
	g.GET("/submissions", h.List)
	g.GET("/submissions/user/:userId", h.ListByUser)
	g.GET("/submissions/:id", h.Get)
}

func (h *QuizHandler) Submit(c *gin.Context) {
	var in domain.QuizAttemptInput
	if !bindJSON(c, &in) {
		return
	}
	attempt, err := h.service.Submit(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "Quiz not found", "Failed to submit quiz")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":        true,
		"id":             attempt.ID,
		"score":          attempt.Score,
		"totalQuestions": attempt.TotalQuestions,
		"percentage":     attempt.Percentage,
		"message":        "Quiz submitted successfully",
	})
}

func (h *QuizHandler) Get(c *gin.Context) {
	attempt, err := h.service.GetAttempt(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, attemptNotFound, "Failed to retrieve quiz submission")
		return
	}
	c.JSON(http.StatusOK, attempt)
}

func (h *QuizHandler) ListByUser(c *gin.Context) {
	attempts, err := h.service.AttemptsByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err, attemptNotFound, "Failed to retrieve quiz submissions")
		return
	}
	c.JSON(http.StatusOK, attempts)
}

func (h *QuizHandler) List(c *gin.Context) {
	attempts, page, err := h.service.ListAttempts(
		c.Request.Context(),
		queryInt(c, "limit", h.service.DefaultLimit()),
		queryInt(c, "skip", 0),
	)
	if err != nil {
		respondError(c, err, attemptNotFound, "Failed to retrieve quiz submissions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": attempts, "pagination": page})
}
