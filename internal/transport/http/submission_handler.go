package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"quiz-submission-service/internal/app"
	"quiz-submission-service/internal/domain"
)

// SubmissionHandler serves one variant's /api/submissions{L} routes.
type SubmissionHandler struct {
	service *app.SubmissionService
	variant domain.Variant
}

func NewSubmissionHandler(service *app.SubmissionService, variant domain.Variant) *SubmissionHandler {
	return &SubmissionHandler{service: service, variant: variant}
}

func (h *SubmissionHandler) Register(r gin.IRouter) {
	g := r.Group("/submissions" + h.variant.String())
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/user/email/:email", h.ListByEmail)
	g.GET("/user/:userId", h.ListByUserID)
	g.GET("/:id", h.Get)
}

func (h *SubmissionHandler) Create(c *gin.Context) {
	var in domain.SubmissionInput
	if !bindJSON(c, &in) {
		return
	}
	submission, err := h.service.Create(c.Request.Context(), h.variant, in)
	if err != nil {
		respondError(c, err, h.notFound(), fmt.Sprintf("Failed to create submission %s", h.variant))
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    fmt.Sprintf("Submission %s created successfully", h.variant),
		"submission": submission,
	})
}

func (h *SubmissionHandler) ListByEmail(c *gin.Context) {
	views, err := h.service.ListByEmail(c.Request.Context(), h.variant, c.Param("email"))
	if err != nil {
		respondError(c, err, h.notFound(), h.retrieveFailure())
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *SubmissionHandler) ListByUserID(c *gin.Context) {
	submissions, err := h.service.ListByUserID(c.Request.Context(), h.variant, c.Param("userId"))
	if err != nil {
		respondError(c, err, h.notFound(), h.retrieveFailure())
		return
	}
	c.JSON(http.StatusOK, submissions)
}

func (h *SubmissionHandler) Get(c *gin.Context) {
	submission, err := h.service.Get(c.Request.Context(), h.variant, c.Param("id"))
	if err != nil {
		respondError(c, err, h.notFound(), fmt.Sprintf("Failed to retrieve submission %s", h.variant))
		return
	}
	c.JSON(http.StatusOK, submission)
}

func (h *SubmissionHandler) List(c *gin.Context) {
	query := domain.SubmissionQuery{
		Variant: h.variant,
		Email:   c.Query("email"),
		Limit:   queryInt(c, "limit", h.service.DefaultLimit()),
		Skip:    queryInt(c, "skip", 0),
	}
	submissions, page, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err, h.notFound(), h.retrieveFailure())
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": submissions, "pagination": page})
}

func (h *SubmissionHandler) notFound() string {
	return fmt.Sprintf("Submission %s not found", h.variant)
}

func (h *SubmissionHandler) retrieveFailure() string {
	return fmt.Sprintf("Failed to retrieve submissions %s", h.variant)
}

// queryInt reads an integer query parameter, using fallback when absent or unparseable.
func queryInt(c *gin.Context, key string, fallback int) int {
	raw, ok := c.GetQuery(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
