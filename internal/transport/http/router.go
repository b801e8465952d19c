package http

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"quiz-submission-service/internal/app"
	"quiz-submission-service/internal/domain"
)

// Services groups the use cases exposed over HTTP.
type Services struct {
	Submissions *app.SubmissionService
	UserDetails *app.UserDetailsService
	Accounts    *app.AccountService
	Quizzes     *app.QuizService
	Feed        *app.Feed
}

// DefaultAllowedOrigin is the frontend dev server.
const DefaultAllowedOrigin = "http://localhost:5173"

type RouterOptions struct {
	AllowedOrigin  string
	RequestTimeout time.Duration
}

// NewRouter builds the gin engine with CORS, recovery, access logs and every route.
func NewRouter(svc Services, opts RouterOptions) *gin.Engine {
	if opts.AllowedOrigin == "" {
		opts.AllowedOrigin = DefaultAllowedOrigin
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("unhandled error on %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{opts.AllowedOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})

	api := r.Group("/api", requestTimeout(opts.RequestTimeout))
	if svc.Submissions != nil {
		for _, variant := range domain.Variants() {
			NewSubmissionHandler(svc.Submissions, variant).Register(api)
		}
	}
	if svc.UserDetails != nil {
		NewUserDetailsHandler(svc.UserDetails).Register(api)
	}
	if svc.Accounts != nil {
		NewAccountHandler(svc.Accounts).Register(api)
	}
	if svc.Quizzes != nil {
		NewQuizHandler(svc.Quizzes).Register(api)
	}

	// The live feed is long-lived and stays outside the request timeout.
	if svc.Feed != nil {
		ws := NewWSHandler(svc.Feed, opts.AllowedOrigin)
		r.GET("/ws/submissions/:variant", ws.ServeWS)
	}
	return r
}

// requestTimeout bounds every store call made while serving the request.
func requestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
