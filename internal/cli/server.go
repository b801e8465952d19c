package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"quiz-submission-service/internal/app"
	"quiz-submission-service/internal/config"
	"quiz-submission-service/internal/infra/memory"
	"quiz-submission-service/internal/infra/rabbitmq"
	rediscache "quiz-submission-service/internal/infra/redis"
	transport "quiz-submission-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the submission server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if portFlag != "" {
		cfg.Server.Port = portFlag
	}

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	redisClient := newRedisClient(cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var quizRepo app.QuizRepository
	if redisClient != nil {
		quizRepo = rediscache.NewQuizRepository(redisClient, st.quizLoader, quizTTL)
	} else {
		quizRepo = memory.NewQuizRepository(st.quizLoader, quizTTL)
	}

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URI, cfg.RabbitMQ.Exchange)
	if err != nil {
		return err
	}
	defer publisher.Close()

	opts := app.SubmissionOptions{
		MaxPossibleScore: cfg.Submissions.MaxPossibleScore,
		RecomputeScores:  cfg.Submissions.RecomputeScores,
		DefaultLimit:     cfg.Pagination.DefaultLimit,
		MaxLimit:         cfg.Pagination.MaxLimit,
	}
	feed := app.NewFeed()
	router := transport.NewRouter(transport.Services{
		Submissions: app.NewSubmissionService(st.submissions, feed, publisher, opts),
		UserDetails: app.NewUserDetailsService(st.userDetails),
		Accounts:    app.NewAccountService(st.accounts),
		Quizzes:     app.NewQuizService(quizRepo, st.attempts, publisher, opts),
		Feed:        feed,
	}, transport.RouterOptions{
		AllowedOrigin:  cfg.Server.AllowedOrigin,
		RequestTimeout: config.TTLDuration(cfg.Server.RequestTimeout, 10*time.Second),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  config.TTLDuration(cfg.Server.ReadTimeout, 15*time.Second),
		WriteTimeout: config.TTLDuration(cfg.Server.WriteTimeout, 15*time.Second),
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("starting submission service on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	case err := <-serverErr:
		log.Printf("failed to start server: %v", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newRedisClient(cfg config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}
