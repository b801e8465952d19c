package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v4/pgxpool"
	"quiz-submission-service/internal/app"
	"quiz-submission-service/internal/config"
	"quiz-submission-service/internal/domain"
	"quiz-submission-service/internal/infra/memory"
	"quiz-submission-service/internal/infra/mongo"
	"quiz-submission-service/internal/infra/postgres"
)

// quizWriter persists imported quiz definitions.
type quizWriter interface {
	SaveQuiz(ctx context.Context, quiz domain.Quiz) error
}

// stores holds the repositories of the selected storage driver.
type stores struct {
	submissions app.SubmissionRepository
	userDetails app.UserDetailsRepository
	accounts    app.AccountRepository
	attempts    app.AttemptRepository
	quizLoader  memory.QuizLoader
	quizWriter  quizWriter
	closers     []func()
}

func (s *stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// openStores connects the configured backend. The caller must Close the result.
func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg)
	case config.DriverMongo:
		return openMongo(ctx, cfg)
	default:
		return openMemory(cfg)
	}
}

func openMemory(cfg config.Config) (*stores, error) {
	quizzes := map[string]domain.Quiz{}
	if cfg.Quiz.SeedFile != "" {
		seeded, err := memory.ReadQuizFile(cfg.Quiz.SeedFile)
		if err != nil {
			return nil, err
		}
		quizzes = memory.QuizMap(seeded)
	}
	log.Printf("using in-memory storage with %d seeded quizzes", len(quizzes))
	return &stores{
		submissions: memory.NewSubmissionStore(),
		userDetails: memory.NewUserDetailsStore(),
		accounts:    memory.NewAccountStore(),
		attempts:    memory.NewAttemptStore(),
		quizLoader:  memory.NewStaticQuizLoader(quizzes),
	}, nil
}

func openPostgres(ctx context.Context, cfg config.Config) (*stores, error) {
	db := postgres.Open(cfg.Postgres.URL)
	if err := migrateUp(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect postgres pool: %w", err)
	}
	log.Printf("using postgres storage")
	return &stores{
		submissions: postgres.NewSubmissionStore(db),
		userDetails: postgres.NewUserDetailsStore(db),
		accounts:    postgres.NewAccountStore(db),
		attempts:    postgres.NewAttemptStore(db),
		quizLoader:  postgres.NewQuizLoader(pool),
		quizWriter:  postgres.NewQuizWriter(db),
		closers: []func(){
			func() { _ = db.Close() },
			pool.Close,
		},
	}, nil
}

func openMongo(ctx context.Context, cfg config.Config) (*stores, error) {
	client, db, err := mongo.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.PoolSize)
	if err != nil {
		return nil, err
	}
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		mongo.Disconnect(client)
		return nil, err
	}
	quizzes := mongo.NewQuizLoader(db)
	return &stores{
		submissions: mongo.NewSubmissionStore(db),
		userDetails: mongo.NewUserDetailsStore(db),
		accounts:    mongo.NewAccountStore(db),
		attempts:    mongo.NewAttemptStore(db),
		quizLoader:  quizzes,
		quizWriter:  quizzes,
		closers:     []func(){func() { mongo.Disconnect(client) }},
	}, nil
}
