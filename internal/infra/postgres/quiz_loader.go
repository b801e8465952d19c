package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/uptrace/bun"
	"quiz-submission-service/internal/domain"
)

const selectQuizSQL = `SELECT data FROM quizzes WHERE id = $1`

// QuizLoader reads quiz definitions (JSONB) over a pgx pool; the scoring path only ever reads.
type QuizLoader struct {
	pool *pgxpool.Pool
}

func NewQuizLoader(pool *pgxpool.Pool) *QuizLoader {
	return &QuizLoader{pool: pool}
}

func (l *QuizLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	var raw []byte
	if err := l.pool.QueryRow(ctx, selectQuizSQL, quizID).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Quiz{}, domain.ErrQuizNotFound
		}
		return domain.Quiz{}, fmt.Errorf("load quiz %s: %w", quizID, err)
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("decode quiz %s: %w", quizID, err)
	}
	// The row key wins over whatever id the document carries.
	quiz.ID = quizID
	return quiz, nil
}

type quizRow struct {
	bun.BaseModel `bun:"table:quizzes,alias:q"`

	ID   string      `bun:"id,pk"`
	Data domain.Quiz `bun:"data,type:jsonb,notnull"`
}

// QuizWriter upserts quiz definitions for the `quiz import` command.
type QuizWriter struct {
	db *bun.DB
}

func NewQuizWriter(db *bun.DB) *QuizWriter {
	return &QuizWriter{db: db}
}

func (w *QuizWriter) SaveQuiz(ctx context.Context, quiz domain.Quiz) error {
	_, err := w.db.NewInsert().
		Model(&quizRow{ID: quiz.ID, Data: quiz}).
		On("CONFLICT (id) DO UPDATE").
		Set("data = EXCLUDED.data").
		Exec(ctx)
	return mapError("save quiz "+quiz.ID, err)
}
