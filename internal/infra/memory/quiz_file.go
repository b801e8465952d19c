package memory

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"quiz-submission-service/internal/domain"
)

// StaticQuizLoader serves a fixed set of quizzes, typically read from the seed file.
type StaticQuizLoader struct {
	quizzes map[string]domain.Quiz
}

func NewStaticQuizLoader(quizzes map[string]domain.Quiz) *StaticQuizLoader {
	return &StaticQuizLoader{quizzes: quizzes}
}

func (l *StaticQuizLoader) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	quiz, ok := l.quizzes[quizID]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, nil
}

type quizFile struct {
	Quizzes []domain.Quiz `yaml:"quizzes"`
}

// ReadQuizFile parses a YAML document of the form `quizzes: [{id, title, questions: [...]}]`.
// Every quiz needs an id and question ids must be unique within a quiz.
func ReadQuizFile(path string) ([]domain.Quiz, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file quizFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse quiz file %s: %w", path, err)
	}
	for i, quiz := range file.Quizzes {
		if quiz.ID == "" {
			return nil, fmt.Errorf("parse quiz file %s: quiz #%d has no id", path, i+1)
		}
		seen := make(map[string]struct{}, len(quiz.Questions))
		for _, q := range quiz.Questions {
			if _, dup := seen[q.ID]; dup || q.ID == "" {
				return nil, fmt.Errorf("parse quiz file %s: quiz %s has a missing or repeated question id %q", path, quiz.ID, q.ID)
			}
			seen[q.ID] = struct{}{}
		}
	}
	return file.Quizzes, nil
}

// QuizMap indexes quizzes by id.
func QuizMap(quizzes []domain.Quiz) map[string]domain.Quiz {
	out := make(map[string]domain.Quiz, len(quizzes))
	for _, quiz := range quizzes {
		out[quiz.ID] = quiz
	}
	return out
}
