package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"quiz-submission-service/internal/domain"
)

func writeQuizFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quizzes.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestReadQuizFile(t *testing.T) {
	path := writeQuizFile(t, `quizzes:
  - id: quiz-1
    title: Basics
    questions:
      - id: q1
        prompt: What is 2 + 2?
        options: ["3", "4"]
        correctAnswer: "4"
      - id: q2
        prompt: Capital of France?
        correctAnswer: Paris
`)

	quizzes, err := ReadQuizFile(path)
	if err != nil {
		t.Fatalf("read quiz file: %v", err)
	}
	if len(quizzes) != 1 || len(quizzes[0].Questions) != 2 {
		t.Fatalf("unexpected quizzes: %+v", quizzes)
	}
	if quizzes[0].Questions[1].CorrectAnswer != "Paris" {
		t.Fatalf("expected ordered questions, got %+v", quizzes[0].Questions)
	}

	loader := NewStaticQuizLoader(QuizMap(quizzes))
	quiz, err := loader.LoadQuiz(context.Background(), "quiz-1")
	if err != nil || quiz.Title != "Basics" {
		t.Fatalf("expected quiz-1 indexed, got %+v err=%v", quiz, err)
	}
	if _, err := loader.LoadQuiz(context.Background(), "quiz-2"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestReadQuizFileRejectsBadQuizzes(t *testing.T) {
	tests := map[string]string{
		"missing quiz id":      "quizzes:\n  - title: nameless\n",
		"missing question id":  "quizzes:\n  - id: q\n    questions:\n      - prompt: p\n",
		"repeated question id": "quizzes:\n  - id: q\n    questions:\n      - id: a\n      - id: a\n",
		"not yaml":             "quizzes: [",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ReadQuizFile(writeQuizFile(t, content)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestReadQuizFileMissing(t *testing.T) {
	if _, err := ReadQuizFile(filepath.Join(t.TempDir(), "none.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
