package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-submission-service/internal/app"
	"quiz-submission-service/internal/domain"
	"quiz-submission-service/internal/infra/memory"
)

func newQuizService() (*app.QuizService, *recordingPublisher) {
	quizzes := memory.NewQuizRepository(memory.NewStaticQuizLoader(sampleQuizzes()), time.Minute)
	pub := &recordingPublisher{}
	return app.NewQuizService(quizzes, memory.NewAttemptStore(), pub, app.DefaultSubmissionOptions()), pub
}

func TestSubmitScoresPositionally(t *testing.T) {
	ctx := context.Background()
	service, pub := newQuizService()

	attempt, err := service.Submit(ctx, domain.QuizAttemptInput{
		UserID:  "u1",
		QuizID:  "quiz-1",
		Answers: []string{"4", "Lyon", "Blue"},
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if attempt.Score != 2 || attempt.TotalQuestions != 3 {
		t.Fatalf("expected 2/3, got %d/%d", attempt.Score, attempt.TotalQuestions)
	}
	// Typed operands: an untyped constant expression would round differently.
	correct, total := 2.0, 3.0
	if want := correct / total * 100; attempt.Percentage != want {
		t.Fatalf("expected percentage %v, got %v", want, attempt.Percentage)
	}
	wantCorrect := []bool{true, false, true}
	for i, r := range attempt.Results {
		if r.IsCorrect != wantCorrect[i] {
			t.Fatalf("result %d: expected correct=%v, got %+v", i, wantCorrect[i], r)
		}
	}
	if attempt.Results[1].QuestionID != "q2" || attempt.Results[1].UserAnswer != "Lyon" {
		t.Fatalf("unexpected result %+v", attempt.Results[1])
	}

	stored, err := service.GetAttempt(ctx, attempt.ID)
	if err != nil || stored.Score != 2 {
		t.Fatalf("expected stored attempt, got %+v err=%v", stored, err)
	}
	if len(pub.attempts) != 1 {
		t.Fatalf("expected quiz.scored to be published once, got %d", len(pub.attempts))
	}
}

func TestSubmitMissingAnswersCountAsWrong(t *testing.T) {
	service, _ := newQuizService()
	attempt, err := service.Submit(context.Background(), domain.QuizAttemptInput{UserID: "u1", QuizID: "quiz-1", Answers: []string{"4"}})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if attempt.Score != 1 || len(attempt.Results) != 3 {
		t.Fatalf("expected 1 correct over 3 results, got %+v", attempt)
	}
	if attempt.Results[2].UserAnswer != "" || attempt.Results[2].IsCorrect {
		t.Fatalf("unanswered question must be wrong, got %+v", attempt.Results[2])
	}
}

func TestSubmitEmptyQuizScoresZero(t *testing.T) {
	service, _ := newQuizService()
	attempt, err := service.Submit(context.Background(), domain.QuizAttemptInput{UserID: "u1", QuizID: "empty", Answers: []string{"x"}})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if attempt.Percentage != 0 || attempt.TotalQuestions != 0 {
		t.Fatalf("expected 0%% of 0 questions, got %+v", attempt)
	}
}

func TestSubmitErrors(t *testing.T) {
	ctx := context.Background()
	service, pub := newQuizService()

	if _, err := service.Submit(ctx, domain.QuizAttemptInput{QuizID: "quiz-1"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for missing user, got %v", err)
	}
	if _, err := service.Submit(ctx, domain.QuizAttemptInput{UserID: "u1"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for missing quiz, got %v", err)
	}
	if _, err := service.Submit(ctx, domain.QuizAttemptInput{UserID: "u1", QuizID: "quiz-unknown"}); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz not found, got %v", err)
	}
	if len(pub.attempts) != 0 {
		t.Fatalf("failed submissions must not be published")
	}
	if _, err := service.GetAttempt(ctx, "bogus"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for malformed id, got %v", err)
	}
}

func TestAttemptListing(t *testing.T) {
	ctx := context.Background()
	service, _ := newQuizService()
	for _, user := range []string{"u1", "u2", "u1"} {
		if _, err := service.Submit(ctx, domain.QuizAttemptInput{UserID: user, QuizID: "quiz-1", Answers: []string{"4"}}); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	mine, err := service.AttemptsByUser(ctx, "u1")
	if err != nil || len(mine) != 2 {
		t.Fatalf("expected 2 attempts for u1, got %d err=%v", len(mine), err)
	}
	none, err := service.AttemptsByUser(ctx, "nobody")
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("expected empty list, got %v err=%v", none, err)
	}

	page, meta, err := service.ListAttempts(ctx, 2, 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page) != 2 || meta.Total != 3 || meta.Limit != 2 || meta.Skip != 1 {
		t.Fatalf("unexpected page %d items, meta %+v", len(page), meta)
	}
	_, meta, _ = service.ListAttempts(ctx, 0, -1)
	if meta.Limit != 1 || meta.Skip != 0 {
		t.Fatalf("expected clamped page, got %+v", meta)
	}
}

func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"quiz-1": {
			ID: "quiz-1",
			Questions: []domain.Question{
				{ID: "q1", Prompt: "What is 2 + 2?", Options: []string{"3", "4", "5"}, CorrectAnswer: "4"},
				{ID: "q2", Prompt: "Capital of France?", Options: []string{"Lyon", "Paris"}, CorrectAnswer: "Paris"},
				{ID: "q3", Prompt: "Colour of the sky?", Options: []string{"Blue", "Green"}, CorrectAnswer: "Blue"},
			},
		},
		"empty": {ID: "empty"},
	}
}
