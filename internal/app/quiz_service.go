package app

import (
	"context"
	"log"
	"strings"
	"time"

	"quiz-submission-service/internal/domain"
)

// QuizService scores answer sets against stored quiz definitions.
type QuizService struct {
	quizzes   QuizRepository
	attempts  AttemptRepository
	publisher EventPublisher
	opts      SubmissionOptions
	now       func() time.Time
}

func NewQuizService(quizzes QuizRepository, attempts AttemptRepository, publisher EventPublisher, opts SubmissionOptions) *QuizService {
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = DefaultSubmissionOptions().MaxLimit
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = DefaultSubmissionOptions().DefaultLimit
	}
	return &QuizService{quizzes: quizzes, attempts: attempts, publisher: publisher, opts: opts, now: time.Now}
}

// Submit scores answers positionally against the quiz and stores the attempt.
func (s *QuizService) Submit(ctx context.Context, in domain.QuizAttemptInput) (domain.QuizAttempt, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return domain.QuizAttempt{}, domain.NewValidationError("userId", "User id is required")
	}
	if strings.TrimSpace(in.QuizID) == "" {
		return domain.QuizAttempt{}, domain.NewValidationError("quizId", "Quiz id is required")
	}

	quiz, err := s.quizzes.GetQuiz(ctx, in.QuizID)
	if err != nil {
		return domain.QuizAttempt{}, err
	}

	score, results := scoreAttempt(quiz, in.Answers)
	attempt := domain.QuizAttempt{
		ID:             domain.NewID(),
		UserID:         in.UserID,
		QuizID:         in.QuizID,
		Answers:        in.Answers,
		Score:          score,
		TotalQuestions: len(quiz.Questions),
		Percentage:     percentage(score, len(quiz.Questions)),
		Results:        results,
		SubmittedAt:    s.now().UTC().Truncate(time.Millisecond),
	}
	if attempt.Answers == nil {
		attempt.Answers = []string{}
	}
	if err := s.attempts.Create(ctx, &attempt); err != nil {
		return domain.QuizAttempt{}, err
	}
	if s.publisher != nil {
		if err := s.publisher.PublishQuizScored(ctx, attempt); err != nil {
			log.Printf("publish quiz attempt %s: %v", attempt.ID, err)
		}
	}
	return attempt, nil
}

func (s *QuizService) GetAttempt(ctx context.Context, id string) (domain.QuizAttempt, error) {
	if !domain.ValidID(id) {
		return domain.QuizAttempt{}, domain.ErrNotFound
	}
	return s.attempts.FindByID(ctx, id)
}

func (s *QuizService) AttemptsByUser(ctx context.Context, userID string) ([]domain.QuizAttempt, error) {
	attempts, err := s.attempts.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if attempts == nil {
		attempts = []domain.QuizAttempt{}
	}
	return attempts, nil
}

// ListAttempts pages through every attempt, newest first.
func (s *QuizService) ListAttempts(ctx context.Context, limit, skip int) ([]domain.QuizAttempt, domain.Page, error) {
	limit, skip = ClampPage(limit, skip, s.opts.MaxLimit)
	attempts, total, err := s.attempts.List(ctx, limit, skip)
	if err != nil {
		return nil, domain.Page{}, err
	}
	if attempts == nil {
		attempts = []domain.QuizAttempt{}
	}
	return attempts, domain.Page{Total: total, Limit: limit, Skip: skip}, nil
}

func (s *QuizService) DefaultLimit() int {
	return s.opts.DefaultLimit
}

// scoreAttempt compares answers[i] with question i; a missing answer counts as wrong.
func scoreAttempt(quiz domain.Quiz, answers []string) (int, []domain.QuestionResult) {
	score := 0
	results := make([]domain.QuestionResult, 0, len(quiz.Questions))
	for i, question := range quiz.Questions {
		var answer string
		answered := i < len(answers)
		if answered {
			answer = answers[i]
		}
		correct := answered && answer == question.CorrectAnswer
		if correct {
			score++
		}
		results = append(results, domain.QuestionResult{
			QuestionID: question.ID,
			UserAnswer: answer,
			IsCorrect:  correct,
		})
	}
	return score, results
}

func percentage(score, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(score) / float64(total) * 100
}
