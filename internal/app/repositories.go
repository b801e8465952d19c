package app

import (
	"context"

	"quiz-submission-service/internal/domain"
)

// SubmissionRepository stores all variants' submissions in one place, discriminated by variant.
// List methods return newest first.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *domain.Submission) error
	FindByID(ctx context.Context, variant domain.Variant, id string) (domain.Submission, error)
	FindByEmail(ctx context.Context, variant domain.Variant, email string) ([]domain.Submission, error)
	FindByUserID(ctx context.Context, variant domain.Variant, userID string) ([]domain.Submission, error)
	List(ctx context.Context, query domain.SubmissionQuery) ([]domain.Submission, int64, error)
}

// UserDetailsRepository stores demographic records.
type UserDetailsRepository interface {
	Create(ctx context.Context, details *domain.UserDetails) error
	FindByID(ctx context.Context, id string) (domain.UserDetails, error)
	// FindByEmail returns the earliest record for email.
	FindByEmail(ctx context.Context, email string) (domain.UserDetails, error)
}

// AccountRepository stores registered accounts; Create returns domain.ErrConflict on a duplicate email.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.UserAccount) error
	FindByID(ctx context.Context, id string) (domain.UserAccount, error)
}

// AttemptRepository stores server-scored quiz attempts.
type AttemptRepository interface {
	Create(ctx context.Context, attempt *domain.QuizAttempt) error
	FindByID(ctx context.Context, id string) (domain.QuizAttempt, error)
	FindByUserID(ctx context.Context, userID string) ([]domain.QuizAttempt, error)
	List(ctx context.Context, limit, skip int) ([]domain.QuizAttempt, int64, error)
}

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// EventPublisher announces recorded submissions to other services.
type EventPublisher interface {
	PublishSubmission(ctx context.Context, submission domain.Submission) error
	PublishQuizScored(ctx context.Context, attempt domain.QuizAttempt) error
}
