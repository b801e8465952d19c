package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"quiz-submission-service/internal/domain"
)

// SubmissionOptions tunes scoring and pagination for SubmissionService.
type SubmissionOptions struct {
	// MaxPossibleScore is stored when the caller omits one.
	MaxPossibleScore float64
	// RecomputeScores replaces caller-supplied totals with the sum of answer scores.
	RecomputeScores bool
	DefaultLimit    int
	MaxLimit        int
}

// DefaultSubmissionOptions keeps pass-through scoring and pages of 10, at most 100.
func DefaultSubmissionOptions() SubmissionOptions {
	return SubmissionOptions{
		MaxPossibleScore: domain.DefaultMaxPossibleScore,
		DefaultLimit:     10,
		MaxLimit:         100,
	}
}

// SubmissionService contains the per-variant submission use cases.
type SubmissionService struct {
	repo      SubmissionRepository
	feed      *Feed
	publisher EventPublisher
	opts      SubmissionOptions
	now       func() time.Time
}

func NewSubmissionService(repo SubmissionRepository, feed *Feed, publisher EventPublisher, opts SubmissionOptions) *SubmissionService {
	return NewSubmissionServiceWithClock(repo, feed, publisher, opts, time.Now)
}

// NewSubmissionServiceWithClock is test-only for deterministic timestamps.
func NewSubmissionServiceWithClock(repo SubmissionRepository, feed *Feed, publisher EventPublisher, opts SubmissionOptions, now func() time.Time) *SubmissionService {
	defaults := DefaultSubmissionOptions()
	if opts.MaxPossibleScore <= 0 {
		opts.MaxPossibleScore = defaults.MaxPossibleScore
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = defaults.DefaultLimit
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = defaults.MaxLimit
	}
	return &SubmissionService{repo: repo, feed: feed, publisher: publisher, opts: opts, now: now}
}

// Create validates and stores a submission for variant.
func (s *SubmissionService) Create(ctx context.Context, variant domain.Variant, in domain.SubmissionInput) (domain.Submission, error) {
	if !variant.Valid() {
		return domain.Submission{}, domain.ErrInvalidVariant
	}
	if strings.TrimSpace(in.UserEmail) == "" {
		return domain.Submission{}, domain.NewValidationError("userEmail", "User email is required")
	}
	if len(in.Answers) == 0 {
		return domain.Submission{}, domain.NewValidationError("answers", "Answers are required and must be an array")
	}
	answers := make([]domain.Answer, 0, len(in.Answers))
	for i, answer := range in.Answers {
		if err := domain.Validate(answer); err != nil {
			ve := err.(*domain.ValidationError)
			return domain.Submission{}, domain.NewValidationError(fmt.Sprintf("answers[%d].%s", i, ve.Field), ve.Message)
		}
		answers = append(answers, answer.Answer())
	}

	submission := domain.Submission{
		ID:               domain.NewID(),
		Variant:          variant,
		UserEmail:        in.UserEmail,
		UserID:           in.UserID,
		Answers:          answers,
		MaxPossibleScore: s.opts.MaxPossibleScore,
		SubmittedAt:      s.now().UTC().Truncate(time.Millisecond),
	}
	if in.MaxPossibleScore != nil {
		submission.MaxPossibleScore = *in.MaxPossibleScore
	}

	if s.opts.RecomputeScores {
		submission.TotalScore, submission.PercentageScore = computeScores(answers, submission.MaxPossibleScore)
	} else {
		if in.TotalScore == nil {
			return domain.Submission{}, domain.NewValidationError("totalScore", "Total score is required")
		}
		if in.PercentageScore == nil {
			return domain.Submission{}, domain.NewValidationError("percentageScore", "Percentage score is required")
		}
		submission.TotalScore = *in.TotalScore
		submission.PercentageScore = *in.PercentageScore
	}

	if err := s.repo.Create(ctx, &submission); err != nil {
		return domain.Submission{}, err
	}

	if s.feed != nil {
		s.feed.Publish(submission)
	}
	if s.publisher != nil {
		if err := s.publisher.PublishSubmission(ctx, submission); err != nil {
			log.Printf("publish submission %s %s: %v", variant, submission.ID, err)
		}
	}
	return submission, nil
}

// ListByEmail returns the variant's submissions for email, newest first, with derived counts.
func (s *SubmissionService) ListByEmail(ctx context.Context, variant domain.Variant, email string) ([]domain.SubmissionView, error) {
	if !variant.Valid() {
		return nil, domain.ErrInvalidVariant
	}
	submissions, err := s.repo.FindByEmail(ctx, variant, email)
	if err != nil {
		return nil, err
	}
	views := make([]domain.SubmissionView, 0, len(submissions))
	for _, sub := range submissions {
		views = append(views, domain.NewSubmissionView(sub))
	}
	return views, nil
}

// ListByUserID serves the legacy lookup by the optional userId field.
func (s *SubmissionService) ListByUserID(ctx context.Context, variant domain.Variant, userID string) ([]domain.Submission, error) {
	if !variant.Valid() {
		return nil, domain.ErrInvalidVariant
	}
	submissions, err := s.repo.FindByUserID(ctx, variant, userID)
	if err != nil {
		return nil, err
	}
	if submissions == nil {
		submissions = []domain.Submission{}
	}
	return submissions, nil
}

// Get returns one submission; a malformed id is reported as domain.ErrNotFound.
func (s *SubmissionService) Get(ctx context.Context, variant domain.Variant, id string) (domain.Submission, error) {
	if !variant.Valid() {
		return domain.Submission{}, domain.ErrInvalidVariant
	}
	if !domain.ValidID(id) {
		return domain.Submission{}, domain.ErrNotFound
	}
	return s.repo.FindByID(ctx, variant, id)
}

// List returns one page of the variant's submissions plus the total for the filter.
func (s *SubmissionService) List(ctx context.Context, query domain.SubmissionQuery) ([]domain.Submission, domain.Page, error) {
	if !query.Variant.Valid() {
		return nil, domain.Page{}, domain.ErrInvalidVariant
	}
	query.Limit, query.Skip = ClampPage(query.Limit, query.Skip, s.opts.MaxLimit)
	submissions, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, domain.Page{}, err
	}
	if submissions == nil {
		submissions = []domain.Submission{}
	}
	return submissions, domain.Page{Total: total, Limit: query.Limit, Skip: query.Skip}, nil
}

// DefaultLimit is the page size used when the caller gives none.
func (s *SubmissionService) DefaultLimit() int {
	return s.opts.DefaultLimit
}

// ClampPage bounds limit to [1, maxLimit] and skip to >= 0.
func ClampPage(limit, skip, maxLimit int) (int, int) {
	if limit < 1 {
		limit = 1
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	if skip < 0 {
		skip = 0
	}
	return limit, skip
}

func computeScores(answers []domain.Answer, maxPossible float64) (float64, float64) {
	var total float64
	for _, a := range answers {
		total += a.Score
	}
	if maxPossible <= 0 {
		return total, 0
	}
	return total, total / maxPossible * 100
}
