package memory

import (
	"context"
	"sort"
	"sync"

	"quiz-submission-service/internal/domain"
)

// SubmissionStore is an in-memory implementation of app.SubmissionRepository.
type SubmissionStore struct {
	mu          sync.RWMutex
	submissions []domain.Submission
}

func NewSubmissionStore() *SubmissionStore {
	return &SubmissionStore{}
}

func (s *SubmissionStore) Create(_ context.Context, submission *domain.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *submission
	stored.Answers = append([]domain.Answer(nil), submission.Answers...)
	s.submissions = append(s.submissions, stored)
	return nil
}

func (s *SubmissionStore) FindByID(_ context.Context, variant domain.Variant, id string) (domain.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sub := range s.submissions {
		if sub.Variant == variant && sub.ID == id {
			return sub, nil
		}
	}
	return domain.Submission{}, domain.ErrNotFound
}

func (s *SubmissionStore) FindByEmail(_ context.Context, variant domain.Variant, email string) ([]domain.Submission, error) {
	return s.filter(func(sub domain.Submission) bool {
		return sub.Variant == variant && sub.UserEmail == email
	}), nil
}

func (s *SubmissionStore) FindByUserID(_ context.Context, variant domain.Variant, userID string) ([]domain.Submission, error) {
	return s.filter(func(sub domain.Submission) bool {
		return sub.Variant == variant && sub.UserID == userID
	}), nil
}

func (s *SubmissionStore) List(_ context.Context, query domain.SubmissionQuery) ([]domain.Submission, int64, error) {
	matched := s.filter(func(sub domain.Submission) bool {
		return sub.Variant == query.Variant && (query.Email == "" || sub.UserEmail == query.Email)
	})
	return window(matched, query.Skip, query.Limit), int64(len(matched)), nil
}

// filter returns matching submissions newest first; equal timestamps keep the latest insert first.
func (s *SubmissionStore) filter(match func(domain.Submission) bool) []domain.Submission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Submission, 0)
	for i := len(s.submissions) - 1; i >= 0; i-- {
		if match(s.submissions[i]) {
			out = append(out, s.submissions[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out
}

func window[T any](items []T, skip, limit int) []T {
	if skip >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	return items[skip:end]
}
