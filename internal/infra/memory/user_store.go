package memory

import (
	"context"
	"sort"
	"sync"

	"quiz-submission-service/internal/domain"
)

// UserDetailsStore is an in-memory implementation of app.UserDetailsRepository.
type UserDetailsStore struct {
	mu      sync.RWMutex
	records []domain.UserDetails
}

func NewUserDetailsStore() *UserDetailsStore {
	return &UserDetailsStore{}
}

func (s *UserDetailsStore) Create(_ context.Context, details *domain.UserDetails) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, *details)
	return nil
}

func (s *UserDetailsStore) FindByID(_ context.Context, id string) (domain.UserDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return domain.UserDetails{}, domain.ErrNotFound
}

func (s *UserDetailsStore) FindByEmail(_ context.Context, email string) (domain.UserDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if rec.Email == email {
			return rec, nil
		}
	}
	return domain.UserDetails{}, domain.ErrNotFound
}

// AccountStore is an in-memory implementation of app.AccountRepository.
type AccountStore struct {
	mu       sync.RWMutex
	accounts map[string]domain.UserAccount
	byEmail  map[string]string
}

func NewAccountStore() *AccountStore {
	return &AccountStore{
		accounts: make(map[string]domain.UserAccount),
		byEmail:  make(map[string]string),
	}
}

func (s *AccountStore) Create(_ context.Context, account *domain.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[account.Email]; taken {
		return domain.ErrConflict
	}
	s.accounts[account.ID] = *account
	s.byEmail[account.Email] = account.ID
	return nil
}

func (s *AccountStore) FindByID(_ context.Context, id string) (domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	if !ok {
		return domain.UserAccount{}, domain.ErrNotFound
	}
	return account, nil
}

// AttemptStore is an in-memory implementation of app.AttemptRepository.
type AttemptStore struct {
	mu       sync.RWMutex
	attempts []domain.QuizAttempt
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{}
}

func (s *AttemptStore) Create(_ context.Context, attempt *domain.QuizAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = append(s.attempts, *attempt)
	return nil
}

func (s *AttemptStore) FindByID(_ context.Context, id string) (domain.QuizAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.attempts {
		if a.ID == id {
			return a, nil
		}
	}
	return domain.QuizAttempt{}, domain.ErrNotFound
}

func (s *AttemptStore) FindByUserID(_ context.Context, userID string) ([]domain.QuizAttempt, error) {
	return s.newestFirst(func(a domain.QuizAttempt) bool { return a.UserID == userID }), nil
}

func (s *AttemptStore) List(_ context.Context, limit, skip int) ([]domain.QuizAttempt, int64, error) {
	all := s.newestFirst(func(domain.QuizAttempt) bool { return true })
	return window(all, skip, limit), int64(len(all)), nil
}

func (s *AttemptStore) newestFirst(match func(domain.QuizAttempt) bool) []domain.QuizAttempt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.QuizAttempt, 0)
	for i := len(s.attempts) - 1; i >= 0; i-- {
		if match(s.attempts[i]) {
			out = append(out, s.attempts[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out
}
