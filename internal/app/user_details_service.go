package app

import (
	"context"
	"time"

	"quiz-submission-service/internal/domain"
)

// UserDetailsService records and looks up respondents' demographic surveys.
type UserDetailsService struct {
	repo UserDetailsRepository
	now  func() time.Time
}

func NewUserDetailsService(repo UserDetailsRepository) *UserDetailsService {
	return &UserDetailsService{repo: repo, now: time.Now}
}

// Create validates required and enumerated fields and stores a new record.
func (s *UserDetailsService) Create(ctx context.Context, details domain.UserDetails) (domain.UserDetails, error) {
	if err := domain.Validate(details); err != nil {
		return domain.UserDetails{}, err
	}
	details.ID = domain.NewID()
	details.CreatedAt = s.now().UTC().Truncate(time.Millisecond)
	if err := s.repo.Create(ctx, &details); err != nil {
		return domain.UserDetails{}, err
	}
	return details, nil
}

func (s *UserDetailsService) GetByEmail(ctx context.Context, email string) (domain.UserDetails, error) {
	if email == "" {
		return domain.UserDetails{}, domain.ErrNotFound
	}
	return s.repo.FindByEmail(ctx, email)
}

// GetByID is kept for clients that still address records by identity.
func (s *UserDetailsService) GetByID(ctx context.Context, id string) (domain.UserDetails, error) {
	if !domain.ValidID(id) {
		return domain.UserDetails{}, domain.ErrNotFound
	}
	return s.repo.FindByID(ctx, id)
}
