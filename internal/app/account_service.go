package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"quiz-submission-service/internal/domain"
)

// Registration is the sign-up payload.
type Registration struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AccountService registers respondents for the server-scored quiz flow.
type AccountService struct {
	repo AccountRepository
	cost int
	now  func() time.Time
}

func NewAccountService(repo AccountRepository) *AccountService {
	return &AccountService{repo: repo, cost: bcrypt.DefaultCost, now: time.Now}
}

// NewAccountServiceWithCost lets tests use bcrypt.MinCost.
func NewAccountServiceWithCost(repo AccountRepository, cost int) *AccountService {
	svc := NewAccountService(repo)
	svc.cost = cost
	return svc
}

// Register stores a new account with a bcrypt password hash.
func (s *AccountService) Register(ctx context.Context, reg Registration) (domain.UserAccount, error) {
	if err := domain.Validate(reg); err != nil {
		return domain.UserAccount{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.cost)
	if err != nil {
		return domain.UserAccount{}, fmt.Errorf("hash password: %w", err)
	}
	account := domain.UserAccount{
		ID:           domain.NewID(),
		Name:         reg.Name,
		Email:        reg.Email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC().Truncate(time.Millisecond),
	}
	if err := s.repo.Create(ctx, &account); err != nil {
		return domain.UserAccount{}, err
	}
	return account, nil
}

func (s *AccountService) Get(ctx context.Context, id string) (domain.UserAccount, error) {
	if !domain.ValidID(id) {
		return domain.UserAccount{}, domain.ErrNotFound
	}
	return s.repo.FindByID(ctx, id)
}
