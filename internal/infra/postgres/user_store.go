package postgres

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"quiz-submission-service/internal/domain"
)

type userDetailsRow struct {
	bun.BaseModel `bun:"table:user_details,alias:ud"`

	ID                  string    `bun:"id,pk"`
	FullName            string    `bun:"full_name,notnull"`
	Email               string    `bun:"email,notnull"`
	Phone               string    `bun:"phone,nullzero"`
	Age                 string    `bun:"age,notnull"`
	Gender              string    `bun:"gender,notnull"`
	GenderDescription   string    `bun:"gender_description,nullzero"`
	Education           string    `bun:"education,notnull"`
	Occupation          string    `bun:"occupation,nullzero"`
	AIExperience        string    `bun:"ai_experience,notnull"`
	AITools             []string  `bun:"ai_tools,type:jsonb"`
	OtherAIText         string    `bun:"other_ai_text,nullzero"`
	Location            string    `bun:"location,notnull"`
	Language            string    `bun:"language,notnull"`
	Accessibility       string    `bun:"accessibility,nullzero"`
	AssistiveTechnology string    `bun:"assistive_technology,nullzero"`
	AdditionalComments  string    `bun:"additional_comments,nullzero"`
	CreatedAt           time.Time `bun:"created_at,notnull"`
}

// UserDetailsStore persists demographic surveys in user_details.
type UserDetailsStore struct {
	db *bun.DB
}

func NewUserDetailsStore(db *bun.DB) *UserDetailsStore {
	return &UserDetailsStore{db: db}
}

func (s *UserDetailsStore) Create(ctx context.Context, d *domain.UserDetails) error {
	row := userDetailsRow{
		ID:                  d.ID,
		FullName:            d.FullName,
		Email:               d.Email,
		Phone:               d.Phone,
		Age:                 d.Age,
		Gender:              d.Gender,
		GenderDescription:   d.GenderDescription,
		Education:           d.Education,
		Occupation:          d.Occupation,
		AIExperience:        d.AIExperience,
		AITools:             d.AITools,
		OtherAIText:         d.OtherAIText,
		Location:            d.Location,
		Language:            d.Language,
		Accessibility:       d.Accessibility,
		AssistiveTechnology: d.AssistiveTechnology,
		AdditionalComments:  d.AdditionalComments,
		CreatedAt:           d.CreatedAt,
	}
	_, err := s.db.NewInsert().Model(&row).Exec(ctx)
	return mapError("insert user details", err)
}

func (s *UserDetailsStore) FindByID(ctx context.Context, id string) (domain.UserDetails, error) {
	var row userDetailsRow
	if err := s.db.NewSelect().Model(&row).Where("ud.id = ?", id).Scan(ctx); err != nil {
		return domain.UserDetails{}, mapError("select user details", err)
	}
	return row.toDomain(), nil
}

func (s *UserDetailsStore) FindByEmail(ctx context.Context, email string) (domain.UserDetails, error) {
	var row userDetailsRow
	err := s.db.NewSelect().Model(&row).
		Where("ud.email = ?", email).
		Order("ud.created_at ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return domain.UserDetails{}, mapError("select user details", err)
	}
	return row.toDomain(), nil
}

func (r userDetailsRow) toDomain() domain.UserDetails {
	return domain.UserDetails{
		ID:                  r.ID,
		FullName:            r.FullName,
		Email:               r.Email,
		Phone:               r.Phone,
		Age:                 r.Age,
		Gender:              r.Gender,
		GenderDescription:   r.GenderDescription,
		Education:           r.Education,
		Occupation:          r.Occupation,
		AIExperience:        r.AIExperience,
		AITools:             r.AITools,
		OtherAIText:         r.OtherAIText,
		Location:            r.Location,
		Language:            r.Language,
		Accessibility:       r.Accessibility,
		AssistiveTechnology: r.AssistiveTechnology,
		AdditionalComments:  r.AdditionalComments,
		CreatedAt:           r.CreatedAt.UTC(),
	}
}

type accountRow struct {
	bun.BaseModel `bun:"table:user_accounts,alias:ua"`

	ID           string    `bun:"id,pk"`
	Name         string    `bun:"name,notnull"`
	Email        string    `bun:"email,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull"`
}

// AccountStore persists registered accounts in user_accounts.
type AccountStore struct {
	db *bun.DB
}

func NewAccountStore(db *bun.DB) *AccountStore {
	return &AccountStore{db: db}
}

func (s *AccountStore) Create(ctx context.Context, a *domain.UserAccount) error {
	row := accountRow{ID: a.ID, Name: a.Name, Email: a.Email, PasswordHash: a.PasswordHash, CreatedAt: a.CreatedAt}
	_, err := s.db.NewInsert().Model(&row).Exec(ctx)
	return mapError("insert account", err)
}

func (s *AccountStore) FindByID(ctx context.Context, id string) (domain.UserAccount, error) {
	var row accountRow
	if err := s.db.NewSelect().Model(&row).Where("ua.id = ?", id).Scan(ctx); err != nil {
		return domain.UserAccount{}, mapError("select account", err)
	}
	return domain.UserAccount{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt.UTC(),
	}, nil
}

type attemptRow struct {
	bun.BaseModel `bun:"table:quiz_attempts,alias:qa"`

	ID             string                  `bun:"id,pk"`
	UserID         string                  `bun:"user_id,notnull"`
	QuizID         string                  `bun:"quiz_id,notnull"`
	Answers        []string                `bun:"answers,type:jsonb,notnull"`
	Score          int                     `bun:"score,notnull"`
	TotalQuestions int                     `bun:"total_questions,notnull"`
	Percentage     float64                 `bun:"percentage,notnull"`
	Results        []domain.QuestionResult `bun:"results,type:jsonb,notnull"`
	SubmittedAt    time.Time               `bun:"submitted_at,notnull"`
}

func (r attemptRow) toDomain() domain.QuizAttempt {
	return domain.QuizAttempt{
		ID:             r.ID,
		UserID:         r.UserID,
		QuizID:         r.QuizID,
		Answers:        r.Answers,
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
		Percentage:     r.Percentage,
		Results:        r.Results,
		SubmittedAt:    r.SubmittedAt.UTC(),
	}
}

// AttemptStore persists server-scored attempts in quiz_attempts.
type AttemptStore struct {
	db *bun.DB
}

func NewAttemptStore(db *bun.DB) *AttemptStore {
	return &AttemptStore{db: db}
}

func (s *AttemptStore) Create(ctx context.Context, a *domain.QuizAttempt) error {
	row := attemptRow{
		ID:             a.ID,
		UserID:         a.UserID,
		QuizID:         a.QuizID,
		Answers:        a.Answers,
		Score:          a.Score,
		TotalQuestions: a.TotalQuestions,
		Percentage:     a.Percentage,
		Results:        a.Results,
		SubmittedAt:    a.SubmittedAt,
	}
	_, err := s.db.NewInsert().Model(&row).Exec(ctx)
	return mapError("insert attempt", err)
}

func (s *AttemptStore) FindByID(ctx context.Context, id string) (domain.QuizAttempt, error) {
	var row attemptRow
	if err := s.db.NewSelect().Model(&row).Where("qa.id = ?", id).Scan(ctx); err != nil {
		return domain.QuizAttempt{}, mapError("select attempt", err)
	}
	return row.toDomain(), nil
}

func (s *AttemptStore) FindByUserID(ctx context.Context, userID string) ([]domain.QuizAttempt, error) {
	var rows []attemptRow
	err := s.db.NewSelect().Model(&rows).
		Where("qa.user_id = ?", userID).
		Order("qa.submitted_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, mapError("select attempts", err)
	}
	return toAttempts(rows), nil
}

func (s *AttemptStore) List(ctx context.Context, limit, skip int) ([]domain.QuizAttempt, int64, error) {
	var rows []attemptRow
	total, err := s.db.NewSelect().Model(&rows).
		Order("qa.submitted_at DESC").
		Limit(limit).
		Offset(skip).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, mapError("list attempts", err)
	}
	return toAttempts(rows), int64(total), nil
}

func toAttempts(rows []attemptRow) []domain.QuizAttempt {
	out := make([]domain.QuizAttempt, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}
