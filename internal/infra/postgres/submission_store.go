package postgres

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"quiz-submission-service/internal/domain"
)

type submissionRow struct {
	bun.BaseModel `bun:"table:submissions,alias:s"`

	ID               string          `bun:"id,pk"`
	Variant          string          `bun:"variant,notnull"`
	UserEmail        string          `bun:"user_email,notnull"`
	UserID           string          `bun:"user_id,nullzero"`
	Answers          []domain.Answer `bun:"answers,type:jsonb,notnull"`
	TotalScore       float64         `bun:"total_score,notnull"`
	MaxPossibleScore float64         `bun:"max_possible_score,notnull"`
	PercentageScore  float64         `bun:"percentage_score,notnull"`
	SubmittedAt      time.Time       `bun:"submitted_at,notnull"`
}

func toSubmissionRow(s *domain.Submission) *submissionRow {
	return &submissionRow{
		ID:               s.ID,
		Variant:          string(s.Variant),
		UserEmail:        s.UserEmail,
		UserID:           s.UserID,
		Answers:          s.Answers,
		TotalScore:       s.TotalScore,
		MaxPossibleScore: s.MaxPossibleScore,
		PercentageScore:  s.PercentageScore,
		SubmittedAt:      s.SubmittedAt,
	}
}

func (r submissionRow) toDomain() domain.Submission {
	answers := r.Answers
	if answers == nil {
		answers = []domain.Answer{}
	}
	return domain.Submission{
		ID:               r.ID,
		Variant:          domain.Variant(r.Variant),
		UserEmail:        r.UserEmail,
		UserID:           r.UserID,
		Answers:          answers,
		TotalScore:       r.TotalScore,
		MaxPossibleScore: r.MaxPossibleScore,
		PercentageScore:  r.PercentageScore,
		SubmittedAt:      r.SubmittedAt.UTC(),
	}
}

// SubmissionStore keeps every variant in the submissions table, keyed by (variant, id).
type SubmissionStore struct {
	db *bun.DB
}

func NewSubmissionStore(db *bun.DB) *SubmissionStore {
	return &SubmissionStore{db: db}
}

func (s *SubmissionStore) Create(ctx context.Context, submission *domain.Submission) error {
	_, err := s.db.NewInsert().Model(toSubmissionRow(submission)).Exec(ctx)
	return mapError("insert submission", err)
}

func (s *SubmissionStore) FindByID(ctx context.Context, variant domain.Variant, id string) (domain.Submission, error) {
	var row submissionRow
	err := s.db.NewSelect().Model(&row).
		Where("s.variant = ?", string(variant)).
		Where("s.id = ?", id).
		Scan(ctx)
	if err != nil {
		return domain.Submission{}, mapError("select submission", err)
	}
	return row.toDomain(), nil
}

func (s *SubmissionStore) FindByEmail(ctx context.Context, variant domain.Variant, email string) ([]domain.Submission, error) {
	return s.findBy(ctx, variant, "s.user_email = ?", email)
}

func (s *SubmissionStore) FindByUserID(ctx context.Context, variant domain.Variant, userID string) ([]domain.Submission, error) {
	return s.findBy(ctx, variant, "s.user_id = ?", userID)
}

func (s *SubmissionStore) findBy(ctx context.Context, variant domain.Variant, cond string, arg any) ([]domain.Submission, error) {
	var rows []submissionRow
	err := s.db.NewSelect().Model(&rows).
		Where("s.variant = ?", string(variant)).
		Where(cond, arg).
		Order("s.submitted_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, mapError("select submissions", err)
	}
	return toSubmissions(rows), nil
}

func (s *SubmissionStore) List(ctx context.Context, query domain.SubmissionQuery) ([]domain.Submission, int64, error) {
	var rows []submissionRow
	q := s.db.NewSelect().Model(&rows).Where("s.variant = ?", string(query.Variant))
	if query.Email != "" {
		q = q.Where("s.user_email = ?", query.Email)
	}
	total, err := q.Order("s.submitted_at DESC").
		Limit(query.Limit).
		Offset(query.Skip).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, mapError("list submissions", err)
	}
	return toSubmissions(rows), int64(total), nil
}

func toSubmissions(rows []submissionRow) []domain.Submission {
	out := make([]domain.Submission, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}
