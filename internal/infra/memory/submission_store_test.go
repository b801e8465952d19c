package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-submission-service/internal/domain"
)

func TestSubmissionStoreSeparatesVariants(t *testing.T) {
	ctx := context.Background()
	store := NewSubmissionStore()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	a := domain.Submission{ID: domain.NewID(), Variant: domain.VariantA, UserEmail: "a@x.com", SubmittedAt: base}
	b := domain.Submission{ID: domain.NewID(), Variant: domain.VariantB, UserEmail: "a@x.com", SubmittedAt: base}
	for _, sub := range []domain.Submission{a, b} {
		sub := sub
		if err := store.Create(ctx, &sub); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	if _, err := store.FindByID(ctx, domain.VariantB, a.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected variant B lookup of an A submission to miss, got %v", err)
	}
	got, err := store.FindByID(ctx, domain.VariantA, a.ID)
	if err != nil || got.ID != a.ID {
		t.Fatalf("expected submission A, got %+v err=%v", got, err)
	}

	list, _ := store.FindByEmail(ctx, domain.VariantA, "a@x.com")
	if len(list) != 1 {
		t.Fatalf("expected one A submission, got %d", len(list))
	}
}

func TestSubmissionStoreNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewSubmissionStore()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	offsets := []int{3, 1, 5, 2, 4}
	for _, off := range offsets {
		sub := domain.Submission{
			ID:          domain.NewID(),
			Variant:     domain.VariantC,
			UserEmail:   "c@x.com",
			UserID:      "legacy-1",
			SubmittedAt: base.Add(time.Duration(off) * time.Minute),
		}
		if err := store.Create(ctx, &sub); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	for name, find := range map[string]func() ([]domain.Submission, error){
		"email":  func() ([]domain.Submission, error) { return store.FindByEmail(ctx, domain.VariantC, "c@x.com") },
		"userID": func() ([]domain.Submission, error) { return store.FindByUserID(ctx, domain.VariantC, "legacy-1") },
	} {
		list, err := find()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(list) != len(offsets) {
			t.Fatalf("%s: expected %d results, got %d", name, len(offsets), len(list))
		}
		for i := 1; i < len(list); i++ {
			if list[i-1].SubmittedAt.Before(list[i].SubmittedAt) {
				t.Fatalf("%s: results not sorted newest first at %d", name, i)
			}
		}
	}
}

func TestSubmissionStoreListWindow(t *testing.T) {
	ctx := context.Background()
	store := NewSubmissionStore()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	const n = 7
	for i := 0; i < n; i++ {
		email := "even@x.com"
		if i%2 == 1 {
			email = "odd@x.com"
		}
		sub := domain.Submission{ID: domain.NewID(), Variant: domain.VariantD, UserEmail: email, SubmittedAt: base.Add(time.Duration(i) * time.Second)}
		_ = store.Create(ctx, &sub)
	}

	cases := []struct {
		limit, skip int
		email       string
		wantLen     int
		wantTotal   int64
	}{
		{limit: 10, skip: 0, wantLen: 7, wantTotal: 7},
		{limit: 3, skip: 0, wantLen: 3, wantTotal: 7},
		{limit: 3, skip: 6, wantLen: 1, wantTotal: 7},
		{limit: 3, skip: 9, wantLen: 0, wantTotal: 7},
		{limit: 2, skip: 1, email: "odd@x.com", wantLen: 2, wantTotal: 3},
	}
	for _, tc := range cases {
		page, total, err := store.List(ctx, domain.SubmissionQuery{Variant: domain.VariantD, Email: tc.email, Limit: tc.limit, Skip: tc.skip})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(page) != tc.wantLen || total != tc.wantTotal {
			t.Fatalf("limit=%d skip=%d email=%q: got len=%d total=%d, want len=%d total=%d",
				tc.limit, tc.skip, tc.email, len(page), total, tc.wantLen, tc.wantTotal)
		}
	}
}

func TestAccountStoreRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store := NewAccountStore()
	first := domain.UserAccount{ID: domain.NewID(), Email: "dup@x.com"}
	if err := store.Create(ctx, &first); err != nil {
		t.Fatalf("create: %v", err)
	}
	second := domain.UserAccount{ID: domain.NewID(), Email: "dup@x.com"}
	if err := store.Create(ctx, &second); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUserDetailsStoreReturnsFirstByEmail(t *testing.T) {
	ctx := context.Background()
	store := NewUserDetailsStore()
	first := domain.UserDetails{ID: domain.NewID(), Email: "u@x.com", FullName: "First"}
	second := domain.UserDetails{ID: domain.NewID(), Email: "u@x.com", FullName: "Second"}
	_ = store.Create(ctx, &first)
	_ = store.Create(ctx, &second)

	got, err := store.FindByEmail(ctx, "u@x.com")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.FullName != "First" {
		t.Fatalf("expected first record, got %q", got.FullName)
	}
}
