package app_test

import (
	"testing"

	"quiz-submission-service/internal/app"
	"quiz-submission-service/internal/domain"
)

func TestFeedDeliversPerVariant(t *testing.T) {
	feed := app.NewFeed()
	chA, cancelA := feed.Subscribe(domain.VariantA)
	defer cancelA()
	chB, cancelB := feed.Subscribe(domain.VariantB)
	defer cancelB()

	feed.Publish(domain.Submission{ID: "1", Variant: domain.VariantA})

	if got := <-chA; got.ID != "1" {
		t.Fatalf("expected submission 1, got %+v", got)
	}
	select {
	case got := <-chB:
		t.Fatalf("variant B must not receive A submissions, got %+v", got)
	default:
	}
}

func TestFeedSlowSubscriberDropsOldest(t *testing.T) {
	feed := app.NewFeed()
	ch, cancel := feed.Subscribe(domain.VariantC)
	defer cancel()

	for i := 0; i < 20; i++ {
		feed.Publish(domain.Submission{ID: string(rune('a' + i)), Variant: domain.VariantC})
	}
	var last domain.Submission
	for len(ch) > 0 {
		last = <-ch
	}
	if last.ID != string(rune('a'+19)) {
		t.Fatalf("expected newest submission to survive, got %q", last.ID)
	}
}

func TestFeedCancelUnsubscribes(t *testing.T) {
	feed := app.NewFeed()
	ch, cancel := feed.Subscribe(domain.VariantD)
	if feed.Subscribers(domain.VariantD) != 1 {
		t.Fatalf("expected one subscriber")
	}
	cancel()
	cancel()
	if feed.Subscribers(domain.VariantD) != 0 {
		t.Fatalf("expected no subscribers after cancel")
	}
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel to be closed")
	}
	feed.Publish(domain.Submission{Variant: domain.VariantD})
}
