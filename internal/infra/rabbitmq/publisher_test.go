package rabbitmq

import (
	"context"
	"testing"

	"quiz-submission-service/internal/domain"
)

func TestDisabledPublisherIsNoop(t *testing.T) {
	p, err := NewPublisher("", "")
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}
	if p.enabled || p.channel != nil {
		t.Fatalf("expected publisher to be disabled without a uri")
	}
	if p.exchange != DefaultExchange {
		t.Fatalf("expected default exchange, got %q", p.exchange)
	}
	ctx := context.Background()
	if err := p.PublishSubmission(ctx, domain.Submission{Variant: domain.VariantA}); err != nil {
		t.Fatalf("publish submission: %v", err)
	}
	if err := p.PublishQuizScored(ctx, domain.QuizAttempt{QuizID: "quiz-1"}); err != nil {
		t.Fatalf("publish attempt: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
