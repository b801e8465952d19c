package integration

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"quiz-submission-service/internal/app"
	"quiz-submission-service/internal/domain"
	"quiz-submission-service/internal/infra/memory"
	"quiz-submission-service/internal/infra/rabbitmq"
)

func TestRabbitMQEvents(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	uri, cleanup := startContainer(t, ctx, tc.ContainerRequest{
		Image:        "rabbitmq:3.13-alpine",
		Env:          map[string]string{"RABBITMQ_DEFAULT_USER": "quiz", "RABBITMQ_DEFAULT_PASS": "quizpass"},
		ExposedPorts: []string{"5672/tcp"},
		WaitingFor:   wait.ForLog("Server startup complete").WithStartupTimeout(90 * time.Second),
	}, "5672/tcp", "amqp://quiz:quizpass@%s:%s/")
	defer cleanup()

	publisher, err := rabbitmq.NewPublisher(uri, "")
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}
	defer publisher.Close()

	deliveries := consumeAll(t, uri, rabbitmq.DefaultExchange)

	submissions := app.NewSubmissionService(memory.NewSubmissionStore(), nil, publisher, app.DefaultSubmissionOptions())
	score, pct := 4.0, 3.2
	created, err := submissions.Create(ctx, domain.VariantC, domain.SubmissionInput{
		UserEmail:       "events@example.com",
		Answers:         []domain.AnswerInput{{QuestionID: "q1", Value: "4", Label: "Agree", Score: &score}},
		TotalScore:      &score,
		PercentageScore: &pct,
	})
	if err != nil {
		t.Fatalf("create submission: %v", err)
	}

	created1 := readDelivery(t, deliveries)
	if created1.RoutingKey != rabbitmq.SubmissionCreatedKey || created1.ContentType != "application/json" {
		t.Fatalf("unexpected delivery key=%s type=%s", created1.RoutingKey, created1.ContentType)
	}
	if created1.DeliveryMode != amqp091.Persistent {
		t.Fatalf("expected persistent delivery, got %d", created1.DeliveryMode)
	}
	if created1.Headers["variant"] != "C" || created1.Headers["user_email"] != "events@example.com" {
		t.Fatalf("unexpected headers %v", created1.Headers)
	}
	var subEvent rabbitmq.SubmissionEvent
	if err := json.Unmarshal(created1.Body, &subEvent); err != nil {
		t.Fatalf("decode submission event: %v", err)
	}
	if subEvent.EventType != rabbitmq.SubmissionCreatedKey || subEvent.Submission.ID != created.ID ||
		subEvent.Submission.Variant != domain.VariantC || subEvent.Submission.Answers[0].Score != 4 {
		t.Fatalf("unexpected submission event %+v", subEvent)
	}

	quizzes := app.NewQuizService(
		memory.NewQuizRepository(memory.NewStaticQuizLoader(map[string]domain.Quiz{"quiz-1": sampleQuiz()}), time.Minute),
		memory.NewAttemptStore(), publisher, app.DefaultSubmissionOptions())
	attempt, err := quizzes.Submit(ctx, domain.QuizAttemptInput{UserID: "u1", QuizID: "quiz-1", Answers: []string{"4", "Paris"}})
	if err != nil {
		t.Fatalf("submit quiz: %v", err)
	}

	scored := readDelivery(t, deliveries)
	if scored.RoutingKey != rabbitmq.QuizScoredKey {
		t.Fatalf("expected %s, got %s", rabbitmq.QuizScoredKey, scored.RoutingKey)
	}
	if scored.Headers["quiz_id"] != "quiz-1" || scored.Headers["user_id"] != "u1" {
		t.Fatalf("unexpected headers %v", scored.Headers)
	}
	var scoredEvent rabbitmq.QuizScoredEvent
	if err := json.Unmarshal(scored.Body, &scoredEvent); err != nil {
		t.Fatalf("decode quiz scored event: %v", err)
	}
	if scoredEvent.EventType != rabbitmq.QuizScoredKey || scoredEvent.Attempt.ID != attempt.ID ||
		scoredEvent.Attempt.Score != 2 || scoredEvent.Attempt.Percentage != 100 {
		t.Fatalf("unexpected quiz scored event %+v", scoredEvent)
	}
}

// consumeAll binds a private queue to every routing key on exchange.
func consumeAll(t *testing.T, uri, exchange string) <-chan amqp091.Delivery {
	t.Helper()
	conn, err := amqp091.Dial(uri)
	if err != nil {
		t.Fatalf("dial rabbitmq: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	ch, err := conn.Channel()
	if err != nil {
		t.Fatalf("open channel: %v", err)
	}
	queue, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		t.Fatalf("declare queue: %v", err)
	}
	if err := ch.QueueBind(queue.Name, "#", exchange, false, nil); err != nil {
		t.Fatalf("bind queue: %v", err)
	}
	deliveries, err := ch.Consume(queue.Name, "", true, true, false, false, nil)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	return deliveries
}

func readDelivery(t *testing.T, deliveries <-chan amqp091.Delivery) amqp091.Delivery {
	t.Helper()
	select {
	case d := <-deliveries:
		return d
	case <-time.After(10 * time.Second):
		t.Fatalf("timed out waiting for an event")
	}
	return amqp091.Delivery{}
}
