package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"quiz-submission-service/internal/domain"
)

// Routing keys on the submissions exchange.
const (
	SubmissionCreatedKey = "submission.created"
	QuizScoredKey        = "quiz.scored"
)

const DefaultExchange = "quiz.submissions"

// SubmissionEvent is the body published for a recorded submission.
type SubmissionEvent struct {
	EventType  string            `json:"eventType"`
	Submission domain.Submission `json:"submission"`
	OccurredAt time.Time         `json:"occurredAt"`
}

// QuizScoredEvent is the body published for a server-scored attempt.
type QuizScoredEvent struct {
	EventType  string             `json:"eventType"`
	Attempt    domain.QuizAttempt `json:"attempt"`
	OccurredAt time.Time          `json:"occurredAt"`
}

// Publisher sends submission events to a topic exchange.
// With an empty URI it is disabled and every publish is a no-op.
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	enabled  bool
}

func NewPublisher(uri, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if uri == "" {
		log.Println("rabbitmq uri is empty, event publishing is disabled")
		return &Publisher{exchange: exchange}, nil
	}

	conn, err := amqp091.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	log.Printf("event publisher ready on exchange %s", exchange)
	return &Publisher{conn: conn, channel: channel, exchange: exchange, enabled: true}, nil
}

func (p *Publisher) PublishSubmission(ctx context.Context, submission domain.Submission) error {
	event := SubmissionEvent{
		EventType:  SubmissionCreatedKey,
		Submission: submission,
		OccurredAt: time.Now().UTC(),
	}
	return p.publish(ctx, SubmissionCreatedKey, event, amqp091.Table{
		"variant":    submission.Variant.String(),
		"user_email": submission.UserEmail,
	})
}

func (p *Publisher) PublishQuizScored(ctx context.Context, attempt domain.QuizAttempt) error {
	event := QuizScoredEvent{
		EventType:  QuizScoredKey,
		Attempt:    attempt,
		OccurredAt: time.Now().UTC(),
	}
	return p.publish(ctx, QuizScoredKey, event, amqp091.Table{
		"quiz_id": attempt.QuizID,
		"user_id": attempt.UserID,
	})
}

func (p *Publisher) publish(ctx context.Context, routingKey string, event any, headers amqp091.Table) error {
	if !p.enabled {
		return nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", routingKey, err)
	}

	// amqp channels are not safe for concurrent publishing.
	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
		Headers:      headers,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	if !p.enabled {
		return nil
	}
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			log.Printf("close rabbitmq channel: %v", err)
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("close rabbitmq connection: %w", err)
		}
	}
	return nil
}
