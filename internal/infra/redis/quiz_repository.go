package redis

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"quiz-submission-service/internal/domain"
	"quiz-submission-service/internal/infra/memory"
)

// KeyPrefix namespaces every key this cache writes.
const KeyPrefix = "quizsvc:quiz:"

// QuizRepository caches quiz answer keys in Redis and falls back to a memory.QuizLoader on a miss.
//
//	RPUSH {prefix}{quizID}:order {questionID}...
//	RPUSH {prefix}{quizID}:answers {correctAnswer}...   (same positions as order)
//	SET {prefix}{quizID}:missing 1                      (quiz absent from the store)
//
// Both lists are positional, so question ids need not be present or unique.
// Prompts and options are not cached; scoring only needs answers in order.
type QuizRepository struct {
	client  *redis.Client
	loader  memory.QuizLoader
	ttl     time.Duration
	missTTL time.Duration
	group   singleflight.Group
}

func NewQuizRepository(client *redis.Client, loader memory.QuizLoader, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		client:  client,
		loader:  loader,
		ttl:     ttl,
		missTTL: memory.MissTTL(ttl),
	}
}

func (r *QuizRepository) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	if quiz, hit, err := r.fromCache(ctx, quizID); hit {
		return quiz, err
	}

	v, err, _ := r.group.Do(quizID, func() (any, error) {
		if quiz, hit, err := r.fromCache(ctx, quizID); hit {
			return quiz, err
		}
		quiz, err := r.loader.LoadQuiz(ctx, quizID)
		if errors.Is(err, domain.ErrQuizNotFound) {
			r.markMissing(ctx, quizID)
			return domain.Quiz{}, err
		}
		if err != nil {
			return domain.Quiz{}, err
		}
		r.store(ctx, quiz)
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return v.(domain.Quiz), nil
}

// Invalidate removes everything cached for quizID, including a remembered absence.
func (r *QuizRepository) Invalidate(ctx context.Context, quizID string) error {
	return r.client.Del(ctx, answersKey(quizID), orderKey(quizID), missingKey(quizID)).Err()
}

// fromCache reads the cached entry in one round trip. hit is false on a miss or a redis failure,
// in which case the caller goes to the loader; a cached absence is a hit with ErrQuizNotFound.
func (r *QuizRepository) fromCache(ctx context.Context, quizID string) (domain.Quiz, bool, error) {
	var (
		missing *redis.IntCmd
		order   *redis.StringSliceCmd
		answers *redis.StringSliceCmd
	)
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		missing = pipe.Exists(ctx, missingKey(quizID))
		order = pipe.LRange(ctx, orderKey(quizID), 0, -1)
		answers = pipe.LRange(ctx, answersKey(quizID), 0, -1)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		log.Printf("read cached quiz %s: %v", quizID, err)
		return domain.Quiz{}, false, nil
	}
	if missing.Val() > 0 {
		return domain.Quiz{}, true, domain.ErrQuizNotFound
	}
	// A half-written or half-expired entry is treated as a miss.
	if len(answers.Val()) == 0 || len(order.Val()) != len(answers.Val()) {
		return domain.Quiz{}, false, nil
	}
	return buildQuizFromCache(quizID, order.Val(), answers.Val()), true, nil
}

func (r *QuizRepository) store(ctx context.Context, quiz domain.Quiz) {
	if len(quiz.Questions) == 0 {
		return
	}
	answers := answersKey(quiz.ID)
	order := orderKey(quiz.ID)
	ids := make([]any, 0, len(quiz.Questions))
	correct := make([]any, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		ids = append(ids, q.ID)
		correct = append(correct, q.CorrectAnswer)
	}
	ttl := memory.Jitter(r.ttl)

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, answers, order, missingKey(quiz.ID))
		pipe.RPush(ctx, order, ids...)
		pipe.RPush(ctx, answers, correct...)
		if ttl > 0 {
			pipe.Expire(ctx, answers, ttl)
			pipe.Expire(ctx, order, ttl)
		}
		return nil
	})
	if err != nil {
		log.Printf("cache quiz %s: %v", quiz.ID, err)
	}
}

func (r *QuizRepository) markMissing(ctx context.Context, quizID string) {
	if r.missTTL <= 0 {
		return
	}
	if err := r.client.Set(ctx, missingKey(quizID), 1, r.missTTL).Err(); err != nil {
		log.Printf("cache missing quiz %s: %v", quizID, err)
	}
}

func answersKey(quizID string) string { return KeyPrefix + quizID + ":answers" }
func orderKey(quizID string) string { return KeyPrefix + quizID + ":order" }
func missingKey(quizID string) string { return KeyPrefix + quizID + ":missing" }

func buildQuizFromCache(quizID string, order, answers []string) domain.Quiz {
	questions := make([]domain.Question, len(order))
	for i := range order {
		questions[i] = domain.Question{ID: order[i], CorrectAnswer: answers[i]}
	}
	return domain.Quiz{ID: quizID, Questions: questions}
}
