package memory

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"quiz-submission-service/internal/domain"
)

// QuizLoader fetches quiz definitions from the configured store.
type QuizLoader interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizRepository is an in-process, TTL-bounded cache of quiz definitions in front of a QuizLoader.
// Unknown quiz ids are remembered for a shorter period so repeated scoring requests
// for a missing quiz do not reach the store each time.
type QuizRepository struct {
	loader  QuizLoader
	ttl     time.Duration
	missTTL time.Duration
	clock   func() time.Time
	group   singleflight.Group

	mu      sync.RWMutex
	entries map[string]quizEntry
}

// quizEntry holds either a quiz or the fact that it does not exist.
type quizEntry struct {
	quiz      domain.Quiz
	missing   bool
	expiresAt time.Time
}

func NewQuizRepository(loader QuizLoader, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		loader:  loader,
		ttl:     ttl,
		missTTL: MissTTL(ttl),
		clock:   time.Now,
		entries: make(map[string]quizEntry),
	}
}

func (r *QuizRepository) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	if entry, ok := r.lookup(quizID); ok {
		return entry.result()
	}

	v, err, _ := r.group.Do(quizID, func() (any, error) {
		if entry, ok := r.lookup(quizID); ok {
			return entry, nil
		}
		quiz, err := r.loader.LoadQuiz(ctx, quizID)
		switch {
		case errors.Is(err, domain.ErrQuizNotFound):
			return r.remember(quizID, quizEntry{missing: true}, r.missTTL), nil
		case err != nil:
			return nil, err
		}
		return r.remember(quizID, quizEntry{quiz: quiz}, Jitter(r.ttl)), nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return v.(quizEntry).result()
}

func (r *QuizRepository) lookup(quizID string) (quizEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[quizID]
	if !ok || !entry.expiresAt.After(r.clock()) {
		return quizEntry{}, false
	}
	return entry, true
}

func (r *QuizRepository) remember(quizID string, entry quizEntry, ttl time.Duration) quizEntry {
	if ttl <= 0 {
		return entry
	}
	entry.expiresAt = r.clock().Add(ttl)
	r.mu.Lock()
	r.entries[quizID] = entry
	r.mu.Unlock()
	return entry
}

func (e quizEntry) result() (domain.Quiz, error) {
	if e.missing {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return e.quiz, nil
}

// Jitter stretches ttl by up to 10% so entries cached together do not expire together.
func Jitter(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	return ttl + time.Duration(rand.Int63n(int64(ttl)/10+1))
}

// MissTTL is how long an unknown quiz id is remembered: a tenth of ttl, capped at 30s.
func MissTTL(ttl time.Duration) time.Duration {
	miss := ttl / 10
	if miss > 30*time.Second {
		miss = 30 * time.Second
	}
	return miss
}
