package app

import (
	"sync"

	"quiz-submission-service/internal/domain"
)

// Feed fans newly recorded submissions out to live subscribers of a variant.
type Feed struct {
	mu          sync.Mutex
	subscribers map[domain.Variant]map[chan domain.Submission]struct{}
}

func NewFeed() *Feed {
	return &Feed{subscribers: make(map[domain.Variant]map[chan domain.Submission]struct{})}
}

// Subscribe returns a channel of the variant's new submissions.
// The caller must invoke the returned cancel function to avoid leaks.
func (f *Feed) Subscribe(variant domain.Variant) (<-chan domain.Submission, func()) {
	ch := make(chan domain.Submission, 8)

	f.mu.Lock()
	subs, ok := f.subscribers[variant]
	if !ok {
		subs = make(map[chan domain.Submission]struct{})
		f.subscribers[variant] = subs
	}
	subs[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		subs := f.subscribers[variant]
		if _, ok := subs[ch]; ok {
			delete(subs, ch)
			close(ch)
		}
		if len(subs) == 0 {
			delete(f.subscribers, variant)
		}
	}
	return ch, cancel
}

// Publish delivers submission to every subscriber of its variant without blocking.
// A subscriber that falls behind loses its oldest buffered item.
func (f *Feed) Publish(submission domain.Submission) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers[submission.Variant] {
		select {
		case ch <- submission:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- submission
		}
	}
}

// Subscribers reports how many listeners a variant has.
func (f *Feed) Subscribers(variant domain.Variant) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers[variant])
}
