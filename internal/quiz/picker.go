// Package quiz picks the next question of a quiz round.
package quiz

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/zizouhuweidi/trivia/internal/domain"
)

// ErrEmptyPool is returned when there is nothing to pick from
var ErrEmptyPool = errors.New("quiz: empty question pool")

// Picker draws random unseen questions. It is safe for concurrent use.
type Picker struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewPicker creates a picker seeded from the clock
func NewPicker() *Picker {
	return NewPickerWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewPickerWithSource creates a picker drawing from src
func NewPickerWithSource(src rand.Source) *Picker {
	return &Picker{rnd: rand.New(src)}
}

// Pick returns a uniformly random question from pool whose ID is not in
// previous. It returns nil when every question has been seen.
//
// Selection draws an index and redraws on collision, so the cost grows as
// the unseen part of the pool shrinks.
func (p *Picker) Pick(pool []domain.Question, previous []int) (*domain.Question, error) {
	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}

	if len(previous) >= len(pool) {
		return nil, nil
	}

	seen := make(map[int]struct{}, len(previous))
	for _, id := range previous {
		seen[id] = struct{}{}
	}

	// previous may name questions outside this pool, so the count check
	// above does not prove an unseen question exists.
	unseen := 0
	for _, q := range pool {
		if _, ok := seen[q.ID]; !ok {
			unseen++
		}
	}
	if unseen == 0 {
		return nil, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for {
		q := pool[p.rnd.Intn(len(pool))]
		if _, ok := seen[q.ID]; !ok {
			return &q, nil
		}
	}
}
