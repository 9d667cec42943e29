package quiz

import (
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/zizouhuweidi/trivia/internal/domain"
)

func pool(ids ...int) []domain.Question {
	questions := make([]domain.Question, 0, len(ids))
	for _, id := range ids {
		questions = append(questions, domain.Question{ID: id, Question: "q", Answer: "a", Category: 1, Difficulty: 1})
	}
	return questions
}

func TestPickEmptyPool(t *testing.T) {
	p := NewPickerWithSource(rand.NewSource(1))

	q, err := p.Pick(nil, nil)
	if !errors.Is(err, ErrEmptyPool) {
		t.Fatalf("got err %v, want ErrEmptyPool", err)
	}
	if q != nil {
		t.Fatalf("got question %+v, want nil", q)
	}
}

func TestPickExhausted(t *testing.T) {
	p := NewPickerWithSource(rand.NewSource(1))

	tests := []struct {
		name     string
		pool     []domain.Question
		previous []int
	}{
		{"all seen", pool(1, 2, 3), []int{1, 2, 3}},
		{"more seen than pool", pool(1, 2), []int{1, 2, 3, 4}},
		{"count guard with foreign ids", pool(1, 2, 3), []int{7, 8, 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := p.Pick(tt.pool, tt.previous)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if q != nil {
				t.Fatalf("got question %d, want nil", q.ID)
			}
		})
	}
}

func TestPickTerminatesWhenOnlyForeignIDsRemain(t *testing.T) {
	p := NewPickerWithSource(rand.NewSource(1))

	// One candidate left.
	q, err := p.Pick(pool(1, 2, 3), []int{1, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q == nil || q.ID != 2 {
		t.Fatalf("got %+v, want question 2", q)
	}

	// Pool fully seen, previous shorter than pool only because the pool
	// has a duplicate row.
	dup := pool(5, 5, 6)
	q, err = p.Pick(dup, []int{5, 6})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != nil {
		t.Fatalf("got question %d, want nil", q.ID)
	}
}

func TestPickNeverReturnsSeen(t *testing.T) {
	p := NewPickerWithSource(rand.NewSource(42))
	questions := pool(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	previous := []int{1, 3, 5, 7, 9, 42}

	counts := make(map[int]int)
	for i := 0; i < 2000; i++ {
		q, err := p.Pick(questions, previous)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q == nil {
			t.Fatal("got nil question with unseen candidates left")
		}
		for _, id := range previous {
			if q.ID == id {
				t.Fatalf("picked previously seen question %d", id)
			}
		}
		counts[q.ID]++
	}

	for _, id := range []int{2, 4, 6, 8, 10} {
		if counts[id] == 0 {
			t.Errorf("question %d was never picked", id)
		}
	}
}

func TestPickConcurrent(t *testing.T) {
	p := NewPicker()
	questions := pool(1, 2, 3)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if _, err := p.Pick(questions, []int{1}); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
