// Package memory provides in-process implementations of the repositories.
// They back the service and handler tests and can stand in for PostgreSQL
// wherever a throwaway store is enough.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/zizouhuweidi/trivia/internal/domain"
)

// Store holds categories and questions
type Store struct {
	mu         sync.RWMutex
	categories map[int]domain.Category
	questions  map[int]domain.Question
	nextID     int

	// Err, when set, is returned by every operation
	Err error
}

// NewStore creates a store seeded with categories and questions. Question
// IDs are kept; new questions get IDs above the highest seeded one.
func NewStore(categories []domain.Category, questions []domain.Question) *Store {
	s := &Store{
		categories: make(map[int]domain.Category, len(categories)),
		questions:  make(map[int]domain.Question, len(questions)),
	}
	for _, c := range categories {
		s.categories[c.ID] = c
	}
	for _, q := range questions {
		s.questions[q.ID] = q
		if q.ID > s.nextID {
			s.nextID = q.ID
		}
	}
	return s
}

// Categories returns a domain.CategoryRepository view of the store
func (s *Store) Categories() *CategoryRepository {
	return &CategoryRepository{s}
}

// Questions returns a domain.QuestionRepository view of the store
func (s *Store) Questions() *QuestionRepository {
	return &QuestionRepository{s}
}

// CategoryRepository implements domain.CategoryRepository
type CategoryRepository struct {
	s *Store
}

func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}

	categories := make([]domain.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int) (*domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}

	c, ok := r.s.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	return &c, nil
}

// QuestionRepository implements domain.QuestionRepository
type QuestionRepository struct {
	s *Store
}

func (r *QuestionRepository) List(ctx context.Context) ([]domain.Question, error) {
	return r.filter(func(domain.Question) bool { return true })
}

func (r *QuestionRepository) ListByCategory(ctx context.Context, categoryID int) ([]domain.Question, error) {
	return r.filter(func(q domain.Question) bool { return q.Category == categoryID })
}

func (r *QuestionRepository) Search(ctx context.Context, term string) ([]domain.Question, error) {
	term = strings.ToLower(term)
	return r.filter(func(q domain.Question) bool {
		return strings.Contains(strings.ToLower(q.Question), term)
	})
}

func (r *QuestionRepository) GetByID(ctx context.Context, id int) (*domain.Question, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}

	q, ok := r.s.questions[id]
	if !ok {
		return nil, domain.ErrQuestionNotFound
	}
	return &q, nil
}

func (r *QuestionRepository) Create(ctx context.Context, question *domain.Question) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}

	r.s.nextID++
	question.ID = r.s.nextID
	r.s.questions[question.ID] = *question
	return nil
}

func (r *QuestionRepository) Delete(ctx context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}

	if _, ok := r.s.questions[id]; !ok {
		return domain.ErrQuestionNotFound
	}
	delete(r.s.questions, id)
	return nil
}

func (r *QuestionRepository) Ping(ctx context.Context) error {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.Err
}

func (r *QuestionRepository) filter(keep func(domain.Question) bool) ([]domain.Question, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}

	questions := []domain.Question{}
	for _, q := range r.s.questions {
		if keep(q) {
			questions = append(questions, q)
		}
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })
	return questions, nil
}
