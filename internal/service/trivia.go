package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/zizouhuweidi/trivia/internal/cache"
	"github.com/zizouhuweidi/trivia/internal/domain"
	"github.com/zizouhuweidi/trivia/internal/pagination"
	"github.com/zizouhuweidi/trivia/internal/quiz"
	"github.com/zizouhuweidi/trivia/internal/validation"
)

// Logger is the part of echo.Logger the service writes to
type Logger interface {
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// CategoryCache holds the category list between requests
type CategoryCache interface {
	Get(ctx context.Context) ([]domain.Category, error)
	Set(ctx context.Context, categories []domain.Category) error
}

// TriviaService implements the trivia operations on top of the stores
type TriviaService struct {
	categoryRepo domain.CategoryRepository
	questionRepo domain.QuestionRepository
	picker       *quiz.Picker
	validator    *validation.Validator
	logger       Logger

	cache     CategoryCache
	publisher domain.EventPublisher
	now       func() time.Time
}

// NewTriviaService creates a new trivia service
func NewTriviaService(categoryRepo domain.CategoryRepository, questionRepo domain.QuestionRepository, picker *quiz.Picker, logger Logger) *TriviaService {
	return &TriviaService{
		categoryRepo: categoryRepo,
		questionRepo: questionRepo,
		picker:       picker,
		validator:    validation.New(),
		logger:       logger,
		now:          time.Now,
	}
}

// WithCategoryCache serves categories from cache when possible
func (s *TriviaService) WithCategoryCache(cache CategoryCache) *TriviaService {
	s.cache = cache
	return s
}

// WithPublisher announces question writes through publisher
func (s *TriviaService) WithPublisher(publisher domain.EventPublisher) *TriviaService {
	s.publisher = publisher
	return s
}

// ListCategories returns every category keyed by ID
func (s *TriviaService) ListCategories(ctx context.Context) (map[int]string, error) {
	const op = "list categories"

	categories, err := s.categories(ctx, op)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, domain.NotFound(op, ErrNoCategories)
	}
	return domain.CategoryMap(categories), nil
}

// ListQuestions returns one page of all questions
func (s *TriviaService) ListQuestions(ctx context.Context, page int) (*domain.QuestionPage, error) {
	const op = "list questions"

	questions, err := s.questionRepo.List(ctx)
	if err != nil {
		return nil, s.unavailable(op, err)
	}
	categories, err := s.categories(ctx, op)
	if err != nil {
		return nil, err
	}

	paged := pagination.Page(questions, page)
	if len(paged) == 0 {
		return nil, domain.NotFound(op, ErrPageEmpty)
	}

	return &domain.QuestionPage{
		Questions:      paged,
		TotalQuestions: len(questions),
		Categories:     domain.CategoryMap(categories),
	}, nil
}

// GetQuestion returns a single question
func (s *TriviaService) GetQuestion(ctx context.Context, id int) (*domain.Question, error) {
	const op = "get question"

	question, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrQuestionNotFound) {
			return nil, domain.NotFound(op, err)
		}
		return nil, s.unavailable(op, err)
	}
	return question, nil
}

// DeleteQuestion removes a question and returns the requested page of what
// remains. The remaining page may be empty.
func (s *TriviaService) DeleteQuestion(ctx context.Context, id int, page int) (*domain.QuestionPage, error) {
	const op = "delete question"

	question, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrQuestionNotFound) {
			return nil, domain.NotFound(op, err)
		}
		return nil, s.unavailable(op, err)
	}

	if err := s.questionRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrQuestionNotFound) {
			return nil, domain.NotFound(op, err)
		}
		return nil, s.unavailable(op, err)
	}

	s.publish(ctx, domain.EventQuestionDeleted, question)

	questions, err := s.questionRepo.List(ctx)
	if err != nil {
		return nil, s.unavailable(op, err)
	}
	categories, err := s.categories(ctx, op)
	if err != nil {
		return nil, err
	}

	return &domain.QuestionPage{
		Questions:      pagination.Page(questions, page),
		TotalQuestions: len(questions),
		Categories:     domain.CategoryMap(categories),
	}, nil
}

// CreateQuestion stores a new question and returns its ID
func (s *TriviaService) CreateQuestion(ctx context.Context, input domain.NewQuestion) (int, error) {
	const op = "create question"

	if err := s.validator.Validate(&input); err != nil {
		return 0, domain.Invalid(op, err)
	}

	question := &domain.Question{
		Question:   input.Question,
		Answer:     input.Answer,
		Category:   input.Category,
		Difficulty: input.Difficulty,
	}
	if err := s.questionRepo.Create(ctx, question); err != nil {
		return 0, s.unavailable(op, err)
	}

	s.publish(ctx, domain.EventQuestionCreated, question)

	return question.ID, nil
}

// SearchQuestions returns one page of the questions containing term,
// ignoring case
func (s *TriviaService) SearchQuestions(ctx context.Context, term string, page int) (*domain.QuestionPage, error) {
	const op = "search questions"

	matches, err := s.questionRepo.Search(ctx, term)
	if err != nil {
		return nil, s.unavailable(op, err)
	}
	if len(matches) == 0 {
		return nil, domain.NotFound(op, ErrNoMatches)
	}

	paged := pagination.Page(matches, page)
	if len(paged) == 0 {
		return nil, domain.NotFound(op, ErrPageEmpty)
	}

	return &domain.QuestionPage{
		Questions:      paged,
		TotalQuestions: len(matches),
	}, nil
}

// QuestionsByCategory returns one page of the questions in a category
func (s *TriviaService) QuestionsByCategory(ctx context.Context, categoryID int, page int) (*domain.QuestionPage, error) {
	const op = "list questions by category"

	questions, err := s.questionRepo.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, s.unavailable(op, err)
	}

	paged := pagination.Page(questions, page)
	if len(paged) == 0 {
		return nil, domain.NotFound(op, ErrPageEmpty)
	}

	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return nil, domain.NotFound(op, err)
		}
		return nil, s.unavailable(op, err)
	}

	return &domain.QuestionPage{
		Questions:       paged,
		TotalQuestions:  len(questions),
		CurrentCategory: &category.Type,
	}, nil
}

// PlayQuiz picks the next question of a quiz. It returns nil when every
// question of the selected pool has been played.
func (s *TriviaService) PlayQuiz(ctx context.Context, req domain.QuizRequest) (*domain.Question, error) {
	const op = "play quiz"

	if req.QuizCategory == nil || req.QuizCategory.ID == nil {
		return nil, domain.Invalid(op, ErrMissingCategory)
	}

	var (
		pool []domain.Question
		err  error
	)
	if categoryID := *req.QuizCategory.ID; categoryID == 0 {
		pool, err = s.questionRepo.List(ctx)
	} else {
		pool, err = s.questionRepo.ListByCategory(ctx, categoryID)
	}
	if err != nil {
		return nil, s.unavailable(op, err)
	}

	question, err := s.picker.Pick(pool, req.PreviousQuestions)
	if err != nil {
		if errors.Is(err, quiz.ErrEmptyPool) {
			return nil, domain.NotFound(op, err)
		}
		return nil, domain.Invalid(op, err)
	}
	return question, nil
}

// Ping reports whether the question store is reachable
func (s *TriviaService) Ping(ctx context.Context) error {
	if err := s.questionRepo.Ping(ctx); err != nil {
		return s.unavailable("ping", err)
	}
	return nil
}

func (s *TriviaService) categories(ctx context.Context, op string) ([]domain.Category, error) {
	if s.cache != nil {
		categories, err := s.cache.Get(ctx)
		if err == nil {
			return categories, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warnf("%s: category cache read: %v", op, err)
		}
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, s.unavailable(op, err)
	}

	if s.cache != nil && len(categories) > 0 {
		if err := s.cache.Set(ctx, categories); err != nil {
			s.logger.Warnf("%s: category cache write: %v", op, err)
		}
	}
	return categories, nil
}

func (s *TriviaService) unavailable(op string, err error) error {
	s.logger.Errorf("%s: %v", op, err)
	return domain.Unavailable(op, err)
}

func (s *TriviaService) publish(ctx context.Context, eventType domain.EventType, question *domain.Question) {
	if s.publisher == nil {
		return
	}

	event := domain.QuestionEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		QuestionID: question.ID,
		Question:   question,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warnf("publish %s for question %d: %v", eventType, question.ID, err)
	}
}
