package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Common errors
var (
	ErrQuestionNotFound = errors.New("question not found")
)

// QuestionRepository defines the interface for question-related operations
type QuestionRepository interface {
	// List retrieves every question ordered by ID
	List(ctx context.Context) ([]Question, error)

	// ListByCategory retrieves the questions of one category ordered by ID
	ListByCategory(ctx context.Context, categoryID int) ([]Question, error)

	// Search retrieves questions whose text contains term, ignoring case
	Search(ctx context.Context, term string) ([]Question, error)

	// GetByID retrieves a question by its ID
	GetByID(ctx context.Context, id int) (*Question, error)

	// Create inserts a question and sets its ID
	Create(ctx context.Context, question *Question) error

	// Delete deletes a question
	Delete(ctx context.Context, id int) error

	// Ping checks that the underlying store is reachable
	Ping(ctx context.Context) error
}

// Question represents a trivia question
type Question struct {
	ID         int    `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int    `json:"category"`
	Difficulty int    `json:"difficulty"`
}

// QuestionPage is one page of questions together with the listing context
// the client needs to render it.
type QuestionPage struct {
	Questions       []Question
	TotalQuestions  int
	Categories      map[int]string
	CurrentCategory *string
}

// NewQuestion holds the fields required to create a question.
type NewQuestion struct {
	Question   string `json:"question" validate:"required"`
	Answer     string `json:"answer" validate:"required"`
	Difficulty int    `json:"difficulty" validate:"required"`
	Category   int    `json:"category" validate:"required"`
}

// QuizCategory selects the pool a quiz draws from. ID 0 means all categories.
type QuizCategory struct {
	ID   *int   `json:"id"`
	Type string `json:"type,omitempty"`
}

// QuizRequest is the input of one quiz round.
type QuizRequest struct {
	QuizCategory      *QuizCategory `json:"quiz_category"`
	PreviousQuestions []int         `json:"previous_questions"`
}

// UnmarshalJSON accepts the category ID as a number or a numeric string,
// since category maps travel with string keys.
func (c *QuizCategory) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID   json.RawMessage `json:"id"`
		Type string          `json:"type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Type = raw.Type
	c.ID = nil

	if len(raw.ID) == 0 || string(raw.ID) == "null" {
		return nil
	}

	var id int
	if err := json.Unmarshal(raw.ID, &id); err == nil {
		c.ID = &id
		return nil
	}

	var s string
	if err := json.Unmarshal(raw.ID, &s); err != nil {
		return fmt.Errorf("quiz category id: %w", err)
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("quiz category id %q: %w", s, err)
	}
	c.ID = &id
	return nil
}
