package domain

import (
	"context"
	"errors"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
)

// Category is a labeled grouping of questions
type Category struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
}

// CategoryRepository defines read access to the category seed data
type CategoryRepository interface {
	// List retrieves all categories ordered by ID
	List(ctx context.Context) ([]Category, error)

	// GetByID retrieves a category by its ID
	GetByID(ctx context.Context, id int) (*Category, error)
}

// CategoryMap indexes categories by ID, the shape clients receive.
func CategoryMap(categories []Category) map[int]string {
	m := make(map[int]string, len(categories))
	for _, c := range categories {
		m[c.ID] = c.Type
	}
	return m
}
