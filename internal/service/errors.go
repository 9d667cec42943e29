package service

import "errors"

// Common service errors
var (
	ErrNoCategories    = errors.New("no categories")
	ErrPageEmpty       = errors.New("page is empty")
	ErrNoMatches       = errors.New("no questions match the search term")
	ErrMissingCategory = errors.New("quiz category is required")
)
