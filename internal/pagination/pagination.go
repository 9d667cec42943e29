// Package pagination slices ordered result sets into fixed-size pages.
package pagination

import "strconv"

// PageSize is the number of items on every page
const PageSize = 10

// ParsePage reads a 1-based page number from a query value. Missing or
// non-numeric input falls back to the first page.
func ParsePage(raw string) int {
	if raw == "" {
		return 1
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return page
}

// Page returns the items on the given 1-based page. Pages outside the data
// yield an empty, non-nil slice.
func Page[T any](items []T, page int) []T {
	start := (page - 1) * PageSize
	end := start + PageSize
	if start < 0 || start >= len(items) {
		return []T{}
	}
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
