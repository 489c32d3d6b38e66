package services

import (
	"strconv"
	"strings"
)

const (
	// DefaultPageSize is used when no page size or an invalid one is requested.
	DefaultPageSize = 10
	// MaxPageSize caps client supplied page sizes.
	MaxPageSize = 100
)

// Page is one slice of an ordered result set.
type Page[T any] struct {
	Items       []T  `json:"items"`
	Total       int  `json:"total"`
	Page        int  `json:"page"`
	PageSize    int  `json:"page_size"`
	NumPages    int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// Paginate cuts the 1-based page out of items. A page size <= 0 means
// DefaultPageSize and a page <= 0 means the first page. Pages past the end are
// empty rather than an error. Items is never nil.
func Paginate[T any](items []T, pageSize, page int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}
	total := len(items)
	numPages := total / pageSize
	if total%pageSize != 0 || numPages == 0 {
		numPages++
	}

	out := Page[T]{
		Items:       []T{},
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
		NumPages:    numPages,
		HasNext:     page < numPages,
		HasPrevious: page > 1,
	}
	if page > numPages {
		return out
	}
	start := (page - 1) * pageSize
	end := start + min(pageSize, total-start)
	out.Items = append(out.Items, items[start:end]...)
	return out
}

// withItems keeps the page metadata of p and swaps in items.
func withItems[T, U any](p Page[T], items []U) Page[U] {
	return Page[U]{
		Items:       items,
		Total:       p.Total,
		Page:        p.Page,
		PageSize:    p.PageSize,
		NumPages:    p.NumPages,
		HasNext:     p.HasNext,
		HasPrevious: p.HasPrevious,
	}
}

// ParsePage reads a page query value. Missing, non-numeric and non-positive values mean page 1.
func ParsePage(raw string) int {
	if p, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && p > 0 {
		return p
	}
	return 1
}

// ParsePageSize reads a page size query value, falling back to DefaultPageSize
// when it is missing, invalid or above MaxPageSize.
func ParsePageSize(raw string) int {
	if s, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && s > 0 && s <= MaxPageSize {
		return s
	}
	return DefaultPageSize
}
