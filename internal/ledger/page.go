package ledger

import "math"

const (
	DefaultPageSize = 30
	MaxPageSize     = 100
	// MaxPageNumber keeps Number*Size within an int32 OFFSET.
	MaxPageNumber = math.MaxInt32 / MaxPageSize
)

// Page selects a zero-based page of results.
type Page struct {
	Number int
	Size   int
}

// Normalize clamps the page into the allowed range.
func (p Page) Normalize() Page {
	if p.Number < 0 {
		p.Number = 0
	}
	if p.Number > MaxPageNumber {
		p.Number = MaxPageNumber
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p Page) offset() int {
	return p.Number * p.Size
}

// PageResult is one page of T plus the totals needed to page further.
type PageResult[T any] struct {
	Content       []T
	Number        int
	Size          int
	TotalElements int64
	TotalPages    int
	First         bool
	Last          bool
}

// NewPageResult fills in the derived paging fields.
func NewPageResult[T any](content []T, p Page, total int64) PageResult[T] {
	if content == nil {
		content = make([]T, 0)
	}
	pages := 0
	if p.Size > 0 {
		pages = int((total + int64(p.Size) - 1) / int64(p.Size))
	}
	return PageResult[T]{
		Content:       content,
		Number:        p.Number,
		Size:          p.Size,
		TotalElements: total,
		TotalPages:    pages,
		First:         p.Number == 0,
		Last:          p.Number >= pages-1,
	}
}
