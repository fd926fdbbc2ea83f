// Package pager slices ordered result lists into fixed size pages and
// provides the page navigation arithmetic.
package pager

// DefaultPageSize is the number of items shown per page.
const DefaultPageSize = 100

// Page is one window into an ordered result list.
type Page[T any] struct {
	// Items is the slice for this page, sharing backing storage with
	// the input list.
	Items []T

	// Number is the clamped 1-based page number, 0 for an empty list.
	Number int

	// TotalPages is ceil(len(items) / size), 0 for an empty list.
	TotalPages int
}

// Paginate returns the page at number, clamping it into the valid
// range. An empty list reports zero pages and an empty page. A size of
// zero or less falls back to DefaultPageSize.
func Paginate[T any](items []T, number, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	if len(items) == 0 {
		return Page[T]{}
	}

	total := (len(items) + size - 1) / size
	if number < 1 {
		number = 1
	}
	if number > total {
		number = total
	}

	lo := (number - 1) * size
	hi := lo + size
	if hi > len(items) {
		hi = len(items)
	}
	return Page[T]{Items: items[lo:hi], Number: number, TotalPages: total}
}

// Next returns the page after current, staying put on the last page.
func Next(current, totalPages int) int {
	if current >= totalPages {
		return current
	}
	return current + 1
}

// Prev returns the page before current, staying put on the first page.
func Prev(current int) int {
	if current <= 1 {
		return current
	}
	return current - 1
}

// First returns the first page number.
func First() int {
	return 1
}

// Last returns the last page number.
func Last(totalPages int) int {
	return totalPages
}
