// Package query is the shared, stateless filter and pagination engine used
// by the catalog and order list operations. Inputs arrive already ordered
// (newest first, ties by identifier); filtering preserves that order, and
// pagination slices the filtered sequence into fixed-size 1-indexed pages.
// Identical inputs always produce identical pages.
package query

import (
	"sort"
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

// Page is one 1-indexed slice of a filtered, ordered result set.
type Page[T any] struct {
	Items []T
	Page  int
	Pages int
}

// Filter returns the subsequence of items matching all predicates, in the
// input order. Nil predicates are skipped so optional filters compose
// without special-casing at call sites.
func Filter[T any](items []T, preds ...func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		keep := true
		for _, p := range preds {
			if p != nil && !p(it) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, it)
		}
	}
	return out
}

// NameContains builds a case-insensitive substring predicate over a display
// field. An empty term matches everything.
func NameContains[T any](term string, name func(T) string) func(T) bool {
	if term == "" {
		return nil
	}
	lowered := strings.ToLower(term)
	return func(it T) bool {
		return strings.Contains(strings.ToLower(name(it)), lowered)
	}
}

// CreatedBetween builds an inclusive day-granularity date-range predicate
// over a creation timestamp. Bounds are "YYYY-MM-DD" strings; an empty bound
// is open. A malformed bound matches nothing rather than silently passing.
func CreatedBetween[T any](from, to string, createdAt func(T) time.Time) func(T) bool {
	if from == "" && to == "" {
		return nil
	}
	return func(it T) bool {
		day := createdAt(it).Format(dayLayout)
		if from != "" {
			if _, err := time.Parse(dayLayout, from); err != nil {
				return false
			}
			if day < from {
				return false
			}
		}
		if to != "" {
			if _, err := time.Parse(dayLayout, to); err != nil {
				return false
			}
			if day > to {
				return false
			}
		}
		return true
	}
}

// SortNewestFirst orders items by creation time descending, breaking ties by
// identifier ascending so that pagination is deterministic.
func SortNewestFirst[T any](items []T, createdAt func(T) time.Time, id func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, tj := createdAt(items[i]), createdAt(items[j])
		if ti.Equal(tj) {
			return id(items[i]) < id(items[j])
		}
		return ti.After(tj)
	})
}

// Paginate slices items into fixed-size pages and returns the requested
// 1-indexed page. A page beyond the last yields an empty page, not an error.
// Pages is the total page count; an empty set still reports one page.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size < 1 {
		size = 1
	}
	if page < 1 {
		page = 1
	}

	pages := (len(items) + size - 1) / size
	if pages == 0 {
		pages = 1
	}

	start := (page - 1) * size
	if start >= len(items) {
		return Page[T]{Items: []T{}, Page: page, Pages: pages}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return Page[T]{Items: items[start:end], Page: page, Pages: pages}
}
