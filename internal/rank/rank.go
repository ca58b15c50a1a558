// Package rank provides composable comparators and string-similarity scoring
// used to order queues and disambiguate catalog search results.
package rank

import (
	"sort"
	"strings"

	"github.com/xrash/smetrics"
)

// Comparator reports the relative order of a and b: negative when a sorts
// first, positive when b sorts first, zero when equal.
type Comparator[T any] func(a, b T) int

// Ascending builds a comparator that orders by score, lowest first.
func Ascending[T any](score func(T) float64) Comparator[T] {
	return func(a, b T) int {
		return compareFloat(score(a), score(b))
	}
}

// Descending builds a comparator that orders by score, highest first.
func Descending[T any](score func(T) float64) Comparator[T] {
	return func(a, b T) int {
		return compareFloat(score(b), score(a))
	}
}

// Lexical builds a comparator over a string-valued key, ascending.
func Lexical[T any](key func(T) string) Comparator[T] {
	return func(a, b T) int {
		return strings.Compare(key(a), key(b))
	}
}

// Combine chains comparators lexicographically: the first comparator wins
// unless it reports equal, in which case the next one is consulted.
func Combine[T any](cmps ...Comparator[T]) Comparator[T] {
	return func(a, b T) int {
		for _, cmp := range cmps {
			if c := cmp(a, b); c != 0 {
				return c
			}
		}
		return 0
	}
}

// Sort sorts items in place with a stable sort, preserving the original
// relative order of equal-ranked elements.
func Sort[T any](items []T, cmp Comparator[T]) {
	sort.SliceStable(items, func(i, j int) bool {
		return cmp(items[i], items[j]) < 0
	})
}

// Similarity scores how closely candidate matches target, in [0, 1].
// Both strings are case- and whitespace-folded before comparison.
func Similarity(target, candidate string) float64 {
	t := fold(target)
	c := fold(candidate)
	if t == "" || c == "" {
		return 0
	}
	return smetrics.JaroWinkler(t, c, 0.7, 4)
}

// BySimilarity orders by similarity to target, best match first.
func BySimilarity[T any](target string, name func(T) string) Comparator[T] {
	return Descending(func(v T) float64 {
		return Similarity(target, name(v))
	})
}

// ByExplicit prefers explicit-content versions among near-duplicates.
func ByExplicit[T any](explicit func(T) bool) Comparator[T] {
	return Descending(func(v T) float64 {
		if explicit(v) {
			return 1
		}
		return 0
	})
}

// AlbumTypeWeight ranks catalog album types: full albums sort before
// singles, then appearances, then compilations, then anything unknown.
func AlbumTypeWeight(albumType string) float64 {
	switch strings.ToLower(albumType) {
	case "album":
		return 4
	case "single":
		return 3
	case "appears_on":
		return 2
	case "compilation":
		return 1
	default:
		return 0
	}
}

func fold(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
