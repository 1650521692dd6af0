// Package recommend decides which user/book pairs deserve a recommendation
// and numbers recommendation sets.
package recommend

import (
	"iter"
	"slices"

	"github.com/mrlokans/bookreviews/internal/entities"
)

// Prefers reports whether genre is one of the user's preferences.
// Matching is exact and case-sensitive; duplicates in the preference list
// do not matter.
func Prefers(user entities.User, genre string) bool {
	return slices.Contains(user.Preferences, genre)
}

// MatchBooks returns the books whose genre the user prefers, in scan order.
// Each book appears at most once.
func MatchBooks(user entities.User, books iter.Seq[entities.Book]) []entities.Book {
	var out []entities.Book
	for b := range books {
		if Prefers(user, b.Genre) {
			out = append(out, b)
		}
	}
	return out
}

// MatchUsers returns the users who prefer the book's genre, in scan order.
// Each user appears at most once.
func MatchUsers(book entities.Book, users iter.Seq[entities.User]) []entities.User {
	var out []entities.User
	for u := range users {
		if Prefers(u, book.Genre) {
			out = append(out, u)
		}
	}
	return out
}

// ForUser builds fresh (unnumbered) recommendations for user.
func ForUser(user entities.User, books iter.Seq[entities.Book]) []entities.Recommendation {
	matches := MatchBooks(user, books)
	out := make([]entities.Recommendation, 0, len(matches))
	for _, b := range matches {
		out = append(out, entities.NewRecommendation("", user, b))
	}
	return out
}

// ForBook builds fresh (unnumbered) recommendations for book.
func ForBook(book entities.Book, users iter.Seq[entities.User]) []entities.Recommendation {
	matches := MatchUsers(book, users)
	out := make([]entities.Recommendation, 0, len(matches))
	for _, u := range matches {
		out = append(out, entities.NewRecommendation("", u, book))
	}
	return out
}
