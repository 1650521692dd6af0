package store

import "github.com/mrlokans/bookreviews/internal/entities"

// ByUser is a foreign key accessor for records embedding a user snapshot.
func ByUser[V entities.Linked](v V) string { return v.UserRef() }

// ByBook is a foreign key accessor for records embedding a book snapshot.
func ByBook[V entities.Linked](v V) string { return v.BookRef() }

// Equals returns a predicate matching exactly id.
func Equals(id string) func(string) bool {
	return func(s string) bool { return s == id }
}
