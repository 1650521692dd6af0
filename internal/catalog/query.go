package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/mrlokans/bookreviews/internal/entities"
)

// Query selects and orders a listing. Only one mode applies, checked in the
// order search, sort, filter. An empty Query lists everything in key order.
type Query struct {
	Search      string
	Sort        string
	FilterKey   string
	FilterValue string
}

// queryRules describes how a record kind is searched, sorted and filtered.
type queryRules[T any] struct {
	searchFields func(T) []string
	sorts        map[string]func(a, b T) int
	filters      map[string]func(T) string
}

func applyQuery[T any](items []T, q Query, rules queryRules[T]) []T {
	switch {
	case q.Search != "":
		needle := strings.ToLower(q.Search)
		return slices.DeleteFunc(items, func(item T) bool {
			for _, field := range rules.searchFields(item) {
				if strings.Contains(strings.ToLower(field), needle) {
					return false
				}
			}
			return true
		})

	case q.Sort != "":
		if less, ok := rules.sorts[q.Sort]; ok {
			slices.SortStableFunc(items, less)
		}
		return items

	case q.FilterKey != "" && q.FilterValue != "":
		field, ok := rules.filters[q.FilterKey]
		if !ok {
			return items[:0]
		}
		want := strings.ToLower(q.FilterValue)
		return slices.DeleteFunc(items, func(item T) bool {
			return strings.ToLower(field(item)) != want
		})
	}
	return items
}

func byString[T any](field func(T) string) func(a, b T) int {
	return func(a, b T) int { return strings.Compare(field(a), field(b)) }
}

var userRules = queryRules[entities.User]{
	searchFields: func(u entities.User) []string { return []string{u.Name, u.Email} },
	sorts: map[string]func(a, b entities.User) int{
		"name":  byString(func(u entities.User) string { return u.Name }),
		"email": byString(func(u entities.User) string { return u.Email }),
	},
	filters: map[string]func(entities.User) string{
		"email": func(u entities.User) string { return u.Email },
	},
}

var bookRules = queryRules[entities.Book]{
	searchFields: func(b entities.Book) []string { return []string{b.Title, b.Author, b.Genre, b.ISBN} },
	sorts: map[string]func(a, b entities.Book) int{
		"title":  byString(func(b entities.Book) string { return b.Title }),
		"author": byString(func(b entities.Book) string { return b.Author }),
		"genre":  byString(func(b entities.Book) string { return b.Genre }),
		"isbn":   byString(func(b entities.Book) string { return b.ISBN }),
	},
	filters: map[string]func(entities.Book) string{
		"genre":  func(b entities.Book) string { return b.Genre },
		"author": func(b entities.Book) string { return b.Author },
	},
}

var reviewRules = queryRules[entities.Review]{
	searchFields: func(r entities.Review) []string {
		return []string{r.Book.Title, r.Book.Author, r.User.Name, r.Comment}
	},
	sorts: map[string]func(a, b entities.Review) int{
		// highest rating first
		"rating": func(a, b entities.Review) int { return cmp.Compare(b.Rating, a.Rating) },
		"title":  byString(func(r entities.Review) string { return r.Book.Title }),
		"user":   byString(func(r entities.Review) string { return r.User.Name }),
	},
	filters: map[string]func(entities.Review) string{
		"genre":  func(r entities.Review) string { return r.Book.Genre },
		"author": func(r entities.Review) string { return r.Book.Author },
		"user":   func(r entities.Review) string { return r.User.Name },
	},
}

var recommendationRules = queryRules[entities.Recommendation]{
	searchFields: func(r entities.Recommendation) []string {
		return []string{r.Book.Title, r.Book.Author, r.User.Name}
	},
	sorts: map[string]func(a, b entities.Recommendation) int{
		"title": byString(func(r entities.Recommendation) string { return r.Book.Title }),
		"user":  byString(func(r entities.Recommendation) string { return r.User.Name }),
	},
	filters: map[string]func(entities.Recommendation) string{
		"genre":  func(r entities.Recommendation) string { return r.Book.Genre },
		"author": func(r entities.Recommendation) string { return r.Book.Author },
		"user":   func(r entities.Recommendation) string { return r.User.Name },
	},
}
