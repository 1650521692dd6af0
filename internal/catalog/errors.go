package catalog

import (
	"errors"
	"fmt"

	"github.com/mrlokans/bookreviews/internal/store"
)

var (
	// ErrNotFound is wrapped by every NotFoundError.
	ErrNotFound = store.ErrNotFound

	// ErrMalformedInput marks requests that lack required fields. It is
	// returned before any collection is touched.
	ErrMalformedInput = errors.New("malformed input")
)

// NotFoundError names the missing record.
type NotFoundError struct {
	Kind string // "user", "book", "review", "recommendation"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func notFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

const (
	KindUser           = "user"
	KindBook           = "book"
	KindReview         = "review"
	KindRecommendation = "recommendation"
)
