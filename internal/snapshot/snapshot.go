// Package snapshot persists the four collections between process runs.
//
// Two backends exist: JSONStore writes one JSON array per collection into a
// directory, SQLiteStore writes one table per collection through gorm. Both
// are only touched at process boundaries and on scheduled checkpoints, never
// while a cascade is running.
package snapshot

import (
	"context"
	"fmt"

	"github.com/mrlokans/bookreviews/internal/entities"
)

// Data is the full persisted state.
type Data struct {
	Users           []entities.User
	Books           []entities.Book
	Reviews         []entities.Review
	Recommendations []entities.Recommendation
}

// Counts returns the number of records per collection, in the order
// users, books, reviews, recommendations.
func (d Data) Counts() (int, int, int, int) {
	return len(d.Users), len(d.Books), len(d.Reviews), len(d.Recommendations)
}

// Store is a snapshot backend.
//
// Load never fails because a collection is missing or corrupt: such a
// collection comes back empty and the problem is logged. Errors are reserved
// for the backend itself being unusable.
type Store interface {
	Name() string
	Load(ctx context.Context) (Data, error)
	Save(ctx context.Context, data Data) error
	Close() error
}

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Open returns the backend named by backend.
func Open(backend, dataDir, databasePath string) (Store, error) {
	switch backend {
	case BackendJSON, "":
		return NewJSONStore(dataDir), nil
	case BackendSQLite:
		return NewSQLiteStore(databasePath)
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", backend)
	}
}
