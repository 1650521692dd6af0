// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## HTTP Stores (internal/http/stores.go)
//
//   - UserStore, BookStore, ReviewStore: CRUD plus list queries
//   - RecommendationReader: read-only access to derived recommendations
//   - RecommendationWriter: the admin insert path
//   - CountsProvider: collection sizes for /health
//
// catalog.Service implements all of them behind a single lock.
//
// ## Snapshot Backends (internal/snapshot/snapshot.go)
//
//   - Store: Load/Save/Close for the four collections
//
// Implementations: JSONStore (one file per collection) and SQLiteStore (gorm).
//
// ## Checkpointing (internal/scheduler/checkpoint.go)
//
//   - Source: anything that can produce a consistent snapshot.Data
//   - http.CheckpointStatus: last run time and error, reported by /health
//
// # Adding a New Snapshot Backend
//
//  1. Implement snapshot.Store in internal/snapshot/
//
//     type BoltStore struct { path string }
//
//     func (s *BoltStore) Name() string
//     func (s *BoltStore) Load(ctx context.Context) (Data, error)
//     func (s *BoltStore) Save(ctx context.Context, data Data) error
//     func (s *BoltStore) Close() error
//
//  2. Register the name in snapshot.Open
//
//  3. Add a compile-time check to checks.go
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go.
package interfaces
