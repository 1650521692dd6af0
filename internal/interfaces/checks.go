package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookreviews/internal/catalog"
	"github.com/mrlokans/bookreviews/internal/entities"
	"github.com/mrlokans/bookreviews/internal/http"
	"github.com/mrlokans/bookreviews/internal/scheduler"
	"github.com/mrlokans/bookreviews/internal/snapshot"
)

// =============================================================================
// HTTP Stores
// =============================================================================

var _ http.Store = (*catalog.Service)(nil)
var _ http.CountsProvider = (*catalog.Service)(nil)

// =============================================================================
// Snapshot Backends
// =============================================================================

var _ snapshot.Store = (*snapshot.JSONStore)(nil)
var _ snapshot.Store = (*snapshot.SQLiteStore)(nil)

// =============================================================================
// Checkpointing
// =============================================================================

var _ scheduler.Source = (*catalog.Service)(nil)
var _ http.CheckpointStatus = (*scheduler.CheckpointScheduler)(nil)

// =============================================================================
// Dependent Records
// =============================================================================

var _ entities.Linked = entities.Review{}
var _ entities.Linked = entities.Recommendation{}
