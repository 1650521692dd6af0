package http

import (
	"github.com/mrlokans/bookreviews/internal/audit"
	"github.com/mrlokans/bookreviews/internal/readonly"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Store Store
	Audit *audit.Service // nil disables the audit trail

	// ReadOnly rejects mutating requests when enabled
	ReadOnly *readonly.Middleware

	// Application info
	Version string
	Backend string

	// Checkpoint reports the last snapshot flush, optional
	Checkpoint CheckpointStatus
}
