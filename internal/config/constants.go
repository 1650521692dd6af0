package config

const (
	// DefaultPort is the port the service has always listened on.
	DefaultPort = 18525

	DefaultStorageBackend = "json"

	// DefaultDataDir holds the four JSON snapshot files.
	DefaultDataDir = "."

	// DefaultDatabasePath is used when STORAGE_BACKEND=sqlite.
	DefaultDatabasePath = "./bookreviews.db"
)
