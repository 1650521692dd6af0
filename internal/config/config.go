package config

import (
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Storage
		Checkpoint
		Audit
		Global
		Logging
		ReadOnly
	}

	HTTP struct {
		Port    int32
		Host    string
		GinMode string // debug, release or test
	}
	Storage struct {
		Backend      string // json or sqlite
		DataDir      string // Directory holding users.json, books.json, ...
		DatabasePath string // SQLite file used by the sqlite backend
	}
	Checkpoint struct {
		Enabled  bool
		Schedule string // Cron format: "*/15 * * * *" = every 15 minutes
	}
	Audit struct {
		Dir string // Empty disables the audit trail
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Logging struct {
		Level  string
		Format string // json or console
	}
	ReadOnly struct {
		Enabled bool // Reject every mutating request with 403
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", DefaultPort)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("storage_backend", DefaultStorageBackend)
	v.SetDefault("data_dir", DefaultDataDir)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("checkpoint_enabled", false)
	v.SetDefault("checkpoint_schedule", "*/15 * * * *")
	v.SetDefault("audit_dir", "")
	v.SetDefault("read_only", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	return &Config{
		HTTP: HTTP{
			Port:    v.GetInt32("PORT"),
			Host:    v.GetString("HOST"),
			GinMode: v.GetString("GIN_MODE"),
		},
		Storage: Storage{
			Backend:      v.GetString("STORAGE_BACKEND"),
			DataDir:      v.GetString("DATA_DIR"),
			DatabasePath: v.GetString("DATABASE_PATH"),
		},
		Checkpoint: Checkpoint{
			Enabled:  v.GetBool("CHECKPOINT_ENABLED"),
			Schedule: v.GetString("CHECKPOINT_SCHEDULE"),
		},
		Audit: Audit{
			Dir: v.GetString("AUDIT_DIR"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Logging: Logging{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		ReadOnly: ReadOnly{
			Enabled: v.GetBool("READ_ONLY"),
		},
	}
}
