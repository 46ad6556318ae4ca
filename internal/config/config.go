package config

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"

	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	getEnv := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			return value
		}
		return fallback
	}

	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		StoreBackend: getEnv("STORE_BACKEND", BackendFile),
		DataFile:     getEnv("DATA_FILE", "arena_data.json"),
		DataFormat:   getEnv("DATA_FORMAT", FormatJSON),
		DBName:       getEnv("DB_NAME", "arena.db"),
		Turso: TursoConfig{
			PrimaryURL: getEnv("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnv("TURSO_AUTH_TOKEN", ""),
		},
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	switch cfg.StoreBackend {
	case BackendFile, BackendSQLite:
	default:
		log.Fatalf("Error: STORE_BACKEND must be %q or %q, got %q", BackendFile, BackendSQLite, cfg.StoreBackend)
	}
	switch cfg.DataFormat {
	case FormatJSON, FormatMsgpack:
	default:
		log.Fatalf("Error: DATA_FORMAT must be %q or %q, got %q", FormatJSON, FormatMsgpack, cfg.DataFormat)
	}
	return cfg
}
