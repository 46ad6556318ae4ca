package config

// Config holds all configuration for the application.
type Config struct {
	Port          string
	StoreBackend  string
	DataFile      string
	DataFormat    string
	DBName        string
	Turso         TursoConfig
	AdminPassword string
	LogLevel      string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
