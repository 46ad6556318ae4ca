package persistence

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/arena/internal/arena"
	"github.com/mauv0809/arena/internal/config"
	"github.com/mauv0809/arena/internal/database"
)

// Open returns the gateway selected by cfg and a teardown releasing it.
func Open(cfg config.Config) (arena.Gateway, func(), error) {
	codec, err := CodecFor(cfg.DataFormat)
	if err != nil {
		return nil, nil, err
	}

	switch cfg.StoreBackend {
	case config.BackendSQLite:
		db, teardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database gateway: %w", err)
		}
		log.Info("Using database gateway", "db", cfg.DBName, "remote", cfg.Turso.PrimaryURL != "", "format", codec.Name())
		return NewSQLGateway(db, codec), teardown, nil
	case config.BackendFile, "":
		log.Info("Using file gateway", "path", cfg.DataFile, "format", codec.Name())
		return NewFileGateway(cfg.DataFile, codec), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
