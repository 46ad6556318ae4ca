package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/arena/internal/arena"
)

// DocumentName is the row holding the store document.
const DocumentName = "arena"

var _ arena.Gateway = (*SQLGateway)(nil)

// SQLGateway keeps the store as a single row of the documents table.
type SQLGateway struct {
	db    *sql.DB
	codec Codec
	name  string
}

// NewSQLGateway creates a gateway writing the DocumentName row with codec.
func NewSQLGateway(db *sql.DB, codec Codec) *SQLGateway {
	return &SQLGateway{db: db, codec: codec, name: DocumentName}
}

// Save upserts the document row.
func (g *SQLGateway) Save(snap *arena.Snapshot) error {
	b, err := g.codec.Encode(snap)
	if err != nil {
		return err
	}
	_, err = g.db.Exec(`
		INSERT INTO documents (name, body, format, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			body = excluded.body,
			format = excluded.format,
			updated_at = excluded.updated_at;
	`, g.name, b, g.codec.Name(), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save document %s: %w", g.name, err)
	}
	log.Debug("Saved document", "name", g.name, "format", g.codec.Name(), "bytes", len(b))
	return nil
}

// Load reads the document row. A missing row yields nil. The row is decoded
// with the codec it was written with. A row that fails to decode is moved to
// <name>.corrupt.
func (g *SQLGateway) Load() (*arena.Snapshot, error) {
	var (
		body   []byte
		format string
	)
	err := g.db.QueryRow("SELECT body, format FROM documents WHERE name = ?", g.name).Scan(&body, &format)
	if errors.Is(err, sql.ErrNoRows) {
		log.Info("No document found, starting fresh", "name", g.name)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", g.name, err)
	}
	if len(body) == 0 {
		return nil, nil
	}

	codec, err := CodecFor(format)
	if err == nil {
		var snap *arena.Snapshot
		if snap, err = codec.Decode(body); err == nil {
			return snap, nil
		}
	}

	if qErr := g.quarantine(); qErr != nil {
		log.Error("Failed to move corrupt document aside", "name", g.name, "error", qErr)
	} else {
		log.Warn("Moved corrupt document aside", "name", g.name, "quarantine", g.name+corruptSuffix)
	}
	return nil, fmt.Errorf("%w: %s: %w", arena.ErrCorruptDocument, g.name, err)
}

func (g *SQLGateway) quarantine() error {
	tx, err := g.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO documents (name, body, format, updated_at)
		SELECT ?, body, format, updated_at FROM documents WHERE name = ?
		ON CONFLICT(name) DO UPDATE SET
			body = excluded.body,
			format = excluded.format,
			updated_at = excluded.updated_at;
	`, g.name+corruptSuffix, g.name); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM documents WHERE name = ?", g.name); err != nil {
		return err
	}
	return tx.Commit()
}
