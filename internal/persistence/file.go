package persistence

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/arena/internal/arena"
)

// corruptSuffix is appended to a document that failed to decode so the next
// save does not overwrite it.
const corruptSuffix = ".corrupt"

var _ arena.Gateway = (*FileGateway)(nil)

// FileGateway keeps the store as a single document at a fixed path.
type FileGateway struct {
	mu    sync.Mutex
	path  string
	codec Codec
}

// NewFileGateway creates a gateway for the document at path.
func NewFileGateway(path string, codec Codec) *FileGateway {
	return &FileGateway{path: path, codec: codec}
}

// Path returns the location of the document.
func (g *FileGateway) Path() string {
	return g.path
}

// Save writes the document to a temporary file in the same directory and
// renames it over the previous one.
func (g *FileGateway) Save(snap *arena.Snapshot) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	b, err := g.codec.Encode(snap)
	if err != nil {
		return err
	}

	dir, base := filepath.Split(g.path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, base+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary document: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync document: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close document: %w", err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set document permissions: %w", err)
	}
	if err = os.Rename(tmpName, g.path); err != nil {
		return fmt.Errorf("failed to replace document %s: %w", g.path, err)
	}

	log.Debug("Saved document", "path", g.path, "format", g.codec.Name(), "bytes", len(b))
	return nil
}

// Load reads the document. A missing or empty file yields nil. A document
// that fails to decode is moved aside to <path>.corrupt.
func (g *FileGateway) Load() (*arena.Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	b, err := os.ReadFile(g.path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info("No document found, starting fresh", "path", g.path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", g.path, err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		log.Info("Document is empty, starting fresh", "path", g.path)
		return nil, nil
	}

	snap, err := g.codec.Decode(b)
	if err != nil {
		quarantine := g.path + corruptSuffix
		if renameErr := os.Rename(g.path, quarantine); renameErr != nil {
			log.Error("Failed to move corrupt document aside", "path", g.path, "error", renameErr)
		} else {
			log.Warn("Moved corrupt document aside", "path", g.path, "quarantine", quarantine)
		}
		return nil, fmt.Errorf("%w: %s: %w", arena.ErrCorruptDocument, g.path, err)
	}
	return snap, nil
}
