// Package imagestore persists detection snapshots on the local filesystem
// and hands back dereferenceable references for them. References are the
// public URL paths served by the HTTP layer; only the basename is ever
// used to touch the filesystem, so a reference can never escape the
// storage root.
package imagestore

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/faunawatch/faunawatch-go/internal/errors"
	"github.com/faunawatch/faunawatch-go/internal/logging"
	"github.com/google/uuid"
)

// URLPrefix is the public path prefix under which snapshots are served.
const URLPrefix = "/media/"

// Store writes snapshot bytes under a single root directory.
type Store struct {
	root   string
	logger *slog.Logger
	clock  func() time.Time
}

// New creates the store, creating the root directory if needed.
func New(root string) (*Store, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.New(err).
			Component("imagestore").
			Category(errors.CategoryConfiguration).
			Context("path", root).
			Build()
	}
	if err := os.MkdirAll(absRoot, 0o755); err != nil {
		return nil, errors.New(err).
			Component("imagestore").
			Category(errors.CategoryImageStore).
			Context("path", absRoot).
			Build()
	}
	return &Store{
		root:   absRoot,
		logger: logging.ForService("imagestore"),
		clock:  time.Now,
	}, nil
}

// Root returns the absolute storage directory.
func (s *Store) Root() string {
	return s.root
}

// Save persists the snapshot bytes and returns its public reference. The
// filename is time-based and unique; on write failure nothing is returned
// and the caller must abort the ingestion.
func (s *Store) Save(data []byte) (string, error) {
	name := fmt.Sprintf("detection_%d_%s.jpg", s.clock().UnixMilli(), uuid.NewString()[:8])
	fullPath := filepath.Join(s.root, name)

	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", errors.New(err).
			Component("imagestore").
			Category(errors.CategoryImageStore).
			Context("operation", "save_snapshot").
			Build()
	}

	return path.Join(URLPrefix, name), nil
}

// Remove deletes the snapshot behind a reference. Cleanup is best effort:
// failures are logged, never surfaced, because a leaked file is cheaper
// than failing the delete that triggered it.
func (s *Store) Remove(ref string) {
	if ref == "" {
		return
	}

	name := filepath.Base(ref)
	if name == "." || name == string(filepath.Separator) || strings.Contains(name, "..") {
		s.logger.Warn("refusing to remove suspicious snapshot reference", "ref", ref)
		return
	}

	if err := os.Remove(filepath.Join(s.root, name)); err != nil && !os.IsNotExist(err) {
		s.logger.Error("failed to remove snapshot", "ref", ref, "error", err)
	}
}
