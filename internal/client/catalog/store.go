package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/edulibrary/internal/client/models"
	"github.com/dmitrijs2005/edulibrary/internal/logging"
)

// ErrServerReported is returned by Refresh when the server answered with a
// listing that carries an error field.
var ErrServerReported = errors.New("server reported an error")

// Lister fetches the full listing. client.Client satisfies it.
type Lister interface {
	ListFiles(ctx context.Context) (*models.Listing, error)
}

// Catalog is an immutable snapshot of the store.
type Catalog struct {
	Files      []models.File
	Categories []string
}

type Store struct {
	src Lister
	log logging.Logger

	mu      sync.RWMutex
	current Catalog
	loaded  bool
}

func NewStore(src Lister, log logging.Logger) *Store {
	if log == nil {
		log = logging.Discard()
	}
	return &Store{src: src, log: log}
}

// Refresh issues one listing query and swaps the catalog on success.
// On any failure the previous catalog is retained and the error is logged
// and returned.
func (s *Store) Refresh(ctx context.Context) error {
	listing, err := s.src.ListFiles(ctx)
	if err == nil && listing.Error != "" {
		err = fmt.Errorf("%w: %s", ErrServerReported, listing.Error)
	}
	if err != nil {
		s.log.Error(ctx, "catalog refresh failed, keeping previous catalog", logging.Err(err))
		return fmt.Errorf("refresh catalog: %w", err)
	}

	next := Catalog{
		Files:      append([]models.File(nil), listing.Files...),
		Categories: append([]string(nil), listing.Categories...),
	}

	s.mu.Lock()
	s.current = next
	s.loaded = true
	s.mu.Unlock()

	s.log.Debug(ctx, "catalog refreshed", "files", len(next.Files), "categories", len(next.Categories))
	return nil
}

// Snapshot returns the current catalog. Callers must not modify it.
func (s *Store) Snapshot() Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Loaded reports whether at least one refresh has succeeded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Find returns the record with the given id.
func (s *Store) Find(id int64) (models.File, bool) {
	for _, f := range s.Snapshot().Files {
		if f.ID == id {
			return f, true
		}
	}
	return models.File{}, false
}

// FilterByCategory returns the files in category name, or every file when
// name is models.AllCategories. Server order is preserved.
func FilterByCategory(c Catalog, name string) []models.File {
	if name == models.AllCategories {
		return append([]models.File(nil), c.Files...)
	}
	out := make([]models.File, 0, len(c.Files))
	for _, f := range c.Files {
		if f.Category == name {
			out = append(out, f)
		}
	}
	return out
}

// OwnedBy returns the files uploaded by username, in server order.
func OwnedBy(c Catalog, username string) []models.File {
	out := make([]models.File, 0)
	for _, f := range c.Files {
		if f.UploadedBy == username {
			out = append(out, f)
		}
	}
	return out
}
