package memory

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"attendance/internal/sheets"
)

// Store keeps documents in process memory, keyed by cleaned path.
type Store struct {
	mu   sync.Mutex
	docs map[string]*sheets.Grid
}

var (
	_ sheets.Document       = (*Store)(nil)
	_ sheets.DocumentLister = (*Store)(nil)
)

func New() *Store {
	return &Store{docs: make(map[string]*sheets.Grid)}
}

// WriteDocument stores a copy of g under path.
func (s *Store) WriteDocument(_ context.Context, path string, g *sheets.Grid) error {
	if g == nil {
		return fmt.Errorf("write %s: nil grid", path)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[filepath.Clean(path)] = g.Clone()
	return nil
}

// ReadDocument returns a copy of the document stored under path.
func (s *Store) ReadDocument(_ context.Context, path string) (*sheets.Grid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.docs[filepath.Clean(path)]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", path, sheets.ErrDocumentNotFound)
	}
	return g.Clone(), nil
}

// ListDocuments lists stored document paths in lexical order.
func (s *Store) ListDocuments(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.docs))
	for p := range s.docs {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}
