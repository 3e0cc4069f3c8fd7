// Package cache keeps recently read documents in memory in front of a slow
// backend such as Google Sheets.
package cache

import (
	"context"
	"path/filepath"
	"time"

	"attendance/internal/sheets"
)

// Documents is a read-through cache over a sheets.Document. Writes go
// straight to the backend and then refresh the cached copy; grids are cloned
// in both directions so callers never share state with the cache.
type Documents struct {
	inner sheets.Document
	grids *LRUCache[*sheets.Grid]
}

// listingDocuments also forwards ListDocuments.
type listingDocuments struct {
	*Documents
	lister sheets.DocumentLister
}

func (d *listingDocuments) ListDocuments(ctx context.Context) ([]string, error) {
	return d.lister.ListDocuments(ctx)
}

// NewDocuments wraps inner. The result implements sheets.DocumentLister
// exactly when inner does.
func NewDocuments(inner sheets.Document, maxSize int, ttl time.Duration) sheets.Document {
	d := &Documents{inner: inner, grids: NewLRUCache[*sheets.Grid](maxSize, ttl)}
	if l, ok := inner.(sheets.DocumentLister); ok {
		return &listingDocuments{Documents: d, lister: l}
	}
	return d
}

func (d *Documents) WriteDocument(ctx context.Context, path string, g *sheets.Grid) error {
	key := filepath.Clean(path)
	if err := d.inner.WriteDocument(ctx, path, g); err != nil {
		d.grids.Delete(key)
		return err
	}
	d.grids.Set(key, g.Clone())
	return nil
}

func (d *Documents) ReadDocument(ctx context.Context, path string) (*sheets.Grid, error) {
	key := filepath.Clean(path)
	if g, ok := d.grids.Get(key); ok {
		return g.Clone(), nil
	}
	g, err := d.inner.ReadDocument(ctx, path)
	if err != nil {
		return nil, err
	}
	d.grids.Set(key, g.Clone())
	return g, nil
}

// Cached returns the number of documents currently held.
func (d *Documents) Cached() int {
	return d.grids.Size()
}
