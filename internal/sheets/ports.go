package sheets

import (
	"context"
	"errors"
)

// ErrDocumentNotFound is wrapped by backends when path does not exist.
var ErrDocumentNotFound = errors.New("document not found")

// Ports for outbound document adapters.
type (
	DocumentWriter interface {
		// WriteDocument replaces the document at path with g.
		WriteDocument(ctx context.Context, path string, g *Grid) error
	}

	DocumentReader interface {
		// ReadDocument returns the first worksheet of the document at path.
		ReadDocument(ctx context.Context, path string) (*Grid, error)
	}

	Document interface {
		DocumentWriter
		DocumentReader
	}

	// DocumentLister is implemented by backends that can enumerate what
	// they hold.
	DocumentLister interface {
		ListDocuments(ctx context.Context) ([]string, error)
	}
)
