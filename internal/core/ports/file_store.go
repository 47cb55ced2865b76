package ports

import (
	"context"
	"io"
)

// FileStore is the side-collaborator that keeps raw image bytes. Stored
// names are opaque to callers and guaranteed unique per store.
type FileStore interface {
	// Save writes the bytes under a collision-resistant name derived from
	// the original filename's extension and returns that stored name.
	Save(ctx context.Context, originalFilename string, r io.Reader) (string, error)
	// Open returns the stored bytes and a best-effort content type.
	// A missing file yields domain.ErrFileNotFound.
	Open(ctx context.Context, storedName string) (io.ReadCloser, string, error)
	// Delete removes the stored file. A missing file yields
	// domain.ErrFileMissing: from the caller's point of view the record
	// says the file should exist, so its absence is an inconsistency, not
	// something to clean up silently.
	Delete(ctx context.Context, storedName string) error
}
