// Package fs stores uploaded files on the local filesystem under a
// single root directory, keyed by an opaque generated name.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/webblog/publishing-api/internal/core/domain"
)

type FileStore struct {
	root string
}

func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create file store root: %w", err)
	}
	return &FileStore{root: root}, nil
}

// Save writes the content under a fresh name and returns it. Only the
// extension of the original filename survives; the rest is replaced so
// stored names never collide or leak user input into paths.
func (s *FileStore) Save(_ context.Context, originalFilename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	storedName := uuid.NewString() + ext

	f, err := os.Create(filepath.Join(s.root, storedName))
	if err != nil {
		return "", fmt.Errorf("%w: create file: %v", domain.ErrStorageUnavailable, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("%w: write file: %v", domain.ErrStorageUnavailable, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: close file: %v", domain.ErrStorageUnavailable, err)
	}
	return storedName, nil
}

// Open returns the stored content and its MIME type, derived from the
// stored name's extension.
func (s *FileStore) Open(_ context.Context, storedName string) (io.ReadCloser, string, error) {
	f, err := os.Open(filepath.Join(s.root, filepath.Base(storedName)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", domain.ErrFileNotFound
		}
		return nil, "", fmt.Errorf("%w: open file: %v", domain.ErrStorageUnavailable, err)
	}
	return f, contentType(storedName), nil
}

// Delete removes the stored file. A file that should exist but does not
// is reported distinctly so callers can treat it as an inconsistency.
func (s *FileStore) Delete(_ context.Context, storedName string) error {
	path := filepath.Join(s.root, filepath.Base(storedName))
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.ErrFileMissing
		}
		return fmt.Errorf("%w: stat file: %v", domain.ErrStorageUnavailable, err)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("%w: remove file: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
