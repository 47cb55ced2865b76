package fs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/webblog/publishing-api/internal/core/domain"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "images"))
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	return store
}

func TestFileStore_SaveAndOpen(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	name, err := store.Save(ctx, "photo.PNG", bytes.NewReader([]byte("image-bytes")))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !strings.HasSuffix(name, ".png") {
		t.Errorf("stored name %q should keep a lowercased extension", name)
	}
	if strings.Contains(name, "photo") {
		t.Errorf("stored name %q leaks the original filename", name)
	}

	rc, contentType, err := store.Open(ctx, name)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "image-bytes" {
		t.Errorf("got content %q", data)
	}
	if contentType != "image/png" {
		t.Errorf("got content type %q, want image/png", contentType)
	}
}

func TestFileStore_UniqueNames(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a, err := store.Save(ctx, "same.jpg", bytes.NewReader([]byte("a")))
	if err != nil {
		t.Fatal(err)
	}
	b, err := store.Save(ctx, "same.jpg", bytes.NewReader([]byte("b")))
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Errorf("two saves of the same filename produced one stored name %q", a)
	}
}

func TestFileStore_OpenMissing(t *testing.T) {
	store := newTestStore(t)

	if _, _, err := store.Open(context.Background(), "nope.png"); !errors.Is(err, domain.ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestFileStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	name, err := store.Save(ctx, "gone.png", bytes.NewReader([]byte("x")))
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, name); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, _, err := store.Open(ctx, name); !errors.Is(err, domain.ErrFileNotFound) {
		t.Errorf("file still readable after delete: %v", err)
	}
	if err := store.Delete(ctx, name); !errors.Is(err, domain.ErrFileMissing) {
		t.Errorf("expected ErrFileMissing on second delete, got %v", err)
	}
}
