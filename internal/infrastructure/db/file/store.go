// Package file implements the repository ports on top of JSON snapshot
// files. Each repository owns one file and serializes access with a
// mutex: every operation reads the whole snapshot, mutates it in memory
// and writes it back atomically.
package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/webblog/publishing-api/internal/core/domain"
)

// readSnapshot loads the JSON list at path into out. A missing file is
// an empty store. A file that exists but does not parse is reported as
// corrupted and is never overwritten or repaired here.
func readSnapshot(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: read %s: %v", domain.ErrStorageUnavailable, filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrCorruptedStore, filepath.Base(path), err)
	}
	return nil
}

// writeSnapshot writes the JSON list atomically: marshal, write to a
// temp file next to the target, then rename over it.
func writeSnapshot(path string, in any) error {
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", domain.ErrStorageUnavailable, filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", domain.ErrStorageUnavailable, filepath.Base(path), err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: write %s: %v", domain.ErrStorageUnavailable, filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: write %s: %v", domain.ErrStorageUnavailable, filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: write %s: %v", domain.ErrStorageUnavailable, filepath.Base(path), err)
	}
	return nil
}
