package tracker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultStorePath is the workbook file used when the caller does not
// specify one.
const DefaultStorePath = "workbook.jsonl"

// LoadStore loads the workbook from a file. A missing file is not an error:
// a reconciliation session may be the very first one, so it returns an empty
// store instead.
func LoadStore(path string) (*Store, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewStore(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open workbook file %q: %w", path, err)
	}
	defer f.Close()

	store, err := DecodeStore(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode workbook file %q: %w", path, err)
	}
	return store, nil
}

// SaveStore persists the workbook to a file. The save is the only mutating
// I/O of a reconciliation session and happens last; on error the previous
// file content is left as it was.
func SaveStore(store *Store, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("could not create directory for workbook %q: %w", path, err)
		}
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("error opening workbook file %q for writing: %w", tmp, err)
	}

	if err := EncodeStore(f, store); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("error writing workbook file %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("error replacing workbook file %q: %w", path, err)
	}
	return nil
}

// Write merges records into the workbook at path and saves it back. It is
// the single entry point the CLI uses: load once, reconcile in memory, save
// once at the end. It returns the number of records actually merged.
func Write(records []Record, path string) (int, error) {
	if path == "" {
		path = DefaultStorePath
	}
	store, err := LoadStore(path)
	if err != nil {
		return 0, err
	}
	fresh, err := store.Ingest(records...)
	if err != nil {
		return 0, err
	}
	if err := SaveStore(store, path); err != nil {
		return 0, err
	}
	return fresh, nil
}
