package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// File implements KV as one file per key inside a directory.
// Writes go to a temp file first and are renamed into place.
type File struct {
	fs  afero.Fs
	dir string
	mu  sync.Mutex
}

// OpenFile returns a File store rooted at dir on fs, creating dir if needed.
func OpenFile(fs afero.Fs, dir string) (*File, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &File{fs: fs, dir: dir}, nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, strings.ReplaceAll(key, string(filepath.Separator), "_")+".json")
}

// Get returns the value stored under key or ErrNotFound.
func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := afero.ReadFile(f.fs, f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return b, err
}

// Set atomically replaces the value under key.
func (f *File) Set(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	dst := f.path(key)
	tmp, err := afero.TempFile(f.fs, f.dir, filepath.Base(dst)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = f.fs.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = f.fs.Remove(tmpName)
		return err
	}
	if err := f.fs.Rename(tmpName, dst); err != nil {
		_ = f.fs.Remove(tmpName)
		return err
	}
	return nil
}

// Close is a no-op; files are closed after every operation.
func (f *File) Close() error { return nil }
