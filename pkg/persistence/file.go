package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// DefaultStateDir is used by the file driver when no path is configured.
const DefaultStateDir = ".tripsurvey"

type fileBackend struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore returns a gateway that keeps one JSON file per key inside
// dir. Writes go to a temporary file that is renamed into place.
func NewFileStore(dir string) (*Store, error) {
	if dir == "" {
		dir = DefaultStateDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("persistence: create state dir: %w", err)
	}
	return newStore(DriverFile, &fileBackend{dir: dir}), nil
}

func (f *fileBackend) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *fileBackend) get(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read(key)
}

func (f *fileBackend) read(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (f *fileBackend) put(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.write(key, value)
}

func (f *fileBackend) write(key string, value []byte) error {
	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, f.path(key)); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func (f *fileBackend) putIfAbsent(_ context.Context, key string, value []byte) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok, err := f.read(key)
	if err != nil {
		return nil, err
	}
	if ok && len(existing) > 0 {
		return existing, nil
	}
	if err := f.write(key, value); err != nil {
		return nil, err
	}
	return value, nil
}

func (f *fileBackend) close() error { return nil }
