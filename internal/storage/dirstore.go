package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ErikKalkoken/jsoneditor/internal/jsonvalue"
)

const fileExtension = ".json"

// DirStore stores documents as JSON files in a directory.
// Identifiers are file names. They are reduced to their base name
// and get a .json extension when missing.
type DirStore struct {
	dir string
}

// NewDirStore returns a store for dir. The directory is created when it does not exist.
func NewDirStore(dir string) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DirStore{dir: dir}, nil
}

// Dir returns the directory of the store.
func (s *DirStore) Dir() string {
	return s.dir
}

func (s *DirStore) Load(ctx context.Context, id string) (jsonvalue.Value, error) {
	name, err := SanitizeName(id)
	if err != nil {
		return jsonvalue.Value{}, err
	}
	if err := ctx.Err(); err != nil {
		return jsonvalue.Value{}, err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return jsonvalue.Value{}, fmt.Errorf("%s: %w", name, ErrNotFound)
	} else if err != nil {
		return jsonvalue.Value{}, err
	}
	v, err := decode(data)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("%s: %w", name, err)
	}
	slog.Info("Loaded document from file", "name", name, "bytes", len(data))
	return v, nil
}

// Save writes a document indented by two spaces.
// The file is replaced atomically.
func (s *DirStore) Save(ctx context.Context, id string, v jsonvalue.Value) error {
	name, err := SanitizeName(id)
	if err != nil {
		return err
	}
	data, err := encode(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.CreateTemp(s.dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteError, err)
	}
	defer os.Remove(f.Name())
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("%w: %w", ErrWriteError, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteError, err)
	}
	if err := os.Rename(f.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteError, err)
	}
	slog.Info("Saved document to file", "name", name, "bytes", len(data))
	return nil
}

// List returns the names of all documents sorted by name.
func (s *DirStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0)
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || strings.HasPrefix(n, ".") || filepath.Ext(n) != fileExtension {
			continue
		}
		names = append(names, n)
	}
	slices.Sort(names)
	return names, nil
}

// SanitizeName returns the file name for a document identifier.
func SanitizeName(id string) (string, error) {
	name := filepath.Base(filepath.FromSlash(strings.TrimSpace(id)))
	switch name {
	case "", ".", "..", string(filepath.Separator):
		return "", fmt.Errorf("%q: %w", id, ErrInvalidName)
	}
	if !strings.HasSuffix(name, fileExtension) {
		name += fileExtension
	}
	return name, nil
}
