package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"fyne.io/fyne/v2"
	fynestorage "fyne.io/fyne/v2/storage"

	"github.com/ErikKalkoken/jsoneditor/internal/jsonvalue"
)

// URIStore stores documents at Fyne URIs, e.g. files chosen in a file dialog.
// Identifiers are URI strings.
type URIStore struct{}

func NewURIStore() *URIStore {
	return &URIStore{}
}

func (s *URIStore) Load(ctx context.Context, id string) (jsonvalue.Value, error) {
	uri, err := fynestorage.ParseURI(id)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("%q: %w", id, ErrInvalidName)
	}
	return s.LoadURI(ctx, uri)
}

// LoadURI loads the document at uri.
func (s *URIStore) LoadURI(ctx context.Context, uri fyne.URI) (jsonvalue.Value, error) {
	if err := ctx.Err(); err != nil {
		return jsonvalue.Value{}, err
	}
	exists, err := fynestorage.Exists(uri)
	if err != nil {
		return jsonvalue.Value{}, err
	}
	if !exists {
		return jsonvalue.Value{}, fmt.Errorf("%s: %w", uri, ErrNotFound)
	}
	r, err := fynestorage.Reader(uri)
	if err != nil {
		return jsonvalue.Value{}, err
	}
	defer r.Close()
	return ReadDocument(r)
}

// ReadDocument reads a document from a reader, e.g. the reader of a file open dialog.
func ReadDocument(r fyne.URIReadCloser) (jsonvalue.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("failed to read file: %w", err)
	}
	v, err := decode(data)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("%s: %w", r.URI(), err)
	}
	slog.Info("Read document", "uri", r.URI(), "bytes", len(data))
	return v, nil
}

func (s *URIStore) Save(ctx context.Context, id string, v jsonvalue.Value) error {
	uri, err := fynestorage.ParseURI(id)
	if err != nil {
		return fmt.Errorf("%q: %w", id, ErrInvalidName)
	}
	data, err := encode(v)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	w, err := fynestorage.Writer(uri)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteError, err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("%w: %w", ErrWriteError, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteError, err)
	}
	slog.Info("Saved document", "uri", uri, "bytes", len(data))
	return nil
}
