package storage_test

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"fyne.io/fyne/v2"
	fynestorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ErikKalkoken/jsoneditor/internal/jsonvalue"
	"github.com/ErikKalkoken/jsoneditor/internal/storage"
)

func TestURIStore(t *testing.T) {
	test.NewTempApp(t)
	ctx := context.Background()
	s := storage.NewURIStore()
	t.Run("can save and load a document", func(t *testing.T) {
		uri := fynestorage.NewFileURI(filepath.Join(t.TempDir(), "doc.json"))
		doc := jsonvalue.MustParse(`{"z":[true,null],"a":"x"}`)
		err := s.Save(ctx, uri.String(), doc)
		require.NoError(t, err)
		got, err := s.Load(ctx, uri.String())
		if assert.NoError(t, err) {
			assert.Equal(t, doc.String(), got.String())
		}
	})
	t.Run("should return not found for missing files", func(t *testing.T) {
		uri := fynestorage.NewFileURI(filepath.Join(t.TempDir(), "missing.json"))
		_, err := s.Load(ctx, uri.String())
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
	t.Run("should reject invalid identifiers", func(t *testing.T) {
		_, err := s.Load(ctx, "no uri")
		assert.ErrorIs(t, err, storage.ErrInvalidName)
	})
	t.Run("can read document from reader", func(t *testing.T) {
		r := newMemoryReader(strings.NewReader(`[1,2]`), "test.json")
		got, err := storage.ReadDocument(r)
		if assert.NoError(t, err) {
			assert.Equal(t, `[1,2]`, got.String())
		}
		r = newMemoryReader(strings.NewReader(`[1,2`), "test.json")
		_, err = storage.ReadDocument(r)
		assert.ErrorIs(t, err, storage.ErrInvalidFormat)
	})
}

// memoryReader is a URIReadCloser serving an in-memory document.
type memoryReader struct {
	io.Reader
	uri fyne.URI
}

func newMemoryReader(r io.Reader, name string) memoryReader {
	return memoryReader{Reader: r, uri: fynestorage.NewFileURI("/tmp/" + name)}
}

func (r memoryReader) Close() error { return nil }

func (r memoryReader) URI() fyne.URI { return r.uri }
