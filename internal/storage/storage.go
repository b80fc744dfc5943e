// Package storage provides places to load documents from and save documents to.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErikKalkoken/jsoneditor/internal/jsonvalue"
)

var (
	ErrNotFound      = errors.New("document not found")
	ErrInvalidFormat = errors.New("invalid document format")
	ErrWriteError    = errors.New("failed to write document")
	ErrInvalidName   = errors.New("invalid document name")
	ErrUnauthorized  = errors.New("unauthorized")
)

// Store loads and saves documents by identifier.
// The namespace of identifiers is defined by each implementation.
type Store interface {
	Load(ctx context.Context, id string) (jsonvalue.Value, error)
	Save(ctx context.Context, id string, v jsonvalue.Value) error
}

// encode returns the text of a document as stored.
// Only objects and arrays can be stored.
func encode(v jsonvalue.Value) ([]byte, error) {
	if !v.Type().IsContainer() {
		return nil, ErrInvalidFormat
	}
	return jsonvalue.MarshalIndent(v)
}

// decode parses the text of a stored document.
func decode(data []byte) (jsonvalue.Value, error) {
	v, err := jsonvalue.Parse(data)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	return v, nil
}
