package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/ErikKalkoken/jsoneditor/internal/jsonvalue"
)

// HTTPStore stores documents with a remote file API.
// Documents are read with GET and written with PUT at {baseURL}/{id}.
// Requests are authorized with a bearer token when one is configured.
type HTTPStore struct {
	baseURL string
	client  *http.Client
	token   string
}

// NewHTTPStore returns a new store for the API at baseURL.
// When client is nil the default client is used.
func NewHTTPStore(client *http.Client, baseURL, token string) *HTTPStore {
	if client == nil {
		client = http.DefaultClient
	}
	s := &HTTPStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		token:   token,
	}
	return s
}

func (s *HTTPStore) Load(ctx context.Context, id string) (jsonvalue.Value, error) {
	name, err := SanitizeName(id)
	if err != nil {
		return jsonvalue.Value{}, err
	}
	req, err := s.newRequest(ctx, http.MethodGet, name, nil)
	if err != nil {
		return jsonvalue.Value{}, err
	}
	data, err := s.do(req)
	if err != nil {
		return jsonvalue.Value{}, err
	}
	v, err := decode(data)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("%s: %w", name, err)
	}
	slog.Info("Loaded document from remote", "name", name, "bytes", len(data))
	return v, nil
}

func (s *HTTPStore) Save(ctx context.Context, id string, v jsonvalue.Value) error {
	name, err := SanitizeName(id)
	if err != nil {
		return err
	}
	data, err := encode(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	req, err := s.newRequest(ctx, http.MethodPut, name, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if _, err := s.do(req); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteError, err)
	}
	slog.Info("Saved document to remote", "name", name, "bytes", len(data))
	return nil
}

func (s *HTTPStore) newRequest(ctx context.Context, method, name string, body io.Reader) (*http.Request, error) {
	u := fmt.Sprintf("%s/%s", s.baseURL, url.PathEscape(name))
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	return req, nil
}

// do executes a request and returns the response body.
// Error responses are mapped to the errors of this package.
func (s *HTTPStore) do(req *http.Request) ([]byte, error) {
	r, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer r.Body.Close()
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	if r.StatusCode < 400 {
		return data, nil
	}
	msg := errorMessage(data)
	if msg == "" {
		msg = r.Status
	}
	switch r.StatusCode {
	case http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", msg, ErrNotFound)
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%s: %w", msg, ErrUnauthorized)
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%s: %w", msg, ErrInvalidFormat)
	}
	return nil, fmt.Errorf("%s: %s", r.Status, msg)
}

// errorMessage returns the message from an error response like {"error": "File not found"}.
func errorMessage(data []byte) string {
	v, err := jsonvalue.Parse(data)
	if err != nil {
		return strings.TrimSpace(string(data))
	}
	if x, ok := v.Field("error"); ok {
		if s, ok := x.Str(); ok {
			return s
		}
	}
	return v.String()
}
