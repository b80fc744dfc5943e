package storage_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"

	"github.com/ErikKalkoken/jsoneditor/internal/jsonvalue"
	"github.com/ErikKalkoken/jsoneditor/internal/storage"
)

const baseURL = "https://www.example.com/api/files"

func TestHTTPStore(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	ctx := context.Background()
	s := storage.NewHTTPStore(nil, baseURL+"/", "secret")
	t.Run("can load document", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder("GET", baseURL+"/content.json",
			func(req *http.Request) (*http.Response, error) {
				if req.Header.Get("Authorization") != "Bearer secret" {
					return httpmock.NewStringResponse(401, `{"error":"Unauthorized"}`), nil
				}
				return httpmock.NewStringResponse(200, `{"b":1,"a":2}`), nil
			})
		got, err := s.Load(ctx, "content")
		if assert.NoError(t, err) {
			assert.Equal(t, `{"b":1,"a":2}`, got.String())
		}
	})
	t.Run("should escape names", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder("GET", baseURL+"/my%20file.json",
			httpmock.NewStringResponder(200, `[]`))
		_, err := s.Load(ctx, "my file")
		assert.NoError(t, err)
	})
	t.Run("should report missing document", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder("GET", baseURL+"/missing.json",
			httpmock.NewStringResponder(404, `{"error":"File not found"}`))
		_, err := s.Load(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorContains(t, err, "File not found")
	})
	t.Run("should report invalid documents", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder("GET", baseURL+"/broken.json",
			httpmock.NewStringResponder(200, `{"a":`))
		_, err := s.Load(ctx, "broken")
		assert.ErrorIs(t, err, storage.ErrInvalidFormat)
	})
	t.Run("should report unauthorized requests", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder("GET", baseURL+"/content.json",
			httpmock.NewStringResponder(401, `{"error":"Unauthorized"}`))
		_, err := s.Load(ctx, "content")
		assert.ErrorIs(t, err, storage.ErrUnauthorized)
	})
	t.Run("should report request errors", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder("GET", baseURL+"/content.json",
			httpmock.NewErrorResponder(fmt.Errorf("some error")))
		_, err := s.Load(ctx, "content")
		assert.Error(t, err)
	})
	t.Run("can save document", func(t *testing.T) {
		httpmock.Reset()
		var body string
		httpmock.RegisterResponder("PUT", baseURL+"/content.json",
			func(req *http.Request) (*http.Response, error) {
				data, err := io.ReadAll(req.Body)
				if err != nil {
					return nil, err
				}
				body = string(data)
				if req.Header.Get("Content-Type") != "application/json" {
					return httpmock.NewStringResponse(400, `{"error":"Bad request"}`), nil
				}
				return httpmock.NewStringResponse(200, `{"message":"File updated successfully"}`), nil
			})
		err := s.Save(ctx, "content", jsonvalue.MustParse(`{"a":1}`))
		if assert.NoError(t, err) {
			assert.Equal(t, "{\n  \"a\": 1\n}", body)
			assert.Equal(t, 1, httpmock.GetTotalCallCount())
		}
	})
	t.Run("should report write errors", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder("PUT", baseURL+"/content.json",
			httpmock.NewStringResponder(500, `{"error":"Failed to update file"}`))
		err := s.Save(ctx, "content", jsonvalue.MustParse(`{"a":1}`))
		assert.ErrorIs(t, err, storage.ErrWriteError)
		assert.ErrorContains(t, err, "Failed to update file")
	})
	t.Run("should not send scalar documents", func(t *testing.T) {
		httpmock.Reset()
		err := s.Save(ctx, "content", jsonvalue.NewNumber(1))
		assert.ErrorIs(t, err, storage.ErrInvalidFormat)
		assert.Equal(t, 0, httpmock.GetTotalCallCount())
	})
}
