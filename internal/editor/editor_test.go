package editor_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ErikKalkoken/jsoneditor/internal/editor"
	"github.com/ErikKalkoken/jsoneditor/internal/jsonvalue"
	"github.com/ErikKalkoken/jsoneditor/internal/locator"
	"github.com/ErikKalkoken/jsoneditor/internal/recordeditor"
	"github.com/ErikKalkoken/jsoneditor/internal/storage"
)

type fakeStore struct {
	mu    sync.Mutex
	docs  map[string]jsonvalue.Value
	err   error
	block chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[string]jsonvalue.Value)}
}

func (s *fakeStore) Load(ctx context.Context, id string) (jsonvalue.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return jsonvalue.Value{}, s.err
	}
	v, ok := s.docs[id]
	if !ok {
		return jsonvalue.Value{}, storage.ErrNotFound
	}
	return v, nil
}

func (s *fakeStore) Save(ctx context.Context, id string, v jsonvalue.Value) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.docs[id] = v
	return nil
}

const articlesJSON = `{"articles":[{"id":"article_7","title":"Hello","count":3},{"id":"article_8","title":"World","count":1}],"meta":{"tags":["a"]}}`

func newSession(t *testing.T) (*editor.Session, *fakeStore) {
	t.Helper()
	st := newFakeStore()
	st.docs["doc.json"] = jsonvalue.MustParse(articlesJSON)
	s := editor.NewSession(editor.DefaultOptions())
	_, err := s.Load(context.Background(), st, "doc.json")
	require.NoError(t, err)
	return s, st
}

func currentDoc(t *testing.T, s *editor.Session) jsonvalue.Value {
	t.Helper()
	doc, ok := s.Document()
	require.True(t, ok)
	return doc
}

func TestSessionLoadSave(t *testing.T) {
	ctx := context.Background()
	t.Run("can load a document", func(t *testing.T) {
		s, _ := newSession(t)
		assert.Equal(t, "doc.json", s.ID())
		assert.True(t, jsonvalue.Equal(jsonvalue.MustParse(articlesJSON), currentDoc(t, s)))
		assert.False(t, s.IsModified())
		assert.True(t, s.CanSave())
	})
	t.Run("should report load failures", func(t *testing.T) {
		s := editor.NewSession(editor.DefaultOptions())
		_, err := s.Load(ctx, newFakeStore(), "missing.json")
		assert.ErrorIs(t, err, editor.ErrLoadFailure)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, ok := s.Document()
		assert.False(t, ok)
	})
	t.Run("can save a modified document", func(t *testing.T) {
		s, st := newSession(t)
		err := s.Apply(jsonvalue.SetValue{Path: jsonvalue.NewPath("meta"), Value: jsonvalue.NewNull()})
		require.NoError(t, err)
		assert.True(t, s.IsModified())
		err = s.Save(ctx)
		require.NoError(t, err)
		assert.False(t, s.IsModified())
		got := st.docs["doc.json"]
		v, err := jsonvalue.Get(got, jsonvalue.NewPath("meta"))
		if assert.NoError(t, err) {
			assert.Equal(t, jsonvalue.Null, v.Type())
		}
	})
	t.Run("should report save failures and keep modified state", func(t *testing.T) {
		s, st := newSession(t)
		err := s.Apply(jsonvalue.DeleteNode{Path: jsonvalue.NewPath("meta")})
		require.NoError(t, err)
		st.err = errors.New("disk full")
		err = s.Save(ctx)
		assert.ErrorIs(t, err, editor.ErrSaveFailure)
		assert.True(t, s.IsModified())
		assert.False(t, s.IsSaving())
	})
	t.Run("should not allow concurrent saves", func(t *testing.T) {
		s, st := newSession(t)
		st.block = make(chan struct{})
		errC := make(chan error)
		go func() {
			errC <- s.Save(ctx)
		}()
		assert.Eventually(t, s.IsSaving, time.Second, 10*time.Millisecond)
		assert.False(t, s.CanSave())
		err := s.Save(ctx)
		assert.ErrorIs(t, err, editor.ErrSaveInProgress)
		close(st.block)
		assert.NoError(t, <-errC)
		assert.False(t, s.IsSaving())
	})
	t.Run("should return error when saving without document", func(t *testing.T) {
		s := editor.NewSession(editor.DefaultOptions())
		err := s.Save(ctx)
		assert.ErrorIs(t, err, editor.ErrNoDocument)
	})
	t.Run("can save under a new name", func(t *testing.T) {
		s, st := newSession(t)
		err := s.SaveAs(ctx, st, "copy.json")
		require.NoError(t, err)
		assert.Equal(t, "copy.json", s.ID())
		assert.Contains(t, st.docs, "copy.json")
	})
	t.Run("should keep old name when save as fails", func(t *testing.T) {
		s, st := newSession(t)
		st.err = errors.New("failed")
		err := s.SaveAs(ctx, st, "copy.json")
		assert.Error(t, err)
		assert.Equal(t, "doc.json", s.ID())
	})
	t.Run("should reject save as while another save as is outstanding", func(t *testing.T) {
		s, st := newSession(t)
		st.block = make(chan struct{})
		errC := make(chan error)
		go func() {
			errC <- s.SaveAs(ctx, st, "first.json")
		}()
		assert.Eventually(t, s.IsSaving, time.Second, 10*time.Millisecond)
		err := s.SaveAs(ctx, st, "second.json")
		assert.ErrorIs(t, err, editor.ErrSaveInProgress)
		assert.Equal(t, "doc.json", s.ID())
		close(st.block)
		require.NoError(t, <-errC)
		assert.Equal(t, "first.json", s.ID())
		st.mu.Lock()
		defer st.mu.Unlock()
		assert.Contains(t, st.docs, "first.json")
		assert.NotContains(t, st.docs, "second.json")
	})
	t.Run("can close a document", func(t *testing.T) {
		s, _ := newSession(t)
		s.Close()
		_, ok := s.Document()
		assert.False(t, ok)
		assert.False(t, s.CanSave())
	})
}

func TestSessionApply(t *testing.T) {
	t.Run("should apply intent and notify", func(t *testing.T) {
		s, _ := newSession(t)
		var n int
		s.OnChange = func() {
			n++
		}
		err := s.Apply(jsonvalue.RenameKey{Path: jsonvalue.NewPath("meta"), NewKey: "info"})
		require.NoError(t, err)
		assert.Equal(t, []string{"articles", "info"}, currentDoc(t, s).Keys())
		assert.Equal(t, 1, n)
	})
	t.Run("should not change document when intent fails", func(t *testing.T) {
		s, _ := newSession(t)
		before := currentDoc(t, s)
		err := s.Apply(jsonvalue.DeleteNode{Path: jsonvalue.NewPath("missing")})
		assert.ErrorIs(t, err, jsonvalue.ErrPathNotFound)
		assert.True(t, jsonvalue.Equal(before, currentDoc(t, s)))
		assert.False(t, s.IsModified())
	})
	t.Run("should return error without document", func(t *testing.T) {
		s := editor.NewSession(editor.DefaultOptions())
		err := s.Apply(jsonvalue.DeleteNode{Path: jsonvalue.NewPath("a")})
		assert.ErrorIs(t, err, editor.ErrNoDocument)
	})
}

func TestSessionSearch(t *testing.T) {
	t.Run("should open record editor when a record starts to match", func(t *testing.T) {
		s, _ := newSession(t)
		var opened []*recordeditor.Editor
		s.OnRecordMatch = func(ed *recordeditor.Editor) {
			opened = append(opened, ed)
		}
		r, err := s.Search("7")
		require.NoError(t, err)
		assert.Equal(t, locator.Found, r.Kind)
		assert.Equal(t, "$.articles[0]", r.Path.String())
		if assert.Len(t, opened, 1) {
			assert.Equal(t, "article_7", opened[0].ID())
		}
	})
	t.Run("should not open record editor again while record keeps matching", func(t *testing.T) {
		s, _ := newSession(t)
		var opened []*recordeditor.Editor
		s.OnRecordMatch = func(ed *recordeditor.Editor) {
			opened = append(opened, ed)
		}
		_, err := s.Search("7")
		require.NoError(t, err)
		require.Len(t, opened, 1)
		ed := opened[0]
		require.NoError(t, ed.SetField(jsonvalue.NewPath("title"), "Changed"))
		require.NoError(t, s.Apply(ed.Save()))
		assert.Len(t, opened, 1)
		v, err := jsonvalue.Get(currentDoc(t, s), jsonvalue.NewPath("articles", 0, "title"))
		if assert.NoError(t, err) {
			assert.Equal(t, "Changed", v.Text())
		}
	})
	t.Run("can find record again after clearing search", func(t *testing.T) {
		s, _ := newSession(t)
		var n int
		s.OnRecordMatch = func(ed *recordeditor.Editor) {
			n++
		}
		_, err := s.Search("7")
		require.NoError(t, err)
		s.ClearSearch()
		assert.True(t, s.Query().IsEmpty())
		_, err = s.Search("7")
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})
	t.Run("should not open record editor again when options change", func(t *testing.T) {
		s, _ := newSession(t)
		var n int
		s.OnRecordMatch = func(ed *recordeditor.Editor) {
			n++
		}
		_, err := s.Search("7")
		require.NoError(t, err)
		opt := s.Options()
		opt.Coercer.StrictBoolean = true
		s.SetOptions(opt)
		assert.Equal(t, 1, n)
		assert.Equal(t, "$.articles[0]", s.SearchResult().Path.String())
	})
	t.Run("should open record editor again when record convention changes", func(t *testing.T) {
		st := newFakeStore()
		st.docs["x"] = jsonvalue.MustParse(`{"articles":[{"id":"article_3"}],"items":[{"id":"item_3"}]}`)
		s := editor.NewSession(editor.DefaultOptions())
		_, err := s.Load(context.Background(), st, "x")
		require.NoError(t, err)
		var ids []string
		s.OnRecordMatch = func(ed *recordeditor.Editor) {
			ids = append(ids, ed.ID())
		}
		_, err = s.Search("3")
		require.NoError(t, err)
		opt := s.Options()
		opt.Locator.ArrayKey = "items"
		opt.Locator.IDPrefix = "item"
		s.SetOptions(opt)
		assert.Equal(t, []string{"article_3", "item_3"}, ids)
	})
	t.Run("should report missing record and not activate search", func(t *testing.T) {
		s, _ := newSession(t)
		r, err := s.Search("99")
		assert.ErrorIs(t, err, locator.ErrRecordNotFound)
		assert.EqualError(t, err, "Record with ID article_99 doesn't exist")
		assert.Equal(t, locator.NotFound, r.Kind)
		assert.True(t, s.Query().IsEmpty())
		assert.Equal(t, locator.None, s.SearchResult().Kind)
	})
	t.Run("should highlight text matches", func(t *testing.T) {
		s, _ := newSession(t)
		r, err := s.Search("wor")
		require.NoError(t, err)
		assert.Equal(t, locator.Highlight, r.Kind)
		var got []string
		for _, p := range r.Highlights {
			got = append(got, p.String())
		}
		assert.Equal(t, []string{"$.articles[1].title"}, got)
	})
	t.Run("should update highlights after edits", func(t *testing.T) {
		s, _ := newSession(t)
		_, err := s.Search("wor")
		require.NoError(t, err)
		err = s.Apply(jsonvalue.DeleteNode{Path: jsonvalue.NewPath("articles", 1)})
		require.NoError(t, err)
		assert.Empty(t, s.SearchResult().Highlights)
	})
	t.Run("empty text clears search", func(t *testing.T) {
		s, _ := newSession(t)
		_, err := s.Search("wor")
		require.NoError(t, err)
		_, err = s.Search("  ")
		require.NoError(t, err)
		assert.True(t, s.Query().IsEmpty())
	})
	t.Run("can use configured record convention", func(t *testing.T) {
		st := newFakeStore()
		st.docs["x"] = jsonvalue.MustParse(`{"items":[{"id":"item-3"}]}`)
		opt := editor.DefaultOptions()
		opt.Locator.ArrayKey = "items"
		opt.Locator.IDPrefix = "item"
		opt.Locator.Separator = "-"
		s := editor.NewSession(opt)
		_, err := s.Load(context.Background(), st, "x")
		require.NoError(t, err)
		r, err := s.Search("3")
		require.NoError(t, err)
		assert.Equal(t, "$.items[0]", r.Path.String())
	})
}
