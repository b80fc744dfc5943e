// Package editor implements an editing session for a JSON document.
//
// A session owns the document. Every edit is applied as an intent,
// which replaces the document as a whole.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ErikKalkoken/jsoneditor/internal/coerce"
	"github.com/ErikKalkoken/jsoneditor/internal/jsonvalue"
	"github.com/ErikKalkoken/jsoneditor/internal/locator"
	"github.com/ErikKalkoken/jsoneditor/internal/recordeditor"
	"github.com/ErikKalkoken/jsoneditor/internal/storage"
)

var (
	ErrLoadFailure    = errors.New("failed to load document")
	ErrSaveFailure    = errors.New("failed to save document")
	ErrSaveInProgress = errors.New("save in progress")
	ErrNoDocument     = errors.New("no document")
)

// Options configure a session.
type Options struct {
	Coercer coerce.Coercer
	Locator locator.Config
	Record  recordeditor.Options
}

func DefaultOptions() Options {
	return Options{
		Locator: locator.DefaultConfig(),
		Record:  recordeditor.DefaultOptions(),
	}
}

// Session is an editing session for one document at a time.
// It is safe for concurrent use.
type Session struct {
	// OnChange is called after the document or the search result changed.
	OnChange func()
	// OnRecordMatch is called when a record starts to match the search.
	OnRecordMatch func(ed *recordeditor.Editor)

	mu       sync.Mutex
	doc      jsonvalue.Value
	id       string
	isLoaded bool
	locator  *locator.Locator
	modified bool
	opt      Options
	query    locator.Query
	result   locator.Result
	revision int
	saving   bool
	store    storage.Store
	trigger  locator.EdgeTrigger
}

// NewSession returns a new session without a document.
func NewSession(opt Options) *Session {
	s := &Session{
		opt:     opt,
		locator: locator.New(opt.Locator),
	}
	return s
}

// Options returns the current options.
func (s *Session) Options() Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opt
}

// SetOptions updates the options. An active search is evaluated again.
// Records which already matched are only reported again when the record convention changed.
func (s *Session) SetOptions(opt Options) {
	s.mu.Lock()
	if opt.Locator != s.opt.Locator {
		s.locator = locator.New(opt.Locator)
		s.trigger.Reset()
	}
	s.opt = opt
	matched := s.evaluate()
	s.mu.Unlock()
	s.notify(matched)
}

// LoadDocument reads a document from a store without opening it.
func LoadDocument(ctx context.Context, store storage.Store, id string) (jsonvalue.Value, error) {
	doc, err := store.Load(ctx, id)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("%w: %s: %w", ErrLoadFailure, id, err)
	}
	return doc, nil
}

// Load loads a document from a store and makes it the current document.
// The search is cleared. On failure the current document is kept.
func (s *Session) Load(ctx context.Context, store storage.Store, id string) (jsonvalue.Value, error) {
	doc, err := LoadDocument(ctx, store, id)
	if err != nil {
		return jsonvalue.Value{}, err
	}
	s.Open(store, id, doc)
	slog.Info("Loaded document", "id", id)
	return doc, nil
}

// Open makes doc the current document, which belongs to id in store.
// store can be nil for documents which can not be saved in place.
func (s *Session) Open(store storage.Store, id string, doc jsonvalue.Value) {
	s.mu.Lock()
	s.store = store
	s.id = id
	s.doc = doc
	s.isLoaded = true
	s.modified = false
	s.revision = 0
	s.query = locator.Query{}
	s.result = locator.Result{}
	s.trigger.Reset()
	s.mu.Unlock()
	s.notify(nil)
}

// Close removes the current document.
func (s *Session) Close() {
	s.mu.Lock()
	s.store = nil
	s.id = ""
	s.doc = jsonvalue.Value{}
	s.isLoaded = false
	s.modified = false
	s.query = locator.Query{}
	s.result = locator.Result{}
	s.trigger.Reset()
	s.mu.Unlock()
	s.notify(nil)
}

// Document returns the current document and reports whether there is one.
func (s *Session) Document() (jsonvalue.Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc, s.isLoaded
}

// ID returns the identifier of the current document.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Source returns the store and identifier of the current document.
func (s *Session) Source() (storage.Store, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store, s.id
}

// CanSave reports whether the current document can be saved in place.
func (s *Session) CanSave() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLoaded && s.store != nil && !s.saving
}

// IsModified reports whether the document has unsaved changes.
func (s *Session) IsModified() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modified
}

// IsSaving reports whether a save is outstanding.
func (s *Session) IsSaving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving
}

// Save saves the current document to its store.
// Only one save can be outstanding at any time.
func (s *Session) Save(ctx context.Context) error {
	return s.save(ctx, nil, "")
}

// SaveAs saves the current document under a new identifier,
// which becomes the identifier of the document once the save succeeded.
func (s *Session) SaveAs(ctx context.Context, store storage.Store, id string) error {
	if store == nil {
		return ErrNoDocument
	}
	return s.save(ctx, store, id)
}

// save writes the current document to store under id.
// A nil store means the store and identifier of the document.
func (s *Session) save(ctx context.Context, store storage.Store, id string) error {
	s.mu.Lock()
	if store == nil {
		store, id = s.store, s.id
	}
	if !s.isLoaded || store == nil {
		s.mu.Unlock()
		return ErrNoDocument
	}
	if s.saving {
		s.mu.Unlock()
		return ErrSaveInProgress
	}
	s.saving = true
	doc, rev, oldID := s.doc, s.revision, s.id
	s.mu.Unlock()

	err := store.Save(ctx, id, doc)

	s.mu.Lock()
	s.saving = false
	if err == nil && s.isLoaded && s.id == oldID {
		s.store, s.id = store, id
		if s.revision == rev {
			s.modified = false
		}
	}
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSaveFailure, id, err)
	}
	slog.Info("Saved document", "id", id)
	return nil
}

// Apply applies an intent to the current document.
// A failed intent does not change the document.
func (s *Session) Apply(intent jsonvalue.Intent) error {
	s.mu.Lock()
	if !s.isLoaded {
		s.mu.Unlock()
		return ErrNoDocument
	}
	doc, err := intent.Apply(s.doc)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.doc = doc
	s.modified = true
	s.revision++
	matched := s.evaluate()
	s.mu.Unlock()
	slog.Debug("Applied edit", "intent", intent)
	s.notify(matched)
	return nil
}

// Search activates a search for text.
//
// A numeric search for a record which does not exist is not activated and
// returns an error wrapping [locator.ErrRecordNotFound].
// An empty text clears the search.
func (s *Session) Search(text string) (locator.Result, error) {
	q := locator.NewQuery(text)
	if q.IsEmpty() {
		s.ClearSearch()
		return locator.Result{}, nil
	}
	s.mu.Lock()
	if !s.isLoaded {
		s.mu.Unlock()
		return locator.Result{}, ErrNoDocument
	}
	r := s.locator.Locate(s.doc, q)
	if r.Kind == locator.NotFound {
		s.mu.Unlock()
		return r, r.Err
	}
	s.query = q
	matched := s.evaluate()
	r = s.result
	s.mu.Unlock()
	s.notify(matched)
	return r, nil
}

// ClearSearch removes the current search.
func (s *Session) ClearSearch() {
	s.mu.Lock()
	s.query = locator.Query{}
	s.result = locator.Result{}
	s.trigger.Reset()
	s.mu.Unlock()
	s.notify(nil)
}

// Query returns the active search query.
func (s *Session) Query() locator.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// SearchResult returns the result for the active search.
func (s *Session) SearchResult() locator.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// OpenRecord returns a record editor for the record at p.
func (s *Session) OpenRecord(p jsonvalue.Path) (*recordeditor.Editor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openRecord(p)
}

func (s *Session) openRecord(p jsonvalue.Path) (*recordeditor.Editor, error) {
	if !s.isLoaded {
		return nil, ErrNoDocument
	}
	v, err := jsonvalue.Get(s.doc, p)
	if err != nil {
		return nil, err
	}
	return recordeditor.New(p, v, s.opt.Record)
}

// evaluate runs the active search against the current document
// and returns record editors for records which started to match.
// Must be called with the lock held.
func (s *Session) evaluate() []*recordeditor.Editor {
	if s.query.IsEmpty() || !s.isLoaded {
		s.result = locator.Result{}
		s.trigger.Reset()
		return nil
	}
	s.result = s.locator.Locate(s.doc, s.query)
	var found []jsonvalue.Path
	if s.result.Kind == locator.Found {
		found = append(found, s.result.Path)
	}
	var editors []*recordeditor.Editor
	for _, p := range s.trigger.Update(found) {
		ed, err := s.openRecord(p)
		if err != nil {
			slog.Warn("Failed to open record", "path", p, "err", err)
			continue
		}
		editors = append(editors, ed)
	}
	return editors
}

// notify calls the callbacks. Must be called without the lock held.
func (s *Session) notify(matched []*recordeditor.Editor) {
	if s.OnChange != nil {
		s.OnChange()
	}
	if s.OnRecordMatch == nil {
		return
	}
	for _, ed := range matched {
		s.OnRecordMatch(ed)
	}
}
