// Package locator resolves search queries against a document.
//
// Numeric queries look up a record by its identifier within arrays of records,
// all other queries highlight nodes by substring matching.
package locator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ErikKalkoken/jsoneditor/internal/jsonvalue"
)

var ErrRecordNotFound = errors.New("record not found")

// RecordNotFoundError reports a numeric lookup without a matching record.
type RecordNotFoundError struct {
	ID string
}

func (e RecordNotFoundError) Error() string {
	return fmt.Sprintf("Record with ID %s doesn't exist", e.ID)
}

func (e RecordNotFoundError) Unwrap() error {
	return ErrRecordNotFound
}

// Config describes the convention for arrays of records.
type Config struct {
	ArrayKey  string // key of arrays holding records
	IDKey     string // key of the identifier field of a record
	IDPrefix  string
	Separator string // between prefix and number
}

// DefaultConfig returns the convention of article documents,
// e.g. {"articles": [{"id": "article_7"}]}.
func DefaultConfig() Config {
	return Config{
		ArrayKey:  "articles",
		IDKey:     "id",
		IDPrefix:  "article",
		Separator: "_",
	}
}

// RecordID returns the identifier of the record with number token.
func (c Config) RecordID(token string) string {
	return c.IDPrefix + c.Separator + token
}

var reNumeric = regexp.MustCompile(`^\d+$`)

// Query is a search term.
type Query struct {
	Text string
	// Numeric is true for record lookups.
	Numeric bool
}

func NewQuery(text string) Query {
	text = strings.TrimSpace(text)
	return Query{Text: text, Numeric: reNumeric.MatchString(text)}
}

func (q Query) IsEmpty() bool {
	return q.Text == ""
}

// Kind is the kind of a search result.
type Kind uint

const (
	None      Kind = iota // nothing to do, e.g. empty query
	Found                 // record found
	NotFound              // no record for a numeric query
	Highlight             // substring matches
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Found:
		return "found"
	case NotFound:
		return "not found"
	case Highlight:
		return "highlight"
	}
	return "?"
}

// Result is the outcome of a search.
type Result struct {
	Kind Kind
	// Path of the found record.
	Path jsonvalue.Path
	// ID of the looked up record. Only set for numeric queries.
	ID string
	// Highlights lists all matching nodes in document order.
	// For a found record this is just the record.
	Highlights []jsonvalue.Path
	// Err is set for NotFound.
	Err error
}

// Locator resolves queries for a record convention.
type Locator struct {
	Config Config
}

func New(cfg Config) *Locator {
	return &Locator{Config: cfg}
}

// Locate resolves q against doc.
func (l *Locator) Locate(doc jsonvalue.Value, q Query) Result {
	if q.IsEmpty() {
		return Result{Kind: None}
	}
	if q.Numeric {
		id := l.Config.RecordID(q.Text)
		p, ok := l.FindRecord(doc, id)
		if !ok {
			return Result{Kind: NotFound, ID: id, Err: RecordNotFoundError{ID: id}}
		}
		return Result{Kind: Found, Path: p, ID: id, Highlights: []jsonvalue.Path{p}}
	}
	if utf8.RuneCountInString(q.Text) < 2 {
		return Result{Kind: None}
	}
	return Result{Kind: Highlight, Highlights: Matches(doc, q.Text)}
}

// FindRecord returns the path of the first record in document order with identifier id.
func (l *Locator) FindRecord(doc jsonvalue.Value, id string) (jsonvalue.Path, bool) {
	var found jsonvalue.Path
	jsonvalue.Walk(doc, func(p jsonvalue.Path, v jsonvalue.Value) bool {
		if found != nil {
			return false
		}
		if !l.IsRecord(p, v) {
			return true
		}
		x, _ := v.Field(l.Config.IDKey)
		if s, ok := x.Str(); ok && s == id {
			found = p
			return false
		}
		return true
	})
	return found, found != nil
}

// IsRecord reports whether v at path p is an element of a record array.
func (l *Locator) IsRecord(p jsonvalue.Path, v jsonvalue.Value) bool {
	if v.Type() != jsonvalue.Object || len(p) < 2 {
		return false
	}
	last := p[len(p)-1]
	parent := p[len(p)-2]
	return last.IsIndex() && !parent.IsIndex() && parent.Key() == l.Config.ArrayKey
}

// Matches returns the paths of all nodes whose key or scalar value contains text,
// ignoring case.
func Matches(doc jsonvalue.Value, text string) []jsonvalue.Path {
	needle := strings.ToLower(text)
	matches := make([]jsonvalue.Path, 0)
	jsonvalue.Walk(doc, func(p jsonvalue.Path, v jsonvalue.Value) bool {
		if isMatch(p, v, needle) {
			matches = append(matches, p)
		}
		return true
	})
	return matches
}

func isMatch(p jsonvalue.Path, v jsonvalue.Value, needle string) bool {
	if s, ok := p.Last(); ok && !s.IsIndex() {
		if strings.Contains(strings.ToLower(s.Key()), needle) {
			return true
		}
	}
	if v.Type().IsContainer() {
		return false
	}
	return strings.Contains(strings.ToLower(v.Text()), needle)
}
