// Package recordeditor implements a field level editor for a single record.
package recordeditor

import (
	"errors"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/ErikKalkoken/jsoneditor/internal/coerce"
	"github.com/ErikKalkoken/jsoneditor/internal/jsonvalue"
)

var (
	ErrNotARecord    = errors.New("not a record")
	ErrReadOnlyField = errors.New("field is read only")
	ErrFieldNotFound = errors.New("field not found")
	ErrNotEditable   = errors.New("field is a group")
)

// Options configure a record editor.
type Options struct {
	// Keys of fields which can not be changed, at any level.
	ReadOnlyKeys []string
	// Strings longer than this number of characters are edited with multiple lines.
	MultilineThreshold int
}

func DefaultOptions() Options {
	return Options{ReadOnlyKeys: []string{"id"}, MultilineThreshold: 60}
}

// Field is an entry of the editor form.
type Field struct {
	Path      jsonvalue.Path // relative to the record
	Key       string
	Level     int // nesting level, starting at 0
	Text      string
	Type      jsonvalue.Type
	Multiline bool
	ReadOnly  bool
	IsGroup   bool // nested object or array with its fields following
}

// Editor holds an edited copy of a record.
type Editor struct {
	origin   jsonvalue.Path
	original jsonvalue.Value
	record   jsonvalue.Value
	opt      Options
}

// New returns an editor for record, which is located at origin in its document.
func New(origin jsonvalue.Path, record jsonvalue.Value, opt Options) (*Editor, error) {
	if record.Type() != jsonvalue.Object {
		return nil, ErrNotARecord
	}
	ed := &Editor{
		origin:   origin,
		original: record,
		record:   record,
		opt:      opt,
	}
	return ed, nil
}

// Origin returns the path of the record in its document.
func (ed *Editor) Origin() jsonvalue.Path {
	return ed.origin
}

// ID returns the text of the first read only field of the record, e.g. its id.
func (ed *Editor) ID() string {
	for _, k := range ed.opt.ReadOnlyKeys {
		if v, ok := ed.original.Field(k); ok {
			return v.Text()
		}
	}
	return ""
}

// Record returns the current edited record without normalization.
func (ed *Editor) Record() jsonvalue.Value {
	return ed.record
}

// Fields returns the fields of the edited record in document order.
func (ed *Editor) Fields() []Field {
	fields := make([]Field, 0)
	jsonvalue.Walk(ed.record, func(p jsonvalue.Path, v jsonvalue.Value) bool {
		if p.IsRoot() {
			return true
		}
		s, _ := p.Last()
		f := Field{
			Path:     p,
			Key:      s.Name(),
			Level:    p.Depth() - 1,
			Type:     v.Type(),
			ReadOnly: ed.isReadOnly(s),
		}
		if v.Type().IsContainer() {
			f.IsGroup = true
		} else {
			f.Text = v.Text()
			f.Multiline = v.Type() == jsonvalue.String && utf8.RuneCountInString(f.Text) > ed.opt.MultilineThreshold
		}
		fields = append(fields, f)
		return true
	})
	return fields
}

// SetField changes the field at rel to text.
//
// Edited texts are stored as strings, except for texts which still fit
// an original boolean or null field.
func (ed *Editor) SetField(rel jsonvalue.Path, text string) error {
	s, ok := rel.Last()
	if !ok {
		return ErrFieldNotFound
	}
	current, err := jsonvalue.Get(ed.record, rel)
	if err != nil {
		return ErrFieldNotFound
	}
	if ed.isReadOnly(s) {
		return ErrReadOnlyField
	}
	if current.Type().IsContainer() {
		return ErrNotEditable
	}
	v := jsonvalue.NewString(text)
	switch current.Type() {
	case jsonvalue.Boolean:
		t := strings.ToLower(strings.TrimSpace(text))
		if t == "true" || t == "false" {
			v = jsonvalue.NewBool(t == "true")
		}
	case jsonvalue.Null:
		if strings.TrimSpace(text) == "null" {
			v = jsonvalue.NewNull()
		}
	}
	r, err := jsonvalue.Set(ed.record, rel, v)
	if err != nil {
		return err
	}
	ed.record = r
	return nil
}

// Changed reports whether the normalized record differs from the original.
func (ed *Editor) Changed() bool {
	return !jsonvalue.Equal(ed.normalized(), ed.original)
}

// Save returns the intent replacing the record in its document.
// String fields holding a number are converted to numbers, except read only fields.
func (ed *Editor) Save() jsonvalue.SetValue {
	return jsonvalue.SetValue{Path: ed.origin, Value: ed.normalized()}
}

func (ed *Editor) normalized() jsonvalue.Value {
	return normalize(ed.record, func(s jsonvalue.Segment) bool {
		return ed.isReadOnly(s)
	})
}

func (ed *Editor) isReadOnly(s jsonvalue.Segment) bool {
	return !s.IsIndex() && slices.Contains(ed.opt.ReadOnlyKeys, s.Key())
}

func normalize(v jsonvalue.Value, skip func(jsonvalue.Segment) bool) jsonvalue.Value {
	switch v.Type() {
	case jsonvalue.Object:
		mm := v.Members()
		for i, m := range mm {
			if skip(jsonvalue.Key(m.Key)) {
				continue
			}
			mm[i].Value = normalize(m.Value, skip)
		}
		return jsonvalue.NewObject(mm...)
	case jsonvalue.Array:
		items := v.Items()
		for i, x := range items {
			items[i] = normalize(x, skip)
		}
		return jsonvalue.NewArray(items...)
	case jsonvalue.String:
		s, _ := v.Str()
		if n, ok := coerce.ParseNumber(s); ok {
			return jsonvalue.NewNumber(n)
		}
	}
	return v
}
