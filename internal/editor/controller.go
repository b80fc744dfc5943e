package editor

import (
	"errors"
	"fmt"

	"github.com/ErikKalkoken/jsoneditor/internal/coerce"
	"github.com/ErikKalkoken/jsoneditor/internal/jsonvalue"
)

var (
	ErrEmptyKey         = errors.New("key can not be empty")
	ErrNotAKey          = errors.New("node has no key")
	ErrInvalidChildKind = errors.New("only objects and arrays can be added")
)

// ValueDialog is the state of a dialog for editing a single node.
type ValueDialog struct {
	Path    jsonvalue.Path
	EditKey bool // whether the key can be edited
	Key     string
	Buffer  *coerce.Buffer

	session *Session
	oldKey  string
}

// Title returns a title for the dialog.
func (d *ValueDialog) Title() string {
	if d.EditKey {
		return fmt.Sprintf("Edit %s", d.Path)
	}
	return fmt.Sprintf("Edit value of %s", d.Path)
}

// Confirm applies the changes of the dialog to the document.
// Nothing is applied when the raw text can not be coerced into the declared type.
func (d *ValueDialog) Confirm() error {
	c := d.session.Options().Coercer
	v, err := d.Buffer.Value(c)
	if err != nil {
		return err
	}
	p := d.Path
	var seq jsonvalue.Sequence
	if d.EditKey && d.Key != d.oldKey {
		if d.Key == "" {
			return ErrEmptyKey
		}
		seq = append(seq, jsonvalue.RenameKey{Path: p, NewKey: d.Key})
		p = p.Parent().Child(jsonvalue.Key(d.Key))
	}
	if d.Buffer.Changed(c) {
		seq = append(seq, jsonvalue.SetValue{Path: p, Value: v})
	}
	switch len(seq) {
	case 0:
		return nil
	case 1:
		return d.session.Apply(seq[0])
	}
	return d.session.Apply(seq)
}

// RequestEdit returns a dialog for editing the value of the node at p.
func (s *Session) RequestEdit(p jsonvalue.Path) (*ValueDialog, error) {
	v, err := s.get(p)
	if err != nil {
		return nil, err
	}
	d := &ValueDialog{
		Path:    p,
		Buffer:  coerce.NewBuffer(v),
		session: s,
	}
	return d, nil
}

// RequestRenameKey returns a dialog for editing the key and the value of the node at p.
// The node must be a member of an object.
func (s *Session) RequestRenameKey(p jsonvalue.Path) (*ValueDialog, error) {
	last, ok := p.Last()
	if !ok || last.IsIndex() {
		return nil, fmt.Errorf("%s: %w", p, ErrNotAKey)
	}
	d, err := s.RequestEdit(p)
	if err != nil {
		return nil, err
	}
	d.EditKey = true
	d.Key = last.Name()
	d.oldKey = last.Name()
	return d, nil
}

// RequestDelete removes the node at p. The root can not be deleted.
func (s *Session) RequestDelete(p jsonvalue.Path) error {
	if p.IsRoot() {
		return jsonvalue.ErrRootDeletionForbidden
	}
	return s.Apply(jsonvalue.DeleteNode{Path: p})
}

// RequestAddChild adds an empty object or array to the container at parent
// and returns the path of the new child.
func (s *Session) RequestAddChild(parent jsonvalue.Path, kind jsonvalue.Type) (jsonvalue.Path, error) {
	var v jsonvalue.Value
	switch kind {
	case jsonvalue.Object:
		v = jsonvalue.NewObject()
	case jsonvalue.Array:
		v = jsonvalue.NewArray()
	default:
		return nil, fmt.Errorf("%s: %w", kind, ErrInvalidChildKind)
	}
	container, err := s.get(parent)
	if err != nil {
		return nil, err
	}
	var child jsonvalue.Path
	switch container.Type() {
	case jsonvalue.Object:
		child = parent.Child(jsonvalue.Key(jsonvalue.NewKeyName(container)))
	case jsonvalue.Array:
		child = parent.Child(jsonvalue.Index(container.Len()))
	default:
		return nil, fmt.Errorf("%s: %w", parent, jsonvalue.ErrPathNotFound)
	}
	it := jsonvalue.InsertChild{Parent: parent, Value: v}
	if last, ok := child.Last(); ok && !last.IsIndex() {
		it.Key = last.Name()
		it.HasKey = true
	}
	if err := s.Apply(it); err != nil {
		return nil, err
	}
	return child, nil
}

// CopyText returns the node at p as indented JSON.
func (s *Session) CopyText(p jsonvalue.Path) (string, error) {
	v, err := s.get(p)
	if err != nil {
		return "", err
	}
	if !v.Type().IsContainer() {
		return v.Text(), nil
	}
	b, err := jsonvalue.MarshalIndent(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *Session) get(p jsonvalue.Path) (jsonvalue.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isLoaded {
		return jsonvalue.Value{}, ErrNoDocument
	}
	return jsonvalue.Get(s.doc, p)
}
