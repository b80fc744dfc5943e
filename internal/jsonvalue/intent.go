package jsonvalue

import "fmt"

// Intent is an edit that can be applied atomically to a document.
// Applying an intent never modifies the given document.
type Intent interface {
	Apply(doc Value) (Value, error)
	fmt.Stringer
}

// SetValue replaces the value at Path.
type SetValue struct {
	Path  Path
	Value Value
}

func (x SetValue) Apply(doc Value) (Value, error) {
	return Set(doc, x.Path, x.Value)
}

func (x SetValue) String() string {
	return fmt.Sprintf("set %s", x.Path)
}

// RenameKey renames the object key at Path.
type RenameKey struct {
	Path   Path
	NewKey string
}

func (x RenameKey) Apply(doc Value) (Value, error) {
	return Rename(doc, x.Path, x.NewKey)
}

func (x RenameKey) String() string {
	return fmt.Sprintf("rename %s to %q", x.Path, x.NewKey)
}

// DeleteNode removes the node at Path.
type DeleteNode struct {
	Path Path
}

func (x DeleteNode) Apply(doc Value) (Value, error) {
	return Delete(doc, x.Path)
}

func (x DeleteNode) String() string {
	return fmt.Sprintf("delete %s", x.Path)
}

// InsertChild adds Value as new child of the container at Parent.
// Key is only used for objects and only when HasKey is set,
// otherwise a key is generated.
type InsertChild struct {
	Parent Path
	Key    string
	HasKey bool
	Value  Value
}

func (x InsertChild) Apply(doc Value) (Value, error) {
	var keys []string
	if x.HasKey {
		keys = append(keys, x.Key)
	}
	v, _, err := Insert(doc, x.Parent, x.Value, keys...)
	return v, err
}

func (x InsertChild) String() string {
	return fmt.Sprintf("insert into %s", x.Parent)
}

// Sequence applies several intents as one. When one fails none is applied.
type Sequence []Intent

func (x Sequence) Apply(doc Value) (Value, error) {
	v := doc
	for _, it := range x {
		var err error
		v, err = it.Apply(v)
		if err != nil {
			return Value{}, err
		}
	}
	return v, nil
}

func (x Sequence) String() string {
	return fmt.Sprintf("sequence of %d edits", len(x))
}
