package coerce

import "github.com/ErikKalkoken/jsoneditor/internal/jsonvalue"

// Buffer is the state of a value edit: a declared type and the raw text.
type Buffer struct {
	Type jsonvalue.Type
	Text string

	original jsonvalue.Value
}

// NewBuffer returns a buffer for editing v.
func NewBuffer(v jsonvalue.Value) *Buffer {
	return &Buffer{Type: v.Type(), Text: EditText(v), original: v}
}

// SetType switches the declared type and resets the text to the default for that type.
func (b *Buffer) SetType(typ jsonvalue.Type) {
	if typ == b.Type {
		return
	}
	b.Type = typ
	b.Text = DefaultText(typ, b.original)
}

// Value coerces the current text into a value of the declared type.
func (b *Buffer) Value(c Coercer) (jsonvalue.Value, error) {
	return c.Coerce(b.Text, b.Type)
}

// Changed reports whether the buffer differs from the original value.
func (b *Buffer) Changed(c Coercer) bool {
	v, err := b.Value(c)
	if err != nil {
		return true
	}
	return !jsonvalue.Equal(v, b.original)
}
