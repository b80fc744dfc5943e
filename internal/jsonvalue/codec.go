package jsonvalue

import (
	"errors"
	"fmt"
	"io"
	"math"

	jsoniter "github.com/json-iterator/go"
)

var (
	compact = jsoniter.Config{
		EscapeHTML:             false,
		ValidateJsonRawMessage: true,
	}.Froze()
	indented = jsoniter.Config{
		EscapeHTML:             false,
		ValidateJsonRawMessage: true,
		IndentionStep:          2,
	}.Froze()
)

// Parse parses a JSON text into a value. The order of object keys is preserved.
// Duplicate keys are resolved like encoding/json: the last value wins.
func Parse(data []byte) (Value, error) {
	iter := compact.BorrowIterator(data)
	defer compact.ReturnIterator(iter)
	v := readValue(iter)
	if iter.Error != nil && !errors.Is(iter.Error, io.EOF) {
		return Value{}, fmt.Errorf("%w: %s", ErrInvalidJSON, iter.Error)
	}
	// a number at the end of input reports EOF, which is only complete at the top level
	if errors.Is(iter.Error, io.EOF) && v.Type().IsContainer() {
		return Value{}, fmt.Errorf("%w: unexpected end of input", ErrInvalidJSON)
	}
	if iter.Error == nil {
		// anything but whitespace after the value is an error
		iter.WhatIsNext()
		if iter.Error == nil {
			return Value{}, fmt.Errorf("%w: unexpected data after top-level value", ErrInvalidJSON)
		}
	}
	return v, nil
}

// ParseString is a convenience wrapper for [Parse].
func ParseString(s string) (Value, error) {
	return Parse([]byte(s))
}

// MustParse is like [Parse] but panics on error. Meant for tests and literals.
func MustParse(s string) Value {
	v, err := ParseString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func readValue(iter *jsoniter.Iterator) Value {
	switch iter.WhatIsNext() {
	case jsoniter.StringValue:
		return NewString(iter.ReadString())
	case jsoniter.NumberValue:
		return NewNumber(iter.ReadFloat64())
	case jsoniter.BoolValue:
		return NewBool(iter.ReadBool())
	case jsoniter.NilValue:
		iter.ReadNil()
		return NewNull()
	case jsoniter.ArrayValue:
		items := make([]Value, 0)
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			items = append(items, readValue(it))
			return it.Error == nil
		})
		return Value{typ: Array, items: items}
	case jsoniter.ObjectValue:
		members := make([]Member, 0)
		iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
			members = putMember(members, key, readValue(it))
			return it.Error == nil
		})
		return Value{typ: Object, members: members}
	}
	if iter.Error == nil || errors.Is(iter.Error, io.EOF) {
		iter.ReportError("readValue", "expected a JSON value")
	}
	return Value{}
}

// Marshal returns the compact JSON encoding of v.
func Marshal(v Value) ([]byte, error) {
	return encode(compact, v)
}

// MarshalIndent returns the JSON encoding of v indented by two spaces.
func MarshalIndent(v Value) ([]byte, error) {
	return encode(indented, v)
}

func encode(api jsoniter.API, v Value) ([]byte, error) {
	stream := api.BorrowStream(nil)
	defer api.ReturnStream(stream)
	writeValue(stream, v)
	if stream.Error != nil {
		return nil, stream.Error
	}
	b := make([]byte, len(stream.Buffer()))
	copy(b, stream.Buffer())
	return b, nil
}

func writeValue(stream *jsoniter.Stream, v Value) {
	switch v.typ {
	case Null:
		stream.WriteNil()
	case Boolean:
		stream.WriteBool(v.b)
	case Number:
		if math.IsInf(v.n, 0) || math.IsNaN(v.n) {
			stream.Error = fmt.Errorf("unsupported number: %v", v.n)
			return
		}
		stream.WriteFloat64(v.n)
	case String:
		stream.WriteString(v.s)
	case Array:
		if len(v.items) == 0 {
			stream.WriteEmptyArray()
			return
		}
		stream.WriteArrayStart()
		for i, x := range v.items {
			if i > 0 {
				stream.WriteMore()
			}
			writeValue(stream, x)
		}
		stream.WriteArrayEnd()
	case Object:
		if len(v.members) == 0 {
			stream.WriteEmptyObject()
			return
		}
		stream.WriteObjectStart()
		for i, m := range v.members {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(m.Key)
			writeValue(stream, m.Value)
		}
		stream.WriteObjectEnd()
	}
}

// MarshalJSON implements [encoding/json.Marshaler].
func (v Value) MarshalJSON() ([]byte, error) {
	return Marshal(v)
}

// UnmarshalJSON implements [encoding/json.Unmarshaler].
func (v *Value) UnmarshalJSON(data []byte) error {
	x, err := Parse(data)
	if err != nil {
		return err
	}
	*v = x
	return nil
}
