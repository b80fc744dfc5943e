// Package jsonvalue implements an immutable JSON document model
// with path addressed copy-on-write mutations.
package jsonvalue

import (
	"fmt"
	"math"
	"slices"
	"strconv"
)

// Value is an immutable JSON value. The zero value is null.
//
// Arrays and objects share their backing storage between values.
// All functions of this package treat that storage as read-only
// and allocate new storage for every change.
type Value struct {
	typ     Type
	b       bool
	n       float64
	s       string
	items   []Value
	members []Member
}

// Member is a key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// NewNull returns a null value.
func NewNull() Value {
	return Value{}
}

// NewBool returns a boolean value.
func NewBool(b bool) Value {
	return Value{typ: Boolean, b: b}
}

// NewNumber returns a number value.
func NewNumber(n float64) Value {
	return Value{typ: Number, n: n}
}

// NewString returns a string value.
func NewString(s string) Value {
	return Value{typ: String, s: s}
}

// NewArray returns an array value with the given items.
func NewArray(items ...Value) Value {
	return Value{typ: Array, items: slices.Clone(items)}
}

// NewObject returns an object value with the given members.
// When a key occurs more than once the last value wins
// and the key keeps the position of its first occurrence.
func NewObject(members ...Member) Value {
	mm := make([]Member, 0, len(members))
	for _, m := range members {
		mm = putMember(mm, m.Key, m.Value)
	}
	return Value{typ: Object, members: mm}
}

// putMember sets a member in place. Only to be used on newly allocated slices.
func putMember(mm []Member, key string, v Value) []Member {
	i := indexOfKey(mm, key)
	if i == -1 {
		return append(mm, Member{Key: key, Value: v})
	}
	mm[i].Value = v
	return mm
}

func indexOfKey(mm []Member, key string) int {
	return slices.IndexFunc(mm, func(m Member) bool {
		return m.Key == key
	})
}

// FromAny converts unmarshaled Go data into a value.
// Keys of Go maps are sorted, since maps have no order.
func FromAny(x any) (Value, error) {
	switch v := x.(type) {
	case nil:
		return NewNull(), nil
	case Value:
		return v, nil
	case bool:
		return NewBool(v), nil
	case float64:
		return NewNumber(v), nil
	case float32:
		return NewNumber(float64(v)), nil
	case int:
		return NewNumber(float64(v)), nil
	case int64:
		return NewNumber(float64(v)), nil
	case string:
		return NewString(v), nil
	case []any:
		items := make([]Value, len(v))
		for i, e := range v {
			x, err := FromAny(e)
			if err != nil {
				return Value{}, err
			}
			items[i] = x
		}
		return Value{typ: Array, items: items}, nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		members := make([]Member, len(keys))
		for i, k := range keys {
			x, err := FromAny(v[k])
			if err != nil {
				return Value{}, err
			}
			members[i] = Member{Key: k, Value: x}
		}
		return Value{typ: Object, members: members}, nil
	default:
		return Value{}, fmt.Errorf("unsupported type %T", x)
	}
}

// MustFromAny is like [FromAny] but panics on error. Meant for tests and literals.
func MustFromAny(x any) Value {
	v, err := FromAny(x)
	if err != nil {
		panic(err)
	}
	return v
}

// ToAny converts a value into the Go types used by encoding/json.
func (v Value) ToAny() any {
	switch v.typ {
	case Boolean:
		return v.b
	case Number:
		return v.n
	case String:
		return v.s
	case Array:
		s := make([]any, len(v.items))
		for i, x := range v.items {
			s[i] = x.ToAny()
		}
		return s
	case Object:
		m := make(map[string]any, len(v.members))
		for _, x := range v.members {
			m[x.Key] = x.Value.ToAny()
		}
		return m
	}
	return nil
}

// Type returns the semantic type of a value.
func (v Value) Type() Type {
	return v.typ
}

func (v Value) IsNull() bool {
	return v.typ == Null
}

// Bool returns the boolean and reports whether v is a boolean.
func (v Value) Bool() (bool, bool) {
	return v.b, v.typ == Boolean
}

// Number returns the number and reports whether v is a number.
func (v Value) Number() (float64, bool) {
	return v.n, v.typ == Number
}

// Str returns the string and reports whether v is a string.
func (v Value) Str() (string, bool) {
	return v.s, v.typ == String
}

// Len returns the number of items of an array or members of an object.
// Scalars have a length of zero.
func (v Value) Len() int {
	switch v.typ {
	case Array:
		return len(v.items)
	case Object:
		return len(v.members)
	}
	return 0
}

// Index returns an array item and reports whether it exists.
func (v Value) Index(i int) (Value, bool) {
	if v.typ != Array || i < 0 || i >= len(v.items) {
		return Value{}, false
	}
	return v.items[i], true
}

// Items returns a copy of the items of an array.
func (v Value) Items() []Value {
	if v.typ != Array {
		return nil
	}
	return slices.Clone(v.items)
}

// Field returns the value for an object key and reports whether it exists.
func (v Value) Field(key string) (Value, bool) {
	if v.typ != Object {
		return Value{}, false
	}
	i := indexOfKey(v.members, key)
	if i == -1 {
		return Value{}, false
	}
	return v.members[i].Value, true
}

// Keys returns the keys of an object in order.
func (v Value) Keys() []string {
	if v.typ != Object {
		return nil
	}
	keys := make([]string, len(v.members))
	for i, m := range v.members {
		keys[i] = m.Key
	}
	return keys
}

// Members returns a copy of the members of an object in order.
func (v Value) Members() []Member {
	if v.typ != Object {
		return nil
	}
	return slices.Clone(v.members)
}

// Text returns the scalar text of a value as shown to users,
// e.g. strings without quotes. Containers return their compact JSON.
func (v Value) Text() string {
	switch v.typ {
	case Null:
		return "null"
	case Boolean:
		return strconv.FormatBool(v.b)
	case Number:
		return FormatNumber(v.n)
	case String:
		return v.s
	}
	b, err := Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func (v Value) String() string {
	b, err := Marshal(v)
	if err != nil {
		return fmt.Sprintf("!%s", err)
	}
	return string(b)
}

// FormatNumber formats a number the way it is shown to users.
func FormatNumber(n float64) string {
	if math.IsInf(n, 0) || math.IsNaN(n) {
		return "null"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Equal reports whether two values are equal.
// Objects are equal when they have the same set of keys with equal values,
// regardless of key order. Arrays must have equal items in the same order.
func Equal(a, b Value) bool {
	if a.typ != b.typ {
		return false
	}
	switch a.typ {
	case Null:
		return true
	case Boolean:
		return a.b == b.b
	case Number:
		return a.n == b.n
	case String:
		return a.s == b.s
	case Array:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(a.members) != len(b.members) {
			return false
		}
		for _, m := range a.members {
			x, ok := b.Field(m.Key)
			if !ok || !Equal(m.Value, x) {
				return false
			}
		}
		return true
	}
	return false
}

// Equal reports whether v is equal to other. See [Equal].
func (v Value) Equal(other Value) bool {
	return Equal(v, other)
}

// Walk calls fn for v and all its descendants in document order.
// Returning false from fn skips the children of that node.
func Walk(v Value, fn func(p Path, v Value) bool) {
	walk(nil, v, fn)
}

func walk(p Path, v Value, fn func(p Path, v Value) bool) {
	if !fn(p, v) {
		return
	}
	switch v.typ {
	case Array:
		for i, x := range v.items {
			walk(p.Child(Index(i)), x, fn)
		}
	case Object:
		for _, m := range v.members {
			walk(p.Child(Key(m.Key)), m.Value, fn)
		}
	}
}
