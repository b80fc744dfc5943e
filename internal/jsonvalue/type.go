package jsonvalue

import "fmt"

// Type is the semantic type of a JSON value.
type Type uint

const (
	Null Type = iota
	Boolean
	Number
	String
	Array
	Object
)

// Types lists all types in the order they are offered to users.
var Types = []Type{String, Number, Boolean, Null, Object, Array}

var typeNames = map[Type]string{
	Array:   "array",
	Boolean: "boolean",
	Null:    "null",
	Number:  "number",
	Object:  "object",
	String:  "string",
}

func (t Type) String() string {
	s, ok := typeNames[t]
	if !ok {
		return "unknown"
	}
	return s
}

// IsContainer reports whether values of this type can have children.
func (t Type) IsContainer() bool {
	return t == Array || t == Object
}

// ParseType returns the type for a name as returned by [Type.String].
func ParseType(name string) (Type, error) {
	for t, s := range typeNames {
		if s == name {
			return t, nil
		}
	}
	return Null, fmt.Errorf("unknown type: %s", name)
}

// Classify returns the semantic type of a value.
func Classify(v Value) Type {
	return v.typ
}
