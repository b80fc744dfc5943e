// Package coerce converts the text of an edit buffer into typed JSON values.
package coerce

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ErikKalkoken/jsoneditor/internal/jsonvalue"
)

var (
	ErrInvalidNumberFormat  = errors.New("invalid number format")
	ErrInvalidObjectLiteral = errors.New("invalid JSON object")
	ErrInvalidArrayLiteral  = errors.New("invalid JSON array")
	ErrInvalidBoolean       = errors.New("boolean must be true or false")
	ErrUnknownType          = errors.New("unknown type")
)

var reNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// Coercer converts raw text into values.
// The zero value treats any unrecognized boolean text as false.
type Coercer struct {
	// StrictBoolean rejects boolean texts other than true and false.
	StrictBoolean bool
}

// Coerce converts raw into a value of type typ with lenient boolean handling.
func Coerce(raw string, typ jsonvalue.Type) (jsonvalue.Value, error) {
	return Coercer{}.Coerce(raw, typ)
}

// Coerce converts raw into a value of type typ.
func (c Coercer) Coerce(raw string, typ jsonvalue.Type) (jsonvalue.Value, error) {
	switch typ {
	case jsonvalue.String:
		return jsonvalue.NewString(raw), nil
	case jsonvalue.Number:
		n, ok := ParseNumber(raw)
		if !ok {
			return jsonvalue.Value{}, ErrInvalidNumberFormat
		}
		return jsonvalue.NewNumber(n), nil
	case jsonvalue.Boolean:
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "true":
			return jsonvalue.NewBool(true), nil
		case "false":
			return jsonvalue.NewBool(false), nil
		}
		if c.StrictBoolean {
			return jsonvalue.Value{}, ErrInvalidBoolean
		}
		return jsonvalue.NewBool(false), nil
	case jsonvalue.Null:
		return jsonvalue.NewNull(), nil
	case jsonvalue.Object:
		v, err := jsonvalue.ParseString(raw)
		if err != nil || v.Type() != jsonvalue.Object {
			return jsonvalue.Value{}, ErrInvalidObjectLiteral
		}
		return v, nil
	case jsonvalue.Array:
		v, err := jsonvalue.ParseString(raw)
		if err != nil || v.Type() != jsonvalue.Array {
			return jsonvalue.Value{}, ErrInvalidArrayLiteral
		}
		return v, nil
	}
	return jsonvalue.Value{}, ErrUnknownType
}

// ParseNumber reports whether the trimmed text is a finite decimal number and returns it.
// Hex literals, underscores, Inf and NaN are not accepted.
func ParseNumber(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	if !reNumber.MatchString(s) {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}

// DefaultText returns the buffer text shown after switching to type typ.
// The current value is only used for numbers and strings.
func DefaultText(typ jsonvalue.Type, current jsonvalue.Value) string {
	switch typ {
	case jsonvalue.Object:
		return "{}"
	case jsonvalue.Array:
		return "[]"
	case jsonvalue.Boolean:
		return "false"
	case jsonvalue.Null:
		return "null"
	case jsonvalue.Number:
		if n, ok := current.Number(); ok {
			return jsonvalue.FormatNumber(n)
		}
		if s, ok := current.Str(); ok {
			if n, ok := ParseNumber(s); ok {
				return jsonvalue.FormatNumber(n)
			}
		}
		return "0"
	case jsonvalue.String:
		if current.Type().IsContainer() || current.IsNull() {
			return ""
		}
		return current.Text()
	}
	return ""
}

// EditText returns the initial buffer text for editing v.
// Containers are rendered as JSON indented by two spaces.
func EditText(v jsonvalue.Value) string {
	if v.Type().IsContainer() {
		b, err := jsonvalue.MarshalIndent(v)
		if err != nil {
			return v.String()
		}
		return string(b)
	}
	return v.Text()
}
