// Package configitem models named, typed machine settings.
package configitem

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/slaide/seaconfig/internal/schemaerr"
)

// maxExactInt bounds floats that convert to integers without loss.
const maxExactInt = 1 << 53

// Kind tags the meaning of an item's value.
type Kind string

const (
	// KindInt holds an integer.
	KindInt Kind = "int"
	// KindFloat holds a floating point number.
	KindFloat Kind = "float"
	// KindText holds free text.
	KindText Kind = "text"
	// KindOption holds the handle of one of the item's options.
	KindOption Kind = "option"
	// KindAction names a machine action; the value is its argument text.
	KindAction Kind = "action"
)

// Kinds lists the recognized kinds.
var Kinds = []Kind{KindInt, KindFloat, KindText, KindOption, KindAction}

// ParseKind validates a kind tag.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", schemaerr.Structuralf("value_kind", "unknown value kind %q", s)
}

// Numeric reports whether the kind holds a number.
func (k Kind) Numeric() bool {
	return k == KindInt || k == KindFloat
}

// payloadType is the representation the kind stores.
func (k Kind) payloadType() Type {
	switch k {
	case KindInt:
		return TypeInt
	case KindFloat:
		return TypeFloat
	default:
		return TypeText
	}
}

// Type is the runtime representation of a Value.
type Type int

const (
	// TypeInt is an int64 payload.
	TypeInt Type = iota + 1
	// TypeFloat is a float64 payload.
	TypeFloat
	// TypeText is a string payload.
	TypeText
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeText:
		return "text"
	default:
		return "invalid"
	}
}

// Value is an integer, a float or a text. The zero Value is invalid.
type Value struct {
	typ Type
	i   int64
	f   float64
	s   string
}

// IntValue returns an integer value.
func IntValue(i int64) Value { return Value{typ: TypeInt, i: i} }

// FloatValue returns a float value.
func FloatValue(f float64) Value { return Value{typ: TypeFloat, f: f} }

// TextValue returns a text value.
func TextValue(s string) Value { return Value{typ: TypeText, s: s} }

// Type returns the payload representation.
func (v Value) Type() Type { return v.typ }

// IsValid reports whether v was built by one of the constructors.
func (v Value) IsValid() bool { return v.typ != 0 }

// IsNumeric reports whether v holds an integer or a float.
func (v Value) IsNumeric() bool { return v.typ == TypeInt || v.typ == TypeFloat }

// ToFloat converts a numeric value to a float value. v itself is unchanged.
func (v Value) ToFloat() (Value, error) {
	switch v.typ {
	case TypeFloat:
		return v, nil
	case TypeInt:
		return FloatValue(float64(v.i)), nil
	default:
		return Value{}, schemaerr.TypeMismatchf("value", "cannot convert %s to float", v.typ)
	}
}

// ToInt converts a numeric value to an integer value, truncating toward zero.
// Floats that are not finite or exceed the exact integer range are rejected.
func (v Value) ToInt() (Value, error) {
	switch v.typ {
	case TypeInt:
		return v, nil
	case TypeFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) || math.Abs(v.f) > maxExactInt {
			return Value{}, schemaerr.TypeMismatchf("value", "%g is out of integer range", v.f)
		}
		return IntValue(int64(v.f)), nil
	default:
		return Value{}, schemaerr.TypeMismatchf("value", "cannot convert %s to integer", v.typ)
	}
}

// convertTo coerces a numeric value to the given numeric representation.
func (v Value) convertTo(t Type) (Value, error) {
	switch t {
	case TypeInt:
		return v.ToInt()
	case TypeFloat:
		return v.ToFloat()
	default:
		if v.typ != TypeText {
			return Value{}, schemaerr.TypeMismatchf("value", "expected text, got %s", v.typ)
		}
		return v, nil
	}
}

// String formats the value for display and editing.
func (v Value) String() string {
	switch v.typ {
	case TypeInt:
		return strconv.FormatInt(v.i, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case TypeText:
		return v.s
	default:
		return "<invalid>"
	}
}

// MarshalJSON encodes the payload as a JSON number or string.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.typ {
	case TypeInt:
		return json.Marshal(v.i)
	case TypeFloat:
		return json.Marshal(v.f)
	case TypeText:
		return json.Marshal(v.s)
	default:
		return nil, fmt.Errorf("cannot encode invalid value")
	}
}

// valueFromTree converts a normalised tree scalar into a Value.
func valueFromTree(raw any, path string) (Value, error) {
	switch t := raw.(type) {
	case int64:
		return IntValue(t), nil
	case float64:
		return FloatValue(t), nil
	case string:
		return TextValue(t), nil
	default:
		return Value{}, schemaerr.Structuralf(path, "value must be a number or a string, got %T", raw)
	}
}

// ParseValueFor parses user input as a value of the given kind.
func ParseValueFor(kind Kind, text string) (Value, error) {
	switch kind {
	case KindInt:
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Value{}, schemaerr.TypeMismatchf("value", "%q is not an integer", text)
		}
		return IntValue(i), nil
	case KindFloat:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, schemaerr.TypeMismatchf("value", "%q is not a number", text)
		}
		return FloatValue(f), nil
	case KindText, KindOption, KindAction:
		return TextValue(text), nil
	default:
		return Value{}, schemaerr.Structuralf("value_kind", "unknown value kind %q", kind)
	}
}
