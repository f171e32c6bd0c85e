package tree

import (
	"math"
	"slices"

	"github.com/slaide/seaconfig/internal/schemaerr"
)

// maxExactInt bounds floats accepted for integer fields.
const maxExactInt = 1 << 53

// Reader reads typed fields out of one object of a normalised tree and reports
// failures as schemaerr.FieldError with the full field path.
type Reader struct {
	m    Map
	path string
}

// Object wraps v as a Reader. v must be an object.
func Object(v any, path string) (Reader, error) {
	m, ok := v.(Map)
	if !ok {
		return Reader{}, schemaerr.Structuralf(path, "expected object, got %s", TypeName(v))
	}
	return Reader{m: m, path: path}, nil
}

// Path returns the path of the object, or of key within it.
func (r Reader) Path(key string) string {
	return schemaerr.Join(r.path, key)
}

// Map returns the underlying object.
func (r Reader) Map() Map {
	return r.m
}

// Has reports whether key is present and not null.
func (r Reader) Has(key string) bool {
	v, ok := r.m[key]
	return ok && v != nil
}

// Raw returns the value stored under key.
func (r Reader) Raw(key string) (any, bool) {
	v, ok := r.m[key]
	return v, ok
}

// Only fails on the first key, in sorted order, that is not in keys.
func (r Reader) Only(keys ...string) error {
	unknown := make([]string, 0)
	for k := range r.m {
		if !slices.Contains(keys, k) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	slices.Sort(unknown)
	return schemaerr.Structuralf(r.Path(unknown[0]), "unknown field")
}

func (r Reader) required(key string) (any, error) {
	v, ok := r.m[key]
	if !ok || v == nil {
		return nil, schemaerr.Structuralf(r.Path(key), "missing required field")
	}
	return v, nil
}

// String reads a required string.
func (r Reader) String(key string) (string, error) {
	v, err := r.required(key)
	if err != nil {
		return "", err
	}
	return AsString(v, r.Path(key))
}

// OptString reads a string, returning def when the field is absent or null.
func (r Reader) OptString(key, def string) (string, error) {
	if !r.Has(key) {
		return def, nil
	}
	return r.String(key)
}

// OptStringPtr reads a nullable string.
func (r Reader) OptStringPtr(key string) (*string, error) {
	if !r.Has(key) {
		return nil, nil
	}
	s, err := r.String(key)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Int reads a required integer. Float literals are truncated toward zero.
func (r Reader) Int(key string) (int, error) {
	v, err := r.required(key)
	if err != nil {
		return 0, err
	}
	return AsInt(v, r.Path(key))
}

// OptInt reads an integer, returning def when the field is absent or null.
func (r Reader) OptInt(key string, def int) (int, error) {
	if !r.Has(key) {
		return def, nil
	}
	return r.Int(key)
}

// Float reads a required number as float64.
func (r Reader) Float(key string) (float64, error) {
	v, err := r.required(key)
	if err != nil {
		return 0, err
	}
	return AsFloat(v, r.Path(key))
}

// OptFloat reads a number, returning def when the field is absent or null.
func (r Reader) OptFloat(key string, def float64) (float64, error) {
	if !r.Has(key) {
		return def, nil
	}
	return r.Float(key)
}

// Bool reads a required boolean.
func (r Reader) Bool(key string) (bool, error) {
	v, err := r.required(key)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, schemaerr.Structuralf(r.Path(key), "expected boolean, got %s", TypeName(v))
	}
	return b, nil
}

// OptBool reads a boolean, returning def when the field is absent or null.
func (r Reader) OptBool(key string, def bool) (bool, error) {
	if !r.Has(key) {
		return def, nil
	}
	return r.Bool(key)
}

// Object reads a required nested object.
func (r Reader) Object(key string) (Reader, error) {
	v, err := r.required(key)
	if err != nil {
		return Reader{}, err
	}
	return Object(v, r.Path(key))
}

// List reads a required array.
func (r Reader) List(key string) ([]any, error) {
	v, err := r.required(key)
	if err != nil {
		return nil, err
	}
	list, ok := v.([]any)
	if !ok {
		return nil, schemaerr.Structuralf(r.Path(key), "expected array, got %s", TypeName(v))
	}
	return list, nil
}

// OptList reads an array; ok is false when the field is absent or null.
func (r Reader) OptList(key string) (list []any, ok bool, err error) {
	if !r.Has(key) {
		return nil, false, nil
	}
	list, err = r.List(key)
	return list, err == nil, err
}

// AsString checks that v is a string.
func AsString(v any, path string) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", schemaerr.Structuralf(path, "expected string, got %s", TypeName(v))
	}
	return s, nil
}

// AsInt coerces an integer or float literal to int.
func AsInt(v any, path string) (int, error) {
	switch n := v.(type) {
	case int64:
		if n > math.MaxInt32 || n < math.MinInt32 {
			return 0, schemaerr.Structuralf(path, "integer %d out of supported range", n)
		}
		return int(n), nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || math.Abs(n) > maxExactInt {
			return 0, schemaerr.Structuralf(path, "cannot use %v as an integer", n)
		}
		t := math.Trunc(n)
		if t > math.MaxInt32 || t < math.MinInt32 {
			return 0, schemaerr.Structuralf(path, "integer %v out of supported range", t)
		}
		return int(t), nil
	default:
		return 0, schemaerr.Structuralf(path, "expected number, got %s", TypeName(v))
	}
}

// AsFloat coerces an integer or float literal to float64.
func AsFloat(v any, path string) (float64, error) {
	switch n := v.(type) {
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, schemaerr.Structuralf(path, "expected number, got %s", TypeName(v))
	}
}
