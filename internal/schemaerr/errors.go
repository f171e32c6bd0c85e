// Package schemaerr defines the error kinds shared by the plate and acquisition models.
package schemaerr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStructural classifies malformed or missing fields, wrong value types and
	// invalid cross references found while decoding a document.
	ErrStructural = errors.New("structural error")
	// ErrTypeMismatch classifies a value whose kind tag disagrees with its payload,
	// or a kind-specific accessor used on an item of another kind.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrRange classifies well names and grid indices outside the configured bounds.
	ErrRange = errors.New("out of range")
	// ErrIdentityMismatch classifies an override between items with different handles.
	ErrIdentityMismatch = errors.New("identity mismatch")
)

// FieldError ties one of the error kinds to the path of the field that caused it.
// Use errors.Is(err, ErrRange) etc. to classify; the path is informational.
type FieldError struct {
	Path string
	Err  error
	Msg  string
}

func (e *FieldError) Error() string {
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	b.WriteString(e.Err.Error())
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	return b.String()
}

// Unwrap returns the error kind.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// New builds a FieldError of the given kind.
func New(kind error, path, format string, args ...any) error {
	return &FieldError{Path: path, Err: kind, Msg: fmt.Sprintf(format, args...)}
}

// Structuralf builds an ErrStructural FieldError.
func Structuralf(path, format string, args ...any) error {
	return New(ErrStructural, path, format, args...)
}

// TypeMismatchf builds an ErrTypeMismatch FieldError.
func TypeMismatchf(path, format string, args ...any) error {
	return New(ErrTypeMismatch, path, format, args...)
}

// Rangef builds an ErrRange FieldError.
func Rangef(path, format string, args ...any) error {
	return New(ErrRange, path, format, args...)
}

// IdentityMismatchf builds an ErrIdentityMismatch FieldError.
func IdentityMismatchf(path, format string, args ...any) error {
	return New(ErrIdentityMismatch, path, format, args...)
}

// At prefixes parent onto the path of err. Errors that are not FieldErrors are
// classified as structural so that every decode failure carries a kind and a path.
func At(parent string, err error) error {
	if err == nil || parent == "" {
		return err
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return &FieldError{Path: Join(parent, fe.Path), Err: fe.Err, Msg: fe.Msg}
	}
	return &FieldError{Path: parent, Err: ErrStructural, Msg: err.Error()}
}

// Join appends a child segment to a field path. Index segments ("[3]") attach
// without a separator.
func Join(parent, child string) string {
	switch {
	case parent == "":
		return child
	case child == "":
		return parent
	case strings.HasPrefix(child, "["):
		return parent + child
	default:
		return parent + "." + child
	}
}

// Index formats an index path segment.
func Index(i int) string {
	return fmt.Sprintf("[%d]", i)
}
