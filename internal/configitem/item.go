package configitem

import (
	"encoding/json"
	"reflect"
	"slices"

	"github.com/slaide/seaconfig/internal/schemaerr"
	"github.com/slaide/seaconfig/internal/tree"
)

// Option is one selectable choice of an option item. Info is kept in the
// normalised tree form, so integers read back as int64 and objects as tree.Map.
type Option struct {
	Name   string `json:"name"`
	Handle string `json:"handle"`
	Info   any    `json:"info"`
}

// Canonical handles of the boolean option set.
const (
	HandleYes = "yes"
	HandleNo  = "no"
)

// BoolOptions returns the canonical yes/no pair.
func BoolOptions() []Option {
	return []Option{
		{Name: "Yes", Handle: HandleYes},
		{Name: "No", Handle: HandleNo},
	}
}

// Item is a named, typed machine setting. Its kind and value are set together by
// the constructors and cannot disagree.
type Item struct {
	Name    string
	Handle  string
	Frozen  bool
	Options []Option

	kind  Kind
	value Value
}

// NewInt returns an integer item.
func NewInt(name, handle string, v int64) Item {
	return Item{Name: name, Handle: handle, kind: KindInt, value: IntValue(v)}
}

// NewFloat returns a float item.
func NewFloat(name, handle string, v float64) Item {
	return Item{Name: name, Handle: handle, kind: KindFloat, value: FloatValue(v)}
}

// NewText returns a text item.
func NewText(name, handle, v string) Item {
	return Item{Name: name, Handle: handle, kind: KindText, value: TextValue(v)}
}

// NewAction returns an action item carrying arg as its value.
func NewAction(name, handle, arg string) Item {
	return Item{Name: name, Handle: handle, kind: KindAction, value: TextValue(arg)}
}

// NewOption returns an option item with selected as the chosen handle.
func NewOption(name, handle, selected string, options []Option) (Item, error) {
	opts, err := normalizeOptions(options)
	if err != nil {
		return Item{}, err
	}
	it := Item{
		Name:    name,
		Handle:  handle,
		Options: opts,
		kind:    KindOption,
		value:   TextValue(selected),
	}
	if err := it.checkOption(selected); err != nil {
		return Item{}, err
	}
	return it, nil
}

// NewBool returns an option item over the yes/no pair.
func NewBool(name, handle string, v bool) Item {
	sel := HandleNo
	if v {
		sel = HandleYes
	}
	return Item{Name: name, Handle: handle, Options: BoolOptions(), kind: KindOption, value: TextValue(sel)}
}

// New builds an item of any kind. Numeric payloads are converted to the kind's
// subtype; a text payload for a numeric kind, or a number for a text-like kind,
// is a type mismatch.
func New(name, handle string, kind Kind, v Value, options []Option) (Item, error) {
	if _, err := ParseKind(string(kind)); err != nil {
		return Item{}, err
	}
	if !v.IsValid() {
		return Item{}, schemaerr.TypeMismatchf("value", "missing value for %s item %q", kind, handle)
	}
	if kind.Numeric() != v.IsNumeric() {
		return Item{}, schemaerr.TypeMismatchf("value", "%s item %q cannot hold a %s value", kind, handle, v.Type())
	}
	cv, err := v.convertTo(kind.payloadType())
	if err != nil {
		return Item{}, err
	}
	opts, err := normalizeOptions(options)
	if err != nil {
		return Item{}, err
	}
	it := Item{Name: name, Handle: handle, Options: opts, kind: kind, value: cv}
	if kind == KindOption {
		if err := it.checkOption(cv.s); err != nil {
			return Item{}, err
		}
	}
	return it, nil
}

// normalizeOptions copies options, converting each Info payload to its tree form.
func normalizeOptions(options []Option) ([]Option, error) {
	if options == nil {
		return nil, nil
	}
	out := make([]Option, len(options))
	for i, o := range options {
		if o.Info != nil {
			info, err := tree.FromValue(o.Info)
			if err != nil {
				return nil, schemaerr.Structuralf(schemaerr.Join(schemaerr.Join("options", schemaerr.Index(i)), "info"), "%v", err)
			}
			o.Info = info
		}
		out[i] = o
	}
	return out, nil
}

func (it Item) checkOption(handle string) error {
	if len(it.Options) == 0 {
		return nil
	}
	for _, o := range it.Options {
		if o.Handle == handle {
			return nil
		}
	}
	return schemaerr.Structuralf("value", "%q is not an option of %q", handle, it.Handle)
}

// Kind returns the value kind.
func (it Item) Kind() Kind { return it.kind }

// Value returns the stored value.
func (it Item) Value() Value { return it.value }

// Int returns the value of an integer item.
func (it Item) Int() (int64, error) {
	if it.kind != KindInt {
		return 0, schemaerr.TypeMismatchf(it.Handle, "cannot read %s item as integer", it.kind)
	}
	return it.value.i, nil
}

// Float returns the value of a float item. Use Value().ToFloat() to read an
// integer item as a float.
func (it Item) Float() (float64, error) {
	if it.kind != KindFloat {
		return 0, schemaerr.TypeMismatchf(it.Handle, "cannot read %s item as float", it.kind)
	}
	return it.value.f, nil
}

// Text returns the value of a text, option or action item.
func (it Item) Text() (string, error) {
	if it.kind.Numeric() || it.kind == "" {
		return "", schemaerr.TypeMismatchf(it.Handle, "cannot read %s item as text", it.kind)
	}
	return it.value.s, nil
}

// Bool interprets an option item holding "yes" or "no". Any other value fails.
func (it Item) Bool() (bool, error) {
	if it.kind != KindOption {
		return false, schemaerr.TypeMismatchf(it.Handle, "cannot read %s item as boolean", it.kind)
	}
	switch it.value.s {
	case HandleYes:
		return true, nil
	case HandleNo:
		return false, nil
	default:
		return false, schemaerr.TypeMismatchf(it.Handle, "option %q is neither %q nor %q", it.value.s, HandleYes, HandleNo)
	}
}

// FormatValue returns the editable text form of the value.
func (it Item) FormatValue() string {
	return it.value.String()
}

// WithValue returns a copy holding v, checked and coerced as in New.
func (it Item) WithValue(v Value) (Item, error) {
	out, err := New(it.Name, it.Handle, it.kind, v, it.Options)
	if err != nil {
		return Item{}, err
	}
	out.Frozen = it.Frozen
	return out, nil
}

// Override returns a copy of it carrying other's value. The handles must match.
// For numeric kinds the incoming number takes the subtype of the value already
// held by it. it itself is never modified.
func (it Item) Override(other Item) (Item, error) {
	if it.Handle != other.Handle {
		return Item{}, schemaerr.IdentityMismatchf(it.Handle, "cannot override with item %q", other.Handle)
	}
	out := it
	out.Options = slices.Clone(it.Options)
	if it.kind.Numeric() {
		if !other.value.IsNumeric() {
			return Item{}, schemaerr.TypeMismatchf(it.Handle, "cannot override %s value with %s", it.kind, other.value.Type())
		}
		v, err := other.value.convertTo(it.value.typ)
		if err != nil {
			return Item{}, err
		}
		out.value = v
		return out, nil
	}
	if other.value.Type() != TypeText {
		return Item{}, schemaerr.TypeMismatchf(it.Handle, "cannot override %s value with %s", it.kind, other.value.Type())
	}
	if it.kind == KindOption {
		if err := it.checkOption(other.value.s); err != nil {
			return Item{}, err
		}
	}
	out.value = other.value
	return out, nil
}

// Merge applies overrides onto base by handle and returns the merged list in
// base order. An override whose handle is not in base fails.
func Merge(base, overrides []Item) ([]Item, error) {
	out := slices.Clone(base)
	index := make(map[string]int, len(out))
	for i, it := range out {
		index[it.Handle] = i
	}
	for _, o := range overrides {
		i, ok := index[o.Handle]
		if !ok {
			return nil, schemaerr.IdentityMismatchf(o.Handle, "no machine setting with this handle")
		}
		merged, err := out[i].Override(o)
		if err != nil {
			return nil, err
		}
		out[i] = merged
	}
	return out, nil
}

// Find returns the item with the given handle.
func Find(items []Item, handle string) (Item, bool) {
	for _, it := range items {
		if it.Handle == handle {
			return it, true
		}
	}
	return Item{}, false
}

type itemJSON struct {
	Name      string   `json:"name"`
	Handle    string   `json:"handle"`
	ValueKind Kind     `json:"value_kind"`
	Value     Value    `json:"value"`
	Frozen    bool     `json:"frozen"`
	Options   []Option `json:"options"`
}

// MarshalJSON encodes the item in the exchange format.
func (it Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(itemJSON{
		Name:      it.Name,
		Handle:    it.Handle,
		ValueKind: it.kind,
		Value:     it.value,
		Frozen:    it.Frozen,
		Options:   it.Options,
	})
}

// Equal reports whether two items carry the same fields, kind and value.
func (it Item) Equal(o Item) bool {
	return it.Name == o.Name &&
		it.Handle == o.Handle &&
		it.Frozen == o.Frozen &&
		it.kind == o.kind &&
		it.value == o.value &&
		reflect.DeepEqual(it.Options, o.Options)
}
