package configitem

import (
	"github.com/slaide/seaconfig/internal/schemaerr"
	"github.com/slaide/seaconfig/internal/tree"
)

// FromTree decodes one item from a normalised tree.
func FromTree(v any, path string) (Item, error) {
	r, err := tree.Object(v, path)
	if err != nil {
		return Item{}, err
	}
	if err := r.Only("name", "handle", "value_kind", "value", "frozen", "options"); err != nil {
		return Item{}, err
	}
	name, err := r.String("name")
	if err != nil {
		return Item{}, err
	}
	handle, err := r.String("handle")
	if err != nil {
		return Item{}, err
	}
	kindText, err := r.String("value_kind")
	if err != nil {
		return Item{}, err
	}
	kind, err := ParseKind(kindText)
	if err != nil {
		return Item{}, schemaerr.At(path, err)
	}
	raw, ok := r.Raw("value")
	if !ok || raw == nil {
		return Item{}, schemaerr.Structuralf(r.Path("value"), "missing required field")
	}
	val, err := valueFromTree(raw, r.Path("value"))
	if err != nil {
		return Item{}, err
	}
	frozen, err := r.OptBool("frozen", false)
	if err != nil {
		return Item{}, err
	}
	options, err := optionsFromTree(r)
	if err != nil {
		return Item{}, err
	}
	it, err := New(name, handle, kind, val, options)
	if err != nil {
		return Item{}, schemaerr.At(path, err)
	}
	it.Frozen = frozen
	return it, nil
}

func optionsFromTree(r tree.Reader) ([]Option, error) {
	list, ok, err := r.OptList("options")
	if err != nil || !ok {
		return nil, err
	}
	out := make([]Option, 0, len(list))
	for i, raw := range list {
		or, err := tree.Object(raw, schemaerr.Join(r.Path("options"), schemaerr.Index(i)))
		if err != nil {
			return nil, err
		}
		if err := or.Only("name", "handle", "info"); err != nil {
			return nil, err
		}
		var o Option
		if o.Name, err = or.String("name"); err != nil {
			return nil, err
		}
		if o.Handle, err = or.String("handle"); err != nil {
			return nil, err
		}
		o.Info, _ = or.Raw("info")
		out = append(out, o)
	}
	return out, nil
}

// ListFromTree decodes a list of items. A nil tree yields a nil list.
func ListFromTree(v any, path string) ([]Item, error) {
	if v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, schemaerr.Structuralf(path, "expected array, got %s", tree.TypeName(v))
	}
	out := make([]Item, 0, len(list))
	seen := make(map[string]bool, len(list))
	for i, raw := range list {
		p := schemaerr.Join(path, schemaerr.Index(i))
		it, err := FromTree(raw, p)
		if err != nil {
			return nil, err
		}
		if seen[it.Handle] {
			return nil, schemaerr.Structuralf(schemaerr.Join(p, "handle"), "duplicate handle %q", it.Handle)
		}
		seen[it.Handle] = true
		out = append(out, it)
	}
	return out, nil
}
