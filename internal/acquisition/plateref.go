package acquisition

import (
	"encoding/json"
	"fmt"

	"github.com/slaide/seaconfig/internal/schemaerr"
	"github.com/slaide/seaconfig/internal/wellplate"
)

// WellplateRef names the plate a config was made for, either by catalog id or
// by embedding the full geometry.
type WellplateRef struct {
	ID    string
	Plate *wellplate.Wellplate
}

// PlateID references a catalog entry.
func PlateID(id string) WellplateRef {
	return WellplateRef{ID: id}
}

// EmbeddedPlate embeds p in the config.
func EmbeddedPlate(p wellplate.Wellplate) WellplateRef {
	return WellplateRef{ID: p.ModelID, Plate: &p}
}

// IsEmbedded reports whether the geometry is carried inline.
func (r WellplateRef) IsEmbedded() bool {
	return r.Plate != nil
}

// IsZero reports whether the reference is unset.
func (r WellplateRef) IsZero() bool {
	return r.ID == "" && r.Plate == nil
}

// Resolve returns the referenced geometry. Embedded plates win over the catalog.
func (r WellplateRef) Resolve(c *wellplate.Catalog) (wellplate.Wellplate, error) {
	if r.Plate != nil {
		return *r.Plate, nil
	}
	if c == nil {
		return wellplate.Wellplate{}, schemaerr.Structuralf("wellplate_type", "no catalog to resolve %q", r.ID)
	}
	p, ok := c.Lookup(r.ID)
	if !ok {
		return wellplate.Wellplate{}, schemaerr.Structuralf("wellplate_type", "unknown wellplate %q", r.ID)
	}
	return p, nil
}

func (r WellplateRef) String() string {
	if r.Plate != nil {
		return fmt.Sprintf("%s (embedded)", r.Plate.ModelID)
	}
	return r.ID
}

// MarshalJSON writes the id as a string or the embedded plate as an object.
func (r WellplateRef) MarshalJSON() ([]byte, error) {
	if r.Plate != nil {
		return json.Marshal(r.Plate)
	}
	return json.Marshal(r.ID)
}

func plateRefFromTree(v any, path string) (WellplateRef, error) {
	switch t := v.(type) {
	case string:
		if t == "" {
			return WellplateRef{}, schemaerr.Structuralf(path, "must not be empty")
		}
		return PlateID(t), nil
	case map[string]any:
		p, err := wellplate.FromTree(t, path)
		if err != nil {
			return WellplateRef{}, err
		}
		return EmbeddedPlate(p), nil
	case nil:
		return WellplateRef{}, schemaerr.Structuralf(path, "missing required field")
	default:
		return WellplateRef{}, schemaerr.Structuralf(path, "expected plate id or plate object, got %T", v)
	}
}
