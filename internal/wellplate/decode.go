package wellplate

import (
	"github.com/slaide/seaconfig/internal/schemaerr"
	"github.com/slaide/seaconfig/internal/tree"
)

// FromTree decodes an embedded plate description and validates it.
func FromTree(v any, path string) (Wellplate, error) {
	r, err := tree.Object(v, path)
	if err != nil {
		return Wellplate{}, err
	}
	var p Wellplate
	strs := []struct {
		key string
		dst *string
	}{
		{"Manufacturer", &p.Manufacturer},
		{"Model_name", &p.ModelName},
		{"Model_id_manufacturer", &p.ModelIDManufacturer},
		{"Model_id", &p.ModelID},
	}
	for _, f := range strs {
		if *f.dst, err = r.OptString(f.key, ""); err != nil {
			return Wellplate{}, err
		}
	}
	floats := []struct {
		key string
		dst *float64
	}{
		{"Offset_A1_x_mm", &p.OffsetA1XMM},
		{"Offset_A1_y_mm", &p.OffsetA1YMM},
		{"Offset_bottom_mm", &p.OffsetBottomMM},
		{"Well_distance_x_mm", &p.WellDistanceXMM},
		{"Well_distance_y_mm", &p.WellDistanceYMM},
		{"Well_size_x_mm", &p.WellSizeXMM},
		{"Well_size_y_mm", &p.WellSizeYMM},
		{"Length_mm", &p.LengthMM},
		{"Width_mm", &p.WidthMM},
		{"Well_edge_radius_mm", &p.WellEdgeRadiusMM},
	}
	for _, f := range floats {
		if *f.dst, err = r.Float(f.key); err != nil {
			return Wellplate{}, err
		}
	}
	if p.NumWellsX, err = r.Int("Num_wells_x"); err != nil {
		return Wellplate{}, err
	}
	if p.NumWellsY, err = r.Int("Num_wells_y"); err != nil {
		return Wellplate{}, err
	}
	if err := p.Validate(); err != nil {
		return Wellplate{}, schemaerr.At(path, err)
	}
	return p, nil
}
