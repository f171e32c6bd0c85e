// Package wellplate describes the physical geometry of microscopy wellplates.
//
// Columns run along the x axis and rows along the y axis. All lengths are in
// millimetres and measured from the top-left corner of the plate.
package wellplate

import (
	"fmt"
	"math"

	"github.com/slaide/seaconfig/internal/schemaerr"
)

// Wellplate holds the physical and catalog attributes of one plate model.
// Values are reference data: construct once, never mutate.
type Wellplate struct {
	// Manufacturer is the brand owner of the plate.
	Manufacturer string `json:"Manufacturer"`
	// ModelName is the human-readable model name.
	ModelName string `json:"Model_name"`
	// ModelIDManufacturer is the manufacturer's own catalog number (may be empty).
	ModelIDManufacturer string `json:"Model_id_manufacturer"`
	// ModelID identifies the plate across all manufacturers.
	ModelID string `json:"Model_id"`

	// OffsetA1XMM and OffsetA1YMM locate the top-left corner of well A1.
	OffsetA1XMM float64 `json:"Offset_A1_x_mm"`
	OffsetA1YMM float64 `json:"Offset_A1_y_mm"`

	// OffsetBottomMM is the height of the well bottom above the bottom of the skirt.
	OffsetBottomMM float64 `json:"Offset_bottom_mm"`

	// WellDistanceXMM and WellDistanceYMM are the pitch between the top-left
	// corners of adjacent wells (A1-A2 and A1-B1).
	WellDistanceXMM float64 `json:"Well_distance_x_mm"`
	WellDistanceYMM float64 `json:"Well_distance_y_mm"`

	// WellSizeXMM and WellSizeYMM are the largest extent of a well at its bottom,
	// in the image plane. Data sheets usually give the size at the top, which is
	// larger because well walls are slanted.
	WellSizeXMM float64 `json:"Well_size_x_mm"`
	WellSizeYMM float64 `json:"Well_size_y_mm"`

	NumWellsX int `json:"Num_wells_x"`
	NumWellsY int `json:"Num_wells_y"`

	// LengthMM is the plate extent along x, WidthMM along y.
	LengthMM float64 `json:"Length_mm"`
	WidthMM  float64 `json:"Width_mm"`

	// WellEdgeRadiusMM is 0 for square wells and half the well size for round ones.
	WellEdgeRadiusMM float64 `json:"Well_edge_radius_mm"`
}

// TotalWells returns the number of wells on the plate.
func (p Wellplate) TotalWells() int {
	if p.NumWellsX <= 0 || p.NumWellsY <= 0 {
		return 0
	}
	return p.NumWellsX * p.NumWellsY
}

// Contains reports whether (row, col) addresses a well on this plate.
func (p Wellplate) Contains(row, col int) bool {
	return row >= 0 && col >= 0 && row < p.NumWellsY && col < p.NumWellsX
}

// WellOffset returns the position of the top-left corner of the named well.
func (p Wellplate) WellOffset(wellName string) (x, y float64, err error) {
	row, col, err := ParseWellName(wellName)
	if err != nil {
		return 0, 0, err
	}
	if err := p.checkIndex(wellName, row, col); err != nil {
		return 0, 0, err
	}
	x = p.OffsetA1XMM + float64(col)*p.WellDistanceXMM
	y = p.OffsetA1YMM + float64(row)*p.WellDistanceYMM
	return x, y, nil
}

// WellOffsetX returns the x position of the top-left corner of the named well.
func (p Wellplate) WellOffsetX(wellName string) (float64, error) {
	x, _, err := p.WellOffset(wellName)
	return x, err
}

// WellOffsetY returns the y position of the top-left corner of the named well.
func (p Wellplate) WellOffsetY(wellName string) (float64, error) {
	_, y, err := p.WellOffset(wellName)
	return y, err
}

// WellCenter returns the position of the centre of the named well.
func (p Wellplate) WellCenter(wellName string) (x, y float64, err error) {
	x, y, err = p.WellOffset(wellName)
	if err != nil {
		return 0, 0, err
	}
	return x + p.WellSizeXMM/2, y + p.WellSizeYMM/2, nil
}

func (p Wellplate) checkIndex(wellName string, row, col int) error {
	if row >= p.NumWellsY {
		return schemaerr.Rangef("well", "well %s is not in a valid row for plate %s", wellName, p)
	}
	if col >= p.NumWellsX {
		return schemaerr.Rangef("well", "well %s is not in a valid column for plate %s", wellName, p)
	}
	return nil
}

// Validate checks that the geometry is physically meaningful.
func (p Wellplate) Validate() error {
	if p.ModelID == "" {
		return schemaerr.Structuralf("Model_id", "must not be empty")
	}
	if p.NumWellsX < 0 {
		return schemaerr.Structuralf("Num_wells_x", "must be non-negative, got %d", p.NumWellsX)
	}
	if p.NumWellsY < 0 {
		return schemaerr.Structuralf("Num_wells_y", "must be non-negative, got %d", p.NumWellsY)
	}
	nonNegative := []struct {
		field string
		value float64
	}{
		{"Well_distance_x_mm", p.WellDistanceXMM},
		{"Well_distance_y_mm", p.WellDistanceYMM},
		{"Well_size_x_mm", p.WellSizeXMM},
		{"Well_size_y_mm", p.WellSizeYMM},
		{"Well_edge_radius_mm", p.WellEdgeRadiusMM},
		{"Length_mm", p.LengthMM},
		{"Width_mm", p.WidthMM},
	}
	for _, f := range nonNegative {
		if f.value < 0 || math.IsNaN(f.value) {
			return schemaerr.Structuralf(f.field, "must be non-negative, got %v", f.value)
		}
	}
	if limit := math.Min(p.WellSizeXMM, p.WellSizeYMM) / 2; p.WellEdgeRadiusMM > limit {
		return schemaerr.Structuralf("Well_edge_radius_mm", "radius %v exceeds half the well size (%v)", p.WellEdgeRadiusMM, limit)
	}
	return nil
}

// String identifies the plate for messages.
func (p Wellplate) String() string {
	return fmt.Sprintf("%s %s (%s)", p.Manufacturer, p.ModelName, p.ModelID)
}
