package acquisition

import (
	"time"

	"github.com/slaide/seaconfig/internal/schemaerr"
)

// DeltaTime is the interval between two time points.
type DeltaTime struct {
	H int `json:"h"`
	M int `json:"m"`
	S int `json:"s"`
}

// Duration converts the interval to a time.Duration.
func (d DeltaTime) Duration() time.Duration {
	return time.Duration(d.H)*time.Hour + time.Duration(d.M)*time.Minute + time.Duration(d.S)*time.Second
}

// DeltaTimeOf splits a duration into whole hours, minutes and seconds.
func DeltaTimeOf(d time.Duration) DeltaTime {
	d = d.Truncate(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	return DeltaTime{H: int(h), M: int(m), S: int(d / time.Second)}
}

// MaskCell marks whether one site of the grid is acquired.
type MaskCell struct {
	Row      int  `json:"row"`
	Col      int  `json:"col"`
	Selected bool `json:"selected"`
}

// SiteGrid describes the imaged positions within each well.
type SiteGrid struct {
	NumX     int        `json:"num_x"`
	DeltaXMM float64    `json:"delta_x_mm"`
	NumY     int        `json:"num_y"`
	DeltaYMM float64    `json:"delta_y_mm"`
	NumT     int        `json:"num_t"`
	DeltaT   DeltaTime  `json:"delta_t"`
	Mask     []MaskCell `json:"mask"`
}

// FullMask returns a mask selecting every site of a numX by numY grid, row major.
func FullMask(numX, numY int) []MaskCell {
	if numX <= 0 || numY <= 0 {
		return []MaskCell{}
	}
	mask := make([]MaskCell, 0, numX*numY)
	for row := 0; row < numY; row++ {
		for col := 0; col < numX; col++ {
			mask = append(mask, MaskCell{Row: row, Col: col, Selected: true})
		}
	}
	return mask
}

// Validate checks counts, spacings and that every mask cell lies in the grid.
func (g SiteGrid) Validate() error {
	switch {
	case g.NumX < 0:
		return schemaerr.Structuralf("num_x", "must not be negative, got %d", g.NumX)
	case g.NumY < 0:
		return schemaerr.Structuralf("num_y", "must not be negative, got %d", g.NumY)
	case g.NumT < 0:
		return schemaerr.Structuralf("num_t", "must not be negative, got %d", g.NumT)
	case g.DeltaXMM < 0:
		return schemaerr.Structuralf("delta_x_mm", "must not be negative, got %v", g.DeltaXMM)
	case g.DeltaYMM < 0:
		return schemaerr.Structuralf("delta_y_mm", "must not be negative, got %v", g.DeltaYMM)
	case g.DeltaT.H < 0 || g.DeltaT.M < 0 || g.DeltaT.S < 0:
		return schemaerr.Structuralf("delta_t", "must not be negative, got %+v", g.DeltaT)
	}
	seen := make(map[[2]int]bool, len(g.Mask))
	for i, c := range g.Mask {
		p := schemaerr.Join("mask", schemaerr.Index(i))
		if c.Row < 0 || c.Row >= g.NumY {
			return schemaerr.Rangef(schemaerr.Join(p, "row"), "row %d outside grid of %d rows", c.Row, g.NumY)
		}
		if c.Col < 0 || c.Col >= g.NumX {
			return schemaerr.Rangef(schemaerr.Join(p, "col"), "column %d outside grid of %d columns", c.Col, g.NumX)
		}
		key := [2]int{c.Row, c.Col}
		if seen[key] {
			return schemaerr.Structuralf(p, "duplicate cell (%d, %d)", c.Row, c.Col)
		}
		seen[key] = true
	}
	return nil
}

// IsSelected reports whether the site at row, col is acquired. Cells missing
// from the mask are not acquired.
func (g SiteGrid) IsSelected(row, col int) bool {
	for _, c := range g.Mask {
		if c.Row == row && c.Col == col {
			return c.Selected
		}
	}
	return false
}

// SelectedSites returns the selected cells in mask order.
func (g SiteGrid) SelectedSites() []MaskCell {
	var out []MaskCell
	for _, c := range g.Mask {
		if c.Selected {
			out = append(out, c)
		}
	}
	return out
}

// TimePoints returns the number of acquisitions per site, at least one.
func (g SiteGrid) TimePoints() int {
	return max(g.NumT, 1)
}
