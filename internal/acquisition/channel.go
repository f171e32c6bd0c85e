package acquisition

import (
	"github.com/slaide/seaconfig/internal/schemaerr"
	"github.com/slaide/seaconfig/internal/wellplate"
)

// Channel is one illumination and detection setting applied at every site.
type Channel struct {
	Name           string  `json:"name"`
	Handle         string  `json:"handle"`
	IllumPerc      float64 `json:"illum_perc"`
	ExposureTimeMS float64 `json:"exposure_time_ms"`
	AnalogGain     float64 `json:"analog_gain"`
	ZOffsetUM      float64 `json:"z_offset_um"`
	NumZ           int     `json:"num_z"`
	DeltaZUM       float64 `json:"delta_z_um"`
	Enabled        bool    `json:"enabled"`
}

// NewChannel returns an enabled single-plane channel.
func NewChannel(name, handle string, illumPerc, exposureMS, gain float64) Channel {
	return Channel{
		Name:           name,
		Handle:         handle,
		IllumPerc:      illumPerc,
		ExposureTimeMS: exposureMS,
		AnalogGain:     gain,
		NumZ:           1,
		Enabled:        true,
	}
}

// Validate checks value ranges.
func (c Channel) Validate() error {
	switch {
	case c.Handle == "":
		return schemaerr.Structuralf("handle", "must not be empty")
	case c.IllumPerc < 0 || c.IllumPerc > 100:
		return schemaerr.Structuralf("illum_perc", "must be within 0..100, got %v", c.IllumPerc)
	case c.ExposureTimeMS < 0:
		return schemaerr.Structuralf("exposure_time_ms", "must not be negative, got %v", c.ExposureTimeMS)
	case c.AnalogGain < 0:
		return schemaerr.Structuralf("analog_gain", "must not be negative, got %v", c.AnalogGain)
	case c.NumZ < 1:
		return schemaerr.Structuralf("num_z", "must be at least 1, got %d", c.NumZ)
	case c.DeltaZUM < 0:
		return schemaerr.Structuralf("delta_z_um", "must not be negative, got %v", c.DeltaZUM)
	}
	return nil
}

// Well is one well of the plate and whether it is imaged.
type Well struct {
	Row      int  `json:"row"`
	Col      int  `json:"col"`
	Selected bool `json:"selected"`
}

// Name returns the well name, e.g. "A1" for row 0, column 0.
func (w Well) Name() string {
	return wellplate.WellName(w.Row, w.Col)
}

// WellByName returns a selected Well for a name such as "B03".
func WellByName(name string) (Well, error) {
	row, col, err := wellplate.ParseWellName(name)
	if err != nil {
		return Well{}, err
	}
	return Well{Row: row, Col: col, Selected: true}, nil
}
