// Package acquisition holds the versioned description of one plate imaging run
// and the pipeline that reads documents written by older schema versions.
package acquisition

import (
	"slices"
	"time"

	"github.com/slaide/seaconfig/internal/configitem"
	"github.com/slaide/seaconfig/internal/schemaerr"
	"github.com/slaide/seaconfig/internal/wellplate"
)

// AcquisitionConfig describes how one plate is imaged.
type AcquisitionConfig struct {
	ProjectName      string
	PlateName        string
	CellLine         string
	Grid             SiteGrid
	WellplateType    WellplateRef
	PlateWells       []Well
	Channels         []Channel
	AutofocusEnabled bool
	MachineConfig    []configitem.Item
	Comment          *string
	Version          Version
	Timestamp        *time.Time
}

// New completes and validates a freshly built config. An unset version becomes
// CurrentVersion and a nil mask selects the whole grid.
func New(cfg AcquisitionConfig) (AcquisitionConfig, error) {
	if cfg.Version.IsZero() {
		cfg.Version = CurrentVersion
	}
	if cfg.Grid.Mask == nil {
		cfg.Grid.Mask = FullMask(cfg.Grid.NumX, cfg.Grid.NumY)
	}
	if cfg.Timestamp != nil {
		ts := normalizeTimestamp(*cfg.Timestamp)
		cfg.Timestamp = &ts
	}
	cfg = cfg.clone()
	if err := cfg.Validate(); err != nil {
		return AcquisitionConfig{}, err
	}
	return cfg, nil
}

func normalizeTimestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func (c AcquisitionConfig) clone() AcquisitionConfig {
	c.Grid.Mask = slices.Clone(c.Grid.Mask)
	c.PlateWells = slices.Clone(c.PlateWells)
	c.Channels = slices.Clone(c.Channels)
	c.MachineConfig = slices.Clone(c.MachineConfig)
	if c.Comment != nil {
		s := *c.Comment
		c.Comment = &s
	}
	if c.Timestamp != nil {
		ts := *c.Timestamp
		c.Timestamp = &ts
	}
	if c.WellplateType.Plate != nil {
		p := *c.WellplateType.Plate
		c.WellplateType.Plate = &p
	}
	return c
}

// Validate checks the whole config without consulting a plate catalog.
func (c AcquisitionConfig) Validate() error {
	if c.WellplateType.IsZero() {
		return schemaerr.Structuralf("wellplate_type", "missing required field")
	}
	if c.WellplateType.Plate != nil {
		if err := c.WellplateType.Plate.Validate(); err != nil {
			return schemaerr.At("wellplate_type", err)
		}
	}
	if err := c.Grid.Validate(); err != nil {
		return schemaerr.At("grid", err)
	}
	handles := make(map[string]bool, len(c.Channels))
	for i, ch := range c.Channels {
		p := schemaerr.Join("channels", schemaerr.Index(i))
		if err := ch.Validate(); err != nil {
			return schemaerr.At(p, err)
		}
		if handles[ch.Handle] {
			return schemaerr.Structuralf(schemaerr.Join(p, "handle"), "duplicate channel %q", ch.Handle)
		}
		handles[ch.Handle] = true
	}
	wells := make(map[Well]bool, len(c.PlateWells))
	for i, w := range c.PlateWells {
		p := schemaerr.Join("plate_wells", schemaerr.Index(i))
		if w.Row < 0 || w.Col < 0 {
			return schemaerr.Rangef(p, "negative well index (%d, %d)", w.Row, w.Col)
		}
		key := Well{Row: w.Row, Col: w.Col}
		if wells[key] {
			return schemaerr.Structuralf(p, "duplicate well %s", w.Name())
		}
		wells[key] = true
	}
	items := make(map[string]bool, len(c.MachineConfig))
	for i, it := range c.MachineConfig {
		p := schemaerr.Join("machine_config", schemaerr.Index(i))
		if !it.Value().IsValid() {
			return schemaerr.Structuralf(p, "item %q has no value", it.Handle)
		}
		if items[it.Handle] {
			return schemaerr.Structuralf(schemaerr.Join(p, "handle"), "duplicate handle %q", it.Handle)
		}
		items[it.Handle] = true
	}
	if CurrentVersion.Less(c.Version) {
		return schemaerr.Structuralf("spec_version", "version %s is newer than supported %s", c.Version, CurrentVersion)
	}
	return nil
}

// ValidateAgainst runs Validate and checks that every well exists on plate.
func (c AcquisitionConfig) ValidateAgainst(plate wellplate.Wellplate) error {
	if err := c.Validate(); err != nil {
		return err
	}
	for i, w := range c.PlateWells {
		if !plate.Contains(w.Row, w.Col) {
			return schemaerr.Rangef(schemaerr.Join("plate_wells", schemaerr.Index(i)),
				"well %s is not on %s (%d x %d)", w.Name(), plate.ModelID, plate.NumWellsY, plate.NumWellsX)
		}
	}
	return nil
}

// Upgrade returns a copy stamped with CurrentVersion. Parsed configs already
// have the current shape, so only the tag changes.
func (c AcquisitionConfig) Upgrade() AcquisitionConfig {
	out := c.clone()
	out.Version = CurrentVersion
	return out
}

// IsCurrent reports whether the config carries CurrentVersion.
func (c AcquisitionConfig) IsCurrent() bool {
	return c.Version == CurrentVersion
}

// SelectedWells returns the wells marked for imaging.
func (c AcquisitionConfig) SelectedWells() []Well {
	var out []Well
	for _, w := range c.PlateWells {
		if w.Selected {
			out = append(out, w)
		}
	}
	return out
}

// EnabledChannels returns the channels that will be acquired.
func (c AcquisitionConfig) EnabledChannels() []Channel {
	var out []Channel
	for _, ch := range c.Channels {
		if ch.Enabled {
			out = append(out, ch)
		}
	}
	return out
}

// MachineItem returns the machine setting with the given handle.
func (c AcquisitionConfig) MachineItem(handle string) (configitem.Item, bool) {
	return configitem.Find(c.MachineConfig, handle)
}

// SiteCount returns the number of selected sites per well.
func (c AcquisitionConfig) SiteCount() int {
	return len(c.Grid.SelectedSites())
}

// ImageCount returns the number of images the run produces.
func (c AcquisitionConfig) ImageCount() int {
	planes := 0
	for _, ch := range c.EnabledChannels() {
		planes += ch.NumZ
	}
	return len(c.SelectedWells()) * c.SiteCount() * c.Grid.TimePoints() * planes
}
