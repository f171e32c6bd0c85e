package acquisition

import (
	"github.com/slaide/seaconfig/internal/configitem"
	"github.com/slaide/seaconfig/internal/schemaerr"
	"github.com/slaide/seaconfig/internal/tree"
)

// ParseResult is a decoded document and how it was brought to the current shape.
type ParseResult struct {
	Config        AcquisitionConfig
	SourceVersion Version
	Changes       []string
}

// Migrated reports whether any migration step ran.
func (r ParseResult) Migrated() bool {
	return r.SourceVersion != CurrentVersion
}

// Parse reads a JSON document of any known schema version.
func Parse(data []byte) (ParseResult, error) {
	doc, err := tree.FromJSON(data)
	if err != nil {
		return ParseResult{}, schemaerr.Structuralf("", "%v", err)
	}
	return FromTree(doc)
}

// ParseYAML reads a YAML document of any known schema version.
func ParseYAML(data []byte) (ParseResult, error) {
	doc, err := tree.FromYAML(data)
	if err != nil {
		return ParseResult{}, schemaerr.Structuralf("", "%v", err)
	}
	return FromTree(doc)
}

// FromTree migrates a normalised document to the current shape, decodes and
// validates it. The config keeps the version the document declared.
func FromTree(v any) (ParseResult, error) {
	doc, ok := v.(tree.Map)
	if !ok {
		return ParseResult{}, schemaerr.Structuralf("", "expected object, got %s", tree.TypeName(v))
	}
	migrated, from, changes, err := Migrate(doc)
	if err != nil {
		return ParseResult{}, err
	}
	cfg, err := decodeConfig(migrated)
	if err != nil {
		return ParseResult{}, err
	}
	cfg.Version = from
	if err := cfg.Validate(); err != nil {
		return ParseResult{}, err
	}
	return ParseResult{Config: cfg, SourceVersion: from, Changes: changes}, nil
}

func decodeConfig(doc tree.Map) (AcquisitionConfig, error) {
	r, err := tree.Object(doc, "")
	if err != nil {
		return AcquisitionConfig{}, err
	}
	err = r.Only("project_name", "plate_name", "cell_line", "grid", "wellplate_type", "plate_wells",
		"channels", "autofocus_enabled", "machine_config", "comment", "timestamp")
	if err != nil {
		return AcquisitionConfig{}, err
	}
	var c AcquisitionConfig
	if c.ProjectName, err = r.String("project_name"); err != nil {
		return AcquisitionConfig{}, err
	}
	if c.PlateName, err = r.String("plate_name"); err != nil {
		return AcquisitionConfig{}, err
	}
	if c.CellLine, err = r.String("cell_line"); err != nil {
		return AcquisitionConfig{}, err
	}
	if c.Grid, err = decodeGrid(r); err != nil {
		return AcquisitionConfig{}, err
	}
	raw, _ := r.Raw("wellplate_type")
	if c.WellplateType, err = plateRefFromTree(raw, "wellplate_type"); err != nil {
		return AcquisitionConfig{}, err
	}
	if c.PlateWells, err = decodeWells(r); err != nil {
		return AcquisitionConfig{}, err
	}
	if c.Channels, err = decodeChannels(r); err != nil {
		return AcquisitionConfig{}, err
	}
	if c.AutofocusEnabled, err = r.Bool("autofocus_enabled"); err != nil {
		return AcquisitionConfig{}, err
	}
	raw, _ = r.Raw("machine_config")
	if c.MachineConfig, err = configitem.ListFromTree(raw, "machine_config"); err != nil {
		return AcquisitionConfig{}, err
	}
	if c.Comment, err = r.OptStringPtr("comment"); err != nil {
		return AcquisitionConfig{}, err
	}
	ts, err := r.OptStringPtr("timestamp")
	if err != nil {
		return AcquisitionConfig{}, err
	}
	if ts != nil {
		t, err := ParseTimestamp(*ts)
		if err != nil {
			return AcquisitionConfig{}, schemaerr.Structuralf("timestamp", "%v", err)
		}
		c.Timestamp = &t
	}
	return c, nil
}

func decodeGrid(parent tree.Reader) (SiteGrid, error) {
	r, err := parent.Object("grid")
	if err != nil {
		return SiteGrid{}, err
	}
	if err := r.Only("num_x", "delta_x_mm", "num_y", "delta_y_mm", "num_t", "delta_t", "mask"); err != nil {
		return SiteGrid{}, err
	}
	var g SiteGrid
	if g.NumX, err = r.Int("num_x"); err != nil {
		return SiteGrid{}, err
	}
	if g.DeltaXMM, err = r.Float("delta_x_mm"); err != nil {
		return SiteGrid{}, err
	}
	if g.NumY, err = r.Int("num_y"); err != nil {
		return SiteGrid{}, err
	}
	if g.DeltaYMM, err = r.Float("delta_y_mm"); err != nil {
		return SiteGrid{}, err
	}
	if g.NumT, err = r.Int("num_t"); err != nil {
		return SiteGrid{}, err
	}
	if g.DeltaT, err = decodeDeltaTime(r); err != nil {
		return SiteGrid{}, err
	}
	list, ok, err := r.OptList("mask")
	if err != nil {
		return SiteGrid{}, err
	}
	if !ok {
		g.Mask = FullMask(g.NumX, g.NumY)
	} else {
		g.Mask = make([]MaskCell, 0, len(list))
		for i, raw := range list {
			c, err := decodeMaskCell(raw, schemaerr.Join(r.Path("mask"), schemaerr.Index(i)))
			if err != nil {
				return SiteGrid{}, err
			}
			g.Mask = append(g.Mask, c)
		}
	}
	if err := g.Validate(); err != nil {
		return SiteGrid{}, schemaerr.At("grid", err)
	}
	return g, nil
}

func decodeDeltaTime(parent tree.Reader) (DeltaTime, error) {
	r, err := parent.Object("delta_t")
	if err != nil {
		return DeltaTime{}, err
	}
	if err := r.Only("h", "m", "s"); err != nil {
		return DeltaTime{}, err
	}
	var d DeltaTime
	if d.H, err = r.Int("h"); err != nil {
		return DeltaTime{}, err
	}
	if d.M, err = r.Int("m"); err != nil {
		return DeltaTime{}, err
	}
	if d.S, err = r.Int("s"); err != nil {
		return DeltaTime{}, err
	}
	return d, nil
}

func decodeMaskCell(v any, path string) (MaskCell, error) {
	r, err := tree.Object(v, path)
	if err != nil {
		return MaskCell{}, err
	}
	if err := r.Only("row", "col", "selected"); err != nil {
		return MaskCell{}, err
	}
	var c MaskCell
	if c.Row, err = r.Int("row"); err != nil {
		return MaskCell{}, err
	}
	if c.Col, err = r.Int("col"); err != nil {
		return MaskCell{}, err
	}
	if c.Selected, err = r.Bool("selected"); err != nil {
		return MaskCell{}, err
	}
	return c, nil
}

func decodeWells(parent tree.Reader) ([]Well, error) {
	list, err := parent.List("plate_wells")
	if err != nil {
		return nil, err
	}
	wells := make([]Well, 0, len(list))
	for i, raw := range list {
		r, err := tree.Object(raw, schemaerr.Join(parent.Path("plate_wells"), schemaerr.Index(i)))
		if err != nil {
			return nil, err
		}
		if err := r.Only("row", "col", "selected"); err != nil {
			return nil, err
		}
		var w Well
		if w.Row, err = r.Int("row"); err != nil {
			return nil, err
		}
		if w.Col, err = r.Int("col"); err != nil {
			return nil, err
		}
		if w.Selected, err = r.Bool("selected"); err != nil {
			return nil, err
		}
		wells = append(wells, w)
	}
	return wells, nil
}

func decodeChannels(parent tree.Reader) ([]Channel, error) {
	list, err := parent.List("channels")
	if err != nil {
		return nil, err
	}
	channels := make([]Channel, 0, len(list))
	for i, raw := range list {
		path := schemaerr.Join(parent.Path("channels"), schemaerr.Index(i))
		ch, err := decodeChannel(raw, path)
		if err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	return channels, nil
}

func decodeChannel(v any, path string) (Channel, error) {
	r, err := tree.Object(v, path)
	if err != nil {
		return Channel{}, err
	}
	err = r.Only("name", "handle", "illum_perc", "exposure_time_ms", "analog_gain", "z_offset_um",
		"num_z", "delta_z_um", "enabled")
	if err != nil {
		return Channel{}, err
	}
	var c Channel
	if c.Name, err = r.String("name"); err != nil {
		return Channel{}, err
	}
	if c.Handle, err = r.String("handle"); err != nil {
		return Channel{}, err
	}
	floats := []struct {
		key string
		dst *float64
	}{
		{"illum_perc", &c.IllumPerc},
		{"exposure_time_ms", &c.ExposureTimeMS},
		{"analog_gain", &c.AnalogGain},
		{"z_offset_um", &c.ZOffsetUM},
		{"delta_z_um", &c.DeltaZUM},
	}
	for _, f := range floats {
		if *f.dst, err = r.Float(f.key); err != nil {
			return Channel{}, err
		}
	}
	if c.NumZ, err = r.Int("num_z"); err != nil {
		return Channel{}, err
	}
	if c.Enabled, err = r.Bool("enabled"); err != nil {
		return Channel{}, err
	}
	if err := c.Validate(); err != nil {
		return Channel{}, schemaerr.At(path, err)
	}
	return c, nil
}
