package acquisition

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/slaide/seaconfig/internal/configitem"
	"github.com/slaide/seaconfig/internal/schemaerr"
	"github.com/slaide/seaconfig/internal/tree"
)

// TimestampLayout is the exchange format of timestamps: UTC, whole seconds.
const TimestampLayout = "2006-01-02T15:04:05Z"

// fileTimestampLayout is safe to use in file names.
const fileTimestampLayout = "2006-01-02_15.04.05"

// FormatTimestamp formats t in the exchange format.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// FormatFileTimestamp formats t for use in export file names.
func FormatFileTimestamp(t time.Time) string {
	return t.UTC().Format(fileTimestampLayout)
}

// ParseTimestamp reads an ISO-8601 timestamp. Timestamps without a zone are
// taken as UTC. The result is UTC, truncated to whole seconds.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999"} {
		if t, err := time.Parse(layout, s); err == nil {
			return normalizeTimestamp(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q, want %s", s, TimestampLayout)
}

type document struct {
	ProjectName      string            `json:"project_name"`
	PlateName        string            `json:"plate_name"`
	CellLine         string            `json:"cell_line"`
	Grid             SiteGrid          `json:"grid"`
	WellplateType    WellplateRef      `json:"wellplate_type"`
	PlateWells       []Well            `json:"plate_wells"`
	Channels         []Channel         `json:"channels"`
	AutofocusEnabled bool              `json:"autofocus_enabled"`
	MachineConfig    []configitem.Item `json:"machine_config"`
	Comment          *string           `json:"comment"`
	SpecVersion      Version           `json:"spec_version"`
	Timestamp        *string           `json:"timestamp"`
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// MarshalJSON encodes the config in the current exchange format. Configs read
// from older documents must be upgraded first.
func (c AcquisitionConfig) MarshalJSON() ([]byte, error) {
	if c.Version != CurrentVersion {
		return nil, schemaerr.Structuralf("spec_version", "cannot encode version %s as %s, upgrade before encoding", c.Version, CurrentVersion)
	}
	doc := document{
		ProjectName:      c.ProjectName,
		PlateName:        c.PlateName,
		CellLine:         c.CellLine,
		Grid:             c.Grid,
		WellplateType:    c.WellplateType,
		PlateWells:       emptyIfNil(c.PlateWells),
		Channels:         emptyIfNil(c.Channels),
		AutofocusEnabled: c.AutofocusEnabled,
		MachineConfig:    c.MachineConfig,
		Comment:          c.Comment,
		SpecVersion:      c.Version,
	}
	doc.Grid.Mask = emptyIfNil(doc.Grid.Mask)
	if c.Timestamp != nil {
		ts := FormatTimestamp(*c.Timestamp)
		doc.Timestamp = &ts
	}
	return json.Marshal(doc)
}

// UnmarshalJSON runs the full read pipeline, so older documents are accepted.
func (c *AcquisitionConfig) UnmarshalJSON(data []byte) error {
	res, err := Parse(data)
	if err != nil {
		return err
	}
	*c = res.Config
	return nil
}

// EncodeJSON returns the indented JSON document.
func EncodeJSON(c AcquisitionConfig) ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// EncodeYAML returns the document as YAML.
func EncodeYAML(c AcquisitionConfig) ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	doc, err := tree.FromJSON(data)
	if err != nil {
		return nil, err
	}
	return tree.ToYAML(doc)
}
