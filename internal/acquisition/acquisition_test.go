package acquisition

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slaide/seaconfig/internal/configitem"
	"github.com/slaide/seaconfig/internal/schemaerr"
	"github.com/slaide/seaconfig/internal/tree"
	"github.com/slaide/seaconfig/internal/wellplate"
)

func readTestdata(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func sampleConfig(t *testing.T) AcquisitionConfig {
	t.Helper()
	comment := "control wells on the left"
	ts := time.Date(2024, time.March, 3, 9, 15, 42, 0, time.UTC)
	objective, err := configitem.NewOption("Objective", "objective", "20x", []configitem.Option{
		{Name: "10x Plan", Handle: "10x", Info: map[string]any{"mag": 10, "na": 0.3}},
		{Name: "20x Plan", Handle: "20x", Info: map[string]any{"mag": 20, "na": 0.45, "immersion": []string{"air"}}},
	})
	require.NoError(t, err)
	cfg, err := New(AcquisitionConfig{
		ProjectName: "screen-9",
		PlateName:   "plate-010",
		CellLine:    "MCF7",
		Grid: SiteGrid{
			NumX: 3, DeltaXMM: 0.5, NumY: 2, DeltaYMM: 0.5,
			NumT: 4, DeltaT: DeltaTime{M: 10},
		},
		WellplateType: PlateID("revvity-384-6057800"),
		PlateWells: []Well{
			{Row: 0, Col: 0, Selected: true},
			{Row: 2, Col: 5, Selected: true},
			{Row: 3, Col: 7, Selected: false},
		},
		Channels: []Channel{
			NewChannel("Fluorescence 405 nm Ex", "fluo405", 20, 50, 0),
			{Name: "BF", Handle: "bf", IllumPerc: 10, ExposureTimeMS: 5, NumZ: 4, DeltaZUM: 1.5, Enabled: true},
			{Name: "Off", Handle: "off", NumZ: 2, Enabled: false},
		},
		AutofocusEnabled: true,
		MachineConfig: []configitem.Item{
			configitem.NewFloat("Exposure offset", "exposure_offset", 1),
			configitem.NewBool("Laser autofocus", "laser_af", true),
			objective,
		},
		Comment:   &comment,
		Timestamp: &ts,
	})
	require.NoError(t, err)
	return cfg
}

var cmpConfig = cmpopts.EquateEmpty()

func TestVersionOrdering(t *testing.T) {
	ordered := []Version{VersionInitial, VersionPerChannelZ, VersionMachineConfig, VersionChannelEnabled}
	for i := range ordered {
		for j := range ordered {
			assert.Equal(t, i < j, ordered[i].Less(ordered[j]), "%s < %s", ordered[i], ordered[j])
		}
		assert.False(t, ordered[i].Less(ordered[i]))
		assert.Equal(t, 0, ordered[i].Compare(ordered[i]))
	}
	assert.Equal(t, CurrentVersion, VersionChannelEnabled)
	assert.Equal(t, "2.1.1", CurrentVersion.String())
	assert.True(t, Version{1, 9, 9}.Less(Version{2, 0, 0}))
}

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion("2.1.0")
	require.NoError(t, err)
	assert.Equal(t, VersionMachineConfig, v)

	for _, s := range []string{"2.1", "2.1.1x", "a.b.c", "-1.0.0"} {
		_, err := ParseVersion(s)
		assert.Error(t, err, s)
	}
}

func TestNewStampsCurrentVersion(t *testing.T) {
	cfg := sampleConfig(t)
	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Len(t, cfg.Grid.Mask, 6)
	assert.Equal(t, 6, cfg.SiteCount())
}

func TestMissingVersionIsInitial(t *testing.T) {
	res, err := Parse(readTestdata(t, "v1.0.0.json"))
	require.NoError(t, err)
	assert.Equal(t, VersionInitial, res.Config.Version)
	assert.Equal(t, VersionInitial, res.SourceVersion)
	assert.True(t, res.Migrated())
}

func TestMigrateFromInitial(t *testing.T) {
	res, err := Parse(readTestdata(t, "v1.0.0.json"))
	require.NoError(t, err)
	cfg := res.Config

	want := SiteGrid{
		NumX: 2, DeltaXMM: 0.9, NumY: 2, DeltaYMM: 0.9,
		NumT:   2,
		DeltaT: DeltaTime{H: 1, M: 30},
		Mask: []MaskCell{
			{Row: 0, Col: 0, Selected: true},
			{Row: 0, Col: 1, Selected: true},
			{Row: 1, Col: 0, Selected: false},
			{Row: 1, Col: 1, Selected: true},
		},
	}
	if diff := cmp.Diff(want, cfg.Grid); diff != "" {
		t.Errorf("grid mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, cfg.Channels, 2)
	for _, ch := range cfg.Channels {
		assert.Equal(t, 3, ch.NumZ)
		assert.Equal(t, 1.5, ch.DeltaZUM)
		assert.True(t, ch.Enabled)
	}
	assert.Equal(t, 15.5, cfg.Channels[1].IllumPerc)
	assert.Equal(t, PlateID("revvity-384-6057800"), cfg.WellplateType)
	assert.Empty(t, cfg.PlateWells)
	assert.False(t, cfg.AutofocusEnabled)
	assert.Nil(t, cfg.MachineConfig)
	assert.Nil(t, cfg.Comment)
	assert.Nil(t, cfg.Timestamp)

	assert.Len(t, res.Changes, 10)
	assert.Contains(t, res.Changes, "2.0.0: dropped mask planes, merged 2 per-plane cell(s)")
	assert.Contains(t, res.Changes, "2.1.1: enabled 2 channel(s)")
}

func TestMigrateDoesNotModifyInput(t *testing.T) {
	raw, err := tree.FromJSON(readTestdata(t, "v1.0.0.json"))
	require.NoError(t, err)
	doc := raw.(tree.Map)
	before := tree.Clone(doc)

	_, from, _, err := Migrate(doc)
	require.NoError(t, err)
	assert.Equal(t, VersionInitial, from)
	assert.Equal(t, before, doc)
}

func TestParseVersion2_0(t *testing.T) {
	res, err := Parse(readTestdata(t, "v2.0.0.json"))
	require.NoError(t, err)
	cfg := res.Config
	assert.Equal(t, VersionPerChannelZ, cfg.Version)
	assert.Equal(t, 5, cfg.Channels[0].NumZ)
	assert.True(t, cfg.Channels[0].Enabled)
	assert.Equal(t, "B2", cfg.PlateWells[0].Name())
	assert.Len(t, cfg.SelectedWells(), 1)
	assert.Equal(t, []string{
		"2.1.0: added machine_config=null",
		"2.1.0: added comment=null",
		"2.1.0: added timestamp=null",
		"2.1.1: enabled 1 channel(s)",
	}, res.Changes)
}

func TestParseYAMLVersion2_1(t *testing.T) {
	res, err := ParseYAML(readTestdata(t, "v2.1.0.yaml"))
	require.NoError(t, err)
	cfg := res.Config
	assert.Equal(t, VersionMachineConfig, cfg.Version)
	require.NotNil(t, cfg.Comment)
	assert.Equal(t, "first pass", *cfg.Comment)
	require.NotNil(t, cfg.Timestamp)
	assert.True(t, time.Date(2024, time.May, 1, 12, 30, 5, 0, time.UTC).Equal(*cfg.Timestamp))

	af, ok := cfg.MachineItem("laser_af")
	require.True(t, ok)
	on, err := af.Bool()
	require.NoError(t, err)
	assert.True(t, on)

	obj, ok := cfg.MachineItem("objective")
	require.True(t, ok)
	assert.True(t, obj.Frozen)
}

func TestParseCurrentVersion(t *testing.T) {
	res, err := Parse(readTestdata(t, "v2.1.1.json"))
	require.NoError(t, err)
	cfg := res.Config
	assert.False(t, res.Migrated())
	assert.Empty(t, res.Changes)
	assert.True(t, cfg.IsCurrent())

	require.True(t, cfg.WellplateType.IsEmbedded())
	plate, err := cfg.WellplateType.Resolve(wellplate.Default())
	require.NoError(t, err)
	assert.Equal(t, 6, plate.TotalWells())
	require.NoError(t, cfg.ValidateAgainst(plate))

	offset, ok := cfg.MachineItem("exposure_offset")
	require.True(t, ok)
	assert.Equal(t, configitem.TypeFloat, offset.Value().Type())

	assert.Equal(t, 3, cfg.SiteCount())
	assert.Len(t, cfg.EnabledChannels(), 1)
	// 2 wells, 3 sites, 3 time points, 3 planes
	assert.Equal(t, 54, cfg.ImageCount())
	assert.Equal(t, 15*time.Minute, cfg.Grid.DeltaT.Duration())
}

func TestRoundTripJSON(t *testing.T) {
	for _, cfg := range []AcquisitionConfig{sampleConfig(t), mustParse(t, "v2.1.1.json")} {
		data, err := json.Marshal(cfg)
		require.NoError(t, err)
		res, err := Parse(data)
		require.NoError(t, err)
		if diff := cmp.Diff(cfg, res.Config, cmpConfig); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestRoundTripYAML(t *testing.T) {
	cfg := sampleConfig(t)
	data, err := EncodeYAML(cfg)
	require.NoError(t, err)
	res, err := ParseYAML(data)
	require.NoError(t, err)
	if diff := cmp.Diff(cfg, res.Config, cmpConfig); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalJSONRunsPipeline(t *testing.T) {
	var cfg AcquisitionConfig
	require.NoError(t, json.Unmarshal(readTestdata(t, "v1.0.0.json"), &cfg))
	assert.Equal(t, VersionInitial, cfg.Version)
	assert.Equal(t, 3, cfg.Channels[0].NumZ)
}

func TestEncodeRequiresUpgrade(t *testing.T) {
	cfg := mustParse(t, "v1.0.0.json")
	_, err := json.Marshal(cfg)
	assert.True(t, errors.Is(err, schemaerr.ErrStructural), "%v", err)

	up := cfg.Upgrade()
	assert.Equal(t, VersionInitial, cfg.Version)
	assert.Equal(t, CurrentVersion, up.Version)

	data, err := EncodeJSON(up)
	require.NoError(t, err)
	res, err := Parse(data)
	require.NoError(t, err)
	assert.False(t, res.Migrated())
	if diff := cmp.Diff(up, res.Config, cmpConfig); diff != "" {
		t.Errorf("upgraded round trip mismatch (-want +got):\n%s", diff)
	}
}

func mustParse(t *testing.T, name string) AcquisitionConfig {
	t.Helper()
	res, err := Parse(readTestdata(t, name))
	require.NoError(t, err)
	return res.Config
}

func mutateDoc(t *testing.T, name string, edit func(tree.Map)) []byte {
	t.Helper()
	raw, err := tree.FromJSON(readTestdata(t, name))
	require.NoError(t, err)
	doc := raw.(tree.Map)
	edit(doc)
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	return data
}

func TestParseFailures(t *testing.T) {
	cases := map[string]struct {
		file string
		edit func(tree.Map)
		kind error
		path string
	}{
		"mask row out of range": {
			file: "v2.1.1.json",
			edit: func(d tree.Map) {
				d["grid"].(tree.Map)["mask"] = []any{tree.Map{"row": 2, "col": 0, "selected": true}}
			},
			kind: schemaerr.ErrRange,
			path: "grid.mask[0].row",
		},
		"mask col out of range": {
			file: "v2.1.1.json",
			edit: func(d tree.Map) {
				d["grid"].(tree.Map)["mask"] = []any{tree.Map{"row": 0, "col": 9, "selected": true}}
			},
			kind: schemaerr.ErrRange,
			path: "grid.mask[0].col",
		},
		"plane out of range": {
			file: "v1.0.0.json",
			edit: func(d tree.Map) {
				d["grid"].(tree.Map)["mask"] = []any{tree.Map{"row": 0, "col": 0, "plane": 3, "selected": true}}
			},
			kind: schemaerr.ErrRange,
			path: "grid.mask[0].plane",
		},
		"wrong type": {
			file: "v2.1.1.json",
			edit: func(d tree.Map) { d["grid"].(tree.Map)["num_x"] = "two" },
			kind: schemaerr.ErrStructural,
			path: "grid.num_x",
		},
		"missing field": {
			file: "v2.1.1.json",
			edit: func(d tree.Map) { delete(d, "cell_line") },
			kind: schemaerr.ErrStructural,
			path: "cell_line",
		},
		"unknown field": {
			file: "v2.1.1.json",
			edit: func(d tree.Map) { d["grid"].(tree.Map)["num_z"] = 3 },
			kind: schemaerr.ErrStructural,
			path: "grid.num_z",
		},
		"unknown value kind": {
			file: "v2.1.1.json",
			edit: func(d tree.Map) {
				d["machine_config"].([]any)[1].(tree.Map)["value_kind"] = "bool"
			},
			kind: schemaerr.ErrStructural,
			path: "machine_config[1].value_kind",
		},
		"value kind mismatch": {
			file: "v2.1.1.json",
			edit: func(d tree.Map) {
				d["machine_config"].([]any)[1].(tree.Map)["value"] = "two"
			},
			kind: schemaerr.ErrTypeMismatch,
			path: "machine_config[1].value",
		},
		"channel out of range": {
			file: "v2.1.1.json",
			edit: func(d tree.Map) {
				d["channels"].([]any)[0].(tree.Map)["illum_perc"] = 120
			},
			kind: schemaerr.ErrStructural,
			path: "channels[0].illum_perc",
		},
		"future version": {
			file: "v2.1.1.json",
			edit: func(d tree.Map) {
				d["spec_version"] = tree.Map{"major": 3, "minor": 0, "patch": 0}
			},
			kind: schemaerr.ErrStructural,
			path: "spec_version",
		},
		"bad timestamp": {
			file: "v2.1.1.json",
			edit: func(d tree.Map) { d["timestamp"] = "yesterday" },
			kind: schemaerr.ErrStructural,
			path: "timestamp",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(mutateDoc(t, tc.file, tc.edit))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.kind), "%v", err)
			var fe *schemaerr.FieldError
			require.True(t, errors.As(err, &fe), "%v", err)
			assert.Equal(t, tc.path, fe.Path)
		})
	}
}

func TestValidateAgainstPlate(t *testing.T) {
	cfg := sampleConfig(t)
	small := wellplate.Default().MustLookup("thorlabs-4-C4SH01")
	err := cfg.ValidateAgainst(small)
	assert.True(t, errors.Is(err, schemaerr.ErrRange), "%v", err)

	plate, err := cfg.WellplateType.Resolve(wellplate.Default())
	require.NoError(t, err)
	assert.NoError(t, cfg.ValidateAgainst(plate))

	_, err = PlateID("no-such-plate").Resolve(wellplate.Default())
	assert.True(t, errors.Is(err, schemaerr.ErrStructural))
}

func TestNewRejectsInvalid(t *testing.T) {
	base := sampleConfig(t)

	bad := base
	bad.Grid.Mask = []MaskCell{{Row: 5, Col: 0, Selected: true}}
	_, err := New(bad)
	assert.True(t, errors.Is(err, schemaerr.ErrRange))

	bad = base
	bad.Channels = []Channel{NewChannel("a", "dup", 1, 1, 0), NewChannel("b", "dup", 1, 1, 0)}
	_, err = New(bad)
	assert.ErrorContains(t, err, "duplicate channel")

	bad = base
	bad.WellplateType = WellplateRef{}
	_, err = New(bad)
	assert.True(t, errors.Is(err, schemaerr.ErrStructural))
}

func TestTimestamps(t *testing.T) {
	ts := time.Date(2024, time.January, 2, 3, 4, 5, 600_000_000, time.FixedZone("CET", 3600))
	assert.Equal(t, "2024-01-02T02:04:05Z", FormatTimestamp(ts))
	assert.Equal(t, "2024-01-02_02.04.05", FormatFileTimestamp(ts))

	got, err := ParseTimestamp("2024-01-02T03:04:05.6+01:00")
	require.NoError(t, err)
	assert.True(t, time.Date(2024, time.January, 2, 2, 4, 5, 0, time.UTC).Equal(got), got)

	naive, err := ParseTimestamp("2024-01-02T03:04:05")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, naive.Location())

	cfg, err := New(AcquisitionConfig{WellplateType: PlateID("x"), Timestamp: &ts})
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Timestamp.Nanosecond())
	assert.Equal(t, time.UTC, cfg.Timestamp.Location())
}

func TestDeltaTime(t *testing.T) {
	d := DeltaTime{H: 1, M: 2, S: 3}
	assert.Equal(t, time.Hour+2*time.Minute+3*time.Second, d.Duration())
	assert.Equal(t, d, DeltaTimeOf(d.Duration()+400*time.Millisecond))
}

func TestWellNames(t *testing.T) {
	assert.Equal(t, "A1", Well{}.Name())
	assert.Equal(t, "P24", Well{Row: 15, Col: 23}.Name())
	w, err := WellByName("b03")
	require.NoError(t, err)
	assert.Equal(t, Well{Row: 1, Col: 2, Selected: true}, w)
}
