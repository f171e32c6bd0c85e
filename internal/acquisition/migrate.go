package acquisition

import (
	"fmt"

	"github.com/slaide/seaconfig/internal/schemaerr"
	"github.com/slaide/seaconfig/internal/tree"
)

// migration rewrites a document into the shape of version to. It may modify
// doc, which is always a private copy.
type migration struct {
	to    Version
	apply func(doc tree.Map) ([]string, error)
}

var migrations = []migration{
	{to: VersionPerChannelZ, apply: migratePerChannelZ},
	{to: VersionMachineConfig, apply: migrateMachineConfig},
	{to: VersionChannelEnabled, apply: migrateChannelEnabled},
}

// Migrate rewrites doc into the current document shape and returns the version
// it was written in together with a description of every change. doc is not
// modified and the result carries no spec_version.
func Migrate(doc tree.Map) (tree.Map, Version, []string, error) {
	from, err := DocumentVersion(doc)
	if err != nil {
		return nil, Version{}, nil, err
	}
	out := tree.Clone(doc).(tree.Map)
	delete(out, "spec_version")
	var changes []string
	for _, m := range migrations {
		if !from.Less(m.to) {
			continue
		}
		stepChanges, err := m.apply(out)
		if err != nil {
			return nil, Version{}, nil, err
		}
		for _, c := range stepChanges {
			changes = append(changes, fmt.Sprintf("%s: %s", m.to, c))
		}
	}
	return out, from, changes, nil
}

func mapList(doc tree.Map, key string) ([]tree.Map, error) {
	raw, ok := doc[key]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, schemaerr.Structuralf(key, "expected array, got %s", tree.TypeName(raw))
	}
	out := make([]tree.Map, 0, len(list))
	for i, v := range list {
		m, ok := v.(tree.Map)
		if !ok {
			return nil, schemaerr.Structuralf(schemaerr.Join(key, schemaerr.Index(i)), "expected object, got %s", tree.TypeName(v))
		}
		out = append(out, m)
	}
	return out, nil
}

func rename(m tree.Map, from, to string) bool {
	v, ok := m[from]
	if !ok {
		return false
	}
	delete(m, from)
	if _, exists := m[to]; !exists {
		m[to] = v
	}
	return true
}

// migratePerChannelZ moves the z stack from the grid to every channel, adds
// units to the grid spacings and folds the per-plane mask into a site mask.
func migratePerChannelZ(doc tree.Map) ([]string, error) {
	grid, err := tree.Object(doc["grid"], "grid")
	if err != nil {
		return nil, err
	}
	numZ, err := grid.OptInt("num_z", 1)
	if err != nil {
		return nil, err
	}
	if numZ < 1 {
		return nil, schemaerr.Structuralf("grid.num_z", "must be at least 1, got %d", numZ)
	}
	deltaZ, err := grid.OptFloat("delta_z", 0)
	if err != nil {
		return nil, err
	}
	g := grid.Map()
	delete(g, "num_z")
	delete(g, "delta_z")

	var changes []string
	channels, err := mapList(doc, "channels")
	if err != nil {
		return nil, err
	}
	for _, ch := range channels {
		if _, ok := ch["num_z"]; !ok {
			ch["num_z"] = int64(numZ)
		}
		if _, ok := ch["delta_z_um"]; !ok {
			ch["delta_z_um"] = deltaZ
		}
	}
	changes = append(changes, fmt.Sprintf("moved grid z stack (num_z=%d, delta_z=%g) onto %d channel(s)", numZ, deltaZ, len(channels)))

	for _, k := range []string{"x", "y"} {
		if rename(g, "delta_"+k, "delta_"+k+"_mm") {
			changes = append(changes, fmt.Sprintf("renamed grid.delta_%s to grid.delta_%s_mm", k, k))
		}
	}

	if _, ok := g["mask"]; ok {
		collapsed, err := collapsePlanes(g, numZ)
		if err != nil {
			return nil, err
		}
		if collapsed > 0 {
			changes = append(changes, fmt.Sprintf("dropped mask planes, merged %d per-plane cell(s)", collapsed))
		} else {
			changes = append(changes, "dropped mask planes")
		}
	}

	if _, ok := doc["plate_wells"]; !ok {
		doc["plate_wells"] = []any{}
		changes = append(changes, "added empty plate_wells")
	}
	if _, ok := doc["autofocus_enabled"]; !ok {
		doc["autofocus_enabled"] = false
		changes = append(changes, "added autofocus_enabled=false")
	}
	return changes, nil
}

// collapsePlanes removes the plane index from every mask cell. Cells that
// differ only by plane become one cell, selected if any plane was.
func collapsePlanes(grid tree.Map, numZ int) (int, error) {
	cells, err := mapList(grid, "mask")
	if err != nil {
		return 0, schemaerr.At("grid", err)
	}
	type key struct{ row, col int }
	index := make(map[key]int, len(cells))
	out := make([]any, 0, len(cells))
	collapsed := 0
	for i, c := range cells {
		r, err := tree.Object(c, schemaerr.Join("grid.mask", schemaerr.Index(i)))
		if err != nil {
			return 0, err
		}
		plane, err := r.OptInt("plane", 0)
		if err != nil {
			return 0, err
		}
		if plane < 0 || plane >= numZ {
			return 0, schemaerr.Rangef(r.Path("plane"), "plane %d outside z stack of %d", plane, numZ)
		}
		row, err := r.Int("row")
		if err != nil {
			return 0, err
		}
		col, err := r.Int("col")
		if err != nil {
			return 0, err
		}
		selected, err := r.OptBool("selected", true)
		if err != nil {
			return 0, err
		}
		k := key{row, col}
		if j, ok := index[k]; ok {
			prev := out[j].(tree.Map)
			prev["selected"] = prev["selected"].(bool) || selected
			collapsed++
			continue
		}
		index[k] = len(out)
		out = append(out, tree.Map{"row": int64(row), "col": int64(col), "selected": selected})
	}
	grid["mask"] = out
	return collapsed, nil
}

func migrateMachineConfig(doc tree.Map) ([]string, error) {
	var changes []string
	for _, k := range []string{"machine_config", "comment", "timestamp"} {
		if _, ok := doc[k]; !ok {
			doc[k] = nil
			changes = append(changes, fmt.Sprintf("added %s=null", k))
		}
	}
	return changes, nil
}

func migrateChannelEnabled(doc tree.Map) ([]string, error) {
	channels, err := mapList(doc, "channels")
	if err != nil {
		return nil, err
	}
	n := 0
	for _, ch := range channels {
		if _, ok := ch["enabled"]; !ok {
			ch["enabled"] = true
			n++
		}
	}
	if n == 0 {
		return nil, nil
	}
	return []string{fmt.Sprintf("enabled %d channel(s)", n)}, nil
}
