package wellplate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slaide/seaconfig/internal/schemaerr"
	"github.com/slaide/seaconfig/internal/tree"
)

func testPlate() Wellplate {
	return Wellplate{
		Manufacturer:     "Test",
		ModelName:        "384",
		ModelID:          "test-384",
		NumWellsX:        24,
		NumWellsY:        16,
		OffsetA1XMM:      10.5,
		OffsetA1YMM:      7.25,
		WellDistanceXMM:  4.5,
		WellDistanceYMM:  4.5,
		WellSizeXMM:      3,
		WellSizeYMM:      3,
		WellEdgeRadiusMM: 0.2,
		LengthMM:         127.76,
		WidthMM:          85.48,
	}
}

func TestWellOffsetA1IsOrigin(t *testing.T) {
	for _, p := range Default().All() {
		x, y, err := p.WellOffset("A1")
		require.NoError(t, err, p.ModelID)
		assert.Equal(t, p.OffsetA1XMM, x, p.ModelID)
		assert.Equal(t, p.OffsetA1YMM, y, p.ModelID)
	}
}

func TestWellOffsetArithmetic(t *testing.T) {
	p := testPlate()
	x, y, err := p.WellOffset("C5")
	require.NoError(t, err)
	assert.Equal(t, 10.5+4*4.5, x)
	assert.Equal(t, 7.25+2*4.5, y)

	x2, y2, err := p.WellOffset("c05")
	require.NoError(t, err)
	assert.Equal(t, x, x2)
	assert.Equal(t, y, y2)
}

func TestWellOffsetColumnStep(t *testing.T) {
	p := testPlate()
	for k := 1; k < p.NumWellsX; k++ {
		x1, y1, err := p.WellOffset(WellName(0, k-1))
		require.NoError(t, err)
		x2, y2, err := p.WellOffset(WellName(0, k))
		require.NoError(t, err)
		assert.InDelta(t, p.WellDistanceXMM, x2-x1, 1e-12)
		assert.Equal(t, y1, y2)
	}
}

func TestWellOffsetRange(t *testing.T) {
	p := testPlate()
	for row := 0; row < 20; row++ {
		for col := 0; col < 28; col++ {
			_, _, err := p.WellOffset(WellName(row, col))
			if row < p.NumWellsY && col < p.NumWellsX {
				assert.NoError(t, err)
				continue
			}
			assert.True(t, errors.Is(err, schemaerr.ErrRange), "%s: %v", WellName(row, col), err)
		}
	}
}

func TestWellOffsetMalformedNames(t *testing.T) {
	p := testPlate()
	for _, name := range []string{"", "1A", "A", "A1x", "A-1", "Ä1", "A１"} {
		_, _, err := p.WellOffset(name)
		assert.True(t, errors.Is(err, schemaerr.ErrStructural), "%q: %v", name, err)
	}
	_, _, err := p.WellOffset("A0")
	assert.True(t, errors.Is(err, schemaerr.ErrRange))
}

func TestWellCenter(t *testing.T) {
	p := testPlate()
	x, y, err := p.WellCenter("A1")
	require.NoError(t, err)
	assert.Equal(t, 12.0, x)
	assert.Equal(t, 8.75, y)
}

func TestParseWellNameMultiLetterRows(t *testing.T) {
	cases := map[string][2]int{
		"A1":   {0, 0},
		"b3":   {1, 2},
		"Z10":  {25, 9},
		"AA1":  {26, 0},
		"AF48": {31, 47},
		"P007": {15, 6},
	}
	for name, want := range cases {
		row, col, err := ParseWellName(name)
		require.NoError(t, err, name)
		assert.Equal(t, want[0], row, name)
		assert.Equal(t, want[1], col, name)
	}
}

func TestWellNameRoundTrip(t *testing.T) {
	for row := 0; row < 60; row++ {
		name := WellName(row, 3)
		r, c, err := ParseWellName(name)
		require.NoError(t, err)
		assert.Equal(t, row, r)
		assert.Equal(t, 3, c)
	}
	assert.Equal(t, "A1", WellName(0, 0))
	assert.Equal(t, "AA12", WellName(26, 11))
}

func TestTotalWells(t *testing.T) {
	for _, p := range Default().All() {
		assert.Equal(t, p.NumWellsX*p.NumWellsY, p.TotalWells(), p.ModelID)
	}
	p, ok := Default().Lookup("revvity-384-6057800")
	require.True(t, ok)
	assert.Equal(t, 384, p.TotalWells())
	assert.Equal(t, 0, Wellplate{NumWellsX: -1, NumWellsY: 4}.TotalWells())
}

func TestValidate(t *testing.T) {
	p := testPlate()
	require.NoError(t, p.Validate())

	bad := p
	bad.WellDistanceXMM = -1
	assert.True(t, errors.Is(bad.Validate(), schemaerr.ErrStructural))

	bad = p
	bad.WellEdgeRadiusMM = 2
	assert.Error(t, bad.Validate())

	bad = p
	bad.ModelID = ""
	assert.Error(t, bad.Validate())
}

func TestCatalogRejectsDuplicates(t *testing.T) {
	_, err := NewCatalog(testPlate(), testPlate())
	assert.ErrorContains(t, err, "duplicate model id")
}

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	assert.Equal(t, 16, c.Len())
	assert.Len(t, c.IDs(), c.Len())
	assert.Contains(t, c.Manufacturers(), "Greiner")
	assert.Len(t, c.ByManufacturer("Revvity"), 3)

	_, ok := c.Lookup("nope")
	assert.False(t, ok)
	assert.Panics(t, func() { c.MustLookup("nope") })

	all := c.All()
	all[0].ModelID = "mutated"
	assert.Equal(t, "revvity-96-6055302", c.All()[0].ModelID)
}

func TestFromTree(t *testing.T) {
	v, err := tree.FromValue(testPlate())
	require.NoError(t, err)
	p, err := FromTree(v, "wellplate_type")
	require.NoError(t, err)
	assert.Equal(t, testPlate(), p)

	m := v.(tree.Map)
	m["Num_wells_x"] = "many"
	_, err = FromTree(m, "wellplate_type")
	var fe *schemaerr.FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "wellplate_type.Num_wells_x", fe.Path)
}
