package platemap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slaide/seaconfig/internal/acquisition"
	"github.com/slaide/seaconfig/internal/wellplate"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Handle", "Illum %", "Planes"}
	rows := [][]string{
		{"fluo405", "20", "3"},
		{"bfledfull", "7.5", "12"},
	}
	lines := FormatTable(headers, rows, map[int]bool{1: true, 2: true})
	require.Len(t, lines, 3)
	assert.Equal(t, "Handle    Illum % Planes", lines[0])
	assert.Equal(t, "fluo405        20      3", lines[1])
	assert.Equal(t, "bfledfull     7.5     12", lines[2])
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := FormatTable([]string{"Mark", "n"}, [][]string{{"細胞", "1"}}, nil)
	require.Len(t, lines, 2)
	assert.Equal(t, "Mark n", lines[0])
	assert.Equal(t, "細胞 1", lines[1])
}

func smallPlate() wellplate.Wellplate {
	return wellplate.Wellplate{ModelID: "small", NumWellsX: 12, NumWellsY: 3}
}

func TestWellMap(t *testing.T) {
	wells := []acquisition.Well{
		{Row: 0, Col: 0, Selected: true},
		{Row: 2, Col: 11, Selected: false},
	}
	lines := WellMap(smallPlate(), wells, 0)
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "   1  2"))
	assert.True(t, strings.HasSuffix(lines[0], "12"))
	assert.True(t, strings.HasPrefix(lines[1], "A  "+MarkSelected))
	assert.True(t, strings.HasSuffix(lines[3], MarkUnselected))
	assert.Equal(t, 12, strings.Count(lines[2], MarkAbsent))
}

func TestWellMapClipsToWidth(t *testing.T) {
	lines := WellMap(smallPlate(), nil, 1+3*5)
	require.Len(t, lines, 5)
	assert.Equal(t, "(5 of 12 columns shown)", lines[4])
	assert.Equal(t, 5, strings.Count(lines[1], MarkAbsent))
}

func TestSiteMask(t *testing.T) {
	grid := acquisition.SiteGrid{NumX: 2, NumY: 2, Mask: []acquisition.MaskCell{
		{Row: 0, Col: 0, Selected: true},
		{Row: 0, Col: 1, Selected: false},
		{Row: 1, Col: 0, Selected: true},
		{Row: 1, Col: 1, Selected: true},
	}}
	lines := SiteMask(grid, 80)
	require.Len(t, lines, 3)
	assert.Equal(t, "  1 2", lines[0])
	assert.Equal(t, "0 "+MarkSelected+" "+MarkUnselected, lines[1])

	assert.Nil(t, SiteMask(acquisition.SiteGrid{}, 80))
}

func TestPlateTableListsCatalog(t *testing.T) {
	lines := PlateTable(wellplate.Default().All())
	assert.Len(t, lines, wellplate.Default().Len()+1)
	assert.Contains(t, lines[0], "Manufacturer")
}

func TestTerminalWidthFallback(t *testing.T) {
	assert.Positive(t, TerminalWidth())
}
