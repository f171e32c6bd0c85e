// Package platemap renders plates, site grids and config listings as text.
package platemap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/slaide/seaconfig/internal/acquisition"
	"github.com/slaide/seaconfig/internal/model"
	"github.com/slaide/seaconfig/internal/wellplate"
)

// FormatTable aligns rows under headers. Columns listed in rightAlignCols are
// right aligned.
func FormatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range rows {
		for i := 0; i < colCount; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if w := displayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(padCell(cell, widths[i], rightAlignCols[i]))
	}
	return strings.TrimRight(b.String(), " ")
}

func padCell(value string, width int, rightAlign bool) string {
	valueWidth := displayWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := width - valueWidth
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}

func mm(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// PlateTable lists catalog plates.
func PlateTable(plates []wellplate.Wellplate) []string {
	headers := []string{"ID", "Manufacturer", "Model", "Wells", "Rows", "Cols", "A1 x", "A1 y", "Pitch x", "Pitch y"}
	rows := make([][]string, 0, len(plates))
	for _, p := range plates {
		rows = append(rows, []string{
			p.ModelID,
			p.Manufacturer,
			p.ModelName,
			strconv.Itoa(p.TotalWells()),
			strconv.Itoa(p.NumWellsY),
			strconv.Itoa(p.NumWellsX),
			mm(p.OffsetA1XMM),
			mm(p.OffsetA1YMM),
			mm(p.WellDistanceXMM),
			mm(p.WellDistanceYMM),
		})
	}
	return FormatTable(headers, rows, map[int]bool{3: true, 4: true, 5: true, 6: true, 7: true, 8: true, 9: true})
}

// PlateDetails lists every geometry field of one plate.
func PlateDetails(p wellplate.Wellplate) []string {
	rows := [][]string{
		{"Manufacturer", p.Manufacturer},
		{"Model", p.ModelName},
		{"Manufacturer id", p.ModelIDManufacturer},
		{"Id", p.ModelID},
		{"Wells", fmt.Sprintf("%d (%d rows x %d columns)", p.TotalWells(), p.NumWellsY, p.NumWellsX)},
		{"Plate size", fmt.Sprintf("%s x %s mm", mm(p.LengthMM), mm(p.WidthMM))},
		{"A1 offset", fmt.Sprintf("%s, %s mm", mm(p.OffsetA1XMM), mm(p.OffsetA1YMM))},
		{"Well distance", fmt.Sprintf("%s, %s mm", mm(p.WellDistanceXMM), mm(p.WellDistanceYMM))},
		{"Well size", fmt.Sprintf("%s x %s mm", mm(p.WellSizeXMM), mm(p.WellSizeYMM))},
		{"Edge radius", mm(p.WellEdgeRadiusMM) + " mm"},
		{"Bottom offset", mm(p.OffsetBottomMM) + " mm"},
	}
	return FormatTable(nil, rows, nil)
}

// ChannelTable lists the channels of a config.
func ChannelTable(channels []acquisition.Channel) []string {
	headers := []string{"Handle", "Name", "Illum %", "Exposure ms", "Gain", "Z offset um", "Planes", "Z step um", "Enabled"}
	rows := make([][]string, 0, len(channels))
	for _, c := range channels {
		enabled := "yes"
		if !c.Enabled {
			enabled = "no"
		}
		rows = append(rows, []string{
			c.Handle,
			c.Name,
			strconv.FormatFloat(c.IllumPerc, 'g', -1, 64),
			strconv.FormatFloat(c.ExposureTimeMS, 'g', -1, 64),
			strconv.FormatFloat(c.AnalogGain, 'g', -1, 64),
			strconv.FormatFloat(c.ZOffsetUM, 'g', -1, 64),
			strconv.Itoa(c.NumZ),
			strconv.FormatFloat(c.DeltaZUM, 'g', -1, 64),
			enabled,
		})
	}
	return FormatTable(headers, rows, map[int]bool{2: true, 3: true, 4: true, 5: true, 6: true, 7: true})
}

// SummaryTable lists stored configs.
func SummaryTable(summaries []model.ConfigSummary) []string {
	headers := []string{"ID", "Project", "Plate", "Cell line", "Wellplate", "Version", "Wells", "Images", "Saved"}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.ID,
			s.ProjectName,
			s.PlateName,
			s.CellLine,
			s.Wellplate,
			s.SpecVersion,
			strconv.Itoa(s.Wells),
			strconv.Itoa(s.Images),
			s.SavedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	return FormatTable(headers, rows, map[int]bool{6: true, 7: true})
}
