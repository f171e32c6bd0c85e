package platemap

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/slaide/seaconfig/internal/acquisition"
	"github.com/slaide/seaconfig/internal/wellplate"
)

const terminalWidthBackup = 80

// Cell markers.
const (
	MarkSelected   = "●"
	MarkUnselected = "○"
	MarkAbsent     = "·"
)

// TerminalWidth returns the width of the terminal on stdout, or 80.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

type cellState int

const (
	absent cellState = iota
	unselected
	selected
)

func (s cellState) mark() string {
	switch s {
	case selected:
		return MarkSelected
	case unselected:
		return MarkUnselected
	default:
		return MarkAbsent
	}
}

// drawGrid renders rows x cols cells under a header of 1-based column numbers,
// clipping columns that do not fit in width.
func drawGrid(rows, cols int, rowLabel func(int) string, state func(row, col int) cellState, width int) []string {
	if rows <= 0 || cols <= 0 {
		return nil
	}
	labelWidth := 0
	for r := 0; r < rows; r++ {
		labelWidth = max(labelWidth, displayWidth(rowLabel(r)))
	}
	cellWidth := max(len(strconv.Itoa(cols)), displayWidth(MarkSelected))

	shown := cols
	if width > 0 {
		fit := (width - labelWidth) / (cellWidth + 1)
		shown = min(cols, max(fit, 1))
	}

	var header strings.Builder
	header.WriteString(strings.Repeat(" ", labelWidth))
	for c := 0; c < shown; c++ {
		header.WriteByte(' ')
		header.WriteString(padCell(strconv.Itoa(c+1), cellWidth, true))
	}
	lines := []string{header.String()}
	for r := 0; r < rows; r++ {
		var b strings.Builder
		b.WriteString(padCell(rowLabel(r), labelWidth, false))
		for c := 0; c < shown; c++ {
			b.WriteByte(' ')
			b.WriteString(padCell(state(r, c).mark(), cellWidth, true))
		}
		lines = append(lines, b.String())
	}
	if shown < cols {
		lines = append(lines, fmt.Sprintf("(%d of %d columns shown)", shown, cols))
	}
	return lines
}

// WellMap draws the plate with each listed well marked selected or not.
func WellMap(plate wellplate.Wellplate, wells []acquisition.Well, width int) []string {
	states := make(map[[2]int]cellState, len(wells))
	for _, w := range wells {
		s := unselected
		if w.Selected {
			s = selected
		}
		states[[2]int{w.Row, w.Col}] = s
	}
	return drawGrid(plate.NumWellsY, plate.NumWellsX, wellplate.RowName, func(r, c int) cellState {
		return states[[2]int{r, c}]
	}, width)
}

// SiteMask draws the site grid of one well.
func SiteMask(grid acquisition.SiteGrid, width int) []string {
	states := make(map[[2]int]cellState, len(grid.Mask))
	for _, c := range grid.Mask {
		s := unselected
		if c.Selected {
			s = selected
		}
		states[[2]int{c.Row, c.Col}] = s
	}
	return drawGrid(grid.NumY, grid.NumX, strconv.Itoa, func(r, c int) cellState {
		return states[[2]int{r, c}]
	}, width)
}
