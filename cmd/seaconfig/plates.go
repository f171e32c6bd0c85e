package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slaide/seaconfig/internal/platemap"
	"github.com/slaide/seaconfig/internal/wellplate"
)

var platesManufacturer string

func newPlatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plates",
		Short: "List known wellplates",
		Args:  cobra.NoArgs,
		RunE:  runPlatesCmd,
	}
	cmd.Flags().StringVar(&platesManufacturer, "manufacturer", "", "only list plates of this manufacturer")
	return cmd
}

func runPlatesCmd(cmd *cobra.Command, _ []string) error {
	catalog := wellplate.Default()
	plates := catalog.All()
	if platesManufacturer != "" {
		plates = catalog.ByManufacturer(platesManufacturer)
		if len(plates) == 0 {
			return fmt.Errorf("unknown manufacturer %q (known: %s)",
				platesManufacturer, strings.Join(catalog.Manufacturers(), ", "))
		}
	}
	return writeLines(cmd, platemap.PlateTable(plates))
}

func newPlateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plate <id>",
		Short: "Show the geometry of one wellplate",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlateCmd,
	}
}

func runPlateCmd(cmd *cobra.Command, args []string) error {
	plate, err := lookupPlate(args[0])
	if err != nil {
		return err
	}
	lines := platemap.PlateDetails(plate)
	lines = append(lines, "")
	lines = append(lines, platemap.WellMap(plate, nil, platemap.TerminalWidth())...)
	return writeLines(cmd, lines)
}

func newOffsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "offset <plate-id> <well>...",
		Short: "Print well positions in plate coordinates (mm)",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runOffsetCmd,
	}
}

func runOffsetCmd(cmd *cobra.Command, args []string) error {
	plate, err := lookupPlate(args[0])
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(args)-1)
	for _, name := range args[1:] {
		x, y, err := plate.WellOffset(name)
		if err != nil {
			return err
		}
		cx, cy, err := plate.WellCenter(name)
		if err != nil {
			return err
		}
		rows = append(rows, []string{
			strings.ToUpper(name),
			formatMM(x),
			formatMM(y),
			formatMM(cx),
			formatMM(cy),
		})
	}
	headers := []string{"Well", "Corner x", "Corner y", "Centre x", "Centre y"}
	return writeLines(cmd, platemap.FormatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true}))
}

func lookupPlate(id string) (wellplate.Wellplate, error) {
	catalog := wellplate.Default()
	plate, ok := catalog.Lookup(id)
	if !ok {
		return wellplate.Wellplate{}, fmt.Errorf("unknown wellplate %q (run: seaconfig plates)", id)
	}
	return plate, nil
}

func formatMM(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
