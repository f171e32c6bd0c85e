package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/slaide/seaconfig/internal/acquisition"
	"github.com/slaide/seaconfig/internal/configitem"
	"github.com/slaide/seaconfig/internal/machineui"
	"github.com/slaide/seaconfig/internal/model"
	"github.com/slaide/seaconfig/internal/platemap"
	"github.com/slaide/seaconfig/internal/wellplate"
)

const (
	defaultPlateID      = "revvity-96-6055302"
	defaultSites        = "1x1"
	defaultSiteDistance = 0.9
	defaultTimepoints   = 1
)

var (
	newProject      string
	newPlateName    string
	newCellLine     string
	newPlate        string
	newWells        string
	newSites        string
	newSiteDistance float64
	newTimepoints   int
	newInterval     time.Duration
	newChannels     []string
	newAutofocus    bool
	newComment      string
	newOut          string
	newYAML         bool

	validateRequire string

	upgradeOut  string
	upgradeYAML bool

	machineSets []string
	machineOut  string
)

func newNewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create an acquisition config",
		Args:  cobra.NoArgs,
		RunE:  runNewCmd,
	}
	cmd.Flags().StringVar(&newProject, "project", "", "project name")
	cmd.Flags().StringVar(&newPlateName, "plate-name", "", "name of the physical plate")
	cmd.Flags().StringVar(&newCellLine, "cell-line", "", "cell line")
	cmd.Flags().StringVar(&newPlate, "plate", defaultPlateID, "wellplate catalog id")
	cmd.Flags().StringVar(&newWells, "wells", "", "comma separated wells to image, e.g. A1,B02")
	cmd.Flags().StringVar(&newSites, "sites", defaultSites, "sites per well as <x>x<y>")
	cmd.Flags().Float64Var(&newSiteDistance, "site-distance", defaultSiteDistance, "distance between sites (mm)")
	cmd.Flags().IntVar(&newTimepoints, "timepoints", defaultTimepoints, "number of time points")
	cmd.Flags().DurationVar(&newInterval, "interval", 0, "time between time points")
	cmd.Flags().StringArrayVar(&newChannels, "channel", nil, "channel as handle[:illum%[:exposure ms[:gain]]], repeatable")
	cmd.Flags().BoolVar(&newAutofocus, "autofocus", false, "enable autofocus")
	cmd.Flags().StringVar(&newComment, "comment", "", "free text comment")
	cmd.Flags().StringVar(&newOut, "out", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&newYAML, "yaml", false, "write YAML instead of JSON")
	return cmd
}

func runNewCmd(cmd *cobra.Command, _ []string) error {
	defaults := model.Defaults{Wellplate: newPlate, Project: newProject, CellLine: newCellLine, Autofocus: newAutofocus}
	applyStringConfig(cmd, "project", &defaults.Project, fileCfg.Defaults.Project)
	applyStringConfig(cmd, "cell-line", &defaults.CellLine, fileCfg.Defaults.CellLine)
	applyStringConfig(cmd, "plate", &defaults.Wellplate, fileCfg.Defaults.Wellplate)
	applyBoolConfig(cmd, "autofocus", &defaults.Autofocus, fileCfg.Defaults.Autofocus)

	plate, err := lookupPlate(defaults.Wellplate)
	if err != nil {
		return err
	}
	numX, numY, err := parseSites(newSites)
	if err != nil {
		return err
	}
	if newTimepoints < 1 {
		return fmt.Errorf("--timepoints must be >= 1")
	}
	wells, err := parseWells(newWells)
	if err != nil {
		return err
	}
	channels := make([]acquisition.Channel, 0, len(newChannels))
	for _, arg := range newChannels {
		ch, err := parseChannel(arg)
		if err != nil {
			return err
		}
		channels = append(channels, ch)
	}
	machine, err := fileCfg.MachineItems()
	if err != nil {
		return err
	}

	now := time.Now()
	draft := acquisition.AcquisitionConfig{
		ProjectName: defaults.Project,
		PlateName:   newPlateName,
		CellLine:    defaults.CellLine,
		Grid: acquisition.SiteGrid{
			NumX:     numX,
			DeltaXMM: newSiteDistance,
			NumY:     numY,
			DeltaYMM: newSiteDistance,
			NumT:     newTimepoints,
			DeltaT:   acquisition.DeltaTimeOf(newInterval),
		},
		WellplateType:    acquisition.PlateID(plate.ModelID),
		PlateWells:       wells,
		Channels:         channels,
		AutofocusEnabled: defaults.Autofocus,
		MachineConfig:    machine,
		Timestamp:        &now,
	}
	if newComment != "" {
		draft.Comment = &newComment
	}
	cfg, err := acquisition.New(draft)
	if err != nil {
		return err
	}
	if err := cfg.ValidateAgainst(plate); err != nil {
		return err
	}
	return writeConfig(cmd, cfg, newOut, newYAML)
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a config document of any schema version",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidateCmd,
	}
	cmd.Flags().StringVar(&validateRequire, "require", "", "fail if the document schema is older than this version")
	return cmd
}

func runValidateCmd(cmd *cobra.Command, args []string) error {
	var required acquisition.Version
	if validateRequire != "" {
		v, err := acquisition.ParseVersion(validateRequire)
		if err != nil {
			return fmt.Errorf("invalid --require value: %w", err)
		}
		if acquisition.CurrentVersion.Less(v) {
			return fmt.Errorf("invalid --require value: %s is newer than supported %s", v, acquisition.CurrentVersion)
		}
		required = v
	}
	res, err := readConfigFile(args[0])
	if err != nil {
		return err
	}
	if _, err := checkPlate(res.Config); err != nil {
		return err
	}
	if res.SourceVersion.Less(required) {
		return fmt.Errorf("%s: schema %s is older than required %s", args[0], res.SourceVersion, required)
	}
	lines := []string{fmt.Sprintf("%s: valid, schema %s", args[0], res.SourceVersion)}
	if res.Migrated() {
		lines = append(lines, fmt.Sprintf("upgrade to %s would apply:", acquisition.CurrentVersion))
		for _, change := range res.Changes {
			lines = append(lines, "  "+change)
		}
	}
	return writeLines(cmd, lines)
}

func newUpgradeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upgrade <file>",
		Short: "Rewrite a config document in the current schema",
		Args:  cobra.ExactArgs(1),
		RunE:  runUpgradeCmd,
	}
	cmd.Flags().StringVar(&upgradeOut, "out", "", `output file, "-" for stdout (default: timestamped copy next to the input)`)
	cmd.Flags().BoolVar(&upgradeYAML, "yaml", false, "write YAML instead of JSON")
	return cmd
}

func runUpgradeCmd(cmd *cobra.Command, args []string) error {
	res, err := readConfigFile(args[0])
	if err != nil {
		return err
	}
	if _, err := checkPlate(res.Config); err != nil {
		return err
	}
	for _, change := range res.Changes {
		logErrln(change)
	}
	if upgradeOut != "" {
		return writeConfig(cmd, res.Config.Upgrade(), upgradeOut, upgradeYAML)
	}
	out := upgradedPath(args[0], time.Now(), upgradeYAML)
	if err := writeConfig(cmd, res.Config.Upgrade(), out, upgradeYAML); err != nil {
		return err
	}
	return writeLines(cmd, []string{out})
}

// upgradedPath names the upgraded copy of in, e.g. plate.json becomes
// plate_2024-01-02_03.04.05.json.
func upgradedPath(in string, at time.Time, asYAML bool) string {
	ext := ".json"
	if asYAML {
		ext = ".yaml"
	}
	stem := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	return filepath.Join(filepath.Dir(in), stem+"_"+acquisition.FormatFileTimestamp(at)+ext)
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>",
		Short: "Summarise a config document",
		Args:  cobra.ExactArgs(1),
		RunE:  runShowCmd,
	}
}

func runShowCmd(cmd *cobra.Command, args []string) error {
	res, err := readConfigFile(args[0])
	if err != nil {
		return err
	}
	plate, err := checkPlate(res.Config)
	if err != nil {
		return err
	}
	return writeLines(cmd, describeConfig(res, plate, platemap.TerminalWidth()))
}

func describeConfig(res acquisition.ParseResult, plate wellplate.Wellplate, width int) []string {
	cfg := res.Config
	schema := cfg.Version.String()
	if res.Migrated() {
		schema += fmt.Sprintf(" (reads as %s)", acquisition.CurrentVersion)
	}
	timestamp := "-"
	if cfg.Timestamp != nil {
		timestamp = acquisition.FormatTimestamp(*cfg.Timestamp)
	}
	comment := "-"
	if cfg.Comment != nil {
		comment = *cfg.Comment
	}
	grid := cfg.Grid
	summary := [][]string{
		{"Project", cfg.ProjectName},
		{"Plate", cfg.PlateName},
		{"Cell line", cfg.CellLine},
		{"Wellplate", cfg.WellplateType.String()},
		{"Schema", schema},
		{"Timestamp", timestamp},
		{"Wells", fmt.Sprintf("%d of %d", len(cfg.SelectedWells()), plate.TotalWells())},
		{"Sites", fmt.Sprintf("%d of %dx%d, %.2f x %.2f mm", cfg.SiteCount(), grid.NumX, grid.NumY, grid.DeltaXMM, grid.DeltaYMM)},
		{"Time points", fmt.Sprintf("%d every %s", grid.NumT, grid.DeltaT.Duration())},
		{"Autofocus", yesNo(cfg.AutofocusEnabled)},
		{"Images", strconv.Itoa(cfg.ImageCount())},
		{"Comment", comment},
	}
	lines := platemap.FormatTable(nil, summary, nil)
	lines = append(lines, "")
	lines = append(lines, platemap.WellMap(plate, cfg.PlateWells, width)...)
	lines = append(lines, "", "Sites:")
	lines = append(lines, platemap.SiteMask(grid, width)...)
	if len(cfg.Channels) > 0 {
		lines = append(lines, "")
		lines = append(lines, platemap.ChannelTable(cfg.Channels)...)
	}
	if len(cfg.MachineConfig) > 0 {
		lines = append(lines, "")
		lines = append(lines, machineTable(cfg.MachineConfig)...)
	}
	return lines
}

func machineTable(items []configitem.Item) []string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		flag := ""
		if it.Frozen {
			flag = "frozen"
		}
		rows = append(rows, []string{it.Handle, it.Name, string(it.Kind()), it.FormatValue(), flag})
	}
	return platemap.FormatTable([]string{"Handle", "Setting", "Kind", "Value", ""}, rows, nil)
}

func newMachineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "machine <file>",
		Short: "Edit the machine settings of a config",
		Long: "Edit the machine settings of a config. Without --set an interactive editor opens.\n" +
			"The result is written in the current schema.",
		Args: cobra.ExactArgs(1),
		RunE: runMachineCmd,
	}
	cmd.Flags().StringArrayVar(&machineSets, "set", nil, "override a setting as handle=value, repeatable")
	cmd.Flags().StringVar(&machineOut, "out", "", "output file (default: overwrite the input)")
	return cmd
}

func runMachineCmd(cmd *cobra.Command, args []string) error {
	path := args[0]
	res, err := readConfigFile(path)
	if err != nil {
		return err
	}
	cfg := res.Config

	var items []configitem.Item
	if len(machineSets) > 0 {
		items, err = applySets(cfg.MachineConfig, machineSets)
		if err != nil {
			return err
		}
	} else {
		if len(cfg.MachineConfig) == 0 {
			return fmt.Errorf("%s has no machine settings", path)
		}
		editor := machineui.NewModel(cfg.ProjectName+" / "+cfg.PlateName, cfg.MachineConfig)
		program := tea.NewProgram(editor, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run machine editor: %w", err)
		}
		var accepted bool
		items, accepted = editor.Result()
		if !accepted {
			logErrln("cancelled, nothing written")
			return nil
		}
	}

	cfg.MachineConfig = items
	out := machineOut
	if out == "" {
		out = path
	}
	return writeConfig(cmd, cfg.Upgrade(), out, isYAMLPath(out))
}

// applySets parses handle=value overrides against the kinds of items.
func applySets(items []configitem.Item, sets []string) ([]configitem.Item, error) {
	overrides := make([]configitem.Item, 0, len(sets))
	for _, set := range sets {
		handle, text, ok := strings.Cut(set, "=")
		handle = strings.TrimSpace(handle)
		if !ok || handle == "" {
			return nil, fmt.Errorf("invalid --set %q, want handle=value", set)
		}
		target, ok := configitem.Find(items, handle)
		if !ok {
			return nil, fmt.Errorf("no machine setting %q", handle)
		}
		if target.Frozen {
			return nil, fmt.Errorf("machine setting %q is frozen", handle)
		}
		v, err := configitem.ParseValueFor(target.Kind(), strings.TrimSpace(text))
		if err != nil {
			return nil, fmt.Errorf("machine setting %q: %w", handle, err)
		}
		o, err := configitem.New(target.Name, handle, target.Kind(), v, target.Options)
		if err != nil {
			return nil, fmt.Errorf("machine setting %q: %w", handle, err)
		}
		overrides = append(overrides, o)
	}
	return configitem.Merge(items, overrides)
}

func readConfigFile(path string) (acquisition.ParseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return acquisition.ParseResult{}, fmt.Errorf("failed to read config: %w", err)
	}
	var res acquisition.ParseResult
	if isYAMLPath(path) {
		res, err = acquisition.ParseYAML(data)
	} else {
		res, err = acquisition.Parse(data)
	}
	if err != nil {
		return acquisition.ParseResult{}, fmt.Errorf("%s: %w", path, err)
	}
	if res.Migrated() {
		logger.Debug().
			Str("path", path).
			Str("from", res.SourceVersion.String()).
			Strs("changes", res.Changes).
			Msg("migrated document")
	}
	return res, nil
}

// checkPlate resolves the wellplate and checks the wells against it.
func checkPlate(cfg acquisition.AcquisitionConfig) (wellplate.Wellplate, error) {
	plate, err := cfg.WellplateType.Resolve(wellplate.Default())
	if err != nil {
		return wellplate.Wellplate{}, err
	}
	if err := cfg.ValidateAgainst(plate); err != nil {
		return wellplate.Wellplate{}, err
	}
	return plate, nil
}

func writeConfig(cmd *cobra.Command, cfg acquisition.AcquisitionConfig, out string, asYAML bool) error {
	var data []byte
	var err error
	if asYAML {
		data, err = acquisition.EncodeYAML(cfg)
	} else {
		data, err = acquisition.EncodeJSON(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if out == "" || out == "-" {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if err := writeFileAtomic(out, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	logger.Info().Str("path", out).Str("version", cfg.Version.String()).Msg("wrote config")
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".seaconfig-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmpFile.Write(data); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// parseSites reads a site grid size such as "3x2".
func parseSites(s string) (numX, numY int, err error) {
	xs, ys, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid --sites %q, want <x>x<y>", s)
	}
	numX, errX := strconv.Atoi(xs)
	numY, errY := strconv.Atoi(ys)
	if errX != nil || errY != nil || numX < 1 || numY < 1 {
		return 0, 0, fmt.Errorf("invalid --sites %q, want two positive counts", s)
	}
	return numX, numY, nil
}

// parseWells reads a comma separated list of well names.
func parseWells(s string) ([]acquisition.Well, error) {
	var wells []acquisition.Well
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		w, err := acquisition.WellByName(part)
		if err != nil {
			return nil, fmt.Errorf("invalid well %q: %w", part, err)
		}
		wells = append(wells, w)
	}
	return wells, nil
}

// parseChannel reads handle[:illum[:exposure[:gain]]]. Missing numbers keep
// the channel defaults of 100 %, 10 ms and gain 0.
func parseChannel(s string) (acquisition.Channel, error) {
	parts := strings.Split(s, ":")
	handle := strings.TrimSpace(parts[0])
	if handle == "" || len(parts) > 4 {
		return acquisition.Channel{}, fmt.Errorf("invalid --channel %q", s)
	}
	values := []float64{100, 10, 0}
	for i, p := range parts[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return acquisition.Channel{}, fmt.Errorf("invalid --channel %q: %w", s, err)
		}
		values[i] = v
	}
	ch := acquisition.NewChannel(handle, handle, values[0], values[1], values[2])
	if err := ch.Validate(); err != nil {
		return acquisition.Channel{}, fmt.Errorf("invalid --channel %q: %w", s, err)
	}
	return ch, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
